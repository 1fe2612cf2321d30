package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Danamat07/split-the-bill/internal/models"
	"github.com/Danamat07/split-the-bill/internal/storage"
)

// CreateUser persists a user record, rewriting any existing record for the UID.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.UID == "" {
		return fmt.Errorf("user uid is required")
	}

	var phone interface{}
	if user.Phone != "" {
		phone = user.Phone
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (uid, name, email, phone) VALUES (?, ?, ?, ?)
		 ON CONFLICT(uid) DO UPDATE SET name = excluded.name, email = excluded.email, phone = excluded.phone`,
		user.UID, user.Name, user.Email, phone,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetUser retrieves a user by UID.
func (s *SQLiteStore) GetUser(ctx context.Context, uid string) (*models.User, error) {
	user := &models.User{}
	var phone sql.NullString

	err := s.db.QueryRowContext(ctx,
		"SELECT uid, name, email, phone FROM users WHERE uid = ?",
		uid,
	).Scan(&user.UID, &user.Name, &user.Email, &phone)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %s: %w", uid, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if phone.Valid {
		user.Phone = phone.String
	}

	return user, nil
}

// ListUsers retrieves the users for the given UIDs. Missing UIDs are omitted.
func (s *SQLiteStore) ListUsers(ctx context.Context, uids []string) ([]*models.User, error) {
	if len(uids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(uids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]interface{}, len(uids))
	for i, uid := range uids {
		args[i] = uid
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT uid, name, email, phone FROM users WHERE uid IN ("+placeholders+")",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		var phone sql.NullString
		if err := rows.Scan(&user.UID, &user.Name, &user.Email, &phone); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		if phone.Valid {
			user.Phone = phone.String
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}
