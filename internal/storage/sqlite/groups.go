package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Danamat07/split-the-bill/internal/models"
	"github.com/Danamat07/split-the-bill/internal/storage"
)

// CreateGroup persists a new group along with its initial member set.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	// Generate identifiers if not set
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.InviteCode == "" {
		group.InviteCode = uuid.New().String()[:8]
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	var description interface{}
	if group.Description != "" {
		description = group.Description
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO groups (id, name, description, admin_uid, currency, invite_code, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		group.ID, group.Name, description, group.AdminUID, group.Currency, group.InviteCode, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	for _, uid := range group.Members {
		_, err = tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO group_members (group_id, uid) VALUES (?, ?)",
			group.ID, uid,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetGroup retrieves a group by ID, members included.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return s.getGroup(ctx, "id = ?", groupID)
}

// GetGroupByInviteCode retrieves the group carrying the given invite code.
func (s *SQLiteStore) GetGroupByInviteCode(ctx context.Context, code string) (*models.Group, error) {
	return s.getGroup(ctx, "invite_code = ?", code)
}

func (s *SQLiteStore) getGroup(ctx context.Context, where string, arg interface{}) (*models.Group, error) {
	group := &models.Group{}
	var description sql.NullString

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, description, admin_uid, currency, invite_code, created_at FROM groups WHERE "+where,
		arg,
	).Scan(&group.ID, &group.Name, &description, &group.AdminUID, &group.Currency, &group.InviteCode, &group.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("group %v: %w", arg, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	if description.Valid {
		group.Description = description.String
	}

	members, err := s.groupMembers(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	group.Members = members

	return group, nil
}

func (s *SQLiteStore) groupMembers(ctx context.Context, groupID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT uid FROM group_members WHERE group_id = ? ORDER BY uid",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		members = append(members, uid)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group members: %w", err)
	}

	return members, nil
}

// ListGroupsByMember retrieves all groups the user belongs to.
func (s *SQLiteStore) ListGroupsByMember(ctx context.Context, uid string) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.id FROM groups g
		 JOIN group_members m ON m.group_id = g.id
		 WHERE m.uid = ? ORDER BY g.created_at`,
		uid,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups by member: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan group id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	var groups []*models.Group
	for _, id := range ids {
		group, err := s.GetGroup(ctx, id)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}

	return groups, nil
}

// AddGroupMember adds uid to the group's member set. Adding an existing
// member is a no-op, mirroring array-union semantics.
func (s *SQLiteStore) AddGroupMember(ctx context.Context, groupID, uid string) error {
	if _, err := s.GetGroup(ctx, groupID); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO group_members (group_id, uid) VALUES (?, ?)",
		groupID, uid,
	)
	if err != nil {
		return fmt.Errorf("failed to add group member: %w", err)
	}

	return nil
}

// RemoveGroupMember removes uid from the group's member set. Removing an
// absent member is a no-op, mirroring array-remove semantics.
func (s *SQLiteStore) RemoveGroupMember(ctx context.Context, groupID, uid string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM group_members WHERE group_id = ? AND uid = ?",
		groupID, uid,
	)
	if err != nil {
		return fmt.Errorf("failed to remove group member: %w", err)
	}

	return nil
}
