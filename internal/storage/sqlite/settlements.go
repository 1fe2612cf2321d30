package sqlite

import (
	"context"
	"fmt"
	"time"
)

// PutSettlement marks an obligation key settled. Re-settling an already
// settled key is a no-op so concurrent togglers converge.
func (s *SQLiteStore) PutSettlement(ctx context.Context, groupID, key string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO settlements (group_id, key, created_at) VALUES (?, ?, ?)",
		groupID, key, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to put settlement: %w", err)
	}

	return nil
}

// DeleteSettlement marks an obligation key outstanding again. Deleting an
// absent key is a no-op.
func (s *SQLiteStore) DeleteSettlement(ctx context.Context, groupID, key string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM settlements WHERE group_id = ? AND key = ?",
		groupID, key,
	)
	if err != nil {
		return fmt.Errorf("failed to delete settlement: %w", err)
	}

	return nil
}

// ListSettledKeys retrieves the complete set of settled obligation keys for a group.
func (s *SQLiteStore) ListSettledKeys(ctx context.Context, groupID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT key FROM settlements WHERE group_id = ?",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settled keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan settled key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settled keys: %w", err)
	}

	return keys, nil
}

// DeleteAllSettlements clears every settlement record for a group.
func (s *SQLiteStore) DeleteAllSettlements(ctx context.Context, groupID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM settlements WHERE group_id = ?",
		groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete settlements: %w", err)
	}

	return nil
}
