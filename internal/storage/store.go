// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/Danamat07/split-the-bill/internal/models"
)

// Store defines the interface for the document store backing the balance
// engine. This abstraction allows swapping backends (SQLite, PostgreSQL, a
// hosted document database, etc.) without changing the service layer.
//
// Settlement records are a presence set: a key is settled iff a record for it
// exists. PutSettlement and DeleteSettlement are idempotent so that repeated
// toggles converge; the shared namespace is multi-writer with last-write-wins.
type Store interface {
	// CreateUser persists a user record. Creating an existing UID rewrites it.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUser retrieves a user by UID. Returns ErrNotFound if absent.
	GetUser(ctx context.Context, uid string) (*models.User, error)

	// ListUsers retrieves the users for the given UIDs. UIDs with no record
	// are silently omitted; callers fall back to the raw UID for display.
	ListUsers(ctx context.Context, uids []string) ([]*models.User, error)

	// CreateGroup persists a new group. ID, InviteCode and CreatedAt are
	// populated by the store when unset.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by ID, members included.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// GetGroupByInviteCode retrieves the group carrying the given invite code.
	GetGroupByInviteCode(ctx context.Context, code string) (*models.Group, error)

	// ListGroupsByMember retrieves all groups the user belongs to.
	ListGroupsByMember(ctx context.Context, uid string) ([]*models.Group, error)

	// AddGroupMember adds uid to the group's member set. No-op if present.
	AddGroupMember(ctx context.Context, groupID, uid string) error

	// RemoveGroupMember removes uid from the group's member set. No-op if absent.
	RemoveGroupMember(ctx context.Context, groupID, uid string) error

	// CreateExpense persists a new expense. ID and CreatedAt are populated by
	// the store when unset.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// UpdateExpense rewrites an existing expense record.
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpense removes an expense by ID.
	DeleteExpense(ctx context.Context, groupID, expenseID string) error

	// ListExpenses retrieves all expenses for a group ordered by creation time.
	ListExpenses(ctx context.Context, groupID string) ([]*models.Expense, error)

	// PutSettlement marks an obligation key settled. Idempotent.
	PutSettlement(ctx context.Context, groupID, key string) error

	// DeleteSettlement marks an obligation key outstanding again. Idempotent.
	DeleteSettlement(ctx context.Context, groupID, key string) error

	// ListSettledKeys retrieves the complete set of settled obligation keys
	// for a group.
	ListSettledKeys(ctx context.Context, groupID string) ([]string, error)

	// DeleteAllSettlements clears every settlement record for a group.
	DeleteAllSettlements(ctx context.Context, groupID string) error

	// Close releases any resources held by the store.
	Close() error
}
