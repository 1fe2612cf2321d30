// Package service implements the business operations behind the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Danamat07/split-the-bill/internal/models"
	"github.com/Danamat07/split-the-bill/internal/storage"
)

// Common service errors.
var (
	ErrNotAdmin      = errors.New("only the group admin may do this")
	ErrNotMember     = errors.New("user is not a member of the group")
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrPayerRequired = errors.New("payer is required")
	ErrNameRequired  = errors.New("name is required")
)

// GroupService manages groups and their member sets.
type GroupService struct {
	store           storage.Store
	defaultCurrency string
}

// NewGroupService creates a new GroupService. defaultCurrency is assigned to
// groups created without one.
func NewGroupService(store storage.Store, defaultCurrency string) *GroupService {
	return &GroupService{store: store, defaultCurrency: defaultCurrency}
}

// Create creates a group with the creator as admin and first member.
func (s *GroupService) Create(ctx context.Context, name, description, adminUID, currency string) (*models.Group, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	if adminUID == "" {
		return nil, fmt.Errorf("admin uid is required")
	}
	if currency == "" {
		currency = s.defaultCurrency
	}

	group := &models.Group{
		Name:        name,
		Description: description,
		AdminUID:    adminUID,
		Currency:    currency,
		Members:     []string{adminUID},
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	slog.Info("Group created", "group_id", group.ID, "admin_uid", adminUID)
	return group, nil
}

// Get retrieves a group by ID.
func (s *GroupService) Get(ctx context.Context, groupID string) (*models.Group, error) {
	return s.store.GetGroup(ctx, groupID)
}

// ListByMember retrieves all groups the user belongs to.
func (s *GroupService) ListByMember(ctx context.Context, uid string) ([]*models.Group, error) {
	return s.store.ListGroupsByMember(ctx, uid)
}

// Join adds the user to the group carrying the invite code. Joining a group
// the user already belongs to is a no-op.
func (s *GroupService) Join(ctx context.Context, inviteCode, uid string) (*models.Group, error) {
	group, err := s.store.GetGroupByInviteCode(ctx, inviteCode)
	if err != nil {
		return nil, err
	}

	if err := s.store.AddGroupMember(ctx, group.ID, uid); err != nil {
		return nil, fmt.Errorf("failed to join group: %w", err)
	}

	slog.Info("Member joined group", "group_id", group.ID, "uid", uid)
	return s.store.GetGroup(ctx, group.ID)
}

// Leave removes the user from the group's member set.
func (s *GroupService) Leave(ctx context.Context, groupID, uid string) error {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if !group.HasMember(uid) {
		return ErrNotMember
	}

	if err := s.store.RemoveGroupMember(ctx, groupID, uid); err != nil {
		return fmt.Errorf("failed to leave group: %w", err)
	}

	slog.Info("Member left group", "group_id", groupID, "uid", uid)
	return nil
}

// RemoveMember removes memberUID from the group. Admin only.
func (s *GroupService) RemoveMember(ctx context.Context, groupID, actorUID, memberUID string) error {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if group.AdminUID != actorUID {
		return ErrNotAdmin
	}

	if err := s.store.RemoveGroupMember(ctx, groupID, memberUID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	slog.Info("Member removed from group", "group_id", groupID, "uid", memberUID, "by", actorUID)
	return nil
}

// UserService manages the user registry used for name and email resolution.
type UserService struct {
	store storage.Store
}

// NewUserService creates a new UserService with the given storage backend.
func NewUserService(store storage.Store) *UserService {
	return &UserService{store: store}
}

// Register persists a user record.
func (s *UserService) Register(ctx context.Context, user *models.User) error {
	if user.UID == "" {
		return fmt.Errorf("user uid is required")
	}
	return s.store.CreateUser(ctx, user)
}

// Get retrieves a user by UID.
func (s *UserService) Get(ctx context.Context, uid string) (*models.User, error) {
	return s.store.GetUser(ctx, uid)
}
