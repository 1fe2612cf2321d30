package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"testing"

	"github.com/Danamat07/split-the-bill/internal/models"
	"github.com/Danamat07/split-the-bill/internal/storage"
)

func setupStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func createTestGroup(t *testing.T, store *SQLiteStore, members ...string) *models.Group {
	t.Helper()

	if len(members) == 0 {
		members = []string{"u1"}
	}
	group := &models.Group{
		Name:     "Trip",
		AdminUID: members[0],
		Currency: "RON",
		Members:  members,
	}
	if err := store.CreateGroup(context.Background(), group); err != nil {
		t.Fatalf("failed to create group: %v", err)
	}
	return group
}

func TestUserRoundTrip(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	user := &models.User{UID: "u1", Name: "Alice", Email: "alice@example.com"}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	got, err := store.GetUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if got.Name != "Alice" || got.Email != "alice@example.com" {
		t.Errorf("got user %+v", got)
	}

	// Re-creating the same UID rewrites the record.
	user.Name = "Alice B"
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser (rewrite) failed: %v", err)
	}
	got, err = store.GetUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetUser after rewrite failed: %v", err)
	}
	if got.Name != "Alice B" {
		t.Errorf("expected rewritten name, got %q", got.Name)
	}
}

func TestGetUserNotFound(t *testing.T) {
	store := setupStore(t)

	_, err := store.GetUser(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListUsersOmitsMissing(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	for _, u := range []*models.User{
		{UID: "u1", Name: "Alice"},
		{UID: "u2", Name: "Bob"},
	} {
		if err := store.CreateUser(ctx, u); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
	}

	users, err := store.ListUsers(ctx, []string{"u1", "ghost", "u2"})
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
}

func TestGroupRoundTrip(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	group := createTestGroup(t, store, "u1", "u2")
	if group.ID == "" || group.InviteCode == "" {
		t.Fatalf("expected populated ID and invite code, got %+v", group)
	}

	got, err := store.GetGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if got.AdminUID != "u1" || got.Currency != "RON" {
		t.Errorf("got group %+v", got)
	}
	if len(got.Members) != 2 {
		t.Errorf("expected 2 members, got %v", got.Members)
	}

	byCode, err := store.GetGroupByInviteCode(ctx, group.InviteCode)
	if err != nil {
		t.Fatalf("GetGroupByInviteCode failed: %v", err)
	}
	if byCode.ID != group.ID {
		t.Errorf("invite code resolved to wrong group: %s", byCode.ID)
	}
}

func TestGroupMembership(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	group := createTestGroup(t, store, "u1")

	if err := store.AddGroupMember(ctx, group.ID, "u2"); err != nil {
		t.Fatalf("AddGroupMember failed: %v", err)
	}
	// Adding again is a no-op.
	if err := store.AddGroupMember(ctx, group.ID, "u2"); err != nil {
		t.Fatalf("AddGroupMember (repeat) failed: %v", err)
	}

	groups, err := store.ListGroupsByMember(ctx, "u2")
	if err != nil {
		t.Fatalf("ListGroupsByMember failed: %v", err)
	}
	if len(groups) != 1 || groups[0].ID != group.ID {
		t.Fatalf("expected 1 group for u2, got %v", groups)
	}

	if err := store.RemoveGroupMember(ctx, group.ID, "u2"); err != nil {
		t.Fatalf("RemoveGroupMember failed: %v", err)
	}
	groups, err = store.ListGroupsByMember(ctx, "u2")
	if err != nil {
		t.Fatalf("ListGroupsByMember after removal failed: %v", err)
	}
	if len(groups) != 0 {
		t.Errorf("expected no groups for u2, got %v", groups)
	}
}

func TestAddMemberToMissingGroup(t *testing.T) {
	store := setupStore(t)

	err := store.AddGroupMember(context.Background(), "missing", "u1")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestExpenseRoundTrip(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	group := createTestGroup(t, store, "u1", "u2", "u3")

	expense := &models.Expense{
		GroupID:               group.ID,
		Title:                 "Dinner",
		AmountRaw:             90,
		CurrencyCode:          "RON",
		AmountInGroupCurrency: 90,
		PayerUID:              "u1",
		Participants:          []string{"u1", "u2", "u3"},
	}
	if err := store.CreateExpense(ctx, expense); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	if expense.ID == "" || expense.CreatedAt == 0 {
		t.Fatalf("expected populated ID and timestamp, got %+v", expense)
	}

	expenses, err := store.ListExpenses(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(expenses) != 1 {
		t.Fatalf("expected 1 expense, got %d", len(expenses))
	}
	got := expenses[0]
	if got.Title != "Dinner" || got.AmountRaw != 90 || got.PayerUID != "u1" {
		t.Errorf("got expense %+v", got)
	}
	if len(got.Participants) != 3 || got.Participants[0] != "u1" {
		t.Errorf("participant order not preserved: %v", got.Participants)
	}
}

func TestUpdateExpenseRewritesParticipants(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	group := createTestGroup(t, store, "u1", "u2", "u3")

	expense := &models.Expense{
		GroupID:               group.ID,
		Title:                 "Taxi",
		AmountRaw:             40,
		CurrencyCode:          "RON",
		AmountInGroupCurrency: 40,
		PayerUID:              "u1",
		Participants:          []string{"u1", "u2"},
	}
	if err := store.CreateExpense(ctx, expense); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	expense.Title = "Taxi to airport"
	expense.AmountRaw = 60
	expense.AmountInGroupCurrency = 60
	expense.Participants = []string{"u1", "u2", "u3"}
	if err := store.UpdateExpense(ctx, expense); err != nil {
		t.Fatalf("UpdateExpense failed: %v", err)
	}

	expenses, err := store.ListExpenses(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	got := expenses[0]
	if got.Title != "Taxi to airport" || got.AmountRaw != 60 {
		t.Errorf("update not applied: %+v", got)
	}
	if len(got.Participants) != 3 {
		t.Errorf("participants not rewritten: %v", got.Participants)
	}
}

func TestUpdateMissingExpense(t *testing.T) {
	store := setupStore(t)

	group := createTestGroup(t, store)
	err := store.UpdateExpense(context.Background(), &models.Expense{
		ID:      "missing",
		GroupID: group.ID,
		Title:   "Ghost",
	})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteExpense(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	group := createTestGroup(t, store, "u1", "u2")
	expense := &models.Expense{
		GroupID:      group.ID,
		Title:        "Snacks",
		AmountRaw:    10,
		CurrencyCode: "RON",
		PayerUID:     "u1",
		Participants: []string{"u1", "u2"},
	}
	if err := store.CreateExpense(ctx, expense); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	if err := store.DeleteExpense(ctx, group.ID, expense.ID); err != nil {
		t.Fatalf("DeleteExpense failed: %v", err)
	}
	expenses, err := store.ListExpenses(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(expenses) != 0 {
		t.Errorf("expected no expenses, got %d", len(expenses))
	}
}

func TestSettlementPresenceSet(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	group := createTestGroup(t, store)

	if err := store.PutSettlement(ctx, group.ID, "e1_u2_u1"); err != nil {
		t.Fatalf("PutSettlement failed: %v", err)
	}
	// Idempotent.
	if err := store.PutSettlement(ctx, group.ID, "e1_u2_u1"); err != nil {
		t.Fatalf("PutSettlement (repeat) failed: %v", err)
	}
	if err := store.PutSettlement(ctx, group.ID, "e2_u3_u1"); err != nil {
		t.Fatalf("PutSettlement failed: %v", err)
	}

	keys, err := store.ListSettledKeys(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListSettledKeys failed: %v", err)
	}
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "e1_u2_u1" || keys[1] != "e2_u3_u1" {
		t.Fatalf("unexpected keys: %v", keys)
	}

	if err := store.DeleteSettlement(ctx, group.ID, "e1_u2_u1"); err != nil {
		t.Fatalf("DeleteSettlement failed: %v", err)
	}
	// Deleting an absent key is fine.
	if err := store.DeleteSettlement(ctx, group.ID, "never_there"); err != nil {
		t.Fatalf("DeleteSettlement (absent) failed: %v", err)
	}

	keys, err = store.ListSettledKeys(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListSettledKeys failed: %v", err)
	}
	if len(keys) != 1 || keys[0] != "e2_u3_u1" {
		t.Fatalf("unexpected keys after delete: %v", keys)
	}

	if err := store.DeleteAllSettlements(ctx, group.ID); err != nil {
		t.Fatalf("DeleteAllSettlements failed: %v", err)
	}
	keys, err = store.ListSettledKeys(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListSettledKeys after reset failed: %v", err)
	}
	if len(keys) != 0 {
		t.Fatalf("expected empty set after reset, got %v", keys)
	}
}
