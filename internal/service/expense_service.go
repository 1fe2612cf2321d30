package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Danamat07/split-the-bill/internal/currency"
	"github.com/Danamat07/split-the-bill/internal/models"
	"github.com/Danamat07/split-the-bill/internal/storage"
)

// ExpenseService manages expense records. All currency conversion happens
// here, at create/edit time; the converted amount is cached on the record and
// the balance engine only ever reads it.
type ExpenseService struct {
	store     storage.Store
	converter currency.Converter
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(store storage.Store, converter currency.Converter) *ExpenseService {
	return &ExpenseService{store: store, converter: converter}
}

// Create validates, converts and persists a new expense.
//
// An expense with no participants is stored as entered; it simply yields no
// obligations. The payer must be a group member.
func (s *ExpenseService) Create(ctx context.Context, expense *models.Expense) (*models.Expense, error) {
	group, err := s.prepare(ctx, expense)
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	slog.Info("Expense created",
		"expense_id", expense.ID,
		"group_id", expense.GroupID,
		"amount", expense.AmountRaw,
		"currency", expense.CurrencyCode,
		"converted", expense.AmountInGroupCurrency,
		"group_currency", group.Currency,
	)
	return expense, nil
}

// Update revalidates, reconverts and rewrites an existing expense.
// Settlement records keyed on the expense keep their keys: the obligation key
// triple does not change on edit unless the payer or participants change.
func (s *ExpenseService) Update(ctx context.Context, expense *models.Expense) (*models.Expense, error) {
	if expense.ID == "" {
		return nil, fmt.Errorf("expense id is required")
	}
	if _, err := s.prepare(ctx, expense); err != nil {
		return nil, err
	}

	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	slog.Info("Expense updated", "expense_id", expense.ID, "group_id", expense.GroupID)
	return expense, nil
}

// prepare validates the expense against its group and fills in the cached
// group-currency conversion.
func (s *ExpenseService) prepare(ctx context.Context, expense *models.Expense) (*models.Group, error) {
	if expense.AmountRaw <= 0 {
		return nil, ErrInvalidAmount
	}
	if expense.PayerUID == "" {
		return nil, ErrPayerRequired
	}

	group, err := s.store.GetGroup(ctx, expense.GroupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(expense.PayerUID) {
		return nil, ErrNotMember
	}

	if expense.CurrencyCode == "" {
		expense.CurrencyCode = group.Currency
	}

	converted, err := s.converter.Convert(ctx, expense.AmountRaw, expense.CurrencyCode, group.Currency)
	if err != nil {
		return nil, fmt.Errorf("failed to convert %s to %s: %w", expense.CurrencyCode, group.Currency, err)
	}
	expense.AmountInGroupCurrency = converted

	return group, nil
}

// Delete removes an expense.
func (s *ExpenseService) Delete(ctx context.Context, groupID, expenseID string) error {
	if err := s.store.DeleteExpense(ctx, groupID, expenseID); err != nil {
		return err
	}
	slog.Info("Expense deleted", "expense_id", expenseID, "group_id", groupID)
	return nil
}

// List retrieves the group's expenses ordered by creation time.
func (s *ExpenseService) List(ctx context.Context, groupID string) ([]*models.Expense, error) {
	return s.store.ListExpenses(ctx, groupID)
}
