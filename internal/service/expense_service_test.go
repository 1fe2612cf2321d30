package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/Danamat07/split-the-bill/internal/currency"
	"github.com/Danamat07/split-the-bill/internal/models"
	"github.com/Danamat07/split-the-bill/internal/storage"
	"github.com/Danamat07/split-the-bill/internal/storage/sqlite"
)

// doubler converts by doubling the amount, so tests can tell cached
// conversions apart from raw amounts.
var doubler = currency.ConverterFunc(func(ctx context.Context, amount float64, from, to string) (float64, error) {
	if from == to {
		return amount, nil
	}
	return amount * 2, nil
})

func setupExpenseService(t *testing.T) (*ExpenseService, *models.Group) {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	group := &models.Group{
		Name:     "Trip",
		AdminUID: "u1",
		Currency: "RON",
		Members:  []string{"u1", "u2"},
	}
	if err := store.CreateGroup(context.Background(), group); err != nil {
		t.Fatalf("failed to create group: %v", err)
	}

	return NewExpenseService(store, doubler), group
}

func TestCreateExpenseCachesConversion(t *testing.T) {
	svc, group := setupExpenseService(t)

	tests := []struct {
		name          string
		expense       *models.Expense
		wantConverted float64
	}{
		{
			name: "foreign currency is converted",
			expense: &models.Expense{
				GroupID:      group.ID,
				Title:        "Hotel",
				AmountRaw:    100,
				CurrencyCode: "EUR",
				PayerUID:     "u1",
				Participants: []string{"u1", "u2"},
			},
			wantConverted: 200,
		},
		{
			name: "group currency passes through",
			expense: &models.Expense{
				GroupID:      group.ID,
				Title:        "Dinner",
				AmountRaw:    90,
				CurrencyCode: "RON",
				PayerUID:     "u1",
				Participants: []string{"u1", "u2"},
			},
			wantConverted: 90,
		},
		{
			name: "empty currency defaults to group currency",
			expense: &models.Expense{
				GroupID:      group.ID,
				Title:        "Snacks",
				AmountRaw:    10,
				PayerUID:     "u2",
				Participants: []string{"u1", "u2"},
			},
			wantConverted: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created, err := svc.Create(context.Background(), tt.expense)
			if err != nil {
				t.Fatalf("Create failed: %v", err)
			}
			if created.AmountInGroupCurrency != tt.wantConverted {
				t.Errorf("converted amount = %v, want %v", created.AmountInGroupCurrency, tt.wantConverted)
			}
			if created.CurrencyCode == "" {
				t.Error("currency code was not defaulted")
			}
		})
	}
}

func TestCreateExpenseValidation(t *testing.T) {
	svc, group := setupExpenseService(t)

	tests := []struct {
		name    string
		expense *models.Expense
		wantErr error
	}{
		{
			name: "zero amount",
			expense: &models.Expense{
				GroupID:   group.ID,
				AmountRaw: 0,
				PayerUID:  "u1",
			},
			wantErr: ErrInvalidAmount,
		},
		{
			name: "negative amount",
			expense: &models.Expense{
				GroupID:   group.ID,
				AmountRaw: -5,
				PayerUID:  "u1",
			},
			wantErr: ErrInvalidAmount,
		},
		{
			name: "missing payer",
			expense: &models.Expense{
				GroupID:   group.ID,
				AmountRaw: 10,
			},
			wantErr: ErrPayerRequired,
		},
		{
			name: "payer outside the group",
			expense: &models.Expense{
				GroupID:   group.ID,
				AmountRaw: 10,
				PayerUID:  "stranger",
			},
			wantErr: ErrNotMember,
		},
		{
			name: "missing group",
			expense: &models.Expense{
				GroupID:   "missing",
				AmountRaw: 10,
				PayerUID:  "u1",
			},
			wantErr: storage.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.expense)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got error %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateExpenseRejectsRateFailure(t *testing.T) {
	svc, group := setupExpenseService(t)
	svc.converter = currency.ConverterFunc(func(ctx context.Context, amount float64, from, to string) (float64, error) {
		return 0, currency.ErrRateUnavailable
	})

	_, err := svc.Create(context.Background(), &models.Expense{
		GroupID:      group.ID,
		Title:        "Hotel",
		AmountRaw:    100,
		CurrencyCode: "EUR",
		PayerUID:     "u1",
		Participants: []string{"u1", "u2"},
	})
	if !errors.Is(err, currency.ErrRateUnavailable) {
		t.Errorf("expected rate error, got %v", err)
	}
}

func TestUpdateExpenseReconverts(t *testing.T) {
	svc, group := setupExpenseService(t)
	ctx := context.Background()

	expense, err := svc.Create(ctx, &models.Expense{
		GroupID:      group.ID,
		Title:        "Hotel",
		AmountRaw:    100,
		CurrencyCode: "EUR",
		PayerUID:     "u1",
		Participants: []string{"u1", "u2"},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	expense.AmountRaw = 150
	updated, err := svc.Update(ctx, expense)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.AmountInGroupCurrency != 300 {
		t.Errorf("converted amount = %v, want 300", updated.AmountInGroupCurrency)
	}
}
