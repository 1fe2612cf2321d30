// Package balance combines the expense ledger projection with settlement
// state into display-ready rows, and owns the settlement toggle operation.
package balance

import (
	"github.com/Danamat07/split-the-bill/internal/ledger"
	"github.com/Danamat07/split-the-bill/internal/metrics"
	"github.com/Danamat07/split-the-bill/internal/models"
	"github.com/Danamat07/split-the-bill/internal/settlement"
)

// Row is one debt or credit line for the viewing user.
type Row struct {
	// Key is the obligation key the row's settlement record hangs on.
	Key string `json:"id"`

	ExpenseTitle     string `json:"expense_title"`
	CounterpartyUID  string `json:"counterparty_uid"`
	CounterpartyName string `json:"counterparty_name"`

	// AmountRaw is the share in the expense's own currency.
	AmountRaw float64 `json:"amount_raw"`
	// AmountInGroupCurrency is the share in the group currency.
	AmountInGroupCurrency float64 `json:"amount_in_group_currency"`
	CurrencyCode          string  `json:"currency_code"`

	Direction ledger.Direction `json:"direction"`
	Settled   bool             `json:"settled"`
}

// Summary aggregates the unsettled rows, in group currency.
type Summary struct {
	TotalToPay     float64 `json:"total_to_pay"`
	TotalToReceive float64 `json:"total_to_receive"`
}

// NameResolver maps a user UID to a display name. Implementations fall back
// to the raw UID when no better name is known.
type NameResolver func(uid string) string

// Compute projects the expenses for viewerUID and attaches settlement state
// and counterparty names. Pure: the same inputs always produce the same rows,
// in the ledger's stable order.
func Compute(expenses []*models.Expense, settled settlement.KeySet, viewerUID string, resolve NameResolver) []Row {
	obligations := ledger.Project(expenses, viewerUID)
	rows := make([]Row, 0, len(obligations))

	for _, o := range obligations {
		counterparty := o.CounterpartyUID()
		name := counterparty
		if resolve != nil {
			name = resolve(counterparty)
		}
		rows = append(rows, Row{
			Key:                   o.Key(),
			ExpenseTitle:          o.ExpenseTitle,
			CounterpartyUID:       counterparty,
			CounterpartyName:      name,
			AmountRaw:             o.ShareRaw,
			AmountInGroupCurrency: o.ShareConverted,
			CurrencyCode:          o.CurrencyCode,
			Direction:             o.Direction,
			Settled:               settled.Contains(o.Key()),
		})
	}

	metrics.BalanceComputations.Inc()
	return rows
}

// Totals sums the unsettled rows by direction, in group currency.
func Totals(rows []Row) Summary {
	var summary Summary
	for _, r := range rows {
		if r.Settled {
			continue
		}
		switch r.Direction {
		case ledger.Debt:
			summary.TotalToPay += r.AmountInGroupCurrency
		case ledger.Credit:
			summary.TotalToReceive += r.AmountInGroupCurrency
		}
	}
	return summary
}
