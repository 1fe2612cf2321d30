// Package ledger projects raw expense records into pairwise obligations.
//
// The projection is a pure function of its input: no side effects, no network,
// stable output order (expense creation order, then participant order).
package ledger

import (
	"github.com/Danamat07/split-the-bill/internal/models"
)

// Direction says which side of an obligation the viewing user is on.
type Direction string

const (
	// Debt means the viewing user owes the payer.
	Debt Direction = "debt"
	// Credit means the viewing user is the payer and is owed.
	Credit Direction = "credit"
)

// Obligation is a pairwise debt between one non-payer participant and the
// payer, derived from a single expense. It is never stored; settlement records
// reference it through Key.
type Obligation struct {
	ExpenseID    string
	ExpenseTitle string
	DebtorUID    string
	PayerUID     string

	// ShareRaw is the debtor's equal share in the expense's own currency.
	ShareRaw float64
	// ShareConverted is the debtor's equal share in the group currency,
	// derived from the conversion cached on the expense.
	ShareConverted float64
	CurrencyCode   string

	// Direction is relative to the viewing user the projection ran for.
	Direction Direction
}

// Key returns the deterministic identity of the obligation. The format is
// persisted as the settlement record key and must never change:
// "<expenseId>_<debtorUid>_<payerUid>".
func (o Obligation) Key() string {
	return o.ExpenseID + "_" + o.DebtorUID + "_" + o.PayerUID
}

// CounterpartyUID returns the other user on the obligation: the payer when
// viewed as a debt, the debtor when viewed as a credit.
func (o Obligation) CounterpartyUID() string {
	if o.Direction == Debt {
		return o.PayerUID
	}
	return o.DebtorUID
}

// Project emits the obligations relevant to viewerUID, in stable order.
//
// For each expense, each non-payer participant owes the payer an equal share
// (the amount divided by the full participant count, payer's slot included).
// Only rows where the viewer is the debtor or the payer are emitted.
//
// Edge cases:
//   - participant == payer emits nothing (self-payment is a no-op)
//   - zero participants skips the expense entirely (degenerate, no division)
//   - a duplicated participant emits one obligation per slot; the slots share
//     a Key, so duplicates are a data-entry error rather than a multi-share
//     feature — identity is the (expense, debtor, payer) triple
func Project(expenses []*models.Expense, viewerUID string) []Obligation {
	var obligations []Obligation

	for _, e := range expenses {
		if len(e.Participants) == 0 {
			continue
		}
		n := float64(len(e.Participants))
		shareRaw := e.AmountRaw / n
		shareConverted := e.AmountInGroupCurrency / n

		for _, p := range e.Participants {
			if p == e.PayerUID {
				continue
			}

			var direction Direction
			switch {
			case p == viewerUID:
				direction = Debt
			case e.PayerUID == viewerUID:
				direction = Credit
			default:
				continue
			}

			obligations = append(obligations, Obligation{
				ExpenseID:      e.ID,
				ExpenseTitle:   e.Title,
				DebtorUID:      p,
				PayerUID:       e.PayerUID,
				ShareRaw:       shareRaw,
				ShareConverted: shareConverted,
				CurrencyCode:   e.CurrencyCode,
				Direction:      direction,
			})
		}
	}

	return obligations
}
