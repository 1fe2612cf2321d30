// Package reminder turns a user's outstanding credit rows into reminder
// emails for the members who owe them. It is a fire-and-forget sink consuming
// balance aggregator output; delivery failures are reported, never retried.
package reminder

import (
	"fmt"
	"strings"

	"github.com/Danamat07/split-the-bill/internal/balance"
	"github.com/Danamat07/split-the-bill/internal/ledger"
)

// Message is one reminder email, addressed to a single debtor.
type Message struct {
	ToName   string
	ToEmail  string
	FromName string

	GroupName string
	Subject   string

	// ItemsHTML is an HTML list of the outstanding items, one <li> per
	// expense share, showing the raw amount and the group-currency value.
	ItemsHTML string

	// TotalFormatted sums the raw amounts per currency, e.g.
	// "30.00 EUR, 45.00 RON".
	TotalFormatted string
}

// Build groups the viewer's unsettled credit rows by debtor and renders one
// message per debtor with a known email address. Debtors with no email are
// returned in skipped; settled rows and debt rows are ignored.
func Build(rows []balance.Row, emails map[string]string, fromName, groupName, groupCurrency string) (messages []Message, skipped []string) {
	// Keep insertion order deterministic: debtors in first-appearance order.
	var debtors []string
	byDebtor := make(map[string][]balance.Row)
	for _, r := range rows {
		if r.Direction != ledger.Credit || r.Settled {
			continue
		}
		if _, ok := byDebtor[r.CounterpartyUID]; !ok {
			debtors = append(debtors, r.CounterpartyUID)
		}
		byDebtor[r.CounterpartyUID] = append(byDebtor[r.CounterpartyUID], r)
	}

	for _, uid := range debtors {
		items := byDebtor[uid]

		email := emails[uid]
		if email == "" {
			skipped = append(skipped, uid)
			continue
		}

		var itemsHTML strings.Builder
		var currencies []string
		totals := make(map[string]float64)
		for _, it := range items {
			fmt.Fprintf(&itemsHTML, "<li>%s — %.2f %s (≈ %.2f %s)</li>",
				escapeHTML(it.ExpenseTitle), it.AmountRaw, it.CurrencyCode,
				it.AmountInGroupCurrency, groupCurrency)
			if _, ok := totals[it.CurrencyCode]; !ok {
				currencies = append(currencies, it.CurrencyCode)
			}
			totals[it.CurrencyCode] += it.AmountRaw
		}

		parts := make([]string, len(currencies))
		for i, code := range currencies {
			parts[i] = fmt.Sprintf("%.2f %s", totals[code], code)
		}

		messages = append(messages, Message{
			ToName:         items[0].CounterpartyName,
			ToEmail:        email,
			FromName:       fromName,
			GroupName:      groupName,
			Subject:        fmt.Sprintf("Reminder: outstanding payments in %s", groupName),
			ItemsHTML:      "<ul>" + itemsHTML.String() + "</ul>",
			TotalFormatted: strings.Join(parts, ", "),
		})
	}

	return messages, skipped
}

func escapeHTML(input string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	return r.Replace(input)
}
