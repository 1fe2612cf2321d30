package reminder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Danamat07/split-the-bill/internal/balance"
	"github.com/Danamat07/split-the-bill/internal/ledger"
)

func creditRow(key, title, debtorUID, debtorName string, raw, converted float64, code string, settled bool) balance.Row {
	return balance.Row{
		Key: key, ExpenseTitle: title,
		CounterpartyUID: debtorUID, CounterpartyName: debtorName,
		AmountRaw: raw, AmountInGroupCurrency: converted, CurrencyCode: code,
		Direction: ledger.Credit, Settled: settled,
	}
}

func TestBuildGroupsByDebtor(t *testing.T) {
	rows := []balance.Row{
		creditRow("e1_U2_U1", "Dinner", "U2", "Bob", 45, 223.5, "EUR", false),
		creditRow("e2_U3_U1", "Taxi", "U3", "Carol", 20, 20, "RON", false),
		creditRow("e3_U2_U1", "Hotel", "U2", "Bob", 30, 30, "RON", false),
	}
	emails := map[string]string{"U2": "bob@example.com", "U3": "carol@example.com"}

	messages, skipped := Build(rows, emails, "Alice", "Trip", "RON")

	if len(skipped) != 0 {
		t.Errorf("skipped = %v, want none", skipped)
	}
	if len(messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(messages))
	}

	bob := messages[0]
	if bob.ToEmail != "bob@example.com" || bob.ToName != "Bob" {
		t.Errorf("first message addressed to %s <%s>, want Bob <bob@example.com>", bob.ToName, bob.ToEmail)
	}
	if !strings.Contains(bob.ItemsHTML, "<li>Dinner — 45.00 EUR (≈ 223.50 RON)</li>") {
		t.Errorf("items html missing dinner line: %s", bob.ItemsHTML)
	}
	if !strings.Contains(bob.ItemsHTML, "<li>Hotel — 30.00 RON (≈ 30.00 RON)</li>") {
		t.Errorf("items html missing hotel line: %s", bob.ItemsHTML)
	}
	if bob.TotalFormatted != "45.00 EUR, 30.00 RON" {
		t.Errorf("total = %q, want %q", bob.TotalFormatted, "45.00 EUR, 30.00 RON")
	}
	if bob.Subject != "Reminder: outstanding payments in Trip" {
		t.Errorf("subject = %q", bob.Subject)
	}

	carol := messages[1]
	if carol.ToEmail != "carol@example.com" {
		t.Errorf("second message addressed to %s, want carol@example.com", carol.ToEmail)
	}
	if carol.TotalFormatted != "20.00 RON" {
		t.Errorf("carol total = %q, want %q", carol.TotalFormatted, "20.00 RON")
	}
}

func TestBuildSkipsSettledAndDebtRows(t *testing.T) {
	rows := []balance.Row{
		creditRow("e1_U2_U1", "Dinner", "U2", "Bob", 45, 45, "RON", true),
		{
			Key: "e2_U1_U3", ExpenseTitle: "Taxi",
			CounterpartyUID: "U3", CounterpartyName: "Carol",
			AmountRaw: 20, AmountInGroupCurrency: 20, CurrencyCode: "RON",
			Direction: ledger.Debt,
		},
	}

	messages, skipped := Build(rows, map[string]string{"U2": "bob@example.com"}, "Alice", "Trip", "RON")

	if len(messages) != 0 {
		t.Errorf("got %d messages, want 0", len(messages))
	}
	if len(skipped) != 0 {
		t.Errorf("skipped = %v, want none", skipped)
	}
}

func TestBuildSkipsDebtorWithoutEmail(t *testing.T) {
	rows := []balance.Row{
		creditRow("e1_U2_U1", "Dinner", "U2", "Bob", 45, 45, "RON", false),
	}

	messages, skipped := Build(rows, map[string]string{}, "Alice", "Trip", "RON")

	if len(messages) != 0 {
		t.Errorf("got %d messages, want 0", len(messages))
	}
	if len(skipped) != 1 || skipped[0] != "U2" {
		t.Errorf("skipped = %v, want [U2]", skipped)
	}
}

func TestBuildEscapesTitles(t *testing.T) {
	rows := []balance.Row{
		creditRow("e1_U2_U1", `Fish & chips <"special">`, "U2", "Bob", 10, 10, "RON", false),
	}

	messages, _ := Build(rows, map[string]string{"U2": "bob@example.com"}, "Alice", "Trip", "RON")

	if len(messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(messages))
	}
	if !strings.Contains(messages[0].ItemsHTML, "Fish &amp; chips &lt;&quot;special&quot;&gt;") {
		t.Errorf("title not escaped: %s", messages[0].ItemsHTML)
	}
}

func TestEmailJSSenderPostsPayload(t *testing.T) {
	var received emailJSPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("failed to decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sender := NewEmailJSSender("svc", "tpl", "user")
	sender.Endpoint = server.URL

	msg := Message{
		ToName: "Bob", ToEmail: "bob@example.com", FromName: "Alice",
		GroupName: "Trip", Subject: "Reminder: outstanding payments in Trip",
		ItemsHTML: "<ul><li>Dinner — 45.00 RON (≈ 45.00 RON)</li></ul>", TotalFormatted: "45.00 RON",
	}
	if err := sender.Send(context.Background(), msg); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if received.ServiceID != "svc" || received.TemplateID != "tpl" || received.UserID != "user" {
		t.Errorf("identifiers = %s/%s/%s", received.ServiceID, received.TemplateID, received.UserID)
	}
	if received.TemplateParams["to_email"] != "bob@example.com" {
		t.Errorf("to_email = %s", received.TemplateParams["to_email"])
	}
	if received.TemplateParams["total_formatted"] != "45.00 RON" {
		t.Errorf("total_formatted = %s", received.TemplateParams["total_formatted"])
	}
}

func TestEmailJSSenderFailsOnErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	sender := NewEmailJSSender("svc", "tpl", "user")
	sender.Endpoint = server.URL

	if err := sender.Send(context.Background(), Message{}); err == nil {
		t.Error("expected error on 400 response")
	}
}
