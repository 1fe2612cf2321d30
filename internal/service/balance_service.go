package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Danamat07/split-the-bill/internal/balance"
	"github.com/Danamat07/split-the-bill/internal/metrics"
	"github.com/Danamat07/split-the-bill/internal/models"
	"github.com/Danamat07/split-the-bill/internal/reminder"
	"github.com/Danamat07/split-the-bill/internal/settlement"
	"github.com/Danamat07/split-the-bill/internal/storage"
)

// ErrRemindersDisabled is returned when no reminder sender is configured.
var ErrRemindersDisabled = errors.New("reminder relay is not configured")

// BalanceService ties the expense ledger, the settlement tracker and the
// reminder relay together behind the balances API.
type BalanceService struct {
	store   storage.Store
	tracker *settlement.Tracker
	sender  reminder.Sender // nil disables reminders
}

// NewBalanceService creates a new BalanceService. sender may be nil.
func NewBalanceService(store storage.Store, tracker *settlement.Tracker, sender reminder.Sender) *BalanceService {
	return &BalanceService{store: store, tracker: tracker, sender: sender}
}

// Balances computes the current balance rows and totals for one viewer.
func (s *BalanceService) Balances(ctx context.Context, groupID, viewerUID string) ([]balance.Row, balance.Summary, error) {
	expenses, err := s.store.ListExpenses(ctx, groupID)
	if err != nil {
		return nil, balance.Summary{}, fmt.Errorf("failed to load expenses: %w", err)
	}

	settled, err := s.tracker.Current(ctx, groupID)
	if err != nil {
		return nil, balance.Summary{}, err
	}

	names, _ := s.resolveUsers(ctx, expenses)
	rows := balance.Compute(expenses, settled, viewerUID, resolver(names))
	return rows, balance.Totals(rows), nil
}

// OpenSession opens a live balances view for the viewer: expenses and names
// are loaded once, settlement changes stream in until the session is closed.
func (s *BalanceService) OpenSession(ctx context.Context, groupID, viewerUID string) (*balance.Session, error) {
	expenses, err := s.store.ListExpenses(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}

	names, _ := s.resolveUsers(ctx, expenses)
	return balance.Open(ctx, s.tracker, groupID, viewerUID, expenses, resolver(names))
}

// Watch opens a raw settled-key subscription for the group.
func (s *BalanceService) Watch(ctx context.Context, groupID string) (<-chan settlement.KeySet, error) {
	return s.tracker.Subscribe(ctx, groupID)
}

// SetSettled marks the obligation key settled or outstanding. The caller does
// not learn the resulting set here; live views converge on the next
// subscription emission.
func (s *BalanceService) SetSettled(ctx context.Context, groupID, key string, settled bool) error {
	if settled {
		return s.tracker.MarkSettled(ctx, groupID, key)
	}
	return s.tracker.MarkUnsettled(ctx, groupID, key)
}

// ResetAll clears every settlement record for the group. Admin only.
func (s *BalanceService) ResetAll(ctx context.Context, groupID, actorUID string) error {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if group.AdminUID != actorUID {
		return ErrNotAdmin
	}

	return s.tracker.ResetAll(ctx, groupID)
}

// ReminderReport summarizes a reminder run.
type ReminderReport struct {
	Sent    []string `json:"sent"`
	Failed  []string `json:"failed"`
	Skipped []string `json:"skipped"`
}

// SendReminders emails every member who owes the viewer their outstanding
// items. Failures are reported per recipient and never retried.
func (s *BalanceService) SendReminders(ctx context.Context, groupID, viewerUID string) (*ReminderReport, error) {
	if s.sender == nil {
		return nil, ErrRemindersDisabled
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpenses(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}

	settled, err := s.tracker.Current(ctx, groupID)
	if err != nil {
		return nil, err
	}

	names, emails := s.resolveUsers(ctx, expenses)
	rows := balance.Compute(expenses, settled, viewerUID, resolver(names))

	fromName := viewerUID
	if n, ok := names[viewerUID]; ok {
		fromName = n
	}

	messages, skipped := reminder.Build(rows, emails, fromName, group.Name, group.Currency)

	report := &ReminderReport{Skipped: skipped}
	for range skipped {
		metrics.ReminderEmails.WithLabelValues("skipped").Inc()
	}
	for _, msg := range messages {
		if err := s.sender.Send(ctx, msg); err != nil {
			slog.Warn("Reminder send failed", "group_id", groupID, "to", msg.ToEmail, "error", err)
			report.Failed = append(report.Failed, msg.ToEmail)
			metrics.ReminderEmails.WithLabelValues("failed").Inc()
			continue
		}
		report.Sent = append(report.Sent, msg.ToEmail)
		metrics.ReminderEmails.WithLabelValues("sent").Inc()
	}

	slog.Info("Reminders processed",
		"group_id", groupID,
		"viewer", viewerUID,
		"sent", len(report.Sent),
		"failed", len(report.Failed),
		"skipped", len(report.Skipped),
	)
	return report, nil
}

// resolveUsers loads the users referenced by the expenses and builds the
// display-name and email maps. Resolution failure degrades to raw UIDs: the
// balances still compute.
func (s *BalanceService) resolveUsers(ctx context.Context, expenses []*models.Expense) (names, emails map[string]string) {
	names = make(map[string]string)
	emails = make(map[string]string)

	seen := make(map[string]struct{})
	var uids []string
	add := func(uid string) {
		if uid == "" {
			return
		}
		if _, ok := seen[uid]; ok {
			return
		}
		seen[uid] = struct{}{}
		uids = append(uids, uid)
	}
	for _, e := range expenses {
		add(e.PayerUID)
		for _, p := range e.Participants {
			add(p)
		}
	}

	users, err := s.store.ListUsers(ctx, uids)
	if err != nil {
		slog.Warn("Name resolution failed, falling back to raw UIDs", "error", err)
		return names, emails
	}

	for _, u := range users {
		names[u.UID] = u.DisplayName()
		if u.Email != "" {
			emails[u.UID] = u.Email
		}
	}
	return names, emails
}

// resolver wraps a name map into a balance.NameResolver with UID fallback.
func resolver(names map[string]string) balance.NameResolver {
	return func(uid string) string {
		if n, ok := names[uid]; ok {
			return n
		}
		return uid
	}
}
