package balance

import (
	"context"
	"fmt"
	"sync"

	"github.com/Danamat07/split-the-bill/internal/models"
	"github.com/Danamat07/split-the-bill/internal/settlement"
)

// Session is one open balances view: a fixed expense list and name resolver
// combined with a live settlement subscription. Every settlement emission
// replaces the whole row set — no incremental patching.
//
// The session holds the group's settlement subscription for its lifetime;
// Close releases it. Expense edits made while a session is open are picked up
// by opening a fresh session, matching the reload-on-reopen behavior of the
// balances view.
type Session struct {
	tracker   *settlement.Tracker
	groupID   string
	viewerUID string
	expenses  []*models.Expense
	resolve   NameResolver

	cancel context.CancelFunc

	mu   sync.RWMutex
	rows []Row

	// Updates emits the recomputed row set after every settlement change.
	// Closed when the session ends.
	updates chan []Row
}

// Open starts a session: computes the initial row set from the current
// settled keys and begins tracking changes.
func Open(ctx context.Context, tracker *settlement.Tracker, groupID, viewerUID string, expenses []*models.Expense, resolve NameResolver) (*Session, error) {
	ctx, cancel := context.WithCancel(ctx)

	ch, err := tracker.Subscribe(ctx, groupID)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open balance session: %w", err)
	}

	s := &Session{
		tracker:   tracker,
		groupID:   groupID,
		viewerUID: viewerUID,
		expenses:  expenses,
		resolve:   resolve,
		cancel:    cancel,
		updates:   make(chan []Row, 1),
	}

	go func() {
		defer close(s.updates)
		for set := range ch {
			rows := Compute(s.expenses, set, s.viewerUID, s.resolve)
			s.mu.Lock()
			s.rows = rows
			s.mu.Unlock()

			// Coalesce: drop a stale pending update so the consumer always
			// gets the latest row set next.
			select {
			case <-s.updates:
			default:
			}
			s.updates <- rows
		}
	}()

	return s, nil
}

// Rows returns the most recently computed row set.
func (s *Session) Rows() []Row {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := make([]Row, len(s.rows))
	copy(rows, s.rows)
	return rows
}

// Updates returns the channel of recomputed row sets. It closes when the
// session is closed.
func (s *Session) Updates() <-chan []Row {
	return s.updates
}

// Toggle flips the settlement state of the row with the given key, based on
// the state the session last observed. Fire-and-forget from the view's
// perspective: the authoritative state is whatever the next settlement
// emission reports, and a failed toggle is surfaced but not retried.
func (s *Session) Toggle(ctx context.Context, key string) error {
	s.mu.RLock()
	var row *Row
	for i := range s.rows {
		if s.rows[i].Key == key {
			row = &s.rows[i]
			break
		}
	}
	s.mu.RUnlock()

	if row == nil {
		return fmt.Errorf("no balance row with key %s", key)
	}

	if row.Settled {
		return s.tracker.MarkUnsettled(ctx, s.groupID, key)
	}
	return s.tracker.MarkSettled(ctx, s.groupID, key)
}

// Close cancels the settlement subscription. The session must not be used
// afterwards; a closed session cannot be restarted.
func (s *Session) Close() {
	s.cancel()
}
