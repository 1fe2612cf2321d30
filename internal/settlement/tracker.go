// Package settlement tracks which obligation keys have been marked settled.
//
// The tracker is a pure mirror of the store: reads are read-through, writes
// are write-through, and the only client-side state is the last emitted set.
// Conflicting toggles from different members resolve last-write-wins at the
// storage layer; subscribers converge on whatever the store reports next.
package settlement

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Danamat07/split-the-bill/internal/metrics"
	"github.com/Danamat07/split-the-bill/internal/notify"
	"github.com/Danamat07/split-the-bill/internal/storage"
)

// KeySet is the complete set of settled obligation keys for a group.
type KeySet map[string]struct{}

// Contains reports whether key is settled.
func (s KeySet) Contains(key string) bool {
	_, ok := s[key]
	return ok
}

// NewKeySet builds a KeySet from a list of keys.
func NewKeySet(keys []string) KeySet {
	set := make(KeySet, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

// Tracker maintains settlement state for groups and propagates changes to
// live subscriptions through a notify.Broker.
type Tracker struct {
	store  storage.Store
	broker notify.Broker
}

// New creates a Tracker over the given store and broker.
func New(store storage.Store, broker notify.Broker) *Tracker {
	return &Tracker{store: store, broker: broker}
}

func subjectFor(groupID string) string {
	return "settlements.changed." + groupID
}

// Current reads the settled-key set for a group once, without subscribing.
func (t *Tracker) Current(ctx context.Context, groupID string) (KeySet, error) {
	keys, err := t.store.ListSettledKeys(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to read settled keys: %w", err)
	}
	return NewKeySet(keys), nil
}

// Subscribe opens a live subscription to the group's settlement namespace.
//
// The returned channel emits the complete current set on open and again after
// every observed change — always full snapshots, never diffs. Bursts of
// changes may coalesce into a single emission. The channel closes, and the
// underlying broker subscription is released, when ctx is cancelled.
func (t *Tracker) Subscribe(ctx context.Context, groupID string) (<-chan KeySet, error) {
	trigger := make(chan struct{}, 1)
	sub, err := t.broker.Subscribe(subjectFor(groupID), func() {
		select {
		case trigger <- struct{}{}:
		default: // a re-read is already pending; it will pick this change up
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to settlement changes: %w", err)
	}

	ch := make(chan KeySet, 1)
	go func() {
		defer close(ch)
		defer func() {
			if err := sub.Unsubscribe(); err != nil {
				slog.Warn("Failed to release settlement subscription", "group_id", groupID, "error", err)
			}
		}()

		for {
			set, err := t.Current(ctx, groupID)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				// Skip this emission; the subscription itself survives and the
				// next change triggers another read.
				slog.Warn("Failed to read settled keys", "group_id", groupID, "error", err)
			} else {
				select {
				case ch <- set:
				case <-ctx.Done():
					return
				}
			}

			select {
			case <-trigger:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}

// MarkSettled idempotently records the obligation key as settled and notifies
// subscribers.
func (t *Tracker) MarkSettled(ctx context.Context, groupID, key string) error {
	if err := t.store.PutSettlement(ctx, groupID, key); err != nil {
		return fmt.Errorf("failed to mark settled: %w", err)
	}
	metrics.SettlementToggles.WithLabelValues("settle").Inc()
	t.notifyChanged(groupID)
	return nil
}

// MarkUnsettled idempotently removes the settlement record for the obligation
// key and notifies subscribers.
func (t *Tracker) MarkUnsettled(ctx context.Context, groupID, key string) error {
	if err := t.store.DeleteSettlement(ctx, groupID, key); err != nil {
		return fmt.Errorf("failed to mark unsettled: %w", err)
	}
	metrics.SettlementToggles.WithLabelValues("unsettle").Inc()
	t.notifyChanged(groupID)
	return nil
}

// ResetAll clears every settlement record for the group in one sweep.
func (t *Tracker) ResetAll(ctx context.Context, groupID string) error {
	if err := t.store.DeleteAllSettlements(ctx, groupID); err != nil {
		return fmt.Errorf("failed to reset settlements: %w", err)
	}
	metrics.SettlementToggles.WithLabelValues("reset").Inc()
	t.notifyChanged(groupID)
	return nil
}

func (t *Tracker) notifyChanged(groupID string) {
	if err := t.broker.Publish(subjectFor(groupID)); err != nil {
		// The write itself succeeded; subscribers will catch up on the next
		// change or resubscribe.
		slog.Warn("Failed to publish settlement change", "group_id", groupID, "error", err)
	}
}
