// Package metrics defines the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SettlementToggles counts settlement state changes by action
	// (settle, unsettle, reset).
	SettlementToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "splitbill_settlement_toggles_total",
		Help: "Settlement state changes by action.",
	}, []string{"action"})

	// BalanceComputations counts full balance recomputations.
	BalanceComputations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitbill_balance_computations_total",
		Help: "Full balance row-set recomputations.",
	})

	// ReminderEmails counts reminder email deliveries by outcome
	// (sent, failed, skipped).
	ReminderEmails = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "splitbill_reminder_emails_total",
		Help: "Reminder email deliveries by outcome.",
	}, []string{"outcome"})
)
