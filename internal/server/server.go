// Package server wires the HTTP API.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Danamat07/split-the-bill/internal/service"
)

// Server exposes the balance engine over HTTP.
type Server struct {
	users    *service.UserService
	groups   *service.GroupService
	expenses *service.ExpenseService
	balances *service.BalanceService
}

// New creates a Server over the given services.
func New(users *service.UserService, groups *service.GroupService, expenses *service.ExpenseService, balances *service.BalanceService) *Server {
	return &Server{users: users, groups: groups, expenses: expenses, balances: balances}
}

// Handler builds the chi router for the API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(loggingMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/users", s.handleRegisterUser)
		r.Get("/users/{uid}", s.handleGetUser)

		r.Post("/groups", s.handleCreateGroup)
		r.Get("/groups", s.handleListGroups)
		r.Post("/groups/join", s.handleJoinGroup)

		r.Route("/groups/{groupID}", func(r chi.Router) {
			r.Get("/", s.handleGetGroup)
			r.Post("/leave", s.handleLeaveGroup)
			r.Delete("/members/{uid}", s.handleRemoveMember)

			r.Post("/expenses", s.handleCreateExpense)
			r.Get("/expenses", s.handleListExpenses)
			r.Put("/expenses/{expenseID}", s.handleUpdateExpense)
			r.Delete("/expenses/{expenseID}", s.handleDeleteExpense)

			r.Get("/balances", s.handleBalances)
			r.Get("/balances/watch", s.handleWatchBalances)

			r.Put("/settlements/{key}", s.handleSettle)
			r.Delete("/settlements/{key}", s.handleUnsettle)
			r.Delete("/settlements", s.handleResetSettlements)
			r.Get("/settlements/watch", s.handleWatchSettlements)

			r.Post("/reminders", s.handleSendReminders)
		})
	})

	return r
}
