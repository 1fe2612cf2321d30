package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Danamat07/split-the-bill/internal/balance"
	"github.com/Danamat07/split-the-bill/internal/currency"
	"github.com/Danamat07/split-the-bill/internal/models"
	"github.com/Danamat07/split-the-bill/internal/service"
	"github.com/Danamat07/split-the-bill/internal/storage"
	"github.com/Danamat07/split-the-bill/pkg/response"
)

// writeServiceError maps service and storage errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, service.ErrNotAdmin):
		response.Forbidden(w, err.Error())
	case errors.Is(err, service.ErrNotMember),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrPayerRequired),
		errors.Is(err, service.ErrNameRequired):
		response.BadRequest(w, err.Error())
	case errors.Is(err, service.ErrRemindersDisabled):
		response.Error(w, http.StatusServiceUnavailable, "REMINDERS_DISABLED", err.Error())
	case errors.Is(err, currency.ErrRateUnavailable):
		response.Error(w, http.StatusBadGateway, "RATE_UNAVAILABLE", err.Error())
	default:
		response.InternalError(w, err.Error())
	}
}

func (s *Server) handleRegisterUser(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := s.users.Register(r.Context(), &user); err != nil {
		writeServiceError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, user)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.Get(r.Context(), chi.URLParam(r, "uid"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, user)
}

type createGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	AdminUID    string `json:"admin_uid"`
	Currency    string `json:"currency"`
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	group, err := s.groups.Create(r.Context(), req.Name, req.Description, req.AdminUID, req.Currency)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, group)
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := s.groups.Get(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, group)
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	member := r.URL.Query().Get("member")
	if member == "" {
		response.BadRequest(w, "member query parameter is required")
		return
	}

	groups, err := s.groups.ListByMember(r.Context(), member)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, groups)
}

type joinGroupRequest struct {
	InviteCode string `json:"invite_code"`
	UID        string `json:"uid"`
}

func (s *Server) handleJoinGroup(w http.ResponseWriter, r *http.Request) {
	var req joinGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	group, err := s.groups.Join(r.Context(), req.InviteCode, req.UID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, group)
}

type leaveGroupRequest struct {
	UID string `json:"uid"`
}

func (s *Server) handleLeaveGroup(w http.ResponseWriter, r *http.Request) {
	var req leaveGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := s.groups.Leave(r.Context(), chi.URLParam(r, "groupID"), req.UID); err != nil {
		writeServiceError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, nil)
}

func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	actor := r.URL.Query().Get("actor")
	err := s.groups.RemoveMember(r.Context(), chi.URLParam(r, "groupID"), actor, chi.URLParam(r, "uid"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, nil)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var expense models.Expense
	if err := json.NewDecoder(r.Body).Decode(&expense); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	expense.GroupID = chi.URLParam(r, "groupID")

	created, err := s.expenses.Create(r.Context(), &expense)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var expense models.Expense
	if err := json.NewDecoder(r.Body).Decode(&expense); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	expense.GroupID = chi.URLParam(r, "groupID")
	expense.ID = chi.URLParam(r, "expenseID")

	updated, err := s.expenses.Update(r.Context(), &expense)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	err := s.expenses.Delete(r.Context(), chi.URLParam(r, "groupID"), chi.URLParam(r, "expenseID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, nil)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.expenses.List(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, expenses)
}

type balancesResponse struct {
	Rows    []balance.Row   `json:"rows"`
	Summary balance.Summary `json:"summary"`
}

func (s *Server) handleBalances(w http.ResponseWriter, r *http.Request) {
	viewer := r.URL.Query().Get("viewer")
	if viewer == "" {
		response.BadRequest(w, "viewer query parameter is required")
		return
	}

	rows, summary, err := s.balances.Balances(r.Context(), chi.URLParam(r, "groupID"), viewer)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, balancesResponse{Rows: rows, Summary: summary})
}

func (s *Server) handleSettle(w http.ResponseWriter, r *http.Request) {
	err := s.balances.SetSettled(r.Context(), chi.URLParam(r, "groupID"), chi.URLParam(r, "key"), true)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, nil)
}

func (s *Server) handleUnsettle(w http.ResponseWriter, r *http.Request) {
	err := s.balances.SetSettled(r.Context(), chi.URLParam(r, "groupID"), chi.URLParam(r, "key"), false)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, nil)
}

func (s *Server) handleResetSettlements(w http.ResponseWriter, r *http.Request) {
	actor := r.URL.Query().Get("actor")
	if err := s.balances.ResetAll(r.Context(), chi.URLParam(r, "groupID"), actor); err != nil {
		writeServiceError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, nil)
}

func (s *Server) handleSendReminders(w http.ResponseWriter, r *http.Request) {
	viewer := r.URL.Query().Get("viewer")
	if viewer == "" {
		response.BadRequest(w, "viewer query parameter is required")
		return
	}

	report, err := s.balances.SendReminders(r.Context(), chi.URLParam(r, "groupID"), viewer)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, report)
}
