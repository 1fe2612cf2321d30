package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/Danamat07/split-the-bill/pkg/response"
)

// sseWriter prepares a response for server-sent events. Returns a flush
// function, or an error if the connection cannot stream.
func sseWriter(w http.ResponseWriter) (http.Flusher, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming is not supported by this connection")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	return flusher, nil
}

func writeSSEEvent(w http.ResponseWriter, flusher http.Flusher, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}

// handleWatchBalances streams the viewer's balance rows: one event with the
// current rows on connect, then one per settlement change until the client
// disconnects.
func (s *Server) handleWatchBalances(w http.ResponseWriter, r *http.Request) {
	viewer := r.URL.Query().Get("viewer")
	if viewer == "" {
		response.BadRequest(w, "viewer query parameter is required")
		return
	}

	session, err := s.balances.OpenSession(r.Context(), chi.URLParam(r, "groupID"), viewer)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	defer session.Close()

	flusher, err := sseWriter(w)
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}

	for rows := range session.Updates() {
		if err := writeSSEEvent(w, flusher, rows); err != nil {
			return
		}
	}
}

// handleWatchSettlements streams the raw settled-key set for the group.
func (s *Server) handleWatchSettlements(w http.ResponseWriter, r *http.Request) {
	ch, err := s.balances.Watch(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	flusher, err := sseWriter(w)
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}

	for set := range ch {
		keys := make([]string, 0, len(set))
		for k := range set {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		if err := writeSSEEvent(w, flusher, keys); err != nil {
			return
		}
	}
}
