package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ayusman/fingerspell/internal/store"
)

// AttemptHandler handles HTTP requests for recorded attempts.
type AttemptHandler struct {
	store *store.Store
}

// NewAttemptHandler creates a new AttemptHandler with the given store.
func NewAttemptHandler(s *store.Store) *AttemptHandler {
	return &AttemptHandler{store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *AttemptHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/attempts or /api/attempts/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/attempts")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w, r)
		return
	}

	// Item endpoint: /api/attempts/{id}
	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type attemptResponse struct {
	ID             string  `json:"id"`
	SessionID      string  `json:"session_id"`
	SignID         string  `json:"sign_id"`
	Outcome        string  `json:"outcome"`
	BestConfidence float64 `json:"best_confidence"`
	Frames         int     `json:"frames"`
	DurationMs     int64   `json:"duration_ms"`
	CreatedAt      string  `json:"created_at"`
}

type listAttemptsResponse struct {
	Attempts []attemptResponse `json:"attempts"`
}

type statsResponse struct {
	Signs []store.SignStats `json:"signs"`
}

// toAttemptResponse converts a store.Attempt to an attemptResponse.
func toAttemptResponse(a *store.Attempt) attemptResponse {
	return attemptResponse{
		ID:             a.ID,
		SessionID:      a.SessionID,
		SignID:         a.SignID,
		Outcome:        string(a.Outcome),
		BestConfidence: a.BestConfidence,
		Frames:         a.Frames,
		DurationMs:     a.Duration.Milliseconds(),
		CreatedAt:      formatTime(a.CreatedAt),
	}
}

// list handles GET /api/attempts[?session=][&limit=].
func (h *AttemptHandler) list(w http.ResponseWriter, r *http.Request) {
	var (
		attempts []*store.Attempt
		err      error
	)

	if sessionID := r.URL.Query().Get("session"); sessionID != "" {
		attempts, err = h.store.Attempts().ListBySession(sessionID)
	} else {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, err = strconv.Atoi(raw)
			if err != nil || limit < 0 {
				writeError(w, http.StatusBadRequest, "Invalid limit")
				return
			}
		}
		attempts, err = h.store.Attempts().List(limit)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list attempts")
		return
	}

	response := listAttemptsResponse{
		Attempts: make([]attemptResponse, 0, len(attempts)),
	}

	for _, a := range attempts {
		response.Attempts = append(response.Attempts, toAttemptResponse(a))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/attempts/{id} and returns a single attempt.
func (h *AttemptHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	attempt, err := h.store.Attempts().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Attempt not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get attempt")
		return
	}

	writeJSON(w, http.StatusOK, toAttemptResponse(attempt))
}

// delete handles DELETE /api/attempts/{id} and removes an attempt.
func (h *AttemptHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Attempts().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Attempt not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete attempt")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// StatsHandler serves per-sign completion counts.
type StatsHandler struct {
	store *store.Store
}

// NewStatsHandler creates a new StatsHandler with the given store.
func NewStatsHandler(s *store.Store) *StatsHandler {
	return &StatsHandler{store: s}
}

// ServeHTTP handles GET /api/stats.
func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stats, err := h.store.Attempts().StatsBySign()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}
	if stats == nil {
		stats = []store.SignStats{}
	}

	writeJSON(w, http.StatusOK, statsResponse{Signs: stats})
}
