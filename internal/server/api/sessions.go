package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/ayusman/fingerspell/internal/app"
	"github.com/ayusman/fingerspell/internal/catalog"
	"github.com/ayusman/fingerspell/internal/hand"
)

// maxFrameBytes bounds the body of a posted frame.
const maxFrameBytes = 1 << 20

// SessionRegistry holds the live sessions.
type SessionRegistry interface {
	Add(s *app.Session)
	Get(id string) (*app.Session, bool)
}

// SessionHandler handles HTTP requests for live practice sessions.
type SessionHandler struct {
	app      *app.App
	registry SessionRegistry
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(a *app.App, registry SessionRegistry) *SessionHandler {
	return &SessionHandler{app: a, registry: registry}
}

type createSessionRequest struct {
	Stage string `json:"stage"`
}

// ServeHTTP routes /api/sessions, /api/sessions/{id} and
// /api/sessions/{id}/{frames|advance|skip}.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.create(w, r)
		return
	}

	id, action, _ := strings.Cut(path, "/")

	sess, ok := h.registry.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	if action == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, sess.Snapshot())
		return
	}

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	switch action {
	case "frames":
		h.frame(w, r, sess)
	case "advance":
		writeTransition(w, sess.Advance)
	case "skip":
		writeTransition(w, sess.Skip)
	default:
		http.NotFound(w, r)
	}
}

// create handles POST /api/sessions and starts a new session.
func (h *SessionHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
	}

	if req.Stage == "" {
		req.Stage = catalog.StageLetters
	}

	sess, err := h.app.NewSession(req.Stage)
	if err != nil {
		if errors.Is(err, catalog.ErrUnknownStage) {
			writeError(w, http.StatusBadRequest, "Unknown stage")
			return
		}
		log.Printf("Failed to create session: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	h.registry.Add(sess)
	writeJSON(w, http.StatusCreated, sess.Snapshot())
}

// frame handles POST /api/sessions/{id}/frames with one landmark frame.
func (h *SessionHandler) frame(w http.ResponseWriter, r *http.Request, sess *app.Session) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxFrameBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read body")
		return
	}

	frame, err := hand.DecodeFrame(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	snap, err := sess.ProcessFrame(frame)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, snap)
	case errors.Is(err, hand.ErrMalformedHand):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, app.ErrStaleFrame):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "Failed to process frame")
	}
}

func writeTransition(w http.ResponseWriter, transition func() (app.Snapshot, error)) {
	snap, err := transition()
	if err != nil {
		if errors.Is(err, app.ErrSessionDone) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update session")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
