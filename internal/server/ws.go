package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/ayusman/fingerspell/internal/app"
	"github.com/ayusman/fingerspell/internal/hand"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// Commands a client may send instead of a frame.
const (
	CommandAdvance = "advance"
	CommandSkip    = "skip"
)

type wsCommand struct {
	Command string `json:"command"`
}

type wsError struct {
	Error string `json:"error"`
}

// FrameStreamHandler scores frames streamed over a WebSocket against a live
// session. Each analyzed frame is answered with a snapshot; frames above
// the rate limit and stale frames get no answer.
type FrameStreamHandler struct {
	registry *SessionRegistry
	maxFPS   float64
}

// NewFrameStreamHandler creates a handler for /api/sessions/{id}/ws. A
// maxFPS of zero or less disables rate limiting.
func NewFrameStreamHandler(registry *SessionRegistry, maxFPS float64) *FrameStreamHandler {
	return &FrameStreamHandler{registry: registry, maxFPS: maxFPS}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *FrameStreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	id = strings.TrimSuffix(id, "/ws")

	sess, ok := h.registry.Get(id)
	if !ok {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	limit := rate.Inf
	if h.maxFPS > 0 {
		limit = rate.Limit(h.maxFPS)
	}
	limiter := rate.NewLimiter(limit, 1)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("websocket read error for session %s: %v", id, err)
			}
			return
		}

		// Keep the session alive while the stream is open
		h.registry.Get(id)

		reply, ok := h.handleMessage(sess, limiter, data)
		if !ok {
			continue
		}
		if err := conn.WriteJSON(reply); err != nil {
			log.Printf("websocket write error for session %s: %v", id, err)
			return
		}
	}
}

// handleMessage applies one client message and returns the reply to send,
// or false when the message gets no reply.
func (h *FrameStreamHandler) handleMessage(sess *app.Session, limiter *rate.Limiter, data []byte) (any, bool) {
	var cmd wsCommand
	if err := json.Unmarshal(data, &cmd); err != nil {
		return wsError{Error: "invalid message"}, true
	}

	switch cmd.Command {
	case "":
	case CommandAdvance:
		return transitionReply(sess.Advance())
	case CommandSkip:
		return transitionReply(sess.Skip())
	default:
		return wsError{Error: "unknown command " + cmd.Command}, true
	}

	if !limiter.Allow() {
		return nil, false
	}

	frame, err := hand.DecodeFrame(data)
	if err != nil {
		return wsError{Error: "invalid frame"}, true
	}

	snap, err := sess.ProcessFrame(frame)
	switch {
	case err == nil:
		return snap, true
	case errors.Is(err, app.ErrStaleFrame):
		return nil, false
	default:
		return wsError{Error: err.Error()}, true
	}
}

func transitionReply(snap app.Snapshot, err error) (any, bool) {
	if err != nil {
		return wsError{Error: err.Error()}, true
	}
	return snap, true
}
