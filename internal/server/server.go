// Package server provides the HTTP server for fingerspelling practice.
package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/ayusman/fingerspell/internal/app"
	"github.com/ayusman/fingerspell/internal/server/api"
)

// DefaultSessionTTL is how long an idle session stays live.
const DefaultSessionTTL = 30 * time.Minute

// Config holds the server configuration.
type Config struct {
	StaticDir string
	App       *app.App
	// SessionTTL expires idle sessions. Zero uses DefaultSessionTTL.
	SessionTTL time.Duration
	// MaxFPS caps the frames scored per WebSocket connection. Zero disables the cap.
	MaxFPS float64
}

// Server represents the HTTP server for the practice application.
type Server struct {
	config   Config
	mux      *http.ServeMux
	sessions *SessionRegistry
	start    time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	ttl := config.SessionTTL
	if ttl == 0 {
		ttl = DefaultSessionTTL
	}

	s := &Server{
		config:   config,
		mux:      http.NewServeMux(),
		sessions: NewSessionRegistry(ttl),
		start:    time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	// Register practice API handlers if App is configured
	if a := s.config.App; a != nil {
		s.mux.Handle("/api/signs", api.NewSignHandler(a.Catalog(), a.Scorer().Rules()))

		sessionHandler := api.NewSessionHandler(a, s.sessions)
		streamHandler := NewFrameStreamHandler(s.sessions, s.config.MaxFPS)

		// Use a wrapper to route between the REST and WebSocket session handlers
		sessionRouter := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Check if this is a stream request: /api/sessions/{id}/ws
			if strings.HasSuffix(r.URL.Path, "/ws") {
				streamHandler.ServeHTTP(w, r)
				return
			}
			sessionHandler.ServeHTTP(w, r)
		})

		s.mux.Handle("/api/sessions", sessionRouter)
		s.mux.Handle("/api/sessions/", sessionRouter)

		// History endpoints need the store
		if st := a.Store(); st != nil {
			attemptHandler := api.NewAttemptHandler(st)
			s.mux.Handle("/api/attempts", attemptHandler)
			s.mux.Handle("/api/attempts/", attemptHandler)
			s.mux.Handle("/api/stats", api.NewStatsHandler(st))
		}
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// Sessions returns the live session registry.
func (s *Server) Sessions() *SessionRegistry {
	return s.sessions
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status":   "ok",
		"uptime":   uptime.String(),
		"sessions": s.sessions.Len(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
