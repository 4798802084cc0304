// Package app runs fingerspelling practice sessions. Each frame flows through
// the classifier, the scorer and the feedback stabilizer of its session.
package app

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/ayusman/fingerspell/internal/catalog"
	"github.com/ayusman/fingerspell/internal/scorer"
	"github.com/ayusman/fingerspell/internal/store"
)

// Points awarded when a target latches as correct.
const SignPoints = 10

// Config holds configuration options for the application.
type Config struct {
	// Store persists sessions and attempts. Nil keeps sessions in memory only.
	Store   *store.Store
	Catalog *catalog.Catalog
	Scorer  *scorer.Scorer
}

// App creates practice sessions over a catalog and a scorer.
type App struct {
	config  Config
	catalog *catalog.Catalog
	scorer  *scorer.Scorer
}

// New creates a new App instance with the given configuration. A nil catalog
// or scorer is replaced by the built-in one.
func New(config Config) *App {
	a := &App{
		config:  config,
		catalog: config.Catalog,
		scorer:  config.Scorer,
	}

	if a.catalog == nil {
		a.catalog = catalog.MustLoad()
	}
	if a.scorer == nil {
		a.scorer = scorer.NewDefault()
	}

	return a
}

// Catalog returns the sign catalog.
func (a *App) Catalog() *catalog.Catalog {
	return a.catalog
}

// Scorer returns the scorer shared by all sessions.
func (a *App) Scorer() *scorer.Scorer {
	return a.scorer
}

// Store returns the configured store, or nil.
func (a *App) Store() *store.Store {
	return a.config.Store
}

// NewSession starts a practice session over the named stage.
func (a *App) NewSession(stage string) (*Session, error) {
	st, err := a.catalog.Stage(stage)
	if err != nil {
		return nil, err
	}
	if len(st.Signs) == 0 {
		return nil, fmt.Errorf("stage %s has no signs", stage)
	}

	id := uuid.NewString()

	var recorder Recorder
	if a.config.Store != nil {
		if err := a.config.Store.Sessions().Create(&store.Session{ID: id, Stage: st.Name}); err != nil {
			return nil, fmt.Errorf("create session: %w", err)
		}
		recorder = &storeRecorder{store: a.config.Store}
	}

	s := newSession(id, st, a.scorer, recorder)
	log.Printf("Session %s started: stage %s, %d signs", id, st.Name, len(st.Signs))
	return s, nil
}

// storeRecorder writes attempts and session progress to the SQLite store.
type storeRecorder struct {
	store *store.Store
}

func (r *storeRecorder) RecordAttempt(sessionID string, a AttemptSummary, p Progress) error {
	err := r.store.Attempts().Create(&store.Attempt{
		ID:             uuid.NewString(),
		SessionID:      sessionID,
		SignID:         a.SignID,
		Outcome:        a.Outcome,
		BestConfidence: a.BestConfidence,
		Frames:         a.Frames,
		Duration:       a.Duration,
	})
	if err != nil {
		return fmt.Errorf("record attempt: %w", err)
	}

	err = r.store.Sessions().UpdateProgress(&store.Session{
		ID:         sessionID,
		Score:      p.Score,
		Streak:     p.Streak,
		BestStreak: p.BestStreak,
	})
	if err != nil {
		return fmt.Errorf("update session progress: %w", err)
	}

	return nil
}
