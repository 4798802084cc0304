package app

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/ayusman/fingerspell/internal/catalog"
	"github.com/ayusman/fingerspell/internal/feedback"
	"github.com/ayusman/fingerspell/internal/scorer"
	"github.com/ayusman/fingerspell/internal/store"
)

var (
	// ErrStaleFrame is returned for a frame tagged with a target other than the active one.
	ErrStaleFrame = errors.New("frame is for a previous target")
	// ErrSessionDone is returned when advancing or skipping past the last target.
	ErrSessionDone = errors.New("session is done")
)

// Progress is the running score of a session.
type Progress struct {
	Score      int `json:"score"`
	Streak     int `json:"streak"`
	BestStreak int `json:"best_streak"`
}

// AttemptSummary describes how one target sign went.
type AttemptSummary struct {
	SignID         string
	Outcome        store.Outcome
	BestConfidence float64
	Frames         int
	Duration       time.Duration
}

// Recorder receives every finished attempt together with the session
// progress after it.
type Recorder interface {
	RecordAttempt(sessionID string, a AttemptSummary, p Progress) error
}

// Snapshot is the externally visible state of a session.
type Snapshot struct {
	SessionID string         `json:"session_id"`
	Stage     string         `json:"stage"`
	Target    *catalog.Sign  `json:"target,omitempty"`
	Index     int            `json:"index"`
	Total     int            `json:"total"`
	Feedback  feedback.State `json:"feedback"`
	Progress  Progress       `json:"progress"`
	Done      bool           `json:"done"`
}

type attemptStats struct {
	frames  int
	best    float64
	latched bool
	started time.Time
}

// Session is one learner working through the signs of a stage. All methods
// are safe for concurrent use; frames and resets are applied one at a time.
type Session struct {
	mu         sync.Mutex
	id         string
	stage      *catalog.Stage
	scorer     *scorer.Scorer
	stabilizer *feedback.Stabilizer
	recorder   Recorder
	progress   Progress
	attempt    attemptStats
	now        func() time.Time
}

func newSession(id string, stage *catalog.Stage, sc *scorer.Scorer, recorder Recorder) *Session {
	s := &Session{
		id:         id,
		stage:      stage,
		scorer:     sc,
		stabilizer: feedback.NewStabilizer(stage.IDs()),
		recorder:   recorder,
		now:        time.Now,
	}
	s.attempt.started = s.now()
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Stage returns the name of the practiced stage.
func (s *Session) Stage() string {
	return s.stage.Name
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Advance records the active attempt and moves to the next target.
func (s *Session) Advance() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, ok := s.stabilizer.Current()
	if !ok {
		return s.snapshotLocked(), ErrSessionDone
	}

	outcome := store.OutcomeAdvanced
	if s.attempt.latched {
		outcome = store.OutcomeCompleted
	}
	s.finishAttempt(target, outcome)
	s.stabilizer.Advance()

	return s.snapshotLocked(), nil
}

// Skip records the active attempt as skipped, resets the streak and moves to
// the next target.
func (s *Session) Skip() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, ok := s.stabilizer.Current()
	if !ok {
		return s.snapshotLocked(), ErrSessionDone
	}

	s.progress.Streak = 0
	s.finishAttempt(target, store.OutcomeSkipped)
	s.stabilizer.Skip()

	return s.snapshotLocked(), nil
}

func (s *Session) finishAttempt(target string, outcome store.Outcome) {
	summary := AttemptSummary{
		SignID:         target,
		Outcome:        outcome,
		BestConfidence: s.attempt.best,
		Frames:         s.attempt.frames,
		Duration:       s.now().Sub(s.attempt.started),
	}
	s.attempt = attemptStats{started: s.now()}

	log.Printf("Session %s: %s %s (best %.2f over %d frames, %s)",
		s.id, summary.SignID, summary.Outcome, summary.BestConfidence, summary.Frames,
		summary.Duration.Round(time.Millisecond))

	if s.recorder == nil {
		return
	}
	if err := s.recorder.RecordAttempt(s.id, summary, s.progress); err != nil {
		log.Printf("Session %s: failed to record attempt: %v", s.id, err)
	}
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		SessionID: s.id,
		Stage:     s.stage.Name,
		Index:     s.stabilizer.Index(),
		Total:     s.stabilizer.Len(),
		Feedback:  s.stabilizer.State(),
		Progress:  s.progress,
	}

	if sign, ok := s.stage.At(snap.Index); ok {
		snap.Target = &sign
	} else {
		snap.Done = true
	}

	return snap
}
