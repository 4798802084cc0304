package app

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/fingerspell/internal/catalog"
	"github.com/ayusman/fingerspell/internal/feedback"
	"github.com/ayusman/fingerspell/internal/hand"
	"github.com/ayusman/fingerspell/internal/scorer"
	"github.com/ayusman/fingerspell/internal/store"
)

func frameOf(h hand.Hand, target string) hand.Frame {
	return hand.Frame{Hands: []hand.RawHand{h.Raw()}, Target: target}
}

type recordedAttempt struct {
	sessionID string
	summary   AttemptSummary
	progress  Progress
}

type fakeRecorder struct {
	attempts []recordedAttempt
}

func (r *fakeRecorder) RecordAttempt(sessionID string, a AttemptSummary, p Progress) error {
	r.attempts = append(r.attempts, recordedAttempt{sessionID, a, p})
	return nil
}

func newTestSession(t *testing.T, recorder Recorder) *Session {
	t.Helper()

	st, err := catalog.MustLoad().Stage(catalog.StageLetters)
	if err != nil {
		t.Fatalf("letters stage missing: %v", err)
	}
	return newSession("test-session", st, scorer.NewDefault(), recorder)
}

func TestSession_InitialSnapshot(t *testing.T) {
	s := newTestSession(t, nil)

	snap := s.Snapshot()
	if snap.SessionID != "test-session" || snap.Stage != catalog.StageLetters {
		t.Errorf("unexpected identity: %+v", snap)
	}
	if snap.Target == nil || snap.Target.ID != "A" {
		t.Fatalf("expected first target A, got %+v", snap.Target)
	}
	if snap.Index != 0 || snap.Done {
		t.Errorf("expected index 0 and not done, got %d %v", snap.Index, snap.Done)
	}
	if snap.Feedback.Feedback != feedback.FeedbackPrompt {
		t.Errorf("expected prompt feedback, got %q", snap.Feedback.Feedback)
	}
}

func TestSession_ProcessFrame(t *testing.T) {
	t.Run("correct sign latches and scores once", func(t *testing.T) {
		s := newTestSession(t, nil)

		snap, err := s.ProcessFrame(frameOf(hand.FistLandmarks(), "A"))
		if err != nil {
			t.Fatalf("ProcessFrame() error = %v", err)
		}
		if !snap.Feedback.IsCorrect {
			t.Fatalf("expected fist to latch for A, got %+v", snap.Feedback)
		}
		if snap.Progress.Score != SignPoints || snap.Progress.Streak != 1 {
			t.Errorf("expected score %d streak 1, got %+v", SignPoints, snap.Progress)
		}

		snap, err = s.ProcessFrame(frameOf(hand.OpenPalmLandmarks(), ""))
		if err != nil {
			t.Fatalf("ProcessFrame() error = %v", err)
		}
		if !snap.Feedback.IsCorrect || snap.Feedback.Feedback != feedback.FeedbackLatched {
			t.Errorf("expected latched display, got %+v", snap.Feedback)
		}
		if snap.Progress.Score != SignPoints {
			t.Errorf("latched frames should not score again, got %d", snap.Progress.Score)
		}
	})

	t.Run("wrong sign shows corrections", func(t *testing.T) {
		s := newTestSession(t, nil)

		snap, err := s.ProcessFrame(frameOf(hand.OpenPalmLandmarks(), ""))
		if err != nil {
			t.Fatalf("ProcessFrame() error = %v", err)
		}
		if snap.Feedback.IsCorrect {
			t.Error("open palm should not be correct for A")
		}
		if len(snap.Feedback.Corrections) == 0 {
			t.Error("expected corrections for open palm")
		}
		if snap.Progress.Score != 0 {
			t.Errorf("expected no score, got %d", snap.Progress.Score)
		}
	})

	t.Run("no hand", func(t *testing.T) {
		s := newTestSession(t, nil)

		snap, err := s.ProcessFrame(hand.Frame{})
		if err != nil {
			t.Fatalf("ProcessFrame() error = %v", err)
		}
		if snap.Feedback.Feedback != scorer.FeedbackNoHand {
			t.Errorf("expected no-hand feedback, got %q", snap.Feedback.Feedback)
		}
	})

	t.Run("malformed hand is an error", func(t *testing.T) {
		s := newTestSession(t, nil)
		frame := hand.Frame{Hands: []hand.RawHand{{Points: make([]hand.Point3D, 5)}}}

		snap, err := s.ProcessFrame(frame)
		if !errors.Is(err, hand.ErrMalformedHand) {
			t.Fatalf("expected ErrMalformedHand, got %v", err)
		}
		if snap.Feedback.Feedback != feedback.FeedbackPrompt {
			t.Errorf("malformed frame should not change the display, got %q", snap.Feedback.Feedback)
		}
	})

	t.Run("stale frame is dropped", func(t *testing.T) {
		s := newTestSession(t, nil)
		if _, err := s.Advance(); err != nil {
			t.Fatalf("Advance() error = %v", err)
		}

		snap, err := s.ProcessFrame(frameOf(hand.FistLandmarks(), "A"))
		if !errors.Is(err, ErrStaleFrame) {
			t.Fatalf("expected ErrStaleFrame, got %v", err)
		}
		if snap.Target.ID != "B" || snap.Feedback.IsCorrect {
			t.Errorf("stale frame should not touch target B, got %+v", snap)
		}
	})
}

func TestSession_AdvanceAndSkip(t *testing.T) {
	rec := &fakeRecorder{}
	s := newTestSession(t, rec)

	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := start
	s.now = func() time.Time { return clock }
	s.attempt.started = start

	s.ProcessFrame(frameOf(hand.OpenPalmLandmarks(), "A"))
	s.ProcessFrame(frameOf(hand.FistLandmarks(), "A"))
	clock = start.Add(2 * time.Second)

	snap, err := s.Advance()
	if err != nil {
		t.Fatalf("Advance() error = %v", err)
	}
	if snap.Target.ID != "B" || snap.Index != 1 {
		t.Errorf("expected target B at index 1, got %+v", snap)
	}
	if snap.Feedback.Feedback != feedback.FeedbackPrompt || snap.Feedback.IsCorrect {
		t.Errorf("advance should reset the display, got %+v", snap.Feedback)
	}

	snap, err = s.Skip()
	if err != nil {
		t.Fatalf("Skip() error = %v", err)
	}
	if snap.Feedback.Feedback != feedback.FeedbackSkipped {
		t.Errorf("expected skip prompt, got %q", snap.Feedback.Feedback)
	}
	if snap.Progress.Streak != 0 || snap.Progress.BestStreak != 1 || snap.Progress.Score != SignPoints {
		t.Errorf("unexpected progress after skip: %+v", snap.Progress)
	}

	if len(rec.attempts) != 2 {
		t.Fatalf("expected 2 recorded attempts, got %d", len(rec.attempts))
	}

	first := rec.attempts[0]
	if first.sessionID != "test-session" || first.summary.SignID != "A" || first.summary.Outcome != store.OutcomeCompleted {
		t.Errorf("unexpected first attempt: %+v", first)
	}
	if first.summary.Frames != 2 || first.summary.BestConfidence < 0.99 {
		t.Errorf("unexpected first attempt stats: %+v", first.summary)
	}
	if first.summary.Duration != 2*time.Second {
		t.Errorf("expected 2s duration, got %v", first.summary.Duration)
	}

	second := rec.attempts[1]
	if second.summary.SignID != "B" || second.summary.Outcome != store.OutcomeSkipped || second.summary.Frames != 0 {
		t.Errorf("unexpected second attempt: %+v", second)
	}
}

func TestSession_AdvanceWithoutLatch(t *testing.T) {
	rec := &fakeRecorder{}
	s := newTestSession(t, rec)

	s.ProcessFrame(frameOf(hand.OpenPalmLandmarks(), "A"))
	if _, err := s.Advance(); err != nil {
		t.Fatalf("Advance() error = %v", err)
	}

	if rec.attempts[0].summary.Outcome != store.OutcomeAdvanced {
		t.Errorf("expected advanced outcome, got %s", rec.attempts[0].summary.Outcome)
	}
}

func TestSession_Done(t *testing.T) {
	s := newTestSession(t, nil)
	total := s.Snapshot().Total

	for i := 0; i < total; i++ {
		if _, err := s.Skip(); err != nil {
			t.Fatalf("Skip() %d error = %v", i, err)
		}
	}

	snap := s.Snapshot()
	if !snap.Done || snap.Target != nil {
		t.Errorf("expected done session without target, got %+v", snap)
	}

	if _, err := s.Advance(); !errors.Is(err, ErrSessionDone) {
		t.Errorf("expected ErrSessionDone, got %v", err)
	}
	if _, err := s.ProcessFrame(frameOf(hand.FistLandmarks(), "")); err != nil {
		t.Errorf("frames after the end should be ignored, got %v", err)
	}
}

func TestApp_NewSession(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	a := New(Config{Store: s})

	sess, err := a.NewSession(catalog.StageLetters)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	if _, err := s.Sessions().GetByID(sess.ID()); err != nil {
		t.Fatalf("session should be stored: %v", err)
	}

	sess.ProcessFrame(frameOf(hand.FistLandmarks(), "A"))
	if _, err := sess.Advance(); err != nil {
		t.Fatalf("Advance() error = %v", err)
	}

	attempts, err := s.Attempts().ListBySession(sess.ID())
	if err != nil {
		t.Fatalf("ListBySession() error = %v", err)
	}
	if len(attempts) != 1 || attempts[0].SignID != "A" || attempts[0].Outcome != store.OutcomeCompleted {
		t.Errorf("unexpected stored attempts: %+v", attempts)
	}

	stored, err := s.Sessions().GetByID(sess.ID())
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if stored.Score != SignPoints || stored.Streak != 1 || stored.BestStreak != 1 {
		t.Errorf("progress not stored: %+v", stored)
	}

	if _, err := a.NewSession("sentences"); !errors.Is(err, catalog.ErrUnknownStage) {
		t.Errorf("expected ErrUnknownStage, got %v", err)
	}
}

func TestApp_Defaults(t *testing.T) {
	a := New(Config{})

	if a.Catalog() == nil || a.Scorer() == nil {
		t.Fatal("expected default catalog and scorer")
	}
	if a.Store() != nil {
		t.Error("expected no store")
	}

	sess, err := a.NewSession(catalog.StageWords)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	snap, _ := sess.ProcessFrame(frameOf(hand.FistLandmarks(), ""))
	if snap.Feedback.Feedback != scorer.FeedbackNotImplemented {
		t.Errorf("expected not implemented feedback for HELLO, got %q", snap.Feedback.Feedback)
	}
}
