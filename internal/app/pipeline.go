package app

import "github.com/ayusman/fingerspell/internal/hand"

// ProcessFrame runs one full pass over a frame: the primary hand is scored
// against the active target and the verdict is applied to the stabilizer.
//
// Pass logic:
// 1. Frames after the last target are ignored
// 2. Frames tagged for another target are dropped with ErrStaleFrame
// 3. Score the primary hand; malformed hands return the scoring error
// 4. Track frame count and best confidence for the attempt
// 5. Apply the verdict; the first latch awards points and extends the streak
func (s *Session) ProcessFrame(frame hand.Frame) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, ok := s.stabilizer.Current()
	if !ok {
		return s.snapshotLocked(), nil
	}

	if frame.Target != "" && frame.Target != target {
		return s.snapshotLocked(), ErrStaleFrame
	}

	verdict, err := s.scorer.Score(frame.Primary(), target)
	if err != nil {
		return s.snapshotLocked(), err
	}

	s.attempt.frames++
	if verdict.Confidence > s.attempt.best {
		s.attempt.best = verdict.Confidence
	}

	s.stabilizer.Update(target, verdict)

	if s.stabilizer.State().IsCorrect && !s.attempt.latched {
		s.attempt.latched = true
		s.progress.Score += SignPoints
		s.progress.Streak++
		if s.progress.Streak > s.progress.BestStreak {
			s.progress.BestStreak = s.progress.Streak
		}
	}

	return s.snapshotLocked(), nil
}
