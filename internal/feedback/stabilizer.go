package feedback

import "github.com/ayusman/fingerspell/internal/scorer"

// Stabilizer owns the display state and the active target of a practice run.
// It is not safe for concurrent use; callers run one frame at a time.
type Stabilizer struct {
	targets []string
	index   int
	state   State
}

// NewStabilizer creates a Stabilizer over the ordered target identifiers,
// starting at the first one.
func NewStabilizer(targets []string) *Stabilizer {
	return &Stabilizer{
		targets: append([]string(nil), targets...),
		state:   Initial(),
	}
}

// State returns the current display state.
func (s *Stabilizer) State() State {
	return s.state
}

// Index returns the position of the active target.
func (s *Stabilizer) Index() int {
	return s.index
}

// Len returns the number of targets.
func (s *Stabilizer) Len() int {
	return len(s.targets)
}

// Current returns the active target, or false once past the last target.
func (s *Stabilizer) Current() (string, bool) {
	if s.index < 0 || s.index >= len(s.targets) {
		return "", false
	}
	return s.targets[s.index], true
}

// Update applies a verdict computed against targetID. Verdicts for any other
// target than the active one are stale and are discarded; Update then
// returns false.
func (s *Stabilizer) Update(targetID string, v scorer.Verdict) bool {
	current, ok := s.Current()
	if !ok || current != targetID {
		return false
	}
	s.state = Reduce(s.state, VerdictEvent(v))
	return true
}

// Advance resets the display and moves to the next target.
func (s *Stabilizer) Advance() {
	s.state = Reduce(s.state, Event{Kind: EventAdvance})
	s.index++
}

// Skip resets the display with the skip prompt and moves to the next target.
func (s *Stabilizer) Skip() {
	s.state = Reduce(s.state, Event{Kind: EventSkip})
	s.index++
}
