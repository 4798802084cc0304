// Package feedback stabilizes the per-frame verdict stream into the state
// shown to the learner.
package feedback

import (
	"math"
	"slices"

	"github.com/ayusman/fingerspell/internal/scorer"
)

// DebounceDelta is the smallest confidence change that refreshes the display.
const DebounceDelta = 0.05

// Display strings set by the stabilizer itself.
const (
	FeedbackLatched = "Excellent!"
	FeedbackPrompt  = "Show the sign to the camera"
	FeedbackSkipped = "Skipped"
)

// State is what the learner currently sees for the active target.
type State struct {
	Feedback    string   `json:"feedback"`
	Confidence  float64  `json:"confidence"`
	IsCorrect   bool     `json:"isCorrect"`
	Corrections []string `json:"corrections"`
}

// Initial returns the state shown before the first frame of a target.
func Initial() State {
	return State{Feedback: FeedbackPrompt, Corrections: []string{}}
}

// Equal reports whether s and o display the same thing.
func (s State) Equal(o State) bool {
	return s.Feedback == o.Feedback &&
		s.Confidence == o.Confidence &&
		s.IsCorrect == o.IsCorrect &&
		slices.Equal(s.Corrections, o.Corrections)
}

// EventKind distinguishes the inputs of the reducer.
type EventKind int

const (
	// EventVerdict carries the latest frame verdict.
	EventVerdict EventKind = iota
	// EventAdvance moves to the next target after the learner asks for it.
	EventAdvance
	// EventSkip moves to the next target without completing the current one.
	EventSkip
)

// Event is one input to Reduce.
type Event struct {
	Kind    EventKind
	Verdict scorer.Verdict
}

// VerdictEvent wraps a frame verdict.
func VerdictEvent(v scorer.Verdict) Event {
	return Event{Kind: EventVerdict, Verdict: v}
}

// Reduce computes the next display state. It is pure.
//
// A latched (correct) state stays latched and is shown at full confidence
// until an advance or skip. Verdicts that differ from the displayed state by
// less than DebounceDelta in confidence, with identical text, correctness and
// corrections, leave the state unchanged.
func Reduce(prev State, ev Event) State {
	switch ev.Kind {
	case EventAdvance:
		return Initial()
	case EventSkip:
		return State{Feedback: FeedbackSkipped, Corrections: []string{}}
	}

	if prev.IsCorrect {
		return State{Feedback: FeedbackLatched, Confidence: 1, IsCorrect: true, Corrections: []string{}}
	}

	v := ev.Verdict
	isCorrect := prev.IsCorrect || v.IsCorrect

	if math.Abs(v.Confidence-prev.Confidence) < DebounceDelta &&
		v.Feedback == prev.Feedback &&
		isCorrect == prev.IsCorrect &&
		slices.Equal(v.Corrections, prev.Corrections) {
		return prev
	}

	corrections := slices.Clone(v.Corrections)
	if corrections == nil {
		corrections = []string{}
	}
	return State{
		Feedback:    v.Feedback,
		Confidence:  v.Confidence,
		IsCorrect:   isCorrect,
		Corrections: corrections,
	}
}
