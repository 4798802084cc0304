// Package scorer evaluates finger states against per-sign rules and produces
// a per-frame verdict.
package scorer

import (
	"fmt"

	"github.com/ayusman/fingerspell/internal/classifier"
	"github.com/ayusman/fingerspell/internal/hand"
)

// CorrectThreshold is the confidence a frame must exceed to count as correct.
const CorrectThreshold = 0.92

// Fixed verdict feedback strings.
const (
	FeedbackNoHand         = "No hand detected"
	FeedbackNotImplemented = "Gesture not yet implemented"
	FeedbackCorrect        = "Great job!"
	FeedbackAdjust         = "Adjust your hand"
)

// NotImplementedConfidence is reported for targets without a rule.
const NotImplementedConfidence = 0.1

// Verdict is the scoring result of one frame.
type Verdict struct {
	IsCorrect   bool     `json:"isCorrect"`
	Confidence  float64  `json:"confidence"`
	Feedback    string   `json:"feedback"`
	Corrections []string `json:"corrections"`
}

// Scorer scores hands against the rules of a Registry.
type Scorer struct {
	rules      *Registry
	classifier *classifier.Classifier
}

// New creates a Scorer.
func New(rules *Registry, c *classifier.Classifier) *Scorer {
	return &Scorer{rules: rules, classifier: c}
}

// NewDefault creates a Scorer over the built-in rules and default thresholds.
func NewDefault() *Scorer {
	return New(DefaultRegistry(), classifier.New(classifier.DefaultThresholds()))
}

// Rules returns the scorer's rule registry.
func (s *Scorer) Rules() *Registry {
	return s.rules
}

// Score evaluates one hand's raw landmarks against the target sign.
// An empty landmark list yields the no-hand verdict and an unknown target
// the placeholder verdict. Any other length than 21 is an error wrapping
// hand.ErrMalformedHand.
func (s *Scorer) Score(points []hand.Point3D, targetID string) (Verdict, error) {
	if len(points) == 0 {
		return Verdict{Feedback: FeedbackNoHand, Corrections: []string{}}, nil
	}

	rule, ok := s.rules.Lookup(targetID)
	if !ok {
		return Verdict{
			Confidence:  NotImplementedConfidence,
			Feedback:    FeedbackNotImplemented,
			Corrections: []string{},
		}, nil
	}

	h, err := hand.New(points)
	if err != nil {
		return Verdict{}, fmt.Errorf("score %s: %w", targetID, err)
	}

	return s.Evaluate(&h, rule), nil
}

// Evaluate applies rule to a validated hand.
func (s *Scorer) Evaluate(h *hand.Hand, rule SignRule) Verdict {
	in := &Input{
		Hand:       h,
		States:     s.classifier.Classify(h),
		Thresholds: s.classifier.Thresholds(),
	}

	var confidence float64
	corrections := []string{}
	for _, c := range rule.Checks {
		partial, fixes := c.Evaluate(in)
		confidence += c.Weight() * partial
		corrections = append(corrections, fixes...)
	}
	confidence = clamp01(confidence)

	v := Verdict{
		IsCorrect:   confidence > CorrectThreshold && len(corrections) == 0,
		Confidence:  confidence,
		Corrections: corrections,
	}
	if v.IsCorrect {
		v.Feedback = FeedbackCorrect
	} else {
		v.Feedback = FeedbackAdjust
	}
	return v
}
