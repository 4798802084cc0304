// Package classifier reduces hand landmarks to per-finger openness states.
package classifier

import (
	"math"

	"github.com/ayusman/fingerspell/internal/hand"
)

// Angle thresholds in degrees.
const (
	// OpenAngle is the smallest joint angle classified as OPEN.
	OpenAngle = 160.0
	// ClosedAngle is the largest joint angle classified as CLOSED.
	ClosedAngle = 100.0
	// MaxAngle is a fully straight finger.
	MaxAngle = 180.0
)

// State is the openness classification of a finger.
type State string

const (
	Open   State = "OPEN"
	Semi   State = "SEMI"
	Closed State = "CLOSED"
)

// Thresholds holds the joint angles separating the finger states.
type Thresholds struct {
	Open   float64
	Closed float64
}

// DefaultThresholds returns the standard OPEN/CLOSED boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{Open: OpenAngle, Closed: ClosedAngle}
}

// Classify maps an angle to a finger state.
func (t Thresholds) Classify(angle float64) State {
	switch {
	case angle >= t.Open:
		return Open
	case angle <= t.Closed:
		return Closed
	default:
		return Semi
	}
}

// FingerState is the derived state of one finger for a single frame.
type FingerState struct {
	Finger hand.Finger `json:"finger"`
	Angle  float64     `json:"angle"`
	State  State       `json:"state"`
}

// States holds the state of every finger, indexed by hand.Finger.
type States [hand.NumFingers]FingerState

// Of returns the state of finger f.
func (s *States) Of(f hand.Finger) FingerState {
	return s[f]
}

// Classifier computes finger states from landmarks.
type Classifier struct {
	thresholds Thresholds
}

// New creates a Classifier with the given thresholds.
func New(t Thresholds) *Classifier {
	return &Classifier{thresholds: t}
}

// Thresholds returns the classifier's angle boundaries.
func (c *Classifier) Thresholds() Thresholds {
	return c.thresholds
}

// Classify computes the joint angle and state of every finger of h.
func (c *Classifier) Classify(h *hand.Hand) States {
	var states States
	for _, f := range hand.AllFingers {
		j := f.Joints()
		angle := JointAngle(h.At(j.Proximal), h.At(j.Middle), h.At(j.Distal))
		states[f] = FingerState{
			Finger: f,
			Angle:  angle,
			State:  c.thresholds.Classify(angle),
		}
	}
	return states
}

// JointAngle returns the angle in degrees at middle between the vectors to
// proximal and distal. A zero-length vector has no measurable bend and
// yields MaxAngle, as does a pair of vectors too large to represent.
func JointAngle(proximal, middle, distal hand.Point3D) float64 {
	a := proximal.Sub(middle)
	b := distal.Sub(middle)

	na, nb := a.Norm(), b.Norm()
	if na*nb < 1e-12 {
		return MaxAngle
	}

	cos := a.Scale(1 / na).Dot(b.Scale(1 / nb))
	if math.IsNaN(cos) {
		return MaxAngle
	}
	cos = math.Max(-1, math.Min(1, cos))

	return math.Acos(cos) * 180 / math.Pi
}
