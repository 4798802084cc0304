package scorer

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/ayusman/fingerspell/internal/classifier"
	"github.com/ayusman/fingerspell/internal/hand"
)

// weightTolerance bounds the float error allowed when rule weights are summed.
const weightTolerance = 1e-6

// ErrInvalidRule is returned when a rule fails validation.
var ErrInvalidRule = errors.New("invalid sign rule")

// Input is what a check sees of the current frame.
type Input struct {
	Hand       *hand.Hand
	States     classifier.States
	Thresholds classifier.Thresholds
}

// Check is one weighted sub-check of a sign rule.
type Check interface {
	// Weight is the share of the total confidence this check contributes.
	Weight() float64
	// Evaluate returns a partial score in [0,1] and any corrections, in order.
	Evaluate(in *Input) (float64, []string)
	validate() error
}

// SignRule is the declarative scoring description of one target sign.
type SignRule struct {
	ID     string
	Checks []Check
}

// Validate verifies the weights sum to 1 and every check is well formed.
func (r SignRule) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidRule)
	}
	if len(r.Checks) == 0 {
		return fmt.Errorf("%w: %s has no checks", ErrInvalidRule, r.ID)
	}

	var total float64
	for i, c := range r.Checks {
		if c.Weight() <= 0 {
			return fmt.Errorf("%w: %s check %d has non-positive weight", ErrInvalidRule, r.ID, i)
		}
		if err := c.validate(); err != nil {
			return fmt.Errorf("%w: %s check %d: %v", ErrInvalidRule, r.ID, i, err)
		}
		total += c.Weight()
	}

	if math.Abs(total-1) > weightTolerance {
		return fmt.Errorf("%w: %s weights sum to %.4f", ErrInvalidRule, r.ID, total)
	}
	return nil
}

// AngleCheck scores a group of fingers against a target state.
// The group score is the average of each finger's partial score.
type AngleCheck struct {
	Fingers []hand.Finger
	Target  classifier.State
	Share   float64
}

// Weight implements Check.
func (c AngleCheck) Weight() float64 { return c.Share }

// Evaluate implements Check. Fingers scoring below 0.5 each add one correction.
func (c AngleCheck) Evaluate(in *Input) (float64, []string) {
	var sum float64
	var corrections []string

	for _, f := range c.Fingers {
		angle := in.States.Of(f).Angle
		partial := AnglePartial(c.Target, angle, in.Thresholds)
		sum += partial
		if partial < 0.5 {
			corrections = append(corrections, angleCorrection(c.Target, f, angle, in.Thresholds))
		}
	}

	return sum / float64(len(c.Fingers)), corrections
}

func (c AngleCheck) validate() error {
	if len(c.Fingers) == 0 {
		return errors.New("angle check without fingers")
	}
	switch c.Target {
	case classifier.Open, classifier.Closed, classifier.Semi:
	default:
		return fmt.Errorf("unknown target state %q", c.Target)
	}
	ordered := sort.SliceIsSorted(c.Fingers, func(i, j int) bool { return c.Fingers[i] < c.Fingers[j] })
	if !ordered {
		return errors.New("fingers must be listed in canonical order")
	}
	for i := 1; i < len(c.Fingers); i++ {
		if c.Fingers[i] == c.Fingers[i-1] {
			return fmt.Errorf("finger %s listed twice", c.Fingers[i])
		}
	}
	return nil
}

// AnglePartial converts a joint angle into a score for the target state,
// interpolating linearly between the CLOSED and OPEN boundaries.
func AnglePartial(target classifier.State, angle float64, t classifier.Thresholds) float64 {
	span := t.Open - t.Closed
	switch target {
	case classifier.Open:
		return clamp01((angle - t.Closed) / span)
	case classifier.Closed:
		return clamp01((t.Open - angle) / span)
	default:
		mid := (t.Open + t.Closed) / 2
		return clamp01(1 - math.Abs(angle-mid)/(span/2))
	}
}

func angleCorrection(target classifier.State, f hand.Finger, angle float64, t classifier.Thresholds) string {
	switch target {
	case classifier.Closed:
		return "Curl your " + f.Label()
	case classifier.Open:
		return "Straighten your " + f.Label()
	default:
		if angle > (t.Open+t.Closed)/2 {
			return "Bend your " + f.Label() + " slightly"
		}
		return "Relax your " + f.Label() + " a little"
	}
}

// Proximity says whether a distance check wants two landmarks together or apart.
type Proximity int

const (
	Near Proximity = iota
	Far
)

// DistanceCheck scores the planar distance between two landmarks.
// For Near the score is 1 at or below NearAt and 0 at or beyond FarAt;
// Far mirrors it.
type DistanceCheck struct {
	From       hand.Joint
	To         hand.Joint
	Want       Proximity
	NearAt     float64
	FarAt      float64
	Share      float64
	Correction string
}

// Weight implements Check.
func (c DistanceCheck) Weight() float64 { return c.Share }

// Evaluate implements Check.
func (c DistanceCheck) Evaluate(in *Input) (float64, []string) {
	d := hand.Distance2D(in.Hand.At(c.From), in.Hand.At(c.To))
	partial := DistancePartial(c.Want, d, c.NearAt, c.FarAt)
	if partial < 0.5 {
		return partial, []string{c.Correction}
	}
	return partial, nil
}

func (c DistanceCheck) validate() error {
	if c.FarAt <= c.NearAt {
		return fmt.Errorf("far threshold %.3f must exceed near threshold %.3f", c.FarAt, c.NearAt)
	}
	if c.Correction == "" {
		return errors.New("distance check without correction")
	}
	if c.From < 0 || int(c.From) >= hand.NumLandmarks || c.To < 0 || int(c.To) >= hand.NumLandmarks {
		return errors.New("landmark out of range")
	}
	return nil
}

// DistancePartial scores distance d for the wanted proximity.
func DistancePartial(want Proximity, d, nearAt, farAt float64) float64 {
	near := clamp01((farAt - d) / (farAt - nearAt))
	if want == Far {
		return 1 - near
	}
	return near
}

// clamp01 limits v to [0, 1]; NaN scores as 0.
func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
