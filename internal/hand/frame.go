package hand

import (
	"encoding/json"
	"fmt"
)

// Frame is one hand-tracking result as delivered by the browser tracker.
type Frame struct {
	Hands []RawHand `json:"hands"`
	// Target is the sign the learner was shown when the frame was captured.
	// Empty means untagged.
	Target    string `json:"target,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// RawHand is an unvalidated landmark list for one detected hand.
type RawHand struct {
	Points     []Point3D `json:"points"`
	Handedness string    `json:"handedness,omitempty"`
	Score      float64   `json:"score,omitempty"`
}

// DecodeFrame parses a JSON frame.
func DecodeFrame(data []byte) (Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return Frame{}, fmt.Errorf("parse frame: %w", err)
	}
	return f, nil
}

// Primary returns the landmark list of the first detected hand, or nil when
// the frame holds no hand. Additional hands are ignored.
func (f Frame) Primary() []Point3D {
	if len(f.Hands) == 0 {
		return nil
	}
	return f.Hands[0].Points
}

// Hand validates the raw landmarks and converts them to a Hand.
func (r RawHand) Hand() (Hand, error) {
	h, err := New(r.Points)
	if err != nil {
		return Hand{}, err
	}
	h.Handedness = r.Handedness
	h.Score = r.Score
	return h, nil
}

// Raw converts h back to its wire form.
func (h Hand) Raw() RawHand {
	points := make([]Point3D, NumLandmarks)
	copy(points, h.Points[:])
	return RawHand{Points: points, Handedness: h.Handedness, Score: h.Score}
}
