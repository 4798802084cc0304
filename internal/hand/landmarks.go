// Package hand provides the hand landmark types consumed by the sign classifier.
package hand

import (
	"errors"
	"fmt"
	"math"
)

// Joint identifies one of the 21 hand landmarks.
type Joint int

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist     Joint = 0
	ThumbCMC  Joint = 1
	ThumbMCP  Joint = 2
	ThumbIP   Joint = 3
	ThumbTip  Joint = 4
	IndexMCP  Joint = 5
	IndexPIP  Joint = 6
	IndexDIP  Joint = 7
	IndexTip  Joint = 8
	MiddleMCP Joint = 9
	MiddlePIP Joint = 10
	MiddleDIP Joint = 11
	MiddleTip Joint = 12
	RingMCP   Joint = 13
	RingPIP   Joint = 14
	RingDIP   Joint = 15
	RingTip   Joint = 16
	PinkyMCP  Joint = 17
	PinkyPIP  Joint = 18
	PinkyDIP  Joint = 19
	PinkyTip  Joint = 20

	NumLandmarks = 21
)

var jointNames = [NumLandmarks]string{
	"wrist",
	"thumb_cmc", "thumb_mcp", "thumb_ip", "thumb_tip",
	"index_mcp", "index_pip", "index_dip", "index_tip",
	"middle_mcp", "middle_pip", "middle_dip", "middle_tip",
	"ring_mcp", "ring_pip", "ring_dip", "ring_tip",
	"pinky_mcp", "pinky_pip", "pinky_dip", "pinky_tip",
}

// String returns the landmark name, e.g. "thumb_tip".
func (i Joint) String() string {
	if i < 0 || int(i) >= NumLandmarks {
		return fmt.Sprintf("landmark(%d)", int(i))
	}
	return jointNames[i]
}

// ErrMalformedHand is returned when a landmark list does not match the 21-point scheme.
var ErrMalformedHand = errors.New("malformed hand")

// Point3D represents a 3D point in space with x, y, z coordinates.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Sub returns p - q.
func (p Point3D) Sub(q Point3D) Point3D {
	return Point3D{X: p.X - q.X, Y: p.Y - q.Y, Z: p.Z - q.Z}
}

// Dot returns the dot product of p and q.
func (p Point3D) Dot(q Point3D) float64 {
	return p.X*q.X + p.Y*q.Y + p.Z*q.Z
}

// Scale returns p multiplied by k.
func (p Point3D) Scale(k float64) Point3D {
	return Point3D{X: p.X * k, Y: p.Y * k, Z: p.Z * k}
}

// Norm returns the length of p without intermediate overflow.
func (p Point3D) Norm() float64 {
	return math.Hypot(math.Hypot(p.X, p.Y), p.Z)
}

func (p Point3D) finite() bool {
	for _, v := range [...]float64{p.X, p.Y, p.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Hand represents the 21 landmarks of one detected hand.
type Hand struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// New builds a Hand from a raw landmark list.
// It fails when the list does not hold exactly NumLandmarks points.
func New(points []Point3D) (Hand, error) {
	var h Hand
	if len(points) != NumLandmarks {
		return h, fmt.Errorf("%w: got %d landmarks, want %d", ErrMalformedHand, len(points), NumLandmarks)
	}
	for i, p := range points {
		if !p.finite() {
			return h, fmt.Errorf("%w: landmark %s is not finite", ErrMalformedHand, Joint(i))
		}
	}
	copy(h.Points[:], points)
	return h, nil
}

// At returns the landmark at index i.
func (h *Hand) At(i Joint) Point3D {
	return h.Points[i]
}

// Distance2D returns the planar (x, y) Euclidean distance between two points.
func Distance2D(a, b Point3D) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
