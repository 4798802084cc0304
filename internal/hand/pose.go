package hand

import "math"

// segment is the length of each finger bone in a posed hand.
const segment = 0.04

// Base positions of the proximal angle joint of each finger in a posed right hand.
var poseBases = [NumFingers]Point3D{
	Thumb:  {X: 0.58, Y: 0.75},
	Index:  {X: 0.56, Y: 0.62},
	Middle: {X: 0.50, Y: 0.60},
	Ring:   {X: 0.44, Y: 0.62},
	Pinky:  {X: 0.38, Y: 0.65},
}

// Pose describes a hand by the joint angle of each finger, in degrees.
// It is used to build hands with exact finger states for tests and demos.
type Pose struct {
	Thumb  float64
	Index  float64
	Middle float64
	Ring   float64
	Pinky  float64
}

// UniformPose returns a Pose with the same angle on every finger.
func UniformPose(angle float64) Pose {
	return Pose{Thumb: angle, Index: angle, Middle: angle, Ring: angle, Pinky: angle}
}

func (p Pose) angle(f Finger) float64 {
	switch f {
	case Thumb:
		return p.Thumb
	case Index:
		return p.Index
	case Middle:
		return p.Middle
	case Ring:
		return p.Ring
	default:
		return p.Pinky
	}
}

// Hand builds a right hand whose fingers bend by exactly the posed angles.
// Each finger rises from its base, bends at its middle angle joint and
// continues straight to the tip.
func (p Pose) Hand() Hand {
	h := Hand{Handedness: "Right", Score: 0.95}
	h.Points[Wrist] = Point3D{X: 0.5, Y: 0.8}

	for _, f := range AllFingers {
		j := f.Joints()
		base := poseBases[f]

		// Deflection from straight, so the angle at the middle joint is the posed angle.
		bend := (180 - p.angle(f)) * math.Pi / 180
		dir := Point3D{X: math.Sin(bend), Y: -math.Cos(bend)}

		middle := Point3D{X: base.X, Y: base.Y - segment}
		distal := Point3D{X: middle.X + segment*dir.X, Y: middle.Y + segment*dir.Y}
		tip := Point3D{X: distal.X + segment*dir.X, Y: distal.Y + segment*dir.Y}

		h.Points[j.Proximal] = base
		h.Points[j.Middle] = middle
		h.Points[j.Distal] = distal
		h.Points[f.Tip()] = tip
	}

	return h
}

// PlaceNear moves landmark j so it lies dist away from landmark anchor along the x axis.
func (h *Hand) PlaceNear(j, anchor Joint, dist float64) {
	a := h.Points[anchor]
	h.Points[j] = Point3D{X: a.X + dist, Y: a.Y, Z: a.Z}
}

// FistLandmarks returns a hand with every non-thumb finger curled and the
// thumb upright against the index knuckle.
func FistLandmarks() Hand {
	h := Pose{Thumb: 170, Index: 95, Middle: 95, Ring: 95, Pinky: 95}.Hand()
	h.PlaceNear(ThumbTip, IndexMCP, 0.05)
	return h
}

// OpenPalmLandmarks returns a hand with all fingers extended.
func OpenPalmLandmarks() Hand {
	return UniformPose(175).Hand()
}
