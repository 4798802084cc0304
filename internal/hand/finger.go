package hand

// Finger identifies one of the five fingers.
type Finger int

// Fingers in canonical order.
const (
	Thumb Finger = iota
	Index
	Middle
	Ring
	Pinky

	NumFingers = 5
)

// AllFingers lists every finger in canonical order.
var AllFingers = [NumFingers]Finger{Thumb, Index, Middle, Ring, Pinky}

var fingerNames = [NumFingers]string{"Thumb", "Index", "Middle", "Ring", "Pinky"}

// String returns the finger name, e.g. "Index".
func (f Finger) String() string {
	if f < 0 || f >= NumFingers {
		return "Unknown"
	}
	return fingerNames[f]
}

// Label returns the name used in learner-facing text: "thumb" or "Index finger".
func (f Finger) Label() string {
	if f == Thumb {
		return "thumb"
	}
	return f.String() + " finger"
}

// AngleJoints holds the three landmarks whose angle measures a finger's openness.
type AngleJoints struct {
	Proximal Joint
	Middle   Joint
	Distal   Joint
}

// fingerJoints uses CMC/MCP/IP for the thumb and MCP/PIP/DIP for the others.
var fingerJoints = [NumFingers]AngleJoints{
	Thumb:  {ThumbCMC, ThumbMCP, ThumbIP},
	Index:  {IndexMCP, IndexPIP, IndexDIP},
	Middle: {MiddleMCP, MiddlePIP, MiddleDIP},
	Ring:   {RingMCP, RingPIP, RingDIP},
	Pinky:  {PinkyMCP, PinkyPIP, PinkyDIP},
}

// Joints returns the angle joints for f.
func (f Finger) Joints() AngleJoints {
	return fingerJoints[f]
}

// Tip returns the fingertip landmark of f.
func (f Finger) Tip() Joint {
	return fingerJoints[f].Distal + 1
}
