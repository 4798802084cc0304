package scorer

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/fingerspell/internal/classifier"
	"github.com/ayusman/fingerspell/internal/hand"
)

func points(h hand.Hand) []hand.Point3D {
	return h.Raw().Points
}

func letterA(fingers, thumb float64) hand.Hand {
	h := hand.Pose{Thumb: thumb, Index: fingers, Middle: fingers, Ring: fingers, Pinky: fingers}.Hand()
	h.PlaceNear(hand.ThumbTip, hand.IndexMCP, 0.05)
	return h
}

func TestScorer_LetterA(t *testing.T) {
	s := NewDefault()

	t.Run("open fingers", func(t *testing.T) {
		v, err := s.Score(points(letterA(170, 170)), "A")
		require.NoError(t, err)

		assert.InDelta(t, 0.4, v.Confidence, 1e-6)
		assert.False(t, v.IsCorrect)
		assert.Equal(t, FeedbackAdjust, v.Feedback)
		assert.Equal(t, []string{
			"Curl your Index finger",
			"Curl your Middle finger",
			"Curl your Ring finger",
			"Curl your Pinky finger",
		}, v.Corrections)
	})

	t.Run("correct fist", func(t *testing.T) {
		v, err := s.Score(points(letterA(95, 170)), "A")
		require.NoError(t, err)

		assert.InDelta(t, 1.0, v.Confidence, 1e-6)
		assert.Empty(t, v.Corrections)
		assert.True(t, v.IsCorrect)
		assert.Equal(t, FeedbackCorrect, v.Feedback)
	})

	t.Run("thumb away from hand", func(t *testing.T) {
		h := letterA(95, 170)
		h.PlaceNear(hand.ThumbTip, hand.IndexMCP, 0.2)

		v, err := s.Score(points(h), "A")
		require.NoError(t, err)

		assert.InDelta(t, 0.8, v.Confidence, 1e-6)
		assert.Equal(t, []string{"Tuck thumb closer to hand"}, v.Corrections)
		assert.False(t, v.IsCorrect)
	})

	t.Run("half curled fingers interpolate", func(t *testing.T) {
		v, err := s.Score(points(letterA(125, 170)), "A")
		require.NoError(t, err)

		// Fingers score 35/60 each, above the correction cutoff.
		assert.InDelta(t, 0.6*35.0/60.0+0.4, v.Confidence, 1e-6)
		assert.Empty(t, v.Corrections)
		assert.False(t, v.IsCorrect)
	})

	t.Run("bent thumb", func(t *testing.T) {
		v, err := s.Score(points(letterA(95, 90)), "A")
		require.NoError(t, err)

		assert.InDelta(t, 0.8, v.Confidence, 1e-6)
		assert.Equal(t, []string{"Straighten your thumb"}, v.Corrections)
	})
}

func TestScorer_EdgeCases(t *testing.T) {
	s := NewDefault()
	fist := points(hand.FistLandmarks())

	t.Run("no hand", func(t *testing.T) {
		for _, target := range []string{"A", "Z"} {
			v, err := s.Score(nil, target)
			require.NoError(t, err)
			assert.Equal(t, Verdict{Feedback: FeedbackNoHand, Corrections: []string{}}, v)
		}
	})

	t.Run("unregistered target", func(t *testing.T) {
		v, err := s.Score(fist, "Z")
		require.NoError(t, err)

		assert.False(t, v.IsCorrect)
		assert.Equal(t, NotImplementedConfidence, v.Confidence)
		assert.Equal(t, FeedbackNotImplemented, v.Feedback)
		assert.Empty(t, v.Corrections)
	})

	t.Run("malformed hand", func(t *testing.T) {
		_, err := s.Score(fist[:20], "A")
		require.Error(t, err)
		assert.True(t, errors.Is(err, hand.ErrMalformedHand))
	})

	t.Run("unregistered target is checked before hand shape", func(t *testing.T) {
		v, err := s.Score(fist[:20], "HELLO")
		require.NoError(t, err)
		assert.Equal(t, FeedbackNotImplemented, v.Feedback)
	})

	t.Run("huge coordinates keep confidence in range", func(t *testing.T) {
		huge := make([]hand.Point3D, hand.NumLandmarks)
		for i := range huge {
			huge[i] = hand.Point3D{X: float64(i) * 1e200, Y: float64(i%3) * 1e200}
		}

		for _, target := range []string{"A", "B", "C", "L", "V", "Y"} {
			v, err := s.Score(huge, target)
			require.NoError(t, err)
			assert.False(t, math.IsNaN(v.Confidence), target)
			assert.GreaterOrEqual(t, v.Confidence, 0.0, target)
			assert.LessOrEqual(t, v.Confidence, 1.0, target)
		}
	})
}

func TestScorer_BuiltinSigns(t *testing.T) {
	s := NewDefault()

	tests := []struct {
		name   string
		target string
		build  func() hand.Hand
	}{
		{"B flat hand", "B", func() hand.Hand {
			h := hand.Pose{Thumb: 90, Index: 175, Middle: 175, Ring: 175, Pinky: 175}.Hand()
			h.PlaceNear(hand.ThumbTip, hand.MiddleMCP, 0.03)
			return h
		}},
		{"C curve", "C", func() hand.Hand {
			h := hand.UniformPose(130).Hand()
			h.PlaceNear(hand.ThumbTip, hand.IndexTip, 0.1)
			return h
		}},
		{"L shape", "L", func() hand.Hand {
			h := hand.Pose{Thumb: 175, Index: 175, Middle: 90, Ring: 90, Pinky: 90}.Hand()
			h.PlaceNear(hand.ThumbTip, hand.IndexMCP, 0.2)
			return h
		}},
		{"V split", "V", func() hand.Hand {
			h := hand.Pose{Thumb: 120, Index: 175, Middle: 175, Ring: 90, Pinky: 90}.Hand()
			h.PlaceNear(hand.ThumbTip, hand.RingPIP, 0.03)
			return h
		}},
		{"Y shape", "Y", func() hand.Hand {
			h := hand.Pose{Thumb: 175, Index: 90, Middle: 90, Ring: 90, Pinky: 175}.Hand()
			h.PlaceNear(hand.ThumbTip, hand.IndexMCP, 0.2)
			return h
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := s.Score(points(tt.build()), tt.target)
			require.NoError(t, err)
			assert.True(t, v.IsCorrect, "verdict %+v", v)
			assert.Empty(t, v.Corrections)
		})
	}

	t.Run("C corrections depend on bend direction", func(t *testing.T) {
		h := hand.UniformPose(175).Hand()
		h.PlaceNear(hand.ThumbTip, hand.IndexTip, 0.1)
		v, err := s.Score(points(h), "C")
		require.NoError(t, err)
		assert.Equal(t, []string{
			"Bend your Index finger slightly",
			"Bend your Middle finger slightly",
			"Bend your Ring finger slightly",
			"Bend your Pinky finger slightly",
			"Bend your thumb slightly",
		}, v.Corrections)

		h = hand.UniformPose(60).Hand()
		h.PlaceNear(hand.ThumbTip, hand.IndexTip, 0.1)
		v, err = s.Score(points(h), "C")
		require.NoError(t, err)
		assert.Contains(t, v.Corrections, "Relax your Index finger a little")
	})
}

func TestScorer_Properties(t *testing.T) {
	s := NewDefault()
	rng := rand.New(rand.NewSource(42))

	randomHand := func() []hand.Point3D {
		pts := make([]hand.Point3D, hand.NumLandmarks)
		for i := range pts {
			pts[i] = hand.Point3D{X: rng.Float64(), Y: rng.Float64(), Z: rng.Float64()*0.2 - 0.1}
		}
		return pts
	}

	randomPose := func() []hand.Point3D {
		angle := func() float64 { return rng.Float64() * 180 }
		h := hand.Pose{Thumb: angle(), Index: angle(), Middle: angle(), Ring: angle(), Pinky: angle()}.Hand()
		h.PlaceNear(hand.ThumbTip, hand.IndexMCP, rng.Float64()*0.2)
		return points(h)
	}

	for i := 0; i < 300; i++ {
		pts := randomHand()
		if i%2 == 0 {
			pts = randomPose()
		}

		for _, id := range s.Rules().IDs() {
			v, err := s.Score(pts, id)
			require.NoError(t, err)

			assert.GreaterOrEqual(t, v.Confidence, 0.0)
			assert.LessOrEqual(t, v.Confidence, 1.0)
			if v.IsCorrect {
				assert.Empty(t, v.Corrections, "correct verdict with corrections for %s", id)
			}

			again, err := s.Score(pts, id)
			require.NoError(t, err)
			assert.Equal(t, v, again, "score must be pure")
		}
	}
}

func TestAnglePartial(t *testing.T) {
	th := classifier.DefaultThresholds()

	tests := []struct {
		target classifier.State
		angle  float64
		want   float64
	}{
		{classifier.Open, 180, 1},
		{classifier.Open, 160, 1},
		{classifier.Open, 130, 0.5},
		{classifier.Open, 100, 0},
		{classifier.Open, 20, 0},
		{classifier.Closed, 170, 0},
		{classifier.Closed, 145, 0.25},
		{classifier.Closed, 100, 1},
		{classifier.Closed, 0, 1},
		{classifier.Semi, 130, 1},
		{classifier.Semi, 145, 0.5},
		{classifier.Semi, 160, 0},
		{classifier.Semi, 90, 0},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, AnglePartial(tt.target, tt.angle, th), 1e-9, "%s at %v", tt.target, tt.angle)
	}
}

func TestDistancePartial(t *testing.T) {
	tests := []struct {
		want Proximity
		d    float64
		exp  float64
	}{
		{Near, 0.01, 1},
		{Near, 0.06, 1},
		{Near, 0.09, 0.5},
		{Near, 0.12, 0},
		{Near, 0.5, 0},
		{Far, 0.01, 0},
		{Far, 0.09, 0.5},
		{Far, 0.3, 1},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.exp, DistancePartial(tt.want, tt.d, 0.06, 0.12), 1e-9, "proximity %d at %v", tt.want, tt.d)
	}
}

func TestNewRegistry(t *testing.T) {
	valid := SignRule{
		ID: "X",
		Checks: []Check{
			AngleCheck{Fingers: []hand.Finger{hand.Index}, Target: classifier.Open, Share: 0.5},
			AngleCheck{Fingers: []hand.Finger{hand.Middle}, Target: classifier.Closed, Share: 0.5},
		},
	}

	t.Run("builtin rules are valid", func(t *testing.T) {
		r, err := NewRegistry(BuiltinRules()...)
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B", "C", "L", "V", "Y"}, r.IDs())
		assert.True(t, r.Has("A"))
		assert.False(t, r.Has("HELLO"))
	})

	t.Run("accepts custom rules", func(t *testing.T) {
		r, err := NewRegistry(valid)
		require.NoError(t, err)
		_, ok := r.Lookup("X")
		assert.True(t, ok)
	})

	invalid := map[string]SignRule{
		"weights below one": {ID: "W", Checks: []Check{
			AngleCheck{Fingers: []hand.Finger{hand.Index}, Target: classifier.Open, Share: 0.9},
		}},
		"fingers out of order": {ID: "O", Checks: []Check{
			AngleCheck{Fingers: []hand.Finger{hand.Ring, hand.Index}, Target: classifier.Open, Share: 1},
		}},
		"unknown state": {ID: "U", Checks: []Check{
			AngleCheck{Fingers: []hand.Finger{hand.Index}, Target: "BENT", Share: 1},
		}},
		"inverted thresholds": {ID: "T", Checks: []Check{
			DistanceCheck{From: hand.ThumbTip, To: hand.IndexMCP, NearAt: 0.2, FarAt: 0.1, Share: 1, Correction: "x"},
		}},
		"no checks": {ID: "N"},
		"empty id":  {Checks: valid.Checks},
	}

	for name, rule := range invalid {
		t.Run(name, func(t *testing.T) {
			_, err := NewRegistry(rule)
			assert.ErrorIs(t, err, ErrInvalidRule)
		})
	}

	t.Run("duplicate ids", func(t *testing.T) {
		_, err := NewRegistry(valid, valid)
		assert.ErrorIs(t, err, ErrInvalidRule)
	})
}
