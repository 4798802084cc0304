package scorer

import (
	"fmt"
	"sort"

	"github.com/ayusman/fingerspell/internal/classifier"
	"github.com/ayusman/fingerspell/internal/hand"
)

var fourFingers = []hand.Finger{hand.Index, hand.Middle, hand.Ring, hand.Pinky}

// BuiltinRules returns the hand-authored rules for the supported signs.
func BuiltinRules() []SignRule {
	return []SignRule{
		{
			// Fist, thumb upright against the side of the index finger.
			ID: "A",
			Checks: []Check{
				AngleCheck{Fingers: fourFingers, Target: classifier.Closed, Share: 0.6},
				AngleCheck{Fingers: []hand.Finger{hand.Thumb}, Target: classifier.Open, Share: 0.2},
				DistanceCheck{
					From: hand.ThumbTip, To: hand.IndexMCP, Want: Near,
					NearAt: 0.06, FarAt: 0.12, Share: 0.2,
					Correction: "Tuck thumb closer to hand",
				},
			},
		},
		{
			// Flat hand, fingers up, thumb folded across the palm.
			ID: "B",
			Checks: []Check{
				AngleCheck{Fingers: fourFingers, Target: classifier.Open, Share: 0.6},
				AngleCheck{Fingers: []hand.Finger{hand.Thumb}, Target: classifier.Closed, Share: 0.2},
				DistanceCheck{
					From: hand.ThumbTip, To: hand.MiddleMCP, Want: Near,
					NearAt: 0.06, FarAt: 0.12, Share: 0.2,
					Correction: "Fold your thumb across your palm",
				},
			},
		},
		{
			ID: "C",
			Checks: []Check{
				AngleCheck{Fingers: fourFingers, Target: classifier.Semi, Share: 0.6},
				AngleCheck{Fingers: []hand.Finger{hand.Thumb}, Target: classifier.Semi, Share: 0.15},
				DistanceCheck{
					From: hand.ThumbTip, To: hand.IndexTip, Want: Far,
					NearAt: 0.03, FarAt: 0.08, Share: 0.25,
					Correction: "Leave a gap between your thumb and fingers",
				},
			},
		},
		{
			ID: "L",
			Checks: []Check{
				AngleCheck{Fingers: []hand.Finger{hand.Index}, Target: classifier.Open, Share: 0.3},
				AngleCheck{Fingers: []hand.Finger{hand.Middle, hand.Ring, hand.Pinky}, Target: classifier.Closed, Share: 0.4},
				AngleCheck{Fingers: []hand.Finger{hand.Thumb}, Target: classifier.Open, Share: 0.15},
				DistanceCheck{
					From: hand.ThumbTip, To: hand.IndexMCP, Want: Far,
					NearAt: 0.06, FarAt: 0.15, Share: 0.15,
					Correction: "Stretch your thumb out to the side",
				},
			},
		},
		{
			ID: "V",
			Checks: []Check{
				AngleCheck{Fingers: []hand.Finger{hand.Index, hand.Middle}, Target: classifier.Open, Share: 0.4},
				AngleCheck{Fingers: []hand.Finger{hand.Ring, hand.Pinky}, Target: classifier.Closed, Share: 0.3},
				DistanceCheck{
					From: hand.IndexTip, To: hand.MiddleTip, Want: Far,
					NearAt: 0.03, FarAt: 0.07, Share: 0.15,
					Correction: "Spread your index and middle fingers apart",
				},
				DistanceCheck{
					From: hand.ThumbTip, To: hand.RingPIP, Want: Near,
					NearAt: 0.06, FarAt: 0.12, Share: 0.15,
					Correction: "Hold your ring finger down with your thumb",
				},
			},
		},
		{
			ID: "Y",
			Checks: []Check{
				AngleCheck{Fingers: []hand.Finger{hand.Thumb}, Target: classifier.Open, Share: 0.15},
				AngleCheck{Fingers: []hand.Finger{hand.Index, hand.Middle, hand.Ring}, Target: classifier.Closed, Share: 0.45},
				AngleCheck{Fingers: []hand.Finger{hand.Pinky}, Target: classifier.Open, Share: 0.25},
				DistanceCheck{
					From: hand.ThumbTip, To: hand.IndexMCP, Want: Far,
					NearAt: 0.06, FarAt: 0.15, Share: 0.15,
					Correction: "Stretch your thumb out to the side",
				},
			},
		},
	}
}

// Registry maps sign identifiers to their rules. It is immutable once built.
type Registry struct {
	rules map[string]SignRule
}

// NewRegistry validates the rules and indexes them by ID.
func NewRegistry(rules ...SignRule) (*Registry, error) {
	r := &Registry{rules: make(map[string]SignRule, len(rules))}
	for _, rule := range rules {
		if err := rule.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.rules[rule.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %s", ErrInvalidRule, rule.ID)
		}
		r.rules[rule.ID] = rule
	}
	return r, nil
}

// DefaultRegistry returns a registry of the built-in rules.
// It panics if a built-in rule is invalid.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(BuiltinRules()...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the rule for id.
func (r *Registry) Lookup(id string) (SignRule, bool) {
	rule, ok := r.rules[id]
	return rule, ok
}

// Has reports whether id has a registered rule.
func (r *Registry) Has(id string) bool {
	_, ok := r.rules[id]
	return ok
}

// IDs returns the registered sign identifiers in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.rules))
	for id := range r.rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
