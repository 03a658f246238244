// Package collision decides which values move to the high orbit.
//
// [Promote] walks the ascending value sequence once, treating it as cyclic
// since the last value sits next to the first on the circle. A value that
// lies within the threshold of a neighbour is promoted. After a promotion
// the following values are held in the near set until the walk has moved
// more than valueMax/SkipDecay past the promoted value, so one cluster is
// not promoted twice.
//
// The threshold tiers and the skip decay are tuned by eye for typical data
// and are exposed as configurable defaults.
package collision

import (
	"math"

	"github.com/bdekoz/izzi/pkg/errors"
	"github.com/bdekoz/izzi/pkg/radial/group"
)

// DefaultSkipDecay is the divisor applied to valueMax to bound the skip
// window after a promotion.
const DefaultSkipDecay = 4

// Config tunes the promoter. Zero values select the defaults.
type Config struct {
	// Threshold is the value distance at or below which two neighbours
	// collide. Zero selects [DefaultThreshold].
	Threshold float64

	// SkipDecay divides valueMax to give the skip window. Zero selects
	// [DefaultSkipDecay].
	SkipDecay float64
}

// Validate reports negative or non-finite settings.
func (c Config) Validate() error {
	if math.IsNaN(c.Threshold) || math.IsInf(c.Threshold, 0) || c.Threshold < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "collision threshold must be non-negative, got %v", c.Threshold)
	}
	if math.IsNaN(c.SkipDecay) || math.IsInf(c.SkipDecay, 0) || c.SkipDecay < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "skip decay must be non-negative, got %v", c.SkipDecay)
	}
	return nil
}

// ThresholdFor resolves the threshold used for valueMax.
func (c Config) ThresholdFor(valueMax float64) float64 {
	if c.Threshold > 0 {
		return c.Threshold
	}
	return DefaultThreshold(valueMax)
}

// SkipWindow resolves the drift after which the skip flag clears.
func (c Config) SkipWindow(valueMax float64) float64 {
	decay := c.SkipDecay
	if decay <= 0 {
		decay = DefaultSkipDecay
	}
	return valueMax / decay
}

// DefaultThreshold returns the tiered threshold. Wider domains compress
// more values into each degree, so a coarser threshold is needed there.
func DefaultThreshold(valueMax float64) float64 {
	switch {
	case valueMax < 20:
		return 1
	case valueMax < 190:
		return 2
	case valueMax < 290:
		return 3
	default:
		return 4
	}
}

// Reason explains a single decision.
type Reason string

const (
	ReasonPrevious Reason = "previous" // close to the preceding value
	ReasonNext     Reason = "next"     // close to the following value
	ReasonWrap     Reason = "wrap"     // first value close to the last across the seam
	ReasonSkipped  Reason = "skipped"  // held in the near set after a recent promotion
	ReasonClear    Reason = "clear"    // no neighbour within the threshold
)

// Decision records what happened to one value.
type Decision struct {
	Value    float64 `json:"value"`
	Promoted bool    `json:"promoted"`
	Reason   Reason  `json:"reason"`
}

// Result partitions the groups. Both slices keep pass (ascending) order.
type Result struct {
	Promoted  []group.Group
	Near      []group.Group
	Decisions []Decision
	Threshold float64
}

// state is the per-pass cursor. It never outlives one Promote call.
type state struct {
	skip         bool
	lastPromoted float64
}

// Promote runs the single cyclic pass over groups, which must be strictly
// ascending by value.
func Promote(groups []group.Group, valueMax float64, cfg Config) Result {
	t := cfg.ThresholdFor(valueMax)
	window := cfg.SkipWindow(valueMax)
	res := Result{Threshold: t, Decisions: make([]Decision, 0, len(groups))}

	var st state
	n := len(groups)
	for i, g := range groups {
		v := g.Value

		if st.skip && v-st.lastPromoted > window {
			st.skip = false
		}
		if st.skip {
			res.Near = append(res.Near, g)
			res.Decisions = append(res.Decisions, Decision{Value: v, Reason: ReasonSkipped})
			continue
		}

		reason := ReasonClear
		switch first, last := i == 0, i == n-1; {
		case !first && v-t <= groups[i-1].Value:
			reason = ReasonPrevious
		case !last && v+t >= groups[i+1].Value:
			reason = ReasonNext
		case first && v+math.Abs(valueMax-groups[n-1].Value) <= t:
			reason = ReasonWrap
		}

		if reason == ReasonClear {
			res.Near = append(res.Near, g)
			res.Decisions = append(res.Decisions, Decision{Value: v, Reason: reason})
			continue
		}

		st.skip = true
		st.lastPromoted = v
		res.Promoted = append(res.Promoted, g)
		res.Decisions = append(res.Decisions, Decision{Value: v, Promoted: true, Reason: reason})
	}
	return res
}

// Bypass puts every group in the near set. It is used when collision
// avoidance is turned off.
func Bypass(groups []group.Group) Result {
	res := Result{Near: append([]group.Group(nil), groups...), Decisions: make([]Decision, len(groups))}
	for i, g := range groups {
		res.Decisions[i] = Decision{Value: g.Value, Reason: ReasonClear}
	}
	return res
}
