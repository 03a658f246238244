// Package splay places the identifiers of one value group.
//
// A value is drawn as a ray from the inner ring, a numeric value label past
// the end of the ray, and one satellite circle per identifier beyond the
// label. Every satellite of a group sits on one arc of radius sr. With more
// than one identifier the satellites spread symmetrically around the value's
// bearing, separated by the central angle whose chord is at least
// 2·kr + MinSatelliteDistance, so that
//
//	Distance(p_i, p_j) >= r_i + r_j + MinSatelliteDistance
//
// holds for every pair in the group. sr grows when needed so that n
// satellites fit on the circle without wrapping onto each other.
package splay

import (
	"math"
	"strconv"
	"strings"

	"github.com/bdekoz/izzi/pkg/errors"
	"github.com/bdekoz/izzi/pkg/geom"
	"github.com/bdekoz/izzi/pkg/radial/angular"
	"github.com/bdekoz/izzi/pkg/radial/group"
	"github.com/bdekoz/izzi/pkg/renderstate"
	"github.com/bdekoz/izzi/pkg/typography"
)

// Orbit is the radius tier of a group.
type Orbit int

const (
	Low  Orbit = iota // rays start at the base radius
	High              // rays start at BaseRadius × StartLenMultiple
)

func (o Orbit) String() string {
	if o == High {
		return "high"
	}
	return "low"
}

// MarshalText encodes the orbit by name.
func (o Orbit) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// UnmarshalText decodes "low" or "high".
func (o *Orbit) UnmarshalText(b []byte) error {
	switch string(b) {
	case "low":
		*o = Low
	case "high":
		*o = High
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown orbit %q", b)
	}
	return nil
}

// Weighting selects how satellite circles are sized.
type Weighting int

const (
	WeightFixed   Weighting = iota // every satellite uses MinRingSize
	WeightByValue                  // satellites grow with value/valueMax
)

func (w Weighting) String() string {
	if w == WeightByValue {
		return "value"
	}
	return "fixed"
}

func (w Weighting) MarshalText() ([]byte, error) { return []byte(w.String()), nil }

func (w *Weighting) UnmarshalText(b []byte) error {
	v, err := ParseWeighting(string(b))
	if err != nil {
		return err
	}
	*w = v
	return nil
}

// ParseWeighting parses "fixed" or "value".
func ParseWeighting(s string) (Weighting, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fixed":
		return WeightFixed, nil
	case "value", "by-value", "byvalue":
		return WeightByValue, nil
	}
	return WeightFixed, errors.New(errors.ErrCodeInvalidConfig, "invalid weighting: %q (must be fixed or value)", s)
}

// DefaultStartLenMultiple places the high orbit at five base radii.
const DefaultStartLenMultiple = 5

// RadiusConfig holds the radial tuning constants of one pass. A zero
// StartLenMultiple selects [DefaultStartLenMultiple].
type RadiusConfig struct {
	BaseRadius           float64 `json:"base_radius" toml:"base_radius" yaml:"base_radius"`
	Spacing              float64 `json:"spacing" toml:"spacing" yaml:"spacing"`
	MinRingSize          float64 `json:"min_ring_size" toml:"min_ring_size" yaml:"min_ring_size"`
	MaxRingSize          float64 `json:"max_ring_size" toml:"max_ring_size" yaml:"max_ring_size"`
	MinSatelliteDistance float64 `json:"min_satellite_distance" toml:"min_satellite_distance" yaml:"min_satellite_distance"`
	StartLenMultiple     float64 `json:"start_len_multiple" toml:"start_len_multiple" yaml:"start_len_multiple"`
}

// DefaultRadius returns the stock constants for baseRadius.
func DefaultRadius(baseRadius float64) RadiusConfig {
	return RadiusConfig{
		BaseRadius:           baseRadius,
		Spacing:              10,
		MinRingSize:          4,
		MinSatelliteDistance: 4,
		StartLenMultiple:     DefaultStartLenMultiple,
	}
}

// Validate rejects a non-positive base radius and negative fields.
func (c RadiusConfig) Validate() error {
	if math.IsNaN(c.BaseRadius) || math.IsInf(c.BaseRadius, 0) || c.BaseRadius <= 0 {
		return errors.New(errors.ErrCodeInvalidRadius, "base radius must be positive, got %v", c.BaseRadius)
	}
	fields := []struct {
		name string
		v    float64
	}{
		{"spacing", c.Spacing},
		{"min ring size", c.MinRingSize},
		{"max ring size", c.MaxRingSize},
		{"min satellite distance", c.MinSatelliteDistance},
		{"start length multiple", c.StartLenMultiple},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) || f.v < 0 {
			return errors.New(errors.ErrCodeInvalidRadius, "%s must be non-negative, got %v", f.name, f.v)
		}
	}
	return nil
}

// HighStart is the radius at which promoted rays begin. It never falls
// inside the base radius.
func (c RadiusConfig) HighStart() float64 {
	m := c.StartLenMultiple
	if m == 0 {
		m = DefaultStartLenMultiple
	}
	return max(c.BaseRadius, c.BaseRadius*m-c.Spacing)
}

// Ray is the connecting line drawn for a value, as radii from the origin.
type Ray struct {
	Inner float64 `json:"inner"`
	Outer float64 `json:"outer"`
	Label float64 `json:"label"` // where the numeric value label starts
}

// Placement is the position of one identifier.
type Placement struct {
	ID              string            `json:"id"`
	Value           float64           `json:"value"`
	Angle           float64           `json:"angle"` // compass bearing of the satellite
	Radius          float64           `json:"radius"`
	SatelliteRadius float64           `json:"satellite_radius"`
	Promoted        bool              `json:"promoted"`
	Orbit           Orbit             `json:"orbit"`
	BaseAngle       float64           `json:"base_angle"` // bearing of the value's ray
	Center          geom.Point        `json:"center"`
	Ray             Ray               `json:"ray"`
	LabelRadius     float64           `json:"label_radius"`
	LabelWidth      float64           `json:"label_width"`
	Rank            int               `json:"rank"`
	GroupSize       int               `json:"group_size"`
	State           renderstate.State `json:"state"`
}

// Placer positions groups. The zero value of each optional field selects
// a default: heuristic metrics, 12pt labels and the default render
// state for every id.
type Placer struct {
	Radius    RadiusConfig
	Weighting Weighting
	FontSize  float64
	Estimator typography.Estimator
	States    renderstate.Lookup
	Origin    geom.Point
}

// Place returns one placement per identifier of g, in sorted id order.
func (p Placer) Place(g group.Group, valueMax float64, rng angular.Range, orbit Orbit) []Placement {
	n := len(g.IDs)
	if n == 0 {
		return nil
	}
	r := p.Radius
	est, fontSize, states := p.defaults()

	lineLen := r.Spacing
	start := r.BaseRadius
	if orbit == High {
		start = r.HighStart()
	}
	ray := Ray{Inner: r.BaseRadius + r.Spacing, Outer: start + r.Spacing + lineLen}
	ray.Label = ray.Outer + r.Spacing

	anchor := ray.Label + typography.TextWidth(est, FormatValue(valueMax), fontSize)
	kr := p.satelliteRadius(g.Value, valueMax)
	sr := anchor + r.Spacing + kr

	var delta float64
	if n > 1 {
		chord := max(2*kr+r.MinSatelliteDistance, est.CharHeight(fontSize))
		if fit := chord / (2 * math.Sin(math.Pi/float64(n))); sr < fit {
			sr = fit
		}
		delta = geom.ChordAngle(sr, chord)
	}

	ids := append([]string(nil), g.IDs...)
	group.SortIDs(ids)

	base := angular.AngleForValue(g.Value, valueMax, rng)
	first := -delta * float64(n-1) / 2

	out := make([]Placement, n)
	for i, id := range ids {
		angle := base
		if n > 1 {
			angle = angular.Offset(base, first+float64(i)*delta, rng)
		}
		st := states.StateFor(id)

		labelR := sr - kr
		if st.IsVisible(renderstate.Glyph) {
			labelR = sr + kr + r.Spacing
		}
		var labelW float64
		if st.IsVisible(renderstate.Text) {
			labelW = typography.TextWidth(est, id, fontSize)
		}

		out[i] = Placement{
			ID:              id,
			Value:           g.Value,
			Angle:           angle,
			Radius:          sr,
			SatelliteRadius: kr,
			Promoted:        orbit == High,
			Orbit:           orbit,
			BaseAngle:       base,
			Center:          angular.PointAt(p.Origin, sr, angle),
			Ray:             ray,
			LabelRadius:     labelR,
			LabelWidth:      labelW,
			Rank:            i,
			GroupSize:       n,
			State:           st,
		}
	}
	return out
}

func (p Placer) satelliteRadius(value, valueMax float64) float64 {
	r := p.Radius
	if p.Weighting != WeightByValue || valueMax <= 0 {
		return r.MinRingSize
	}
	scale := r.MaxRingSize
	if scale == 0 {
		scale = r.BaseRadius
	}
	return max(r.MinRingSize, value/valueMax*scale)
}

func (p Placer) defaults() (typography.Estimator, float64, renderstate.Lookup) {
	est := p.Estimator
	if est == nil {
		est = typography.DefaultHeuristic()
	}
	fontSize := p.FontSize
	if fontSize <= 0 {
		fontSize = typography.DefaultFontSize
	}
	states := p.States
	if states == nil {
		states = renderstate.Uniform(renderstate.Default())
	}
	return est, fontSize, states
}

// FormatValue renders a value the way value labels print it.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
