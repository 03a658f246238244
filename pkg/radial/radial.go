package radial

import (
	"io"
	"math"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/bdekoz/izzi/pkg/errors"
	"github.com/bdekoz/izzi/pkg/geom"
	"github.com/bdekoz/izzi/pkg/radial/angular"
	"github.com/bdekoz/izzi/pkg/radial/collision"
	"github.com/bdekoz/izzi/pkg/radial/group"
	"github.com/bdekoz/izzi/pkg/radial/splay"
	"github.com/bdekoz/izzi/pkg/renderstate"
	"github.com/bdekoz/izzi/pkg/typography"
)

type (
	Pair         = group.Pair
	Placement    = splay.Placement
	RadiusConfig = splay.RadiusConfig
	Weighting    = splay.Weighting
)

const (
	WeightFixed   = splay.WeightFixed
	WeightByValue = splay.WeightByValue
)

// DefaultRadius returns the stock radius constants around baseRadius.
func DefaultRadius(baseRadius float64) RadiusConfig { return splay.DefaultRadius(baseRadius) }

// Avoidance selects whether the collision promoter runs.
type Avoidance int

const (
	AvoidanceOff   Avoidance = iota // every value stays on the low orbit
	AvoidanceOrbit                  // close values are promoted to the high orbit
)

func (a Avoidance) String() string {
	if a == AvoidanceOrbit {
		return "orbit"
	}
	return "off"
}

func (a Avoidance) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *Avoidance) UnmarshalText(b []byte) error {
	v, err := ParseAvoidance(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// ParseAvoidance parses "off" or "orbit".
func ParseAvoidance(s string) (Avoidance, error) {
	switch s {
	case "off", "none":
		return AvoidanceOff, nil
	case "", "orbit", "on":
		return AvoidanceOrbit, nil
	}
	return AvoidanceOff, errors.New(errors.ErrCodeInvalidConfig, "invalid avoidance: %q (must be off or orbit)", s)
}

// CollisionConfig selects collision handling and satellite sizing.
type CollisionConfig struct {
	Avoidance Avoidance `json:"avoidance"`
	Weighting Weighting `json:"weighting"`
	Threshold float64   `json:"threshold,omitempty"`  // 0 selects the tiered default
	SkipDecay float64   `json:"skip_decay,omitempty"` // 0 selects 4
}

// DefaultCollision enables avoidance with fixed-size satellites.
func DefaultCollision() CollisionConfig {
	return CollisionConfig{Avoidance: AvoidanceOrbit, Weighting: WeightFixed}
}

// Validate reports unknown variants and bad tuning values.
func (c CollisionConfig) Validate() error {
	if c.Avoidance != AvoidanceOff && c.Avoidance != AvoidanceOrbit {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown avoidance %d", c.Avoidance)
	}
	if c.Weighting != WeightFixed && c.Weighting != WeightByValue {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown weighting %d", c.Weighting)
	}
	return c.promoter().Validate()
}

func (c CollisionConfig) promoter() collision.Config {
	return collision.Config{Threshold: c.Threshold, SkipDecay: c.SkipDecay}
}

// Layout is the full result of one pass.
type Layout struct {
	Placements []Placement          `json:"placements"`
	ValueMax   float64              `json:"value_max"`
	Range      angular.Range        `json:"range"`
	Radius     RadiusConfig         `json:"radius"`
	Collision  CollisionConfig      `json:"collision"`
	Origin     geom.Point           `json:"origin"`
	Threshold  float64              `json:"threshold,omitempty"`
	Decisions  []collision.Decision `json:"decisions,omitempty"`
	Elided     []string             `json:"elided,omitempty"`
}

// Option configures optional collaborators of a pass.
type Option func(*options)

type options struct {
	estimator typography.Estimator
	fontSize  float64
	states    renderstate.Lookup
	origin    geom.Point
	logger    *log.Logger
}

// WithEstimator sets the character-size estimator.
func WithEstimator(e typography.Estimator) Option { return func(o *options) { o.estimator = e } }

// WithFontSize sets the label font size.
func WithFontSize(size float64) Option { return func(o *options) { o.fontSize = size } }

// WithRenderState sets the per-identifier render state lookup.
func WithRenderState(l renderstate.Lookup) Option { return func(o *options) { o.states = l } }

// WithOrigin sets the diagram centre used for cartesian satellite centres.
func WithOrigin(p geom.Point) Option { return func(o *options) { o.origin = p } }

// WithLogger sets the debug logger.
func WithLogger(l *log.Logger) Option { return func(o *options) { o.logger = l } }

func newOptions(opts []Option) options {
	o := options{
		estimator: typography.DefaultHeuristic(),
		fontSize:  typography.DefaultFontSize,
		states:    renderstate.Uniform(renderstate.Default()),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return o
}

// ComputePlacements returns one placement per non-zero identifier:
// promoted groups in pass order, then the remaining groups in descending
// value order.
func ComputePlacements(pairs []Pair, valueMax float64, rng angular.Range, radius RadiusConfig, coll CollisionConfig, opts ...Option) ([]Placement, error) {
	l, err := Compute(pairs, valueMax, rng, radius, coll, opts...)
	if err != nil {
		return nil, err
	}
	return l.Placements, nil
}

// Compute is [ComputePlacements] with the diagnostics of the pass.
func Compute(pairs []Pair, valueMax float64, rng angular.Range, radius RadiusConfig, coll CollisionConfig, opts ...Option) (Layout, error) {
	o := newOptions(opts)

	if err := radius.Validate(); err != nil {
		return Layout{}, err
	}
	if err := rng.Validate(); err != nil {
		return Layout{}, err
	}
	if err := coll.Validate(); err != nil {
		return Layout{}, err
	}
	if math.IsNaN(valueMax) || math.IsInf(valueMax, 0) || valueMax < 0 {
		return Layout{}, errors.New(errors.ErrCodeInvalidValueMax, "value max must be a non-negative number, got %v", valueMax)
	}

	seq, err := group.GroupByValue(pairs)
	if err != nil {
		return Layout{}, err
	}

	layout := Layout{
		Placements: make([]Placement, 0, seq.Len()),
		ValueMax:   valueMax,
		Range:      rng,
		Radius:     radius,
		Collision:  coll,
		Origin:     o.origin,
		Elided:     seq.Elided,
	}
	if len(seq.Elided) > 0 {
		o.logger.Debug("elided zero values", "count", len(seq.Elided), "ids", seq.Elided)
	}
	if len(seq.Groups) == 0 {
		return layout, nil
	}
	if valueMax == 0 {
		return Layout{}, errors.New(errors.ErrCodeInvalidValueMax, "value max is zero but %d identifiers have non-zero values", seq.Len())
	}
	if largest := seq.Largest(); largest > valueMax {
		o.logger.Debug("values exceed value max; angles extrapolate past the range", "largest", largest, "value_max", valueMax)
	}
	seq.ValueMax = valueMax

	var res collision.Result
	if coll.Avoidance == AvoidanceOrbit {
		res = collision.Promote(seq.Groups, valueMax, coll.promoter())
	} else {
		res = collision.Bypass(seq.Groups)
	}
	layout.Threshold = res.Threshold
	layout.Decisions = res.Decisions

	placer := splay.Placer{
		Radius:    radius,
		Weighting: coll.Weighting,
		FontSize:  o.fontSize,
		Estimator: o.estimator,
		States:    o.states,
		Origin:    o.origin,
	}

	for _, g := range res.Promoted {
		o.logger.Debug("promoted value", "value", g.Value, "ids", len(g.IDs))
		layout.Placements = append(layout.Placements, placer.Place(g, valueMax, rng, splay.High)...)
	}
	for _, g := range slices.Backward(res.Near) {
		layout.Placements = append(layout.Placements, placer.Place(g, valueMax, rng, splay.Low)...)
	}

	o.logger.Debug("computed placements",
		"placements", len(layout.Placements),
		"promoted", len(res.Promoted),
		"near", len(res.Near),
		"threshold", res.Threshold)
	return layout, nil
}
