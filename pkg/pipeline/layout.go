package pipeline

import (
	"github.com/bdekoz/izzi/pkg/radial"
)

// =============================================================================
// Layout Generation
// =============================================================================

// ComputeLayout places pairs with the layout options of opts. A zero
// ValueMax scales the values against the largest one.
func ComputeLayout(pairs []radial.Pair, opts Options) (radial.Layout, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return radial.Layout{}, err
	}
	return radial.Compute(pairs, EffectiveMax(pairs, opts.ValueMax),
		opts.Range, opts.Radius, opts.Collision, layoutOptions(opts)...)
}

// EffectiveMax returns valueMax, or the largest value when it is zero.
func EffectiveMax(pairs []radial.Pair, valueMax float64) float64 {
	if valueMax > 0 {
		return valueMax
	}
	var m float64
	for _, p := range pairs {
		m = max(m, p.Value)
	}
	return m
}

func layoutOptions(opts Options) []radial.Option {
	ro := []radial.Option{
		radial.WithEstimator(opts.Estimator),
		radial.WithFontSize(opts.FontSize),
		radial.WithOrigin(opts.Origin),
		radial.WithLogger(opts.Logger),
	}
	if opts.States != nil {
		ro = append(ro, radial.WithRenderState(*opts.States))
	}
	return ro
}
