// Package pipeline runs the layout → render pipeline for izzi.
//
// The CLI, the batch runner and the HTTP server all go through this
// package, so caching, defaults and validation behave the same
// everywhere.
//
// # Architecture
//
// The pipeline has two stages:
//
//  1. Layout: group the values, promote crowded groups and place every
//     identifier ([radial.Compute])
//  2. Render: draw the layout in the requested formats (SVG, PNG, PDF, JSON)
//
// Each stage can run on its own or as part of [Runner.Execute].
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts, err := pipeline.FromConfig(cfg)
//	opts.Formats = []string{"svg", "png"}
//	result, err := runner.Execute(ctx, pairs, opts)
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	layout, err := runner.Layout(ctx, pairs, opts)
//	artifacts, err := runner.Render(ctx, layout, opts)
//
// [radial.Compute]: github.com/bdekoz/izzi/pkg/radial.Compute
package pipeline

import (
	"fmt"
	stdio "io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bdekoz/izzi/pkg/cache"
	"github.com/bdekoz/izzi/pkg/config"
	"github.com/bdekoz/izzi/pkg/errors"
	"github.com/bdekoz/izzi/pkg/geom"
	"github.com/bdekoz/izzi/pkg/io"
	"github.com/bdekoz/izzi/pkg/radial"
	"github.com/bdekoz/izzi/pkg/radial/angular"
	"github.com/bdekoz/izzi/pkg/render/styles"
	"github.com/bdekoz/izzi/pkg/renderstate"
	"github.com/bdekoz/izzi/pkg/typography"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Batch
// =============================================================================

// DefaultBaseRadius is the frame radius used when none is configured.
const DefaultBaseRadius = 120.0

// DefaultStyle is the default visual style.
const DefaultStyle = styles.NameSimple

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// ValidStyles is the set of supported visual styles.
var ValidStyles = map[string]bool{
	styles.NameSimple:  true,
	styles.NameOutline: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run. It supports
// JSON serialization for API requests.
type Options struct {
	// Layout options
	ValueMax  float64                `json:"value_max,omitempty"` // 0 means the largest value
	Range     angular.Range          `json:"range"`
	Radius    radial.RadiusConfig    `json:"radius"`
	Collision radial.CollisionConfig `json:"collision"`
	FontSize  float64                `json:"font_size,omitempty"`
	Origin    geom.Point             `json:"origin"`
	States    *renderstate.Table     `json:"states,omitempty"`

	// Render options
	Formats      []string `json:"formats,omitempty"`
	Style        string   `json:"style,omitempty"`
	Title        string   `json:"title,omitempty"`
	Margin       float64  `json:"margin,omitempty"`
	ShowValues   bool     `json:"show_values,omitempty"`
	DirectionArc bool     `json:"direction_arc,omitempty"`
	Assets       string   `json:"assets,omitempty"`
	PNGScale     float64  `json:"png_scale,omitempty"`

	// Refresh skips cache lookups but still stores fresh results.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger    *log.Logger          `json:"-"`
	Estimator typography.Estimator `json:"-"`
	// EstimatorID names the estimator in cache keys. It defaults to a
	// description of Estimator.
	EstimatorID string `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Layout radial.Layout

	// DataHash identifies the input values; LayoutHash the computed layout.
	DataHash   string
	LayoutHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	IDs        int
	Placements int
	Promoted   int
	Elided     int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if !ValidStyles[style] {
		return errors.New(errors.ErrCodeInvalidStyle, "invalid style: %q (must be one of: simple, outline)", style)
	}
	return nil
}

// =============================================================================
// Options Constructors and Methods
// =============================================================================

// DefaultOptions returns the stock layout with avoidance on and a single
// SVG output.
func DefaultOptions() Options {
	o := Options{
		Range:     angular.DefaultRange(),
		Radius:    radial.DefaultRadius(DefaultBaseRadius),
		Collision: radial.DefaultCollision(),
	}
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	return o
}

// FromConfig converts a loaded configuration into pipeline options.
func FromConfig(cfg *config.Config) (Options, error) {
	rng, err := cfg.AngularRange()
	if err != nil {
		return Options{}, err
	}
	coll, err := cfg.CollisionConfig()
	if err != nil {
		return Options{}, err
	}
	est, err := cfg.Estimator()
	if err != nil {
		return Options{}, err
	}
	o := Options{
		Range:        rng,
		Radius:       cfg.RadiusConfig(),
		Collision:    coll,
		FontSize:     cfg.Typography.FontSize,
		Formats:      append([]string(nil), cfg.Render.Formats...),
		Style:        cfg.Render.Style,
		Title:        cfg.Render.Title,
		Margin:       cfg.Render.Margin,
		ShowValues:   cfg.Render.ShowValues,
		DirectionArc: cfg.Render.DirectionArc,
		Estimator:    est,
		EstimatorID:  estimatorID(cfg),
	}
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	return o, nil
}

func estimatorID(cfg *config.Config) string {
	t := cfg.Typography
	if t.Estimator == "face" {
		return "face:" + t.FontFile
	}
	return fmt.Sprintf("heuristic:%g:%g", t.WidthRatio, t.HeightRatio)
}

// ValidateAndSetDefaults checks every field and applies defaults for the
// full pipeline. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// SetLayoutDefaults fills unset layout fields. A zero Range or Radius
// selects the stock value; a zero Collision leaves avoidance off.
func (o *Options) SetLayoutDefaults() {
	if o.Range == (angular.Range{}) {
		o.Range = angular.DefaultRange()
	}
	if o.Radius == (radial.RadiusConfig{}) {
		o.Radius = radial.DefaultRadius(DefaultBaseRadius)
	}
	if o.FontSize == 0 {
		o.FontSize = typography.DefaultFontSize
	}
	if o.Estimator == nil {
		o.Estimator = typography.DefaultHeuristic()
	}
	if o.EstimatorID == "" {
		o.EstimatorID = describeEstimator(o.Estimator)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(stdio.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := o.Range.Validate(); err != nil {
		return err
	}
	if err := o.Radius.Validate(); err != nil {
		return err
	}
	if err := o.Collision.Validate(); err != nil {
		return err
	}
	if o.FontSize < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "font size must be positive, got %g", o.FontSize)
	}
	if o.ValueMax < 0 {
		return errors.New(errors.ErrCodeInvalidValueMax, "value max must be non-negative, got %g", o.ValueMax)
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(stdio.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Margin < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "margin must be non-negative, got %g", o.Margin)
	}
	return ValidateStyle(o.Style)
}

// ApplyDataset copies the dataset's title, value max and render states
// into o. Values already set on o win.
func (o *Options) ApplyDataset(ds *io.Dataset) {
	if o.Title == "" {
		o.Title = ds.Title
	}
	if o.ValueMax == 0 {
		o.ValueMax = ds.ValueMax
	}
	if o.States == nil {
		o.States = ds.Table()
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts(valueMax float64) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		ValueMax:  valueMax,
		Range:     o.Range,
		Radius:    o.Radius,
		Collision: o.Collision,
		FontSize:  o.FontSize,
		Estimator: o.EstimatorID,
		Origin:    o.Origin,
		States:    o.States,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:       format,
		Style:        o.Style,
		Title:        o.Title,
		Margin:       o.Margin,
		ShowValues:   o.ShowValues,
		DirectionArc: o.DirectionArc,
		Assets:       o.Assets,
		Scale:        o.PNGScale,
	}
}

func describeEstimator(e typography.Estimator) string {
	switch v := e.(type) {
	case typography.Heuristic:
		return fmt.Sprintf("heuristic:%g:%g", v.WidthRatio, v.HeightRatio)
	case *typography.FaceEstimator:
		return "face"
	}
	return fmt.Sprintf("%T", e)
}
