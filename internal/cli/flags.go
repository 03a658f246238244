package cli

import (
	"github.com/spf13/cobra"

	"github.com/bdekoz/izzi/pkg/config"
)

// layoutFlags are the geometry flags shared by render, layout and batch.
// A flag only overrides the config file when it was set on the command line.
type layoutFlags struct {
	radius    float64
	spacing   float64
	rangeMin  float64
	rangeMax  float64
	direction string
	zero      string
	avoidance string
	weighting string
	threshold float64
	fontSize  float64
	fontFile  string
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	d := config.Default()
	fs := cmd.Flags()
	fs.Float64Var(&f.radius, "radius", d.Radius.Base, "frame radius")
	fs.Float64Var(&f.spacing, "spacing", d.Radius.Spacing, "gap between the frame and the first satellite")
	fs.Float64Var(&f.rangeMin, "min-angle", d.Range.Min, "bearing of the smallest value, in degrees")
	fs.Float64Var(&f.rangeMax, "max-angle", d.Range.Max, "bearing of value_max, in degrees")
	fs.StringVar(&f.direction, "direction", d.Range.Direction, "sweep direction: cw, ccw")
	fs.StringVar(&f.zero, "zero", d.Range.Zero, "zero bearing: north, east, south, west or degrees")
	fs.StringVar(&f.avoidance, "avoidance", d.Collision.Avoidance, "collision avoidance: orbit, off")
	fs.StringVar(&f.weighting, "weighting", d.Collision.Weighting, "satellite size: fixed, value")
	fs.Float64Var(&f.threshold, "threshold", d.Collision.Threshold, "group size that triggers promotion (0 derives it from the range)")
	fs.Float64Var(&f.fontSize, "font-size", d.Typography.FontSize, "label font size")
	fs.StringVar(&f.fontFile, "font", "", "TrueType/OpenType font used to measure labels")
}

func (f *layoutFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	fs := cmd.Flags()
	if fs.Changed("radius") {
		cfg.Radius.Base = f.radius
	}
	if fs.Changed("spacing") {
		cfg.Radius.Spacing = f.spacing
	}
	if fs.Changed("min-angle") {
		cfg.Range.Min = f.rangeMin
	}
	if fs.Changed("max-angle") {
		cfg.Range.Max = f.rangeMax
	}
	if fs.Changed("direction") {
		cfg.Range.Direction = f.direction
	}
	if fs.Changed("zero") {
		cfg.Range.Zero = f.zero
	}
	if fs.Changed("avoidance") {
		cfg.Collision.Avoidance = f.avoidance
	}
	if fs.Changed("weighting") {
		cfg.Collision.Weighting = f.weighting
	}
	if fs.Changed("threshold") {
		cfg.Collision.Threshold = f.threshold
	}
	if fs.Changed("font-size") {
		cfg.Typography.FontSize = f.fontSize
	}
	if fs.Changed("font") {
		cfg.Typography.Estimator = "face"
		cfg.Typography.FontFile = f.fontFile
	}
}

// renderFlags are the drawing flags shared by render, visualize and batch.
type renderFlags struct {
	formats      string
	style        string
	title        string
	margin       float64
	showValues   bool
	directionArc bool
	assets       string
	scale        float64
}

func (f *renderFlags) register(cmd *cobra.Command) {
	d := config.Default()
	fs := cmd.Flags()
	fs.StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), json, pdf, png (comma-separated)")
	fs.StringVar(&f.style, "style", d.Render.Style, "visual style: simple, outline")
	fs.StringVar(&f.title, "title", "", "diagram title")
	fs.Float64Var(&f.margin, "margin", d.Render.Margin, "space around the drawing")
	fs.BoolVar(&f.showValues, "values", d.Render.ShowValues, "label each ray with its value")
	fs.BoolVar(&f.directionArc, "arc", d.Render.DirectionArc, "draw the direction arc")
	fs.StringVar(&f.assets, "assets", "", "directory of <id>.svg / <id>.png artwork")
	fs.Float64Var(&f.scale, "scale", 2, "PNG scale factor")
}

func (f *renderFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	fs := cmd.Flags()
	if formats := parseFormats(f.formats); len(formats) > 0 {
		cfg.Render.Formats = formats
	}
	if fs.Changed("style") {
		cfg.Render.Style = f.style
	}
	if fs.Changed("title") {
		cfg.Render.Title = f.title
	}
	if fs.Changed("margin") {
		cfg.Render.Margin = f.margin
	}
	if fs.Changed("values") {
		cfg.Render.ShowValues = f.showValues
	}
	if fs.Changed("arc") {
		cfg.Render.DirectionArc = f.directionArc
	}
}
