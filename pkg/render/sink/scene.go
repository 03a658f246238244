package sink

import (
	"path"

	"github.com/bdekoz/izzi/pkg/geom"
	"github.com/bdekoz/izzi/pkg/radial"
	"github.com/bdekoz/izzi/pkg/radial/angular"
	"github.com/bdekoz/izzi/pkg/radial/splay"
	"github.com/bdekoz/izzi/pkg/render/styles"
	"github.com/bdekoz/izzi/pkg/renderstate"
	"github.com/bdekoz/izzi/pkg/typography"
)

// DefaultMargin is the blank border around the diagram.
const DefaultMargin = 20.0

const echoScale = 1.6

// Option configures every sink.
type Option func(*renderer)

type renderer struct {
	style        styles.Style
	title        string
	margin       float64
	showValues   bool
	directionArc bool
	assets       string
	fontSize     float64
	estimator    typography.Estimator
}

func WithStyle(s styles.Style) Option { return func(r *renderer) { r.style = s } }
func WithTitle(t string) Option       { return func(r *renderer) { r.title = t } }
func WithValues() Option              { return func(r *renderer) { r.showValues = true } }
func WithDirectionArc() Option        { return func(r *renderer) { r.directionArc = true } }
func WithMargin(m float64) Option     { return func(r *renderer) { r.margin = m } }

// WithAssets sets the path prefix for inserted artwork. An identifier
// whose state shows Image links <base>/<id>.png, SVG links <base>/<id>.svg.
func WithAssets(base string) Option { return func(r *renderer) { r.assets = base } }

// WithFontSize sets the font size of labels and of the value text used to
// size the canvas.
func WithFontSize(size float64) Option { return func(r *renderer) { r.fontSize = size } }

// WithEstimator sets the metrics used to measure value and legend text.
func WithEstimator(e typography.Estimator) Option { return func(r *renderer) { r.estimator = e } }

func newRenderer(opts []Option) renderer {
	r := renderer{
		style:     styles.Simple{},
		margin:    DefaultMargin,
		fontSize:  typography.DefaultFontSize,
		estimator: typography.DefaultHeuristic(),
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// scene is a layout positioned on the canvas.
type scene struct {
	MinX, MinY    float64
	Width, Height float64
	Frame         styles.Frame
	Arc           *styles.Arc
	Rays          []styles.Ray
	Satellites    []styles.Satellite
	Labels        []styles.Label
}

func buildScene(l radial.Layout, r renderer) scene {
	o := l.Origin
	s := scene{Frame: styles.Frame{CX: o.X, CY: o.Y, R: l.Radius.BaseRadius}}
	extent := l.Radius.BaseRadius

	type rayKey struct {
		bearing float64
		orbit   splay.Orbit
	}
	seen := make(map[rayKey]bool)

	var legend []radial.Placement
	for _, p := range l.Placements {
		st := p.State
		extent = max(extent, p.Ray.Outer)

		key := rayKey{p.BaseAngle, p.Orbit}
		if st.IsVisible(renderstate.Vector) && !seen[key] {
			seen[key] = true
			a := angular.PointAt(o, p.Ray.Inner, p.BaseAngle)
			b := angular.PointAt(o, p.Ray.Outer, p.BaseAngle)
			s.Rays = append(s.Rays, styles.Ray{
				Value: p.Value, X1: a.X, Y1: a.Y, X2: b.X, Y2: b.Y,
				Bearing: p.BaseAngle, Promoted: p.Promoted,
			})
			if r.showValues {
				text := splay.FormatValue(p.Value)
				s.Labels = append(s.Labels, r.radialLabel("value", text, o, p.Ray.Label, p.BaseAngle, 0, ""))
				extent = max(extent, p.Ray.Label+typography.TextWidth(r.estimator, text, r.fontSize))
			}
		}

		if st.IsVisible(renderstate.Glyph) || st.IsVisible(renderstate.Image) || st.IsVisible(renderstate.SVG) {
			scale := st.Scale
			if scale <= 0 {
				scale = 1
			}
			sat := styles.Satellite{
				ID: p.ID, CX: p.Center.X, CY: p.Center.Y,
				R:        p.SatelliteRadius * scale,
				Bearing:  p.BaseAngle,
				Echo:     st.IsVisible(renderstate.Echo),
				Class:    st.Style,
				Promoted: p.Promoted,
			}
			sat.Href = r.assetFor(p.ID, st)
			if sat.Href != "" || st.IsVisible(renderstate.Glyph) {
				s.Satellites = append(s.Satellites, sat)
				reach := sat.R
				if sat.Echo {
					reach *= echoScale
				}
				extent = max(extent, p.Radius+reach)
			}
		}

		if st.IsVisible(renderstate.Text) {
			s.Labels = append(s.Labels, r.radialLabel("id", p.ID, o, p.LabelRadius, p.Angle, st.Rotate, st.Style))
			extent = max(extent, p.LabelRadius+p.LabelWidth)
		}
		if st.IsVisible(renderstate.Legend) {
			legend = append(legend, p)
		}
	}

	if r.directionArc {
		s.Arc = directionArc(l, o)
	}

	extent += r.margin
	s.MinX, s.MinY = o.X-extent, o.Y-extent
	s.Width, s.Height = 2*extent, 2*extent

	lineH := typography.DefaultHeuristic().CharHeight(r.fontSize) * 1.5
	if r.title != "" {
		titleH := 2 * lineH
		s.MinY -= titleH
		s.Height += titleH
		s.Labels = append(s.Labels, styles.Label{
			Kind: "title", Text: r.title,
			X: o.X, Y: s.MinY + lineH,
			Anchor: "middle", FontSize: r.fontSize * 1.5,
		})
	}
	if len(legend) > 0 {
		top := o.Y + extent
		for i, p := range legend {
			s.Labels = append(s.Labels, styles.Label{
				Kind: "legend", Text: p.ID + ": " + splay.FormatValue(p.Value),
				X: s.MinX + r.margin, Y: top + float64(i)*lineH + lineH/2,
				Anchor: "start", FontSize: r.fontSize, Class: p.State.Style,
			})
		}
		s.Height += float64(len(legend))*lineH + r.margin
	}
	return s
}

func (r renderer) radialLabel(kind, text string, o geom.Point, radius, bearing, extra float64, class string) styles.Label {
	pt := angular.PointAt(o, radius, bearing)
	rot, anchor := styles.LabelRotation(bearing)
	return styles.Label{
		Kind: kind, Text: text, X: pt.X, Y: pt.Y,
		Rotate: rot + extra, Anchor: anchor,
		FontSize: r.fontSize, Class: class,
	}
}

func (r renderer) assetFor(id string, st renderstate.State) string {
	if r.assets == "" {
		return ""
	}
	switch {
	case st.IsVisible(renderstate.SVG):
		return path.Join(r.assets, id+".svg")
	case st.IsVisible(renderstate.Image):
		return path.Join(r.assets, id+".png")
	}
	return ""
}

// directionArc spans the range just inside the frame. A full circle is
// shortened by a degree so the arc has distinct end points.
func directionArc(l radial.Layout, o geom.Point) *styles.Arc {
	rad := l.Radius.BaseRadius - l.Radius.Spacing
	if rad <= 0 {
		rad = l.Radius.BaseRadius / 2
	}
	span := min(l.Range.Span(), 359)
	a := angular.PointAt(o, rad, angular.ToBearing(0, l.Range))
	b := angular.PointAt(o, rad, angular.ToBearing(span, l.Range))
	return &styles.Arc{
		X1: a.X, Y1: a.Y, X2: b.X, Y2: b.Y, R: rad,
		LargeArc: span > 180,
		Sweep:    l.Range.Direction == angular.Clockwise,
	}
}
