// Package styles draws the elements of a radial diagram as SVG.
//
// A [Style] receives fully positioned elements in canvas coordinates and
// only decides how they look. Two styles ship with izzi: [Simple] colours
// each ray and satellite by its bearing, [Outline] draws everything as
// grey strokes for print.
package styles

import (
	"bytes"
	"fmt"

	"github.com/bdekoz/izzi/pkg/errors"
)

// Style defines the visual appearance of a radial diagram.
type Style interface {
	Name() string
	// RenderDefs writes SVG <defs> content (markers, filters).
	RenderDefs(buf *bytes.Buffer)
	RenderFrame(buf *bytes.Buffer, f Frame)
	RenderArc(buf *bytes.Buffer, a Arc)
	RenderRay(buf *bytes.Buffer, r Ray)
	RenderSatellite(buf *bytes.Buffer, s Satellite)
	RenderLabel(buf *bytes.Buffer, l Label)
}

// Frame is the circle drawn at the base radius.
type Frame struct {
	CX float64 `json:"cx"`
	CY float64 `json:"cy"`
	R  float64 `json:"r"`
}

// Arc shows the sweep direction: an arrowed arc from the first to the
// last bearing of the range.
type Arc struct {
	X1       float64 `json:"x1"`
	Y1       float64 `json:"y1"`
	X2       float64 `json:"x2"`
	Y2       float64 `json:"y2"`
	R        float64 `json:"r"`
	LargeArc bool    `json:"large_arc"`
	Sweep    bool    `json:"sweep"` // true when drawn clockwise on screen
}

// Ray is the radial line of one value group.
type Ray struct {
	Value    float64 `json:"value"`
	X1       float64 `json:"x1"`
	Y1       float64 `json:"y1"`
	X2       float64 `json:"x2"`
	Y2       float64 `json:"y2"`
	Bearing  float64 `json:"bearing"`
	Promoted bool    `json:"promoted,omitempty"`
}

// Satellite is the glyph of one identifier.
type Satellite struct {
	ID       string  `json:"id"`
	CX       float64 `json:"cx"`
	CY       float64 `json:"cy"`
	R        float64 `json:"r"`
	Bearing  float64 `json:"bearing"`
	Echo     bool    `json:"echo,omitempty"`  // draw an echo ring behind the glyph
	Href     string  `json:"href,omitempty"`  // inserted artwork, empty when none
	Class    string  `json:"class,omitempty"` // extra CSS class from the render state
	Promoted bool    `json:"promoted,omitempty"`
}

// Label is a line of text. Kind is "id", "value", "title" or "legend".
type Label struct {
	Kind     string  `json:"kind"`
	Text     string  `json:"text"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotate   float64 `json:"rotate,omitempty"`
	Anchor   string  `json:"anchor,omitempty"`
	FontSize float64 `json:"font_size"`
	Class    string  `json:"class,omitempty"`
}

// Named styles.
const (
	NameSimple  = "simple"
	NameOutline = "outline"
)

// Names lists the available styles.
var Names = []string{NameSimple, NameOutline}

// ByName returns the style registered under name.
func ByName(name string) (Style, error) {
	switch name {
	case "", NameSimple:
		return Simple{}, nil
	case NameOutline:
		return Outline{}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidStyle, "unknown style %q (want one of: simple, outline)", name)
}

func renderArrowMarker(buf *bytes.Buffer, color string) {
	fmt.Fprintf(buf, `  <defs>
    <marker id="izzi-arrow" viewBox="0 0 10 10" refX="8" refY="5" markerWidth="6" markerHeight="6" orient="auto-start-reverse">
      <path d="M 0 0 L 10 5 L 0 10 z" fill="%s"/>
    </marker>
  </defs>
`, color)
}

func arcPath(a Arc) string {
	return fmt.Sprintf("M %.2f %.2f A %.2f %.2f 0 %d %d %.2f %.2f",
		a.X1, a.Y1, a.R, a.R, flag(a.LargeArc), flag(a.Sweep), a.X2, a.Y2)
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}

func classAttr(base, extra string) string {
	if extra == "" {
		return base
	}
	return base + " " + EscapeXML(extra)
}
