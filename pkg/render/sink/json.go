package sink

import (
	"encoding/json"

	"github.com/bdekoz/izzi/pkg/radial"
	"github.com/bdekoz/izzi/pkg/render/styles"
)

type jsonOutput struct {
	ViewBox    [4]float64         `json:"view_box"`
	Style      string             `json:"style"`
	Title      string             `json:"title,omitempty"`
	ValueMax   float64            `json:"value_max"`
	Threshold  float64            `json:"threshold,omitempty"`
	Frame      styles.Frame       `json:"frame"`
	Arc        *styles.Arc        `json:"arc,omitempty"`
	Rays       []styles.Ray       `json:"rays"`
	Satellites []styles.Satellite `json:"satellites"`
	Labels     []styles.Label     `json:"labels"`
	Elided     []string           `json:"elided,omitempty"`
}

// RenderJSON exports the positioned scene as pretty-printed JSON. It is
// what RenderSVG would draw, in canvas coordinates, for renderers outside
// this module.
func RenderJSON(l radial.Layout, opts ...Option) ([]byte, error) {
	r := newRenderer(opts)
	s := buildScene(l, r)

	out := jsonOutput{
		ViewBox:    [4]float64{s.MinX, s.MinY, s.Width, s.Height},
		Style:      r.style.Name(),
		Title:      r.title,
		ValueMax:   l.ValueMax,
		Threshold:  l.Threshold,
		Frame:      s.Frame,
		Arc:        s.Arc,
		Rays:       nonNil(s.Rays),
		Satellites: nonNil(s.Satellites),
		Labels:     nonNil(s.Labels),
		Elided:     l.Elided,
	}
	return json.MarshalIndent(out, "", "  ")
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
