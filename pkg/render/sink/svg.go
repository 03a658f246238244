package sink

import (
	"bytes"
	"fmt"

	"github.com/bdekoz/izzi/pkg/radial"
)

// RenderSVG draws the layout. Rays are drawn first, then satellites, then
// all text, so labels are never hidden behind glyphs.
func RenderSVG(l radial.Layout, opts ...Option) []byte {
	r := newRenderer(opts)
	s := buildScene(l, r)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		s.MinX, s.MinY, s.Width, s.Height, s.Width, s.Height)

	r.style.RenderDefs(&buf)
	r.style.RenderFrame(&buf, s.Frame)
	if s.Arc != nil {
		r.style.RenderArc(&buf, *s.Arc)
	}
	for _, ray := range s.Rays {
		r.style.RenderRay(&buf, ray)
	}
	for _, sat := range s.Satellites {
		r.style.RenderSatellite(&buf, sat)
	}
	for _, lbl := range s.Labels {
		r.style.RenderLabel(&buf, lbl)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}
