package styles

import (
	"bytes"
	"fmt"
)

// Simple colours rays and satellites by bearing.
type Simple struct{}

func (Simple) Name() string { return NameSimple }

func (Simple) RenderDefs(buf *bytes.Buffer) { renderArrowMarker(buf, "#888") }

func (Simple) RenderFrame(buf *bytes.Buffer, f Frame) {
	fmt.Fprintf(buf, `  <circle class="frame" cx="%.2f" cy="%.2f" r="%.2f" fill="none" stroke="#999" stroke-width="1"/>`+"\n",
		f.CX, f.CY, f.R)
}

func (Simple) RenderArc(buf *bytes.Buffer, a Arc) {
	fmt.Fprintf(buf, `  <path class="direction" d="%s" fill="none" stroke="#888" stroke-width="1.5" marker-end="url(#izzi-arrow)"/>`+"\n",
		arcPath(a))
}

func (Simple) RenderRay(buf *bytes.Buffer, r Ray) {
	dash := ""
	if r.Promoted {
		dash = ` stroke-dasharray="4 2"`
	}
	fmt.Fprintf(buf, `  <line class="ray" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="1.5"%s/>`+"\n",
		r.X1, r.Y1, r.X2, r.Y2, HueColor(r.Bearing, 45), dash)
}

func (Simple) RenderSatellite(buf *bytes.Buffer, s Satellite) {
	fill := HueColor(s.Bearing, 55)
	if s.Echo {
		fmt.Fprintf(buf, `  <circle class="echo" cx="%.2f" cy="%.2f" r="%.2f" fill="%s" fill-opacity="0.2"/>`+"\n",
			s.CX, s.CY, s.R*echoScale, fill)
	}
	if s.Href != "" {
		renderImage(buf, s)
		return
	}
	fmt.Fprintf(buf, `  <circle id="sat-%s" class="%s" cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>`+"\n",
		EscapeXML(s.ID), classAttr("satellite", s.Class), s.CX, s.CY, s.R, fill)
}

func (Simple) RenderLabel(buf *bytes.Buffer, l Label) {
	switch l.Kind {
	case "title":
		writeText(buf, l, "#222", "bold")
	case "value":
		writeText(buf, l, "#666", "")
	default:
		writeText(buf, l, "#222", "")
	}
}

// HueColor maps a bearing onto the colour wheel.
func HueColor(bearing, lightness float64) string {
	return fmt.Sprintf("hsl(%.0f, 60%%, %.0f%%)", bearing, lightness)
}

const echoScale = 1.6

func renderImage(buf *bytes.Buffer, s Satellite) {
	fmt.Fprintf(buf, `  <image id="sat-%s" class="%s" href="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f"/>`+"\n",
		EscapeXML(s.ID), classAttr("satellite", s.Class), EscapeXML(s.Href), s.CX-s.R, s.CY-s.R, 2*s.R, 2*s.R)
}

var _ Style = Simple{}
