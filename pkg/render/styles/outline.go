package styles

import (
	"bytes"
	"fmt"
	"hash/fnv"
)

// Outline draws unfilled grey strokes. Each identifier gets its own
// stable shade so neighbours stay distinguishable in print.
type Outline struct{}

const (
	greyMin = 0x30
	greyMax = 0x90
)

func (Outline) Name() string { return NameOutline }

func (Outline) RenderDefs(buf *bytes.Buffer) { renderArrowMarker(buf, "#000") }

func (Outline) RenderFrame(buf *bytes.Buffer, f Frame) {
	fmt.Fprintf(buf, `  <circle class="frame" cx="%.2f" cy="%.2f" r="%.2f" fill="none" stroke="#000" stroke-width="0.75" stroke-dasharray="2 2"/>`+"\n",
		f.CX, f.CY, f.R)
}

func (Outline) RenderArc(buf *bytes.Buffer, a Arc) {
	fmt.Fprintf(buf, `  <path class="direction" d="%s" fill="none" stroke="#000" stroke-width="1" marker-end="url(#izzi-arrow)"/>`+"\n",
		arcPath(a))
}

func (Outline) RenderRay(buf *bytes.Buffer, r Ray) {
	width := 1.0
	if r.Promoted {
		width = 0.5
	}
	fmt.Fprintf(buf, `  <line class="ray" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#000" stroke-width="%.2f"/>`+"\n",
		r.X1, r.Y1, r.X2, r.Y2, width)
}

func (Outline) RenderSatellite(buf *bytes.Buffer, s Satellite) {
	grey := greyForID(s.ID)
	if s.Echo {
		fmt.Fprintf(buf, `  <circle class="echo" cx="%.2f" cy="%.2f" r="%.2f" fill="none" stroke="%s" stroke-width="0.5"/>`+"\n",
			s.CX, s.CY, s.R*echoScale, grey)
	}
	if s.Href != "" {
		renderImage(buf, s)
		return
	}
	fmt.Fprintf(buf, `  <circle id="sat-%s" class="%s" cx="%.2f" cy="%.2f" r="%.2f" fill="none" stroke="%s" stroke-width="1"/>`+"\n",
		EscapeXML(s.ID), classAttr("satellite", s.Class), s.CX, s.CY, s.R, grey)
}

func (Outline) RenderLabel(buf *bytes.Buffer, l Label) {
	if l.Kind == "title" {
		writeText(buf, l, "#000", "bold")
		return
	}
	writeText(buf, l, "#000", "")
}

func greyForID(id string) string {
	h := fnv.New32a()
	h.Write([]byte(id))
	v := greyMin + int(h.Sum32()%uint32(greyMax-greyMin+1))
	return fmt.Sprintf("#%02x%02x%02x", v, v, v)
}

var _ Style = Outline{}
