package styles

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/bdekoz/izzi/pkg/geom"
)

// EscapeXML escapes s for use in text content and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// LabelRotation returns the SVG rotation and text anchor for text that
// runs outward along bearing. Text on the left half of the circle is
// flipped so it never reads upside down.
func LabelRotation(bearing float64) (rotate float64, anchor string) {
	b := geom.NormalizeDegrees(bearing)
	if b > 180 {
		return b + 90, "end"
	}
	return b - 90, "start"
}

func writeText(buf *bytes.Buffer, l Label, fill, weight string) {
	fmt.Fprintf(buf, `  <text class="%s" x="%.2f" y="%.2f" font-family="sans-serif" font-size="%.1f" fill="%s"`,
		classAttr("label-"+l.Kind, l.Class), l.X, l.Y, l.FontSize, fill)
	if weight != "" {
		fmt.Fprintf(buf, ` font-weight="%s"`, weight)
	}
	if l.Anchor != "" {
		fmt.Fprintf(buf, ` text-anchor="%s"`, l.Anchor)
	}
	buf.WriteString(` dominant-baseline="middle"`)
	if l.Rotate != 0 {
		fmt.Fprintf(buf, ` transform="rotate(%.2f %.2f %.2f)"`, l.Rotate, l.X, l.Y)
	}
	fmt.Fprintf(buf, ">%s</text>\n", EscapeXML(l.Text))
}
