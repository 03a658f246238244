package sink

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/bdekoz/izzi/pkg/geom"
	"github.com/bdekoz/izzi/pkg/radial"
	"github.com/bdekoz/izzi/pkg/radial/angular"
	"github.com/bdekoz/izzi/pkg/render"
	"github.com/bdekoz/izzi/pkg/render/styles"
	"github.com/bdekoz/izzi/pkg/renderstate"
)

func testLayout(t *testing.T, opts ...radial.Option) radial.Layout {
	t.Helper()
	coll := radial.DefaultCollision()
	coll.Threshold = 1
	l, err := radial.Compute([]radial.Pair{
		{ID: "A", Value: 5},
		{ID: "B", Value: 5},
		{ID: "C", Value: 40},
		{ID: "Z", Value: 0},
	}, 100, angular.DefaultRange(), radial.DefaultRadius(100), coll, opts...)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	return l
}

func TestRenderSVG(t *testing.T) {
	l := testLayout(t)
	out := string(RenderSVG(l))

	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox=`) {
		t.Errorf("missing svg header:\n%s", out)
	}
	if !strings.HasSuffix(out, "</svg>\n") {
		t.Error("missing closing tag")
	}
	counts := map[string]int{
		`class="frame"`:       1,
		`class="ray"`:         2,
		`class="satellite`:    3,
		`class="label-id"`:    3,
		`class="direction"`:   0,
		`class="label-value"`: 0,
	}
	for frag, want := range counts {
		if got := strings.Count(out, frag); got != want {
			t.Errorf("count(%s) = %d, want %d", frag, got, want)
		}
	}
	if strings.Contains(out, `id="sat-Z"`) {
		t.Error("zero-valued id should not be drawn")
	}
}

func TestRenderSVGOptions(t *testing.T) {
	l := testLayout(t)
	out := string(RenderSVG(l,
		WithStyle(styles.Outline{}),
		WithTitle("pronouns & more"),
		WithValues(),
		WithDirectionArc(),
	))

	for _, want := range []string{
		`class="direction"`,
		`marker-end="url(#izzi-arrow)"`,
		">pronouns &amp; more</text>",
		`class="label-title"`,
		`stroke-dasharray="2 2"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if got := strings.Count(out, `class="label-value"`); got != 2 {
		t.Errorf("value labels = %d, want 2", got)
	}
	if !strings.Contains(out, ">40</text>") || !strings.Contains(out, ">5</text>") {
		t.Error("value labels should print the group values")
	}
}

func TestRenderSVGRenderState(t *testing.T) {
	lookup := renderstate.Table{
		Fallback: renderstate.Default(),
		ByID: map[string]renderstate.State{
			"A": {Visible: renderstate.Vector | renderstate.Glyph},
			"B": {Visible: renderstate.Image | renderstate.Echo | renderstate.Legend, Style: "accent"},
			"C": {Visible: renderstate.Text},
		},
	}
	l := testLayout(t, radial.WithRenderState(lookup))
	out := string(RenderSVG(l, WithAssets("art")))

	if got := strings.Count(out, `class="label-id"`); got != 1 {
		t.Errorf("id labels = %d, want 1 (only C shows text)", got)
	}
	if got := strings.Count(out, `class="ray"`); got != 1 {
		t.Errorf("rays = %d, want 1 (C hides its vector)", got)
	}
	for _, want := range []string{
		`href="art/B.png"`,
		`class="satellite accent"`,
		`class="echo"`,
		`class="label-legend accent"`,
		">B: 5</text>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, `id="sat-C"`) {
		t.Error("C hides its glyph")
	}

	noAssets := string(RenderSVG(l))
	if strings.Contains(noAssets, `id="sat-B"`) {
		t.Error("image-only id without an asset path should draw nothing")
	}
}

func TestRenderJSON(t *testing.T) {
	origin := geom.Point{X: 300, Y: 200}
	l := testLayout(t, radial.WithOrigin(origin))

	data, err := RenderJSON(l, WithDirectionArc(), WithTitle("t"))
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}
	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}

	if out.Style != styles.NameSimple {
		t.Errorf("Style = %q", out.Style)
	}
	if out.Frame.CX != origin.X || out.Frame.CY != origin.Y || out.Frame.R != 100 {
		t.Errorf("Frame = %+v", out.Frame)
	}
	if out.Arc == nil || !out.Arc.Sweep {
		t.Errorf("Arc = %+v, want clockwise arc", out.Arc)
	}
	if len(out.Rays) != 2 || len(out.Satellites) != 3 {
		t.Errorf("rays=%d satellites=%d", len(out.Rays), len(out.Satellites))
	}
	if len(out.Elided) != 1 || out.Elided[0] != "Z" {
		t.Errorf("Elided = %v", out.Elided)
	}

	half := out.ViewBox[2] / 2
	if math.Abs(out.ViewBox[0]+half-origin.X) > 1e-9 {
		t.Errorf("view box %v is not centred on %v", out.ViewBox, origin)
	}
	for _, s := range out.Satellites {
		if geom.Distance(origin, geom.Point{X: s.CX, Y: s.CY})+s.R > half {
			t.Errorf("satellite %s escapes the canvas", s.ID)
		}
	}
}

func TestRenderJSONEmptyLayout(t *testing.T) {
	l, err := radial.Compute(nil, 0, angular.DefaultRange(), radial.DefaultRadius(50), radial.DefaultCollision())
	if err != nil {
		t.Fatal(err)
	}
	data, err := RenderJSON(l)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"satellites": []`) {
		t.Errorf("empty layout should have an empty satellite list:\n%s", data)
	}
}

func TestDirectionArcCounterClockwise(t *testing.T) {
	l := testLayout(t)
	l.Range.Direction = angular.CounterClockwise
	arc := directionArc(l, geom.Point{})
	if arc.Sweep {
		t.Error("counter-clockwise range should not sweep clockwise")
	}
	if !arc.LargeArc {
		t.Error("a 340 degree range needs the large arc")
	}
	if arc.R != 90 {
		t.Errorf("R = %v, want base - spacing", arc.R)
	}
}

func TestRenderPNGAndPDF(t *testing.T) {
	if !render.Available() {
		t.Skip("rsvg-convert not installed")
	}
	ctx := context.Background()
	l := testLayout(t)

	png, err := RenderPNG(ctx, l, 0)
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	if !strings.HasPrefix(string(png), "\x89PNG") {
		t.Error("output is not a PNG")
	}

	pdf, err := RenderPDF(ctx, l)
	if err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}
	if !strings.HasPrefix(string(pdf), "%PDF") {
		t.Error("output is not a PDF")
	}
}
