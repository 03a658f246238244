package sink

import (
	"context"

	"github.com/bdekoz/izzi/pkg/radial"
	"github.com/bdekoz/izzi/pkg/render"
)

// DefaultPNGScale renders PNGs at twice the SVG size.
const DefaultPNGScale = 2.0

// RenderPNG renders the layout as PNG via SVG conversion.
// A scale of 0 selects DefaultPNGScale.
func RenderPNG(ctx context.Context, l radial.Layout, scale float64, opts ...Option) ([]byte, error) {
	if scale <= 0 {
		scale = DefaultPNGScale
	}
	return render.ToPNG(ctx, RenderSVG(l, opts...), scale)
}
