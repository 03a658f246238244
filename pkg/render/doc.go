// Package render turns computed radial layouts into files.
//
// The [sink] subpackage writes SVG and a JSON scene description; PNG and
// PDF are produced from the SVG by [ToPNG] and [ToPDF], which shell out to
// rsvg-convert from librsvg:
//
//	svg := sink.RenderSVG(layout, sink.WithStyle(styles.Simple{}))
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)
//
// The [styles] subpackage decides how the positioned elements look.
//
// [sink]: github.com/bdekoz/izzi/pkg/render/sink
// [styles]: github.com/bdekoz/izzi/pkg/render/styles
package render
