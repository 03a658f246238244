// Package sink writes radial layouts to output formats.
//
// # Overview
//
// A "sink" transforms a computed [radial.Layout] into a final output
// format:
//
//   - SVG: the diagram itself
//   - JSON: the positioned scene, for external renderers
//   - PDF: print-ready output (requires rsvg-convert)
//   - PNG: raster output (requires rsvg-convert)
//
// Every sink first builds the same scene: the framing circle at the base
// radius, an optional arrowed arc showing the sweep direction, one ray per
// value group, one satellite per identifier and the rotated labels. Which
// of those elements appear for an identifier follows its render state.
//
//	svg := sink.RenderSVG(layout,
//	    sink.WithStyle(styles.Outline{}),
//	    sink.WithTitle("pronouns"),
//	    sink.WithValues(),
//	    sink.WithDirectionArc(),
//	)
//
// # SVG Options
//
//   - [WithStyle]: visual style ([styles.Simple] or [styles.Outline])
//   - [WithTitle]: heading above the diagram
//   - [WithValues]: print each group's value at the end of its ray
//   - [WithDirectionArc]: draw the sweep direction inside the frame
//   - [WithMargin]: blank space around the diagram
//   - [WithAssets]: base path for inserted image and svg artwork
//   - [WithFontSize]: label font size, matching the size used for placement
//
// [radial.Layout]: github.com/bdekoz/izzi/pkg/radial.Layout
// [styles.Simple]: github.com/bdekoz/izzi/pkg/render/styles.Simple
// [styles.Outline]: github.com/bdekoz/izzi/pkg/render/styles.Outline
package sink
