package pipeline

import (
	"context"
	"fmt"

	"github.com/bdekoz/izzi/pkg/io"
	"github.com/bdekoz/izzi/pkg/radial"
	"github.com/bdekoz/izzi/pkg/render/sink"
	"github.com/bdekoz/izzi/pkg/render/styles"
)

// Render generates output artifacts in the requested formats. The json
// format is the positioned scene; use [io.WriteLayout] for the layout
// itself.
func Render(ctx context.Context, l radial.Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	sinkOpts, err := buildSinkOptions(opts)
	if err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(l, sinkOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(ctx, l, opts.PNGScale, sinkOpts...)
		case FormatPDF:
			data, err = sink.RenderPDF(ctx, l, sinkOpts...)
		case FormatJSON:
			data, err = sink.RenderJSON(l, sinkOpts...)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderFromLayoutData renders a layout serialized by [io.MarshalLayout],
// e.g. one read back from the cache or exported by "izzi layout".
func RenderFromLayoutData(ctx context.Context, layoutData []byte, opts Options) (map[string][]byte, error) {
	l, err := io.UnmarshalLayout(layoutData)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	return Render(ctx, l, opts)
}

func buildSinkOptions(opts Options) ([]sink.Option, error) {
	style, err := styles.ByName(opts.Style)
	if err != nil {
		return nil, err
	}
	so := []sink.Option{sink.WithStyle(style)}
	if opts.FontSize > 0 {
		so = append(so, sink.WithFontSize(opts.FontSize))
	}
	if opts.Estimator != nil {
		so = append(so, sink.WithEstimator(opts.Estimator))
	}
	if opts.Title != "" {
		so = append(so, sink.WithTitle(opts.Title))
	}
	if opts.Margin > 0 {
		so = append(so, sink.WithMargin(opts.Margin))
	}
	if opts.ShowValues {
		so = append(so, sink.WithValues())
	}
	if opts.DirectionArc {
		so = append(so, sink.WithDirectionArc())
	}
	if opts.Assets != "" {
		so = append(so, sink.WithAssets(opts.Assets))
	}
	return so, nil
}
