package render

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	"github.com/bdekoz/izzi/pkg/errors"
)

// converter is the librsvg command line tool. Tests point it elsewhere.
var converter = "rsvg-convert"

// ToPDF converts an SVG document to a single page PDF.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return convert(ctx, svg, "pdf")
}

// ToPNG rasterizes an SVG document. A scale of 2 doubles the pixel size of
// the view box.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	return convert(ctx, svg, "png", "--zoom", strconv.FormatFloat(scale, 'f', 2, 64))
}

// Available reports whether the converter can be found on PATH.
func Available() bool {
	_, err := exec.LookPath(converter)
	return err == nil
}

func convert(ctx context.Context, svg []byte, format string, args ...string) ([]byte, error) {
	if !Available() {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"%s output needs %s from librsvg (brew install librsvg, apt install librsvg2-bin)", format, converter)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, converter, append([]string{"--format", format}, args...)...)
	cmd.Stdin = bytes.NewReader(svg)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "%s: %s", converter, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
