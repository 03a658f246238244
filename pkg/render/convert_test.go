package render

import (
	"context"
	"testing"

	"github.com/bdekoz/izzi/pkg/errors"
)

const tinySVG = `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><circle cx="5" cy="5" r="4"/></svg>`

func TestConvertWithoutConverter(t *testing.T) {
	old := converter
	converter = "izzi-no-such-converter"
	t.Cleanup(func() { converter = old })

	if Available() {
		t.Fatal("Available() should be false for a missing binary")
	}
	_, err := ToPDF(context.Background(), []byte(tinySVG))
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("ToPDF() error = %v, want UNSUPPORTED", err)
	}
	_, err = ToPNG(context.Background(), []byte(tinySVG), 2)
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("ToPNG() error = %v, want UNSUPPORTED", err)
	}
}

func TestToPNGSignature(t *testing.T) {
	if !Available() {
		t.Skip("rsvg-convert not installed")
	}
	png, err := ToPNG(context.Background(), []byte(tinySVG), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(png) < 8 || string(png[1:4]) != "PNG" {
		t.Errorf("output does not look like a PNG: % x", png[:min(len(png), 8)])
	}
}
