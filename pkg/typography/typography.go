// Package typography estimates text footprints for label placement.
//
// Estimates are approximations. The placement engine converts label
// lengths into radial and angular room with them, and it never measures
// rendered glyphs. A slightly wrong estimate can produce minor text overlap
// in the drawing; it is never an error.
package typography

import (
	"math"
	"sync"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DefaultFontSize is the label size used when none is configured.
const DefaultFontSize = 12.0

// Estimator approximates the size of one character at a font size.
type Estimator interface {
	CharWidth(fontSize float64) float64
	CharHeight(fontSize float64) float64
}

// TextWidth estimates the width of s.
func TextWidth(e Estimator, s string, fontSize float64) float64 {
	return float64(utf8.RuneCountInString(s)) * e.CharWidth(fontSize)
}

// Heuristic scales the font size by fixed ratios.
type Heuristic struct {
	WidthRatio  float64
	HeightRatio float64
}

// DefaultHeuristic matches an average proportional sans-serif face.
func DefaultHeuristic() Heuristic {
	return Heuristic{WidthRatio: 0.55, HeightRatio: 1.0}
}

func (h Heuristic) CharWidth(fontSize float64) float64  { return fontSize * h.WidthRatio }
func (h Heuristic) CharHeight(fontSize float64) float64 { return fontSize * h.HeightRatio }

// sample is averaged to get a per-character advance.
const sample = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ-_."

// FaceEstimator measures an OpenType face. Metrics are cached per size.
// It is safe for concurrent use.
type FaceEstimator struct {
	font *opentype.Font

	mu    sync.Mutex
	cache map[float64]metrics
}

type metrics struct {
	width, height float64
}

var (
	goRegularOnce sync.Once
	goRegular     *opentype.Font
	goRegularErr  error
)

// NewFaceEstimator measures f. A nil font selects Go Regular.
func NewFaceEstimator(f *opentype.Font) (*FaceEstimator, error) {
	if f == nil {
		goRegularOnce.Do(func() {
			goRegular, goRegularErr = opentype.Parse(goregular.TTF)
		})
		if goRegularErr != nil {
			return nil, goRegularErr
		}
		f = goRegular
	}
	return &FaceEstimator{font: f, cache: make(map[float64]metrics)}, nil
}

// ParseFaceEstimator measures the TrueType or OpenType font in data.
func ParseFaceEstimator(data []byte) (*FaceEstimator, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}
	return NewFaceEstimator(f)
}

func (e *FaceEstimator) CharWidth(fontSize float64) float64  { return e.measure(fontSize).width }
func (e *FaceEstimator) CharHeight(fontSize float64) float64 { return e.measure(fontSize).height }

func (e *FaceEstimator) measure(fontSize float64) metrics {
	if fontSize <= 0 || math.IsNaN(fontSize) {
		return metrics{}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if m, ok := e.cache[fontSize]; ok {
		return m
	}

	face, err := opentype.NewFace(e.font, &opentype.FaceOptions{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	var m metrics
	if err != nil {
		m = scaledBasic(fontSize)
	} else {
		m = faceMetrics(face)
		_ = face.Close()
	}
	e.cache[fontSize] = m
	return m
}

func faceMetrics(face font.Face) metrics {
	adv := font.MeasureString(face, sample)
	return metrics{
		width:  toFloat(adv) / float64(len(sample)),
		height: toFloat(face.Metrics().Height),
	}
}

// scaledBasic falls back to the fixed 7x13 bitmap face scaled to fontSize.
func scaledBasic(fontSize float64) metrics {
	m := faceMetrics(basicfont.Face7x13)
	scale := fontSize / 13
	return metrics{width: m.width * scale, height: m.height * scale}
}

func toFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }
