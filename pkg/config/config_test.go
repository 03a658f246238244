package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bdekoz/izzi/pkg/errors"
	"github.com/bdekoz/izzi/pkg/radial"
	"github.com/bdekoz/izzi/pkg/radial/angular"
	"github.com/bdekoz/izzi/pkg/typography"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestReadOverlaysDefaults(t *testing.T) {
	cfg, err := Read(strings.NewReader(`
[radius]
base = 200

[range]
direction = "ccw"
zero = "east"

[collision]
weighting = "value"
threshold = 3
`))
	require.NoError(t, err)

	assert.Equal(t, 200.0, cfg.Radius.Base)
	assert.Equal(t, 10.0, cfg.Radius.Spacing, "unset keys keep defaults")

	rng, err := cfg.AngularRange()
	require.NoError(t, err)
	assert.Equal(t, angular.Range{Min: 10, Max: 350, Direction: angular.CounterClockwise, Zero: angular.East}, rng)

	coll, err := cfg.CollisionConfig()
	require.NoError(t, err)
	assert.Equal(t, radial.CollisionConfig{Avoidance: radial.AvoidanceOrbit, Weighting: radial.WeightByValue, Threshold: 3}, coll)

	rc := cfg.RadiusConfig()
	assert.Equal(t, 200.0, rc.BaseRadius)
	assert.Equal(t, 5.0, rc.StartLenMultiple)
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"bad toml", "[radius\nbase = 1", "decode config"},
		{"unknown key", "[radius]\nbsae = 1", "unknown config keys: radius.bsae"},
		{"non-positive radius", "[radius]\nbase = 0", "Radius.Base: must be greater than 0"},
		{"inverted range", "[range]\nmin = 300\nmax = 200", "Range.Min: must be less than Max"},
		{"bad avoidance", "[collision]\navoidance = \"sometimes\"", "Collision.Avoidance: must be one of"},
		{"redis without addr", "[cache]\nbackend = \"redis\"", "Cache.RedisAddr: field is required"},
		{"bad format", "[render]\nformats = [\"gif\"]", "must be one of: svg json png pdf"},
		{"bad ttl", "[cache]\nttl = \"soon\"", "cache.ttl"},
		{"bad zero", "[range]\nzero = \"up\"", "invalid zero reference"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig) || errors.Is(err, errors.ErrCodeInvalidRange), "code = %v", errors.GetCode(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "izzi.toml")
	require.NoError(t, os.WriteFile(path, []byte("[typography]\nfont_size = 16\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 16.0, cfg.Typography.FontSize)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestEncodeRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Default().Encode(&buf))

	cfg, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestEstimator(t *testing.T) {
	cfg := Default()
	est, err := cfg.Estimator()
	require.NoError(t, err)
	assert.IsType(t, typography.Heuristic{}, est)

	cfg.Typography.Estimator = "face"
	est, err = cfg.Estimator()
	require.NoError(t, err)
	assert.IsType(t, &typography.FaceEstimator{}, est)

	cfg.Typography.FontFile = filepath.Join(t.TempDir(), "nope.ttf")
	_, err = cfg.Estimator()
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestDurations(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL())
	read, write := cfg.Timeouts()
	assert.Equal(t, 10*time.Second, read)
	assert.Equal(t, 30*time.Second, write)
}

func TestOverlay(t *testing.T) {
	base := Default()
	cfg, err := base.Overlay([]byte(`{"radius": {"base": 200}, "render": {"formats": ["json"]}}`))
	require.NoError(t, err)
	assert.Equal(t, 200.0, cfg.Radius.Base)
	assert.Equal(t, base.Radius.Spacing, cfg.Radius.Spacing)
	assert.Equal(t, []string{"json"}, cfg.Render.Formats)

	// The receiver is untouched.
	assert.Equal(t, 120.0, base.Radius.Base)
	assert.Equal(t, []string{"svg"}, base.Render.Formats)

	same, err := base.Overlay(nil)
	require.NoError(t, err)
	assert.Equal(t, base, same)

	for _, bad := range []string{
		`{"radius": {"bogus": 1}}`,
		`{"radius": {"base": -1}}`,
		`{"radius": `,
	} {
		_, err := base.Overlay([]byte(bad))
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), bad)
	}
}
