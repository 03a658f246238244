package pipeline

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bdekoz/izzi/pkg/cache"
	"github.com/bdekoz/izzi/pkg/config"
	"github.com/bdekoz/izzi/pkg/errors"
	"github.com/bdekoz/izzi/pkg/io"
	"github.com/bdekoz/izzi/pkg/observability"
	"github.com/bdekoz/izzi/pkg/radial"
	"github.com/bdekoz/izzi/pkg/radial/angular"
	"github.com/bdekoz/izzi/pkg/renderstate"
	"github.com/bdekoz/izzi/pkg/typography"
)

var samplePairs = []radial.Pair{
	{ID: "she/her", Value: 41},
	{ID: "he/him", Value: 40},
	{ID: "they/them", Value: 12},
	{ID: "xe/xem", Value: 0},
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil {
			assert.Equal(t, errors.ErrCodeInvalidFormat, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	assert.NoError(t, ValidateFormats([]string{"svg", "png"}))
	assert.Error(t, ValidateFormats([]string{"svg", "invalid"}))
	assert.NoError(t, ValidateFormats(nil))
}

func TestValidateStyle(t *testing.T) {
	tests := []struct {
		style   string
		wantErr bool
	}{
		{"simple", false},
		{"outline", false},
		{"handdrawn", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateStyle(tt.style)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateStyle(%q) error = %v, wantErr %v", tt.style, err, tt.wantErr)
		}
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	require.NoError(t, opts.ValidateAndSetDefaults())

	assert.Equal(t, angular.DefaultRange(), opts.Range)
	assert.Equal(t, DefaultBaseRadius, opts.Radius.BaseRadius)
	assert.Equal(t, radial.AvoidanceOrbit, opts.Collision.Avoidance)
	assert.Equal(t, []string{FormatSVG}, opts.Formats)
	assert.Equal(t, DefaultStyle, opts.Style)
	assert.Equal(t, typography.DefaultFontSize, opts.FontSize)
	assert.Equal(t, "heuristic:0.55:1", opts.EstimatorID)
	assert.NotNil(t, opts.Logger)
}

func TestZeroOptionsGetDefaults(t *testing.T) {
	var opts Options
	require.NoError(t, opts.ValidateAndSetDefaults())
	assert.Equal(t, angular.DefaultRange(), opts.Range)
	assert.Equal(t, radial.AvoidanceOff, opts.Collision.Avoidance)
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(o *Options)
		code   errors.Code
	}{
		{"bad range", func(o *Options) { o.Range.Min, o.Range.Max = 200, 100 }, errors.ErrCodeInvalidRange},
		{"bad radius", func(o *Options) { o.Radius.BaseRadius = -1 }, errors.ErrCodeInvalidRadius},
		{"negative value max", func(o *Options) { o.ValueMax = -3 }, errors.ErrCodeInvalidValueMax},
		{"bad format", func(o *Options) { o.Formats = []string{"gif"} }, errors.ErrCodeInvalidFormat},
		{"bad style", func(o *Options) { o.Style = "sketch" }, errors.ErrCodeInvalidStyle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)
			err := opts.ValidateAndSetDefaults()
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err), "err = %v", err)
		})
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Range.Direction = "ccw"
	cfg.Collision.Weighting = "value"
	cfg.Render.Formats = []string{"svg", "json"}

	opts, err := FromConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, angular.CounterClockwise, opts.Range.Direction)
	assert.Equal(t, radial.WeightByValue, opts.Collision.Weighting)
	assert.Equal(t, cfg.Radius.Base, opts.Radius.BaseRadius)
	assert.Equal(t, []string{"svg", "json"}, opts.Formats)
	assert.True(t, opts.ShowValues)
	assert.Equal(t, "heuristic:0.55:1", opts.EstimatorID)
}

func TestComputeLayoutEffectiveMax(t *testing.T) {
	opts := DefaultOptions()
	l, err := ComputeLayout(samplePairs, opts)
	require.NoError(t, err)
	assert.Equal(t, 41.0, l.ValueMax)
	assert.Len(t, l.Placements, 3)
	assert.Equal(t, []string{"xe/xem"}, l.Elided)

	opts.ValueMax = 100
	l, err = ComputeLayout(samplePairs, opts)
	require.NoError(t, err)
	assert.Equal(t, 100.0, l.ValueMax)
}

func TestComputeLayoutStates(t *testing.T) {
	opts := DefaultOptions()
	opts.States = &renderstate.Table{
		Fallback: renderstate.Default(),
		ByID:     map[string]renderstate.State{"he/him": {Visible: renderstate.Vector}},
	}
	l, err := ComputeLayout(samplePairs, opts)
	require.NoError(t, err)
	for _, p := range l.Placements {
		if p.ID == "he/him" {
			assert.Zero(t, p.LabelWidth, "hidden text has no width")
		} else {
			assert.Positive(t, p.LabelWidth)
		}
	}
}

func TestApplyDataset(t *testing.T) {
	ds, err := io.ReadDataset(strings.NewReader(`{
		"title": "pronouns",
		"value_max": 50,
		"states": {"he/him": "vector"},
		"values": {"she/her": 41, "he/him": 40}
	}`), io.FormatJSON)
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.ApplyDataset(ds)
	assert.Equal(t, "pronouns", opts.Title)
	assert.Equal(t, 50.0, opts.ValueMax)
	require.NotNil(t, opts.States)
	assert.Equal(t, renderstate.Vector, opts.States.StateFor("he/him").Visible)

	opts = DefaultOptions()
	opts.Title = "override"
	opts.ValueMax = 80
	opts.ApplyDataset(ds)
	assert.Equal(t, "override", opts.Title)
	assert.Equal(t, 80.0, opts.ValueMax)
}

func TestHashPairsOrderIndependent(t *testing.T) {
	shuffled := []radial.Pair{samplePairs[2], samplePairs[0], samplePairs[3], samplePairs[1]}
	assert.Equal(t, HashPairs(samplePairs), HashPairs(shuffled))

	changed := append([]radial.Pair(nil), samplePairs...)
	changed[0].Value = 42
	assert.NotEqual(t, HashPairs(samplePairs), HashPairs(changed))
}

func TestRunnerCaching(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	opts := DefaultOptions()
	opts.Formats = []string{FormatSVG, FormatJSON}

	first, err := runner.Execute(ctx, samplePairs, opts)
	require.NoError(t, err)
	assert.False(t, first.CacheInfo.LayoutHit)
	assert.False(t, first.CacheInfo.RenderHit)
	assert.Contains(t, string(first.Artifacts[FormatSVG]), "<svg")
	assert.Contains(t, string(first.Artifacts[FormatJSON]), `"satellites"`)
	assert.Equal(t, 4, first.Stats.IDs)
	assert.Equal(t, 3, first.Stats.Placements)
	assert.Equal(t, 1, first.Stats.Elided)
	assert.NotEmpty(t, first.LayoutHash)

	second, err := runner.Execute(ctx, samplePairs, opts)
	require.NoError(t, err)
	assert.True(t, second.CacheInfo.LayoutHit)
	assert.True(t, second.CacheInfo.RenderHit)
	assert.Equal(t, first.Layout, second.Layout)
	assert.Equal(t, first.Artifacts, second.Artifacts)
	assert.Equal(t, first.DataHash, second.DataHash)

	opts.Refresh = true
	third, err := runner.Execute(ctx, samplePairs, opts)
	require.NoError(t, err)
	assert.False(t, third.CacheInfo.LayoutHit)
	assert.False(t, third.CacheInfo.RenderHit)

	opts.Refresh = false
	opts.Radius.Spacing = 12
	fourth, err := runner.Execute(ctx, samplePairs, opts)
	require.NoError(t, err)
	assert.False(t, fourth.CacheInfo.LayoutHit, "changed radius must not reuse the cached layout")
}

func TestRunnerPropagatesErrors(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	_, err := runner.Execute(context.Background(), []radial.Pair{{ID: "a", Value: -1}}, DefaultOptions())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidValue, errors.GetCode(err))

	_, err = runner.Execute(context.Background(), []radial.Pair{{ID: "a", Value: 1}, {ID: "a", Value: 2}}, DefaultOptions())
	assert.Equal(t, errors.ErrCodeDuplicateID, errors.GetCode(err))
}

func TestRenderFromLayoutData(t *testing.T) {
	ctx := context.Background()
	opts := DefaultOptions()
	l, err := ComputeLayout(samplePairs, opts)
	require.NoError(t, err)
	data, err := io.MarshalLayout(l)
	require.NoError(t, err)

	fromData, err := RenderFromLayoutData(ctx, data, opts)
	require.NoError(t, err)
	direct, err := Render(ctx, l, opts)
	require.NoError(t, err)
	assert.Equal(t, direct, fromData)

	_, err = RenderFromLayoutData(ctx, []byte("{"), opts)
	assert.Error(t, err)
}

func TestRenderCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l, err := ComputeLayout(samplePairs, DefaultOptions())
	require.NoError(t, err)
	_, err = Render(ctx, l, DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunnerHooks(t *testing.T) {
	rec := &observability.Recorder{}
	observability.SetPipelineHooks(rec)
	observability.SetCacheHooks(rec)
	t.Cleanup(observability.Reset)

	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	runner := NewRunner(fc, nil, nil)

	for range 2 {
		_, err := runner.Execute(context.Background(), samplePairs, DefaultOptions())
		require.NoError(t, err)
	}

	assert.Equal(t, 1, rec.Count("layout.complete ok=true"))
	assert.Equal(t, 1, rec.Count("render.complete ok=true"))
	for _, kind := range []string{"layout", "artifact"} {
		assert.Equal(t, 1, rec.Count("cache.hit "+kind), kind)
		assert.Equal(t, 1, rec.Count("cache.miss "+kind), kind)
		assert.Equal(t, 1, rec.Count("cache.set "+kind), kind)
	}
	assert.Equal(t, len(samplePairs), rec.LastLayout().Placements+rec.LastLayout().Elided)
}

type ttlCache struct {
	cache.Cache
	mu   sync.Mutex
	ttls []time.Duration
}

func (c *ttlCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	c.ttls = append(c.ttls, ttl)
	c.mu.Unlock()
	return c.Cache.Set(ctx, key, data, ttl)
}

func TestRunnerTTL(t *testing.T) {
	c := &ttlCache{Cache: cache.NewNullCache()}
	r := NewRunner(c, nil, nil)
	_, err := r.Execute(context.Background(), samplePairs, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{cache.TTLLayout, cache.TTLArtifact}, c.ttls)

	c.ttls = nil
	r.TTL = time.Hour
	_, err = r.Execute(context.Background(), samplePairs, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{time.Hour, time.Hour}, c.ttls)
}
