package collision

import (
	"testing"

	"github.com/bdekoz/izzi/pkg/radial/group"
)

func groupsOf(values ...float64) []group.Group {
	out := make([]group.Group, len(values))
	for i, v := range values {
		out[i] = group.Group{Value: v, IDs: []string{"id"}}
	}
	return out
}

func valuesOf(gs []group.Group) []float64 {
	out := make([]float64, len(gs))
	for i, g := range gs {
		out[i] = g.Value
	}
	return out
}

func equalValues(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDefaultThreshold(t *testing.T) {
	tests := []struct {
		valueMax, want float64
	}{
		{1, 1}, {19.9, 1},
		{20, 2}, {100, 2}, {189, 2},
		{190, 3}, {289, 3},
		{290, 4}, {10000, 4},
	}
	for _, tt := range tests {
		if got := DefaultThreshold(tt.valueMax); got != tt.want {
			t.Errorf("DefaultThreshold(%v) = %v, want %v", tt.valueMax, got, tt.want)
		}
	}
}

func TestPromote(t *testing.T) {
	tests := []struct {
		name         string
		values       []float64
		valueMax     float64
		cfg          Config
		wantPromoted []float64
		wantNear     []float64
	}{
		{
			name:     "far apart stays near",
			values:   []float64{5, 40},
			valueMax: 100,
			cfg:      Config{Threshold: 1},
			wantNear: []float64{5, 40},
		},
		{
			name:         "adjacent pair promotes one",
			values:       []float64{10, 11},
			valueMax:     100,
			cfg:          Config{Threshold: 2},
			wantPromoted: []float64{10},
			wantNear:     []float64{11},
		},
		{
			name:         "wraparound promotes first",
			values:       []float64{1, 99},
			valueMax:     100,
			cfg:          Config{Threshold: 3},
			wantPromoted: []float64{1},
			wantNear:     []float64{99},
		},
		{
			name:         "skip holds through a cluster then clears",
			values:       []float64{10, 11, 12, 40, 41},
			valueMax:     100,
			cfg:          Config{Threshold: 2},
			wantPromoted: []float64{10, 40},
			wantNear:     []float64{11, 12, 41},
		},
		{
			name:         "short skip window",
			values:       []float64{10, 11, 12},
			valueMax:     100,
			cfg:          Config{Threshold: 2, SkipDecay: 100},
			wantPromoted: []float64{10, 12},
			wantNear:     []float64{11},
		},
		{
			name:         "tiered default threshold",
			values:       []float64{50, 52, 80},
			valueMax:     100,
			wantPromoted: []float64{50},
			wantNear:     []float64{52, 80},
		},
		{
			name:     "empty",
			valueMax: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Promote(groupsOf(tt.values...), tt.valueMax, tt.cfg)
			if got := valuesOf(res.Promoted); !equalValues(got, tt.wantPromoted) {
				t.Errorf("Promoted = %v, want %v", got, tt.wantPromoted)
			}
			if got := valuesOf(res.Near); !equalValues(got, tt.wantNear) {
				t.Errorf("Near = %v, want %v", got, tt.wantNear)
			}
			if len(res.Decisions) != len(tt.values) {
				t.Errorf("Decisions = %d, want %d", len(res.Decisions), len(tt.values))
			}
		})
	}
}

func TestPromoteReasons(t *testing.T) {
	res := Promote(groupsOf(1, 50, 51, 99), 100, Config{Threshold: 3})
	want := []Decision{
		{Value: 1, Promoted: true, Reason: ReasonWrap},
		{Value: 50, Promoted: true, Reason: ReasonNext},
		{Value: 51, Reason: ReasonSkipped},
		{Value: 99, Reason: ReasonClear},
	}
	for i, d := range res.Decisions {
		if d != want[i] {
			t.Errorf("Decisions[%d] = %+v, want %+v", i, d, want[i])
		}
	}
	if res.Threshold != 3 {
		t.Errorf("Threshold = %v, want 3", res.Threshold)
	}
}

func TestPromoteEveryGroupAccountedFor(t *testing.T) {
	values := []float64{1, 2, 3, 5, 8, 13, 21, 34, 55, 89}
	res := Promote(groupsOf(values...), 100, Config{})
	if got := len(res.Promoted) + len(res.Near); got != len(values) {
		t.Fatalf("promoted+near = %d, want %d", got, len(values))
	}
}

func TestBypass(t *testing.T) {
	res := Bypass(groupsOf(10, 11))
	if len(res.Promoted) != 0 {
		t.Errorf("Bypass promoted %v", valuesOf(res.Promoted))
	}
	if got := valuesOf(res.Near); !equalValues(got, []float64{10, 11}) {
		t.Errorf("Near = %v", got)
	}
}

func TestConfigValidate(t *testing.T) {
	if err := (Config{}).Validate(); err != nil {
		t.Errorf("zero config: %v", err)
	}
	if err := (Config{Threshold: -1}).Validate(); err == nil {
		t.Error("negative threshold should fail")
	}
	if err := (Config{SkipDecay: -2}).Validate(); err == nil {
		t.Error("negative skip decay should fail")
	}
}
