package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

// quietSpinner returns a spinner drawing into a buffer instead of stderr.
func quietSpinner(ctx context.Context, msg string) (*Spinner, *bytes.Buffer) {
	var buf bytes.Buffer
	s := newSpinnerWithContext(ctx, msg)
	s.w = &buf
	return s, &buf
}

func TestSpinnerDrawsAndClears(t *testing.T) {
	s, buf := quietSpinner(context.Background(), "placing 12 ids")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Update("rendering svg")
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	out := buf.String()
	for _, want := range []string{"placing 12 ids", "rendering svg"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
	if !strings.HasSuffix(out, "\r") {
		t.Error("Stop should leave the cursor at the start of a cleared line")
	}
	if got := s.Message(); got != "rendering svg" {
		t.Errorf("Message() = %q", got)
	}
	if s.Cancelled() {
		t.Error("a spinner stopped by Stop is not cancelled")
	}
}

func TestSpinnerCancellation(t *testing.T) {
	tests := []struct {
		name string
		ctx  func() (context.Context, context.CancelFunc)
	}{
		{"cancel", func() (context.Context, context.CancelFunc) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			return ctx, cancel
		}},
		{"timeout", func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), 20*time.Millisecond)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctx()
			defer cancel()
			s, _ := quietSpinner(ctx, "waiting")
			s.Start()
			time.Sleep(100 * time.Millisecond)
			if !s.Cancelled() {
				t.Error("Cancelled() should report the parent context")
			}
			s.Stop()
		})
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s, _ := quietSpinner(context.Background(), "twice")
	s.Start()
	s.Stop()
	s.Stop()
	s.StopWithSuccess("done")
	s.StopWithError("still done")
}

func TestSpinnerStopBeforeStart(t *testing.T) {
	s, buf := quietSpinner(context.Background(), "never started")
	s.Stop()
	if buf.Len() != 0 {
		t.Errorf("Stop before Start wrote %q", buf.String())
	}
}
