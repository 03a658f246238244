package observability

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Recorder implements every hook interface by keeping a log of the events
// it receives. It is meant for tests and for debugging a single run.
type Recorder struct {
	mu     sync.Mutex
	events []string
	last   LayoutStats
}

var (
	_ PipelineHooks = (*Recorder)(nil)
	_ CacheHooks    = (*Recorder)(nil)
	_ ServerHooks   = (*Recorder)(nil)
)

func (r *Recorder) add(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

// Events returns the recorded events in arrival order.
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

// Count returns how many recorded events equal event.
func (r *Recorder) Count(event string) int {
	n := 0
	for _, e := range r.Events() {
		if e == event {
			n++
		}
	}
	return n
}

// LastLayout returns the stats of the most recent completed layout.
func (r *Recorder) LastLayout() LayoutStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

func (r *Recorder) OnLayoutStart(_ context.Context, ids int) { r.add("layout.start ids=%d", ids) }

func (r *Recorder) OnLayoutComplete(_ context.Context, stats LayoutStats, _ time.Duration, err error) {
	r.mu.Lock()
	r.last = stats
	r.mu.Unlock()
	r.add("layout.complete ok=%t", err == nil)
}

func (r *Recorder) OnRenderStart(_ context.Context, formats []string) {
	r.add("render.start %v", formats)
}

func (r *Recorder) OnRenderComplete(_ context.Context, formats []string, _ time.Duration, err error) {
	r.add("render.complete ok=%t", err == nil)
}

func (r *Recorder) OnCacheHit(_ context.Context, keyType string)  { r.add("cache.hit %s", keyType) }
func (r *Recorder) OnCacheMiss(_ context.Context, keyType string) { r.add("cache.miss %s", keyType) }
func (r *Recorder) OnCacheSet(_ context.Context, keyType string, size int) {
	r.add("cache.set %s", keyType)
}

func (r *Recorder) OnRequest(_ context.Context, method, path string) {
	r.add("http.request %s %s", method, path)
}

func (r *Recorder) OnResponse(_ context.Context, method, route string, status, _ int, _ time.Duration) {
	r.add("http.response %s %s %d", method, route, status)
}
