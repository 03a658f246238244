// Package observability lets izzi libraries report layout, render, cache
// and HTTP events without depending on a metrics backend.
//
// Every emitter looks up the current hooks at the call site, so a process
// can install real hooks once at startup:
//
//	h := prom.New(prometheus.NewRegistry())
//	observability.SetPipelineHooks(h)
//	observability.SetCacheHooks(h)
//	observability.SetServerHooks(h)
//
// Until then every event goes to a no-op implementation.
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// LayoutStats summarizes one computed layout.
type LayoutStats struct {
	Placements int
	Promoted   int
	Elided     int
}

// PipelineHooks receives one start and one complete event per layout and
// per render. Complete events carry the error, if any.
type PipelineHooks interface {
	OnLayoutStart(ctx context.Context, ids int)
	OnLayoutComplete(ctx context.Context, stats LayoutStats, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives cache lookups and stores. keyType is "layout" or
// "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// ServerHooks receives HTTP traffic. OnRequest sees the raw path before
// routing, OnResponse sees the matched route pattern.
type ServerHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, route string, status, size int, duration time.Duration)
}

// NoopPipelineHooks discards pipeline events.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLayoutStart(context.Context, int)                                  {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, LayoutStats, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                             {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)    {}

// NoopCacheHooks discards cache events.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopServerHooks discards server events.
type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string)                           {}
func (NoopServerHooks) OnResponse(context.Context, string, string, int, int, time.Duration) {}

// hookSet is swapped as a whole so readers never see a partial update.
type hookSet struct {
	pipeline PipelineHooks
	cache    CacheHooks
	server   ServerHooks
}

func defaults() *hookSet {
	return &hookSet{NoopPipelineHooks{}, NoopCacheHooks{}, NoopServerHooks{}}
}

var current atomic.Pointer[hookSet]

func init() { current.Store(defaults()) }

// update applies fn to a copy of the current set and installs it.
func update(fn func(*hookSet)) {
	for {
		old := current.Load()
		next := *old
		fn(&next)
		if current.CompareAndSwap(old, &next) {
			return
		}
	}
}

// SetPipelineHooks installs h for pipeline events. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		update(func(s *hookSet) { s.pipeline = h })
	}
}

// SetCacheHooks installs h for cache events. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(s *hookSet) { s.cache = h })
	}
}

// SetServerHooks installs h for HTTP events. A nil h is ignored.
func SetServerHooks(h ServerHooks) {
	if h != nil {
		update(func(s *hookSet) { s.server = h })
	}
}

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks { return current.Load().pipeline }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return current.Load().cache }

// Server returns the installed server hooks.
func Server() ServerHooks { return current.Load().server }

// Reset reinstalls the no-op hooks.
func Reset() { current.Store(defaults()) }
