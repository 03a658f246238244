// Package prom implements the observability hooks with Prometheus metrics.
package prom

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bdekoz/izzi/pkg/observability"
)

// Hooks records pipeline, cache and server events as Prometheus metrics.
type Hooks struct {
	LayoutsTotal      *prometheus.CounterVec
	LayoutDuration    prometheus.Histogram
	PlacementsTotal   prometheus.Counter
	PromotedTotal     prometheus.Counter
	RendersTotal      *prometheus.CounterVec
	RenderDuration    *prometheus.HistogramVec
	CacheEventsTotal  *prometheus.CounterVec
	CacheWrittenBytes *prometheus.CounterVec

	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPRequestsInFlight  prometheus.Gauge
	HTTPResponseSizeBytes *prometheus.HistogramVec
}

// New registers the izzi metrics on reg.
func New(reg prometheus.Registerer) *Hooks {
	f := promauto.With(reg)
	return &Hooks{
		LayoutsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "izzi_layouts_total",
				Help: "Layouts computed, by outcome",
			},
			[]string{"status"},
		),
		LayoutDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "izzi_layout_duration_seconds",
				Help:    "Layout computation latency in seconds",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
			},
		),
		PlacementsTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "izzi_placements_total",
				Help: "Identifiers placed across all layouts",
			},
		),
		PromotedTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "izzi_promoted_total",
				Help: "Identifiers moved to the high orbit across all layouts",
			},
		),
		RendersTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "izzi_renders_total",
				Help: "Render runs, by formats and outcome",
			},
			[]string{"formats", "status"},
		),
		RenderDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "izzi_render_duration_seconds",
				Help:    "Render latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"formats"},
		),
		CacheEventsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "izzi_cache_events_total",
				Help: "Cache lookups and writes, by key type and event",
			},
			[]string{"type", "event"},
		),
		CacheWrittenBytes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "izzi_cache_written_bytes_total",
				Help: "Bytes written to the cache, by key type",
			},
			[]string{"type"},
		),
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "izzi_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "izzi_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "izzi_http_requests_in_flight",
				Help: "Current number of HTTP requests being processed",
			},
		),
		HTTPResponseSizeBytes: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "izzi_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "route"},
		),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (h *Hooks) OnLayoutStart(context.Context, int) {}

func (h *Hooks) OnLayoutComplete(_ context.Context, stats observability.LayoutStats, d time.Duration, err error) {
	h.LayoutsTotal.WithLabelValues(status(err)).Inc()
	if err != nil {
		return
	}
	h.LayoutDuration.Observe(d.Seconds())
	h.PlacementsTotal.Add(float64(stats.Placements))
	h.PromotedTotal.Add(float64(stats.Promoted))
}

func (h *Hooks) OnRenderStart(context.Context, []string) {}

func (h *Hooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	f := strings.Join(formats, ",")
	h.RendersTotal.WithLabelValues(f, status(err)).Inc()
	h.RenderDuration.WithLabelValues(f).Observe(d.Seconds())
}

func (h *Hooks) OnCacheHit(_ context.Context, keyType string) {
	h.CacheEventsTotal.WithLabelValues(keyType, "hit").Inc()
}

func (h *Hooks) OnCacheMiss(_ context.Context, keyType string) {
	h.CacheEventsTotal.WithLabelValues(keyType, "miss").Inc()
}

func (h *Hooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.CacheEventsTotal.WithLabelValues(keyType, "set").Inc()
	h.CacheWrittenBytes.WithLabelValues(keyType).Add(float64(size))
}

func (h *Hooks) OnRequest(context.Context, string, string) {
	h.HTTPRequestsInFlight.Inc()
}

func (h *Hooks) OnResponse(_ context.Context, method, route string, code, size int, d time.Duration) {
	h.HTTPRequestsInFlight.Dec()
	s := strconv.Itoa(code)
	h.HTTPRequestsTotal.WithLabelValues(method, route, s).Inc()
	h.HTTPRequestDuration.WithLabelValues(method, route, s).Observe(d.Seconds())
	h.HTTPResponseSizeBytes.WithLabelValues(method, route).Observe(float64(size))
}

var (
	_ observability.PipelineHooks = (*Hooks)(nil)
	_ observability.CacheHooks    = (*Hooks)(nil)
	_ observability.ServerHooks   = (*Hooks)(nil)
)
