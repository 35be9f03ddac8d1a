// Package metrics implements the built-in "metrics" feature plugin
// (SPEC_FULL.md §6): a Prometheus middleware plus a /metrics scrape route
// for the emitted project. Grounded on
// 2lar-b2/backend/internal/infrastructure/observability/metrics.go's
// Collector (a per-namespace prometheus.Registry holding a CounterVec +
// HistogramVec for HTTP requests/duration), generalized here from the
// teacher's fixed node/edge/cache business counters to the generic
// per-route counters a schema-driven generator can actually predict ahead
// of time.
package metrics

import (
	"context"

	"github.com/schemagen/schemagen/pkg/filemap"
	"github.com/schemagen/schemagen/pkg/plugin"
)

// Plugin is the metrics feature plugin.
type Plugin struct {
	plugin.Base
}

// New returns a metrics Plugin.
func New() *Plugin {
	return &Plugin{Base: plugin.Base{IDValue: "metrics", VersionValue: "0.1.0", PriorityValue: 20}}
}

func init() {
	if err := plugin.RegisterGlobal(New()); err != nil {
		panic(err)
	}
}

func (p *Plugin) Requirements() plugin.Requirements { return plugin.Requirements{} }

func (p *Plugin) Validate(_ context.Context, _ plugin.RequestContext) (plugin.ValidateResult, error) {
	return plugin.ValidateResult{}, nil
}

func (p *Plugin) Generate(_ context.Context, rc plugin.RequestContext) (plugin.Output, error) {
	namespace, _ := rc.Config["namespace"].(string)
	if namespace == "" {
		namespace = "schemagen"
	}

	return plugin.Output{
		Files: []filemap.GeneratedFile{{
			Path:     "gen/metrics/collector.go",
			Contents: renderCollector(namespace),
			Category: "plugin:metrics",
		}, {
			Path:     "gen/metrics/middleware.go",
			Contents: renderMiddleware(),
			Category: "plugin:metrics",
		}},
		Routes: []plugin.RouteSpec{
			{Method: "GET", Path: "/metrics", HandlerName: "metrics.Handler"},
		},
		Middleware: []plugin.MiddlewareSpec{{Name: "metrics.Instrument", Order: 10}},
	}, nil
}

func (p *Plugin) HealthCheck(_ context.Context, _ plugin.RequestContext) (plugin.HealthSection, bool) {
	return plugin.HealthSection{Name: "metrics", Status: "ok"}, true
}

func renderCollector(namespace string) string {
	return `package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
)

var (
	registry *prometheus.Registry
	once     sync.Once

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
)

// ensureRegistry lazily builds the registry and metric vectors on the first
// call from Handler or Instrument; the sync.Once guard keeps the vectors
// from being registered twice.
func ensureRegistry() {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		HTTPRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "` + namespace + `",
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests, labeled by method, route, and status.",
			},
			[]string{"method", "route", "status"},
		)
		HTTPDuration = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "` + namespace + `",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds, labeled by method and route.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		)

		registry.MustRegister(HTTPRequests, HTTPDuration)
	})
}

// Handler serves the Prometheus text exposition format for registry.
func Handler() http.Handler {
	ensureRegistry()
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
`
}

func renderMiddleware() string {
	return `package metrics

import (
	"fmt"
	"net/http"
	"time"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Instrument records request count and latency for every request, keyed
// by method, request path (r.URL.Path), and response status.
func Instrument(next http.Handler) http.Handler {
	ensureRegistry()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		HTTPRequests.WithLabelValues(r.Method, route, fmt.Sprintf("%d", rec.status)).Inc()
		HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
`
}
