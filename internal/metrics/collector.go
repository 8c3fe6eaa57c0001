// Package metrics exposes list, form and HTTP figures to Prometheus on a
// private registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"fleetdesk/internal/form"
	"fleetdesk/internal/listing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fleetdesk"

// Collector implements listing.Observer and form.Observer.
type Collector struct {
	registry *prometheus.Registry

	ListFetches         *prometheus.CounterVec
	ListFetchDuration   *prometheus.HistogramVec
	RecordSaves         *prometheus.CounterVec
	RecordSaveDuration  *prometheus.HistogramVec
	ActiveSessions      prometheus.Gauge
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

func New() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		ListFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "list_fetches_total",
			Help:      "Completed list fetches by resource and outcome.",
		}, []string{"resource", "outcome"}),
		ListFetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "list_fetch_duration_seconds",
			Help:      "Backend round trip of list fetches.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"resource"}),
		RecordSaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "record_saves_total",
			Help:      "Form saves by resource and outcome.",
		}, []string{"resource", "outcome"}),
		RecordSaveDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "record_save_duration_seconds",
			Help:      "Duration of form saves, validation included.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"resource"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "list_sessions_active",
			Help:      "Open list view sessions.",
		}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status_code"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(
		c.ListFetches, c.ListFetchDuration,
		c.RecordSaves, c.RecordSaveDuration,
		c.ActiveSessions,
		c.HTTPRequestsTotal, c.HTTPRequestDuration,
	)
	return c
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) FetchCompleted(resource string, outcome listing.Outcome, took time.Duration) {
	c.ListFetches.WithLabelValues(resource, string(outcome)).Inc()
	if outcome != listing.OutcomeStale {
		c.ListFetchDuration.WithLabelValues(resource).Observe(took.Seconds())
	}
}

func (c *Collector) SaveCompleted(resource string, outcome form.Outcome, took time.Duration) {
	c.RecordSaves.WithLabelValues(resource, string(outcome)).Inc()
	c.RecordSaveDuration.WithLabelValues(resource).Observe(took.Seconds())
}

func (c *Collector) SetActiveSessions(n int) {
	c.ActiveSessions.Set(float64(n))
}

// Middleware records every request under its chi route pattern.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		c.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		c.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
