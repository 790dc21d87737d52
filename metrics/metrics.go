// Package metrics exposes playground activity as Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all codehub metrics on its own registry.
type Collector struct {
	Registry *prometheus.Registry

	RunsTotal    *prometheus.CounterVec
	RunDuration  *prometheus.HistogramVec
	InputPrompts *prometheus.CounterVec
	ActiveRuns   prometheus.Gauge

	SharesTotal    *prometheus.CounterVec
	DownloadsTotal *prometheus.CounterVec

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates a Collector with every metric registered.
func New() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		Registry: reg,

		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "codehub",
			Name:      "runs_total",
			Help:      "Total mock runs by outcome.",
		}, []string{"language", "status"}),

		RunDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "codehub",
			Name:      "run_duration_seconds",
			Help:      "Mock run duration in seconds, including time spent waiting for input.",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 2, 5, 10, 30, 60, 300},
		}, []string{"language"}),

		InputPrompts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "codehub",
			Name:      "input_prompts_total",
			Help:      "Total input prompts issued by runs.",
		}, []string{"language"}),

		ActiveRuns: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "codehub",
			Name:      "active_runs",
			Help:      "Number of interactive runs currently held by the server.",
		}),

		SharesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "codehub",
			Name:      "shares_total",
			Help:      "Total share link encodes and decodes.",
		}, []string{"op", "status"}),

		DownloadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "codehub",
			Name:      "downloads_total",
			Help:      "Total code downloads.",
		}, []string{"language"}),

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "codehub",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		}, []string{"method", "route", "status_code"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "codehub",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		c.RunsTotal,
		c.RunDuration,
		c.InputPrompts,
		c.ActiveRuns,
		c.SharesTotal,
		c.DownloadsTotal,
		c.HTTPRequestsTotal,
		c.HTTPRequestDuration,
	)

	return c
}

// RunFinished implements executor.Observer.
func (c *Collector) RunFinished(language, status string, d time.Duration) {
	c.RunsTotal.WithLabelValues(language, status).Inc()
	c.RunDuration.WithLabelValues(language).Observe(d.Seconds())
}

// PromptIssued implements executor.Observer.
func (c *Collector) PromptIssued(language string) {
	c.InputPrompts.WithLabelValues(language).Inc()
}

// Shared records a share encode or decode. op is "encode" or "decode".
func (c *Collector) Shared(op string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.SharesTotal.WithLabelValues(op, status).Inc()
}

func (c *Collector) Downloaded(language string) {
	c.DownloadsTotal.WithLabelValues(language).Inc()
}

// ObserveHTTP records one served request. route is the route template, not
// the raw path, to keep label cardinality bounded.
func (c *Collector) ObserveHTTP(method, route string, status int, d time.Duration) {
	c.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{})
}
