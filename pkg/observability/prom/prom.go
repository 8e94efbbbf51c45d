// Package prom implements the observability hooks on top of Prometheus.
//
// Metrics are registered against the Registerer passed to [New], which lets
// tests use an isolated registry while the server uses the default one:
//
//	m := prom.New(prometheus.DefaultRegisterer)
//	observability.SetPlacementHooks(m)
//	observability.SetStoreHooks(m)
//	observability.SetHTTPHooks(m)
package prom

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/myseum/pkg/observability"
)

const namespace = "myseum"

// Metrics collects placement, persistence and HTTP metrics.
type Metrics struct {
	// Interactions counts begun interactions.
	// Labels: mode (move|resize)
	Interactions *prometheus.CounterVec

	// Candidates counts candidate updates by outcome.
	// Labels: mode, state (valid|invalid)
	Candidates *prometheus.CounterVec

	// Commits counts commit attempts.
	// Labels: mode, status (success|error)
	Commits *prometheus.CounterVec

	// InteractionDuration measures the time from begin to commit in seconds.
	// Labels: mode
	InteractionDuration *prometheus.HistogramVec

	// Cancels counts cancelled interactions.
	// Labels: mode
	Cancels *prometheus.CounterVec

	// Mutations counts direct arrangement mutations.
	// Labels: op (add|place|remove), status
	Mutations *prometheus.CounterVec

	// GridGrowth counts automatic height increases.
	GridGrowth prometheus.Counter

	// StoreDuration measures persistence latency in seconds.
	// Labels: backend, operation (load|save), status
	StoreDuration *prometheus.HistogramVec

	// FlushRetries counts retried asynchronous flushes.
	FlushRetries prometheus.Counter

	// HTTPRequestDuration measures API latency in seconds.
	// Labels: method, route, status_code
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPInFlight is the number of requests currently being served.
	HTTPInFlight prometheus.Gauge
}

var (
	_ observability.PlacementHooks = (*Metrics)(nil)
	_ observability.StoreHooks     = (*Metrics)(nil)
	_ observability.HTTPHooks      = (*Metrics)(nil)
)

// New creates all metrics and registers them with reg.
// It panics if any metric is already registered with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Interactions: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "interactions_total",
				Help:      "Total number of move and resize interactions begun",
			},
			[]string{"mode"},
		),
		Candidates: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "candidates_total",
				Help:      "Total number of candidate updates by resulting state",
			},
			[]string{"mode", "state"},
		),
		Commits: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "commits_total",
				Help:      "Total number of commit attempts by status",
			},
			[]string{"mode", "status"},
		),
		InteractionDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "interaction_duration_seconds",
				Help:      "Time from begin to successful commit in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"mode"},
		),
		Cancels: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cancels_total",
				Help:      "Total number of cancelled interactions",
			},
			[]string{"mode"},
		),
		Mutations: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mutations_total",
				Help:      "Total number of add, place and remove operations by status",
			},
			[]string{"op", "status"},
		),
		GridGrowth: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "grid_growth_total",
				Help:      "Total number of automatic grid height increases",
			},
		),
		StoreDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "store_duration_seconds",
				Help:      "Duration of persistence operations in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"backend", "operation", "status"},
		),
		FlushRetries: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "flush_retries_total",
				Help:      "Total number of retried asynchronous flushes",
			},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP API requests in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"method", "route", "status_code"},
		),
		HTTPInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Number of HTTP requests currently being served",
			},
		),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// OnBegin implements observability.PlacementHooks.
func (m *Metrics) OnBegin(mode string) {
	m.Interactions.WithLabelValues(mode).Inc()
}

// OnCandidate implements observability.PlacementHooks.
func (m *Metrics) OnCandidate(mode string, valid bool, _ int) {
	state := "invalid"
	if valid {
		state = "valid"
	}
	m.Candidates.WithLabelValues(mode, state).Inc()
}

// OnCommit implements observability.PlacementHooks.
func (m *Metrics) OnCommit(mode string, elapsed time.Duration, err error) {
	m.Commits.WithLabelValues(mode, status(err)).Inc()
	if err == nil {
		m.InteractionDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
	}
}

// OnCancel implements observability.PlacementHooks.
func (m *Metrics) OnCancel(mode string) {
	m.Cancels.WithLabelValues(mode).Inc()
}

// OnMutation implements observability.PlacementHooks.
func (m *Metrics) OnMutation(op string, err error) {
	m.Mutations.WithLabelValues(op, status(err)).Inc()
}

// OnGrow implements observability.PlacementHooks.
func (m *Metrics) OnGrow(int, int) {
	m.GridGrowth.Inc()
}

// OnLoad implements observability.StoreHooks.
func (m *Metrics) OnLoad(_ context.Context, backend string, d time.Duration, err error) {
	m.StoreDuration.WithLabelValues(backend, "load", status(err)).Observe(d.Seconds())
}

// OnSave implements observability.StoreHooks.
func (m *Metrics) OnSave(_ context.Context, backend string, d time.Duration, err error) {
	m.StoreDuration.WithLabelValues(backend, "save", status(err)).Observe(d.Seconds())
}

// OnFlushRetry implements observability.StoreHooks.
func (m *Metrics) OnFlushRetry(context.Context, string, int, error) {
	m.FlushRetries.Inc()
}

// OnRequest implements observability.HTTPHooks.
func (m *Metrics) OnRequest(context.Context, string, string) {
	m.HTTPInFlight.Inc()
}

// OnResponse implements observability.HTTPHooks.
func (m *Metrics) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	m.HTTPInFlight.Dec()
	m.HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(code)).Observe(d.Seconds())
}
