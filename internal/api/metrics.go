package api

import (
	"time"
	"worldstats/internal/view"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics counts dispatched actions and times their recomputation.
type Metrics struct {
	registry *prometheus.Registry
	actions  *prometheus.CounterVec
	dispatch *prometheus.HistogramVec
	ready    prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "worldstats_actions_total",
			Help: "View actions dispatched, by action and outcome.",
		}, []string{"action", "outcome"}),
		dispatch: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "worldstats_dispatch_seconds",
			Help:    "Time to apply an action and recompute its views.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"scope"}),
		ready: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "worldstats_dataset_ready",
			Help: "1 once the dataset is loaded.",
		}),
	}
	m.registry.MustRegister(m.actions, m.dispatch, m.ready,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Dispatched(action string, scope view.Scope, took time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "rejected"
	}
	m.actions.WithLabelValues(action, outcome).Inc()
	if err == nil {
		m.dispatch.WithLabelValues(scope.String()).Observe(took.Seconds())
	}
}

func (m *Metrics) SetReady() { m.ready.Set(1) }

func (m *Metrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
