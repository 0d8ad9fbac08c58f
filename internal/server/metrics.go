package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics are registered per service so tests can build many services.
type metrics struct {
	requests       *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	mutations      *prometheus.CounterVec
	projectionTime prometheus.Histogram
	subscribers    prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goalfund_http_requests_total",
				Help: "HTTP requests served",
			},
			[]string{"method", "route", "status"},
		),
		requestLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "goalfund_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
			},
			[]string{"route"},
		),
		mutations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goalfund_plan_mutations_total",
				Help: "Plan mutations by operation and outcome",
			},
			[]string{"op", "result"},
		),
		projectionTime: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "goalfund_projection_duration_seconds",
				Help:    "Time spent projecting the plan",
				Buckets: prometheus.ExponentialBuckets(0.00001, 2, 12), // 10us to ~20ms
			},
		),
		subscribers: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "goalfund_stream_subscribers",
				Help: "Open event stream connections",
			},
		),
	}
}
