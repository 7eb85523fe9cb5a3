package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	runsTotal     *prometheus.CounterVec
	eventsTotal   *prometheus.CounterVec
	fetchErrors   *prometheus.CounterVec
	currencyScore *prometheus.GaugeVec
	latency       *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		runsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundpull_runs_total",
				Help: "Total engine runs by trigger and result",
			},
			[]string{"trigger", "result"},
		),
		eventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundpull_calendar_events_total",
				Help: "Calendar events processed by provider and kind",
			},
			[]string{"provider", "kind"},
		),
		fetchErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundpull_fetch_errors_total",
				Help: "Upstream fetch failures by source",
			},
			[]string{"source"},
		),
		currencyScore: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fundpull_currency_score",
				Help: "Latest smoothed total score per currency",
			},
			[]string{"currency"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fundpull_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordRun records one engine run outcome.
func (r *Recorder) RecordRun(trigger, result string) {
	r.runsTotal.WithLabelValues(trigger, result).Inc()
}

// RecordEvents records processed calendar events.
func (r *Recorder) RecordEvents(provider, kind string, n int) {
	if n <= 0 {
		return
	}
	r.eventsTotal.WithLabelValues(provider, kind).Add(float64(n))
}

// RecordFetchError records an upstream fetch failure.
func (r *Recorder) RecordFetchError(source string) {
	r.fetchErrors.WithLabelValues(source).Inc()
}

// RecordCurrencyScore records the smoothed total for a currency.
func (r *Recorder) RecordCurrencyScore(currency string, score float64) {
	r.currencyScore.WithLabelValues(currency).Set(score)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
