package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	recalculations *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	currencyScore  *prometheus.GaugeVec
	latency        *prometheus.HistogramVec
}

var (
	defaultOnce     sync.Once
	defaultRecorder *Recorder
)

// New returns the process-wide recorder registered on the default registry.
func New() *Recorder {
	defaultOnce.Do(func() {
		defaultRecorder = NewWithRegisterer(prometheus.DefaultRegisterer)
	})
	return defaultRecorder
}

// NewWithRegisterer registers a fresh set of collectors on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		recalculations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fxscore_recalculations_total",
				Help: "Total number of scoring runs by detected regime",
			},
			[]string{"regime"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fxscore_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		currencyScore: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fxscore_currency_total_score",
				Help: "Latest composite total score for a currency",
			},
			[]string{"currency"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fxscore_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"operation"},
		),
	}
}

// RecordRecalculation counts a completed scoring run.
func (r *Recorder) RecordRecalculation(regime string) {
	r.recalculations.WithLabelValues(regime).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

func (r *Recorder) RecordCurrencyScore(currency string, total float64) {
	r.currencyScore.WithLabelValues(currency).Set(total)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// Nop discards everything. Used by the CLI and tests.
type Nop struct{}

func (Nop) RecordRecalculation(string)          {}
func (Nop) RecordError(string)                  {}
func (Nop) RecordCurrencyScore(string, float64) {}
func (Nop) RecordLatency(string, float64)       {}
