// Package metrics exposes pipeline run counters to Prometheus.
//
// A nil *Recorder is valid and records nothing.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Recorder struct {
	reg *prometheus.Registry

	runs     *prometheus.CounterVec   // datawash_runs_total
	failures *prometheus.CounterVec   // datawash_failures_total
	duration *prometheus.HistogramVec // datawash_run_duration_seconds
	rows     *prometheus.GaugeVec     // datawash_output_rows
	skewed   *prometheus.CounterVec   // datawash_skew_corrections_total
}

func New() (*Recorder, error) {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		reg: reg,
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "datawash_runs_total",
			Help: "Pipeline runs partitioned by dataset and status.",
		}, []string{"dataset", "status"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "datawash_failures_total",
			Help: "Failed runs partitioned by dataset, stage and failure kind.",
		}, []string{"dataset", "stage", "failure"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "datawash_run_duration_seconds",
			Help:    "Wall time of pipeline runs.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}, []string{"dataset"}),
		rows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "datawash_output_rows",
			Help: "Rows persisted by the latest successful run.",
		}, []string{"dataset"}),
		skewed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "datawash_skew_corrections_total",
			Help: "Columns log1p-transformed by the skew corrector.",
		}, []string{"dataset", "column"}),
	}
	for _, c := range []prometheus.Collector{r.runs, r.failures, r.duration, r.rows, r.skewed} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("metrics: register: %w", err)
		}
	}
	return r, nil
}

// Succeeded records a persisted run.
func (r *Recorder) Succeeded(dataset string, d time.Duration, rows int) {
	if r == nil {
		return
	}
	r.runs.WithLabelValues(dataset, "ok").Inc()
	r.duration.WithLabelValues(dataset).Observe(d.Seconds())
	r.rows.WithLabelValues(dataset).Set(float64(rows))
}

// Failed records a run that stopped at stage.
func (r *Recorder) Failed(dataset, stage, failure string, d time.Duration) {
	if r == nil {
		return
	}
	r.runs.WithLabelValues(dataset, "failed").Inc()
	r.failures.WithLabelValues(dataset, stage, failure).Inc()
	r.duration.WithLabelValues(dataset).Observe(d.Seconds())
}

func (r *Recorder) SkewCorrected(dataset, column string) {
	if r == nil {
		return
	}
	r.skewed.WithLabelValues(dataset, column).Inc()
}

// Handler serves the recorder's registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
