// Package metrics records pipeline stage timings and row counts with
// Prometheus collectors and pushes them to a Pushgateway at the end of a run.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"SalaryPrep/internal/domain"
	"SalaryPrep/internal/ports"
	"SalaryPrep/internal/prep"
)

// Recorder holds the Prometheus collectors of a pipeline process.
type Recorder struct {
	registry *prometheus.Registry
	pusher   *push.Pusher

	StageDuration  *prometheus.HistogramVec
	Records        *prometheus.GaugeVec
	Categories     *prometheus.GaugeVec
	RunsTotal      *prometheus.CounterVec
	RunDuration    prometheus.Gauge
	LastSuccessful prometheus.Gauge
}

var _ ports.Metrics = (*Recorder)(nil)

// New creates and registers the collectors on a private registry. An empty
// pushgatewayURL disables Push.
func New(pushgatewayURL, job string) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		StageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "salaryprep_stage_duration_seconds",
				Help:    "Duration of each preparation stage in seconds.",
				Buckets: []float64{0.0001, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"stage"},
		),
		Records: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "salaryprep_records",
				Help: "Row counts of the last successful run by kind (cleaned, dropped_missing, imputed_missing, train, test).",
			},
			[]string{"kind"},
		),
		Categories: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "salaryprep_distinct_categories",
				Help: "Distinct values per encoded column in the last successful run.",
			},
			[]string{"column"},
		),
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "salaryprep_runs_total",
				Help: "Pipeline runs by status and failing stage.",
			},
			[]string{"status", "stage"},
		),
		RunDuration: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "salaryprep_run_duration_seconds",
				Help: "Wall time of the last successful run.",
			},
		),
		LastSuccessful: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "salaryprep_last_success_timestamp_seconds",
				Help: "Unix time of the last successful run.",
			},
		),
	}

	r.registry.MustRegister(
		r.StageDuration,
		r.Records,
		r.Categories,
		r.RunsTotal,
		r.RunDuration,
		r.LastSuccessful,
	)

	if pushgatewayURL != "" {
		if job == "" {
			job = "salaryprep"
		}
		r.pusher = push.New(pushgatewayURL, job).Gatherer(r.registry)
	}
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveStage records the duration of a completed stage.
func (r *Recorder) ObserveStage(stage string, elapsed time.Duration) {
	r.StageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
}

// RunFinished records the outcome of a successful run.
func (r *Recorder) RunFinished(run domain.Run, art *prep.Artifacts, elapsed time.Duration) {
	r.Records.WithLabelValues("cleaned").Set(float64(len(art.Records)))
	r.Records.WithLabelValues("dropped_missing").Set(float64(art.Missing.Dropped))
	r.Records.WithLabelValues("imputed_missing").Set(float64(art.Missing.Imputed))
	r.Records.WithLabelValues("train").Set(float64(len(art.Split.Train)))
	r.Records.WithLabelValues("test").Set(float64(len(art.Split.Test)))
	r.Categories.WithLabelValues("job_title").Set(float64(art.JobTitles.Len()))
	r.Categories.WithLabelValues("experience_level").Set(float64(len(art.ExperienceMapping)))
	r.RunsTotal.WithLabelValues("success", "").Inc()
	r.RunDuration.Set(elapsed.Seconds())
	r.LastSuccessful.Set(float64(run.StartedAt.Add(elapsed).Unix()))
}

// RunFailed counts a failed run against its stage.
func (r *Recorder) RunFailed(stage string) {
	r.RunsTotal.WithLabelValues("failure", stage).Inc()
}

// Push sends the collected metrics to the Pushgateway, if configured.
func (r *Recorder) Push(ctx context.Context) error {
	if r.pusher == nil {
		return nil
	}
	if err := r.pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
