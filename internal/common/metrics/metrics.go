// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	AssessmentsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eligibility_assessments_total",
			Help: "Total number of eligibility assessments by decision and risk level",
		},
		[]string{"decision", "risk_level"},
	)

	ModelProbability = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "eligibility_model_probability",
			Help:    "Distribution of classifier eligibility probabilities",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)
)
