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

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	RiskAssessments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "risk_assessments_total",
			Help: "Completed risk assessments by recommendation and AI reply parse outcome",
		},
		[]string{"recommendation", "parse_outcome"},
	)

	RiskFinalScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "risk_final_score",
			Help:    "Distribution of fused risk scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "risk_llm_request_duration_seconds",
			Help: "Latency of text-completion requests",
		},
		[]string{"provider", "status"},
	)

	LLMCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "risk_llm_cache_lookups_total",
			Help: "Completion cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)
)
