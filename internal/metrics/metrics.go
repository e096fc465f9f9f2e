// ============================================================================
// Anvil Metrics - Prometheus Monitoring
// ============================================================================
//
// Package: internal/metrics
// File: metrics.go
// Purpose: Collect and expose system metrics for Prometheus monitoring
//
// Monitoring Philosophy:
//   Based on RED (Rate, Errors, Duration) and USE (Utilization, Saturation, Errors)
//   Provides comprehensive system observability
//
// Metric Categories (every name below is exported with the anvil_ prefix,
// e.g. anvil_jobs_created_total):
//
//   1. Job Counters - Cumulative, monotonically increasing:
//      - jobs_created_total: Total jobs submitted to the coordinator
//      - jobs_completed_total: Total jobs that reached COMPLETE
//      - jobs_cancelled_total: Total jobs that reached CANCELLED
//      - jobs_failed_total: Total jobs cancelled due to execution failure
//
//   2. Performance Metrics (Histogram) - Distribution stats:
//      - task_dispatch_latency_seconds: time between task enqueue and pickup
//        * Buckets: 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10
//
//   3. Status Metrics (Gauge) - Instantaneous values:
//      - jobs_running: Current jobs in RUNNING state
//      - tasks_outstanding: Current tasks dispatched but not yet resulted
//
//   4. Worker and cache counters:
//      - worker_idle_seconds_total: Cumulative time workers spent idle-polling
//      - class_cache_hits_total / class_cache_misses_total: worker-side LRU
//        executor cache hit rate
//
// Prometheus Query Examples:
//
//   # Jobs per minute
//   rate(anvil_jobs_completed_total[1m])
//
//   # 95th percentile task dispatch latency
//   histogram_quantile(0.95, anvil_task_dispatch_latency_seconds_bucket)
//
//   # Job failure rate
//   rate(anvil_jobs_failed_total[5m]) / rate(anvil_jobs_created_total[5m])
//
// HTTP Endpoint:
//   Exposed via /metrics endpoint, scraped by Prometheus.
//
// ============================================================================

package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds every Prometheus metric Anvil exposes. Fields are
// exported prometheus types directly (Counter/Gauge/Histogram already
// provide safe concurrent Inc/Dec/Observe), matching the teacher's
// preference for direct metric objects over a wrapper method per metric.
type Collector struct {
	JobsCreated   prometheus.Counter
	JobsRunning   prometheus.Gauge
	JobsCompleted prometheus.Counter
	JobsCancelled prometheus.Counter
	JobsFailed    prometheus.Counter

	TaskDispatchLatency prometheus.Histogram
	TasksOutstanding    prometheus.Gauge

	WorkerIdleSeconds prometheus.Counter
	ClassCacheHits    prometheus.Counter
	ClassCacheMisses  prometheus.Counter
}

// NewCollector builds and registers every Anvil metric against the default
// Prometheus registry.
func NewCollector() *Collector {
	c := &Collector{
		JobsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "anvil_jobs_created_total",
			Help: "Total number of jobs submitted to the coordinator",
		}),
		JobsRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "anvil_jobs_running",
			Help: "Current number of jobs in RUNNING state",
		}),
		JobsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "anvil_jobs_completed_total",
			Help: "Total number of jobs that reached COMPLETE",
		}),
		JobsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "anvil_jobs_cancelled_total",
			Help: "Total number of jobs that reached CANCELLED",
		}),
		JobsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "anvil_jobs_failed_total",
			Help: "Total number of jobs cancelled due to execution failure",
		}),
		TaskDispatchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "anvil_task_dispatch_latency_seconds",
			Help:    "Time between a task's enqueue and its pickup by a worker",
			Buckets: prometheus.DefBuckets,
		}),
		TasksOutstanding: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "anvil_tasks_outstanding",
			Help: "Current number of tasks dispatched but not yet resulted",
		}),
		WorkerIdleSeconds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "anvil_worker_idle_seconds_total",
			Help: "Cumulative seconds the worker fleet spent idle-polling",
		}),
		ClassCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "anvil_class_cache_hits_total",
			Help: "Worker-side task executor LRU cache hits",
		}),
		ClassCacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "anvil_class_cache_misses_total",
			Help: "Worker-side task executor LRU cache misses",
		}),
	}

	prometheus.MustRegister(
		c.JobsCreated, c.JobsRunning, c.JobsCompleted, c.JobsCancelled, c.JobsFailed,
		c.TaskDispatchLatency, c.TasksOutstanding,
		c.WorkerIdleSeconds, c.ClassCacheHits, c.ClassCacheMisses,
	)
	return c
}

// StartServer serves /metrics on the given port until the process exits or
// the HTTP server errors.
func StartServer(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	addr := fmt.Sprintf(":%d", port)
	return http.ListenAndServe(addr, mux)
}
