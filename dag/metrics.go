package dag

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetrics provides Prometheus-compatible metrics collection for
// executor runs in production environments.
//
// Metrics exposed (all namespaced with "taskgraph_"):
//
//  1. inflight_workers (gauge): workers submitted and not yet consumed by
//     the driver loop. Use: monitor concurrency and detect stalls.
//
//  2. queue_depth (gauge): submitted workers waiting for a pool goroutine.
//     Use: detect pool saturation and tune pool size.
//
//  3. task_latency_ms (histogram): worker execution duration in
//     milliseconds. Labels: run_id, status (success/error).
//     Use: P50/P95/P99 latency analysis.
//
//  4. submissions_total (counter): workers handed to the pool.
//     Labels: run_id.
//
//  5. failures_total (counter): failed task outcomes.
//     Labels: run_id, kind (first/drained/panic).
//     Use: distinguish the reported failure from absorbed ones.
//
//  6. poll_timeouts_total (counter): bounded completion waits that elapsed
//     with nothing to consume. Labels: run_id.
//     Use: spot long-running workers and tune the poll interval.
//
// Usage:
//
//	registry := prometheus.NewRegistry()
//	metrics := dag.NewPrometheusMetrics(registry)
//	exec, err := dag.NewExecutor(g, factory, dag.WithMetrics(metrics))
//
//	// Expose via HTTP for Prometheus scraping:
//	http.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
//
// Thread-safe: gauge/counter updates go through prometheus primitives; the
// enabled flag is mutex-protected.
type PrometheusMetrics struct {
	inflightWorkers prometheus.Gauge
	queueDepth      prometheus.Gauge

	taskLatency *prometheus.HistogramVec

	submissions  *prometheus.CounterVec
	failures     *prometheus.CounterVec
	pollTimeouts *prometheus.CounterVec

	registry prometheus.Registerer

	mu      sync.RWMutex
	enabled bool
}

// NewPrometheusMetrics creates and registers all executor metrics with the
// provided Prometheus registry.
//
// Parameters:
//   - registry: registry to register with (nil uses prometheus.DefaultRegisterer).
//
// Histogram buckets are sized for typical task durations (1ms to 10s).
func NewPrometheusMetrics(registry prometheus.Registerer) *PrometheusMetrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(registry)

	pm := &PrometheusMetrics{
		registry: registry,
		enabled:  true,
	}

	pm.inflightWorkers = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: "taskgraph",
		Name:      "inflight_workers",
		Help:      "Workers submitted to the pool whose completions have not been consumed",
	})

	pm.queueDepth = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: "taskgraph",
		Name:      "queue_depth",
		Help:      "Submitted workers waiting for a free pool goroutine",
	})

	pm.taskLatency = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "taskgraph",
		Name:      "task_latency_ms",
		Help:      "Worker execution duration in milliseconds",
		Buckets:   []float64{1, 5, 10, 50, 100, 500, 1000, 5000, 10000},
	}, []string{"run_id", "status"}) // status: success, error

	pm.submissions = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "taskgraph",
		Name:      "submissions_total",
		Help:      "Cumulative count of workers handed to the pool",
	}, []string{"run_id"})

	pm.failures = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "taskgraph",
		Name:      "failures_total",
		Help:      "Failed task outcomes by kind",
	}, []string{"run_id", "kind"}) // kind: first, drained, panic

	pm.pollTimeouts = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "taskgraph",
		Name:      "poll_timeouts_total",
		Help:      "Bounded completion waits that elapsed without a completion",
	}, []string{"run_id"})

	return pm
}

// RecordTaskLatency records the execution duration of one worker.
//
// Parameters:
//   - runID: run identifier.
//   - latency: execution duration.
//   - status: outcome ("success", "error").
func (pm *PrometheusMetrics) RecordTaskLatency(runID string, latency time.Duration, status string) {
	if !pm.isEnabled() {
		return
	}
	pm.taskLatency.WithLabelValues(runID, status).Observe(float64(latency.Milliseconds()))
}

// IncrementSubmissions counts one worker handed to the pool.
func (pm *PrometheusMetrics) IncrementSubmissions(runID string) {
	if !pm.isEnabled() {
		return
	}
	pm.submissions.WithLabelValues(runID).Inc()
}

// IncrementFailures counts one failed task outcome.
//
// Kind distinguishes the failure's role in the run: "first" is the failure
// the run reports, "drained" is a failure absorbed while abandoning the
// run, "panic" is a synthetic failure produced from a worker panic.
func (pm *PrometheusMetrics) IncrementFailures(runID, kind string) {
	if !pm.isEnabled() {
		return
	}
	pm.failures.WithLabelValues(runID, kind).Inc()
}

// IncrementPollTimeouts counts one elapsed completion wait.
func (pm *PrometheusMetrics) IncrementPollTimeouts(runID string) {
	if !pm.isEnabled() {
		return
	}
	pm.pollTimeouts.WithLabelValues(runID).Inc()
}

// UpdateInflightWorkers sets the submitted-not-yet-consumed worker count.
func (pm *PrometheusMetrics) UpdateInflightWorkers(count int) {
	if !pm.isEnabled() {
		return
	}
	pm.inflightWorkers.Set(float64(count))
}

// UpdateQueueDepth sets the count of workers waiting for a pool goroutine.
func (pm *PrometheusMetrics) UpdateQueueDepth(depth int) {
	if !pm.isEnabled() {
		return
	}
	pm.queueDepth.Set(float64(depth))
}

// Disable temporarily disables metric recording (useful for testing).
func (pm *PrometheusMetrics) Disable() {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.enabled = false
}

// Enable re-enables metric recording after Disable.
func (pm *PrometheusMetrics) Enable() {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.enabled = true
}

func (pm *PrometheusMetrics) isEnabled() bool {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.enabled
}
