package dag

import (
	"fmt"
	"time"

	"github.com/dshills/taskgraph-go/dag/emit"
)

// Default configuration values. These are tunables, not contracts.
const (
	// DefaultPoolSize is the worker pool width when none is configured.
	DefaultPoolSize = 5

	// DefaultQueueDepth is the capacity of the submission and completion
	// queues when none is configured.
	DefaultQueueDepth = 64

	// DefaultPollInterval bounds each wait for a completion. Timeouts are
	// not errors; they return control to the driver loop.
	DefaultPollInterval = 2 * time.Second
)

// Options configures Executor behavior.
//
// Zero values are valid; NewExecutor fills in the defaults above.
type Options struct {
	// PoolSize is the fixed number of concurrent workers. Default: 5.
	//
	// Tuning guidance:
	//   - CPU-bound tasks: runtime.NumCPU()
	//   - I/O-bound tasks: 10-50 depending on external service limits
	PoolSize int

	// QueueDepth sets the capacity of the pool's submission and completion
	// channels. Default: 64. When the submission queue fills, the driver
	// blocks handing over further workers until the pool drains, natural
	// backpressure for very wide frontiers.
	QueueDepth int

	// PollInterval bounds each wait on the completion stream. Default: 2s.
	//
	// An elapsed interval is not an error: the driver re-evaluates its
	// termination condition and waits again. Lower values make the loop
	// more responsive to cancellation; higher values reduce idle wakeups
	// while all workers are long-running.
	PollInterval time.Duration

	// Emitter receives observability events. Default: emit.NullEmitter.
	Emitter emit.Emitter

	// Metrics enables Prometheus metrics collection. If nil, metrics are
	// not collected.
	//
	// Create with NewPrometheusMetrics(registry) for production monitoring.
	Metrics *PrometheusMetrics
}

// Option is a functional option for configuring an Executor.
//
// Example:
//
//	exec, err := dag.NewExecutor(
//	    g, factory,
//	    dag.WithPoolSize(8),
//	    dag.WithPollInterval(500*time.Millisecond),
//	)
type Option func(*Options) error

// WithPoolSize sets the fixed worker pool width.
//
// Returns an error for n < 1.
func WithPoolSize(n int) Option {
	return func(o *Options) error {
		if n < 1 {
			return fmt.Errorf("pool size must be at least 1, got %d", n)
		}
		o.PoolSize = n
		return nil
	}
}

// WithQueueDepth sets the capacity of the submission and completion queues.
//
// Returns an error for n < 1.
func WithQueueDepth(n int) Option {
	return func(o *Options) error {
		if n < 1 {
			return fmt.Errorf("queue depth must be at least 1, got %d", n)
		}
		o.QueueDepth = n
		return nil
	}
}

// WithPollInterval sets the bound on each completion wait.
//
// Returns an error for non-positive durations.
func WithPollInterval(d time.Duration) Option {
	return func(o *Options) error {
		if d <= 0 {
			return fmt.Errorf("poll interval must be positive, got %v", d)
		}
		o.PollInterval = d
		return nil
	}
}

// WithEmitter sets the observability event receiver. A nil emitter restores
// the default NullEmitter.
func WithEmitter(e emit.Emitter) Option {
	return func(o *Options) error {
		o.Emitter = e
		return nil
	}
}

// WithMetrics sets the Prometheus metrics collector.
func WithMetrics(m *PrometheusMetrics) Option {
	return func(o *Options) error {
		o.Metrics = m
		return nil
	}
}
