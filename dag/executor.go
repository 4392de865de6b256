package dag

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/taskgraph-go/dag/emit"
)

// Result is the aggregate outcome of one executor run.
type Result struct {
	// Success reports whether the run ended without a task failure, a domain
	// fault or cancellation. Nodes that never became runnable, or for which
	// no worker reported a result, do not make a run unsuccessful.
	Success bool

	// ErrorMessage carries the first failing worker's message on failure.
	// Empty on success.
	ErrorMessage string
}

// Executor drives a dependency graph to completion across a fixed-size
// worker pool.
//
// The executor owns the driver loop: it computes the free frontier, hands
// newly runnable task values to the caller's WorkerFactory, submits the
// returned workers to the pool, and blocks on one completion at a time.
// Each successful completion removes its node from the graph, exposing its
// dependents, and the frontier is recomputed. The loop ends when no task is
// runnable or in flight, when a task fails, when a worker raises a domain
// fault, or when the context is cancelled.
//
// The graph is mutated only by the driver; workers receive task values by
// copy and never touch the graph. The executor holds the graph for the
// duration of Run and a graph must not be shared between concurrent runs.
//
// Example:
//
//	g := dag.NewGraph[string]()
//	g.AddEdge("app", "lib")
//	g.AddEdge("lib", "proto")
//
//	factory := dag.WorkerFactoryFunc[string](func(tasks []string) []dag.Worker[string] {
//	    workers := make([]dag.Worker[string], 0, len(tasks))
//	    for _, task := range tasks {
//	        workers = append(workers, dag.NewWorker(task, buildTask))
//	    }
//	    return workers
//	})
//
//	exec, err := dag.NewExecutor(g, factory)
//	if err != nil {
//	    return err
//	}
//	result, err := exec.Run(ctx)
type Executor[T comparable] struct {
	graph   *Graph[T]
	factory WorkerFactory[T]
	opts    Options
}

// NewExecutor creates an Executor over the given graph and worker factory.
//
// Parameters:
//   - graph: the dependency graph to drive; the executor becomes its sole
//     mutator for the duration of Run.
//   - factory: converts batches of runnable task values into workers.
//   - options: functional options (WithPoolSize, WithQueueDepth,
//     WithPollInterval, WithEmitter, WithMetrics).
//
// Returns an error if graph or factory is nil, or if an option rejects its
// value.
func NewExecutor[T comparable](graph *Graph[T], factory WorkerFactory[T], options ...Option) (*Executor[T], error) {
	if graph == nil {
		return nil, fmt.Errorf("graph cannot be nil")
	}
	if factory == nil {
		return nil, fmt.Errorf("worker factory cannot be nil")
	}

	opts := Options{
		PoolSize:     DefaultPoolSize,
		QueueDepth:   DefaultQueueDepth,
		PollInterval: DefaultPollInterval,
	}
	for _, opt := range options {
		if err := opt(&opts); err != nil {
			return nil, err
		}
	}
	if opts.PoolSize == 0 {
		opts.PoolSize = DefaultPoolSize
	}
	if opts.QueueDepth == 0 {
		opts.QueueDepth = DefaultQueueDepth
	}
	if opts.PollInterval == 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.Emitter == nil {
		opts.Emitter = emit.NewNullEmitter()
	}

	return &Executor[T]{
		graph:   graph,
		factory: factory,
		opts:    opts,
	}, nil
}

// Run drives the graph to quiescence or first failure and blocks until the
// outcome is known.
//
// Semantics:
//   - Tasks become runnable only when every prerequisite has completed
//     successfully and its node has been removed from the graph.
//   - All free tasks in a cycle are submitted together; execution order
//     within a batch is pool-dependent.
//   - A task is submitted at most once per run, even though it stays in the
//     free frontier until its success is consumed.
//   - First failure wins: its message becomes the Result, no further work
//     is submitted, and outstanding completions are drained and discarded.
//   - A worker panic becomes a synthetic task failure, except a panic
//     carrying *DomainError, which Run returns unchanged as its error.
//
// The returned error is nil for both successful runs and ordinary task
// failures (inspect Result); it is non-nil only for domain faults and
// context cancellation. The worker pool is shut down on every exit path.
func (e *Executor[T]) Run(ctx context.Context) (Result, error) {
	runID := uuid.NewString()

	e.emit(runID, "", "run_start", map[string]interface{}{"nodes": e.graph.Len()})

	// An empty graph completes immediately; the factory is never consulted.
	if e.graph.Len() == 0 {
		e.emit(runID, "", "run_complete", nil)
		return Result{Success: true}, nil
	}

	pool := newWorkerPool[T](ctx, e.opts.PoolSize, e.opts.QueueDepth)
	defer pool.Shutdown()

	var (
		running  int
		nodesRun = make(map[T]struct{})
		failure  *TaskResult[T]
		fault    *DomainError
	)
	newFree := e.graph.FreeNodes()

	for failure == nil && fault == nil && ctx.Err() == nil && (running > 0 || len(newFree) > 0) {
		if len(newFree) > 0 {
			for _, t := range newFree {
				nodesRun[t] = struct{}{}
			}
			submitted, err := e.submit(ctx, pool, runID, newFree)
			running += submitted
			newFree = nil
			if err != nil {
				break
			}
		}
		e.updateGauges(running, pool)

		c, ok, err := pool.Poll(ctx, e.opts.PollInterval)
		if err != nil {
			break
		}
		if !ok {
			// The bounded wait elapsed; re-evaluate and wait again.
			e.emit(runID, "", "poll_timeout", nil)
			e.incrementPollTimeouts(runID)
			continue
		}

		running--
		switch {
		case c.fault != nil:
			fault = c.fault
		case c.result.Success:
			e.recordTaskLatency(runID, c.elapsed, "success")
			e.emit(runID, taskID(c.result.Value), "task_complete",
				map[string]interface{}{"duration_ms": c.elapsed.Milliseconds()})
			e.graph.RemoveNode(c.result.Value)
			newFree = subtract(e.graph.FreeNodes(), nodesRun)
		default:
			e.recordTaskLatency(runID, c.elapsed, "error")
			if c.panicked {
				e.incrementFailures(runID, "panic")
			} else {
				e.incrementFailures(runID, "first")
			}
			e.emit(runID, taskID(c.result.Value), "task_error",
				map[string]interface{}{"error": c.result.ErrorMessage})
			r := c.result
			failure = &r
			newFree = nil
		}
	}

	// Drain outstanding completions so every worker is accounted for before
	// the pool is shut down. Results consumed here never mutate the graph.
	for running > 0 && ctx.Err() == nil {
		c, ok, err := pool.Poll(ctx, e.opts.PollInterval)
		if err != nil {
			break
		}
		if !ok {
			e.incrementPollTimeouts(runID)
			continue
		}
		running--
		switch {
		case c.fault != nil:
			if fault == nil {
				fault = c.fault
			}
		case !c.result.Success:
			e.incrementFailures(runID, "drained")
			e.emit(runID, taskID(c.result.Value), "task_drained",
				map[string]interface{}{"error": c.result.ErrorMessage, "drained": true})
		default:
			e.emit(runID, taskID(c.result.Value), "task_drained",
				map[string]interface{}{"drained": true})
		}
	}
	e.updateGauges(running, pool)

	switch {
	case fault != nil:
		e.emit(runID, "", "run_error", map[string]interface{}{"error": fault.Message})
		return Result{Success: false, ErrorMessage: fault.Message}, fault
	case ctx.Err() != nil:
		e.emit(runID, "", "run_error", map[string]interface{}{"error": ctx.Err().Error()})
		return Result{Success: false, ErrorMessage: ctx.Err().Error()}, ctx.Err()
	case failure != nil:
		e.emit(runID, "", "run_error", map[string]interface{}{"error": failure.ErrorMessage})
		return Result{Success: false, ErrorMessage: failure.ErrorMessage}, nil
	default:
		e.emit(runID, "", "run_complete", nil)
		return Result{Success: true}, nil
	}
}

// submit hands one cycle's runnable tasks to the factory and submits every
// returned worker. Returns how many workers were accepted; the error is
// non-nil only when the context is cancelled mid-submission.
func (e *Executor[T]) submit(ctx context.Context, pool *workerPool[T], runID string, tasks []T) (int, error) {
	workers := e.factory.CreateWorkers(tasks)
	for _, t := range tasks {
		e.emit(runID, taskID(t), "task_submit", nil)
	}

	submitted := 0
	for _, w := range workers {
		if err := pool.Submit(ctx, w); err != nil {
			return submitted, err
		}
		submitted++
		e.incrementSubmissions(runID)
	}
	return submitted, nil
}

// taskID renders a task value for events and diagnostics.
func taskID[T comparable](t T) string {
	return fmt.Sprintf("%v", t)
}

// subtract returns the members of values not present in seen.
func subtract[T comparable](values []T, seen map[T]struct{}) []T {
	out := values[:0]
	for _, t := range values {
		if _, ok := seen[t]; !ok {
			out = append(out, t)
		}
	}
	return out
}

func (e *Executor[T]) emit(runID, task, msg string, meta map[string]interface{}) {
	e.opts.Emitter.Emit(emit.Event{RunID: runID, TaskID: task, Msg: msg, Meta: meta})
}

func (e *Executor[T]) updateGauges(running int, pool *workerPool[T]) {
	if e.opts.Metrics == nil {
		return
	}
	e.opts.Metrics.UpdateInflightWorkers(running)
	e.opts.Metrics.UpdateQueueDepth(pool.Backlog())
}

func (e *Executor[T]) recordTaskLatency(runID string, d time.Duration, status string) {
	if e.opts.Metrics == nil {
		return
	}
	e.opts.Metrics.RecordTaskLatency(runID, d, status)
}

func (e *Executor[T]) incrementSubmissions(runID string) {
	if e.opts.Metrics == nil {
		return
	}
	e.opts.Metrics.IncrementSubmissions(runID)
}

func (e *Executor[T]) incrementFailures(runID, kind string) {
	if e.opts.Metrics == nil {
		return
	}
	e.opts.Metrics.IncrementFailures(runID, kind)
}

func (e *Executor[T]) incrementPollTimeouts(runID string) {
	if e.opts.Metrics == nil {
		return
	}
	e.opts.Metrics.IncrementPollTimeouts(runID)
}
