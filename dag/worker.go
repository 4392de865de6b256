package dag

import (
	"context"
	"errors"
)

// TaskResult is the outcome of one worker invocation.
//
// Value echoes back the task identity so the executor can locate the
// completed node in the graph without keeping a submission-order side table.
// On failure the executor never touches the graph, so a failed result may
// carry the zero Value (synthetic failures produced from worker panics do).
type TaskResult[T comparable] struct {
	// Success reports whether the task completed normally.
	Success bool

	// ErrorMessage describes the failure. Empty when Success is true.
	ErrorMessage string

	// Value is the task identity this result belongs to.
	Value T
}

// Succeeded returns a successful TaskResult for value.
func Succeeded[T comparable](value T) TaskResult[T] {
	return TaskResult[T]{Success: true, Value: value}
}

// Failed returns a failed TaskResult for value with the given message.
func Failed[T comparable](value T, message string) TaskResult[T] {
	return TaskResult[T]{Success: false, ErrorMessage: message, Value: value}
}

// Worker is one executable unit of work wrapping a single task value.
//
// Workers are produced by a WorkerFactory from a batch of runnable task
// values and run on the executor's pool. A worker must return a TaskResult
// whose Value is the task it ran, and must never touch the graph; graph
// mutation belongs to the driver alone.
//
// A worker that panics does not crash the run: the panic is converted into a
// synthetic failed TaskResult carrying the panic message. The one exception
// is a panic whose value is (or wraps) *DomainError, which aborts the run
// and is returned from Executor.Run unchanged.
type Worker[T comparable] interface {
	// Call executes the task. The context is the one passed to Run; workers
	// with long-running or blocking work should honor its cancellation.
	Call(ctx context.Context) TaskResult[T]

	// Priority is an integer scheduling hint. The current executor submits
	// every free task in a cycle together and does not order by priority;
	// the field is part of the worker contract for future refinement.
	Priority() int
}

// funcWorker adapts a plain function into a Worker with priority 0.
type funcWorker[T comparable] struct {
	value T
	fn    func(ctx context.Context, value T) error
}

// NewWorker wraps a task value and a function into a Worker.
//
// The function's error return becomes the task outcome: nil maps to a
// successful TaskResult, non-nil to a failed one carrying err.Error().
// The returned worker has priority 0.
//
// Example:
//
//	w := dag.NewWorker("compile", func(ctx context.Context, task string) error {
//	    return toolchain.Build(ctx, task)
//	})
func NewWorker[T comparable](value T, fn func(ctx context.Context, value T) error) Worker[T] {
	return &funcWorker[T]{value: value, fn: fn}
}

// Call implements Worker.
func (w *funcWorker[T]) Call(ctx context.Context) TaskResult[T] {
	if err := w.fn(ctx, w.value); err != nil {
		return Failed(w.value, err.Error())
	}
	return Succeeded(w.value)
}

// Priority implements Worker.
func (w *funcWorker[T]) Priority() int { return 0 }

// WorkerFactory converts a batch of runnable task values into workers.
//
// The factory is the seam between the domain-agnostic executor and the
// caller's task semantics: the executor hands it every newly free task and
// submits whatever workers come back. The factory may return fewer or more
// workers than input tasks (coalescing or fanning out); the executor counts
// in-flight work by the number of workers returned, and maps completions
// back to the graph through TaskResult.Value.
type WorkerFactory[T comparable] interface {
	CreateWorkers(tasks []T) []Worker[T]
}

// WorkerFactoryFunc is a function adapter that implements WorkerFactory.
//
// Example:
//
//	factory := dag.WorkerFactoryFunc[string](func(tasks []string) []dag.Worker[string] {
//	    workers := make([]dag.Worker[string], 0, len(tasks))
//	    for _, task := range tasks {
//	        workers = append(workers, dag.NewWorker(task, runTask))
//	    }
//	    return workers
//	})
type WorkerFactoryFunc[T comparable] func(tasks []T) []Worker[T]

// CreateWorkers implements WorkerFactory.
func (f WorkerFactoryFunc[T]) CreateWorkers(tasks []T) []Worker[T] {
	return f(tasks)
}

// DomainError marks a worker fault as meaningful to the caller's domain.
//
// Ordinary worker panics are absorbed into failed task results so one
// misbehaving task cannot crash the run. A panic carrying a *DomainError
// (directly, or wrapped in an error chain) is different: the executor drains
// outstanding work, shuts the pool down, and returns the DomainError from
// Run unchanged, preserving it for the caller instead of flattening it into
// a message string.
type DomainError struct {
	// Message is the human-readable fault description.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause error for error wrapping support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// asDomainError extracts a *DomainError from a recovered panic value.
// Handles a bare *DomainError and any error whose chain contains one.
func asDomainError(recovered any) (*DomainError, bool) {
	switch v := recovered.(type) {
	case *DomainError:
		return v, true
	case error:
		var de *DomainError
		if errors.As(v, &de) {
			return de, true
		}
	}
	return nil, false
}
