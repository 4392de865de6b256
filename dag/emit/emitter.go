// Package emit provides event emission and observability for executor runs.
package emit

import "context"

// Emitter receives and processes observability events from executor runs.
//
// Emitters enable pluggable observability backends:
//   - Logging: stdout, files, syslog.
//   - Distributed tracing: OpenTelemetry, Jaeger, Zipkin.
//   - In-memory capture: tests, dashboards.
//
// Implementations should be:
//   - Non-blocking: avoid slowing down the driver loop.
//   - Thread-safe: Emit may be called while workers are running.
//   - Resilient: handle backend failures without crashing the run.
type Emitter interface {
	// Emit sends an observability event to the configured backend.
	//
	// Emit should not panic and should not block the caller; if the backend
	// is slow or unavailable, buffer or drop with internal error logging.
	Emit(event Event)

	// EmitBatch sends multiple events in a single operation.
	//
	// Batching amortizes backend round-trips when a run produces event
	// bursts (a large submission cycle, a drain after failure). Events must
	// be processed in order. Individual event failures should be logged and
	// skipped; an error return is reserved for catastrophic failures such as
	// misconfiguration.
	EmitBatch(ctx context.Context, events []Event) error

	// Flush ensures all buffered events are delivered to the backend.
	//
	// Call before shutdown or after a run completes when delivery matters.
	// Implementations must be idempotent and must respect ctx cancellation.
	Flush(ctx context.Context) error
}
