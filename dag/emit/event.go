package emit

// Event represents an observability event emitted during an executor run.
//
// Events provide insight into run behavior:
//   - Run start/complete/error
//   - Task submission and completion
//   - Task failures and drained results
//   - Completion-poll timeouts
//
// Events are emitted to an Emitter which can:
//   - Log to stdout/stderr or files
//   - Send to OpenTelemetry
//   - Buffer in memory for tests and dashboards
type Event struct {
	// RunID identifies the executor run that emitted this event.
	RunID string

	// TaskID is the rendered task value this event concerns.
	// Empty string for run-level events (run_start, run_complete, run_error).
	TaskID string

	// Msg is a short machine-and-human-readable event name, e.g. "task_submit".
	Msg string

	// Meta contains additional structured data specific to this event.
	// Common keys:
	//   - "duration_ms": task execution duration in milliseconds
	//   - "error": failure or fault details
	//   - "nodes": node count for run-level events
	//   - "drained": true when a result arrived after the run was abandoned
	Meta map[string]interface{}
}
