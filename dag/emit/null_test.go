package emit

import (
	"context"
	"testing"
)

func TestNullEmitter(t *testing.T) {
	emitter := NewNullEmitter()

	// All operations are no-ops and must not panic.
	emitter.Emit(Event{RunID: "run-1", Msg: "run_start"})
	if err := emitter.EmitBatch(context.Background(), []Event{{RunID: "run-1"}}); err != nil {
		t.Errorf("EmitBatch = %v, want nil", err)
	}
	if err := emitter.Flush(context.Background()); err != nil {
		t.Errorf("Flush = %v, want nil", err)
	}
}

// Compile-time checks that every backend satisfies the Emitter contract.
var (
	_ Emitter = (*NullEmitter)(nil)
	_ Emitter = (*LogEmitter)(nil)
	_ Emitter = (*BufferedEmitter)(nil)
	_ Emitter = (*OTelEmitter)(nil)
)
