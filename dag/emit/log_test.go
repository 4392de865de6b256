package emit

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLogEmitterTextOutput(t *testing.T) {
	t.Run("emits event with all fields", func(t *testing.T) {
		var buf bytes.Buffer
		emitter := NewLogEmitter(&buf, false)

		emitter.Emit(Event{
			RunID:  "run-001",
			TaskID: "compile",
			Msg:    "task_submit",
			Meta: map[string]interface{}{
				"key": "value",
			},
		})

		output := buf.String()
		if output == "" {
			t.Fatal("expected output, got empty string")
		}
		for _, want := range []string{"run-001", "compile", "task_submit", "value"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q, got: %s", want, output)
			}
		}
	})

	t.Run("omits empty meta", func(t *testing.T) {
		var buf bytes.Buffer
		emitter := NewLogEmitter(&buf, false)

		emitter.Emit(Event{RunID: "run-001", Msg: "run_start"})

		if strings.Contains(buf.String(), "meta=") {
			t.Errorf("unexpected meta section in output: %s", buf.String())
		}
	})
}

func TestLogEmitterJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	emitter := NewLogEmitter(&buf, true)

	emitter.Emit(Event{
		RunID:  "run-001",
		TaskID: "link",
		Msg:    "task_complete",
		Meta: map[string]interface{}{
			"duration_ms": 12,
		},
	})

	var decoded struct {
		RunID  string                 `json:"runID"`
		TaskID string                 `json:"taskID"`
		Msg    string                 `json:"msg"`
		Meta   map[string]interface{} `json:"meta"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if decoded.RunID != "run-001" {
		t.Errorf("runID = %q, want run-001", decoded.RunID)
	}
	if decoded.TaskID != "link" {
		t.Errorf("taskID = %q, want link", decoded.TaskID)
	}
	if decoded.Msg != "task_complete" {
		t.Errorf("msg = %q, want task_complete", decoded.Msg)
	}
	if decoded.Meta["duration_ms"] != float64(12) {
		t.Errorf("meta duration_ms = %v, want 12", decoded.Meta["duration_ms"])
	}
}

func TestLogEmitterBatch(t *testing.T) {
	var buf bytes.Buffer
	emitter := NewLogEmitter(&buf, true)

	events := []Event{
		{RunID: "run-001", TaskID: "a", Msg: "task_submit"},
		{RunID: "run-001", TaskID: "a", Msg: "task_complete"},
		{RunID: "run-001", Msg: "run_complete"},
	}
	if err := emitter.EmitBatch(context.Background(), events); err != nil {
		t.Fatalf("EmitBatch failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 JSONL lines, got %d:\n%s", len(lines), buf.String())
	}
	for i, line := range lines {
		if !json.Valid([]byte(line)) {
			t.Errorf("line %d is not valid JSON: %s", i, line)
		}
	}
}

func TestLogEmitterNilWriterDefaultsToStdout(t *testing.T) {
	emitter := NewLogEmitter(nil, false)
	if emitter.writer == nil {
		t.Fatal("expected non-nil writer")
	}
}

func TestLogEmitterFlushIsNoop(t *testing.T) {
	var buf bytes.Buffer
	emitter := NewLogEmitter(&buf, false)
	if err := emitter.Flush(context.Background()); err != nil {
		t.Errorf("Flush = %v, want nil", err)
	}
}
