package log

import (
	"bytes"
	"strings"
	"testing"

	pkgerrors "github.com/DobrinPenchev/Practical-Machine-Learning-Project/pkg/errors"
)

func TestNewRejectsBadLevel(t *testing.T) {
	var buf bytes.Buffer
	if _, err := New(&buf, "loud"); err == nil {
		t.Error("New() with invalid level should return an error")
	}
}

func TestNewJSONEmitsFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewJSON(&buf, "info")
	if err != nil {
		t.Fatalf("NewJSON() error = %v", err)
	}

	logger.Info().Str(StageKey, "partition").Int(SamplesKey, 19622).Msg("split done")

	out := buf.String()
	for _, want := range []string{`"stage":"partition"`, `"data.samples":19622`, "split done"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q: %s", want, out)
		}
	}
}

func TestWithStacktrace(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewJSON(&buf, "error")
	if err != nil {
		t.Fatalf("NewJSON() error = %v", err)
	}

	stageErr := pkgerrors.New("training library failure")
	WithStacktrace(logger.Error(), stageErr).Msg("train stage failed")

	out := buf.String()
	if !strings.Contains(out, "training library failure") {
		t.Errorf("log output missing error message: %s", out)
	}
	if !strings.Contains(out, StacktraceFieldName) {
		t.Errorf("log output missing %q field: %s", StacktraceFieldName, out)
	}
}
