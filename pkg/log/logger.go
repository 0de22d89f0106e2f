// Package log builds the structured zerolog logger used by the report
// job. Errors created through pkg/errors carry cockroachdb stack
// traces; WithStacktrace surfaces them as a dedicated log field so a
// failed stage can be traced without re-running the job.
package log

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// StacktraceFieldName is the event field holding the extracted stack trace.
const StacktraceFieldName = "stacktrace"

// New returns a logger writing human-readable console output to w at
// the given level. Valid levels are the zerolog level strings
// ("debug", "info", "warn", "error", ...).
func New(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), errors.Wrapf(err, "invalid log level %q", level)
	}
	cw := zerolog.ConsoleWriter{Out: w}
	return zerolog.New(cw).Level(lvl).With().Timestamp().Logger(), nil
}

// NewJSON returns a logger writing JSON lines to w, for runs whose
// output is collected rather than read live.
func NewJSON(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), errors.Wrapf(err, "invalid log level %q", level)
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

// WithStacktrace attaches err and, when available, its cockroachdb
// stack trace to the event.
func WithStacktrace(e *zerolog.Event, err error) *zerolog.Event {
	e = e.Err(err)
	if st := extractStacktrace(err); st != "" {
		e = e.Str(StacktraceFieldName, st)
	}
	return e
}

func extractStacktrace(err error) string {
	safeDetails := errors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}
