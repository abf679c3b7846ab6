package warn

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// Kind identifies what a warning describes.
type Kind string

const (
	// UnknownFeature: an index listed a name with no record files. The
	// entry was dropped.
	UnknownFeature Kind = "unknown_feature"

	// UnindexedFeature: record files exist for a name no index lists. The
	// feature was added to the lost+found bucket.
	UnindexedFeature Kind = "unindexed_feature"

	// DuplicateEntries: a name was listed more than once. Every entry
	// after the first was dropped.
	DuplicateEntries Kind = "duplicate_entries"

	// FailedToLoadHistoricalData: a snapshot could not be loaded and was
	// counted as empty.
	FailedToLoadHistoricalData Kind = "failed_to_load_historical_data"
)

// Warning is a single repair or diagnostic. Fields that do not apply to
// the kind are left empty.
type Warning struct {
	Kind    Kind
	Feature string
	Status  string
	Date    string
	Err     error
}

// Fields returns the populated fields as name/value pairs in a fixed order.
func (w Warning) Fields() [][2]string {
	var fields [][2]string
	add := func(name, value string) {
		if value != "" {
			fields = append(fields, [2]string{name, value})
		}
	}
	add("feature", w.Feature)
	add("status", w.Status)
	add("date", w.Date)
	if w.Err != nil {
		add("error", w.Err.Error())
	}
	return fields
}

// String renders the warning as a human-readable sentence.
func (w Warning) String() string {
	switch w.Kind {
	case UnknownFeature:
		return fmt.Sprintf("unknown feature %q in status %q removed from index", w.Feature, w.Status)
	case UnindexedFeature:
		return fmt.Sprintf("unindexed feature %q moved to lost+found", w.Feature)
	case DuplicateEntries:
		return fmt.Sprintf("duplicate entry for feature %q removed from status %q", w.Feature, w.Status)
	case FailedToLoadHistoricalData:
		return fmt.Sprintf("failed to load historical data for %s: %v", w.Date, w.Err)
	}
	var sb strings.Builder
	sb.WriteString(strings.ReplaceAll(string(w.Kind), "_", " "))
	if fields := w.Fields(); len(fields) > 0 {
		sb.WriteString(" (")
		for i, f := range fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(f[0])
			sb.WriteString(": ")
			sb.WriteString(f[1])
		}
		sb.WriteString(")")
	}
	return sb.String()
}

// Sink receives warnings. A non-nil error from Warn aborts the operation
// that produced the warning.
type Sink interface {
	Warn(w Warning) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(w Warning) error

// Warn calls f(w).
func (f SinkFunc) Warn(w Warning) error {
	return f(w)
}

// Discard drops every warning.
var Discard Sink = SinkFunc(func(Warning) error { return nil })

// Recorder keeps every warning it receives. It is safe for concurrent use.
type Recorder struct {
	mu       sync.Mutex
	warnings []Warning
}

// Warn records w.
func (r *Recorder) Warn(w Warning) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, w)
	return nil
}

// Warnings returns a copy of the recorded warnings in arrival order.
func (r *Recorder) Warnings() []Warning {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Warning(nil), r.warnings...)
}

// Kinds returns the kind of each recorded warning in arrival order.
func (r *Recorder) Kinds() []Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]Kind, len(r.warnings))
	for i, w := range r.warnings {
		kinds[i] = w.Kind
	}
	return kinds
}

// Reset forgets all recorded warnings.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = nil
}

// RaisedError is returned by Raiser for every warning.
type RaisedError struct {
	Warning Warning
}

func (e *RaisedError) Error() string {
	return "unexpected warning: " + e.Warning.String()
}

// Unwrap exposes the warning's underlying error, if any.
func (e *RaisedError) Unwrap() error {
	return e.Warning.Err
}

// Raiser fails on the first warning. Use it where no repair is expected.
var Raiser Sink = SinkFunc(func(w Warning) error { return &RaisedError{Warning: w} })

// IsRaised reports whether err came from Raiser.
func IsRaised(err error) bool {
	var re *RaisedError
	return errors.As(err, &re)
}

// Printer writes one line per warning to W, preceded by Prefix.
type Printer struct {
	W      io.Writer
	Prefix string
}

// NewPrinter creates a Printer with the conventional "warning: " prefix.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{W: w, Prefix: "warning: "}
}

// Warn prints w. Write failures are ignored so that reporting never aborts
// a repair.
func (p *Printer) Warn(w Warning) error {
	fmt.Fprintf(p.W, "%s%s\n", p.Prefix, w)
	return nil
}

// Logger reports warnings as structured log records.
type Logger struct {
	Log   *slog.Logger
	Level slog.Level
}

// NewLogger creates a Logger that reports at warn level. A nil logger
// means slog.Default().
func NewLogger(l *slog.Logger) *Logger {
	if l == nil {
		l = slog.Default()
	}
	return &Logger{Log: l, Level: slog.LevelWarn}
}

// Warn logs w with its fields as attributes.
func (l *Logger) Warn(w Warning) error {
	attrs := []any{"kind", string(w.Kind)}
	for _, f := range w.Fields() {
		attrs = append(attrs, f[0], f[1])
	}
	l.Log.Log(context.Background(), l.Level, "tracker repair", attrs...)
	return nil
}

// Tee forwards every warning to each sink in turn, stopping at the first
// error.
func Tee(sinks ...Sink) Sink {
	return SinkFunc(func(w Warning) error {
		for _, s := range sinks {
			if err := s.Warn(w); err != nil {
				return err
			}
		}
		return nil
	})
}
