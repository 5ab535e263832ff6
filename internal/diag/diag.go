// Package diag is the advisory channel contracts report repairs through.
//
// Diagnostics never drive control flow: a Verdict carries the outcome, and
// sinks only inform a human or a log. A sink must return promptly; the
// protocol calls it synchronously.
package diag

import (
	"context"
	"log/slog"
	"sync"

	"github.com/roach88/tablecontract/internal/frame"
)

// Kind distinguishes the two diagnostics the protocol emits.
type Kind string

const (
	// KindRepairAttempted is emitted before a repair is tried.
	KindRepairAttempted Kind = "repair_attempted"

	// KindRepairFailed is emitted when a repair yields the failure marker.
	KindRepairFailed Kind = "repair_failed"
)

// Diagnostic is one advisory message about a contract evaluation.
type Diagnostic struct {
	Kind     Kind
	Contract string     // contract name
	Rule     string     // catalogue rule name
	Scope    frame.Kind // subject kind
	Message  string
	Subject  frame.Subject // the input subject, before repair
	Err      error         // cause of a failed repair, if any
}

// Sink receives diagnostics.
type Sink interface {
	Emit(d Diagnostic)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(d Diagnostic)

// Emit implements Sink.
func (f SinkFunc) Emit(d Diagnostic) { f(d) }

// Discard drops every diagnostic.
var Discard Sink = SinkFunc(func(Diagnostic) {})

// SlogSink logs diagnostics at warn level.
type SlogSink struct {
	Logger *slog.Logger
}

// Emit implements Sink.
func (s SlogSink) Emit(d Diagnostic) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	attrs := []slog.Attr{
		slog.String("kind", string(d.Kind)),
		slog.String("contract", d.Contract),
		slog.String("rule", d.Rule),
		slog.String("scope", string(d.Scope)),
	}
	if d.Err != nil {
		attrs = append(attrs, slog.String("error", d.Err.Error()))
	}
	logger.LogAttrs(context.Background(), slog.LevelWarn, d.Message, attrs...)
}

// Default returns the sink used when a contract is built without one.
// It logs through slog.Default at the time of each emission.
func Default() Sink { return SlogSink{} }

// Multi fans a diagnostic out to several sinks in order.
func Multi(sinks ...Sink) Sink {
	return SinkFunc(func(d Diagnostic) {
		for _, s := range sinks {
			s.Emit(d)
		}
	})
}

// Recorder keeps every diagnostic it receives.
//
// Thread-safety: Recorder is safe for concurrent use.
type Recorder struct {
	mu   sync.Mutex
	diag []Diagnostic
}

// Emit implements Sink.
func (r *Recorder) Emit(d Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.diag = append(r.diag, d)
}

// Diagnostics returns a copy of everything recorded so far.
func (r *Recorder) Diagnostics() []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Diagnostic, len(r.diag))
	copy(out, r.diag)
	return out
}

// Kinds returns the kinds recorded so far, in order.
func (r *Recorder) Kinds() []Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Kind, len(r.diag))
	for i, d := range r.diag {
		out[i] = d.Kind
	}
	return out
}

// Len returns the number of diagnostics recorded.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.diag)
}

// Reset clears the recorder.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.diag = nil
}
