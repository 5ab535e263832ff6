package store

import (
	"context"
	"log/slog"

	"github.com/roach88/tablecontract/internal/diag"
)

// JournalSink is a diag.Sink that writes every diagnostic to a run.
//
// Write failures are logged and dropped; Emit never fails the evaluation
// that produced the diagnostic.
type JournalSink struct {
	store *Store
	runID string
	ctx   context.Context
}

var _ diag.Sink = (*JournalSink)(nil)

// NewJournalSink returns a sink journaling under runID.
func NewJournalSink(ctx context.Context, s *Store, runID string) *JournalSink {
	return &JournalSink{store: s, runID: runID, ctx: ctx}
}

// Emit implements diag.Sink.
func (j *JournalSink) Emit(d diag.Diagnostic) {
	if _, err := j.store.WriteDiagnostic(j.ctx, j.runID, d); err != nil {
		slog.Error("journal write failed",
			"run", j.runID,
			"contract", d.Contract,
			"kind", d.Kind,
			"error", err,
		)
	}
}
