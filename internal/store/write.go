package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/tablecontract/internal/diag"
	"github.com/roach88/tablecontract/internal/frame"
)

// ErrRunNotFound is returned when a run ID is not in the journal.
var ErrRunNotFound = errors.New("run not found")

// Run is one journaled check of a table.
type Run struct {
	ID          string `json:"id"`
	Seq         int64  `json:"seq"`
	Source      string `json:"source"`
	Contracts   int    `json:"contracts"`
	Fingerprint string `json:"fingerprint"`
	Finished    bool   `json:"finished"`
	Passed      bool   `json:"passed"`
}

// DiagnosticRecord is a journaled diagnostic.
type DiagnosticRecord struct {
	ID          string `json:"id"`
	RunID       string `json:"run_id"`
	Seq         int64  `json:"seq"`
	Kind        string `json:"kind"`
	Contract    string `json:"contract"`
	Rule        string `json:"rule"`
	Scope       string `json:"scope"`
	Message     string `json:"message"`
	Fingerprint string `json:"fingerprint"`
	Error       string `json:"error,omitempty"`
}

// StepRecord is the journaled outcome of one contract in a run.
type StepRecord struct {
	RunID    string `json:"run_id"`
	Seq      int64  `json:"seq"`
	Contract string `json:"contract"`
	Rule     string `json:"rule"`
	Scope    string `json:"scope"`
	Target   string `json:"target,omitempty"`
	Passed   bool   `json:"passed"`
	Repair   string `json:"repair"`
	Error    string `json:"error,omitempty"`
}

// BeginRun records the start of a run and returns it.
func (s *Store) BeginRun(ctx context.Context, source string, contracts int, fingerprint string) (Run, error) {
	run := Run{
		ID:          s.ids.Generate(),
		Seq:         s.clock.Next(),
		Source:      source,
		Contracts:   contracts,
		Fingerprint: fingerprint,
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, seq, source, contracts, fingerprint)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, run.Seq, run.Source, run.Contracts, run.Fingerprint)
	if err != nil {
		return Run{}, fmt.Errorf("begin run: %w", err)
	}
	return run, nil
}

// FinishRun marks a run finished with its overall outcome.
func (s *Store) FinishRun(ctx context.Context, runID string, passed bool) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE runs SET passed = ?, finished = 1 WHERE id = ?
	`, passed, runID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finish run %s: %w", runID, ErrRunNotFound)
	}
	return nil
}

// WriteDiagnostic journals d under runID. The subject is stored by
// fingerprint only.
func (s *Store) WriteDiagnostic(ctx context.Context, runID string, d diag.Diagnostic) (DiagnosticRecord, error) {
	rec := DiagnosticRecord{
		ID:       s.ids.Generate(),
		RunID:    runID,
		Seq:      s.clock.Next(),
		Kind:     string(d.Kind),
		Contract: d.Contract,
		Rule:     d.Rule,
		Scope:    string(d.Scope),
		Message:  d.Message,
	}
	if d.Subject != nil {
		fp, err := frame.Fingerprint(d.Subject)
		if err != nil {
			return DiagnosticRecord{}, fmt.Errorf("write diagnostic: %w", err)
		}
		rec.Fingerprint = fp
	}
	if d.Err != nil {
		rec.Error = d.Err.Error()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO diagnostics
		(id, run_id, seq, kind, contract, rule, scope, message, fingerprint, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		rec.RunID,
		rec.Seq,
		rec.Kind,
		rec.Contract,
		rec.Rule,
		rec.Scope,
		rec.Message,
		rec.Fingerprint,
		rec.Error,
	)
	if err != nil {
		return DiagnosticRecord{}, fmt.Errorf("write diagnostic: %w", err)
	}
	return rec, nil
}

// WriteStep journals a step outcome. Seq is assigned by the store.
// Writing the same contract twice for a run is silently ignored.
func (s *Store) WriteStep(ctx context.Context, rec StepRecord) error {
	rec.Seq = s.clock.Next()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO steps
		(run_id, seq, contract, rule, scope, target, passed, repair, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		rec.RunID,
		rec.Seq,
		rec.Contract,
		rec.Rule,
		rec.Scope,
		rec.Target,
		rec.Passed,
		rec.Repair,
		rec.Error,
	)
	if err != nil {
		return fmt.Errorf("write step: %w", err)
	}
	return nil
}
