package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/tablecontract/internal/check"
	"github.com/roach88/tablecontract/internal/contract"
	"github.com/roach88/tablecontract/internal/decl"
	"github.com/roach88/tablecontract/internal/diag"
	"github.com/roach88/tablecontract/internal/enforce"
	"github.com/roach88/tablecontract/internal/frame"
	"github.com/roach88/tablecontract/internal/store"
)

// Error codes for failures outside declaration loading.
const (
	ErrCodeTableRead = "E201" // table missing or not valid CSV
	ErrCodeJournal   = "E202" // journal open, read or write failed
	ErrCodeOutput    = "E203" // repaired table could not be written
	ErrCodeCheck     = "E204" // a contract could not be applied
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Table       string
	LabelColumn string
	Journal     string
	Out         string
	NoRepair    bool
}

// CheckResult is the JSON payload of the check command.
type CheckResult struct {
	Source      string       `json:"source"`
	Table       string       `json:"table"`
	Fingerprint string       `json:"fingerprint"`
	Passed      bool         `json:"passed"`
	Steps       []StepResult `json:"steps"`
	Diagnostics int          `json:"diagnostics"`
}

// StepResult is one contract outcome in CheckResult.
type StepResult struct {
	Contract string `json:"contract"`
	Rule     string `json:"rule"`
	Scope    string `json:"scope"`
	Target   string `json:"target,omitempty"`
	Passed   bool   `json:"passed"`
	Repair   string `json:"repair"`
	Error    string `json:"error,omitempty"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <contracts>",
		Short: "Check a CSV table against contract declarations",
		Long: `Apply every declared contract to the table in declaration order.

Contracts that fail are repaired when their rule and declaration allow it.
The command exits 1 if any contract still fails.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Table, "table", "", "path to the CSV table (required)")
	cmd.Flags().StringVar(&opts.LabelColumn, "label-column", "", "CSV column holding the row labels")
	cmd.Flags().StringVar(&opts.Journal, "journal", "", "SQLite journal to record the run in")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "write the repaired table to this CSV file")
	cmd.Flags().BoolVar(&opts.NoRepair, "no-repair", false, "disable repair for every contract")
	_ = cmd.MarkFlagRequired("table")

	return cmd
}

func runCheck(opts *CheckOptions, path string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	decls, err := loadDeclarations(formatter, path)
	if err != nil {
		return err
	}
	if errs := decl.Validate(decls); len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}

	table, err := readTable(opts.Table, opts.LabelColumn)
	if err != nil {
		return outputCommandError(formatter, ErrCodeTableRead, err.Error(), nil)
	}
	fingerprint, err := frame.Fingerprint(table)
	if err != nil {
		return outputCommandError(formatter, ErrCodeTableRead, err.Error(), nil)
	}
	formatter.VerboseLog("Read %d row(s), %d column(s) from %s", table.Rows(), len(table.ColumnNames()), opts.Table)

	recorder := &diag.Recorder{}
	sinks := []diag.Sink{recorder, diag.Default()}

	var (
		journal *store.Store
		run     store.Run
	)
	if opts.Journal != "" {
		journal, err = store.Open(opts.Journal)
		if err != nil {
			return outputCommandError(formatter, ErrCodeJournal, err.Error(), nil)
		}
		defer journal.Close()

		run, err = journal.BeginRun(ctx, path, len(decls), fingerprint)
		if err != nil {
			return outputCommandError(formatter, ErrCodeJournal, err.Error(), nil)
		}
		sinks = append(sinks, store.NewJournalSink(ctx, journal, run.ID))
		formatter.VerboseLog("Journaling run %s to %s", run.ID, opts.Journal)
	}

	contractOpts := []contract.Option{contract.WithSink(diag.Multi(sinks...))}
	if opts.NoRepair {
		contractOpts = append(contractOpts, contract.WithRepair(false))
	}
	plan, err := decl.Compile(decls, contractOpts...)
	if err != nil {
		return outputCommandError(formatter, ErrCodeCheck, err.Error(), nil)
	}
	plan.Source = path

	res, err := check.Run(ctx, plan, table)
	if err != nil {
		return outputCommandError(formatter, ErrCodeCheck, err.Error(), nil)
	}

	steps := make([]StepResult, len(res.Steps))
	for i, st := range res.Steps {
		steps[i] = stepResult(st)
	}

	if journal != nil {
		if err := journalSteps(cmd, journal, run.ID, steps, res.Passed()); err != nil {
			return outputCommandError(formatter, ErrCodeJournal, err.Error(), nil)
		}
	}

	if opts.Out != "" {
		if err := writeTable(opts.Out, res.Table, opts.LabelColumn); err != nil {
			return outputCommandError(formatter, ErrCodeOutput, err.Error(), nil)
		}
		formatter.VerboseLog("Wrote repaired table to %s", opts.Out)
	}

	result := CheckResult{
		Source:      path,
		Table:       opts.Table,
		Fingerprint: fingerprint,
		Passed:      res.Passed(),
		Steps:       steps,
		Diagnostics: recorder.Len(),
	}
	if err := outputCheckResult(formatter, result, run.ID); err != nil {
		return err
	}

	if !result.Passed {
		failed := len(res.Failed())
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d contract(s) failed", failed, len(steps)))
	}
	return nil
}

func stepResult(st check.Step) StepResult {
	out := StepResult{
		Contract: st.Contract,
		Rule:     st.Rule,
		Scope:    string(st.Scope),
		Target:   st.Target,
		Passed:   st.Passed,
		Repair:   string(st.Repair),
	}
	if st.Err != nil {
		out.Error = st.Err.Error()
	}
	return out
}

func journalSteps(cmd *cobra.Command, s *store.Store, runID string, steps []StepResult, passed bool) error {
	ctx := cmd.Context()
	for _, st := range steps {
		err := s.WriteStep(ctx, store.StepRecord{
			RunID:    runID,
			Contract: st.Contract,
			Rule:     st.Rule,
			Scope:    st.Scope,
			Target:   st.Target,
			Passed:   st.Passed,
			Repair:   st.Repair,
			Error:    st.Error,
		})
		if err != nil {
			return err
		}
	}
	return s.FinishRun(ctx, runID, passed)
}

func readTable(path, labelColumn string) (*frame.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return frame.ReadCSV(f, frame.CSVOptions{LabelColumn: labelColumn})
}

func writeTable(path string, t *frame.Table, labelColumn string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := frame.WriteCSV(f, t, labelColumn); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func outputCheckResult(formatter *OutputFormatter, result CheckResult, runID string) error {
	if formatter.Format == "json" {
		resp := CLIResponse{Status: "ok", Data: result, RunID: runID}
		if !result.Passed {
			resp.Status = "error"
			resp.Error = &CLIError{
				Code:    string(enforce.ErrCodeValidationFailed),
				Message: "one or more contracts failed",
			}
		}
		return json.NewEncoder(formatter.Writer).Encode(resp)
	}

	writeSteps(formatter.Writer, result.Steps)
	if runID != "" {
		fmt.Fprintf(formatter.Writer, "journal run %s\n", runID)
	}
	return nil
}

// writeSteps prints one line per step and a summary line.
func writeSteps(w io.Writer, steps []StepResult) {
	var passed, repaired, failed int
	for _, st := range steps {
		mark := "✓"
		switch {
		case !st.Passed:
			mark = "✗"
			failed++
		case st.Repair == string(contract.RepairSucceeded):
			repaired++
		default:
			passed++
		}
		subject := st.Scope + "/" + st.Rule
		if st.Target != "" {
			subject += " " + st.Target
		}
		fmt.Fprintf(w, "%s %s (%s): %s\n", mark, st.Contract, subject, stepOutcome(st))
	}
	fmt.Fprintf(w, "\n%d passed, %d repaired, %d failed\n", passed, repaired, failed)
}

func stepOutcome(st StepResult) string {
	switch {
	case st.Passed && st.Repair == string(contract.RepairSucceeded):
		return "repaired"
	case st.Passed:
		return "passed"
	case st.Error != "":
		return "failed: " + st.Error
	case st.Repair == string(contract.RepairNotAttempted):
		return "failed (repair disabled)"
	default:
		return "failed (repair " + st.Repair + ")"
	}
}
