package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/tablecontract/internal/decl"
	"github.com/roach88/tablecontract/internal/store"
)

// JournalOptions holds flags for the journal command.
type JournalOptions struct {
	*RootOptions
	RunID string
}

// RunDetail is the JSON payload of journal --run.
type RunDetail struct {
	Run         store.Run                `json:"run"`
	Steps       []store.StepRecord       `json:"steps"`
	Diagnostics []store.DiagnosticRecord `json:"diagnostics"`
}

// NewJournalCommand creates the journal command.
func NewJournalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &JournalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "journal <db>",
		Short: "Inspect journaled check runs",
		Long: `List every run recorded by check --journal, oldest first.
With --run, show that run's steps and diagnostics.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJournal(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.RunID, "run", "", "show one run")

	return cmd
}

func runJournal(opts *JournalOptions, dbPath string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	// Open would create an empty journal.
	if _, err := os.Stat(dbPath); err != nil {
		return outputCommandError(formatter, decl.ErrCodeNotFound, fmt.Sprintf("journal not found: %s", dbPath), nil)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return outputCommandError(formatter, ErrCodeJournal, err.Error(), nil)
	}
	defer s.Close()

	if opts.RunID == "" {
		runs, err := s.ListRuns(ctx)
		if err != nil {
			return outputCommandError(formatter, ErrCodeJournal, err.Error(), nil)
		}
		if formatter.Format == "json" {
			return formatter.Success(runs)
		}
		if len(runs) == 0 {
			fmt.Fprintln(formatter.Writer, "no runs journaled")
			return nil
		}
		for _, r := range runs {
			fmt.Fprintf(formatter.Writer, "%s  %s  %s  %d contract(s)\n", r.ID, runStatus(r), r.Source, r.Contracts)
		}
		return nil
	}

	run, err := s.ReadRun(ctx, opts.RunID)
	if errors.Is(err, store.ErrRunNotFound) {
		return outputCommandError(formatter, decl.ErrCodeNotFound, fmt.Sprintf("run %s not found", opts.RunID), nil)
	}
	if err != nil {
		return outputCommandError(formatter, ErrCodeJournal, err.Error(), nil)
	}
	steps, err := s.ReadSteps(ctx, run.ID)
	if err != nil {
		return outputCommandError(formatter, ErrCodeJournal, err.Error(), nil)
	}
	diags, err := s.ReadDiagnostics(ctx, run.ID)
	if err != nil {
		return outputCommandError(formatter, ErrCodeJournal, err.Error(), nil)
	}

	if formatter.Format == "json" {
		return formatter.Success(RunDetail{Run: run, Steps: steps, Diagnostics: diags})
	}

	fmt.Fprintf(formatter.Writer, "run %s: %s\n", run.ID, runStatus(run))
	fmt.Fprintf(formatter.Writer, "source %s, table %s\n\n", run.Source, run.Fingerprint)

	results := make([]StepResult, len(steps))
	for i, st := range steps {
		results[i] = StepResult{
			Contract: st.Contract,
			Rule:     st.Rule,
			Scope:    st.Scope,
			Target:   st.Target,
			Passed:   st.Passed,
			Repair:   st.Repair,
			Error:    st.Error,
		}
	}
	writeSteps(formatter.Writer, results)

	if len(diags) > 0 {
		fmt.Fprintln(formatter.Writer)
		for _, d := range diags {
			line := fmt.Sprintf("%s %s: %s", d.Kind, d.Contract, d.Message)
			if d.Error != "" {
				line += " (" + d.Error + ")"
			}
			fmt.Fprintln(formatter.Writer, line)
		}
	}
	return nil
}

func runStatus(r store.Run) string {
	switch {
	case !r.Finished:
		return "unfinished"
	case r.Passed:
		return "passed"
	default:
		return "failed"
	}
}
