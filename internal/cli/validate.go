package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tablecontract/internal/decl"
)

// ValidationResult is the JSON payload of the validate command.
type ValidationResult struct {
	Valid     bool                   `json:"valid"`
	Contracts []string               `json:"contracts,omitempty"`
	Errors    []decl.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <contracts>",
		Short: "Validate contract declarations without checking a table",
		Long: `Load declarations from a CUE directory or file, a YAML file or a TOML file
and report every declaration error.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	decls, err := loadDeclarations(formatter, path)
	if err != nil {
		return err
	}
	formatter.VerboseLog("Loaded %d contract(s) from %s", len(decls), path)

	if errs := decl.Validate(decls); len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}

	if formatter.Format == "json" {
		names := make([]string, len(decls))
		for i, d := range decls {
			names[i] = d.Name
		}
		return formatter.Success(ValidationResult{Valid: true, Contracts: names})
	}
	fmt.Fprintf(formatter.Writer, "✓ All contracts valid (%d)\n", len(decls))
	return nil
}

// loadDeclarations loads path, reporting a load failure as a command error.
func loadDeclarations(formatter *OutputFormatter, path string) ([]decl.Declaration, error) {
	decls, err := decl.Load(path)
	if err == nil {
		return decls, nil
	}
	var loadErr *decl.LoadError
	if errors.As(err, &loadErr) {
		return nil, outputCommandError(formatter, loadErr.Code, loadErr.Error(), nil)
	}
	return nil, outputCommandError(formatter, decl.ErrCodeGeneric, err.Error(), nil)
}

// outputCommandError reports an error that stopped the command (exit code 2).
func outputCommandError(formatter *OutputFormatter, code, message string, details any) error {
	_ = formatter.Error(code, message, details)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []decl.ValidationError) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: errs},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Source != "" {
			fmt.Fprintln(formatter.Writer, err.Source)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s.%s: %s\n\n", err.Code, err.Contract, err.Field, err.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
