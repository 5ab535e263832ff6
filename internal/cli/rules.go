package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tablecontract/internal/decl"
	"github.com/roach88/tablecontract/internal/frame"
	"github.com/roach88/tablecontract/internal/rules"
)

// RulesOptions holds flags for the rules command.
type RulesOptions struct {
	*RootOptions
	Scope string
}

// NewRulesCommand creates the rules command.
func NewRulesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RulesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "rules",
		Short:         "List the rule catalogue",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRules(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Scope, "scope", "", "only list rules of this scope (table|column|labels)")

	return cmd
}

func runRules(opts *RulesOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	entries := rules.Catalogue()
	if opts.Scope != "" {
		scope, ok := frame.ParseKind(opts.Scope)
		if !ok {
			return outputCommandError(formatter, decl.ErrUnknownScope, fmt.Sprintf("unknown scope %q", opts.Scope), nil)
		}
		filtered := entries[:0]
		for _, e := range entries {
			if e.Scope == scope {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	if formatter.Format == "json" {
		return formatter.Success(entries)
	}
	writeCatalogue(formatter, entries)
	return nil
}

func writeCatalogue(formatter *OutputFormatter, entries []rules.Entry) {
	fmt.Fprintf(formatter.Writer, "%-6s  %-13s  %-6s  %s\n", "SCOPE", "RULE", "REPAIR", "SUMMARY")
	for _, e := range entries {
		summary := e.Summary
		if len(e.Needs) > 0 {
			summary += " (needs " + strings.Join(e.Needs, ", ") + ")"
		}
		fmt.Fprintf(formatter.Writer, "%-6s  %-13s  %-6s  %s\n", e.Scope, e.Name, repairLabel(e), summary)
	}
}

// repairLabel is "on" or "off" for the default repair setting, or "none"
// when the rule has no repair strategy.
func repairLabel(e rules.Entry) string {
	switch {
	case !e.HasRepair:
		return "none"
	case e.DefaultRepair:
		return "on"
	default:
		return "off"
	}
}
