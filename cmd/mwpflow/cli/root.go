// Package cli wires the cobra command tree and zerolog logging for the
// mwpflow binary (spec §6). The command tree itself carries no analysis
// logic — that lives in internal/analyzer and mwplang — this package only
// translates flags into a config.Config, drives the parse/desugar/analyze
// pipeline, and formats results.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the mwpflow command tree: a single "analyze"
// subcommand, matching spec §6's CLI surface exactly.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "mwpflow",
		Short:         "Decide polynomial growth bounds for program variables",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newAnalyzeCommand())

	return root
}
