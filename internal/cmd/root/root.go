// Package root provides the root command for the prevhs CLI.
package root

import (
	"github.com/spf13/cobra"

	"github.com/hesreallyhim/pre-vhs/internal/cmd/expand"
	initcmd "github.com/hesreallyhim/pre-vhs/internal/cmd/init"
	"github.com/hesreallyhim/pre-vhs/internal/cmd/macros"
	"github.com/hesreallyhim/pre-vhs/internal/version"
)

// NewCmdRoot creates the root command for prevhs.
func NewCmdRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prevhs",
		Short: "A macro preprocessor for VHS tape files",
		Long: `prevhs expands a small macro language embedded in .tape scripts into
plain VHS tape commands.

Scripts declare aliases and macro activations in a header, invoke macros
on "> Name, ..." directive lines with positional ($1..$n) and greedy ($*)
arguments, and pass every other line through untouched.

Get started by running: prevhs init`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
	}

	// Global flags
	cmd.PersistentFlags().StringP("config", "c", "", "config file (default: ~/.config/prevhs/config.yml)")
	cmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	// Set version template
	cmd.SetVersionTemplate("prevhs version {{.Version}} (commit: " + version.Commit + ", built: " + version.Date + ")\n")

	// Subcommands
	cmd.AddCommand(initcmd.NewCmdInit())
	cmd.AddCommand(expand.NewCmdExpand())
	cmd.AddCommand(macros.NewCmdMacros())

	return cmd
}
