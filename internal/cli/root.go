// Package cli provides the Cobra command structure for sqlxfmt.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/sqlxfmt/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root sqlxfmt command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "sqlxfmt",
		Short: "Format the SQL inside sqlx macros in Rust source",
		Long: `sqlxfmt formats the SQL held in string literals of sqlx macro invocations
such as sqlx::query!(r#"..."#) and query_as!(...).

Each literal is piped through sqruff and written back with its delimiters,
prefix and surrounding code untouched. Multi-line raw literals are re-indented
relative to the column they start at. Rust code fences in Markdown files can
be formatted too.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.AddCommand(newFormatCommand())
	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newCacheCommand())
	rootCmd.AddCommand(newRestoreCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
