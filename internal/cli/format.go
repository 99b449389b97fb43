package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/sqlxfmt/internal/logging"
	"github.com/yaklabco/sqlxfmt/pkg/config"
	"github.com/yaklabco/sqlxfmt/pkg/pipeline"
	"github.com/yaklabco/sqlxfmt/pkg/reporter"
	"github.com/yaklabco/sqlxfmt/pkg/runner"
)

func newFormatCommand() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "format [paths...]",
		Short: "Format SQL in sqlx macros",
		Long:  formatLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd, args, flags, pipeline.ModeFormat)
		},
	}

	addRunFlags(cmd, flags)
	addOutputFlags(cmd, flags)
	addWriteFlags(cmd, flags)
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "print diffs instead of writing files")

	return cmd
}

const formatLongDescription = `Format the SQL inside sqlx macro string literals.

By default, formats every .rs file below the current directory, skipping
hidden directories and target/. Changed files are written atomically.

Examples:
  sqlxfmt format                       # Format current directory
  sqlxfmt format src/db.rs             # Format a single file
  sqlxfmt format --dry-run             # Show diffs without writing
  sqlxfmt format --macros query,query_as
  sqlxfmt format --markdown docs/      # Also format rust fences in Markdown`

func newCheckCommand() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Report files whose SQL is not formatted",
		Long: `Check that the SQL inside sqlx macros is formatted, without writing.

Each file that would change is listed. The command fails when any file would
change unless --fail-on-unformatted=false is given.

Examples:
  sqlxfmt check                  # Check current directory
  sqlxfmt check --diff           # Show what would change
  sqlxfmt check --format json    # Machine-readable output for CI`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd, args, flags, pipeline.ModeCheck)
		},
	}

	addRunFlags(cmd, flags)
	addOutputFlags(cmd, flags)
	cmd.Flags().BoolVar(&flags.failOnUnformatted, "fail-on-unformatted", true,
		"exit with an error when files would change")

	return cmd
}

func runFormat(cmd *cobra.Command, args []string, flags *runFlags, mode pipeline.Mode) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	cfg, workDir, err := loadConfig(ctx, cmd, flags.toConfig(cmd, args))
	if err != nil {
		return err
	}

	pipe, err := buildPipeline(cfg, logger)
	if err != nil {
		return err
	}

	runOpts := runnerOptions(cfg, workDir, mode)

	logger.Debug("starting run",
		logging.FieldMode, mode,
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
	)

	result, err := runner.New(pipe).Run(ctx, runOpts)
	if err != nil {
		return fmt.Errorf("%s run failed: %w", mode, err)
	}
	logCacheStats(logger, pipe)

	if result.Stats.FilesDiscovered == 0 {
		paths := runOpts.Paths
		if len(paths) == 0 {
			paths = []string{"."}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "no rust files found in %s\n", strings.Join(paths, ", "))
		return nil
	}

	if err := report(ctx, cmd, cfg, workDir, mode, result); err != nil {
		return err
	}

	switch ExitCodeFromResult(result, mode, cfg.ShouldFailOnUnformatted()) {
	case ExitUnformatted:
		return fmt.Errorf("%d %w", result.Stats.FilesChanged, ErrUnformattedFiles)
	case ExitFileErrors:
		return fmt.Errorf("%d %w", result.Stats.FilesErrored, ErrFilesFailed)
	default:
		return nil
	}
}

// report renders result in the configured output format.
func report(
	ctx context.Context,
	cmd *cobra.Command,
	cfg *config.Config,
	workDir string,
	mode pipeline.Mode,
	result *runner.Result,
) error {
	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	format, err := reporter.ParseFormat(string(cfg.Format))
	if err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      format,
		Color:       colorMode,
		Mode:        mode,
		ShowSummary: true,
		WorkingDir:  workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}
	return nil
}
