package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/sqlxfmt/internal/logging"
	"github.com/yaklabco/sqlxfmt/internal/ui/pretty"
	"github.com/yaklabco/sqlxfmt/pkg/config"
	"github.com/yaklabco/sqlxfmt/pkg/fsutil"
	"github.com/yaklabco/sqlxfmt/pkg/pipeline"
	"github.com/yaklabco/sqlxfmt/pkg/runner"
)

func newRestoreCommand() *cobra.Command {
	var markdown bool

	cmd := &cobra.Command{
		Use:   "restore [paths...]",
		Short: "Restore files from their " + fsutil.BackupSuffix + " backups",
		Long: `Copy the backups written by "format --backup" back over the formatted files
and remove them. Files without a backup are left alone.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRestore(cmd, args, markdown)
		},
	}

	cmd.Flags().BoolVar(&markdown, "markdown", false, "also restore Markdown files")

	return cmd
}

func runRestore(cmd *cobra.Command, args []string, markdown bool) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	cfg, workDir, err := loadConfig(ctx, cmd, &config.Config{Paths: args, Markdown: markdown})
	if err != nil {
		return err
	}

	opts := runnerOptions(cfg, workDir, pipeline.ModeFormat)
	files, err := runner.Discover(ctx, opts)
	if err != nil {
		return fmt.Errorf("discover files: %w", err)
	}

	mode := fsutil.BackupMode(cfg.Backups.Mode)
	restored := 0
	var errs []error
	for _, path := range files {
		ok, err := fsutil.Restore(ctx, path, mode)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			restored++
			logger.Debug("restored", logging.FieldPath, path)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "restored %s\n", pretty.Plural(restored, "file"))
	return errors.Join(errs...)
}
