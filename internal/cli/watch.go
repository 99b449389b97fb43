package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yaklabco/sqlxfmt/internal/logging"
	"github.com/yaklabco/sqlxfmt/pkg/pipeline"
	"github.com/yaklabco/sqlxfmt/pkg/runner"
	"github.com/yaklabco/sqlxfmt/pkg/watch"
)

func newWatchCommand() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Format files as they are saved",
		Long: `Watch directories and format the SQL in every Rust file that is written.

Files are formatted once at startup, then again whenever they change.
Press Ctrl-C to stop.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, flags)
		},
	}

	addRunFlags(cmd, flags)
	addWriteFlags(cmd, flags)

	return cmd
}

func runWatch(cmd *cobra.Command, args []string, flags *runFlags) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger := logging.FromContext(ctx)

	cfg, workDir, err := loadConfig(ctx, cmd, flags.toConfig(cmd, args))
	if err != nil {
		return err
	}

	pipe, err := buildPipeline(cfg, logger)
	if err != nil {
		return err
	}
	fileRunner := runner.New(pipe)
	runOpts := runnerOptions(cfg, workDir, pipeline.ModeFormat)

	watcher, err := watch.New(
		watch.WithLogger(logger),
		watch.WithFilter(pipe.Supports),
		watch.WithSkipDirs(runner.DefaultSkipDirs()...),
	)
	if err != nil {
		return err
	}
	defer watcher.Close()

	roots := runOpts.Paths
	if len(roots) == 0 {
		roots = []string{"."}
	}
	for _, root := range roots {
		if !filepath.IsAbs(root) {
			root = filepath.Join(workDir, root)
		}
		if err := watcher.Add(root); err != nil {
			return err
		}
	}

	formatFiles := func(ctx context.Context, paths []string) {
		opts := runOpts
		if paths != nil {
			opts.Paths = paths
		}
		result, err := fileRunner.Run(ctx, opts)
		if err != nil {
			logger.Error("format run failed", logging.FieldError, err)
			return
		}
		logCacheStats(logger, pipe)
		if err := report(ctx, cmd, cfg, workDir, pipeline.ModeFormat, result); err != nil {
			logger.Error("report failed", logging.FieldError, err)
		}
	}

	formatFiles(ctx, nil)
	logger.Info("watching for changes", logging.FieldPaths, roots)

	if err := watcher.Run(ctx, formatFiles); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	return nil
}
