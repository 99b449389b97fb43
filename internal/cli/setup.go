package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/yaklabco/sqlxfmt/internal/configloader"
	"github.com/yaklabco/sqlxfmt/internal/logging"
	"github.com/yaklabco/sqlxfmt/pkg/config"
	"github.com/yaklabco/sqlxfmt/pkg/fmtcache"
	"github.com/yaklabco/sqlxfmt/pkg/fsutil"
	"github.com/yaklabco/sqlxfmt/pkg/markdown"
	"github.com/yaklabco/sqlxfmt/pkg/parser/treesitter"
	"github.com/yaklabco/sqlxfmt/pkg/pipeline"
	"github.com/yaklabco/sqlxfmt/pkg/rewrite"
	"github.com/yaklabco/sqlxfmt/pkg/runner"
	"github.com/yaklabco/sqlxfmt/pkg/sqruff"
)

// appName names the cache and config directories.
const appName = "sqlxfmt"

// runFlags holds the flags shared by format, check and watch.
type runFlags struct {
	paths              []string
	sqruffConfig       string
	sqruffCommand      string
	literalIndentation int
	macros             string
	quotedAsRaw        bool
	ignore             []string
	markdown           bool
	cache              bool
	jobs               int
	format             string
	diff               bool

	// format and watch
	dryRun    bool
	noBackups bool
	backup    bool

	// check
	failOnUnformatted bool
}

func addRunFlags(cmd *cobra.Command, flags *runFlags) {
	cmd.Flags().StringSliceVar(&flags.paths, "path", nil,
		"files or directories to process when no arguments are given (default \".\")")
	cmd.Flags().StringVar(&flags.sqruffConfig, "sqruff-config", config.DefaultSqruffConfig,
		"sqruff config file, used only if it exists")
	cmd.Flags().StringVar(&flags.sqruffCommand, "sqruff-command", config.DefaultSqruffCommand,
		"sqruff executable")
	cmd.Flags().IntVar(&flags.literalIndentation, "literal-indentation", config.DefaultLiteralIndentation,
		"extra indentation of multi-line literal bodies")
	cmd.Flags().StringVar(&flags.macros, "macros", strings.Join(config.DefaultMacros, ","),
		"comma-separated macro names whose literals are formatted")
	cmd.Flags().BoolVar(&flags.quotedAsRaw, "quoted-as-raw", true,
		"pass quoted literals to the formatter as raw SQL")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().BoolVar(&flags.markdown, "markdown", false, "also format rust code fences in Markdown files")
	cmd.Flags().BoolVar(&flags.cache, "cache", false, "cache formatter results on disk")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
}

func addOutputFlags(cmd *cobra.Command, flags *runFlags) {
	cmd.Flags().StringVar(&flags.format, "format", string(config.FormatText), "output format: text, json, diff")
	cmd.Flags().BoolVar(&flags.diff, "diff", false, "print unified diffs of pending changes")
}

func addWriteFlags(cmd *cobra.Command, flags *runFlags) {
	cmd.Flags().BoolVar(&flags.backup, "backup", false, "keep a "+fsutil.BackupSuffix+" copy of every rewritten file")
	cmd.Flags().BoolVar(&flags.noBackups, "no-backups", false, "disable backup creation")
}

// toConfig builds the CLI configuration layer. Only flags that were set on
// the command line are carried, so lower layers keep their values otherwise.
func (f *runFlags) toConfig(cmd *cobra.Command, args []string) *config.Config {
	changed := cmd.Flags().Changed
	cfg := &config.Config{}

	switch {
	case len(args) > 0:
		cfg.Paths = args
	case changed("path"):
		cfg.Paths = f.paths
	}

	if changed("sqruff-config") {
		cfg.Sqruff.Config = f.sqruffConfig
	}
	if changed("sqruff-command") {
		cfg.Sqruff.Command = f.sqruffCommand
	}
	if changed("literal-indentation") {
		cfg.LiteralIndentation = config.IntPtr(f.literalIndentation)
	}
	if changed("macros") {
		cfg.Macros = splitList(f.macros)
	}
	if changed("quoted-as-raw") {
		cfg.QuotedAsRaw = config.BoolPtr(f.quotedAsRaw)
	}
	if changed("ignore") {
		cfg.Ignore = f.ignore
	}
	if changed("fail-on-unformatted") {
		cfg.FailOnUnformatted = config.BoolPtr(f.failOnUnformatted)
	}
	if changed("format") {
		cfg.Format = config.OutputFormat(f.format)
	}

	cfg.Markdown = f.markdown
	cfg.Cache.Enabled = f.cache
	cfg.Jobs = f.jobs
	cfg.Diff = f.diff
	cfg.DryRun = f.dryRun
	cfg.NoBackups = f.noBackups
	cfg.Backups.Enabled = f.backup

	return cfg
}

// splitList splits a comma-separated list, dropping blanks. The result is
// never nil so an explicitly empty list still overrides lower layers.
func splitList(list string) []string {
	names := lo.Compact(lo.Map(strings.Split(list, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	}))
	if names == nil {
		return []string{}
	}
	return names
}

// loadConfig resolves the configuration for a command run.
func loadConfig(ctx context.Context, cmd *cobra.Command, cliCfg *config.Config) (*config.Config, string, error) {
	logger := logging.FromContext(ctx)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, "", fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, "", errors.Join(errors.New("failed to load configuration"), err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", "files", loadResult.LoadedFrom)
	}

	cfg := loadResult.Config
	logger.Debug("configuration loaded",
		logging.FieldMacros, cfg.Macros,
		logging.FieldCommand, cfg.Sqruff.Command,
		logging.FieldDryRun, cfg.DryRun,
		logging.FieldJobs, cfg.Jobs,
	)

	return cfg, workDir, nil
}

// commandContext returns the command's context carrying the default logger.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logging.WithLogger(ctx, logging.Default())
}

// buildPipeline wires the parser, sqruff and the optional cache and
// Markdown rewriter into a pipeline.
func buildPipeline(cfg *config.Config, logger *log.Logger) (*pipeline.Pipeline, error) {
	if logger == nil {
		logger = logging.Default()
	}

	macros := rewrite.NewMacroSet(cfg.Macros...)
	if macros.Len() == 0 {
		return nil, rewrite.ErrNoMacros
	}

	sq := sqruff.New(sqruff.Options{
		Command:    cfg.Sqruff.Command,
		ConfigPath: cfg.Sqruff.Config,
		Logger:     logger,
	})

	var formatter rewrite.Formatter = sq
	if cfg.Cache.Enabled {
		cache, err := openCache(cfg, sq)
		if err != nil {
			return nil, err
		}
		logger.Debug("formatter cache enabled", logging.FieldPath, cache.Dir())
		formatter = cache.Wrap(sq)
	}

	engine := rewrite.NewEngine(treesitter.New(), formatter, rewrite.Options{
		LiteralIndentation: cfg.Indentation(),
		Macros:             macros,
		QuotedAsRaw:        cfg.QuotedRaw(),
	})

	var md pipeline.Rewriter
	if cfg.Markdown {
		md = markdown.New(engine)
	}

	return pipeline.New(engine, md), nil
}

// logCacheStats logs the hit and miss counts of a cached formatter.
func logCacheStats(logger *log.Logger, pipe *pipeline.Pipeline) {
	engine, ok := pipe.Rust.(*rewrite.Engine)
	if !ok {
		return
	}
	cached, ok := engine.Formatter.(*fmtcache.CachingFormatter)
	if !ok {
		return
	}
	logger.Debug("formatter cache",
		logging.FieldCacheHits, cached.Hits(),
		logging.FieldCacheMisses, cached.Misses(),
	)
}

// cacheDir returns the configured cache directory or the default one.
func cacheDir(cfg *config.Config) (string, error) {
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	return fmtcache.DefaultDir(appName)
}

// openCache opens the cache namespace of the formatter setup: the command
// and the bytes of its config file.
func openCache(cfg *config.Config, sq *sqruff.Formatter) (*fmtcache.Cache, error) {
	dir, err := cacheDir(cfg)
	if err != nil {
		return nil, err
	}

	// A missing config file is part of the setup too.
	sqruffConfig, _ := os.ReadFile(sq.ConfigPath())

	cache, err := fmtcache.Open(dir, fmtcache.Namespace(sq.Command(), sq.ConfigPath(), string(sqruffConfig)))
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return cache, nil
}

// runnerOptions maps the configuration onto runner options.
func runnerOptions(cfg *config.Config, workDir string, mode pipeline.Mode) runner.Options {
	extensions := runner.RustExtensions()
	if cfg.Markdown {
		extensions = append(extensions, runner.MarkdownExtensions()...)
	}

	backup := fsutil.BackupModeNone
	if cfg.BackupsEnabled() {
		backup = fsutil.BackupMode(cfg.Backups.Mode)
	}

	return runner.Options{
		Paths:        cfg.Paths,
		WorkingDir:   workDir,
		Extensions:   extensions,
		ExcludeGlobs: cfg.Ignore,
		Jobs:         cfg.Jobs,
		Pipeline: pipeline.Options{
			Mode:   mode,
			DryRun: cfg.DryRun,
			Diff:   cfg.Diff || cfg.DryRun || cfg.Format == config.FormatDiff,
			Backup: backup,
		},
	}
}
