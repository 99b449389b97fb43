package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/sqlxfmt/internal/logging"
	"github.com/yaklabco/sqlxfmt/pkg/config"
	"github.com/yaklabco/sqlxfmt/pkg/fsutil"
	"github.com/yaklabco/sqlxfmt/pkg/pipeline"
	"github.com/yaklabco/sqlxfmt/pkg/runner"
)

func TestSplitList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want []string
	}{
		{"query", []string{"query"}},
		{"query, sqlx::query ,query_as", []string{"query", "sqlx::query", "query_as"}},
		{" , ,", []string{}},
		{"", []string{}},
	}

	for _, tt := range tests {
		got := splitList(tt.in)
		require.NotNil(t, got, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func parseCheckFlags(t *testing.T, args ...string) (*cobra.Command, *runFlags) {
	t.Helper()
	flags := &runFlags{}
	cmd := &cobra.Command{Use: "check"}
	addRunFlags(cmd, flags)
	addOutputFlags(cmd, flags)
	cmd.Flags().BoolVar(&flags.failOnUnformatted, "fail-on-unformatted", true, "")
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd, flags
}

func TestToConfigCarriesOnlyChangedFlags(t *testing.T) {
	t.Parallel()

	cmd, flags := parseCheckFlags(t)
	cfg := flags.toConfig(cmd, nil)

	assert.Nil(t, cfg.Macros)
	assert.Nil(t, cfg.LiteralIndentation)
	assert.Nil(t, cfg.QuotedAsRaw)
	assert.Nil(t, cfg.FailOnUnformatted)
	assert.Nil(t, cfg.Paths)
	assert.Empty(t, cfg.Sqruff.Command)
	assert.Empty(t, cfg.Sqruff.Config)
	assert.Empty(t, cfg.Format)
}

func TestToConfigExplicitFlags(t *testing.T) {
	t.Parallel()

	cmd, flags := parseCheckFlags(t,
		"--macros", "query,query_as",
		"--literal-indentation", "2",
		"--quoted-as-raw=false",
		"--fail-on-unformatted=false",
		"--sqruff-config", "db/.sqruff",
		"--path", "src",
		"--format", "json",
		"--markdown",
	)
	cfg := flags.toConfig(cmd, nil)

	assert.Equal(t, []string{"query", "query_as"}, cfg.Macros)
	require.NotNil(t, cfg.LiteralIndentation)
	assert.Equal(t, 2, *cfg.LiteralIndentation)
	assert.False(t, cfg.QuotedRaw())
	assert.False(t, cfg.ShouldFailOnUnformatted())
	assert.Equal(t, "db/.sqruff", cfg.Sqruff.Config)
	assert.Equal(t, []string{"src"}, cfg.Paths)
	assert.Equal(t, config.FormatJSON, cfg.Format)
	assert.True(t, cfg.Markdown)
}

func TestToConfigArgsWinOverPathFlag(t *testing.T) {
	t.Parallel()

	cmd, flags := parseCheckFlags(t, "--path", "src")
	cfg := flags.toConfig(cmd, []string{"crates"})

	assert.Equal(t, []string{"crates"}, cfg.Paths)
}

func TestRunnerOptions(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Paths = []string{"src"}
	cfg.Ignore = []string{"**/generated/**"}

	opts := runnerOptions(cfg, "/work", pipeline.ModeCheck)
	assert.Equal(t, []string{"src"}, opts.Paths)
	assert.Equal(t, "/work", opts.WorkingDir)
	assert.Equal(t, runner.RustExtensions(), opts.Extensions)
	assert.Equal(t, cfg.Ignore, opts.ExcludeGlobs)
	assert.Equal(t, pipeline.ModeCheck, opts.Pipeline.Mode)
	assert.False(t, opts.Pipeline.Diff)
	assert.Equal(t, fsutil.BackupModeNone, opts.Pipeline.Backup)

	cfg.Markdown = true
	cfg.DryRun = true
	cfg.Backups.Enabled = true

	opts = runnerOptions(cfg, "/work", pipeline.ModeFormat)
	assert.Contains(t, opts.Extensions, ".md")
	assert.Contains(t, opts.Extensions, ".markdown")
	assert.True(t, opts.Pipeline.DryRun)
	assert.True(t, opts.Pipeline.Diff, "dry runs show diffs")
	assert.Equal(t, fsutil.BackupModeSidecar, opts.Pipeline.Backup)

	cfg.NoBackups = true
	opts = runnerOptions(cfg, "/work", pipeline.ModeFormat)
	assert.Equal(t, fsutil.BackupModeNone, opts.Pipeline.Backup)
}

func TestRunnerOptionsDiffFormat(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Format = config.FormatDiff

	assert.True(t, runnerOptions(cfg, "", pipeline.ModeCheck).Pipeline.Diff)
}

func TestBuildPipeline(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	pipe, err := buildPipeline(cfg, nil)
	require.NoError(t, err)
	assert.True(t, pipe.Supports("src/db.rs"))
	assert.False(t, pipe.Supports("README.md"))

	cfg.Markdown = true
	pipe, err = buildPipeline(cfg, nil)
	require.NoError(t, err)
	assert.True(t, pipe.Supports("README.md"))

	cfg.Macros = []string{}
	_, err = buildPipeline(cfg, nil)
	require.Error(t, err)
}

func TestExitCodeFromResult(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		stats             runner.Stats
		mode              pipeline.Mode
		failOnUnformatted bool
		want              int
	}{
		{"clean check", runner.Stats{FilesProcessed: 3}, pipeline.ModeCheck, true, ExitSuccess},
		{"unformatted check", runner.Stats{FilesChanged: 1}, pipeline.ModeCheck, true, ExitUnformatted},
		{"unformatted check tolerated", runner.Stats{FilesChanged: 1}, pipeline.ModeCheck, false, ExitSuccess},
		{"format rewrites", runner.Stats{FilesChanged: 2, FilesWritten: 2}, pipeline.ModeFormat, true, ExitSuccess},
		{"file errors", runner.Stats{FilesErrored: 1, FilesChanged: 1}, pipeline.ModeCheck, true, ExitFileErrors},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := &runner.Result{Stats: tt.stats}
			assert.Equal(t, tt.want, ExitCodeFromResult(result, tt.mode, tt.failOnUnformatted))
		})
	}

	assert.Equal(t, ExitSuccess, ExitCodeFromResult(nil, pipeline.ModeCheck, true))
}

func TestLogCacheStats(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Cache.Enabled = true
	cfg.Cache.Dir = t.TempDir()
	cfg.Sqruff.Config = "missing.sqruff"

	pipe, err := buildPipeline(cfg, logging.Discard())
	require.NoError(t, err)

	var logs bytes.Buffer
	logCacheStats(logging.NewWithWriter(&logs, "debug"), pipe)
	assert.Contains(t, logs.String(), "cache_hits=0")
	assert.Contains(t, logs.String(), "cache_misses=0")

	cfg.Cache.Enabled = false
	pipe, err = buildPipeline(cfg, logging.Discard())
	require.NoError(t, err)

	logs.Reset()
	logCacheStats(logging.NewWithWriter(&logs, "debug"), pipe)
	assert.Empty(t, logs.String())
}
