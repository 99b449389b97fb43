package configloader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/sqlxfmt/pkg/config"
)

// projectDir creates a temp directory marked as a VCS root so the upward
// config search stays inside it.
func projectDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	return dir
}

func isolated(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	result, err := Load(context.Background(), isolated(projectDir(t)))
	require.NoError(t, err)
	require.NotNil(t, result.Config)

	cfg := result.Config
	assert.Equal(t, config.DefaultLiteralIndentation, cfg.Indentation())
	assert.Equal(t, config.DefaultMacros, cfg.Macros)
	assert.Equal(t, "sqruff", cfg.Sqruff.Command)
	assert.Equal(t, ".sqruff", cfg.Sqruff.Config)
	assert.True(t, cfg.QuotedRaw())
	assert.True(t, cfg.ShouldFailOnUnformatted())
	assert.Empty(t, result.LoadedFrom)
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".sqlxfmt.yml"), `
macros: [query, query_as]
literal_indentation: 2
sqruff:
  config: sql/.sqruff
`)

	result, err := Load(context.Background(), isolated(dir))
	require.NoError(t, err)

	assert.Equal(t, []string{"query", "query_as"}, result.Config.Macros)
	assert.Equal(t, 2, result.Config.Indentation())
	assert.Equal(t, "sql/.sqruff", result.Config.Sqruff.Config)
	assert.Equal(t, "sqruff", result.Config.Sqruff.Command, "unset fields keep defaults")
	assert.Equal(t, []string{filepath.Join(dir, ".sqlxfmt.yml")}, result.LoadedFrom)
}

func TestLoad_ProjectConfigFoundFromSubdirectory(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, "sqlxfmt.yaml"), "literal_indentation: 8\n")
	sub := filepath.Join(dir, "crates", "db", "src")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	result, err := Load(context.Background(), isolated(sub))
	require.NoError(t, err)
	assert.Equal(t, 8, result.Config.Indentation())
}

func TestLoad_ExplicitConfig(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".sqlxfmt.yml"), "literal_indentation: 2\nmarkdown: true\n")
	explicit := filepath.Join(t.TempDir(), "custom.yml")
	writeFile(t, explicit, "literal_indentation: 6\n")

	opts := isolated(dir)
	opts.ExplicitPath = explicit

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, 6, result.Config.Indentation(), "explicit config overrides project config")
	assert.True(t, result.Config.Markdown, "project settings not overridden survive")
	assert.Len(t, result.LoadedFrom, 2)
}

func TestLoad_CLIOverrides(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".sqlxfmt.yml"), "literal_indentation: 2\nmacros: [query]\n")

	opts := isolated(dir)
	opts.CLIConfig = &config.Config{
		LiteralIndentation: config.IntPtr(0),
		Paths:              []string{"src"},
		DryRun:             true,
		Jobs:               3,
	}

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Config.Indentation())
	assert.Equal(t, []string{"query"}, result.Config.Macros)
	assert.Equal(t, []string{"src"}, result.Config.Paths)
	assert.True(t, result.Config.DryRun)
	assert.Equal(t, 3, result.Config.Jobs)
}

func TestLoad_EnvOverridesFiles(t *testing.T) {
	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".sqlxfmt.yml"), "literal_indentation: 2\n")

	t.Setenv("SQLX_FMT_LITERAL_INDENTATION", "3")
	t.Setenv("SQLX_FMT_MACROS", "query, sqlx::query_as ,")
	t.Setenv("SQLX_FMT_SQRUFF_CONFIG", "/etc/sqruff.cfg")
	t.Setenv("SQLX_FMT_FAIL_ON_UNFORMATTED", "false")

	opts := isolated(dir)
	opts.IgnoreEnv = false

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Config.Indentation())
	assert.Equal(t, []string{"query", "sqlx::query_as"}, result.Config.Macros)
	assert.Equal(t, "/etc/sqruff.cfg", result.Config.Sqruff.Config)
	assert.False(t, result.Config.ShouldFailOnUnformatted())
}

func TestLoad_InvalidEnvValue(t *testing.T) {
	t.Setenv("SQLX_FMT_JOBS", "many")

	opts := isolated(projectDir(t))
	opts.IgnoreEnv = false

	_, err := Load(context.Background(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SQLX_FMT_JOBS")
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown field", "flavor: gfm\n", "flavor"},
		{"malformed yaml", "macros: [query\n", "yaml"},
		{"empty macros", "macros: []\n", "no macros like"},
		{"negative indentation", "literal_indentation: -1\n", "literal_indentation"},
		{"bad backup mode", "backups:\n  mode: cloud\n", "backups.mode"},
		{"bad ignore glob", "ignore: ['src/[a']\n", "ignore[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := projectDir(t)
			writeFile(t, filepath.Join(dir, ".sqlxfmt.yml"), tt.content)

			_, err := Load(context.Background(), isolated(dir))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_DuplicateMacrosWarn(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".sqlxfmt.yml"), "macros: [query, query_as, query]\n")

	result, err := Load(context.Background(), isolated(dir))
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.True(t, strings.Contains(result.Warnings[0], `"query"`))
}

func TestLoad_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, isolated(projectDir(t)))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMergeAll(t *testing.T) {
	t.Parallel()

	base := config.NewConfig()
	mid := &config.Config{Macros: []string{"query"}, Cache: config.CacheConfig{Enabled: true}}
	top := &config.Config{Sqruff: config.SqruffConfig{Command: "/opt/sqruff"}, QuotedAsRaw: config.BoolPtr(false)}

	got := MergeAll(base, mid, top)

	assert.Equal(t, []string{"query"}, got.Macros)
	assert.True(t, got.Cache.Enabled)
	assert.Equal(t, "/opt/sqruff", got.Sqruff.Command)
	assert.Equal(t, ".sqruff", got.Sqruff.Config)
	assert.False(t, got.QuotedRaw())
	assert.Nil(t, MergeAll())
}
