package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/sqlxfmt/internal/cli"
	"github.com/yaklabco/sqlxfmt/pkg/config"
	"github.com/yaklabco/sqlxfmt/pkg/fsutil"
	"github.com/yaklabco/sqlxfmt/pkg/reporter"
)

const (
	unformattedSource = "fn f() {\n    sqlx::query!(\"select   1\");\n}\n"
	formattedSource   = "fn f() {\n    sqlx::query!(\"select 1\");\n}\n"
)

// fakeSqruff writes a stand-in for sqruff that squeezes runs of spaces.
func fakeSqruff(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake sqruff needs a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "sqruff")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\ntr -s ' '\n"), 0o755))
	return path
}

// execute runs the root command with the fake sqruff and returns stdout.
func execute(t *testing.T, sqruffPath string, args ...string) (string, error) {
	t.Helper()

	cmd := cli.NewRootCommand(testInfo())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(""))

	if sqruffPath != "" && len(args) > 0 {
		args = append(args,
			"--sqruff-command", sqruffPath,
			"--sqruff-config", filepath.Join(filepath.Dir(sqruffPath), "missing.sqruff"),
		)
	}
	cmd.SetArgs(append([]string{"--color", "never"}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func TestIntegration_FormatWritesFiles(t *testing.T) {
	t.Parallel()

	sq := fakeSqruff(t)
	dir := t.TempDir()
	dirty := writeFile(t, dir, "src/db.rs", unformattedSource)
	clean := writeFile(t, dir, "src/lib.rs", formattedSource)
	ignored := writeFile(t, dir, "target/gen.rs", unformattedSource)

	out, err := execute(t, sq, "format", dir)
	require.NoError(t, err)

	assert.Equal(t, formattedSource, readFile(t, dirty))
	assert.Equal(t, formattedSource, readFile(t, clean))
	assert.Equal(t, unformattedSource, readFile(t, ignored))

	assert.Contains(t, out, "formatted: ")
	assert.Contains(t, out, "db.rs")
	assert.NotContains(t, out, "lib.rs")
	assert.Contains(t, out, "formatted 1 file (2 files checked, 2 literals)")
}

func TestIntegration_FormatAlreadyFormatted(t *testing.T) {
	t.Parallel()

	sq := fakeSqruff(t)
	dir := t.TempDir()
	writeFile(t, dir, "lib.rs", formattedSource)

	out, err := execute(t, sq, "format", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "all files are already formatted correctly")
}

func TestIntegration_FormatDryRun(t *testing.T) {
	t.Parallel()

	sq := fakeSqruff(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "db.rs", unformattedSource)

	out, err := execute(t, sq, "format", "--dry-run", dir)
	require.NoError(t, err)

	assert.Equal(t, unformattedSource, readFile(t, path))
	assert.Contains(t, out, "-    sqlx::query!(\"select   1\");")
	assert.Contains(t, out, "+    sqlx::query!(\"select 1\");")
}

func TestIntegration_FormatBackupAndRestore(t *testing.T) {
	t.Parallel()

	sq := fakeSqruff(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "db.rs", unformattedSource)

	_, err := execute(t, sq, "format", "--backup", dir)
	require.NoError(t, err)
	assert.Equal(t, formattedSource, readFile(t, path))
	assert.Equal(t, unformattedSource, readFile(t, path+fsutil.BackupSuffix))

	out, err := execute(t, "", "restore", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "restored 1 file")
	assert.Equal(t, unformattedSource, readFile(t, path))
	assert.NoFileExists(t, path+fsutil.BackupSuffix)
}

func TestIntegration_FormatMarkdown(t *testing.T) {
	t.Parallel()

	sq := fakeSqruff(t)
	dir := t.TempDir()
	readme := "# Usage\n\n```rust\n" + unformattedSource + "```\n"
	path := writeFile(t, dir, "README.md", readme)

	out, err := execute(t, sq, "format", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "no rust files found in "+dir)
	assert.Equal(t, readme, readFile(t, path))

	_, err = execute(t, sq, "format", "--markdown", dir)
	require.NoError(t, err)
	assert.Equal(t, "# Usage\n\n```rust\n"+formattedSource+"```\n", readFile(t, path))
}

func TestIntegration_Check(t *testing.T) {
	t.Parallel()

	sq := fakeSqruff(t)

	tests := []struct {
		name        string
		content     string
		args        []string
		wantErr     bool
		wantContain []string
	}{
		{
			name:        "unformatted file fails",
			content:     unformattedSource,
			wantErr:     true,
			wantContain: []string{"unformatted: ", "1 unformatted file found"},
		},
		{
			name:        "fail-on-unformatted disabled",
			content:     unformattedSource,
			args:        []string{"--fail-on-unformatted=false"},
			wantContain: []string{"unformatted: "},
		},
		{
			name:        "diff is printed",
			content:     unformattedSource,
			args:        []string{"--diff", "--fail-on-unformatted=false"},
			wantContain: []string{"+    sqlx::query!(\"select 1\");"},
		},
		{
			name:        "formatted file passes",
			content:     formattedSource,
			wantContain: []string{"all files are already formatted correctly"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			path := writeFile(t, dir, "db.rs", tt.content)

			out, err := execute(t, sq, append(append([]string{"check"}, tt.args...), dir)...)
			if tt.wantErr {
				require.ErrorIs(t, err, cli.ErrUnformattedFiles)
				assert.Equal(t, "1 unformatted file(s) found", err.Error())
			} else {
				require.NoError(t, err)
			}

			for _, want := range tt.wantContain {
				assert.Contains(t, out, want)
			}
			assert.Equal(t, tt.content, readFile(t, path), "check never writes")
		})
	}
}

func TestIntegration_CheckJSON(t *testing.T) {
	t.Parallel()

	sq := fakeSqruff(t)
	dir := t.TempDir()
	writeFile(t, dir, "db.rs", unformattedSource)

	out, err := execute(t, sq, "check", "--format", "json", dir)
	require.ErrorIs(t, err, cli.ErrUnformattedFiles)

	var parsed reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))

	assert.Equal(t, "check", parsed.Mode)
	require.Len(t, parsed.Files, 1)
	assert.True(t, parsed.Files[0].Changed)
	assert.Equal(t, 1, parsed.Files[0].Literals)
	assert.Equal(t, 1, parsed.Summary.FilesChanged)
	assert.Equal(t, 0, parsed.Summary.FilesWritten)
}

func TestIntegration_ConfigFile(t *testing.T) {
	t.Parallel()

	sq := fakeSqruff(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "db.rs", "fn f() {\n    custom!(\"select   1\");\n}\n")

	cfgPath := writeFile(t, dir, "sqlxfmt.yml", "macros: [custom]\n")

	_, err := execute(t, sq, "format", "--config", cfgPath, dir)
	require.NoError(t, err)
	assert.Equal(t, "fn f() {\n    custom!(\"select 1\");\n}\n", readFile(t, path))
}

func TestIntegration_InvalidConfiguration(t *testing.T) {
	t.Parallel()

	sq := fakeSqruff(t)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "empty macro list",
			args:    []string{"--macros", ""},
			wantErr: "no macros like 'query_as, sqlx::query, migrate' specified for formatting",
		},
		{
			name:    "negative indentation",
			args:    []string{"--literal-indentation", "-1"},
			wantErr: "literal_indentation",
		},
		{
			name:    "unknown format",
			args:    []string{"--format", "xml"},
			wantErr: "format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeFile(t, dir, "db.rs", unformattedSource)

			_, err := execute(t, sq, append(append([]string{"format"}, tt.args...), dir)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestIntegration_FormatterFailureLeavesLiteral(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("fake sqruff needs a POSIX shell")
	}
	broken := filepath.Join(t.TempDir(), "sqruff")
	require.NoError(t, os.WriteFile(broken, []byte("#!/bin/sh\necho boom >&2\nexit 1\n"), 0o755))

	dir := t.TempDir()
	path := writeFile(t, dir, "db.rs", unformattedSource)

	out, err := execute(t, broken, "format", dir)
	require.NoError(t, err)
	assert.Equal(t, unformattedSource, readFile(t, path))
	assert.Contains(t, out, "failed to format quoted string literal")
	assert.Contains(t, out, "boom")
}

func TestIntegration_Init(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, ".sqlxfmt.yml")

	_, err := execute(t, "", "init", "--output", target)
	require.NoError(t, err)

	cfg, err := config.FromYAML([]byte(readFile(t, target)))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultMacros, cfg.Macros)
	assert.Equal(t, config.DefaultLiteralIndentation, cfg.Indentation())

	_, err = execute(t, "", "init", "--output", target)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, "", "init", "--output", target, "--force")
	require.NoError(t, err)
}

func TestIntegration_Cache(t *testing.T) {
	t.Parallel()

	sq := fakeSqruff(t)
	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "cache")
	cfgPath := writeFile(t, dir, "sqlxfmt.yml", "cache:\n  enabled: true\n  dir: "+cacheDir+"\n")
	path := writeFile(t, dir, "src/db.rs", unformattedSource)

	_, err := execute(t, sq, "format", "--config", cfgPath, filepath.Join(dir, "src"))
	require.NoError(t, err)
	assert.Equal(t, formattedSource, readFile(t, path))
	assert.DirExists(t, cacheDir)

	out, err := execute(t, "", "cache", "path", "--config", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, cacheDir+"\n", out)

	_, err = execute(t, "", "cache", "clean", "--config", cfgPath)
	require.NoError(t, err)
	assert.NoDirExists(t, cacheDir)
}
