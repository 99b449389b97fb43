package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/sqlxfmt/pkg/runner"
)

func relPaths(t *testing.T, root string, files []string) []string {
	t.Helper()
	out := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"src/main.rs":                "",
		"src/db/queries.rs":          "",
		"src/db/schema.generated.rs": "",
		"src/README.md":              "",
		"docs/guide.markdown":        "",
		"target/debug/build.rs":      "",
		".hidden/x.rs":               "",
		"src/.scratch.rs":            "",
		"vendor/dep/lib.rs":          "",
		"Cargo.toml":                 "",
	})

	tests := []struct {
		name string
		opts runner.Options
		want []string
	}{
		{
			name: "rust files by default",
			opts: runner.Options{},
			want: []string{
				"src/db/queries.rs",
				"src/db/schema.generated.rs",
				"src/main.rs",
				"vendor/dep/lib.rs",
			},
		},
		{
			name: "markdown enabled",
			opts: runner.Options{
				Extensions: append(runner.RustExtensions(), runner.MarkdownExtensions()...),
				Paths:      []string{"src", "docs"},
			},
			want: []string{
				"docs/guide.markdown",
				"src/README.md",
				"src/db/queries.rs",
				"src/db/schema.generated.rs",
				"src/main.rs",
			},
		},
		{
			name: "ignore globs",
			opts: runner.Options{ExcludeGlobs: []string{"vendor/**", "*.generated.rs"}},
			want: []string{"src/db/queries.rs", "src/main.rs"},
		},
		{
			name: "double star in the middle",
			opts: runner.Options{ExcludeGlobs: []string{"src/**/queries.rs"}},
			want: []string{
				"src/db/schema.generated.rs",
				"src/main.rs",
				"vendor/dep/lib.rs",
			},
		},
		{
			name: "explicit file in skipped directory",
			opts: runner.Options{Paths: []string{"target/debug/build.rs", "src/main.rs", "src/main.rs"}},
			want: []string{"src/main.rs", "target/debug/build.rs"},
		},
		{
			name: "explicit non-rust file is ignored",
			opts: runner.Options{Paths: []string{"Cargo.toml"}},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := tt.opts
			opts.WorkingDir = root

			files, err := runner.Discover(context.Background(), opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, relPaths(t, root, files))
		})
	}
}

func TestDiscover_Errors(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	_, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir: root,
		Paths:      []string{"missing"},
	})
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = runner.Discover(context.Background(), runner.Options{
		WorkingDir:   root,
		ExcludeGlobs: []string{"[unclosed"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid ignore pattern")
}

func TestDiscover_FollowSymlinks(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{"real/lib.rs": ""})
	outside := writeTree(t, map[string]string{"linked.rs": ""})
	if err := os.Symlink(outside, filepath.Join(root, "link")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: root})
	require.NoError(t, err)
	assert.Len(t, files, 1)

	files, err = runner.Discover(context.Background(), runner.Options{WorkingDir: root, FollowSymlinks: true})
	require.NoError(t, err)
	assert.Len(t, files, 2)
}
