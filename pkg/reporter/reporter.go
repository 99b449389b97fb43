// Package reporter renders run results as text, JSON or unified diffs.
package reporter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yaklabco/sqlxfmt/pkg/runner"
)

// Reporter formats and writes run results.
type Reporter interface {
	// Report writes formatted output for the given result.
	// It returns the number of changed files reported and any write error.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}

	switch format {
	case FormatText:
		return NewTextReporter(opts), nil
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatDiff:
		return NewDiffReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// displayPath makes path relative to workDir (or the process working
// directory) unless that needs too many parent traversals.
func displayPath(workDir, path string) string {
	if !filepath.IsAbs(path) {
		return filepath.ToSlash(path)
	}
	if workDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return filepath.ToSlash(path)
		}
		workDir = cwd
	}
	rel, err := filepath.Rel(workDir, path)
	if err != nil || strings.Count(rel, "..") > 2 {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
