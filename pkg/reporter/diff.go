package reporter

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/yaklabco/sqlxfmt/internal/ui/pretty"
	"github.com/yaklabco/sqlxfmt/pkg/fix"
	"github.com/yaklabco/sqlxfmt/pkg/runner"
)

// DiffReporter formats pending changes as git-style unified diffs.
type DiffReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewDiffReporter creates a new diff reporter.
func NewDiffReporter(opts Options) *DiffReporter {
	return &DiffReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *DiffReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		return 0, nil
	}

	var files, additions, deletions int

	for _, file := range result.Files {
		path := displayPath(r.opts.WorkingDir, file.Path)

		if file.Error != nil {
			fmt.Fprint(r.bw, r.styles.FormatError(path, file.Error))
			continue
		}
		if !file.Result.Diff.HasChanges() {
			continue
		}

		files++
		additions += file.Result.Diff.Additions
		deletions += file.Result.Diff.Deletions
		writeDiff(r.bw, r.styles, path, file.Result.Diff)
	}

	if files > 0 && r.opts.ShowSummary {
		r.writeSummary(files, additions, deletions)
	}

	return files, nil
}

// writeDiff writes one file's diff, replacing the ---/+++ header so it
// shows display paths.
func writeDiff(w io.Writer, styles *pretty.Styles, path string, diff *fix.Diff) {
	fmt.Fprintln(w, styles.DiffHeader.Render(fmt.Sprintf("diff --git a/%s b/%s", path, path)))
	fmt.Fprintln(w, styles.DiffRemove.Render("--- a/"+path))
	fmt.Fprintln(w, styles.DiffAdd.Render("+++ b/"+path))

	lines := strings.Split(strings.TrimSuffix(diff.String(), "\n"), "\n")
	for _, line := range lines[min(2, len(lines)):] {
		var styled string
		switch {
		case strings.HasPrefix(line, "@@"):
			styled = styles.DiffHunk.Render(line)
		case strings.HasPrefix(line, "+"):
			styled = styles.DiffAdd.Render(line)
		case strings.HasPrefix(line, "-"):
			styled = styles.DiffRemove.Render(line)
		default:
			styled = styles.DiffContext.Render(line)
		}
		fmt.Fprintln(w, styled)
	}
}

func (r *DiffReporter) writeSummary(files, additions, deletions int) {
	parts := []string{pretty.Plural(files, "file") + " changed"}
	if additions > 0 {
		parts = append(parts, r.styles.DiffAdd.Render(fmt.Sprintf("%s(+)", pretty.Plural(additions, "insertion"))))
	}
	if deletions > 0 {
		parts = append(parts, r.styles.DiffRemove.Render(fmt.Sprintf("%s(-)", pretty.Plural(deletions, "deletion"))))
	}
	fmt.Fprintln(r.bw, strings.Join(parts, ", "))
}
