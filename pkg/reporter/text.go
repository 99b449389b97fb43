package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/sqlxfmt/internal/ui/pretty"
	"github.com/yaklabco/sqlxfmt/pkg/runner"
)

// TextReporter writes one status line per changed file, literal failures,
// optional diffs and a one-line summary.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		return 0, nil
	}

	var changed int
	for _, file := range result.Files {
		path := displayPath(r.opts.WorkingDir, file.Path)

		if file.Error != nil {
			fmt.Fprint(r.bw, r.styles.FormatError(path, file.Error))
			continue
		}

		res := file.Result
		for _, failure := range res.Failures {
			fmt.Fprint(r.bw, r.styles.FormatFailure(path, failure))
		}

		if !res.Changed {
			continue
		}
		changed++
		fmt.Fprint(r.bw, r.styles.FormatStatus(path, res))

		if res.Diff.HasChanges() {
			writeDiff(r.bw, r.styles, path, res.Diff)
		}
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats, r.opts.Mode))
	}

	return changed, nil
}
