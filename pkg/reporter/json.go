package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/sqlxfmt/pkg/runner"
)

// jsonSchemaVersion versions the JSON output layout.
const jsonSchemaVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Mode    string           `json:"mode"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path      string        `json:"path"`
	Changed   bool          `json:"changed"`
	Written   bool          `json:"written,omitempty"`
	Skipped   string        `json:"skipped,omitempty"`
	Literals  int           `json:"literals"`
	Formatted int           `json:"formatted"`
	Failures  []JSONFailure `json:"failures,omitempty"`
	Additions int           `json:"additions,omitempty"`
	Deletions int           `json:"deletions,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// JSONFailure is a literal the formatter could not format.
type JSONFailure struct {
	Line       int    `json:"line"`
	Column     int    `json:"column"`
	Kind       string `json:"kind"`
	Invocation string `json:"invocation"`
	Error      string `json:"error"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesChecked      int `json:"filesChecked"`
	FilesChanged      int `json:"filesChanged"`
	FilesWritten      int `json:"filesWritten"`
	FilesSkipped      int `json:"filesSkipped"`
	FilesErrored      int `json:"filesErrored"`
	LiteralsFound     int `json:"literalsFound"`
	LiteralsFormatted int `json:"literalsFormatted"`
	LiteralsFailed    int `json:"literalsFailed"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.FilesChanged, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonSchemaVersion,
		Mode:    r.opts.Mode.String(),
		Files:   make([]JSONFileResult, 0),
	}
	if result == nil {
		return output
	}

	for _, file := range result.Files {
		entry := JSONFileResult{Path: displayPath(r.opts.WorkingDir, file.Path)}

		if file.Error != nil {
			entry.Error = file.Error.Error()
			output.Files = append(output.Files, entry)
			continue
		}

		res := file.Result
		entry.Changed = res.Changed
		entry.Written = res.Written
		entry.Skipped = res.SkipReason
		entry.Literals = res.Occurrences
		entry.Formatted = res.Formatted
		if res.Diff != nil {
			entry.Additions = res.Diff.Additions
			entry.Deletions = res.Diff.Deletions
		}
		for _, failure := range res.Failures {
			occ := failure.Occurrence
			entry.Failures = append(entry.Failures, JSONFailure{
				Line:       occ.Line(),
				Column:     occ.Start.Column + 1,
				Kind:       occ.Kind.String(),
				Invocation: occ.Invocation,
				Error:      failure.Err.Error(),
			})
		}

		output.Files = append(output.Files, entry)
	}

	stats := result.Stats
	output.Summary = JSONSummary{
		FilesChecked:      stats.FilesProcessed,
		FilesChanged:      stats.FilesChanged,
		FilesWritten:      stats.FilesWritten,
		FilesSkipped:      stats.FilesSkipped,
		FilesErrored:      stats.FilesErrored,
		LiteralsFound:     stats.LiteralsFound,
		LiteralsFormatted: stats.LiteralsFormatted,
		LiteralsFailed:    stats.LiteralsFailed,
	}

	return output
}
