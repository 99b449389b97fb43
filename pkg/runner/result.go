package runner

import "github.com/yaklabco/sqlxfmt/pkg/pipeline"

// FileOutcome is the result of processing one file.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Result is nil if the file could not be processed.
	Result *pipeline.Result

	// Error is set if the file could not be processed.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int

	// FilesChanged counts files whose content would change (or did).
	FilesChanged int
	FilesWritten int

	// FilesSkipped counts files not written due to concurrent modification.
	FilesSkipped int
	FilesErrored int

	LiteralsFound     int
	LiteralsFormatted int
	LiteralsFailed    int
}

// Result is the overall runner result.
type Result struct {
	// Files holds one outcome per processed file, sorted by path.
	Files []FileOutcome

	Stats Stats
}

// Changed returns the outcomes of files whose content changed.
func (r *Result) Changed() []FileOutcome {
	var changed []FileOutcome
	for _, f := range r.Files {
		if f.Result != nil && f.Result.Changed {
			changed = append(changed, f)
		}
	}
	return changed
}

// Errored returns the outcomes of files that failed.
func (r *Result) Errored() []FileOutcome {
	var failed []FileOutcome
	for _, f := range r.Files {
		if f.Error != nil {
			failed = append(failed, f)
		}
	}
	return failed
}

// HasErrors reports whether any file could not be processed.
func (r *Result) HasErrors() bool {
	return r != nil && r.Stats.FilesErrored > 0
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}

	res := outcome.Result
	r.Stats.FilesProcessed++
	r.Stats.LiteralsFound += res.Occurrences
	r.Stats.LiteralsFormatted += res.Formatted
	r.Stats.LiteralsFailed += len(res.Failures)

	if res.Changed {
		r.Stats.FilesChanged++
	}
	if res.Written {
		r.Stats.FilesWritten++
	}
	if res.Skipped {
		r.Stats.FilesSkipped++
	}
}
