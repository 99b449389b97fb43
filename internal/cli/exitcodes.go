package cli

import (
	"errors"

	"github.com/yaklabco/sqlxfmt/pkg/pipeline"
	"github.com/yaklabco/sqlxfmt/pkg/runner"
)

// Exit codes for sqlxfmt.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitUnformatted indicates check found files that would change.
	ExitUnformatted = 1

	// ExitFileErrors indicates some files could not be processed.
	ExitFileErrors = 2
)

var (
	// ErrUnformattedFiles is returned by check when files would change.
	ErrUnformattedFiles = errors.New("unformatted file(s) found")

	// ErrFilesFailed is returned when some files could not be processed.
	ErrFilesFailed = errors.New("file(s) could not be processed")
)

// ExitCodeFromResult determines the exit code of a run.
func ExitCodeFromResult(result *runner.Result, mode pipeline.Mode, failOnUnformatted bool) int {
	if result == nil {
		return ExitSuccess
	}

	if result.Stats.FilesErrored > 0 {
		return ExitFileErrors
	}

	if mode == pipeline.ModeCheck && failOnUnformatted && result.Stats.FilesChanged > 0 {
		return ExitUnformatted
	}

	return ExitSuccess
}
