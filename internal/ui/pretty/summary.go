package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/sqlxfmt/pkg/pipeline"
	"github.com/yaklabco/sqlxfmt/pkg/rewrite"
	"github.com/yaklabco/sqlxfmt/pkg/runner"
)

// Plural returns "<n> <word>" with an "s" appended unless n is 1.
func Plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// FormatStatus formats the status line of one processed file, e.g.
// "formatted: src/db.rs". It returns "" for files that need no line.
func (s *Styles) FormatStatus(path string, res *pipeline.Result) string {
	switch {
	case res == nil:
		return ""
	case res.Skipped:
		return s.Skipped.Render("skipped:") + " " + s.FilePath.Render(path) +
			s.Dim.Render(" ("+res.SkipReason+")") + "\n"
	case res.Written:
		return s.Formatted.Render("formatted:") + " " + s.FilePath.Render(path) + "\n"
	case res.Changed:
		return s.Unformatted.Render("unformatted:") + " " + s.FilePath.Render(path) + "\n"
	default:
		return ""
	}
}

// FormatFailure formats a literal the formatter could not handle.
func (s *Styles) FormatFailure(path string, failure rewrite.Failure) string {
	occ := failure.Occurrence
	location := fmt.Sprintf("%s:%d:%d", path, occ.Line(), occ.Start.Column+1)
	return s.Location.Render(location) + " " +
		s.Warning.Render(fmt.Sprintf("failed to format %s string literal", occ.Kind)) +
		": " + failure.Err.Error() + "\n"
}

// FormatError formats a file that could not be processed.
func (s *Styles) FormatError(path string, err error) string {
	return s.FilePath.Render(path) + ": " + s.Error.Render(fmt.Sprintf("error: %v", err)) + "\n"
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "formatted 2 files (14 files checked, 31 literals)".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats, mode pipeline.Mode) string {
	detail := s.Dim.Render(fmt.Sprintf(" (%s checked, %s)",
		Plural(stats.FilesProcessed, "file"), Plural(stats.LiteralsFound, "literal")))

	var parts []string
	switch {
	case stats.FilesChanged == 0:
		parts = append(parts, s.Success.Render("all files are already formatted correctly")+detail)
	case mode == pipeline.ModeCheck || stats.FilesWritten < stats.FilesChanged-stats.FilesSkipped:
		parts = append(parts, s.Failure.Render(Plural(stats.FilesChanged, "unformatted file")+" found")+detail)
	default:
		parts = append(parts, s.Success.Render("formatted "+Plural(stats.FilesWritten, "file"))+detail)
	}

	if stats.FilesSkipped > 0 {
		parts = append(parts, s.Warning.Render(Plural(stats.FilesSkipped, "file")+" skipped"))
	}
	if stats.LiteralsFailed > 0 {
		parts = append(parts, s.Warning.Render(Plural(stats.LiteralsFailed, "literal")+" failed to format"))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Error.Render(Plural(stats.FilesErrored, "file")+" errored"))
	}

	return strings.Join(parts, ", ") + "\n"
}
