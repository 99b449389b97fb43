package reporter

import (
	"fmt"

	"github.com/yaklabco/sqlxfmt/pkg/config"
)

// Format represents an output format.
type Format = config.OutputFormat

// Output formats supported by the reporter.
const (
	FormatText = config.FormatText
	FormatJSON = config.FormatJSON
	FormatDiff = config.FormatDiff
)

// ParseFormat parses a format string, returning an error for unknown formats.
func ParseFormat(formatStr string) (Format, error) {
	if formatStr == "" {
		return FormatText, nil
	}
	f := Format(formatStr)
	if !f.IsValid() {
		return "", fmt.Errorf("unknown format %q; valid formats: text, json, diff", formatStr)
	}
	return f, nil
}
