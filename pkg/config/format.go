package config

// OutputFormat specifies the report format.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatDiff OutputFormat = "diff"
)

// OutputFormats lists the supported formats.
func OutputFormats() []OutputFormat {
	return []OutputFormat{FormatText, FormatJSON, FormatDiff}
}

// IsValid returns true if the format is supported.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatDiff:
		return true
	default:
		return false
	}
}
