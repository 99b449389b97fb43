package rewrite

import (
	"strings"
)

// Shape classifies how a literal's layout changes when it is rebuilt.
type Shape uint8

const (
	// ShapeInline is a raw literal whose formatted text fits on one line.
	ShapeInline Shape = iota

	// ShapeSingleToMany is a one-line raw literal that expands to several lines.
	ShapeSingleToMany

	// ShapeManyToMany is a multi-line raw literal that stays multi-line.
	ShapeManyToMany

	// ShapeFlattened is a quoted literal, always rebuilt on one line.
	ShapeFlattened
)

func (s Shape) String() string {
	switch s {
	case ShapeInline:
		return "inline"
	case ShapeSingleToMany:
		return "single-to-many"
	case ShapeManyToMany:
		return "many-to-many"
	case ShapeFlattened:
		return "flattened"
	default:
		return "unknown"
	}
}

// classify picks the raw-literal shape from the original line count and the
// formatted line count.
func classify(original, formatted int) Shape {
	switch {
	case formatted <= 1:
		return ShapeInline
	case original <= 1:
		return ShapeSingleToMany
	default:
		return ShapeManyToMany
	}
}

// Reconstruct rebuilds the source text of occ around formatted.
// Continuation lines of a multi-line raw literal are indented to the
// literal's start column plus indentation; the closing delimiter sits at the
// start column.
func Reconstruct(occ *Occurrence, formatted string, indentation int) (string, Shape) {
	if occ.Kind == LiteralQuoted {
		return reconstructQuoted(occ, formatted), ShapeFlattened
	}

	hashes := strings.Repeat("#", occ.Hashes)
	open := occ.Prefix + hashes + `"`
	closing := `"` + hashes

	lines := splitLines(formatted)
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	shape := classify(occ.LineCount, len(lines))
	if shape == ShapeInline {
		return open + strings.TrimSpace(formatted) + closing, shape
	}

	pad := strings.Repeat(" ", occ.Start.Column+max(indentation, 0))

	var b strings.Builder
	b.WriteString(open)
	b.WriteByte('\n')
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		line = strings.TrimRight(line, " \t")
		if line != "" {
			b.WriteString(pad)
			b.WriteString(line)
		}
	}
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", occ.Start.Column))
	b.WriteString(closing)

	return b.String(), shape
}

// reconstructQuoted trims every formatted line and joins them with single
// spaces. Quoted literals cannot hold raw newlines.
func reconstructQuoted(occ *Occurrence, formatted string) string {
	lines := splitLines(formatted)
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return occ.Prefix + `"` + strings.Join(lines, " ") + `"`
}
