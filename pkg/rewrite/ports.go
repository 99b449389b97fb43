package rewrite

import (
	"context"

	"github.com/yaklabco/sqlxfmt/pkg/rsast"
)

// Parser parses Rust source into a syntax tree.
//
// Implementations (e.g. parser/treesitter) must:
//   - return an error, and no tree, when no tree can be built at all,
//   - produce NodeInvocation nodes with Name set, including invocations
//     nested inside another invocation's argument group,
//   - leave content unmodified.
type Parser interface {
	Parse(ctx context.Context, path string, content []byte) (*rsast.Tree, error)
}

// Formatter formats the SQL text of one literal.
//
// raw reports whether the text came from a raw literal, or from a quoted
// literal that is configured to be formatted like one.
// A returned error affects only the literal being formatted.
type Formatter interface {
	Format(ctx context.Context, content string, raw bool) (string, error)
}

// FormatterFunc adapts a function to the Formatter interface.
type FormatterFunc func(ctx context.Context, content string, raw bool) (string, error)

// Format calls f.
func (f FormatterFunc) Format(ctx context.Context, content string, raw bool) (string, error) {
	return f(ctx, content, raw)
}
