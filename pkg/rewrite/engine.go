// Package rewrite formats the SQL held in string literals of sqlx macro
// invocations.
//
// A rewrite is two-phase: a read-only walk over the syntax tree collects one
// edit per successfully formatted literal, then all edits are spliced into a
// copy of the original document from the highest offset down.
package rewrite

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/sqlxfmt/internal/logging"
	"github.com/yaklabco/sqlxfmt/pkg/fix"
	"github.com/yaklabco/sqlxfmt/pkg/parser/treesitter"
)

// ErrParse wraps structural failures: no syntax tree could be built.
var ErrParse = errors.New("parse failed")

// DefaultLiteralIndentation is the extra indent of continuation lines.
const DefaultLiteralIndentation = 4

// Options configures an Engine.
type Options struct {
	// LiteralIndentation is added to a literal's start column to indent the
	// lines of a multi-line raw literal. Negative values are treated as 0.
	LiteralIndentation int

	// Macros selects the invocations whose literals are rewritten.
	Macros MacroSet

	// QuotedAsRaw is the raw flag passed to the Formatter for quoted literals.
	QuotedAsRaw bool

	// Logger receives per-literal failures. When nil, the logger attached to
	// the context (or the default logger) is used.
	Logger *log.Logger
}

// DefaultOptions returns options with the default macros and indentation.
func DefaultOptions() Options {
	return Options{
		LiteralIndentation: DefaultLiteralIndentation,
		Macros:             DefaultMacroSet(),
		QuotedAsRaw:        true,
	}
}

// Failure records a literal the Formatter could not format.
type Failure struct {
	Occurrence Occurrence
	Err        error
}

func (f Failure) Error() string {
	return fmt.Sprintf("line %d: %s: %v", f.Occurrence.Line(), f.Occurrence.Invocation, f.Err)
}

// Result is the outcome of rewriting one document.
type Result struct {
	// Content is the rewritten document. It equals the input when nothing
	// changed.
	Content []byte

	// Occurrences lists every literal found in matched invocations.
	Occurrences []Occurrence

	// Edits holds one edit per formatted literal, sorted by offset.
	// Edits whose replacement equals the original are omitted.
	Edits []fix.TextEdit

	// Formatted counts literals the Formatter succeeded on.
	Formatted int

	// Failures lists literals that were left untouched because formatting
	// failed or the literal could not be unquoted.
	Failures []Failure

	// HasSyntaxErrors reports that the parser recovered from errors.
	HasSyntaxErrors bool
}

// Changed returns true if the rewritten content differs from the input.
func (r *Result) Changed() bool {
	return len(r.Edits) > 0
}

// Engine rewrites SQL literals in Rust documents.
// An Engine holds no per-document state and may be shared across goroutines
// if its Parser and Formatter can.
type Engine struct {
	// Parser builds syntax trees.
	Parser Parser

	// Formatter formats literal text.
	Formatter Formatter

	// Options controls matching and layout.
	Options Options
}

// NewEngine creates an Engine.
func NewEngine(parser Parser, formatter Formatter, opts Options) *Engine {
	return &Engine{
		Parser:    parser,
		Formatter: formatter,
		Options:   opts,
	}
}

// Rewrite formats every matched literal in content.
//
// It fails only when no syntax tree can be built (ErrParse) or when the
// collected edits overlap. A literal the Formatter rejects is logged, recorded
// in Result.Failures and left byte-for-byte unchanged.
func (e *Engine) Rewrite(ctx context.Context, path string, content []byte) (*Result, error) {
	tree, err := e.Parser.Parse(ctx, path, content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	logger := e.Options.Logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}
	if path != "" {
		logger = logger.With(logging.FieldPath, path)
	}

	if tree.HasErrors {
		logger.Warn("source has syntax errors, formatting recovered invocations only")
	}

	result := &Result{
		Content:         content,
		HasSyntaxErrors: tree.HasErrors,
	}

	builder := fix.NewEditBuilder()

	for _, cand := range collectCandidates(tree.Root, e.Options.Macros) {
		occ, err := newOccurrence(tree, cand.node, cand.invocation)
		if err != nil {
			logger.Error("failed to read string literal",
				logging.FieldLiteral, string(tree.Text(cand.node)),
				logging.FieldError, err)
			result.Failures = append(result.Failures, Failure{
				Occurrence: Occurrence{Range: cand.node.Range, Start: cand.node.Start, Invocation: cand.invocation},
				Err:        err,
			})
			continue
		}
		result.Occurrences = append(result.Occurrences, occ)

		raw := occ.Kind == LiteralRaw || e.Options.QuotedAsRaw

		formatted, err := e.Formatter.Format(ctx, occ.Text, raw)
		if err != nil {
			logger.Error(fmt.Sprintf("failed to format %s string literal", occ.Kind),
				logging.FieldLiteral, occ.Source,
				logging.FieldError, err)
			result.Failures = append(result.Failures, Failure{Occurrence: occ, Err: err})
			continue
		}
		result.Formatted++

		replacement, shape := Reconstruct(&occ, formatted, e.Options.LiteralIndentation)
		logger.Debug("formatted literal",
			logging.FieldLine, occ.Line(),
			logging.FieldInvocation, occ.Invocation,
			logging.FieldShape, shape)

		if replacement == occ.Source {
			continue
		}
		builder.ReplaceRange(occ.Range.StartOffset, occ.Range.EndOffset, replacement)
	}

	edits, err := fix.PrepareEdits(builder.Edits, len(content))
	if err != nil {
		return nil, fmt.Errorf("collecting literal edits: %w", err)
	}

	result.Edits = edits
	result.Content = fix.ApplyEdits(content, edits)

	return result, nil
}

// Rewrite formats the SQL literals of the given macros in text with the
// tree-sitter Rust parser. It performs no file I/O.
func Rewrite(
	ctx context.Context,
	text string,
	literalIndentation int,
	macros MacroSet,
	formatter Formatter,
) (string, error) {
	opts := DefaultOptions()
	opts.LiteralIndentation = literalIndentation
	opts.Macros = macros

	engine := NewEngine(treesitter.New(), formatter, opts)

	result, err := engine.Rewrite(ctx, "", []byte(text))
	if err != nil {
		return "", err
	}
	return string(result.Content), nil
}
