package rewrite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/sqlxfmt/pkg/rsast"
)

// ErrMalformedLiteral is returned when a literal node's text does not have the
// delimiters its kind requires.
var ErrMalformedLiteral = errors.New("malformed string literal")

// LiteralKind distinguishes raw from quoted string literals.
type LiteralKind uint8

const (
	// LiteralRaw is a hash-delimited raw literal: r"..", r#".."#, r##".."##, ...
	LiteralRaw LiteralKind = iota

	// LiteralQuoted is a plain "..." literal.
	LiteralQuoted
)

func (k LiteralKind) String() string {
	if k == LiteralRaw {
		return "raw"
	}
	return "quoted"
}

// Occurrence is one literal found inside a matched invocation.
type Occurrence struct {
	// Kind is raw or quoted.
	Kind LiteralKind

	// Prefix holds the literal's leading letters ("r", "br", "b", ...).
	Prefix string

	// Hashes is the number of '#' delimiter markers of a raw literal.
	Hashes int

	// Range is the literal's byte span in the original document.
	Range rsast.SourceRange

	// Start is the 0-based line and column of the literal's first byte.
	Start rsast.Point

	// LineCount is the number of lines the unquoted text spans.
	LineCount int

	// Source is the literal exactly as written.
	Source string

	// Text is the unquoted content.
	Text string

	// Invocation is the name of the matched invocation.
	Invocation string
}

// Line returns the 1-based line of the literal, for reporting.
func (o *Occurrence) Line() int {
	return o.Start.Line + 1
}

// newOccurrence unquotes a literal node of tree.
func newOccurrence(tree *rsast.Tree, node *rsast.Node, invocation string) (Occurrence, error) {
	occ := Occurrence{
		Range:      node.Range,
		Start:      node.Start,
		Source:     string(tree.Text(node)),
		Invocation: invocation,
	}

	var err error
	switch node.Kind {
	case rsast.NodeRawString:
		occ.Kind = LiteralRaw
		occ.Prefix, occ.Hashes, occ.Text, err = unquoteRaw(occ.Source)
	case rsast.NodeString:
		occ.Kind = LiteralQuoted
		occ.Prefix, occ.Text, err = unquoteQuoted(occ.Source)
	default:
		err = fmt.Errorf("%w: node kind %s", ErrMalformedLiteral, node.Kind)
	}
	if err != nil {
		return Occurrence{}, err
	}

	occ.LineCount = countLines(occ.Text)
	return occ, nil
}

// literalPrefix returns the ASCII letters before the first '#' or '"'.
func literalPrefix(lit string) string {
	i := strings.IndexFunc(lit, func(r rune) bool {
		return r < 'a' || r > 'z'
	})
	if i < 0 {
		return lit
	}
	return lit[:i]
}

// unquoteRaw splits a raw literal into its prefix, hash count and content.
// The content is everything strictly between `prefix #*N "` and `" #*N`.
func unquoteRaw(lit string) (string, int, string, error) {
	prefix := literalPrefix(lit)
	if !strings.HasSuffix(prefix, "r") {
		return "", 0, "", fmt.Errorf("%w: raw literal %q has no r prefix", ErrMalformedLiteral, lit)
	}

	rest := lit[len(prefix):]
	hashes := strings.IndexByte(rest, '"')
	if hashes < 0 || strings.Trim(rest[:hashes], "#") != "" {
		return "", 0, "", fmt.Errorf("%w: raw literal %q has no opening quote", ErrMalformedLiteral, lit)
	}

	closing := `"` + strings.Repeat("#", hashes)
	if len(rest) < 2*hashes+2 || !strings.HasSuffix(rest, closing) {
		return "", 0, "", fmt.Errorf("%w: raw literal %q is not closed", ErrMalformedLiteral, lit)
	}

	return prefix, hashes, rest[hashes+1 : len(rest)-len(closing)], nil
}

// unquoteQuoted strips the enclosing quote pair. Escapes are not decoded.
func unquoteQuoted(lit string) (string, string, error) {
	prefix := literalPrefix(lit)
	rest := lit[len(prefix):]
	if len(rest) < 2 || rest[0] != '"' || rest[len(rest)-1] != '"' {
		return "", "", fmt.Errorf("%w: string literal %q is not quoted", ErrMalformedLiteral, lit)
	}
	return prefix, rest[1 : len(rest)-1], nil
}
