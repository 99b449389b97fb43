// Package treesitter provides a Rust Parser implementation using tree-sitter.
package treesitter

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"

	"github.com/yaklabco/sqlxfmt/pkg/rsast"
)

// ErrInvalidUTF8 is returned for content that is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("content is not valid UTF-8")

// ErrNoTree is returned when tree-sitter produces no tree.
var ErrNoTree = errors.New("parser produced no syntax tree")

// Parser implements rewrite.Parser with the tree-sitter Rust grammar.
// A tree-sitter parser is not safe for concurrent use, so each Parse call
// creates its own; a Parser value may be shared freely.
type Parser struct {
	language *sitter.Language
}

// New creates a Rust parser.
func New() *Parser {
	return &Parser{language: rust.GetLanguage()}
}

// Parse builds an rsast.Tree from Rust source.
//
// Syntax errors do not fail the parse: tree-sitter recovers and the tree is
// returned with HasErrors set. Invalid UTF-8, cancellation, and a missing
// tree are returned as errors.
func (p *Parser) Parse(ctx context.Context, path string, content []byte) (*rsast.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	if !utf8.Valid(content) {
		return nil, ErrInvalidUTF8
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(p.language)

	tsTree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter: %w", err)
	}
	if tsTree == nil {
		return nil, ErrNoTree
	}
	defer tsTree.Close()

	tsRoot := tsTree.RootNode()
	if tsRoot == nil {
		return nil, ErrNoTree
	}

	m := newMapper(content)
	tree := rsast.NewTree(path, content, m.mapNode(tsRoot))
	tree.HasErrors = tsRoot.HasError()

	return tree, nil
}
