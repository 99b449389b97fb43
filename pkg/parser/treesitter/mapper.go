package treesitter

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/yaklabco/sqlxfmt/pkg/rsast"
)

// Grammar node type names used by the mapper.
const (
	typeSourceFile      = "source_file"
	typeMacroInvocation = "macro_invocation"
	typeTokenTree       = "token_tree"
	typeRawString       = "raw_string_literal"
	typeString          = "string_literal"
	typeIdentifier      = "identifier"
	typePathSeparator   = "::"
	typeBang            = "!"
)

// mapper converts tree-sitter nodes into rsast nodes.
type mapper struct {
	content []byte
}

func newMapper(content []byte) *mapper {
	return &mapper{content: content}
}

func kindOf(nodeType string) rsast.NodeKind {
	switch nodeType {
	case typeSourceFile:
		return rsast.NodeSourceFile
	case typeMacroInvocation:
		return rsast.NodeInvocation
	case typeTokenTree:
		return rsast.NodeTokenTree
	case typeRawString:
		return rsast.NodeRawString
	case typeString:
		return rsast.NodeString
	default:
		return rsast.NodeOther
	}
}

// mapNode converts n and its subtree.
func (m *mapper) mapNode(n *sitter.Node) *rsast.Node {
	node := &rsast.Node{
		Kind: kindOf(n.Type()),
		Type: n.Type(),
		Range: rsast.SourceRange{
			StartOffset: int(n.StartByte()),
			EndOffset:   int(n.EndByte()),
		},
		Start: rsast.Point{
			Line:   int(n.StartPoint().Row),
			Column: int(n.StartPoint().Column),
		},
	}

	// Literal internals (string_content, escape_sequence) are never needed.
	if node.Kind.IsLiteral() {
		return node
	}

	if node.Kind == rsast.NodeInvocation {
		if name := n.ChildByFieldName("macro"); name != nil {
			node.Name = normalizePath(name.Content(m.content))
		}
	}

	children := make([]*rsast.Node, 0, n.ChildCount())
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		children = append(children, m.mapNode(child))
	}

	// Inside a token tree the grammar keeps nested macro calls as flat
	// tokens; fold them back into invocation nodes.
	if node.Kind == rsast.NodeTokenTree {
		children = m.foldInvocations(children)
	}

	for _, child := range children {
		rsast.AppendChild(node, child)
	}

	return node
}

// foldInvocations replaces each run `ident (:: ident)* ! token_tree` in a
// token tree's children with a single invocation node owning those tokens.
func (m *mapper) foldInvocations(tokens []*rsast.Node) []*rsast.Node {
	out := make([]*rsast.Node, 0, len(tokens))

	for i := 0; i < len(tokens); i++ {
		end, ok := invocationEnd(tokens, i)
		if !ok {
			out = append(out, tokens[i])
			continue
		}

		inv := rsast.NewInvocation("")
		inv.Range = rsast.SourceRange{
			StartOffset: tokens[i].Range.StartOffset,
			EndOffset:   tokens[end].Range.EndOffset,
		}
		inv.Start = tokens[i].Start

		var parts []string
		for j := i; j <= end; j++ {
			if tokens[j].Type == typeIdentifier {
				parts = append(parts, string(m.content[tokens[j].Range.StartOffset:tokens[j].Range.EndOffset]))
			}
			rsast.AppendChild(inv, tokens[j])
		}
		inv.Name = strings.Join(parts, "::")

		out = append(out, inv)
		i = end
	}

	return out
}

// invocationEnd reports whether tokens[start:] begins with a macro call and
// returns the index of its argument token tree.
func invocationEnd(tokens []*rsast.Node, start int) (int, bool) {
	if tokens[start].Type != typeIdentifier {
		return 0, false
	}

	i := start + 1
	for i+1 < len(tokens) && tokens[i].Type == typePathSeparator && tokens[i+1].Type == typeIdentifier {
		i += 2
	}

	if i+1 < len(tokens) && tokens[i].Type == typeBang && tokens[i+1].Kind == rsast.NodeTokenTree {
		return i + 1, true
	}
	return 0, false
}

// normalizePath removes whitespace from a macro path such as "sqlx :: query".
func normalizePath(path string) string {
	return strings.Join(strings.Fields(path), "")
}
