// Package rsast provides a small, immutable syntax tree for Rust source files.
// It holds only what the literal rewriter needs:
// - Tree: the parsed content and its root node
// - Node: a tagged node with a byte range, start point and children
// - Walk helpers for pre-order traversal
package rsast

// Tree is the result of parsing one Rust document.
// The tree is never mutated after construction; rewrites are expressed as
// edits against Content.
type Tree struct {
	// Path is the file path (may be empty for in-memory content).
	Path string

	// Content is the full source bytes the tree was built from.
	Content []byte

	// Root is the source file node.
	Root *Node

	// HasErrors reports whether the parser recovered from syntax errors.
	// Recovered trees are still walked.
	HasErrors bool
}

// NewTree creates a tree over content with the given root.
func NewTree(path string, content []byte, root *Node) *Tree {
	return &Tree{
		Path:    path,
		Content: content,
		Root:    root,
	}
}

// Text returns the source bytes covered by n.
// Returns nil if n lies outside the tree's content.
func (t *Tree) Text(n *Node) []byte {
	if t == nil || n == nil {
		return nil
	}

	r := n.Range
	if r.StartOffset < 0 || r.EndOffset > len(t.Content) || r.StartOffset > r.EndOffset {
		return nil
	}

	return t.Content[r.StartOffset:r.EndOffset]
}
