package rsast

// NodeKind classifies a syntax node by the role it plays for literal rewriting.
type NodeKind uint8

// Node kinds.
const (
	// NodeSourceFile is the root of a document.
	NodeSourceFile NodeKind = iota

	// NodeInvocation is a macro invocation; Name holds its path text.
	NodeInvocation

	// NodeTokenTree is a delimited argument group of an invocation.
	NodeTokenTree

	// NodeRawString is a raw string literal such as r#"..."#.
	NodeRawString

	// NodeString is a quoted string literal.
	NodeString

	// NodeOther is any node without special meaning.
	NodeOther
)

var nodeKindNames = [...]string{
	NodeSourceFile: "SourceFile",
	NodeInvocation: "Invocation",
	NodeTokenTree:  "TokenTree",
	NodeRawString:  "RawString",
	NodeString:     "String",
	NodeOther:      "Other",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "Unknown"
}

// IsLiteral returns true for raw and quoted string literal kinds.
func (k NodeKind) IsLiteral() bool {
	return k == NodeRawString || k == NodeString
}

// Node is a single syntax node.
// Nodes form a tree with parent/child/sibling links.
type Node struct {
	// Kind identifies what role this node plays.
	Kind NodeKind

	// Type is the grammar's node type name (e.g. "macro_invocation").
	Type string

	// Range is the byte span of the node in Tree.Content.
	Range SourceRange

	// Start is the 0-based line and byte column of Range.StartOffset.
	Start Point

	// Name is the invocation path text, without the trailing '!'.
	// Empty for every kind other than NodeInvocation.
	Name string

	// Tree structure pointers.
	Parent     *Node
	FirstChild *Node
	LastChild  *Node
	Prev       *Node
	Next       *Node
}

// HasChildren returns true if this node has any children.
func (n *Node) HasChildren() bool {
	return n.FirstChild != nil
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	count := 0
	for child := n.FirstChild; child != nil; child = child.Next {
		count++
	}
	return count
}

// Children returns a slice of all direct children.
func (n *Node) Children() []*Node {
	var children []*Node
	for child := n.FirstChild; child != nil; child = child.Next {
		children = append(children, child)
	}
	return children
}

// FirstChildOfKind returns the first direct child of the given kind, or nil.
func (n *Node) FirstChildOfKind(kind NodeKind) *Node {
	for child := n.FirstChild; child != nil; child = child.Next {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}
