package rsast

// NewNode creates a detached node of the specified kind.
func NewNode(kind NodeKind) *Node {
	return &Node{Kind: kind}
}

// NewInvocation creates an invocation node with the given path name.
func NewInvocation(name string) *Node {
	return &Node{Kind: NodeInvocation, Type: "macro_invocation", Name: name}
}

// AppendChild appends a child node to a parent.
// A child already attached elsewhere is moved.
func AppendChild(parent, child *Node) {
	if parent == nil || child == nil {
		return
	}

	if child.Parent != nil {
		RemoveChild(child.Parent, child)
	}

	child.Parent = parent
	child.Prev = parent.LastChild
	child.Next = nil

	if parent.LastChild != nil {
		parent.LastChild.Next = child
	} else {
		parent.FirstChild = child
	}

	parent.LastChild = child
}

// RemoveChild detaches child from parent.
// It is a no-op if child does not belong to parent.
func RemoveChild(parent, child *Node) {
	if parent == nil || child == nil || child.Parent != parent {
		return
	}

	if child.Prev != nil {
		child.Prev.Next = child.Next
	} else {
		parent.FirstChild = child.Next
	}

	if child.Next != nil {
		child.Next.Prev = child.Prev
	} else {
		parent.LastChild = child.Prev
	}

	child.Parent = nil
	child.Prev = nil
	child.Next = nil
}
