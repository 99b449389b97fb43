package rewrite

import (
	"github.com/yaklabco/sqlxfmt/pkg/rsast"
)

// candidate is a literal node found inside a matched invocation, before it
// is unquoted.
type candidate struct {
	node       *rsast.Node
	invocation string
}

// collectCandidates walks the whole tree and returns the literals of every
// invocation whose name is in macros, in walk order.
//
// For each child of a matched invocation, the first raw literal child and the
// first quoted literal child are taken; any further literals in the same group
// are left alone. The walk always continues into children, so invocations
// nested in blocks, bodies or other invocations' arguments are found too.
func collectCandidates(root *rsast.Node, macros MacroSet) []candidate {
	var found []candidate

	for _, n := range rsast.FindByKind(root, rsast.NodeInvocation) {
		if !macros.Contains(n.Name) {
			continue
		}

		for group := n.FirstChild; group != nil; group = group.Next {
			if raw := group.FirstChildOfKind(rsast.NodeRawString); raw != nil {
				found = append(found, candidate{node: raw, invocation: n.Name})
			}
			if quoted := group.FirstChildOfKind(rsast.NodeString); quoted != nil {
				found = append(found, candidate{node: quoted, invocation: n.Name})
			}
		}
	}

	return found
}
