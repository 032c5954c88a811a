package tree

import "github.com/glrcore/glrcore/table"

func applyReplacement(node, replacement *Node) {
	node.Children = replacement.Children
	node.Size = replacement.Size
	node.Padding = replacement.Padding
	node.ChildCount = replacement.ChildCount
	node.NamedChildCount = replacement.NamedChildCount
	node.VisibleChildCount = replacement.VisibleChildCount
	node.ErrorSize = replacement.ErrorSize
}

// SwitchChildren tries replacing node's children with an alternative set
// (built with the same symbol and metadata), keeping the change only if
// Select prefers the alternative over node's current content. It reports
// whether the switch happened. Used by reduce to fold ambiguous slices
// that land on the same stack version into a single node without
// discarding whichever candidate tree-selection prefers.
func SwitchChildren(node *Node, children []*Node, meta table.SymbolMetadata) bool {
	candidate := MakeNode(node.Symbol, len(children), children, meta)
	if !Select(node, candidate) {
		return false
	}
	applyReplacement(node, candidate)
	return true
}
