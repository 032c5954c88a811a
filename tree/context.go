package tree

// AssignContext installs parent back-pointers throughout root, so a
// later incremental parse's cursor can walk up from any descendant to
// find its next sibling.
func AssignContext(root *Node) {
	if root == nil {
		return
	}
	for i, child := range root.Children {
		child.Context = Context{Parent: root, Index: i}
		AssignContext(child)
	}
}
