// Package tree implements the immutable, reference-counted parse-tree
// model: leaves created by the lexer, internal nodes created by
// reduce/accept/repair, and the bookkeeping (error size, lex and parse
// state tags, fragility, extra/changed flags) the cursor and engine need
// to decide whether a subtree may be reused.
package tree

import (
	"fmt"
	"strings"

	"github.com/glrcore/glrcore/table"
)

// LexStateIndependent marks a node reusable under any lex state.
const LexStateIndependent = -1

// ParseStateError and ParseStateIndependent are the two sentinel
// parse_state tags, held in the same field as an ordinary table.StateID.
// Neither collides with a real StateID returned
// by a grammar-generated table, which only ever hands out non-negative
// ids plus the single builtin table.StateError.
const (
	ParseStateError       table.StateID = -1 << 30
	ParseStateIndependent table.StateID = -1<<30 + 1
)

// Context is a non-owning back-reference to a node's position inside its
// parent, maintained only for the benefit of the reusable-node cursor.
// It does not imply ownership of the parent.
type Context struct {
	Parent *Node
	Index  int
}

// Node is one parse-tree node. Content is immutable once Children is set;
// the only mutable bookkeeping is the reference count and the Context
// back-pointer the cursor installs lazily while walking a previous tree.
type Node struct {
	Symbol table.Symbol

	Size    Length
	Padding Length

	Children []*Node

	ChildCount        int
	NamedChildCount   int
	VisibleChildCount int

	// ErrorSize is the sum, in chars, of error_size for non-extra children
	// plus the char size of any direct error/skipped children.
	ErrorSize int

	Extra        bool
	HasChanges   bool
	FragileLeft  bool
	FragileRight bool

	// Named and Visible mirror table.SymbolMetadata for this node's own
	// symbol, captured at construction time so MakeNode can roll up
	// named_child_count/visible_child_count without a table lookup.
	Named   bool
	Visible bool

	LexState   int
	ParseState table.StateID

	Context Context

	HasUnexpectedChar   bool
	FirstUnexpectedChar rune

	refCount int32
}

// IsFragile reports whether either edge of the node is fragile.
func (n *Node) IsFragile() bool {
	return n.FragileLeft || n.FragileRight
}

// IsError reports whether this node is an error node.
func (n *Node) IsError() bool {
	return n.Symbol == table.SymbolError
}

// TotalSize returns Size plus Padding: the full extent the node occupies
// in the input, including leading whitespace/trivia.
func (n *Node) TotalSize() Length {
	return n.Padding.Add(n.Size)
}

// TotalChars is a convenience accessor used throughout the driver, which
// reasons about positions primarily in chars.
func (n *Node) TotalChars() int {
	return n.TotalSize().Chars
}

// Retain increments the reference count and returns n, so callers can
// chain it inline.
func (n *Node) Retain() *Node {
	if n == nil {
		return nil
	}
	n.refCount++
	return n
}

// Release decrements the reference count, releasing children and clearing
// the (non-owning) Context once it drops to zero. Double-release is a
// programmer error and panics, matching the "should never happen" idiom
// used elsewhere in this codebase for invariant violations.
func (n *Node) Release() {
	if n == nil {
		return
	}
	if n.refCount <= 0 {
		panic("tree: release of node with non-positive refcount")
	}
	n.refCount--
	if n.refCount == 0 {
		for _, child := range n.Children {
			child.Release()
		}
		n.Context = Context{}
	}
}

// RefCount exposes the current reference count, for tests and debugging.
func (n *Node) RefCount() int32 {
	return n.refCount
}

// MakeLeaf builds a token leaf. lexState is LexStateIndependent unless the
// lexer reported the token fragile.
func MakeLeaf(symbol table.Symbol, size, padding Length, lexState int, meta table.SymbolMetadata) *Node {
	return &Node{
		Symbol:            symbol,
		Size:              size,
		Padding:           padding,
		ChildCount:        0,
		NamedChildCount:   0,
		VisibleChildCount: 0,
		LexState:          lexState,
		Extra:             meta.Extra,
		Named:             meta.Named,
		Visible:           meta.Visible,
		refCount:          1,
	}
}

// MakeErrorLeaf builds an error token leaf carrying the first byte the
// lexer could not make sense of.
func MakeErrorLeaf(size, padding Length, firstUnexpected rune, hasUnexpected bool) *Node {
	leaf := MakeLeaf(table.SymbolError, size, padding, LexStateIndependent, table.SymbolMetadata{Visible: true})
	leaf.HasUnexpectedChar = hasUnexpected
	leaf.FirstUnexpectedChar = firstUnexpected
	leaf.ErrorSize = size.Chars
	return leaf
}

// MakeNode builds an internal node out of the first n entries of children.
// children may be longer than n: trailing entries are left for the caller
// to re-push onto the stack. The new node takes over the caller's
// reference to each child it keeps (it does not call Retain on them); it
// does not take ownership of the trailing entries.
func MakeNode(symbol table.Symbol, n int, children []*Node, meta table.SymbolMetadata) *Node {
	kept := children[:n]

	node := &Node{
		Symbol:   symbol,
		Children: append([]*Node(nil), kept...),
		Extra:    meta.Extra,
		Named:    meta.Named,
		Visible:  meta.Visible,
		refCount: 1,
	}

	var size, padding Length
	errorSize := 0
	for i, child := range kept {
		if i == 0 {
			padding = child.Padding
		} else {
			size = size.Add(child.Padding)
		}
		size = size.Add(child.Size)

		if !child.Extra {
			if child.Visible {
				node.VisibleChildCount++
			}
			if child.Named {
				node.NamedChildCount++
			}
		}

		if child.IsError() {
			errorSize += child.Size.Chars
		} else if !child.Extra {
			errorSize += child.ErrorSize
		}
	}
	node.ChildCount = len(node.Children)
	node.Size = size
	node.Padding = padding
	node.ErrorSize = errorSize

	return node
}

// MakeErrorNode wraps a run of skipped children (possibly empty) in a
// synthetic error node. Its error_size is the sum of the char-sizes of
// those children's total extents, since the entire run is skipped
// content attributed to a parse failure.
func MakeErrorNode(children []*Node) *Node {
	node := &Node{
		Symbol:   table.SymbolError,
		Children: append([]*Node(nil), children...),
		Visible:  true,
		refCount: 1,
	}

	var size, padding Length
	errorSize := 0
	for i, child := range children {
		if i == 0 {
			padding = child.Padding
		} else {
			size = size.Add(child.Padding)
		}
		size = size.Add(child.Size)
		errorSize += child.TotalSize().Chars
		node.ChildCount++
	}
	node.Size = size
	node.Padding = padding
	node.ErrorSize = errorSize
	return node
}

// SetChildren replaces a node's children in place, recomputing size,
// padding, child counts and error_size exactly as MakeNode would, while
// keeping the node's own identity (the values come from a temporary node
// built by MakeNode). Used by accept when splicing the finished root's
// children.
func SetChildren(node *Node, children []*Node, meta table.SymbolMetadata) {
	applyReplacement(node, MakeNode(node.Symbol, len(children), children, meta))
}

// MakeCopy returns a shallow copy of n with its own reference count of 1
// and retained children, used for copy-on-write when a shift must mark a
// tree extra while more than one stack version shares it.
func MakeCopy(n *Node) *Node {
	copied := *n
	copied.refCount = 1
	copied.Context = Context{}
	for _, child := range copied.Children {
		child.Retain()
	}
	return &copied
}

// String renders a short one-line summary, used by tests and debug logs.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	if n.IsError() {
		return fmt.Sprintf("(ERROR [%d,%d])", n.Size.Chars, n.ErrorSize)
	}
	parts := make([]string, len(n.Children))
	for i, c := range n.Children {
		parts[i] = c.String()
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%d", n.Symbol)
	}
	return fmt.Sprintf("(%d %s)", n.Symbol, strings.Join(parts, " "))
}
