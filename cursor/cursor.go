// Package cursor implements the reusable-node cursor: a lazily-advancing
// walk over a previous parse tree that the driver consults before calling
// the lexer, so an incremental reparse can reuse untouched subtrees
// instead of re-lexing and re-parsing them.
//
// The cursor holds a non-owning pointer into a tree kept alive by whoever
// called Parse with a previous tree; it never retains or releases the
// tree it walks, only the single subtree it hands back as a lookahead.
package cursor

import (
	"github.com/glrcore/glrcore/lexer"
	"github.com/glrcore/glrcore/table"
	"github.com/glrcore/glrcore/tree"
)

// Cursor is a small value type: copying it is exactly the "snapshot" the
// outer driver loop needs between versions.
type Cursor struct {
	node      *tree.Node
	charIndex int
}

// New returns a cursor positioned at the root of previous. If previous is
// nil the cursor is already retired and every GetLookahead call falls
// through to the lexer, i.e. an ordinary cold parse.
func New(previous *tree.Node) Cursor {
	return Cursor{node: previous}
}

// AtEnd reports whether the cursor has walked off the end of the previous
// tree.
func (c Cursor) AtEnd() bool {
	return c.node == nil
}

// Result is the outcome of one GetLookahead call.
type Result struct {
	// Tree is the lookahead: either a retained subtree reused from the
	// previous parse, or a freshly built leaf from the lexer.
	Tree *tree.Node

	// Cursor is the cursor's new position; adopt it for the next call.
	Cursor Cursor

	// Reused is true when Tree came from the previous parse tree rather
	// than the lexer.
	Reused bool

	// NeedBreakdownTop asks the caller to also call
	// engine.BreakdownTopOfStack on the current stack version: the
	// reusable subtree under the cursor overlapped edited text down to
	// leaf granularity, so finer reuse on the stack side may now help too.
	NeedBreakdownTop bool
}

// GetLookahead returns either a reusable subtree from the previous tree
// or a fresh token from lx, advancing the cursor as it goes.
func GetLookahead(c Cursor, topPosition tree.Length, topState table.StateID, tbl table.Table, lx lexer.Lexer) Result {
	needBreakdownTop := false

	for {
		if c.node == nil {
			return lexFresh(c, topState, tbl, lx, needBreakdownTop)
		}

		switch {
		case c.charIndex > topPosition.Chars:
			// Cursor is ahead of the current input; nothing to offer yet.
			return lexFresh(c, topState, tbl, lx, needBreakdownTop)

		case c.charIndex < topPosition.Chars:
			c = popReusableNode(c)
			continue

		case c.node.HasChanges:
			if len(c.node.Children) == 0 {
				needBreakdownTop = true
				return lexFresh(c, topState, tbl, lx, needBreakdownTop)
			}
			c = breakdownOne(c)
			continue

		case !canReuse(c.node, tbl, topState):
			if len(c.node.Children) == 0 {
				return lexFresh(c, topState, tbl, lx, needBreakdownTop)
			}
			c = breakdownOne(c)
			continue

		default:
			reused := c.node.Retain()
			return Result{Tree: reused, Cursor: popReusableNode(c), Reused: true}
		}
	}
}

func lexFresh(c Cursor, topState table.StateID, tbl table.Table, lx lexer.Lexer, needBreakdownTop bool) Result {
	scanState := tbl.LexState(topState)
	if topState == table.StateError {
		scanState = lexer.ErrorLexState
	}
	lx.Start(scanState, topState == table.StateError)
	tok := lx.Finish()

	var leaf *tree.Node
	if tok.Symbol == table.SymbolError {
		leaf = tree.MakeErrorLeaf(tok.Size, tok.Padding, tok.FirstUnexpectedChar, tok.HasUnexpectedChar)
	} else {
		lexState := tree.LexStateIndependent
		if tok.IsFragile {
			lexState = scanState
		}
		leaf = tree.MakeLeaf(tok.Symbol, tok.Size, tok.Padding, lexState, tbl.SymbolMetadata(tok.Symbol))
	}

	return Result{Tree: leaf, Cursor: c, NeedBreakdownTop: needBreakdownTop}
}

// CanReuse reports whether n may be reused as the lookahead at topState.
// It is also used by the driver to decide whether a lookahead cached
// across stack versions at the same position may be handed to a version
// with a different top state.
func CanReuse(n *tree.Node, tbl table.Table, topState table.StateID) bool {
	return canReuse(n, tbl, topState)
}

func canReuse(n *tree.Node, tbl table.Table, topState table.StateID) bool {
	if n.IsError() {
		return false
	}
	if n.IsFragile() && n.ParseState != topState {
		return false
	}
	if n.LexState != tree.LexStateIndependent && n.LexState != tbl.LexState(topState) {
		return false
	}

	action, has := tbl.LastAction(topState, n.Symbol)
	if !has || action.Type == table.ActionErrorType || action.CanHideSplit {
		return false
	}
	if n.Extra && !action.Extra {
		return false
	}
	return true
}

// breakdownOne descends to n's first child, and keeps descending into
// first children while the landed node is fragile, so reuse is attempted
// at the coarsest safe granularity.
func breakdownOne(c Cursor) Cursor {
	parent := c.node
	if len(parent.Children) == 0 {
		return c
	}
	child := parent.Children[0]
	child.Context = tree.Context{Parent: parent, Index: 0}

	for child.IsFragile() && len(child.Children) > 0 {
		next := child.Children[0]
		next.Context = tree.Context{Parent: child, Index: 0}
		child = next
	}

	return Cursor{node: child, charIndex: c.charIndex}
}

// PopReusableNode exposes popReusableNode to the driver, which needs to
// advance a cached cursor position independently of GetLookahead when it
// hands the same lookahead across several stack versions.
func PopReusableNode(c Cursor) Cursor {
	return popReusableNode(c)
}

// popReusableNode moves past the current node's full extent and walks
// up ancestors until it finds a right sibling, retiring the cursor at
// tree end.
func popReusableNode(c Cursor) Cursor {
	nextCharIndex := c.charIndex + c.node.TotalChars()

	ctx := c.node.Context
	for ctx.Parent != nil {
		siblings := ctx.Parent.Children
		if ctx.Index+1 < len(siblings) {
			sibling := siblings[ctx.Index+1]
			sibling.Context = tree.Context{Parent: ctx.Parent, Index: ctx.Index + 1}
			return Cursor{node: sibling, charIndex: nextCharIndex}
		}
		ctx = ctx.Parent.Context
	}

	return Cursor{node: nil, charIndex: nextCharIndex}
}
