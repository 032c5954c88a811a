package engine

import (
	"github.com/glrcore/glrcore/table"
	"github.com/glrcore/glrcore/tree"
)

// recover duplicates v, shifts lookahead at
// the ERROR state on the duplicate (keeping it marked extra if the
// symbol is grammar-extra) and shifts lookahead at toState on v itself,
// so both the "still broken" and "now recovered" continuations survive
// as separate versions.
func (e *Engine) recover(v int, toState table.StateID, lookahead *tree.Node) {
	dup := e.Stack.DuplicateVersion(v)
	meta := e.Table.SymbolMetadata(lookahead.Symbol)
	e.shift(dup, table.StateError, lookahead, meta.Extra)
	e.shift(v, toState, lookahead, false)
}

// recoverEOF pushes an empty error node onto v, terminating the parse
// with a tree whose root records that the entire input was unparseable
// ported from ts_parser__recover_eof's EOF handling.
func (e *Engine) recoverEOF(v int) {
	parent := tree.MakeErrorNode(nil)
	e.Stack.Push(v, parent, false, table.StateStart)
}
