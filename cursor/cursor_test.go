package cursor_test

import (
	"testing"

	"github.com/glrcore/glrcore/cursor"
	"github.com/glrcore/glrcore/lexer"
	"github.com/glrcore/glrcore/table"
	"github.com/glrcore/glrcore/tree"
)

// fakeTable is a one-cell table.Table: every (state, symbol) pair not
// explicitly registered is an implicit error, matching a real compiled
// table's empty-cell convention.
type fakeTable struct {
	actions map[table.StateID]map[table.Symbol]table.Action
}

func newFakeTable() *fakeTable {
	return &fakeTable{actions: map[table.StateID]map[table.Symbol]table.Action{}}
}

func (f *fakeTable) allow(state table.StateID, symbol table.Symbol, action table.Action) {
	if f.actions[state] == nil {
		f.actions[state] = map[table.Symbol]table.Action{}
	}
	f.actions[state][symbol] = action
}

func (f *fakeTable) Actions(state table.StateID, symbol table.Symbol) ([]table.Action, bool) {
	a, ok := f.actions[state][symbol]
	if !ok {
		return nil, false
	}
	return []table.Action{a}, true
}

func (f *fakeTable) LastAction(state table.StateID, symbol table.Symbol) (table.Action, bool) {
	a, ok := f.actions[state][symbol]
	return a, ok
}

func (f *fakeTable) HasAction(state table.StateID, symbol table.Symbol) bool {
	_, ok := f.actions[state][symbol]
	return ok
}

func (f *fakeTable) LexState(state table.StateID) int { return 0 }

func (f *fakeTable) SymbolCount() int { return 2 }

func (f *fakeTable) SymbolMetadata(symbol table.Symbol) table.SymbolMetadata {
	return table.SymbolMetadata{Visible: true}
}

func (f *fakeTable) SymbolName(symbol table.Symbol) string { return "SYM" }

// fakeLexer always returns the same fixed token, enough to prove
// GetLookahead fell through to the lexer rather than reusing a node.
type fakeLexer struct {
	token lexer.Token
	calls int
}

func (l *fakeLexer) Start(state int, errorMode bool) {}
func (l *fakeLexer) Reset(position tree.Length)       {}
func (l *fakeLexer) Finish() lexer.Token {
	l.calls++
	return l.token
}

func TestNewCursorAtEnd(t *testing.T) {
	if !cursor.New(nil).AtEnd() {
		t.Error("New(nil).AtEnd() = false, want true")
	}

	n := tree.MakeLeaf(0, tree.Length{Chars: 1, Bytes: 1}, tree.Zero, tree.LexStateIndependent, table.SymbolMetadata{Visible: true})
	defer n.Release()

	if cursor.New(n).AtEnd() {
		t.Error("New(non-nil).AtEnd() = true, want false")
	}
}

func TestGetLookaheadFallsThroughToLexerWhenNoPreviousTree(t *testing.T) {
	tbl := newFakeTable()
	lx := &fakeLexer{token: lexer.Token{Symbol: 0, Size: tree.Length{Chars: 1, Bytes: 1}}}

	result := cursor.GetLookahead(cursor.New(nil), tree.Zero, 1, tbl, lx)
	defer result.Tree.Release()

	if result.Reused {
		t.Error("Reused = true, want false for a cold cursor")
	}
	if lx.calls != 1 {
		t.Errorf("lexer Finish calls = %d, want 1", lx.calls)
	}
}

func TestGetLookaheadReusesCompatibleNode(t *testing.T) {
	tbl := newFakeTable()
	tbl.allow(1, 0, table.Action{Type: table.ActionShiftType, ToState: 2})

	previous := tree.MakeLeaf(0, tree.Length{Chars: 1, Bytes: 1}, tree.Zero, tree.LexStateIndependent, table.SymbolMetadata{Visible: true})
	defer previous.Release()

	lx := &fakeLexer{token: lexer.Token{Symbol: 1, Size: tree.Length{Chars: 1, Bytes: 1}}}

	result := cursor.GetLookahead(cursor.New(previous), tree.Zero, 1, tbl, lx)
	defer result.Tree.Release()

	if !result.Reused {
		t.Fatal("Reused = false, want true for a node the table permits reusing")
	}
	if lx.calls != 0 {
		t.Errorf("lexer Finish calls = %d, want 0 when the cursor satisfied the lookahead", lx.calls)
	}
	if !result.Cursor.AtEnd() {
		t.Error("cursor should be retired after reusing the previous tree's only node")
	}
}

func TestGetLookaheadSkipsNodeMarkedHasChanges(t *testing.T) {
	tbl := newFakeTable()
	tbl.allow(1, 0, table.Action{Type: table.ActionShiftType, ToState: 2})

	changed := tree.MakeLeaf(0, tree.Length{Chars: 1, Bytes: 1}, tree.Zero, tree.LexStateIndependent, table.SymbolMetadata{Visible: true})
	changed.HasChanges = true
	defer changed.Release()

	lx := &fakeLexer{token: lexer.Token{Symbol: 1, Size: tree.Length{Chars: 1, Bytes: 1}}}

	result := cursor.GetLookahead(cursor.New(changed), tree.Zero, 1, tbl, lx)
	defer result.Tree.Release()

	if result.Reused {
		t.Error("Reused = true, want false: HasChanges must force a fresh lex even though the table would otherwise permit reuse")
	}
	if lx.calls != 1 {
		t.Errorf("lexer Finish calls = %d, want 1", lx.calls)
	}
	if !result.NeedBreakdownTop {
		t.Error("NeedBreakdownTop = false, want true: a leaf marked HasChanges has no children to descend into")
	}
}

// TestGetLookaheadPreservesSiblingIdentityAroundAnEditedNode hand-builds a
// previous tree with one untouched leaf and one leaf marked HasChanges,
// and checks both halves of reuse soundness/locality at once: the
// untouched sibling comes back as the exact same *tree.Node (not a copy),
// while the marked one is never handed back as a lookahead at all.
func TestGetLookaheadPreservesSiblingIdentityAroundAnEditedNode(t *testing.T) {
	tbl := newFakeTable()
	tbl.allow(1, 0, table.Action{Type: table.ActionShiftType, ToState: 2})
	// No cell for the root's own composite symbol (5): canReuse must fail
	// on the whole tree so GetLookahead descends into its children rather
	// than handing back the untouched root verbatim.

	child0 := tree.MakeLeaf(0, tree.Length{Chars: 1, Bytes: 1}, tree.Zero, tree.LexStateIndependent, table.SymbolMetadata{Visible: true})
	child1 := tree.MakeLeaf(0, tree.Length{Chars: 1, Bytes: 1}, tree.Zero, tree.LexStateIndependent, table.SymbolMetadata{Visible: true})
	child1.HasChanges = true

	root := tree.MakeNode(5, 2, []*tree.Node{child0, child1}, table.SymbolMetadata{Visible: true})
	defer root.Release()

	lx := &fakeLexer{}

	first := cursor.GetLookahead(cursor.New(root), tree.Zero, 1, tbl, lx)
	if !first.Reused {
		t.Fatal("Reused = false, want true for the untouched first child")
	}
	if first.Tree != child0 {
		t.Error("reused Tree is not the same *tree.Node as the original child: identity not preserved")
	}
	if lx.calls != 0 {
		t.Errorf("lexer Finish calls after first GetLookahead = %d, want 0", lx.calls)
	}
	first.Tree.Release()

	lx.token = lexer.Token{Symbol: 1, Size: tree.Length{Chars: 1, Bytes: 1}}
	second := cursor.GetLookahead(first.Cursor, tree.Length{Chars: 1}, 2, tbl, lx)
	defer second.Tree.Release()

	if second.Reused {
		t.Error("Reused = true, want false: the second child is marked HasChanges and must not be reused")
	}
	if lx.calls != 1 {
		t.Errorf("lexer Finish calls after second GetLookahead = %d, want 1", lx.calls)
	}
}

func TestCanReuseRejectsErrorNodes(t *testing.T) {
	tbl := newFakeTable()
	tbl.allow(1, table.SymbolError, table.Action{Type: table.ActionShiftType})

	errNode := tree.MakeErrorLeaf(tree.Length{Chars: 1, Bytes: 1}, tree.Zero, 'x', true)
	defer errNode.Release()

	if cursor.CanReuse(errNode, tbl, 1) {
		t.Error("CanReuse(error node) = true, want false")
	}
}
