// Package grammar is the demo arithmetic grammar used by the CLI, LSP
// facades, and the test suite: NUM, +, *, ( and ) over a single
// non-terminal Expr, compiled by hand into a table.Compiled the same way
// a real grammar compiler would emit one, deliberately kept small enough
// to read as a worked GLR example end to end.
//
// The grammar is ambiguous without an operator-precedence table (out of
// scope: this engine never arbitrates precedence on its own): states 8
// and 9 below (I7 and I8) hold both a shift and a reduce on '+' and '*'.
// Each of those cells lists the shift first, and engine.ConsumeLookahead
// applies the first SHIFT it reaches and returns, so the reduce there is
// never tried: the stack does not fork, and "1+2*3" parses as 1+(2*3),
// with every operator sequence grouping to the right.
package grammar

import "github.com/glrcore/glrcore/table"

// Terminal symbols.
const (
	SymbolNum table.Symbol = iota
	SymbolPlus
	SymbolStar
	SymbolLparen
	SymbolRparen

	// SymbolExpr is the grammar's single non-terminal.
	SymbolExpr

	symbolCount
)

// States, numbered the way a canonical LR(0) automaton construction would
// produce them (I0 through I9), with table.StateStart (1) assigned to I0
// so an ordinary cold parse begins here.
const (
	stateI0 table.StateID = iota + 1 // S' -> .E
	stateI1                          // S' -> E.
	stateI2                          // E -> NUM.
	stateI3                          // E -> (.E)
	stateI4                          // E -> E+.E
	stateI5                          // E -> E*.E
	stateI6                          // E -> (E.)
	stateI7                          // E -> E+E.  (shift/reduce conflict on + and *)
	stateI8                          // E -> E*E.  (shift/reduce conflict on + and *)
	stateI9                          // E -> (E).
)

var symbolNames = map[table.Symbol]string{
	SymbolNum:    "NUM",
	SymbolPlus:   "PLUS",
	SymbolStar:   "STAR",
	SymbolLparen: "LPAREN",
	SymbolRparen: "RPAREN",
	SymbolExpr:   "Expr",
}

// Build compiles the demo grammar into a table.Table.
func Build() table.Table {
	t := table.NewCompiled(int(symbolCount))

	t.SetSymbolMetadata(SymbolNum, table.SymbolMetadata{Named: true, Visible: true})
	t.SetSymbolMetadata(SymbolPlus, table.SymbolMetadata{Named: false, Visible: true})
	t.SetSymbolMetadata(SymbolStar, table.SymbolMetadata{Named: false, Visible: true})
	t.SetSymbolMetadata(SymbolLparen, table.SymbolMetadata{Named: false, Visible: true})
	t.SetSymbolMetadata(SymbolRparen, table.SymbolMetadata{Named: false, Visible: true})
	t.SetSymbolMetadata(SymbolExpr, table.SymbolMetadata{Named: true, Visible: true, Structural: true})

	for symbol, name := range symbolNames {
		t.SetSymbolName(symbol, name)
	}

	for _, state := range []table.StateID{
		stateI0, stateI1, stateI2, stateI3, stateI4,
		stateI5, stateI6, stateI7, stateI8, stateI9,
	} {
		t.SetLexState(state, 0)
	}

	shift := func(state table.StateID, symbol table.Symbol, to table.StateID) {
		t.AddAction(state, symbol, table.Action{Type: table.ActionShiftType, ToState: to})
	}
	goTo := shift
	reduce := func(state table.StateID, symbol table.Symbol, sym table.Symbol, count int) {
		t.AddAction(state, symbol, table.Action{Type: table.ActionReduceType, ReduceSymbol: sym, ReduceChildCount: count})
	}
	accept := func(state table.StateID, symbol table.Symbol) {
		t.AddAction(state, symbol, table.Action{Type: table.ActionAcceptType})
	}

	follow := []table.Symbol{SymbolPlus, SymbolStar, SymbolRparen, table.SymbolEnd}

	// I0: S' -> .E, E -> .E+E | .E*E | .(E) | .NUM
	shift(stateI0, SymbolNum, stateI2)
	shift(stateI0, SymbolLparen, stateI3)
	goTo(stateI0, SymbolExpr, stateI1)

	// I1: S' -> E., E -> E.+E | E.*E
	shift(stateI1, SymbolPlus, stateI4)
	shift(stateI1, SymbolStar, stateI5)
	accept(stateI1, table.SymbolEnd)

	// I2: E -> NUM.
	for _, s := range follow {
		reduce(stateI2, s, SymbolExpr, 1)
	}

	// I3: E -> (.E), E -> .E+E | .E*E | .(E) | .NUM
	shift(stateI3, SymbolNum, stateI2)
	shift(stateI3, SymbolLparen, stateI3)
	goTo(stateI3, SymbolExpr, stateI6)

	// I4: E -> E+.E, E -> .E+E | .E*E | .(E) | .NUM
	shift(stateI4, SymbolNum, stateI2)
	shift(stateI4, SymbolLparen, stateI3)
	goTo(stateI4, SymbolExpr, stateI7)

	// I5: E -> E*.E, E -> .E+E | .E*E | .(E) | .NUM
	shift(stateI5, SymbolNum, stateI2)
	shift(stateI5, SymbolLparen, stateI3)
	goTo(stateI5, SymbolExpr, stateI8)

	// I6: E -> (E.), E -> E.+E | E.*E
	shift(stateI6, SymbolRparen, stateI9)
	shift(stateI6, SymbolPlus, stateI4)
	shift(stateI6, SymbolStar, stateI5)

	// I7: E -> E+E., E -> E.+E | E.*E — deliberate shift/reduce conflict:
	// both a shift (continue the RHS) and a reduce (close E+E) are listed
	// on + and *. The shift is registered first, so it is the action the
	// engine takes there; the reduce is reached only on ) and END.
	shift(stateI7, SymbolPlus, stateI4)
	shift(stateI7, SymbolStar, stateI5)
	for _, s := range []table.Symbol{SymbolPlus, SymbolStar, SymbolRparen, table.SymbolEnd} {
		reduce(stateI7, s, SymbolExpr, 3)
	}

	// I8: E -> E*E., E -> E.+E | E.*E — same conflict shape as I7.
	shift(stateI8, SymbolPlus, stateI4)
	shift(stateI8, SymbolStar, stateI5)
	for _, s := range []table.Symbol{SymbolPlus, SymbolStar, SymbolRparen, table.SymbolEnd} {
		reduce(stateI8, s, SymbolExpr, 3)
	}

	// I9: E -> (E).
	for _, s := range follow {
		reduce(stateI9, s, SymbolExpr, 3)
	}

	return t
}
