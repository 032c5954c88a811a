package table

// Compiled is a plain in-memory Table: every (state, symbol) cell is a
// map lookup into a slice of Actions, built once by a table generator
// (here, package grammar's hand-written compiler) and then treated as
// read-only for the lifetime of every Parser built over it: the parse
// table is shared across parser instances, never mutated after Build.
type Compiled struct {
	cells       map[cellKey][]Action
	lexStates   map[StateID]int
	metadata    map[Symbol]SymbolMetadata
	names       map[Symbol]string
	symbolCount int
}

type cellKey struct {
	state  StateID
	symbol Symbol
}

// NewCompiled returns an empty table for a grammar with symbolCount
// distinct symbols (terminals and non-terminals combined).
func NewCompiled(symbolCount int) *Compiled {
	return &Compiled{
		cells:       map[cellKey][]Action{},
		lexStates:   map[StateID]int{},
		metadata:    map[Symbol]SymbolMetadata{},
		names:       map[Symbol]string{},
		symbolCount: symbolCount,
	}
}

// AddAction appends action to the cell at (state, symbol). Appending more
// than one action to a cell is how a GLR table expresses a shift/reduce
// or reduce/reduce conflict.
func (c *Compiled) AddAction(state StateID, symbol Symbol, action Action) {
	key := cellKey{state, symbol}
	c.cells[key] = append(c.cells[key], action)
}

// SetLexState records which lex state the scanner should use while
// positioned at state.
func (c *Compiled) SetLexState(state StateID, lexState int) {
	c.lexStates[state] = lexState
}

// SetSymbolMetadata records symbol's grammar-independent properties.
func (c *Compiled) SetSymbolMetadata(symbol Symbol, meta SymbolMetadata) {
	c.metadata[symbol] = meta
}

// SetSymbolName records symbol's human-readable name, for debug output.
func (c *Compiled) SetSymbolName(symbol Symbol, name string) {
	c.names[symbol] = name
}

func (c *Compiled) Actions(state StateID, symbol Symbol) ([]Action, bool) {
	actions, ok := c.cells[cellKey{state, symbol}]
	return actions, ok
}

func (c *Compiled) LastAction(state StateID, symbol Symbol) (Action, bool) {
	actions, ok := c.cells[cellKey{state, symbol}]
	if !ok || len(actions) == 0 {
		return Action{}, false
	}
	return actions[len(actions)-1], true
}

func (c *Compiled) HasAction(state StateID, symbol Symbol) bool {
	actions, ok := c.cells[cellKey{state, symbol}]
	return ok && len(actions) > 0
}

func (c *Compiled) LexState(state StateID) int {
	return c.lexStates[state]
}

func (c *Compiled) SymbolCount() int {
	return c.symbolCount
}

func (c *Compiled) SymbolMetadata(symbol Symbol) SymbolMetadata {
	return c.metadata[symbol]
}

func (c *Compiled) SymbolName(symbol Symbol) string {
	switch symbol {
	case SymbolEnd:
		return "END"
	case SymbolError:
		return "ERROR"
	}
	return c.names[symbol]
}
