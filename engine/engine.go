// Package engine implements the action engine: the per-version state
// machine that drives one stack version through shift, reduce,
// error-recovery and accept actions for a single lookahead, ported from
// tree-sitter's ts_parser__consume_lookahead and its helpers.
package engine

import (
	"github.com/glrcore/glrcore/lexer"
	"github.com/glrcore/glrcore/stack"
	"github.com/glrcore/glrcore/table"
	"github.com/glrcore/glrcore/tree"
)

// Engine drives one parser's stack through the action table. It is not
// safe for concurrent use.
type Engine struct {
	Stack *stack.Stack
	Table table.Table
	Lexer lexer.Lexer

	// Finished holds the best accepted tree found so far; accept()
	// updates it via tree.Select. The driver reads it once version_count
	// reaches zero.
	Finished *tree.Node

	isSplit bool
}

// New returns an engine over an already-initialized stack.
func New(s *stack.Stack, tbl table.Table, lx lexer.Lexer) *Engine {
	return &Engine{Stack: s, Table: tbl, Lexer: lx}
}

// SetSplit records whether more than one version is currently live, used
// by reduce to decide fragility the same way the driver computes
// is_split once per outer-loop pass.
func (e *Engine) SetSplit(split bool) {
	e.isSplit = split
}

// Status is the result of ConsumeLookahead.
type Status int

const (
	StatusUpdated Status = iota
	StatusRemoved
	StatusFailed
)

func essentialCount(trees []*tree.Node) int {
	n := 0
	for _, t := range trees {
		if !t.Extra {
			n++
		}
	}
	return n
}

// shift pushes lookahead onto version v, copying it on write when the
// shift marks it extra and the tree is structural and shared across more
// than one live version.
func (e *Engine) shift(v int, state table.StateID, lookahead *tree.Node, extra bool) {
	t := lookahead
	if extra {
		meta := e.Table.SymbolMetadata(lookahead.Symbol)
		if meta.Structural && e.Stack.VersionCount() > 1 {
			t = tree.MakeCopy(lookahead)
		} else {
			t = lookahead.Retain()
		}
		t.Extra = true
	} else {
		t = lookahead.Retain()
	}

	pending := len(t.Children) > 0
	e.Stack.Push(v, t, pending, state)
}

// ConsumeLookahead runs the action table against version v's top state and
// the given lookahead until the version shifts, reduces to a stable state,
// accepts, recovers, or fails.
func (e *Engine) ConsumeLookahead(v int, lookahead *tree.Node) Status {
	for {
		state := e.Stack.TopState(v)
		actions, hasAny := e.Table.Actions(state, lookahead.Symbol)

		// An empty cell is an implicit ERROR action: seed errorRepairFailed
		// so the loop synthesizes it on the very first iteration instead of
		// silently doing nothing.
		errorRepairFailed := !hasAny
		errorRepairDepth := -1
		lastReductionVersion := -1

		exhausted := false
		for i := 0; ; i++ {
			var action table.Action
			switch {
			case i < len(actions):
				action = actions[i]
			case errorRepairFailed:
				action = table.ErrorAction
			default:
				exhausted = true
			}
			if exhausted {
				break
			}

			if errorRepairDepth != -1 && action.Type == table.ActionReduceType && action.ReduceChildCount > errorRepairDepth {
				continue
			}

			switch action.Type {
			case table.ActionErrorType:
				switch e.breakdownTopOfStack(v) {
				case breakdownFailed:
					return StatusFailed
				case breakdownPerformed:
					continue
				case breakdownAborted:
				}
				if !e.handleError(v, state, lookahead) {
					return StatusFailed
				}
				errorRepairFailed = false

			case table.ActionShiftType:
				nextState := action.ToState
				if action.Extra {
					nextState = state
				}
				e.shift(v, nextState, lookahead, action.Extra)
				return StatusUpdated

			case table.ActionReduceType:
				result := e.reduce(v, action.ReduceSymbol, action.ReduceChildCount, action.Extra, action.Fragile)
				switch result.status {
				case reduceFailed:
					return StatusFailed
				case reduceSucceeded:
					lastReductionVersion = result.version
				case reduceStoppedAtError:
					errorRepairDepth = essentialCount(result.slice.Trees)
					switch e.repairError(v, result.slice, lookahead, actions) {
					case repairFailed:
						return StatusFailed
					case repairNoneFound:
						if lastReductionVersion == -1 {
							errorRepairFailed = true
						}
					case repairSucceeded:
						lastReductionVersion = result.version
					}
				}

			case table.ActionAcceptType:
				e.accept(v)
				return StatusRemoved

			case table.ActionRecoverType:
				if lookahead.Symbol == table.SymbolEnd {
					e.recoverEOF(v)
				} else {
					e.recover(v, action.ToState, lookahead)
				}
				return StatusUpdated
			}
		}

		if lastReductionVersion != -1 {
			e.Stack.RenumberVersion(lastReductionVersion, v)
		}
	}
}
