package engine

import (
	"github.com/glrcore/glrcore/stack"
	"github.com/glrcore/glrcore/table"
	"github.com/glrcore/glrcore/tree"
)

// repairStatus is the result of repairError.
type repairStatus int

const (
	repairFailed repairStatus = iota
	repairSucceeded
	repairNoneFound
)

// reduceCandidate is a (symbol, count) pair considered either as a
// recovery reduction in handleError or as a repair goal in repairError.
type reduceCandidate struct {
	symbol table.Symbol
	count  int
}

func addReduceCandidate(set []reduceCandidate, c reduceCandidate) []reduceCandidate {
	for _, existing := range set {
		if existing == c {
			return set
		}
	}
	return append(set, c)
}

// handleError pushes an ERROR frame on top of version v after first
// applying, as fragile reductions, every non-extra reduce with a non-zero
// child count that the current state holds for any symbol, so that
// partially-built constructs below the error point get folded before the
// ERROR frame is pushed, ported from ts_parser__handle_error.
func (e *Engine) handleError(v int, state table.StateID, lookahead *tree.Node) bool {
	previousVersionCount := e.Stack.VersionCount()

	hasShiftAction := false
	var candidates []reduceCandidate
	for symbol := table.Symbol(0); symbol < table.Symbol(e.Table.SymbolCount()); symbol++ {
		actions, _ := e.Table.Actions(state, symbol)
		for _, action := range actions {
			if action.Extra {
				continue
			}
			switch action.Type {
			case table.ActionShiftType, table.ActionRecoverType:
				hasShiftAction = true
			case table.ActionReduceType:
				if action.ReduceChildCount > 0 {
					candidates = addReduceCandidate(candidates, reduceCandidate{
						symbol: action.ReduceSymbol,
						count:  action.ReduceChildCount,
					})
				}
			}
		}
	}

	didReduce := false
	for _, c := range candidates {
		result := e.reduce(v, c.symbol, c.count, false, true)
		switch result.status {
		case reduceFailed:
			return false
		case reduceStoppedAtError:
			releaseAll(result.slice.Trees)
			e.Stack.RemoveVersion(result.slice.Version)
		default:
			didReduce = true
		}
	}

	if didReduce && !hasShiftAction && e.Stack.VersionCount() > previousVersionCount {
		e.Stack.RenumberVersion(previousVersionCount, v)
	}

	e.Stack.Push(v, nil, false, table.StateError)
	for e.Stack.VersionCount() > previousVersionCount {
		e.Stack.Push(previousVersionCount, nil, false, table.StateError)
		if !e.Stack.Merge(v, previousVersionCount) {
			return false
		}
	}

	return true
}

// isValidRepair mirrors ts_parser__is_valid_repair: it replays treesBelow
// (deepest first, skipping extras) until goalCountBelow essential trees
// have been consumed, then replays treesAbove, then checks that the
// resulting state has a REDUCE action to goalSymbol on lookaheadSymbol.
func isValidRepair(tbl table.Table, treesBelow, treesAbove []*tree.Node, startState table.StateID, goalSymbol table.Symbol, goalCountBelow int, lookaheadSymbol table.Symbol) bool {
	state := startState
	countBelow := 0

	for i := 0; i < len(treesBelow); i++ {
		t := treesBelow[i]
		action, ok := tbl.LastAction(state, t.Symbol)
		if !ok || action.Type != table.ActionShiftType {
			return false
		}
		if action.Extra || t.Extra {
			continue
		}
		state = action.ToState
		countBelow++

		if countBelow == goalCountBelow {
			for _, above := range treesAbove {
				aboveAction, ok := tbl.LastAction(state, above.Symbol)
				if !ok || aboveAction.Type != table.ActionShiftType {
					return false
				}
				if aboveAction.Extra || above.Extra {
					continue
				}
				state = aboveAction.ToState
			}

			actions, _ := tbl.Actions(state, lookaheadSymbol)
			for _, a := range actions {
				if a.Type == table.ActionReduceType && a.ReduceSymbol == goalSymbol {
					return true
				}
			}
			return false
		}
	}

	return false
}

// repairError: given the trees stranded above an
// error frame by a reduce that ran off the end of the stack, it walks
// back through the GSS looking for a reduction whose missing prefix
// could be satisfied below the error, then wraps the skipped span in an
// error node and folds everything into a single reduction (ported from
// ts_parser__repair_error / ts_parser__error_repair_callback).
func (e *Engine) repairError(v int, slice stack.Slice, lookahead *tree.Node, actions []table.Action) repairStatus {
	countAboveError := essentialCount(slice.Trees)

	var repairs []reduceCandidate
	for _, a := range actions {
		if a.Type == table.ActionReduceType && a.ReduceChildCount > countAboveError {
			repairs = append(repairs, reduceCandidate{
				symbol: a.ReduceSymbol,
				count:  a.ReduceChildCount - countAboveError,
			})
		}
	}

	type found struct {
		symbol    table.Symbol
		count     int
		nextState table.StateID
		skipCount int
	}
	var best *found

	results := e.Stack.Iterate(slice.Version, func(state int, trees []*tree.Node, treeCount int, isDone, isPending bool) stack.IterateAction {
		var result stack.IterateAction

		for i := 0; i < len(repairs); i++ {
			repair := repairs[i]
			if repair.count > treeCount {
				continue
			}

			skipCount := treeCount - repair.count
			if best != nil && skipCount >= best.skipCount {
				repairs = append(repairs[:i:i], repairs[i+1:]...)
				i--
				continue
			}

			repairAction, ok := e.Table.LastAction(table.StateID(state), repair.symbol)
			if !ok || repairAction.Type != table.ActionShiftType {
				continue
			}
			stateAfterRepair := repairAction.ToState
			if !e.Table.HasAction(stateAfterRepair, lookahead.Symbol) {
				continue
			}

			if isValidRepair(e.Table, trees, slice.Trees, table.StateID(state), repair.symbol, repair.count, lookahead.Symbol) {
				result |= stack.IteratePop
				best = &found{symbol: repair.symbol, count: repair.count, nextState: stateAfterRepair, skipCount: skipCount}
				repairs = append(repairs[:i:i], repairs[i+1:]...)
				i--
			}
		}

		if len(repairs) == 0 {
			result |= stack.IterateStop
		}
		return result
	})

	if best == nil {
		releaseAll(slice.Trees)
		e.Stack.RemoveVersion(slice.Version)
		return repairNoneFound
	}

	// winner always carries the largest version index (Iterate assigns
	// indices in increasing visitation order), so renumbering it away
	// first leaves every other materialized version's index undisturbed;
	// those are then removed largest-first among themselves.
	winner := results[len(results)-1]
	e.Stack.RenumberVersion(winner.Version, slice.Version)
	for i := len(results) - 2; i >= 0; i-- {
		releaseAll(results[i].Trees)
		e.Stack.RemoveVersion(results[i].Version)
	}

	children := winner.Trees
	skipped := make([]*tree.Node, 0, len(children)-best.count)
	skipped = append(skipped, children[best.count:]...)

	errorNode := tree.MakeErrorNode(skipped)
	kept := append(append([]*tree.Node(nil), children[:best.count]...), errorNode)
	kept = append(kept, slice.Trees...)

	parent := tree.MakeNode(best.symbol, len(kept), kept, e.Table.SymbolMetadata(best.symbol))
	e.Stack.Push(slice.Version, parent, false, best.nextState)

	return repairSucceeded
}
