package engine

import (
	"github.com/glrcore/glrcore/table"
	"github.com/glrcore/glrcore/tree"
)

// breakdownStatus is the result of breakdownTopOfStack.
type breakdownStatus int

const (
	breakdownFailed breakdownStatus = iota
	breakdownPerformed
	breakdownAborted
)

// BreakdownTopOfStack exposes breakdownTopOfStack to the driver, which
// calls it directly when the cursor reports it overlapped edited text
// down to leaf granularity rather than via the ERROR-action path
// inside ConsumeLookahead.
func (e *Engine) BreakdownTopOfStack(v int) bool {
	return e.breakdownTopOfStack(v) != breakdownFailed
}

// breakdownTopOfStack repeatedly pops the single pending composite node
// sitting directly on top of version v and re-pushes its children
// individually, so the cursor and the action table can operate at finer
// granularity than whatever the previous parse or a prior reduce left
// behind, ported from ts_parser__breakdown_top_of_stack.
func (e *Engine) breakdownTopOfStack(v int) breakdownStatus {
	var lastChild *tree.Node
	didBreakDown := false
	stillPending := false

	for {
		pop := e.Stack.PopPending(v)
		// PopPending reports "nothing pending" as a single empty slice.
		if len(pop.Slices) == 0 || len(pop.Slices[0].Trees) == 0 {
			break
		}

		didBreakDown = true
		stillPending = false

		for _, slice := range pop.Slices {
			parent := slice.Trees[0]
			state := e.Stack.TopState(slice.Version)

			for _, child := range parent.Children {
				lastChild = child
				stillPending = len(child.Children) > 0

				if child.IsError() {
					state = table.StateError
				} else if !child.Extra {
					action, ok := e.Table.LastAction(state, child.Symbol)
					if !ok || action.Type != table.ActionShiftType {
						return breakdownFailed
					}
					state = action.ToState
				}

				e.Stack.Push(slice.Version, child.Retain(), stillPending, state)
			}

			for _, t := range slice.Trees[1:] {
				e.Stack.Push(slice.Version, t.Retain(), false, state)
			}

			for _, t := range slice.Trees {
				t.Release()
			}
		}

		if lastChild == nil || !stillPending {
			break
		}
	}

	if didBreakDown {
		return breakdownPerformed
	}
	return breakdownAborted
}
