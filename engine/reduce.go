package engine

import (
	"github.com/glrcore/glrcore/stack"
	"github.com/glrcore/glrcore/table"
	"github.com/glrcore/glrcore/tree"
)

// reduceStatus is the result of reduce.
type reduceStatus int

const (
	reduceFailed reduceStatus = iota
	reduceSucceeded
	reduceStoppedAtError
)

type reduceResult struct {
	status  reduceStatus
	version int
	slice   stack.Slice
}

func trimTrailingExtra(trees []*tree.Node) int {
	n := len(trees)
	for n > 0 && trees[n-1].Extra {
		n--
	}
	return n
}

// reduce pops count trees off version v, builds a symbol node over them,
// and pushes it back. When the pop forks across an ambiguous frame, every
// resulting path gets its own node; paths that land back on the same
// version are folded into one via tree.SwitchChildren before either is
// pushed, ported from ts_parser__reduce.
func (e *Engine) reduce(v int, symbol table.Symbol, count int, extra, fragile bool) reduceResult {
	initialVersionCount := e.Stack.VersionCount()

	pop := e.Stack.PopCount(v, count)
	switch pop.Status {
	case stack.PopFailed:
		return reduceResult{status: reduceFailed}
	case stack.PopStoppedAtError:
		return reduceResult{status: reduceStoppedAtError, slice: pop.Slices[0]}
	}

	meta := e.Table.SymbolMetadata(symbol)

	for i := 0; i < len(pop.Slices); i++ {
		slice := pop.Slices[i]

		childCount := trimTrailingExtra(slice.Trees)
		parent := tree.MakeNode(symbol, childCount, slice.Trees, meta)

		for i+1 < len(pop.Slices) && pop.Slices[i+1].Version == slice.Version {
			next := pop.Slices[i+1]
			i++

			nextChildCount := trimTrailingExtra(next.Trees)
			if tree.SwitchChildren(parent, next.Trees[:nextChildCount], meta) {
				releaseAll(slice.Trees)
				slice = next
			} else {
				releaseAll(next.Trees)
			}
		}

		state := e.Stack.TopState(slice.Version)
		if fragile || e.isSplit || e.Stack.VersionCount() > 1 {
			parent.FragileLeft = true
			parent.FragileRight = true
			parent.ParseState = tree.ParseStateError
		} else {
			parent.ParseState = state
		}

		var newState table.StateID
		if extra {
			parent.Extra = true
			newState = state
		} else {
			action, _ := e.Table.LastAction(state, symbol)
			newState = action.ToState
		}

		e.Stack.Push(slice.Version, parent, false, newState)
		for _, t := range slice.Trees[len(parent.Children):] {
			e.Stack.Push(slice.Version, t, false, newState)
		}
	}

	e.Stack.MergeFrom(initialVersionCount)

	return reduceResult{status: reduceSucceeded, version: pop.Slices[0].Version}
}

func releaseAll(trees []*tree.Node) {
	for _, t := range trees {
		t.Release()
	}
}
