package engine

import "github.com/glrcore/glrcore/tree"

// accept pops every frame off version v down to the root and folds each
// resulting slice into a candidate finished tree: the rightmost non-extra
// tree in the slice becomes the root, with every other tree in the slice
// spliced in as one of its children, ported from ts_parser__accept.
func (e *Engine) accept(v int) {
	pop := e.Stack.PopAll(v)

	for _, slice := range pop.Slices {
		trees := slice.Trees

		for j := len(trees) - 1; j >= 0; j-- {
			if trees[j].Extra {
				continue
			}

			root := trees[j]
			spliced := make([]*tree.Node, 0, len(trees)-1+len(root.Children))
			spliced = append(spliced, trees[:j]...)
			spliced = append(spliced, root.Children...)
			spliced = append(spliced, trees[j+1:]...)

			tree.SetChildren(root, spliced, e.Table.SymbolMetadata(root.Symbol))

			for k := j - 1; k >= 0; k-- {
				if !root.Children[k].Extra {
					root.ErrorSize += root.Children[j].Size.Chars
				}
			}

			if tree.Select(e.Finished, root) {
				e.Finished.Release()
				e.Finished = root
			} else {
				root.Release()
			}
			break
		}
	}

	for i := len(pop.Slices) - 1; i >= 0; i-- {
		e.Stack.RemoveVersion(pop.Slices[i].Version)
	}
	e.Stack.RemoveVersion(v)
}
