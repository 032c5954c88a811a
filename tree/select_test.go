package tree

import (
	"testing"

	"github.com/glrcore/glrcore/table"
)

func leaf(symbol table.Symbol, chars int) *Node {
	return MakeLeaf(symbol, Length{Chars: chars, Bytes: chars}, Zero, LexStateIndependent, table.SymbolMetadata{Visible: true})
}

func TestSelectPrefersSmallerErrorSize(t *testing.T) {
	left := leaf(1, 3)
	left.ErrorSize = 5

	right := leaf(1, 3)
	right.ErrorSize = 2

	if !Select(left, right) {
		t.Fatal("expected right (smaller error_size) to replace left")
	}
	if Select(right, left) {
		t.Fatal("expected left (larger error_size) not to replace right")
	}
}

func TestSelectTieBreaksByCompare(t *testing.T) {
	tests := []struct {
		name        string
		left, right *Node
		wantReplace bool
	}{
		{"equal trees keep incumbent", leaf(1, 3), leaf(1, 3), false},
		{
			"fewer children orders first",
			leaf(5, 3),
			MakeNode(5, 1, []*Node{leaf(3, 1)}, table.SymbolMetadata{Visible: true}),
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Select(tt.left, tt.right); got != tt.wantReplace {
				t.Errorf("Select() = %v, want %v", got, tt.wantReplace)
			}
		})
	}
}

func TestSelectNilHandling(t *testing.T) {
	n := leaf(1, 3)

	if !Select(nil, n) {
		t.Error("expected a real tree to replace a nil incumbent")
	}
	if Select(n, nil) {
		t.Error("expected a nil candidate never to replace a real incumbent")
	}
	if Select(nil, nil) {
		t.Error("expected nil vs nil not to replace")
	}
}

func TestCompareDeterministicOrder(t *testing.T) {
	a := leaf(1, 3)
	b := leaf(1, 3)

	if c := Compare(a, b); c != 0 {
		t.Errorf("Compare(a, b) = %d, want 0 for structurally identical trees", c)
	}
	if c := Compare(a, a); c != 0 {
		t.Errorf("Compare(a, a) = %d, want 0", c)
	}
}
