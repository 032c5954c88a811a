package stack

import (
	"testing"

	"github.com/glrcore/glrcore/table"
	"github.com/glrcore/glrcore/tree"
)

func token(chars int) *tree.Node {
	return tree.MakeLeaf(
		table.Symbol(0),
		tree.Length{Chars: chars, Bytes: chars},
		tree.Zero,
		tree.LexStateIndependent,
		table.SymbolMetadata{Visible: true},
	)
}

func TestNewStackStartsAtStartState(t *testing.T) {
	s := New(table.StateStart)

	if s.VersionCount() != 1 {
		t.Fatalf("VersionCount() = %d, want 1", s.VersionCount())
	}
	if got := s.TopState(0); got != table.StateStart {
		t.Errorf("TopState(0) = %d, want %d", got, table.StateStart)
	}
	if got := s.TopPosition(0); !got.Equal(tree.Zero) {
		t.Errorf("TopPosition(0) = %+v, want zero", got)
	}
}

func TestPushAdvancesPosition(t *testing.T) {
	s := New(table.StateStart)

	s.Push(0, token(3), false, 2)

	if got := s.TopState(0); got != 2 {
		t.Errorf("TopState(0) = %d, want 2", got)
	}
	want := tree.Length{Chars: 3, Bytes: 3}
	if got := s.TopPosition(0); !got.Equal(want) {
		t.Errorf("TopPosition(0) = %+v, want %+v", got, want)
	}
}

func TestPushNilTreeKeepsPosition(t *testing.T) {
	s := New(table.StateStart)

	s.Push(0, nil, false, 5)

	if got := s.TopPosition(0); !got.Equal(tree.Zero) {
		t.Errorf("TopPosition(0) = %+v, want zero for a nil-tree push", got)
	}
}

func TestDuplicateVersionSharesTop(t *testing.T) {
	s := New(table.StateStart)
	s.Push(0, token(1), false, 2)

	idx := s.DuplicateVersion(0)

	if s.VersionCount() != 2 {
		t.Fatalf("VersionCount() = %d, want 2", s.VersionCount())
	}
	if s.TopState(idx) != s.TopState(0) {
		t.Errorf("duplicated version state = %d, want %d", s.TopState(idx), s.TopState(0))
	}
	if !s.TopPosition(idx).Equal(s.TopPosition(0)) {
		t.Errorf("duplicated version position = %+v, want %+v", s.TopPosition(idx), s.TopPosition(0))
	}
}

func TestRemoveVersionDropsOneVersion(t *testing.T) {
	s := New(table.StateStart)
	s.DuplicateVersion(0)
	s.DuplicateVersion(0)

	if s.VersionCount() != 3 {
		t.Fatalf("VersionCount() = %d, want 3", s.VersionCount())
	}

	s.RemoveVersion(0)

	if s.VersionCount() != 2 {
		t.Fatalf("VersionCount() after RemoveVersion = %d, want 2", s.VersionCount())
	}
}

func TestMergeCompatibleVersions(t *testing.T) {
	s := New(table.StateStart)
	s.Push(0, token(2), false, 3)
	s.DuplicateVersion(0)

	merged := s.Merge(0, 1)
	if !merged {
		t.Fatal("expected Merge of two identical (state, position) versions to succeed")
	}
	if s.VersionCount() != 1 {
		t.Fatalf("VersionCount() after Merge = %d, want 1", s.VersionCount())
	}
}

func TestMergeIncompatibleVersionsNoOp(t *testing.T) {
	s := New(table.StateStart)
	s.Push(0, token(2), false, 3)
	s.DuplicateVersion(0)
	s.Push(1, token(1), false, 4)

	merged := s.Merge(0, 1)
	if merged {
		t.Fatal("expected Merge of versions at different states/positions to fail")
	}
	if s.VersionCount() != 2 {
		t.Fatalf("VersionCount() = %d, want 2 (both versions survive)", s.VersionCount())
	}
}

func TestCondenseReachesFixedPoint(t *testing.T) {
	s := New(table.StateStart)
	s.Push(0, token(2), false, 3)
	s.DuplicateVersion(0)
	s.DuplicateVersion(0)

	s.Condense()

	if s.VersionCount() != 1 {
		t.Fatalf("VersionCount() after Condense = %d, want 1", s.VersionCount())
	}
}
