// Package stack implements the graph-structured parse stack (GSS): an
// arena of frames linked by edges that carry a tree reference, addressed
// through a small table of live "versions" (the frontiers a GLR parse
// keeps in flight simultaneously).
//
// Frames are ordinary Go values collected by the garbage collector once
// unreachable; the manual bookkeeping in this package exists only to keep
// tree.Node reference counts correct, since trees may outlive the stack:
// the finished tree, and subtrees shared with a caller-owned
// previous_tree.
package stack

import (
	"github.com/glrcore/glrcore/table"
	"github.com/glrcore/glrcore/tree"
)

// link is one incoming edge to a frame: the tree consumed to move from
// prev's state to the owning frame's state, and whether that edge is
// still pending breakdown.
type link struct {
	prev    *frame
	t       *tree.Node
	pending bool
}

// frame is one GSS node. A frame normally has exactly one incoming link;
// it has more than one only when two versions with identical (state,
// position) were merged and their incoming trees
// differed, i.e. an ambiguous edge.
type frame struct {
	state    table.StateID
	position tree.Length
	links    []link

	// refCount counts how many pointers reference this frame: one per
	// version whose top points here, plus one per other frame's link.prev
	// that points here.
	refCount int
}

func retain(f *frame) {
	if f != nil {
		f.refCount++
	}
}

func release(f *frame) {
	if f == nil {
		return
	}
	f.refCount--
	if f.refCount > 0 {
		return
	}
	for _, l := range f.links {
		l.t.Release()
		release(l.prev)
	}
	f.links = nil
}

// Stack is a graph-structured stack with zero or more live versions, each
// identified by its index.
type Stack struct {
	versions []*frame
}

// New returns a stack with a single version rooted at the given state
// (normally the grammar's start state), with no incoming tree.
func New(startState table.StateID) *Stack {
	root := &frame{state: startState, refCount: 1}
	return &Stack{versions: []*frame{root}}
}

// VersionCount returns the number of live versions.
func (s *Stack) VersionCount() int {
	return len(s.versions)
}

func (s *Stack) frameAt(v int) *frame {
	return s.versions[v]
}

// TopState returns the state at the top of version v.
func (s *Stack) TopState(v int) table.StateID {
	return s.versions[v].state
}

// TopPosition returns the input position at the top of version v: the
// total size consumed to reach that frame.
func (s *Stack) TopPosition(v int) tree.Length {
	return s.versions[v].position
}

// setVersion points version v's slot at f, retaining f and releasing
// whatever v previously pointed at. f may be nil only transiently (never
// observable by callers outside this package).
func (s *Stack) setVersion(v int, f *frame) {
	old := s.versions[v]
	retain(f)
	s.versions[v] = f
	release(old)
}

// Push appends a frame on top of version v. t may be nil (an error
// recovery frame carries no tree). pending marks the edge as provisionally
// reusable. Push takes ownership of one reference to t.
func (s *Stack) Push(v int, t *tree.Node, pending bool, state table.StateID) {
	prev := s.versions[v]
	position := prev.position
	if t != nil {
		position = position.Add(t.TotalSize())
	}
	retain(prev)
	nf := &frame{
		state:    state,
		position: position,
		links:    []link{{prev: prev, t: t, pending: pending}},
	}
	s.setVersion(v, nf)
}

// DuplicateVersion creates a new version sharing version v's current top
// frame, returning the new version's index.
func (s *Stack) DuplicateVersion(v int) int {
	s.versions = append(s.versions, nil)
	idx := len(s.versions) - 1
	s.setVersion(idx, s.versions[v])
	return idx
}

// RemoveVersion discards version v, releasing the frame chain it solely
// owned, and compacts the version table so indices above v shift down by
// one (matching the GSS ordering contract: versions
// are processed in index order).
func (s *Stack) RemoveVersion(v int) {
	release(s.versions[v])
	s.versions = append(s.versions[:v], s.versions[v+1:]...)
}

// RenumberVersion makes version `to` become what version `from` currently
// is, then removes `from`. Used whenever a reduction or repair produced a
// version at a higher index that should replace an existing one.
func (s *Stack) RenumberVersion(from, to int) {
	if from == to {
		return
	}
	s.setVersion(to, s.versions[from])
	s.RemoveVersion(from)
}

// canMerge reports whether two frames represent the same frontier: equal
// state and equal position.
func canMerge(a, b *frame) bool {
	return a.state == b.state && a.position.Equal(b.position)
}

// Merge folds version b into version a if they share the same top state
// and position, unioning their incoming edges into one ambiguous frame
// It reports whether a merge happened.
func (s *Stack) Merge(a, b int) bool {
	fa, fb := s.versions[a], s.versions[b]
	if fa == fb {
		s.RemoveVersion(b)
		return true
	}
	if !canMerge(fa, fb) {
		return false
	}

	merged := &frame{
		state:    fa.state,
		position: fa.position,
		links:    append(append([]link(nil), fa.links...), fb.links...),
	}
	for _, l := range merged.links {
		retain(l.prev)
		l.t.Retain()
	}

	s.setVersion(a, merged)
	s.RemoveVersion(b)
	return true
}

// MergeFrom merges versions at index >= n that share (state, position)
// with each other; versions below n are not considered.
func (s *Stack) MergeFrom(n int) {
	for a := n; a < len(s.versions); a++ {
		for b := a + 1; b < len(s.versions); {
			if canMerge(s.versions[a], s.versions[b]) {
				s.Merge(a, b)
				continue
			}
			b++
		}
	}
}

// Condense merges every pair of compatible versions in the stack and
// drops exact duplicates, reaching a fixed point.
func (s *Stack) Condense() {
	for {
		before := len(s.versions)
		s.MergeFrom(0)
		if len(s.versions) == before {
			return
		}
	}
}
