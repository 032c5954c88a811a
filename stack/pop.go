package stack

import (
	"github.com/glrcore/glrcore/table"
	"github.com/glrcore/glrcore/tree"
)

// PopStatus reports how a PopCount walk terminated.
type PopStatus int

const (
	// PopOK means every forked path collected exactly the requested count.
	PopOK PopStatus = iota

	// PopFailed means some path ran out of frames before the requested
	// count; no slices are returned and the stack is left untouched.
	PopFailed

	// PopStoppedAtError means a path reached the builtin error state
	// before the requested count. Exactly one slice is returned, holding
	// the frames traversed so far, on a freshly forked version whose top is
	// the error frame; version v itself is left untouched. The caller
	// (repair_error/handle_error) decides what happens to the forked
	// version.
	PopStoppedAtError
)

// Slice is the result of popping one path out of the GSS: the trees
// consumed along that path, oldest first, and the version the path now
// belongs to. Callers own the returned trees and must Release them (by
// using them, re-pushing them, or explicitly releasing).
type Slice struct {
	Version int
	Trees   []*tree.Node
}

// PopResult is the outcome of a pop operation.
type PopResult struct {
	Status PopStatus
	Slices []Slice
}

func reorder(reversed []*tree.Node) []*tree.Node {
	out := make([]*tree.Node, len(reversed))
	for i, t := range reversed {
		out[len(reversed)-1-i] = t
	}
	return out
}

func retainAll(ts []*tree.Node) []*tree.Node {
	for _, t := range ts {
		t.Retain()
	}
	return ts
}

// PopCount pops exactly n frames off version v, following every fork
// caused by a previously merged ambiguous frame. On PopOK, version v and
// any additional forked versions are retargeted below the popped frames;
// the caller takes ownership of every returned tree.
func (s *Stack) PopCount(v, n int) PopResult {
	top := s.frameAt(v)

	type path struct {
		end   *frame
		trees []*tree.Node // collected top-down; reversed before return
	}

	var ok []path
	failed := false
	var stopped *path

	var walk func(f *frame, collected []*tree.Node, remaining int)
	walk = func(f *frame, collected []*tree.Node, remaining int) {
		if stopped != nil || failed {
			return
		}
		if remaining == 0 {
			ok = append(ok, path{end: f, trees: collected})
			return
		}
		if isErrorFrame(f) {
			stopped = &path{end: f, trees: collected}
			return
		}
		if len(f.links) == 0 {
			failed = true
			return
		}
		for _, l := range f.links {
			next := append(append([]*tree.Node(nil), collected...), l.t)
			walk(l.prev, next, remaining-1)
		}
	}
	walk(top, nil, n)

	if failed {
		return PopResult{Status: PopFailed}
	}
	if stopped != nil {
		// The stopped path gets its own fresh version so that v's original
		// frontier is left completely untouched: repair_error may end up
		// discarding this forked version outright while the caller keeps
		// iterating actions against v.
		s.versions = append(s.versions, nil)
		forked := len(s.versions) - 1
		s.setVersion(forked, stopped.end)
		return PopResult{
			Status: PopStoppedAtError,
			Slices: []Slice{{Version: forked, Trees: retainAll(reorder(stopped.trees))}},
		}
	}

	// top stays retained until every slice holds its own references, so
	// retargeting v cannot release the popped trees before they are handed
	// to the caller.
	retain(top)
	slices := make([]Slice, len(ok))
	for i, p := range ok {
		version := v
		if i > 0 {
			s.versions = append(s.versions, nil)
			version = len(s.versions) - 1
		}
		s.setVersion(version, p.end)
		slices[i] = Slice{Version: version, Trees: retainAll(reorder(p.trees))}
	}
	release(top)
	return PopResult{Status: PopOK, Slices: slices}
}

// isErrorFrame reports whether walking further back through f is
// meaningless because f sits behind the builtin error state.
func isErrorFrame(f *frame) bool {
	return f != nil && f.state == table.StateError
}

// PopPending pops every edge at the top of version v for as long as that
// edge is marked pending, stopping (without consuming) at the first
// non-pending edge on each forked path. A path with no pending edges at
// all yields an empty slice, signalling nothing was popped.
func (s *Stack) PopPending(v int) PopResult {
	top := s.frameAt(v)

	type path struct {
		end   *frame
		trees []*tree.Node
	}
	var paths []path

	var walk func(f *frame, collected []*tree.Node)
	walk = func(f *frame, collected []*tree.Node) {
		if len(f.links) == 0 || !allPending(f.links) {
			paths = append(paths, path{end: f, trees: collected})
			return
		}
		for _, l := range f.links {
			next := append(append([]*tree.Node(nil), collected...), l.t)
			walk(l.prev, next)
		}
	}
	walk(top, nil)

	retain(top)
	slices := make([]Slice, len(paths))
	for i, p := range paths {
		version := v
		if i > 0 {
			s.versions = append(s.versions, nil)
			version = len(s.versions) - 1
		}
		s.setVersion(version, p.end)
		slices[i] = Slice{Version: version, Trees: retainAll(reorder(p.trees))}
	}
	release(top)
	return PopResult{Status: PopOK, Slices: slices}
}

func allPending(links []link) bool {
	for _, l := range links {
		if !l.pending {
			return false
		}
	}
	return true
}

// PopAll pops every frame off every path of version v down to the root,
// forking a brand new version for every path including the first: v
// itself is left pointing at its original top frame, since accept (the
// only caller) discards v outright once every path has been folded into
// the finished tree.
func (s *Stack) PopAll(v int) PopResult {
	top := s.frameAt(v)

	type path struct {
		end   *frame
		trees []*tree.Node
	}
	var paths []path

	var walk func(f *frame, collected []*tree.Node)
	walk = func(f *frame, collected []*tree.Node) {
		if len(f.links) == 0 {
			paths = append(paths, path{end: f, trees: collected})
			return
		}
		for _, l := range f.links {
			next := append(append([]*tree.Node(nil), collected...), l.t)
			walk(l.prev, next)
		}
	}
	walk(top, nil)

	slices := make([]Slice, len(paths))
	for i, p := range paths {
		s.versions = append(s.versions, nil)
		version := len(s.versions) - 1
		s.setVersion(version, p.end)
		slices[i] = Slice{Version: version, Trees: retainAll(reorder(p.trees))}
	}
	return PopResult{Status: PopOK, Slices: slices}
}

// IterateAction is the bitmask an Iterate callback returns to steer the
// walk.
type IterateAction int

const (
	// IteratePop materializes the current path as a new version/slice,
	// without halting the walk: deeper candidates down the same path are
	// still explored.
	IteratePop IterateAction = 1 << 0

	// IterateStop halts recursion on the current path.
	IterateStop IterateAction = 1 << 1
)

// IterateCallback is invoked once per frame visited along every forked
// path from the iterated version, innermost call first. trees holds what
// has been collected so far on this path, oldest first.
type IterateCallback func(state int, trees []*tree.Node, treeCount int, isDone, isPending bool) IterateAction

// Iterate walks every path behind version v without mutating v itself.
// Each IteratePop response materializes a brand new version (so that
// later callback invocations for other candidates still see v's original,
// unmodified frontier) and appends a Slice for it.
func (s *Stack) Iterate(v int, cb IterateCallback) []Slice {
	top := s.frameAt(v)
	var slices []Slice

	var walk func(f *frame, collected []*tree.Node, pending bool)
	walk = func(f *frame, collected []*tree.Node, pending bool) {
		isDone := f == nil || len(f.links) == 0
		action := cb(int(f.state), reorder(collected), len(collected), isDone, pending)

		if action&IteratePop != 0 {
			s.versions = append(s.versions, nil)
			idx := len(s.versions) - 1
			s.setVersion(idx, f)
			slices = append(slices, Slice{Version: idx, Trees: retainAll(reorder(collected))})
		}
		if action&IterateStop != 0 || isDone {
			return
		}
		for _, l := range f.links {
			next := append(append([]*tree.Node(nil), collected...), l.t)
			walk(l.prev, next, l.pending)
		}
	}
	walk(top, nil, false)
	return slices
}
