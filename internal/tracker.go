package internal

import "github.com/petermattis/goid"

// tracker holds the "what is currently running" state that drives automatic
// dependency capture. Grounded on the teacher's internal/tracker.go
// (currentComputation/currentOwner bookkeeping plus a goroutine-id check to
// avoid cross-goroutine tracking corruption) and sig/sig.go's goid-keyed
// activeOwners map.
type tracker struct {
	current *Node // the derivation currently being tracked, or nil
	depth   int   // untracked-suppression depth; >0 means reads register nothing

	runningGID  int64
	runningDepth int
}

func newTracker() *tracker {
	return &tracker{}
}

// shouldTrack reports whether a read right now should register a dependency.
func (t *tracker) shouldTrack() bool {
	return t.current != nil && t.depth == 0
}

// track links dep as a dependency of the currently running derivation, if any.
func (t *tracker) track(dep *Node) bool {
	if !t.shouldTrack() {
		return false
	}
	Link(t.current, dep)
	return true
}

// runWithDerivation makes node the current derivation for the duration of fn,
// restoring the previous one afterwards (supports nested computeds/reactions).
func (t *tracker) runWithDerivation(node *Node, fn func()) {
	prev := t.current
	t.current = node
	defer func() { t.current = prev }()
	fn()
}

// runUntracked suppresses dependency capture for the duration of fn, no
// matter how deeply nested — mirrors sig's Untrack and spec §4.1 "untracked".
func (t *tracker) runUntracked(fn func()) {
	t.depth++
	defer func() { t.depth-- }()
	fn()
}

// enterSingleGoroutine enforces the single-threaded-cooperative model of
// spec §5: a SharedState may only have one derivation mid-run at a time, and
// that run must stay on the goroutine that started it. Reentrant calls from
// the same goroutine (nested computeds/reactions/actions) are allowed.
func (t *tracker) enterSingleGoroutine() func() {
	gid := goid.Get()
	if t.runningDepth > 0 && t.runningGID != gid {
		panic(ErrCrossGoroutineAccess)
	}
	if t.runningDepth == 0 {
		t.runningGID = gid
	}
	t.runningDepth++
	return func() { t.runningDepth-- }
}
