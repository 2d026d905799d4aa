package internal

import (
	"iter"

	"github.com/google/uuid"
)

// Kind distinguishes the three entities that can sit in the dependency graph.
type Kind int

const (
	KindAtom Kind = iota
	KindComputed
	KindReaction
)

// State is the computed-value state machine of spec §4.6. Reactions only
// ever use Scheduled/Disposed below; State is meaningless for them.
type State int

const (
	StateNotTracking State = iota
	StateUpToDate
	StatePossiblyStale
	StateStale
	StateComputing
)

// link is one edge of the bipartite dependency graph: dep is something that
// was read, sub is the derivation that read it. Both sides keep a circular
// doubly linked list of their links so insertion, removal and iteration are
// all cheap without extra allocation bookkeeping — the same shape as the
// teacher's internal/node.go and sigv3/node.go DependencyLink list.
type link struct {
	dep *Node
	sub *Node

	prevDep, nextDep *link
	prevSub, nextSub *link
}

// Node is the single concrete representation backing Atom, Computed and
// Reaction. Collapsing the three into one struct (distinguished by Kind)
// mirrors the teacher's tendency to embed one base type (ReactiveNode /
// Signal) under every derivation instead of hand-rolling three parallel
// class hierarchies, and keeps the generic public wrappers in the root
// package thin.
type Node struct {
	ID   uuid.UUID
	Name string
	Kind Kind

	SharedState *SharedState

	// subsHead: entities observing this node (valid for Atom, Computed).
	subsHead *link
	// depsHead: entities this node depends on (valid for Computed, Reaction).
	depsHead *link

	// Version is bumped every time this node's value is confirmed to have
	// really changed (post equality check). Computeds snapshot dependency
	// versions here to resolve Possibly-Stale without re-running getters.
	Version int64

	// --- Atom / Computed value slot ---
	Value any
	Equal func(old, new any) bool

	OnBecomeObserved   func()
	OnBecomeUnobserved func()

	// --- Computed only ---
	State            State
	Compute          func() any
	DepVersions      map[*Node]int64
	Err              error
	KeepAlive        bool
	RequiresReaction bool

	// --- Reaction only ---
	OnInvalidate func()
	ErrorHandler func(error)
	Disposed     bool
	Scheduled    bool
}

func newNode(rt *SharedState, kind Kind, name string) *Node {
	return &Node{
		ID:          NewID(),
		Name:        name,
		Kind:        kind,
		SharedState: rt,
		State:       StateNotTracking,
	}
}

func (n *Node) hasObservers() bool {
	return n.subsHead != nil
}

// Link creates a bidirectional dependency edge: sub depends on dep. No-op
// if dep is already the most-recently-added dependency of sub.
func Link(sub, dep *Node) {
	if sub.depsHead != nil {
		tail := sub.depsHead.prevDep
		if tail.dep == dep {
			return
		}
	}

	l := &link{dep: dep, sub: sub}
	sub.addDepLink(l)
	dep.addSubLink(l)
}

func (n *Node) addDepLink(l *link) {
	if n.depsHead == nil {
		n.depsHead = l
		l.prevDep = l
		l.nextDep = nil
		return
	}
	tail := n.depsHead.prevDep
	tail.nextDep = l
	l.prevDep = tail
	l.nextDep = nil
	n.depsHead.prevDep = l
}

func (n *Node) addSubLink(l *link) {
	wasObserved := n.subsHead != nil
	if n.subsHead == nil {
		n.subsHead = l
		l.prevSub = l
		l.nextSub = nil
	} else {
		tail := n.subsHead.prevSub
		tail.nextSub = l
		l.prevSub = tail
		l.nextSub = nil
		n.subsHead.prevSub = l
	}
	if !wasObserved && n.OnBecomeObserved != nil {
		n.OnBecomeObserved()
	}
}

func (dep *Node) removeSubLink(l *link) {
	if l.prevSub == l {
		dep.subsHead = nil
		l.prevSub = nil
		l.nextSub = nil
	} else {
		if l == dep.subsHead {
			dep.subsHead = l.nextSub
		} else {
			l.prevSub.nextSub = l.nextSub
		}
		if l.nextSub != nil {
			l.nextSub.prevSub = l.prevSub
		} else {
			dep.subsHead.prevSub = l.prevSub
		}
		l.prevSub = nil
		l.nextSub = nil
	}

	if dep.subsHead == nil && dep.OnBecomeUnobserved != nil {
		dep.OnBecomeUnobserved()
	}
}

// ClearDeps unlinks a subscriber (Computed or Reaction) from every one of
// its current dependencies. Used on disposal and when a computed releases
// its cache.
func (sub *Node) ClearDeps() {
	for l := sub.depsHead; l != nil; {
		next := l.nextDep
		l.dep.removeSubLink(l)
		l = next
	}
	sub.depsHead = nil
}

// Deps iterates a subscriber's current dependencies.
func (sub *Node) Deps() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for l := sub.depsHead; l != nil; l = l.nextDep {
			if !yield(l.dep) {
				return
			}
		}
	}
}

// Subs iterates a dependency's current observers.
func (dep *Node) Subs() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for l := dep.subsHead; l != nil; l = l.nextSub {
			if !yield(l.sub) {
				return
			}
		}
	}
}
