package collections

import (
	"fmt"

	"github.com/reactorcore/reactor"
)

// Set is an observable collection of distinct comparable values. Membership
// of one element is tracked independently of every other element's; only
// Len()/Values() and a Has of a non-member touch the shared structural atom.
type Set[T comparable] struct {
	rt   *reactor.SharedState
	name string
	keys *reactor.Atom
	m    map[T]*reactor.Atom
}

// NewSet creates an empty observable set bound to rt.
func NewSet[T comparable](rt *reactor.SharedState, name string) *Set[T] {
	return &Set[T]{
		rt:   rt,
		name: name,
		keys: rt.NewAtom(name+".keys", nil, nil),
		m:    make(map[T]*reactor.Atom),
	}
}

// NewSetFrom creates an observable set seeded with initial's elements.
func NewSetFrom[T comparable](rt *reactor.SharedState, name string, initial []T) *Set[T] {
	s := NewSet[T](rt, name)
	for _, v := range initial {
		_ = s.Add(v)
	}
	return s
}

// Len reports the number of elements, tracking the set's structure.
func (s *Set[T]) Len() int {
	s.keys.Report()
	return len(s.m)
}

// Has reports whether v is a member. For a member it tracks only that
// element's slot, so adding/removing an unrelated element never invalidates
// this read; for a non-member it tracks the structural atom, so any Add or
// Delete re-runs the reader.
func (s *Set[T]) Has(v T) bool {
	a, ok := s.m[v]
	if !ok {
		s.keys.Report()
		return false
	}
	a.Report()
	return true
}

// Add inserts v if not already present, notifying the structural atom.
// A no-op if v is already a member. Enforces the SharedState's WritePolicy
// (spec §4.8).
func (s *Set[T]) Add(v T) error {
	if _, ok := s.m[v]; ok {
		return nil
	}
	if err := s.keys.CheckWrite(); err != nil {
		return err
	}
	a := s.rt.NewAtom(fmt.Sprintf("%s{%v}", s.name, v), nil, nil)
	s.m[v] = a
	s.keys.ReportChanged()
	s.rt.EmitCollectionMutation(s.keys.ID(), a.Name(), nil, v)
	return nil
}

// Delete removes v, if present, notifying the structural atom and that
// element's own slot (so a concurrent Has(v) read scheduled for re-run
// observes the removal).
func (s *Set[T]) Delete(v T) error {
	a, ok := s.m[v]
	if !ok {
		return nil
	}
	if err := s.keys.CheckWrite(); err != nil {
		return err
	}
	delete(s.m, v)
	a.ReportChanged()
	s.keys.ReportChanged()
	s.rt.EmitCollectionMutation(s.keys.ID(), a.Name(), v, nil)
	return nil
}

// Values returns a snapshot of the current members, tracking the structural
// atom only.
func (s *Set[T]) Values() []T {
	s.keys.Report()
	out := make([]T, 0, len(s.m))
	for v := range s.m {
		out = append(out, v)
	}
	return out
}
