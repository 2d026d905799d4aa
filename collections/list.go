// Package collections provides observable composite containers (component
// C4): List, Map and Set each publish one shared "keys" atom for structural
// changes (append/remove/grow) plus one atom per element, so that writing
// one element's value never invalidates a derivation that only reads a
// different element — the same per-key independence spec §4.4 requires of
// the dynamic object in package rxobject.
package collections

import (
	"fmt"

	"github.com/reactorcore/reactor"
)

func init() {
	reactor.RegisterDeepWrapper(func(rt *reactor.SharedState, v any) (any, bool) {
		if raw, ok := v.([]any); ok {
			return NewListFrom(rt, "", raw), true
		}
		return nil, false
	})
}

type listSlot[T any] struct {
	atom *reactor.Atom
	val  T
}

// List is an observable, index-addressed sequence.
type List[T any] struct {
	rt    *reactor.SharedState
	name  string
	keys  *reactor.Atom
	items []*listSlot[T]
	eq    reactor.Equality[T]
}

// NewList creates an empty observable list bound to rt.
func NewList[T any](rt *reactor.SharedState, name string) *List[T] {
	return &List[T]{
		rt:   rt,
		name: name,
		keys: rt.NewAtom(name+".keys", nil, nil),
		eq:   reactor.ReferenceEquality[T],
	}
}

// NewListFrom creates an observable list seeded with initial's elements, in
// order — the entry point the deep enhancer uses to turn a raw []any into an
// observable composite. Errors from the seeding appends are not possible
// here: they run inside an action, which every WritePolicy permits.
func NewListFrom[T any](rt *reactor.SharedState, name string, initial []T) *List[T] {
	l := NewList[T](rt, name)
	reactor.RunInAction(rt, func() {
		for _, v := range initial {
			_ = l.Append(v)
		}
	})
	return l
}

func (l *List[T]) slotName(i int) string {
	return fmt.Sprintf("%s[%d]", l.name, i)
}

// Len returns the number of elements, tracking the list's structure (not
// any individual element's value) as a dependency.
func (l *List[T]) Len() int {
	l.keys.Report()
	return len(l.items)
}

// At returns the element at i, tracking both that element's slot and the
// list's structure: a reorder (RemoveAt shifting later slots down)
// changes which element lives at i, so a positional reader must also be
// woken by structural changes, not just a same-slot value write (spec §4.4).
func (l *List[T]) At(i int) T {
	l.keys.Report()
	l.items[i].atom.Report()
	return l.items[i].val
}

// Set overwrites the element at i. A no-op (no notification) if v is equal
// to what's already stored, per the list's equality (reference by default).
// Enforces the owning SharedState's WritePolicy against that slot (spec
// §4.8), same as Value[T].Set.
func (l *List[T]) Set(i int, v T) error {
	slot := l.items[i]
	if err := slot.atom.CheckWrite(); err != nil {
		return err
	}
	if l.eq(slot.val, v) {
		return nil
	}
	old := slot.val
	slot.val = v
	slot.atom.ReportChanged()
	l.rt.EmitCollectionMutation(slot.atom.ID(), l.slotName(i), old, v)
	return nil
}

// Append adds v to the end of the list, notifying observers of Len/the
// list's structure but not any existing slot.
func (l *List[T]) Append(v T) error {
	if err := l.keys.CheckWrite(); err != nil {
		return err
	}
	slot := &listSlot[T]{atom: l.rt.NewAtom(l.slotName(len(l.items)), nil, nil), val: v}
	l.items = append(l.items, slot)
	l.keys.ReportChanged()
	l.rt.EmitCollectionMutation(l.keys.ID(), l.slotName(len(l.items)-1), nil, v)
	return nil
}

// RemoveAt removes and returns the element at i, notifying structural
// observers. The removed slot's own atom is not notified; readers that went
// through At still re-run, because At also tracks the list's structure.
func (l *List[T]) RemoveAt(i int) (T, error) {
	if err := l.keys.CheckWrite(); err != nil {
		var zero T
		return zero, err
	}
	v := l.items[i].val
	l.items = append(l.items[:i], l.items[i+1:]...)
	l.keys.ReportChanged()
	l.rt.EmitCollectionMutation(l.keys.ID(), l.slotName(i), v, nil)
	return v, nil
}

// Slice returns a snapshot copy of the list's current contents, tracking the
// structure and every element read.
func (l *List[T]) Slice() []T {
	l.keys.Report()
	out := make([]T, len(l.items))
	for i, it := range l.items {
		it.atom.Report()
		out[i] = it.val
	}
	return out
}
