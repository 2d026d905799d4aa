package collections

import (
	"fmt"

	"github.com/reactorcore/reactor"
)

type mapSlot[V any] struct {
	atom *reactor.Atom
	val  V
}

// Map is an observable key/value store keyed by a comparable type. Reading
// one key never invalidates a derivation that reads a different key — only
// Keys()/Len()/Has() and a Get of an absent key touch the shared structural
// atom.
type Map[K comparable, V any] struct {
	rt   *reactor.SharedState
	name string
	keys *reactor.Atom
	m    map[K]*mapSlot[V]
	eq   reactor.Equality[V]
}

// NewMap creates an empty observable map bound to rt.
func NewMap[K comparable, V any](rt *reactor.SharedState, name string) *Map[K, V] {
	return &Map[K, V]{
		rt:   rt,
		name: name,
		keys: rt.NewAtom(name+".keys", nil, nil),
		m:    make(map[K]*mapSlot[V]),
		eq:   reactor.ReferenceEquality[V],
	}
}

// NewMapFrom creates an observable map seeded from a plain Go map — the
// entry point the deep enhancer would use for map[K]V inputs whose key type
// is concrete (string-keyed dynamic objects go through rxobject instead).
// Like NewListFrom, the seeding writes cannot fail: they run inside an
// action.
func NewMapFrom[K comparable, V any](rt *reactor.SharedState, name string, initial map[K]V) *Map[K, V] {
	m := NewMap[K, V](rt, name)
	reactor.RunInAction(rt, func() {
		for k, v := range initial {
			_ = m.Set(k, v)
		}
	})
	return m
}

func (m *Map[K, V]) slotName(k K) string {
	return fmt.Sprintf("%s[%v]", m.name, k)
}

// Len reports the number of keys, tracking the map's structure.
func (m *Map[K, V]) Len() int {
	m.keys.Report()
	return len(m.m)
}

// Has reports whether k is present, tracking the map's structure (presence
// is a structural fact, not per-slot).
func (m *Map[K, V]) Has(k K) bool {
	m.keys.Report()
	_, ok := m.m[k]
	return ok
}

// Get reads the value stored at k, tracking only that key's slot. Reading a
// key that was never set still tracks the structural atom, so a later Set
// of that same key correctly invalidates the reader.
func (m *Map[K, V]) Get(k K) (V, bool) {
	slot, ok := m.m[k]
	if !ok {
		m.keys.Report()
		var zero V
		return zero, false
	}
	slot.atom.Report()
	return slot.val, true
}

// Set stores v at k, creating the slot (and notifying the structural atom)
// if k is new, or updating the existing slot (notifying only that slot) if
// v differs from what's stored per the map's equality. Enforces the
// SharedState's WritePolicy (spec §4.8) against whichever atom the write
// actually touches.
func (m *Map[K, V]) Set(k K, v V) error {
	if slot, ok := m.m[k]; ok {
		if err := slot.atom.CheckWrite(); err != nil {
			return err
		}
		if m.eq(slot.val, v) {
			return nil
		}
		old := slot.val
		slot.val = v
		slot.atom.ReportChanged()
		m.rt.EmitCollectionMutation(slot.atom.ID(), m.slotName(k), old, v)
		return nil
	}
	if err := m.keys.CheckWrite(); err != nil {
		return err
	}
	m.m[k] = &mapSlot[V]{atom: m.rt.NewAtom(m.slotName(k), nil, nil), val: v}
	m.keys.ReportChanged()
	m.rt.EmitCollectionMutation(m.keys.ID(), m.slotName(k), nil, v)
	return nil
}

// Delete removes k, if present, notifying the structural atom and that
// key's own slot (so a watcher of only that key observes the removal).
func (m *Map[K, V]) Delete(k K) error {
	slot, ok := m.m[k]
	if !ok {
		return nil
	}
	if err := m.keys.CheckWrite(); err != nil {
		return err
	}
	delete(m.m, k)
	slot.atom.ReportChanged()
	m.keys.ReportChanged()
	m.rt.EmitCollectionMutation(slot.atom.ID(), m.slotName(k), slot.val, nil)
	return nil
}

// Keys returns a snapshot of the current key set, tracking the structural
// atom only.
func (m *Map[K, V]) Keys() []K {
	m.keys.Report()
	out := make([]K, 0, len(m.m))
	for k := range m.m {
		out = append(out, k)
	}
	return out
}
