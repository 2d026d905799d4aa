package reactor

import (
	"github.com/google/uuid"

	"github.com/reactorcore/reactor/internal"
)

// Atom is a valueless change beacon (component C2, spec §4.2): it carries no
// data of its own, but any derivation that reads it is re-run whenever
// ReportChanged is called. Atom is the building block collections and
// rxobject use to make individual slots independently observable without
// itself storing slot data.
type Atom struct {
	rt *SharedState
	n  *internal.Node
}

// NewAtom creates an Atom bound to s. onObserved/onUnobserved (either may be
// nil) fire exactly once each time the atom transitions to/from having zero
// observers — spec §4.2's onBecomeObserved/onBecomeUnobserved hooks, used by
// fromExternal-style bridges to start/stop an upstream subscription lazily.
func (s *SharedState) NewAtom(name string, onObserved, onUnobserved func()) *Atom {
	n := s.rt.NewAtom(name, onObserved, onUnobserved)
	return &Atom{rt: s, n: n}
}

// Report reads the atom, registering it as a dependency of the current
// derivation if one is running.
func (a *Atom) Report() {
	a.rt.rt.Track(a.n)
}

// ReportChanged notifies every observer of a that it has changed, scheduling
// their recomputation/re-run per spec §4.6.
func (a *Atom) ReportChanged() {
	a.rt.rt.ReportChanged(a.n)
}

// ID returns the atom's unique identifier, for correlating it across spy
// events.
func (a *Atom) ID() uuid.UUID { return a.n.ID }

// Name returns the atom's diagnostic name.
func (a *Atom) Name() string { return a.n.Name }

// CheckWrite reports whether a write through a is currently permitted under
// the owning SharedState's configured WritePolicy (spec §4.8), without
// performing any write. Collections and rxobject.Object call this before
// every mutation so the write policy applies uniformly to every observable,
// not just Value[T].
func (a *Atom) CheckWrite() error {
	return a.rt.rt.CheckWrite(a.n)
}

// Value is an observable value (component C3, spec §4.3): an Atom plus a
// stored value of type T, an Enhancer describing how freshly-assigned values
// are wrapped, and an Equality function gating whether a write is
// distinguishable from what's already stored.
type Value[T any] struct {
	rt           *SharedState
	n            *internal.Node
	enh          Enhancer
	eq           Equality[T]
	onObserved   func()
	onUnobserved func()
}

// ValueOption configures a Value[T] at construction time.
type ValueOption[T any] func(*Value[T])

// WithEnhancer sets the assignment-time wrapping policy (default: Reference).
func WithEnhancer[T any](enh Enhancer) ValueOption[T] {
	return func(v *Value[T]) { v.enh = enh }
}

// WithEquality overrides the default equality implied by the enhancer.
func WithEquality[T any](eq Equality[T]) ValueOption[T] {
	return func(v *Value[T]) { v.eq = eq }
}

// WithObservedHooks registers the spec §4.2 onBecomeObserved/
// onBecomeUnobserved hooks on the value's backing atom (either may be nil).
// This is what lets a value built on top of an external push source
// (rxsync.External) subscribe lazily on first observe and unsubscribe on
// last unobserve instead of holding a subscription open for its whole
// lifetime.
func WithObservedHooks[T any](onObserved, onUnobserved func()) ValueOption[T] {
	return func(v *Value[T]) {
		v.onObserved = onObserved
		v.onUnobserved = onUnobserved
	}
}

// NewValue creates an observable value bound to s, initialized to initial.
// A free function, not a method: Go methods cannot carry their own type
// parameters, so every generic constructor in this package (NewValue,
// NewComputed, ...) takes the SharedState as its first argument instead.
func NewValue[T any](s *SharedState, name string, initial T, opts ...ValueOption[T]) *Value[T] {
	v := &Value[T]{rt: s, enh: EnhancerReference}
	for _, o := range opts {
		o(v)
	}
	if v.eq == nil {
		v.eq = DefaultEquality[T](v.enh)
	}
	initial = applyEnhancer(s, v.enh, initial)
	v.n = s.rt.NewValue(name, initial, anyEqual(v.eq), v.onObserved, v.onUnobserved)
	return v
}

// Get reads the current value, registering it as a dependency of the
// current derivation if one is running.
func (v *Value[T]) Get() T {
	return as[T](v.rt.rt.ReadValue(v.n))
}

// Peek reads the current value without registering a dependency — spec
// §4.1's untracked read, inlined for the common single-value case.
func (v *Value[T]) Peek() T {
	var out T
	v.rt.rt.RunUntracked(func() { out = as[T](v.rt.rt.ReadValue(v.n)) })
	return out
}

// Set assigns a new value. If it is equal (per the configured Equality) to
// the value already stored, the write is a no-op and nothing is notified
// (spec P4). Enforces the configured WritePolicy (spec §4.8).
func (v *Value[T]) Set(newVal T) error {
	if err := v.rt.rt.CheckWrite(v.n); err != nil {
		return err
	}
	newVal = applyEnhancer(v.rt, v.enh, newVal)
	old := as[T](v.n.Value)
	if v.eq != nil && v.eq(old, newVal) {
		return nil
	}
	v.rt.rt.WriteValue(v.n, newVal)
	return nil
}

// Name returns the value's diagnostic name.
func (v *Value[T]) Name() string { return v.n.Name }
