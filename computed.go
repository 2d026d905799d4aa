package reactor

import "github.com/reactorcore/reactor/internal"

// Computed is a cached, lazily-recomputed derivation (component C6, spec
// §4.6): its getter runs only when read while Stale/PossiblyStale-with-real-
// change, and its result is reused otherwise, including across reads that
// happen while it is merely PossiblyStale but every dependency resolves
// unchanged (the glitch-free collapse described in SPEC_FULL.md §6).
type Computed[T any] struct {
	rt *SharedState
	n  *internal.Node
}

// ComputedOption configures a Computed[T] at construction time.
type ComputedOption[T any] func(*computedConfig[T])

type computedConfig[T any] struct {
	equal            Equality[T]
	keepAlive        bool
	requiresReaction bool
}

// WithComputedEquality overrides the default reference equality used to
// decide whether a recompute actually changed the cached value.
func WithComputedEquality[T any](eq Equality[T]) ComputedOption[T] {
	return func(c *computedConfig[T]) { c.equal = eq }
}

// KeepAlive prevents the computed's cache from being released when it has no
// observers, trading memory for avoiding a recompute the next time something
// reads it cold (spec §4.6 keepAlive).
func KeepAlive[T any]() ComputedOption[T] {
	return func(c *computedConfig[T]) { c.keepAlive = true }
}

// RequiresReaction makes reading this computed outside of any reaction (a
// "cold" read with no current derivation) return ErrReadOutsideReaction
// instead of silently recomputing it once per read — spec §4.6's
// requiresReaction, for computeds that are expensive enough that an
// accidental cold read is a bug, not a convenience.
func RequiresReaction[T any]() ComputedOption[T] {
	return func(c *computedConfig[T]) { c.requiresReaction = true }
}

// NewComputed derives a cached value of type T from fn, which may read any
// number of observables/other computeds; those reads are tracked
// automatically, the same as inside a Reaction.
func NewComputed[T any](s *SharedState, name string, fn func() T, opts ...ComputedOption[T]) *Computed[T] {
	cfg := computedConfig[T]{equal: ReferenceEquality[T]}
	for _, o := range opts {
		o(&cfg)
	}
	c := &Computed[T]{rt: s}
	c.n = s.rt.NewComputed(name, func() any { return fn() }, anyEqual(cfg.equal), cfg.keepAlive, cfg.requiresReaction)
	return c
}

// Get resolves the computed (recomputing only if necessary) and returns its
// value, registering it as a dependency of the current derivation if one is
// running. If fn panicked the last time it ran, TryGet returns the zero
// value and that panic, wrapped as a *UserGetterError; Get itself re-panics
// with the same wrapped error so a computed's
// failure propagates the same way a plain getter panic would in the
// language this library's design is modeled on.
func (c *Computed[T]) Get() T {
	v, err := c.TryGet()
	if err != nil {
		panic(err)
	}
	return v
}

// TryGet is Get without the panic: it surfaces a getter failure as an error
// instead of re-panicking, for callers that want to handle it explicitly.
func (c *Computed[T]) TryGet() (T, error) {
	v, err := c.rt.rt.ReadComputed(c.n)
	if err != nil {
		var zero T
		return zero, err
	}
	return as[T](v), nil
}

// Peek reads the current value without registering a dependency.
func (c *Computed[T]) Peek() T {
	var out T
	c.rt.rt.RunUntracked(func() { out = c.Get() })
	return out
}

// Name returns the computed's diagnostic name.
func (c *Computed[T]) Name() string { return c.n.Name }
