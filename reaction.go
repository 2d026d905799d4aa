package reactor

import "github.com/reactorcore/reactor/internal"

// Reaction is a terminal, effectful derivation (component C7, spec §4.7): it
// has no cached value and nothing can depend on it. Each time one of its
// dependencies changes it is rescheduled, and on the next drain it re-runs
// its tracked function, which both performs the effect and re-establishes
// the dependency set for next time (spec §4.7's "re-tracks on every run").
// Autorun, the React(expression, effect, ...) operator and When are all
// built on top of this primitive; use it directly when you need manual
// control over when tracking starts and how disposal is wired.
type Reaction struct {
	rt *SharedState
	n  *internal.Node
	fn func()
}

// ReactionOption configures a Reaction at construction time.
type ReactionOption func(*internal.Node)

// WithErrorHandler registers a handler that receives the *UserEffectError
// when the tracked function panics during a run from the drain loop. Such a
// panic is recovered whether or not a handler is set (without one it is
// dropped), unless Config.DisableErrorBoundaries is set, in which case it
// re-panics out of the drain loop and the handler is not called.
func WithErrorHandler(h func(error)) ReactionOption {
	return func(n *internal.Node) { n.ErrorHandler = h }
}

// NewReaction creates a Reaction bound to s. fn is not run until Start (or
// the first Schedule-triggered drain) executes it.
func NewReaction(s *SharedState, name string, fn func(), opts ...ReactionOption) *Reaction {
	r := &Reaction{rt: s, fn: fn}
	r.n = s.rt.NewReaction(name, nil, nil)
	r.n.OnInvalidate = func() { r.retrack() }
	for _, o := range opts {
		o(r.n)
	}
	return r
}

func (r *Reaction) retrack() {
	r.rt.rt.TrackReaction(r.n, r.fn)
}

// Start runs fn immediately, establishing its initial dependency set. A
// Reaction that is never Started only begins tracking the first time
// something schedules it some other way; in practice every operator in this
// package (Autorun, the React(expression, effect) operator, When) calls
// Start for you.
func (r *Reaction) Start() {
	r.retrack()
}

// Schedule manually enqueues the reaction to re-run at the next drain, as if
// one of its dependencies had just changed.
func (r *Reaction) Schedule() {
	r.rt.rt.ScheduleReaction(r.n)
}

// Dispose unlinks the reaction from every dependency it's currently tracking
// and marks it permanently inert. Idempotent (spec P6).
func (r *Reaction) Dispose() {
	r.rt.rt.DisposeReaction(r.n)
}

// Disposed reports whether Dispose has been called.
func (r *Reaction) Disposed() bool { return r.n.Disposed }

// Name returns the reaction's diagnostic name.
func (r *Reaction) Name() string { return r.n.Name }
