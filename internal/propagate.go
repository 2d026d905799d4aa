package internal

// This file implements the glitch-free change-propagation algorithm of
// spec §4.6. The push phase (propagateStale/propagatePossiblyStale) runs
// synchronously inside ReportChanged, exactly once per write, and marks the
// whole transitively-reachable set of derivations dirty. The pull phase
// (resolve/recompute) runs lazily, on read, and uses per-dependency version
// snapshots to decide — without re-running a getter — whether a
// Possibly-Stale computed can collapse straight back to Up-To-Date. This is
// the two-tier scheme documented in SPEC_FULL.md §6 (grounded on MobX's
// propagateChanged/propagateMaybeChanged; no pack repo implements it, the
// teacher's own attempt in internal/heap.go + internal/runtime.go never got
// past referencing undefined Tick/height plumbing).

// propagateStale handles the direct fallout of an atom (or a computed whose
// value just genuinely changed) being written: every direct observer is
// unconditionally dirty, because the thing they depend on is known to have
// changed.
func (rt *SharedState) propagateStale(written *Node) {
	for obs := range written.Subs() {
		switch obs.Kind {
		case KindReaction:
			rt.scheduleReaction(obs)
		case KindComputed:
			if obs.State != StateStale {
				obs.State = StateStale
				rt.propagatePossiblyStale(obs)
			}
		}
	}
}

// propagatePossiblyStale handles the second-and-beyond tier: observers of a
// computed that is merely suspected of changing only need to be told "you
// might be stale", not "you are stale" — that distinction, and the
// resolve-on-read collapse below, is what prevents glitches (P2) and
// honours the equality short-circuit (P4) for the whole downstream fan-out,
// not just the immediate computed.
func (rt *SharedState) propagatePossiblyStale(c *Node) {
	for obs := range c.Subs() {
		switch obs.Kind {
		case KindReaction:
			rt.scheduleReaction(obs)
		case KindComputed:
			if obs.State == StateUpToDate || obs.State == StateNotTracking {
				obs.State = StatePossiblyStale
				rt.propagatePossiblyStale(obs)
			}
		}
	}
}

func (rt *SharedState) scheduleReaction(r *Node) {
	rt.sched.enqueue(r)
}

// resolve brings a computed's State/Value up to date, recursing into
// upstream computeds first so recomputation always happens in dependency
// (topological) order — ordering guarantee #3 in spec §5.
func (rt *SharedState) resolve(n *Node) {
	switch n.State {
	case StateUpToDate:
		return
	case StateComputing:
		panic(ErrCyclicDependency)
	case StateNotTracking, StateStale:
		rt.recompute(n)
	case StatePossiblyStale:
		changed := false
		for d := range n.Deps() {
			if d.Kind == KindComputed {
				rt.resolve(d)
			}
			if last, ok := n.DepVersions[d]; !ok || last != d.Version {
				changed = true
			}
		}
		if changed {
			rt.recompute(n)
		} else {
			n.State = StateUpToDate
		}
	}
}

func (rt *SharedState) recompute(n *Node) {
	n.State = StateComputing
	// Track into a fresh dependency list and unlink the previous one only
	// afterwards, so a dependency read on both runs never drops to zero
	// observers (which would fire its unobserved hook and, for an upstream
	// computed, release its cache).
	stale := n.depsHead
	n.depsHead = nil

	var newVal any
	var perr error
	func() {
		defer func() {
			if r := recover(); r != nil {
				perr = &UserGetterError{Name: n.Name, Cause: r}
			}
		}()
		rt.tracker.runWithDerivation(n, func() {
			newVal = n.Compute()
		})
	}()
	unlinkDeps(stale)

	deps := make(map[*Node]int64, 4)
	for d := range n.Deps() {
		deps[d] = d.Version
	}
	n.DepVersions = deps

	rt.emit(Event{Kind: EventComputedRecompute, EntityID: n.ID, EntityName: n.Name, Old: n.Value, New: newVal})

	if perr != nil {
		n.Err = perr
		n.State = StateUpToDate
		n.Version++
		return
	}

	n.Err = nil
	old := n.Value
	if n.Equal == nil || !n.Equal(old, newVal) {
		n.Value = newVal
		n.Version++
		rt.emit(Event{Kind: EventObservableUpdate, EntityID: n.ID, EntityName: n.Name, Old: old, New: newVal})
	}
	n.State = StateUpToDate
}

// ReadComputed resolves n (recomputing if necessary), registers it as a
// dependency of the current derivation, and returns its value or the
// captured UserGetter error.
func (rt *SharedState) ReadComputed(n *Node) (any, error) {
	done := rt.tracker.enterSingleGoroutine()
	defer done()

	rt.Track(n)

	if n.RequiresReaction && rt.tracker.current == nil {
		return nil, ErrReadOutsideReaction
	}

	rt.resolve(n)
	return n.Value, n.Err
}

// ReadValue reads an Atom/ObservableValue, registering the dependency.
func (rt *SharedState) ReadValue(n *Node) any {
	rt.Track(n)
	return n.Value
}

// WriteValue stores v on n (no equality check — callers that need the
// equality short-circuit, i.e. ObservableValue, check before calling this)
// and propagates the change.
func (rt *SharedState) WriteValue(n *Node, v any) {
	done := rt.tracker.enterSingleGoroutine()
	defer done()

	old := n.Value
	n.Value = v
	n.Version++
	rt.emit(Event{Kind: EventObservableUpdate, EntityID: n.ID, EntityName: n.Name, Old: old, New: v})
	rt.ReportChanged(n)
}

// TrackReaction (re)establishes r's dependency set by running fn with r as
// the current derivation, then unlinks the dependencies of the previous run
// (like recompute, after fn, so a dependency read on both runs keeps r as an
// observer throughout). Grounded on sig/tracker.go's reciprocal add/remove.
func (rt *SharedState) TrackReaction(r *Node, fn func()) {
	done := rt.tracker.enterSingleGoroutine()
	defer done()

	stale := r.depsHead
	r.depsHead = nil
	defer unlinkDeps(stale)
	rt.tracker.runWithDerivation(r, fn)
}

// unlinkDeps removes every link of a dependency list that recompute or
// TrackReaction detached from its subscriber before re-tracking.
func unlinkDeps(l *link) {
	for l != nil {
		next := l.nextDep
		l.dep.removeSubLink(l)
		l = next
	}
}

// ScheduleReaction enqueues r for the next drain (or runs inline if nothing
// is batching) — spec §4.7 Reaction.schedule().
func (rt *SharedState) ScheduleReaction(r *Node) {
	if r.Disposed {
		return
	}
	rt.scheduleReaction(r)
	rt.maybeFlush()
}

// RunReaction executes one pending reaction's onInvalidate, honouring the
// configured reaction scheduler and error-boundary policy.
func (rt *SharedState) RunReaction(r *Node) {
	run := func() { rt.runReactionOnce(r) }
	if rt.config.ReactionScheduler != nil {
		rt.config.ReactionScheduler(run)
		return
	}
	run()
}

func (rt *SharedState) runReactionOnce(r *Node) {
	if r.Disposed {
		return
	}

	rt.emit(Event{Kind: EventReactionStart, EntityID: r.ID, EntityName: r.Name})
	defer rt.emit(Event{Kind: EventReactionEnd, EntityID: r.ID, EntityName: r.Name})

	defer func() {
		if rec := recover(); rec != nil {
			err := &UserEffectError{Name: r.Name, Cause: rec}
			if rt.config.DisableErrorBoundaries {
				panic(err)
			}
			if r.ErrorHandler != nil {
				r.ErrorHandler(err)
			}
		}
	}()

	r.OnInvalidate()
}

// Drain runs the reaction queue to exhaustion, in FIFO-per-round order,
// bounded by MaxReactionDepth (spec §5 re-entrancy limit).
func (rt *SharedState) Drain() {
	done := rt.tracker.enterSingleGoroutine()
	defer done()

	iterations := 0
	for rt.sched.hasPending() {
		iterations++
		rt.statsDrains++
		if iterations > rt.config.MaxReactionDepth {
			panic(ErrMaxReactionDepthExceeded)
		}

		batch := rt.sched.popPending()
		for _, r := range batch {
			r.Scheduled = false
			rt.statsReactionRuns++
			rt.RunReaction(r)
		}
	}
}

// DisposeReaction unlinks r from every atom it depends on and marks it
// disposed. Idempotent (P6).
func (rt *SharedState) DisposeReaction(r *Node) {
	r.ClearDeps()
	r.Disposed = true
	r.Scheduled = false
}
