package internal

// SharedState is the process- or scope-local reactivity runtime of spec §3
// (C1). It owns the tracking stack, the batch/drain scheduler, config, the
// spy stream, and acts as the factory for every Atom/Computed/Reaction.
type SharedState struct {
	config  Config
	tracker *tracker
	sched   *scheduler
	spies   []EventHandler

	disposalQueue []*Node // non-keep-alive computeds pending cache release

	statsAtoms        int64
	statsComputeds    int64
	statsReactions    int64
	statsDrains       int64
	statsReactionRuns int64
}

// Stats is a snapshot of graph-health counters, consumed by rxmetrics.
type Stats struct {
	Atoms            int64
	Computeds        int64
	Reactions        int64
	PendingReactions int
	DrainCount       int64
	ReactionRunCount int64
}

// Stats reports cumulative graph-health counters.
func (rt *SharedState) Stats() Stats {
	return Stats{
		Atoms:            rt.statsAtoms,
		Computeds:        rt.statsComputeds,
		Reactions:        rt.statsReactions,
		PendingReactions: len(rt.sched.pending),
		DrainCount:       rt.statsDrains,
		ReactionRunCount: rt.statsReactionRuns,
	}
}

// New constructs an isolated SharedState, per spec's "every primitive
// accepts an explicit SharedState" design note in §9.
func New(cfg Config) *SharedState {
	if cfg.MaxReactionDepth <= 0 {
		cfg.MaxReactionDepth = 100
	}
	return &SharedState{
		config:  cfg,
		tracker: newTracker(),
		sched:   newScheduler(),
	}
}

func (rt *SharedState) Config() Config { return rt.config }

// CurrentDerivation exposes the read-only "current derivation" accessor of
// spec §4.1.
func (rt *SharedState) CurrentDerivation() *Node { return rt.tracker.current }

// ---- constructors ----

// NewAtom creates a valueless change beacon (C2).
func (rt *SharedState) NewAtom(name string, onObserved, onUnobserved func()) *Node {
	n := newNode(rt, KindAtom, name)
	n.OnBecomeObserved = onObserved
	n.OnBecomeUnobserved = onUnobserved
	n.State = StateUpToDate
	rt.statsAtoms++
	return n
}

// NewValue creates an atom with a stored value (C3). onObserved/onUnobserved
// (either may be nil) are the same per-atom hooks Atom exposes directly,
// threaded through here so ObservableValue can back a lazily-subscribed
// source (rxsync.External) without needing its own Node constructor.
func (rt *SharedState) NewValue(name string, initial any, equal func(a, b any) bool, onObserved, onUnobserved func()) *Node {
	n := rt.NewAtom(name, onObserved, onUnobserved)
	n.Value = initial
	n.Equal = equal
	return n
}

// NewComputed creates a cached derivation (C6).
func (rt *SharedState) NewComputed(name string, compute func() any, equal func(a, b any) bool, keepAlive, requiresReaction bool) *Node {
	n := newNode(rt, KindComputed, name)
	n.Compute = compute
	n.Equal = equal
	n.KeepAlive = keepAlive
	n.RequiresReaction = requiresReaction
	n.OnBecomeUnobserved = func() {
		if !n.KeepAlive {
			rt.releaseComputed(n)
		}
	}
	rt.statsComputeds++
	return n
}

// NewReaction creates an effectful, terminal derivation (C7).
func (rt *SharedState) NewReaction(name string, onInvalidate func(), errorHandler func(error)) *Node {
	n := newNode(rt, KindReaction, name)
	n.OnInvalidate = onInvalidate
	n.ErrorHandler = errorHandler
	rt.statsReactions++
	return n
}

func (rt *SharedState) releaseComputed(n *Node) {
	n.ClearDeps()
	n.Value = nil
	n.Err = nil
	n.DepVersions = nil
	n.State = StateNotTracking
}

// ---- reads/writes ----

// Track registers the current derivation (if any) as an observer of n, and
// reports whether tracking occurred.
func (rt *SharedState) Track(n *Node) bool {
	return rt.tracker.track(n)
}

// RunUntracked suppresses dependency capture for the duration of fn.
func (rt *SharedState) RunUntracked(fn func()) {
	rt.tracker.runUntracked(fn)
}

// CheckWrite enforces the configured write policy for a write to n.
func (rt *SharedState) CheckWrite(n *Node) error {
	switch rt.config.EnforceActions {
	case WritePolicyNever:
		return nil
	case WritePolicyAlways:
		if !rt.sched.isBatching() {
			return ErrWriteOutsideAction
		}
	case WritePolicyObserved:
		if n.hasObservers() && !rt.sched.isBatching() {
			return ErrWriteOutsideAction
		}
	}
	return nil
}

// ReportChanged marks n (an atom, just genuinely written) and, transitively,
// every derivation that can reach it, dirty — see propagate.go.
func (rt *SharedState) ReportChanged(n *Node) {
	rt.propagateStale(n)
	rt.maybeFlush()
}

func (rt *SharedState) maybeFlush() {
	if !rt.sched.isBatching() {
		rt.runScheduledDrain()
	}
}

func (rt *SharedState) runScheduledDrain() {
	if rt.config.Scheduler != nil {
		rt.config.Scheduler(rt.Drain)
		return
	}
	rt.Drain()
}

// Dispatch marshals fn onto the configured Scheduler, the same hook §5
// designates for handing reactive work to the owning executor, instead of
// running it wherever the caller happens to be. Used by callers (When's
// timeout/cancellation path) that would otherwise touch the graph from a
// goroutine other than the one driving it. With no Scheduler configured
// there is only one declared executor (the caller's own goroutine), so fn
// runs inline.
func (rt *SharedState) Dispatch(fn func()) {
	if rt.config.Scheduler != nil {
		rt.config.Scheduler(fn)
		return
	}
	fn()
}

// ---- actions / batching ----

func (rt *SharedState) BeginAction(name string) {
	rt.sched.batchDepth++
	rt.emit(Event{Kind: EventActionStart, EntityName: name})
}

// EndAction closes one action/batch scope. When the outermost scope closes
// it drains pending reactions (possibly via the configured scheduler).
func (rt *SharedState) EndAction(name string) {
	rt.sched.batchDepth--
	if rt.sched.batchDepth < 0 {
		rt.sched.batchDepth = 0
	}
	rt.emit(Event{Kind: EventActionEnd, EntityName: name})
	if rt.sched.batchDepth == 0 {
		rt.runScheduledDrain()
	}
}

func (rt *SharedState) IsBatching() bool { return rt.sched.isBatching() }
