// Package reactor is a transparent reactive state engine: plain data whose
// reads are automatically tracked and whose writes automatically propagate
// to derived values and side effects, with minimal, correct, glitch-free
// recomputation — a general-purpose MobX-style observable/computed/reaction
// triangle for Go.
package reactor

import (
	"sync"

	"github.com/google/uuid"
	"github.com/petermattis/goid"

	"github.com/reactorcore/reactor/internal"
)

// WritePolicy controls when a write to an observable is allowed.
type WritePolicy = internal.WritePolicy

const (
	WritePolicyObserved = internal.WritePolicyObserved
	WritePolicyAlways   = internal.WritePolicyAlways
	WritePolicyNever    = internal.WritePolicyNever
)

// ProxyPolicy mirrors the source library's useProxies option; Go has no
// reflective field interception so this is advisory only (see SPEC_FULL.md
// §5 and §9).
type ProxyPolicy = internal.ProxyPolicy

const (
	ProxyIfAvailable = internal.ProxyIfAvailable
	ProxyAlways      = internal.ProxyAlways
	ProxyNever       = internal.ProxyNever
)

// Config is the exhaustive configuration surface of spec §6.
type Config = internal.Config

// DefaultConfig returns the documented defaults (EnforceActions: Observed,
// MaxReactionDepth: 100, UseProxies: IfAvailable).
func DefaultConfig() Config { return internal.DefaultConfig() }

// SharedState is the reactivity runtime: it owns every atom, computed value
// and reaction created against it (spec §3/§4.1, component C1).
type SharedState struct {
	rt *internal.SharedState
}

// New constructs an isolated SharedState — useful for e.g. one reactive
// graph per incoming request in a server, so graphs never leak across
// requests.
func New(cfg Config) *SharedState {
	return &SharedState{rt: internal.New(cfg)}
}

func wrap(rt *internal.SharedState) *SharedState { return &SharedState{rt: rt} }

// Config returns the configuration this SharedState was built with.
func (s *SharedState) Config() Config { return s.rt.Config() }

var (
	globalStatesMu sync.Mutex
	globalStates   = map[int64]*SharedState{}
)

// Global returns a goroutine-local default SharedState, lazily created on
// first use and bound to the calling goroutine id — grounded on the
// teacher's sig.getActiveOwner/internal.GetRuntime pattern
// (goid.Get()-keyed registry of one runtime per goroutine) rather than a
// single process-wide instance, so independent goroutines never corrupt
// each other's tracking stack just by calling Global(). The registry itself
// is touched from whatever goroutine happens to call Global() first, so
// unlike a SharedState's own graph it needs its own lock (§5's
// single-executor model applies to one SharedState's graph, not to this
// lazy-init map of them).
func Global() *SharedState {
	gid := goid.Get()
	globalStatesMu.Lock()
	defer globalStatesMu.Unlock()
	if s, ok := globalStates[gid]; ok {
		return s
	}
	s := New(DefaultConfig())
	globalStates[gid] = s
	return s
}

// Event is one entry of the introspection ("spy") stream (C10, spec §4.10).
type Event = internal.Event

// EventKind enumerates the structured events the spy stream emits.
type EventKind = internal.EventKind

const (
	EventActionStart        = internal.EventActionStart
	EventActionEnd           = internal.EventActionEnd
	EventReactionStart       = internal.EventReactionStart
	EventReactionEnd         = internal.EventReactionEnd
	EventComputedRecompute   = internal.EventComputedRecompute
	EventObservableUpdate    = internal.EventObservableUpdate
	EventCollectionMutation  = internal.EventCollectionMutation
)

// EventHandler receives spy events in causal order.
type EventHandler = internal.EventHandler

// Spy subscribes h to every introspection event emitted by s. Returns an
// unsubscribe function.
func (s *SharedState) Spy(h EventHandler) func() { return s.rt.Spy(h) }

// EmitCollectionMutation reports a structural or per-entry mutation on an
// observable collection (collections.List/Map/Set) or a dynamic object
// (rxobject.Object) to the spy stream — the C4/C5 half of component C10's
// "every... collection mutation emits an event" requirement (spec §4.10),
// which entities built on top of the atom/value primitives in this package
// can't get for free the way Value[T]'s own writes do.
func (s *SharedState) EmitCollectionMutation(id uuid.UUID, name string, old, new any) {
	s.rt.Emit(internal.Event{
		Kind:       internal.EventCollectionMutation,
		EntityID:   id,
		EntityName: name,
		Old:        old,
		New:        new,
	})
}

func (s *SharedState) internalRT() *internal.SharedState { return s.rt }

// Dispatch marshals fn onto the configured Scheduler (the owning executor
// hook) instead of running it on the caller's goroutine, for code that
// reaches the graph from off a derivation/action (e.g. a context-cancellation
// or timer goroutine). With no Scheduler configured, fn runs inline.
func (s *SharedState) Dispatch(fn func()) { s.rt.Dispatch(fn) }

// Stats is a snapshot of graph-health counters (rxmetrics' data source).
type Stats = internal.Stats

// Stats reports cumulative graph-health counters for s.
func (s *SharedState) Stats() Stats { return s.rt.Stats() }
