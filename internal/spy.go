package internal

import (
	"time"

	"github.com/google/uuid"
)

// EventKind enumerates the structured events spec §4.10 requires.
type EventKind int

const (
	EventActionStart EventKind = iota
	EventActionEnd
	EventReactionStart
	EventReactionEnd
	EventComputedRecompute
	EventObservableUpdate
	EventCollectionMutation
)

// Event is one entry of the introspection stream. Old/New are the raw
// before/after values for updates; nil otherwise.
type Event struct {
	Kind       EventKind
	EntityID   uuid.UUID
	EntityName string
	Old        any
	New        any
	Time       time.Time
}

// EventHandler receives spy events in causal order, synchronously, before
// control returns to user code (spec §4.10).
type EventHandler func(Event)

// Emit publishes evt to every registered spy handler. Exported so that
// packages built on top of this one (collections, rxobject) can report
// mutations of their own composite entities through the same stream.
func (rt *SharedState) Emit(evt Event) {
	rt.emit(evt)
}

func (rt *SharedState) emit(evt Event) {
	if len(rt.spies) == 0 {
		return
	}
	evt.Time = time.Now()
	for _, h := range rt.spies {
		if h != nil {
			h(evt)
		}
	}
}

// Spy registers a handler for every introspection event. Returns an
// unsubscribe function.
func (rt *SharedState) Spy(h EventHandler) func() {
	rt.spies = append(rt.spies, h)
	idx := len(rt.spies) - 1
	return func() {
		if idx < len(rt.spies) {
			rt.spies[idx] = nil
		}
	}
}
