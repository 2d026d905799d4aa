// Package rxzerolog bridges the engine's spy stream into structured
// zerolog events, the ambient logging treatment the teacher's dependency
// stack favors (github.com/rs/zerolog) rather than anything hand-rolled.
package rxzerolog

import (
	"github.com/rs/zerolog"

	"github.com/reactorcore/reactor"
)

var eventNames = map[reactor.EventKind]string{
	reactor.EventActionStart:       "action_start",
	reactor.EventActionEnd:         "action_end",
	reactor.EventReactionStart:     "reaction_start",
	reactor.EventReactionEnd:       "reaction_end",
	reactor.EventComputedRecompute: "computed_recompute",
	reactor.EventObservableUpdate:  "observable_update",
	reactor.EventCollectionMutation: "collection_mutation",
}

// Sink returns a reactor.EventHandler that logs every spy event to logger
// at debug level, with the entity's name/id and, for value-carrying events,
// its old/new value.
func Sink(logger zerolog.Logger) reactor.EventHandler {
	return func(evt reactor.Event) {
		name, ok := eventNames[evt.Kind]
		if !ok {
			name = "unknown"
		}
		e := logger.Debug().
			Str("event", name).
			Str("entity_id", evt.EntityID.String()).
			Str("entity_name", evt.EntityName).
			Time("time", evt.Time)

		if evt.Kind == reactor.EventComputedRecompute || evt.Kind == reactor.EventObservableUpdate || evt.Kind == reactor.EventCollectionMutation {
			e = e.Interface("old", evt.Old).Interface("new", evt.New)
		}
		e.Msg("reactor event")
	}
}
