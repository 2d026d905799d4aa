// Package rxsync bridges an external push source (a websocket client, a
// file watcher, anything that calls back with new values on its own
// goroutine) into an observable value. The engine's single-goroutine
// discipline (SPEC_FULL.md §5/§9) means an external callback can never
// write directly into the graph; External queues incoming values and only
// applies them to the observable when Pump runs. Supervise calls Pump on a
// ticker from a goroutine it starts under a supervised errgroup, not on the
// caller's goroutine.
package rxsync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/reactorcore/reactor"
)

// External is an observable value fed by an external push source (spec
// §4.9's fromExternal, generalized past any single messaging library since
// none of the example repos bundle one — see SPEC_FULL.md §11). It
// subscribes to subscribe only while at least one derivation is observing
// it, and unsubscribes the moment the last one stops, per spec §4.9:
// "subscribes on first observe, unsubscribes on last unobserve,
// re-subscribes if observed again".
type External[T any] struct {
	rt        *reactor.SharedState
	val       *reactor.Value[T]
	subscribe func(push func(T)) (unsubscribe func())

	mu          sync.Mutex
	queue       []T
	unsubscribe func()
	closed      bool
}

// FromExternal wires subscribe to the returned value's observed-count, but
// does not call it yet: subscribe runs for the first time only once
// something reads the value inside a tracked derivation. initial is what
// Get returns until then (and until the first pushed value is pumped).
// subscribe's push callback may be called from any goroutine at any time;
// values are queued and only committed to the observable by Pump.
func FromExternal[T any](rt *reactor.SharedState, name string, subscribe func(push func(T)) (unsubscribe func()), initial T) *External[T] {
	e := &External[T]{rt: rt, subscribe: subscribe}
	e.val = reactor.NewValue[T](rt, name, initial, reactor.WithObservedHooks[T](e.onObserved, e.onUnobserved))
	return e
}

func (e *External[T]) onObserved() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.unsubscribe != nil {
		return
	}
	e.unsubscribe = e.subscribe(e.enqueue)
}

func (e *External[T]) onUnobserved() {
	e.mu.Lock()
	unsub := e.unsubscribe
	e.unsubscribe = nil
	e.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

func (e *External[T]) enqueue(v T) {
	e.mu.Lock()
	e.queue = append(e.queue, v)
	e.mu.Unlock()
}

// Pump applies every value queued since the last Pump to the underlying
// observable, in arrival order, inside one action. Must be called from the
// goroutine driving the bound SharedState.
func (e *External[T]) Pump() {
	e.mu.Lock()
	pending := e.queue
	e.queue = nil
	e.mu.Unlock()
	if len(pending) == 0 {
		return
	}
	reactor.RunInAction(e.rt, func() {
		for _, v := range pending {
			e.val.Set(v)
		}
	})
}

// Get reads the current value, tracking it as a dependency.
func (e *External[T]) Get() T { return e.val.Get() }

// Close unsubscribes from the external source, if currently subscribed, and
// prevents any future observe from re-subscribing. Idempotent.
func (e *External[T]) Close() {
	e.mu.Lock()
	e.closed = true
	unsub := e.unsubscribe
	e.unsubscribe = nil
	e.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// pumper is the minimal interface Supervise needs, so it can drive any
// External[T] without itself being generic.
type pumper interface{ Pump() }

// Supervise calls p.Pump() every interval until ctx is cancelled, via a
// single supervised goroutine under errgroup — so a panic inside Pump (a
// user equality/enhancer function misbehaving) surfaces as a returned error
// instead of silently killing a bare goroutine.
func Supervise(ctx context.Context, p pumper, interval time.Duration) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("rxsync: Pump panicked: %v", r)
			}
		}()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				p.Pump()
			}
		}
	})
	return g.Wait()
}
