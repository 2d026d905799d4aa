package reactor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Autorun runs fn immediately and again every time a dependency read during
// its last run changes, until the returned Reaction is disposed.
// It is the unconditional "run this whenever anything it reads changes"
// operator of spec §4.9; React below is its conditional sibling.
func Autorun(s *SharedState, name string, fn func(), opts ...ReactionOption) *Reaction {
	r := NewReaction(s, name, fn, opts...)
	r.Start()
	return r
}

type reactConfig[T any] struct {
	equal           Equality[T]
	fireImmediately bool
	delay           time.Duration
}

// ReactOption configures the React operator.
type ReactOption[T any] func(*reactConfig[T])

// WithFireImmediately makes React invoke effect once with expression's
// initial value, instead of only on the first change.
func WithFireImmediately[T any]() ReactOption[T] {
	return func(c *reactConfig[T]) { c.fireImmediately = true }
}

// WithReactEquality overrides the default reference equality used to decide
// whether expression's result actually changed between runs.
func WithReactEquality[T any](eq Equality[T]) ReactOption[T] {
	return func(c *reactConfig[T]) { c.equal = eq }
}

// WithDelay coalesces repeated changes to expression's result within d into
// one effect call carrying the latest value — spec §4.9's `delay` option.
// Every invalidation within the window resets the timer; effect only ever
// sees the value current when the timer finally fires.
func WithDelay[T any](d time.Duration) ReactOption[T] {
	return func(c *reactConfig[T]) { c.delay = d }
}

// React is the expression/effect operator of spec §4.9 (mobx calls this
// "reaction"; it is named React here so it doesn't collide with the raw
// Reaction type above): expression runs tracked on every invalidation,
// effect runs only when its result changes per equal, and effect itself
// runs untracked so reads inside it never add new dependencies.
func React[T any](s *SharedState, name string, expression func() T, effect func(value, prev T), opts ...ReactOption[T]) *Reaction {
	cfg := reactConfig[T]{equal: ReferenceEquality[T]}
	for _, o := range opts {
		o(&cfg)
	}

	var prev T
	first := true

	var (
		mu         sync.Mutex
		timer      *time.Timer
		windowFrom T // value prev held when the current coalescing window opened
	)
	fire := func(val, old T) {
		UntrackedVoid(s, func() { effect(val, old) })
	}

	r := NewReaction(s, name, nil)
	r.fn = func() {
		val := expression()
		if first {
			first = false
			prev = val
			if cfg.fireImmediately {
				old := prev
				fire(val, old)
			}
			return
		}
		if cfg.equal(prev, val) {
			return
		}
		old := prev
		prev = val

		if cfg.delay <= 0 {
			fire(val, old)
			return
		}

		mu.Lock()
		if timer == nil {
			windowFrom = old
		} else {
			timer.Stop()
		}
		latest := val
		from := windowFrom
		timer = time.AfterFunc(cfg.delay, func() {
			mu.Lock()
			timer = nil
			mu.Unlock()
			fire(latest, from)
		})
		mu.Unlock()
	}
	r.Start()
	return r
}

// When resolves once predicate becomes true while being re-evaluated
// tracked, or rejects if ctx is cancelled or times out first — spec §4.9's
// one-shot conditional wait, built on context.Context rather than a bespoke
// timer since that's the idiomatic Go way to combine cancellation and
// timeout (callers pass context.WithTimeout(ctx, d) to get the timeout
// behaviour the source library exposes as an option).
type When struct {
	rt   *SharedState
	r    *Reaction
	done chan struct{}

	mu  sync.Mutex
	err error
}

// NewWhen starts watching predicate immediately; if it is already true the
// first tracked run resolves synchronously before NewWhen returns.
func NewWhen(ctx context.Context, s *SharedState, name string, predicate func() bool) *When {
	w := &When{rt: s, done: make(chan struct{})}
	w.r = NewReaction(s, name, nil)
	w.r.fn = func() {
		if predicate() {
			w.finish(nil)
		}
	}

	go func() {
		select {
		case <-ctx.Done():
			err := ctx.Err()
			if errors.Is(err, context.DeadlineExceeded) {
				err = fmt.Errorf("%w: %w", ErrTimeout, err)
			}
			w.finish(err)
		case <-w.done:
		}
	}()

	w.r.Start()
	return w
}

// NewWhenTimeout is NewWhen with a convenience timeout, matching spec §4.9's
// `when(predicate, { timeout })` option: if predicate has not become true
// within d, the handle's Err() is ErrTimeout (wrapping context.DeadlineExceeded,
// so errors.Is works for both).
func NewWhenTimeout(ctx context.Context, s *SharedState, name string, predicate func() bool, d time.Duration) *When {
	ctx, cancel := context.WithTimeout(ctx, d)
	w := NewWhen(ctx, s, name, predicate)
	go func() {
		<-w.Done()
		cancel()
	}()
	return w
}

func (w *When) finish(err error) {
	w.mu.Lock()
	select {
	case <-w.done:
		w.mu.Unlock()
		return
	default:
	}
	w.err = err
	close(w.done)
	w.mu.Unlock()
	// finish runs both from the tracked predicate (already on the owning
	// goroutine) and from the ctx-watching goroutine started in NewWhen;
	// Dispatch marshals the latter's disposal onto the owning executor
	// instead of touching the graph directly from a foreign goroutine (§5).
	w.rt.Dispatch(w.r.Dispose)
}

// Done returns a channel closed once predicate has become true or ctx ended.
func (w *When) Done() <-chan struct{} { return w.done }

// Err returns nil if predicate became true, or ctx.Err() if it ended the
// wait first (wrapped in ErrTimeout when that was a passed deadline). Only
// meaningful after Done() has fired.
func (w *When) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}
