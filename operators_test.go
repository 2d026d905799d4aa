package reactor_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/reactorcore/reactor"
)

func TestAutorunDropsStaleDependencies(t *testing.T) {
	// Spec scenario S5: autorun(() => read(a); read(b)) initially reads
	// both; once a later run only reads a, a subsequent write to b must
	// not re-trigger it — the dependency on b was dropped at last tracking.
	rt := reactor.New(reactor.DefaultConfig())
	a := reactor.NewValue(rt, "a", true)
	b := reactor.NewValue(rt, "b", 1)
	runs := 0

	r := reactor.Autorun(rt, "conditional", func() {
		runs++
		if a.Get() {
			b.Get()
		}
	})
	defer r.Dispose()
	assert.Equal(t, 1, runs)

	reactor.RunInAction(rt, func() { assert.NoError(t, a.Set(false)) })
	assert.Equal(t, 2, runs, "a changed, still a dependency")

	reactor.RunInAction(rt, func() { assert.NoError(t, b.Set(2)) })
	assert.Equal(t, 2, runs, "b was not read on the last tracked run, so it must not trigger a re-run")
}

func TestAutorun(t *testing.T) {
	rt := reactor.New(reactor.DefaultConfig())
	var log []int

	count := reactor.NewValue(rt, "count", 0)
	r := reactor.Autorun(rt, "log count", func() {
		log = append(log, count.Get())
	})
	defer r.Dispose()

	assert.Equal(t, []int{0}, log)

	reactor.RunInAction(rt, func() {
		assert.NoError(t, count.Set(1))
	})
	assert.Equal(t, []int{0, 1}, log)

	r.Dispose()
	reactor.RunInAction(rt, func() {
		assert.NoError(t, count.Set(2))
	})
	assert.Equal(t, []int{0, 1}, log, "disposed reaction must not run again")
}

func TestReact(t *testing.T) {
	t.Run("only fires on change", func(t *testing.T) {
		rt := reactor.New(reactor.DefaultConfig())
		var fired []int

		count := reactor.NewValue(rt, "count", 0)
		parity := reactor.NewComputed(rt, "parity", func() int { return count.Get() % 2 })

		r := reactor.React(rt, "on parity change",
			func() int { return parity.Get() },
			func(val, prev int) { fired = append(fired, val) },
		)
		defer r.Dispose()

		assert.Empty(t, fired, "no fireImmediately by default")

		reactor.RunInAction(rt, func() { count.Set(2) }) // parity stays 0
		assert.Empty(t, fired)

		reactor.RunInAction(rt, func() { count.Set(3) }) // parity becomes 1
		assert.Equal(t, []int{1}, fired)
	})

	t.Run("fireImmediately runs the effect once up front", func(t *testing.T) {
		rt := reactor.New(reactor.DefaultConfig())
		var fired []int

		count := reactor.NewValue(rt, "count", 5)
		r := reactor.React(rt, "log",
			func() int { return count.Get() },
			func(val, prev int) { fired = append(fired, val) },
			reactor.WithFireImmediately[int](),
		)
		defer r.Dispose()

		assert.Equal(t, []int{5}, fired)
	})

	t.Run("delay coalesces rapid re-fires into one effect call", func(t *testing.T) {
		rt := reactor.New(reactor.DefaultConfig())
		var fired []int

		count := reactor.NewValue(rt, "count", 0)
		r := reactor.React(rt, "log",
			func() int { return count.Get() },
			func(val, prev int) { fired = append(fired, val) },
			reactor.WithDelay[int](50*time.Millisecond),
		)
		defer r.Dispose()

		reactor.RunInAction(rt, func() { count.Set(1) })
		reactor.RunInAction(rt, func() { count.Set(2) })
		reactor.RunInAction(rt, func() { count.Set(3) })
		assert.Empty(t, fired, "effect must not fire before the delay window elapses")

		time.Sleep(150 * time.Millisecond)
		assert.Equal(t, []int{3}, fired, "only the latest value survives the coalescing window")
	})
}

func TestWhen(t *testing.T) {
	t.Run("resolves once the predicate is true", func(t *testing.T) {
		rt := reactor.New(reactor.DefaultConfig())
		count := reactor.NewValue(rt, "count", 0)

		w := reactor.NewWhen(context.Background(), rt, "reaches ten", func() bool {
			return count.Get() >= 10
		})

		select {
		case <-w.Done():
			t.Fatal("should not resolve before count reaches 10")
		default:
		}

		reactor.RunInAction(rt, func() { count.Set(10) })

		select {
		case <-w.Done():
		case <-time.After(time.Second):
			t.Fatal("When did not resolve")
		}
		assert.NoError(t, w.Err())
	})

	t.Run("rejects when the context is cancelled first", func(t *testing.T) {
		rt := reactor.New(reactor.DefaultConfig())
		count := reactor.NewValue(rt, "count", 0)

		ctx, cancel := context.WithCancel(context.Background())
		w := reactor.NewWhen(ctx, rt, "never", func() bool { return count.Get() >= 10 })
		cancel()

		select {
		case <-w.Done():
		case <-time.After(time.Second):
			t.Fatal("When did not resolve after cancellation")
		}
		assert.ErrorIs(t, w.Err(), context.Canceled)
	})

	t.Run("rejects with Timeout if the predicate never becomes true in time", func(t *testing.T) {
		rt := reactor.New(reactor.DefaultConfig())
		count := reactor.NewValue(rt, "count", 0)

		w := reactor.NewWhenTimeout(context.Background(), rt, "reaches three", func() bool {
			return count.Get() >= 3
		}, 50*time.Millisecond)

		reactor.RunInAction(rt, func() { count.Set(2) })

		select {
		case <-w.Done():
		case <-time.After(time.Second):
			t.Fatal("When did not time out")
		}
		assert.ErrorIs(t, w.Err(), reactor.ErrTimeout)

		reactor.RunInAction(rt, func() { count.Set(3) })
	})
}
