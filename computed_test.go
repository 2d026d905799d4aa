package reactor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reactorcore/reactor"
)

func TestComputed(t *testing.T) {
	t.Run("derives value and only recomputes on read", func(t *testing.T) {
		rt := reactor.New(reactor.DefaultConfig())
		var log []string

		count := reactor.NewValue(rt, "count", 1)
		double := reactor.NewComputed(rt, "double", func() int {
			log = append(log, "doubling")
			return count.Get() * 2
		})
		plustwo := reactor.NewComputed(rt, "plustwo", func() int {
			log = append(log, "adding")
			return double.Get() + 2
		})

		assert.Equal(t, 1, count.Get())
		assert.Equal(t, 2, double.Get())
		assert.Equal(t, 4, plustwo.Get())

		reactor.RunInAction(rt, func() { assert.NoError(t, count.Set(10)) })
		assert.Equal(t, 20, double.Get())
		assert.Equal(t, 22, plustwo.Get())

		assert.Equal(t, []string{"doubling", "adding", "doubling", "adding"}, log)
	})

	t.Run("does not propagate when value unchanged", func(t *testing.T) {
		rt := reactor.New(reactor.DefaultConfig())
		var log []string

		count := reactor.NewValue(rt, "count", 1)
		a := reactor.NewComputed(rt, "a", func() int {
			log = append(log, "running a")
			return count.Get() * 0
		})
		b := reactor.NewComputed(rt, "b", func() int {
			log = append(log, "running b")
			return a.Get() + 1
		})

		a.Get()
		b.Get()

		reactor.RunInAction(rt, func() { assert.NoError(t, count.Set(10)) })
		b.Get() // resolves lazily: b is PossiblyStale, a (Stale) recomputes to the same 0, b sees no version change

		assert.Equal(t, []string{"running a", "running b", "running a"}, log)
	})

	t.Run("getter panic is captured and re-raised on read", func(t *testing.T) {
		rt := reactor.New(reactor.DefaultConfig())
		boom := reactor.NewComputed(rt, "boom", func() int {
			panic("kaboom")
		})

		_, err := boom.TryGet()
		var getterErr *reactor.UserGetterError
		assert.ErrorAs(t, err, &getterErr)

		assert.Panics(t, func() { boom.Get() })
	})

	t.Run("keep alive survives losing all observers", func(t *testing.T) {
		rt := reactor.New(reactor.DefaultConfig())
		runs := 0
		count := reactor.NewValue(rt, "count", 1)
		kept := reactor.NewComputed(rt, "kept", func() int {
			runs++
			return count.Get()
		}, reactor.KeepAlive[int]())

		r := reactor.Autorun(rt, "watch", func() { kept.Get() })
		r.Dispose()

		assert.Equal(t, 1, kept.Get())
		assert.Equal(t, 1, runs, "cached value should be reused, not recomputed, after losing its only observer")
	})
}
