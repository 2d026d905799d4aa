package collections_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reactorcore/reactor"
	"github.com/reactorcore/reactor/collections"
)

func TestList(t *testing.T) {
	t.Run("append, at, set, remove", func(t *testing.T) {
		rt := reactor.New(reactor.DefaultConfig())
		l := collections.NewListFrom(rt, "l", []string{"a", "b", "c"})

		assert.Equal(t, 3, l.Len())
		assert.Equal(t, "b", l.At(1))

		assert.NoError(t, l.Set(1, "bb"))
		assert.Equal(t, "bb", l.At(1))

		removed, err := l.RemoveAt(0)
		assert.NoError(t, err)
		assert.Equal(t, "a", removed)
		assert.Equal(t, 2, l.Len())
		assert.Equal(t, []string{"bb", "c"}, l.Slice())
	})

	t.Run("writing one slot does not invalidate a reaction watching another", func(t *testing.T) {
		rt := reactor.New(reactor.DefaultConfig())
		l := collections.NewListFrom(rt, "l", []int{1, 2, 3})

		runs := 0
		r := reactor.Autorun(rt, "watch slot 0", func() {
			runs++
			l.At(0)
		})
		defer r.Dispose()
		assert.Equal(t, 1, runs)

		reactor.RunInAction(rt, func() { l.Set(1, 20) })
		assert.Equal(t, 1, runs, "unrelated slot write must not re-run the watcher")

		reactor.RunInAction(rt, func() { l.Set(0, 10) })
		assert.Equal(t, 2, runs)
	})

	t.Run("append notifies structural watchers", func(t *testing.T) {
		rt := reactor.New(reactor.DefaultConfig())
		l := collections.NewList[int](rt, "l")

		runs := 0
		r := reactor.Autorun(rt, "watch len", func() {
			runs++
			l.Len()
		})
		defer r.Dispose()
		assert.Equal(t, 1, runs)

		reactor.RunInAction(rt, func() { l.Append(1) })
		assert.Equal(t, 2, runs)
	})
}
