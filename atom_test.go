package reactor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reactorcore/reactor"
)

func TestValue(t *testing.T) {
	t.Run("read and write", func(t *testing.T) {
		rt := reactor.New(reactor.DefaultConfig())
		count := reactor.NewValue(rt, "count", 0)
		assert.Equal(t, 0, count.Get())

		assert.NoError(t, count.Set(10))
		assert.Equal(t, 10, count.Get())
	})

	t.Run("zero values", func(t *testing.T) {
		rt := reactor.New(reactor.DefaultConfig())
		errv := reactor.NewValue[error](rt, "err", nil)
		assert.Nil(t, errv.Get())
	})

	t.Run("equal write is a no-op", func(t *testing.T) {
		rt := reactor.New(reactor.DefaultConfig())
		var events []reactor.Event
		rt.Spy(func(e reactor.Event) { events = append(events, e) })

		v := reactor.NewValue(rt, "v", 1)
		assert.NoError(t, v.Set(1))
		assert.Empty(t, events, "writing the same value should not emit an update")

		assert.NoError(t, v.Set(2))
		assert.Len(t, events, 1)
	})

	t.Run("write requires an action once observed", func(t *testing.T) {
		rt := reactor.New(reactor.DefaultConfig())
		v := reactor.NewValue(rt, "v", 1)

		r := reactor.Autorun(rt, "watch", func() { v.Get() })
		defer r.Dispose()

		err := v.Set(2)
		assert.ErrorIs(t, err, reactor.ErrWriteOutsideAction)
		assert.Equal(t, 1, v.Get())

		reactor.RunInAction(rt, func() {
			assert.NoError(t, v.Set(2))
		})
		assert.Equal(t, 2, v.Get())
	})
}

func TestAtom(t *testing.T) {
	t.Run("observed hooks fire once each way", func(t *testing.T) {
		rt := reactor.New(reactor.DefaultConfig())
		observed, unobserved := 0, 0
		a := rt.NewAtom("a", func() { observed++ }, func() { unobserved++ })

		r := reactor.Autorun(rt, "watch", func() { a.Report() })
		assert.Equal(t, 1, observed)

		r.Dispose()
		assert.Equal(t, 1, unobserved)
	})
}
