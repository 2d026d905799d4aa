package collections_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reactorcore/reactor"
	"github.com/reactorcore/reactor/collections"
)

func TestSet(t *testing.T) {
	rt := reactor.New(reactor.DefaultConfig())
	s := collections.NewSetFrom(rt, "s", []string{"a", "b"})

	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Has("a"))
	assert.False(t, s.Has("z"))

	runsA, runsLen := 0, 0
	ra := reactor.Autorun(rt, "watch a", func() { runsA++; s.Has("a") })
	rl := reactor.Autorun(rt, "watch len", func() { runsLen++; s.Len() })
	defer ra.Dispose()
	defer rl.Dispose()
	assert.Equal(t, 1, runsA)
	assert.Equal(t, 1, runsLen)

	reactor.RunInAction(rt, func() { assert.NoError(t, s.Add("b")) })
	assert.Equal(t, 1, runsA, "re-adding an existing member is a no-op")
	assert.Equal(t, 1, runsLen)

	reactor.RunInAction(rt, func() { assert.NoError(t, s.Add("c")) })
	assert.Equal(t, 2, runsLen, "adding a new member is structural")
	assert.Equal(t, 1, runsA, "unrelated member must not re-run a's watcher")

	reactor.RunInAction(rt, func() { assert.NoError(t, s.Delete("a")) })
	assert.Equal(t, 2, runsA, "deleting a watched member re-runs its watcher")
	assert.Equal(t, 3, runsLen)

	assert.ElementsMatch(t, []string{"b", "c"}, s.Values())
}

func TestSetWritePolicy(t *testing.T) {
	rt := reactor.New(reactor.DefaultConfig())
	s := collections.NewSet[string](rt, "s")

	r := reactor.Autorun(rt, "watch", func() { s.Len() })
	defer r.Dispose()

	err := s.Add("x")
	assert.ErrorIs(t, err, reactor.ErrWriteOutsideAction)
	assert.Equal(t, 0, s.Len())
}
