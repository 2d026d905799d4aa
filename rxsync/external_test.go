package rxsync_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reactorcore/reactor"
	"github.com/reactorcore/reactor/rxsync"
)

func TestExternalSubscribesOnlyWhileObserved(t *testing.T) {
	rt := reactor.New(reactor.DefaultConfig())

	subscribeCalls, unsubscribeCalls := 0, 0
	var push func(int)
	ext := rxsync.FromExternal(rt, "ticks", func(p func(int)) func() {
		subscribeCalls++
		push = p
		return func() { unsubscribeCalls++ }
	}, 0)

	assert.Equal(t, 0, subscribeCalls, "must not subscribe before anything observes it")

	r := reactor.Autorun(rt, "watch", func() { ext.Get() })
	assert.Equal(t, 1, subscribeCalls, "first observe must subscribe")
	assert.Equal(t, 0, unsubscribeCalls)

	push(42)
	ext.Pump()
	assert.Equal(t, 42, ext.Get())

	r.Dispose()
	assert.Equal(t, 1, unsubscribeCalls, "last unobserve must unsubscribe")

	r2 := reactor.Autorun(rt, "watch again", func() { ext.Get() })
	defer r2.Dispose()
	assert.Equal(t, 2, subscribeCalls, "observing again must re-subscribe")

	ext.Close()
	assert.Equal(t, 2, unsubscribeCalls)
}
