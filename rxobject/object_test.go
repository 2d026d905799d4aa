package rxobject_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reactorcore/reactor"
	"github.com/reactorcore/reactor/rxobject"
)

func TestObject(t *testing.T) {
	rt := reactor.New(reactor.DefaultConfig())
	p := rxobject.New(rt, "person")

	assert.NoError(t, p.AddObservableMember("firstName", "Jan"))
	assert.NoError(t, p.AddObservableMember("lastName", "Spuij"))
	assert.NoError(t, p.AddComputedMember("fullName", func() any {
		first := rxobject.MustGetAs[string](p, "firstName")
		last := rxobject.MustGetAs[string](p, "lastName")
		return first + " " + last
	}))

	full, err := p.Get("fullName")
	assert.NoError(t, err)
	assert.Equal(t, "Jan Spuij", full)

	_, err = p.Get("nope")
	assert.ErrorIs(t, err, reactor.ErrUnknownMember)

	assert.ErrorIs(t, p.Set("fullName", "x"), reactor.ErrUnknownMember, "computed members are read-only")
}

func TestObjectReactToFullName(t *testing.T) {
	rt := reactor.New(reactor.DefaultConfig())
	p := rxobject.New(rt, "person")
	assert.NoError(t, p.AddObservableMember("firstName", "Jan"))
	assert.NoError(t, p.AddObservableMember("lastName", "Spuij"))
	assert.NoError(t, p.AddComputedMember("fullName", func() any {
		return rxobject.MustGetAs[string](p, "firstName") + " " + rxobject.MustGetAs[string](p, "lastName")
	}))

	var seen []string
	r := reactor.Autorun(rt, "log full name", func() {
		seen = append(seen, rxobject.MustGetAs[string](p, "fullName"))
	})
	defer r.Dispose()
	assert.Equal(t, []string{"Jan Spuij"}, seen)

	reactor.RunInAction(rt, func() {
		assert.NoError(t, p.Set("firstName", "Eddy"))
		assert.NoError(t, p.Set("lastName", "Tick"))
	})
	assert.Equal(t, []string{"Jan Spuij", "Eddy Tick"}, seen, "one action, one reaction run, like spec scenario S1")
}

func TestObjectAddingMemberIsStructural(t *testing.T) {
	rt := reactor.New(reactor.DefaultConfig())
	o := rxobject.New(rt, "o")

	runs := 0
	r := reactor.Autorun(rt, "watch keys", func() { runs++; o.Keys() })
	defer r.Dispose()
	assert.Equal(t, 1, runs)

	reactor.RunInAction(rt, func() {
		assert.NoError(t, o.AddObservableMember("x", 1))
	})
	assert.Equal(t, 2, runs)
}

func TestObjectMemberWriteRequiresAction(t *testing.T) {
	rt := reactor.New(reactor.DefaultConfig())
	o := rxobject.New(rt, "o")
	assert.NoError(t, o.AddObservableMember("x", 1))

	r := reactor.Autorun(rt, "watch x", func() { o.MustGet("x") })
	defer r.Dispose()

	err := o.Set("x", 2)
	assert.ErrorIs(t, err, reactor.ErrWriteOutsideAction)
}

func TestObjectAutoscheduleActionsWrapsSet(t *testing.T) {
	cfg := reactor.DefaultConfig()
	cfg.AutoscheduleActions = true
	rt := reactor.New(cfg)
	o := rxobject.New(rt, "o")
	assert.NoError(t, o.AddObservableMember("x", 1))

	runs := 0
	r := reactor.Autorun(rt, "watch x", func() { runs++; o.MustGet("x") })
	defer r.Dispose()
	assert.Equal(t, 1, runs)

	assert.NoError(t, o.Set("x", 2), "AutoscheduleActions must wrap the write in an action instead of rejecting it")
	assert.Equal(t, 2, runs)
	assert.Equal(t, 2, o.MustGet("x"))
}
