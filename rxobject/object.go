// Package rxobject provides Object, the dynamic observable "bag of named
// members" of component C5 — the Go analogue of a plain reactive object
// whose properties are attached at runtime rather than declared on a
// struct. Go has no reflective field interception, so there is no implicit
// observable-struct story here; Get/Set are always explicit (see SPEC_FULL
// for the rationale), and the GetAs/MustGetAs/SetAs helpers in typed.go give that
// explicitness a typed face for callers who do know T ahead of time.
package rxobject

import "github.com/reactorcore/reactor"

func init() {
	reactor.RegisterDeepWrapper(func(rt *reactor.SharedState, v any) (any, bool) {
		raw, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}
		obj := New(rt, "")
		for k, val := range raw {
			_ = obj.AddObservableMember(k, val)
		}
		return obj, true
	})
}

// Object is a dynamic name -> member bag. Adding or removing a member is a
// structural change (notifies the shared keys atom); reading or writing an
// existing member's value only touches that member's own atom, so two
// reactions watching different members never invalidate each other.
type Object struct {
	rt        *reactor.SharedState
	name      string
	keys      *reactor.Atom
	values    map[string]*reactor.Value[any]
	computeds map[string]*reactor.Computed[any]
}

// New creates an empty observable object bound to rt.
func New(rt *reactor.SharedState, name string) *Object {
	return &Object{
		rt:        rt,
		name:      name,
		keys:      rt.NewAtom(name+".keys", nil, nil),
		values:    make(map[string]*reactor.Value[any]),
		computeds: make(map[string]*reactor.Computed[any]),
	}
}

// AddObservableMember attaches a plain read/write member named name,
// initialized to initial. Replaces any existing member of the same name.
// Adding a member is a structural change against the keys atom, so it is
// subject to the SharedState's WritePolicy like any other write (spec §4.8).
func (o *Object) AddObservableMember(name string, initial any, opts ...reactor.ValueOption[any]) error {
	if err := o.keys.CheckWrite(); err != nil {
		return err
	}
	o.values[name] = reactor.NewValue[any](o.rt, o.name+"."+name, initial, opts...)
	delete(o.computeds, name)
	o.keys.ReportChanged()
	o.rt.EmitCollectionMutation(o.keys.ID(), o.name+"."+name, nil, initial)
	return nil
}

// AddComputedMember attaches a read-only derived member named name, backed
// by fn the same way a top-level Computed would be.
func (o *Object) AddComputedMember(name string, fn func() any, opts ...reactor.ComputedOption[any]) error {
	if err := o.keys.CheckWrite(); err != nil {
		return err
	}
	o.computeds[name] = reactor.NewComputed[any](o.rt, o.name+"."+name, fn, opts...)
	delete(o.values, name)
	o.keys.ReportChanged()
	o.rt.EmitCollectionMutation(o.keys.ID(), o.name+"."+name, nil, nil)
	return nil
}

// RemoveMember detaches name, if present. A no-op otherwise.
func (o *Object) RemoveMember(name string) error {
	_, hadValue := o.values[name]
	_, hadComputed := o.computeds[name]
	if !hadValue && !hadComputed {
		return nil
	}
	if err := o.keys.CheckWrite(); err != nil {
		return err
	}
	delete(o.values, name)
	delete(o.computeds, name)
	o.keys.ReportChanged()
	o.rt.EmitCollectionMutation(o.keys.ID(), o.name+"."+name, nil, nil)
	return nil
}

// Has reports whether name is currently a member, tracking the keys atom.
func (o *Object) Has(name string) bool {
	o.keys.Report()
	if _, ok := o.values[name]; ok {
		return true
	}
	_, ok := o.computeds[name]
	return ok
}

// Get reads member name's current value. Returns reactor.ErrUnknownMember
// if no such member exists.
func (o *Object) Get(name string) (any, error) {
	if v, ok := o.values[name]; ok {
		return v.Get(), nil
	}
	if c, ok := o.computeds[name]; ok {
		return c.TryGet()
	}
	o.keys.Report()
	return nil, reactor.ErrUnknownMember
}

// MustGet is Get but panics on ErrUnknownMember.
func (o *Object) MustGet(name string) any {
	v, err := o.Get(name)
	if err != nil {
		panic(err)
	}
	return v
}

// Set assigns a new value to observable member name. Returns
// reactor.ErrUnknownMember if name names a computed member or no member at
// all — computed members are read-only, exactly like a top-level Computed.
// If the owning SharedState was configured with AutoscheduleActions, the
// write is implicitly wrapped in an action (spec §6) so a caller is never
// forced to reach for RunInAction just to satisfy WritePolicyObserved/Always
// on a property assignment.
func (o *Object) Set(name string, v any) error {
	val, ok := o.values[name]
	if !ok {
		return reactor.ErrUnknownMember
	}
	if o.rt.Config().AutoscheduleActions {
		var err error
		reactor.RunInAction(o.rt, func() { err = val.Set(v) })
		return err
	}
	return val.Set(v)
}

// MustSet is Set but panics on error.
func (o *Object) MustSet(name string, v any) {
	if err := o.Set(name, v); err != nil {
		panic(err)
	}
}

// Keys returns a snapshot of the current member names, tracking the keys
// atom only.
func (o *Object) Keys() []string {
	o.keys.Report()
	out := make([]string, 0, len(o.values)+len(o.computeds))
	for k := range o.values {
		out = append(out, k)
	}
	for k := range o.computeds {
		out = append(out, k)
	}
	return out
}

// Len reports the member count, tracking the keys atom.
func (o *Object) Len() int {
	o.keys.Report()
	return len(o.values) + len(o.computeds)
}
