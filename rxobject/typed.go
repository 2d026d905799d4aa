package rxobject

import "fmt"

// GetAs reads member name from o and asserts it to T — the typed face on
// top of Object's any-typed Get, for callers who know the shape of the
// object they built (the Go equivalent of the source library's TypeScript
// type parameter on an observable object, since Go has no reflective
// field-by-field proxy to generate one automatically).
func GetAs[T any](o *Object, name string) (T, error) {
	var zero T
	v, err := o.Get(name)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("rxobject: member %q is %T, not %T", name, v, zero)
	}
	return t, nil
}

// MustGetAs is GetAs but panics on error.
func MustGetAs[T any](o *Object, name string) T {
	v, err := GetAs[T](o, name)
	if err != nil {
		panic(err)
	}
	return v
}

// SetAs assigns a typed value to observable member name.
func SetAs[T any](o *Object, name string, v T) error {
	return o.Set(name, v)
}
