package reactor

// RunInAction runs fn as a single, unnamed transaction. See RunInActionNamed
// for the named form that shows up in the spy stream's ActionStart/ActionEnd
// events.
func RunInAction(s *SharedState, fn func()) {
	RunInActionNamed(s, "action", fn)
}

// RunInActionNamed runs fn as a single transaction (component C8, spec
// §4.8): every observable write inside fn is allowed regardless of the
// configured WritePolicy, and no reaction runs until the outermost action on
// s finishes, so a batch of writes that individually pass through an
// intermediate inconsistent state never causes an observer to see it.
// Actions nest: an action started while another is already running on s
// just extends the same batch. fn itself runs untracked (spec §4.8: "actions
// are always untracked reads"), so writing inside an action started from
// within a reaction/computed's tracked body never adds a dependency to it.
// name is attached to this action's EventActionStart/EventActionEnd spy
// events (spec §4.10); it plays no part in batching semantics.
func RunInActionNamed(s *SharedState, name string, fn func()) {
	s.rt.BeginAction(name)
	defer s.rt.EndAction(name)
	s.rt.RunUntracked(fn)
}

// RunInActionE is RunInAction for a function that can fail; the batch still
// closes (and queued reactions still drain) even if fn returns an error.
func RunInActionE(s *SharedState, fn func() error) error {
	s.rt.BeginAction("action")
	defer s.rt.EndAction("action")
	var err error
	s.rt.RunUntracked(func() { err = fn() })
	return err
}

// Action returns fn wrapped so that every call to it runs inside an action —
// the bound-callable pattern from spec §4.8 ("an action is just a function
// that batches its writes"), handy for turning a plain mutator method into
// something safe to call from outside any action.
func Action(s *SharedState, fn func()) func() {
	return func() { RunInAction(s, fn) }
}

// ActionNamed is Action with an explicit name for the spy stream.
func ActionNamed(s *SharedState, name string, fn func()) func() {
	return func() { RunInActionNamed(s, name, fn) }
}

// Action1 is Action for a one-argument function.
func Action1[A any](s *SharedState, fn func(A)) func(A) {
	return func(a A) { RunInAction(s, func() { fn(a) }) }
}

// Action2 is Action for a two-argument function.
func Action2[A, B any](s *SharedState, fn func(A, B)) func(A, B) {
	return func(a A, b B) { RunInAction(s, func() { fn(a, b) }) }
}

// Untracked runs fn without registering any of the reads it performs as
// dependencies of the current derivation, even if called from inside one —
// spec §4.1's escape hatch for reading an observable "just to look at it".
func Untracked[T any](s *SharedState, fn func() T) T {
	var out T
	s.rt.RunUntracked(func() { out = fn() })
	return out
}

// UntrackedVoid is Untracked for a function with no return value.
func UntrackedVoid(s *SharedState, fn func()) {
	s.rt.RunUntracked(fn)
}
