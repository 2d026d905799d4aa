package internal

// WritePolicy controls when a write to an observable is allowed, per
// spec §4.8/§6.
type WritePolicy int

const (
	WritePolicyObserved WritePolicy = iota // default: only atoms with observers require an action
	WritePolicyAlways                      // every write must happen inside an action
	WritePolicyNever                       // writes are always allowed
)

// ProxyPolicy mirrors spec §6's useProxies option. Go has no reflective
// field interception, so rxobject.Object always requires explicit Get/Set
// regardless of this value (documented in SPEC_FULL.md §5); the field is
// kept so Config's surface matches the spec exactly and so embedding
// languages that do add codegen'd accessors have somewhere to read the
// operator's intent from.
type ProxyPolicy int

const (
	ProxyIfAvailable ProxyPolicy = iota
	ProxyAlways
	ProxyNever
)

// Config is the exhaustive configuration surface of spec §6.
type Config struct {
	EnforceActions       WritePolicy
	AutoscheduleActions  bool
	Scheduler            func(runPending func())
	ReactionScheduler     func(run func())
	DisableErrorBoundaries bool
	MaxReactionDepth     int
	UseProxies           ProxyPolicy
}

// DefaultConfig matches the spec's documented defaults.
func DefaultConfig() Config {
	return Config{
		EnforceActions:   WritePolicyObserved,
		MaxReactionDepth: 100,
		UseProxies:       ProxyIfAvailable,
	}
}
