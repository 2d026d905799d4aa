package reactor

import "github.com/reactorcore/reactor/internal"

// The seven named error kinds of spec §7, plus ErrCrossGoroutineAccess.
// Re-exported as the exact internal sentinel values (not wrapped copies) so
// errors.Is works transparently regardless of which package a caller
// imported the value through.
var (
	ErrWriteOutsideAction       = internal.ErrWriteOutsideAction
	ErrReadOutsideReaction      = internal.ErrReadOutsideReaction
	ErrCyclicDependency         = internal.ErrCyclicDependency
	ErrUnknownMember            = internal.ErrUnknownMember
	ErrDisposedReaction         = internal.ErrDisposedReaction
	ErrMaxReactionDepthExceeded = internal.ErrMaxReactionDepthExceeded
	ErrTimeout                  = internal.ErrTimeout
	ErrCrossGoroutineAccess     = internal.ErrCrossGoroutineAccess
)

// UserGetterError wraps a panic recovered from a Computed's getter. Unwraps
// to the panic value when it is itself an error, so errors.Is(err,
// ErrCyclicDependency) works for a getter that panicked because it read
// itself.
type UserGetterError = internal.UserGetterError

// UserEffectError wraps a panic recovered from a Reaction's effect.
type UserEffectError = internal.UserEffectError
