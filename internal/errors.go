package internal

import (
	"errors"
	"fmt"
)

// Sentinel errors for the seven named error kinds in the spec. Exported here
// and re-exported as-is from the root package so callers can use errors.Is
// regardless of which package they imported the value through.
var (
	ErrWriteOutsideAction      = errors.New("reactor: write outside action")
	ErrReadOutsideReaction     = errors.New("reactor: computed requires a reaction to read it")
	ErrCyclicDependency        = errors.New("reactor: cyclic dependency detected")
	ErrUnknownMember           = errors.New("reactor: unknown member")
	ErrDisposedReaction        = errors.New("reactor: reaction is disposed")
	ErrMaxReactionDepthExceeded = errors.New("reactor: max reaction depth exceeded")
	ErrTimeout                 = errors.New("reactor: timed out")
	ErrCrossGoroutineAccess    = errors.New("reactor: shared state accessed from a different goroutine while a derivation was running")
)

// UserGetterError wraps a panic recovered from a computed's getter.
type UserGetterError struct {
	Name  string
	Cause any
}

func (e *UserGetterError) Error() string {
	return "reactor: getter panicked: " + formatCause(e.Cause)
}

func (e *UserGetterError) Unwrap() error {
	if err, ok := e.Cause.(error); ok {
		return err
	}
	return nil
}

// UserEffectError wraps a panic recovered from a reaction's effect.
type UserEffectError struct {
	Name  string
	Cause any
}

func (e *UserEffectError) Error() string {
	return "reactor: effect panicked: " + formatCause(e.Cause)
}

func (e *UserEffectError) Unwrap() error {
	if err, ok := e.Cause.(error); ok {
		return err
	}
	return nil
}

func formatCause(cause any) string {
	if err, ok := cause.(error); ok {
		return err.Error()
	}
	return toString(cause)
}

func toString(v any) string {
	return fmt.Sprintf("%v", v)
}
