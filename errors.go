// Package corostack error taxonomy: construction failures, suspension
// failures, and cancellation, matching spec.md §7 exactly.
package corostack

import (
	"errors"
	"fmt"
)

// ErrCancelled is returned by [Yielder.Yield] (and subsequent yields) once
// the coroutine has been told to unwind via [State.Cancel](resume=true). The
// body must release its resources and return; it may not yield a normal
// value again.
var ErrCancelled = errors.New("corostack: cancelled")

// ErrNoSuchEngine is returned by [Create]/[CreateFull] when a named engine
// does not exist, and by [EngineFlags] is instead signalled by an empty
// [Flags] return (see its doc comment).
var ErrNoSuchEngine = errors.New("corostack: no such engine")

// ErrNoMatchingEngine is returned when no registered engine's advertised
// flags are a superset of the requested flags.
var ErrNoMatchingEngine = errors.New("corostack: no engine matches requested flags")

// ErrNilBody is returned when Create/CreateFull is given a nil body.
var ErrNilBody = errors.New("corostack: body must not be nil")

// ErrPoolFreed is returned by [Pool.NewCoroutine] once [Pool.Free] has been
// called on the pool.
var ErrPoolFreed = errors.New("corostack: pool has been freed")

// ErrDestroyed is returned by [State.Step] on a coroutine whose body has
// already returned (or that was abandoned via Cancel(false)); its buffer
// has been released.
var ErrDestroyed = errors.New("corostack: coroutine already destroyed")

// ConstructionError wraps a failure during [Create] or [CreateFull]: no
// engine matched, allocation failed, or the body was nil. It is
// non-recoverable for that call; the caller must supply different inputs.
type ConstructionError struct {
	// Engine is the engine name requested, if any.
	Engine string
	Cause  error
}

// Error implements the error interface.
func (e *ConstructionError) Error() string {
	if e.Engine == "" {
		return fmt.Sprintf("corostack: construction failed: %s", e.Cause)
	}
	return fmt.Sprintf("corostack: construction failed for engine %q: %s", e.Engine, e.Cause)
}

// Unwrap returns the underlying cause for [errors.Is]/[errors.As].
func (e *ConstructionError) Unwrap() error { return e.Cause }

// SuspensionError wraps a failure at [State.Step] or [Yielder.Yield] that
// occurs only under [MethodCopy]: allocation failed while growing the
// snapshot buffer, or the stepper resumed from a stack position shallower
// than the one recorded at the first [State.Step]. The [State] remains
// valid; the caller may retry from a deeper frame or with a larger
// allocator.
type SuspensionError struct {
	Cause error
}

// Error implements the error interface.
func (e *SuspensionError) Error() string {
	return fmt.Sprintf("corostack: suspension failed: %s", e.Cause)
}

// Unwrap returns the underlying cause for [errors.Is]/[errors.As].
func (e *SuspensionError) Unwrap() error { return e.Cause }

// ErrShallowResume is the Cause of a [SuspensionError] raised when a
// [MethodCopy] coroutine is stepped from a shallower call depth than the one
// recorded at its first step.
var ErrShallowResume = errors.New("corostack: resumed from a shallower stack depth than the first step")

// ErrSnapshotGrowth is the Cause of a [SuspensionError] raised when growing
// a [MethodCopy] coroutine's snapshot buffer through its [Allocator] fails.
var ErrSnapshotGrowth = errors.New("corostack: failed to grow stack snapshot buffer")

// WrapError wraps an error with a message, preserving the cause chain for
// [errors.Is]/[errors.As].
func WrapError(message string, cause error) error {
	return fmt.Errorf("%s: %w", message, cause)
}
