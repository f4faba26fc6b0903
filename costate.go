package corostack

import "sync/atomic"

// lifecycle is a lock-free, cache-line-padded state machine tracking one
// coroutine's position in spec.md §4.3's state diagram:
//
//	Fresh --step--> Running --yield--> Suspended --step--> Running
//	                   |                    |                 |
//	                   |           Cancel(resume=true)         |
//	                   |                    v                 |
//	                   |               Cancelling ----step----+
//	                   |                                      |
//	                   +-------------- return ----------------+
//	                                       |
//	                                       v
//	                                   Destroyed
//
// Cancelling is entered by [State.Cancel](resume=true) before the engine
// resumes the body one last time, and expects the body to reach Destroyed
// promptly. Modeled on the teacher's FastState/LoopState: pure CAS
// transitions, no mutex, because exactly one side (stepper or coroutine) is
// ever mutating the state at a time (spec.md §5).
type lifecycle uint64

const (
	// lifecycleFresh is the state immediately after Create: the body has
	// never been entered.
	lifecycleFresh lifecycle = iota
	// lifecycleRunning is set while the coroutine's goroutine is executing.
	lifecycleRunning
	// lifecycleSuspended is set while the coroutine is parked at a yield,
	// resumable by a subsequent Step.
	lifecycleSuspended
	// lifecycleCancelling is set once Cancel(resume=true) has been issued;
	// the body is expected to observe cancellation and reach Destroyed.
	lifecycleCancelling
	// lifecycleDestroyed is terminal: the body returned (or was abandoned)
	// and the backing buffer has been released.
	lifecycleDestroyed
)

// String returns a human-readable representation of the state.
func (s lifecycle) String() string {
	switch s {
	case lifecycleFresh:
		return "Fresh"
	case lifecycleRunning:
		return "Running"
	case lifecycleSuspended:
		return "Suspended"
	case lifecycleCancelling:
		return "Cancelling"
	case lifecycleDestroyed:
		return "Destroyed"
	default:
		return "Unknown"
	}
}

// lifecycleState is a cache-line-padded atomic holder for a lifecycle value.
type lifecycleState struct { //nolint:unused
	_ [64]byte
	v atomic.Uint64
	_ [56]byte
}

func newLifecycleState() *lifecycleState {
	s := &lifecycleState{}
	s.v.Store(uint64(lifecycleFresh))
	return s
}

// Load returns the current state atomically.
func (s *lifecycleState) Load() lifecycle { return lifecycle(s.v.Load()) }

// Store atomically stores a new state, bypassing transition validation. The
// engines use it for transitions whose source is already known: Running ->
// Suspended when a step observes a yield, and every transition into
// Destroyed (on return, on abandonment, and at the end of a resumed cancel).
func (s *lifecycleState) Store(state lifecycle) { s.v.Store(uint64(state)) }

// TryTransition attempts an atomic CAS from one state to another, returning
// whether it succeeded.
func (s *lifecycleState) TryTransition(from, to lifecycle) bool {
	return s.v.CompareAndSwap(uint64(from), uint64(to))
}

// IsDestroyed reports whether the state has reached its terminal state.
func (s *lifecycleState) IsDestroyed() bool { return s.Load() == lifecycleDestroyed }

// IsCancelling reports whether Cancel(resume=true) has been issued.
func (s *lifecycleState) IsCancelling() bool { return s.Load() == lifecycleCancelling }
