package corostack

// Body is the function handed to [Create]. It receives a [Yielder] bound to
// its own coroutine — threaded down the call chain like a context.Context —
// so it can [Yielder.Yield] from any depth, and the initial value delivered
// by the first [State.Step]. Its return value becomes the value observed by
// the final [State.Step] (the one that reports [StatusReturned]).
type Body func(y *Yielder, in any) any

// Status is the result kind reported by a [State.Step].
type Status int

const (
	// StatusYielded means the coroutine suspended at a Yield; the observed
	// value is what it yielded.
	StatusYielded Status = iota
	// StatusReturned means the body returned; the observed value is its
	// return value, and the State is now destroyed.
	StatusReturned
)

// String renders a Status for diagnostics.
func (s Status) String() string {
	switch s {
	case StatusYielded:
		return "yielded"
	case StatusReturned:
		return "returned"
	default:
		return "unknown"
	}
}

// Allocator is the buffer-resize contract spec.md §3 describes as
// "resize(ctx, ptr, size) -> ptr". newSize == 0 means free; an empty/nil buf
// means a fresh allocation. Implementations must treat the returned slice as
// transferring ownership to the caller.
type Allocator interface {
	Resize(ctx any, buf []byte, newSize int) ([]byte, error)
}

// defaultAllocator is the system allocator used when CreateFull is given
// none: ordinary Go slice growth, freeing simply by returning nil.
type defaultAllocator struct{}

func (defaultAllocator) Resize(_ any, buf []byte, newSize int) ([]byte, error) {
	if newSize == 0 {
		return nil, nil
	}
	if cap(buf) >= newSize {
		return buf[:newSize], nil
	}
	next := make([]byte, newSize)
	copy(next, buf)
	return next, nil
}

// Yielder is the handle a [Body] uses to suspend itself. It carries no
// exported fields; a Body only ever obtains one as the first parameter it is
// invoked with, and must not retain it past the coroutine's destruction.
type Yielder struct {
	s *State
}

// Yield suspends the coroutine, delivering v to the stepper's pending
// [State.Step] call, and blocks until the matching [State.Step] delivers a
// new value back in. It returns [ErrCancelled] if the coroutine has been
// told to unwind via [State.Cancel]; the body must then release its
// resources and return without yielding again.
//
// Under [MethodCopy], Yield may also return a [*SuspensionError] if growing
// the snapshot buffer through the [State]'s [Allocator] fails.
func (y *Yielder) Yield(v any) (any, error) {
	return y.s.engine.yield(y.s, v)
}
