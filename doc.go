// Package corostack provides stackful, symmetric-resumable coroutines: hand
// a function to [Create], get back an opaque [State] that can be [State.Step]
// from the outside, and that the function can [Yielder.Yield] from anywhere
// in its own call chain, resuming later exactly where it left off.
//
// # Architecture
//
// Every coroutine is backed by one of three interchangeable engines
// ([EngineList]), each advertising which stack strategy it supports via
// [Flags]: a jump engine (the fastest, supports both [MethodCopy] and
// [MethodShift]), a context engine (built on [context.Context],
// [MethodShift] only), and a thread engine (pinned to a real OS thread via
// [runtime.LockOSThread], [MethodShift] plus [Threaded]). [Create] picks one
// by name or by capability superset; a [Pool] recycles the buffers backing
// them.
//
// # Stack strategies
//
// [MethodShift] runs the coroutine on a goroutine that is parked across
// yields and resumed unconditionally — the private-stack analogue from
// spec.md, minus the need to size it up front. [MethodCopy] additionally
// enforces that a [State.Step] never resumes from a shallower call depth
// than the one that first started the coroutine, and grows an
// [Allocator]-backed snapshot buffer on a yield whenever the measured
// interval exceeds its current length — see DESIGN.md for why
// this is a protocol-level contract rather than a literal stack-byte copy on
// a memory-safe runtime.
//
// # Thread Safety
//
// A single [State] is driven by exactly one goroutine at a time: the
// stepper while suspended, the coroutine's own goroutine while running.
// [Pool] is not safe for concurrent use by multiple steppers; callers
// serialize their own access, matching spec.md's single-stepper model.
//
// # Execution Model
//
// At any instant either the stepper or the coroutine is running, never both,
// never neither (spec.md §5). The only two suspension points are entry to
// [Yielder.Yield] inside the body and entry to [State.Step] from outside;
// there is no preemption.
//
// # Usage
//
//	body := func(y *corostack.Yielder, in any) any {
//	    v := in.(int) * 2
//	    out, _ := y.Yield(v)
//	    return out.(int) * 2
//	}
//
//	s, err := corostack.Create("", corostack.MethodShift, body, 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	status, out, err := s.Step(context.Background(), 1)
//	// status == corostack.StatusYielded, out == 2
//	status, out, err = s.Step(context.Background(), out)
//	// status == corostack.StatusReturned, out == 4
//
// # Error Types
//
// The package surfaces exactly the three kinds of error spec.md describes:
//   - [ConstructionError]: no engine matches, allocation failed, or the body
//     was nil — returned from [Create]/[CreateFull].
//   - [SuspensionError]: a COPY growth failure or a step-depth violation —
//     returned from [State.Step]/[Yielder.Yield]; the state remains valid.
//   - [ErrCancelled]: the coroutine was told to unwind via [State.Cancel].
//
// The library itself never logs and never retries internally. The optional
// benchmark harness under cmd/corobench does log, using a structured logger —
// that is the one place in this module where logging belongs.
package corostack
