package corostack

import (
	"context"
	"sync/atomic"
)

// State is the opaque handle for one coroutine, matching spec.md §3. All of
// its fields are unexported; callers only ever hold a *State.
type State struct {
	engine   engine
	flags    Flags
	body     Body // read once by the engine on first entry; never mutated concurrently after
	alloc    Allocator
	allocCtx any
	size     int

	life            *lifecycleState
	cancelRequested atomic.Bool

	priv any // engine-private trailing data, type-asserted by the owning engine
}

// Flags returns the capability set actually in effect for s (exactly one of
// [MethodCopy]/[MethodShift], plus whatever side flags were granted).
func (s *State) Flags() Flags { return s.flags }

// Create constructs a coroutine using the system allocator. engineName may
// be empty to let the dispatcher pick any engine whose flags are a superset
// of the requested ones (spec.md §4.1/§4.4).
func Create(engineName string, flags Flags, body Body, size int) (*State, error) {
	return CreateFull(engineName, flags, body, size, nil, nil)
}

// CreateFull is [Create] with a caller-supplied [Allocator] (nil selects the
// system allocator).
func CreateFull(engineName string, flags Flags, body Body, size int, alloc Allocator, allocCtx any) (*State, error) {
	if body == nil {
		return nil, &ConstructionError{Engine: engineName, Cause: ErrNilBody}
	}

	eng, err := selectEngine(engineName, flags)
	if err != nil {
		return nil, &ConstructionError{Engine: engineName, Cause: err}
	}

	strat := normalizeRequested(flags).strategy()
	if strat == 0 {
		if eng.engineFlags().Has(MethodShift) {
			strat = MethodShift
		} else {
			strat = MethodCopy
		}
	}
	effFlags := (normalizeRequested(flags) &^ strategyMask) | strat

	if alloc == nil {
		alloc = defaultAllocator{}
	}

	s := &State{
		engine:   eng,
		flags:    effFlags,
		body:     body,
		alloc:    alloc,
		allocCtx: allocCtx,
		size:     eng.minSize(size),
		life:     newLifecycleState(),
	}

	if err := eng.init(s); err != nil {
		return nil, &ConstructionError{Engine: eng.engineName(), Cause: err}
	}
	return s, nil
}

// normalizeRequested applies spec.md §4.1's "if both COPY and SHIFT are
// requested, COPY is dropped" rule ahead of engine selection.
func normalizeRequested(flags Flags) Flags {
	if flags.Has(MethodCopy) && flags.Has(MethodShift) {
		flags &^= MethodCopy
	}
	return flags
}

// selectEngine implements spec.md §4.4's selection rule: a named engine is
// used as-is; otherwise the first registered engine whose advertised flags
// are a superset of the (normalized) requested ones.
func selectEngine(name string, flags Flags) (engine, error) {
	if name != "" {
		for _, e := range registeredEngines() {
			if e.engineName() == name {
				return e, nil
			}
		}
		return nil, ErrNoSuchEngine
	}
	req := normalizeRequested(flags)
	for _, e := range registeredEngines() {
		if e.engineFlags()&req == req {
			return e, nil
		}
	}
	return nil, ErrNoMatchingEngine
}

// Step advances s: on the first call it enters the body with in as its
// initial argument; on subsequent calls it resumes at the last Yield,
// delivering in as that Yield's return value. ctx is only consulted before
// the call begins (spec.md §6: no timeouts at this layer; a caller wanting
// one arranges it externally) — if ctx is already done, Step returns its
// error immediately instead of entering/resuming the body.
func (s *State) Step(ctx context.Context, in any) (Status, any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}
	if s.life.IsDestroyed() {
		return 0, nil, ErrDestroyed
	}
	return s.engine.step(s, in)
}

// Cancel implements spec.md §4.1's two variants. resume=false abandons the
// coroutine immediately without resuming it (the caller promises no owned
// resources live below the current yield — on this goroutine-backed
// implementation that promise also covers the coroutine's own goroutine,
// which is left permanently parked rather than reclaimed; see DESIGN.md
// Open Question #5). resume=true steps the coroutine one last time with a
// cancel marker in effect: its current and every subsequent Yield returns
// [ErrCancelled], and the body is expected to unwind and return promptly.
func (s *State) Cancel(resume bool) error {
	if s.life.IsDestroyed() {
		return nil
	}
	if !resume {
		s.engine.cancel(s, false)
		return nil
	}
	if s.life.Load() == lifecycleFresh {
		// Never entered: nothing to resume, same as abandonment.
		s.engine.cancel(s, false)
		return nil
	}
	s.cancelRequested.Store(true)
	// Mark the transition through Cancelling explicitly so IsCancelling is
	// observable to a caller racing a concurrent inspection; the engine's
	// own cancel path below is what actually resumes the body and carries
	// it on to Destroyed.
	s.life.TryTransition(lifecycleSuspended, lifecycleCancelling)
	return s.engine.cancel(s, true)
}
