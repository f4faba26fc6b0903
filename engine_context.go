package corostack

import "context"

// contextEngine supports [MethodShift] only: steps may resume from any
// stack depth (spec.md §4.2's SHIFT advantage), which this back-end gets for
// free since the coroutine's goroutine never touches the stepper's stack at
// all. Cancellation is delivered through a per-State
// [context.CancelCauseFunc] rather than a raw flag. [RestoreSigmask] is
// advertised and accepted, but the engine only records at init whether it
// was requested, as a field a test can observe: nothing is saved or
// restored across a yield, and the process signal mask is never read or
// changed.
type contextEngine struct{}

func newContextEngine() engine { return contextEngine{} }

func (contextEngine) engineName() string { return "context" }

func (contextEngine) engineFlags() Flags { return MethodShift | RestoreSigmask }

func (contextEngine) minSize(requested int) int { return stackBufferMinimum(requested) }

type contextPriv struct {
	toCoro   chan any
	fromCoro chan stepResult
	started  bool

	ctx    context.Context
	cancel context.CancelCauseFunc

	// restoreSigmask records whether RestoreSigmask was requested; advisory
	// only, see the type doc comment.
	restoreSigmask bool

	buf []byte
}

func (contextEngine) init(s *State) error {
	buf, err := s.alloc.Resize(s.allocCtx, nil, s.size)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancelCause(context.Background())
	s.priv = &contextPriv{
		toCoro:         make(chan any),
		fromCoro:       make(chan stepResult),
		ctx:            ctx,
		cancel:         cancel,
		restoreSigmask: s.flags.Has(RestoreSigmask),
		buf:            buf,
	}
	return nil
}

func (e contextEngine) step(s *State, in any) (Status, any, error) {
	p := s.priv.(*contextPriv)

	if !p.started {
		if !s.life.TryTransition(lifecycleFresh, lifecycleRunning) {
			return 0, nil, ErrDestroyed
		}
		p.started = true
		go e.run(s, p, in)
	} else {
		if !s.life.TryTransition(lifecycleSuspended, lifecycleRunning) {
			return 0, nil, ErrDestroyed
		}
		p.toCoro <- in
	}

	res := <-p.fromCoro
	if res.status == StatusReturned {
		s.life.Store(lifecycleDestroyed)
		e.release(s, p)
	} else {
		s.life.Store(lifecycleSuspended)
	}
	return res.status, res.value, res.err
}

func (contextEngine) run(s *State, p *contextPriv, in any) {
	y := &Yielder{s: s}
	out := s.body(y, in)
	p.fromCoro <- stepResult{status: StatusReturned, value: out}
}

func (contextEngine) yield(s *State, out any) (any, error) {
	p := s.priv.(*contextPriv)

	if s.cancelRequested.Load() {
		return nil, ErrCancelled
	}

	p.fromCoro <- stepResult{status: StatusYielded, value: out}
	select {
	case in := <-p.toCoro:
		return in, nil
	case <-p.ctx.Done():
		return nil, ErrCancelled
	}
}

func (contextEngine) release(s *State, p *contextPriv) {
	buf := p.buf
	p.buf = nil
	if buf != nil {
		_, _ = s.alloc.Resize(s.allocCtx, buf, 0)
	}
}

func (e contextEngine) cancel(s *State, resume bool) error {
	p := s.priv.(*contextPriv)

	if !resume {
		if s.life.Load() != lifecycleDestroyed {
			s.life.Store(lifecycleDestroyed)
			e.release(s, p)
		}
		return nil
	}

	if !p.started {
		s.life.Store(lifecycleDestroyed)
		p.cancel(ErrCancelled)
		return nil
	}
	if !s.life.TryTransition(lifecycleCancelling, lifecycleRunning) {
		return nil
	}
	p.cancel(ErrCancelled)
	<-p.fromCoro
	s.life.Store(lifecycleDestroyed)
	e.release(s, p)
	return nil
}
