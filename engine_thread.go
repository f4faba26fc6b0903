package corostack

import "runtime"

// threadEngine supports [MethodShift] and advertises [Threaded]: its
// coroutine's goroutine is pinned to a dedicated OS thread for its entire
// lifetime via runtime.LockOSThread, the closest Go equivalent to spec.md
// §4.3's "thread engine" back-end (a real pthread per coroutine in the
// original C library). Handoff between stepper and coroutine goes through a
// pair of [barrier] values rather than plain channels, matching the spec's
// literal "release barrier -> wait barrier" phrasing.
type threadEngine struct{}

func newThreadEngine() engine { return threadEngine{} }

func (threadEngine) engineName() string { return "thread" }

func (threadEngine) engineFlags() Flags { return MethodShift | Threaded }

func (threadEngine) minSize(requested int) int { return stackBufferMinimum(requested) }

type threadPriv struct {
	toCoro   *barrier
	fromCoro *barrier
	started  bool
	buf      []byte
}

func (threadEngine) init(s *State) error {
	buf, err := s.alloc.Resize(s.allocCtx, nil, s.size)
	if err != nil {
		return err
	}
	s.priv = &threadPriv{
		toCoro:   newBarrier(),
		fromCoro: newBarrier(),
		buf:      buf,
	}
	return nil
}

func (e threadEngine) step(s *State, in any) (Status, any, error) {
	p := s.priv.(*threadPriv)

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
		p.toCoro.release(in)
	}

	res := p.fromCoro.wait().(stepResult)
	if res.status == StatusReturned {
		s.life.Store(lifecycleDestroyed)
		e.release(s, p)
	} else {
		s.life.Store(lifecycleSuspended)
	}
	return res.status, res.value, res.err
}

// run pins itself to an OS thread for the coroutine's whole lifetime, then
// enters the body. LockOSThread/UnlockOSThread are paired here rather than
// per-yield: spec.md's thread engine keeps the same OS thread across
// suspensions, it only ever blocks on the barrier between them.
func (threadEngine) run(s *State, p *threadPriv, in any) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	y := &Yielder{s: s}
	out := s.body(y, in)
	p.fromCoro.release(stepResult{status: StatusReturned, value: out})
}

func (threadEngine) yield(s *State, out any) (any, error) {
	p := s.priv.(*threadPriv)

	if s.cancelRequested.Load() {
		return nil, ErrCancelled
	}

	p.fromCoro.release(stepResult{status: StatusYielded, value: out})
	in := p.toCoro.wait()
	if _, ok := in.(cancelSignal); ok {
		return nil, ErrCancelled
	}
	return in, nil
}

func (threadEngine) release(s *State, p *threadPriv) {
	buf := p.buf
	p.buf = nil
	if buf != nil {
		_, _ = s.alloc.Resize(s.allocCtx, buf, 0)
	}
}

func (e threadEngine) cancel(s *State, resume bool) error {
	p := s.priv.(*threadPriv)

	if !resume {
		if s.life.Load() != lifecycleDestroyed {
			s.life.Store(lifecycleDestroyed)
			e.release(s, p)
		}
		return nil
	}

	if !p.started {
		s.life.Store(lifecycleDestroyed)
		return nil
	}
	if !s.life.TryTransition(lifecycleCancelling, lifecycleRunning) {
		return nil
	}
	p.toCoro.release(cancelSignal{})
	p.fromCoro.wait()
	s.life.Store(lifecycleDestroyed)
	e.release(s, p)
	return nil
}
