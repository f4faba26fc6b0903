package corostack

import "sync"

// jumpEngine is the default, lightest-weight back-end: supports both
// [MethodCopy] and [MethodShift]. Named for the teacher's (and spec.md
// §4.3's) "jump engine", which in the original C library saves/restores
// callee-saved registers via a non-local jump; here the equivalent
// save/restore boundary is a dedicated goroutine plus a pair of unbuffered
// rendezvous channels, since Go offers no safe way to run a closure on a
// foreign, GC-scanned stack (see DESIGN.md Open Question #1).
type jumpEngine struct{}

func newJumpEngine() engine { return jumpEngine{} }

func (jumpEngine) engineName() string { return "jump" }

func (jumpEngine) engineFlags() Flags { return MethodCopy | MethodShift }

func (jumpEngine) minSize(requested int) int { return stackBufferMinimum(requested) }

// cancelSignal is sent on toCoro in place of a real value to tell a
// suspended body to unwind: the matching [Yielder.Yield] call returns
// [ErrCancelled] instead of delivering it as a value.
type cancelSignal struct{}

// stepResult is what the coroutine's goroutine sends back across fromCoro,
// either at a yield or at final return.
type stepResult struct {
	status Status
	value  any
	err    error
}

// jumpPriv is the jump engine's per-State private block (spec.md §3's
// "trailing engine-private block").
type jumpPriv struct {
	toCoro   chan any
	fromCoro chan stepResult

	started bool

	mu         sync.Mutex
	buf        []byte
	entryAddr  uintptr
	haveEntry  bool
	stepDepth  uintptr
	haveDepth  bool
}

func (jumpEngine) init(s *State) error {
	buf, err := s.alloc.Resize(s.allocCtx, nil, s.size)
	if err != nil {
		return err
	}
	s.priv = &jumpPriv{
		toCoro:   make(chan any),
		fromCoro: make(chan stepResult),
		buf:      buf,
	}
	return nil
}

func (e jumpEngine) step(s *State, in any) (Status, any, error) {
	p := s.priv.(*jumpPriv)

	if s.flags.Has(MethodCopy) {
		addr := stackAddr()
		p.mu.Lock()
		if p.haveDepth && shallowerThan(addr, p.stepDepth) {
			p.mu.Unlock()
			return 0, nil, &SuspensionError{Cause: ErrShallowResume}
		}
		if !p.haveDepth {
			p.stepDepth = addr
			p.haveDepth = true
		}
		p.mu.Unlock()
	}

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

// run is the coroutine's goroutine body: it enters the user's [Body] exactly
// once and reports its return value as the terminal stepResult.
func (jumpEngine) run(s *State, p *jumpPriv, in any) {
	if s.flags.Has(MethodCopy) {
		p.mu.Lock()
		p.entryAddr = stackAddr()
		p.haveEntry = true
		p.mu.Unlock()
	}
	y := &Yielder{s: s}
	out := s.body(y, in)
	p.fromCoro <- stepResult{status: StatusReturned, value: out}
}

func (e jumpEngine) yield(s *State, out any) (any, error) {
	p := s.priv.(*jumpPriv)

	if s.flags.Has(MethodCopy) {
		if err := e.growSnapshot(s, p); err != nil {
			return nil, &SuspensionError{Cause: err}
		}
	}

	if s.cancelRequested.Load() {
		return nil, ErrCancelled
	}

	p.fromCoro <- stepResult{status: StatusYielded, value: out}
	in := <-p.toCoro
	if _, ok := in.(cancelSignal); ok {
		return nil, ErrCancelled
	}
	return in, nil
}

// growSnapshot simulates the COPY strategy's "snapshot the used stack
// interval" step (spec.md §4.2): since the body runs on its own goroutine
// rather than a literal borrowed stack, the interval is approximated as the
// distance between the stack address captured at body entry and the one
// captured here, giving the same monotonically-growing demand on the
// allocator that a real stack snapshot would.
func (jumpEngine) growSnapshot(s *State, p *jumpPriv) error {
	addr := stackAddr()
	p.mu.Lock()
	entry := p.entryAddr
	have := p.haveEntry
	buf := p.buf
	p.mu.Unlock()
	if !have {
		return nil
	}
	interval := int(entry - addr)
	if interval < 0 {
		interval = -interval
	}
	needed := stackBufferMinimum(interval)
	if len(buf) >= needed {
		return nil
	}
	next, err := s.alloc.Resize(s.allocCtx, buf, needed)
	if err != nil {
		return ErrSnapshotGrowth
	}
	p.mu.Lock()
	p.buf = next
	p.mu.Unlock()
	return nil
}

func (jumpEngine) release(s *State, p *jumpPriv) {
	p.mu.Lock()
	buf := p.buf
	p.buf = nil
	p.mu.Unlock()
	if buf != nil {
		_, _ = s.alloc.Resize(s.allocCtx, buf, 0)
	}
}

func (e jumpEngine) cancel(s *State, resume bool) error {
	p := s.priv.(*jumpPriv)

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
	p.toCoro <- cancelSignal{}
	<-p.fromCoro
	s.life.Store(lifecycleDestroyed)
	e.release(s, p)
	return nil
}
