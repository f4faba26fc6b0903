package corostack

import "sync"

// poolEntry is one slot of a [Pool]'s fixed-capacity table: a detached
// buffer, its size, and whether a live coroutine currently owns it
// (spec.md §4.5).
type poolEntry struct {
	buf   []byte
	size  int
	inUse bool
}

// Pool is a bounded recycler of coroutine stack buffers (spec.md §3/§4.5).
// It is not itself safe for concurrent use by multiple steppers — the same
// single-stepper-at-a-time discipline [State] requires applies to the pool
// that hands its buffers out.
type Pool struct {
	mu       sync.Mutex
	entries  []poolEntry
	alloc    Allocator
	allocCtx any
	refcount int
	freeable bool
}

// PoolCreate allocates a pool with room for up to capacity distinct
// buffers; it starts out empty, matching pool_create's "allocates the
// table; empty" (spec.md §4.5).
func PoolCreate(capacity int, opts ...PoolOption) *Pool {
	if capacity < 0 {
		capacity = 0
	}
	cfg, err := resolvePoolOptions(opts)
	if err != nil {
		// None of the options defined today can fail; fall back to the
		// system allocator rather than surface an error PoolCreate's
		// signature has no room to report.
		cfg = &poolOptions{alloc: defaultAllocator{}}
	}
	return &Pool{
		entries:  make([]poolEntry, capacity),
		alloc:    cfg.alloc,
		allocCtx: cfg.allocCtx,
	}
}

// NewCoroutine satisfies a coroutine's buffer from the pool using the
// largest-fit-then-grow-smallest discipline of spec.md §4.5: the first
// unused entry already at least requested bytes is taken as-is (adopting
// its larger size); failing that, the largest unused entry is grown to
// requested. If neither applies (every slot is in use, or the pool has no
// capacity), the buffer is allocated outside the table and is not returned
// to it on release. The coroutine's allocator is a shim routing its frees
// back through [Pool.release].
func (p *Pool) NewCoroutine(engineName string, flags Flags, body Body, size int) (*State, error) {
	p.mu.Lock()
	if p.freeable {
		p.mu.Unlock()
		return nil, ErrPoolFreed
	}

	eng, err := selectEngine(engineName, flags)
	if err != nil {
		p.mu.Unlock()
		return nil, &ConstructionError{Engine: engineName, Cause: err}
	}
	requested := eng.minSize(size)

	fitIdx, largestIdx := -1, -1
	for i := range p.entries {
		e := &p.entries[i]
		if e.inUse {
			continue
		}
		if fitIdx == -1 && e.buf != nil && e.size >= requested {
			fitIdx = i
		}
		if largestIdx == -1 || e.size > p.entries[largestIdx].size {
			largestIdx = i
		}
	}

	var (
		pending []byte
		entryIx = -1
	)
	switch {
	case fitIdx != -1:
		entryIx = fitIdx
		pending = p.entries[entryIx].buf
		requested = p.entries[entryIx].size
		p.entries[entryIx].inUse = true
	case largestIdx != -1:
		grown, gerr := p.alloc.Resize(p.allocCtx, p.entries[largestIdx].buf, requested)
		if gerr != nil {
			p.mu.Unlock()
			return nil, &ConstructionError{Engine: eng.engineName(), Cause: gerr}
		}
		entryIx = largestIdx
		pending = grown
		p.entries[entryIx].buf = grown
		p.entries[entryIx].size = requested
		p.entries[entryIx].inUse = true
	default:
		fresh, aerr := p.alloc.Resize(p.allocCtx, nil, requested)
		if aerr != nil {
			p.mu.Unlock()
			return nil, &ConstructionError{Engine: eng.engineName(), Cause: aerr}
		}
		pending = fresh
	}
	p.refcount++
	p.mu.Unlock()

	shim := &poolShim{pool: p, entry: entryIx, pending: pending}
	s, err := CreateFull(eng.engineName(), flags, body, requested, shim, nil)
	if err != nil {
		p.release(entryIx, pending)
		return nil, err
	}
	return s, nil
}

// Free marks the pool freeable (pool_free, spec.md §4.5). With no
// outstanding coroutines it deallocates every held buffer immediately;
// otherwise the last coroutine to release its buffer triggers the
// deallocation.
func (p *Pool) Free() {
	p.mu.Lock()
	p.freeable = true
	destroy := p.refcount == 0
	p.mu.Unlock()
	if destroy {
		p.destroyAll()
	}
}

// release is the shim allocator's free path: entry >= 0 returns the buffer
// to its originating slot; entry == -1 (an unmanaged buffer, allocated when
// no slot was free) looks for any genuinely empty slot to adopt it into,
// and otherwise releases it through the backing allocator for real
// (spec.md §4.5's shim semantics). Every call decrements the pool's
// reference count, triggering deferred destruction once the pool is
// freeable and the count reaches zero.
func (p *Pool) release(entry int, buf []byte) {
	p.mu.Lock()
	switch {
	case entry >= 0 && entry < len(p.entries):
		p.entries[entry].inUse = false
		p.entries[entry].buf = buf
		p.entries[entry].size = len(buf)
	default:
		if slot := p.findEmptySlotLocked(); slot != -1 {
			p.entries[slot].inUse = false
			p.entries[slot].buf = buf
			p.entries[slot].size = len(buf)
		} else if buf != nil {
			_, _ = p.alloc.Resize(p.allocCtx, buf, 0)
		}
	}
	p.refcount--
	destroy := p.freeable && p.refcount == 0
	p.mu.Unlock()
	if destroy {
		p.destroyAll()
	}
}

func (p *Pool) findEmptySlotLocked() int {
	for i := range p.entries {
		if p.entries[i].buf == nil && !p.entries[i].inUse {
			return i
		}
	}
	return -1
}

// destroyAll releases every buffer still held by the table through the
// backing allocator. Safe to call more than once (a second call sees an
// empty table and does nothing).
func (p *Pool) destroyAll() {
	p.mu.Lock()
	entries := p.entries
	p.entries = nil
	p.mu.Unlock()
	for i := range entries {
		if entries[i].buf != nil {
			_, _ = p.alloc.Resize(p.allocCtx, entries[i].buf, 0)
		}
	}
}

// poolShim is the per-coroutine [Allocator] handed to [CreateFull] by
// [Pool.NewCoroutine]. Its first Resize call (the engine's init-time
// allocation, always invoked with a nil buf) is satisfied from pending
// without touching the backing allocator, since the pool already reserved
// or grew that buffer before construction began; every call after that
// behaves like a normal allocator, except that frees and, for
// table-resident entries, resizes are mirrored back into the owning
// [Pool].
type poolShim struct {
	pool    *Pool
	entry   int
	pending []byte
}

func (a *poolShim) Resize(ctx any, buf []byte, newSize int) ([]byte, error) {
	if buf == nil && a.pending != nil {
		pend := a.pending
		a.pending = nil
		return pend, nil
	}
	if newSize == 0 {
		a.pool.release(a.entry, buf)
		return nil, nil
	}
	next, err := a.pool.alloc.Resize(a.pool.allocCtx, buf, newSize)
	if err != nil {
		return nil, err
	}
	if a.entry >= 0 {
		a.pool.mu.Lock()
		if a.entry < len(a.pool.entries) {
			a.pool.entries[a.entry].buf = next
			a.pool.entries[a.entry].size = newSize
		}
		a.pool.mu.Unlock()
	}
	return next, nil
}
