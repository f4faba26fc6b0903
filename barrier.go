package corostack

// barrier is a two-party rendezvous point: one side calls release to hand
// off a value and continue, the other calls wait to block until a value is
// released. Matches spec.md §4.3's description of the thread engine's
// handoff as a literal "release barrier / wait barrier" pair; engine_thread.go
// uses two of these (one per direction) in place of the jump engine's plain
// channels, since it additionally pins its goroutine to an OS thread and the
// named type makes that handoff point explicit at call sites.
type barrier struct {
	ch chan any
}

func newBarrier() *barrier {
	return &barrier{ch: make(chan any)}
}

// release hands v to whichever side is (or will be) blocked in wait.
func (b *barrier) release(v any) {
	b.ch <- v
}

// wait blocks until the other side calls release, then returns its value.
func (b *barrier) wait() any {
	return <-b.ch
}
