package corostack

// engine is the vtable every back-end implements, matching spec.md §4.3:
// {size, init, step, yield, cancel}, plus a name and advertised capability
// flags for the dispatcher.
type engine interface {
	// engineName returns the dispatcher-visible name of this engine.
	engineName() string
	// engineFlags returns the full set of flags this engine advertises:
	// the strategy bit(s) it supports, plus any side flags.
	engineFlags() Flags
	// minSize returns requested clamped up to this engine's minimum
	// allocation.
	minSize(requested int) int
	// init prepares s's engine-private data. Called once, synchronously,
	// from Create/CreateFull; must not start the body.
	init(s *State) error
	// step advances s: enters the body on the first call, resumes it on
	// subsequent calls. in is delivered to the body as the value it
	// observes (the initial argument on first entry, or Yield's return
	// value on resume).
	step(s *State, in any) (Status, any, error)
	// yield is invoked by a Yielder on behalf of the running body; it
	// suspends the coroutine and returns once the matching step delivers a
	// new value.
	yield(s *State, out any) (any, error)
	// cancel implements State.Cancel for this engine.
	cancel(s *State, resume bool) error
}
