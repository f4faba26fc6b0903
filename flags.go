package corostack

import "strings"

// Flags is a bitset of coroutine capability and strategy flags. Exactly one
// of [MethodCopy] or [MethodShift] is ever in effect on a constructed
// [State]; the others are independent side flags an engine may or may not
// support.
type Flags uint8

const (
	// MethodCopy selects the COPY stack strategy: the coroutine body borrows
	// the stepper's own call depth, and a resume is rejected if issued from
	// a shallower depth than the one that first started it.
	MethodCopy Flags = 1 << iota
	// MethodShift selects the SHIFT stack strategy: the coroutine runs on
	// its own parked goroutine, resumable from any depth.
	MethodShift
	// RestoreSigmask requests signal-mask restoration across a switch. Only
	// the context engine advertises it, and it only records that the flag
	// was requested; no engine saves or restores the signal mask (see
	// DESIGN.md).
	RestoreSigmask
	// Threaded marks an engine as backed by a real, pinned OS thread rather
	// than an ordinary goroutine.
	Threaded
)

// strategyMask is the subset of flags that select a stack strategy.
const strategyMask = MethodCopy | MethodShift

// Has reports whether all bits in want are set in f.
func (f Flags) Has(want Flags) bool { return f&want == want }

// strategy returns the single strategy bit in effect, dropping MethodCopy in
// favor of MethodShift if both were requested (spec.md §4.1: "SHIFT wins").
func (f Flags) strategy() Flags {
	s := f & strategyMask
	if s == (MethodCopy | MethodShift) {
		return MethodShift
	}
	return s
}

// String renders f as a "|"-joined list of flag names, for diagnostics.
func (f Flags) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	if f.Has(MethodCopy) {
		parts = append(parts, "MethodCopy")
	}
	if f.Has(MethodShift) {
		parts = append(parts, "MethodShift")
	}
	if f.Has(RestoreSigmask) {
		parts = append(parts, "RestoreSigmask")
	}
	if f.Has(Threaded) {
		parts = append(parts, "Threaded")
	}
	return strings.Join(parts, "|")
}
