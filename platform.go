package corostack

import (
	"sync"
	"unsafe"
)

var (
	pageSizeOnce  sync.Once
	cachedPageSz  int
	stackDirOnce  sync.Once
	stackGrowsLo  bool // true if deeper calls get lower addresses (the common case)
)

// pageSize returns the platform's page size, querying the OS exactly once
// and caching the result thereafter (spec.md §9: "the only process-wide
// value is a cached page size"). [stackBufferMinimum] rounds a requested
// buffer size up to a multiple of this.
func pageSize() int {
	pageSizeOnce.Do(func() {
		cachedPageSz = queryPageSize()
		if cachedPageSz <= 0 {
			cachedPageSz = 4096
		}
	})
	return cachedPageSz
}

// stackBufferMinimum rounds size up to at least four pages, matching
// spec.md §3's "at least a library-defined minimum (four pages is typical)"
// for the SHIFT strategy's nominal stack-size bookkeeping.
func stackBufferMinimum(size int) int {
	floor := 4 * pageSize()
	if size < floor {
		return floor
	}
	ps := pageSize()
	if rem := size % ps; rem != 0 {
		size += ps - rem
	}
	return size
}

//go:noinline
func stackAddr() uintptr {
	var local byte
	return uintptr(unsafe.Pointer(&local))
}

// probeStackDirection determines once, at first use, whether this
// platform's call stack grows toward lower addresses (true on every
// mainstream Go target) by comparing the address of a local variable across
// two nested, non-inlined calls. This module's own design (see DESIGN.md
// Open Question #2: no pack example actually probes this at runtime): used
// here to give the COPY engine's step-depth precondition a
// platform-independent notion of "shallower".
func probeStackDirection() bool {
	stackDirOnce.Do(func() {
		outer := stackAddr()
		inner := nestedProbe()
		stackGrowsLo = inner < outer
	})
	return stackGrowsLo
}

//go:noinline
func nestedProbe() uintptr {
	return stackAddr()
}

// shallowerThan reports whether depth `a` (an address captured via
// stackAddr) is shallower — i.e. closer to the call chain's root — than
// depth `b`, accounting for the platform's stack growth direction.
func shallowerThan(a, b uintptr) bool {
	if probeStackDirection() {
		// Stack grows down: shallower frames have higher addresses.
		return a > b
	}
	return a < b
}
