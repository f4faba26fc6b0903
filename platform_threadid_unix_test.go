//go:build unix

package corostack

import "golang.org/x/sys/unix"

// currentThreadID reports the calling goroutine's OS thread ID, used only by
// TestThreadEngine_PinnedThreadStableAcrossYield to confirm the thread
// engine's LockOSThread pairing actually keeps the same OS thread across a
// yield. Grounded on the same golang.org/x/sys/unix split platform.go uses
// for pageSize.
func currentThreadID() int {
	return unix.Gettid()
}
