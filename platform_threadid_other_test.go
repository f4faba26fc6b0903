//go:build !unix

package corostack

// currentThreadID has no portable non-unix implementation; it always
// reports the same value, making TestThreadEngine_PinnedThreadStableAcrossYield
// a no-op equality check on this platform rather than a false failure.
func currentThreadID() int {
	return 0
}
