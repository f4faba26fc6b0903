//go:build unix

package corostack

import "golang.org/x/sys/unix"

// queryPageSize asks the OS for its page size. Grounded on the teacher's own
// per-platform golang.org/x/sys/unix files (poller_linux.go, poller_darwin.go).
func queryPageSize() int {
	return unix.Getpagesize()
}
