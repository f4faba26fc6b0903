//go:build !unix

package corostack

import "os"

// queryPageSize asks the OS for its page size. The stdlib's os.Getpagesize
// is the portable fallback on platforms the pack's golang.org/x/sys/unix
// split doesn't cover (e.g. Windows).
func queryPageSize() int {
	return os.Getpagesize()
}
