//go:build linux

package main

import (
	"os"

	"golang.org/x/sys/unix"
)

// adviseSequential tells the kernel the file will be read front to back
// so readahead can be aggressive. The workers issue positioned reads in
// roughly ascending order, which is close enough to sequential for the
// hint to pay off. Failures are ignored; the hint is optional.
func adviseSequential(f *os.File, size int64) {
	fd := int(f.Fd())
	unix.Fadvise(fd, 0, size, unix.FADV_SEQUENTIAL)
	unix.Fadvise(fd, 0, size, unix.FADV_WILLNEED)
}
