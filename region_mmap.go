// SPDX-License-Identifier: Apache-2.0

//go:build linux || darwin

package arena

import (
	"golang.org/x/sys/unix"
)

// mmapRegion maps an anonymous private region of size bytes. The
// mapping is not shared with any file or process; Munmap returns it to
// the OS in one call regardless of how many allocations it served.
func mmapRegion(size int) ([]byte, func([]byte) error, error) {
	buf, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, err
	}
	return buf, unix.Munmap, nil
}
