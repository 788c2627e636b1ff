// SPDX-License-Identifier: Apache-2.0

//go:build !linux && !darwin

package arena

// mmapRegion falls back to a heap region on platforms without mmap.
func mmapRegion(size int) ([]byte, func([]byte) error, error) {
	return heapRegion(size)
}
