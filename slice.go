// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"unsafe"
)

// Above this capacity slices grow by 25% instead of doubling.
const growThreshold = 256

// AllocateSlice creates a slice of type T with the given length and
// capacity, backed by the arena. If a is nil or out of capacity, the
// slice is heap-allocated with make instead.
func AllocateSlice[T any](a Arena, len, cap int) []T {
	if a != nil {
		var x T
		bufSize := uintptr(cap) * unsafe.Sizeof(x)
		if ptr := (*T)(a.Alloc(bufSize, unsafe.Alignof(x))); ptr != nil {
			s := unsafe.Slice(ptr, cap)
			return s[:len]
		}
	}
	return make([]T, len, cap)
}

// SliceAppend appends data to s, growing it through the arena when the
// capacity runs out. With a nil arena it behaves like append.
func SliceAppend[T any](a Arena, s []T, data ...T) []T {
	if a == nil {
		return append(s, data...)
	}
	s = growSlice(a, s, len(data))
	return append(s, data...)
}

func growSlice[T any](a Arena, s []T, dataLen int) []T {
	newLen := len(s) + dataLen
	if newLen <= cap(s) {
		return s
	}

	// Start from the incoming length for empty slices so a large batch
	// lands in one allocation instead of walking the growth sequence
	// up from nothing.
	newCap := cap(s)
	if newCap == 0 {
		newCap = dataLen
	}
	for newCap < newLen {
		if newCap < growThreshold {
			newCap *= 2
		} else {
			newCap += newCap / 4
		}
	}

	s2 := AllocateSlice[T](a, len(s), newCap)
	copy(s2, s)
	return s2
}
