// SPDX-License-Identifier: Apache-2.0

// Package arena implements bump (region) allocation: many small
// allocations served out of one pre-acquired contiguous region, all
// released at once when the region is destroyed.
package arena

import (
	"unsafe"
)

// Arena is a memory allocation arena. Pointers returned by Alloc are
// borrows: they stay valid until Reset or Release, after which they
// must not be used. A single arena is not safe for concurrent
// mutation; distinct arenas are independent and may be used from
// different goroutines.
type Arena interface {
	// Alloc returns a pointer to a fresh zeroed byte range of the given
	// size, or nil when the arena cannot satisfy the request. An
	// alignment of 0 or 1 bumps at byte granularity; a larger alignment
	// pads the bump so the returned pointer is a multiple of it.
	Alloc(size, alignment uintptr) unsafe.Pointer

	// Reset rewinds the arena to empty without releasing the region.
	// Every pointer previously returned by Alloc becomes invalid.
	Reset()

	// Release returns the backing region to the system. The arena must
	// not be used for further allocations. Release is idempotent.
	Release()

	// Len returns the number of bytes consumed by allocations so far.
	Len() int

	// Cap returns the total capacity of the backing region in bytes.
	Cap() int

	// Peak returns the high-water mark of Len over the arena's
	// lifetime. Unlike Len it survives Reset.
	Peak() int
}

// Allocate returns a *T placed in the arena. If a is nil, or the arena
// is out of capacity, the value is heap-allocated with new instead, so
// the returned pointer is always usable.
func Allocate[T any](a Arena) *T {
	if a != nil {
		var x T
		if ptr := a.Alloc(unsafe.Sizeof(x), unsafe.Alignof(x)); ptr != nil {
			return (*T)(ptr)
		}
	}
	return new(T)
}

// AllocateBytes returns an n-byte slice backed by the arena, or nil
// when the arena is out of capacity. Unlike AllocateSlice it never
// falls back to the heap, so callers can observe exhaustion.
func AllocateBytes(a Arena, n int) []byte {
	if n < 0 {
		return nil
	}
	if n == 0 {
		return []byte{}
	}
	if a == nil {
		return nil
	}
	ptr := a.Alloc(uintptr(n), 1)
	if ptr == nil {
		return nil
	}
	return unsafe.Slice((*byte)(ptr), n)
}
