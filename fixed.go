// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"runtime"
	"sync"
	"unsafe"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidCapacity is returned by NewFixedArena for a negative
	// capacity request.
	ErrInvalidCapacity = errors.New("arena: negative capacity")

	// ErrRegionUnavailable is returned by NewFixedArena when the region
	// allocator produced neither a region nor an error of its own.
	ErrRegionUnavailable = errors.New("arena: backing region unavailable")
)

// zeroSized anchors the pointer handed out for zero-size allocations.
var zeroSized byte

// RegionFunc acquires a backing region of the given size. It returns
// the region and an optional releaser invoked once by Release. A
// RegionFunc may report failure either with an error or by returning a
// nil region for a non-zero size.
type RegionFunc func(size int) (region []byte, release func([]byte) error, err error)

func heapRegion(size int) ([]byte, func([]byte) error, error) {
	return make([]byte, size), nil, nil
}

type fixedArenaConfig struct {
	acquire RegionFunc
}

// FixedArenaOption configures a fixed arena at construction time.
type FixedArenaOption func(*fixedArenaConfig)

// WithRegionFunc makes the arena acquire its backing region through fn
// instead of the Go heap.
func WithRegionFunc(fn RegionFunc) FixedArenaOption {
	return func(c *fixedArenaConfig) {
		c.acquire = fn
	}
}

// WithMmapRegion backs the arena with an anonymous private mapping
// obtained from the OS, keeping the region off the Go heap. On
// platforms without mmap support it falls back to a heap region.
func WithMmapRegion() FixedArenaOption {
	return func(c *fixedArenaConfig) {
		c.acquire = func(size int) ([]byte, func([]byte) error, error) {
			if size == 0 {
				return nil, nil, nil
			}
			return mmapRegion(size)
		}
	}
}

// regionHandle owns the releaser for a non-heap region. It is shared
// between the arena and its GC cleanup, so the release runs exactly
// once whichever of Release or the cleanup gets there first.
type regionHandle struct {
	once    sync.Once
	region  []byte
	release func([]byte) error
}

func (h *regionHandle) releaseOnce() {
	h.once.Do(func() {
		_ = h.release(h.region)
		h.region = nil
	})
}

// fixedArena is a bump allocator over one contiguous region of fixed
// capacity. The offset only ever moves forward; there is no per-object
// release and no growth.
type fixedArena struct {
	region  []byte
	offset  uintptr
	peak    uintptr
	handle  *regionHandle
	cleanup runtime.Cleanup
	done    bool // Release has run
}

// NewFixedArena creates an arena backed by a region of exactly
// capacity bytes. A zero capacity yields a valid arena on which every
// non-zero allocation fails. Construction failures (negative capacity,
// region acquisition failure) are reported as an error; nothing is
// retained on failure.
func NewFixedArena(capacity int, opts ...FixedArenaOption) (Arena, error) {
	if capacity < 0 {
		return nil, errors.Wrapf(ErrInvalidCapacity, "capacity %d", capacity)
	}
	cfg := fixedArenaConfig{acquire: heapRegion}
	for _, opt := range opts {
		opt(&cfg)
	}
	region, release, err := cfg.acquire(capacity)
	if err != nil {
		return nil, errors.Wrapf(err, "arena: acquiring %d byte region", capacity)
	}
	if region == nil && capacity > 0 {
		return nil, errors.Wrapf(ErrRegionUnavailable, "capacity %d", capacity)
	}
	a := &fixedArena{region: region}
	if release != nil && region != nil {
		// Regions with a releaser (mmap and friends) are not the GC's
		// to reclaim. The cleanup covers arenas that become garbage
		// without an explicit Release, e.g. pool leases evicted under
		// memory pressure.
		a.handle = &regionHandle{region: region, release: release}
		a.cleanup = runtime.AddCleanup(a, (*regionHandle).releaseOnce, a.handle)
	}
	return a, nil
}

// Alloc satisfies the Arena interface. Bumps are byte-granular unless
// the caller asks for a stricter alignment, in which case the offset is
// padded first; padding counts against capacity.
func (a *fixedArena) Alloc(size, alignment uintptr) unsafe.Pointer {
	if size == 0 {
		// Stable sentinel, no capacity consumed.
		return unsafe.Pointer(&zeroSized)
	}
	if a.done || len(a.region) == 0 {
		return nil
	}

	pad := uintptr(0)
	if alignment > 1 {
		base := uintptr(unsafe.Pointer(unsafe.SliceData(a.region)))
		if rem := (base + a.offset) % alignment; rem != 0 {
			pad = alignment - rem
		}
	}

	avail := uintptr(len(a.region)) - a.offset
	if pad > avail || size > avail-pad {
		return nil
	}

	ptr := unsafe.Pointer(&a.region[a.offset+pad])
	a.offset += pad + size
	if a.offset > a.peak {
		a.peak = a.offset
	}

	// Zero the handed-out range; after a Reset the region still holds
	// bytes from the previous generation. The compiler lowers this loop
	// to an optimized memclr.
	b := unsafe.Slice((*byte)(ptr), size)
	for i := range b {
		b[i] = 0
	}

	return ptr
}

// Reset satisfies the Arena interface.
func (a *fixedArena) Reset() {
	a.offset = 0
}

// Release satisfies the Arena interface. Safe to call more than once
// and safe on an arena whose region acquisition failed.
func (a *fixedArena) Release() {
	if a.done {
		return
	}
	a.done = true
	if a.handle != nil {
		a.cleanup.Stop()
		a.handle.releaseOnce()
	}
	a.region = nil
	a.offset = 0
}

// Len returns the number of bytes consumed by allocations so far.
func (a *fixedArena) Len() int {
	return int(a.offset)
}

// Cap returns the fixed capacity of the backing region.
func (a *fixedArena) Cap() int {
	return len(a.region)
}

// Peak returns the high-water mark of Len over the arena's lifetime.
func (a *fixedArena) Peak() int {
	return int(a.peak)
}
