// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"sync"
	"weak"

	"github.com/cespare/xxhash/v2"
)

// DefaultPoolCapacity is the capacity of pooled arenas for use cases
// with no recorded history (1 MiB).
const DefaultPoolCapacity = 1 << 20

// Pool hands out fixed arenas for reuse across request-scoped work.
//
// Pooled arenas are held through weak pointers, so the GC may reclaim
// any idle arena at any time; the pool size adapts to memory pressure
// without explicit tuning. Demand is recorded per use-case key when a
// lease comes back: an arena released while completely full is taken
// as a sign the capacity truncated real demand, and the next arena
// constructed for that key is sized up. Acquire never hands a use case
// an idle arena smaller than its recorded demand.
//
// The pool itself is safe for concurrent use. The arenas it hands out
// are not: each Lease belongs to one goroutine until released.
type Pool struct {
	mu     sync.Mutex
	idle   []weak.Pointer[Lease]
	demand map[uint64]int
	opts   []FixedArenaOption
}

// Lease is an arena checked out of a Pool.
type Lease struct {
	Arena Arena
	Key   uint64
}

// PoolKey derives a use-case key from a name, e.g. a route or query
// identifier. Equal names always map to the same key.
func PoolKey(name string) uint64 {
	return xxhash.Sum64String(name)
}

// NewPool creates an empty pool. The options are applied to every
// arena the pool constructs, so e.g. WithMmapRegion() makes all
// pooled regions OS-mapped.
func NewPool(opts ...FixedArenaOption) *Pool {
	return &Pool{
		demand: make(map[uint64]int),
		opts:   opts,
	}
}

// Acquire returns an idle arena large enough for key's recorded
// demand, or constructs a new one of that capacity. Idle arenas that
// are too small stay pooled for use cases they still fit. The caller
// owns the lease until it passes it back through Release.
func (p *Pool) Acquire(key uint64) (*Lease, error) {
	p.mu.Lock()
	need := p.capacityFor(key)

	var undersized []weak.Pointer[Lease]
	var lease *Lease
	for len(p.idle) > 0 {
		last := len(p.idle) - 1
		wp := p.idle[last]
		p.idle = p.idle[:last]

		// The GC may have collected the lease behind the weak pointer;
		// skip those entries.
		l := wp.Value()
		if l == nil {
			continue
		}
		// Too small for this use case; leave it pooled for others.
		if l.Arena.Cap() < need {
			undersized = append(undersized, wp)
			continue
		}
		lease = l
		break
	}
	p.idle = append(p.idle, undersized...)
	p.mu.Unlock()

	if lease != nil {
		lease.Key = key
		return lease, nil
	}

	a, err := NewFixedArena(need, p.opts...)
	if err != nil {
		return nil, err
	}
	return &Lease{Arena: a, Key: key}, nil
}

// Release resets the lease's arena and returns it to the pool. The
// arena's usage is recorded against the lease's key before the lease
// is handed back.
func (p *Pool) Release(l *Lease) {
	p.mu.Lock()
	p.put(l)
	p.mu.Unlock()
}

// ReleaseMany returns several leases under one lock acquisition.
func (p *Pool) ReleaseMany(leases []*Lease) {
	p.mu.Lock()
	for _, l := range leases {
		p.put(l)
	}
	p.mu.Unlock()
}

// put records demand and pools the lease. A fixed arena's peak is
// capped at its capacity, so a lease coming back full may have refused
// allocations; doubling the recorded demand lets the next construction
// for the key outgrow that ceiling. Caller holds p.mu.
func (p *Pool) put(l *Lease) {
	demand := l.Arena.Peak()
	if demand > 0 && demand == l.Arena.Cap() {
		demand *= 2
	}
	if demand > p.demand[l.Key] {
		p.demand[l.Key] = demand
	}
	l.Arena.Reset()
	l.Key = 0
	p.idle = append(p.idle, weak.Make(l))
}

// capacityFor sizes an arena for key from recorded demand; below the
// default the default wins. Caller holds p.mu.
func (p *Pool) capacityFor(key uint64) int {
	if d := p.demand[key]; d > DefaultPoolCapacity {
		return d
	}
	return DefaultPoolCapacity
}
