// stack_allocator.go - Bump-with-free-list allocator for task stacks

package kernelsim

import "sort"

// stackRegion is one contiguous free span of the stack arena.
type stackRegion struct {
	base uint32
	size uint32
}

// stackAllocator reserves disjoint stack regions out of a dedicated
// high-memory arena. It is a first-fit allocator over a sorted
// free-list, coalescing adjacent regions on free so that repeated
// create/terminate cycles do not fragment the arena — grounded on the
// region-table bookkeeping in the teacher's MachineBus I/O mapping,
// generalized here from callback dispatch to plain disjoint-range
// accounting.
type stackAllocator struct {
	arenaBase uint32
	arenaEnd  uint32 // exclusive
	free      []stackRegion
}

// newStackAllocator creates an allocator over [base, base+size).
func newStackAllocator(base, size uint32) *stackAllocator {
	return &stackAllocator{
		arenaBase: base,
		arenaEnd:  base + size,
		free:      []stackRegion{{base: base, size: size}},
	}
}

// alloc reserves a region of exactly size bytes, first-fit. Returns
// the base address and true on success.
func (a *stackAllocator) alloc(size uint32) (uint32, bool) {
	for i, r := range a.free {
		if r.size >= size {
			base := r.base
			if r.size == size {
				a.free = append(a.free[:i], a.free[i+1:]...)
			} else {
				a.free[i] = stackRegion{base: r.base + size, size: r.size - size}
			}
			return base, true
		}
	}
	return 0, false
}

// release returns a previously allocated region to the free list and
// coalesces it with any adjacent free neighbours.
func (a *stackAllocator) release(base, size uint32) {
	a.free = append(a.free, stackRegion{base: base, size: size})
	sort.Slice(a.free, func(i, j int) bool { return a.free[i].base < a.free[j].base })

	merged := a.free[:0]
	for _, r := range a.free {
		if len(merged) > 0 {
			last := &merged[len(merged)-1]
			if last.base+last.size == r.base {
				last.size += r.size
				continue
			}
		}
		merged = append(merged, r)
	}
	a.free = merged
}
