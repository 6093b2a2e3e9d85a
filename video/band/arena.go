package band

import "github.com/fbplay/fbplay/cpu"

// DefaultSlabSize is the slab size used by NewArena when given zero.
const DefaultSlabSize = 16 << 20

// Arena hands out cache line aligned blocks carved from large slabs.  Blocks
// are never freed; the arena lives as long as the bands it holds.
type Arena struct {
	slabSize int
	slab     []byte
	off      int
	size     int
	slabs    int
}

func NewArena(slabSize int) *Arena {
	if slabSize <= 0 {
		slabSize = DefaultSlabSize
	}
	return &Arena{slabSize: cpu.AlignUp(slabSize)}
}

// Alloc returns a zeroed block of n bytes aligned to cpu.CacheLineSize.  Its
// capacity is n.
func (a *Arena) Alloc(n int) []byte {
	a.size += n
	if n > a.slabSize/4 {
		a.slabs++
		return cpu.MakeAligned(n, cpu.CacheLineSize)
	}
	if a.off+n > len(a.slab) {
		a.slab = cpu.MakeAligned(a.slabSize, cpu.CacheLineSize)
		a.off = 0
		a.slabs++
	}
	b := a.slab[a.off : a.off+n : a.off+n]
	a.off += cpu.AlignUp(n)
	return b
}

// Size returns the number of bytes handed out.
func (a *Arena) Size() int { return a.size }

// Slabs returns the number of slabs allocated.
func (a *Arena) Slabs() int { return a.slabs }
