// Package cpu holds the memory primitives shared by all playback cores.
//
// Host CPUs keep their data caches coherent, so unlike on a console there is
// no writeback or invalidate step before another core reads memory written by
// this one.  What still matters is layout: bands start on a cache line so two
// cores never share one, and hot counters are padded onto a line of their own.
package cpu

import (
	"unsafe"

	"golang.org/x/sys/cpu"
)

// CacheLineSize is the data cache line size assumed for band layout.
const CacheLineSize = 64

// CacheLinePad pads a struct so that the fields around it land on distinct
// cache lines.  Its size follows the running architecture.
type CacheLinePad = cpu.CacheLinePad

// MakeAligned returns a zeroed slice of size bytes whose first element is
// aligned to align, which must be a power of two.  The capacity is clipped to
// size so appending never writes into a neighbour.
func MakeAligned(size int, align uintptr) []byte {
	if align < CacheLineSize {
		align = CacheLineSize
	}
	buf := make([]byte, size+int(align))
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
	shift := int((align - addr&(align-1)) & (align - 1))
	return buf[shift : shift+size : shift+size]
}

// IsAligned reports whether the first element of p is aligned to align.
func IsAligned(p []byte, align uintptr) bool {
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(p)))
	return addr&(align-1) == 0
}

// AlignUp rounds n up to the next multiple of CacheLineSize.
func AlignUp(n int) int {
	return (n + CacheLineSize - 1) &^ (CacheLineSize - 1)
}
