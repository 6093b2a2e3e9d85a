//go:build amd64 || arm64 || 386 || ppc64le || ppc64 || s390x

package cpu

import "unsafe"

// CopyToDevice copies min(len(dst), len(src)) bytes from src into dst, which
// is usually mapped device memory, and returns the number of bytes copied.
//
// The bulk of the data moves in 64 byte blocks of eight 8-byte loads followed
// by eight 8-byte stores.  The tail moves in 8-byte words and finally single
// bytes.  Neither slice needs to be aligned.  The regions must not overlap.
func CopyToDevice(dst, src []byte) int {
	n := min(len(dst), len(src))
	if n == 0 {
		return 0
	}
	d := unsafe.Pointer(unsafe.SliceData(dst))
	s := unsafe.Pointer(unsafe.SliceData(src))
	l := uintptr(n)
	i := uintptr(0)

	for ; i+64 <= l; i += 64 {
		s0 := *(*uint64)(unsafe.Add(s, i))
		s1 := *(*uint64)(unsafe.Add(s, i+8))
		s2 := *(*uint64)(unsafe.Add(s, i+16))
		s3 := *(*uint64)(unsafe.Add(s, i+24))
		s4 := *(*uint64)(unsafe.Add(s, i+32))
		s5 := *(*uint64)(unsafe.Add(s, i+40))
		s6 := *(*uint64)(unsafe.Add(s, i+48))
		s7 := *(*uint64)(unsafe.Add(s, i+56))
		*(*uint64)(unsafe.Add(d, i)) = s0
		*(*uint64)(unsafe.Add(d, i+8)) = s1
		*(*uint64)(unsafe.Add(d, i+16)) = s2
		*(*uint64)(unsafe.Add(d, i+24)) = s3
		*(*uint64)(unsafe.Add(d, i+32)) = s4
		*(*uint64)(unsafe.Add(d, i+40)) = s5
		*(*uint64)(unsafe.Add(d, i+48)) = s6
		*(*uint64)(unsafe.Add(d, i+56)) = s7
	}
	for ; i+8 <= l; i += 8 {
		*(*uint64)(unsafe.Add(d, i)) = *(*uint64)(unsafe.Add(s, i))
	}
	for ; i < l; i++ {
		*(*byte)(unsafe.Add(d, i)) = *(*byte)(unsafe.Add(s, i))
	}
	return n
}
