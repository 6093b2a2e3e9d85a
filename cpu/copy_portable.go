//go:build !(amd64 || arm64 || 386 || ppc64le || ppc64 || s390x)

package cpu

import "encoding/binary"

// CopyToDevice copies min(len(dst), len(src)) bytes from src into dst, which
// is usually mapped device memory, and returns the number of bytes copied.
//
// This architecture traps on misaligned word access, so words are assembled
// from bytes.  The block structure matches the unaligned variant.
func CopyToDevice(dst, src []byte) int {
	n := min(len(dst), len(src))
	dst, src = dst[:n:n], src[:n:n]
	le := binary.LittleEndian

	i := 0
	for ; i+64 <= n; i += 64 {
		s := src[i : i+64 : i+64]
		d := dst[i : i+64 : i+64]
		s0, s1 := le.Uint64(s[0:]), le.Uint64(s[8:])
		s2, s3 := le.Uint64(s[16:]), le.Uint64(s[24:])
		s4, s5 := le.Uint64(s[32:]), le.Uint64(s[40:])
		s6, s7 := le.Uint64(s[48:]), le.Uint64(s[56:])
		le.PutUint64(d[0:], s0)
		le.PutUint64(d[8:], s1)
		le.PutUint64(d[16:], s2)
		le.PutUint64(d[24:], s3)
		le.PutUint64(d[32:], s4)
		le.PutUint64(d[40:], s5)
		le.PutUint64(d[48:], s6)
		le.PutUint64(d[56:], s7)
	}
	for ; i+8 <= n; i += 8 {
		le.PutUint64(dst[i:], le.Uint64(src[i:]))
	}
	for ; i < n; i++ {
		dst[i] = src[i]
	}
	return n
}
