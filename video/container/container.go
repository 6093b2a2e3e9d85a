// Package container reads and writes the frame container: a flat sequence of
// records, each a 4 byte little-endian length followed by that many bytes of
// one QOI encoded image.
//
// There is no file header, index or trailer.  A trailing record whose length
// runs past the end of the data is ignored.
package container

import (
	"encoding/binary"
	"iter"
)

// LengthSize is the size of the record length prefix.
const LengthSize = 4

// Record is one compressed frame.  Data aliases the container.
type Record struct {
	Index  int // position in the container, counting from 0
	Offset int // offset of the length prefix
	Data   []byte
}

// Scanner iterates over the records of an in-memory container.
type Scanner struct {
	raw       []byte
	off       int
	index     int
	truncated bool
}

func NewScanner(raw []byte) *Scanner {
	return &Scanner{raw: raw}
}

// Next returns the next complete record.  It returns false at the end of the
// data or at the first record that does not fit.
func (s *Scanner) Next() (Record, bool) {
	rest := len(s.raw) - s.off
	if rest == 0 {
		return Record{}, false
	}
	if rest < LengthSize {
		s.truncated = true
		return Record{}, false
	}
	n := uint64(binary.LittleEndian.Uint32(s.raw[s.off:]))
	start := s.off + LengthSize
	if n > uint64(len(s.raw)-start) {
		s.truncated = true
		return Record{}, false
	}
	end := start + int(n)
	rec := Record{Index: s.index, Offset: s.off, Data: s.raw[start:end:end]}
	s.off = end
	s.index++
	return rec, true
}

// Truncated reports whether scanning stopped at an incomplete record.
func (s *Scanner) Truncated() bool { return s.truncated }

// Offset returns the offset of the first byte not consumed yet.
func (s *Scanner) Offset() int { return s.off }

// Records returns an iterator over the complete records in raw.
func Records(raw []byte) iter.Seq[Record] {
	return func(yield func(Record) bool) {
		s := NewScanner(raw)
		for {
			rec, ok := s.Next()
			if !ok || !yield(rec) {
				return
			}
		}
	}
}

// Append appends data as one record to dst.
func Append(dst, data []byte) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(data)))
	return append(dst, data...)
}
