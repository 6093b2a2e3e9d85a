package container

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// MaxRecordSize bounds the length prefix accepted by Reader.  A larger value
// is treated as corruption rather than an allocation request.
const MaxRecordSize = 256 << 20

var (
	ErrRecordTooLarge = errors.New("container: record too large")
	ErrNotSeekable    = errors.New("container: source is not seekable")
)

// Reader streams records from an io.Reader one at a time.
type Reader struct {
	r     io.Reader
	hdr   [LengthSize]byte
	index int
	off   int64
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Next reads the next record into buf, growing it if needed, and returns the
// record bytes which alias buf.  more is false when the stream is exhausted.
// An incomplete trailing record counts as the end of the stream.
func (r *Reader) Next(buf []byte) (rec []byte, more bool, err error) {
	_, err = io.ReadFull(r.r, r.hdr[:])
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return nil, false, nil
	} else if err != nil {
		return nil, false, err
	}
	n := binary.LittleEndian.Uint32(r.hdr[:])
	if n > MaxRecordSize {
		return nil, false, fmt.Errorf("%w: record %d at offset %d claims %d bytes", ErrRecordTooLarge, r.index, r.off, n)
	}
	if cap(buf) < int(n) {
		buf = make([]byte, n)
	}
	buf = buf[:n]
	_, err = io.ReadFull(r.r, buf)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return nil, false, nil
	} else if err != nil {
		return nil, false, err
	}
	r.index++
	r.off += LengthSize + int64(n)
	return buf, true, nil
}

// Index returns the number of records read since the last rewind.
func (r *Reader) Index() int { return r.index }

// Rewind restarts reading at the first record.  The underlying reader must
// implement io.Seeker.
func (r *Reader) Rewind() error {
	s, ok := r.r.(io.Seeker)
	if !ok {
		return ErrNotSeekable
	}
	if _, err := s.Seek(0, io.SeekStart); err != nil {
		return err
	}
	r.index = 0
	r.off = 0
	return nil
}
