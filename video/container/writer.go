package container

import (
	"encoding/binary"
	"io"
)

// Writer appends records to an io.Writer.
type Writer struct {
	w     io.Writer
	count int
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteRecord writes p as one record.
func (w *Writer) WriteRecord(p []byte) error {
	var hdr [LengthSize]byte
	binary.LittleEndian.PutUint32(hdr[:], uint32(len(p)))
	if _, err := w.w.Write(hdr[:]); err != nil {
		return err
	}
	if _, err := w.w.Write(p); err != nil {
		return err
	}
	w.count++
	return nil
}

// Count returns the number of records written.
func (w *Writer) Count() int { return w.count }
