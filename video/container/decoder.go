package container

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/sigurn/crc8"

	"github.com/fbplay/fbplay/qoi"
)

var crcTable = crc8.MakeTable(crc8.CRC8)

// Drop describes a record that could not be decoded.
type Drop struct {
	Index  int
	Offset int
	Length int
	CRC    uint8 // CRC-8 of the record bytes
	Err    error
}

func (d *Drop) Error() string {
	return fmt.Sprintf("record %d at offset %d (%d bytes, crc8 %#02x): %v", d.Index, d.Offset, d.Length, d.CRC, d.Err)
}

func (d *Drop) Unwrap() error { return d.Err }

// Stats summarizes one pass over a container.
type Stats struct {
	Records   int // complete records seen
	Decoded   int
	Dropped   int
	Truncated bool // the container ends in an incomplete record
	Drops     []Drop
}

// Decoder turns records into frames.  It owns a single pixel buffer that
// grows to fit the largest frame seen, so a returned frame is only valid
// until the next call to Decode.
type Decoder struct {
	log   *slog.Logger
	pix   []byte
	stats Stats
}

// NewDecoder returns a decoder that logs dropped records to log.  A nil log
// uses slog.Default.
func NewDecoder(log *slog.Logger) *Decoder {
	if log == nil {
		log = slog.Default()
	}
	return &Decoder{log: log}
}

// Decode decodes rec.  Any error means the record was dropped and is
// recorded in the statistics.
func (d *Decoder) Decode(rec Record) (Frame, error) {
	d.stats.Records++
	h, err := qoi.DecodeInto(d.pix, rec.Data, qoi.RGBA)
	var small *qoi.BufferTooSmallError
	if errors.As(err, &small) {
		d.pix = make([]byte, small.Required)
		h, err = qoi.DecodeInto(d.pix, rec.Data, qoi.RGBA)
	}
	if err != nil {
		drop := d.drop(rec, err)
		return Frame{}, drop
	}

	pix := d.pix[:h.Size(qoi.RGBA)]
	SwapRB(pix)
	d.stats.Decoded++
	return Frame{Width: int(h.Width), Height: int(h.Height), Pix: pix}, nil
}

func (d *Decoder) drop(rec Record, err error) *Drop {
	d.stats.Dropped++
	d.stats.Drops = append(d.stats.Drops, Drop{
		Index:  rec.Index,
		Offset: rec.Offset,
		Length: len(rec.Data),
		CRC:    crc8.Checksum(rec.Data, crcTable),
		Err:    err,
	})
	drop := &d.stats.Drops[len(d.stats.Drops)-1]
	d.log.Warn("drop record", "index", drop.Index, "offset", drop.Offset,
		"len", drop.Length, "crc8", drop.CRC, "err", err)
	return drop
}

// Stats returns the statistics accumulated so far.
func (d *Decoder) Stats() Stats {
	s := d.stats
	s.Drops = append([]Drop(nil), s.Drops...)
	return s
}

// Walk decodes every record of raw in order and calls fn for each frame that
// decoded.  Records that fail to decode are skipped.  An error returned by fn
// stops the walk and is returned.
func (d *Decoder) Walk(raw []byte, fn func(Frame) error) (Stats, error) {
	s := NewScanner(raw)
	for {
		rec, ok := s.Next()
		if !ok {
			break
		}
		f, err := d.Decode(rec)
		if err != nil {
			continue
		}
		if err := fn(f); err != nil {
			return d.Stats(), err
		}
	}
	if s.Truncated() {
		d.stats.Truncated = true
		d.log.Warn("container truncated", "offset", s.Offset(), "size", len(raw))
	}
	return d.Stats(), nil
}

// Walk is a shorthand for NewDecoder(log).Walk(raw, fn).
func Walk(raw []byte, log *slog.Logger, fn func(Frame) error) (Stats, error) {
	return NewDecoder(log).Walk(raw, fn)
}

// DecodeAll decodes every record of raw and returns copies of the frames
// that decoded.
func DecodeAll(raw []byte, log *slog.Logger) ([]Frame, Stats) {
	var frames []Frame
	stats, _ := Walk(raw, log, func(f Frame) error {
		frames = append(frames, f.Clone())
		return nil
	})
	return frames, stats
}
