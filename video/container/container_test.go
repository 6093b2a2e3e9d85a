package container_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image/color"
	"io"
	"runtime"
	"slices"
	"testing"

	"github.com/sigurn/crc8"
	"github.com/stretchr/testify/require"

	"github.com/fbplay/fbplay/qoi"
	fbtesting "github.com/fbplay/fbplay/testing"
	"github.com/fbplay/fbplay/video/container"
)

func TestMain(m *testing.M) { fbtesting.TestMain(m) }

var (
	red  = color.NRGBA{0xff, 0x00, 0x00, 0xff}
	blue = color.NRGBA{0x00, 0x00, 0xff, 0xff}
)

func TestRecords(t *testing.T) {
	a, b := []byte("first"), []byte{}
	raw := fbtesting.Container(a, b, []byte("third"))

	recs := slices.Collect(container.Records(raw))
	require.Len(t, recs, 3)
	require.Equal(t, a, recs[0].Data)
	require.Empty(t, recs[1].Data)
	require.Equal(t, []byte("third"), recs[2].Data)
	require.Equal(t, 0, recs[0].Offset)
	require.Equal(t, 4+5, recs[1].Offset)
	require.Equal(t, 2, recs[2].Index)
}

func TestScannerTruncated(t *testing.T) {
	raw := fbtesting.Container([]byte("complete"))

	tests := map[string]struct {
		raw       []byte
		records   int
		truncated bool
	}{
		"empty":       {nil, 0, false},
		"complete":    {raw, 1, false},
		"short len":   {append(bytes.Clone(raw), 1, 0), 1, true},
		"short data":  {append(bytes.Clone(raw), 10, 0, 0, 0, 'x'), 1, true},
		"huge length": {[]byte{0xff, 0xff, 0xff, 0xff, 1, 2, 3}, 0, true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			s := container.NewScanner(tc.raw)
			n := 0
			for {
				if _, ok := s.Next(); !ok {
					break
				}
				n++
			}
			require.Equal(t, tc.records, n)
			require.Equal(t, tc.truncated, s.Truncated())
		})
	}
}

func TestWalkSkipsInvalidRecord(t *testing.T) {
	garbage := []byte{1, 2, 3, 4, 5}
	raw := fbtesting.Container(
		fbtesting.Solid(t, 1, 1, red),
		garbage,
		fbtesting.Solid(t, 1, 1, blue),
	)

	var frames []container.Frame
	stats, err := container.Walk(raw, nil, func(f container.Frame) error {
		frames = append(frames, f.Clone())
		return nil
	})
	require.NoError(t, err)
	require.Len(t, frames, 2)
	require.Equal(t, []byte{0x00, 0x00, 0xff, 0xff}, frames[0].Pix)
	require.Equal(t, []byte{0xff, 0x00, 0x00, 0xff}, frames[1].Pix)

	require.Equal(t, 3, stats.Records)
	require.Equal(t, 2, stats.Decoded)
	require.Equal(t, 1, stats.Dropped)
	require.False(t, stats.Truncated)
	require.Len(t, stats.Drops, 1)

	drop := stats.Drops[0]
	require.Equal(t, 1, drop.Index)
	require.Equal(t, len(garbage), drop.Length)
	require.Equal(t, crc8.Checksum(garbage, crc8.MakeTable(crc8.CRC8)), drop.CRC)
	require.ErrorIs(t, &drop, qoi.ErrUnexpectedEOF)
}

func TestWalkInvalidFirst(t *testing.T) {
	raw := []byte{0x05, 0, 0, 0, 1, 2, 3, 4, 5}
	raw = container.Append(raw, fbtesting.Solid(t, 1, 1, red))

	frames, stats := container.DecodeAll(raw, nil)
	require.Len(t, frames, 1)
	require.Equal(t, 1, frames[0].Width)
	require.Equal(t, 1, frames[0].Height)
	require.Equal(t, []byte{0x00, 0x00, 0xff, 0xff}, frames[0].Pix)
	require.Equal(t, 2, stats.Records)
	require.Equal(t, 1, stats.Dropped)
	require.Equal(t, 0, stats.Drops[0].Index)
}

func TestDecodeHugeHeader(t *testing.T) {
	rec := []byte("qoif")
	rec = binary.BigEndian.AppendUint32(rec, 20000)
	rec = binary.BigEndian.AppendUint32(rec, 20000)
	rec = append(rec, byte(qoi.RGBA), byte(qoi.SRGB), 0xc0, 0xc0, 0xc0)
	require.Len(t, rec, 17)

	d := container.NewDecoder(nil)
	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	_, err := d.Decode(container.Record{Data: rec})
	runtime.ReadMemStats(&after)

	require.ErrorIs(t, err, qoi.ErrUnexpectedEOF)
	require.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(1<<20))
	require.Equal(t, 1, d.Stats().Dropped)

	f, err := d.Decode(container.Record{Data: fbtesting.Solid(t, 2, 2, blue)})
	require.NoError(t, err)
	require.Equal(t, []byte{0xff, 0x00, 0x00, 0xff}, f.Row(1)[4:])
}

func TestWalkTruncated(t *testing.T) {
	raw := fbtesting.SolidContainer(t, 2, 2, red, blue)
	raw = raw[:len(raw)-3]

	frames, stats := container.DecodeAll(raw, nil)
	require.Len(t, frames, 1)
	require.True(t, stats.Truncated)
	require.Equal(t, 1, stats.Records)
}

func TestWalkStops(t *testing.T) {
	raw := fbtesting.SolidContainer(t, 1, 1, red, blue, red)
	stop := errors.New("stop")
	n := 0
	_, err := container.Walk(raw, nil, func(container.Frame) error {
		n++
		return stop
	})
	require.ErrorIs(t, err, stop)
	require.Equal(t, 1, n)
}

func TestDecoderGrowsBuffer(t *testing.T) {
	d := container.NewDecoder(nil)
	for _, size := range []int{1, 4, 2, 8} {
		rec := container.Record{Data: fbtesting.Solid(t, size, size+1, red)}
		f, err := d.Decode(rec)
		require.NoError(t, err)
		require.Equal(t, size, f.Width)
		require.Equal(t, size+1, f.Height)
		require.Len(t, f.Pix, size*(size+1)*container.BytesPerPixel)
		require.Equal(t, []byte{0, 0, 0xff, 0xff}, f.Row(size)[:4])
	}
	require.Equal(t, 4, d.Stats().Decoded)
}

func TestDecodeRGB(t *testing.T) {
	enc, err := qoi.Encode(nil, []byte{10, 20, 30}, qoi.Header{Width: 1, Height: 1, Channels: qoi.RGB})
	require.NoError(t, err)

	f, err := container.NewDecoder(nil).Decode(container.Record{Data: enc})
	require.NoError(t, err)
	require.Equal(t, []byte{30, 20, 10, 255}, f.Pix)
}

func TestReader(t *testing.T) {
	raw := fbtesting.Container([]byte("a"), []byte("bbbbbbbb"), []byte("cc"))
	raw = append(raw, 9, 0) // incomplete length prefix

	r := container.NewReader(bytes.NewReader(raw))
	var buf []byte
	var got []string
	for {
		rec, more, err := r.Next(buf)
		require.NoError(t, err)
		if !more {
			break
		}
		got = append(got, string(rec))
		buf = rec
	}
	require.Equal(t, []string{"a", "bbbbbbbb", "cc"}, got)
	require.Equal(t, 3, r.Index())

	require.NoError(t, r.Rewind())
	rec, more, err := r.Next(nil)
	require.NoError(t, err)
	require.True(t, more)
	require.Equal(t, "a", string(rec))
}

func TestReaderErrors(t *testing.T) {
	r := container.NewReader(io.MultiReader(bytes.NewReader(fbtesting.Container([]byte("x")))))
	require.ErrorIs(t, r.Rewind(), container.ErrNotSeekable)

	r = container.NewReader(bytes.NewReader([]byte{0xff, 0xff, 0xff, 0xff}))
	_, more, err := r.Next(nil)
	require.False(t, more)
	require.ErrorIs(t, err, container.ErrRecordTooLarge)

	r = container.NewReader(bytes.NewReader([]byte{4, 0, 0, 0, 'x'}))
	_, more, err = r.Next(nil)
	require.NoError(t, err)
	require.False(t, more)
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := container.NewWriter(&buf)
	require.NoError(t, w.WriteRecord([]byte("one")))
	require.NoError(t, w.WriteRecord(nil))
	require.Equal(t, 2, w.Count())
	require.Equal(t, fbtesting.Container([]byte("one"), nil), buf.Bytes())
}

func TestSwapRB(t *testing.T) {
	pix := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	container.SwapRB(pix)
	require.Equal(t, []byte{3, 2, 1, 4, 7, 6, 5, 8}, pix)
}
