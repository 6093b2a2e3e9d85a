package qoi_test

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fbplay/fbplay/qoi"
)

func solid(w, h int, c color.NRGBA) []byte {
	pix := make([]byte, 0, w*h*4)
	for range w * h {
		pix = append(pix, c.R, c.G, c.B, c.A)
	}
	return pix
}

// noisy returns pixels that exercise every op: runs, small and medium
// deltas, index hits, alpha changes and raw colors.
func noisy(w, h int, seed uint64) []byte {
	r := rand.New(rand.NewPCG(seed, seed))
	pix := make([]byte, 0, w*h*4)
	cur := [4]byte{10, 20, 30, 255}
	var seen [][4]byte
	for range w * h {
		switch r.IntN(6) {
		case 0:
			// repeat
		case 1:
			cur[0] += byte(r.IntN(3)) - 1
			cur[2] -= byte(r.IntN(2))
		case 2:
			d := byte(r.IntN(40)) - 20
			cur[0] += d + byte(r.IntN(8))
			cur[1] += d
			cur[2] += d - byte(r.IntN(8))
		case 3:
			if len(seen) > 0 {
				cur = seen[r.IntN(len(seen))]
			}
		case 4:
			cur[3] = byte(r.Uint32())
		default:
			cur = [4]byte{byte(r.Uint32()), byte(r.Uint32()), byte(r.Uint32()), cur[3]}
		}
		seen = append(seen, cur)
		pix = append(pix, cur[:]...)
	}
	return pix
}

func TestRoundTrip(t *testing.T) {
	tests := map[string]struct {
		w, h int
		pix  []byte
	}{
		"red1x1":    {1, 1, solid(1, 1, color.NRGBA{255, 0, 0, 255})},
		"longrun":   {200, 3, solid(200, 3, color.NRGBA{1, 2, 3, 4})},
		"noisy":     {64, 48, noisy(64, 48, 1)},
		"noisytall": {3, 500, noisy(3, 500, 2)},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			h := qoi.Header{Width: uint32(tc.w), Height: uint32(tc.h), Channels: qoi.RGBA}
			enc, err := qoi.Encode(nil, tc.pix, h)
			require.NoError(t, err)

			got, pix, err := qoi.Decode(enc, 0)
			require.NoError(t, err)
			require.Equal(t, h, got)
			require.Equal(t, tc.pix, pix)
		})
	}
}

func TestRGBDecodesOpaque(t *testing.T) {
	rgb := []byte{1, 2, 3, 4, 5, 6}
	enc, err := qoi.Encode(nil, rgb, qoi.Header{Width: 2, Height: 1, Channels: qoi.RGB})
	require.NoError(t, err)

	_, pix, err := qoi.Decode(enc, qoi.RGBA)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 255, 4, 5, 6, 255}, pix)

	_, pix, err = qoi.Decode(enc, 0)
	require.NoError(t, err)
	require.Equal(t, rgb, pix)
}

func TestBufferTooSmall(t *testing.T) {
	enc, err := qoi.Encode(nil, solid(4, 2, color.NRGBA{9, 9, 9, 255}), qoi.Header{Width: 4, Height: 2, Channels: qoi.RGBA})
	require.NoError(t, err)

	dst := make([]byte, 10)
	_, err = qoi.DecodeInto(dst, enc, qoi.RGBA)
	var small *qoi.BufferTooSmallError
	require.ErrorAs(t, err, &small)
	require.Equal(t, 10, small.Size)
	require.Equal(t, 32, small.Required)
	require.Equal(t, make([]byte, 10), dst)

	dst = make([]byte, small.Required)
	_, err = qoi.DecodeInto(dst, enc, qoi.RGBA)
	require.NoError(t, err)
}

func TestDecodeIntoChecksDataFirst(t *testing.T) {
	enc, err := qoi.Encode(nil, solid(4, 2, color.NRGBA{9, 9, 9, 255}), qoi.Header{Width: 4, Height: 2, Channels: qoi.RGBA})
	require.NoError(t, err)
	// Claim 1000x1000 pixels the few bytes of data cannot hold.
	enc[6], enc[7], enc[10], enc[11] = 0x03, 0xe8, 0x03, 0xe8

	_, err = qoi.DecodeInto(nil, enc, qoi.RGBA)
	require.ErrorIs(t, err, qoi.ErrUnexpectedEOF)
	var small *qoi.BufferTooSmallError
	require.False(t, errors.As(err, &small))
}

func TestDecodeErrors(t *testing.T) {
	valid, err := qoi.Encode(nil, noisy(8, 8, 3), qoi.Header{Width: 8, Height: 8, Channels: qoi.RGBA})
	require.NoError(t, err)

	corrupt := func(f func(b []byte) []byte) []byte {
		return f(bytes.Clone(valid))
	}
	tests := map[string]struct {
		data []byte
		err  error
	}{
		"empty":      {nil, qoi.ErrUnexpectedEOF},
		"magic":      {[]byte("garbage-not-an-image"), qoi.ErrInvalidMagic},
		"channels":   {corrupt(func(b []byte) []byte { b[12] = 5; return b }), qoi.ErrInvalidChannels},
		"colorspace": {corrupt(func(b []byte) []byte { b[13] = 2; return b }), qoi.ErrInvalidColorspace},
		"zerowidth":  {corrupt(func(b []byte) []byte { b[7] = 0; return b }), qoi.ErrInvalidDimensions},
		"truncated":  {valid[:qoi.HeaderSize+3], qoi.ErrUnexpectedEOF},
		"nopadding":  {valid[:len(valid)-1], qoi.ErrInvalidPadding},
		"badpadding": {corrupt(func(b []byte) []byte { b[len(b)-1] = 2; return b }), qoi.ErrInvalidPadding},
		"oversized":  {corrupt(func(b []byte) []byte { b[6], b[10] = 0x10, 0x10; return b[:40] }), qoi.ErrUnexpectedEOF},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := qoi.Decode(tc.data, qoi.RGBA)
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestEncodeErrors(t *testing.T) {
	_, err := qoi.Encode(nil, make([]byte, 7), qoi.Header{Width: 2, Height: 1, Channels: qoi.RGBA})
	require.ErrorIs(t, err, qoi.ErrPixelCount)
	_, err = qoi.Encode(nil, nil, qoi.Header{Channels: qoi.RGBA})
	require.ErrorIs(t, err, qoi.ErrInvalidDimensions)
}

func TestImageFormat(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.SetNRGBA(1, 1, color.NRGBA{200, 100, 50, 255})

	var buf bytes.Buffer
	require.NoError(t, qoi.WriteImage(&buf, src))

	cfg, format, err := image.DecodeConfig(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, "qoi", format)
	require.Equal(t, 3, cfg.Width)
	require.Equal(t, 2, cfg.Height)

	img, _, err := image.Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, src.Pix, img.(*image.NRGBA).Pix)
}
