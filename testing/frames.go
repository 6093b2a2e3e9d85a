package testing

import (
	"image/color"
	"testing"

	"github.com/fbplay/fbplay/drivers/display"
	"github.com/fbplay/fbplay/qoi"
	"github.com/fbplay/fbplay/video/container"
)

// Solid returns the QOI encoding of a w×h image filled with c.
func Solid(tb testing.TB, w, h int, c color.NRGBA) []byte {
	tb.Helper()
	pix := make([]byte, 0, w*h*4)
	for range w * h {
		pix = append(pix, c.R, c.G, c.B, c.A)
	}
	enc, err := qoi.Encode(nil, pix, qoi.Header{Width: uint32(w), Height: uint32(h), Channels: qoi.RGBA})
	if err != nil {
		tb.Fatal(err)
	}
	return enc
}

// Container returns a container holding records in order.
func Container(records ...[]byte) []byte {
	var raw []byte
	for _, r := range records {
		raw = container.Append(raw, r)
	}
	return raw
}

// SolidContainer returns a container with one w×h frame per color.
func SolidContainer(tb testing.TB, w, h int, colors ...color.NRGBA) []byte {
	tb.Helper()
	records := make([][]byte, len(colors))
	for i, c := range colors {
		records[i] = Solid(tb, w, h, c)
	}
	return Container(records...)
}

// BGRA returns the display byte order of c.
func BGRA(c color.NRGBA) [4]byte {
	return [4]byte{c.B, c.G, c.R, c.A}
}

// Memory returns an in-memory surface of the given mode.  Stride is in
// pixels.
func Memory(tb testing.TB, width, height, stride int) *display.Memory {
	tb.Helper()
	m, err := display.NewMemory(display.Mode{Width: width, Height: height, Stride: stride})
	if err != nil {
		tb.Fatal(err)
	}
	return m
}

// Palette is a set of distinct opaque colors for multi-frame tests.
var Palette = []color.NRGBA{
	{0xff, 0x00, 0x00, 0xff},
	{0x00, 0xff, 0x00, 0xff},
	{0x00, 0x00, 0xff, 0xff},
	{0xff, 0xff, 0x00, 0xff},
	{0x00, 0xff, 0xff, 0xff},
	{0xff, 0x00, 0xff, 0xff},
	{0x80, 0x40, 0x20, 0xff},
	{0x10, 0x20, 0x30, 0xff},
}
