// Package display provides the surfaces frames are presented on.
//
// A surface is a linear framebuffer of 32 bit pixels in B, G, R, A byte
// order.  Rows are Stride pixels apart; only the first Width pixels of a row
// are visible.
package display

import (
	"errors"
	"fmt"
	"image/color"
)

// BytesPerPixel of every supported surface.
const BytesPerPixel = 4

var (
	ErrInvalidMode       = errors.New("display: invalid mode")
	ErrUnsupportedFormat = errors.New("display: unsupported pixel format")
	ErrUnsupported       = errors.New("display: backend not supported on this platform")
)

// Mode is the geometry of a surface in pixels.
type Mode struct {
	Width  int
	Height int
	Stride int
}

func (m Mode) StrideBytes() int { return m.Stride * BytesPerPixel }

// Size returns the length of the framebuffer in bytes.
func (m Mode) Size() int { return m.Height * m.StrideBytes() }

func (m Mode) String() string {
	return fmt.Sprintf("%dx%d/%d", m.Width, m.Height, m.Stride)
}

func (m Mode) validate() error {
	if m.Width <= 0 || m.Height <= 0 || m.Stride < m.Width {
		return fmt.Errorf("%w: %v", ErrInvalidMode, m)
	}
	return nil
}

// Surface is a display the player can write to directly.
type Surface interface {
	Mode() Mode

	// Framebuffer returns the pixel memory, Mode().Size() bytes.  Writes
	// become visible without further calls.
	Framebuffer() []byte

	// Fill sets every visible pixel to c.
	Fill(c color.Color)

	Close() error
}

func bgra(c color.Color) [4]byte {
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	return [4]byte{rgba.B, rgba.G, rgba.R, rgba.A}
}

// fill implements Surface.Fill for any linear framebuffer.
func fill(fb []byte, m Mode, c color.Color) {
	if len(fb) < m.Size() {
		return
	}
	px := bgra(c)
	sb := m.StrideBytes()
	vis := m.Width * BytesPerPixel

	row := fb[:vis]
	copy(row, px[:])
	for n := BytesPerPixel; n < vis; n *= 2 {
		copy(row[n:], row[:n])
	}
	for y := 1; y < m.Height; y++ {
		copy(fb[y*sb:y*sb+vis], row)
	}
}
