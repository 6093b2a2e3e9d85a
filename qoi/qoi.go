// Package qoi implements the "Quite OK Image" format.
//
// The decoder writes into a caller owned buffer and reports a too small buffer
// with the exact size it needs, so a caller decoding many images can keep one
// buffer and grow it only when an image is larger than all before it.
package qoi

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	HeaderSize  = 14
	paddingSize = 8
	maxRun      = 62 // pixels covered by one run op

	// MaxPixels bounds width*height of a decodable image.
	MaxPixels = 400_000_000
)

const magic = "qoif"

var padding = [paddingSize]byte{0, 0, 0, 0, 0, 0, 0, 1}

const (
	opIndex = 0x00
	opDiff  = 0x40
	opLuma  = 0x80
	opRun   = 0xc0
	opRGB   = 0xfe
	opRGBA  = 0xff
	opMask  = 0xc0
)

// Channels is the number of bytes per pixel, RGB or RGBA.
type Channels uint8

const (
	RGB  Channels = 3
	RGBA Channels = 4
)

func (c Channels) valid() bool { return c == RGB || c == RGBA }

// Colorspace is informative only, the codec never converts between them.
type Colorspace uint8

const (
	SRGB   Colorspace = 0
	Linear Colorspace = 1
)

var (
	ErrInvalidMagic      = errors.New("qoi: invalid magic")
	ErrInvalidChannels   = errors.New("qoi: invalid channel count")
	ErrInvalidColorspace = errors.New("qoi: invalid colorspace")
	ErrInvalidDimensions = errors.New("qoi: invalid image dimensions")
	ErrUnexpectedEOF     = errors.New("qoi: unexpected end of data")
	ErrInvalidPadding    = errors.New("qoi: invalid padding")
	ErrPixelCount        = errors.New("qoi: pixel data does not match dimensions")
)

// BufferTooSmallError is returned when the output buffer cannot hold the
// decoded image.  Retrying with a buffer of Required bytes succeeds unless the
// data itself is corrupt.
type BufferTooSmallError struct {
	Size     int
	Required int
}

func (e *BufferTooSmallError) Error() string {
	return fmt.Sprintf("qoi: output buffer too small: have %d bytes, need %d", e.Size, e.Required)
}

// Header is the fixed size image header.
type Header struct {
	Width      uint32
	Height     uint32
	Channels   Channels
	Colorspace Colorspace
}

// Pixels returns width*height.
func (h Header) Pixels() int {
	return int(h.Width) * int(h.Height)
}

// Size returns the number of bytes needed to hold the decoded image with c
// channels per pixel.  Zero means the channel count of the header.
func (h Header) Size(c Channels) int {
	if c == 0 {
		c = h.Channels
	}
	return h.Pixels() * int(c)
}

func (h Header) validate() error {
	if h.Width == 0 || h.Height == 0 || uint64(h.Width)*uint64(h.Height) > MaxPixels {
		return ErrInvalidDimensions
	}
	if !h.Channels.valid() {
		return ErrInvalidChannels
	}
	if h.Colorspace > Linear {
		return ErrInvalidColorspace
	}
	return nil
}

// fits reports an error if n bytes of encoded image, header and padding
// included, are too few to describe every pixel of h.  It runs before any
// buffer is sized from the header.
func (h Header) fits(n int) error {
	payload := max(n-HeaderSize-paddingSize, 0)
	if uint64(h.Pixels()) > uint64(payload)*maxRun {
		return fmt.Errorf("%w: %dx%d image in %d bytes", ErrUnexpectedEOF, h.Width, h.Height, n)
	}
	return nil
}

// DecodeHeader parses and validates the header at the start of data.
func DecodeHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, ErrUnexpectedEOF
	}
	if string(data[:4]) != magic {
		return Header{}, ErrInvalidMagic
	}
	h := Header{
		Width:      binary.BigEndian.Uint32(data[4:]),
		Height:     binary.BigEndian.Uint32(data[8:]),
		Channels:   Channels(data[12]),
		Colorspace: Colorspace(data[13]),
	}
	return h, h.validate()
}

func (h Header) append(b []byte) []byte {
	b = append(b, magic...)
	b = binary.BigEndian.AppendUint32(b, h.Width)
	b = binary.BigEndian.AppendUint32(b, h.Height)
	return append(b, byte(h.Channels), byte(h.Colorspace))
}

type pixel struct{ r, g, b, a byte }

func (p pixel) hash() byte {
	return (p.r*3 + p.g*5 + p.b*7 + p.a*11) & 63
}
