// Package band splits decoded frames into horizontal bands, one per core, in
// the memory layout of the display surface.
//
// Core i of n owns the rows [i·H/n, (i+1)·H/n) and the last core also owns
// the remainder.  A band holds its rows at the display stride, so a core
// presents a frame with a single contiguous copy.
package band

import (
	"errors"
	"fmt"

	"github.com/fbplay/fbplay/video/container"
)

var ErrInvalidParameter = errors.New("band: invalid parameter")

// Span is the row range [Start, End) owned by one core.
type Span struct {
	Start int
	End   int
}

func (s Span) Rows() int { return s.End - s.Start }

// Layout returns the row spans of cores cores over height rows.  It returns
// nil if cores is not positive.
func Layout(cores, height int) []Span {
	if cores < 1 {
		return nil
	}
	spans := make([]Span, cores)
	rpc := height / cores
	for i := range spans {
		spans[i] = Span{Start: i * rpc, End: (i + 1) * rpc}
	}
	spans[cores-1].End = height
	return spans
}

// Geometry describes the display surface and the number of cores sharing
// it.  Dimensions are in pixels.
type Geometry struct {
	Width  int
	Height int
	Stride int
	Cores  int
}

func (g Geometry) Validate() error {
	switch {
	case g.Width <= 0 || g.Height <= 0:
		return fmt.Errorf("%w: display size %dx%d", ErrInvalidParameter, g.Width, g.Height)
	case g.Stride < g.Width:
		return fmt.Errorf("%w: stride %d smaller than width %d", ErrInvalidParameter, g.Stride, g.Width)
	case g.Cores < 1:
		return fmt.Errorf("%w: %d cores", ErrInvalidParameter, g.Cores)
	}
	return nil
}

// StrideBytes returns the length of one display row in memory.
func (g Geometry) StrideBytes() int { return g.Stride * container.BytesPerPixel }

// Span returns the rows owned by core.
func (g Geometry) Span(core int) Span {
	rpc := g.Height / g.Cores
	s := Span{Start: core * rpc, End: (core + 1) * rpc}
	if core == g.Cores-1 {
		s.End = g.Height
	}
	return s
}

// Size returns the length of the band of core in bytes.
func (g Geometry) Size(core int) int {
	return g.Span(core).Rows() * g.StrideBytes()
}

// Fill writes the band of core for frame f into dst, which must be exactly
// Size(core) bytes.  Rows below the frame and pixels right of it are zero.
// Frames wider than the display are cropped.
func (g Geometry) Fill(dst []byte, f container.Frame, core int) error {
	span := g.Span(core)
	sb := g.StrideBytes()
	if len(dst) != span.Rows()*sb {
		return fmt.Errorf("%w: band of core %d is %d bytes, want %d", ErrInvalidParameter, core, len(dst), span.Rows()*sb)
	}
	n := min(f.Width, g.Width) * container.BytesPerPixel
	src := f.RowBytes()

	for y := span.Start; y < span.End; y++ {
		row := dst[(y-span.Start)*sb : (y-span.Start+1)*sb]
		if y >= f.Height {
			clear(row)
			continue
		}
		off := y * src
		if off+n > len(f.Pix) {
			return fmt.Errorf("%w: row %d of core %d ends at %d, frame has %d bytes", ErrInvalidParameter, y, core, off+n, len(f.Pix))
		}
		copy(row, f.Pix[off:off+n])
		clear(row[n:])
	}
	return nil
}

// Check verifies that every row of f that ends up on the display lies within
// its pixel buffer.
func (g Geometry) Check(f container.Frame) error {
	rows := min(f.Height, g.Height)
	if rows <= 0 {
		return nil
	}
	end := (rows-1)*f.RowBytes() + min(f.Width, g.Width)*container.BytesPerPixel
	if end > len(f.Pix) {
		return fmt.Errorf("%w: %dx%d frame needs %d bytes, has %d", ErrInvalidParameter, f.Width, f.Height, end, len(f.Pix))
	}
	return nil
}
