package display

import (
	"image"
	"image/color"
)

// BGRA is an image over a surface framebuffer.  It implements draw.Image so
// the standard drawing tools work on a surface.
type BGRA struct {
	Pix    []uint8
	Stride int
	Rect   image.Rectangle
}

// NewBGRA returns an image backed by the framebuffer of s.
func NewBGRA(s Surface) *BGRA {
	m := s.Mode()
	return &BGRA{
		Pix:    s.Framebuffer(),
		Stride: m.StrideBytes(),
		Rect:   image.Rect(0, 0, m.Width, m.Height),
	}
}

func (p *BGRA) ColorModel() color.Model { return color.RGBAModel }

func (p *BGRA) Bounds() image.Rectangle { return p.Rect }

func (p *BGRA) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*4
}

func (p *BGRA) At(x, y int) color.Color {
	return p.RGBAAt(x, y)
}

func (p *BGRA) RGBAAt(x, y int) color.RGBA {
	if !(image.Point{x, y}.In(p.Rect)) {
		return color.RGBA{}
	}
	s := p.Pix[p.PixOffset(x, y):]
	return color.RGBA{s[2], s[1], s[0], s[3]}
}

func (p *BGRA) Set(x, y int, c color.Color) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return
	}
	px := bgra(c)
	copy(p.Pix[p.PixOffset(x, y):], px[:])
}

// RGBA returns a copy of p in RGBA byte order.
func (p *BGRA) RGBA() *image.RGBA {
	img := image.NewRGBA(p.Rect)
	for y := p.Rect.Min.Y; y < p.Rect.Max.Y; y++ {
		for x := p.Rect.Min.X; x < p.Rect.Max.X; x++ {
			img.SetRGBA(x, y, p.RGBAAt(x, y))
		}
	}
	return img
}
