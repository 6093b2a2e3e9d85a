package display

import (
	"image"
	"image/color"
	"image/draw"
)

// PixDriver draws on a surface for github.com/embeddedgo/display/pix.  It
// is used for text output outside of playback, e.g. the fatal error screen.
type PixDriver struct {
	img  *BGRA
	fill image.Uniform
}

func NewPixDriver(s Surface) *PixDriver {
	return &PixDriver{img: NewBGRA(s), fill: image.Uniform{C: color.Black}}
}

// Image returns the image the driver draws on.
func (d *PixDriver) Image() *BGRA { return d.img }

func (d *PixDriver) Draw(r image.Rectangle, src image.Image, sp image.Point,
	mask image.Image, mp image.Point, op draw.Op) {
	draw.DrawMask(d.img, r, src, sp, mask, mp, op)
}

func (d *PixDriver) Fill(r image.Rectangle) {
	d.Draw(r, &d.fill, image.Point{}, nil, image.Point{}, draw.Src)
}

func (d *PixDriver) SetColor(c color.Color) {
	d.fill.C = c
}

func (d *PixDriver) SetDir(dir int) image.Rectangle {
	return d.img.Bounds()
}

// Flush is a no-op, the framebuffer is written directly.
func (d *PixDriver) Flush() {}

func (d *PixDriver) Err(clear bool) error {
	return nil
}
