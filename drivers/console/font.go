package console

import (
	"image"

	"github.com/embeddedgo/display/font/subfont"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	firstRune = 0x20
	lastRune  = 0x7e
)

// basicData serves glyphs of a basicfont face as subfont data.
type basicData struct {
	face *basicfont.Face
}

func (d *basicData) Advance(i int) int {
	return d.face.Advance
}

func (d *basicData) Glyph(i int) (img image.Image, origin image.Point, advance int) {
	dr, mask, maskp, adv, ok := d.face.Glyph(fixed.Point26_6{}, firstRune+rune(i))
	if !ok {
		return
	}
	sub, ok := mask.(interface {
		SubImage(image.Rectangle) image.Image
	})
	if !ok {
		return
	}
	img = sub.SubImage(image.Rectangle{Min: maskp, Max: maskp.Add(dr.Size())})
	origin = maskp.Sub(dr.Min)
	advance = adv.Round()
	return
}

// Face is the printable ASCII range of the 7x13 fixed font.
var Face = newFace(basicfont.Face7x13)

func newFace(f *basicfont.Face) *subfont.Face {
	return &subfont.Face{
		Height: int16(f.Height),
		Ascent: int16(f.Ascent),
		Subfonts: []*subfont.Subfont{{
			First: firstRune,
			Last:  lastRune,
			Data:  &basicData{face: f},
		}},
	}
}
