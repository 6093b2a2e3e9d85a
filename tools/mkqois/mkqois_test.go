package mkqois_test

import (
	"bytes"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fbplay/fbplay/qoi"
	"github.com/fbplay/fbplay/tools/mkqois"
	"github.com/fbplay/fbplay/video/container"
)

func uniform(w, h int, c color.Color) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestConvert(t *testing.T) {
	red := color.NRGBA{0xff, 0, 0, 0xff}
	green := color.NRGBA{0, 0xff, 0, 0xff}
	scaler, err := mkqois.Scaler("nearest")
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := mkqois.Convert(&buf, []image.Image{uniform(4, 2, red), uniform(8, 4, green)}, image.Pt(4, 2), scaler)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	var got []*image.NRGBA
	for rec := range container.Records(buf.Bytes()) {
		img, err := qoi.DecodeImage(rec.Data)
		require.NoError(t, err)
		got = append(got, img)
	}
	require.Len(t, got, 2)
	require.Equal(t, image.Rect(0, 0, 4, 2), got[1].Bounds())
	require.Equal(t, red, got[0].NRGBAAt(3, 1))
	require.Equal(t, green, got[1].NRGBAAt(0, 0))
}

func TestScaler(t *testing.T) {
	for _, name := range []string{"nearest", "approx", "bilinear", "CatmullRom"} {
		s, err := mkqois.Scaler(name)
		require.NoError(t, err)
		require.NotNil(t, s)
	}
	_, err := mkqois.Scaler("lanczos")
	require.Error(t, err)
}

func TestGIFFrames(t *testing.T) {
	g := &gif.GIF{Config: image.Config{Width: 4, Height: 4, ColorModel: color.Palette(palette.Plan9)}}
	full := image.NewPaletted(image.Rect(0, 0, 4, 4), palette.Plan9)
	for i := range full.Pix {
		full.Pix[i] = 1
	}
	patch := image.NewPaletted(image.Rect(1, 1, 2, 2), palette.Plan9)
	patch.Pix[0] = 200
	g.Image = []*image.Paletted{full, patch}
	g.Delay = []int{0, 0}
	g.Disposal = []byte{gif.DisposalNone, gif.DisposalNone}

	var buf bytes.Buffer
	require.NoError(t, gif.EncodeAll(&buf, g))

	frames, err := mkqois.GIFFrames(&buf)
	require.NoError(t, err)
	require.Len(t, frames, 2)
	// The second frame keeps the pixels the patch does not cover.
	r0, g0, b0, _ := frames[0].At(0, 0).RGBA()
	r1, g1, b1, _ := frames[1].At(0, 0).RGBA()
	require.Equal(t, [3]uint32{r0, g0, b0}, [3]uint32{r1, g1, b1})
	require.NotEqual(t, frames[0].At(1, 1), frames[1].At(1, 1))
}
