package qoi

import (
	"image"
	"image/color"
	"image/draw"
	"io"
)

func init() {
	image.RegisterFormat("qoi", magic, decodeImage, decodeConfig)
}

func decodeImage(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return DecodeImage(data)
}

func decodeConfig(r io.Reader) (image.Config, error) {
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return image.Config{}, err
	}
	h, err := DecodeHeader(buf[:])
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      int(h.Width),
		Height:     int(h.Height),
	}, nil
}

// DecodeImage decodes data into an *image.NRGBA.
func DecodeImage(data []byte) (*image.NRGBA, error) {
	h, pix, err := Decode(data, RGBA)
	if err != nil {
		return nil, err
	}
	return &image.NRGBA{
		Pix:    pix,
		Stride: int(h.Width) * 4,
		Rect:   image.Rect(0, 0, int(h.Width), int(h.Height)),
	}, nil
}

// EncodeImage appends the RGBA encoding of img to dst.
func EncodeImage(dst []byte, img image.Image) ([]byte, error) {
	b := img.Bounds()
	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Stride != b.Dx()*4 || b.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rectangle{Max: b.Size()})
		draw.Draw(nrgba, nrgba.Rect, img, b.Min, draw.Src)
	}
	h := Header{
		Width:    uint32(b.Dx()),
		Height:   uint32(b.Dy()),
		Channels: RGBA,
	}
	return Encode(dst, nrgba.Pix, h)
}

// WriteImage writes the encoding of img to w.
func WriteImage(w io.Writer, img image.Image) error {
	buf, err := EncodeImage(nil, img)
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}
