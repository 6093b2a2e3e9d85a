package mkqois

import (
	"bufio"
	"flag"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/fbplay/fbplay/qoi"
	"github.com/fbplay/fbplay/video/container"
)

var (
	flags = flag.NewFlagSet("mkqois", flag.ExitOnError)

	output = flags.String("o", "video.qois", "output `file`")
	width  = flags.Int("width", 0, "frame width, 0 to keep the size of the first image")
	height = flags.Int("height", 0, "frame height, 0 to keep the size of the first image")
	filter = flags.String("filter", "catmullrom", "scaling filter: nearest, approx, bilinear or catmullrom")
)

const usageString = `Converts images into a QOI frame container.

Usage: %s [flags] <images...>

Animated GIFs contribute all of their frames.  Supported inputs are PNG,
JPEG, GIF, BMP, TIFF and WebP.

`

func usage() {
	fmt.Fprintf(flags.Output(), usageString, "mkqois")
	flags.PrintDefaults()
}

func Main(args []string) {
	flags.Usage = usage
	flags.Parse(args[1:])

	if flags.NArg() < 1 {
		flags.Usage()
		os.Exit(1)
	}
	scaler, err := Scaler(*filter)
	if err != nil {
		log.Fatalln(err)
	}

	var frames []image.Image
	for _, name := range flags.Args() {
		imgs, err := readImages(name)
		if err != nil {
			log.Fatalln(name+":", err)
		}
		frames = append(frames, imgs...)
	}

	if len(frames) == 0 {
		log.Fatalln("no frames")
	}
	size := image.Pt(*width, *height)
	if size.X == 0 || size.Y == 0 {
		size = frames[0].Bounds().Size()
	}

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalln(err)
	}
	w := bufio.NewWriter(f)
	n, err := Convert(w, frames, size, scaler)
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		log.Fatalln(err)
	}
	log.Printf("%s: %d frames, %dx%d", *output, n, size.X, size.Y)
}

// Scaler returns the x/image/draw scaler called name.
func Scaler(name string) (xdraw.Scaler, error) {
	switch strings.ToLower(name) {
	case "nearest":
		return xdraw.NearestNeighbor, nil
	case "approx":
		return xdraw.ApproxBiLinear, nil
	case "bilinear":
		return xdraw.BiLinear, nil
	case "catmullrom":
		return xdraw.CatmullRom, nil
	}
	return nil, fmt.Errorf("unknown filter %q", name)
}

func readImages(name string) ([]image.Image, error) {
	r, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	if strings.EqualFold(filepath.Ext(name), ".gif") {
		return GIFFrames(r)
	}
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return []image.Image{img}, nil
}

// GIFFrames decodes every frame of an animated GIF, composited as a viewer
// would show it.
func GIFFrames(r io.Reader) ([]image.Image, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, err
	}
	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	canvas := image.NewNRGBA(bounds)
	frames := make([]image.Image, 0, len(g.Image))
	for i, p := range g.Image {
		var restore *image.NRGBA
		if i < len(g.Disposal) && g.Disposal[i] == gif.DisposalPrevious {
			restore = image.NewNRGBA(bounds)
			draw.Draw(restore, bounds, canvas, image.Point{}, draw.Src)
		}
		draw.Draw(canvas, p.Bounds(), p, p.Bounds().Min, draw.Over)

		frame := image.NewNRGBA(bounds)
		draw.Draw(frame, bounds, canvas, image.Point{}, draw.Src)
		frames = append(frames, frame)

		if i < len(g.Disposal) {
			switch g.Disposal[i] {
			case gif.DisposalBackground:
				draw.Draw(canvas, p.Bounds(), image.Transparent, image.Point{}, draw.Src)
			case gif.DisposalPrevious:
				canvas = restore
			}
		}
	}
	return frames, nil
}

// Convert scales every image to size and writes it as one record to w.  It
// returns the number of records written.
func Convert(w io.Writer, images []image.Image, size image.Point, scaler xdraw.Scaler) (int, error) {
	cw := container.NewWriter(w)
	dst := image.NewNRGBA(image.Rectangle{Max: size})
	var buf []byte
	for i, img := range images {
		if img.Bounds().Size() == size {
			draw.Draw(dst, dst.Rect, img, img.Bounds().Min, draw.Src)
		} else {
			scaler.Scale(dst, dst.Rect, img, img.Bounds(), xdraw.Src, nil)
		}
		var err error
		buf, err = qoi.EncodeImage(buf[:0], dst)
		if err != nil {
			return cw.Count(), fmt.Errorf("frame %d: %w", i, err)
		}
		if err := cw.WriteRecord(buf); err != nil {
			return cw.Count(), err
		}
	}
	return cw.Count(), nil
}
