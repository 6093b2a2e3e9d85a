package preview

import (
	"bufio"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"log"
	"os"

	"github.com/ericpauley/go-quantize/quantize"

	"github.com/fbplay/fbplay/qoi"
	"github.com/fbplay/fbplay/video/container"
)

var (
	flags = flag.NewFlagSet("preview", flag.ExitOnError)

	output = flags.String("o", "preview.gif", "output `file`")
	delay  = flags.Int("delay", 4, "frame delay in 100ths of a second")
	colors = flags.Int("colors", 256, "palette size per frame, at most 256")
	limit  = flags.Int("n", 0, "stop after `n` frames, 0 for all")
	dither = flags.Bool("dither", true, "apply Floyd-Steinberg dithering")
)

const usageString = `Renders a QOI frame container as an animated GIF.

Usage: %s [flags] <video.qois>

`

func usage() {
	fmt.Fprintf(flags.Output(), usageString, "preview")
	flags.PrintDefaults()
}

func Main(args []string) {
	flags.Usage = usage
	flags.Parse(args[1:])

	if flags.NArg() != 1 {
		flags.Usage()
		os.Exit(1)
	}

	in, err := os.Open(flags.Arg(0))
	if err != nil {
		log.Fatalln(err)
	}
	defer in.Close()

	g, stats, err := Render(bufio.NewReader(in), Options{
		Delay:  *delay,
		Colors: *colors,
		Limit:  *limit,
		Dither: *dither,
	})
	if err != nil {
		log.Fatalln(err)
	}
	if len(g.Image) == 0 {
		log.Fatalln("no decodable frames")
	}

	out, err := os.Create(*output)
	if err != nil {
		log.Fatalln(err)
	}
	err = gif.EncodeAll(out, g)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		log.Fatalln(err)
	}
	log.Printf("%s: %d frames, %d records, %d dropped", *output, len(g.Image), stats.Records, stats.Dropped)
}

type Options struct {
	Delay  int
	Colors int
	Limit  int
	Dither bool
}

type Stats struct {
	Records int
	Dropped int
}

// Render reads records from r and converts every decodable frame into a
// paletted GIF frame.  The canvas is the size of the first frame; later frames
// of a different size are drawn at the top left corner.
func Render(r io.Reader, opts Options) (*gif.GIF, Stats, error) {
	if opts.Colors <= 0 || opts.Colors > 256 {
		opts.Colors = 256
	}
	var (
		g     gif.GIF
		stats Stats
		buf   []byte
		q     = quantize.MedianCutQuantizer{}
		cr    = container.NewReader(r)
	)
	for opts.Limit == 0 || len(g.Image) < opts.Limit {
		rec, more, err := cr.Next(buf)
		if err != nil {
			return &g, stats, err
		}
		if !more {
			break
		}
		buf = rec
		stats.Records++

		img, err := qoi.DecodeImage(rec)
		if err != nil {
			stats.Dropped++
			log.Printf("record %d: %v", cr.Index()-1, err)
			continue
		}
		if len(g.Image) == 0 {
			g.Config = image.Config{Width: img.Rect.Dx(), Height: img.Rect.Dy()}
		}

		bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
		p := q.Quantize(make(color.Palette, 0, opts.Colors), img)
		if len(p) == 0 {
			p = color.Palette{color.Black}
		}
		frame := image.NewPaletted(bounds, p)
		var drawer draw.Drawer = draw.Src
		if opts.Dither {
			drawer = draw.FloydSteinberg
		}
		drawer.Draw(frame, bounds, img, image.Point{})

		g.Image = append(g.Image, frame)
		g.Delay = append(g.Delay, opts.Delay)
		g.Disposal = append(g.Disposal, gif.DisposalNone)
	}
	return &g, stats, nil
}
