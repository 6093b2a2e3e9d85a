package esp

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/fbplay/fbplay/drivers/volume"
)

var (
	flags = flag.NewFlagSet("esp", flag.ExitOnError)

	output = flags.String("o", "esp.img", "output image `file`")
	size   = flags.Int64("size", volume.DefaultImageSize>>20, "image size in MiB")
)

const usageString = `Creates a FAT32 volume image holding the given files.

Usage: %s [flags] <path=file>...

Each argument stores the host file at path inside the volume, for example
1080p/video.qois=clip.qois.  A bare file name is stored under its base name.

`

func usage() {
	fmt.Fprintf(flags.Output(), usageString, "esp")
	flags.PrintDefaults()
}

func Main(args []string) {
	flags.Usage = usage
	flags.Parse(args[1:])

	if flags.NArg() < 1 {
		flags.Usage()
		os.Exit(1)
	}

	files, err := Files(flags.Args(), os.ReadFile)
	if err != nil {
		log.Fatalln(err)
	}
	if err := volume.CreateImage(*output, *size<<20, files); err != nil {
		log.Fatalln(err)
	}
	log.Printf("%s: %d files", *output, len(files))
}

// Files resolves path=file arguments using read.
func Files(args []string, read func(string) ([]byte, error)) (map[string][]byte, error) {
	files := make(map[string][]byte, len(args))
	for _, arg := range args {
		dst, src, ok := strings.Cut(arg, "=")
		if !ok {
			src = arg
			dst = arg[strings.LastIndexAny(arg, `/\`)+1:]
		}
		dst = volume.Clean(dst)
		if dst == "." || src == "" {
			return nil, fmt.Errorf("invalid argument %q", arg)
		}
		if _, dup := files[dst]; dup {
			return nil, fmt.Errorf("%s given twice", dst)
		}
		data, err := read(src)
		if err != nil {
			return nil, err
		}
		files[dst] = data
	}
	return files, nil
}
