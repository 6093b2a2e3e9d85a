package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/fbplay/fbplay/tools/esp"
	"github.com/fbplay/fbplay/tools/inspect"
	"github.com/fbplay/fbplay/tools/mkqois"
	"github.com/fbplay/fbplay/tools/preview"
)

const usageString = `fbtool prepares and checks videos for fbplay.

Usage:

	%s <command> [arguments]

The commands are:

	mkqois   convert images into a QOI frame container
	inspect  list the records of a container
	preview  render a container as an animated GIF
	esp      build a FAT32 volume image for the player
`

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), usageString, os.Args[0])
	flag.PrintDefaults()
}

func main() {
	log.Default().SetFlags(0)
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	switch flag.Arg(0) {
	case "mkqois":
		mkqois.Main(flag.Args())
	case "inspect":
		inspect.Main(flag.Args())
	case "preview":
		preview.Main(flag.Args())
	case "esp":
		esp.Main(flag.Args())
	default:
		fmt.Fprintf(flag.CommandLine.Output(), "unknown command: %s\n", flag.Arg(0))
		flag.Usage()
		os.Exit(1)
	}
}
