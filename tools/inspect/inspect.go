package inspect

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/fbplay/fbplay/qoi"
	"github.com/fbplay/fbplay/video/container"
)

var (
	flags = flag.NewFlagSet("inspect", flag.ExitOnError)

	quiet = flags.Bool("q", false, "only print the summary")
)

const usageString = `Lists the records of a QOI frame container.

Usage: %s [flags] <video.qois>

Every record is decoded.  Records that fail are marked DROP together with
their CRC-8, matching the log output of the player.

`

func usage() {
	fmt.Fprintf(flags.Output(), usageString, "inspect")
	flags.PrintDefaults()
}

func Main(args []string) {
	flags.Usage = usage
	flags.Parse(args[1:])

	if flags.NArg() != 1 {
		flags.Usage()
		os.Exit(1)
	}

	raw, err := os.ReadFile(flags.Arg(0))
	if err != nil {
		log.Fatalln(err)
	}
	var listing io.Writer = os.Stdout
	if *quiet {
		listing = io.Discard
	}
	stats, err := Inspect(listing, raw)
	if err != nil {
		log.Fatalln(err)
	}
	Summary(os.Stdout, stats)
	if stats.Decoded == 0 {
		os.Exit(2)
	}
}

// Inspect writes one line per record of raw to w and returns the decoder
// statistics.
func Inspect(w io.Writer, raw []byte) (container.Stats, error) {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tOFFSET\tLENGTH\tSIZE\tCHANNELS\tSTATUS")

	dec := container.NewDecoder(slog.New(slog.DiscardHandler))
	s := container.NewScanner(raw)
	for {
		rec, ok := s.Next()
		if !ok {
			break
		}
		size, channels := "-", "-"
		if h, err := qoi.DecodeHeader(rec.Data); err == nil {
			size = fmt.Sprintf("%dx%d", h.Width, h.Height)
			channels = fmt.Sprint(int(h.Channels))
		}
		status := "ok"
		if _, err := dec.Decode(rec); err != nil {
			var drop *container.Drop
			if errors.As(err, &drop) {
				status = fmt.Sprintf("DROP crc8=%#02x %v", drop.CRC, drop.Err)
			}
		}
		fmt.Fprintf(tw, "%d\t%d\t%d\t%s\t%s\t%s\n", rec.Index, rec.Offset, len(rec.Data), size, channels, status)
	}
	stats := dec.Stats()
	stats.Truncated = s.Truncated()
	if stats.Truncated {
		fmt.Fprintf(tw, "-\t%d\t%d\t-\t-\tTRUNCATED\n", s.Offset(), len(raw)-s.Offset())
	}
	return stats, tw.Flush()
}

// Summary writes a one line summary of stats to w.
func Summary(w io.Writer, stats container.Stats) {
	fmt.Fprintf(w, "%d records, %d decoded, %d dropped", stats.Records, stats.Decoded, stats.Dropped)
	if stats.Truncated {
		fmt.Fprint(w, ", truncated")
	}
	fmt.Fprintln(w)
}
