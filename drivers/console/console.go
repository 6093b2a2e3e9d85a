// Package console prints text on a display surface.  It is used once
// playback can no longer start, to put the reason on screen.
package console

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"strings"
	"time"
	"unicode"

	"github.com/embeddedgo/display/pix"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/fbplay/fbplay/drivers/display"
)

const margin = 8

var (
	Foreground color.Color = color.White
	Background color.Color = color.Black
)

// Console writes lines of text top to bottom.
type Console struct {
	surface display.Surface
	area    *pix.Area
	tw      *pix.TextWriter
}

func NewConsole(s display.Surface) *Console {
	disp := pix.NewDisplay(display.NewPixDriver(s))
	a := disp.NewArea(disp.Bounds())
	tw := a.NewTextWriter(Face)
	tw.SetColor(Foreground)
	tw.Pos = image.Pt(margin, margin)
	return &Console{surface: s, area: a, tw: tw}
}

// Clear fills the surface with the background color and moves the cursor to
// the top.
func (c *Console) Clear() {
	c.surface.Fill(Background)
	c.tw.Pos = image.Pt(margin, margin)
}

// Println prints s followed by a newline.  Runes the font lacks are printed
// as '?' after accents are stripped.
func (c *Console) Println(s string) {
	c.tw.WriteString(printable(s) + "\n")
	c.tw.Pos.X = margin
	c.area.Flush()
}

func (c *Console) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		c.Println(line)
	}
	return len(p), nil
}

// printable strips diacritics so that "é" prints as "e" and replaces what is
// left outside the font with '?'.
func printable(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Map(func(r rune) rune {
			if r < firstRune || r > lastRune {
				return '?'
			}
			return r
		}),
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Fatal clears the surface, prints err and blocks for stall or until ctx is
// done, so the message can be read before the process exits.
func Fatal(ctx context.Context, s display.Surface, err error, stall time.Duration) {
	c := NewConsole(s)
	c.Clear()
	c.Println("FATAL ERROR!")
	c.Println("")
	for _, line := range strings.Split(err.Error(), ": ") {
		c.Println(line)
	}
	c.Println("")
	if stall > 0 {
		c.Println(fmt.Sprintf("exiting in %v", stall))
		t := time.NewTimer(stall)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
		}
	}
}
