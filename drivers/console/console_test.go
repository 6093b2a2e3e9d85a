package console_test

import (
	"context"
	"errors"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fbplay/fbplay/drivers/console"
	fbtesting "github.com/fbplay/fbplay/testing"
)

func lit(t *testing.T, row []byte) int {
	t.Helper()
	n := 0
	for x := 0; x+3 < len(row); x += 4 {
		if row[x] != 0 || row[x+1] != 0 || row[x+2] != 0 {
			n++
		}
	}
	return n
}

func TestGlyphs(t *testing.T) {
	for r := 'A'; r <= 'Z'; r++ {
		img, origin, adv := console.Face.Subfonts[0].Data.Glyph(int(r - 0x20))
		require.NotNil(t, img, "%c", r)
		require.Equal(t, 7, adv)
		require.True(t, origin.In(img.Bounds().Inset(-1)), "%c origin %v outside %v", r, origin, img.Bounds())
	}
}

func TestFatal(t *testing.T) {
	m := fbtesting.Memory(t, 320, 120, 320)
	m.Fill(color.RGBA{0, 0, 0xff, 0xff})

	start := time.Now()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	console.Fatal(ctx, m, errors.New("player: no frames"), time.Minute)
	require.Less(t, time.Since(start), 10*time.Second)

	total := 0
	for y := range 120 {
		row := m.Row(y)
		for x := 0; x < len(row); x += 4 {
			// The background was cleared, only white text remains.
			if row[x] != 0 {
				require.Equal(t, row[x], row[x+2], "pixel %d,%d not grey", x/4, y)
			}
		}
		total += lit(t, row)
	}
	require.Positive(t, total)
	require.Zero(t, lit(t, m.Row(119)))
}
