package band

import (
	"github.com/fbplay/fbplay/debug"
	"github.com/fbplay/fbplay/video/container"
)

// Timeline is the ordered list of bands one core presents.
type Timeline struct {
	bands [][]byte
}

// Len returns the number of frames in t.
func (t *Timeline) Len() int { return len(t.bands) }

// Band returns the band of frame i.
func (t *Timeline) Band(i int) []byte { return t.bands[i] }

// Builder partitions frames into per-core timelines.
type Builder struct {
	geom      Geometry
	arena     *Arena
	timelines []Timeline
	scratch   [][]byte
}

// NewBuilder returns a builder for g.  A nil arena allocates a default one.
func NewBuilder(g Geometry, arena *Arena) (*Builder, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if arena == nil {
		arena = NewArena(0)
	}
	return &Builder{
		geom:      g,
		arena:     arena,
		timelines: make([]Timeline, g.Cores),
		scratch:   make([][]byte, g.Cores),
	}, nil
}

// Add partitions f and appends one band to every timeline.  On error no
// timeline is modified.
func (b *Builder) Add(f container.Frame) error {
	if err := b.geom.Check(f); err != nil {
		return err
	}
	for core := range b.scratch {
		band := b.arena.Alloc(b.geom.Size(core))
		if err := b.geom.Fill(band, f, core); err != nil {
			return err
		}
		b.scratch[core] = band
	}
	for core, band := range b.scratch {
		b.timelines[core].bands = append(b.timelines[core].bands, band)
	}
	return nil
}

// Frames returns the number of frames added.
func (b *Builder) Frames() int { return b.timelines[0].Len() }

// Geometry returns the geometry b partitions for.
func (b *Builder) Geometry() Geometry { return b.geom }

// Arena returns the arena holding the bands.
func (b *Builder) Arena() *Arena { return b.arena }

// Timelines returns the per-core timelines, indexed by core.
func (b *Builder) Timelines() []Timeline {
	if debug.Enabled {
		for i := range b.timelines {
			debug.Assertf(b.timelines[i].Len() == b.Frames(), "timeline %d has %d frames, want %d", i, b.timelines[i].Len(), b.Frames())
		}
	}
	return b.timelines
}
