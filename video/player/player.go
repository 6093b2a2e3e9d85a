// Package player plays a frame container on a display surface using every
// available core.
//
// Build decodes the whole container once and cuts each frame into one band
// per core.  Play then starts one worker per core.  Each worker copies its
// band of the current frame into its own rows of the framebuffer and meets
// the others at a barrier before moving on to the next frame.  After the
// last frame playback wraps around to the first.
package player

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"sync"
	"time"

	"github.com/fbplay/fbplay/cpu"
	"github.com/fbplay/fbplay/debug"
	"github.com/fbplay/fbplay/drivers/display"
	"github.com/fbplay/fbplay/drivers/mp"
	"github.com/fbplay/fbplay/metrics"
	"github.com/fbplay/fbplay/video/band"
	"github.com/fbplay/fbplay/video/barrier"
	"github.com/fbplay/fbplay/video/container"
)

var (
	ErrNoFrames  = errors.New("player: no frames decoded")
	ErrNoCores   = errors.New("player: no cores")
	ErrNoSurface = errors.New("player: no display surface")
	ErrOverlap   = errors.New("player: core destinations overlap")
)

// Options tune Build.  The zero value is usable.
type Options struct {
	Log     *slog.Logger
	Metrics *metrics.Metrics
	Arena   *band.Arena
}

// Context is everything the workers share.  It does not change once Build
// returns.
type Context struct {
	Cores     int
	Frames    int
	Geometry  band.Geometry
	Stats     container.Stats
	Counter   *barrier.Counter
	Timelines []band.Timeline

	surface display.Surface
	dst     [][]byte
	barrier *barrier.Barrier
	log     *slog.Logger
}

// Cores returns the number of cores to play on: the enabled processors of
// svc, at most limit if limit is positive.
func Cores(svc mp.Service, limit int) (int, error) {
	n, err := svc.Count()
	if err != nil {
		return 0, err
	}
	cores := n.Enabled
	if limit > 0 {
		cores = min(cores, limit)
	}
	if cores < 1 {
		return 0, ErrNoCores
	}
	return cores, nil
}

// Build decodes raw and partitions its frames for cores cores presenting on
// surface.  Records that fail to decode are skipped.
func Build(raw []byte, surface display.Surface, cores int, opts Options) (*Context, error) {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	if surface == nil {
		return nil, ErrNoSurface
	}
	if cores < 1 {
		return nil, ErrNoCores
	}

	mode := surface.Mode()
	g := band.Geometry{Width: mode.Width, Height: mode.Height, Stride: mode.Stride, Cores: cores}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	fb := surface.Framebuffer()
	if len(fb) < g.Height*g.StrideBytes() {
		return nil, fmt.Errorf("%w: framebuffer has %d bytes, mode %v needs %d", band.ErrInvalidParameter, len(fb), mode, g.Height*g.StrideBytes())
	}

	b, err := band.NewBuilder(g, opts.Arena)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	stats, err := container.NewDecoder(log).Walk(raw, b.Add)
	if err != nil {
		return nil, fmt.Errorf("partition frame %d: %w", b.Frames(), err)
	}
	elapsed := time.Since(start)
	if b.Frames() == 0 {
		return nil, fmt.Errorf("%w: %d records, %d dropped", ErrNoFrames, stats.Records, stats.Dropped)
	}

	ctx := &Context{
		Cores:     cores,
		Frames:    b.Frames(),
		Geometry:  g,
		Stats:     stats,
		Counter:   new(barrier.Counter),
		Timelines: b.Timelines(),
		surface:   surface,
		log:       log,
	}
	ctx.barrier, err = barrier.New(ctx.Counter, cores, ctx.Frames)
	if err != nil {
		return nil, err
	}
	ctx.dst, err = destinations(fb, g)
	if err != nil {
		return nil, err
	}

	log.Info("build done", "frames", ctx.Frames, "records", stats.Records,
		"dropped", stats.Dropped, "truncated", stats.Truncated, "cores", cores,
		"mode", mode, "bands", b.Arena().Size(), "took", elapsed)
	if m := opts.Metrics; m != nil {
		m.ObserveBuild(metrics.Build{
			Stats:     stats,
			Frames:    ctx.Frames,
			Cores:     cores,
			BandBytes: b.Arena().Size(),
			Seconds:   elapsed.Seconds(),
		})
		m.WatchRounds(func() uint64 { return ctx.Counter.Round(cores) })
	}
	return ctx, nil
}

// destinations slices fb into the rows of every core and verifies that no
// two of them share a byte.
func destinations(fb []byte, g band.Geometry) ([][]byte, error) {
	sb := g.StrideBytes()
	dst := make([][]byte, g.Cores)
	end := 0
	for core := range dst {
		s := g.Span(core)
		lo, hi := s.Start*sb, s.End*sb
		if lo < end || hi > len(fb) {
			return nil, fmt.Errorf("%w: core %d writes [%d, %d)", ErrOverlap, core, lo, hi)
		}
		dst[core] = fb[lo:hi:hi]
		end = hi
	}
	return dst, nil
}

// Worker is the playback loop of one core.
type Worker struct {
	ID       int
	Dst      []byte
	Stride   int // bytes
	Timeline *band.Timeline
	Frames   int
	Counter  *barrier.Counter

	barrier *barrier.Barrier
}

// Worker returns the worker for core id.
func (c *Context) Worker(id int) *Worker {
	w := &Worker{
		ID:       id,
		Dst:      c.dst[id],
		Stride:   c.Geometry.StrideBytes(),
		Timeline: &c.Timelines[id],
		Frames:   c.Frames,
		Counter:  c.Counter,
		barrier:  c.barrier,
	}
	debug.Assertf(len(w.Dst) == c.Geometry.Size(id), "core %d destination is %d bytes, band %d", id, len(w.Dst), c.Geometry.Size(id))
	return w
}

// Present copies the band of frame into the worker's rows.
func (w *Worker) Present(frame int) {
	cpu.CopyToDevice(w.Dst, w.Timeline.Band(frame))
}

// Run presents frames in lockstep with the other workers until the counter
// is stopped.
func (w *Worker) Run() {
	w.barrier.Run(w.Present)
}

// Stepper returns the loop of w as single steps.
func (w *Worker) Stepper() *barrier.Stepper {
	return w.barrier.Stepper(w.Present)
}

// Stop makes all workers return.  The display keeps whatever was presented
// last.
func (c *Context) Stop() { c.Counter.Stop() }

// Play clears the surface, runs a worker on every application processor of
// svc with an id below c.Cores and then runs worker 0 on the calling
// processor.  It returns once the context is stopped and every worker has
// left its loop.
func Play(svc mp.Service, c *Context) error {
	n, err := svc.Count()
	if err != nil {
		return err
	}
	if n.Enabled < c.Cores {
		return fmt.Errorf("%w: %d enabled processors for %d cores", ErrNoCores, n.Enabled, c.Cores)
	}

	c.surface.Fill(color.Black)

	var aps sync.WaitGroup
	aps.Add(c.Cores - 1)
	err = svc.StartupAllAPs(func(id int) {
		if id >= c.Cores {
			return
		}
		defer aps.Done()
		c.Worker(id).Run()
	})
	if err != nil {
		return fmt.Errorf("start application processors: %w", err)
	}
	c.log.Info("playing", "cores", c.Cores, "frames", c.Frames, "primary", svc.WhoAmI())
	c.Worker(0).Run()
	aps.Wait()
	return nil
}
