// Package barrier keeps the playback cores in lockstep with a single shared
// counter.
//
// Every core runs the same loop.  It loads the counter c, presents frame
// (c/n) mod frames, increments the counter and spins until the counter
// reaches (c/n+1)·n, which happens once all n cores presented their part of
// the round.  The counter only grows, so no core can observe round r+1 before
// every core finished round r, and no core can run more than one round ahead
// of the slowest.
package barrier

import (
	"errors"
	"sync/atomic"

	"github.com/fbplay/fbplay/cpu"
)

var (
	ErrNoFrames = errors.New("barrier: no frames")
	ErrNoCores  = errors.New("barrier: no cores")
)

// Counter is the shared arrival counter.  It sits on a cache line of its own
// so the cores spinning on it do not contend with unrelated writes.
type Counter struct {
	_    cpu.CacheLinePad
	n    atomic.Uint64
	_    cpu.CacheLinePad
	stop atomic.Bool
	_    cpu.CacheLinePad
}

// Load returns the number of arrivals so far.
func (c *Counter) Load() uint64 { return c.n.Load() }

// Round returns the number of rounds all cores completed.
func (c *Counter) Round(cores int) uint64 { return c.n.Load() / uint64(cores) }

// Stop asks every core to leave the loop at its next check.  The display is
// left as it is.
func (c *Counter) Stop() { c.stop.Store(true) }

// Stopped reports whether Stop was called.
func (c *Counter) Stopped() bool { return c.stop.Load() }

// Round is one pass of the protocol as seen by a single core.
type Round struct {
	Start  uint64 // counter value loaded at the beginning
	Frame  int    // frame to present
	Target uint64 // counter value that completes the round
}

// Number returns the index of the round.
func (r Round) Number(cores int) uint64 { return r.Target/uint64(cores) - 1 }

// Barrier applies the protocol for a fixed number of cores and frames.
type Barrier struct {
	c      *Counter
	cores  uint64
	frames uint64
}

func New(c *Counter, cores, frames int) (*Barrier, error) {
	if cores < 1 {
		return nil, ErrNoCores
	}
	if frames < 1 {
		return nil, ErrNoFrames
	}
	return &Barrier{c: c, cores: uint64(cores), frames: uint64(frames)}, nil
}

// Counter returns the shared counter.
func (b *Barrier) Counter() *Counter { return b.c }

// Begin loads the counter and returns the round it starts.
func (b *Barrier) Begin() Round {
	c := b.c.n.Load()
	r := c / b.cores
	return Round{Start: c, Frame: int(r % b.frames), Target: (r + 1) * b.cores}
}

// Arrive marks the calling core as done with its current round.
func (b *Barrier) Arrive() { b.c.n.Add(1) }

// Done reports whether every core arrived for r.
func (b *Barrier) Done(r Round) bool { return b.c.n.Load() >= r.Target }

// Wait spins until every core arrived for r.  It returns false if the
// counter was stopped first.
func (b *Barrier) Wait(r Round) bool {
	for b.c.n.Load() < r.Target {
		if b.c.stop.Load() {
			return false
		}
	}
	return true
}

// Run executes the protocol until the counter is stopped, calling present
// with the frame index of each round.
func (b *Barrier) Run(present func(frame int)) {
	for !b.c.stop.Load() {
		r := b.Begin()
		present(r.Frame)
		b.Arrive()
		if !b.Wait(r) {
			return
		}
	}
}
