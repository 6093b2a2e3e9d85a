// Package mp starts and identifies the processors that run playback workers.
//
// Processor 0 is the primary, the one that called into the player.  The
// others are application processors (APs) numbered 1 to Enabled-1.
package mp

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/shirou/gopsutil/v3/cpu"
)

var (
	ErrNoProcessors = errors.New("mp: no enabled processors")
	ErrStarted      = errors.New("mp: application processors already started")
)

// Count is the number of processors in the system and how many of them may
// run code.
type Count struct {
	Total   int
	Enabled int
}

// Service is the multiprocessor service the player runs on.
type Service interface {
	Count() (Count, error)

	// WhoAmI returns the id of the calling processor.
	WhoAmI() int

	// StartupAllAPs runs proc once on every application processor and
	// returns without waiting for them.  proc receives the processor id.
	StartupAllAPs(proc func(id int)) error
}

// Options configure a Host.
type Options struct {
	// Pin binds every processor to its own CPU.
	Pin bool

	// Processors overrides the number of enabled processors.  Zero uses the
	// CPUs available to the process.
	Processors int

	Log *slog.Logger
}

// Host implements Service with OS threads.  Each processor is a goroutine
// locked to its thread and, with Options.Pin, bound to one CPU.
type Host struct {
	opts    Options
	log     *slog.Logger
	started atomic.Bool

	mu  sync.Mutex
	ids map[int]int // thread id to processor id
}

func NewHost(opts Options) *Host {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	return &Host{opts: opts, log: log.With("component", "mp"), ids: make(map[int]int)}
}

func (h *Host) Count() (Count, error) {
	enabled := runtime.NumCPU()
	if h.opts.Processors > 0 {
		enabled = h.opts.Processors
	}
	if enabled < 1 {
		return Count{}, ErrNoProcessors
	}
	total, err := cpu.Counts(true)
	if err != nil {
		h.log.Debug("count cpus", "err", err)
	}
	return Count{Total: max(total, enabled), Enabled: enabled}, nil
}

func (h *Host) WhoAmI() int {
	tid, ok := threadID()
	if !ok {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ids[tid]
}

func (h *Host) register(id int) {
	if tid, ok := threadID(); ok {
		h.mu.Lock()
		h.ids[tid] = id
		h.mu.Unlock()
	}
}

func (h *Host) unregister() {
	if tid, ok := threadID(); ok {
		h.mu.Lock()
		delete(h.ids, tid)
		h.mu.Unlock()
	}
}

// bind locks the calling goroutine to its thread and pins the thread to the
// CPU of processor id.
func (h *Host) bind(id int) {
	runtime.LockOSThread()
	h.register(id)
	if !h.opts.Pin {
		return
	}
	cpus, err := allowedCPUs()
	if err != nil || len(cpus) == 0 {
		h.log.Warn("pin processor", "id", id, "err", err)
		return
	}
	c := cpus[id%len(cpus)]
	if err := pinThread(c); err != nil {
		h.log.Warn("pin processor", "id", id, "cpu", c, "err", err)
	}
}

// BindPrimary makes the calling goroutine processor 0.  It stays locked to
// its thread.
func (h *Host) BindPrimary() {
	h.bind(0)
}

func (h *Host) StartupAllAPs(proc func(id int)) error {
	n, err := h.Count()
	if err != nil {
		return err
	}
	if !h.started.CompareAndSwap(false, true) {
		return ErrStarted
	}
	for id := 1; id < n.Enabled; id++ {
		go func() {
			h.bind(id)
			defer h.unregister()
			proc(id)
		}()
	}
	h.log.Debug("started application processors", "count", n.Enabled-1)
	return nil
}

func (c Count) String() string {
	return fmt.Sprintf("%d/%d", c.Enabled, c.Total)
}
