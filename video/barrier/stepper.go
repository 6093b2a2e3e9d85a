package barrier

import "fmt"

// Phase is the next step a Stepper executes.
type Phase int

const (
	PhaseLoad Phase = iota
	PhaseCopy
	PhaseArrive
	PhaseWait
)

func (p Phase) String() string {
	switch p {
	case PhaseLoad:
		return "load"
	case PhaseCopy:
		return "copy"
	case PhaseArrive:
		return "arrive"
	case PhaseWait:
		return "wait"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Stepper runs the loop of Barrier.Run one phase at a time, so a scheduler
// can interleave cores in any order.
type Stepper struct {
	b       *Barrier
	present func(frame int)
	phase   Phase
	round   Round
}

// Stepper returns a stepper for one core.  present is called in PhaseCopy.
func (b *Barrier) Stepper(present func(frame int)) *Stepper {
	return &Stepper{b: b, present: present}
}

// Phase returns the phase the next call to Step executes.
func (s *Stepper) Phase() Phase { return s.phase }

// Round returns the round in progress.  It is valid after PhaseLoad.
func (s *Stepper) Round() Round { return s.round }

// Step executes one phase and reports whether the stepper advanced.  In
// PhaseWait it only advances once the round is complete.
func (s *Stepper) Step() bool {
	switch s.phase {
	case PhaseLoad:
		s.round = s.b.Begin()
		s.phase = PhaseCopy
	case PhaseCopy:
		s.present(s.round.Frame)
		s.phase = PhaseArrive
	case PhaseArrive:
		s.b.Arrive()
		s.phase = PhaseWait
	case PhaseWait:
		if !s.b.Done(s.round) {
			return false
		}
		s.phase = PhaseLoad
	}
	return true
}
