// internal/solver/phase.go
//
// Phases of the adaptive guesser. The phase is never stored: it is derived on
// every call from the solver state and the feedback of the previous guess.
//
//   initial            no previous guess in this game
//   zero_signal_sweep  previous guess scored no pegs at all
//   partial_lock       some but not all colors are accounted for
//   full_but_unplaced  every color is accounted for, some are misplaced
//   solved             previous guess matched exactly (terminal guard)
package solver

import "github.com/robalobadob/mastermind/internal/game"

// Phase is one branch of the solver's state machine.
type Phase int

const (
	PhaseInitial Phase = iota
	PhaseZeroSignalSweep
	PhasePartialLock
	PhaseFullButUnplaced
	PhaseSolved
)

var phaseNames = [...]string{"initial", "zero_signal_sweep", "partial_lock", "full_but_unplaced", "solved"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// PhaseFor derives the phase from the state and the previous feedback.
func PhaseFor(st *State, slots int, last *game.Feedback) Phase {
	if st == nil || st.Prev == nil || last == nil {
		return PhaseInitial
	}
	switch total := last.Total(); {
	case last.Colored >= slots:
		return PhaseSolved
	case total == 0:
		return PhaseZeroSignalSweep
	case total < slots:
		return PhasePartialLock
	default:
		return PhaseFullButUnplaced
	}
}
