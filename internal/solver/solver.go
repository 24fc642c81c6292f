// internal/solver/solver.go
//
// Adaptive computer guesser.
//
// The solver learns only from aggregate feedback (peg totals, no positions):
//   - Single-color rows measure how many slots a color fills.
//   - Colors that score are locked at the front of the row; the rest of the
//     row probes the next untried color.
//   - Once every slot is accounted for, the row is reshuffled until the
//     arrangement is right or the game runs out of rows.
//
// When a row mixes locked colors with a probe, the probe color claims any new
// credit, even if a locked duplicate earned it. The solver is a bounded
// heuristic, not a search over the candidate space.
package solver

import (
	"context"
	"math/rand/v2"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/peg"
)

// State is the knowledge a solver accumulates during one game.
type State struct {
	Prev     peg.Pattern         // last emitted guess; nil before the first
	Probed   [peg.NumColors]bool // colors used as probes or locked fillers
	Locked   peg.Pattern         // colors believed present, front of the row
	FullRows *game.History       // single-color rows already tried
	Probe    peg.Color           // the most recent probe color
}

// Solver produces guesses for one game at a time. Not safe for concurrent use.
type Solver struct {
	rng   *rand.Rand
	slots int
	st    State
	seen  map[string]bool // every arrangement emitted this game
	phase Phase
}

// Option configures a Solver.
type Option func(*Solver)

// WithRand sets the random source (color of the first probe, shuffles).
func WithRand(r *rand.Rand) Option {
	return func(s *Solver) { s.rng = r }
}

// WithSeed seeds a deterministic random source.
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// New returns a solver ready for its first game.
func New(opts ...Option) *Solver {
	s := &Solver{}
	for _, o := range opts {
		o(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	s.reset(0)
	return s
}

// Guess implements game.GuessSource.
func (s *Solver) Guess(_ context.Context, slots int, last *game.Feedback) ([]string, error) {
	return s.Next(slots, last).Tokens(), nil
}

// Phase reports the phase that produced the latest guess.
func (s *Solver) Phase() Phase { return s.phase }

// Snapshot returns a copy of the current state.
func (s *Solver) Snapshot() State {
	st := s.st
	st.Prev = s.st.Prev.Clone()
	st.Locked = s.st.Locked.Clone()
	st.FullRows = game.NewHistory()
	for _, r := range s.st.FullRows.All() {
		st.FullRows.Append(r)
	}
	return st
}

// Next returns the next guess. last is the feedback of the previous guess;
// nil starts a new game.
func (s *Solver) Next(slots int, last *game.Feedback) peg.Pattern {
	if last == nil || slots != s.slots {
		s.reset(slots)
	}

	phase := PhaseFor(&s.st, slots, last)
	var next peg.Pattern
	switch phase {
	case PhaseInitial:
		next = s.initial()
	case PhaseZeroSignalSweep:
		next = s.sweep()
	case PhasePartialLock:
		next = s.lock(last.Total())
	case PhaseFullButUnplaced:
		next = s.shuffle()
	case PhaseSolved:
		next = s.st.Prev.Clone()
	}
	if next == nil {
		// Nothing left to probe; rearrange what we have.
		phase = PhaseFullButUnplaced
		next = s.shuffle()
	}

	s.phase = phase
	s.st.Prev = next.Clone()
	s.seen[next.Key()] = true
	log.Debug().
		Str("phase", phase.String()).
		Strs("guess", next.Tokens()).
		Int("locked", len(s.st.Locked)).
		Msg("solver move")
	return next
}

func (s *Solver) reset(slots int) {
	s.slots = slots
	s.st = State{FullRows: game.NewHistory()}
	s.seen = make(map[string]bool)
	s.phase = PhaseInitial
}

// initial guesses one random color across the whole row.
func (s *Solver) initial() peg.Pattern {
	c := peg.Alphabet()[s.rng.IntN(peg.NumColors)]
	return s.probeRow(c)
}

// sweep tries the next untried color as a full row; nil when none is left.
func (s *Solver) sweep() peg.Pattern {
	for _, c := range peg.Alphabet() {
		if s.st.Probed[c] || s.st.FullRows.Contains(peg.Repeat(c, s.slots)) {
			continue
		}
		return s.probeRow(c)
	}
	return nil
}

func (s *Solver) probeRow(c peg.Color) peg.Pattern {
	row := peg.Repeat(c, s.slots)
	s.st.Probed[c] = true
	s.st.Probe = c
	s.st.FullRows.Append(row)
	return row
}

// lock credits new pegs to the latest probe color, then fills the rest of
// the row with the next untried color. nil when no untried color is left.
func (s *Solver) lock(total int) peg.Pattern {
	if gained := total - len(s.st.Locked); gained > 0 {
		for i := 0; i < gained && len(s.st.Locked) < s.slots; i++ {
			s.st.Locked = append(s.st.Locked, s.st.Probe)
		}
	}
	s.st.Probed[s.st.Probe] = true

	fill, ok := s.nextUnprobed()
	if !ok {
		return nil
	}
	s.st.Probed[fill] = true
	s.st.Probe = fill

	row := make(peg.Pattern, 0, s.slots)
	row = append(row, s.st.Locked...)
	for len(row) < s.slots {
		row = append(row, fill)
	}
	return row
}

func (s *Solver) nextUnprobed() (peg.Color, bool) {
	for _, c := range peg.Alphabet() {
		if !s.st.Probed[c] {
			return c, true
		}
	}
	return 0, false
}

// shuffle rearranges the previous guess, preferring arrangements not yet tried.
func (s *Solver) shuffle() peg.Pattern {
	prev := s.st.Prev.Clone()
	if len(prev) != s.slots {
		// No usable previous row (slot change); start over with a probe.
		return s.initial()
	}
	var fresh []peg.Pattern
	for _, p := range permutations(prev) {
		if !s.seen[p.Key()] {
			fresh = append(fresh, p)
		}
	}
	if len(fresh) > 0 {
		return fresh[s.rng.IntN(len(fresh))]
	}
	s.rng.Shuffle(len(prev), func(i, j int) { prev[i], prev[j] = prev[j], prev[i] })
	return prev
}
