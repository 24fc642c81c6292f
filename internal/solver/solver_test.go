package solver

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/peg"
)

func fb(colored, white int) *game.Feedback {
	return &game.Feedback{Colored: colored, White: white}
}

// primed returns a 4-slot solver whose previous guess was a full row of c.
func primed(c peg.Color) *Solver {
	s := New(WithSeed(1))
	s.reset(4)
	s.st.Prev = s.probeRow(c)
	s.seen[s.st.Prev.Key()] = true
	return s
}

func TestPhaseFor(t *testing.T) {
	st := &State{Prev: peg.Repeat(peg.Red, 4)}
	tests := []struct {
		name string
		st   *State
		last *game.Feedback
		want Phase
	}{
		{name: "no previous guess", st: &State{}, last: fb(1, 0), want: PhaseInitial},
		{name: "no feedback", st: st, last: nil, want: PhaseInitial},
		{name: "nothing scored", st: st, last: fb(0, 0), want: PhaseZeroSignalSweep},
		{name: "some colors", st: st, last: fb(1, 1), want: PhasePartialLock},
		{name: "all colors misplaced", st: st, last: fb(2, 2), want: PhaseFullButUnplaced},
		{name: "all whites", st: st, last: fb(0, 4), want: PhaseFullButUnplaced},
		{name: "solved", st: st, last: fb(4, 0), want: PhaseSolved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PhaseFor(tt.st, 4, tt.last))
		})
	}
	assert.Equal(t, "partial_lock", PhasePartialLock.String())
	assert.Equal(t, "unknown", Phase(42).String())
}

func TestInitialGuessIsSingleColor(t *testing.T) {
	s := New(WithSeed(3))
	g := s.Next(4, nil)
	require.True(t, g.Valid(4))
	assert.True(t, g.SingleColor())
	assert.Equal(t, PhaseInitial, s.Phase())
	assert.True(t, s.Snapshot().Probed[g[0]])
}

func TestSweepAfterZeroFeedback(t *testing.T) {
	// secret red green blue yellow; pink pink pink pink scores nothing.
	s := primed(peg.Pink)
	g := s.Next(4, fb(0, 0))

	assert.Equal(t, PhaseZeroSignalSweep, s.Phase())
	assert.True(t, g.SingleColor())
	assert.NotEqual(t, peg.Pink, g[0])
	assert.Equal(t, peg.Repeat(peg.Yellow, 4), g, "first untried color in alphabet order")

	g = s.Next(4, fb(0, 0))
	assert.Equal(t, peg.Repeat(peg.Green, 4), g)
}

func TestPartialLockGrowsOnlyOnNewCredit(t *testing.T) {
	s := primed(peg.Red) // secret has two reds
	g := s.Next(4, fb(2, 0))
	assert.Equal(t, PhasePartialLock, s.Phase())
	assert.Equal(t, peg.Pattern{peg.Red, peg.Red, peg.Yellow, peg.Yellow}, g)
	assert.Equal(t, peg.Pattern{peg.Red, peg.Red}, s.Snapshot().Locked)

	// yellow adds nothing: locked stays, next color tried is green.
	g = s.Next(4, fb(1, 1))
	assert.Equal(t, peg.Pattern{peg.Red, peg.Red, peg.Green, peg.Green}, g)
	assert.Equal(t, peg.Pattern{peg.Red, peg.Red}, s.Snapshot().Locked)

	// green scores one more peg: green is locked after the reds.
	g = s.Next(4, fb(1, 2))
	assert.Equal(t, peg.Pattern{peg.Red, peg.Red, peg.Green, peg.Blue}, g)
	assert.Equal(t, peg.Pattern{peg.Red, peg.Red, peg.Green}, s.Snapshot().Locked)

	st := s.Snapshot()
	for _, c := range []peg.Color{peg.Red, peg.Yellow, peg.Green, peg.Blue} {
		assert.True(t, st.Probed[c], c.String())
	}
	assert.False(t, st.Probed[peg.Purple])
}

func TestFullButUnplacedShufflesWithoutRepeats(t *testing.T) {
	s := primed(peg.Red)
	s.st.Prev = peg.Pattern{peg.Red, peg.Green, peg.Blue, peg.Yellow}
	s.seen[s.st.Prev.Key()] = true

	seen := map[string]bool{s.st.Prev.Key(): true}
	for i := 0; i < 23; i++ {
		g := s.Next(4, fb(0, 4))
		assert.Equal(t, PhaseFullButUnplaced, s.Phase())
		assert.ElementsMatch(t, []peg.Color{peg.Red, peg.Green, peg.Blue, peg.Yellow}, []peg.Color(g))
		assert.False(t, seen[g.Key()], "arrangement %v repeated", g)
		seen[g.Key()] = true
	}
	assert.Len(t, seen, 24)

	// Every arrangement is used up; the solver still answers.
	g := s.Next(4, fb(0, 4))
	assert.True(t, g.Valid(4))
}

func TestSweepExhaustionFallsBackToShuffle(t *testing.T) {
	s := primed(peg.Pink)
	for _, c := range peg.Alphabet() {
		s.st.Probed[c] = true
	}
	g := s.Next(4, fb(0, 0))
	assert.Equal(t, PhaseFullButUnplaced, s.Phase())
	assert.True(t, g.Valid(4))
}

func TestPartialLockExhaustionFallsBackToShuffle(t *testing.T) {
	s := primed(peg.Red)
	for _, c := range peg.Alphabet() {
		s.st.Probed[c] = true
	}
	s.st.Locked = peg.Pattern{peg.Red, peg.Red}
	s.st.Probe = peg.Pink
	s.st.Prev = peg.Pattern{peg.Red, peg.Red, peg.Pink, peg.Pink}
	s.seen[s.st.Prev.Key()] = true

	g := s.Next(4, fb(1, 2))
	assert.Equal(t, PhaseFullButUnplaced, s.Phase())
	assert.Equal(t, peg.Pattern{peg.Red, peg.Red, peg.Pink}, s.Snapshot().Locked, "pink still claims its peg")
	assert.ElementsMatch(t, []peg.Color{peg.Red, peg.Red, peg.Pink, peg.Pink}, []peg.Color(g))
	assert.NotEqual(t, peg.Pattern{peg.Red, peg.Red, peg.Pink, peg.Pink}, g)
}

func TestSlotChangeStartsNewGame(t *testing.T) {
	s := primed(peg.Red)
	s.Next(4, fb(2, 0))
	require.NotEmpty(t, s.Snapshot().Locked)

	g := s.Next(6, fb(2, 0))
	assert.Equal(t, PhaseInitial, s.Phase())
	require.Len(t, g, 6)
	assert.True(t, g.SingleColor())

	st := s.Snapshot()
	assert.Empty(t, st.Locked)
	assert.Equal(t, 1, st.FullRows.Len())
	tried := 0
	for _, c := range peg.Alphabet() {
		if st.Probed[c] {
			tried++
		}
	}
	assert.Equal(t, 1, tried)
}

func TestSolvedRepeatsGuess(t *testing.T) {
	s := primed(peg.Blue)
	g := s.Next(4, fb(4, 0))
	assert.Equal(t, PhaseSolved, s.Phase())
	assert.Equal(t, peg.Repeat(peg.Blue, 4), g)
}

func TestNilFeedbackStartsNewGame(t *testing.T) {
	s := primed(peg.Pink)
	s.Next(4, fb(0, 0))
	s.Next(4, nil)
	st := s.Snapshot()
	assert.Equal(t, 1, st.FullRows.Len())
	assert.Empty(t, st.Locked)
}

func TestGuessTokens(t *testing.T) {
	s := New(WithSeed(9))
	tokens, err := s.Guess(context.Background(), 5, nil)
	require.NoError(t, err)
	p, err := peg.ParsePattern(tokens, 5)
	require.NoError(t, err)
	assert.True(t, p.SingleColor())
}

func TestPermutations(t *testing.T) {
	assert.Len(t, permutations(peg.Pattern{peg.Red, peg.Green, peg.Blue, peg.Yellow}), 24)
	assert.Len(t, permutations(peg.Pattern{peg.Red, peg.Red, peg.Blue, peg.Yellow}), 12)
	assert.Len(t, permutations(peg.Repeat(peg.Pink, 4)), 1)

	keys := map[string]bool{}
	for _, p := range permutations(peg.Pattern{peg.Red, peg.Red, peg.Blue, peg.Blue}) {
		keys[p.Key()] = true
	}
	assert.Len(t, keys, 6)
}

// play runs a solver game against secret and reports the outcome and rows.
func play(t *testing.T, s *Solver, secret peg.Pattern, rows int) (game.Result, []peg.Pattern) {
	t.Helper()
	var emitted []peg.Pattern
	breaker := game.GuessFunc(func(ctx context.Context, slots int, last *game.Feedback) ([]string, error) {
		g := s.Next(slots, last)
		require.True(t, g.Valid(slots), "malformed guess %v", g)
		emitted = append(emitted, g)
		return g.Tokens(), nil
	})
	maker := game.PatternFunc(func(context.Context, int) ([]string, error) { return secret.Tokens(), nil })
	res, err := game.Run(context.Background(), game.Config{Rows: rows, Slots: len(secret)}, maker, breaker, nil)
	require.NoError(t, err)
	return res, emitted
}

func TestSolverGames(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 8))
	for n := 0; n < 200; n++ {
		slots := 1 + rng.IntN(6)
		secret := make(peg.Pattern, slots)
		for i := range secret {
			secret[i] = peg.Color(rng.IntN(peg.NumColors))
		}
		res, emitted := play(t, New(WithSeed(uint64(n))), secret, game.MaxRows)
		require.True(t, res.Outcome.Finished())

		// Single-color rows never repeat within a game.
		seen := map[string]bool{}
		for _, g := range emitted {
			if !g.SingleColor() {
				continue
			}
			if res.Outcome == game.OutcomeGuesserWon && g.Equal(secret) {
				continue
			}
			require.False(t, seen[g.Key()], "row %v repeated for secret %v", g, secret)
			seen[g.Key()] = true
		}
	}
}

func TestSolverWinsDistinctSecrets(t *testing.T) {
	secrets := []peg.Pattern{
		{peg.Red, peg.Green, peg.Blue, peg.Yellow},
		{peg.Pink, peg.Purple, peg.Yellow, peg.Green},
		{peg.Blue, peg.Pink, peg.Red, peg.Purple},
	}
	for i, secret := range secrets {
		t.Run(secret.String(), func(t *testing.T) {
			res, emitted := play(t, New(WithSeed(uint64(i))), secret, game.MaxRows)
			assert.Equal(t, game.OutcomeGuesserWon, res.Outcome)
			assert.LessOrEqual(t, len(emitted), 30)
		})
	}
}

func TestSolverSingleColorSecret(t *testing.T) {
	secret := peg.Repeat(peg.Purple, 4)
	res, emitted := play(t, New(WithSeed(2)), secret, 12)
	assert.Equal(t, game.OutcomeGuesserWon, res.Outcome)
	assert.LessOrEqual(t, len(emitted), peg.NumColors)
}
