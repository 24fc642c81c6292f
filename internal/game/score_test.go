package game

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/mastermind/internal/peg"
)

const (
	Y = peg.Yellow
	G = peg.Green
	R = peg.Red
	B = peg.Blue
	P = peg.Purple
	K = peg.Pink
)

func TestScore(t *testing.T) {
	tests := []struct {
		name   string
		secret peg.Pattern
		guess  peg.Pattern
		want   Feedback
	}{
		{name: "exact", secret: peg.Pattern{R, G, B, Y}, guess: peg.Pattern{R, G, B, Y}, want: Feedback{4, 0}},
		{name: "duplicates all displaced", secret: peg.Pattern{R, R, B, Y}, guess: peg.Pattern{B, Y, R, R}, want: Feedback{0, 4}},
		{name: "no shared colors", secret: peg.Pattern{R, G, B, Y}, guess: peg.Pattern{K, K, K, K}, want: Feedback{0, 0}},
		{name: "single color guess", secret: peg.Pattern{R, R, B, Y}, guess: peg.Pattern{R, R, R, R}, want: Feedback{2, 0}},
		{name: "one exact one displaced", secret: peg.Pattern{R, G, B, Y}, guess: peg.Pattern{R, B, K, K}, want: Feedback{1, 1}},
		{name: "rotation", secret: peg.Pattern{R, G, B, Y}, guess: peg.Pattern{Y, R, G, B}, want: Feedback{0, 4}},
		{name: "guess duplicate consumed once", secret: peg.Pattern{R, G, B, Y}, guess: peg.Pattern{G, G, K, K}, want: Feedback{1, 0}},
		{name: "single slot", secret: peg.Pattern{P}, guess: peg.Pattern{P}, want: Feedback{1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Score(tt.secret, tt.guess)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// An exactly matched guess slot is not consumed, so it can still pay for a
// displaced duplicate in the secret.
func TestScoreOneSidedConsumption(t *testing.T) {
	got, err := Score(peg.Pattern{R, R}, peg.Pattern{R, G})
	require.NoError(t, err)
	assert.Equal(t, Feedback{Colored: 1, White: 1}, got)

	got, err = Score(peg.Pattern{R, R, B, Y}, peg.Pattern{R, G, G, G})
	require.NoError(t, err)
	assert.Equal(t, Feedback{Colored: 1, White: 1}, got)
}

func TestScoreLengthMismatch(t *testing.T) {
	_, err := Score(peg.Pattern{R, G, B, Y}, peg.Pattern{R, G, B})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLengthMismatch))
}

func TestScoreDoesNotMutateInputs(t *testing.T) {
	secret := peg.Pattern{R, R, B, Y}
	guess := peg.Pattern{B, Y, R, R}
	first, err := Score(secret, guess)
	require.NoError(t, err)
	second, err := Score(secret, guess)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, peg.Pattern{R, R, B, Y}, secret)
	assert.Equal(t, peg.Pattern{B, Y, R, R}, guess)
}

func TestScoreBounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for slots := 1; slots <= MaxSlots; slots++ {
		for n := 0; n < 500; n++ {
			secret := randomPattern(rng, slots)
			guess := randomPattern(rng, slots)
			fb, err := Score(secret, guess)
			require.NoError(t, err)
			require.GreaterOrEqual(t, fb.Colored, 0)
			require.LessOrEqual(t, fb.Colored, slots)
			require.GreaterOrEqual(t, fb.White, 0)
			require.LessOrEqual(t, fb.Total(), slots, "secret %v guess %v", secret, guess)

			self, err := Score(secret, secret)
			require.NoError(t, err)
			require.Equal(t, Feedback{Colored: slots}, self)
		}
	}
}

func TestFeedbackCode(t *testing.T) {
	assert.Equal(t, "[1C][2W]", Feedback{Colored: 1, White: 2}.Code())
	assert.Equal(t, "[0C][0W]", Feedback{}.Code())
	assert.True(t, Feedback{Colored: 4}.Solved(4))
	assert.False(t, Feedback{Colored: 3, White: 1}.Solved(4))
}

func randomPattern(rng *rand.Rand, slots int) peg.Pattern {
	p := make(peg.Pattern, slots)
	for i := range p {
		p[i] = peg.Color(rng.IntN(peg.NumColors))
	}
	return p
}
