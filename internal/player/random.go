package player

import (
	"context"
	"crypto/rand"
	"math/big"

	"github.com/robalobadob/mastermind/internal/peg"
)

// Random is a computer pattern-setter.
// Up to six slots it draws distinct colors; longer patterns repeat colors.
type Random struct{}

// Pattern draws a secret with crypto/rand.
func (Random) Pattern(_ context.Context, slots int) ([]string, error) {
	return RandomPattern(slots).Tokens(), nil
}

// RandomPattern draws a secret pattern of the given length.
func RandomPattern(slots int) peg.Pattern {
	colors := peg.Alphabet()
	out := make(peg.Pattern, slots)
	if slots <= len(colors) {
		// Partial Fisher-Yates: sample without replacement.
		for i := 0; i < slots; i++ {
			j := i + randIntN(len(colors)-i)
			colors[i], colors[j] = colors[j], colors[i]
			out[i] = colors[i]
		}
		return out
	}
	for i := range out {
		out[i] = colors[randIntN(len(colors))]
	}
	return out
}

func randIntN(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// Fixed is a pattern-setter with a predetermined secret.
type Fixed []string

func (f Fixed) Pattern(context.Context, int) ([]string, error) {
	out := make([]string, len(f))
	copy(out, f)
	return out, nil
}
