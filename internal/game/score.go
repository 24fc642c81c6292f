// internal/game/score.go
//
// Key-peg scoring.
//
// Score makes one pass for exact matches and a second, consuming pass for
// displaced colors. Consumption is tracked on the guess side only, and only
// for slots claimed by a white peg: a guess slot that matched exactly can still
// satisfy a later displaced secret color. This differs from the symmetric
// count-min rule when both sides hold unequal duplicates, and is kept as is.

package game

import (
	"errors"
	"fmt"

	"github.com/robalobadob/mastermind/internal/peg"
)

// ErrLengthMismatch is returned when secret and guess differ in length.
var ErrLengthMismatch = errors.New("secret and guess lengths differ")

// Score compares guess against secret. Neither slice is modified.
func Score(secret, guess peg.Pattern) (Feedback, error) {
	if len(secret) != len(guess) {
		return Feedback{}, fmt.Errorf("%w: secret %d, guess %d", ErrLengthMismatch, len(secret), len(guess))
	}
	n := len(secret)
	var fb Feedback

	exact := make([]bool, n)
	for i := 0; i < n; i++ {
		if secret[i] == guess[i] {
			exact[i] = true
			fb.Colored++
		}
	}

	used := make([]bool, n) // guess slots already claimed by a white peg
	for i := 0; i < n; i++ {
		if exact[i] {
			continue
		}
		for j := 0; j < n; j++ {
			if !used[j] && guess[j] == secret[i] {
				used[j] = true
				fb.White++
				break
			}
		}
	}
	return fb, nil
}
