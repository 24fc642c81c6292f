package game

import (
	"context"

	"github.com/robalobadob/mastermind/internal/peg"
)

// PatternSource supplies the secret pattern: a human at a prompt or a generator.
// Tokens are raw; the engine validates them.
type PatternSource interface {
	Pattern(ctx context.Context, slots int) ([]string, error)
}

// GuessSource supplies guesses. last is nil for the first row of a game.
type GuessSource interface {
	Guess(ctx context.Context, slots int, last *Feedback) ([]string, error)
}

// Sink receives what happened each row and how the game ended.
type Sink interface {
	Row(n int, guess peg.Pattern, fb Feedback)
	Finish(res Result)
}

// PatternFunc adapts a function to PatternSource.
type PatternFunc func(ctx context.Context, slots int) ([]string, error)

func (f PatternFunc) Pattern(ctx context.Context, slots int) ([]string, error) { return f(ctx, slots) }

// GuessFunc adapts a function to GuessSource.
type GuessFunc func(ctx context.Context, slots int, last *Feedback) ([]string, error)

func (f GuessFunc) Guess(ctx context.Context, slots int, last *Feedback) ([]string, error) {
	return f(ctx, slots, last)
}
