// internal/game/run.go
//
// Round loop: one full game between a pattern source and a guess source.
//
// Flow:
//   1. Request the secret; an invalid pattern aborts before any row is played.
//   2. For each row: request a guess (with the previous feedback), validate,
//      score, report to the sink, and stop on a terminal outcome.
//
// Source errors (EOF at a prompt, cancelled context) are returned as errors;
// invalid input is a normal outcome, not an error.
package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/internal/peg"
)

// Config is the row/slot budget of a game.
type Config struct {
	Rows  int
	Slots int
}

// DefaultConfig is 12 rows of 4 slots.
func DefaultConfig() Config { return Config{Rows: DefaultRows, Slots: DefaultSlots} }

// Result summarizes a finished game.
type Result struct {
	GameID  string      `json:"gameId"`
	Outcome Outcome     `json:"outcome"`
	Winner  string      `json:"winner,omitempty"`
	Reason  string      `json:"reason,omitempty"`
	Secret  peg.Pattern `json:"-"`
	Rows    []Row       `json:"-"`
}

// Run plays one game to completion.
func Run(ctx context.Context, cfg Config, maker PatternSource, breaker GuessSource, sink Sink) (Result, error) {
	if err := CheckBudget(cfg.Rows, cfg.Slots); err != nil {
		return Result{}, err
	}

	tokens, err := maker.Pattern(ctx, cfg.Slots)
	if err != nil {
		return Result{}, fmt.Errorf("request pattern: %w", err)
	}
	g, err := New(tokens, cfg.Rows, cfg.Slots)
	if err != nil {
		res := Result{Outcome: OutcomeAborted, Reason: err.Error()}
		log.Debug().Err(err).Msg("pattern rejected")
		finish(sink, res)
		return res, nil
	}
	return Play(ctx, g, breaker, sink)
}

// Play runs the row loop on an existing game until it reaches a terminal outcome.
func Play(ctx context.Context, g *Game, breaker GuessSource, sink Sink) (Result, error) {
	for !g.Outcome.Finished() {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		tokens, err := breaker.Guess(ctx, g.Slots, g.Last())
		if err != nil {
			return Result{}, fmt.Errorf("request guess: %w", err)
		}
		fb, outcome, err := g.ApplyGuess(tokens)
		if errors.Is(err, ErrInvalidGuess) {
			log.Debug().Err(err).Str("gameId", g.ID).Int("row", g.Row()+1).Msg("guess rejected")
			break
		}
		if err != nil {
			return Result{}, err
		}
		log.Debug().
			Str("gameId", g.ID).
			Int("row", g.Row()).
			Strs("guess", tokens).
			Int("colored", fb.Colored).
			Int("white", fb.White).
			Str("state", string(outcome)).
			Msg("row scored")
		if sink != nil {
			sink.Row(g.Row(), g.History.Last(), fb)
		}
	}
	res := ResultOf(g)
	finish(sink, res)
	return res, nil
}

// ResultOf snapshots a game into a Result.
func ResultOf(g *Game) Result {
	return Result{
		GameID:  g.ID,
		Outcome: g.Outcome,
		Winner:  g.Outcome.Winner(),
		Reason:  g.Reason,
		Secret:  g.Secret.Clone(),
		Rows:    g.Played(),
	}
}

func finish(sink Sink, res Result) {
	if sink != nil {
		sink.Finish(res)
	}
}
