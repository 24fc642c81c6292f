// internal/game/engine.go
//
// Core game engine for a single Mastermind game.
// Responsibilities:
//   - Create games with a validated secret and a row/slot budget.
//   - Validate and apply guesses (length, alphabet membership).
//   - Score guesses and track transitions: playing → guesser_won / maker_won / aborted.
//
// Notes:
//   - An invalid guess is terminal: the game ends as aborted_invalid_input and
//     nothing is scored. There is no retry.
//   - randomID() is a compact hex identifier for correlating server state.
package game

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/robalobadob/mastermind/internal/peg"
)

var (
	ErrInvalidGuess   = errors.New("invalid guess")
	ErrInvalidPattern = errors.New("invalid pattern")
	ErrGameFinished   = errors.New("game finished")
	ErrInvalidBudget  = errors.New("invalid rows/slots")
)

// CheckBudget validates a rows/slots pair against the supported limits.
func CheckBudget(rows, slots int) error {
	if rows < 1 || rows > MaxRows {
		return fmt.Errorf("%w: rows must be 1-%d, got %d", ErrInvalidBudget, MaxRows, rows)
	}
	if slots < 1 || slots > MaxSlots {
		return fmt.Errorf("%w: slots must be 1-%d, got %d", ErrInvalidBudget, MaxSlots, slots)
	}
	return nil
}

// New constructs a game around secret tokens.
// The secret must have exactly slots alphabet colors; otherwise ErrInvalidPattern is returned.
func New(secret []string, rows, slots int) (*Game, error) {
	if err := CheckBudget(rows, slots); err != nil {
		return nil, err
	}
	p, err := peg.ParsePattern(secret, slots)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}
	return &Game{
		ID:      randomID(),
		Secret:  p,
		Rows:    rows,
		Slots:   slots,
		History: NewHistory(),
		Outcome: OutcomePlaying,
	}, nil
}

// ApplyGuess validates and scores a guess, mutating the game state.
// Returns the feedback, the resulting outcome, or an error.
//
// Termination predicates, in order:
//   - colored == slots → guesser_won
//   - row == rows      → maker_won
func (g *Game) ApplyGuess(tokens []string) (Feedback, Outcome, error) {
	if g.Outcome.Finished() {
		return Feedback{}, g.Outcome, ErrGameFinished
	}
	guess, err := peg.ParsePattern(tokens, g.Slots)
	if err != nil {
		g.Abort("invalid guess: " + err.Error())
		return Feedback{}, g.Outcome, fmt.Errorf("%w: %w", ErrInvalidGuess, err)
	}

	fb, err := Score(g.Secret, guess)
	if err != nil {
		// Unreachable after ParsePattern; fail loud rather than guess.
		return Feedback{}, g.Outcome, err
	}
	g.History.Append(guess)
	g.Results = append(g.Results, fb)

	switch {
	case fb.Solved(g.Slots):
		g.Outcome = OutcomeGuesserWon
	case g.History.Len() >= g.Rows:
		g.Outcome = OutcomeMakerWon
	}
	return fb, g.Outcome, nil
}

// Abort ends the game as aborted_invalid_input with reason.
func (g *Game) Abort(reason string) {
	g.Outcome = OutcomeAborted
	g.Reason = reason
}

// Row returns the number of rows played so far.
func (g *Game) Row() int { return g.History.Len() }

// Played returns the scored rows, oldest first.
func (g *Game) Played() []Row {
	guesses := g.History.All()
	out := make([]Row, len(guesses))
	for i, p := range guesses {
		out[i] = Row{Guess: p, Feedback: g.Results[i]}
	}
	return out
}

// Last returns the most recent feedback, or nil before the first row.
func (g *Game) Last() *Feedback {
	if len(g.Results) == 0 {
		return nil
	}
	fb := g.Results[len(g.Results)-1]
	return &fb
}

// randomID returns a compact 16‑hex‑char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
