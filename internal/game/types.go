// internal/game/types.go
//
// Core type definitions for the Mastermind engine.
// Defines:
//   - Feedback: key pegs for one row (colored + white).
//   - Outcome: state of a game (playing or one of the terminal results).
//   - Row: one scored guess.
//   - Game: state for a single in-progress or finished game.

package game

import (
	"fmt"

	"github.com/robalobadob/mastermind/internal/peg"
)

const (
	DefaultRows  = 12
	DefaultSlots = 4

	MaxRows  = 64
	MaxSlots = 8
)

// Feedback is the key-peg result of scoring a guess against the secret.
//   - Colored: slots where guess and secret match exactly.
//   - White:   further guess colors present in the secret but displaced.
type Feedback struct {
	Colored int `json:"colored"`
	White   int `json:"white"`
}

// Total is the number of key pegs awarded.
func (f Feedback) Total() int { return f.Colored + f.White }

// Solved reports whether every slot matched exactly.
func (f Feedback) Solved(slots int) bool { return f.Colored == slots }

// Code renders the short summary, one bracket per peg kind: "[1C][2W]".
func (f Feedback) Code() string {
	return fmt.Sprintf("[%dC][%dW]", f.Colored, f.White)
}

// Outcome is the coarse state of a game.
type Outcome string

const (
	OutcomePlaying    Outcome = "playing"
	OutcomeGuesserWon Outcome = "guesser_won"
	OutcomeMakerWon   Outcome = "maker_won"
	OutcomeAborted    Outcome = "aborted_invalid_input"
)

// Finished reports whether o is terminal.
func (o Outcome) Finished() bool { return o != OutcomePlaying && o != "" }

// Winner names the winning role, or "" when nobody won.
func (o Outcome) Winner() string {
	switch o {
	case OutcomeGuesserWon:
		return "guesser"
	case OutcomeMakerWon:
		return "maker"
	}
	return ""
}

// Row is one guess with its feedback.
type Row struct {
	Guess    peg.Pattern `json:"-"`
	Feedback Feedback    `json:"feedback"`
}

// Game holds the state of a single Mastermind game.
type Game struct {
	ID      string      // Unique game identifier (random hex string).
	Secret  peg.Pattern // Set once at creation, never mutated.
	Rows    int         // Row budget.
	Slots   int         // Pattern length.
	History *History    // Guesses made so far, in order.
	Results []Feedback  // Feedback per row, parallel to History.
	Outcome Outcome     // playing until a terminal outcome is reached.
	Reason  string      // Why the game was aborted, if it was.
}
