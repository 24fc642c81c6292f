package game

import "github.com/robalobadob/mastermind/internal/peg"

// History is an append-only, ordered record of guesses.
type History struct {
	rows []peg.Pattern
}

// NewHistory returns an empty history.
func NewHistory() *History { return &History{} }

// Append records a copy of p.
func (h *History) Append(p peg.Pattern) {
	h.rows = append(h.rows, p.Clone())
}

// Contains reports whether an identical guess was already recorded.
func (h *History) Contains(p peg.Pattern) bool {
	for _, r := range h.rows {
		if r.Equal(p) {
			return true
		}
	}
	return false
}

// Len is the number of recorded guesses.
func (h *History) Len() int { return len(h.rows) }

// Last returns a copy of the newest guess, or nil when empty.
func (h *History) Last() peg.Pattern {
	if len(h.rows) == 0 {
		return nil
	}
	return h.rows[len(h.rows)-1].Clone()
}

// All returns copies of the recorded guesses, oldest first.
func (h *History) All() []peg.Pattern {
	out := make([]peg.Pattern, len(h.rows))
	for i, r := range h.rows {
		out[i] = r.Clone()
	}
	return out
}
