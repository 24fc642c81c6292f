package solver

import (
	"slices"

	"github.com/robalobadob/mastermind/internal/peg"
)

// permutations lists every distinct arrangement of p's colors in
// lexicographic order. Repeated colors do not produce duplicates.
func permutations(p peg.Pattern) []peg.Pattern {
	cur := p.Clone()
	slices.Sort(cur)
	out := []peg.Pattern{cur.Clone()}
	for nextPermutation(cur) {
		out = append(out, cur.Clone())
	}
	return out
}

// nextPermutation advances p to the next lexicographic arrangement in place.
// It returns false once p is the last one.
func nextPermutation(p peg.Pattern) bool {
	i := len(p) - 2
	for i >= 0 && p[i] >= p[i+1] {
		i--
	}
	if i < 0 {
		return false
	}
	j := len(p) - 1
	for p[j] <= p[i] {
		j--
	}
	p[i], p[j] = p[j], p[i]
	slices.Reverse(p[i+1:])
	return true
}
