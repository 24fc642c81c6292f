// internal/peg/peg.go
//
// Code pegs: the closed six-color alphabet and the patterns built from it.
//
// Responsibilities:
//   - Define Color and the immutable alphabet table (yellow green red blue purple pink).
//   - Parse raw input tokens into colors and validate pattern shape (length + membership).
//   - Small value helpers on Pattern (clone, equality, set keys, single-color rows).
//
// Input syntax is space-separated color names, e.g. "red green blue yellow".
package peg

import (
	"errors"
	"fmt"
	"strings"
)

// Color is one code peg color.
type Color uint8

const (
	Yellow Color = iota
	Green
	Red
	Blue
	Purple
	Pink
)

// NumColors is the size of the alphabet.
const NumColors = 6

// alphabet is the canonical color order. Never mutated; Alphabet hands out copies.
var alphabet = [NumColors]Color{Yellow, Green, Red, Blue, Purple, Pink}

var names = [NumColors]string{"yellow", "green", "red", "blue", "purple", "pink"}

// ErrInvalidShape is returned when a pattern has the wrong length or an unknown color.
var ErrInvalidShape = errors.New("wrong length or unknown color")

// Alphabet returns the six colors in canonical order.
func Alphabet() []Color {
	out := make([]Color, NumColors)
	copy(out, alphabet[:])
	return out
}

// Names returns the color names in canonical order.
func Names() []string {
	out := make([]string, NumColors)
	copy(out, names[:])
	return out
}

func (c Color) String() string {
	if !c.Valid() {
		return fmt.Sprintf("color(%d)", uint8(c))
	}
	return names[c]
}

// Valid reports whether c belongs to the alphabet.
func (c Color) Valid() bool { return int(c) < NumColors }

// Parse maps a color name to its Color. Only the exact lowercase name matches.
func Parse(token string) (Color, error) {
	for i, n := range names {
		if n == token {
			return alphabet[i], nil
		}
	}
	return 0, fmt.Errorf("unknown color %q", token)
}

// Fields splits a raw input line into color tokens.
func Fields(line string) []string {
	return strings.Fields(line)
}

// Pattern is an ordered row of colors: a secret or a guess.
type Pattern []Color

// ParsePattern validates tokens against the alphabet and the expected slot count.
// Failures wrap ErrInvalidShape.
func ParsePattern(tokens []string, slots int) (Pattern, error) {
	if len(tokens) != slots {
		return nil, fmt.Errorf("%w: got %d colors, want %d", ErrInvalidShape, len(tokens), slots)
	}
	p := make(Pattern, slots)
	for i, tok := range tokens {
		c, err := Parse(tok)
		if err != nil {
			return nil, fmt.Errorf("%w: slot %d: %v", ErrInvalidShape, i+1, err)
		}
		p[i] = c
	}
	return p, nil
}

// Repeat builds a single-color row of n slots.
func Repeat(c Color, n int) Pattern {
	p := make(Pattern, n)
	for i := range p {
		p[i] = c
	}
	return p
}

// Clone returns an independent copy.
func (p Pattern) Clone() Pattern {
	if p == nil {
		return nil
	}
	out := make(Pattern, len(p))
	copy(out, p)
	return out
}

// Equal reports element-wise equality.
func (p Pattern) Equal(o Pattern) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// Valid reports whether p has exactly slots alphabet colors.
func (p Pattern) Valid(slots int) bool {
	if len(p) != slots {
		return false
	}
	for _, c := range p {
		if !c.Valid() {
			return false
		}
	}
	return true
}

// SingleColor reports whether every slot holds the same color.
func (p Pattern) SingleColor() bool {
	for i := 1; i < len(p); i++ {
		if p[i] != p[0] {
			return false
		}
	}
	return len(p) > 0
}

// Key is a compact string form used for set membership.
func (p Pattern) Key() string {
	b := make([]byte, len(p))
	for i, c := range p {
		b[i] = '0' + byte(c)
	}
	return string(b)
}

// Tokens renders the color names.
func (p Pattern) Tokens() []string {
	out := make([]string, len(p))
	for i, c := range p {
		out[i] = c.String()
	}
	return out
}

func (p Pattern) String() string {
	return strings.Join(p.Tokens(), " ")
}
