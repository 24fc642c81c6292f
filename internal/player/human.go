// internal/player/human.go
//
// Human player at a terminal prompt. The same type can set the pattern and
// make guesses; both read one line of space-separated color names.
//
// Reads block until a line arrives. A context deadline, when set, abandons
// the wait and returns the context error.
package player

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/peg"
)

// Prompter reads one line of input after showing a prompt.
// *liner.State satisfies it.
type Prompter interface {
	Prompt(prompt string) (string, error)
}

// Human reads patterns and guesses from a Prompter.
type Human struct {
	In Prompter
}

// NewHuman wraps a prompter.
func NewHuman(in Prompter) *Human { return &Human{In: in} }

// Pattern asks the pattern-setter for the secret.
func (h *Human) Pattern(ctx context.Context, slots int) ([]string, error) {
	line, err := h.read(ctx, fmt.Sprintf("Pattern (%d colors): ", slots))
	if err != nil {
		return nil, err
	}
	return peg.Fields(line), nil
}

// Guess asks the guesser for the next row.
func (h *Human) Guess(ctx context.Context, slots int, _ *game.Feedback) ([]string, error) {
	line, err := h.read(ctx, "Guess: ")
	if err != nil {
		return nil, err
	}
	return peg.Fields(line), nil
}

func (h *Human) read(ctx context.Context, prompt string) (string, error) {
	if ctx.Done() == nil {
		return h.In.Prompt(prompt)
	}
	type reply struct {
		line string
		err  error
	}
	ch := make(chan reply, 1)
	go func() {
		line, err := h.In.Prompt(prompt)
		ch <- reply{line, err}
	}()
	select {
	case r := <-ch:
		return r.line, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// ReaderPrompter is a Prompter over plain streams, for pipes and tests.
type ReaderPrompter struct {
	r *bufio.Reader
	w io.Writer
}

// NewReaderPrompter prompts on w and reads lines from r.
func NewReaderPrompter(r io.Reader, w io.Writer) *ReaderPrompter {
	return &ReaderPrompter{r: bufio.NewReader(r), w: w}
}

func (p *ReaderPrompter) Prompt(prompt string) (string, error) {
	if p.w != nil {
		fmt.Fprint(p.w, prompt)
	}
	line, err := p.r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
