// internal/player/terminal.go
//
// Terminal presentation: instructions, one line per scored row, and a final
// board with the winner. Colors come from fatih/color and are dropped
// automatically when the output is not a terminal.
package player

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/peg"
)

var pegColors = map[peg.Color]*color.Color{
	peg.Yellow: color.New(color.FgYellow),
	peg.Green:  color.New(color.FgGreen),
	peg.Red:    color.New(color.FgRed),
	peg.Blue:   color.New(color.FgBlue),
	peg.Purple: color.New(color.FgMagenta),
	peg.Pink:   color.New(color.FgHiMagenta),
}

var (
	header  = color.New(color.FgWhite, color.Bold)
	win     = color.New(color.FgGreen, color.Bold)
	lose    = color.New(color.FgRed, color.Bold)
	warning = color.New(color.FgHiYellow)
)

// Banner prints the color list and input syntax.
func Banner(w io.Writer) {
	fmt.Fprintf(w, "Code pegs: %s\n", strings.Join(peg.Names(), " "))
	fmt.Fprintln(w, "Syntax: space-separated words (e.g. color color color color)")
}

// Terminal is a game.Sink that writes to w.
type Terminal struct {
	w    io.Writer
	rows int
}

// NewTerminal returns a sink for a game with the given row budget.
func NewTerminal(w io.Writer, rows int) *Terminal {
	return &Terminal{w: w, rows: rows}
}

// Row prints one scored guess.
func (t *Terminal) Row(n int, guess peg.Pattern, fb game.Feedback) {
	fmt.Fprintf(t.w, "Row %2d/%d  %s  %s\n", n, t.rows, paint(guess), fb.Code())
}

// Finish prints the board and the result.
func (t *Terminal) Finish(res game.Result) {
	fmt.Fprintln(t.w)
	if len(res.Rows) > 0 {
		tw := table.NewWriter()
		tw.SetOutputMirror(t.w)
		tw.AppendHeader(table.Row{"#", "Guess", "Colored", "White"})
		for i, r := range res.Rows {
			tw.AppendRow(table.Row{i + 1, r.Guess.String(), r.Feedback.Colored, r.Feedback.White})
		}
		tw.SetStyle(table.StyleLight)
		tw.Render()
	}

	switch res.Outcome {
	case game.OutcomeGuesserWon:
		win.Fprintf(t.w, "Winner: guesser (%s) in %d rows\n", res.Outcome, len(res.Rows))
	case game.OutcomeMakerWon:
		lose.Fprintf(t.w, "Winner: maker (%s)\n", res.Outcome)
	case game.OutcomeAborted:
		warning.Fprintf(t.w, "Game aborted (%s): %s\n", res.Outcome, res.Reason)
	}
	if len(res.Secret) > 0 {
		header.Fprint(t.w, "Secret: ")
		fmt.Fprintln(t.w, paint(res.Secret))
	}
}

func paint(p peg.Pattern) string {
	parts := make([]string, len(p))
	for i, c := range p {
		if pc, ok := pegColors[c]; ok {
			parts[i] = pc.Sprint(c.String())
		} else {
			parts[i] = c.String()
		}
	}
	return strings.Join(parts, " ")
}
