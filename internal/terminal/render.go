// Package terminal renders a review conversation as text and drives it
// from standard input.
package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/ziadkadry99/writetutor/internal/review"
	"github.com/ziadkadry99/writetutor/internal/tutor"
)

const (
	labelTutor    = "Tutor"
	labelUser     = "Tú"
	labelRule     = "Regla:"
	labelOriginal = "Texto original:"
	labelSuggest  = "Sugerencia:"
	labelExplain  = "Explicación:"
)

// Renderer writes turns to w.
type Renderer struct {
	w io.Writer
}

func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// Render writes one turn.
func (r *Renderer) Render(t review.Turn) {
	switch e := t.Entry.(type) {
	case review.UserText:
		fmt.Fprintf(r.w, "\n%s:\n%s\n", labelUser, indent(e.Text))
	case review.BotText:
		label := labelTutor
		if e.Error {
			label += " (error)"
		}
		fmt.Fprintf(r.w, "\n%s:\n%s\n", label, indent(e.Text))
	case review.CorrectionUnit:
		r.RenderCorrection(e.Correction)
	}
}

// RenderAll writes turns in order and returns the last sequence number
// written, or since when turns is empty.
func (r *Renderer) RenderAll(turns []review.Turn, since uint64) uint64 {
	for _, t := range turns {
		r.Render(t)
		since = t.Seq
	}
	return since
}

// RenderCorrection writes a correction card.
func (r *Renderer) RenderCorrection(c tutor.Correction) {
	fmt.Fprintf(r.w, "\n┌─ %s %s\n", labelRule, c.Rule)
	fmt.Fprintf(r.w, "│ %s «%s»\n", labelOriginal, c.OriginalFragment)
	fmt.Fprintf(r.w, "│ %s «%s»\n", labelSuggest, c.CorrectedFragment)
	fmt.Fprintf(r.w, "│ %s\n", labelExplain)
	for _, line := range strings.Split(c.Explanation, "\n") {
		fmt.Fprintf(r.w, "│   %s\n", line)
	}
	fmt.Fprintln(r.w, "└─")
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n")
}
