package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/ziadkadry99/writetutor/internal/progress"
	"github.com/ziadkadry99/writetutor/internal/review"
)

// Action is the user's answer to a correction card.
type Action int

const (
	ActionNext Action = iota
	ActionExplain
	ActionQuit
)

const (
	buttonNext    = "Entendido, siguiente"
	buttonFinish  = "Finalizar Revisión"
	buttonExplain = "Explicar mejor"
	buttonQuit    = "Salir"
)

// quitCommands end the chat when typed instead of a text.
var quitCommands = map[string]bool{"/salir": true, "/quit": true, "/exit": true}

// Chooser asks what to do with the correction on screen. final is true for
// the last correction of the batch.
type Chooser interface {
	Choose(final bool) (Action, error)
}

// PromptChooser offers the card actions as a promptui select.
type PromptChooser struct {
	// Stdin is read by the select. Nil means os.Stdin.
	Stdin io.ReadCloser
}

// NewPromptChooser returns a chooser reading from in. Pass the same
// *bufio.Reader given to NewChat so both share one buffer.
func NewPromptChooser(in io.Reader) PromptChooser {
	return PromptChooser{Stdin: io.NopCloser(in)}
}

func (p PromptChooser) Choose(final bool) (Action, error) {
	next := buttonNext
	if final {
		next = buttonFinish
	}
	sel := promptui.Select{
		Label: "¿Qué quieres hacer?",
		Items: []string{next, buttonExplain, buttonQuit},
		Stdin: p.Stdin,
	}
	idx, _, err := sel.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return ActionQuit, nil
		}
		return ActionQuit, fmt.Errorf("reading action: %w", err)
	}
	return Action(idx), nil
}

// Chat runs a conversation on a terminal.
type Chat struct {
	conv     *review.Conversation
	in       *bufio.Reader
	out      io.Writer
	renderer *Renderer
	chooser  Chooser
	spinner  progress.Spinner
	seen     uint64
}

// NewChat creates a Chat reading texts from in and writing to out. A
// *bufio.Reader is used as is.
func NewChat(conv *review.Conversation, in io.Reader, out io.Writer, chooser Chooser, spinner progress.Spinner) *Chat {
	return &Chat{
		conv:     conv,
		in:       bufio.NewReader(in),
		out:      out,
		renderer: NewRenderer(out),
		chooser:  chooser,
		spinner:  spinner,
	}
}

// Run greets the user and loops until input ends, the user quits, or ctx is
// cancelled.
func (c *Chat) Run(ctx context.Context) error {
	c.conv.Greet()
	c.flush()

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		if c.conv.Reviewing() {
			m := c.conv.Machine()
			action, err := c.chooser.Choose(m.Cursor() == m.Len()-1)
			if err != nil {
				return err
			}
			switch action {
			case ActionNext:
				if err := c.conv.Next(); err != nil {
					return err
				}
			case ActionExplain:
				c.spinner.Start(review.ExplainingNotice)
				err := c.conv.Explain(ctx)
				c.spinner.Stop()
				if err != nil {
					return err
				}
			case ActionQuit:
				return nil
			}
			c.flush()
			continue
		}

		text, err := c.readText()
		if text == "" && err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if quitCommands[strings.ToLower(text)] {
			return nil
		}
		if text == "" {
			continue
		}

		c.spinner.Start(review.AnalyzingNotice)
		err = c.conv.Submit(ctx, text)
		c.spinner.Stop()
		if err != nil {
			return err
		}
		c.flush()
	}
}

// readText reads a paragraph: lines up to the first blank line after some
// text, or to the end of input.
func (c *Chat) readText() (string, error) {
	fmt.Fprint(c.out, "\n> Escribe tu texto (línea vacía para enviar):\n")
	var lines []string
	for {
		line, err := c.in.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) == "" && err == nil {
			if len(lines) > 0 {
				break
			}
			continue
		}
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
			if len(lines) == 1 && quitCommands[strings.ToLower(strings.TrimSpace(line))] {
				break
			}
		}
		if err != nil {
			return strings.TrimSpace(strings.Join(lines, "\n")), err
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

func (c *Chat) flush() {
	c.seen = c.renderer.RenderAll(c.conv.Log().Since(c.seen), c.seen)
}
