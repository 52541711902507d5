package dashboard

import (
	"bytes"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"

	"github.com/ziadkadry99/writetutor/internal/review"
	"github.com/ziadkadry99/writetutor/internal/tutor"
)

const (
	kindUserText   = "user_text"
	kindBotText    = "bot_text"
	kindCorrection = "correction"
)

// turnView is the JSON projection of a review.Turn.
type turnView struct {
	Seq        uint64            `json:"seq"`
	Kind       string            `json:"kind"`
	Text       string            `json:"text,omitempty"`
	HTML       string            `json:"html,omitempty"`
	Error      bool              `json:"error,omitempty"`
	Correction *tutor.Correction `json:"correction,omitempty"`
	Final      bool              `json:"final,omitempty"`
}

// newMarkdown renders tutor text. Raw HTML in model output is not passed
// through.
func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
	)
}

func (d *Dashboard) renderMarkdown(text string) string {
	var buf bytes.Buffer
	if err := d.md.Convert([]byte(text), &buf); err != nil {
		d.logger.Warn("rendering markdown", "error", err)
		return ""
	}
	return buf.String()
}

func (d *Dashboard) project(turns []review.Turn) []turnView {
	views := make([]turnView, 0, len(turns))
	for _, t := range turns {
		v := turnView{Seq: t.Seq}
		switch e := t.Entry.(type) {
		case review.UserText:
			v.Kind = kindUserText
			v.Text = e.Text
		case review.BotText:
			v.Kind = kindBotText
			v.Text = e.Text
			v.HTML = d.renderMarkdown(e.Text)
			v.Error = e.Error
		case review.CorrectionUnit:
			c := e.Correction
			v.Kind = kindCorrection
			v.Correction = &c
			v.HTML = d.renderMarkdown(c.Explanation)
			v.Final = e.Final
		default:
			continue
		}
		views = append(views, v)
	}
	return views
}
