// Package review holds the correction-review session: the append-only
// conversation log, the state machine that walks a batch of corrections,
// and the conversation that ties both to the tutor client.
package review

import (
	"time"

	"github.com/ziadkadry99/writetutor/internal/tutor"
)

// Entry is one displayed chat turn. The set of implementations is closed:
// UserText, BotText and CorrectionUnit.
type Entry interface {
	entry()
}

// UserText is text the user submitted.
type UserText struct {
	Text string
}

// BotText is a plain tutor message. Error marks messages reporting a failed
// request.
type BotText struct {
	Text  string
	Error bool
}

// CorrectionUnit presents one correction of the active batch. Final is set
// on the last correction of the batch.
type CorrectionUnit struct {
	Correction tutor.Correction
	Final      bool
}

func (UserText) entry()       {}
func (BotText) entry()        {}
func (CorrectionUnit) entry() {}

// Turn is an Entry as stored in the Log.
type Turn struct {
	Seq   uint64
	At    time.Time
	Entry Entry
}
