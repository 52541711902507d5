package review

import (
	"context"
	"errors"
	"sync"

	"github.com/ziadkadry99/writetutor/internal/tutor"
)

var (
	ErrSessionActive = errors.New("a review session is already active")
	ErrNoSession     = errors.New("no active review session")
	ErrEmptyBatch    = errors.New("cannot review an empty batch of corrections")
)

// Explainer produces a deeper explanation of one correction.
type Explainer interface {
	Explain(ctx context.Context, c tutor.Correction) (string, error)
}

// State is the machine's lifecycle state.
type State int

const (
	StateIdle State = iota
	StateReviewing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateReviewing:
		return "reviewing"
	default:
		return "unknown"
	}
}

// Session is the batch under review and the position of the correction on
// screen.
type Session struct {
	corrections []tutor.Correction
	cursor      int
}

// Machine walks the user through a batch of corrections one at a time,
// appending what it presents to a Log. It is safe for concurrent use.
type Machine struct {
	log       *Log
	explainer Explainer

	mu      sync.Mutex
	session *Session
}

// NewMachine creates an idle machine that writes to log.
func NewMachine(log *Log, explainer Explainer) *Machine {
	return &Machine{log: log, explainer: explainer}
}

// Begin starts reviewing corrections and presents the first one.
func (m *Machine) Begin(corrections []tutor.Correction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session != nil {
		return ErrSessionActive
	}
	if len(corrections) == 0 {
		return ErrEmptyBatch
	}

	batch := make([]tutor.Correction, len(corrections))
	copy(batch, corrections)
	m.session = &Session{corrections: batch}
	m.presentLocked()
	return nil
}

// Advance presents the next correction, or closes the session after the
// last one.
func (m *Machine) Advance() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return ErrNoSession
	}
	if m.session.cursor+1 < len(m.session.corrections) {
		m.session.cursor++
		m.presentLocked()
		return nil
	}

	m.log.Append(BotText{Text: msgClosing})
	m.session = nil
	return nil
}

func (m *Machine) presentLocked() {
	s := m.session
	m.log.Append(CorrectionUnit{
		Correction: s.corrections[s.cursor],
		Final:      s.cursor == len(s.corrections)-1,
	})
}

// RequestExplanation asks for a deeper explanation of the current
// correction and appends the result, or an error message, to the log. The
// cursor is left where it was. Concurrent calls are allowed and their
// results are appended in completion order.
func (m *Machine) RequestExplanation(ctx context.Context) error {
	m.mu.Lock()
	if m.session == nil {
		m.mu.Unlock()
		return ErrNoSession
	}
	current := m.session.corrections[m.session.cursor]
	m.mu.Unlock()

	text, err := m.explainer.Explain(ctx, current)
	if err != nil {
		m.log.Append(BotText{Text: msgExplainError, Error: true})
		return err
	}
	m.log.Append(BotText{Text: text})
	return nil
}

// State reports whether a session is active.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return StateIdle
	}
	return StateReviewing
}

// Cursor returns the index of the correction on screen, or -1 when idle.
func (m *Machine) Cursor() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return -1
	}
	return m.session.cursor
}

// Current returns the correction on screen.
func (m *Machine) Current() (tutor.Correction, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return tutor.Correction{}, false
	}
	return m.session.corrections[m.session.cursor], true
}

// Len returns the size of the active batch, or 0 when idle.
func (m *Machine) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return 0
	}
	return len(m.session.corrections)
}
