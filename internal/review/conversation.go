package review

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/ziadkadry99/writetutor/internal/tutor"
)

var (
	ErrBusy             = errors.New("a request is already in flight")
	ErrReviewInProgress = errors.New("finish the current review before submitting new text")
)

// Analyzer turns a text into a batch of corrections.
type Analyzer interface {
	Analyze(ctx context.Context, text string) ([]tutor.Correction, error)
}

// Conversation is what a renderer drives. It owns the log, the machine and
// the busy counter, and turns request failures into chat messages.
type Conversation struct {
	analyzer Analyzer
	log      *Log
	machine  *Machine
	logger   *slog.Logger
	onChange func()

	mu       sync.Mutex
	inflight int
}

// ConversationOption configures a Conversation.
type ConversationOption func(*Conversation)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) ConversationOption {
	return func(c *Conversation) { c.logger = l }
}

// WithOnChange registers fn to run after every log append or change of the
// busy state. fn runs on the goroutine that caused the change and must not
// block on the Conversation.
func WithOnChange(fn func()) ConversationOption {
	return func(c *Conversation) { c.onChange = fn }
}

// NewConversation creates an idle conversation with an empty log.
func NewConversation(analyzer Analyzer, explainer Explainer, opts ...ConversationOption) *Conversation {
	log := NewLog()
	c := &Conversation{
		analyzer: analyzer,
		log:      log,
		machine:  NewMachine(log, explainer),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Greet appends the welcome message.
func (c *Conversation) Greet() {
	c.log.Append(BotText{Text: msgGreeting})
	c.notify()
}

// Submit analyzes text and starts a review of the corrections found. A
// failed analysis is reported in the log, not returned.
func (c *Conversation) Submit(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return tutor.ErrEmptyText
	}

	c.mu.Lock()
	if c.machine.State() == StateReviewing {
		c.mu.Unlock()
		return ErrReviewInProgress
	}
	if c.inflight > 0 {
		c.mu.Unlock()
		return ErrBusy
	}
	c.inflight++
	c.mu.Unlock()
	defer c.done()

	c.log.Append(UserText{Text: text})
	c.notify()

	corrections, err := c.analyzer.Analyze(ctx, text)
	if err != nil {
		c.logger.Warn("analysis failed", "error", err)
		c.log.Append(BotText{Text: msgAnalysisError, Error: true})
		return nil
	}
	if len(corrections) == 0 {
		c.log.Append(BotText{Text: msgNoSuggestions})
		return nil
	}

	c.log.Append(BotText{Text: foundMessage(len(corrections))})
	if err := c.machine.Begin(corrections); err != nil {
		c.logger.Error("starting review", "error", err)
		return err
	}
	c.logger.Debug("review started", "corrections", len(corrections))
	return nil
}

// Next acknowledges the current correction.
func (c *Conversation) Next() error {
	if err := c.machine.Advance(); err != nil {
		return err
	}
	c.notify()
	return nil
}

// Explain requests a deeper explanation of the current correction. It is
// not blocked by other requests in flight.
func (c *Conversation) Explain(ctx context.Context) error {
	c.mu.Lock()
	c.inflight++
	c.mu.Unlock()
	c.notify()
	defer c.done()

	err := c.machine.RequestExplanation(ctx)
	if errors.Is(err, ErrNoSession) {
		return err
	}
	if err != nil {
		c.logger.Warn("explanation failed", "error", err)
	}
	return nil
}

func (c *Conversation) done() {
	c.mu.Lock()
	c.inflight--
	c.mu.Unlock()
	c.notify()
}

func (c *Conversation) notify() {
	if c.onChange != nil {
		c.onChange()
	}
}

// Busy reports whether any request is in flight.
func (c *Conversation) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight > 0
}

// Reviewing reports whether a review session is active.
func (c *Conversation) Reviewing() bool {
	return c.machine.State() == StateReviewing
}

func (c *Conversation) Log() *Log {
	return c.log
}

func (c *Conversation) Machine() *Machine {
	return c.machine
}
