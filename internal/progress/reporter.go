// Package progress shows feedback while the tutor waits on the generation
// service.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Reporter tracks a batch of documents being analyzed.
type Reporter interface {
	Start(total int)
	Update(current int, message string)
	Finish()
}

// Spinner signals that a single request is in flight.
type Spinner interface {
	Start(message string)
	Stop()
}

// IsCI reports whether output goes to a CI log rather than a terminal.
func IsCI() bool {
	return os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != ""
}

// NewReporter returns a TerminalReporter, or a CIReporter when running in
// CI.
func NewReporter(w io.Writer) Reporter {
	if IsCI() {
		return &CIReporter{w: w}
	}
	return &TerminalReporter{w: w}
}

// NewSpinner returns a TerminalSpinner, or a CISpinner when running in CI.
func NewSpinner(w io.Writer) Spinner {
	if IsCI() {
		return &CISpinner{w: w}
	}
	return &TerminalSpinner{w: w}
}

// TerminalReporter displays a progress bar.
type TerminalReporter struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func (r *TerminalReporter) Start(total int) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.w),
		progressbar.OptionSetDescription("Analizando textos"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) Update(current int, message string) {
	if r.bar != nil {
		r.bar.Describe(message)
		_ = r.bar.Set(current)
	}
}

func (r *TerminalReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// CIReporter prints line-by-line progress suitable for CI logs.
type CIReporter struct {
	w     io.Writer
	total int
}

func (r *CIReporter) Start(total int) {
	r.total = total
	fmt.Fprintf(r.w, "Analyzing %d documents\n", total)
}

func (r *CIReporter) Update(current int, message string) {
	fmt.Fprintf(r.w, "[%d/%d] %s\n", current, r.total, message)
}

func (r *CIReporter) Finish() {
	fmt.Fprintln(r.w, "Analysis complete")
}

// spinInterval is how often the terminal spinner redraws.
const spinInterval = 100 * time.Millisecond

// TerminalSpinner animates an indeterminate progressbar until stopped.
type TerminalSpinner struct {
	w io.Writer

	mu   sync.Mutex
	bar  *progressbar.ProgressBar
	stop chan struct{}
	done chan struct{}
}

func (s *TerminalSpinner) Start(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bar != nil {
		s.bar.Describe(message)
		return
	}

	s.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(s.w),
		progressbar.OptionSetDescription(message),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.spin(s.bar, s.stop, s.done)
}

func (s *TerminalSpinner) spin(bar *progressbar.ProgressBar, stop, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(spinInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			_ = bar.Add(1)
		}
	}
}

func (s *TerminalSpinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bar == nil {
		return
	}
	close(s.stop)
	<-s.done
	_ = s.bar.Finish()
	s.bar = nil
}

// CISpinner prints the message once.
type CISpinner struct {
	w io.Writer
}

func (s *CISpinner) Start(message string) {
	fmt.Fprintln(s.w, message)
}

func (s *CISpinner) Stop() {}
