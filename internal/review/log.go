package review

import (
	"sync"
	"time"
)

// Log is the append-only conversation log. It is safe for concurrent use.
type Log struct {
	mu    sync.Mutex
	turns []Turn
	now   func() time.Time
}

// NewLog creates an empty log.
func NewLog() *Log {
	return &Log{now: time.Now}
}

// Append adds e and returns the stored turn. Sequence numbers start at 1.
func (l *Log) Append(e Entry) Turn {
	l.mu.Lock()
	defer l.mu.Unlock()
	t := Turn{
		Seq:   uint64(len(l.turns)) + 1,
		At:    l.now(),
		Entry: e,
	}
	l.turns = append(l.turns, t)
	return t
}

// Snapshot returns a copy of every turn appended so far.
func (l *Log) Snapshot() []Turn {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Turn, len(l.turns))
	copy(out, l.turns)
	return out
}

// Since returns the turns with a sequence number greater than seq.
func (l *Log) Since(seq uint64) []Turn {
	l.mu.Lock()
	defer l.mu.Unlock()
	if seq >= uint64(len(l.turns)) {
		return nil
	}
	out := make([]Turn, uint64(len(l.turns))-seq)
	copy(out, l.turns[seq:])
	return out
}

// Len returns the number of turns.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.turns)
}
