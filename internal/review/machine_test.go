package review

import (
	"errors"
	"testing"

	"github.com/ziadkadry99/writetutor/internal/tutor"
)

func TestMachineWalksBatch(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7} {
		log := NewLog()
		m := NewMachine(log, &fakeExplainer{})
		corrections := batch(n)

		if err := m.Begin(corrections); err != nil {
			t.Fatalf("n=%d: Begin: %v", n, err)
		}
		for i := 0; i < n; i++ {
			if m.State() != StateReviewing {
				t.Fatalf("n=%d: expected reviewing before advance %d", n, i)
			}
			if err := m.Advance(); err != nil {
				t.Fatalf("n=%d: Advance %d: %v", n, i, err)
			}
		}
		if m.State() != StateIdle {
			t.Errorf("n=%d: expected idle after %d advances", n, n)
		}

		got := entries(log.Snapshot())
		if len(got) != n+1 {
			t.Fatalf("n=%d: expected %d entries, got %d", n, n+1, len(got))
		}
		for i := 0; i < n; i++ {
			unit, ok := got[i].(CorrectionUnit)
			if !ok {
				t.Fatalf("n=%d: entry %d is %T, want CorrectionUnit", n, i, got[i])
			}
			if unit.Correction != corrections[i] {
				t.Errorf("n=%d: entry %d shows the wrong correction", n, i)
			}
			if unit.Final != (i == n-1) {
				t.Errorf("n=%d: entry %d has Final=%v", n, i, unit.Final)
			}
		}
		closing, ok := got[n].(BotText)
		if !ok || closing.Text != msgClosing || closing.Error {
			t.Errorf("n=%d: expected closing message last, got %#v", n, got[n])
		}
	}
}

func TestMachineSingleCorrectionIsFinal(t *testing.T) {
	log := NewLog()
	m := NewMachine(log, &fakeExplainer{})
	if err := m.Begin(batch(1)); err != nil {
		t.Fatal(err)
	}
	unit := log.Snapshot()[0].Entry.(CorrectionUnit)
	if !unit.Final {
		t.Error("single correction should be final")
	}
}

func TestMachineGuards(t *testing.T) {
	m := NewMachine(NewLog(), &fakeExplainer{})

	if err := m.Advance(); !errors.Is(err, ErrNoSession) {
		t.Errorf("Advance while idle: expected ErrNoSession, got %v", err)
	}
	if err := m.RequestExplanation(t.Context()); !errors.Is(err, ErrNoSession) {
		t.Errorf("RequestExplanation while idle: expected ErrNoSession, got %v", err)
	}
	if err := m.Begin(nil); !errors.Is(err, ErrEmptyBatch) {
		t.Errorf("Begin(nil): expected ErrEmptyBatch, got %v", err)
	}
	if err := m.Begin(batch(2)); err != nil {
		t.Fatal(err)
	}
	if err := m.Begin(batch(1)); !errors.Is(err, ErrSessionActive) {
		t.Errorf("second Begin: expected ErrSessionActive, got %v", err)
	}
	if m.Len() != 2 {
		t.Errorf("rejected Begin must not replace the batch, len=%d", m.Len())
	}
}

func TestMachineAccessors(t *testing.T) {
	m := NewMachine(NewLog(), &fakeExplainer{})
	if m.Cursor() != -1 || m.Len() != 0 {
		t.Errorf("idle machine: cursor=%d len=%d", m.Cursor(), m.Len())
	}
	if _, ok := m.Current(); ok {
		t.Error("idle machine has no current correction")
	}

	corrections := batch(3)
	m.Begin(corrections)
	m.Advance()
	if m.Cursor() != 1 || m.Len() != 3 {
		t.Errorf("expected cursor 1 of 3, got %d of %d", m.Cursor(), m.Len())
	}
	if cur, ok := m.Current(); !ok || cur != corrections[1] {
		t.Errorf("unexpected current correction %+v", cur)
	}
	if StateReviewing.String() != "reviewing" || StateIdle.String() != "idle" {
		t.Error("unexpected state names")
	}
}

func TestBeginCopiesBatch(t *testing.T) {
	log := NewLog()
	m := NewMachine(log, &fakeExplainer{})
	corrections := batch(2)
	m.Begin(corrections)
	corrections[1].Rule = "changed"
	m.Advance()

	unit := log.Snapshot()[1].Entry.(CorrectionUnit)
	if unit.Correction.Rule != "regla 1" {
		t.Errorf("batch should be immutable once begun, got %q", unit.Correction.Rule)
	}
}

func TestRequestExplanationKeepsCursor(t *testing.T) {
	for _, fail := range []bool{false, true} {
		explainer := &fakeExplainer{}
		if fail {
			explainer.err = tutor.ErrExplanationUnavailable
		}
		log := NewLog()
		m := NewMachine(log, explainer)
		corrections := batch(3)
		m.Begin(corrections)
		m.Advance()

		err := m.RequestExplanation(t.Context())
		if fail != (err != nil) {
			t.Fatalf("fail=%v: unexpected error %v", fail, err)
		}
		if m.Cursor() != 1 || m.Len() != 3 || m.State() != StateReviewing {
			t.Errorf("fail=%v: session changed: cursor=%d len=%d state=%v", fail, m.Cursor(), m.Len(), m.State())
		}
		if len(explainer.seen) != 1 || explainer.seen[0] != corrections[1] {
			t.Errorf("fail=%v: explainer got %+v", fail, explainer.seen)
		}

		last := log.Snapshot()[log.Len()-1].Entry.(BotText)
		if last.Error != fail {
			t.Errorf("fail=%v: last entry %#v", fail, last)
		}
		if fail && last.Text != msgExplainError {
			t.Errorf("expected explanation error message, got %q", last.Text)
		}
		if !fail && last.Text != "más detalle sobre regla 1" {
			t.Errorf("expected explanation text, got %q", last.Text)
		}

		// The session continues where it left off.
		m.Advance()
		unit := log.Snapshot()[log.Len()-1].Entry.(CorrectionUnit)
		if unit.Correction != corrections[2] || !unit.Final {
			t.Errorf("fail=%v: expected final correction next, got %+v", fail, unit)
		}
	}
}

func TestOverlappingExplanationsAppendInCompletionOrder(t *testing.T) {
	first, second := make(chan struct{}), make(chan struct{})
	explainer := &fakeExplainer{gates: map[string]chan struct{}{"regla 0": first, "regla 1": second}}
	log := NewLog()
	m := NewMachine(log, explainer)
	m.Begin(batch(2))

	done := make(chan error, 2)
	go func() { done <- m.RequestExplanation(t.Context()) }()
	waitFor(t, func() bool { return seenCount(explainer) == 1 })

	m.Advance()
	go func() { done <- m.RequestExplanation(t.Context()) }()
	waitFor(t, func() bool { return seenCount(explainer) == 2 })

	close(second)
	<-done
	close(first)
	<-done

	got := entries(log.Snapshot())
	if len(got) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(got))
	}
	if got[2].(BotText).Text != "más detalle sobre regla 1" || got[3].(BotText).Text != "más detalle sobre regla 0" {
		t.Errorf("expected completion order, got %#v %#v", got[2], got[3])
	}
	if m.Cursor() != 1 {
		t.Errorf("cursor moved to %d", m.Cursor())
	}
}

func seenCount(f *fakeExplainer) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.seen)
}
