package review

import (
	"sync"
	"testing"
)

func TestLogAssignsSequence(t *testing.T) {
	log := NewLog()
	first := log.Append(UserText{Text: "hola"})
	second := log.Append(BotText{Text: "adiós"})

	if first.Seq != 1 || second.Seq != 2 {
		t.Errorf("expected seq 1 and 2, got %d and %d", first.Seq, second.Seq)
	}
	if first.At.IsZero() {
		t.Error("expected a timestamp")
	}
	if log.Len() != 2 {
		t.Errorf("expected len 2, got %d", log.Len())
	}
}

func TestLogSnapshotIsCopy(t *testing.T) {
	log := NewLog()
	log.Append(UserText{Text: "a"})
	snap := log.Snapshot()
	log.Append(UserText{Text: "b"})

	if len(snap) != 1 {
		t.Errorf("snapshot should not see later appends, got %d turns", len(snap))
	}
	snap[0].Entry = BotText{Text: "mutated"}
	if _, ok := log.Snapshot()[0].Entry.(UserText); !ok {
		t.Error("mutating a snapshot changed the log")
	}
}

func TestLogSince(t *testing.T) {
	log := NewLog()
	for i := 0; i < 5; i++ {
		log.Append(BotText{Text: "x"})
	}

	tests := []struct {
		seq  uint64
		want int
	}{
		{0, 5},
		{3, 2},
		{5, 0},
		{9, 0},
	}
	for _, tt := range tests {
		got := log.Since(tt.seq)
		if len(got) != tt.want {
			t.Errorf("Since(%d): expected %d turns, got %d", tt.seq, tt.want, len(got))
		}
		for _, turn := range got {
			if turn.Seq <= tt.seq {
				t.Errorf("Since(%d) returned seq %d", tt.seq, turn.Seq)
			}
		}
	}
}

func TestLogConcurrentAppends(t *testing.T) {
	log := NewLog()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Append(BotText{Text: "x"})
		}()
	}
	wg.Wait()

	turns := log.Snapshot()
	if len(turns) != 50 {
		t.Fatalf("expected 50 turns, got %d", len(turns))
	}
	for i, turn := range turns {
		if turn.Seq != uint64(i+1) {
			t.Errorf("turn %d has seq %d", i, turn.Seq)
		}
	}
}
