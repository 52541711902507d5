package review

import (
	"context"
	"fmt"
	"sync"

	"github.com/ziadkadry99/writetutor/internal/tutor"
)

type fakeAnalyzer struct {
	corrections []tutor.Correction
	err         error
	release     chan struct{}

	mu    sync.Mutex
	texts []string
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, text string) ([]tutor.Correction, error) {
	f.mu.Lock()
	f.texts = append(f.texts, text)
	f.mu.Unlock()
	if f.release != nil {
		<-f.release
	}
	return f.corrections, f.err
}

type fakeExplainer struct {
	err error
	// gates, when set, blocks each call on the channel for its rule.
	gates map[string]chan struct{}

	mu   sync.Mutex
	seen []tutor.Correction
}

func (f *fakeExplainer) Explain(ctx context.Context, c tutor.Correction) (string, error) {
	f.mu.Lock()
	f.seen = append(f.seen, c)
	gate := f.gates[c.Rule]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if f.err != nil {
		return "", f.err
	}
	return "más detalle sobre " + c.Rule, nil
}

func batch(n int) []tutor.Correction {
	out := make([]tutor.Correction, n)
	for i := range out {
		out[i] = tutor.Correction{
			Rule:              fmt.Sprintf("regla %d", i),
			OriginalFragment:  fmt.Sprintf("original %d", i),
			CorrectedFragment: fmt.Sprintf("corregido %d", i),
			Explanation:       fmt.Sprintf("explicación %d", i),
		}
	}
	return out
}

func entries(turns []Turn) []Entry {
	out := make([]Entry, len(turns))
	for i, t := range turns {
		out[i] = t.Entry
	}
	return out
}
