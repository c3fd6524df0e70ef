package engine

import "sync"

// History records every sample it observes. It is safe to read while the
// observed method is running.
type History struct {
	mu      sync.Mutex
	samples []Sample
}

func NewHistory() *History {
	return &History{samples: make([]Sample, 0)}
}

func (h *History) OnIteration(s Sample) {
	h.mu.Lock()
	h.samples = append(h.samples, s)
	h.mu.Unlock()
}

// First returns the earliest recorded sample.
func (h *History) First() (Sample, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.samples) == 0 {
		return Sample{}, false
	}
	return h.samples[0], true
}

// Samples returns a copy of the recorded samples.
func (h *History) Samples() []Sample {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Sample, len(h.samples))
	copy(out, h.samples)
	return out
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.samples)
}

// Every forwards every n-th sample to next.
type Every struct {
	N    int
	Next Observer
}

func (e Every) OnIteration(s Sample) {
	if e.N <= 1 || s.Iteration%e.N == 0 {
		e.Next.OnIteration(s)
	}
}
