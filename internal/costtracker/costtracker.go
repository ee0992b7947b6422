package costtracker

import (
	"context"
	"sort"
)

// UsageEvent is one remote model call and the tokens it consumed.
type UsageEvent struct {
	Operation        string // "detect", "translate" or "polarity"
	Model            string
	PromptTokens     int
	CompletionTokens int
}

// Totals aggregates usage for one operation.
type Totals struct {
	Operation        string
	Calls            int
	PromptTokens     int
	CompletionTokens int
}

// CostTracker records provider usage for the lifetime of the process.
type CostTracker interface {
	Record(ctx context.Context, event UsageEvent)
	Totals() []Totals
}

func New() CostTracker {
	return &memoryTracker{byOperation: make(map[string]*Totals)}
}

type memoryTracker struct {
	byOperation map[string]*Totals
}

func (m *memoryTracker) Record(ctx context.Context, event UsageEvent) {
	t, ok := m.byOperation[event.Operation]
	if !ok {
		t = &Totals{Operation: event.Operation}
		m.byOperation[event.Operation] = t
	}
	t.Calls++
	t.PromptTokens += event.PromptTokens
	t.CompletionTokens += event.CompletionTokens
}

// Totals returns one entry per operation, sorted by operation name.
func (m *memoryTracker) Totals() []Totals {
	out := make([]Totals, 0, len(m.byOperation))
	for _, t := range m.byOperation {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Operation < out[j].Operation })
	return out
}
