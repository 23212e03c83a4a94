package llm

import "sync"

// UsageTracker accumulates token usage across a session's LLM requests.
// Safe for concurrent use; augment and explain calls run on their own
// goroutines.
type UsageTracker struct {
	mu       sync.Mutex
	requests int
	total    Usage
	costUSD  float64
	hasCost  bool
}

// NewUsageTracker creates an empty tracker.
func NewUsageTracker() *UsageTracker {
	return &UsageTracker{}
}

// Add records the usage of one completed request.
func (t *UsageTracker) Add(model string, u Usage) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.requests++
	t.total.InputTokens += u.InputTokens
	t.total.OutputTokens += u.OutputTokens
	t.total.TotalTokens += u.TotalTokens
	if c := LookupCost(model); c != nil {
		t.costUSD += c.Cost(u.InputTokens, u.OutputTokens)
		t.hasCost = true
	}
}

// Snapshot returns the request count, accumulated usage, and estimated cost.
// The cost flag is false when no priced model was seen.
func (t *UsageTracker) Snapshot() (requests int, total Usage, costUSD float64, costKnown bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.requests, t.total, t.costUSD, t.hasCost
}
