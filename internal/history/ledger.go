// Package history keeps a bounded in-process log of recent assessments for
// quick situational-awareness reads.
package history

import (
	"sync"

	"floodwatch/internal/types"
)

// DefaultCapacity bounds the ledger when no explicit capacity is configured.
const DefaultCapacity = 30

// Ledger is a bounded, newest-first assessment log. Appends never fail; when
// the ledger is full the oldest entry is evicted. A mutex guards appends and
// snapshots so concurrent readers never observe a torn state.
type Ledger struct {
	mu       sync.Mutex
	capacity int
	entries  []types.HistoryEntry
}

// NewLedger creates a ledger with the given capacity. Non-positive capacities
// fall back to DefaultCapacity.
func NewLedger(capacity int) *Ledger {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ledger{
		capacity: capacity,
		entries:  make([]types.HistoryEntry, 0, capacity),
	}
}

// Add projects a risk result into a history entry and prepends it,
// evicting the oldest entry when at capacity.
func (l *Ledger) Add(result *types.FloodRiskResult) types.HistoryEntry {
	entry := types.HistoryEntry{
		Timestamp:  result.Scenario.Timestamp,
		District:   result.Scenario.District,
		State:      result.Scenario.State,
		Score:      result.Score,
		Band:       result.Band,
		Confidence: result.Confidence,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.entries) == l.capacity {
		l.entries = l.entries[:l.capacity-1]
	}
	l.entries = append([]types.HistoryEntry{entry}, l.entries...)
	return entry
}

// List returns up to limit entries, newest first. A non-positive limit
// returns the full snapshot. The returned slice is a copy.
func (l *Ledger) List(limit int) []types.HistoryEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := len(l.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]types.HistoryEntry, n)
	copy(out, l.entries[:n])
	return out
}

// Len returns the current entry count.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
