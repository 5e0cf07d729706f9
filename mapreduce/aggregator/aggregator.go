package aggregator

import (
	"maps"
	"sync"
)

// Aggregator is the shared frequency table the workers count into.
// Increments take the write lock, reads take the read lock, so a snapshot
// never sees half of an increment.
type Aggregator struct {
	counts map[string]uint64
	mutex  sync.RWMutex
}

// New creates an empty Aggregator.
func New() *Aggregator {
	return &Aggregator{
		counts: make(map[string]uint64),
	}
}

// Increment adds one occurrence of token.
func (a *Aggregator) Increment(token string) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.counts[token]++
}

// Snapshot returns a copy of the table as it is right now.
// The caller owns the returned map.
func (a *Aggregator) Snapshot() map[string]uint64 {
	a.mutex.RLock()
	defer a.mutex.RUnlock()
	return maps.Clone(a.counts)
}

// Len returns the number of distinct tokens.
func (a *Aggregator) Len() int {
	a.mutex.RLock()
	defer a.mutex.RUnlock()
	return len(a.counts)
}

// Total returns the sum of all counts.
func (a *Aggregator) Total() uint64 {
	a.mutex.RLock()
	defer a.mutex.RUnlock()
	var total uint64
	for _, c := range a.counts {
		total += c
	}
	return total
}
