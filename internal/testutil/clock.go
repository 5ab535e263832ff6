// Package testutil holds fixtures shared by the package tests: a resettable
// sequence clock for journal tests, a sample orders table with matching
// declarations, and a golden-file helper.
package testutil

import "sync"

// SeqClock is a resettable logical clock. It satisfies store.Sequencer, so
// tests can open a journal twice and get identical seq values both times.
type SeqClock struct {
	mu   sync.Mutex
	last int64
}

// NewSeqClock returns a clock whose first Next is 1.
func NewSeqClock() *SeqClock {
	return &SeqClock{}
}

// Next advances the clock and returns the new value.
func (c *SeqClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last++
	return c.last
}

// Last returns the most recent value handed out, or 0.
func (c *SeqClock) Last() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// Reset rewinds the clock so the next call to Next returns 1.
func (c *SeqClock) Reset() {
	c.mu.Lock()
	c.last = 0
	c.mu.Unlock()
}
