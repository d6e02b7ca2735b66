// Package testutil provides deterministic clocks, id generators and a spy
// slot for tests and the scenario harness.
package testutil

import "sync"

// DefaultEpochMillis is the starting time of a DeterministicClock:
// 2024-01-01T00:00:00Z in epoch milliseconds.
const DefaultEpochMillis int64 = 1704067200000

// DeterministicClock is a task.Clock that advances by a fixed step on
// every read.
//
// The same scenario driven by a fresh DeterministicClock produces identical
// createdAt values on every run, which keeps golden traces stable.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type DeterministicClock struct {
	mu    sync.Mutex
	start int64
	step  int64
	now   int64
}

// NewDeterministicClock creates a clock starting at DefaultEpochMillis
// that advances by one second per read.
//
// The first call to NowMillis() returns DefaultEpochMillis.
func NewDeterministicClock() *DeterministicClock {
	return NewDeterministicClockAt(DefaultEpochMillis, 1000)
}

// NewDeterministicClockAt creates a clock starting at start that advances
// by step milliseconds per read. A zero step freezes the clock.
func NewDeterministicClockAt(start, step int64) *DeterministicClock {
	return &DeterministicClock{start: start, step: step, now: start}
}

// NowMillis returns the current time and advances the clock.
func (c *DeterministicClock) NowMillis() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now
	c.now += c.step
	return now
}

// Peek returns the value the next NowMillis call will return.
func (c *DeterministicClock) Peek() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Reset rewinds the clock to its starting time.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.start
}
