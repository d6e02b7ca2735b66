package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDs generates "<prefix>1", "<prefix>2", ... in order.
//
// This enables deterministic test execution and golden snapshot comparison:
// the Nth task created in a scenario always gets the same id.
//
// Thread-safety: SequentialIDs is safe for concurrent use via internal mutex.
type SequentialIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialIDs creates a generator with the given prefix.
// If prefix is empty, "t-" is used.
func NewSequentialIDs(prefix string) *SequentialIDs {
	if prefix == "" {
		prefix = "t-"
	}
	return &SequentialIDs{prefix: prefix}
}

// Generate returns the next id.
//
// Implements idgen.Generator interface.
func (g *SequentialIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s%d", g.prefix, g.n)
}

// Count returns how many ids have been generated.
func (g *SequentialIDs) Count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.n
}
