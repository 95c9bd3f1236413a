package testutil

import (
	"fmt"
	"sync"
)

// FixedRunIDGenerator hands out predictable run ids for tests:
// "<prefix>-00000001", "<prefix>-00000002", ...
//
// Reset restarts the sequence so the same test can produce identical ids
// on a second pass (replay comparisons).
//
// Thread-safety: all methods are safe for concurrent use.
type FixedRunIDGenerator struct {
	mu     sync.Mutex
	prefix string
	seq    int
}

// NewFixedRunIDGenerator creates a generator. An empty prefix becomes "run".
func NewFixedRunIDGenerator(prefix string) *FixedRunIDGenerator {
	if prefix == "" {
		prefix = "run"
	}
	return &FixedRunIDGenerator{prefix: prefix}
}

// Generate returns the next id in the sequence.
func (g *FixedRunIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("%s-%08d", g.prefix, g.seq)
}

// Reset restarts the sequence at 1.
func (g *FixedRunIDGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}
