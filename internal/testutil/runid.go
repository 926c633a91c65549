package testutil

import (
	"fmt"
	"sync"
)

// SequenceRunIDGenerator returns "run-0001", "run-0002", ... in order.
// Reset starts the sequence again.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type SequenceRunIDGenerator struct {
	mu   sync.Mutex
	next int
}

// NewSequenceRunIDGenerator creates a generator whose first ID is "run-0001".
func NewSequenceRunIDGenerator() *SequenceRunIDGenerator {
	return &SequenceRunIDGenerator{}
}

// Generate returns the next ID in the sequence.
func (g *SequenceRunIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("run-%04d", g.next)
}

// Reset rewinds the sequence so the next call returns "run-0001".
func (g *SequenceRunIDGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next = 0
}
