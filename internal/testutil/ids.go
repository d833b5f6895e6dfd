// Package testutil holds deterministic helpers shared by package tests.
package testutil

import (
	"fmt"
	"sync"
)

// FixedIDGenerator returns predetermined run IDs in order.
//
// This keeps stored runs and rendered output byte-identical across test
// runs. Thread-safety: safe for concurrent use via internal mutex.
type FixedIDGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedIDGenerator creates a generator that returns ids in order.
//
// With no ids it returns "run-1", "run-2", ... forever.
func NewFixedIDGenerator(ids ...string) *FixedIDGenerator {
	return &FixedIDGenerator{ids: ids}
}

// Generate returns the next run ID.
//
// Panics if a non-empty list has been consumed; a test that creates more
// runs than it declared is misconfigured.
func (g *FixedIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.idx++
	if len(g.ids) == 0 {
		return fmt.Sprintf("run-%d", g.idx)
	}
	if g.idx > len(g.ids) {
		panic("FixedIDGenerator: all ids exhausted")
	}
	return g.ids[g.idx-1]
}
