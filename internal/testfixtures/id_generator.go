package testfixtures

import (
	"fmt"
	"slices"
	"sync"
)

// IDGenerator hands out "<prefix>-<n>" ids in order and remembers them, so
// tests can tell which id went to a period and which to an entry.
type IDGenerator struct {
	mu     sync.Mutex
	prefix string
	issued []string
}

// NewIDGenerator uses prefix, or "id" when prefix is empty.
func NewIDGenerator(prefix string) *IDGenerator {
	if prefix == "" {
		prefix = "id"
	}
	return &IDGenerator{prefix: prefix}
}

func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := fmt.Sprintf("%s-%d", g.prefix, len(g.issued)+1)
	g.issued = append(g.issued, id)
	return id
}

// NextFunc is Next in the shape services take.
func (g *IDGenerator) NextFunc() func() string {
	if g == nil {
		return func() string { return "" }
	}
	return g.Next
}

// Issued returns the ids handed out so far, oldest first.
func (g *IDGenerator) Issued() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.issued)
}

// Reset forgets every issued id; the next id is "<prefix>-1" again.
func (g *IDGenerator) Reset() {
	g.mu.Lock()
	g.issued = nil
	g.mu.Unlock()
}
