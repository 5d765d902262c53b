// Package idgen assigns account identifiers from a process-wide monotonic
// counter.
//
// This is a very simple, non-scalable way of generating unique ids: the
// counter lives in one process, so running multiple instances of the service
// against the same store will hand out colliding ids. The upstream system
// had the same limitation; replacing it with store-assigned sequences or
// UUIDs changes the identifier format and is a deliberate decision, not a
// drop-in fix.
package idgen

import "sync"

// Generator hands out strictly increasing int64 ids. The mutex covers the
// read-increment pair so concurrent callers never observe the same value.
type Generator struct {
	mu   sync.Mutex
	next int64
}

// NewGenerator returns a generator whose first Next() call yields start.
func NewGenerator(start int64) *Generator {
	return &Generator{next: start}
}

// Next returns the next id in the sequence.
func (g *Generator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.next
	g.next++
	return id
}
