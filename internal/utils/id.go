package utils

import (
	"sync"
	"time"
)

// MessageIDs issues strictly increasing message identifiers seeded by wall
// clock milliseconds. Ids remain comparable for ordering but never collide on
// same-millisecond sends.
type MessageIDs struct {
	mu   sync.Mutex
	last int64
}

// NewMessageIDs returns a fresh generator.
func NewMessageIDs() *MessageIDs {
	return &MessageIDs{}
}

// Next returns the next identifier.
func (g *MessageIDs) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := time.Now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}
