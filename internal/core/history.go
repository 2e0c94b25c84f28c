package core

// HistoryBuffer keeps the most recent room messages in insertion order, up to
// a fixed capacity. Oldest entries are evicted first. Private messages never
// enter the buffer.
type HistoryBuffer struct {
	capacity int
	messages []*Message
}

// NewHistoryBuffer constructs an empty buffer holding at most capacity
// messages.
func NewHistoryBuffer(capacity int) *HistoryBuffer {
	return &HistoryBuffer{
		capacity: capacity,
		messages: make([]*Message, 0, capacity),
	}
}

// Append inserts at the tail and returns the evicted head, if the buffer was
// full.
func (b *HistoryBuffer) Append(m *Message) *Message {
	var evicted *Message
	if len(b.messages) >= b.capacity {
		evicted = b.messages[0]
		b.messages = append(b.messages[:0], b.messages[1:]...)
	}
	b.messages = append(b.messages, m)
	return evicted
}

// Snapshot returns a copy of the current sequence. The slice is the caller's;
// the messages themselves are shared, so in-place annotation updates remain
// visible through an already-taken snapshot only on the shared structs.
func (b *HistoryBuffer) Snapshot() []*Message {
	out := make([]*Message, len(b.messages))
	copy(out, b.messages)
	return out
}

// Len returns the number of buffered messages.
func (b *HistoryBuffer) Len() int {
	return len(b.messages)
}
