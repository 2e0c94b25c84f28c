package core

// TypingTracker keeps the set of connections currently composing a message.
// The scope is global rather than per-room; typing updates fan out to every
// connection.
type TypingTracker struct {
	typing map[string]string
	order  []string
}

// NewTypingTracker constructs an empty tracker.
func NewTypingTracker() *TypingTracker {
	return &TypingTracker{typing: make(map[string]string)}
}

// Set marks or unmarks the connection as typing.
func (t *TypingTracker) Set(id, username string, typing bool) {
	if typing {
		if _, ok := t.typing[id]; ok {
			return
		}
		t.typing[id] = username
		t.order = append(t.order, id)
		return
	}
	t.Clear(id)
}

// Clear removes the connection from the typing set. No-op if absent.
func (t *TypingTracker) Clear(id string) {
	if _, ok := t.typing[id]; !ok {
		return
	}
	delete(t.typing, id)
	for i, tid := range t.order {
		if tid == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// Usernames returns who is typing, in the order typing began.
func (t *TypingTracker) Usernames() []string {
	out := make([]string, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.typing[id])
	}
	return out
}
