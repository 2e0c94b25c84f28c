package core

// AnnotationStore indexes history-tracked messages by id for read-receipt and
// reaction updates. Messages leave the index when the history buffer evicts
// them, so annotating an unknown id is a silent no-op.
type AnnotationStore struct {
	byID map[int64]*Message
}

// NewAnnotationStore constructs an empty store.
func NewAnnotationStore() *AnnotationStore {
	return &AnnotationStore{byID: make(map[int64]*Message)}
}

// Track makes the message addressable by id.
func (s *AnnotationStore) Track(m *Message) {
	s.byID[m.ID] = m
}

// Forget drops the message from the index. The message itself is untouched,
// so snapshots delivered earlier keep their data.
func (s *AnnotationStore) Forget(id int64) {
	delete(s.byID, id)
}

// MarkRead adds the connection to the message's read set. Returns the message
// and whether the set actually changed; a repeat call is a no-op.
func (s *AnnotationStore) MarkRead(id int64, connID string) (*Message, bool) {
	m, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	if _, seen := m.ReadBy[connID]; seen {
		return m, false
	}
	m.ReadBy[connID] = struct{}{}
	return m, true
}

// React sets the connection's reaction on the message, overwriting any
// previous value. Returns false for unknown ids.
func (s *AnnotationStore) React(id int64, connID, reaction string) (*Message, bool) {
	m, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	m.Reactions[connID] = reaction
	return m, true
}
