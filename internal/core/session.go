package core

// Session is the live identity and membership state of one connection.
type Session struct {
	ID       string
	Username string
	Online   bool
	Room     string
}

// SessionRegistry maps connection ids to sessions. It is the authoritative
// source of who is online. Not safe for concurrent use; the hub loop owns it.
type SessionRegistry struct {
	defaultRoom string
	sessions    map[string]*Session
	order       []string
}

// NewSessionRegistry constructs an empty registry. New sessions start in
// defaultRoom.
func NewSessionRegistry(defaultRoom string) *SessionRegistry {
	return &SessionRegistry{
		defaultRoom: defaultRoom,
		sessions:    make(map[string]*Session),
	}
}

// Register creates a session for the connection. A duplicate id is a contract
// violation by the transport and is rejected rather than overwritten.
func (r *SessionRegistry) Register(id, username string) (*Session, error) {
	if _, exists := r.sessions[id]; exists {
		return nil, ErrSessionExists
	}
	s := &Session{
		ID:       id,
		Username: username,
		Online:   true,
		Room:     r.defaultRoom,
	}
	r.sessions[id] = s
	r.order = append(r.order, id)
	return s, nil
}

// Get returns the session for a connection id.
func (r *SessionRegistry) Get(id string) (*Session, bool) {
	s, ok := r.sessions[id]
	return s, ok
}

// LookupByUsername resolves a username to the first session that registered
// with it. With duplicate usernames the earliest registration wins.
func (r *SessionRegistry) LookupByUsername(username string) (*Session, bool) {
	for _, id := range r.order {
		if s := r.sessions[id]; s != nil && s.Username == username {
			return s, true
		}
	}
	return nil, false
}

// Remove deletes the session. No-op if absent.
func (r *SessionRegistry) Remove(id string) {
	if _, ok := r.sessions[id]; !ok {
		return
	}
	delete(r.sessions, id)
	for i, sid := range r.order {
		if sid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// All returns a snapshot of every session in registration order.
func (r *SessionRegistry) All() []*Session {
	out := make([]*Session, 0, len(r.order))
	for _, id := range r.order {
		if s, ok := r.sessions[id]; ok {
			out = append(out, s)
		}
	}
	return out
}
