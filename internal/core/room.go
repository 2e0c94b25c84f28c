package core

// Room groups connections subscribed to the same broadcast channel.
type Room struct {
	Name    string
	members map[string]struct{}
}

// NewRoom constructs a room with no members.
func NewRoom(name string) *Room {
	return &Room{
		Name:    name,
		members: make(map[string]struct{}),
	}
}

// RoomRegistry maps room names to member sets and enforces single-room
// membership: moving a session always removes it from its previous room.
// Rooms are created on demand and never deleted; the default room exists for
// the lifetime of the registry.
type RoomRegistry struct {
	defaultRoom string
	rooms       map[string]*Room
	order       []string
}

// NewRoomRegistry constructs a registry containing only the default room.
func NewRoomRegistry(defaultRoom string) *RoomRegistry {
	r := &RoomRegistry{
		defaultRoom: defaultRoom,
		rooms:       make(map[string]*Room),
	}
	r.Create(defaultRoom)
	return r
}

// DefaultRoom returns the name of the always-present room.
func (r *RoomRegistry) DefaultRoom() string {
	return r.defaultRoom
}

// Create registers a room. Idempotent; reports whether the room was newly
// created so the caller knows to announce the changed room list.
func (r *RoomRegistry) Create(name string) bool {
	if _, exists := r.rooms[name]; exists {
		return false
	}
	r.rooms[name] = NewRoom(name)
	r.order = append(r.order, name)
	return true
}

// Exists reports whether the room is registered.
func (r *RoomRegistry) Exists(name string) bool {
	_, ok := r.rooms[name]
	return ok
}

// Move transfers the session into target: out of its previous room's member
// set, into target's, updating Session.Room. Fails without side effects when
// target does not exist.
func (r *RoomRegistry) Move(s *Session, target string) error {
	room, ok := r.rooms[target]
	if !ok {
		return ErrRoomNotFound
	}
	if prev, ok := r.rooms[s.Room]; ok {
		delete(prev.members, s.ID)
	}
	room.members[s.ID] = struct{}{}
	s.Room = target
	return nil
}

// Leave moves the session back to the default room.
func (r *RoomRegistry) Leave(s *Session) error {
	return r.Move(s, r.defaultRoom)
}

// MemberIDs returns the connection ids in the room. Empty for unknown rooms.
func (r *RoomRegistry) MemberIDs(name string) []string {
	room, ok := r.rooms[name]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(room.members))
	for id := range room.members {
		out = append(out, id)
	}
	return out
}

// RemoveEverywhere strips the connection from every room's member set,
// regardless of what its session records. Disconnect cleanup.
func (r *RoomRegistry) RemoveEverywhere(id string) {
	for _, room := range r.rooms {
		delete(room.members, id)
	}
}

// Names returns all room names in creation order.
func (r *RoomRegistry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
