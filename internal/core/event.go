package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventWelcome greets a freshly authenticated client.
	EventWelcome EventKind = iota
	// EventChatHistory delivers the recent-message snapshot on connect.
	EventChatHistory
	// EventRoomList announces the current set of rooms.
	EventRoomList
	// EventRoomUsers announces the resolved member list of a room.
	EventRoomUsers
	// EventJoinedRoom confirms to a client which room it now occupies.
	EventJoinedRoom
	// EventReceiveMessage carries a room message to the room's members.
	EventReceiveMessage
	// EventPrivateMessage carries a private message to sender and receiver.
	EventPrivateMessage
	// EventMessageRead announces a new read receipt.
	EventMessageRead
	// EventMessageReaction announces a reaction update.
	EventMessageReaction
	// EventTypingUsers announces who is currently typing.
	EventTypingUsers
	// EventUserJoined announces a new session to everyone.
	EventUserJoined
	// EventUserLeft announces a departed session to everyone.
	EventUserLeft
	// EventOnlineStatus announces a presence flip for one session.
	EventOnlineStatus
	// EventUserList announces the full session list.
	EventUserList
)

// Event is sent to clients to describe what happened in the system. Only the
// fields relevant to the kind are populated.
type Event struct {
	Kind EventKind

	Text     string
	Room     string
	Rooms    []string
	Message  *Message
	Messages []*Message
	Sessions []*Session
	Typing   []string

	// User identifies the session a joined/left/status/read/reaction event
	// is about.
	UserID   string
	Username string
	Online   bool

	MessageID int64
	Reaction  string
}
