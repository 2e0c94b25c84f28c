package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandCreateRoom registers a new room by name.
	CommandCreateRoom CommandKind = iota
	// CommandJoinRoom moves the client into a room.
	CommandJoinRoom
	// CommandLeaveRoom moves the client back to the default room.
	CommandLeaveRoom
	// CommandSendMessage delivers a chat message to the client's room.
	CommandSendMessage
	// CommandSendFile delivers a file attachment to a room.
	CommandSendFile
	// CommandPrivateMessage delivers a message to a single resolved user.
	CommandPrivateMessage
	// CommandMarkRead records a read receipt on a message.
	CommandMarkRead
	// CommandReact sets the client's reaction on a message.
	CommandReact
	// CommandSetTyping toggles the client's typing indicator.
	CommandSetTyping
)

// Command represents an action requested by a client.
type Command struct {
	Kind      CommandKind
	Room      string
	Text      string
	File      string
	FileName  string
	To        string
	MessageID int64
	Reaction  string
	Typing    bool
}
