package proto

import "encoding/json"

// Inbound is the envelope for frames coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Outbound is the envelope for frames sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

const (
	// InboundTypeAuth must be the first frame on a connection; its data is
	// the bearer token string.
	InboundTypeAuth = "auth"

	InboundTypeCreateRoom     = "create_room"
	InboundTypeJoinRoom       = "join_room"
	InboundTypeLeaveRoom      = "leave_room"
	InboundTypeSendMessage    = "send_message"
	InboundTypeSendFile       = "send_file"
	InboundTypePrivateMessage = "private_message"
	InboundTypeMessageRead    = "message_read"
	InboundTypeReactMessage   = "react_message"
	InboundTypeTyping         = "typing"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventWelcome         = "welcome"
	EventChatHistory     = "chat_history"
	EventJoinedRoom      = "joined_room"
	EventRoomUsers       = "room_users"
	EventRoomList        = "room_list"
	EventReceiveMessage  = "receive_message"
	EventPrivateMessage  = "private_message"
	EventMessageRead     = "message_read"
	EventMessageReaction = "message_reaction"
	EventTypingUsers     = "typing_users"
	EventUserJoined      = "user_joined"
	EventUserLeft        = "user_left"
	EventOnlineStatus    = "online_status"
	EventUserList        = "user_list"
)

// SendMessageData is a chat message for the sender's current room.
type SendMessageData struct {
	Message  string `json:"message"`
	File     string `json:"file,omitempty"`
	FileName string `json:"fileName,omitempty"`
}

// SendFileData is a file attachment addressed to a room.
type SendFileData struct {
	File     string `json:"file"`
	FileName string `json:"fileName"`
	Room     string `json:"room"`
}

// PrivateMessageData is a message for a single user, resolved by username.
type PrivateMessageData struct {
	ToUsername string `json:"toUsername"`
	Message    string `json:"message"`
	File       string `json:"file,omitempty"`
	FileName   string `json:"fileName,omitempty"`
}

// ReactMessageData sets the sender's reaction on a message.
type ReactMessageData struct {
	MessageID int64  `json:"messageId"`
	Reaction  string `json:"reaction"`
}

// Message is the wire form of a chat message.
type Message struct {
	ID         int64             `json:"id"`
	Sender     string            `json:"sender"`
	SenderID   string            `json:"senderId"`
	Room       string            `json:"room,omitempty"`
	Receiver   string            `json:"receiver,omitempty"`
	ReceiverID string            `json:"receiverId,omitempty"`
	Message    string            `json:"message"`
	File       string            `json:"file,omitempty"`
	FileName   string            `json:"fileName,omitempty"`
	IsPrivate  bool              `json:"isPrivate,omitempty"`
	Timestamp  int64             `json:"timestamp"`
	ReadBy     []string          `json:"readBy"`
	Reactions  map[string]string `json:"reactions"`
}

// Session is the wire form of a live session.
type Session struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Online   bool   `json:"online"`
	Room     string `json:"room"`
}

// ReadReceipt announces that a user has read a message.
type ReadReceipt struct {
	MessageID int64  `json:"messageId"`
	UserID    string `json:"userId"`
}

// Reaction announces a reaction update on a message.
type Reaction struct {
	MessageID int64  `json:"messageId"`
	UserID    string `json:"userId"`
	Reaction  string `json:"reaction"`
}

// UserRef identifies a session in join/leave notifications.
type UserRef struct {
	Username string `json:"username"`
	ID       string `json:"id"`
}

// OnlineStatus announces a presence flip.
type OnlineStatus struct {
	ID     string `json:"id"`
	Online bool   `json:"online"`
}

// Error describes a protocol-level error response. The only error surfaced
// on the socket is a failed handshake; everything else is dropped silently.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
