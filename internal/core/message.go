package core

import "time"

// Message is the domain model for a chat message. Room messages carry the
// room name; private messages carry the resolved receiver instead.
type Message struct {
	ID         int64
	SenderID   string
	Sender     string
	Room       string
	Receiver   string
	ReceiverID string
	Text       string
	File       string
	FileName   string
	IsPrivate  bool
	CreatedAt  time.Time

	// ReadBy grows monotonically; the sender has always read its own message.
	ReadBy map[string]struct{}
	// Reactions keeps one value per connection, latest write wins.
	Reactions map[string]string
}

// NewMessage constructs a message with the sender already in the read set.
func NewMessage(id int64, senderID, sender string) *Message {
	return &Message{
		ID:        id,
		SenderID:  senderID,
		Sender:    sender,
		CreatedAt: time.Now(),
		ReadBy:    map[string]struct{}{senderID: {}},
		Reactions: make(map[string]string),
	}
}
