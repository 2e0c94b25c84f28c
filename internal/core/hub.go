package core

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pulsechat/pulse-server/internal/utils"
)

const (
	// DefaultRoomName is the room every session starts in. It always exists.
	DefaultRoomName = "global"
	// DefaultHistoryCapacity bounds the recent-message buffer.
	DefaultHistoryCapacity = 100
)

// Hub is the coordination engine. A single Run loop owns every registry, so
// commands from all connections are applied one at a time in arrival order
// and no locking is needed anywhere in the core.
type Hub struct {
	sessions    *SessionRegistry
	rooms       *RoomRegistry
	history     *HistoryBuffer
	typing      *TypingTracker
	annotations *AnnotationStore

	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	inbox      chan clientCommand
	queries    chan func()

	ids *utils.MessageIDs
	log zerolog.Logger
}

type clientCommand struct {
	client *Client
	cmd    *Command
}

// NewHub creates a hub with fresh registries. A nil logger disables logging.
func NewHub(defaultRoom string, historyCapacity int, logger *zerolog.Logger) *Hub {
	if defaultRoom == "" {
		defaultRoom = DefaultRoomName
	}
	if historyCapacity <= 0 {
		historyCapacity = DefaultHistoryCapacity
	}
	log := zerolog.Nop()
	if logger != nil {
		log = *logger
	}
	return &Hub{
		sessions:    NewSessionRegistry(defaultRoom),
		rooms:       NewRoomRegistry(defaultRoom),
		history:     NewHistoryBuffer(historyCapacity),
		typing:      NewTypingTracker(),
		annotations: NewAnnotationStore(),
		clients:     make(map[string]*Client),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		inbox:       make(chan clientCommand, 64),
		queries:     make(chan func()),
		ids:         utils.NewMessageIDs(),
		log:         log,
	}
}

// Run processes registrations, disconnects, commands and snapshot queries
// until the context is cancelled. It must run in exactly one goroutine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.handleConnect(c)
		case c := <-h.unregister:
			h.handleDisconnect(c)
		case cc := <-h.inbox:
			h.handleCommand(cc.client, cc.cmd)
		case q := <-h.queries:
			q()
		}
	}
}

// RegisterClient hands an authenticated client to the hub loop.
func (h *Hub) RegisterClient(c *Client) {
	h.register <- c
}

// UnregisterClient reports a disconnect. Terminal for the client; the hub
// closes its Events channel after cleanup.
func (h *Hub) UnregisterClient(c *Client) {
	h.unregister <- c
}

// HistorySnapshot returns copies of the buffered messages, for the REST
// layer. The copy happens on the hub loop so no mutation can interleave.
func (h *Hub) HistorySnapshot() []*Message {
	var out []*Message
	h.query(func() {
		for _, m := range h.history.Snapshot() {
			out = append(out, cloneMessage(m))
		}
	})
	return out
}

// SessionsSnapshot returns copies of all current sessions.
func (h *Hub) SessionsSnapshot() []*Session {
	var out []*Session
	h.query(func() {
		for _, s := range h.sessions.All() {
			dup := *s
			out = append(out, &dup)
		}
	})
	return out
}

func (h *Hub) query(fn func()) {
	done := make(chan struct{})
	h.queries <- func() {
		fn()
		close(done)
	}
	<-done
}

// pump forwards one client's commands into the shared inbox, preserving that
// client's ordering while the loop serializes across clients.
func (h *Hub) pump(c *Client) {
	for cmd := range c.Commands {
		h.inbox <- clientCommand{client: c, cmd: cmd}
	}
}

func (h *Hub) handleConnect(c *Client) {
	sess, err := h.sessions.Register(c.ID, c.Username)
	if err != nil {
		h.log.Warn().Err(err).Str("client_id", c.ID).Msg("rejecting duplicate registration")
		close(c.Events)
		return
	}
	h.clients[c.ID] = c
	go h.pump(c)

	if err := h.rooms.Move(sess, h.rooms.DefaultRoom()); err != nil {
		// Default room always exists; this cannot happen.
		h.log.Error().Err(err).Msg("default room missing")
	}

	h.send(c, &Event{Kind: EventWelcome, Text: fmt.Sprintf("Welcome, %s!", c.Username)})
	h.send(c, &Event{Kind: EventChatHistory, Messages: h.historyClone()})
	h.send(c, &Event{Kind: EventRoomList, Rooms: h.rooms.Names()})

	h.broadcastAll(&Event{Kind: EventUserJoined, UserID: c.ID, Username: c.Username})
	h.broadcastAll(&Event{Kind: EventOnlineStatus, UserID: c.ID, Online: true})
	h.broadcastAll(&Event{Kind: EventUserList, Sessions: cloneSessions(h.sessions.All())})
	h.broadcastRoom(sess.Room, &Event{Kind: EventRoomUsers, Room: sess.Room, Sessions: h.roomSessions(sess.Room)})

	h.log.Info().Str("client_id", c.ID).Str("username", c.Username).Msg("client connected")
}

func (h *Hub) handleDisconnect(c *Client) {
	if _, ok := h.clients[c.ID]; !ok {
		return
	}
	h.rooms.RemoveEverywhere(c.ID)
	h.typing.Clear(c.ID)
	h.sessions.Remove(c.ID)
	delete(h.clients, c.ID)
	close(c.Events)

	h.broadcastAll(&Event{Kind: EventUserList, Sessions: cloneSessions(h.sessions.All())})
	h.broadcastAll(&Event{Kind: EventTypingUsers, Typing: h.typing.Usernames()})
	h.broadcastAll(&Event{Kind: EventUserLeft, UserID: c.ID, Username: c.Username})
	h.broadcastAll(&Event{Kind: EventOnlineStatus, UserID: c.ID, Online: false})

	h.log.Info().Str("client_id", c.ID).Str("username", c.Username).Msg("client disconnected")
}

// handleCommand applies one command. Invalid commands (unknown room, unknown
// message id, missing recipient) are dropped without a reply; one client's
// bad input must never disturb the rest.
func (h *Hub) handleCommand(c *Client, cmd *Command) {
	sess, ok := h.sessions.Get(c.ID)
	if !ok {
		return
	}

	switch cmd.Kind {
	case CommandCreateRoom:
		if cmd.Room == "" {
			return
		}
		if h.rooms.Create(cmd.Room) {
			h.broadcastAll(&Event{Kind: EventRoomList, Rooms: h.rooms.Names()})
		}

	case CommandJoinRoom:
		h.moveTo(c, sess, cmd.Room)

	case CommandLeaveRoom:
		h.moveTo(c, sess, h.rooms.DefaultRoom())

	case CommandSendMessage:
		h.deliverRoomMessage(sess, sess.Room, cmd)

	case CommandSendFile:
		room := cmd.Room
		if room == "" {
			room = sess.Room
		}
		if !h.rooms.Exists(room) {
			return
		}
		h.deliverRoomMessage(sess, room, cmd)

	case CommandPrivateMessage:
		target, ok := h.sessions.LookupByUsername(cmd.To)
		if !ok {
			return
		}
		msg := NewMessage(h.ids.Next(), sess.ID, sess.Username)
		msg.IsPrivate = true
		msg.Receiver = target.Username
		msg.ReceiverID = target.ID
		msg.Text = cmd.Text
		msg.File = cmd.File
		msg.FileName = cmd.FileName
		ev := &Event{Kind: EventPrivateMessage, Message: cloneMessage(msg)}
		if tc, ok := h.clients[target.ID]; ok {
			h.send(tc, ev)
		}
		if target.ID != c.ID {
			h.send(c, ev)
		}

	case CommandMarkRead:
		msg, changed := h.annotations.MarkRead(cmd.MessageID, c.ID)
		if msg == nil || !changed {
			return
		}
		h.broadcastRoom(msg.Room, &Event{Kind: EventMessageRead, MessageID: msg.ID, UserID: c.ID})

	case CommandReact:
		msg, ok := h.annotations.React(cmd.MessageID, c.ID, cmd.Reaction)
		if !ok {
			return
		}
		h.broadcastRoom(msg.Room, &Event{
			Kind:      EventMessageReaction,
			MessageID: msg.ID,
			UserID:    c.ID,
			Reaction:  cmd.Reaction,
		})

	case CommandSetTyping:
		h.typing.Set(c.ID, sess.Username, cmd.Typing)
		h.broadcastAll(&Event{Kind: EventTypingUsers, Typing: h.typing.Usernames()})
	}
}

func (h *Hub) moveTo(c *Client, sess *Session, target string) {
	prev := sess.Room
	if err := h.rooms.Move(sess, target); err != nil {
		h.log.Debug().Str("client_id", c.ID).Str("room", target).Msg("join to unknown room dropped")
		return
	}
	h.send(c, &Event{Kind: EventJoinedRoom, Room: target})
	h.broadcastRoom(target, &Event{Kind: EventRoomUsers, Room: target, Sessions: h.roomSessions(target)})
	if prev != target {
		h.broadcastRoom(prev, &Event{Kind: EventRoomUsers, Room: prev, Sessions: h.roomSessions(prev)})
	}
}

func (h *Hub) deliverRoomMessage(sess *Session, room string, cmd *Command) {
	msg := NewMessage(h.ids.Next(), sess.ID, sess.Username)
	msg.Room = room
	msg.Text = cmd.Text
	msg.File = cmd.File
	msg.FileName = cmd.FileName
	if evicted := h.history.Append(msg); evicted != nil {
		h.annotations.Forget(evicted.ID)
	}
	h.annotations.Track(msg)
	h.broadcastRoom(room, &Event{Kind: EventReceiveMessage, Message: cloneMessage(msg)})
}

// roomSessions resolves a room's member ids to session copies, safe to hand
// to writer goroutines.
func (h *Hub) roomSessions(room string) []*Session {
	ids := h.rooms.MemberIDs(room)
	out := make([]*Session, 0, len(ids))
	for _, id := range ids {
		if s, ok := h.sessions.Get(id); ok {
			dup := *s
			out = append(out, &dup)
		}
	}
	return out
}

func (h *Hub) historyClone() []*Message {
	snap := h.history.Snapshot()
	out := make([]*Message, 0, len(snap))
	for _, m := range snap {
		out = append(out, cloneMessage(m))
	}
	return out
}

func cloneSessions(sessions []*Session) []*Session {
	out := make([]*Session, 0, len(sessions))
	for _, s := range sessions {
		dup := *s
		out = append(out, &dup)
	}
	return out
}

// send delivers an event without blocking; slow consumers lose events rather
// than stalling the loop.
func (h *Hub) send(c *Client, ev *Event) {
	select {
	case c.Events <- ev:
	default:
		h.log.Warn().Str("client_id", c.ID).Msg("dropping event for slow consumer")
	}
}

func (h *Hub) broadcastAll(ev *Event) {
	for _, c := range h.clients {
		h.send(c, ev)
	}
}

func (h *Hub) broadcastRoom(room string, ev *Event) {
	for _, id := range h.rooms.MemberIDs(room) {
		if c, ok := h.clients[id]; ok {
			h.send(c, ev)
		}
	}
}

func cloneMessage(m *Message) *Message {
	dup := *m
	dup.ReadBy = make(map[string]struct{}, len(m.ReadBy))
	for id := range m.ReadBy {
		dup.ReadBy[id] = struct{}{}
	}
	dup.Reactions = make(map[string]string, len(m.Reactions))
	for id, r := range m.Reactions {
		dup.Reactions[id] = r
	}
	return &dup
}
