package http

import (
	"encoding/json"

	"github.com/pulsechat/pulse-server/internal/core"
	"github.com/pulsechat/pulse-server/internal/proto"
)

// inboundToCommand maps a client frame to a core command. A nil result means
// the frame was malformed or of an unknown type and must be dropped without a
// reply.
func inboundToCommand(inbound proto.Inbound) *core.Command {
	switch inbound.Type {
	case proto.InboundTypeCreateRoom:
		room, ok := decodeString(inbound.Data)
		if !ok || room == "" {
			return nil
		}
		return &core.Command{Kind: core.CommandCreateRoom, Room: room}

	case proto.InboundTypeJoinRoom:
		room, ok := decodeString(inbound.Data)
		if !ok || room == "" {
			return nil
		}
		return &core.Command{Kind: core.CommandJoinRoom, Room: room}

	case proto.InboundTypeLeaveRoom:
		// The payload names the room being left, but leaving always means
		// returning to the default room.
		return &core.Command{Kind: core.CommandLeaveRoom}

	case proto.InboundTypeSendMessage:
		var data proto.SendMessageData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil
		}
		return &core.Command{
			Kind:     core.CommandSendMessage,
			Text:     data.Message,
			File:     data.File,
			FileName: data.FileName,
		}

	case proto.InboundTypeSendFile:
		var data proto.SendFileData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil
		}
		return &core.Command{
			Kind:     core.CommandSendFile,
			Room:     data.Room,
			File:     data.File,
			FileName: data.FileName,
		}

	case proto.InboundTypePrivateMessage:
		var data proto.PrivateMessageData
		if err := json.Unmarshal(inbound.Data, &data); err != nil || data.ToUsername == "" {
			return nil
		}
		return &core.Command{
			Kind:     core.CommandPrivateMessage,
			To:       data.ToUsername,
			Text:     data.Message,
			File:     data.File,
			FileName: data.FileName,
		}

	case proto.InboundTypeMessageRead:
		var id int64
		if err := json.Unmarshal(inbound.Data, &id); err != nil {
			return nil
		}
		return &core.Command{Kind: core.CommandMarkRead, MessageID: id}

	case proto.InboundTypeReactMessage:
		var data proto.ReactMessageData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil
		}
		return &core.Command{Kind: core.CommandReact, MessageID: data.MessageID, Reaction: data.Reaction}

	case proto.InboundTypeTyping:
		var typing bool
		if err := json.Unmarshal(inbound.Data, &typing); err != nil {
			return nil
		}
		return &core.Command{Kind: core.CommandSetTyping, Typing: typing}

	default:
		return nil
	}
}

func decodeString(data json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", false
	}
	return s, true
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	out := proto.Outbound{Type: proto.OutboundTypeEvent}

	switch event.Kind {
	case core.EventWelcome:
		out.Event = proto.EventWelcome
		out.Data = event.Text
	case core.EventChatHistory:
		out.Event = proto.EventChatHistory
		out.Data = messagesToWire(event.Messages)
	case core.EventRoomList:
		out.Event = proto.EventRoomList
		out.Data = event.Rooms
	case core.EventRoomUsers:
		out.Event = proto.EventRoomUsers
		out.Data = sessionsToWire(event.Sessions)
	case core.EventJoinedRoom:
		out.Event = proto.EventJoinedRoom
		out.Data = event.Room
	case core.EventReceiveMessage:
		out.Event = proto.EventReceiveMessage
		out.Data = messageToWire(event.Message)
	case core.EventPrivateMessage:
		out.Event = proto.EventPrivateMessage
		out.Data = messageToWire(event.Message)
	case core.EventMessageRead:
		out.Event = proto.EventMessageRead
		out.Data = proto.ReadReceipt{MessageID: event.MessageID, UserID: event.UserID}
	case core.EventMessageReaction:
		out.Event = proto.EventMessageReaction
		out.Data = proto.Reaction{MessageID: event.MessageID, UserID: event.UserID, Reaction: event.Reaction}
	case core.EventTypingUsers:
		out.Event = proto.EventTypingUsers
		out.Data = event.Typing
	case core.EventUserJoined:
		out.Event = proto.EventUserJoined
		out.Data = proto.UserRef{Username: event.Username, ID: event.UserID}
	case core.EventUserLeft:
		out.Event = proto.EventUserLeft
		out.Data = proto.UserRef{Username: event.Username, ID: event.UserID}
	case core.EventOnlineStatus:
		out.Event = proto.EventOnlineStatus
		out.Data = proto.OnlineStatus{ID: event.UserID, Online: event.Online}
	case core.EventUserList:
		out.Event = proto.EventUserList
		out.Data = sessionsToWire(event.Sessions)
	}

	return out
}

func messageToWire(m *core.Message) proto.Message {
	readBy := make([]string, 0, len(m.ReadBy))
	for id := range m.ReadBy {
		readBy = append(readBy, id)
	}
	reactions := make(map[string]string, len(m.Reactions))
	for id, r := range m.Reactions {
		reactions[id] = r
	}
	return proto.Message{
		ID:         m.ID,
		Sender:     m.Sender,
		SenderID:   m.SenderID,
		Room:       m.Room,
		Receiver:   m.Receiver,
		ReceiverID: m.ReceiverID,
		Message:    m.Text,
		File:       m.File,
		FileName:   m.FileName,
		IsPrivate:  m.IsPrivate,
		Timestamp:  m.CreatedAt.UnixMilli(),
		ReadBy:     readBy,
		Reactions:  reactions,
	}
}

func messagesToWire(messages []*core.Message) []proto.Message {
	out := make([]proto.Message, 0, len(messages))
	for _, m := range messages {
		out = append(out, messageToWire(m))
	}
	return out
}

func sessionsToWire(sessions []*core.Session) []proto.Session {
	out := make([]proto.Session, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, proto.Session{
			ID:       s.ID,
			Username: s.Username,
			Online:   s.Online,
			Room:     s.Room,
		})
	}
	return out
}
