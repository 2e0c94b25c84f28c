package http

import (
	"context"
	stdhttp "net/http"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/pulsechat/pulse-server/internal/proto"
)

func TestWSRejectsInvalidToken(t *testing.T) {
	ts := startTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial ws: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "done")

	sendFrame(t, ctx, conn, proto.InboundTypeAuth, "not-a-token")

	var frame proto.Outbound
	if err := wsjson.Read(ctx, conn, &frame); err != nil {
		t.Fatalf("read error frame: %v", err)
	}
	if frame.Type != proto.OutboundTypeError || frame.Error == nil || frame.Error.Code != "unauthorized" {
		t.Fatalf("expected unauthorized error, got %+v", frame)
	}

	// The connection never entered the session registry.
	var users []proto.Session
	getJSON(t, ts, "/api/users", &users)
	if len(users) != 0 {
		t.Fatalf("rejected connection must not create a session: %+v", users)
	}
}

func TestWSLoginConnectAndChat(t *testing.T) {
	ts := startTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Alice logs in and connects.
	alice := dialWS(t, ctx, ts, loginFor(t, ts, "alice"))

	var welcome string
	readEvent(t, ctx, alice, proto.EventWelcome, &welcome)
	if !strings.Contains(welcome, "alice") {
		t.Fatalf("expected welcome to greet alice, got %q", welcome)
	}

	var history []proto.Message
	readEvent(t, ctx, alice, proto.EventChatHistory, &history)
	if len(history) != 0 {
		t.Fatalf("expected empty history, got %d", len(history))
	}

	var members []proto.Session
	readEvent(t, ctx, alice, proto.EventRoomUsers, &members)
	if len(members) != 1 || members[0].Username != "alice" || members[0].Room != "global" {
		t.Fatalf("expected alice in global, got %+v", members)
	}

	// Bob connects and says hi in global.
	bob := dialWS(t, ctx, ts, loginFor(t, ts, "bob"))
	readEvent(t, ctx, bob, proto.EventWelcome, nil)

	sendFrame(t, ctx, bob, proto.InboundTypeSendMessage, proto.SendMessageData{Message: "hi"})

	var msg proto.Message
	readEvent(t, ctx, alice, proto.EventReceiveMessage, &msg)
	if msg.Sender != "bob" || msg.Room != "global" || msg.Message != "hi" {
		t.Fatalf("unexpected message: %+v", msg)
	}

	// The message is now visible through the snapshot endpoint.
	var snapshot []proto.Message
	getJSON(t, ts, "/api/messages", &snapshot)
	if len(snapshot) != 1 || snapshot[0].Message != "hi" {
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	}
}

func TestWSCreateAndJoinRoom(t *testing.T) {
	ts := startTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	alice := dialWS(t, ctx, ts, loginFor(t, ts, "alice"))
	bob := dialWS(t, ctx, ts, loginFor(t, ts, "bob"))
	readEvent(t, ctx, alice, proto.EventWelcome, nil)
	readEvent(t, ctx, bob, proto.EventWelcome, nil)

	sendFrame(t, ctx, alice, proto.InboundTypeCreateRoom, "dev")

	for _, conn := range []*websocket.Conn{alice, bob} {
		var rooms []string
		readEvent(t, ctx, conn, proto.EventRoomList, &rooms)
		for len(rooms) != 2 {
			readEvent(t, ctx, conn, proto.EventRoomList, &rooms)
		}
		if rooms[0] != "global" || rooms[1] != "dev" {
			t.Fatalf("expected [global dev], got %v", rooms)
		}
	}

	sendFrame(t, ctx, bob, proto.InboundTypeJoinRoom, "dev")

	var joined string
	readEvent(t, ctx, bob, proto.EventJoinedRoom, &joined)
	if joined != "dev" {
		t.Fatalf("expected joined_room dev, got %q", joined)
	}

	var users []proto.Session
	getJSON(t, ts, "/api/users", &users)
	for _, u := range users {
		if u.Username == "bob" && u.Room != "dev" {
			t.Fatalf("bob should be in dev, got %q", u.Room)
		}
	}
}

func TestWSPrivateMessageSkipsHistory(t *testing.T) {
	ts := startTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	alice := dialWS(t, ctx, ts, loginFor(t, ts, "alice"))
	bob := dialWS(t, ctx, ts, loginFor(t, ts, "bob"))
	readEvent(t, ctx, alice, proto.EventWelcome, nil)
	readEvent(t, ctx, bob, proto.EventWelcome, nil)

	sendFrame(t, ctx, alice, proto.InboundTypePrivateMessage, proto.PrivateMessageData{
		ToUsername: "bob",
		Message:    "secret",
	})

	var msg proto.Message
	readEvent(t, ctx, bob, proto.EventPrivateMessage, &msg)
	if !msg.IsPrivate || msg.Message != "secret" || msg.Sender != "alice" || msg.Receiver != "bob" {
		t.Fatalf("unexpected private message: %+v", msg)
	}

	var snapshot []proto.Message
	getJSON(t, ts, "/api/messages", &snapshot)
	if len(snapshot) != 0 {
		t.Fatalf("private messages must not enter history: %+v", snapshot)
	}
}

func TestWSDisconnectAnnouncesDeparture(t *testing.T) {
	ts := startTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	alice := dialWS(t, ctx, ts, loginFor(t, ts, "alice"))
	bob := dialWS(t, ctx, ts, loginFor(t, ts, "bob"))
	readEvent(t, ctx, alice, proto.EventWelcome, nil)
	readEvent(t, ctx, bob, proto.EventWelcome, nil)

	bob.Close(websocket.StatusNormalClosure, "bye")

	var left proto.UserRef
	readEvent(t, ctx, alice, proto.EventUserLeft, &left)
	if left.Username != "bob" {
		t.Fatalf("expected bob to leave, got %+v", left)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		var users []proto.Session
		if status := getJSON(t, ts, "/api/users", &users); status != stdhttp.StatusOK {
			t.Fatalf("users endpoint failed with %d", status)
		}
		if len(users) == 1 && users[0].Username == "alice" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("bob's session was not removed: %+v", users)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestWSMalformedFramesAreDroppedSilently(t *testing.T) {
	ts := startTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	alice := dialWS(t, ctx, ts, loginFor(t, ts, "alice"))
	readEvent(t, ctx, alice, proto.EventWelcome, nil)

	// Unknown type, bad payloads, unknown room: none of these may produce an
	// error frame or kill the connection.
	sendFrame(t, ctx, alice, "bogus_type", "whatever")
	sendFrame(t, ctx, alice, proto.InboundTypeMessageRead, "not-a-number")
	sendFrame(t, ctx, alice, proto.InboundTypeJoinRoom, "ghost")

	sendFrame(t, ctx, alice, proto.InboundTypeTyping, true)
	var typing []string
	readEvent(t, ctx, alice, proto.EventTypingUsers, &typing)
	if len(typing) != 1 || typing[0] != "alice" {
		t.Fatalf("connection should still work after bad frames, got %v", typing)
	}
}
