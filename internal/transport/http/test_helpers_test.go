package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/pulsechat/pulse-server/internal/auth"
	"github.com/pulsechat/pulse-server/internal/config"
	"github.com/pulsechat/pulse-server/internal/core"
	"github.com/pulsechat/pulse-server/internal/proto"
)

func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := zerolog.Nop()
	hub := core.NewHub("", 0, nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	authService := auth.NewService(&auth.JWTConfig{
		Secret: []byte("testsecret"),
		TTL:    2 * time.Hour,
	})

	cfg := config.Default()
	cfg.StaticDir = ""

	server := NewServer(hub, authService, &cfg, &logger)
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, ts *httptest.Server, path, body string) (int, []byte) {
	t.Helper()

	resp, err := stdhttp.Post(ts.URL+path, "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, data
}

func getJSON(t *testing.T, ts *httptest.Server, path string, out any) int {
	t.Helper()

	resp, err := stdhttp.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
	return resp.StatusCode
}

func loginFor(t *testing.T, ts *httptest.Server, username string) string {
	t.Helper()

	status, body := postJSON(t, ts, "/api/login", `{"username":"`+username+`"}`)
	if status != stdhttp.StatusOK {
		t.Fatalf("login failed with %d: %s", status, body)
	}
	var resp LoginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return resp.Token
}

func dialWS(t *testing.T, ctx context.Context, ts *httptest.Server, token string) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial ws: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "test done") })

	sendFrame(t, ctx, conn, proto.InboundTypeAuth, token)
	return conn
}

func sendFrame(t *testing.T, ctx context.Context, conn *websocket.Conn, frameType string, data any) {
	t.Helper()

	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal frame data: %v", err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: frameType, Data: raw}); err != nil {
		t.Fatalf("write frame %q: %v", frameType, err)
	}
}

// readEvent reads frames until one carries the named event, decoding its data
// into out (when non-nil).
func readEvent(t *testing.T, ctx context.Context, conn *websocket.Conn, event string, out any) {
	t.Helper()

	for {
		var frame proto.Outbound
		if err := wsjson.Read(ctx, conn, &frame); err != nil {
			t.Fatalf("read ws frame while waiting for %q: %v", event, err)
		}
		if frame.Type != proto.OutboundTypeEvent || frame.Event != event {
			continue
		}
		if out == nil {
			return
		}
		raw, err := json.Marshal(frame.Data)
		if err != nil {
			t.Fatalf("remarshal event data: %v", err)
		}
		if err := json.Unmarshal(raw, out); err != nil {
			t.Fatalf("decode event %q: %v", event, err)
		}
		return
	}
}
