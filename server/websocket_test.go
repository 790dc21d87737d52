package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
)

func readSocketMessage(t *testing.T, ctx context.Context, conn *websocket.Conn) socketMessage {
	t.Helper()
	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	var msg socketMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("bad message %q: %v", data, err)
	}
	return msg
}

// readUntil skips snapshots until one matches state.
func readUntil(t *testing.T, ctx context.Context, conn *websocket.Conn, state string) socketMessage {
	t.Helper()
	for {
		msg := readSocketMessage(t, ctx, conn)
		if msg.Type == "snapshot" && msg.Run.State == state {
			return msg
		}
	}
}

func TestRunSocket(t *testing.T) {
	s, _ := setupTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	w := do(t, s, http.MethodPost, "/api/runs", `{"code":"a = input(\"A?\")\nb = input(\"B?\")","language":"python"}`)
	run := decode[runResponse](t, w)
	if run.State != "waiting" {
		t.Fatalf("expected waiting run, got %+v", run)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/runs/" + run.ID + "/ws"
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.CloseNow()

	msg := readSocketMessage(t, ctx, conn)
	if msg.Type != "snapshot" || msg.Run.Prompt != "A?" {
		t.Fatalf("expected first prompt, got %+v", msg)
	}

	send := func(v string) {
		data, _ := json.Marshal(socketMessage{Type: "input", Value: v})
		if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}

	send(" ")
	msg = readSocketMessage(t, ctx, conn)
	if msg.Type != "error" || msg.Notice == nil {
		t.Fatalf("expected error for blank input, got %+v", msg)
	}

	send("1")
	msg = readUntil(t, ctx, conn, "waiting")
	if msg.Run.Prompt != "B?" {
		t.Fatalf("expected second prompt, got %+v", msg.Run)
	}

	send("2")
	msg = readUntil(t, ctx, conn, "done")
	if msg.Run.Output != "Python output:\nA? 1\nB? 2\n" {
		t.Errorf("unexpected output %q", msg.Run.Output)
	}

	if _, _, err := conn.Read(ctx); websocket.CloseStatus(err) != websocket.StatusNormalClosure {
		t.Errorf("expected normal closure after done, got %v", err)
	}
}

func TestRunSocketNotFound(t *testing.T) {
	s, _ := setupTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/runs/missing/ws")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}
