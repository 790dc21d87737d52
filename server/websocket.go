package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/coder/websocket"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/caffeineduck/codehub/executor"
	"github.com/caffeineduck/codehub/notice"
)

// socketMessage is sent by both sides of a run WebSocket. Clients send
// {"type":"input","value":"..."}; the server sends "snapshot" and "error".
type socketMessage struct {
	Type   string         `json:"type"`
	Value  string         `json:"value,omitempty"`
	Run    *runResponse   `json:"run,omitempty"`
	Error  string         `json:"error,omitempty"`
	Notice *notice.Notice `json:"notice,omitempty"`
}

func (s *Server) handleRunSocket(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	session, ok := s.sessions.get(id)
	if !ok {
		writeError(w, fmt.Errorf("%w: %s", errRunNotFound, id))
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger.Error("websocket accept failed", zap.String("run_id", id), zap.Error(err))
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "run finished")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go s.readSocket(ctx, cancel, conn, id)

	var last executor.Snapshot
	sent := false
	for {
		changed := session.Changed()
		snap := session.Snapshot()

		if !sent || snapshotChanged(last, snap) {
			run := newRunResponse(id, snap)
			if err := writeSocket(ctx, conn, socketMessage{Type: "snapshot", Run: &run}); err != nil {
				return
			}
			last, sent = snap, true
		}
		if snap.State == executor.StateDone {
			return
		}

		select {
		case <-changed:
		case <-ctx.Done():
			return
		}
	}
}

func (s *Server) readSocket(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, id string) {
	defer cancel()
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure && ctx.Err() == nil {
				s.logger.Debug("run socket closed", zap.String("run_id", id), zap.Error(err))
			}
			return
		}

		var msg socketMessage
		if err := json.Unmarshal(data, &msg); err != nil || msg.Type != "input" {
			s.replyError(ctx, conn, fmt.Errorf("%w: expected an input message", errBadRequest))
			continue
		}

		session, ok := s.sessions.get(id)
		if !ok {
			s.replyError(ctx, conn, fmt.Errorf("%w: %s", errRunNotFound, id))
			return
		}
		if err := session.Provide(msg.Value); err != nil {
			s.replyError(ctx, conn, err)
		}
	}
}

func (s *Server) replyError(ctx context.Context, conn *websocket.Conn, err error) {
	n := noticeFor(err)
	if werr := writeSocket(ctx, conn, socketMessage{Type: "error", Error: err.Error(), Notice: &n}); werr != nil {
		s.logger.Debug("run socket write failed", zap.Error(werr))
	}
}

func writeSocket(ctx context.Context, conn *websocket.Conn, msg socketMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return conn.Write(ctx, websocket.MessageText, data)
}

func snapshotChanged(a, b executor.Snapshot) bool {
	return a.State != b.State || a.Output != b.Output || a.Prompt != b.Prompt
}
