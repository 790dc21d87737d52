// Package natshandler answers run and share requests over NATS request/reply.
package natshandler

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/caffeineduck/codehub/executor"
	"github.com/caffeineduck/codehub/language"
	"github.com/caffeineduck/codehub/metrics"
	"github.com/caffeineduck/codehub/share"
)

const (
	RunSubject   = "codehub.run.request"
	ShareSubject = "codehub.share.request"

	// QueueGroup spreads requests across every codehub instance subscribed.
	QueueGroup = "codehub"

	// DefaultMaxInFlight bounds the run requests one handler works on at once.
	DefaultMaxInFlight = 64
)

type RunRequest struct {
	Code     string   `json:"code"`
	Language string   `json:"language"`
	Inputs   []string `json:"inputs,omitempty"`
}

type RunResponse struct {
	Language   string `json:"language"`
	Output     string `json:"output"`
	Prompts    int    `json:"prompts"`
	Status     string `json:"status"`
	DurationMs int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// ShareRequest asks for a link ("encode", using Data) or for the state held
// in a link ("decode", using URL).
type ShareRequest struct {
	Action string         `json:"action"`
	Data   share.CodeData `json:"data"`
	URL    string         `json:"url,omitempty"`
}

type ShareResponse struct {
	URL   string          `json:"url,omitempty"`
	Data  *share.CodeData `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
}

// Handler processes NATS messages against an Executor.
type Handler struct {
	exec       *executor.Executor
	baseURL    string
	runTimeout time.Duration
	logger     *zap.Logger
	metrics    *metrics.Collector

	slots chan struct{}
	wg    sync.WaitGroup
}

type Option func(*Handler)

// WithMaxInFlight sets how many run requests are handled concurrently.
// Further requests wait in the subscription until a slot frees up.
func WithMaxInFlight(n int) Option {
	return func(h *Handler) {
		if n > 0 {
			h.slots = make(chan struct{}, n)
		}
	}
}

func New(exec *executor.Executor, baseURL string, runTimeout time.Duration, logger *zap.Logger, m *metrics.Collector, opts ...Option) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{
		exec:       exec,
		baseURL:    baseURL,
		runTimeout: runTimeout,
		logger:     logger,
		metrics:    m,
		slots:      make(chan struct{}, DefaultMaxInFlight),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Subscribe registers the run and share subjects on nc in QueueGroup. Runs
// are handled off the subscription goroutine, so a slow run does not hold
// up the next request.
func (h *Handler) Subscribe(ctx context.Context, nc *nats.Conn) ([]*nats.Subscription, error) {
	runSub, err := nc.QueueSubscribe(RunSubject, QueueGroup, func(msg *nats.Msg) {
		h.dispatch(ctx, func() {
			h.respond(msg, h.HandleRun(ctx, msg.Data))
		})
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", RunSubject, err)
	}

	shareSub, err := nc.QueueSubscribe(ShareSubject, QueueGroup, func(msg *nats.Msg) {
		h.respond(msg, h.HandleShare(msg.Data))
	})
	if err != nil {
		runSub.Unsubscribe()
		return nil, fmt.Errorf("subscribe %s: %w", ShareSubject, err)
	}

	h.logger.Info("nats handlers subscribed",
		zap.String("run_subject", RunSubject),
		zap.String("share_subject", ShareSubject),
		zap.String("queue", QueueGroup),
		zap.Int("max_in_flight", cap(h.slots)))
	return []*nats.Subscription{runSub, shareSub}, nil
}

// dispatch runs fn on its own goroutine once a slot is free. It drops fn if
// ctx ends first.
func (h *Handler) dispatch(ctx context.Context, fn func()) {
	select {
	case h.slots <- struct{}{}:
	case <-ctx.Done():
		return
	}
	h.wg.Add(1)
	go func() {
		defer func() {
			<-h.slots
			h.wg.Done()
		}()
		fn()
	}()
}

// Wait blocks until every dispatched run has replied.
func (h *Handler) Wait() {
	h.wg.Wait()
}

func (h *Handler) respond(msg *nats.Msg, v any) {
	if msg.Reply == "" {
		h.logger.Warn("dropping request without reply subject", zap.String("subject", msg.Subject))
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("failed to encode reply", zap.String("subject", msg.Subject), zap.Error(err))
		return
	}
	if err := msg.Respond(data); err != nil {
		h.logger.Error("failed to send reply", zap.String("subject", msg.Subject), zap.Error(err))
	}
}

// HandleRun runs the code in data and returns the reply.
func (h *Handler) HandleRun(ctx context.Context, data []byte) RunResponse {
	var req RunRequest
	if err := json.Unmarshal(data, &req); err != nil {
		h.logger.Warn("failed to parse run request", zap.Error(err))
		return RunResponse{Status: "invalid", Error: fmt.Sprintf("invalid request: %v", err)}
	}

	lang := language.Default()
	if req.Language != "" {
		var err error
		if lang, err = language.Parse(req.Language); err != nil {
			return RunResponse{Language: req.Language, Status: "invalid", Error: err.Error()}
		}
	}

	result := h.exec.Run(ctx, lang, req.Code,
		executor.WithTimeout(h.runTimeout),
		executor.WithInputs(req.Inputs...),
	)

	resp := RunResponse{
		Language:   lang.Name(),
		Output:     result.Output,
		Prompts:    result.Prompts,
		Status:     result.Status(),
		DurationMs: result.Duration.Milliseconds(),
	}
	if result.Error != nil {
		resp.Error = result.Error.Error()
		h.logger.Warn("run failed",
			zap.String("language", lang.Name()),
			zap.String("status", resp.Status),
			zap.Error(result.Error))
	}
	return resp
}

// HandleShare encodes or decodes a share link.
func (h *Handler) HandleShare(data []byte) ShareResponse {
	var req ShareRequest
	if err := json.Unmarshal(data, &req); err != nil {
		h.logger.Warn("failed to parse share request", zap.Error(err))
		return ShareResponse{Error: fmt.Sprintf("invalid request: %v", err)}
	}

	switch req.Action {
	case "encode":
		link, err := share.Encode(h.baseURL, req.Data)
		h.record("encode", err)
		if err != nil {
			return ShareResponse{Error: err.Error()}
		}
		return ShareResponse{URL: link}
	case "decode":
		cd, err := share.Decode(req.URL)
		h.record("decode", err)
		if err != nil {
			return ShareResponse{Error: err.Error()}
		}
		return ShareResponse{Data: &cd}
	}
	return ShareResponse{Error: fmt.Sprintf("unknown action %q: use encode or decode", req.Action)}
}

func (h *Handler) record(op string, err error) {
	if h.metrics != nil {
		h.metrics.Shared(op, err)
	}
}
