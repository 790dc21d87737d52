package executor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

var (
	ErrSessionClosed = errors.New("session closed")
	ErrNotWaiting    = errors.New("session is not waiting for input")
	ErrBlankInput    = errors.New("input is blank")
)

// State is the lifecycle phase of an interactive run.
type State string

const (
	StateRunning State = "running"
	StateWaiting State = "waiting"
	StateDone    State = "done"
)

// runningBanner seeds the transcript of every interactive run.
const runningBanner = "Running...\n"

// Snapshot is a point-in-time view of a Session.
type Snapshot struct {
	Language string
	State    State
	Prompt   string
	Output   string
	Prompts  int
	Duration time.Duration
	Error    error
}

// Session is an interactive run that pauses whenever the code asks for
// input. Exactly one prompt can be pending at a time; Provide resolves it.
type Session struct {
	exec *Executor
	lang Language
	cfg  sessionConfig

	cancel  context.CancelFunc
	inputCh chan string

	mu         sync.Mutex
	state      State
	prompt     string
	transcript strings.Builder
	prompts    int
	result     *Result
	changed    chan struct{}
	closed     bool
}

type sessionConfig struct {
	timeout time.Duration
}

func defaultSessionConfig() sessionConfig {
	return sessionConfig{
		timeout: 15 * time.Minute,
	}
}

type SessionOption func(*sessionConfig)

// WithSessionTimeout bounds the whole interactive run, including the time
// spent waiting on the user.
func WithSessionTimeout(d time.Duration) SessionOption {
	return func(c *sessionConfig) {
		c.timeout = d
	}
}

// NewSession validates code and starts an interactive run in the background.
func (e *Executor) NewSession(lang Language, code string, opts ...SessionOption) (*Session, error) {
	if err := Validate(code, e.maxCodeLen); err != nil {
		return nil, err
	}

	cfg := defaultSessionConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	ctx, cancel := context.WithCancel(context.Background())

	s := &Session{
		exec:    e,
		lang:    lang,
		cfg:     cfg,
		cancel:  cancel,
		inputCh: make(chan string, 1),
		state:   StateRunning,
		changed: make(chan struct{}),
	}
	s.transcript.WriteString(runningBanner)

	go s.run(ctx, code)

	return s, nil
}

func (s *Session) run(ctx context.Context, code string) {
	result := s.exec.Run(ctx, s.lang, code,
		WithTimeout(s.cfg.timeout),
		WithInput(s.await),
	)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed && result.Error == nil {
		result.Error = ErrSessionClosed
	}
	s.result = &result
	s.state = StateDone
	s.prompt = ""
	s.notifyLocked()
}

// await is the InputFunc handed to the interpreter. It parks the run until
// Provide delivers a value.
func (s *Session) await(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return "", ErrSessionClosed
	}
	s.state = StateWaiting
	s.prompt = prompt
	s.transcript.WriteString(prompt + " ")
	s.notifyLocked()
	s.mu.Unlock()

	select {
	case value := <-s.inputCh:
		s.mu.Lock()
		s.transcript.WriteString(value + "\n")
		s.prompts++
		s.notifyLocked()
		s.mu.Unlock()
		return value, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Provide resolves the pending prompt with value.
func (s *Session) Provide(value string) error {
	if strings.TrimSpace(value) == "" {
		return ErrBlankInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if s.state != StateWaiting {
		return ErrNotWaiting
	}

	s.state = StateRunning
	s.prompt = ""
	s.inputCh <- value
	s.notifyLocked()
	return nil
}

// Snapshot returns the current state of the run.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		Language: s.lang.Name(),
		State:    s.state,
		Prompt:   s.prompt,
		Output:   s.transcript.String(),
		Prompts:  s.prompts,
	}
	if s.result != nil {
		snap.Output = s.result.Output
		snap.Prompts = s.result.Prompts
		snap.Duration = s.result.Duration
		snap.Error = s.result.Error
		if s.result.Error != nil {
			snap.Output = "Error: " + s.result.Error.Error()
		}
	}
	return snap
}

// Changed returns a channel that is closed the next time the session
// changes state or its transcript grows.
func (s *Session) Changed() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changed
}

// Wait blocks until the run is waiting for input or done.
func (s *Session) Wait(ctx context.Context) (Snapshot, error) {
	for {
		s.mu.Lock()
		snap := s.snapshotLocked()
		ch := s.changed
		s.mu.Unlock()

		if snap.State != StateRunning {
			return snap, nil
		}

		select {
		case <-ch:
		case <-ctx.Done():
			return snap, ctx.Err()
		}
	}
}

// Done reports whether the run has finished.
func (s *Session) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateDone
}

// Language returns the session's language.
func (s *Session) Language() Language {
	return s.lang
}

// Close cancels the run. It is safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	return nil
}

func (s *Session) notifyLocked() {
	close(s.changed)
	s.changed = make(chan struct{})
}
