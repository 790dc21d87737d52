package executor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Result holds the output and metadata from a mock run.
type Result struct {
	Output   string
	Prompts  int
	Duration time.Duration
	Error    error
}

// Status returns the label used when reporting the run: "ok", "timeout",
// "cancelled", "invalid" or "error".
func (r Result) Status() string {
	switch {
	case r.Error == nil:
		return "ok"
	case errors.Is(r.Error, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(r.Error, context.Canceled), errors.Is(r.Error, ErrSessionClosed):
		return "cancelled"
	case errors.Is(r.Error, ErrEmptyCode):
		return "invalid"
	}
	var verr *ValidationError
	if errors.As(r.Error, &verr) {
		return "invalid"
	}
	return "error"
}

// InputFunc supplies the value for a simulated stdin read.
type InputFunc func(ctx context.Context, prompt string) (string, error)

// Observer is notified about run activity. Implementations must be safe for
// concurrent use.
type Observer interface {
	RunFinished(language, status string, d time.Duration)
	PromptIssued(language string)
}

// Executor runs the mock interpreter for playground languages.
type Executor struct {
	latency    time.Duration
	maxCodeLen int
	observer   Observer
}

// New creates an Executor.
func New(opts ...ExecutorOption) *Executor {
	cfg := defaultExecutorConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Executor{
		latency:    cfg.latency,
		maxCodeLen: cfg.maxCodeLen,
		observer:   cfg.observer,
	}
}

// MaxCodeLength returns the configured snippet size limit.
func (e *Executor) MaxCodeLength() int {
	return e.maxCodeLen
}

// Run fabricates output for code in the specified language.
func (e *Executor) Run(ctx context.Context, lang Language, code string, opts ...Option) Result {
	start := time.Now()

	cfg := defaultRunConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := Validate(code, e.maxCodeLen); err != nil {
		return e.finish(lang, Result{Error: err, Duration: time.Since(start)})
	}

	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}

	result := e.run(ctx, lang, code, cfg.input)
	result.Duration = time.Since(start)
	if result.Error != nil && errors.Is(result.Error, context.DeadlineExceeded) {
		result.Error = fmt.Errorf("timeout after %v: %w", cfg.timeout, result.Error)
	}
	return e.finish(lang, result)
}

func (e *Executor) run(ctx context.Context, lang Language, code string, input InputFunc) Result {
	if err := e.simulateLatency(ctx); err != nil {
		return Result{Error: err}
	}

	if input != nil {
		input = e.observed(lang, input)
	}

	output, prompts, err := interpret(ctx, lang.Dialect(), code, input)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		} else {
			err = fmt.Errorf("execution failed: %w", err)
		}
		return Result{Output: output, Prompts: prompts, Error: err}
	}
	return Result{Output: output, Prompts: prompts}
}

func (e *Executor) simulateLatency(ctx context.Context) error {
	if e.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(e.latency)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Executor) observed(lang Language, input InputFunc) InputFunc {
	if e.observer == nil {
		return input
	}
	return func(ctx context.Context, prompt string) (string, error) {
		e.observer.PromptIssued(lang.Name())
		return input(ctx, prompt)
	}
}

func (e *Executor) finish(lang Language, r Result) Result {
	if e.observer != nil {
		e.observer.RunFinished(lang.Name(), r.Status(), r.Duration)
	}
	return r
}

// queueInput answers prompts from values in order.
func queueInput(values []string) InputFunc {
	var mu sync.Mutex
	next := 0
	return func(ctx context.Context, prompt string) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		mu.Lock()
		defer mu.Unlock()
		if next >= len(values) {
			return "", fmt.Errorf("%w: prompt %q after %d value(s)", ErrInputExhausted, prompt, len(values))
		}
		v := values[next]
		next++
		return v, nil
	}
}
