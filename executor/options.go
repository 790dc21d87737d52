package executor

import (
	"time"
)

// Option configures a single run.
type Option func(*runConfig)

type runConfig struct {
	timeout time.Duration
	input   InputFunc
}

func defaultRunConfig() runConfig {
	return runConfig{
		timeout: 30 * time.Second,
	}
}

// WithTimeout sets the maximum time a run may take, including time spent
// waiting for input. Zero disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *runConfig) {
		c.timeout = d
	}
}

// WithInput answers input prompts with fn. Without it, code that reads input
// produces the "input handling is not available" message.
func WithInput(fn InputFunc) Option {
	return func(c *runConfig) {
		c.input = fn
	}
}

// WithInputs answers prompts from a fixed queue of values, in order.
// A prompt issued after the queue is drained fails with ErrInputExhausted.
// Passing no values is the same as not configuring input at all.
//
// Examples:
//
//	exec.Run(ctx, python.New(), code, executor.WithInputs("Ada"))
//	exec.Run(ctx, cpp.New(), code, executor.WithInputs("3", "4"))
func WithInputs(values ...string) Option {
	return func(c *runConfig) {
		if len(values) == 0 {
			c.input = nil
			return
		}
		c.input = queueInput(values)
	}
}

// ExecutorOption configures the Executor at creation time.
type ExecutorOption func(*executorConfig)

type executorConfig struct {
	latency    time.Duration
	maxCodeLen int
	observer   Observer
}

func defaultExecutorConfig() executorConfig {
	return executorConfig{
		latency:    DefaultLatency,
		maxCodeLen: DefaultMaxCodeLength,
	}
}

// DefaultLatency is the simulated compile-and-run delay.
const DefaultLatency = time.Second

// WithLatency sets the simulated delay applied before every run.
// Tests use WithLatency(0).
func WithLatency(d time.Duration) ExecutorOption {
	return func(c *executorConfig) {
		c.latency = d
	}
}

// WithMaxCodeLength sets the largest snippet accepted, in bytes.
// Zero disables the limit.
func WithMaxCodeLength(n int) ExecutorOption {
	return func(c *executorConfig) {
		c.maxCodeLen = n
	}
}

// WithObserver registers a hook notified about finished runs and prompts.
func WithObserver(o Observer) ExecutorOption {
	return func(c *executorConfig) {
		c.observer = o
	}
}
