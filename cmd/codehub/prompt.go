package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

var errInputAborted = errors.New("input aborted")

// lineReader serialises Readline calls on one goroutine. A read abandoned
// because its context ended stays pending, and the line it eventually
// returns goes to the next caller instead of being lost. Callers must not
// read concurrently.
type lineReader struct {
	readLine  func() (string, error)
	setPrompt func(string)
	prompt    string

	want    chan struct{}
	lines   chan readResult
	pending bool
}

type readResult struct {
	value string
	err   error
}

func newLineReader(rl *readline.Instance, prompt string) *lineReader {
	return startLineReader(rl.Readline, rl.SetPrompt, prompt)
}

func startLineReader(read func() (string, error), setPrompt func(string), prompt string) *lineReader {
	lr := &lineReader{
		readLine:  read,
		setPrompt: setPrompt,
		prompt:    prompt,
		want:      make(chan struct{}),
		lines:     make(chan readResult, 1),
	}
	go lr.loop()
	return lr
}

func (lr *lineReader) loop() {
	for range lr.want {
		v, err := lr.readLine()
		lr.lines <- readResult{v, err}
	}
}

func (lr *lineReader) read(ctx context.Context) (string, error) {
	if !lr.pending {
		lr.want <- struct{}{}
		lr.pending = true
	}
	select {
	case r := <-lr.lines:
		lr.pending = false
		return r.value, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Ask answers an input prompt with the next non-blank line. The regular
// prompt is restored afterwards.
func (lr *lineReader) Ask(ctx context.Context, prompt string) (string, error) {
	lr.setPrompt(promptColor.Sprint(prompt) + " ")
	defer lr.setPrompt(lr.prompt)

	for {
		line, err := lr.read(ctx)
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				return "", errInputAborted
			}
			return "", err
		}
		// Blank answers are ignored, as in the playground.
		if strings.TrimSpace(line) != "" {
			return line, nil
		}
	}
}

// close stops the reader goroutine once any pending read returns.
func (lr *lineReader) close() {
	close(lr.want)
}

// terminalPrompter answers input prompts for one-shot runs. The readline
// instance is created on the first prompt.
type terminalPrompter struct {
	out io.Writer
	rl  *readline.Instance
	lr  *lineReader
}

func (p *terminalPrompter) Ask(ctx context.Context, prompt string) (string, error) {
	if p.lr == nil {
		rl, err := readline.NewEx(&readline.Config{
			InterruptPrompt: "^C",
			EOFPrompt:       "exit",
			Stdout:          p.out,
		})
		if err != nil {
			return "", fmt.Errorf("initializing readline: %w", err)
		}
		p.rl = rl
		p.lr = newLineReader(rl, "")
	}
	return p.lr.Ask(ctx, prompt)
}

func (p *terminalPrompter) Close() {
	if p.rl != nil {
		p.lr.close()
		p.rl.Close()
	}
}
