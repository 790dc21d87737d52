package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"
)

// scriptedTerminal stands in for readline: each read blocks until a line is
// fed, and every prompt change is recorded.
type scriptedTerminal struct {
	feed chan readResult

	mu      sync.Mutex
	prompts []string
}

func newScriptedTerminal() *scriptedTerminal {
	return &scriptedTerminal{feed: make(chan readResult)}
}

func (s *scriptedTerminal) read() (string, error) {
	r := <-s.feed
	return r.value, r.err
}

func (s *scriptedTerminal) setPrompt(p string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, p)
}

func (s *scriptedTerminal) lastPrompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.prompts) == 0 {
		return ""
	}
	return s.prompts[len(s.prompts)-1]
}

func (s *scriptedTerminal) reader() *lineReader {
	return startLineReader(s.read, s.setPrompt, "> ")
}

func TestLineReaderAskSkipsBlankLines(t *testing.T) {
	term := newScriptedTerminal()
	lr := term.reader()
	defer lr.close()

	go func() {
		term.feed <- readResult{value: "   "}
		term.feed <- readResult{value: "Ada"}
	}()

	got, err := lr.Ask(context.Background(), "Name:")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Ada" {
		t.Errorf("expected Ada, got %q", got)
	}
	if p := term.lastPrompt(); p != "> " {
		t.Errorf("prompt should be restored, got %q", p)
	}
}

func TestLineReaderAskEOF(t *testing.T) {
	term := newScriptedTerminal()
	lr := term.reader()
	defer lr.close()

	go func() { term.feed <- readResult{err: io.EOF} }()

	if _, err := lr.Ask(context.Background(), "Name:"); !errors.Is(err, errInputAborted) {
		t.Errorf("expected errInputAborted, got %v", err)
	}
}

func TestLineReaderAskHonoursContext(t *testing.T) {
	term := newScriptedTerminal()
	lr := term.reader()
	defer lr.close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := lr.Ask(ctx, "Name:")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("ask should give up at the deadline, took %v", elapsed)
	}

	// The abandoned read is still pending; its line goes to the next caller.
	go func() { term.feed <- readResult{value: ":show"} }()
	line, err := lr.read(context.Background())
	if err != nil || line != ":show" {
		t.Errorf("expected the late line to be delivered, got %q, %v", line, err)
	}
}

func TestPlaygroundRunTimesOutWhileWaitingForInput(t *testing.T) {
	term := newScriptedTerminal()
	lr := term.reader()
	defer lr.close()

	var out bytes.Buffer
	p := newTestPlayground(&out)
	p.ask = lr.Ask
	p.timeout = 50 * time.Millisecond

	p.handle(context.Background(), ":clear")
	p.handle(context.Background(), `name = input("Who?")`)

	done := make(chan struct{})
	go func() {
		p.handle(context.Background(), ":run")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal(":run should stop at its timeout without an answer")
	}
	if !strings.Contains(out.String(), "Error:") || !strings.Contains(out.String(), "timeout") {
		t.Errorf("expected a timeout error, got %q", out.String())
	}
	if prompt := term.lastPrompt(); prompt != "> " {
		t.Errorf("playground prompt should be restored, got %q", prompt)
	}

	go func() { term.feed <- readResult{value: ":quit"} }()
	line, err := lr.read(context.Background())
	if err != nil || !p.handle(context.Background(), line) {
		t.Errorf("next line should reach the playground, got %q, %v", line, err)
	}
}
