package executor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func waitState(t *testing.T, s *Session) Snapshot {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	snap, err := s.Wait(ctx)
	if err != nil {
		t.Fatalf("wait failed: %v", err)
	}
	return snap
}

func waitDone(t *testing.T, s *Session) Snapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !s.Done() {
		if time.Now().After(deadline) {
			t.Fatal("session did not finish")
		}
		time.Sleep(5 * time.Millisecond)
	}
	return s.Snapshot()
}

func TestSessionBasic(t *testing.T) {
	exec := newTestExecutor()

	session, err := exec.NewSession(&mockLanguage{}, `say("hello")`)
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	defer session.Close()

	snap := waitState(t, session)
	if snap.State != StateDone {
		t.Fatalf("expected done, got %s", snap.State)
	}
	if snap.Output != "Mock output: hello" {
		t.Errorf("unexpected output %q", snap.Output)
	}
	if !session.Done() {
		t.Error("expected Done to report true")
	}
}

func TestSessionPromptsAndResumes(t *testing.T) {
	exec := newTestExecutor()

	code := `a = ask("First")` + "\n" + `say(ask("Second"))`
	session, err := exec.NewSession(&mockLanguage{}, code)
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	defer session.Close()

	snap := waitState(t, session)
	if snap.State != StateWaiting || snap.Prompt != "First" {
		t.Fatalf("expected waiting on First, got %s %q", snap.State, snap.Prompt)
	}
	if snap.Output != "Running...\nFirst " {
		t.Errorf("unexpected transcript %q", snap.Output)
	}

	if err := session.Provide("one"); err != nil {
		t.Fatalf("provide failed: %v", err)
	}

	snap = waitState(t, session)
	if snap.State != StateWaiting || snap.Prompt != "Second" {
		t.Fatalf("expected waiting on Second, got %s %q", snap.State, snap.Prompt)
	}
	if snap.Output != "Running...\nFirst one\nSecond " {
		t.Errorf("unexpected transcript %q", snap.Output)
	}
	if snap.Prompts != 1 {
		t.Errorf("expected 1 resolved prompt, got %d", snap.Prompts)
	}

	if err := session.Provide("two"); err != nil {
		t.Fatalf("provide failed: %v", err)
	}

	snap = waitState(t, session)
	if snap.State != StateDone {
		t.Fatalf("expected done, got %s", snap.State)
	}
	want := "Mock output:\nFirst one\nSecond two\ntwo\n"
	if snap.Output != want {
		t.Errorf("expected %q, got %q", want, snap.Output)
	}
	if snap.Prompts != 2 {
		t.Errorf("expected 2 prompts, got %d", snap.Prompts)
	}
}

func TestSessionRejectsBlankInput(t *testing.T) {
	exec := newTestExecutor()

	session, err := exec.NewSession(&mockLanguage{}, `ask("A")`)
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	defer session.Close()

	waitState(t, session)

	if err := session.Provide("  "); !errors.Is(err, ErrBlankInput) {
		t.Errorf("expected ErrBlankInput, got %v", err)
	}
	if snap := session.Snapshot(); snap.State != StateWaiting {
		t.Errorf("blank input should leave the prompt pending, got %s", snap.State)
	}
}

func TestSessionProvideWhenNotWaiting(t *testing.T) {
	exec := newTestExecutor()

	session, err := exec.NewSession(&mockLanguage{}, `say("x")`)
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	defer session.Close()

	waitState(t, session)

	if err := session.Provide("x"); !errors.Is(err, ErrNotWaiting) {
		t.Errorf("expected ErrNotWaiting, got %v", err)
	}
}

func TestSessionClose(t *testing.T) {
	exec := newTestExecutor()

	session, err := exec.NewSession(&mockLanguage{}, `ask("A")`)
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	waitState(t, session)

	if err := session.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if err := session.Close(); err != nil {
		t.Fatalf("second close failed: %v", err)
	}

	snap := waitDone(t, session)
	if !errors.Is(snap.Error, context.Canceled) {
		t.Errorf("expected cancellation, got %v", snap.Error)
	}
	if !strings.HasPrefix(snap.Output, "Error: ") {
		t.Errorf("expected error output, got %q", snap.Output)
	}

	if err := session.Provide("x"); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("expected ErrSessionClosed, got %v", err)
	}
}

func TestSessionTimeout(t *testing.T) {
	exec := newTestExecutor()

	session, err := exec.NewSession(&mockLanguage{}, `ask("A")`, WithSessionTimeout(30*time.Millisecond))
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	defer session.Close()

	snap := waitDone(t, session)
	if !errors.Is(snap.Error, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", snap.Error)
	}
}

func TestNewSessionValidates(t *testing.T) {
	exec := newTestExecutor()

	if _, err := exec.NewSession(&mockLanguage{}, ""); !errors.Is(err, ErrEmptyCode) {
		t.Errorf("expected ErrEmptyCode, got %v", err)
	}
}
