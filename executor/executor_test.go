package executor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestRunPrint(t *testing.T) {
	exec := newTestExecutor()

	result := exec.Run(context.Background(), &mockLanguage{}, `say("hello")`)
	if result.Error != nil {
		t.Fatalf("unexpected error: %v", result.Error)
	}
	if result.Output != "Mock output: hello" {
		t.Errorf("expected 'Mock output: hello', got %q", result.Output)
	}
	if result.Status() != "ok" {
		t.Errorf("expected status ok, got %q", result.Status())
	}
}

func TestRunEmptyCode(t *testing.T) {
	exec := newTestExecutor()

	result := exec.Run(context.Background(), &mockLanguage{}, "   \n")
	if !errors.Is(result.Error, ErrEmptyCode) {
		t.Fatalf("expected ErrEmptyCode, got %v", result.Error)
	}
	if result.Output != "" {
		t.Errorf("expected no output, got %q", result.Output)
	}
	if result.Status() != "invalid" {
		t.Errorf("expected status invalid, got %q", result.Status())
	}
}

func TestRunCodeTooLong(t *testing.T) {
	exec := newTestExecutor(WithMaxCodeLength(8))

	result := exec.Run(context.Background(), &mockLanguage{}, `say("too long")`)
	var verr *ValidationError
	if !errors.As(result.Error, &verr) {
		t.Fatalf("expected *ValidationError, got %v", result.Error)
	}
	if exec.MaxCodeLength() != 8 {
		t.Errorf("expected max length 8, got %d", exec.MaxCodeLength())
	}
}

func TestRunWithInputs(t *testing.T) {
	exec := newTestExecutor()

	code := `a = ask("A")` + "\n" + `b = ask("B")`
	result := exec.Run(context.Background(), &mockLanguage{}, code, WithInputs("1", "2"))
	if result.Error != nil {
		t.Fatalf("unexpected error: %v", result.Error)
	}
	if result.Output != "Mock output:\nA 1\nB 2\n" {
		t.Errorf("unexpected output %q", result.Output)
	}
	if result.Prompts != 2 {
		t.Errorf("expected 2 prompts, got %d", result.Prompts)
	}
}

func TestRunWithNoInputValues(t *testing.T) {
	exec := newTestExecutor()

	result := exec.Run(context.Background(), &mockLanguage{}, `ask("A")`, WithInputs())
	if result.Error != nil {
		t.Fatalf("unexpected error: %v", result.Error)
	}
	if result.Output != inputUnavailable {
		t.Errorf("expected unavailable message, got %q", result.Output)
	}
}

func TestRunInputExhausted(t *testing.T) {
	exec := newTestExecutor()

	code := `ask("A") ask("B")`
	result := exec.Run(context.Background(), &mockLanguage{}, code, WithInputs("1"))
	if !errors.Is(result.Error, ErrInputExhausted) {
		t.Fatalf("expected ErrInputExhausted, got %v", result.Error)
	}
	if !strings.Contains(result.Error.Error(), `prompt "B"`) {
		t.Errorf("expected prompt in error, got %v", result.Error)
	}
	if result.Status() != "error" {
		t.Errorf("expected status error, got %q", result.Status())
	}
}

func TestRunTimeout(t *testing.T) {
	exec := newTestExecutor(WithLatency(time.Second))

	result := exec.Run(context.Background(), &mockLanguage{}, `say("x")`, WithTimeout(20*time.Millisecond))
	if !errors.Is(result.Error, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", result.Error)
	}
	if !strings.Contains(result.Error.Error(), "timeout after") {
		t.Errorf("expected timeout message, got %v", result.Error)
	}
	if result.Status() != "timeout" {
		t.Errorf("expected status timeout, got %q", result.Status())
	}
}

func TestRunTimeoutWhileWaitingForInput(t *testing.T) {
	exec := newTestExecutor()

	block := func(ctx context.Context, prompt string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}

	result := exec.Run(context.Background(), &mockLanguage{}, `ask("A")`,
		WithInput(block), WithTimeout(20*time.Millisecond))
	if result.Status() != "timeout" {
		t.Errorf("expected status timeout, got %q (%v)", result.Status(), result.Error)
	}
	if result.Output != "Mock output:\n" {
		t.Errorf("expected partial transcript, got %q", result.Output)
	}
}

func TestRunCancelled(t *testing.T) {
	exec := newTestExecutor(WithLatency(time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := exec.Run(ctx, &mockLanguage{}, `say("x")`)
	if !errors.Is(result.Error, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", result.Error)
	}
	if result.Status() != "cancelled" {
		t.Errorf("expected status cancelled, got %q", result.Status())
	}
}

func TestRunSimulatesLatency(t *testing.T) {
	exec := newTestExecutor(WithLatency(30 * time.Millisecond))

	result := exec.Run(context.Background(), &mockLanguage{}, `say("x")`)
	if result.Error != nil {
		t.Fatalf("unexpected error: %v", result.Error)
	}
	if result.Duration < 30*time.Millisecond {
		t.Errorf("expected at least 30ms, got %v", result.Duration)
	}
}

func TestObserver(t *testing.T) {
	obs := &RecordingObserver{}
	exec := newTestExecutor(WithObserver(obs))

	exec.Run(context.Background(), &mockLanguage{}, `say("x")`)
	exec.Run(context.Background(), &mockLanguage{}, "")
	exec.Run(context.Background(), &mockLanguage{}, `ask("A")`, WithInputs("1"))

	runs := obs.Runs()
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	want := []string{"ok", "invalid", "ok"}
	for i, r := range runs {
		if r.Language != "mock" || r.Status != want[i] {
			t.Errorf("run %d: expected mock/%s, got %s/%s", i, want[i], r.Language, r.Status)
		}
	}
	if obs.Prompts("mock") != 1 {
		t.Errorf("expected 1 prompt, got %d", obs.Prompts("mock"))
	}
}

func TestConcurrentRuns(t *testing.T) {
	exec := newTestExecutor()

	var wg sync.WaitGroup
	errs := make(chan error, 10)

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result := exec.Run(context.Background(), &mockLanguage{}, `ask("A") ask("B")`, WithInputs("1", "2"))
			if result.Error != nil {
				errs <- result.Error
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent run failed: %v", err)
	}
}

func TestResultStatus(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{ErrSessionClosed, "cancelled"},
		{&ValidationError{Message: "m"}, "invalid"},
		{errors.New("other"), "error"},
	}

	for _, tt := range tests {
		if got := (Result{Error: tt.err}).Status(); got != tt.want {
			t.Errorf("Status(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
