package java

import (
	"context"
	"testing"

	"github.com/caffeineduck/codehub/executor"
)

func TestJavaSampleWithInput(t *testing.T) {
	exec := executor.New(executor.WithLatency(0))

	result := exec.Run(context.Background(), New(), New().Sample(), executor.WithInputs("Ada"))
	if result.Error != nil {
		t.Fatalf("unexpected error: %v", result.Error)
	}
	want := "Java output:\nEnter input for .nextLine(): Ada\nHello, \" + name + \"!\n"
	if result.Output != want {
		t.Errorf("expected %q, got %q", want, result.Output)
	}
}

func TestJavaInputTrigger(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"Scanner s = new Scanner(System.in);\nString l = s.nextLine();", true},
		{"Scanner s = new Scanner(System.in);\nint n = s.nextInt();", false},
		{"Scanner s = new Scanner(System.in);\nint n = s.nextInt();\nString l = s.nextLine();", true},
		{"String w = in.next();", true},
		{"int n = reader.nextInt();", false},
		{`System.out.println("hi");`, false},
	}

	for _, tt := range tests {
		if got := readsScanner(tt.code); got != tt.want {
			t.Errorf("readsScanner(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestJavaTypedReadWithoutNextLine(t *testing.T) {
	exec := executor.New(executor.WithLatency(0))

	result := exec.Run(context.Background(), New(), "Scanner s = new Scanner(System.in);\nint n = s.nextInt();",
		executor.WithInputs("5"))
	if result.Error != nil {
		t.Fatalf("unexpected error: %v", result.Error)
	}
	if result.Output != "Java code compiled and executed successfully!" {
		t.Errorf("unexpected output %q", result.Output)
	}
	if result.Prompts != 0 {
		t.Errorf("expected no prompts, got %d", result.Prompts)
	}
}

func TestJavaMixedReadsPromptForEach(t *testing.T) {
	exec := executor.New(executor.WithLatency(0))

	code := "Scanner s = new Scanner(System.in);\nint n = s.nextInt();\nString l = s.nextLine();"
	result := exec.Run(context.Background(), New(), code, executor.WithInputs("5", "hi"))
	if result.Error != nil {
		t.Fatalf("unexpected error: %v", result.Error)
	}
	want := "Java output:\nEnter input for .nextInt(): 5\nEnter input for .nextLine(): hi\n"
	if result.Output != want {
		t.Errorf("expected %q, got %q", want, result.Output)
	}
}

func TestJavaPrintln(t *testing.T) {
	exec := executor.New(executor.WithLatency(0))

	result := exec.Run(context.Background(), New(), `System.out.println("Hi");`)
	if result.Output != "Java output: Hi" {
		t.Errorf("unexpected output %q", result.Output)
	}

	result = exec.Run(context.Background(), New(), `class Main {}`)
	if result.Output != "Java code compiled and executed successfully!" {
		t.Errorf("unexpected output %q", result.Output)
	}
}
