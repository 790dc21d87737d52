// Package java provides the Java language adapter for codehub.
package java

import (
	"regexp"
	"strings"

	"github.com/caffeineduck/codehub/executor"
)

const sample = `// Java Sample with Input
import java.util.Scanner;

public class Main {
    public static void main(String[] args) {
        Scanner scanner = new Scanner(System.in);
        System.out.print("Enter your name: ");
        String name = scanner.nextLine();
        System.out.println("Hello, " + name + "!");
    }
}`

var (
	scannerPattern = regexp.MustCompile(`\.next(?:Line|Int|Double)?\(\)`)
	printlnPattern = regexp.MustCompile(`System\.out\.println\(["'](.+)["']\)`)
)

// Java implements the executor.Language interface for Java snippets.
type Java struct{}

// New returns a Java language adapter.
func New() *Java {
	return &Java{}
}

func (j *Java) Name() string        { return "java" }
func (j *Java) DisplayName() string { return "Java" }
func (j *Java) Extension() string   { return "java" }
func (j *Java) Sample() string      { return sample }

// Dialect prompts once per Scanner read. Input mode needs a Scanner plus a
// .nextLine() call, or a bare .next() call; once in input mode, nextInt and
// nextDouble reads prompt too.
func (j *Java) Dialect() executor.Dialect {
	return executor.Dialect{
		Banner:       "Java output",
		Success:      "Java code compiled and executed successfully!",
		Fallback:     "Hello from Java",
		PrintMarker:  "System.out.println",
		PrintPattern: printlnPattern,
		InputTrigger: readsScanner,
		InputPattern: scannerPattern,
		Prompt: func(m []string) string {
			return "Enter input for " + m[0] + ":"
		},
		Echo: func(prompt string, _ []string, value string) string {
			return prompt + " " + value
		},
	}
}

func readsScanner(code string) bool {
	if strings.Contains(code, ".next()") {
		return true
	}
	return strings.Contains(code, "Scanner") && strings.Contains(code, ".nextLine()")
}
