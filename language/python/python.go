// Package python provides the Python language adapter for codehub.
package python

import (
	"regexp"

	"github.com/caffeineduck/codehub/executor"
)

const sample = `# Python Sample with Input
name = input("Enter your name: ")
print(f"Hello, {name}!")
`

var (
	inputPattern = regexp.MustCompile(`input\(['"]?(.*?)['"]?\)`)
	printPattern = regexp.MustCompile(`print\(['"](.+)['"]\)`)
)

// Python implements the executor.Language interface for Python snippets.
type Python struct{}

// New returns a Python language adapter.
func New() *Python {
	return &Python{}
}

// Name returns "python".
func (p *Python) Name() string {
	return "python"
}

// DisplayName returns "Python".
func (p *Python) DisplayName() string {
	return "Python"
}

// Extension returns "py".
func (p *Python) Extension() string {
	return "py"
}

// Sample returns the starter snippet that reads a name and greets it.
func (p *Python) Sample() string {
	return sample
}

// Dialect returns the input()/print() rules. Resolved input() calls are
// substituted with their quoted value before print() is scanned.
func (p *Python) Dialect() executor.Dialect {
	return executor.Dialect{
		Banner:       "Python output",
		Success:      "Python code executed successfully!",
		Fallback:     "Hello from Python",
		PrintMarker:  "print(",
		PrintPattern: printPattern,
		InputMarkers: []string{"input("},
		InputPattern: inputPattern,
		Prompt: func(m []string) string {
			if m[1] == "" {
				return "Enter input:"
			}
			return m[1]
		},
		Echo: func(prompt string, _ []string, value string) string {
			return prompt + " " + value
		},
		Substitute: true,
	}
}
