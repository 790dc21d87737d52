package javascript

import (
	"regexp"

	"github.com/caffeineduck/codehub/executor"
)

const sample = "// JavaScript Sample with Input\n" +
	"const name = prompt(\"Enter your name:\");\n" +
	"console.log(`Hello, ${name}!`);"

var (
	promptPattern = regexp.MustCompile(`prompt\(["'](.+)["']\)`)
	logPattern    = regexp.MustCompile(`console\.log\(["'](.+)["']\)`)
)

// JavaScript implements the executor.Language interface for JavaScript snippets.
type JavaScript struct{}

// New returns a JavaScript language adapter.
func New() *JavaScript {
	return &JavaScript{}
}

// Name returns "javascript".
func (j *JavaScript) Name() string {
	return "javascript"
}

// DisplayName returns "JavaScript".
func (j *JavaScript) DisplayName() string {
	return "JavaScript"
}

// Extension returns "js".
func (j *JavaScript) Extension() string {
	return "js"
}

// Sample returns the prompt()-based starter snippet.
func (j *JavaScript) Sample() string {
	return sample
}

// Dialect returns the prompt()/console.log() rules.
func (j *JavaScript) Dialect() executor.Dialect {
	return executor.Dialect{
		Banner:       "JavaScript output",
		Success:      "JavaScript code executed successfully!",
		Fallback:     "Hello from JavaScript",
		PrintMarker:  "console.log",
		PrintPattern: logPattern,
		InputMarkers: []string{"prompt("},
		InputPattern: promptPattern,
		Prompt: func(m []string) string {
			if m[1] == "" {
				return "Enter input:"
			}
			return m[1]
		},
		Echo: func(prompt string, _ []string, value string) string {
			return prompt + " " + value
		},
	}
}
