// Package cpp provides the C++ language adapter for codehub.
package cpp

import (
	"regexp"

	"github.com/caffeineduck/codehub/executor"
)

const sample = `// C++ Sample with Input
#include <iostream>
using namespace std;

int main() {
    string name;
    cout << "Enter your name: ";
    cin >> name;
    cout << "Hello, " << name << "!" << endl;
    return 0;
}`

var (
	cinPattern  = regexp.MustCompile(`cin\s*>>\s*(\w+)`)
	coutPattern = regexp.MustCompile(`cout\s*<<\s*["'](.+)["']`)
)

// CPP implements the executor.Language interface for C++ snippets.
type CPP struct{}

// New returns a C++ language adapter.
func New() *CPP {
	return &CPP{}
}

func (c *CPP) Name() string        { return "cpp" }
func (c *CPP) DisplayName() string { return "C++" }
func (c *CPP) Extension() string   { return "cpp" }
func (c *CPP) Sample() string      { return sample }

// Dialect prompts once per `cin >> var` and echoes the assignment.
func (c *CPP) Dialect() executor.Dialect {
	return executor.Dialect{
		Banner:       "C++ output",
		Success:      "C++ code compiled and executed successfully!",
		Fallback:     "Hello from C++",
		PrintMarker:  "cout <<",
		PrintPattern: coutPattern,
		InputMarkers: []string{"cin >>"},
		InputPattern: cinPattern,
		Prompt: func(m []string) string {
			return "Enter value for " + m[1] + ":"
		},
		Echo: func(_ string, m []string, value string) string {
			return m[1] + " = " + value
		},
	}
}
