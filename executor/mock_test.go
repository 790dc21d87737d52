package executor

import "regexp"

// mockLanguage implements Language for testing executor logic without
// depending on the language packages.
type mockLanguage struct{}

var (
	mockAsk = regexp.MustCompile(`ask\("(.*?)"\)`)
	mockSay = regexp.MustCompile(`say\("(.+)"\)`)
)

func (m *mockLanguage) Name() string        { return "mock" }
func (m *mockLanguage) DisplayName() string { return "Mock" }
func (m *mockLanguage) Extension() string   { return "mock" }
func (m *mockLanguage) Sample() string      { return `say("hi")` }

func (m *mockLanguage) Dialect() Dialect {
	return Dialect{
		Banner:       "Mock output",
		Success:      "Mock ran",
		Fallback:     "mock default",
		PrintMarker:  "say(",
		PrintPattern: mockSay,
		InputMarkers: []string{"ask("},
		InputPattern: mockAsk,
		Prompt: func(m []string) string {
			if m[1] == "" {
				return "?"
			}
			return m[1]
		},
		Echo: func(prompt string, _ []string, value string) string {
			return prompt + " " + value
		},
		Substitute: true,
	}
}

func newTestExecutor(opts ...ExecutorOption) *Executor {
	return New(append([]ExecutorOption{WithLatency(0)}, opts...)...)
}
