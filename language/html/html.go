// Package html provides the HTML language adapter for codehub. HTML is never
// interpreted; runs report that the document would be rendered.
package html

import "github.com/caffeineduck/codehub/executor"

const sample = `<!DOCTYPE html>
<html>
<head>
    <title>Sample HTML</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            margin: 2em;
        }
        h1 {
            color: #0066cc;
        }
    </style>
</head>
<body>
    <h1>Hello, World!</h1>
    <p>This is a sample HTML document.</p>
</body>
</html>`

// HTML implements the executor.Language interface for HTML documents.
type HTML struct{}

// New returns an HTML language adapter.
func New() *HTML {
	return &HTML{}
}

func (h *HTML) Name() string        { return "html" }
func (h *HTML) DisplayName() string { return "HTML" }
func (h *HTML) Extension() string   { return "html" }
func (h *HTML) Sample() string      { return sample }

func (h *HTML) Dialect() executor.Dialect {
	return executor.Dialect{
		Static: "HTML would be rendered in a real environment",
	}
}
