// Package editor is the line buffer behind the terminal playground.
package editor

import (
	"fmt"
	"strings"
)

// TabWidth is the number of spaces a tab expands to.
const TabWidth = 4

var tab = strings.Repeat(" ", TabWidth)

// Buffer holds the code being edited. The zero value is an empty buffer.
type Buffer struct {
	lines []string
}

// Set replaces the contents with code.
func (b *Buffer) Set(code string) {
	if code == "" {
		b.lines = nil
		return
	}
	b.lines = strings.Split(code, "\n")
}

// Append adds one line, expanding tabs.
func (b *Buffer) Append(line string) {
	b.lines = append(b.lines, strings.ReplaceAll(line, "\t", tab))
}

// Text returns the contents joined with newlines.
func (b *Buffer) Text() string {
	return strings.Join(b.lines, "\n")
}

// Lines returns a copy of the lines.
func (b *Buffer) Lines() []string {
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// Len returns the number of lines.
func (b *Buffer) Len() int {
	return len(b.lines)
}

// Numbered renders the contents with a right-aligned line number gutter.
// An empty buffer renders as a single numbered blank line.
func (b *Buffer) Numbered() string {
	lines := b.lines
	if len(lines) == 0 {
		lines = []string{""}
	}
	width := len(fmt.Sprint(len(lines)))

	var sb strings.Builder
	for i, l := range lines {
		fmt.Fprintf(&sb, "%*d | %s\n", width, i+1, l)
	}
	return sb.String()
}

func (b *Buffer) Clear() {
	b.lines = nil
}

// Empty reports whether the buffer holds only whitespace.
func (b *Buffer) Empty() bool {
	return strings.TrimSpace(b.Text()) == ""
}
