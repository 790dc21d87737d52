package executor

import (
	"context"
	"regexp"
	"strings"
)

// Dialect describes how the mock interpreter recognises output and input
// idioms in one language. Only the first literal argument of a print call is
// ever echoed back; nothing is parsed beyond the patterns below.
type Dialect struct {
	// Banner prefixes fabricated output, e.g. "Python output".
	Banner string
	// Success is returned when the code neither prints nor reads input.
	Success string
	// Fallback stands in for a print call whose argument is not a literal.
	Fallback string
	// Static, when set, is returned for any code.
	Static string

	PrintMarker  string
	PrintPattern *regexp.Regexp

	// InputMarkers trigger input mode when any of them is present, or when
	// all of them are present if RequireAll is set.
	InputMarkers []string
	RequireAll   bool
	// InputTrigger overrides InputMarkers when set.
	InputTrigger func(code string) bool

	InputPattern *regexp.Regexp
	// Prompt builds the prompt text from an InputPattern submatch.
	Prompt func(match []string) string
	// Echo formats the transcript line for a resolved prompt.
	Echo func(prompt string, match []string, value string) string
	// Substitute replaces each matched input call with the quoted value
	// before the print pattern is applied.
	Substitute bool
}

const inputUnavailable = "Error: This code requires user input, but input handling is not available."

func (d Dialect) wantsInput(code string) bool {
	if d.InputPattern == nil {
		return false
	}
	if d.InputTrigger != nil {
		return d.InputTrigger(code)
	}
	if len(d.InputMarkers) == 0 {
		return false
	}
	for _, m := range d.InputMarkers {
		has := strings.Contains(code, m)
		if d.RequireAll && !has {
			return false
		}
		if !d.RequireAll && has {
			return true
		}
	}
	return d.RequireAll
}

func (d Dialect) printed(code string) (string, bool) {
	if d.PrintPattern == nil {
		return "", false
	}
	m := d.PrintPattern.FindStringSubmatch(code)
	if m == nil || len(m) < 2 {
		return "", false
	}
	return m[1], true
}

// interpret fabricates output for code. It returns the output and the number
// of prompts that were resolved. A nil input means no input handling is
// available.
func interpret(ctx context.Context, d Dialect, code string, input InputFunc) (string, int, error) {
	if d.Static != "" {
		return d.Static, 0, nil
	}

	if d.wantsInput(code) {
		if input == nil {
			return inputUnavailable, 0, nil
		}

		var out strings.Builder
		out.WriteString(d.Banner + ":\n")

		scan := code
		prompts := 0
		for _, m := range d.InputPattern.FindAllStringSubmatch(code, -1) {
			prompt := d.Prompt(m)
			value, err := input(ctx, prompt)
			if err != nil {
				return out.String(), prompts, err
			}
			prompts++
			out.WriteString(d.Echo(prompt, m, value) + "\n")
			if d.Substitute {
				scan = strings.Replace(scan, m[0], `"`+value+`"`, 1)
			}
		}

		if d.PrintMarker != "" && strings.Contains(scan, d.PrintMarker) {
			if lit, ok := d.printed(scan); ok {
				out.WriteString(lit + "\n")
			}
		}
		return out.String(), prompts, nil
	}

	if d.PrintMarker != "" && strings.Contains(code, d.PrintMarker) {
		lit, ok := d.printed(code)
		if !ok {
			lit = d.Fallback
		}
		return d.Banner + ": " + lit, 0, nil
	}

	return d.Success, 0, nil
}
