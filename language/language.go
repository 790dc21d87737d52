// Package language is the registry of playground languages.
package language

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/caffeineduck/codehub/executor"
	"github.com/caffeineduck/codehub/language/cpp"
	"github.com/caffeineduck/codehub/language/html"
	"github.com/caffeineduck/codehub/language/java"
	"github.com/caffeineduck/codehub/language/javascript"
	"github.com/caffeineduck/codehub/language/python"
)

// ErrUnknown is returned by Parse for a tag that names no language.
var ErrUnknown = errors.New("unknown language")

// all is in selector order.
var all = []executor.Language{
	python.New(),
	cpp.New(),
	java.New(),
	javascript.New(),
	html.New(),
}

var aliases = map[string]string{
	"py":      "python",
	"python3": "python",
	"c++":     "cpp",
	"cxx":     "cpp",
	"js":      "javascript",
	"node":    "javascript",
	"htm":     "html",
}

// All returns the supported languages in selector order.
func All() []executor.Language {
	out := make([]executor.Language, len(all))
	copy(out, all)
	return out
}

// Default returns the language selected when the playground opens.
func Default() executor.Language {
	return all[0]
}

// Lookup returns the language with exactly the given tag.
func Lookup(tag string) (executor.Language, bool) {
	for _, l := range all {
		if l.Name() == tag {
			return l, true
		}
	}
	return nil, false
}

// Parse resolves a tag or a common alias, ignoring case.
func Parse(s string) (executor.Language, error) {
	tag := strings.ToLower(strings.TrimSpace(s))
	if a, ok := aliases[tag]; ok {
		tag = a
	}
	if l, ok := Lookup(tag); ok {
		return l, nil
	}
	return nil, fmt.Errorf("%w %q: use one of %s", ErrUnknown, s, strings.Join(Tags(), ", "))
}

// FromFilename picks a language from a file extension.
func FromFilename(name string) (executor.Language, bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if ext == "" {
		return nil, false
	}
	for _, l := range all {
		if l.Extension() == ext {
			return l, true
		}
	}
	switch ext {
	case "mjs", "cjs":
		return Lookup("javascript")
	case "cc", "cxx", "hpp", "h":
		return Lookup("cpp")
	case "htm":
		return Lookup("html")
	}
	return nil, false
}

// Tags returns the language tags in selector order.
func Tags() []string {
	tags := make([]string, len(all))
	for i, l := range all {
		tags[i] = l.Name()
	}
	return tags
}

// IsSample reports whether code is empty or one of the starter snippets,
// i.e. whether it may be replaced without losing user edits.
func IsSample(code string) bool {
	if code == "" {
		return true
	}
	for _, l := range all {
		if code == l.Sample() {
			return true
		}
	}
	return false
}

// Switch returns the code to show after the user selects to. The editor
// contents are replaced by to's sample only if they hold no user edits.
func Switch(current string, to executor.Language) (code string, replaced bool) {
	if IsSample(current) {
		return to.Sample(), true
	}
	return current, false
}

// FileName returns the download name for tag, falling back to code.txt.
func FileName(tag string) string {
	if l, ok := Lookup(tag); ok {
		return "code." + l.Extension()
	}
	return "code.txt"
}
