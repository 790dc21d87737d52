// Package share encodes playground state into links and back.
//
// A link is the playground address with a single code query parameter
// holding the JSON form of [CodeData], escaped the way browsers escape a
// URI component:
//
//	http://localhost:8080?code=%7B%22code%22%3A%22print(1)%22%2C%22language%22%3A%22python%22%7D
package share

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/caffeineduck/codehub/language"
)

// MaxLinkLength bounds the links accepted by Decode and produced by Encode.
const MaxLinkLength = 64 * 1024

// Param is the query parameter carrying shared code.
const Param = "code"

var (
	ErrNotShared       = errors.New("link does not carry shared code")
	ErrMalformed       = errors.New("shared code is malformed")
	ErrUnknownLanguage = errors.New("shared code names an unknown language")
	ErrTooLong         = errors.New("share link is too long")
)

// CodeData is the state captured in a share link.
type CodeData struct {
	Code     string `json:"code"`
	Language string `json:"language"`
	Output   string `json:"output,omitempty"`
}

// Encode returns base with data attached as the code parameter. Any query
// or fragment already on base is dropped.
func Encode(base string, data CodeData) (string, error) {
	if _, ok := language.Lookup(data.Language); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, data.Language)
	}

	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base url: %w", err)
	}
	u.RawQuery = ""
	u.Fragment = ""
	u.RawFragment = ""

	var raw bytes.Buffer
	enc := json.NewEncoder(&raw)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		return "", err
	}

	link := u.String() + "?" + Param + "=" + EscapeComponent(strings.TrimSuffix(raw.String(), "\n"))
	if len(link) > MaxLinkLength {
		return "", fmt.Errorf("%w: %d bytes (max %d)", ErrTooLong, len(link), MaxLinkLength)
	}
	return link, nil
}

// Decode extracts the shared state from a full link.
func Decode(link string) (CodeData, error) {
	if len(link) > MaxLinkLength {
		return CodeData{}, fmt.Errorf("%w: %d bytes (max %d)", ErrTooLong, len(link), MaxLinkLength)
	}

	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return CodeData{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	q, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return CodeData{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if !q.Has(Param) {
		return CodeData{}, ErrNotShared
	}
	return DecodeParam(q.Get(Param))
}

// DecodeParam parses an already unescaped code parameter.
func DecodeParam(value string) (CodeData, error) {
	if value == "" {
		return CodeData{}, ErrNotShared
	}
	if len(value) > MaxLinkLength {
		return CodeData{}, fmt.Errorf("%w: %d bytes (max %d)", ErrTooLong, len(value), MaxLinkLength)
	}

	var data CodeData
	if err := json.Unmarshal([]byte(value), &data); err != nil {
		return CodeData{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if _, ok := language.Lookup(data.Language); !ok {
		return CodeData{}, fmt.Errorf("%w: %q", ErrUnknownLanguage, data.Language)
	}
	return data, nil
}

// EscapeComponent percent-encodes s as a URI component. Only ASCII letters,
// digits and - _ . ! ~ * ' ( ) are left as is.
func EscapeComponent(s string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
