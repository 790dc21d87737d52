// Package download turns the editor contents into a code.<ext> file.
package download

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/caffeineduck/codehub/executor"
	"github.com/caffeineduck/codehub/language"
)

// FileName returns code.<ext> for tag, or code.txt for an unknown tag.
func FileName(tag string) string {
	return language.FileName(tag)
}

// Write copies code to w. Whitespace-only code is rejected.
func Write(w io.Writer, code, tag string) error {
	if strings.TrimSpace(code) == "" {
		return executor.ErrEmptyCode
	}
	_, err := io.WriteString(w, code)
	return err
}

// Attach serves code as a plain text attachment named after tag.
func Attach(w http.ResponseWriter, code, tag string) error {
	if strings.TrimSpace(code) == "" {
		return executor.ErrEmptyCode
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", FileName(tag)))
	w.WriteHeader(http.StatusOK)
	return Write(w, code, tag)
}

// SaveFile writes code to dir/code.<ext> and returns the path written.
// An empty dir means the working directory.
func SaveFile(dir, code, tag string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", executor.ErrEmptyCode
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}

	path := filepath.Join(dir, FileName(tag))
	if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
