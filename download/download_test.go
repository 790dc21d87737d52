package download

import (
	"bytes"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/caffeineduck/codehub/executor"
)

func TestAttach(t *testing.T) {
	rec := httptest.NewRecorder()

	if err := Attach(rec, "print(1)", "python"); err != nil {
		t.Fatalf("attach failed: %v", err)
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="code.py"` {
		t.Errorf("unexpected disposition %q", got)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/plain; charset=utf-8" {
		t.Errorf("unexpected content type %q", got)
	}
	if rec.Body.String() != "print(1)" {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}

func TestAttachUnknownLanguage(t *testing.T) {
	rec := httptest.NewRecorder()

	if err := Attach(rec, "hello", "ruby"); err != nil {
		t.Fatalf("attach failed: %v", err)
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="code.txt"` {
		t.Errorf("unexpected disposition %q", got)
	}
}

func TestRejectsEmptyCode(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, " \n ", "python"); !errors.Is(err, executor.ErrEmptyCode) {
		t.Errorf("expected ErrEmptyCode, got %v", err)
	}

	rec := httptest.NewRecorder()
	if err := Attach(rec, "", "python"); !errors.Is(err, executor.ErrEmptyCode) {
		t.Errorf("expected ErrEmptyCode, got %v", err)
	}
	if rec.Header().Get("Content-Disposition") != "" {
		t.Error("no attachment headers expected for empty code")
	}

	if _, err := SaveFile(t.TempDir(), "", "python"); !errors.Is(err, executor.ErrEmptyCode) {
		t.Errorf("expected ErrEmptyCode, got %v", err)
	}
}

func TestSaveFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	path, err := SaveFile(dir, "int main() {}", "cpp")
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if path != filepath.Join(dir, "code.cpp") {
		t.Errorf("unexpected path %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != "int main() {}" {
		t.Errorf("unexpected contents %q", data)
	}
}
