package extract

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hugo-lorenzo-mato/tutor-ai/internal/core"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestExtract_ReadsPlainText(t *testing.T) {
	content := strings.Repeat("every word counts here ", 20)
	path := writeFile(t, "doc.txt", content+"\n")

	e := New()
	got, err := e.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got != strings.TrimSpace(content+"\n") {
		t.Fatalf("content mismatch")
	}
}

func TestExtract_MissingFile(t *testing.T) {
	e := New()
	_, err := e.Extract(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
	if !core.IsCategory(err, core.ErrCatValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), core.CodeFileNotFound) {
		t.Fatalf("expected FILE_NOT_FOUND code, got %v", err)
	}
}

func TestExtract_TooShort(t *testing.T) {
	path := writeFile(t, "short.txt", "just a few words")
	e := New()
	_, err := e.Extract(context.Background(), path)
	if err == nil {
		t.Fatalf("expected error for short content")
	}
	if !strings.Contains(err.Error(), core.CodeUnreadableContent) {
		t.Fatalf("expected UNREADABLE_CONTENT code, got %v", err)
	}
}

func TestExtract_BinaryRejected(t *testing.T) {
	path := writeFile(t, "bin.dat", "text with a nul \x00 byte "+strings.Repeat("pad ", 60))
	e := New()
	if _, err := e.Extract(context.Background(), path); err == nil {
		t.Fatalf("expected error for binary content")
	}
}

func TestExtract_MinWordsOption(t *testing.T) {
	path := writeFile(t, "tiny.txt", "five little words right here")
	e := New(WithMinWords(5))
	if _, err := e.Extract(context.Background(), path); err != nil {
		t.Fatalf("expected 5-word document to pass with lowered limit: %v", err)
	}
}
