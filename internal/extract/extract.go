// Package extract turns source documents into plain text for planning
// and question generation. Only plain-text formats are handled here;
// richer formats belong to external tooling in front of the engine.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hugo-lorenzo-mato/tutor-ai/internal/core"
)

// DefaultMinWords is the minimum word count for usable source content.
const DefaultMinWords = 50

// maxProbeBytes is how much of the file is inspected for binary content.
const maxProbeBytes = 8192

// Extractor reads plain-text documents from the filesystem.
type Extractor struct {
	minWords int
}

// Option configures the extractor.
type Option func(*Extractor)

// WithMinWords overrides the minimum word count.
func WithMinWords(n int) Option {
	return func(e *Extractor) {
		e.minWords = n
	}
}

// New creates an extractor with default limits.
func New(opts ...Option) *Extractor {
	e := &Extractor{minWords: DefaultMinWords}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract reads the document at path and returns its text.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", core.ErrValidation(core.CodeFileNotFound,
				fmt.Sprintf("source document not found: %s", path)).WithCause(err)
		}
		return "", core.ErrValidation(core.CodeUnreadableContent,
			fmt.Sprintf("cannot read source document: %s", path)).WithCause(err)
	}

	probe := data
	if len(probe) > maxProbeBytes {
		probe = probe[:maxProbeBytes]
	}
	if bytes.ContainsRune(probe, 0) {
		return "", core.ErrValidation(core.CodeUnreadableContent,
			fmt.Sprintf("source document is not plain text: %s", path))
	}

	text := strings.TrimSpace(string(data))
	words := len(strings.Fields(text))
	if words < e.minWords {
		return "", core.ErrValidation(core.CodeUnreadableContent,
			fmt.Sprintf("source document too short: %d words, need at least %d", words, e.minWords)).
			WithDetail("words", words)
	}
	return text, nil
}
