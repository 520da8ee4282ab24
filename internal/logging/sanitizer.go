package logging

import (
	"fmt"
	"regexp"
)

const redactedMarker = "[REDACTED]"

// Sanitizer redacts credentials from log text before any handler sees
// it. The model CLI subprocess inherits provider API keys through its
// environment, and config values sometimes surface in error messages,
// so every record passes through here.
type Sanitizer struct {
	patterns []*regexp.Regexp
}

// providerTokenShapes match the key formats of the vendors a model CLI
// can front: Anthropic, OpenAI-compatible tools, and Google AI, plus
// raw bearer tokens.
var providerTokenShapes = []string{
	`sk-ant-[A-Za-z0-9-]{40,}`,
	`sk-[A-Za-z0-9]{20,}`,
	`AIza[A-Za-z0-9_-]{35}`,
	`(?i)bearer\s+[A-Za-z0-9._-]{16,}`,
}

// secretKeys are config and environment names whose values never
// belong in a log line. Matched in key=value, key: value, and quoted
// forms.
var secretKeys = []string{
	"anthropic_api_key",
	"openai_api_key",
	"gemini_api_key",
	"google_api_key",
	"api_key",
	"apikey",
	"token",
	"secret",
	"password",
}

// NewSanitizer compiles the default redaction set.
func NewSanitizer() *Sanitizer {
	patterns := make([]*regexp.Regexp, 0, len(providerTokenShapes)+len(secretKeys))
	for _, shape := range providerTokenShapes {
		patterns = append(patterns, regexp.MustCompile(shape))
	}
	for _, key := range secretKeys {
		patterns = append(patterns, regexp.MustCompile(
			fmt.Sprintf(`(?i)\b%s\b["'\s:=]+[^\s"']{8,}`, key)))
	}
	return &Sanitizer{patterns: patterns}
}

// Sanitize replaces every credential match with a fixed marker.
func (s *Sanitizer) Sanitize(input string) string {
	out := input
	for _, pattern := range s.patterns {
		out = pattern.ReplaceAllString(out, redactedMarker)
	}
	return out
}
