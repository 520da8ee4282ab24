package engine

import (
	"strings"
	"testing"

	"github.com/hugo-lorenzo-mato/tutor-ai/internal/core"
)

func TestHintFor_Escalation(t *testing.T) {
	q := core.MCQ{
		Question: "When must a cache entry be invalidated after a write?",
		Hint:     "Consider the cache invalidation rules, especially on writes.",
	}
	obj := core.LearningObjective{Title: "Caching"}

	tests := []struct {
		name     string
		attempts int
		want     string
	}{
		{"authored hint", 0, "Consider the cache invalidation rules, especially on writes."},
		{"key phrase", 1, "Focus on this: When must a cache entry be"},
		{"elimination", 2, "Try elimination: rule out the options that clearly contradict what you know about Caching."},
		{"narrowing", 3, `Narrow it down: find what the material on Caching says about "When must a cache entry be", then pick the option that matches it.`},
		{"capped", 4, "Go back to the section about Caching and compare each remaining option against it carefully."},
		{"capped stays capped", 7, "Go back to the section about Caching and compare each remaining option against it carefully."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hintFor(q, obj, tt.attempts); got != tt.want {
				t.Errorf("hintFor(attempts=%d) = %q, want %q", tt.attempts, got, tt.want)
			}
		})
	}
}

func TestHintFor_MissingAuthoredHint(t *testing.T) {
	q := core.MCQ{Hint: "   "}
	got := hintFor(q, core.LearningObjective{}, 0)
	if !strings.Contains(got, "Re-read the question") {
		t.Errorf("fallback hint missing, got %q", got)
	}
}

func TestHintFor_NeverNamesOptions(t *testing.T) {
	q := core.MCQ{
		Options:       []string{"alpha", "beta", "gamma", "delta"},
		CorrectAnswer: 2,
		Hint:          "Think about ordering guarantees.",
	}
	obj := core.LearningObjective{Title: "Ordering"}
	for attempts := 0; attempts < 6; attempts++ {
		hint := hintFor(q, obj, attempts)
		if strings.Contains(strings.ToLower(hint), "gamma") {
			t.Fatalf("hint at %d attempts names the answer: %q", attempts, hint)
		}
	}
}

func TestKeyPhrase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Which option wins?", "Which option wins"},
		{"First clause, second clause", "First clause"},
		{"one two three four five six seven eight", "one two three four five six"},
		{"No punctuation here", "No punctuation here"},
	}
	for _, tt := range tests {
		if got := keyPhrase(tt.in); got != tt.want {
			t.Errorf("keyPhrase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
