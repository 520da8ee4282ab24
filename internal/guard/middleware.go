package guard

import (
	"regexp"
	"strings"

	"github.com/hugo-lorenzo-mato/tutor-ai/internal/core"
)

// SafeRedirectMessage replaces any response that would disclose the
// concealed answer.
const SafeRedirectMessage = "I can't point you at the answer directly, that would spoil the learning. " +
	"Let's work through the concept instead: re-read the question, think about what each option " +
	"would imply, and tell me which ones you can rule out and why."

// proximityWindow is the number of words around a trigger word within
// which the literal correct option text counts as a disclosure.
const proximityWindow = 8

// disclosurePatterns match phrasings that directly reveal an answer.
var disclosurePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bthe\s+(correct\s+)?answer\s+is\b`),
	regexp.MustCompile(`(?i)\boption\s+([a-d]|[1-4])\s+is\s+(the\s+)?correct\b`),
	regexp.MustCompile(`(?i)\byou\s+should\s+(pick|choose|select)\b`),
	regexp.MustCompile(`(?i)\bthe\s+right\s+(answer|choice|option)\s+is\b`),
	regexp.MustCompile(`(?i)\bcorrect\s+(answer|choice|option)\s*(:|\bis\b)`),
	regexp.MustCompile(`(?i)\banswer\s*:\s*([a-d]|[1-4])\b`),
}

// triggerWords mark places where nearby option text counts as disclosure.
var triggerWords = map[string]bool{
	"answer":  true,
	"correct": true,
	"right":   true,
}

// Filter scans an assistant response for answer disclosure and replaces
// it with the safe redirect when triggered. It runs on every help-agent
// response regardless of which context produced it (defense in depth).
// The returned bool reports whether the response was replaced.
//
// Filter never panics outward: with no active question it fails open
// (nothing to protect); with an active question any internal failure
// fails closed to the redirect message.
func Filter(response string, q *core.MCQ) (result string, replaced bool) {
	if q == nil {
		return response, false
	}
	defer func() {
		if r := recover(); r != nil {
			result = SafeRedirectMessage
			replaced = true
		}
	}()

	for _, pattern := range disclosurePatterns {
		if pattern.MatchString(response) {
			return SafeRedirectMessage, true
		}
	}
	if optionNearTrigger(response, q.CorrectOption()) {
		return SafeRedirectMessage, true
	}
	return response, false
}

// optionNearTrigger reports whether the literal correct option text
// appears within proximityWindow words of a trigger word.
func optionNearTrigger(response, option string) bool {
	option = strings.TrimSpace(strings.ToLower(option))
	if option == "" {
		return false
	}

	words := strings.Fields(strings.ToLower(response))

	// Option words carry the same punctuation trim as response words so
	// forms like "O(n)" or "isn't" still line up.
	var optionWords []string
	for _, w := range strings.Fields(option) {
		if t := trimWord(w); t != "" {
			optionWords = append(optionWords, t)
		}
	}
	if len(optionWords) == 0 || len(words) < len(optionWords) {
		return false
	}

	// Positions where the full option text starts.
	var optionAt []int
	for i := 0; i+len(optionWords) <= len(words); i++ {
		match := true
		for j, ow := range optionWords {
			if trimWord(words[i+j]) != ow {
				match = false
				break
			}
		}
		if match {
			optionAt = append(optionAt, i)
		}
	}
	if len(optionAt) == 0 {
		return false
	}

	for i, w := range words {
		if !triggerWords[trimWord(w)] {
			continue
		}
		for _, pos := range optionAt {
			if abs(pos-i) <= proximityWindow {
				return true
			}
		}
	}
	return false
}

func trimWord(w string) string {
	return strings.Trim(w, `.,;:!?'"()[]{}`)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
