package engine

import (
	"fmt"
	"strings"

	"github.com/hugo-lorenzo-mato/tutor-ai/internal/core"
)

// keyPhraseMaxWords bounds the second-level hint extracted from the
// question text.
const keyPhraseMaxWords = 6

// hintFor returns the progressive hint for a question given the number
// of incorrect attempts so far. Escalation never names the answer:
//
//	0 failed attempts: the authored hint as written
//	1 failed attempt:  a re-focus on the question's key phrase
//	2 failed attempts: elimination framing tied to the objective
//	3 failed attempts: narrowing, key phrase tied back to the material
//	4+ failed attempts: capped final hint, repeated verbatim
func hintFor(q core.MCQ, obj core.LearningObjective, attempts int) string {
	switch {
	case attempts <= 0:
		return authoredHint(q)
	case attempts == 1:
		return fmt.Sprintf("Focus on this: %s", keyPhrase(q.Question))
	case attempts == 2:
		return eliminationHint(obj)
	case attempts == 3:
		return narrowingHint(q, obj)
	default:
		return finalHint(obj)
	}
}

func authoredHint(q core.MCQ) string {
	if strings.TrimSpace(q.Hint) != "" {
		return q.Hint
	}
	return "Re-read the question and consider what each option would imply."
}

// keyPhrase extracts the first clause of a question, capped at a few words.
func keyPhrase(text string) string {
	clause := text
	if i := strings.IndexAny(text, "?.,;:"); i > 0 {
		clause = text[:i]
	}
	words := strings.Fields(clause)
	if len(words) > keyPhraseMaxWords {
		words = words[:keyPhraseMaxWords]
	}
	return strings.Join(words, " ")
}

func eliminationHint(obj core.LearningObjective) string {
	if obj.Title != "" {
		return fmt.Sprintf(
			"Try elimination: rule out the options that clearly contradict what you know about %s.",
			obj.Title)
	}
	return "Try elimination: rule out the options that clearly contradict the material."
}

func narrowingHint(q core.MCQ, obj core.LearningObjective) string {
	phrase := keyPhrase(q.Question)
	if obj.Title != "" {
		return fmt.Sprintf(
			"Narrow it down: find what the material on %s says about %q, then pick the option that matches it.",
			obj.Title, phrase)
	}
	return fmt.Sprintf(
		"Narrow it down: find what the material says about %q, then pick the option that matches it.",
		phrase)
}

func finalHint(obj core.LearningObjective) string {
	if obj.Title != "" {
		return fmt.Sprintf(
			"Go back to the section about %s and compare each remaining option against it carefully.",
			obj.Title)
	}
	return "Go back to the source material and compare each remaining option against it carefully."
}
