package guard

import (
	"strings"
	"testing"

	"github.com/hugo-lorenzo-mato/tutor-ai/internal/core"
)

func question() *core.MCQ {
	return &core.MCQ{
		ID:            "q1",
		Question:      "Which planet is largest?",
		Options:       []string{"Mars", "Jupiter", "Venus", "Mercury"},
		CorrectAnswer: 1,
	}
}

func TestFilter_DirectDisclosurePatterns(t *testing.T) {
	tests := []string{
		"The answer is B.",
		"the correct answer is Jupiter",
		"Option B is correct here.",
		"option 2 is the correct one",
		"You should pick the second one.",
		"The right choice is obvious.",
		"Correct answer: B",
		"answer: 2",
	}
	for _, response := range tests {
		got, replaced := Filter(response, question())
		if !replaced {
			t.Errorf("expected %q to be replaced", response)
		}
		if got != SafeRedirectMessage {
			t.Errorf("expected safe redirect for %q", response)
		}
	}
}

func TestFilter_OptionTextNearTriggerWord(t *testing.T) {
	response := "Well, Jupiter would be the answer you are looking for."
	got, replaced := Filter(response, question())
	if !replaced {
		t.Fatalf("expected proximity match to trigger replacement")
	}
	if got != SafeRedirectMessage {
		t.Fatalf("expected safe redirect message")
	}
}

func TestFilter_OptionTextFarFromTriggerPasses(t *testing.T) {
	// Mentions the option, but no trigger word within the window.
	response := "Jupiter is a gas giant with a famous storm. " +
		strings.Repeat("It has many moons and a strong magnetic field. ", 3) +
		"Think about what makes a planet large."
	got, replaced := Filter(response, question())
	if replaced {
		t.Fatalf("expected benign response to pass unchanged")
	}
	if got != response {
		t.Fatalf("response was modified")
	}
}

func TestFilter_CleanResponsePasses(t *testing.T) {
	response := "Think about the mass of each planet and compare their diameters."
	got, replaced := Filter(response, question())
	if replaced {
		t.Fatalf("clean response must pass")
	}
	if got != response {
		t.Fatalf("clean response was modified")
	}
}

func TestFilter_NoActiveQuestionFailsOpen(t *testing.T) {
	response := "The answer is whatever you want it to be."
	got, replaced := Filter(response, nil)
	if replaced {
		t.Fatalf("without an active question there is nothing to protect")
	}
	if got != response {
		t.Fatalf("response was modified")
	}
}

func TestFilter_CaseAndPunctuationInsensitive(t *testing.T) {
	response := `So the ANSWER, clearly, is "Jupiter"!`
	if _, replaced := Filter(response, question()); !replaced {
		t.Fatalf("expected case/punctuation-insensitive match")
	}
}

func TestFilter_MultiWordOption(t *testing.T) {
	q := &core.MCQ{
		ID:            "q2",
		Options:       []string{"the mitochondria", "the nucleus", "the ribosome", "the membrane"},
		CorrectAnswer: 0,
	}
	response := "That would be the mitochondria, the correct structure here."
	if _, replaced := Filter(response, q); !replaced {
		t.Fatalf("expected multi-word option near trigger to be caught")
	}
}

func TestFilter_PunctuatedOption(t *testing.T) {
	q := &core.MCQ{
		ID:            "q3",
		Options:       []string{"O(1)", "O(n)", "O(n log n)", "O(n^2)"},
		CorrectAnswer: 1,
	}
	response := "The correct complexity here is O(n)."
	if _, replaced := Filter(response, q); !replaced {
		t.Fatalf("expected punctuated option near trigger to be caught")
	}

	benign := "Big-O notation describes growth, not absolute speed."
	if _, replaced := Filter(benign, q); replaced {
		t.Fatalf("benign response was replaced")
	}
}
