package genmodel

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hugo-lorenzo-mato/tutor-ai/internal/core"
)

// maxContentRunes bounds how much document text goes into a prompt.
const maxContentRunes = 12000

const objectivesSystemPrompt = `You are a curriculum designer. Given a study document, produce a short
learning plan as a JSON array of objectives. Each objective has "title",
"description", and "difficulty" (one of "easy", "medium", "hard").
Produce between 3 and 5 objectives ordered from foundational to advanced.
Respond with JSON only, no prose.`

const mcqSystemPrompt = `You are a quiz author. Produce multiple-choice questions as a JSON array.
Each question has "question", "options" (exactly 4 strings),
"correct_answer" (0-based index into options), "hint" (a nudge that does
not give the answer away), and "explanation" (shown after answering).
Questions must be answerable from the provided material alone.
Respond with JSON only, no prose.`

const critiqueSystemPrompt = `You are a quiz reviewer. Assess a question batch for factual errors,
ambiguity, and clarity. Respond with a JSON object containing
"has_errors" (boolean), "clarity_score" (integer 1-10),
"needs_refinement" (boolean), "issues" (array of strings), and
"suggestions" (array of strings). Respond with JSON only, no prose.`

const reportSystemPrompt = `You are an encouraging tutor writing an end-of-session report. Respond
with a JSON object containing "narrative" (2-4 sentences on how the
session went), "tips" (2-4 concrete study tips), and "areas_to_review"
(objective titles worth revisiting, may be empty). Be specific to the
results given. Respond with JSON only, no prose.`

func objectivesUserPrompt(content string) string {
	return fmt.Sprintf("Study document:\n\n%s", clip(content))
}

func mcqUserPrompt(obj core.LearningObjective, content string, count int) string {
	return fmt.Sprintf(
		"Write %d questions for the objective below.\n\nObjective: %s\nDescription: %s\nDifficulty: %s\n\nMaterial:\n\n%s",
		count, obj.Title, obj.Description, obj.Difficulty, clip(content))
}

func critiqueUserPrompt(obj core.LearningObjective, mcqs []core.MCQ) string {
	return fmt.Sprintf("Objective: %s (%s)\n\nQuestion batch:\n%s",
		obj.Title, obj.Difficulty, mustJSON(mcqs))
}

func refineUserPrompt(obj core.LearningObjective, mcqs []core.MCQ, critique *core.Critique) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rewrite this question batch for the objective %q, fixing the issues below.\n", obj.Title)
	fmt.Fprintf(&b, "Keep exactly %d questions with the same JSON shape.\n\n", len(mcqs))
	fmt.Fprintf(&b, "Current batch:\n%s\n\n", mustJSON(mcqs))
	if critique != nil {
		fmt.Fprintf(&b, "Review:\n%s\n", mustJSON(critique))
	}
	return b.String()
}

func reportUserPrompt(objectives []core.LearningObjective, report core.ProgressReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session results: %d of %d correct (%d%%).\n\n", report.Correct, report.Total, report.Percentage)
	b.WriteString("Objectives covered:\n")
	for _, obj := range objectives {
		fmt.Fprintf(&b, "- %s (%s): %s\n", obj.Title, obj.Difficulty, obj.Description)
	}
	if len(report.AreasToReview) > 0 {
		fmt.Fprintf(&b, "\nObjectives with wrong answers: %s\n", strings.Join(report.AreasToReview, ", "))
	}
	return b.String()
}

func clip(content string) string {
	runes := []rune(content)
	if len(runes) <= maxContentRunes {
		return content
	}
	return string(runes[:maxContentRunes]) + "…"
}

func mustJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(data)
}
