package core

import "fmt"

// Difficulty classifies how hard a learning objective is.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ValidDifficulty checks if a difficulty string is one of the known levels.
func ValidDifficulty(d Difficulty) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

// Plan size and question shape constants.
const (
	// MinObjectives and MaxObjectives bound the learning plan size.
	MinObjectives = 3
	MaxObjectives = 5

	// DefaultQuestionsPerObjective is the number of questions generated
	// for each objective.
	DefaultQuestionsPerObjective = 3

	// OptionCount is the fixed number of options per question.
	OptionCount = 4
)

// LearningObjective is a named learning goal extracted from the document.
type LearningObjective struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Difficulty  Difficulty `json:"difficulty"`
}

// Normalize corrects recoverable shape defects in place.
// An unknown difficulty falls back to medium.
func (o *LearningObjective) Normalize() {
	if !ValidDifficulty(o.Difficulty) {
		o.Difficulty = DifficultyMedium
	}
}

// ObjectiveID returns the sequential identifier for the objective at
// the given zero-based position ("obj-1".."obj-n").
func ObjectiveID(position int) string {
	return fmt.Sprintf("obj-%d", position+1)
}

// MCQ is a four-option multiple-choice question tied to one objective.
type MCQ struct {
	ID            string   `json:"id"`
	ObjectiveID   string   `json:"objective_id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Hint          string   `json:"hint"`
	Explanation   string   `json:"explanation"`
}

// Normalize corrects recoverable shape defects in place rather than
// failing the step: an out-of-range correct answer index is reset to 0
// and the option list is padded or truncated to exactly OptionCount
// entries. Returns true if anything was corrected.
func (q *MCQ) Normalize() bool {
	corrected := false
	if len(q.Options) != OptionCount {
		corrected = true
		for len(q.Options) < OptionCount {
			q.Options = append(q.Options, fmt.Sprintf("Option %d", len(q.Options)+1))
		}
		q.Options = q.Options[:OptionCount]
	}
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= OptionCount {
		q.CorrectAnswer = 0
		corrected = true
	}
	return corrected
}

// CorrectOption returns the text of the correct option.
func (q *MCQ) CorrectOption() string {
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		return ""
	}
	return q.Options[q.CorrectAnswer]
}

// Critique is the quality assessment produced for a generated question
// batch during reflection.
type Critique struct {
	HasErrors       bool     `json:"has_errors"`
	ClarityScore    int      `json:"clarity_score"` // 1..10
	NeedsRefinement bool     `json:"needs_refinement"`
	Issues          []string `json:"issues"`
	Suggestions     []string `json:"suggestions"`
}

// ProgressReport is the personalized summary produced at the end of a
// session. Tips fall back to static wording when generation fails.
type ProgressReport struct {
	Narrative     string   `json:"narrative"`
	Tips          []string `json:"tips"`
	AreasToReview []string `json:"areas_to_review"`
	Total         int      `json:"total"`
	Correct       int      `json:"correct"`
	Percentage    int      `json:"percentage"`
}
