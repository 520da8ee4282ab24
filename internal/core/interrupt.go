package core

import (
	"strconv"
	"strings"
	"time"
)

// InterruptKind identifies the shape of a pending interrupt payload and
// the type of value expected on resume.
type InterruptKind string

const (
	// InterruptPlanApproval expects a boolean resume value.
	InterruptPlanApproval InterruptKind = "plan_approval"

	// InterruptAnswerPrompt expects an option index resume value.
	InterruptAnswerPrompt InterruptKind = "answer_prompt"
)

// Interrupt is a persisted pause point. It lives inside the session
// checkpoint rather than on any call stack, so a suspended session can
// be resumed after an arbitrary delay, including a process restart.
type Interrupt struct {
	Kind         InterruptKind        `json:"kind"`
	PlanApproval *PlanApprovalPrompt  `json:"plan_approval,omitempty"`
	AnswerPrompt *AnswerPromptPayload `json:"answer_prompt,omitempty"`
	RaisedAt     time.Time            `json:"raised_at"`
}

// PlanApprovalPrompt carries the full objective list for human review.
type PlanApprovalPrompt struct {
	Objectives []LearningObjective `json:"objectives"`
}

// AnswerPromptPayload exposes the current question without its answer.
type AnswerPromptPayload struct {
	QuestionID string   `json:"question_id"`
	Question   string   `json:"question"`
	Options    []string `json:"options"`
	Hint       string   `json:"hint"`
	Attempts   int      `json:"attempts"`
}

// NewPlanApprovalInterrupt builds the approval pause point.
func NewPlanApprovalInterrupt(objectives []LearningObjective) *Interrupt {
	return &Interrupt{
		Kind:         InterruptPlanApproval,
		PlanApproval: &PlanApprovalPrompt{Objectives: objectives},
		RaisedAt:     time.Now(),
	}
}

// NewAnswerPromptInterrupt builds the answer-submission pause point.
func NewAnswerPromptInterrupt(q MCQ, hint string, attempts int) *Interrupt {
	return &Interrupt{
		Kind: InterruptAnswerPrompt,
		AnswerPrompt: &AnswerPromptPayload{
			QuestionID: q.ID,
			Question:   q.Question,
			Options:    q.Options,
			Hint:       hint,
			Attempts:   attempts,
		},
		RaisedAt: time.Now(),
	}
}

// CoerceBool interprets a resume value as a boolean. JSON decoding and
// CLI input produce bools, strings, or numbers; unambiguous forms are
// coerced, anything else is a caller error.
func CoerceBool(v interface{}) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "y", "approve", "approved":
			return true, nil
		case "false", "no", "n", "reject", "rejected":
			return false, nil
		}
	}
	return false, ErrValidation(CodeBadResumeValue, "resume value must be a boolean")
}

// CoerceOptionIndex interprets a resume value as an option index in
// [0, OptionCount). Numeric strings and JSON float64 numbers are
// coerced; fractional or out-of-range values are caller errors.
func CoerceOptionIndex(v interface{}) (int, error) {
	var idx int
	switch t := v.(type) {
	case int:
		idx = t
	case int64:
		idx = int(t)
	case float64:
		idx = int(t)
		if float64(idx) != t {
			return 0, ErrValidation(CodeBadResumeValue, "option index must be an integer")
		}
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, ErrValidation(CodeBadResumeValue, "option index must be numeric")
		}
		idx = n
	default:
		return 0, ErrValidation(CodeBadResumeValue, "option index must be a number")
	}
	if idx < 0 || idx >= OptionCount {
		return 0, ErrValidation(CodeBadResumeValue, "option index out of range").
			WithDetail("index", idx)
	}
	return idx, nil
}
