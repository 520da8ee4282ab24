package core

import "fmt"

// Phase represents a stage in the learning session lifecycle.
type Phase string

const (
	// PhaseUpload is the initial phase where the source document is
	// ingested and parsed into plain text.
	PhaseUpload Phase = "upload"

	// PhasePlanning is the phase where learning objectives are
	// generated from the parsed document.
	PhasePlanning Phase = "planning"

	// PhaseApproval is the phase where the session waits for the user
	// to approve or reject the proposed learning plan.
	PhaseApproval Phase = "approval"

	// PhaseQuiz is the phase where questions are generated for the
	// current learning objective.
	PhaseQuiz Phase = "quiz"

	// PhaseFeedback is the phase where the user answers questions and
	// receives feedback, one question at a time.
	PhaseFeedback Phase = "feedback"

	// PhaseSummary is the terminal phase where the score and progress
	// report are produced.
	PhaseSummary Phase = "summary"
)

// AllPhases returns all phases in forward order.
func AllPhases() []Phase {
	return []Phase{PhaseUpload, PhasePlanning, PhaseApproval, PhaseQuiz, PhaseFeedback, PhaseSummary}
}

// PhaseOrder returns the numeric order of a phase (0-indexed).
func PhaseOrder(p Phase) int {
	switch p {
	case PhaseUpload:
		return 0
	case PhasePlanning:
		return 1
	case PhaseApproval:
		return 2
	case PhaseQuiz:
		return 3
	case PhaseFeedback:
		return 4
	case PhaseSummary:
		return 5
	default:
		return -1
	}
}

// NextPhase returns the phase following the given phase.
// Returns empty string if the phase is terminal or unknown.
func NextPhase(p Phase) Phase {
	switch p {
	case PhaseUpload:
		return PhasePlanning
	case PhasePlanning:
		return PhaseApproval
	case PhaseApproval:
		return PhaseQuiz
	case PhaseQuiz:
		return PhaseFeedback
	case PhaseFeedback:
		return PhaseSummary
	default:
		return ""
	}
}

// ValidPhase checks if a phase string is valid.
func ValidPhase(p Phase) bool {
	return PhaseOrder(p) >= 0
}

// ParsePhase converts a string to a Phase with validation.
func ParsePhase(s string) (Phase, error) {
	p := Phase(s)
	if !ValidPhase(p) {
		return "", fmt.Errorf("invalid phase: %s", s)
	}
	return p, nil
}

// ValidTransition reports whether moving from one phase to another is
// allowed. Transitions are monotonic forward, with two exceptions: the
// plan-rejection reset back to Upload, and the Feedback→Quiz loop that
// generates questions for the next objective.
func ValidTransition(from, to Phase) bool {
	if !ValidPhase(from) || !ValidPhase(to) {
		return false
	}
	if from == to {
		return true
	}
	if to == PhaseUpload {
		// Reset edge: plan rejection or unrecoverable parse error.
		return true
	}
	if from == PhaseFeedback && to == PhaseQuiz {
		// Per-objective loop: next objective needs a generation pass.
		return true
	}
	// Forward moves may skip phases (e.g. Feedback→Summary when the
	// last objective is exhausted).
	return PhaseOrder(to) > PhaseOrder(from)
}

// String returns the string representation of the phase.
func (p Phase) String() string {
	return string(p)
}

// Description returns a human-readable description of the phase.
func (p Phase) Description() string {
	switch p {
	case PhaseUpload:
		return "Ingest and parse the source document"
	case PhasePlanning:
		return "Generate learning objectives from the document"
	case PhaseApproval:
		return "Wait for the user to approve the learning plan"
	case PhaseQuiz:
		return "Generate questions for the current objective"
	case PhaseFeedback:
		return "Answer questions and receive feedback"
	case PhaseSummary:
		return "Compute the final score and progress report"
	default:
		return "Unknown phase"
	}
}
