package core

import (
	"strings"
	"time"
)

// SessionID uniquely identifies a learning session.
type SessionID string

// Session is the durable state of one user's run through the staged
// workflow. It is the unit of checkpointing: everything required to
// resume after a process restart lives here, including any pending
// interrupt.
type Session struct {
	ID    SessionID `json:"id"`
	Phase Phase     `json:"phase"`

	// SourcePath and Content are set by the parse node.
	SourcePath string `json:"source_path,omitempty"`
	Content    string `json:"content,omitempty"`

	Objectives   []LearningObjective `json:"objectives,omitempty"`
	PlanApproved bool                `json:"plan_approved"`

	// CurrentObjectiveIndex points into Objectives; CurrentMCQIndex
	// points into MCQs. MCQs accumulates across objectives, append-only.
	CurrentObjectiveIndex int   `json:"current_objective_index"`
	MCQs                  []MCQ `json:"mcqs,omitempty"`
	CurrentMCQIndex       int   `json:"current_mcq_index"`

	// UserAnswers only ever stores correct answers; an incorrect
	// submission increments AttemptCounts instead.
	UserAnswers         map[string]int `json:"user_answers,omitempty"`
	AttemptCounts       map[string]int `json:"attempt_counts,omitempty"`
	CorrectAnswersCount int            `json:"correct_answers_count"`

	// Pending is the persisted continuation for a suspended session.
	Pending *Interrupt `json:"pending,omitempty"`

	Report   *ProgressReport `json:"report,omitempty"`
	Error    string          `json:"error,omitempty"`
	Complete bool            `json:"complete"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Version is the optimistic-concurrency token managed by the
	// checkpoint store. Zero means "never persisted".
	Version int `json:"version"`
}

// NewSession creates a session in the Upload phase with empty collections.
func NewSession(id SessionID) *Session {
	now := time.Now()
	return &Session{
		ID:            id,
		Phase:         PhaseUpload,
		UserAnswers:   make(map[string]int),
		AttemptCounts: make(map[string]int),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Suspended reports whether the session is waiting for a human decision.
func (s *Session) Suspended() bool {
	return s.Pending != nil
}

// CurrentObjective returns the objective the session is working on.
func (s *Session) CurrentObjective() (LearningObjective, bool) {
	if s.CurrentObjectiveIndex < 0 || s.CurrentObjectiveIndex >= len(s.Objectives) {
		return LearningObjective{}, false
	}
	return s.Objectives[s.CurrentObjectiveIndex], true
}

// CurrentMCQ returns the question the session is working on.
func (s *Session) CurrentMCQ() (MCQ, bool) {
	if s.CurrentMCQIndex < 0 || s.CurrentMCQIndex >= len(s.MCQs) {
		return MCQ{}, false
	}
	return s.MCQs[s.CurrentMCQIndex], true
}

// Answered reports whether the stored answer for a question id equals
// its correct answer. Only correct answers are ever stored, so presence
// implies correctness; the equality check guards corrupted state.
func (s *Session) Answered(q MCQ) bool {
	stored, ok := s.UserAnswers[q.ID]
	return ok && stored == q.CorrectAnswer
}

// RecordCorrect stores a correct answer and bumps the running count.
// An already-stored correct answer is never overwritten.
func (s *Session) RecordCorrect(questionID string, option int) {
	if s.UserAnswers == nil {
		s.UserAnswers = make(map[string]int)
	}
	if _, exists := s.UserAnswers[questionID]; exists {
		return
	}
	s.UserAnswers[questionID] = option
	s.CorrectAnswersCount++
}

// RecordIncorrect increments the attempt count for a question without
// touching any stored answer.
func (s *Session) RecordIncorrect(questionID string) {
	if s.AttemptCounts == nil {
		s.AttemptCounts = make(map[string]int)
	}
	s.AttemptCounts[questionID]++
}

// Attempts returns the number of incorrect submissions for a question.
func (s *Session) Attempts(questionID string) int {
	return s.AttemptCounts[questionID]
}

// ResetPlan clears objectives and all generated content and returns the
// session to the Upload phase. Used on plan rejection.
func (s *Session) ResetPlan() {
	s.Objectives = nil
	s.PlanApproved = false
	s.MCQs = nil
	s.CurrentObjectiveIndex = 0
	s.CurrentMCQIndex = 0
	s.UserAnswers = make(map[string]int)
	s.AttemptCounts = make(map[string]int)
	s.CorrectAnswersCount = 0
	s.Pending = nil
	s.Report = nil
	s.Phase = PhaseUpload
}

// FailTo records a human-readable error and resets the session to a
// phase the user can re-enter.
func (s *Session) FailTo(phase Phase, message string) {
	s.Error = message
	s.Phase = phase
	s.Pending = nil
}

// Snapshot is the UI-facing read model of a session. The correct answer
// for the question currently being asked is deliberately absent; option
// indices for past questions appear only once answered correctly.
type Snapshot struct {
	ID                    SessionID           `json:"id"`
	Phase                 Phase               `json:"phase"`
	PhaseDescription      string              `json:"phase_description"`
	Objectives            []LearningObjective `json:"objectives,omitempty"`
	PlanApproved          bool                `json:"plan_approved"`
	CurrentObjectiveIndex int                 `json:"current_objective_index"`
	QuestionCount         int                 `json:"question_count"`
	AnsweredCount         int                 `json:"answered_count"`
	CurrentQuestion       *QuestionView       `json:"current_question,omitempty"`
	Report                *ProgressReport     `json:"report,omitempty"`
	Error                 string              `json:"error,omitempty"`
	Complete              bool                `json:"complete"`
	Suspended             bool                `json:"suspended"`
	UpdatedAt             time.Time           `json:"updated_at"`
}

// QuestionView is the answer-free projection of an MCQ.
type QuestionView struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Attempts int      `json:"attempts"`
}

// Snapshot builds the public view of the session.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		ID:                    s.ID,
		Phase:                 s.Phase,
		PhaseDescription:      s.Phase.Description(),
		Objectives:            s.Objectives,
		PlanApproved:          s.PlanApproved,
		CurrentObjectiveIndex: s.CurrentObjectiveIndex,
		QuestionCount:         len(s.MCQs),
		AnsweredCount:         len(s.UserAnswers),
		Report:                s.Report,
		Error:                 s.Error,
		Complete:              s.Complete,
		Suspended:             s.Suspended(),
		UpdatedAt:             s.UpdatedAt,
	}
	if q, ok := s.CurrentMCQ(); ok && !s.Answered(q) {
		snap.CurrentQuestion = &QuestionView{
			ID:       q.ID,
			Question: q.Question,
			Options:  q.Options,
			Attempts: s.Attempts(q.ID),
		}
	}
	return snap
}

// ContentExcerpt returns at most max runes of the parsed document,
// trimmed at a word boundary. Used for helper context building.
func (s *Session) ContentExcerpt(max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s.Content)
	if len(runes) <= max {
		return s.Content
	}
	cut := string(runes[:max])
	if i := strings.LastIndexAny(cut, " \t\n"); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}
