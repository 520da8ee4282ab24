package events

// Event type constants for the session lifecycle.
const (
	TypeSessionCreated   = "session_created"
	TypePhaseChanged     = "phase_changed"
	TypeInterruptRaised  = "interrupt_raised"
	TypeInterruptResumed = "interrupt_resumed"
	TypeQuestionAnswered = "question_answered"
	TypePrefetchHit      = "prefetch_hit"
	TypePrefetchMiss     = "prefetch_miss"
	TypeQuizRefined      = "quiz_refined"
	TypeSessionCompleted = "session_completed"
	TypeSessionFailed    = "session_failed"
)

// SessionCreatedEvent is emitted when a new session starts.
type SessionCreatedEvent struct {
	BaseEvent
	SourcePath string `json:"source_path,omitempty"`
}

// NewSessionCreatedEvent creates a session created event.
func NewSessionCreatedEvent(sessionID, sourcePath string) SessionCreatedEvent {
	return SessionCreatedEvent{
		BaseEvent:  NewBaseEvent(TypeSessionCreated, sessionID),
		SourcePath: sourcePath,
	}
}

// PhaseChangedEvent is emitted on every phase transition.
type PhaseChangedEvent struct {
	BaseEvent
	From string `json:"from"`
	To   string `json:"to"`
}

// NewPhaseChangedEvent creates a phase changed event.
func NewPhaseChangedEvent(sessionID, from, to string) PhaseChangedEvent {
	return PhaseChangedEvent{
		BaseEvent: NewBaseEvent(TypePhaseChanged, sessionID),
		From:      from,
		To:        to,
	}
}

// InterruptRaisedEvent is emitted when a session suspends for input.
type InterruptRaisedEvent struct {
	BaseEvent
	Kind string `json:"kind"`
}

// NewInterruptRaisedEvent creates an interrupt raised event.
func NewInterruptRaisedEvent(sessionID, kind string) InterruptRaisedEvent {
	return InterruptRaisedEvent{
		BaseEvent: NewBaseEvent(TypeInterruptRaised, sessionID),
		Kind:      kind,
	}
}

// InterruptResumedEvent is emitted when a suspended session resumes.
type InterruptResumedEvent struct {
	BaseEvent
	Kind string `json:"kind"`
}

// NewInterruptResumedEvent creates an interrupt resumed event.
func NewInterruptResumedEvent(sessionID, kind string) InterruptResumedEvent {
	return InterruptResumedEvent{
		BaseEvent: NewBaseEvent(TypeInterruptResumed, sessionID),
		Kind:      kind,
	}
}

// QuestionAnsweredEvent is emitted for every answer submission.
type QuestionAnsweredEvent struct {
	BaseEvent
	QuestionID string `json:"question_id"`
	Correct    bool   `json:"correct"`
	Attempts   int    `json:"attempts"`
}

// NewQuestionAnsweredEvent creates a question answered event.
func NewQuestionAnsweredEvent(sessionID, questionID string, correct bool, attempts int) QuestionAnsweredEvent {
	return QuestionAnsweredEvent{
		BaseEvent:  NewBaseEvent(TypeQuestionAnswered, sessionID),
		QuestionID: questionID,
		Correct:    correct,
		Attempts:   attempts,
	}
}

// PrefetchEvent reports whether the background question batch for an
// objective was usable when the quiz node needed it.
type PrefetchEvent struct {
	BaseEvent
	ObjectiveIndex int `json:"objective_index"`
}

// NewPrefetchHitEvent creates a prefetch hit event.
func NewPrefetchHitEvent(sessionID string, objectiveIndex int) PrefetchEvent {
	return PrefetchEvent{
		BaseEvent:      NewBaseEvent(TypePrefetchHit, sessionID),
		ObjectiveIndex: objectiveIndex,
	}
}

// NewPrefetchMissEvent creates a prefetch miss event.
func NewPrefetchMissEvent(sessionID string, objectiveIndex int) PrefetchEvent {
	return PrefetchEvent{
		BaseEvent:      NewBaseEvent(TypePrefetchMiss, sessionID),
		ObjectiveIndex: objectiveIndex,
	}
}

// QuizRefinedEvent is emitted when reflection rewrote a question batch.
type QuizRefinedEvent struct {
	BaseEvent
	ObjectiveID string `json:"objective_id"`
	Iterations  int    `json:"iterations"`
}

// NewQuizRefinedEvent creates a quiz refined event.
func NewQuizRefinedEvent(sessionID, objectiveID string, iterations int) QuizRefinedEvent {
	return QuizRefinedEvent{
		BaseEvent:   NewBaseEvent(TypeQuizRefined, sessionID),
		ObjectiveID: objectiveID,
		Iterations:  iterations,
	}
}

// SessionCompletedEvent is emitted once the summary phase finishes.
type SessionCompletedEvent struct {
	BaseEvent
	Total      int `json:"total"`
	Correct    int `json:"correct"`
	Percentage int `json:"percentage"`
}

// NewSessionCompletedEvent creates a session completed event.
func NewSessionCompletedEvent(sessionID string, total, correct, percentage int) SessionCompletedEvent {
	return SessionCompletedEvent{
		BaseEvent:  NewBaseEvent(TypeSessionCompleted, sessionID),
		Total:      total,
		Correct:    correct,
		Percentage: percentage,
	}
}

// SessionFailedEvent is emitted when a step fails terminally.
type SessionFailedEvent struct {
	BaseEvent
	Reason string `json:"reason"`
}

// NewSessionFailedEvent creates a session failed event.
func NewSessionFailedEvent(sessionID, reason string) SessionFailedEvent {
	return SessionFailedEvent{
		BaseEvent: NewBaseEvent(TypeSessionFailed, sessionID),
		Reason:    reason,
	}
}
