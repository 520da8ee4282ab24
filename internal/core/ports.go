package core

import (
	"context"
	"time"
)

// =============================================================================
// Content extractor port
// =============================================================================

// ContentExtractor turns a source document path into plain text.
// Implementations fail with FILE_NOT_FOUND when the source is missing
// and UNREADABLE_CONTENT when it is empty, binary, or below the minimum
// word count.
type ContentExtractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// =============================================================================
// Generation capability port
// =============================================================================

// CompletionRequest is a single call to the underlying language model.
type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float64
	Timeout      time.Duration
}

// ModelClient is the black-box language model call: prompt in, raw text
// out. Structured-output validation sits above it (see ContentGenerator).
type ModelClient interface {
	// Name returns the client identifier (e.g. "claude", "openai").
	Name() string

	// Ping checks if the model backend is reachable and authenticated.
	Ping(ctx context.Context) error

	// Complete runs one request and returns the raw model output.
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// ContentGenerator is the typed generation capability the engine
// depends on. Every method returns schema-validated structured output;
// failures carry the generation error category.
type ContentGenerator interface {
	// GenerateObjectives produces 3-5 learning objectives from the
	// parsed document. IDs are assigned by the caller.
	GenerateObjectives(ctx context.Context, content string) ([]LearningObjective, error)

	// GenerateMCQs produces count questions for one objective.
	GenerateMCQs(ctx context.Context, obj LearningObjective, content string, count int) ([]MCQ, error)

	// Critique assesses a question batch for the reflection gate.
	Critique(ctx context.Context, obj LearningObjective, mcqs []MCQ) (*Critique, error)

	// Refine rewrites a question batch against a critique. The result
	// must preserve the batch's question count and field set.
	Refine(ctx context.Context, obj LearningObjective, mcqs []MCQ, critique *Critique) ([]MCQ, error)

	// GenerateReport produces the personalized tips-and-review report.
	GenerateReport(ctx context.Context, objectives []LearningObjective, report ProgressReport) (*ProgressReport, error)

	// Respond produces a free-text assistant reply for the help agent.
	Respond(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// =============================================================================
// Checkpoint store port
// =============================================================================

// StateStore persists session checkpoints. Put enforces per-key
// optimistic concurrency: writing a session whose Version does not
// match the stored version fails with CHECKPOINT_CONFLICT, so a resume
// cannot race a fresh synchronous step for the same session.
type StateStore interface {
	// Get loads a session checkpoint. Missing ids fail with NOT_FOUND.
	Get(ctx context.Context, id SessionID) (*Session, error)

	// Put persists a checkpoint atomically and bumps its version.
	Put(ctx context.Context, session *Session) error

	// Delete removes a session checkpoint. Deleting a missing id is a
	// no-op.
	Delete(ctx context.Context, id SessionID) error

	// List returns all known session ids.
	List(ctx context.Context) ([]SessionID, error)

	// Close releases underlying resources.
	Close() error
}
