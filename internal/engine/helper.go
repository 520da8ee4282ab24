package engine

import (
	"context"

	"github.com/hugo-lorenzo-mato/tutor-ai/internal/core"
	"github.com/hugo-lorenzo-mato/tutor-ai/internal/guard"
)

// HelperReply is the answer produced by the help assistant.
type HelperReply struct {
	Response string `json:"response"`
	// Redirected reports that the guardrail replaced a response which
	// would have disclosed the concealed answer.
	Redirected bool `json:"redirected"`
}

// AskHelper answers a free-text learner question about the session.
// An empty expertise falls back to the engine's configured default.
// While a question is being asked, the privileged helper context (which
// knows the concealed answer) is used so the assistant can reason about
// the learner's thinking; otherwise the answer-free tutor context is
// used. Every response passes through the disclosure guardrail before
// it leaves the engine.
func (e *Engine) AskHelper(ctx context.Context, id core.SessionID, question, expertise string, turns []guard.Turn) (*HelperReply, error) {
	if question == "" {
		return nil, core.ErrValidation("EMPTY_QUESTION", "helper question is empty")
	}
	if expertise == "" {
		expertise = e.opts.Expertise
	}

	session, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	limits := guard.Limits{ExcerptRunes: e.opts.ExcerptRunes, MaxTurns: e.opts.MaxTurns}
	var activeQuestion *core.MCQ
	var systemPrompt string
	if q, ok := session.CurrentMCQ(); ok && !session.Answered(q) {
		activeQuestion = &q
		systemPrompt = guard.BuildHelperContext(session, expertise, turns, limits).SystemPrompt()
	} else {
		systemPrompt = guard.BuildTutorContext(session, expertise, turns, limits).SystemPrompt()
	}

	response, err := e.generator.Respond(ctx, systemPrompt, question)
	if err != nil {
		return nil, err
	}

	filtered, redirected := guard.Filter(response, activeQuestion)
	if redirected {
		e.logger.Info("helper response redirected by guardrail",
			"session_id", session.ID, "question_id", questionID(activeQuestion))
	}
	return &HelperReply{Response: filtered, Redirected: redirected}, nil
}

func questionID(q *core.MCQ) string {
	if q == nil {
		return ""
	}
	return q.ID
}
