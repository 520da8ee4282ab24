// Package engine orchestrates learning sessions: it dispatches phase
// nodes through the compiled graph, persists a checkpoint after every
// step, and turns pending interrupts plus resume values into state
// changes. One call to Step executes at most one node.
package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hugo-lorenzo-mato/tutor-ai/internal/core"
	"github.com/hugo-lorenzo-mato/tutor-ai/internal/events"
	"github.com/hugo-lorenzo-mato/tutor-ai/internal/graph"
	"github.com/hugo-lorenzo-mato/tutor-ai/internal/guard"
	"github.com/hugo-lorenzo-mato/tutor-ai/internal/logging"
	"github.com/hugo-lorenzo-mato/tutor-ai/internal/prefetch"
	"github.com/hugo-lorenzo-mato/tutor-ai/internal/reflection"
)

// maxRunSteps bounds Run against a cycling graph.
const maxRunSteps = 256

// Options configures engine behavior.
type Options struct {
	// QuestionsPerObjective is the batch size for each generation pass.
	QuestionsPerObjective int
	// Prefetch enables speculative background generation of the next
	// objective's questions.
	Prefetch bool
	// Expertise is the learner level used for helper prompts when the
	// caller does not supply one.
	Expertise string
	// ExcerptRunes caps the source excerpt injected into helper prompts.
	ExcerptRunes int
	// MaxTurns caps how many recent conversation turns helper prompts
	// carry.
	MaxTurns int
}

// DefaultOptions returns the standard engine configuration.
func DefaultOptions() Options {
	return Options{
		QuestionsPerObjective: core.DefaultQuestionsPerObjective,
		Prefetch:              true,
		Expertise:             "beginner",
		ExcerptRunes:          guard.DefaultExcerptRunes,
		MaxTurns:              guard.DefaultMaxTurns,
	}
}

// Deps are the collaborators the engine composes.
type Deps struct {
	Store     core.StateStore
	Extractor core.ContentExtractor
	Generator core.ContentGenerator
	Cache     *prefetch.Cache
	Gate      *reflection.Gate
	Bus       *events.Bus
	Logger    *logging.Logger
}

// Engine drives sessions through the phase graph.
type Engine struct {
	store     core.StateStore
	extractor core.ContentExtractor
	generator core.ContentGenerator
	cache     *prefetch.Cache
	gate      *reflection.Gate
	bus       *events.Bus
	logger    *logging.Logger
	graph     *graph.Graph[*core.Session]
	opts      Options
}

// New creates an engine and compiles its phase graph.
func New(deps Deps, opts Options) (*Engine, error) {
	if deps.Store == nil || deps.Extractor == nil || deps.Generator == nil {
		return nil, fmt.Errorf("engine: store, extractor, and generator are required")
	}
	if deps.Cache == nil {
		deps.Cache = prefetch.New()
	}
	if deps.Gate == nil {
		deps.Gate = reflection.New(deps.Generator, reflection.DefaultOptions(), deps.Logger)
	}
	if deps.Bus == nil {
		deps.Bus = events.New(0)
	}
	if deps.Logger == nil {
		deps.Logger = logging.NewNop()
	}
	if opts.QuestionsPerObjective <= 0 {
		opts.QuestionsPerObjective = core.DefaultQuestionsPerObjective
	}

	e := &Engine{
		store:     deps.Store,
		extractor: deps.Extractor,
		generator: deps.Generator,
		cache:     deps.Cache,
		gate:      deps.Gate,
		bus:       deps.Bus,
		logger:    deps.Logger.WithComponent("engine"),
		opts:      opts,
	}

	b := graph.NewBuilder[*core.Session]()
	nodes := map[core.Phase]graph.Node[*core.Session]{
		core.PhaseUpload:   e.parseNode,
		core.PhasePlanning: e.planNode,
		core.PhaseApproval: e.approvalNode,
		core.PhaseQuiz:     e.quizNode,
		core.PhaseFeedback: e.feedbackNode,
		core.PhaseSummary:  e.summaryNode,
	}
	for phase, node := range nodes {
		if err := b.AddNode(phase, node); err != nil {
			return nil, err
		}
	}
	g, err := b.Compile()
	if err != nil {
		return nil, err
	}
	e.graph = g
	return e, nil
}

// StepResult is the outcome of one Step or Resume call.
type StepResult struct {
	Session   *core.Session
	Suspended bool
	Interrupt *core.Interrupt
}

// Create starts a new session for a source document and persists its
// initial checkpoint.
func (e *Engine) Create(ctx context.Context, sourcePath string) (*core.Session, error) {
	session := core.NewSession(core.SessionID(uuid.NewString()))
	session.SourcePath = sourcePath
	if err := e.store.Put(ctx, session); err != nil {
		return nil, err
	}
	e.bus.Publish(events.NewSessionCreatedEvent(string(session.ID), sourcePath))
	e.logger.Info("session created", "session_id", session.ID, "source", sourcePath)
	return session, nil
}

// Step executes at most one phase node for the session. A suspended
// session is returned as-is; supply the resume value via Resume first.
func (e *Engine) Step(ctx context.Context, id core.SessionID) (*StepResult, error) {
	session, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Complete {
		return result(session), nil
	}
	if session.Suspended() {
		return result(session), nil
	}
	return e.step(ctx, session)
}

func (e *Engine) step(ctx context.Context, session *core.Session) (*StepResult, error) {
	from := session.Phase
	out, err := e.graph.Run(ctx, from, session)
	if err != nil {
		return nil, e.failStep(ctx, session, err)
	}

	session.Error = ""
	if !out.Suspended && out.Next != from {
		session.Phase = out.Next
		e.bus.Publish(events.NewPhaseChangedEvent(string(session.ID), string(from), string(out.Next)))
	}

	if err := e.store.Put(ctx, session); err != nil {
		return nil, err
	}
	e.logger.Debug("step executed",
		"session_id", session.ID, "from", from, "to", session.Phase,
		"suspended", out.Suspended)
	return result(session), nil
}

// failStep records a step failure on the session. Retryable failures
// keep the session in place so the caller can step again; the error is
// returned either way.
func (e *Engine) failStep(ctx context.Context, session *core.Session, stepErr error) error {
	session.Error = stepErr.Error()
	if putErr := e.store.Put(ctx, session); putErr != nil {
		e.logger.Error("failed to persist step error",
			"session_id", session.ID, "error", putErr.Error())
	}
	if !core.IsRetryable(stepErr) {
		e.bus.PublishPriority(events.NewSessionFailedEvent(string(session.ID), stepErr.Error()))
	}
	e.logger.Warn("step failed",
		"session_id", session.ID, "phase", session.Phase,
		"retryable", core.IsRetryable(stepErr), "error", stepErr.Error())
	return stepErr
}

// Resume applies a user-supplied value to a suspended session. Resuming
// a session that is not suspended is a no-op returning current state.
func (e *Engine) Resume(ctx context.Context, id core.SessionID, value interface{}) (*StepResult, error) {
	session, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.Suspended() {
		return result(session), nil
	}

	pending := session.Pending
	switch pending.Kind {
	case core.InterruptPlanApproval:
		return e.resumeApproval(ctx, session, value)
	case core.InterruptAnswerPrompt:
		return e.resumeAnswer(ctx, session, value)
	default:
		return nil, core.ErrState(core.CodeInvalidState,
			fmt.Sprintf("unknown interrupt kind %q", pending.Kind))
	}
}

func (e *Engine) resumeApproval(ctx context.Context, session *core.Session, value interface{}) (*StepResult, error) {
	approved, err := core.CoerceBool(value)
	if err != nil {
		return nil, err
	}

	session.Pending = nil
	e.bus.Publish(events.NewInterruptResumedEvent(string(session.ID), string(core.InterruptPlanApproval)))

	from := session.Phase
	if approved {
		session.PlanApproved = true
		session.Phase = core.PhaseQuiz
	} else {
		session.ResetPlan()
		e.logger.Info("plan rejected, session reset", "session_id", session.ID)
	}
	if session.Phase != from {
		e.bus.Publish(events.NewPhaseChangedEvent(string(session.ID), string(from), string(session.Phase)))
	}

	if err := e.store.Put(ctx, session); err != nil {
		return nil, err
	}
	return result(session), nil
}

func (e *Engine) resumeAnswer(ctx context.Context, session *core.Session, value interface{}) (*StepResult, error) {
	option, err := core.CoerceOptionIndex(value)
	if err != nil {
		// Bad input leaves the session suspended and unchanged.
		return nil, err
	}

	q, ok := session.CurrentMCQ()
	if !ok {
		return nil, core.ErrState(core.CodeInvalidState, "suspended without a current question")
	}

	e.bus.Publish(events.NewInterruptResumedEvent(string(session.ID), string(core.InterruptAnswerPrompt)))
	correct := option == q.CorrectAnswer
	if correct {
		session.RecordCorrect(q.ID, option)
		session.Pending = nil
		session.CurrentMCQIndex++
	} else {
		session.RecordIncorrect(q.ID)
		obj, _ := session.CurrentObjective()
		attempts := session.Attempts(q.ID)
		session.Pending = core.NewAnswerPromptInterrupt(q, hintFor(q, obj, attempts), attempts)
	}
	e.bus.Publish(events.NewQuestionAnsweredEvent(
		string(session.ID), q.ID, correct, session.Attempts(q.ID)))

	if err := e.store.Put(ctx, session); err != nil {
		return nil, err
	}
	return result(session), nil
}

// Run steps the session until it suspends, completes, or fails.
func (e *Engine) Run(ctx context.Context, id core.SessionID) (*StepResult, error) {
	for i := 0; i < maxRunSteps; i++ {
		res, err := e.Step(ctx, id)
		if err != nil {
			return nil, err
		}
		if res.Suspended || res.Session.Complete {
			return res, nil
		}
	}
	return nil, core.ErrState(core.CodeInvalidState,
		fmt.Sprintf("session %s did not settle within %d steps", id, maxRunSteps))
}

// GetState returns the public snapshot of a session.
func (e *Engine) GetState(ctx context.Context, id core.SessionID) (core.Snapshot, error) {
	session, err := e.store.Get(ctx, id)
	if err != nil {
		return core.Snapshot{}, err
	}
	return session.Snapshot(), nil
}

// Pending returns the active interrupt for a session, if any.
func (e *Engine) Pending(ctx context.Context, id core.SessionID) (*core.Interrupt, error) {
	session, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return session.Pending, nil
}

// List returns all known session ids.
func (e *Engine) List(ctx context.Context) ([]core.SessionID, error) {
	return e.store.List(ctx)
}

// Delete removes a session and any prefetch slot it holds.
func (e *Engine) Delete(ctx context.Context, id core.SessionID) error {
	e.cache.Delete(string(id))
	return e.store.Delete(ctx, id)
}

func result(session *core.Session) *StepResult {
	return &StepResult{
		Session:   session,
		Suspended: session.Suspended(),
		Interrupt: session.Pending,
	}
}
