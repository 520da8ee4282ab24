package engine

import (
	"context"
	"fmt"

	"github.com/hugo-lorenzo-mato/tutor-ai/internal/core"
	"github.com/hugo-lorenzo-mato/tutor-ai/internal/events"
	"github.com/hugo-lorenzo-mato/tutor-ai/internal/graph"
	"github.com/hugo-lorenzo-mato/tutor-ai/internal/score"
)

// parseNode ingests the source document.
func (e *Engine) parseNode(ctx context.Context, s *core.Session) (graph.Outcome[*core.Session], error) {
	out := graph.Outcome[*core.Session]{State: s, Next: s.Phase}

	if s.SourcePath == "" {
		return out, core.ErrValidation(core.CodeMissingContent, "session has no source document")
	}
	content, err := e.extractor.Extract(ctx, s.SourcePath)
	if err != nil {
		return out, err
	}
	s.Content = content
	out.Next = core.PhasePlanning
	return out, nil
}

// planNode generates the learning objectives.
func (e *Engine) planNode(ctx context.Context, s *core.Session) (graph.Outcome[*core.Session], error) {
	out := graph.Outcome[*core.Session]{State: s, Next: s.Phase}

	if s.Content == "" {
		return out, core.ErrValidation(core.CodeMissingContent, "no parsed content to plan from")
	}
	objectives, err := e.generator.GenerateObjectives(ctx, s.Content)
	if err != nil {
		return out, err
	}
	for i := range objectives {
		objectives[i].ID = core.ObjectiveID(i)
	}
	s.Objectives = objectives
	s.PlanApproved = false
	out.Next = core.PhaseApproval
	return out, nil
}

// approvalNode suspends until the user decides on the plan. The resume
// path sets PlanApproved before the node runs again.
func (e *Engine) approvalNode(_ context.Context, s *core.Session) (graph.Outcome[*core.Session], error) {
	out := graph.Outcome[*core.Session]{State: s, Next: s.Phase}

	if len(s.Objectives) == 0 {
		return out, core.ErrState(core.CodeInvalidState, "no plan to approve")
	}
	if s.PlanApproved {
		out.Next = core.PhaseQuiz
		return out, nil
	}
	s.Pending = core.NewPlanApprovalInterrupt(s.Objectives)
	e.bus.Publish(events.NewInterruptRaisedEvent(string(s.ID), string(core.InterruptPlanApproval)))
	out.Suspended = true
	return out, nil
}

// quizNode produces the question batch for the current objective,
// consuming a prefetched batch when one matches, and kicks off the
// prefetch for the next objective.
func (e *Engine) quizNode(ctx context.Context, s *core.Session) (graph.Outcome[*core.Session], error) {
	out := graph.Outcome[*core.Session]{State: s, Next: s.Phase}

	obj, ok := s.CurrentObjective()
	if !ok {
		return out, core.ErrState(core.CodeInvalidState,
			fmt.Sprintf("objective index %d out of range", s.CurrentObjectiveIndex))
	}

	mcqs, err := e.questionsFor(ctx, s, obj)
	if err != nil {
		return out, err
	}
	if len(mcqs) == 0 {
		return out, core.ErrIntegrity(core.CodeNoQuestions,
			fmt.Sprintf("no questions produced for %s", obj.ID))
	}

	// Question ids are global across the session.
	base := len(s.MCQs)
	for i := range mcqs {
		mcqs[i].ID = fmt.Sprintf("q%d", base+i+1)
		if mcqs[i].ObjectiveID == "" {
			mcqs[i].ObjectiveID = obj.ID
		}
		mcqs[i].Normalize()
	}
	s.CurrentMCQIndex = base
	s.MCQs = append(s.MCQs, mcqs...)

	e.prefetchNext(s)

	out.Next = core.PhaseFeedback
	return out, nil
}

// questionsFor returns the batch for an objective, preferring a matching
// prefetched result over a synchronous generation pass.
func (e *Engine) questionsFor(ctx context.Context, s *core.Session, obj core.LearningObjective) ([]core.MCQ, error) {
	if e.opts.Prefetch {
		if future, ok := e.cache.Take(string(s.ID), s.CurrentObjectiveIndex); ok {
			res, err := future.Await(ctx)
			if err == nil && res.Err == nil && len(res.MCQs) > 0 {
				e.bus.Publish(events.NewPrefetchHitEvent(string(s.ID), s.CurrentObjectiveIndex))
				return res.MCQs, nil
			}
			// A failed background generation falls back to the
			// synchronous path; the step itself is unaffected.
		}
		e.bus.Publish(events.NewPrefetchMissEvent(string(s.ID), s.CurrentObjectiveIndex))
	}

	outcome, err := e.gate.Generate(ctx, obj, func(ctx context.Context) ([]core.MCQ, error) {
		return e.generator.GenerateMCQs(ctx, obj, s.Content, e.opts.QuestionsPerObjective)
	})
	if err != nil {
		return nil, err
	}
	if outcome.Refined {
		e.bus.Publish(events.NewQuizRefinedEvent(string(s.ID), obj.ID, outcome.Iterations))
	}
	return outcome.MCQs, nil
}

// prefetchNext launches background generation for the next objective.
// The goroutine is deliberately detached from the request context: the
// result is consumed by a later step or harmlessly discarded.
func (e *Engine) prefetchNext(s *core.Session) {
	if !e.opts.Prefetch {
		return
	}
	nextIndex := s.CurrentObjectiveIndex + 1
	if nextIndex >= len(s.Objectives) {
		return
	}
	obj := s.Objectives[nextIndex]
	content := s.Content
	count := e.opts.QuestionsPerObjective
	e.cache.Set(string(s.ID), nextIndex, func() ([]core.MCQ, error) {
		outcome, err := e.gate.Generate(context.Background(), obj, func(ctx context.Context) ([]core.MCQ, error) {
			return e.generator.GenerateMCQs(ctx, obj, content, count)
		})
		if err != nil {
			return nil, err
		}
		return outcome.MCQs, nil
	})
}

// feedbackNode walks the session through the current objective's
// questions: suspend on the next unanswered question, advance past
// answered ones, and move to the next objective or the summary when the
// batch is exhausted.
func (e *Engine) feedbackNode(_ context.Context, s *core.Session) (graph.Outcome[*core.Session], error) {
	out := graph.Outcome[*core.Session]{State: s, Next: s.Phase}

	q, ok := s.CurrentMCQ()
	if ok && !s.Answered(q) {
		obj, _ := s.CurrentObjective()
		attempts := s.Attempts(q.ID)
		s.Pending = core.NewAnswerPromptInterrupt(q, hintFor(q, obj, attempts), attempts)
		e.bus.Publish(events.NewInterruptRaisedEvent(string(s.ID), string(core.InterruptAnswerPrompt)))
		out.Suspended = true
		return out, nil
	}
	if ok {
		// Already answered (e.g. replayed step): move to the next one.
		s.CurrentMCQIndex++
		return out, nil
	}

	// Current batch exhausted.
	if s.CurrentObjectiveIndex+1 < len(s.Objectives) {
		s.CurrentObjectiveIndex++
		out.Next = core.PhaseQuiz
		return out, nil
	}
	out.Next = core.PhaseSummary
	return out, nil
}

// summaryNode computes the final score and produces the progress
// report. Report generation failures degrade to a static report; the
// score itself is never model-derived.
func (e *Engine) summaryNode(ctx context.Context, s *core.Session) (graph.Outcome[*core.Session], error) {
	out := graph.Outcome[*core.Session]{State: s, Next: s.Phase}

	if len(s.MCQs) == 0 {
		return out, core.ErrState(core.CodeInvalidState, "no questions to summarize")
	}

	summary := score.Score(s.MCQs, s.UserAnswers)
	report := core.ProgressReport{
		Total:         summary.Total,
		Correct:       summary.Correct,
		Percentage:    summary.Percentage,
		AreasToReview: score.AreasToReview(s.MCQs, s.UserAnswers, s.Objectives),
	}

	generated, err := e.generator.GenerateReport(ctx, s.Objectives, report)
	if err != nil {
		e.logger.Warn("report generation failed, using static report",
			"session_id", s.ID, "error", err.Error())
		report.Narrative = fmt.Sprintf(
			"You answered %d of %d questions correctly (%d%%).",
			report.Correct, report.Total, report.Percentage)
		report.Tips = staticTips(report)
		s.Report = &report
	} else {
		s.Report = generated
	}

	s.Complete = true
	e.bus.PublishPriority(events.NewSessionCompletedEvent(
		string(s.ID), report.Total, report.Correct, report.Percentage))
	return out, nil
}

func staticTips(report core.ProgressReport) []string {
	tips := []string{"Review the explanations for the questions you found hardest."}
	if len(report.AreasToReview) > 0 {
		tips = append(tips, "Revisit the source material for the objectives listed under areas to review.")
	}
	if report.Percentage >= 80 {
		tips = append(tips, "Strong result. Try the material again at a harder difficulty.")
	} else {
		tips = append(tips, "Take the session again after reviewing; repetition consolidates recall.")
	}
	return tips
}
