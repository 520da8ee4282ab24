// Package reflection implements the generate-critique-refine quality
// gate for generated question batches. The loop is bounded: at most
// MaxIterations refinement passes, each preceded by one critique call.
package reflection

import (
	"context"

	"github.com/hugo-lorenzo-mato/tutor-ai/internal/core"
	"github.com/hugo-lorenzo-mato/tutor-ai/internal/logging"
)

// Critic produces quality assessments and rewrites for question batches.
// The engine's content generator satisfies this interface.
type Critic interface {
	Critique(ctx context.Context, obj core.LearningObjective, mcqs []core.MCQ) (*core.Critique, error)
	Refine(ctx context.Context, obj core.LearningObjective, mcqs []core.MCQ, critique *core.Critique) ([]core.MCQ, error)
}

// Options bounds the reflection loop.
type Options struct {
	// Enabled degrades the gate to a single generate call when false.
	Enabled bool

	// MaxIterations caps the number of refinement passes.
	MaxIterations int

	// ClarityThreshold is the minimum acceptable clarity score (1..10).
	ClarityThreshold int
}

// DefaultOptions returns the standard gate configuration.
func DefaultOptions() Options {
	return Options{
		Enabled:          true,
		MaxIterations:    2,
		ClarityThreshold: 7,
	}
}

// Outcome reports what the gate produced and how hard it worked.
type Outcome struct {
	MCQs         []core.MCQ
	Refined      bool
	Iterations   int
	LastCritique *core.Critique
}

// Gate runs generated content through bounded critique/refine cycles.
type Gate struct {
	critic Critic
	opts   Options
	logger *logging.Logger
}

// New creates a gate. A nil logger falls back to a no-op logger.
func New(critic Critic, opts Options, logger *logging.Logger) *Gate {
	if logger == nil {
		logger = logging.NewNop()
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultOptions().MaxIterations
	}
	if opts.ClarityThreshold <= 0 {
		opts.ClarityThreshold = DefaultOptions().ClarityThreshold
	}
	return &Gate{critic: critic, opts: opts, logger: logger}
}

// Generate runs generate once and then critiques and refines the output
// until it passes the quality bar or the iteration budget is spent.
// Critique and refinement failures are recovered locally: the gate
// falls back to the best output it has instead of failing the step.
// Refinement must preserve the question count; a rewrite that changes
// it is rejected and the previous batch kept.
func (g *Gate) Generate(
	ctx context.Context,
	obj core.LearningObjective,
	generate func(context.Context) ([]core.MCQ, error),
) (*Outcome, error) {
	mcqs, err := generate(ctx)
	if err != nil {
		return nil, err
	}

	out := &Outcome{MCQs: mcqs}
	if !g.opts.Enabled {
		return out, nil
	}

	for out.Iterations < g.opts.MaxIterations {
		critique, err := g.critic.Critique(ctx, obj, out.MCQs)
		if err != nil {
			g.logger.Warn("critique failed, keeping current batch",
				"objective", obj.ID, "error", err.Error())
			return out, nil
		}
		out.LastCritique = critique

		if !g.needsRefinement(critique) {
			return out, nil
		}

		refined, err := g.critic.Refine(ctx, obj, out.MCQs, critique)
		out.Iterations++
		if err != nil {
			g.logger.Warn("refinement failed, keeping current batch",
				"objective", obj.ID, "iteration", out.Iterations, "error", err.Error())
			return out, nil
		}
		if len(refined) != len(out.MCQs) {
			g.logger.Warn("refinement changed question count, rejecting rewrite",
				"objective", obj.ID, "want", len(out.MCQs), "got", len(refined))
			return out, nil
		}
		out.MCQs = refined
		out.Refined = true
	}

	return out, nil
}

func (g *Gate) needsRefinement(c *core.Critique) bool {
	return c.NeedsRefinement || c.HasErrors || c.ClarityScore < g.opts.ClarityThreshold
}
