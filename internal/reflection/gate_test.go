package reflection

import (
	"context"
	"errors"
	"testing"

	"github.com/hugo-lorenzo-mato/tutor-ai/internal/core"
)

// scriptedCritic returns canned critiques in order and counts calls.
type scriptedCritic struct {
	critiques    []*core.Critique
	critiqueErr  error
	refineErr    error
	refineResize int // if > 0, refine returns this many questions instead
	critiqueN    int
	refineN      int
}

func (c *scriptedCritic) Critique(_ context.Context, _ core.LearningObjective, _ []core.MCQ) (*core.Critique, error) {
	if c.critiqueErr != nil {
		return nil, c.critiqueErr
	}
	i := c.critiqueN
	c.critiqueN++
	if i >= len(c.critiques) {
		i = len(c.critiques) - 1
	}
	return c.critiques[i], nil
}

func (c *scriptedCritic) Refine(_ context.Context, _ core.LearningObjective, mcqs []core.MCQ, _ *core.Critique) ([]core.MCQ, error) {
	c.refineN++
	if c.refineErr != nil {
		return nil, c.refineErr
	}
	n := len(mcqs)
	if c.refineResize > 0 {
		n = c.refineResize
	}
	out := make([]core.MCQ, n)
	for i := range out {
		out[i] = core.MCQ{
			ID:            mcqs[i%len(mcqs)].ID,
			Question:      "refined",
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: 0,
		}
	}
	return out, nil
}

func batch(n int) []core.MCQ {
	out := make([]core.MCQ, n)
	for i := range out {
		out[i] = core.MCQ{
			ID:            core.ObjectiveID(i),
			Question:      "original",
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: 0,
		}
	}
	return out
}

func generateOK(n int) func(context.Context) ([]core.MCQ, error) {
	return func(context.Context) ([]core.MCQ, error) { return batch(n), nil }
}

var obj = core.LearningObjective{ID: "obj-1", Title: "Fractions"}

func TestGate_PassesOnCleanCritique(t *testing.T) {
	critic := &scriptedCritic{critiques: []*core.Critique{
		{ClarityScore: 9},
	}}
	g := New(critic, DefaultOptions(), nil)

	out, err := g.Generate(context.Background(), obj, generateOK(3))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out.Refined || out.Iterations != 0 {
		t.Fatalf("expected no refinement, got %+v", out)
	}
	if critic.refineN != 0 {
		t.Fatalf("refine should not have been called")
	}
}

func TestGate_RefinesUntilClean(t *testing.T) {
	critic := &scriptedCritic{critiques: []*core.Critique{
		{ClarityScore: 4, NeedsRefinement: true},
		{ClarityScore: 8},
	}}
	g := New(critic, DefaultOptions(), nil)

	out, err := g.Generate(context.Background(), obj, generateOK(3))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !out.Refined || out.Iterations != 1 {
		t.Fatalf("expected one refinement pass, got %+v", out)
	}
	if out.MCQs[0].Question != "refined" {
		t.Fatalf("expected refined content")
	}
	if len(out.MCQs) != 3 {
		t.Fatalf("refinement must preserve question count, got %d", len(out.MCQs))
	}
}

func TestGate_BoundedIterations(t *testing.T) {
	// Critique never passes; the loop must still terminate.
	critic := &scriptedCritic{critiques: []*core.Critique{
		{ClarityScore: 1, HasErrors: true, NeedsRefinement: true},
	}}
	g := New(critic, Options{Enabled: true, MaxIterations: 2, ClarityThreshold: 7}, nil)

	out, err := g.Generate(context.Background(), obj, generateOK(3))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out.Iterations != 2 {
		t.Fatalf("expected exactly 2 refinement passes, got %d", out.Iterations)
	}
	if critic.refineN != 2 {
		t.Fatalf("expected 2 refine calls, got %d", critic.refineN)
	}
	if len(out.MCQs) != 3 {
		t.Fatalf("question count changed: %d", len(out.MCQs))
	}
}

func TestGate_CritiqueFailureKeepsBatch(t *testing.T) {
	critic := &scriptedCritic{critiqueErr: errors.New("model down")}
	g := New(critic, DefaultOptions(), nil)

	out, err := g.Generate(context.Background(), obj, generateOK(3))
	if err != nil {
		t.Fatalf("critique failure must not fail the gate: %v", err)
	}
	if out.Refined {
		t.Fatalf("expected unrefined fallback batch")
	}
	if len(out.MCQs) != 3 {
		t.Fatalf("expected original batch preserved")
	}
}

func TestGate_RefineFailureKeepsBatch(t *testing.T) {
	critic := &scriptedCritic{
		critiques: []*core.Critique{{ClarityScore: 2, NeedsRefinement: true}},
		refineErr: errors.New("model down"),
	}
	g := New(critic, DefaultOptions(), nil)

	out, err := g.Generate(context.Background(), obj, generateOK(3))
	if err != nil {
		t.Fatalf("refine failure must not fail the gate: %v", err)
	}
	if out.Refined {
		t.Fatalf("expected unrefined fallback batch")
	}
	if out.MCQs[0].Question != "original" {
		t.Fatalf("expected original content preserved")
	}
}

func TestGate_RejectsResizedRefinement(t *testing.T) {
	critic := &scriptedCritic{
		critiques:    []*core.Critique{{ClarityScore: 2, NeedsRefinement: true}},
		refineResize: 5,
	}
	g := New(critic, DefaultOptions(), nil)

	out, err := g.Generate(context.Background(), obj, generateOK(3))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out.Refined {
		t.Fatalf("resized rewrite must be rejected")
	}
	if len(out.MCQs) != 3 {
		t.Fatalf("expected original count 3, got %d", len(out.MCQs))
	}
}

func TestGate_DisabledSkipsCritique(t *testing.T) {
	critic := &scriptedCritic{critiques: []*core.Critique{{ClarityScore: 1}}}
	g := New(critic, Options{Enabled: false}, nil)

	out, err := g.Generate(context.Background(), obj, generateOK(2))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if critic.critiqueN != 0 {
		t.Fatalf("disabled gate must not critique")
	}
	if len(out.MCQs) != 2 {
		t.Fatalf("expected raw batch")
	}
}

func TestGate_GenerateErrorPropagates(t *testing.T) {
	g := New(&scriptedCritic{}, DefaultOptions(), nil)
	wantErr := core.ErrGeneration(core.CodeQuizFailed, "boom")

	_, err := g.Generate(context.Background(), obj, func(context.Context) ([]core.MCQ, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected generation error to propagate, got %v", err)
	}
}
