package graph

import (
	"context"
	"testing"

	"github.com/hugo-lorenzo-mato/tutor-ai/internal/core"
)

type testState struct {
	visited []core.Phase
}

func passthrough(next core.Phase) Node[*testState] {
	return func(_ context.Context, s *testState) (Outcome[*testState], error) {
		return Outcome[*testState]{State: s, Next: next}, nil
	}
}

func fullBuilder(t *testing.T) *Builder[*testState] {
	t.Helper()
	b := NewBuilder[*testState]()
	for _, p := range core.AllPhases() {
		next := core.NextPhase(p)
		if next == "" {
			next = p
		}
		if err := b.AddNode(p, passthrough(next)); err != nil {
			t.Fatalf("AddNode(%s): %v", p, err)
		}
	}
	return b
}

func TestBuilder_CompileRequiresAllPhases(t *testing.T) {
	b := NewBuilder[*testState]()
	if err := b.AddNode(core.PhaseUpload, passthrough(core.PhasePlanning)); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if _, err := b.Compile(); err == nil {
		t.Fatalf("expected compile error for missing phases")
	}

	if _, err := fullBuilder(t).Compile(); err != nil {
		t.Fatalf("expected full builder to compile: %v", err)
	}
}

func TestBuilder_RejectsDuplicatesAndInvalid(t *testing.T) {
	b := NewBuilder[*testState]()
	if err := b.AddNode(core.PhaseQuiz, passthrough(core.PhaseFeedback)); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if err := b.AddNode(core.PhaseQuiz, passthrough(core.PhaseFeedback)); err == nil {
		t.Fatalf("expected duplicate node error")
	}
	if err := b.AddNode("bogus", passthrough(core.PhaseQuiz)); err == nil {
		t.Fatalf("expected invalid phase error")
	}
	if err := b.AddNode(core.PhaseUpload, nil); err == nil {
		t.Fatalf("expected nil node error")
	}
}

func TestGraph_RunValidatesTransitions(t *testing.T) {
	b := fullBuilder(t)
	g, err := b.Compile()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	out, err := g.Run(context.Background(), core.PhaseUpload, &testState{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.Next != core.PhasePlanning {
		t.Fatalf("expected planning, got %s", out.Next)
	}
}

func TestGraph_RunRejectsIllegalTransition(t *testing.T) {
	b := NewBuilder[*testState]()
	for _, p := range core.AllPhases() {
		var node Node[*testState]
		if p == core.PhaseQuiz {
			// Quiz jumping back to planning is not a legal edge.
			node = passthrough(core.PhasePlanning)
		} else {
			next := core.NextPhase(p)
			if next == "" {
				next = p
			}
			node = passthrough(next)
		}
		if err := b.AddNode(p, node); err != nil {
			t.Fatalf("AddNode(%s): %v", p, err)
		}
	}
	g, err := b.Compile()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	if _, err := g.Run(context.Background(), core.PhaseQuiz, &testState{}); err == nil {
		t.Fatalf("expected illegal transition error")
	}
}

func TestGraph_SuspendedSkipsTransitionCheck(t *testing.T) {
	b := NewBuilder[*testState]()
	for _, p := range core.AllPhases() {
		p := p
		if err := b.AddNode(p, func(_ context.Context, s *testState) (Outcome[*testState], error) {
			return Outcome[*testState]{State: s, Next: p, Suspended: true}, nil
		}); err != nil {
			t.Fatalf("AddNode(%s): %v", p, err)
		}
	}
	g, err := b.Compile()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	out, err := g.Run(context.Background(), core.PhaseApproval, &testState{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !out.Suspended {
		t.Fatalf("expected suspended outcome")
	}
}
