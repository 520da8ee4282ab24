package genmodel

import (
	"context"
	"strings"
	"testing"

	"github.com/hugo-lorenzo-mato/tutor-ai/internal/core"
)

// fakeClient returns scripted responses in order.
type fakeClient struct {
	responses []string
	errs      []error
	calls     int
	requests  []core.CompletionRequest
}

func (f *fakeClient) Name() string                    { return "fake" }
func (f *fakeClient) Ping(context.Context) error      { return nil }
func (f *fakeClient) Complete(_ context.Context, req core.CompletionRequest) (string, error) {
	f.requests = append(f.requests, req)
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return "", nil
}

const validObjectivesJSON = `[
  {"title": "Basics", "description": "Core terminology", "difficulty": "easy"},
  {"title": "Mechanisms", "description": "How it works", "difficulty": "medium"},
  {"title": "Tradeoffs", "description": "When to apply it", "difficulty": "hard"}
]`

const validMCQsJSON = `[
  {"question": "What is X?", "options": ["a", "b", "c", "d"], "correct_answer": 1, "hint": "think basics", "explanation": "b is X"},
  {"question": "What is Y?", "options": ["a", "b", "c", "d"], "correct_answer": 0, "hint": "", "explanation": ""}
]`

func TestGenerateObjectives_ValidOutput(t *testing.T) {
	client := &fakeClient{responses: []string{validObjectivesJSON}}
	g := New(client, DefaultOptions())

	objectives, err := g.GenerateObjectives(context.Background(), "some content")
	if err != nil {
		t.Fatalf("generate objectives: %v", err)
	}
	if len(objectives) != 3 {
		t.Fatalf("expected 3 objectives, got %d", len(objectives))
	}
	if objectives[0].Title != "Basics" || objectives[0].Difficulty != core.DifficultyEasy {
		t.Fatalf("unexpected first objective: %+v", objectives[0])
	}
	if objectives[0].ID != "" {
		t.Fatalf("objective ids are assigned by the caller, got %q", objectives[0].ID)
	}
}

func TestGenerateObjectives_FencedOutput(t *testing.T) {
	client := &fakeClient{responses: []string{
		"Here is the plan:\n```json\n" + validObjectivesJSON + "\n```\nEnjoy!",
	}}
	g := New(client, DefaultOptions())
	objectives, err := g.GenerateObjectives(context.Background(), "content")
	if err != nil {
		t.Fatalf("fenced output should parse: %v", err)
	}
	if len(objectives) != 3 {
		t.Fatalf("expected 3 objectives, got %d", len(objectives))
	}
}

func TestGenerateObjectives_TooFewIsIntegrityError(t *testing.T) {
	client := &fakeClient{responses: []string{
		`[{"title": "Only one", "description": "d", "difficulty": "easy"}]`,
	}}
	g := New(client, DefaultOptions())
	_, err := g.GenerateObjectives(context.Background(), "content")
	if err == nil {
		t.Fatalf("expected error for undersized plan")
	}
	if !core.IsCategory(err, core.ErrCatIntegrity) {
		t.Fatalf("expected integrity error, got %v", err)
	}
}

func TestGenerateObjectives_ExcessTruncated(t *testing.T) {
	items := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		items = append(items, `{"title": "t", "description": "d", "difficulty": "easy"}`)
	}
	client := &fakeClient{responses: []string{"[" + strings.Join(items, ",") + "]"}}
	g := New(client, DefaultOptions())
	objectives, err := g.GenerateObjectives(context.Background(), "content")
	if err != nil {
		t.Fatalf("oversized plan should be truncated: %v", err)
	}
	if len(objectives) != core.MaxObjectives {
		t.Fatalf("expected %d objectives, got %d", core.MaxObjectives, len(objectives))
	}
}

func TestGenerateObjectives_BadDifficultyNormalized(t *testing.T) {
	client := &fakeClient{responses: []string{
		`[{"title": "a", "description": "d", "difficulty": "impossible"},
		  {"title": "b", "description": "d", "difficulty": "easy"},
		  {"title": "c", "description": "d", "difficulty": "hard"}]`,
	}}
	g := New(client, DefaultOptions())
	objectives, err := g.GenerateObjectives(context.Background(), "content")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if objectives[0].Difficulty != core.DifficultyMedium {
		t.Fatalf("unknown difficulty should fall back to medium, got %q", objectives[0].Difficulty)
	}
}

func TestGenerateObjectives_NonJSONOutput(t *testing.T) {
	client := &fakeClient{responses: []string{"I could not produce a plan, sorry."}}
	g := New(client, DefaultOptions())
	_, err := g.GenerateObjectives(context.Background(), "content")
	if err == nil {
		t.Fatalf("expected schema error for prose output")
	}
	if !core.IsCategory(err, core.ErrCatGeneration) {
		t.Fatalf("expected generation error, got %v", err)
	}
	if !strings.Contains(err.Error(), core.CodeSchemaMismatch) {
		t.Fatalf("expected SCHEMA_MISMATCH, got %v", err)
	}
}

func TestGenerateMCQs_SetsObjectiveAndNormalizes(t *testing.T) {
	// Second question has 3 options and an out-of-range answer.
	client := &fakeClient{responses: []string{`[
	  {"question": "ok?", "options": ["a", "b", "c", "d"], "correct_answer": 2},
	  {"question": "short?", "options": ["a", "b", "c"], "correct_answer": 9}
	]`}}
	g := New(client, DefaultOptions())

	obj := core.LearningObjective{ID: "obj-2", Title: "T", Difficulty: core.DifficultyMedium}
	mcqs, err := g.GenerateMCQs(context.Background(), obj, "content", 2)
	if err != nil {
		t.Fatalf("generate mcqs: %v", err)
	}
	if len(mcqs) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(mcqs))
	}
	for _, q := range mcqs {
		if q.ObjectiveID != "obj-2" {
			t.Errorf("question missing objective id: %+v", q)
		}
		if len(q.Options) != core.OptionCount {
			t.Errorf("options not normalized: %+v", q)
		}
	}
	if mcqs[1].CorrectAnswer != 0 {
		t.Fatalf("out-of-range answer should reset to 0, got %d", mcqs[1].CorrectAnswer)
	}
}

func TestGenerateMCQs_ModelFailureIsRetryableGeneration(t *testing.T) {
	client := &fakeClient{errs: []error{context.DeadlineExceeded}}
	g := New(client, DefaultOptions())
	_, err := g.GenerateMCQs(context.Background(), core.LearningObjective{ID: "obj-1"}, "content", 3)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !core.IsRetryable(err) {
		t.Fatalf("model failures should be retryable: %v", err)
	}
}

func TestCritique_Decodes(t *testing.T) {
	client := &fakeClient{responses: []string{
		`{"has_errors": false, "clarity_score": 8, "needs_refinement": false, "issues": [], "suggestions": ["tighten q2"]}`,
	}}
	g := New(client, DefaultOptions())
	critique, err := g.Critique(context.Background(), core.LearningObjective{ID: "obj-1"}, nil)
	if err != nil {
		t.Fatalf("critique: %v", err)
	}
	if critique.ClarityScore != 8 || critique.NeedsRefinement {
		t.Fatalf("unexpected critique: %+v", critique)
	}
}

func TestRefine_PreservesIDs(t *testing.T) {
	client := &fakeClient{responses: []string{validMCQsJSON}}
	g := New(client, DefaultOptions())

	original := []core.MCQ{
		{ID: "q1", ObjectiveID: "obj-1", Question: "old1", Options: []string{"a", "b", "c", "d"}},
		{ID: "q2", ObjectiveID: "obj-1", Question: "old2", Options: []string{"a", "b", "c", "d"}},
	}
	refined, err := g.Refine(context.Background(), core.LearningObjective{ID: "obj-1"}, original, &core.Critique{NeedsRefinement: true})
	if err != nil {
		t.Fatalf("refine: %v", err)
	}
	if refined[0].ID != "q1" || refined[1].ID != "q2" {
		t.Fatalf("refine must preserve question ids: %+v", refined)
	}
	if refined[0].Question != "What is X?" {
		t.Fatalf("refine should carry new text: %+v", refined[0])
	}
}

func TestGenerateReport_KeepsAuthoritativeScores(t *testing.T) {
	client := &fakeClient{responses: []string{
		`{"narrative": "Solid session.", "tips": ["review basics"], "areas_to_review": []}`,
	}}
	g := New(client, DefaultOptions())

	in := core.ProgressReport{Total: 9, Correct: 6, Percentage: 67, AreasToReview: []string{"Mechanisms"}}
	out, err := g.GenerateReport(context.Background(), nil, in)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if out.Total != 9 || out.Correct != 6 || out.Percentage != 67 {
		t.Fatalf("scores must come from the input, got %+v", out)
	}
	if out.Narrative != "Solid session." {
		t.Fatalf("narrative not carried: %+v", out)
	}
	if len(out.AreasToReview) != 1 || out.AreasToReview[0] != "Mechanisms" {
		t.Fatalf("empty generated areas must not clobber computed ones: %+v", out)
	}
}

func TestRespond_PlainText(t *testing.T) {
	client := &fakeClient{responses: []string{"  Think about it differently.  \n"}}
	g := New(client, DefaultOptions())
	got, err := g.Respond(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	if got != "Think about it differently." {
		t.Fatalf("expected trimmed response, got %q", got)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`},
		{"bare array", `[1, 2]`, `[1, 2]`},
		{"leading prose", `Sure! {"a": 1}`, `{"a": 1}`},
		{"trailing prose", `[1] done`, `[1]`},
		{"fenced", "```json\n[1]\n```", `[1]`},
		{"nested", `[{"opts": ["x", "y"]}]`, `[{"opts": ["x", "y"]}]`},
		{"bracket in string", `{"a": "]"}`, `{"a": "]"}`},
		{"no json", "nothing here", ""},
		{"unterminated", `{"a": 1`, ""},
	}
	for _, tc := range tests {
		if got := ExtractJSON(tc.in); got != tc.want {
			t.Errorf("%s: ExtractJSON(%q) = %q, want %q", tc.name, tc.in, got, tc.want)
		}
	}
}
