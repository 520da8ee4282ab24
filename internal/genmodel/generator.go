// Package genmodel implements the typed generation capability on top of
// a raw model client. Every structured call follows the same discipline:
// prompt for JSON only, extract the JSON payload from the raw output,
// validate it against a schema, then decode into domain types.
package genmodel

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/hugo-lorenzo-mato/tutor-ai/internal/core"
)

// Options bound each generation call.
type Options struct {
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// DefaultOptions returns the standard generation bounds.
func DefaultOptions() Options {
	return Options{
		MaxTokens:   4096,
		Temperature: 0.7,
		Timeout:     120 * time.Second,
	}
}

// Generator implements core.ContentGenerator over a core.ModelClient.
type Generator struct {
	client core.ModelClient
	opts   Options
}

// New creates a generator bound to a model client.
func New(client core.ModelClient, opts Options) *Generator {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultOptions().MaxTokens
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultOptions().Timeout
	}
	return &Generator{client: client, opts: opts}
}

var _ core.ContentGenerator = (*Generator)(nil)

// GenerateObjectives produces learning objectives from document content.
// Objective IDs are left empty for the caller to assign.
func (g *Generator) GenerateObjectives(ctx context.Context, content string) ([]core.LearningObjective, error) {
	raw, err := g.complete(ctx, objectivesSystemPrompt, objectivesUserPrompt(content))
	if err != nil {
		return nil, core.ErrGeneration(core.CodePlanFailed, "objective generation failed").WithCause(err)
	}

	var objectives []core.LearningObjective
	if err := decodeValidated(raw, compiledObjectives, &objectives); err != nil {
		return nil, err
	}

	if len(objectives) > core.MaxObjectives {
		objectives = objectives[:core.MaxObjectives]
	}
	if len(objectives) < core.MinObjectives {
		return nil, core.ErrIntegrity(core.CodeBadPlanSize,
			fmt.Sprintf("model produced %d objectives, need %d-%d",
				len(objectives), core.MinObjectives, core.MaxObjectives))
	}
	for i := range objectives {
		objectives[i].Normalize()
	}
	return objectives, nil
}

// GenerateMCQs produces count questions for one objective. Question IDs
// are left empty for the caller to assign; the objective id is set.
func (g *Generator) GenerateMCQs(ctx context.Context, obj core.LearningObjective, content string, count int) ([]core.MCQ, error) {
	if count <= 0 {
		count = core.DefaultQuestionsPerObjective
	}
	raw, err := g.complete(ctx, mcqSystemPrompt, mcqUserPrompt(obj, content, count))
	if err != nil {
		return nil, core.ErrGeneration(core.CodeQuizFailed,
			fmt.Sprintf("question generation failed for %s", obj.ID)).WithCause(err)
	}

	var mcqs []core.MCQ
	if err := decodeValidated(raw, compiledMCQs, &mcqs); err != nil {
		return nil, err
	}
	if len(mcqs) > count {
		mcqs = mcqs[:count]
	}
	for i := range mcqs {
		mcqs[i].ObjectiveID = obj.ID
		mcqs[i].Normalize()
	}
	return mcqs, nil
}

// Critique assesses a generated question batch.
func (g *Generator) Critique(ctx context.Context, obj core.LearningObjective, mcqs []core.MCQ) (*core.Critique, error) {
	raw, err := g.complete(ctx, critiqueSystemPrompt, critiqueUserPrompt(obj, mcqs))
	if err != nil {
		return nil, core.ErrGeneration(core.CodeQuizFailed, "critique failed").WithCause(err)
	}
	var critique core.Critique
	if err := decodeValidated(raw, compiledCritique, &critique); err != nil {
		return nil, err
	}
	return &critique, nil
}

// Refine rewrites a question batch against a critique. Question and
// objective ids are carried over from the input batch by position.
func (g *Generator) Refine(ctx context.Context, obj core.LearningObjective, mcqs []core.MCQ, critique *core.Critique) ([]core.MCQ, error) {
	raw, err := g.complete(ctx, mcqSystemPrompt, refineUserPrompt(obj, mcqs, critique))
	if err != nil {
		return nil, core.ErrGeneration(core.CodeQuizFailed, "refinement failed").WithCause(err)
	}

	var refined []core.MCQ
	if err := decodeValidated(raw, compiledMCQs, &refined); err != nil {
		return nil, err
	}
	for i := range refined {
		refined[i].ObjectiveID = obj.ID
		if i < len(mcqs) {
			refined[i].ID = mcqs[i].ID
		}
		refined[i].Normalize()
	}
	return refined, nil
}

// GenerateReport produces the personalized narrative and tips. Scoring
// fields from the input report are authoritative and carried through
// unchanged.
func (g *Generator) GenerateReport(ctx context.Context, objectives []core.LearningObjective, report core.ProgressReport) (*core.ProgressReport, error) {
	raw, err := g.complete(ctx, reportSystemPrompt, reportUserPrompt(objectives, report))
	if err != nil {
		return nil, core.ErrGeneration(core.CodeQuizFailed, "report generation failed").WithCause(err)
	}

	var generated core.ProgressReport
	if err := decodeValidated(raw, compiledReport, &generated); err != nil {
		return nil, err
	}

	out := report
	out.Narrative = generated.Narrative
	out.Tips = generated.Tips
	if len(generated.AreasToReview) > 0 {
		out.AreasToReview = generated.AreasToReview
	}
	return &out, nil
}

// Respond produces a free-text reply. No schema applies.
func (g *Generator) Respond(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	raw, err := g.complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return "", core.ErrGeneration(core.CodeQuizFailed, "response generation failed").WithCause(err)
	}
	return strings.TrimSpace(raw), nil
}

func (g *Generator) complete(ctx context.Context, system, user string) (string, error) {
	return g.client.Complete(ctx, core.CompletionRequest{
		SystemPrompt: system,
		UserPrompt:   user,
		MaxTokens:    g.opts.MaxTokens,
		Temperature:  g.opts.Temperature,
		Timeout:      g.opts.Timeout,
	})
}

// decodeValidated extracts the JSON payload from raw model output,
// validates it against the schema, and decodes it into out.
func decodeValidated(raw string, schema *jsonschema.Schema, out any) error {
	payload := ExtractJSON(raw)
	if payload == "" {
		return core.ErrGeneration(core.CodeSchemaMismatch, "model output contains no JSON payload")
	}

	var doc any
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return core.ErrGeneration(core.CodeSchemaMismatch, "model output is not valid JSON").WithCause(err)
	}
	if err := schema.Validate(doc); err != nil {
		return core.ErrGeneration(core.CodeSchemaMismatch, "model output violates the expected schema").WithCause(err)
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return core.ErrGeneration(core.CodeSchemaMismatch, "model output does not decode").WithCause(err)
	}
	return nil
}

// ExtractJSON returns the first complete JSON object or array embedded
// in raw model output, tolerating markdown fences and prose around it.
func ExtractJSON(raw string) string {
	s := strings.TrimSpace(raw)

	// Strip a fenced block if the payload is wrapped in one.
	if idx := strings.Index(s, "```"); idx >= 0 {
		rest := s[idx+3:]
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			rest = rest[nl+1:]
		}
		if end := strings.Index(rest, "```"); end >= 0 {
			s = strings.TrimSpace(rest[:end])
		}
	}

	start := -1
	for i, r := range s {
		if r == '{' || r == '[' {
			start = i
			break
		}
	}
	if start < 0 {
		return ""
	}

	open := s[start]
	var closer byte = '}'
	if open == '[' {
		closer = ']'
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == open:
			depth++
		case c == closer:
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
