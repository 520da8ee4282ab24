package genmodel

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Structured-output contracts for each generation call. Model output is
// validated against these before it is allowed into session state.

const objectivesSchema = `{
  "type": "array",
  "minItems": 1,
  "items": {
    "type": "object",
    "required": ["title", "description", "difficulty"],
    "properties": {
      "title": {"type": "string", "minLength": 1},
      "description": {"type": "string", "minLength": 1},
      "difficulty": {"type": "string"}
    }
  }
}`

const mcqsSchema = `{
  "type": "array",
  "minItems": 1,
  "items": {
    "type": "object",
    "required": ["question", "options", "correct_answer"],
    "properties": {
      "question": {"type": "string", "minLength": 1},
      "options": {
        "type": "array",
        "items": {"type": "string"}
      },
      "correct_answer": {"type": "integer"},
      "hint": {"type": "string"},
      "explanation": {"type": "string"}
    }
  }
}`

const critiqueSchema = `{
  "type": "object",
  "required": ["has_errors", "clarity_score", "needs_refinement"],
  "properties": {
    "has_errors": {"type": "boolean"},
    "clarity_score": {"type": "integer", "minimum": 1, "maximum": 10},
    "needs_refinement": {"type": "boolean"},
    "issues": {"type": "array", "items": {"type": "string"}},
    "suggestions": {"type": "array", "items": {"type": "string"}}
  }
}`

const reportSchema = `{
  "type": "object",
  "required": ["narrative", "tips"],
  "properties": {
    "narrative": {"type": "string", "minLength": 1},
    "tips": {"type": "array", "items": {"type": "string"}},
    "areas_to_review": {"type": "array", "items": {"type": "string"}}
  }
}`

var (
	compiledObjectives = mustCompile("objectives.json", objectivesSchema)
	compiledMCQs       = mustCompile("mcqs.json", mcqsSchema)
	compiledCritique   = mustCompile("critique.json", critiqueSchema)
	compiledReport     = mustCompile("report.json", reportSchema)
)

func mustCompile(name, raw string) *jsonschema.Schema {
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		panic(fmt.Sprintf("genmodel: unmarshal schema %s: %v", name, err))
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(name, doc); err != nil {
		panic(fmt.Sprintf("genmodel: add schema resource %s: %v", name, err))
	}
	schema, err := c.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("genmodel: compile schema %s: %v", name, err))
	}
	return schema
}
