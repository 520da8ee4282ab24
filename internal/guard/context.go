// Package guard implements the trust boundary around the on-demand
// help assistants. Two context builders with different static types
// enforce the information-disclosure invariant: the general tutor
// context has no field for the correct answer at all, so it cannot leak
// what it cannot represent; the privileged helper context carries the
// answer but its output always passes through the response guardrail
// before leaving the boundary.
package guard

import (
	"fmt"
	"strings"

	"github.com/hugo-lorenzo-mato/tutor-ai/internal/core"
)

// StrugglingThreshold is the attempt count at which the assistant
// switches to extra-supportive framing.
const StrugglingThreshold = 3

// DefaultExcerptRunes caps how much source content is injected into a
// system prompt.
const DefaultExcerptRunes = 2000

// DefaultMaxTurns caps how many recent conversation turns a system
// prompt carries.
const DefaultMaxTurns = 10

// Limits bound how much session material a prompt may carry. The zero
// value means the defaults.
type Limits struct {
	ExcerptRunes int
	MaxTurns     int
}

func (l Limits) normalized() Limits {
	if l.ExcerptRunes <= 0 {
		l.ExcerptRunes = DefaultExcerptRunes
	}
	if l.MaxTurns <= 0 {
		l.MaxTurns = DefaultMaxTurns
	}
	return l
}

// Turn is one prior exchange with the assistant.
type Turn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// TutorContext is the capability-scoped context for the general-purpose
// assistant. By construction it has no field for the correct answer or
// its index; the withholding happens at the type level, not by
// filtering a serialized form.
type TutorContext struct {
	ExpertiseLevel       string
	ObjectiveTitle       string
	ObjectiveDescription string
	Question             string
	Options              []string
	HasAnswered          bool
	AnsweredCorrectly    bool
	Attempts             int
	Struggling           bool
	SourceExcerpt        string
	RecentTurns          []Turn
}

// HelperContext is the privileged context for the dedicated help agent.
// It embeds the tutor context and adds the concealed answer so the
// agent can reason about correctness. Anything built from it must go
// through Filter before delivery.
type HelperContext struct {
	TutorContext
	CorrectAnswer int
	CorrectOption string
}

// BuildTutorContext assembles the answer-free context from session state.
// Only the most recent limits.MaxTurns turns are kept.
func BuildTutorContext(sess *core.Session, expertise string, turns []Turn, limits Limits) TutorContext {
	limits = limits.normalized()
	if len(turns) > limits.MaxTurns {
		turns = turns[len(turns)-limits.MaxTurns:]
	}
	tc := TutorContext{
		ExpertiseLevel: normalizeExpertise(expertise),
		SourceExcerpt:  sess.ContentExcerpt(limits.ExcerptRunes),
		RecentTurns:    turns,
	}
	if obj, ok := sess.CurrentObjective(); ok {
		tc.ObjectiveTitle = obj.Title
		tc.ObjectiveDescription = obj.Description
	}
	if q, ok := sess.CurrentMCQ(); ok {
		tc.Question = q.Question
		tc.Options = q.Options
		tc.HasAnswered = sess.Answered(q)
		tc.AnsweredCorrectly = tc.HasAnswered
		tc.Attempts = sess.Attempts(q.ID)
		tc.Struggling = tc.Attempts >= StrugglingThreshold
	}
	return tc
}

// BuildHelperContext assembles the privileged context from session state.
func BuildHelperContext(sess *core.Session, expertise string, turns []Turn, limits Limits) HelperContext {
	hc := HelperContext{TutorContext: BuildTutorContext(sess, expertise, turns, limits)}
	if q, ok := sess.CurrentMCQ(); ok {
		hc.CorrectAnswer = q.CorrectAnswer
		hc.CorrectOption = q.CorrectOption()
	}
	return hc
}

// SystemPrompt renders the tutor context as a system prompt.
func (c TutorContext) SystemPrompt() string {
	var b strings.Builder
	b.WriteString("You are a patient study tutor. Adapt explanations to a ")
	b.WriteString(c.ExpertiseLevel)
	b.WriteString(" learner.\n")
	if c.ObjectiveTitle != "" {
		fmt.Fprintf(&b, "Current learning objective: %s", c.ObjectiveTitle)
		if c.ObjectiveDescription != "" {
			fmt.Fprintf(&b, ": %s", c.ObjectiveDescription)
		}
		b.WriteString("\n")
	}
	if c.Question != "" {
		fmt.Fprintf(&b, "The learner is working on this question: %q\n", c.Question)
		fmt.Fprintf(&b, "Options: %s\n", strings.Join(c.Options, " | "))
		if c.HasAnswered {
			b.WriteString("The learner has already answered this question correctly.\n")
		} else {
			fmt.Fprintf(&b, "The learner has made %d incorrect attempt(s).\n", c.Attempts)
		}
		b.WriteString("Never reveal which option is correct. Guide with concepts, not answers.\n")
	}
	if c.Struggling {
		b.WriteString("The learner is struggling. Be extra supportive and break ideas into small steps.\n")
	}
	if c.SourceExcerpt != "" {
		fmt.Fprintf(&b, "Source material excerpt:\n%s\n", c.SourceExcerpt)
	}
	if len(c.RecentTurns) > 0 {
		b.WriteString("Recent conversation:\n")
		for _, turn := range c.RecentTurns {
			fmt.Fprintf(&b, "%s: %s\n", turn.Role, turn.Content)
		}
	}
	return b.String()
}

// SystemPrompt renders the helper context. It includes the concealed
// answer so the agent can assess the learner's reasoning, together with
// an explicit non-disclosure instruction. The guardrail remains the
// enforcement layer.
func (c HelperContext) SystemPrompt() string {
	var b strings.Builder
	b.WriteString(c.TutorContext.SystemPrompt())
	if c.Question != "" {
		fmt.Fprintf(&b, "For your own reasoning only: the correct option index is %d (%q). ",
			c.CorrectAnswer, c.CorrectOption)
		b.WriteString("You must never state, hint at, or confirm it in your reply.\n")
	}
	return b.String()
}

func normalizeExpertise(level string) string {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "beginner", "novice", "":
		return "beginner"
	case "intermediate":
		return "intermediate"
	case "advanced", "expert":
		return "advanced"
	default:
		return "beginner"
	}
}
