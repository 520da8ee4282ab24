package score

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/hugo-lorenzo-mato/tutor-ai/internal/core"
)

// genQuizState produces a random question set with a random answer map
// that mixes correct, incorrect, and missing answers.
func genQuizState() gopter.Gen {
	return gen.SliceOfN(10, gen.IntRange(0, 2)).Map(func(kinds []int) quizState {
		var mcqs []core.MCQ
		answers := make(map[string]int)
		for i, kind := range kinds {
			q := mcq(core.ObjectiveID(i), core.ObjectiveID(i%3), i%core.OptionCount)
			mcqs = append(mcqs, q)
			switch kind {
			case 0: // answered correctly
				answers[q.ID] = q.CorrectAnswer
			case 1: // answered incorrectly
				answers[q.ID] = (q.CorrectAnswer + 1) % core.OptionCount
			}
		}
		return quizState{mcqs: mcqs, answers: answers}
	})
}

type quizState struct {
	mcqs    []core.MCQ
	answers map[string]int
}

func TestScore_Properties(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("idempotent", prop.ForAll(
		func(st quizState) bool {
			first := Score(st.mcqs, st.answers)
			second := Score(st.mcqs, st.answers)
			return first == second
		},
		genQuizState(),
	))

	properties.Property("order independent", prop.ForAll(
		func(st quizState) bool {
			reversed := make([]core.MCQ, len(st.mcqs))
			for i, q := range st.mcqs {
				reversed[len(st.mcqs)-1-i] = q
			}
			return Score(st.mcqs, st.answers) == Score(reversed, st.answers)
		},
		genQuizState(),
	))

	properties.Property("correct never exceeds total", prop.ForAll(
		func(st quizState) bool {
			s := Score(st.mcqs, st.answers)
			return s.Correct >= 0 && s.Correct <= s.Total
		},
		genQuizState(),
	))

	properties.Property("percentage within bounds", prop.ForAll(
		func(st quizState) bool {
			s := Score(st.mcqs, st.answers)
			return s.Percentage >= 0 && s.Percentage <= 100
		},
		genQuizState(),
	))

	properties.Property("per-objective totals sum to overall", prop.ForAll(
		func(st quizState) bool {
			overall := Score(st.mcqs, st.answers)
			total, correct := 0, 0
			for _, sum := range PerObjective(st.mcqs, st.answers) {
				total += sum.Total
				correct += sum.Correct
			}
			return total == overall.Total && correct == overall.Correct
		},
		genQuizState(),
	))

	properties.TestingRun(t)
}
