// Package score provides pure aggregation over answered questions.
// Nothing here touches state or performs I/O; every function is a
// deterministic projection of its inputs.
package score

import (
	"github.com/hugo-lorenzo-mato/tutor-ai/internal/core"
)

// Summary aggregates results across a set of questions.
type Summary struct {
	Total      int `json:"total"`
	Correct    int `json:"correct"`
	Percentage int `json:"percentage"`
}

// ObjectiveSummary aggregates results for one objective.
type ObjectiveSummary struct {
	ObjectiveID string `json:"objective_id"`
	Total       int    `json:"total"`
	Correct     int    `json:"correct"`
	Percentage  int    `json:"percentage"`
}

// Score computes the overall result. Percentage is rounded half-up to
// the nearest integer and defined as 0 when there are no questions.
func Score(mcqs []core.MCQ, answers map[string]int) Summary {
	s := Summary{Total: len(mcqs)}
	for _, q := range mcqs {
		if stored, ok := answers[q.ID]; ok && stored == q.CorrectAnswer {
			s.Correct++
		}
	}
	s.Percentage = percentage(s.Correct, s.Total)
	return s
}

// PerObjective groups results by objective id in first-seen order.
func PerObjective(mcqs []core.MCQ, answers map[string]int) []ObjectiveSummary {
	var order []string
	byID := make(map[string]*ObjectiveSummary)
	for _, q := range mcqs {
		sum, ok := byID[q.ObjectiveID]
		if !ok {
			order = append(order, q.ObjectiveID)
			sum = &ObjectiveSummary{ObjectiveID: q.ObjectiveID}
			byID[q.ObjectiveID] = sum
		}
		sum.Total++
		if stored, found := answers[q.ID]; found && stored == q.CorrectAnswer {
			sum.Correct++
		}
	}
	result := make([]ObjectiveSummary, 0, len(order))
	for _, id := range order {
		sum := byID[id]
		sum.Percentage = percentage(sum.Correct, sum.Total)
		result = append(result, *sum)
	}
	return result
}

// AreasToReview returns the titles of objectives with at least one
// question not answered correctly. Objective ids present in the
// questions but missing from the objective list are silently skipped;
// the mismatch is a non-fatal data-integrity issue.
func AreasToReview(mcqs []core.MCQ, answers map[string]int, objectives []core.LearningObjective) []string {
	titles := make(map[string]string, len(objectives))
	for _, o := range objectives {
		titles[o.ID] = o.Title
	}

	var order []string
	incomplete := make(map[string]bool)
	for _, q := range mcqs {
		if _, seen := incomplete[q.ObjectiveID]; !seen {
			order = append(order, q.ObjectiveID)
			incomplete[q.ObjectiveID] = false
		}
		if stored, ok := answers[q.ID]; !ok || stored != q.CorrectAnswer {
			incomplete[q.ObjectiveID] = true
		}
	}

	var areas []string
	for _, id := range order {
		if !incomplete[id] {
			continue
		}
		if title, ok := titles[id]; ok {
			areas = append(areas, title)
		}
	}
	return areas
}

// percentage rounds half-up using integer arithmetic.
func percentage(correct, total int) int {
	if total == 0 {
		return 0
	}
	return (200*correct + total) / (2 * total)
}
