package cmd

import (
	"os"
	"strings"
	"testing"

	"github.com/hugo-lorenzo-mato/tutor-ai/internal/core"
)

// captureStdout collects what fn prints.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()
	_ = w.Close()

	var b strings.Builder
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			b.Write(buf[:n])
		}
		if err != nil {
			break
		}
	}
	return b.String()
}

func TestRenderInterrupt_PlanApproval(t *testing.T) {
	session := core.NewSession("sess-1")
	interrupt := core.NewPlanApprovalInterrupt([]core.LearningObjective{
		{ID: "obj-1", Title: "Basics", Description: "Core terms", Difficulty: core.DifficultyEasy},
		{ID: "obj-2", Title: "Depth", Description: "Hard parts", Difficulty: core.DifficultyHard},
	})

	out := captureStdout(t, func() { renderInterrupt(session, interrupt) })
	for _, want := range []string{"Basics", "Depth", "easy", "hard", "resume sess-1 yes"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderInterrupt_AnswerPrompt(t *testing.T) {
	session := core.NewSession("sess-2")
	q := core.MCQ{
		ID:            "q1",
		Question:      "Pick one?",
		Options:       []string{"a", "b", "c", "d"},
		CorrectAnswer: 2,
	}
	interrupt := core.NewAnswerPromptInterrupt(q, "look closer", 1)

	out := captureStdout(t, func() { renderInterrupt(session, interrupt) })
	for _, want := range []string{"Pick one?", "0. a", "3. d", "Hint (attempt 2): look closer"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "correct") {
		t.Errorf("prompt output must not reference the answer:\n%s", out)
	}
}

func TestRenderReport(t *testing.T) {
	report := &core.ProgressReport{
		Narrative:     "Solid work.",
		Tips:          []string{"review hints"},
		AreasToReview: []string{"Depth"},
		Total:         6,
		Correct:       4,
		Percentage:    67,
	}

	out := captureStdout(t, func() { renderReport(report) })
	for _, want := range []string{"4/6 (67%)", "Solid work.", "- Depth", "Tip: review hints"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCheckConfig_DefaultsAreValid(t *testing.T) {
	dir := t.TempDir()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer func() { _ = os.Chdir(old) }()

	cfg, issues := checkConfig()
	if len(issues) != 0 {
		t.Fatalf("default config should validate, got %v", issues)
	}
	if cfg.Model.Name != "claude" || cfg.Server.Port != 8787 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}
