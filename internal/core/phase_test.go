package core

import "testing"

func TestPhase_Order(t *testing.T) {
	want := []Phase{PhaseUpload, PhasePlanning, PhaseApproval, PhaseQuiz, PhaseFeedback, PhaseSummary}
	for i, p := range want {
		if PhaseOrder(p) != i {
			t.Fatalf("expected %s order %d, got %d", p, i, PhaseOrder(p))
		}
	}
	if PhaseOrder("invalid") != -1 {
		t.Fatalf("expected invalid phase order -1")
	}
}

func TestPhase_Navigation(t *testing.T) {
	if NextPhase(PhaseUpload) != PhasePlanning {
		t.Fatalf("expected next upload to be planning")
	}
	if NextPhase(PhaseApproval) != PhaseQuiz {
		t.Fatalf("expected next approval to be quiz")
	}
	if NextPhase(PhaseSummary) != "" {
		t.Fatalf("expected no next phase after summary")
	}
}

func TestPhase_Validation(t *testing.T) {
	for _, phase := range AllPhases() {
		if !ValidPhase(phase) {
			t.Fatalf("expected phase %s to be valid", phase)
		}
	}
	if ValidPhase("invalid") {
		t.Fatalf("expected invalid phase to be rejected")
	}
}

func TestPhase_Parse(t *testing.T) {
	p, err := ParsePhase("quiz")
	if err != nil {
		t.Fatalf("unexpected error parsing phase: %v", err)
	}
	if p != PhaseQuiz {
		t.Fatalf("expected quiz phase, got %s", p)
	}

	if _, err := ParsePhase("unknown"); err == nil {
		t.Fatalf("expected error parsing invalid phase")
	}
}

func TestPhase_ValidTransition(t *testing.T) {
	tests := []struct {
		from, to Phase
		want     bool
	}{
		{PhaseUpload, PhasePlanning, true},
		{PhasePlanning, PhaseApproval, true},
		{PhaseApproval, PhaseQuiz, true},
		{PhaseQuiz, PhaseFeedback, true},
		{PhaseFeedback, PhaseSummary, true},
		{PhaseApproval, PhaseUpload, true}, // plan rejection reset
		{PhaseFeedback, PhaseQuiz, true},   // next-objective loop
		{PhaseSummary, PhaseQuiz, false},
		{PhaseQuiz, PhasePlanning, false},
		{PhaseFeedback, PhaseApproval, false},
	}
	for _, tt := range tests {
		if got := ValidTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("ValidTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
