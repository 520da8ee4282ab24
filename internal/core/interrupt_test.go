package core

import "testing"

func TestCoerceBool(t *testing.T) {
	tests := []struct {
		name    string
		value   interface{}
		want    bool
		wantErr bool
	}{
		{"bool true", true, true, false},
		{"bool false", false, false, false},
		{"string true", "true", true, false},
		{"string yes", "yes", true, false},
		{"string approve", "approve", true, false},
		{"string no", "no", false, false},
		{"string reject", "reject", false, false},
		{"padded", "  TRUE ", true, false},
		{"number", 1.0, false, true},
		{"garbage", "maybe", false, true},
		{"nil", nil, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CoerceBool(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %v", tt.value)
				}
				if !IsCategory(err, ErrCatValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("CoerceBool(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestCoerceOptionIndex(t *testing.T) {
	tests := []struct {
		name    string
		value   interface{}
		want    int
		wantErr bool
	}{
		{"int", 2, 2, false},
		{"json float", 3.0, 3, false},
		{"numeric string", "1", 1, false},
		{"padded string", " 0 ", 0, false},
		{"fractional", 1.5, 0, true},
		{"negative", -1, 0, true},
		{"too large", 4, 0, true},
		{"non-numeric string", "two", 0, true},
		{"bool", true, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CoerceOptionIndex(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %v", tt.value)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("CoerceOptionIndex(%v) = %d, want %d", tt.value, got, tt.want)
			}
		})
	}
}

func TestDomainError_Matching(t *testing.T) {
	err := ErrValidation(CodeBadResumeValue, "bad value").WithDetail("index", 9)
	if !IsCategory(err, ErrCatValidation) {
		t.Fatalf("expected validation category")
	}
	if IsRetryable(err) {
		t.Fatalf("validation errors are not retryable")
	}
	if GetCategory(nil) != ErrCatInternal {
		t.Fatalf("nil error should map to internal category")
	}

	gen := ErrGeneration(CodeQuizFailed, "model unavailable")
	if !IsRetryable(gen) {
		t.Fatalf("generation errors are retryable")
	}
}
