package breakeven

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestDefaultConstraints(t *testing.T) {
	c := DefaultConstraints()
	if c.MinStepUp == nil || !c.MinStepUp.IsZero() {
		t.Error("Expected a zero minimum step-up")
	}
	if c.MaxStepUp == nil || !c.MaxStepUp.Equal(decimal.NewFromInt(25)) {
		t.Error("Expected a 25% maximum step-up")
	}
	if c.MinRetirementAge != nil || c.MaxRetirementAge != nil {
		t.Error("Expected retirement ages to be derived from the scenario")
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Default constraints should validate: %v", err)
	}
}

func TestConstraints_Validate(t *testing.T) {
	neg := decimal.NewFromInt(-1)
	lo, hi := decimal.NewFromInt(10), decimal.NewFromInt(5)
	tests := []struct {
		name string
		c    Constraints
	}{
		{"step-up range", Constraints{MinStepUp: &lo, MaxStepUp: &hi}},
		{"negative step-up", Constraints{MinStepUp: &neg}},
		{"negative lump sum", Constraints{MaxLumpSum: &neg}},
		{"age range", Constraints{MinRetirementAge: intPtr(65), MaxRetirementAge: intPtr(55)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			var bee *BreakEvenError
			if !errors.As(err, &bee) {
				t.Fatalf("Expected BreakEvenError, got %v", err)
			}
			if bee.Operation != "validate_constraints" {
				t.Errorf("Unexpected operation %s", bee.Operation)
			}
		})
	}
}

func TestBreakEvenError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &BreakEvenError{Operation: "optimize", Message: "failed", Cause: cause}
	if err.Error() != "optimize: failed: boom" {
		t.Errorf("Unexpected message %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("Expected the cause to unwrap")
	}
}
