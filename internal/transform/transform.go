package transform

import (
	"fmt"

	"github.com/rgehrsitz/corpusplan/internal/domain"
)

// ScenarioTransform is a composable what-if edit of scenario parameters. Transforms never
// mutate their input.
type ScenarioTransform interface {
	// Apply returns a modified copy of base
	Apply(base *domain.ScenarioParameters, d domain.Defaults) (*domain.ScenarioParameters, error)

	// Name returns a short identifier (e.g. "postpone_retirement")
	Name() string

	// Description returns a human-readable description of the edit
	Description() string

	// Validate checks the transform's own parameters without applying it
	Validate(base *domain.ScenarioParameters, d domain.Defaults) error
}

// ApplyTransforms applies transforms in order, each receiving the previous output. A nil base
// starts from an empty parameter set, which resolves to defaults.
func ApplyTransforms(base *domain.ScenarioParameters, d domain.Defaults, transforms []ScenarioTransform) (*domain.ScenarioParameters, error) {
	current := base.Clone()
	for i, t := range transforms {
		if t == nil {
			return nil, fmt.Errorf("transform at index %d is nil", i)
		}
		if err := t.Validate(current, d); err != nil {
			return nil, fmt.Errorf("transform %s validation failed: %w", t.Name(), err)
		}
		next, err := t.Apply(current, d)
		if err != nil {
			return nil, fmt.Errorf("transform %s failed: %w", t.Name(), err)
		}
		current = next
	}
	return current, nil
}

// TransformError represents an error that occurred during transformation.
type TransformError struct {
	TransformName string
	Operation     string
	Reason        string
	Err           error
}

func (e *TransformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transform %s (%s): %s: %v", e.TransformName, e.Operation, e.Reason, e.Err)
	}
	return fmt.Sprintf("transform %s (%s): %s", e.TransformName, e.Operation, e.Reason)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// NewTransformError creates a new TransformError.
func NewTransformError(transformName, operation, reason string, err error) error {
	return &TransformError{
		TransformName: transformName,
		Operation:     operation,
		Reason:        reason,
		Err:           err,
	}
}
