package breakeven

import (
	"github.com/google/uuid"
	"github.com/rgehrsitz/corpusplan/internal/compare"
	"github.com/rgehrsitz/corpusplan/internal/domain"
	"github.com/shopspring/decimal"
)

// OptimizationTarget defines what parameter to optimize
type OptimizationTarget string

const (
	OptimizeRetirementAge OptimizationTarget = "retirement_age"
	OptimizeStepUp        OptimizationTarget = "step_up"
	OptimizeLumpSum       OptimizationTarget = "lump_sum"
)

// AllTargets lists the targets in reporting order
var AllTargets = []OptimizationTarget{OptimizeRetirementAge, OptimizeStepUp, OptimizeLumpSum}

// OptimizationGoal defines what outcome to achieve
type OptimizationGoal string

const (
	GoalCloseGap          OptimizationGoal = "close_gap"          // Smallest change that reaches the required corpus
	GoalMaximizeLongevity OptimizationGoal = "maximize_longevity" // Keep the corpus alive longest
)

// Constraints define bounds for optimization parameters
type Constraints struct {
	MinRetirementAge *int `json:"min_retirement_age,omitempty"`
	MaxRetirementAge *int `json:"max_retirement_age,omitempty"`

	// Step-up bounds in percent
	MinStepUp *decimal.Decimal `json:"min_step_up,omitempty"`
	MaxStepUp *decimal.Decimal `json:"max_step_up,omitempty"`

	MaxLumpSum *decimal.Decimal `json:"max_lump_sum,omitempty"`
}

// DefaultConstraints returns sensible default constraints
func DefaultConstraints() Constraints {
	minStep := decimal.Zero
	maxStep := decimal.NewFromInt(25)
	maxLump := decimal.NewFromInt(100000000)
	return Constraints{
		MinStepUp:  &minStep,
		MaxStepUp:  &maxStep,
		MaxLumpSum: &maxLump,
	}
}

// OptimizationRequest defines the parameters for an optimization run
type OptimizationRequest struct {
	UserID        uuid.UUID                  `json:"user_id"`
	BaseParams    *domain.ScenarioParameters `json:"-"`
	Target        OptimizationTarget         `json:"target"`
	Goal          OptimizationGoal           `json:"goal"`
	Constraints   Constraints                `json:"constraints"`
	MaxIterations int                        `json:"max_iterations"`
	Tolerance     decimal.Decimal            `json:"tolerance"` // Convergence tolerance for binary search
}

// OptimizationResult contains the results of an optimization run
type OptimizationResult struct {
	Request         OptimizationRequest `json:"request"`
	Success         bool                `json:"success"`
	Iterations      int                 `json:"iterations"`
	ConvergenceInfo string              `json:"convergence_info"`

	OptimalRetirementAge *int             `json:"optimal_retirement_age,omitempty"`
	OptimalStepUp        *decimal.Decimal `json:"optimal_step_up,omitempty"`
	OptimalLumpSum       *decimal.Decimal `json:"optimal_lump_sum,omitempty"`

	// Metrics at the optimal parameters
	Outcome compare.ComparisonResult `json:"outcome"`

	// Comparison to base
	Base            *compare.ComparisonResult `json:"base,omitempty"`
	GapDiffFromBase decimal.Decimal           `json:"gap_diff_from_base"`
}

// MultiDimensionalResult contains results when optimizing multiple parameters
type MultiDimensionalResult struct {
	Results         []OptimizationResult `json:"results"`
	BestByGap       *OptimizationResult  `json:"best_by_gap,omitempty"`
	BestByLongevity *OptimizationResult  `json:"best_by_longevity,omitempty"`
	Recommendations []string             `json:"recommendations"`
}

// SolverOptions configures the solver algorithm
type SolverOptions struct {
	Tolerance     decimal.Decimal // Convergence tolerance on the searched value
	MaxIterations int             // Maximum iterations
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Tolerance:     decimal.NewFromFloat(0.01),
		MaxIterations: 60,
	}
}

// Validate checks if constraints are internally consistent
func (c *Constraints) Validate() error {
	if c.MinRetirementAge != nil && c.MaxRetirementAge != nil && *c.MinRetirementAge > *c.MaxRetirementAge {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "min_retirement_age cannot be greater than max_retirement_age",
		}
	}
	if c.MinStepUp != nil && c.MaxStepUp != nil && c.MinStepUp.GreaterThan(*c.MaxStepUp) {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "min_step_up cannot be greater than max_step_up",
		}
	}
	if c.MinStepUp != nil && c.MinStepUp.IsNegative() {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "min_step_up cannot be negative",
		}
	}
	if c.MaxLumpSum != nil && c.MaxLumpSum.IsNegative() {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "max_lump_sum cannot be negative",
		}
	}
	return nil
}

// BreakEvenError represents errors from break-even solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
