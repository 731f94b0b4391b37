package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/corpusplan/internal/calculation"
	"github.com/rgehrsitz/corpusplan/internal/compare"
	"github.com/rgehrsitz/corpusplan/internal/domain"
	"github.com/rgehrsitz/corpusplan/internal/transform"
	"github.com/shopspring/decimal"
)

// amountTolerance bounds the lump-sum search, in rupees
var amountTolerance = decimal.NewFromInt(1000)

// Solver finds the smallest plan change that reaches a goal
type Solver struct {
	Compare *compare.CompareEngine
	Options SolverOptions
}

// NewSolver creates a new break-even solver
func NewSolver(calcEngine *calculation.Engine, options SolverOptions) *Solver {
	return &Solver{
		Compare: compare.NewCompareEngine(calcEngine),
		Options: options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(calcEngine *calculation.Engine) *Solver {
	return NewSolver(calcEngine, DefaultSolverOptions())
}

// Optimize performs optimization based on the request
func (s *Solver) Optimize(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := req.Constraints.Validate(); err != nil {
		return nil, err
	}
	if req.MaxIterations == 0 {
		req.MaxIterations = s.Options.MaxIterations
	}
	if req.Tolerance.IsZero() {
		req.Tolerance = s.Options.Tolerance
	}
	if req.Goal == "" {
		req.Goal = GoalCloseGap
	}
	params, err := s.Compare.BaseParams(ctx, req.UserID, req.BaseParams)
	if err != nil {
		return nil, &BreakEvenError{Operation: "optimize", Message: "failed to load base parameters", Cause: err}
	}
	req.BaseParams = params

	var run func(context.Context, OptimizationRequest, *compare.ComparisonResult) (*OptimizationResult, error)
	switch req.Target {
	case OptimizeRetirementAge:
		run = s.optimizeRetirementAge
	case OptimizeStepUp:
		run = s.optimizeStepUp
	case OptimizeLumpSum:
		run = s.optimizeLumpSum
	default:
		return nil, &BreakEvenError{
			Operation: "optimize",
			Message:   fmt.Sprintf("unsupported optimization target: %s", req.Target),
		}
	}
	if req.Target != OptimizeRetirementAge && req.Goal != GoalCloseGap {
		return nil, &BreakEvenError{
			Operation: "optimize",
			Message:   fmt.Sprintf("goal %s is only supported for %s", req.Goal, OptimizeRetirementAge),
		}
	}

	base, err := s.evaluate(ctx, req, "base", req.BaseParams)
	if err != nil {
		return nil, &BreakEvenError{Operation: "optimize", Message: "failed to calculate base scenario", Cause: err}
	}
	result, err := run(ctx, req, &base)
	if err != nil {
		return nil, err
	}
	result.Base = &base
	result.GapDiffFromBase = result.Outcome.Gap.Sub(base.Gap)
	return result, nil
}

func (s *Solver) evaluate(ctx context.Context, req OptimizationRequest, name string, params *domain.ScenarioParameters) (compare.ComparisonResult, error) {
	if err := ctx.Err(); err != nil {
		return compare.ComparisonResult{}, err
	}
	return s.Compare.Run(ctx, req.UserID, name, params)
}

func (s *Solver) apply(req OptimizationRequest, t transform.ScenarioTransform) (*domain.ScenarioParameters, error) {
	return transform.ApplyTransforms(req.BaseParams, s.Compare.CalcEngine.Defaults, []transform.ScenarioTransform{t})
}

// optimizeRetirementAge grid-searches retirement ages one year apart
func (s *Solver) optimizeRetirementAge(ctx context.Context, req OptimizationRequest, base *compare.ComparisonResult) (*OptimizationResult, error) {
	sc := req.BaseParams.Resolve(s.Compare.CalcEngine.Defaults)
	minAge := max(sc.CurrentAge, sc.RetirementAge-10)
	maxAge := min(sc.LifeExpectancy, sc.RetirementAge+10)
	if req.Constraints.MinRetirementAge != nil {
		minAge = max(sc.CurrentAge, *req.Constraints.MinRetirementAge)
	}
	if req.Constraints.MaxRetirementAge != nil {
		maxAge = min(sc.LifeExpectancy, *req.Constraints.MaxRetirementAge)
	}
	if minAge > maxAge {
		return nil, &BreakEvenError{
			Operation: "optimize_retirement_age",
			Message:   fmt.Sprintf("no retirement ages between %d and %d", minAge, maxAge),
		}
	}

	var best *OptimizationResult
	iterations := 0
	for age := minAge; age <= maxAge && iterations < req.MaxIterations; age++ {
		iterations++
		params, err := s.apply(req, &transform.SetRetirementAge{Age: age})
		if err != nil {
			return nil, &BreakEvenError{Operation: "optimize_retirement_age", Message: "failed to apply age transform", Cause: err}
		}
		outcome, err := s.evaluate(ctx, req, fmt.Sprintf("retire_at_%d", age), params)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}

		a := age
		result := &OptimizationResult{Request: req, Iterations: iterations, OptimalRetirementAge: &a, Outcome: outcome}
		if req.Goal == GoalCloseGap && outcome.OnTrack() {
			result.Success = true
			result.ConvergenceInfo = fmt.Sprintf("Earliest on-track age found after %d ages", iterations)
			return result, nil
		}
		if best == nil || s.isBetter(result, best, req.Goal) {
			best = result
		}
	}

	if best == nil {
		return nil, &BreakEvenError{Operation: "optimize_retirement_age", Message: "no valid retirement ages found"}
	}
	best.Iterations = iterations
	if req.Goal == GoalCloseGap {
		best.ConvergenceInfo = fmt.Sprintf("No age between %d and %d closes the gap; smallest gap shown", minAge, maxAge)
		return best, nil
	}
	best.Success = true
	best.ConvergenceInfo = fmt.Sprintf("Evaluated %d retirement ages", iterations)
	return best, nil
}

// bisect finds the smallest value in [lo, hi] for which the scenario is on track, assuming the
// gap shrinks as the value grows
func (s *Solver) bisect(
	ctx context.Context,
	req OptimizationRequest,
	op string,
	lo, hi, tolerance decimal.Decimal,
	build func(v decimal.Decimal) transform.ScenarioTransform,
) (decimal.Decimal, compare.ComparisonResult, int, bool, error) {
	eval := func(v decimal.Decimal) (compare.ComparisonResult, error) {
		t := build(v)
		if t == nil {
			return s.evaluate(ctx, req, op, req.BaseParams)
		}
		params, err := s.apply(req, t)
		if err != nil {
			return compare.ComparisonResult{}, &BreakEvenError{Operation: op, Message: "failed to apply transform", Cause: err}
		}
		return s.evaluate(ctx, req, op, params)
	}

	iterations := 1
	top, err := eval(hi)
	if err != nil {
		return decimal.Zero, compare.ComparisonResult{}, iterations, false, err
	}
	if !top.OnTrack() {
		return hi, top, iterations, false, nil
	}
	iterations++
	bottom, err := eval(lo)
	if err != nil {
		return decimal.Zero, compare.ComparisonResult{}, iterations, false, err
	}
	if bottom.OnTrack() {
		return lo, bottom, iterations, true, nil
	}

	best := top
	for hi.Sub(lo).GreaterThan(tolerance) && iterations < req.MaxIterations {
		iterations++
		mid := lo.Add(hi).Div(decimal.NewFromInt(2))
		r, err := eval(mid)
		if err != nil {
			return decimal.Zero, compare.ComparisonResult{}, iterations, false, err
		}
		if r.OnTrack() {
			hi, best = mid, r
		} else {
			lo = mid
		}
	}
	return hi, best, iterations, true, nil
}

// optimizeStepUp finds the smallest annual SIP step-up that closes the gap
func (s *Solver) optimizeStepUp(ctx context.Context, req OptimizationRequest, base *compare.ComparisonResult) (*OptimizationResult, error) {
	lo, hi := decimal.Zero, decimal.NewFromInt(25)
	if req.Constraints.MinStepUp != nil {
		lo = *req.Constraints.MinStepUp
	}
	if req.Constraints.MaxStepUp != nil {
		hi = *req.Constraints.MaxStepUp
	}
	fromYear := 0
	if req.BaseParams != nil {
		fromYear = req.BaseParams.StepUpFromYear
	}

	v, outcome, iterations, ok, err := s.bisect(ctx, req, "optimize_step_up", lo, hi, req.Tolerance,
		func(v decimal.Decimal) transform.ScenarioTransform {
			return &transform.SetStepUp{Percent: v, FromYear: fromYear}
		})
	if err != nil {
		return nil, err
	}

	pct := v.RoundCeil(2)
	result := &OptimizationResult{Request: req, Success: ok, Iterations: iterations, OptimalStepUp: &pct, Outcome: outcome}
	if ok {
		result.ConvergenceInfo = fmt.Sprintf("Binary search converged within %s%%", req.Tolerance.String())
	} else {
		result.ConvergenceInfo = fmt.Sprintf("Even a %s%% step-up does not close the gap", hi.String())
	}
	return result, nil
}

// optimizeLumpSum finds the smallest one-off investment today that closes the gap
func (s *Solver) optimizeLumpSum(ctx context.Context, req OptimizationRequest, base *compare.ComparisonResult) (*OptimizationResult, error) {
	hi := decimal.NewFromInt(100000000)
	if req.Constraints.MaxLumpSum != nil {
		hi = *req.Constraints.MaxLumpSum
	}

	v, outcome, iterations, ok, err := s.bisect(ctx, req, "optimize_lump_sum", decimal.Zero, hi, amountTolerance,
		func(v decimal.Decimal) transform.ScenarioTransform {
			if !v.IsPositive() {
				return nil
			}
			return &transform.AddLumpSum{Amount: v}
		})
	if err != nil {
		return nil, err
	}

	amount := v.RoundCeil(0)
	result := &OptimizationResult{Request: req, Success: ok, Iterations: iterations, OptimalLumpSum: &amount, Outcome: outcome}
	if ok {
		result.ConvergenceInfo = fmt.Sprintf("Binary search converged within %s", amountTolerance.String())
	} else {
		result.ConvergenceInfo = fmt.Sprintf("A lump sum of %s does not close the gap", hi.StringFixed(0))
	}
	return result, nil
}

// isBetter compares two candidates under a goal; ties keep the earlier candidate
func (s *Solver) isBetter(a, b *OptimizationResult, goal OptimizationGoal) bool {
	switch goal {
	case GoalMaximizeLongevity:
		return survivalAge(a.Outcome) > survivalAge(b.Outcome)
	default:
		return a.Outcome.Gap.LessThan(b.Outcome.Gap)
	}
}

// survivalAge is the depletion age, or a sentinel beyond any age when the corpus never runs out
func survivalAge(r compare.ComparisonResult) int {
	if r.DepletionAge == nil {
		return 1 << 30
	}
	return *r.DepletionAge
}
