package breakeven

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rgehrsitz/corpusplan/internal/domain"
	"github.com/rgehrsitz/corpusplan/internal/output"
)

// OptimizeMultiDimensional runs every target against every goal it supports and ranks the results
func (s *Solver) OptimizeMultiDimensional(
	ctx context.Context,
	userID uuid.UUID,
	base *domain.ScenarioParameters,
	constraints Constraints,
	goals []OptimizationGoal,
) (*MultiDimensionalResult, error) {
	if err := constraints.Validate(); err != nil {
		return nil, err
	}

	var results []OptimizationResult
	for _, target := range AllTargets {
		for _, goal := range goals {
			if target != OptimizeRetirementAge && goal != GoalCloseGap {
				continue
			}
			req := OptimizationRequest{
				UserID:        userID,
				BaseParams:    base,
				Target:        target,
				Goal:          goal,
				Constraints:   constraints,
				MaxIterations: s.Options.MaxIterations,
				Tolerance:     s.Options.Tolerance,
			}
			result, err := s.Optimize(ctx, req)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				s.Compare.CalcEngine.Logger.Warnf("optimization of %s (%s) failed: %v", target, goal, err)
				continue
			}
			results = append(results, *result)
		}
	}

	if len(results) == 0 {
		return nil, &BreakEvenError{
			Operation: "optimize_multi_dimensional",
			Message:   "no optimizations completed",
		}
	}

	md := &MultiDimensionalResult{Results: results}
	for i := range results {
		r := &results[i]
		if r.Success && (md.BestByGap == nil || r.Outcome.Gap.LessThan(md.BestByGap.Outcome.Gap)) {
			md.BestByGap = r
		}
		if md.BestByLongevity == nil || r.Outcome.CorpusLongevity > md.BestByLongevity.Outcome.CorpusLongevity {
			md.BestByLongevity = r
		}
	}
	md.Recommendations = s.generateMultiDimensionalRecommendations(md)
	return md, nil
}

// OptimizeAllTargets optimizes every target for a single goal
func (s *Solver) OptimizeAllTargets(
	ctx context.Context,
	userID uuid.UUID,
	base *domain.ScenarioParameters,
	constraints Constraints,
	goal OptimizationGoal,
) (*MultiDimensionalResult, error) {
	return s.OptimizeMultiDimensional(ctx, userID, base, constraints, []OptimizationGoal{goal})
}

func (s *Solver) generateMultiDimensionalRecommendations(md *MultiDimensionalResult) []string {
	var recs []string
	for _, r := range md.Results {
		if !r.Success || r.Request.Goal != GoalCloseGap {
			continue
		}
		recs = append(recs, fmt.Sprintf("To close the gap: %s", describeChange(&r)))
	}
	if len(recs) == 0 {
		recs = append(recs, "No single change within the constraints closes the gap; combine several levers")
	}
	if md.BestByLongevity != nil {
		recs = append(recs, fmt.Sprintf("Longest-lasting corpus (%d of %d years): %s",
			md.BestByLongevity.Outcome.CorpusLongevity,
			md.BestByLongevity.Outcome.RetirementYears,
			describeChange(md.BestByLongevity)))
	}
	return recs
}

// describeChange renders the optimal parameter of a result in plain words
func describeChange(r *OptimizationResult) string {
	switch {
	case r.OptimalRetirementAge != nil:
		return fmt.Sprintf("retire at %d", *r.OptimalRetirementAge)
	case r.OptimalStepUp != nil:
		return fmt.Sprintf("step up SIP by %s%% a year", r.OptimalStepUp.StringFixed(2))
	case r.OptimalLumpSum != nil:
		return fmt.Sprintf("invest %s today", output.FormatCurrency(*r.OptimalLumpSum))
	}
	return string(r.Request.Target)
}
