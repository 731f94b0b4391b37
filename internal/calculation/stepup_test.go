package calculation

import (
	"testing"

	"github.com/rgehrsitz/corpusplan/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sipHoldings(sc domain.ResolvedScenario, monthly float64) Holdings {
	return Aggregate([]domain.Investment{{Name: "fund", Type: strPtr("MF"), MonthlySIP: decPtr(monthly)}}, nil, sc, domain.StandardDefaults(), testYear)
}

func TestOptimizeStepUp_ScenarioGrid(t *testing.T) {
	sc := defaultScenario(&domain.ScenarioParameters{CurrentAge: 40, RetirementAge: 50, StepUpPercent: decPtr(10)})
	h := sipHoldings(sc, 10000)

	res := OptimizeStepUp(h, sc, decimal.NewFromInt(1000000000))
	require.Len(t, res.Scenarios, sc.YearsToRetirement+1)
	assert.Equal(t, -1, res.RecommendedStopYear)
	assert.Contains(t, res.Recommendation, "Continue")
	assert.Equal(t, "Continue step-up through retirement", res.Scenarios[len(res.Scenarios)-1].Label)
	for i := 1; i < len(res.Scenarios); i++ {
		assert.True(t, res.Scenarios[i].ProjectedCorpus.GreaterThanOrEqual(res.Scenarios[i-1].ProjectedCorpus))
		assert.False(t, res.Scenarios[i].MeetsTarget)
	}
}

func TestOptimizeStepUp_SmallestMeetingStop(t *testing.T) {
	sc := defaultScenario(&domain.ScenarioParameters{CurrentAge: 40, RetirementAge: 50, StepUpPercent: decPtr(10)})
	h := sipHoldings(sc, 10000)

	probe := OptimizeStepUp(h, sc, decimal.Zero)
	target := probe.Scenarios[4].ProjectedCorpus

	res := OptimizeStepUp(h, sc, target)
	assert.Equal(t, 4, res.RecommendedStopYear)
	assert.True(t, res.Scenarios[4].MeetsTarget)
	assert.False(t, res.Scenarios[3].MeetsTarget)
	assert.Contains(t, res.Recommendation, "after year 4")
}

func TestOptimizeStepUp_ZeroStepUp(t *testing.T) {
	sc := defaultScenario(&domain.ScenarioParameters{CurrentAge: 40, RetirementAge: 50})
	h := sipHoldings(sc, 10000)

	res := OptimizeStepUp(h, sc, decimal.Zero)
	require.NotEmpty(t, res.Scenarios)
	first := res.Scenarios[0].ProjectedCorpus
	for _, s := range res.Scenarios {
		assert.True(t, s.ProjectedCorpus.Equal(first))
	}
	assert.Equal(t, 0, res.RecommendedStopYear)
	assert.NotEmpty(t, res.Recommendation)

	short := OptimizeStepUp(h, sc, decimal.NewFromInt(1000000000))
	assert.Equal(t, -1, short.RecommendedStopYear)
	assert.Contains(t, short.Recommendation, "step-up")
}

func TestOptimizeStepUp_TargetNetsOtherAssets(t *testing.T) {
	sc := defaultScenario(&domain.ScenarioParameters{CurrentAge: 40, RetirementAge: 50})
	h := Aggregate([]domain.Investment{
		{Name: "fd", Type: strPtr("FD"), CurrentValue: decPtr(1000000)},
	}, nil, sc, domain.StandardDefaults(), testYear)

	flat := FutureValue(decimal.NewFromInt(1000000), decimal.NewFromInt(7), 10)
	res := OptimizeStepUp(h, sc, flat.Add(decimal.NewFromInt(500000)))
	assert.True(t, res.TargetCorpus.Equal(decimal.NewFromInt(500000)), "target %s", res.TargetCorpus)

	none := OptimizeStepUp(h, sc, decimal.NewFromInt(10))
	assert.True(t, none.TargetCorpus.IsZero())
}
