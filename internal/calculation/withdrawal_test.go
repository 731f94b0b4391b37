package calculation

import (
	"testing"

	"github.com/rgehrsitz/corpusplan/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildWithdrawalPlan_Phases(t *testing.T) {
	sc := flatScenario(nil)
	balances := map[domain.AssetClass]decimal.Decimal{
		domain.AssetFD:         decimal.NewFromInt(200000),
		domain.AssetMutualFund: decimal.NewFromInt(800000),
		domain.AssetEPF:        decimal.NewFromInt(1000000),
		domain.AssetNPS:        decimal.NewFromInt(500000),
		domain.AssetPPF:        decimal.NewFromInt(700000),
	}
	plan := BuildWithdrawalPlan(balances, decimal.NewFromInt(600000), sc, testYear+25)

	require.Len(t, plan.Phases, 3)
	assert.Equal(t, domain.PhaseLiquid, plan.Phases[0].Kind)
	assert.Equal(t, domain.PhaseTaxDeferred, plan.Phases[1].Kind)
	assert.Equal(t, domain.PhaseTaxFree, plan.Phases[2].Kind)
	assert.ElementsMatch(t, []domain.AssetClass{domain.AssetFD, domain.AssetMutualFund}, plan.Phases[0].Classes)
	assert.ElementsMatch(t, []domain.AssetClass{domain.AssetEPF, domain.AssetNPS}, plan.Phases[1].Classes)
	assert.Equal(t, []domain.AssetClass{domain.AssetPPF}, plan.Phases[2].Classes)
	assert.True(t, plan.Phases[0].Balance.Equal(decimal.NewFromInt(1000000)))
	assert.NotEmpty(t, plan.TaxTips)
	assert.NotEmpty(t, plan.Caveats)
	assert.Equal(t, domain.StrategySustainable, plan.Strategy)
}

func TestBuildWithdrawalPlan_Schedule(t *testing.T) {
	sc := flatScenario(nil)
	balances := map[domain.AssetClass]decimal.Decimal{
		domain.AssetFD:  decimal.NewFromInt(500000),
		domain.AssetEPF: decimal.NewFromInt(1000000),
		domain.AssetPPF: decimal.NewFromInt(1000000),
	}
	plan := BuildWithdrawalPlan(balances, decimal.NewFromInt(600000), sc, testYear+25)
	require.Len(t, plan.Schedule, 25)

	first := plan.Schedule[0]
	assert.Equal(t, testYear+25, first.Year)
	assert.Equal(t, 60, first.Age)
	assert.True(t, first.Draws[domain.AssetFD].Equal(decimal.NewFromInt(500000)))
	assert.True(t, first.Draws[domain.AssetEPF].Equal(decimal.NewFromInt(100000)))
	assert.Contains(t, first.Instruction, "from FD")

	second := plan.Schedule[1]
	assert.True(t, second.Draws[domain.AssetEPF].Equal(decimal.NewFromInt(600000)))

	fifth := plan.Schedule[4]
	assert.True(t, fifth.Draws[domain.AssetPPF].IsPositive())
	assert.True(t, fifth.Unmet.Equal(decimal.NewFromInt(500000)), "unmet %s", fifth.Unmet)
	assert.Contains(t, fifth.Instruction, "unfunded")

	last := plan.Schedule[24]
	assert.True(t, last.Unmet.Equal(decimal.NewFromInt(600000)))
	assert.Contains(t, last.Instruction, "exhausted")
}

func TestBuildWithdrawalPlan_ScheduleCapped(t *testing.T) {
	sc := defaultScenario(&domain.ScenarioParameters{CurrentAge: 30, RetirementAge: 40, LifeExpectancy: 90})
	plan := BuildWithdrawalPlan(map[domain.AssetClass]decimal.Decimal{}, decimal.Zero, sc, testYear+10)
	assert.Len(t, plan.Schedule, 30)
	assert.Equal(t, "No withdrawal needed", plan.Schedule[0].Instruction)
	for _, p := range plan.Phases {
		assert.Empty(t, p.Classes)
	}
}
