package calculation

import (
	"testing"
	"time"

	"github.com/rgehrsitz/corpusplan/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_EmptyRecordsHaveEveryClass(t *testing.T) {
	d := domain.StandardDefaults()
	sc := defaultScenario(nil)
	h := Aggregate(nil, nil, sc, d, testYear)

	require.Len(t, h.Positions, len(domain.AllAssetClasses))
	for _, class := range domain.AllAssetClasses {
		p := h.Positions[class]
		assert.True(t, p.CurrentValue.IsZero(), "class %s", class)
		assert.False(t, p.Rate.IsZero(), "class %s", class)
	}
	assert.True(t, h.Positions[domain.AssetFD].Rate.Equal(d.FDRate))
	assert.True(t, h.TotalValue().IsZero())
}

func TestAggregate_RateFallbackChain(t *testing.T) {
	sc := defaultScenario(&domain.ScenarioParameters{MutualFundRate: decPtr(14)})
	h := Aggregate([]domain.Investment{
		{Name: "own rate", Type: strPtr("MF"), CurrentValue: decPtr(100000), ExpectedReturn: decPtr(10)},
		{Name: "scenario rate", Type: strPtr("MF"), InvestedAmount: decPtr(100000)},
		{Name: "interest rate", Type: strPtr("FD"), CurrentValue: decPtr(50000), InterestRate: decPtr(6)},
		{Name: "hardcoded", Type: strPtr("RD"), CurrentValue: decPtr(50000)},
		{Name: "untyped", CurrentValue: decPtr(1000)},
		{Name: "empty"},
	}, nil, sc, domain.StandardDefaults(), testYear)

	mf := h.Positions[domain.AssetMutualFund]
	assert.True(t, mf.CurrentValue.Equal(decimal.NewFromInt(200000)))
	assert.True(t, mf.Rate.Equal(decimal.NewFromInt(12)), "weighted MF rate %s", mf.Rate)
	assert.True(t, h.Positions[domain.AssetFD].Rate.Equal(decimal.NewFromInt(6)))
	assert.True(t, h.Positions[domain.AssetRD].Rate.Equal(decimal.NewFromFloat(6.5)))
	assert.True(t, h.Positions[domain.AssetOther].CurrentValue.Equal(decimal.NewFromInt(1000)))
	assert.True(t, h.Positions[domain.AssetMutualFund].Rate.GreaterThan(decimal.NewFromInt(10)))
}

func TestAggregate_ContributionsSummed(t *testing.T) {
	h := Aggregate([]domain.Investment{
		{Name: "a", Type: strPtr("MF"), MonthlySIP: decPtr(5000)},
		{Name: "b", Type: strPtr("mutual fund"), MonthlySIP: decPtr(2500), YearlyContribution: decPtr(10000)},
		{Name: "ppf", Type: strPtr("PPF"), YearlyContribution: decPtr(150000)},
	}, nil, defaultScenario(nil), domain.StandardDefaults(), testYear)

	assert.True(t, h.Positions[domain.AssetMutualFund].MonthlyContribution.Equal(decimal.NewFromInt(7500)))
	assert.True(t, h.Positions[domain.AssetMutualFund].YearlyContribution.Equal(decimal.NewFromInt(10000)))
	assert.True(t, h.Positions[domain.AssetPPF].YearlyContribution.Equal(decimal.NewFromInt(150000)))
}

func TestAggregate_MaturingInstruments(t *testing.T) {
	future := time.Date(testYear+3, time.March, 1, 0, 0, 0, 0, time.UTC)
	past := time.Date(testYear-1, time.March, 1, 0, 0, 0, 0, time.UTC)
	endowment := domain.InsuranceEndowment
	term := domain.InsuranceTermLife

	h := Aggregate(
		[]domain.Investment{
			{Name: "future fd", Type: strPtr("FD"), CurrentValue: decPtr(100000), InterestRate: decPtr(8), MaturityDate: &future},
			{Name: "matured fd", Type: strPtr("FD"), CurrentValue: decPtr(40000), MaturityDate: &past},
		},
		[]domain.Insurance{
			{Name: "endowment", Type: &endowment, MaturityBenefit: decPtr(750000), MaturityDate: &future},
			{Name: "savings", Type: &endowment, FundValue: decPtr(100000), MaturityDate: &future},
			{Name: "term", Type: &term, MaturityDate: &future},
		},
		defaultScenario(nil), domain.StandardDefaults(), testYear,
	)

	require.Len(t, h.Maturing, 3)
	assert.True(t, h.Positions[domain.AssetFD].CurrentValue.Equal(decimal.NewFromInt(40000)))
	assert.True(t, h.Maturing[0].MaturityValue.Equal(FutureValue(decimal.NewFromInt(100000), decimal.NewFromInt(8), 3)))
	assert.Equal(t, testYear+3, h.Maturing[0].MaturityYear)
	assert.True(t, h.Maturing[1].MaturityValue.Equal(decimal.NewFromInt(750000)))
	assert.True(t, h.Maturing[2].MaturityValue.Equal(FutureValue(decimal.NewFromInt(100000), decimal.NewFromInt(6), 3)))
	assert.Len(t, h.MaturingIn(testYear+3), 3)
	assert.Empty(t, h.MaturingIn(testYear+2))
	assert.Len(t, h.Positions[domain.AssetOther].Maturing, 2)
}

func TestAggregate_Annuities(t *testing.T) {
	sc := defaultScenario(nil)
	h := Aggregate(nil, []domain.Insurance{
		{Name: "pension", IsAnnuity: true, MonthlyAnnuity: decPtr(10000), AnnuityStartYear: intPtr(testYear + 2), AnnuityGrowthRate: decPtr(5)},
		{Name: "default start", IsAnnuity: true, MonthlyAnnuity: decPtr(1000)},
		{Name: "flag only", IsAnnuity: true},
	}, sc, domain.StandardDefaults(), testYear)

	require.Len(t, h.Annuities, 2)
	assert.Equal(t, testYear+sc.YearsToRetirement, h.Annuities[1].StartYear)
	assert.True(t, h.Annuities[0].AnnualIn(testYear+1).IsZero())
	assert.True(t, h.Annuities[0].AnnualIn(testYear+2).Equal(decimal.NewFromInt(120000)))
	assert.True(t, h.Annuities[0].AnnualIn(testYear+3).Equal(decimal.NewFromInt(126000)))
}
