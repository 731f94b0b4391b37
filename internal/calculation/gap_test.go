package calculation

import (
	"testing"
	"time"

	"github.com/rgehrsitz/corpusplan/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYear = 2026

// flatScenario removes inflation and corpus growth so multipliers are easy to check by hand
func flatScenario(extra func(p *domain.ScenarioParameters)) domain.ResolvedScenario {
	p := &domain.ScenarioParameters{
		CurrentAge:       35,
		RetirementAge:    60,
		LifeExpectancy:   85,
		InflationRate:    decPtr(0),
		CorpusReturnRate: decPtr(0),
	}
	if extra != nil {
		extra(p)
	}
	return p.Resolve(domain.StandardDefaults())
}

func monthlyExpenseSnapshot(amount float64) *domain.FinancialSnapshot {
	return &domain.FinancialSnapshot{Expenses: []domain.Expense{{Name: "household", Amount: decPtr(amount)}}}
}

func needsFor(snap *domain.FinancialSnapshot, sc domain.ResolvedScenario) RetirementNeeds {
	h := Aggregate(snap.Investments, snap.Insurances, sc, domain.StandardDefaults(), testYear)
	return AssessNeeds(snap, h, sc, testYear, sc.YearsToRetirement)
}

func TestRequiredCorpus_Multipliers(t *testing.T) {
	snap := monthlyExpenseSnapshot(50000)

	tests := []struct {
		name     string
		strategy domain.IncomeStrategy
		wr       *decimal.Decimal
		want     int64
	}{
		{"safe 4 percent", domain.StrategySafe4Percent, nil, 15000000},
		{"sustainable at 4", domain.StrategySustainable, nil, 15000000},
		{"sustainable at 5", domain.StrategySustainable, decPtr(5), 12000000},
		{"sustainable at 0 falls back to 25x", domain.StrategySustainable, decPtr(0), 15000000},
		{"simple depletion with flat rates", domain.StrategySimpleDepletion, nil, 15000000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := flatScenario(func(p *domain.ScenarioParameters) { p.WithdrawalRate = tt.wr })
			got := RequiredCorpus(needsFor(snap, sc), sc, tt.strategy)
			assert.True(t, got.Equal(decimal.NewFromInt(tt.want)), "got %s", got)
		})
	}
}

func TestRequiredCorpus_InflatesExpenses(t *testing.T) {
	sc := flatScenario(func(p *domain.ScenarioParameters) { p.InflationRate = decPtr(6) })
	needs := needsFor(monthlyExpenseSnapshot(10000), sc)
	want, _ := InflatedValue(decimal.NewFromInt(120000), decimal.NewFromInt(6), 25).Float64()
	got, _ := needs.AnnualExpense.Float64()
	assert.InDelta(t, want, got, 0.01)
}

func TestRequiredCorpus_GoalsPremiumsAndAnnuities(t *testing.T) {
	sc := flatScenario(nil)
	retYear := testYear + sc.YearsToRetirement
	termLife := domain.InsuranceTermLife
	ulip := domain.InsuranceULIP

	snap := monthlyExpenseSnapshot(50000)
	snap.Goals = []domain.Goal{
		{Name: "world trip", TargetAmount: decPtr(1000000), TargetYear: intPtr(retYear + 5)},
		{Name: "car", TargetAmount: decPtr(800000), TargetYear: intPtr(testYear + 3)},
	}
	snap.Insurances = []domain.Insurance{
		{Name: "term", Type: &termLife, AnnualPremium: decPtr(20000)},
		{Name: "ulip", Type: &ulip, AnnualPremium: decPtr(50000)},
		{Name: "pension", IsAnnuity: true, MonthlyAnnuity: decPtr(10000), AnnuityStartYear: intPtr(retYear)},
	}

	needs := needsFor(snap, sc)
	assert.True(t, needs.GoalsPV.Equal(decimal.NewFromInt(1000000)), "goals %s", needs.GoalsPV)
	assert.True(t, needs.PremiumsPV.Equal(decimal.NewFromInt(500000)), "premiums %s", needs.PremiumsPV)
	assert.True(t, needs.AnnuityPV.Equal(decimal.NewFromInt(3000000)), "annuity %s", needs.AnnuityPV)

	got := RequiredCorpus(needs, sc, domain.StrategySafe4Percent)
	assert.True(t, got.Equal(decimal.NewFromInt(13500000)), "got %s", got)
}

func TestRequiredCorpus_NeverNegative(t *testing.T) {
	sc := flatScenario(nil)
	snap := monthlyExpenseSnapshot(1000)
	snap.Insurances = []domain.Insurance{{IsAnnuity: true, MonthlyAnnuity: decPtr(100000), AnnuityStartYear: intPtr(testYear)}}
	for _, s := range domain.AllIncomeStrategies {
		assert.True(t, RequiredCorpus(needsFor(snap, sc), sc, s).IsZero())
	}
}

func TestContinuingInsurance(t *testing.T) {
	termLife := domain.InsuranceTermLife
	ulip := domain.InsuranceULIP
	policies := []domain.Insurance{
		{Name: "term", Type: &termLife, AnnualPremium: decPtr(15000)},
		{Name: "ulip", Type: &ulip, AnnualPremium: decPtr(15000)},
		{Name: "term without premium", Type: &termLife},
	}

	got := ContinuingInsurance(policies)
	require.Len(t, got, 1)
	assert.Equal(t, "term", got[0].Name)
	assert.Equal(t, domain.InsuranceTermLife, got[0].Type)

	policies[1].ContinuesAfterRetirement = boolPtr(true)
	got = ContinuingInsurance(policies)
	require.Len(t, got, 2)
	assert.Equal(t, "ulip", got[1].Name)
}

func TestAdditionalMonthlySIP(t *testing.T) {
	assert.True(t, AdditionalMonthlySIP(decimal.Zero, decimal.NewFromInt(12), 10).IsZero())
	assert.True(t, AdditionalMonthlySIP(decimal.NewFromInt(-5000), decimal.NewFromInt(12), 10).IsZero())
	assert.True(t, AdditionalMonthlySIP(decimal.NewFromInt(1000000), decimal.NewFromInt(12), 0).IsZero())

	sip := AdditionalMonthlySIP(decimal.NewFromInt(1000000), decimal.NewFromInt(12), 10)
	closed, _ := SIPFutureValue(sip, decimal.NewFromInt(12), 10).Float64()
	assert.InDelta(t, 1000000, closed, 5)
}

func TestAnalyzeGap_ZeroRequired(t *testing.T) {
	sc := flatScenario(nil)
	snap := &domain.FinancialSnapshot{}
	h := Aggregate(nil, nil, sc, domain.StandardDefaults(), testYear)

	res := AnalyzeGap(snap, h, sc, testYear, decimal.NewFromInt(250000))
	assert.True(t, res.RequiredCorpus.IsZero())
	assert.True(t, res.GapPercent.IsZero())
	assert.True(t, res.Gap.Equal(decimal.NewFromInt(-250000)))
	assert.True(t, res.AdditionalMonthlySIP.IsZero())
	require.Len(t, res.Suggestions, 1)
	assert.Equal(t, domain.SuggestOnTrack, res.Suggestions[0].Kind)
	assert.NotNil(t, res.ContinuingInsurance)
}

func TestAnalyzeGap_WarnsOnMaturityAfterRetirement(t *testing.T) {
	fd := func(name string, year int) domain.Investment {
		maturity := time.Date(year, time.March, 31, 0, 0, 0, 0, time.UTC)
		return domain.Investment{Name: name, Type: strPtr("FD"), CurrentValue: decPtr(100000), MaturityDate: &maturity}
	}
	sc := flatScenario(nil)
	retirementYear := testYear + sc.YearsToRetirement

	t.Run("maturing before retirement counts", func(t *testing.T) {
		snap := &domain.FinancialSnapshot{Investments: []domain.Investment{fd("early fd", retirementYear-1)}}
		h := Aggregate(snap.Investments, nil, sc, domain.StandardDefaults(), testYear)
		res := AnalyzeGap(snap, h, sc, testYear, decimal.NewFromInt(100000))
		assert.Empty(t, res.Warnings)
	})

	t.Run("maturing just after retirement is flagged", func(t *testing.T) {
		snap := &domain.FinancialSnapshot{Investments: []domain.Investment{fd("late fd", retirementYear+1)}}
		h := Aggregate(snap.Investments, nil, sc, domain.StandardDefaults(), testYear)
		res := AnalyzeGap(snap, h, sc, testYear, decimal.Zero)
		require.Len(t, res.Warnings, 1)
		assert.Contains(t, res.Warnings[0], "late fd")
		assert.Contains(t, res.Warnings[0], "not counted in the corpus at retirement")

		m := GenerateMatrix(snap, sc, domain.StandardDefaults(), testYear)
		assert.Contains(t, m.Summary.Warnings, res.Warnings[0])
	})
}

func TestAnalyzeGap_SurplusNeedsNoSIP(t *testing.T) {
	sc := flatScenario(nil)
	snap := monthlyExpenseSnapshot(50000)
	h := Aggregate(nil, nil, sc, domain.StandardDefaults(), testYear)

	res := AnalyzeGap(snap, h, sc, testYear, decimal.NewFromInt(20000000))
	assert.True(t, res.Gap.IsNegative())
	assert.True(t, res.AdditionalMonthlySIP.IsZero())
	assert.Equal(t, domain.SuggestOnTrack, res.Suggestions[0].Kind)
}

func TestAnalyzeGap_Suggestions(t *testing.T) {
	kinds := func(s []domain.Suggestion) []domain.SuggestionKind {
		out := make([]domain.SuggestionKind, len(s))
		for i, x := range s {
			out[i] = x.Kind
		}
		return out
	}
	snap := monthlyExpenseSnapshot(50000)
	snap.Incomes = []domain.Income{{Name: "salary", MonthlyAmount: decPtr(200000)}}
	snap.Loans = []domain.Loan{{Name: "home loan", OutstandingAmount: decPtr(3000000), RemainingMonths: intPtr(360)}}

	t.Run("long runway omits delay", func(t *testing.T) {
		sc := flatScenario(nil)
		h := Aggregate(nil, nil, sc, domain.StandardDefaults(), testYear)
		res := AnalyzeGap(snap, h, sc, testYear, decimal.NewFromInt(1000000))

		assert.True(t, res.Gap.IsPositive())
		assert.True(t, res.AdditionalMonthlySIP.IsPositive())
		assert.True(t, res.GapPercent.GreaterThan(decimal.Zero))
		got := kinds(res.Suggestions)
		assert.Equal(t, []domain.SuggestionKind{
			domain.SuggestIncreaseSIP, domain.SuggestStepUp, domain.SuggestReduceExpenses, domain.SuggestPrepayLoans,
		}, got)
		for i, s := range res.Suggestions {
			assert.Equal(t, i+1, s.Rank)
		}
		assert.Contains(t, res.Suggestions[0].Message, "% of monthly income")
	})

	t.Run("short runway suggests delay", func(t *testing.T) {
		sc := flatScenario(func(p *domain.ScenarioParameters) {
			p.CurrentAge = 50
			p.StepUpPercent = decPtr(10)
		})
		h := Aggregate(nil, nil, sc, domain.StandardDefaults(), testYear)
		res := AnalyzeGap(snap, h, sc, testYear, decimal.NewFromInt(1000000))

		got := kinds(res.Suggestions)
		assert.Contains(t, got, domain.SuggestDelayRetirement)
		assert.NotContains(t, got, domain.SuggestStepUp)
	})
}
