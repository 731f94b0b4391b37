package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func decPtr(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func boolPtr(b bool) *bool { return &b }

func TestParseAssetClass(t *testing.T) {
	tests := []struct {
		in   string
		want AssetClass
	}{
		{"EPF", AssetEPF},
		{"ppf", AssetPPF},
		{"mf", AssetMutualFund},
		{"Mutual Fund", AssetMutualFund},
		{"mutual-fund", AssetMutualFund},
		{"SIP", AssetMutualFund},
		{"fixed deposit", AssetFD},
		{"RD", AssetRD},
		{"nps", AssetNPS},
		{"gold", AssetOther},
		{"", AssetOther},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAssetClass(tt.in))
		})
	}
	assert.Equal(t, AssetOther, ClassifyInvestment(nil))
	assert.Equal(t, AssetFD, ClassifyInvestment(strPtr("FD")))
}

func TestParseIncomeStrategy(t *testing.T) {
	assert.Equal(t, StrategySafe4Percent, ParseIncomeStrategy("safe_4_percent"))
	assert.Equal(t, StrategySimpleDepletion, ParseIncomeStrategy(" SIMPLE_DEPLETION "))
	assert.Equal(t, StrategySustainable, ParseIncomeStrategy("SUSTAINABLE"))
	assert.Equal(t, StrategySustainable, ParseIncomeStrategy(""))
	assert.Equal(t, StrategySustainable, ParseIncomeStrategy("aggressive"))
}

func TestScenarioParameters_Resolve(t *testing.T) {
	d := StandardDefaults()

	t.Run("nil resolves to defaults", func(t *testing.T) {
		var p *ScenarioParameters
		r := p.Resolve(d)
		assert.Equal(t, 35, r.CurrentAge)
		assert.Equal(t, 60, r.RetirementAge)
		assert.Equal(t, 85, r.LifeExpectancy)
		assert.Equal(t, 25, r.YearsToRetirement)
		assert.Equal(t, 50, r.HorizonYears)
		assert.Equal(t, 25, r.RetirementYears)
		assert.True(t, r.InflationRate.Equal(decimal.NewFromInt(6)))
		assert.Equal(t, StrategySustainable, r.Strategy)
	})

	t.Run("negative ages clamp to zero", func(t *testing.T) {
		r := (&ScenarioParameters{CurrentAge: -5, RetirementAge: 60, LifeExpectancy: 85}).Resolve(d)
		assert.Equal(t, 0, r.CurrentAge)
		assert.Equal(t, 60, r.YearsToRetirement)
	})

	t.Run("retirement before current age floors years", func(t *testing.T) {
		r := (&ScenarioParameters{CurrentAge: 65, RetirementAge: 60, LifeExpectancy: 85}).Resolve(d)
		assert.Equal(t, 0, r.YearsToRetirement)
		assert.Equal(t, 20, r.RetirementYears)
	})

	t.Run("explicit zero withdrawal rate is kept", func(t *testing.T) {
		r := (&ScenarioParameters{WithdrawalRate: decPtr(0)}).Resolve(d)
		assert.True(t, r.WithdrawalRate.IsZero())
		assert.True(t, r.StrategyRate().Equal(decimal.NewFromInt(4)))
	})

	t.Run("rate reduction floor defaults to four", func(t *testing.T) {
		r := (&ScenarioParameters{RateReduction: &RateReductionSchedule{Years: 1, Percent: decimal.NewFromInt(2)}}).Resolve(d)
		assert.Equal(t, 1, r.RateReductionYears)
		assert.True(t, r.RateFloor.Equal(decimal.NewFromInt(4)))
	})
}

func TestReducedRate_NeverBelowFloor(t *testing.T) {
	r := (&ScenarioParameters{RateReduction: &RateReductionSchedule{Years: 1, Percent: decimal.NewFromInt(2)}}).Resolve(StandardDefaults())
	for year := 0; year <= 60; year++ {
		for _, base := range []decimal.Decimal{r.EPFRate, r.PPFRate} {
			got := r.ReducedRate(base, year)
			assert.True(t, got.GreaterThanOrEqual(decimal.NewFromInt(4)), "year %d rate %s", year, got)
		}
	}
	assert.True(t, r.ReducedRate(decimal.NewFromFloat(8.25), 1).Equal(decimal.NewFromFloat(6.25)))
	assert.True(t, r.ReducedRate(decimal.NewFromFloat(8.25), 0).Equal(decimal.NewFromFloat(8.25)))
}

func TestReducedRate_FloorBounds(t *testing.T) {
	schedule := func(floor *decimal.Decimal) ResolvedScenario {
		return (&ScenarioParameters{RateReduction: &RateReductionSchedule{
			Years: 1, Percent: decimal.NewFromInt(2), Floor: floor,
		}}).Resolve(StandardDefaults())
	}

	t.Run("base below floor is never raised", func(t *testing.T) {
		r := schedule(nil)
		three := decimal.NewFromInt(3)
		for _, year := range []int{0, 1, 5, 30} {
			assert.True(t, r.ReducedRate(three, year).Equal(three), "year %d", year)
		}
	})

	t.Run("custom floor below four is clamped", func(t *testing.T) {
		r := schedule(decPtr(1))
		assert.True(t, r.RateFloor.Equal(decimal.NewFromInt(4)))
		assert.True(t, r.ReducedRate(decimal.NewFromFloat(8.25), 10).Equal(decimal.NewFromInt(4)))
		assert.True(t, r.ReducedRate(decimal.NewFromFloat(7.1), 10).Equal(decimal.NewFromInt(4)))
	})

	t.Run("custom floor above four is honoured", func(t *testing.T) {
		r := schedule(decPtr(6))
		assert.True(t, r.ReducedRate(decimal.NewFromFloat(8.25), 10).Equal(decimal.NewFromInt(6)))
		assert.True(t, r.ReducedRate(decimal.NewFromInt(5), 10).Equal(decimal.NewFromInt(5)))
	})
}

func TestMutualFundRateFor(t *testing.T) {
	r := (&ScenarioParameters{MutualFundBands: []RateBand{
		{FromYear: 0, ToYear: 4, Rate: decimal.NewFromInt(14)},
		{FromYear: 5, ToYear: 9, Rate: decimal.NewFromInt(10)},
	}}).Resolve(StandardDefaults())
	assert.True(t, r.MutualFundRateFor(2, r.MutualFundRate).Equal(decimal.NewFromInt(14)))
	assert.True(t, r.MutualFundRateFor(7, r.MutualFundRate).Equal(decimal.NewFromInt(10)))
	assert.True(t, r.MutualFundRateFor(12, r.MutualFundRate).Equal(decimal.NewFromInt(12)))
	assert.True(t, r.MutualFundRateFor(12, decimal.NewFromInt(9)).Equal(decimal.NewFromInt(9)))
}

func TestInsurance_ContinuesPostRetirement(t *testing.T) {
	typ := func(t InsuranceType) *InsuranceType { return &t }
	sub := func(s HealthSubType) *HealthSubType { return &s }

	tests := []struct {
		name string
		in   Insurance
		want bool
	}{
		{"term life", Insurance{Type: typ(InsuranceTermLife)}, true},
		{"health personal", Insurance{Type: typ(InsuranceHealth), HealthSubType: sub(HealthPersonal)}, true},
		{"health floater", Insurance{Type: typ(InsuranceHealth), HealthSubType: sub(HealthFamilyFloater)}, true},
		{"health nil subtype", Insurance{Type: typ(InsuranceHealth)}, true},
		{"health group", Insurance{Type: typ(InsuranceHealth), HealthSubType: sub(HealthGroup)}, false},
		{"ulip", Insurance{Type: typ(InsuranceULIP)}, false},
		{"endowment", Insurance{Type: typ(InsuranceEndowment)}, false},
		{"money back", Insurance{Type: typ(InsuranceMoneyBack)}, false},
		{"vehicle", Insurance{Type: typ(InsuranceVehicle)}, false},
		{"other", Insurance{Type: typ(InsuranceOther)}, false},
		{"nil type", Insurance{}, false},
		{"ulip flagged", Insurance{Type: typ(InsuranceULIP), ContinuesAfterRetirement: boolPtr(true)}, true},
		{"term flagged off", Insurance{Type: typ(InsuranceTermLife), ContinuesAfterRetirement: boolPtr(false)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.ContinuesPostRetirement())
		})
	}
}

func TestExpense_Annualized(t *testing.T) {
	freq := func(f ExpenseFrequency) *ExpenseFrequency { return &f }
	amount := decPtr(1000)

	assert.True(t, Expense{Amount: amount}.Annualized().Equal(decimal.NewFromInt(12000)))
	assert.True(t, Expense{Amount: amount, Frequency: freq(FrequencyQuarterly)}.Annualized().Equal(decimal.NewFromInt(4000)))
	assert.True(t, Expense{Amount: amount, Frequency: freq(FrequencyHalfYearly)}.Annualized().Equal(decimal.NewFromInt(2000)))
	assert.True(t, Expense{Amount: amount, Frequency: freq(FrequencyYearly)}.Annualized().Equal(decimal.NewFromInt(1000)))
	assert.True(t, Expense{Amount: amount, Frequency: freq(FrequencyOneTime)}.Annualized().IsZero())
	assert.True(t, Expense{}.Annualized().IsZero())
}

func TestExpense_ActiveIn(t *testing.T) {
	start := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2040, 12, 31, 0, 0, 0, 0, time.UTC)
	e := Expense{StartDate: &start, EndDate: &end}
	assert.False(t, e.ActiveIn(2029))
	assert.True(t, e.ActiveIn(2030))
	assert.True(t, e.ActiveIn(2040))
	assert.False(t, e.ActiveIn(2041))
	assert.True(t, Expense{}.ActiveIn(2100))
}

func TestGoal_Occurrences(t *testing.T) {
	g := Goal{TargetYear: intPtr(2030), IsRecurring: true, RecurrenceInterval: intPtr(5), RecurrenceEndYear: intPtr(2050)}
	assert.Equal(t, []int{2030, 2035, 2040, 2045, 2050}, g.Occurrences(2100))
	assert.Equal(t, []int{2030, 2035}, g.Occurrences(2038))

	once := Goal{TargetYear: intPtr(2030)}
	assert.Equal(t, []int{2030}, once.Occurrences(2100))
	assert.Nil(t, once.Occurrences(2029))
	assert.Nil(t, Goal{}.Occurrences(2100))
}

func TestFinancialSnapshot_MonthlyIncome(t *testing.T) {
	s := FinancialSnapshot{Incomes: []Income{
		{MonthlyAmount: decPtr(100000)},
		{MonthlyAmount: decPtr(20000), Active: boolPtr(false)},
		{MonthlyAmount: decPtr(5000), Active: boolPtr(true)},
		{},
	}}
	assert.True(t, s.MonthlyIncome().Equal(decimal.NewFromInt(105000)))
}

func TestDefaults_Merge(t *testing.T) {
	d := StandardDefaults().Merge(Defaults{InflationRate: decimal.NewFromInt(5), RetirementAge: 58})
	assert.True(t, d.InflationRate.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, 58, d.RetirementAge)
	assert.True(t, d.EPFRate.Equal(decimal.NewFromFloat(8.25)))
	assert.True(t, d.RateFor(AssetRD).Equal(decimal.NewFromFloat(6.5)))
	assert.True(t, d.RateFor(AssetOther).Equal(decimal.NewFromInt(8)))
}
