package domain

import "github.com/shopspring/decimal"

// RateBand overrides the mutual fund return for an inclusive range of projection years
// (0 = first projection year).
type RateBand struct {
	FromYear int             `yaml:"from_year" json:"fromYear"`
	ToYear   int             `yaml:"to_year" json:"toYear"`
	Rate     decimal.Decimal `yaml:"rate" json:"rate"`
}

// RateReductionSchedule lowers EPF/PPF rates by Percent points every Years years
type RateReductionSchedule struct {
	Years   int              `yaml:"years" json:"years"`
	Percent decimal.Decimal  `yaml:"percent" json:"percent"`
	Floor   *decimal.Decimal `yaml:"floor,omitempty" json:"floor,omitempty"`
}

// OneTimeWithdrawal removes a fixed amount from the corpus in a calendar year
type OneTimeWithdrawal struct {
	Amount decimal.Decimal `yaml:"amount" json:"amount"`
	Year   int             `yaml:"year" json:"year"`
}

// ScenarioParameters are the caller-supplied knobs of a projection. Pointer fields are optional
// and fall back to Defaults when nil.
type ScenarioParameters struct {
	CurrentAge     int `yaml:"current_age" json:"currentAge"`
	RetirementAge  int `yaml:"retirement_age" json:"retirementAge"`
	LifeExpectancy int `yaml:"life_expectancy" json:"lifeExpectancy"`

	InflationRate   *decimal.Decimal `yaml:"inflation_rate,omitempty" json:"inflationRate,omitempty"`
	EPFRate         *decimal.Decimal `yaml:"epf_rate,omitempty" json:"epfRate,omitempty"`
	PPFRate         *decimal.Decimal `yaml:"ppf_rate,omitempty" json:"ppfRate,omitempty"`
	MutualFundRate  *decimal.Decimal `yaml:"mutual_fund_rate,omitempty" json:"mutualFundRate,omitempty"`
	MutualFundBands []RateBand       `yaml:"mutual_fund_bands,omitempty" json:"mutualFundBands,omitempty"`

	CorpusReturnRate *decimal.Decimal `yaml:"corpus_return_rate,omitempty" json:"corpusReturnRate,omitempty"`
	WithdrawalRate   *decimal.Decimal `yaml:"withdrawal_rate,omitempty" json:"withdrawalRate,omitempty"`

	StepUpPercent  *decimal.Decimal `yaml:"step_up_percent,omitempty" json:"stepUpPercent,omitempty"`
	StepUpFromYear int              `yaml:"step_up_from_year" json:"stepUpFromYear"`

	RateReduction *RateReductionSchedule `yaml:"rate_reduction,omitempty" json:"rateReduction,omitempty"`

	IncomeStrategy    string             `yaml:"income_strategy" json:"incomeStrategy"`
	LumpSum           *decimal.Decimal   `yaml:"lump_sum,omitempty" json:"lumpSum,omitempty"`
	OneTimeWithdrawal *OneTimeWithdrawal `yaml:"one_time_withdrawal,omitempty" json:"oneTimeWithdrawal,omitempty"`
}

// ResolvedScenario is ScenarioParameters with every fallback applied. The rest of the
// engine only ever reads this form.
type ResolvedScenario struct {
	CurrentAge        int
	RetirementAge     int
	LifeExpectancy    int
	YearsToRetirement int
	HorizonYears      int
	RetirementYears   int

	InflationRate    decimal.Decimal
	EPFRate          decimal.Decimal
	PPFRate          decimal.Decimal
	MutualFundRate   decimal.Decimal
	MutualFundBands  []RateBand
	CorpusReturnRate decimal.Decimal
	// WithdrawalRate keeps an explicit zero; strategies treat it as the 25x fallback
	WithdrawalRate decimal.Decimal

	StepUpPercent  decimal.Decimal
	StepUpFromYear int

	RateReductionYears   int
	RateReductionPercent decimal.Decimal
	RateFloor            decimal.Decimal

	Strategy          IncomeStrategy
	LumpSum           decimal.Decimal
	OneTimeWithdrawal *OneTimeWithdrawal
}

// Resolve applies defaults and clamps ages/years. A nil receiver resolves to pure defaults.
func (p *ScenarioParameters) Resolve(d Defaults) ResolvedScenario {
	if p == nil {
		p = &ScenarioParameters{}
	}
	ageOr := func(v, def int) int {
		if v < 0 {
			return 0
		}
		if v == 0 {
			return def
		}
		return v
	}

	r := ResolvedScenario{
		CurrentAge:       ageOr(p.CurrentAge, d.CurrentAge),
		RetirementAge:    ageOr(p.RetirementAge, d.RetirementAge),
		LifeExpectancy:   ageOr(p.LifeExpectancy, d.LifeExpectancy),
		InflationRate:    DecOr(p.InflationRate, d.InflationRate),
		EPFRate:          DecOr(p.EPFRate, d.EPFRate),
		PPFRate:          DecOr(p.PPFRate, d.PPFRate),
		MutualFundRate:   DecOr(p.MutualFundRate, d.MutualFundRate),
		MutualFundBands:  p.MutualFundBands,
		CorpusReturnRate: DecOr(p.CorpusReturnRate, d.CorpusReturnRate),
		WithdrawalRate:   DecOr(p.WithdrawalRate, d.WithdrawalRate),
		StepUpPercent:    Val(p.StepUpPercent),
		StepUpFromYear:   max(0, p.StepUpFromYear),
		RateFloor:        d.RateFloor,
		Strategy:         ParseIncomeStrategy(p.IncomeStrategy),
		LumpSum:          Val(p.LumpSum),
	}
	if r.StepUpPercent.IsNegative() {
		r.StepUpPercent = decimal.Zero
	}
	if r.WithdrawalRate.IsNegative() {
		r.WithdrawalRate = decimal.Zero
	}
	if p.RateReduction != nil && p.RateReduction.Years > 0 && p.RateReduction.Percent.IsPositive() {
		r.RateReductionYears = p.RateReduction.Years
		r.RateReductionPercent = p.RateReduction.Percent
		r.RateFloor = DecOr(p.RateReduction.Floor, d.RateFloor)
	}
	r.RateFloor = decimal.Max(r.RateFloor, minRateFloor)
	if p.OneTimeWithdrawal != nil && p.OneTimeWithdrawal.Amount.IsPositive() {
		w := *p.OneTimeWithdrawal
		r.OneTimeWithdrawal = &w
	}

	r.YearsToRetirement = max(0, r.RetirementAge-r.CurrentAge)
	r.HorizonYears = max(0, r.LifeExpectancy-r.CurrentAge)
	r.RetirementYears = max(0, r.LifeExpectancy-max(r.RetirementAge, r.CurrentAge))
	return r
}

// StrategyRate returns the SUSTAINABLE withdrawal rate with the 4% fallback applied
func (r ResolvedScenario) StrategyRate() decimal.Decimal {
	if r.WithdrawalRate.IsPositive() {
		return r.WithdrawalRate
	}
	return decimal.NewFromInt(4)
}

// MutualFundRateFor returns the rate of the first band covering a projection year, or fallback
// when no band does
func (r ResolvedScenario) MutualFundRateFor(year int, fallback decimal.Decimal) decimal.Decimal {
	for _, b := range r.MutualFundBands {
		if year >= b.FromYear && year <= b.ToYear {
			return b.Rate
		}
	}
	return fallback
}

// minRateFloor is the lowest EPF/PPF rate a reduction schedule may reach. A custom floor can only
// raise it.
var minRateFloor = decimal.NewFromInt(4)

// ReducedRate applies the rate-reduction schedule to an EPF/PPF base rate for a projection year.
// The schedule only ever lowers a rate: a base already at or below the floor is returned as is.
func (r ResolvedScenario) ReducedRate(base decimal.Decimal, year int) decimal.Decimal {
	if r.RateReductionYears <= 0 || year <= 0 {
		return base
	}
	floor := decimal.Max(r.RateFloor, minRateFloor)
	if base.LessThanOrEqual(floor) {
		return base
	}
	steps := year / r.RateReductionYears
	reduced := base.Sub(r.RateReductionPercent.Mul(decimal.NewFromInt(int64(steps))))
	return decimal.Max(reduced, floor)
}

// Clone returns a deep copy; a nil receiver clones to an empty parameter set
func (p *ScenarioParameters) Clone() *ScenarioParameters {
	if p == nil {
		return &ScenarioParameters{}
	}
	c := *p
	cloneDec := func(d *decimal.Decimal) *decimal.Decimal {
		if d == nil {
			return nil
		}
		v := *d
		return &v
	}
	c.InflationRate = cloneDec(p.InflationRate)
	c.EPFRate = cloneDec(p.EPFRate)
	c.PPFRate = cloneDec(p.PPFRate)
	c.MutualFundRate = cloneDec(p.MutualFundRate)
	c.CorpusReturnRate = cloneDec(p.CorpusReturnRate)
	c.WithdrawalRate = cloneDec(p.WithdrawalRate)
	c.StepUpPercent = cloneDec(p.StepUpPercent)
	c.LumpSum = cloneDec(p.LumpSum)
	if p.MutualFundBands != nil {
		c.MutualFundBands = append([]RateBand(nil), p.MutualFundBands...)
	}
	if p.RateReduction != nil {
		r := *p.RateReduction
		r.Floor = cloneDec(p.RateReduction.Floor)
		c.RateReduction = &r
	}
	if p.OneTimeWithdrawal != nil {
		w := *p.OneTimeWithdrawal
		c.OneTimeWithdrawal = &w
	}
	return &c
}
