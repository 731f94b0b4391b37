package transform

import (
	"fmt"

	"github.com/rgehrsitz/corpusplan/internal/domain"
	"github.com/shopspring/decimal"
)

// PostponeRetirement moves the retirement age later (or earlier, for negative Years)
type PostponeRetirement struct {
	Years int
}

func (pr *PostponeRetirement) Name() string { return "postpone_retirement" }

func (pr *PostponeRetirement) Description() string {
	if pr.Years < 0 {
		return fmt.Sprintf("Retire %d years earlier", -pr.Years)
	}
	return fmt.Sprintf("Postpone retirement by %d years", pr.Years)
}

func (pr *PostponeRetirement) Validate(base *domain.ScenarioParameters, d domain.Defaults) error {
	if pr.Years == 0 {
		return NewTransformError(pr.Name(), "validate", "years cannot be zero", nil)
	}
	sc := base.Resolve(d)
	age := sc.RetirementAge + pr.Years
	if age < sc.CurrentAge {
		return NewTransformError(pr.Name(), "validate", fmt.Sprintf("retirement age %d is before current age %d", age, sc.CurrentAge), nil)
	}
	if age > sc.LifeExpectancy {
		return NewTransformError(pr.Name(), "validate", fmt.Sprintf("retirement age %d is after life expectancy %d", age, sc.LifeExpectancy), nil)
	}
	return nil
}

func (pr *PostponeRetirement) Apply(base *domain.ScenarioParameters, d domain.Defaults) (*domain.ScenarioParameters, error) {
	modified := base.Clone()
	modified.RetirementAge = base.Resolve(d).RetirementAge + pr.Years
	return modified, nil
}

// SetRetirementAge fixes the retirement age
type SetRetirementAge struct {
	Age int
}

func (sr *SetRetirementAge) Name() string { return "set_retirement_age" }

func (sr *SetRetirementAge) Description() string {
	return fmt.Sprintf("Retire at age %d", sr.Age)
}

func (sr *SetRetirementAge) Validate(base *domain.ScenarioParameters, d domain.Defaults) error {
	sc := base.Resolve(d)
	if sr.Age <= 0 || sr.Age < sc.CurrentAge || sr.Age > sc.LifeExpectancy {
		return NewTransformError(sr.Name(), "validate", fmt.Sprintf("age %d must be between %d and %d", sr.Age, sc.CurrentAge, sc.LifeExpectancy), nil)
	}
	return nil
}

func (sr *SetRetirementAge) Apply(base *domain.ScenarioParameters, _ domain.Defaults) (*domain.ScenarioParameters, error) {
	modified := base.Clone()
	modified.RetirementAge = sr.Age
	return modified, nil
}

// SetStepUp changes the annual SIP step-up and the year it starts in
type SetStepUp struct {
	Percent  decimal.Decimal
	FromYear int
}

func (ss *SetStepUp) Name() string { return "set_step_up" }

func (ss *SetStepUp) Description() string {
	if ss.Percent.IsZero() {
		return "No annual SIP step-up"
	}
	return fmt.Sprintf("Step up SIP by %s%% a year", ss.Percent.String())
}

func (ss *SetStepUp) Validate(*domain.ScenarioParameters, domain.Defaults) error {
	if ss.Percent.IsNegative() || ss.Percent.GreaterThan(decimal.NewFromInt(100)) {
		return NewTransformError(ss.Name(), "validate", "percent must be between 0 and 100", nil)
	}
	if ss.FromYear < 0 {
		return NewTransformError(ss.Name(), "validate", "from year cannot be negative", nil)
	}
	return nil
}

func (ss *SetStepUp) Apply(base *domain.ScenarioParameters, _ domain.Defaults) (*domain.ScenarioParameters, error) {
	modified := base.Clone()
	p := ss.Percent
	modified.StepUpPercent = &p
	modified.StepUpFromYear = ss.FromYear
	return modified, nil
}

// SetIncomeStrategy switches the post-retirement withdrawal model
type SetIncomeStrategy struct {
	Strategy domain.IncomeStrategy
}

func (si *SetIncomeStrategy) Name() string { return "set_income_strategy" }

func (si *SetIncomeStrategy) Description() string {
	return fmt.Sprintf("Use the %s income strategy", si.Strategy)
}

func (si *SetIncomeStrategy) Validate(*domain.ScenarioParameters, domain.Defaults) error {
	if domain.ParseIncomeStrategy(string(si.Strategy)) != si.Strategy {
		return NewTransformError(si.Name(), "validate", fmt.Sprintf("unknown strategy %q", si.Strategy), nil)
	}
	return nil
}

func (si *SetIncomeStrategy) Apply(base *domain.ScenarioParameters, _ domain.Defaults) (*domain.ScenarioParameters, error) {
	modified := base.Clone()
	modified.IncomeStrategy = string(si.Strategy)
	return modified, nil
}

// AdjustRate overrides one of the scenario rates
type AdjustRate struct {
	Field string // mutual_fund, corpus_return, withdrawal, inflation, epf, ppf
	Rate  decimal.Decimal
}

func (ar *AdjustRate) Name() string { return "adjust_rate" }

func (ar *AdjustRate) Description() string {
	return fmt.Sprintf("Set %s rate to %s%%", ar.Field, ar.Rate.String())
}

func (ar *AdjustRate) target(p *domain.ScenarioParameters) **decimal.Decimal {
	switch ar.Field {
	case "mutual_fund":
		return &p.MutualFundRate
	case "corpus_return":
		return &p.CorpusReturnRate
	case "withdrawal":
		return &p.WithdrawalRate
	case "inflation":
		return &p.InflationRate
	case "epf":
		return &p.EPFRate
	case "ppf":
		return &p.PPFRate
	}
	return nil
}

func (ar *AdjustRate) Validate(base *domain.ScenarioParameters, _ domain.Defaults) error {
	if ar.target(&domain.ScenarioParameters{}) == nil {
		return NewTransformError(ar.Name(), "validate", fmt.Sprintf("unknown rate %q", ar.Field), nil)
	}
	if ar.Field != "inflation" && ar.Rate.IsNegative() {
		return NewTransformError(ar.Name(), "validate", "rate cannot be negative", nil)
	}
	if ar.Rate.GreaterThan(decimal.NewFromInt(100)) {
		return NewTransformError(ar.Name(), "validate", "rate cannot exceed 100", nil)
	}
	return nil
}

func (ar *AdjustRate) Apply(base *domain.ScenarioParameters, _ domain.Defaults) (*domain.ScenarioParameters, error) {
	modified := base.Clone()
	r := ar.Rate
	*ar.target(modified) = &r
	return modified, nil
}

// AddLumpSum adds a one-off investment into the mutual fund position at the start
type AddLumpSum struct {
	Amount decimal.Decimal
}

func (al *AddLumpSum) Name() string { return "add_lump_sum" }

func (al *AddLumpSum) Description() string {
	return fmt.Sprintf("Invest a lump sum of %s", al.Amount.StringFixed(0))
}

func (al *AddLumpSum) Validate(*domain.ScenarioParameters, domain.Defaults) error {
	if !al.Amount.IsPositive() {
		return NewTransformError(al.Name(), "validate", "amount must be positive", nil)
	}
	return nil
}

func (al *AddLumpSum) Apply(base *domain.ScenarioParameters, _ domain.Defaults) (*domain.ScenarioParameters, error) {
	modified := base.Clone()
	total := domain.Val(base.LumpSum).Add(al.Amount)
	modified.LumpSum = &total
	return modified, nil
}
