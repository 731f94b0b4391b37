package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Income is a recurring income record
type Income struct {
	Name          string           `yaml:"name" json:"name"`
	MonthlyAmount *decimal.Decimal `yaml:"monthly_amount,omitempty" json:"monthlyAmount,omitempty"`
	Active        *bool            `yaml:"active,omitempty" json:"active,omitempty"`
}

// IsActive reports whether the income counts; a missing flag means active
func (i Income) IsActive() bool {
	return i.Active == nil || *i.Active
}

// Investment is a single holding of any asset class
type Investment struct {
	Name               string           `yaml:"name" json:"name"`
	Type               *string          `yaml:"type,omitempty" json:"type,omitempty"`
	CurrentValue       *decimal.Decimal `yaml:"current_value,omitempty" json:"currentValue,omitempty"`
	InvestedAmount     *decimal.Decimal `yaml:"invested_amount,omitempty" json:"investedAmount,omitempty"`
	MonthlySIP         *decimal.Decimal `yaml:"monthly_sip,omitempty" json:"monthlySip,omitempty"`
	YearlyContribution *decimal.Decimal `yaml:"yearly_contribution,omitempty" json:"yearlyContribution,omitempty"`
	ExpectedReturn     *decimal.Decimal `yaml:"expected_return,omitempty" json:"expectedReturn,omitempty"`
	InterestRate       *decimal.Decimal `yaml:"interest_rate,omitempty" json:"interestRate,omitempty"`
	MaturityDate       *time.Time       `yaml:"maturity_date,omitempty" json:"maturityDate,omitempty"`
}

// Value returns current value, falling back to the invested amount, then zero
func (i Investment) Value() decimal.Decimal {
	if i.CurrentValue != nil {
		return *i.CurrentValue
	}
	return Val(i.InvestedAmount)
}

// InstrumentRate returns the instrument's own rate if it carries one
func (i Investment) InstrumentRate() *decimal.Decimal {
	if i.ExpectedReturn != nil {
		return i.ExpectedReturn
	}
	return i.InterestRate
}

// Loan is an outstanding liability
type Loan struct {
	Name              string           `yaml:"name" json:"name"`
	OutstandingAmount *decimal.Decimal `yaml:"outstanding_amount,omitempty" json:"outstandingAmount,omitempty"`
	EMI               *decimal.Decimal `yaml:"emi,omitempty" json:"emi,omitempty"`
	RemainingMonths   *int             `yaml:"remaining_months,omitempty" json:"remainingMonths,omitempty"`
}

// InsuranceType enumerates policy kinds
type InsuranceType string

const (
	InsuranceTermLife  InsuranceType = "TERM_LIFE"
	InsuranceHealth    InsuranceType = "HEALTH"
	InsuranceULIP      InsuranceType = "ULIP"
	InsuranceEndowment InsuranceType = "ENDOWMENT"
	InsuranceMoneyBack InsuranceType = "MONEY_BACK"
	InsuranceVehicle   InsuranceType = "VEHICLE"
	InsuranceOther     InsuranceType = "OTHER"
)

// HealthSubType distinguishes health covers
type HealthSubType string

const (
	HealthPersonal      HealthSubType = "PERSONAL"
	HealthFamilyFloater HealthSubType = "FAMILY_FLOATER"
	HealthGroup         HealthSubType = "GROUP"
)

// Insurance is a policy record, possibly carrying a savings or annuity component
type Insurance struct {
	Name                     string           `yaml:"name" json:"name"`
	Type                     *InsuranceType   `yaml:"type,omitempty" json:"type,omitempty"`
	HealthSubType            *HealthSubType   `yaml:"health_sub_type,omitempty" json:"healthSubType,omitempty"`
	SumAssured               *decimal.Decimal `yaml:"sum_assured,omitempty" json:"sumAssured,omitempty"`
	FundValue                *decimal.Decimal `yaml:"fund_value,omitempty" json:"fundValue,omitempty"`
	MaturityBenefit          *decimal.Decimal `yaml:"maturity_benefit,omitempty" json:"maturityBenefit,omitempty"`
	MaturityDate             *time.Time       `yaml:"maturity_date,omitempty" json:"maturityDate,omitempty"`
	IsAnnuity                bool             `yaml:"is_annuity" json:"isAnnuity"`
	AnnuityStartYear         *int             `yaml:"annuity_start_year,omitempty" json:"annuityStartYear,omitempty"`
	MonthlyAnnuity           *decimal.Decimal `yaml:"monthly_annuity,omitempty" json:"monthlyAnnuity,omitempty"`
	AnnuityGrowthRate        *decimal.Decimal `yaml:"annuity_growth_rate,omitempty" json:"annuityGrowthRate,omitempty"`
	AnnualPremium            *decimal.Decimal `yaml:"annual_premium,omitempty" json:"annualPremium,omitempty"`
	ContinuesAfterRetirement *bool            `yaml:"continues_after_retirement,omitempty" json:"continuesAfterRetirement,omitempty"`
}

// PolicyType returns the normalized policy type, OTHER when absent
func (in Insurance) PolicyType() InsuranceType {
	if in.Type == nil {
		return InsuranceOther
	}
	return InsuranceType(strings.ToUpper(strings.TrimSpace(string(*in.Type))))
}

// ContinuesPostRetirement applies the continuation policy: term life and personal/family
// health covers keep running after retirement, everything else stops. An explicit flag on
// the record wins in either direction.
func (in Insurance) ContinuesPostRetirement() bool {
	if in.ContinuesAfterRetirement != nil {
		return *in.ContinuesAfterRetirement
	}
	if in.Type == nil {
		return false
	}
	switch in.PolicyType() {
	case InsuranceTermLife:
		return true
	case InsuranceHealth:
		if in.HealthSubType == nil {
			return true
		}
		switch HealthSubType(strings.ToUpper(string(*in.HealthSubType))) {
		case HealthPersonal, HealthFamilyFloater:
			return true
		}
		return false
	default:
		return false
	}
}

// HasSavingsComponent reports whether the policy pays out at maturity
func (in Insurance) HasSavingsComponent() bool {
	if in.MaturityBenefit != nil {
		return true
	}
	switch in.PolicyType() {
	case InsuranceEndowment, InsuranceMoneyBack, InsuranceULIP:
		return true
	}
	return false
}

// ExpenseFrequency enumerates how often an expense recurs
type ExpenseFrequency string

const (
	FrequencyMonthly    ExpenseFrequency = "MONTHLY"
	FrequencyQuarterly  ExpenseFrequency = "QUARTERLY"
	FrequencyHalfYearly ExpenseFrequency = "HALF_YEARLY"
	FrequencyYearly     ExpenseFrequency = "YEARLY"
	FrequencyOneTime    ExpenseFrequency = "ONE_TIME"
)

// Expense is a spending record
type Expense struct {
	Name      string            `yaml:"name" json:"name"`
	Amount    *decimal.Decimal  `yaml:"amount,omitempty" json:"amount,omitempty"`
	Frequency *ExpenseFrequency `yaml:"frequency,omitempty" json:"frequency,omitempty"`
	StartDate *time.Time        `yaml:"start_date,omitempty" json:"startDate,omitempty"`
	EndDate   *time.Time        `yaml:"end_date,omitempty" json:"endDate,omitempty"`
}

// Annualized converts the expense to a yearly amount. One-time and unknown frequencies
// contribute nothing to recurring spending; a missing frequency is read as monthly.
func (e Expense) Annualized() decimal.Decimal {
	amount := Val(e.Amount)
	freq := FrequencyMonthly
	if e.Frequency != nil {
		freq = ExpenseFrequency(strings.ToUpper(string(*e.Frequency)))
	}
	switch freq {
	case FrequencyMonthly:
		return amount.Mul(decimal.NewFromInt(12))
	case FrequencyQuarterly:
		return amount.Mul(decimal.NewFromInt(4))
	case FrequencyHalfYearly:
		return amount.Mul(decimal.NewFromInt(2))
	case FrequencyYearly:
		return amount
	default:
		return decimal.Zero
	}
}

// ActiveIn reports whether a time-bound expense is still running during a calendar year
func (e Expense) ActiveIn(year int) bool {
	if e.StartDate != nil && e.StartDate.Year() > year {
		return false
	}
	if e.EndDate != nil && e.EndDate.Year() < year {
		return false
	}
	return true
}

// Goal is a planned future outflow, optionally recurring
type Goal struct {
	Name               string           `yaml:"name" json:"name"`
	TargetAmount       *decimal.Decimal `yaml:"target_amount,omitempty" json:"targetAmount,omitempty"`
	TargetYear         *int             `yaml:"target_year,omitempty" json:"targetYear,omitempty"`
	IsRecurring        bool             `yaml:"is_recurring" json:"isRecurring"`
	RecurrenceInterval *int             `yaml:"recurrence_interval,omitempty" json:"recurrenceInterval,omitempty"`
	RecurrenceEndYear  *int             `yaml:"recurrence_end_year,omitempty" json:"recurrenceEndYear,omitempty"`
}

// Occurrences returns every calendar year the goal fires in, up to lastYear inclusive
func (g Goal) Occurrences(lastYear int) []int {
	if g.TargetYear == nil {
		return nil
	}
	start := *g.TargetYear
	interval := IntOr(g.RecurrenceInterval, 0)
	if !g.IsRecurring || interval <= 0 {
		if start > lastYear {
			return nil
		}
		return []int{start}
	}
	end := lastYear
	if g.RecurrenceEndYear != nil && *g.RecurrenceEndYear < end {
		end = *g.RecurrenceEndYear
	}
	var years []int
	for y := start; y <= end; y += interval {
		years = append(years, y)
	}
	return years
}

// FinancialSnapshot is the read-only set of records fetched once per engine invocation
type FinancialSnapshot struct {
	UserID      uuid.UUID           `yaml:"user_id" json:"userId"`
	Incomes     []Income            `yaml:"incomes" json:"incomes"`
	Investments []Investment        `yaml:"investments" json:"investments"`
	Loans       []Loan              `yaml:"loans" json:"loans"`
	Insurances  []Insurance         `yaml:"insurances" json:"insurances"`
	Expenses    []Expense           `yaml:"expenses" json:"expenses"`
	Goals       []Goal              `yaml:"goals" json:"goals"`
	Settings    *ScenarioParameters `yaml:"settings,omitempty" json:"settings,omitempty"`
}

// MonthlyIncome sums active incomes
func (s *FinancialSnapshot) MonthlyIncome() decimal.Decimal {
	total := decimal.Zero
	for _, in := range s.Incomes {
		if in.IsActive() {
			total = total.Add(Val(in.MonthlyAmount))
		}
	}
	return total
}

// Val dereferences an optional amount, treating nil as zero
func Val(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

// DecOr dereferences an optional value, falling back to def when nil
func DecOr(d *decimal.Decimal, def decimal.Decimal) decimal.Decimal {
	if d == nil {
		return def
	}
	return *d
}

// IntOr dereferences an optional int
func IntOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
