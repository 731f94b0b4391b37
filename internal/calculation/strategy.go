package calculation

import (
	"github.com/rgehrsitz/corpusplan/internal/domain"
	"github.com/shopspring/decimal"
)

// WithdrawalState is everything a post-retirement year needs to compute its withdrawal
type WithdrawalState struct {
	Corpus               decimal.Decimal
	CorpusAtRetirement   decimal.Decimal
	AnnualExpense        decimal.Decimal // already inflated to this year
	YearsSinceRetirement int
	RemainingYears       int
	ReturnRate           decimal.Decimal
	InflationRate        decimal.Decimal
	WithdrawalRate       decimal.Decimal
}

// IncomeModel is one post-retirement withdrawal policy
type IncomeModel interface {
	Kind() domain.IncomeStrategy
	// TargetWithdrawal is what the policy wants to draw this year before any capping
	TargetWithdrawal(state WithdrawalState) decimal.Decimal
	// ProjectWithdrawal grows the corpus through the year and returns the closing corpus and
	// the amount actually withdrawn
	ProjectWithdrawal(state WithdrawalState) (newCorpus, withdrawal decimal.Decimal)
}

// StrategyFor returns the model of a strategy; unknown values get SUSTAINABLE
func StrategyFor(s domain.IncomeStrategy) IncomeModel {
	switch s {
	case domain.StrategySafe4Percent:
		return SafeFourPercent{}
	case domain.StrategySimpleDepletion:
		return SimpleDepletion{}
	default:
		return Sustainable{}
	}
}

// yearMonths clamps the in-year compounding loop to the years left in the horizon
func yearMonths(remainingYears int) int {
	if remainingYears <= 0 {
		return 0
	}
	return min(12, 12*remainingYears)
}

func project(state WithdrawalState, target decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	months := yearMonths(state.RemainingYears)
	if months == 0 {
		return state.Corpus, decimal.Zero
	}
	out := MonthlyCompound(MonthlyStep{
		Balance:     state.Corpus,
		RatePercent: state.ReturnRate,
		Months:      months,
		Withdrawal:  target,
	})
	return out.Balance, out.Withdrawn
}

// Sustainable withdraws a fixed share of the current corpus
type Sustainable struct{}

func (Sustainable) Kind() domain.IncomeStrategy { return domain.StrategySustainable }

func (Sustainable) TargetWithdrawal(state WithdrawalState) decimal.Decimal {
	if state.RemainingYears <= 0 || !state.Corpus.IsPositive() {
		return decimal.Zero
	}
	rate := state.WithdrawalRate
	if !rate.IsPositive() {
		rate = decimal.NewFromInt(4)
	}
	return state.Corpus.Mul(rate).Div(hundred)
}

func (s Sustainable) ProjectWithdrawal(state WithdrawalState) (decimal.Decimal, decimal.Decimal) {
	return project(state, s.TargetWithdrawal(state))
}

// SafeFourPercent draws 4% of the retirement corpus, indexed to inflation
type SafeFourPercent struct{}

func (SafeFourPercent) Kind() domain.IncomeStrategy { return domain.StrategySafe4Percent }

func (SafeFourPercent) TargetWithdrawal(state WithdrawalState) decimal.Decimal {
	if state.RemainingYears <= 0 {
		return decimal.Zero
	}
	base := state.CorpusAtRetirement.Mul(decimal.NewFromInt(4)).Div(hundred)
	return InflatedValue(base, state.InflationRate, state.YearsSinceRetirement)
}

func (s SafeFourPercent) ProjectWithdrawal(state WithdrawalState) (decimal.Decimal, decimal.Decimal) {
	return project(state, s.TargetWithdrawal(state))
}

// SimpleDepletion draws the year's actual expense until the corpus runs out
type SimpleDepletion struct{}

func (SimpleDepletion) Kind() domain.IncomeStrategy { return domain.StrategySimpleDepletion }

func (SimpleDepletion) TargetWithdrawal(state WithdrawalState) decimal.Decimal {
	if state.RemainingYears <= 0 {
		return decimal.Zero
	}
	return state.AnnualExpense
}

func (s SimpleDepletion) ProjectWithdrawal(state WithdrawalState) (decimal.Decimal, decimal.Decimal) {
	if state.RemainingYears > 0 && !state.Corpus.IsPositive() {
		return decimal.Zero, decimal.Zero
	}
	return project(state, s.TargetWithdrawal(state))
}

// ProjectIncome runs a model forward from the retirement corpus for up to horizon years
func ProjectIncome(model IncomeModel, corpus, annualExpense decimal.Decimal, sc domain.ResolvedScenario, retirementYear, horizon int) []domain.IncomeYear {
	years := min(sc.RetirementYears, horizon)
	if years <= 0 {
		return []domain.IncomeYear{}
	}
	out := make([]domain.IncomeYear, 0, years)
	atRetirement := corpus
	for t := 0; t < years; t++ {
		state := WithdrawalState{
			Corpus:               corpus,
			CorpusAtRetirement:   atRetirement,
			AnnualExpense:        InflatedValue(annualExpense, sc.InflationRate, t),
			YearsSinceRetirement: t,
			RemainingYears:       sc.RetirementYears - t,
			ReturnRate:           sc.CorpusReturnRate,
			InflationRate:        sc.InflationRate,
			WithdrawalRate:       sc.StrategyRate(),
		}
		target := model.TargetWithdrawal(state)
		closing, withdrawn := model.ProjectWithdrawal(state)
		out = append(out, domain.IncomeYear{
			Year:          retirementYear + t,
			Age:           max(sc.RetirementAge, sc.CurrentAge) + t,
			OpeningCorpus: corpus.Round(2),
			Withdrawal:    withdrawn.Round(2),
			MonthlyIncome: withdrawn.Div(twelve).Round(2),
			ClosingCorpus: closing.Round(2),
			Shortfall:     decimal.Max(target.Sub(withdrawn), decimal.Zero).Round(2),
		})
		corpus = closing
	}
	return out
}
