package calculation

import (
	"fmt"

	"github.com/rgehrsitz/corpusplan/internal/domain"
	"github.com/shopspring/decimal"
)

// RetirementNeeds are the strategy-independent parts of the required corpus for retiring
// YearsToRetirement years from now
type RetirementNeeds struct {
	YearsToRetirement int
	RetirementYears   int
	AnnualExpense     decimal.Decimal // recurring spend in the retirement year, inflated
	GoalsPV           decimal.Decimal
	PremiumsPV        decimal.Decimal
	AnnuityPV         decimal.Decimal
}

// AssessNeeds values expenses, goals, continuing premiums and annuities at a retirement point
func AssessNeeds(snap *domain.FinancialSnapshot, h Holdings, sc domain.ResolvedScenario, currentYear, yearsToRetirement int) RetirementNeeds {
	k := max(0, yearsToRetirement)
	retYear := currentYear + k
	n := RetirementNeeds{
		YearsToRetirement: k,
		RetirementYears:   max(0, sc.LifeExpectancy-(sc.CurrentAge+k)),
		AnnualExpense:     decimal.Zero,
		GoalsPV:           decimal.Zero,
		PremiumsPV:        decimal.Zero,
		AnnuityPV:         decimal.Zero,
	}
	if snap == nil {
		return n
	}

	expense := decimal.Zero
	for _, e := range snap.Expenses {
		if e.ActiveIn(retYear) {
			expense = expense.Add(e.Annualized())
		}
	}
	n.AnnualExpense = InflatedValue(expense, sc.InflationRate, k)

	lastYear := retYear + n.RetirementYears - 1
	for _, g := range snap.Goals {
		for _, y := range g.Occurrences(lastYear) {
			if y < retYear {
				continue
			}
			amount := InflatedValue(domain.Val(g.TargetAmount), sc.InflationRate, y-currentYear)
			n.GoalsPV = n.GoalsPV.Add(DiscountedValue(amount, sc.CorpusReturnRate, y-retYear))
		}
	}

	capitalize := annuityDueFactor(decimal.Zero, sc.CorpusReturnRate, n.RetirementYears)
	for _, ob := range ContinuingInsurance(snap.Insurances) {
		n.PremiumsPV = n.PremiumsPV.Add(ob.AnnualPremium.Mul(capitalize))
	}

	for t := 0; t < n.RetirementYears; t++ {
		income := h.AnnuityIncome(retYear + t)
		if income.IsZero() {
			continue
		}
		n.AnnuityPV = n.AnnuityPV.Add(DiscountedValue(income, sc.CorpusReturnRate, t))
	}
	return n
}

// CorpusMultiplier is the expense multiple a strategy needs at retirement
func CorpusMultiplier(strategy domain.IncomeStrategy, sc domain.ResolvedScenario, retirementYears int) decimal.Decimal {
	switch strategy {
	case domain.StrategySafe4Percent:
		return decimal.NewFromInt(25)
	case domain.StrategySimpleDepletion:
		return annuityDueFactor(sc.InflationRate, sc.CorpusReturnRate, retirementYears)
	default:
		return hundred.Div(sc.StrategyRate())
	}
}

// RequiredCorpus is the corpus a strategy needs at retirement, never negative
func RequiredCorpus(needs RetirementNeeds, sc domain.ResolvedScenario, strategy domain.IncomeStrategy) decimal.Decimal {
	req := needs.AnnualExpense.Mul(CorpusMultiplier(strategy, sc, needs.RetirementYears)).
		Add(needs.GoalsPV).
		Add(needs.PremiumsPV).
		Sub(needs.AnnuityPV)
	if req.IsNegative() {
		return decimal.Zero
	}
	return req.Round(2)
}

// RequiredByStrategy evaluates all three strategies
func RequiredByStrategy(needs RetirementNeeds, sc domain.ResolvedScenario) map[domain.IncomeStrategy]decimal.Decimal {
	out := make(map[domain.IncomeStrategy]decimal.Decimal, len(domain.AllIncomeStrategies))
	for _, s := range domain.AllIncomeStrategies {
		out[s] = RequiredCorpus(needs, sc, s)
	}
	return out
}

// ContinuingInsurance lists policies that keep charging a premium after retirement
func ContinuingInsurance(policies []domain.Insurance) []domain.InsuranceObligation {
	out := []domain.InsuranceObligation{}
	for _, p := range policies {
		if p.AnnualPremium == nil || !p.ContinuesPostRetirement() {
			continue
		}
		out = append(out, domain.InsuranceObligation{
			Name:          p.Name,
			Type:          p.PolicyType(),
			AnnualPremium: *p.AnnualPremium,
		})
	}
	return out
}

// AdditionalMonthlySIP solves SIPFutureValue(x, rate, years) = gap for x
func AdditionalMonthlySIP(gap, ratePercent decimal.Decimal, years int) decimal.Decimal {
	if !gap.IsPositive() || years <= 0 {
		return decimal.Zero
	}
	factor := SIPFutureValue(one, ratePercent, years)
	if !factor.IsPositive() {
		return decimal.Zero
	}
	return gap.Div(factor).Round(2)
}

// AnalyzeGap compares the required corpus with the projected corpus entering retirement
func AnalyzeGap(snap *domain.FinancialSnapshot, h Holdings, sc domain.ResolvedScenario, currentYear int, projected decimal.Decimal) domain.GapAnalysisResult {
	needs := AssessNeeds(snap, h, sc, currentYear, sc.YearsToRetirement)
	byStrategy := RequiredByStrategy(needs, sc)
	required := byStrategy[sc.Strategy]
	gap := required.Sub(projected).Round(2)

	gapPercent := decimal.Zero
	if required.IsPositive() {
		gapPercent = gap.Div(required).Mul(hundred).Round(2)
	}

	res := domain.GapAnalysisResult{
		Strategy:                  sc.Strategy,
		RequiredCorpus:            required,
		RequiredByStrategy:        byStrategy,
		ProjectedCorpus:           projected.Round(2),
		Gap:                       gap,
		GapPercent:                gapPercent,
		AdditionalMonthlySIP:      AdditionalMonthlySIP(gap, sc.MutualFundRate, sc.YearsToRetirement),
		AnnualExpenseAtRetirement: needs.AnnualExpense.Round(2),
		YearsToRetirement:         sc.YearsToRetirement,
		RetirementYears:           needs.RetirementYears,
		ContinuingInsurance:       []domain.InsuranceObligation{},
		Warnings:                  []string{},
	}
	if w := maturityExclusionWarning(h, currentYear+sc.YearsToRetirement); w != "" {
		res.Warnings = append(res.Warnings, w)
	}
	if snap != nil {
		res.ContinuingInsurance = ContinuingInsurance(snap.Insurances)
	}
	res.Suggestions = suggest(snap, sc, res)
	return res
}

func suggest(snap *domain.FinancialSnapshot, sc domain.ResolvedScenario, res domain.GapAnalysisResult) []domain.Suggestion {
	if !res.Gap.IsPositive() {
		return []domain.Suggestion{{
			Rank:    1,
			Kind:    domain.SuggestOnTrack,
			Message: fmt.Sprintf("On track: projected corpus %s meets the %s requirement of %s", res.ProjectedCorpus.StringFixed(0), res.Strategy, res.RequiredCorpus.StringFixed(0)),
		}}
	}

	var out []domain.Suggestion
	add := func(kind domain.SuggestionKind, msg string) {
		out = append(out, domain.Suggestion{Rank: len(out) + 1, Kind: kind, Message: msg})
	}

	if res.AdditionalMonthlySIP.IsPositive() {
		msg := fmt.Sprintf("Increase monthly SIP by %s to close the gap of %s", res.AdditionalMonthlySIP.StringFixed(0), res.Gap.StringFixed(0))
		if snap != nil {
			if income := snap.MonthlyIncome(); income.IsPositive() {
				share := res.AdditionalMonthlySIP.Div(income).Mul(hundred)
				msg += fmt.Sprintf(" (%s%% of monthly income)", share.StringFixed(1))
			}
		}
		add(domain.SuggestIncreaseSIP, msg)
	}
	if sc.StepUpPercent.IsZero() && sc.YearsToRetirement > 1 {
		add(domain.SuggestStepUp, "Add an annual step-up of 10% to your SIP contributions")
	}
	add(domain.SuggestReduceExpenses, fmt.Sprintf("Reduce planned retirement expenses by about %s%%", decimal.Min(res.GapPercent, hundred).StringFixed(0)))

	if snap != nil {
		for _, l := range snap.Loans {
			if domain.IntOr(l.RemainingMonths, 0) > 12*sc.YearsToRetirement && domain.Val(l.OutstandingAmount).IsPositive() {
				add(domain.SuggestPrepayLoans, fmt.Sprintf("Prepay %s so its EMI does not run into retirement", l.Name))
				break
			}
		}
	}
	if sc.YearsToRetirement < 25 {
		add(domain.SuggestDelayRetirement, fmt.Sprintf("Consider retiring later than age %d to extend the accumulation phase", sc.RetirementAge))
	}
	return out
}
