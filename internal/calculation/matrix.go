package calculation

import (
	"fmt"

	"github.com/rgehrsitz/corpusplan/internal/domain"
	"github.com/rgehrsitz/corpusplan/internal/sequencing"
	"github.com/shopspring/decimal"
)

// effectiveRates returns the per-class rates in force in a projection year
func effectiveRates(h Holdings, sc domain.ResolvedScenario, year int) map[domain.AssetClass]decimal.Decimal {
	rates := make(map[domain.AssetClass]decimal.Decimal, len(h.Positions))
	for class, p := range h.Positions {
		switch class {
		case domain.AssetEPF, domain.AssetPPF:
			rates[class] = sc.ReducedRate(p.Rate, year)
		case domain.AssetMutualFund:
			rates[class] = sc.MutualFundRateFor(year, p.Rate)
		default:
			rates[class] = p.Rate
		}
	}
	return rates
}

// stepUpActive reports whether the SIP escalates in a projection year
func stepUpActive(sc domain.ResolvedScenario, year int) bool {
	return sc.StepUpPercent.IsPositive() && year >= max(sc.StepUpFromYear, 1)
}

func goalOutflow(goals []domain.Goal, sc domain.ResolvedScenario, calendarYear, yearIndex int) decimal.Decimal {
	total := decimal.Zero
	for _, g := range goals {
		for _, y := range g.Occurrences(calendarYear) {
			if y == calendarYear {
				total = total.Add(InflatedValue(domain.Val(g.TargetAmount), sc.InflationRate, yearIndex))
			}
		}
	}
	return total
}

func sumBalances(balances map[domain.AssetClass]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, b := range balances {
		total = total.Add(b)
	}
	return total
}

func roundedCopy(m map[domain.AssetClass]decimal.Decimal) map[domain.AssetClass]decimal.Decimal {
	out := make(map[domain.AssetClass]decimal.Decimal, len(m))
	for k, v := range m {
		out[k] = v.Round(2)
	}
	return out
}

// drawFromBalances takes amount out of the class balances in withdrawal-phase order and
// returns the unmet remainder
func drawFromBalances(balances map[domain.AssetClass]decimal.Decimal, amount decimal.Decimal) decimal.Decimal {
	if !amount.IsPositive() {
		return decimal.Zero
	}
	plan := sequencing.NewStandardStrategy().Plan(sequencing.CreateWithdrawalSources(balances), amount)
	for class, drawn := range plan.Drawn() {
		balances[class] = balances[class].Sub(drawn)
	}
	return plan.RemainingNeed
}

// GenerateMatrix projects the corpus year by year from the current age. Accumulation rows track
// each asset class; from the retirement row on, balances collapse into one pool drawn down by the
// scenario's income strategy. The projection ends at life expectancy or after the first
// retirement row whose corpus is exhausted.
func GenerateMatrix(snap *domain.FinancialSnapshot, sc domain.ResolvedScenario, d domain.Defaults, currentYear int) domain.RetirementMatrix {
	if snap == nil {
		snap = &domain.FinancialSnapshot{}
	}
	h := Aggregate(snap.Investments, snap.Insurances, sc, d, currentYear)
	model := StrategyFor(sc.Strategy)
	retNeeds := AssessNeeds(snap, h, sc, currentYear, sc.YearsToRetirement)

	balances := make(map[domain.AssetClass]decimal.Decimal, len(h.Positions))
	for class, p := range h.Positions {
		balances[class] = p.CurrentValue
	}
	balances[domain.AssetMutualFund] = balances[domain.AssetMutualFund].Add(sc.LumpSum)
	starting := roundedCopy(balances)

	sip := h.Positions[domain.AssetMutualFund].MonthlyContribution
	var (
		pool, atRetirement decimal.Decimal
		retired            bool
		depletionAge       *int
	)
	rows := make([]domain.ProjectionRow, 0, sc.HorizonYears+1)

	for year := 0; year <= sc.HorizonYears; year++ {
		calYear := currentYear + year
		age := sc.CurrentAge + year
		rates := effectiveRates(h, sc, year)
		row := domain.ProjectionRow{
			Year:           calYear,
			YearIndex:      year,
			Age:            age,
			EffectiveRates: rates,
			MonthlySIP:     decimal.Zero,
			GoalOutflow:    goalOutflow(snap.Goals, sc, calYear, year),
			MaturityInflow: decimal.Zero,
			AnnuityInflow:  h.AnnuityIncome(calYear),
			Withdrawal:     decimal.Zero,
			Shortfall:      decimal.Zero,
		}
		for _, m := range h.MaturingIn(calYear) {
			row.MaturityInflow = row.MaturityInflow.Add(m.MaturityValue)
			row.MaturingLabels = append(row.MaturingLabels, m.Label)
		}
		oneTime := decimal.Zero
		if sc.OneTimeWithdrawal != nil && sc.OneTimeWithdrawal.Year == calYear {
			oneTime = sc.OneTimeWithdrawal.Amount
		}

		if year < sc.YearsToRetirement {
			row.Phase = domain.PhaseAccumulation
			if stepUpActive(sc, year) {
				sip = sip.Mul(one.Add(sc.StepUpPercent.Div(hundred)))
				row.StepUpActive = true
			}
			row.MonthlySIP = sip.Round(2)
			for class, p := range h.Positions {
				monthly := p.MonthlyContribution
				if class == domain.AssetMutualFund {
					monthly = sip
				}
				r := rates[class]
				balances[class] = FutureValue(balances[class], r, 1).
					Add(SIPFutureValue(monthly, r, 1)).
					Add(FutureValue(p.YearlyContribution, r, 1)).
					Round(balancePlaces)
			}
			for _, m := range h.MaturingIn(calYear) {
				balances[m.Class] = balances[m.Class].Add(m.MaturityValue)
			}
			balances[domain.AssetOther] = balances[domain.AssetOther].Add(row.AnnuityInflow)

			unmet := drawFromBalances(balances, row.GoalOutflow)
			unmetOneTime := drawFromBalances(balances, oneTime)
			row.Withdrawal = oneTime.Sub(unmetOneTime).Round(2)
			row.Shortfall = unmet.Add(unmetOneTime).Round(2)
			row.Balances = roundedCopy(balances)
			row.TotalCorpus = sumBalances(balances).Round(2)
		} else {
			row.Phase = domain.PhaseDecumulation
			if !retired {
				pool = sumBalances(balances)
				atRetirement = pool
				retired = true
			}
			state := WithdrawalState{
				Corpus:               pool,
				CorpusAtRetirement:   atRetirement,
				AnnualExpense:        InflatedValue(retNeeds.AnnualExpense, sc.InflationRate, year-sc.YearsToRetirement),
				YearsSinceRetirement: year - sc.YearsToRetirement,
				RemainingYears:       max(0, sc.LifeExpectancy-age),
				ReturnRate:           sc.CorpusReturnRate,
				InflationRate:        sc.InflationRate,
				WithdrawalRate:       sc.StrategyRate(),
			}
			target := model.TargetWithdrawal(state)
			next, withdrawn := model.ProjectWithdrawal(state)
			shortfall := decimal.Max(target.Sub(withdrawn), decimal.Zero)

			next = next.Add(row.MaturityInflow).Add(row.AnnuityInflow)
			for _, out := range []decimal.Decimal{row.GoalOutflow, oneTime} {
				taken := decimal.Min(out, decimal.Max(next, decimal.Zero))
				shortfall = shortfall.Add(out.Sub(taken))
				next = next.Sub(taken)
			}
			pool = next
			row.Withdrawal = withdrawn.Add(oneTime).Round(2)
			row.Shortfall = shortfall.Round(2)
			row.TotalCorpus = pool.Round(2)
		}

		needs := AssessNeeds(snap, h, sc, currentYear, year)
		row.RequiredCorpus = RequiredByStrategy(needs, sc)
		row.CanRetire = make(map[domain.IncomeStrategy]bool, len(row.RequiredCorpus))
		for s, req := range row.RequiredCorpus {
			row.CanRetire[s] = row.TotalCorpus.GreaterThanOrEqual(req)
		}
		rows = append(rows, row)

		if row.Phase == domain.PhaseDecumulation && !row.TotalCorpus.IsPositive() {
			a := age
			depletionAge = &a
			break
		}
	}

	if !retired {
		atRetirement = sumBalances(balances)
	}
	summary := domain.MatrixSummary{
		FinalCorpus:        decimal.Zero,
		CorpusAtRetirement: atRetirement.Round(2),
		IncomeStrategy:     sc.Strategy,
		CorpusReturnRate:   sc.CorpusReturnRate,
		WithdrawalRate:     sc.WithdrawalRate,
		StartingBalances:   starting,
		DepletionAge:       depletionAge,
		Warnings:           []string{},
	}
	if len(rows) > 0 {
		summary.FinalCorpus = rows[len(rows)-1].TotalCorpus
	}
	if sc.Strategy == domain.StrategySustainable && !sc.WithdrawalRate.IsPositive() {
		summary.Warnings = append(summary.Warnings, "withdrawal rate is 0; using the 4% rule (25x expenses) instead")
	}
	if sc.RetirementAge < sc.CurrentAge {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("retirement age %d is below current age %d; projecting as already retired", sc.RetirementAge, sc.CurrentAge))
	}

	if w := maturityExclusionWarning(h, currentYear+sc.YearsToRetirement); w != "" {
		summary.Warnings = append(summary.Warnings, w)
	}

	summary.StepUp = OptimizeStepUp(h, sc, RequiredCorpus(retNeeds, sc, domain.StrategySustainable))
	summary.IncomeProjection = ProjectIncome(model, atRetirement, retNeeds.AnnualExpense, sc, currentYear+sc.YearsToRetirement, d.DetailedIncomeHorizon)
	return domain.RetirementMatrix{Rows: rows, Summary: summary}
}

// balancesEnteringRetirement returns the class balances of the last accumulation row, or the
// starting balances when the user is already retired
func balancesEnteringRetirement(m domain.RetirementMatrix) map[domain.AssetClass]decimal.Decimal {
	var last map[domain.AssetClass]decimal.Decimal
	for _, r := range m.Rows {
		if r.Phase != domain.PhaseAccumulation {
			break
		}
		last = r.Balances
	}
	if last == nil {
		last = m.Summary.StartingBalances
	}
	out := make(map[domain.AssetClass]decimal.Decimal, len(last))
	for k, v := range last {
		out[k] = v
	}
	return out
}
