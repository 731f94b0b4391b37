package calculation

import (
	"fmt"

	"github.com/rgehrsitz/corpusplan/internal/domain"
	"github.com/shopspring/decimal"
)

// projectFlatToRetirement grows every non mutual fund class with flat contributions, plus any
// maturities landing before retirement
func projectFlatToRetirement(h Holdings, sc domain.ResolvedScenario) decimal.Decimal {
	years := sc.YearsToRetirement
	total := decimal.Zero
	for class, p := range h.Positions {
		if class == domain.AssetMutualFund {
			continue
		}
		total = total.Add(FutureValue(p.CurrentValue, p.Rate, years)).
			Add(SIPFutureValue(p.MonthlyContribution, p.Rate, years))
		for y := 0; y < years; y++ {
			total = total.Add(FutureValue(p.YearlyContribution, p.Rate, years-y))
		}
	}
	for _, m := range h.Maturing {
		offset := m.MaturityYear - h.Year
		if offset > years {
			continue
		}
		rate := h.Positions[m.Class].Rate
		total = total.Add(FutureValue(m.MaturityValue, rate, years-offset))
	}
	return total
}

// projectSIPCorpus runs the mutual fund position to retirement with step-up applied only in
// years up to stopYear
func projectSIPCorpus(h Holdings, sc domain.ResolvedScenario, stopYear int) decimal.Decimal {
	mf := h.Positions[domain.AssetMutualFund]
	balance := mf.CurrentValue.Add(sc.LumpSum)
	sip := mf.MonthlyContribution
	for year := 0; year < sc.YearsToRetirement; year++ {
		if year <= stopYear && stepUpActive(sc, year) {
			sip = sip.Mul(one.Add(sc.StepUpPercent.Div(hundred)))
		}
		rate := effectiveRates(h, sc, year)[domain.AssetMutualFund]
		out := MonthlyCompound(MonthlyStep{
			Balance:             balance,
			RatePercent:         rate,
			Months:              12,
			MonthlyContribution: sip,
		})
		balance = out.Balance.Add(FutureValue(mf.YearlyContribution, rate, 1))
	}
	return balance
}

// OptimizeStepUp scans "stop step-up after year N" for N = 0..years-to-retirement and
// recommends the earliest stop that still reaches the target. The scan is a bounded heuristic.
func OptimizeStepUp(h Holdings, sc domain.ResolvedScenario, requiredCorpus decimal.Decimal) domain.StepUpOptimization {
	target := decimal.Max(requiredCorpus.Sub(projectFlatToRetirement(h, sc)), decimal.Zero).Round(2)
	res := domain.StepUpOptimization{
		StepUpPercent:       sc.StepUpPercent,
		TargetCorpus:        target,
		RecommendedStopYear: -1,
		Scenarios:           make([]domain.OptimizationScenario, 0, sc.YearsToRetirement+1),
	}

	for stop := 0; stop <= sc.YearsToRetirement; stop++ {
		corpus := projectSIPCorpus(h, sc, stop).Round(2)
		meets := corpus.GreaterThanOrEqual(target)
		label := fmt.Sprintf("Stop step-up after year %d", stop)
		if stop == sc.YearsToRetirement {
			label = "Continue step-up through retirement"
		}
		res.Scenarios = append(res.Scenarios, domain.OptimizationScenario{
			StopYear:        stop,
			ProjectedCorpus: corpus,
			MeetsTarget:     meets,
			Label:           label,
		})
		if meets && res.RecommendedStopYear < 0 {
			res.RecommendedStopYear = stop
		}
	}

	switch {
	case !sc.StepUpPercent.IsPositive() && res.RecommendedStopYear >= 0:
		res.Recommendation = "No step-up needed: the flat SIP already reaches the target corpus"
	case !sc.StepUpPercent.IsPositive():
		res.Recommendation = "Flat SIP falls short of the target corpus; consider adding an annual step-up"
	case res.RecommendedStopYear == 0:
		res.Recommendation = "Step-up is not required: the current SIP already reaches the target corpus"
	case res.RecommendedStopYear > 0 && res.RecommendedStopYear < sc.YearsToRetirement:
		res.Recommendation = fmt.Sprintf("You can stop the %s%% step-up after year %d and still reach the target corpus",
			sc.StepUpPercent.String(), res.RecommendedStopYear)
	default:
		res.RecommendedStopYear = -1
		res.Recommendation = fmt.Sprintf("Continue the %s%% step-up through retirement", sc.StepUpPercent.String())
	}
	return res
}
