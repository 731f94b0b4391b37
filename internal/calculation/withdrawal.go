package calculation

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/corpusplan/internal/domain"
	"github.com/rgehrsitz/corpusplan/internal/sequencing"
	"github.com/shopspring/decimal"
)

var phaseDescriptions = map[domain.WithdrawalPhaseKind]string{
	domain.PhaseLiquid:      "Draw deposits, other holdings and mutual funds first to keep long-term accounts compounding",
	domain.PhaseTaxDeferred: "Move to NPS and EPF once liquid holdings are exhausted",
	domain.PhaseTaxFree:     "Preserve PPF for last; it keeps compounding tax-free",
}

var withdrawalTaxTips = []string{
	"Hold at least one year of expenses in FDs or liquid funds to avoid selling equity in a downturn",
	"Harvest long-term capital gains on equity mutual funds each year up to the exempt limit",
	"Use a systematic withdrawal plan from mutual funds instead of lump-sum redemptions",
	"Time NPS exits to use the tax-free lump-sum portion and annuitize only what is required",
	"PPF withdrawals are tax-free; leave the account to compound until other sources run low",
}

var withdrawalCaveats = []string{
	"Projections assume steady returns and inflation; actual markets vary year to year",
	"Tax rules change; review the plan with a tax adviser before each withdrawal year",
	"Medical and other emergencies can require unplanned withdrawals",
	"Lock-in periods and partial-withdrawal limits on EPF, PPF and NPS are not modelled",
}

// withdrawalScheduleYears caps the detailed drawdown schedule
const withdrawalScheduleYears = 30

// BuildWithdrawalPlan groups the balances entering retirement into withdrawal phases and
// schedules each year's inflated expense through the standard sequencing order. Balances left
// after a year's draw keep earning the corpus return.
func BuildWithdrawalPlan(balances map[domain.AssetClass]decimal.Decimal, annualExpense decimal.Decimal, sc domain.ResolvedScenario, retirementYear int) domain.WithdrawalPlan {
	plan := domain.WithdrawalPlan{
		Strategy: sc.Strategy,
		Phases:   []domain.WithdrawalPhase{},
		Schedule: []domain.ScheduledDrawdown{},
		TaxTips:  append([]string(nil), withdrawalTaxTips...),
		Caveats:  append([]string(nil), withdrawalCaveats...),
	}

	groups := map[sequencing.TaxTreatment]*domain.WithdrawalPhase{}
	for _, tt := range []sequencing.TaxTreatment{sequencing.Liquid, sequencing.TaxDeferred, sequencing.TaxFree} {
		kind := tt.Phase()
		groups[tt] = &domain.WithdrawalPhase{
			Order:       int(tt) + 1,
			Kind:        kind,
			Classes:     []domain.AssetClass{},
			Balance:     decimal.Zero,
			Description: phaseDescriptions[kind],
		}
	}
	for _, src := range sequencing.CreateWithdrawalSources(balances) {
		p := groups[src.TaxTreatment]
		p.Classes = append(p.Classes, src.Class)
		p.Balance = p.Balance.Add(src.Balance)
	}
	for _, tt := range []sequencing.TaxTreatment{sequencing.Liquid, sequencing.TaxDeferred, sequencing.TaxFree} {
		p := groups[tt]
		p.Balance = p.Balance.Round(2)
		plan.Phases = append(plan.Phases, *p)
	}

	remaining := make(map[domain.AssetClass]decimal.Decimal, len(balances))
	for k, v := range balances {
		remaining[k] = v
	}
	strategy := sequencing.NewStandardStrategy()
	years := min(sc.RetirementYears, withdrawalScheduleYears)
	for t := 0; t < years; t++ {
		need := InflatedValue(annualExpense, sc.InflationRate, t)
		wp := strategy.Plan(sequencing.CreateWithdrawalSources(remaining), need)
		draws := make(map[domain.AssetClass]decimal.Decimal, len(wp.Allocations))
		parts := make([]string, 0, len(wp.Allocations))
		for _, a := range wp.Allocations {
			draws[a.Class] = draws[a.Class].Add(a.Gross).Round(2)
			remaining[a.Class] = remaining[a.Class].Sub(a.Gross)
			parts = append(parts, fmt.Sprintf("%s from %s", a.Gross.StringFixed(0), a.Class))
		}
		instruction := "Draw " + strings.Join(parts, ", ")
		switch {
		case len(parts) == 0 && need.IsZero():
			instruction = "No withdrawal needed"
		case len(parts) == 0:
			instruction = "Corpus exhausted; expenses must be met from other income"
		case wp.RemainingNeed.IsPositive():
			instruction += fmt.Sprintf("; %s remains unfunded", wp.RemainingNeed.StringFixed(0))
		}
		plan.Schedule = append(plan.Schedule, domain.ScheduledDrawdown{
			Year:        retirementYear + t,
			Age:         max(sc.RetirementAge, sc.CurrentAge) + t,
			Need:        need.Round(2),
			Draws:       draws,
			Unmet:       wp.RemainingNeed.Round(2),
			Instruction: instruction,
		})
		for class, bal := range remaining {
			remaining[class] = FutureValue(bal, sc.CorpusReturnRate, 1).Round(balancePlaces)
		}
	}
	return plan
}
