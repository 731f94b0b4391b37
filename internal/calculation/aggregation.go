package calculation

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/corpusplan/internal/domain"
	"github.com/shopspring/decimal"
)

// AnnuityStream is a policy-driven income that starts in a calendar year and grows annually
type AnnuityStream struct {
	Label      string
	StartYear  int
	Monthly    decimal.Decimal
	GrowthRate decimal.Decimal
}

// AnnualIn returns the stream's income for a calendar year, zero before it starts
func (a AnnuityStream) AnnualIn(year int) decimal.Decimal {
	if year < a.StartYear || !a.Monthly.IsPositive() {
		return decimal.Zero
	}
	return FutureValue(a.Monthly.Mul(twelve), a.GrowthRate, year-a.StartYear)
}

// Holdings is the aggregated, null-free view of a user's investments and policies
type Holdings struct {
	Year      int // calendar year the holdings were valued in
	Positions map[domain.AssetClass]domain.AssetPosition
	Maturing  []domain.MaturingInstrument
	Annuities []AnnuityStream
}

// TotalValue sums the class balances (maturing instruments excluded)
func (h Holdings) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, p := range h.Positions {
		total = total.Add(p.CurrentValue)
	}
	return total
}

// MaturingIn returns the instruments maturing in a calendar year
func (h Holdings) MaturingIn(year int) []domain.MaturingInstrument {
	var out []domain.MaturingInstrument
	for _, m := range h.Maturing {
		if m.MaturityYear == year {
			out = append(out, m)
		}
	}
	return out
}

// MaturingFrom sums the maturity value of instruments maturing in or after a calendar year
func (h Holdings) MaturingFrom(year int) (decimal.Decimal, []string) {
	total := decimal.Zero
	var labels []string
	for _, m := range h.Maturing {
		if m.MaturityYear >= year {
			total = total.Add(m.MaturityValue)
			labels = append(labels, m.Label)
		}
	}
	return total, labels
}

// maturityExclusionWarning names maturity value that lands after retirement and so is not part
// of the corpus at retirement. Empty when there is none.
func maturityExclusionWarning(h Holdings, retirementYear int) string {
	value, labels := h.MaturingFrom(retirementYear)
	if !value.IsPositive() {
		return ""
	}
	return fmt.Sprintf("%s of maturity value (%s) matures in or after %d and is not counted in the corpus at retirement",
		value.StringFixed(0), strings.Join(labels, ", "), retirementYear)
}

// AnnuityIncome sums every stream's income for a calendar year
func (h Holdings) AnnuityIncome(year int) decimal.Decimal {
	total := decimal.Zero
	for _, a := range h.Annuities {
		total = total.Add(a.AnnualIn(year))
	}
	return total
}

// classDefaultRate resolves the scenario-level class rate, falling back to the engine default
func classDefaultRate(class domain.AssetClass, sc domain.ResolvedScenario, d domain.Defaults) decimal.Decimal {
	switch class {
	case domain.AssetEPF:
		return sc.EPFRate
	case domain.AssetPPF:
		return sc.PPFRate
	case domain.AssetMutualFund:
		return sc.MutualFundRate
	default:
		return d.RateFor(class)
	}
}

// Aggregate reduces raw records into one position per asset class. Every class is present in the
// result. Holdings with a maturity date after currentYear are carried as maturing instruments
// instead of class balance.
func Aggregate(investments []domain.Investment, insurances []domain.Insurance, sc domain.ResolvedScenario, d domain.Defaults, currentYear int) Holdings {
	type acc struct {
		value, weighted, monthly, yearly decimal.Decimal
		maturing                         []domain.MaturingInstrument
	}
	sums := make(map[domain.AssetClass]*acc, len(domain.AllAssetClasses))
	for _, c := range domain.AllAssetClasses {
		sums[c] = &acc{}
	}

	h := Holdings{Year: currentYear, Positions: make(map[domain.AssetClass]domain.AssetPosition, len(domain.AllAssetClasses))}

	for _, inv := range investments {
		class := domain.ClassifyInvestment(inv.Type)
		value := inv.Value()
		rate := domain.DecOr(inv.InstrumentRate(), classDefaultRate(class, sc, d))
		a := sums[class]

		if inv.MaturityDate != nil && inv.MaturityDate.Year() > currentYear {
			m := domain.MaturingInstrument{
				Label:         inv.Name,
				Class:         class,
				MaturityYear:  inv.MaturityDate.Year(),
				MaturityValue: FutureValue(value, rate, inv.MaturityDate.Year()-currentYear),
			}
			a.maturing = append(a.maturing, m)
			h.Maturing = append(h.Maturing, m)
			continue
		}

		a.value = a.value.Add(value)
		a.weighted = a.weighted.Add(value.Mul(rate))
		a.monthly = a.monthly.Add(domain.Val(inv.MonthlySIP))
		a.yearly = a.yearly.Add(domain.Val(inv.YearlyContribution))
	}

	for _, pol := range insurances {
		if pol.IsAnnuity && domain.Val(pol.MonthlyAnnuity).IsPositive() {
			h.Annuities = append(h.Annuities, AnnuityStream{
				Label:      pol.Name,
				StartYear:  domain.IntOr(pol.AnnuityStartYear, currentYear+max(0, sc.YearsToRetirement)),
				Monthly:    domain.Val(pol.MonthlyAnnuity),
				GrowthRate: domain.Val(pol.AnnuityGrowthRate),
			})
		}
		if pol.MaturityDate == nil || pol.MaturityDate.Year() <= currentYear || !pol.HasSavingsComponent() {
			continue
		}
		years := pol.MaturityDate.Year() - currentYear
		value := FutureValue(domain.Val(pol.FundValue), d.InsuranceRate, years)
		if pol.MaturityBenefit != nil {
			value = *pol.MaturityBenefit
		}
		m := domain.MaturingInstrument{
			Label:         pol.Name,
			Class:         domain.AssetOther,
			MaturityYear:  pol.MaturityDate.Year(),
			MaturityValue: value,
		}
		sums[domain.AssetOther].maturing = append(sums[domain.AssetOther].maturing, m)
		h.Maturing = append(h.Maturing, m)
	}

	for _, class := range domain.AllAssetClasses {
		a := sums[class]
		rate := classDefaultRate(class, sc, d)
		if a.value.IsPositive() {
			rate = a.weighted.Div(a.value)
		}
		h.Positions[class] = domain.AssetPosition{
			Class:               class,
			CurrentValue:        a.value,
			MonthlyContribution: a.monthly,
			YearlyContribution:  a.yearly,
			Rate:                rate,
			Maturing:            a.maturing,
		}
	}
	return h
}
