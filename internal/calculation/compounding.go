package calculation

import (
	"github.com/shopspring/decimal"
)

const (
	factorPlaces  = 12
	balancePlaces = 8
)

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
	one     = decimal.NewFromInt(1)
)

// growthFactor returns (1 + ratePercent/100)^periods. Integer periods keep decimal.Pow exact.
func growthFactor(ratePercent decimal.Decimal, periods int) decimal.Decimal {
	if periods <= 0 {
		return one
	}
	return one.Add(ratePercent.Div(hundred)).Pow(decimal.NewFromInt(int64(periods))).Round(factorPlaces)
}

// FutureValue compounds pv annually for years at ratePercent.
// years <= 0 or a non-positive rate returns pv unchanged.
func FutureValue(pv, ratePercent decimal.Decimal, years int) decimal.Decimal {
	if years <= 0 || !ratePercent.IsPositive() {
		return pv
	}
	return pv.Mul(growthFactor(ratePercent, years))
}

// SIPFutureValue is the future value of an ordinary monthly annuity at i = r/12 over 12*years
// payments. years <= 0 or a zero contribution yields 0; a non-positive rate yields the plain sum.
func SIPFutureValue(monthly, ratePercent decimal.Decimal, years int) decimal.Decimal {
	if years <= 0 || monthly.IsZero() {
		return decimal.Zero
	}
	n := 12 * years
	if !ratePercent.IsPositive() {
		return monthly.Mul(decimal.NewFromInt(int64(n)))
	}
	i := ratePercent.Div(hundred).Div(twelve)
	factor := one.Add(i).Pow(decimal.NewFromInt(int64(n))).Round(factorPlaces).Sub(one).Div(i)
	return monthly.Mul(factor)
}

// InflatedValue escalates a present cost by inflation
func InflatedValue(amount, inflationPercent decimal.Decimal, years int) decimal.Decimal {
	return FutureValue(amount, inflationPercent, years)
}

// DiscountedValue brings a future amount back years periods at ratePercent
func DiscountedValue(amount, ratePercent decimal.Decimal, years int) decimal.Decimal {
	if years <= 0 || !ratePercent.IsPositive() {
		return amount
	}
	return amount.Div(growthFactor(ratePercent, years))
}

// annuityDueFactor is sum_{t<n} g^t / d^t for annual growth g and discount d (both percents)
func annuityDueFactor(growthPercent, discountPercent decimal.Decimal, n int) decimal.Decimal {
	if n <= 0 {
		return decimal.Zero
	}
	ratio := one.Add(growthPercent.Div(hundred)).DivRound(one.Add(discountPercent.Div(hundred)), factorPlaces+4)
	sum, term := decimal.Zero, one
	for t := 0; t < n; t++ {
		sum = sum.Add(term)
		term = term.Mul(ratio).Round(factorPlaces)
	}
	return sum
}

// MonthlyStep is one year (or part year) of the shared compounding kernel
type MonthlyStep struct {
	Balance             decimal.Decimal
	RatePercent         decimal.Decimal
	Months              int
	MonthlyContribution decimal.Decimal
	Withdrawal          decimal.Decimal
}

// MonthlyOutcome is the result of running a MonthlyStep
type MonthlyOutcome struct {
	Balance   decimal.Decimal
	Withdrawn decimal.Decimal
	Shortfall decimal.Decimal
}

// MonthlyCompound grows the balance month by month, contributions landing at month end, then
// takes the withdrawal capped at the balance. Months is clamped to [0, 12]; zero months is a no-op.
func MonthlyCompound(step MonthlyStep) MonthlyOutcome {
	months := min(max(step.Months, 0), 12)
	if months == 0 {
		return MonthlyOutcome{Balance: step.Balance, Withdrawn: decimal.Zero, Shortfall: decimal.Zero}
	}

	monthlyRate := step.RatePercent.Div(hundred).Div(twelve)
	balance := step.Balance
	for m := 0; m < months; m++ {
		balance = balance.Add(balance.Mul(monthlyRate)).Add(step.MonthlyContribution).Round(balancePlaces)
	}
	if balance.IsNegative() {
		balance = decimal.Zero
	}

	withdrawal := step.Withdrawal
	if withdrawal.IsNegative() {
		withdrawal = decimal.Zero
	}
	withdrawn := decimal.Min(withdrawal, balance)
	return MonthlyOutcome{
		Balance:   balance.Sub(withdrawn),
		Withdrawn: withdrawn,
		Shortfall: withdrawal.Sub(withdrawn),
	}
}
