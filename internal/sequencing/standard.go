package sequencing

import (
	"sort"

	"github.com/shopspring/decimal"
)

// StandardStrategy: liquid -> tax-deferred -> tax-free
// Spends accessible holdings first and preserves tax-free long-term holdings for last.
type StandardStrategy struct{}

func NewStandardStrategy() *StandardStrategy { return &StandardStrategy{} }

func (s *StandardStrategy) Name() string { return "standard" }

func (s *StandardStrategy) Plan(sources []WithdrawalSource, need decimal.Decimal) WithdrawalPlan {
	plan := WithdrawalPlan{Requested: need, StrategyUsed: s.Name(), Allocations: []WithdrawalAllocation{}}
	remaining := need

	ordered := append([]WithdrawalSource(nil), sources...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].TaxTreatment != ordered[j].TaxTreatment {
			return ordered[i].TaxTreatment < ordered[j].TaxTreatment
		}
		return ordered[i].Priority < ordered[j].Priority
	})

	for _, src := range ordered {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		if src.Balance.LessThanOrEqual(decimal.Zero) {
			continue
		}

		withdraw := src.Balance
		if withdraw.GreaterThan(remaining) {
			withdraw = remaining
		}

		plan.Allocations = append(plan.Allocations, WithdrawalAllocation{
			Class: src.Class,
			Phase: src.TaxTreatment.Phase(),
			Gross: withdraw,
		})
		plan.TotalSourced = plan.TotalSourced.Add(withdraw)
		remaining = remaining.Sub(withdraw)
	}

	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	plan.RemainingNeed = remaining
	if remaining.GreaterThan(decimal.Zero) {
		plan.Notes = append(plan.Notes, "insufficient balances to meet request")
	}
	return plan
}
