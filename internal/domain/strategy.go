package domain

import "strings"

// IncomeStrategy selects the post-retirement withdrawal model
type IncomeStrategy string

const (
	StrategySustainable     IncomeStrategy = "SUSTAINABLE"
	StrategySafe4Percent    IncomeStrategy = "SAFE_4_PERCENT"
	StrategySimpleDepletion IncomeStrategy = "SIMPLE_DEPLETION"
)

// AllIncomeStrategies lists the strategies in reporting order
var AllIncomeStrategies = []IncomeStrategy{
	StrategySustainable, StrategySafe4Percent, StrategySimpleDepletion,
}

// ParseIncomeStrategy resolves a strategy key. Unknown or empty keys fall back to SUSTAINABLE.
func ParseIncomeStrategy(s string) IncomeStrategy {
	switch IncomeStrategy(strings.ToUpper(strings.TrimSpace(s))) {
	case StrategySafe4Percent:
		return StrategySafe4Percent
	case StrategySimpleDepletion:
		return StrategySimpleDepletion
	default:
		return StrategySustainable
	}
}

func (s IncomeStrategy) String() string { return string(s) }
