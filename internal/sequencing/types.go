package sequencing

import (
	"github.com/rgehrsitz/corpusplan/internal/domain"
	"github.com/shopspring/decimal"
)

// TaxTreatment describes how a withdrawal source is treated when drawn.
// Liquid: taxable or freely accessible holdings (deposits, mutual funds, other)
// TaxDeferred: retirement accounts taxed or restricted on exit (NPS, EPF)
// TaxFree: long-term tax-free holdings preserved for last (PPF)
type TaxTreatment int

const (
	Liquid TaxTreatment = iota
	TaxDeferred
	TaxFree
)

func (tt TaxTreatment) String() string {
	switch tt {
	case Liquid:
		return "liquid"
	case TaxDeferred:
		return "tax_deferred"
	case TaxFree:
		return "tax_free"
	default:
		return "unknown"
	}
}

// Phase maps the treatment onto the withdrawal phase reported to callers
func (tt TaxTreatment) Phase() domain.WithdrawalPhaseKind {
	switch tt {
	case TaxDeferred:
		return domain.PhaseTaxDeferred
	case TaxFree:
		return domain.PhaseTaxFree
	default:
		return domain.PhaseLiquid
	}
}

// TreatmentOf classifies an asset class
func TreatmentOf(class domain.AssetClass) TaxTreatment {
	switch class {
	case domain.AssetNPS, domain.AssetEPF:
		return TaxDeferred
	case domain.AssetPPF:
		return TaxFree
	default:
		return Liquid
	}
}

// WithdrawalSource represents an available pool for withdrawals
// Class: the asset class backing the pool
// Balance: current available balance
// TaxTreatment: which phase the pool is drawn in
// Priority: order within a phase (lower first)
type WithdrawalSource struct {
	Class        domain.AssetClass
	Balance      decimal.Decimal
	TaxTreatment TaxTreatment
	Priority     int
}

// WithdrawalAllocation captures the amount taken from one source
type WithdrawalAllocation struct {
	Class domain.AssetClass
	Phase domain.WithdrawalPhaseKind
	Gross decimal.Decimal
}

// WithdrawalPlan aggregates the allocations made to meet a requested amount
// Requested: amount the caller asked for
// Allocations: per-source draws in the order they were taken
// TotalSourced: sum of Gross across allocations
// RemainingNeed: unmet portion when balances run out
// Notes: strategy-specific notes or warnings
type WithdrawalPlan struct {
	Requested     decimal.Decimal
	Allocations   []WithdrawalAllocation
	TotalSourced  decimal.Decimal
	RemainingNeed decimal.Decimal
	Notes         []string
	StrategyUsed  string
}

// Drawn returns the per-class totals of the plan
func (p WithdrawalPlan) Drawn() map[domain.AssetClass]decimal.Decimal {
	out := make(map[domain.AssetClass]decimal.Decimal, len(p.Allocations))
	for _, a := range p.Allocations {
		out[a.Class] = out[a.Class].Add(a.Gross)
	}
	return out
}

// SequencingStrategy defines interface for withdrawal ordering algorithms
type SequencingStrategy interface {
	Name() string
	Plan(sources []WithdrawalSource, need decimal.Decimal) WithdrawalPlan
}

// liquidPriority orders the liquid phase: deposits before market-linked holdings
var liquidPriority = map[domain.AssetClass]int{
	domain.AssetFD:         1,
	domain.AssetRD:         2,
	domain.AssetOther:      3,
	domain.AssetMutualFund: 4,
	domain.AssetNPS:        1,
	domain.AssetEPF:        2,
	domain.AssetPPF:        1,
}

// CreateWithdrawalSources builds one source per asset class with a positive balance
func CreateWithdrawalSources(balances map[domain.AssetClass]decimal.Decimal) []WithdrawalSource {
	sources := []WithdrawalSource{}
	for _, class := range domain.AllAssetClasses {
		bal, ok := balances[class]
		if !ok || bal.LessThanOrEqual(decimal.Zero) {
			continue
		}
		sources = append(sources, WithdrawalSource{
			Class:        class,
			Balance:      bal,
			TaxTreatment: TreatmentOf(class),
			Priority:     liquidPriority[class],
		})
	}
	return sources
}
