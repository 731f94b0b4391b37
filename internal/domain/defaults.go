package domain

import "github.com/shopspring/decimal"

// Defaults holds the engine-wide fallback assumptions. It is a value type: callers
// copy and override fields rather than mutating shared state.
type Defaults struct {
	EPFRate          decimal.Decimal `yaml:"epf_rate" json:"epfRate"`
	PPFRate          decimal.Decimal `yaml:"ppf_rate" json:"ppfRate"`
	NPSRate          decimal.Decimal `yaml:"nps_rate" json:"npsRate"`
	MutualFundRate   decimal.Decimal `yaml:"mutual_fund_rate" json:"mutualFundRate"`
	FDRate           decimal.Decimal `yaml:"fd_rate" json:"fdRate"`
	RDRate           decimal.Decimal `yaml:"rd_rate" json:"rdRate"`
	OtherRate        decimal.Decimal `yaml:"other_rate" json:"otherRate"`
	InsuranceRate    decimal.Decimal `yaml:"insurance_rate" json:"insuranceRate"`
	InflationRate    decimal.Decimal `yaml:"inflation_rate" json:"inflationRate"`
	CorpusReturnRate decimal.Decimal `yaml:"corpus_return_rate" json:"corpusReturnRate"`
	WithdrawalRate   decimal.Decimal `yaml:"withdrawal_rate" json:"withdrawalRate"`
	RateFloor        decimal.Decimal `yaml:"rate_floor" json:"rateFloor"`

	CurrentAge     int `yaml:"current_age" json:"currentAge"`
	RetirementAge  int `yaml:"retirement_age" json:"retirementAge"`
	LifeExpectancy int `yaml:"life_expectancy" json:"lifeExpectancy"`

	MonteCarloSimulations int             `yaml:"monte_carlo_simulations" json:"monteCarloSimulations"`
	MonteCarloStdDev      decimal.Decimal `yaml:"monte_carlo_std_dev" json:"monteCarloStdDev"`
	DetailedIncomeHorizon int             `yaml:"detailed_income_horizon" json:"detailedIncomeHorizon"`
}

// StandardDefaults returns the stock assumptions used when nothing else is configured
func StandardDefaults() Defaults {
	return Defaults{
		EPFRate:               decimal.NewFromFloat(8.25),
		PPFRate:               decimal.NewFromFloat(7.1),
		NPSRate:               decimal.NewFromInt(10),
		MutualFundRate:        decimal.NewFromInt(12),
		FDRate:                decimal.NewFromInt(7),
		RDRate:                decimal.NewFromFloat(6.5),
		OtherRate:             decimal.NewFromInt(8),
		InsuranceRate:         decimal.NewFromInt(6),
		InflationRate:         decimal.NewFromInt(6),
		CorpusReturnRate:      decimal.NewFromInt(8),
		WithdrawalRate:        decimal.NewFromInt(4),
		RateFloor:             decimal.NewFromInt(4),
		CurrentAge:            35,
		RetirementAge:         60,
		LifeExpectancy:        85,
		MonteCarloSimulations: 1000,
		MonteCarloStdDev:      decimal.NewFromInt(15),
		DetailedIncomeHorizon: 30,
	}
}

// RateFor returns the hardcoded default rate of an asset class
func (d Defaults) RateFor(class AssetClass) decimal.Decimal {
	switch class {
	case AssetEPF:
		return d.EPFRate
	case AssetPPF:
		return d.PPFRate
	case AssetNPS:
		return d.NPSRate
	case AssetMutualFund:
		return d.MutualFundRate
	case AssetFD:
		return d.FDRate
	case AssetRD:
		return d.RDRate
	default:
		return d.OtherRate
	}
}

// Merge overlays the non-zero fields of override onto d and returns the result.
// Zero values in override mean "not configured".
func (d Defaults) Merge(override Defaults) Defaults {
	pick := func(base, o decimal.Decimal) decimal.Decimal {
		if o.IsZero() {
			return base
		}
		return o
	}
	pickInt := func(base, o int) int {
		if o == 0 {
			return base
		}
		return o
	}
	return Defaults{
		EPFRate:               pick(d.EPFRate, override.EPFRate),
		PPFRate:               pick(d.PPFRate, override.PPFRate),
		NPSRate:               pick(d.NPSRate, override.NPSRate),
		MutualFundRate:        pick(d.MutualFundRate, override.MutualFundRate),
		FDRate:                pick(d.FDRate, override.FDRate),
		RDRate:                pick(d.RDRate, override.RDRate),
		OtherRate:             pick(d.OtherRate, override.OtherRate),
		InsuranceRate:         pick(d.InsuranceRate, override.InsuranceRate),
		InflationRate:         pick(d.InflationRate, override.InflationRate),
		CorpusReturnRate:      pick(d.CorpusReturnRate, override.CorpusReturnRate),
		WithdrawalRate:        pick(d.WithdrawalRate, override.WithdrawalRate),
		RateFloor:             pick(d.RateFloor, override.RateFloor),
		CurrentAge:            pickInt(d.CurrentAge, override.CurrentAge),
		RetirementAge:         pickInt(d.RetirementAge, override.RetirementAge),
		LifeExpectancy:        pickInt(d.LifeExpectancy, override.LifeExpectancy),
		MonteCarloSimulations: pickInt(d.MonteCarloSimulations, override.MonteCarloSimulations),
		MonteCarloStdDev:      pick(d.MonteCarloStdDev, override.MonteCarloStdDev),
		DetailedIncomeHorizon: pickInt(d.DetailedIncomeHorizon, override.DetailedIncomeHorizon),
	}
}
