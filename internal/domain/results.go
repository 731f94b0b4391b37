package domain

import (
	"github.com/shopspring/decimal"
)

// Phase marks a projection row as pre- or post-retirement
type Phase string

const (
	PhaseAccumulation Phase = "ACCUMULATION"
	PhaseDecumulation Phase = "DECUMULATION"
)

// MaturingInstrument is a holding that converts to a lump sum in a known calendar year
type MaturingInstrument struct {
	Label         string          `json:"label"`
	Class         AssetClass      `json:"class"`
	MaturityYear  int             `json:"maturityYear"`
	MaturityValue decimal.Decimal `json:"maturityValue"`
}

// AssetPosition is the blended view of every holding in one asset class
type AssetPosition struct {
	Class               AssetClass           `json:"class"`
	CurrentValue        decimal.Decimal      `json:"currentValue"`
	MonthlyContribution decimal.Decimal      `json:"monthlyContribution"`
	YearlyContribution  decimal.Decimal      `json:"yearlyContribution"`
	Rate                decimal.Decimal      `json:"rate"`
	Maturing            []MaturingInstrument `json:"maturing,omitempty"`
}

// ProjectionRow is one calendar year of the corpus matrix. Rows are built once and not
// modified afterwards.
type ProjectionRow struct {
	Year           int                                `json:"year"`
	YearIndex      int                                `json:"yearIndex"`
	Age            int                                `json:"age"`
	Phase          Phase                              `json:"phase"`
	Balances       map[AssetClass]decimal.Decimal     `json:"balances,omitempty"`
	TotalCorpus    decimal.Decimal                    `json:"totalCorpus"`
	EffectiveRates map[AssetClass]decimal.Decimal     `json:"effectiveRates"`
	MonthlySIP     decimal.Decimal                    `json:"monthlySip"`
	StepUpActive   bool                               `json:"stepUpActive"`
	GoalOutflow    decimal.Decimal                    `json:"goalOutflow"`
	MaturityInflow decimal.Decimal                    `json:"maturityInflow"`
	MaturingLabels []string                           `json:"maturingLabels,omitempty"`
	AnnuityInflow  decimal.Decimal                    `json:"annuityInflow"`
	Withdrawal     decimal.Decimal                    `json:"withdrawal"`
	Shortfall      decimal.Decimal                    `json:"shortfall"`
	RequiredCorpus map[IncomeStrategy]decimal.Decimal `json:"requiredCorpus"`
	CanRetire      map[IncomeStrategy]bool            `json:"canRetire"`
}

// IncomeYear is one year of the detailed post-retirement income projection
type IncomeYear struct {
	Year          int             `json:"year"`
	Age           int             `json:"age"`
	OpeningCorpus decimal.Decimal `json:"openingCorpus"`
	Withdrawal    decimal.Decimal `json:"withdrawal"`
	MonthlyIncome decimal.Decimal `json:"monthlyIncome"`
	ClosingCorpus decimal.Decimal `json:"closingCorpus"`
	Shortfall     decimal.Decimal `json:"shortfall"`
}

// MatrixSummary carries the headline figures of a projection run
type MatrixSummary struct {
	FinalCorpus        decimal.Decimal                `json:"finalCorpus"`
	CorpusAtRetirement decimal.Decimal                `json:"corpusAtRetirement"`
	IncomeStrategy     IncomeStrategy                 `json:"incomeStrategy"`
	CorpusReturnRate   decimal.Decimal                `json:"corpusReturnRate"`
	WithdrawalRate     decimal.Decimal                `json:"withdrawalRate"`
	StartingBalances   map[AssetClass]decimal.Decimal `json:"startingBalances"`
	DepletionAge       *int                           `json:"depletionAge,omitempty"`
	StepUp             StepUpOptimization             `json:"stepUpOptimization"`
	IncomeProjection   []IncomeYear                   `json:"incomeProjection"`
	Warnings           []string                       `json:"warnings,omitempty"`
}

// RetirementMatrix is the ordered row sequence plus its summary
type RetirementMatrix struct {
	Rows    []ProjectionRow `json:"rows"`
	Summary MatrixSummary   `json:"summary"`
}

// InsuranceObligation is a premium that keeps running after retirement
type InsuranceObligation struct {
	Name          string          `json:"name"`
	Type          InsuranceType   `json:"type"`
	AnnualPremium decimal.Decimal `json:"annualPremium"`
}

// SuggestionKind classifies a gap-closing suggestion
type SuggestionKind string

const (
	SuggestOnTrack         SuggestionKind = "ON_TRACK"
	SuggestIncreaseSIP     SuggestionKind = "INCREASE_SIP"
	SuggestStepUp          SuggestionKind = "STEP_UP"
	SuggestReduceExpenses  SuggestionKind = "REDUCE_EXPENSES"
	SuggestPrepayLoans     SuggestionKind = "PREPAY_LOANS"
	SuggestDelayRetirement SuggestionKind = "DELAY_RETIREMENT"
)

// Suggestion is a ranked, human-readable action item
type Suggestion struct {
	Rank    int            `json:"rank"`
	Kind    SuggestionKind `json:"kind"`
	Message string         `json:"message"`
}

// GapAnalysisResult compares required and projected corpus at retirement
type GapAnalysisResult struct {
	Strategy                  IncomeStrategy                     `json:"strategy"`
	RequiredCorpus            decimal.Decimal                    `json:"requiredCorpus"`
	RequiredByStrategy        map[IncomeStrategy]decimal.Decimal `json:"requiredByStrategy"`
	ProjectedCorpus           decimal.Decimal                    `json:"projectedCorpus"`
	Gap                       decimal.Decimal                    `json:"gap"`
	GapPercent                decimal.Decimal                    `json:"gapPercent"`
	AdditionalMonthlySIP      decimal.Decimal                    `json:"additionalMonthlySip"`
	AnnualExpenseAtRetirement decimal.Decimal                    `json:"annualExpenseAtRetirement"`
	YearsToRetirement         int                                `json:"yearsToRetirement"`
	RetirementYears           int                                `json:"retirementYears"`
	ContinuingInsurance       []InsuranceObligation              `json:"continuingInsurance"`
	Suggestions               []Suggestion                       `json:"suggestions"`
	Warnings                  []string                           `json:"warnings"`
}

// OptimizationScenario is one candidate of the step-up scan
type OptimizationScenario struct {
	StopYear        int             `json:"stopYear"`
	ProjectedCorpus decimal.Decimal `json:"projectedCorpus"`
	MeetsTarget     bool            `json:"meetsTarget"`
	Label           string          `json:"label"`
}

// StepUpOptimization is the result of the step-up scan. RecommendedStopYear is -1 when
// step-up should continue through retirement.
type StepUpOptimization struct {
	StepUpPercent       decimal.Decimal        `json:"stepUpPercent"`
	TargetCorpus        decimal.Decimal        `json:"targetCorpus"`
	RecommendedStopYear int                    `json:"recommendedStopYear"`
	Scenarios           []OptimizationScenario `json:"scenarios"`
	Recommendation      string                 `json:"recommendation"`
}

// Percentiles holds the outcome bands of a simulation
type Percentiles struct {
	P10 decimal.Decimal `json:"p10"`
	P25 decimal.Decimal `json:"p25"`
	P50 decimal.Decimal `json:"p50"`
	P75 decimal.Decimal `json:"p75"`
	P90 decimal.Decimal `json:"p90"`
}

// SimulationResult summarizes a Monte Carlo run
type SimulationResult struct {
	Simulations  int             `json:"simulations"`
	HorizonYears int             `json:"horizonYears"`
	Percentiles  Percentiles     `json:"percentiles"`
	Average      decimal.Decimal `json:"average"`
	SuccessRate  decimal.Decimal `json:"successRate"`
	TargetCorpus decimal.Decimal `json:"targetCorpus"`
	MeanReturn   decimal.Decimal `json:"meanReturn"`
	StdDev       decimal.Decimal `json:"stdDev"`
}

// WithdrawalPhaseKind orders asset groups for drawdown
type WithdrawalPhaseKind string

const (
	PhaseLiquid      WithdrawalPhaseKind = "LIQUID"
	PhaseTaxDeferred WithdrawalPhaseKind = "TAX_DEFERRED"
	PhaseTaxFree     WithdrawalPhaseKind = "TAX_FREE"
)

// WithdrawalPhase groups the asset classes drawn together
type WithdrawalPhase struct {
	Order       int                 `json:"order"`
	Kind        WithdrawalPhaseKind `json:"kind"`
	Classes     []AssetClass        `json:"classes"`
	Balance     decimal.Decimal     `json:"balance"`
	Description string              `json:"description"`
}

// ScheduledDrawdown is one year's drawdown instruction
type ScheduledDrawdown struct {
	Year        int                            `json:"year"`
	Age         int                            `json:"age"`
	Need        decimal.Decimal                `json:"need"`
	Draws       map[AssetClass]decimal.Decimal `json:"draws"`
	Unmet       decimal.Decimal                `json:"unmet"`
	Instruction string                         `json:"instruction"`
}

// WithdrawalPlan is the phased drawdown plan for the retirement years
type WithdrawalPlan struct {
	Strategy IncomeStrategy      `json:"strategy"`
	Phases   []WithdrawalPhase   `json:"phases"`
	Schedule []ScheduledDrawdown `json:"schedule"`
	TaxTips  []string            `json:"taxTips"`
	Caveats  []string            `json:"caveats"`
}
