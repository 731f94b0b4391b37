package compare

import (
	"fmt"

	"github.com/rgehrsitz/corpusplan/internal/domain"
	"github.com/shopspring/decimal"
)

// ComparisonResult is one scenario's headline metrics, plus deltas against the base
type ComparisonResult struct {
	ScenarioName string                     `json:"scenarioName"`
	Description  string                     `json:"description"`
	Params       *domain.ScenarioParameters `json:"params"`

	RetirementAge        int                   `json:"retirementAge"`
	Strategy             domain.IncomeStrategy `json:"strategy"`
	CorpusAtRetirement   decimal.Decimal       `json:"corpusAtRetirement"`
	FinalCorpus          decimal.Decimal       `json:"finalCorpus"`
	RequiredCorpus       decimal.Decimal       `json:"requiredCorpus"`
	Gap                  decimal.Decimal       `json:"gap"`
	AdditionalMonthlySIP decimal.Decimal       `json:"additionalMonthlySip"`
	CorpusLongevity      int                   `json:"corpusLongevity"` // retirement years funded before depletion
	RetirementYears      int                   `json:"retirementYears"`
	DepletionAge         *int                  `json:"depletionAge,omitempty"`

	CorpusDiffFromBase decimal.Decimal `json:"corpusDiffFromBase"`
	CorpusPctFromBase  decimal.Decimal `json:"corpusPctFromBase"`
	GapDiffFromBase    decimal.Decimal `json:"gapDiffFromBase"`
	LongevityDiff      int             `json:"longevityDiff"`
}

// OnTrack reports whether the projected corpus covers the required corpus
func (r ComparisonResult) OnTrack() bool {
	return !r.Gap.IsPositive()
}

// ComparisonSet represents a collection of scenario comparisons
type ComparisonSet struct {
	UserID             string             `json:"userId"`
	BaseScenarioName   string             `json:"baseScenarioName"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	ConfigPath         string             `json:"configPath"`
}

// MetricsCalculator extracts comparison metrics from engine results
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics combines a projection and its gap analysis into one result
func (mc *MetricsCalculator) CalculateMetrics(name string, params *domain.ScenarioParameters, m *domain.RetirementMatrix, gap *domain.GapAnalysisResult) ComparisonResult {
	result := ComparisonResult{
		ScenarioName:         name,
		Params:               params,
		Strategy:             gap.Strategy,
		CorpusAtRetirement:   m.Summary.CorpusAtRetirement,
		FinalCorpus:          m.Summary.FinalCorpus,
		RequiredCorpus:       gap.RequiredCorpus,
		Gap:                  gap.Gap,
		AdditionalMonthlySIP: gap.AdditionalMonthlySIP,
		RetirementYears:      gap.RetirementYears,
		CorpusLongevity:      gap.RetirementYears,
		DepletionAge:         m.Summary.DepletionAge,
	}
	for _, row := range m.Rows {
		if row.Phase == domain.PhaseDecumulation {
			result.RetirementAge = row.Age
			break
		}
	}
	if result.RetirementAge == 0 && len(m.Rows) > 0 {
		result.RetirementAge = m.Rows[0].Age + gap.YearsToRetirement
	}
	if m.Summary.DepletionAge != nil {
		result.CorpusLongevity = max(0, *m.Summary.DepletionAge-result.RetirementAge)
	}
	return result
}

// CalculateComparison computes deltas between a scenario and a base
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	scenario.CorpusDiffFromBase = scenario.CorpusAtRetirement.Sub(base.CorpusAtRetirement)
	if !base.CorpusAtRetirement.IsZero() {
		scenario.CorpusPctFromBase = scenario.CorpusDiffFromBase.
			Div(base.CorpusAtRetirement).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}
	scenario.GapDiffFromBase = scenario.Gap.Sub(base.Gap)
	scenario.LongevityDiff = scenario.CorpusLongevity - base.CorpusLongevity
	return scenario
}

// GenerateRecommendations creates recommendations based on comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if len(compSet.AlternativeResults) == 0 {
		return recommendations
	}
	base := compSet.BaseResult

	bestCorpus := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.CorpusAtRetirement.GreaterThan(bestCorpus.CorpusAtRetirement) {
			bestCorpus = alt
		}
	}
	if bestCorpus != base {
		recommendations = append(recommendations,
			fmt.Sprintf("Largest corpus: %s builds %s more by retirement than the base plan",
				bestCorpus.ScenarioName, bestCorpus.CorpusDiffFromBase.StringFixed(0)))
	}

	if !base.OnTrack() {
		for i := range compSet.AlternativeResults {
			alt := &compSet.AlternativeResults[i]
			if alt.OnTrack() {
				recommendations = append(recommendations,
					fmt.Sprintf("Closes the gap: %s (%s)", alt.ScenarioName, alt.Description))
				break
			}
		}
	}

	bestLongevity := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.CorpusLongevity > bestLongevity.CorpusLongevity {
			bestLongevity = alt
		}
	}
	if bestLongevity != base {
		recommendations = append(recommendations,
			fmt.Sprintf("Longest-lasting corpus: %s funds %d more years of retirement",
				bestLongevity.ScenarioName, bestLongevity.LongevityDiff))
	}

	return recommendations
}
