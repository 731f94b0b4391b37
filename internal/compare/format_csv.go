package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Scenario",
		"Type",
		"Retirement Age",
		"Strategy",
		"Corpus At Retirement",
		"Required Corpus",
		"Gap",
		"Additional Monthly SIP",
		"Corpus Longevity (Years)",
		"Final Corpus",
		"Corpus Diff from Base",
		"Corpus % Change",
		"Gap Diff from Base",
		"Longevity Diff",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
		return "", err
	}
	for i := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&compSet.AlternativeResults[i], "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(result *ComparisonResult, scenarioType string) []string {
	return []string{
		result.ScenarioName,
		scenarioType,
		strconv.Itoa(result.RetirementAge),
		string(result.Strategy),
		result.CorpusAtRetirement.StringFixed(2),
		result.RequiredCorpus.StringFixed(2),
		result.Gap.StringFixed(2),
		result.AdditionalMonthlySIP.StringFixed(2),
		strconv.Itoa(result.CorpusLongevity),
		result.FinalCorpus.StringFixed(2),
		result.CorpusDiffFromBase.StringFixed(2),
		result.CorpusPctFromBase.StringFixed(2),
		result.GapDiffFromBase.StringFixed(2),
		strconv.Itoa(result.LongevityDiff),
	}
}
