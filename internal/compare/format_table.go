package compare

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/corpusplan/internal/output"
	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing scenarios
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString("RETIREMENT SCENARIO COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 96) + "\n")
	sb.WriteString(fmt.Sprintf("Base Scenario: %s\n", compSet.BaseScenarioName))
	if compSet.ConfigPath != "" {
		sb.WriteString(fmt.Sprintf("Plan: %s\n", compSet.ConfigPath))
	}
	sb.WriteString("\n")

	nameWidth := 28
	numWidth := 16

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, "Scenario",
		numWidth, "Retire Corpus",
		numWidth, "Required",
		numWidth, "Gap",
		numWidth, "Lasts"))
	sb.WriteString(strings.Repeat("-", 96) + "\n")

	sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 96) + "\n")
		for i := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&compSet.AlternativeResults[i], nameWidth, numWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", 96) + "\n")

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 96) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s: %s\n", alt.ScenarioName, alt.Description))
			sb.WriteString(fmt.Sprintf("  Corpus at retirement: %s%s (%s%%)\n",
				tf.deltaSymbol(alt.CorpusDiffFromBase),
				output.FormatCompact(alt.CorpusDiffFromBase.Abs()),
				alt.CorpusPctFromBase.StringFixed(1)))

			if !alt.GapDiffFromBase.IsZero() {
				// a smaller gap is better
				sb.WriteString(fmt.Sprintf("  Gap:                  %s%s\n",
					tf.deltaSymbol(alt.GapDiffFromBase),
					output.FormatCompact(alt.GapDiffFromBase.Abs())))
			}
			if alt.LongevityDiff != 0 {
				sb.WriteString(fmt.Sprintf("  Corpus longevity:     %+d years\n", alt.LongevityDiff))
			}
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 96) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats a single scenario row
func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := result.ScenarioName
	if isBase {
		name += " (base)"
	}

	gap := output.FormatCompact(result.Gap)
	if result.OnTrack() {
		gap = "on track"
	}

	lasts := fmt.Sprintf("%d/%d years", result.CorpusLongevity, result.RetirementYears)

	return fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, output.FormatCompact(result.CorpusAtRetirement),
		numWidth, output.FormatCompact(result.RequiredCorpus),
		numWidth, gap,
		numWidth, lasts)
}

// deltaSymbol returns a + or - symbol for deltas
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return " "
}

// truncate truncates a string to maxLen
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a compact single-line summary for each scenario
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s | ", compSet.BaseScenarioName))

	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		change := "="
		if alt.CorpusDiffFromBase.IsPositive() {
			change = "+" + output.FormatCompact(alt.CorpusDiffFromBase)
		} else if alt.CorpusDiffFromBase.IsNegative() {
			change = "-" + output.FormatCompact(alt.CorpusDiffFromBase.Abs())
		}
		sb.WriteString(fmt.Sprintf("%s: %s", alt.ScenarioName, change))
	}

	return sb.String()
}
