package breakeven

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rgehrsitz/corpusplan/internal/output"
	"github.com/shopspring/decimal"
)

// TableFormatter formats optimization results as console text
type TableFormatter struct{}

// Format renders a single optimization result
func (tf *TableFormatter) Format(result *OptimizationResult) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN OPTIMIZATION RESULTS\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Optimization Target: %s\n", result.Request.Target))
	sb.WriteString(fmt.Sprintf("Optimization Goal:   %s\n", result.Request.Goal))
	sb.WriteString(fmt.Sprintf("Status:              %s\n", tf.formatStatus(result.Success)))
	sb.WriteString(fmt.Sprintf("Iterations:          %d\n", result.Iterations))
	if result.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence:         %s\n", result.ConvergenceInfo))
	}
	sb.WriteString("\n")

	sb.WriteString("OPTIMAL PARAMETERS\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	if result.OptimalRetirementAge != nil {
		sb.WriteString(fmt.Sprintf("Retirement Age:      %d\n", *result.OptimalRetirementAge))
	}
	if result.OptimalStepUp != nil {
		sb.WriteString(fmt.Sprintf("Annual SIP Step-Up:  %s%%\n", result.OptimalStepUp.StringFixed(2)))
	}
	if result.OptimalLumpSum != nil {
		sb.WriteString(fmt.Sprintf("Lump Sum Today:      %s\n", output.FormatCurrency(*result.OptimalLumpSum)))
	}
	sb.WriteString("\n")

	o := result.Outcome
	sb.WriteString("PROJECTED RESULTS\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Corpus at Retirement: %s\n", output.FormatCurrency(o.CorpusAtRetirement)))
	sb.WriteString(fmt.Sprintf("Required Corpus:      %s\n", output.FormatCurrency(o.RequiredCorpus)))
	sb.WriteString(fmt.Sprintf("Gap:                  %s\n", tf.formatGap(o.Gap)))
	sb.WriteString(fmt.Sprintf("Corpus Longevity:     %d of %d years\n", o.CorpusLongevity, o.RetirementYears))
	sb.WriteString("\n")

	if result.Base != nil {
		sb.WriteString("COMPARISON TO BASE SCENARIO\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		sb.WriteString(fmt.Sprintf("Base Gap:             %s\n", tf.formatGap(result.Base.Gap)))
		if !result.GapDiffFromBase.IsZero() {
			sb.WriteString(fmt.Sprintf("Gap Change:           %s%s\n",
				tf.deltaSymbol(result.GapDiffFromBase), output.FormatCompact(result.GapDiffFromBase.Abs())))
		}
		if diff := o.CorpusLongevity - result.Base.CorpusLongevity; diff != 0 {
			sb.WriteString(fmt.Sprintf("Longevity Change:     %+d years\n", diff))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatMultiDimensional renders the results of several optimizations side by side
func (tf *TableFormatter) FormatMultiDimensional(result *MultiDimensionalResult) string {
	var sb strings.Builder

	sb.WriteString("MULTI-DIMENSIONAL OPTIMIZATION RESULTS\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n\n")

	sb.WriteString(fmt.Sprintf("%-16s %-20s %-12s %14s %12s\n", "Target", "Goal", "Status", "Gap", "Lasts"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	for i := range result.Results {
		r := &result.Results[i]
		status := "closed"
		if !r.Success {
			status = "open"
		}
		sb.WriteString(fmt.Sprintf("%-16s %-20s %-12s %14s %12s\n",
			tf.truncate(string(r.Request.Target), 16),
			tf.truncate(string(r.Request.Goal), 20),
			status,
			tf.formatGap(r.Outcome.Gap),
			fmt.Sprintf("%d/%d yrs", r.Outcome.CorpusLongevity, r.Outcome.RetirementYears)))
	}
	sb.WriteString("\n")

	sb.WriteString("BEST SCENARIOS\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	if result.BestByGap != nil {
		sb.WriteString(fmt.Sprintf("Smallest Gap:    %s (%s)\n", result.BestByGap.Request.Target, describeChange(result.BestByGap)))
	}
	if result.BestByLongevity != nil {
		sb.WriteString(fmt.Sprintf("Best Longevity:  %s (%d years)\n", result.BestByLongevity.Request.Target, result.BestByLongevity.Outcome.CorpusLongevity))
	}
	sb.WriteString("\n")

	if len(result.Recommendations) > 0 {
		sb.WriteString("RECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range result.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// JSONFormatter formats results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output
func (jf *JSONFormatter) Format(result *OptimizationResult) (string, error) {
	return jf.marshal(result)
}

// FormatMultiDimensional formats multi-dimensional results as JSON
func (jf *JSONFormatter) FormatMultiDimensional(result *MultiDimensionalResult) (string, error) {
	return jf.marshal(result)
}

func (jf *JSONFormatter) marshal(v any) (string, error) {
	var data []byte
	var err error
	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (tf *TableFormatter) formatStatus(success bool) string {
	if success {
		return "✓ Converged"
	}
	return "⚠ Did not converge"
}

func (tf *TableFormatter) formatGap(gap decimal.Decimal) string {
	if !gap.IsPositive() {
		return "on track"
	}
	return output.FormatCompact(gap)
}

func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return " "
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
