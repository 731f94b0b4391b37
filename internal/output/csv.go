package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rgehrsitz/corpusplan/internal/domain"
)

// CSVFormatter writes each report section as its own CSV block, separated by a blank line.
// The first record of a block names the section.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(r *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	var blocks [][][]string
	if r.Matrix != nil {
		blocks = append(blocks, matrixRecords(r.Matrix))
	}
	if r.Gap != nil {
		blocks = append(blocks, gapRecords(r.Gap))
	}
	if r.Simulation != nil {
		blocks = append(blocks, simulationRecords(r.Simulation))
	}
	if r.Withdrawal != nil {
		blocks = append(blocks, withdrawalRecords(r.Withdrawal))
	}
	if r.StepUp != nil {
		blocks = append(blocks, stepUpRecords(r.StepUp))
	}

	for i, block := range blocks {
		if i > 0 {
			if err := w.Write(nil); err != nil {
				return nil, err
			}
		}
		if err := w.WriteAll(block); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func matrixRecords(m *domain.RetirementMatrix) [][]string {
	strategy := m.Summary.IncomeStrategy
	header := []string{"Year", "Age", "Phase"}
	for _, c := range domain.AllAssetClasses {
		header = append(header, string(c))
	}
	header = append(header, "TotalCorpus", "MonthlySIP", "StepUpActive", "GoalOutflow", "MaturityInflow",
		"AnnuityInflow", "Withdrawal", "Shortfall", "RequiredCorpus", "CanRetire")

	records := [][]string{{"matrix"}, header}
	for _, row := range m.Rows {
		rec := []string{strconv.Itoa(row.Year), strconv.Itoa(row.Age), string(row.Phase)}
		for _, c := range domain.AllAssetClasses {
			rec = append(rec, row.Balances[c].StringFixed(2))
		}
		rec = append(rec,
			row.TotalCorpus.StringFixed(2),
			row.MonthlySIP.StringFixed(2),
			strconv.FormatBool(row.StepUpActive),
			row.GoalOutflow.StringFixed(2),
			row.MaturityInflow.StringFixed(2),
			row.AnnuityInflow.StringFixed(2),
			row.Withdrawal.StringFixed(2),
			row.Shortfall.StringFixed(2),
			row.RequiredCorpus[strategy].StringFixed(2),
			strconv.FormatBool(row.CanRetire[strategy]),
		)
		records = append(records, rec)
	}
	return records
}

func gapRecords(g *domain.GapAnalysisResult) [][]string {
	records := [][]string{
		{"gap_analysis"},
		{"Metric", "Value"},
		{"Strategy", string(g.Strategy)},
		{"RequiredCorpus", g.RequiredCorpus.StringFixed(2)},
		{"ProjectedCorpus", g.ProjectedCorpus.StringFixed(2)},
		{"Gap", g.Gap.StringFixed(2)},
		{"GapPercent", g.GapPercent.StringFixed(2)},
		{"AdditionalMonthlySIP", g.AdditionalMonthlySIP.StringFixed(2)},
		{"AnnualExpenseAtRetirement", g.AnnualExpenseAtRetirement.StringFixed(2)},
		{"YearsToRetirement", strconv.Itoa(g.YearsToRetirement)},
		{"RetirementYears", strconv.Itoa(g.RetirementYears)},
	}
	for _, s := range domain.AllIncomeStrategies {
		records = append(records, []string{"Required_" + string(s), g.RequiredByStrategy[s].StringFixed(2)})
	}
	for _, s := range g.Suggestions {
		records = append(records, []string{"Suggestion_" + strconv.Itoa(s.Rank), string(s.Kind), s.Message})
	}
	for _, w := range g.Warnings {
		records = append(records, []string{"Warning", w})
	}
	return records
}

func simulationRecords(s *domain.SimulationResult) [][]string {
	return [][]string{
		{"simulation"},
		{"Metric", "Value"},
		{"Simulations", strconv.Itoa(s.Simulations)},
		{"HorizonYears", strconv.Itoa(s.HorizonYears)},
		{"P10", s.Percentiles.P10.StringFixed(2)},
		{"P25", s.Percentiles.P25.StringFixed(2)},
		{"P50", s.Percentiles.P50.StringFixed(2)},
		{"P75", s.Percentiles.P75.StringFixed(2)},
		{"P90", s.Percentiles.P90.StringFixed(2)},
		{"Average", s.Average.StringFixed(2)},
		{"SuccessRate", s.SuccessRate.String()},
		{"TargetCorpus", s.TargetCorpus.StringFixed(2)},
	}
}

func withdrawalRecords(p *domain.WithdrawalPlan) [][]string {
	header := []string{"Year", "Age", "Need"}
	for _, c := range domain.AllAssetClasses {
		header = append(header, string(c))
	}
	header = append(header, "Unmet", "Instruction")

	records := [][]string{{"withdrawal_plan", string(p.Strategy)}, header}
	for _, d := range p.Schedule {
		rec := []string{strconv.Itoa(d.Year), strconv.Itoa(d.Age), d.Need.StringFixed(2)}
		for _, c := range domain.AllAssetClasses {
			rec = append(rec, d.Draws[c].StringFixed(2))
		}
		rec = append(rec, d.Unmet.StringFixed(2), d.Instruction)
		records = append(records, rec)
	}
	return records
}

func stepUpRecords(o *domain.StepUpOptimization) [][]string {
	records := [][]string{
		{"step_up", o.StepUpPercent.StringFixed(2), o.TargetCorpus.StringFixed(2), stopYearLabel(o.RecommendedStopYear)},
		{"StopYear", "ProjectedCorpus", "MeetsTarget", "Label"},
	}
	for _, s := range o.Scenarios {
		records = append(records, []string{
			stopYearLabel(s.StopYear),
			s.ProjectedCorpus.StringFixed(2),
			strconv.FormatBool(s.MeetsTarget),
			s.Label,
		})
	}
	return records
}
