package output

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rgehrsitz/corpusplan/internal/domain"
)

// ConsoleFormatter renders the report as styled terminal output
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(r *Report) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, TitleStyle.Render("RETIREMENT CORPUS PLAN"))
	if !r.GeneratedAt.IsZero() {
		fmt.Fprintf(&buf, "User %s, generated %s\n", r.UserID, r.GeneratedAt.Format("2006-01-02"))
	}

	if r.Matrix != nil {
		writeMatrix(&buf, r.Matrix)
	}
	if r.Gap != nil {
		writeGap(&buf, r.Gap)
	}
	if r.Simulation != nil {
		writeSimulation(&buf, r.Simulation)
	}
	if r.Withdrawal != nil {
		writeWithdrawal(&buf, r.Withdrawal)
	}
	if r.StepUp != nil {
		writeStepUp(&buf, r.StepUp)
	}
	return buf.Bytes(), nil
}

func metric(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, MetricLabelStyle.Render(label), MetricValueStyle.Render(value))
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorBorder)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			return TableCellStyle
		}).
		Headers(headers...)
}

func writeMatrix(buf *bytes.Buffer, m *domain.RetirementMatrix) {
	s := m.Summary
	fmt.Fprintln(buf, SectionStyle.Render("CORPUS PROJECTION"))

	lines := []string{
		metric("Income strategy", string(s.IncomeStrategy)),
		metric("Corpus at retirement", FormatCurrency(s.CorpusAtRetirement)),
		metric("Final corpus", FormatCurrency(s.FinalCorpus)),
		metric("Corpus return / withdrawal", FormatPercentage(s.CorpusReturnRate)+" / "+FormatPercentage(s.WithdrawalRate)),
	}
	if s.DepletionAge != nil {
		lines = append(lines, metric("Corpus depleted at age", NegativeStyle.Render(strconv.Itoa(*s.DepletionAge))))
	}
	fmt.Fprintln(buf, SummaryBoxStyle.Render(strings.Join(lines, "\n")))

	t := newTable("Year", "Age", "Phase", "Corpus", "Monthly SIP", "Goals", "Maturities", "Withdrawal", "Shortfall", "Can retire")
	for _, row := range m.Rows {
		can := row.CanRetire[s.IncomeStrategy]
		t.Row(
			strconv.Itoa(row.Year),
			strconv.Itoa(row.Age),
			string(row.Phase),
			FormatCompact(row.TotalCorpus),
			FormatCompact(row.MonthlySIP),
			FormatCompact(row.GoalOutflow),
			FormatCompact(row.MaturityInflow),
			FormatCompact(row.Withdrawal),
			FormatCompact(row.Shortfall),
			StatusStyle(can).Render(yesNo(can)),
		)
	}
	fmt.Fprintln(buf, t.Render())

	for _, w := range s.Warnings {
		fmt.Fprintln(buf, WarningStyle.Render("! "+w))
	}
}

func writeGap(buf *bytes.Buffer, g *domain.GapAnalysisResult) {
	fmt.Fprintln(buf, SectionStyle.Render("GAP ANALYSIS"))

	gapStyle := StatusStyle(!g.Gap.IsPositive())
	lines := []string{
		metric("Strategy", string(g.Strategy)),
		metric("Annual expense at retirement", FormatCurrency(g.AnnualExpenseAtRetirement)),
		metric("Required corpus", FormatCurrency(g.RequiredCorpus)),
		metric("Projected corpus", FormatCurrency(g.ProjectedCorpus)),
		metric("Gap", gapStyle.Render(FormatCurrency(g.Gap)+" ("+FormatPercentage(g.GapPercent)+")")),
		metric("Additional monthly SIP", FormatCurrency(g.AdditionalMonthlySIP)),
		metric("Years to / in retirement", fmt.Sprintf("%d / %d", g.YearsToRetirement, g.RetirementYears)),
	}
	fmt.Fprintln(buf, SummaryBoxStyle.Render(strings.Join(lines, "\n")))

	t := newTable("Strategy", "Required corpus")
	for _, s := range domain.AllIncomeStrategies {
		t.Row(string(s), FormatCurrency(g.RequiredByStrategy[s]))
	}
	fmt.Fprintln(buf, t.Render())

	if len(g.ContinuingInsurance) > 0 {
		fmt.Fprintln(buf, "Premiums continuing after retirement:")
		for _, ins := range g.ContinuingInsurance {
			fmt.Fprintf(buf, "  • %s (%s): %s a year\n", ins.Name, ins.Type, FormatCurrency(ins.AnnualPremium))
		}
	}
	if len(g.Suggestions) > 0 {
		fmt.Fprintln(buf, "Suggestions:")
		for _, s := range g.Suggestions {
			fmt.Fprintf(buf, "  %d. %s\n", s.Rank, s.Message)
		}
	}
	for _, w := range g.Warnings {
		fmt.Fprintln(buf, WarningStyle.Render("! "+w))
	}
}

func writeSimulation(buf *bytes.Buffer, s *domain.SimulationResult) {
	fmt.Fprintln(buf, SectionStyle.Render("MONTE CARLO SIMULATION"))
	success := s.SuccessRate.Shift(2)
	lines := []string{
		metric("Simulations", strconv.Itoa(s.Simulations)),
		metric("Horizon (years)", strconv.Itoa(s.HorizonYears)),
		metric("Mean return / std dev", FormatPercentage(s.MeanReturn)+" / "+FormatPercentage(s.StdDev)),
		metric("Target corpus", FormatCurrency(s.TargetCorpus)),
		metric("Average outcome", FormatCurrency(s.Average)),
		metric("Probability of success", StatusStyle(success.GreaterThanOrEqual(fiftyPercent)).Render(FormatPercentage(success))),
	}
	fmt.Fprintln(buf, SummaryBoxStyle.Render(strings.Join(lines, "\n")))

	t := newTable("Percentile", "Corpus")
	t.Row("10th", FormatCurrency(s.Percentiles.P10))
	t.Row("25th", FormatCurrency(s.Percentiles.P25))
	t.Row("50th", FormatCurrency(s.Percentiles.P50))
	t.Row("75th", FormatCurrency(s.Percentiles.P75))
	t.Row("90th", FormatCurrency(s.Percentiles.P90))
	fmt.Fprintln(buf, t.Render())
}

func writeWithdrawal(buf *bytes.Buffer, p *domain.WithdrawalPlan) {
	fmt.Fprintln(buf, SectionStyle.Render("WITHDRAWAL STRATEGY"))
	fmt.Fprintf(buf, "Strategy: %s\n", p.Strategy)

	phases := newTable("#", "Phase", "Classes", "Balance", "Description")
	for _, ph := range p.Phases {
		classes := make([]string, len(ph.Classes))
		for i, c := range ph.Classes {
			classes[i] = string(c)
		}
		phases.Row(strconv.Itoa(ph.Order), string(ph.Kind), strings.Join(classes, ", "), FormatCompact(ph.Balance), ph.Description)
	}
	fmt.Fprintln(buf, phases.Render())

	sched := newTable("Year", "Age", "Need", "Unmet", "Instruction")
	for _, d := range p.Schedule {
		unmet := FormatCompact(d.Unmet)
		if d.Unmet.IsPositive() {
			unmet = NegativeStyle.Render(unmet)
		}
		sched.Row(strconv.Itoa(d.Year), strconv.Itoa(d.Age), FormatCompact(d.Need), unmet, d.Instruction)
	}
	fmt.Fprintln(buf, sched.Render())

	if len(p.TaxTips) > 0 {
		fmt.Fprintln(buf, "Tax tips:")
		for _, tip := range p.TaxTips {
			fmt.Fprintf(buf, "  • %s\n", tip)
		}
	}
	if len(p.Caveats) > 0 {
		fmt.Fprintln(buf, "Caveats:")
		for _, c := range p.Caveats {
			fmt.Fprintf(buf, "  • %s\n", WarningStyle.Render(c))
		}
	}
}

func writeStepUp(buf *bytes.Buffer, o *domain.StepUpOptimization) {
	fmt.Fprintln(buf, SectionStyle.Render("STEP-UP OPTIMIZATION"))
	lines := []string{
		metric("Annual step-up", FormatPercentage(o.StepUpPercent)),
		metric("Target corpus", FormatCurrency(o.TargetCorpus)),
		metric("Recommended stop year", stopYearLabel(o.RecommendedStopYear)),
	}
	fmt.Fprintln(buf, SummaryBoxStyle.Render(strings.Join(lines, "\n")))

	t := newTable("Stop year", "Projected corpus", "Meets target", "Scenario")
	for _, s := range o.Scenarios {
		t.Row(stopYearLabel(s.StopYear), FormatCurrency(s.ProjectedCorpus), StatusStyle(s.MeetsTarget).Render(yesNo(s.MeetsTarget)), s.Label)
	}
	fmt.Fprintln(buf, t.Render())
	fmt.Fprintln(buf, o.Recommendation)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
