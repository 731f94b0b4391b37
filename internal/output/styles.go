package output

import "github.com/charmbracelet/lipgloss"

// Console palette
var (
	ColorPrimary = lipgloss.Color("#7D56F4")
	ColorSuccess = lipgloss.Color("#04B575")
	ColorDanger  = lipgloss.Color("#FF4672")
	ColorWarning = lipgloss.Color("#F5A623")
	ColorMuted   = lipgloss.Color("#6C6C6C")
	ColorBorder  = lipgloss.Color("#3C3C3C")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1)

	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			MarginTop(1)

	MetricLabelStyle = lipgloss.NewStyle().
				Foreground(ColorMuted).
				Width(30)

	MetricValueStyle = lipgloss.NewStyle().Bold(true)

	PositiveStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	NegativeStyle = lipgloss.NewStyle().Foreground(ColorDanger)
	WarningStyle  = lipgloss.NewStyle().Foreground(ColorWarning)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPrimary).
				Padding(0, 1)

	TableCellStyle = lipgloss.NewStyle().Padding(0, 1)

	SummaryBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)
)

// StatusStyle picks the success or danger style
func StatusStyle(ok bool) lipgloss.Style {
	if ok {
		return PositiveStyle
	}
	return NegativeStyle
}
