package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rgehrsitz/corpusplan/internal/domain"
	"github.com/shopspring/decimal"
)

// Report bundles whichever engine results a command produced. Nil sections are skipped by
// every formatter.
type Report struct {
	UserID      uuid.UUID                  `json:"userId"`
	GeneratedAt time.Time                  `json:"generatedAt"`
	Matrix      *domain.RetirementMatrix   `json:"matrix,omitempty"`
	Gap         *domain.GapAnalysisResult  `json:"gapAnalysis,omitempty"`
	Simulation  *domain.SimulationResult   `json:"simulation,omitempty"`
	Withdrawal  *domain.WithdrawalPlan     `json:"withdrawalPlan,omitempty"`
	StepUp      *domain.StepUpOptimization `json:"stepUp,omitempty"`
}

// Formatter renders a report into bytes
type Formatter interface {
	Name() string
	Format(r *Report) ([]byte, error)
}

// NewFormatter returns the formatter registered under name
func NewFormatter(name string) (Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "console", "table":
		return ConsoleFormatter{}, nil
	case "json":
		return JSONFormatter{Pretty: true}, nil
	case "csv":
		return CSVFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", name)
	}
}

var (
	lakh         = decimal.NewFromInt(100000)
	crore        = decimal.NewFromInt(10000000)
	fiftyPercent = decimal.NewFromInt(50)
)

// FormatCurrency formats an amount in rupees with Indian digit grouping
func FormatCurrency(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}
	s := amount.StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")
	return sign + "₹" + groupIndian(whole) + "." + frac
}

// groupIndian inserts separators as 1,23,45,678: the last three digits, then pairs
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}

// FormatCompact formats an amount in crores or lakhs for tables
func FormatCompact(amount decimal.Decimal) string {
	abs := amount.Abs()
	switch {
	case abs.GreaterThanOrEqual(crore):
		return "₹" + amount.Div(crore).StringFixed(2) + " Cr"
	case abs.GreaterThanOrEqual(lakh):
		return "₹" + amount.Div(lakh).StringFixed(2) + " L"
	default:
		return "₹" + amount.StringFixed(0)
	}
}

// FormatPercentage formats a decimal as percentage
func FormatPercentage(amount decimal.Decimal) string {
	return amount.StringFixed(2) + "%"
}

func stopYearLabel(y int) string {
	if y < 0 {
		return "continue"
	}
	return fmt.Sprintf("%d", y)
}
