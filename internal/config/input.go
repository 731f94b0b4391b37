package config

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rgehrsitz/corpusplan/internal/domain"
	"github.com/rgehrsitz/corpusplan/internal/records"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Plan is the contents of a plan file: engine default overrides, a shared scenario, and the
// record sets of one or more users
type Plan struct {
	Defaults domain.Defaults            `yaml:"defaults"`
	Scenario *domain.ScenarioParameters `yaml:"scenario,omitempty"`
	Users    []domain.FinancialSnapshot `yaml:"users"`
}

// EngineDefaults returns the standard defaults with the plan's overrides applied
func (p *Plan) EngineDefaults() domain.Defaults {
	return domain.StandardDefaults().Merge(p.Defaults)
}

// Source exposes the plan's users as a record source
func (p *Plan) Source() *records.MemorySource {
	return records.NewMemorySource(p.Users...)
}

// User returns the snapshot of a user, or the only user when id is uuid.Nil
func (p *Plan) User(id uuid.UUID) (*domain.FinancialSnapshot, error) {
	if id == uuid.Nil && len(p.Users) == 1 {
		return &p.Users[0], nil
	}
	for i := range p.Users {
		if p.Users[i].UserID == id {
			return &p.Users[i], nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", id, records.ErrUserNotFound)
}

// InputParser handles parsing of plan files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads and validates a plan from a YAML file
func (ip *InputParser) LoadFromFile(filename string) (*Plan, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.LoadFromBytes(data)
}

// LoadFromBytes parses and validates a plan
func (ip *InputParser) LoadFromBytes(data []byte) (*Plan, error) {
	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := ip.ValidatePlan(&plan); err != nil {
		return nil, fmt.Errorf("plan validation failed: %w", err)
	}
	return &plan, nil
}

// ValidatePlan rejects plans the engine cannot run. Missing financial detail is allowed; the
// engine defaults it.
func (ip *InputParser) ValidatePlan(plan *Plan) error {
	if err := ip.validateDefaults(&plan.Defaults); err != nil {
		return fmt.Errorf("defaults validation failed: %w", err)
	}
	if plan.Scenario != nil {
		if err := ip.validateScenario(plan.Scenario); err != nil {
			return fmt.Errorf("scenario validation failed: %w", err)
		}
	}
	if len(plan.Users) == 0 {
		return fmt.Errorf("no users provided")
	}

	seen := make(map[uuid.UUID]bool, len(plan.Users))
	for i := range plan.Users {
		u := &plan.Users[i]
		if u.UserID == uuid.Nil {
			return fmt.Errorf("user %d: user_id is required", i)
		}
		if seen[u.UserID] {
			return fmt.Errorf("user %d: duplicate user_id %s", i, u.UserID)
		}
		seen[u.UserID] = true
		if err := ip.validateUser(u); err != nil {
			return fmt.Errorf("user %d (%s) validation failed: %w", i, u.UserID, err)
		}
	}
	return nil
}

func (ip *InputParser) validateDefaults(d *domain.Defaults) error {
	rates := map[string]decimal.Decimal{
		"epf_rate":           d.EPFRate,
		"ppf_rate":           d.PPFRate,
		"nps_rate":           d.NPSRate,
		"mutual_fund_rate":   d.MutualFundRate,
		"fd_rate":            d.FDRate,
		"rd_rate":            d.RDRate,
		"other_rate":         d.OtherRate,
		"insurance_rate":     d.InsuranceRate,
		"corpus_return_rate": d.CorpusReturnRate,
		"withdrawal_rate":    d.WithdrawalRate,
		"rate_floor":         d.RateFloor,
	}
	for name, r := range rates {
		if r.IsNegative() || r.GreaterThan(decimal.NewFromInt(100)) {
			return fmt.Errorf("%s must be between 0 and 100, got %s", name, r)
		}
	}
	if d.InflationRate.LessThan(decimal.NewFromInt(-10)) {
		return fmt.Errorf("inflation rate cannot be less than -10%% (extreme deflation)")
	}
	if d.MonteCarloSimulations < 0 || d.MonteCarloSimulations > 100000 {
		return fmt.Errorf("monte carlo simulations must be between 0 and 100000")
	}
	if d.MonteCarloStdDev.IsNegative() {
		return fmt.Errorf("monte carlo standard deviation cannot be negative")
	}
	if d.DetailedIncomeHorizon < 0 {
		return fmt.Errorf("detailed income horizon cannot be negative")
	}
	return nil
}

func (ip *InputParser) validateScenario(s *domain.ScenarioParameters) error {
	if s.LifeExpectancy > 0 && s.RetirementAge > s.LifeExpectancy {
		return fmt.Errorf("retirement age %d is after life expectancy %d", s.RetirementAge, s.LifeExpectancy)
	}
	if s.LifeExpectancy > 120 {
		return fmt.Errorf("life expectancy must be at most 120")
	}
	if s.WithdrawalRate != nil && (s.WithdrawalRate.IsNegative() || s.WithdrawalRate.GreaterThan(decimal.NewFromInt(100))) {
		return fmt.Errorf("withdrawal rate must be between 0 and 100")
	}
	if s.StepUpPercent != nil && s.StepUpPercent.IsNegative() {
		return fmt.Errorf("step-up percent cannot be negative")
	}
	if s.LumpSum != nil && s.LumpSum.IsNegative() {
		return fmt.Errorf("lump sum cannot be negative")
	}
	for i, b := range s.MutualFundBands {
		if b.ToYear < b.FromYear {
			return fmt.Errorf("mutual fund band %d: to_year %d is before from_year %d", i, b.ToYear, b.FromYear)
		}
	}
	if r := s.RateReduction; r != nil {
		if r.Years < 0 {
			return fmt.Errorf("rate reduction years cannot be negative")
		}
		if r.Percent.IsNegative() {
			return fmt.Errorf("rate reduction percent cannot be negative")
		}
	}
	return nil
}

func (ip *InputParser) validateUser(u *domain.FinancialSnapshot) error {
	for _, inv := range u.Investments {
		if inv.CurrentValue != nil && inv.CurrentValue.IsNegative() {
			return fmt.Errorf("investment %q: current value cannot be negative", inv.Name)
		}
		if inv.MonthlySIP != nil && inv.MonthlySIP.IsNegative() {
			return fmt.Errorf("investment %q: monthly SIP cannot be negative", inv.Name)
		}
	}
	for _, e := range u.Expenses {
		if e.Amount != nil && e.Amount.IsNegative() {
			return fmt.Errorf("expense %q: amount cannot be negative", e.Name)
		}
		if e.StartDate != nil && e.EndDate != nil && e.EndDate.Before(*e.StartDate) {
			return fmt.Errorf("expense %q: end date is before start date", e.Name)
		}
	}
	for _, g := range u.Goals {
		if g.IsRecurring && g.RecurrenceInterval != nil && *g.RecurrenceInterval < 0 {
			return fmt.Errorf("goal %q: recurrence interval cannot be negative", g.Name)
		}
	}
	if u.Settings != nil {
		if err := ip.validateScenario(u.Settings); err != nil {
			return fmt.Errorf("settings: %w", err)
		}
	}
	return nil
}

// FileSource is a records.Source that reloads a plan file on every fetch, so edits to the file
// are picked up without restarting
type FileSource struct {
	Path   string
	parser *InputParser
}

// NewFileSource creates a source backed by a plan file
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path, parser: NewInputParser()}
}

// Snapshot implements records.Source
func (fs *FileSource) Snapshot(ctx context.Context, userID uuid.UUID) (*domain.FinancialSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	plan, err := fs.parser.LoadFromFile(fs.Path)
	if err != nil {
		return nil, err
	}
	return plan.Source().Snapshot(ctx, userID)
}
