package calculation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rgehrsitz/corpusplan/internal/domain"
	"github.com/rgehrsitz/corpusplan/internal/records"
)

// ErrMissingUser is returned when an entry point is called without a user identity.
// Absent financial detail degrades to defaults; an absent user never does.
var ErrMissingUser = errors.New("missing user identity")

// EngineError wraps a failed entry point with the operation and user it was running for
type EngineError struct {
	Operation string
	UserID    uuid.UUID
	Cause     error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s (user %s): %v", e.Operation, e.UserID, e.Cause)
}

func (e *EngineError) Unwrap() error {
	return e.Cause
}

// Engine runs projections against a record source. It holds only configuration and is safe for
// concurrent use.
type Engine struct {
	Source   records.Source
	Defaults domain.Defaults
	Logger   Logger
	// Now is the clock projections start from
	Now func() time.Time
	// Seed feeds Monte Carlo random sources
	Seed func() int64
}

// NewEngine creates an engine over a record source with the given defaults
func NewEngine(source records.Source, defaults domain.Defaults) *Engine {
	return &Engine{
		Source:   source,
		Defaults: domain.StandardDefaults().Merge(defaults),
		Logger:   NopLogger{},
		Now:      time.Now,
		Seed:     func() int64 { return time.Now().UnixNano() },
	}
}

// SetLogger replaces the engine's logger; nil installs a no-op logger
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// run is the shared prologue: identity check, one snapshot fetch, parameter resolution
type run struct {
	snap        *domain.FinancialSnapshot
	scenario    domain.ResolvedScenario
	currentYear int
}

func (e *Engine) prepare(ctx context.Context, op string, userID uuid.UUID, params *domain.ScenarioParameters) (*run, error) {
	if userID == uuid.Nil {
		e.Logger.Errorf("%s: called without a user identity", op)
		return nil, &EngineError{Operation: op, UserID: userID, Cause: ErrMissingUser}
	}
	snap, err := e.Source.Snapshot(ctx, userID)
	if err != nil {
		return nil, &EngineError{Operation: op, UserID: userID, Cause: fmt.Errorf("failed to load records: %w", err)}
	}
	if params == nil {
		params = snap.Settings
	}
	sc := params.Resolve(e.Defaults)
	e.Logger.Debugf("%s: user=%s age=%d retire=%d life=%d strategy=%s", op, userID, sc.CurrentAge, sc.RetirementAge, sc.LifeExpectancy, sc.Strategy)
	return &run{snap: snap, scenario: sc, currentYear: e.Now().Year()}, nil
}

// GenerateRetirementMatrix projects the user's corpus year by year
func (e *Engine) GenerateRetirementMatrix(ctx context.Context, userID uuid.UUID, params *domain.ScenarioParameters) (*domain.RetirementMatrix, error) {
	r, err := e.prepare(ctx, "generate_retirement_matrix", userID, params)
	if err != nil {
		return nil, err
	}
	m := GenerateMatrix(r.snap, r.scenario, e.Defaults, r.currentYear)
	for _, w := range m.Summary.Warnings {
		e.Logger.Warnf("generate_retirement_matrix: %s", w)
	}
	e.Logger.Infof("generated %d projection rows, final corpus %s", len(m.Rows), m.Summary.FinalCorpus.StringFixed(0))
	return &m, nil
}

// CalculateRequiredCorpusForUser runs the gap analysis against the projected corpus entering
// retirement
func (e *Engine) CalculateRequiredCorpusForUser(ctx context.Context, userID uuid.UUID, params *domain.ScenarioParameters) (*domain.GapAnalysisResult, error) {
	r, err := e.prepare(ctx, "calculate_required_corpus", userID, params)
	if err != nil {
		return nil, err
	}
	gap := e.analyze(r)
	e.Logger.Infof("required corpus %s, projected %s, gap %s", gap.RequiredCorpus.StringFixed(0), gap.ProjectedCorpus.StringFixed(0), gap.Gap.StringFixed(0))
	return &gap, nil
}

func (e *Engine) analyze(r *run) domain.GapAnalysisResult {
	m := GenerateMatrix(r.snap, r.scenario, e.Defaults, r.currentYear)
	h := Aggregate(r.snap.Investments, r.snap.Insurances, r.scenario, e.Defaults, r.currentYear)
	return AnalyzeGap(r.snap, h, r.scenario, r.currentYear, m.Summary.CorpusAtRetirement)
}

// GenerateWithdrawalStrategy builds the phased drawdown plan for the retirement years
func (e *Engine) GenerateWithdrawalStrategy(ctx context.Context, userID uuid.UUID, params *domain.ScenarioParameters) (*domain.WithdrawalPlan, error) {
	r, err := e.prepare(ctx, "generate_withdrawal_strategy", userID, params)
	if err != nil {
		return nil, err
	}
	m := GenerateMatrix(r.snap, r.scenario, e.Defaults, r.currentYear)
	h := Aggregate(r.snap.Investments, r.snap.Insurances, r.scenario, e.Defaults, r.currentYear)
	needs := AssessNeeds(r.snap, h, r.scenario, r.currentYear, r.scenario.YearsToRetirement)
	plan := BuildWithdrawalPlan(balancesEnteringRetirement(m), needs.AnnualExpense, r.scenario, r.currentYear+r.scenario.YearsToRetirement)
	e.Logger.Infof("withdrawal plan: %d scheduled years", len(plan.Schedule))
	return &plan, nil
}

// RunMonteCarloSimulation simulates the mutual fund SIP position to retirement. n < 1 runs the
// configured default count.
func (e *Engine) RunMonteCarloSimulation(ctx context.Context, userID uuid.UUID, params *domain.ScenarioParameters, n int) (*domain.SimulationResult, error) {
	const op = "run_monte_carlo_simulation"
	r, err := e.prepare(ctx, op, userID, params)
	if err != nil {
		return nil, err
	}
	if n < 1 {
		n = e.Defaults.MonteCarloSimulations
	}
	gap := e.analyze(r)
	h := Aggregate(r.snap.Investments, r.snap.Insurances, r.scenario, e.Defaults, r.currentYear)
	mf := h.Positions[domain.AssetMutualFund]

	res, err := Simulate(ctx, SimulationInput{
		InitialBalance: mf.CurrentValue.Add(r.scenario.LumpSum),
		MonthlySIP:     mf.MonthlyContribution,
		MeanReturn:     r.scenario.MutualFundRate,
		StdDev:         e.Defaults.MonteCarloStdDev,
		Years:          r.scenario.YearsToRetirement,
		Simulations:    n,
		TargetCorpus:   gap.RequiredCorpus,
		Seed:           e.Seed(),
	})
	if err != nil {
		return nil, &EngineError{Operation: op, UserID: userID, Cause: err}
	}
	e.Logger.Infof("monte carlo: %d paths, median %s, success %s", res.Simulations, res.Percentiles.P50.StringFixed(0), res.SuccessRate.String())
	return &res, nil
}

// OptimizeStepUp scans step-up stop years against the SUSTAINABLE required corpus, whatever
// strategy the scenario selects
func (e *Engine) OptimizeStepUp(ctx context.Context, userID uuid.UUID, params *domain.ScenarioParameters) (*domain.StepUpOptimization, error) {
	r, err := e.prepare(ctx, "optimize_step_up", userID, params)
	if err != nil {
		return nil, err
	}
	h := Aggregate(r.snap.Investments, r.snap.Insurances, r.scenario, e.Defaults, r.currentYear)
	needs := AssessNeeds(r.snap, h, r.scenario, r.currentYear, r.scenario.YearsToRetirement)
	opt := OptimizeStepUp(h, r.scenario, RequiredCorpus(needs, r.scenario, domain.StrategySustainable))
	return &opt, nil
}
