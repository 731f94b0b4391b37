package calculation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rgehrsitz/corpusplan/internal/domain"
	"github.com/rgehrsitz/corpusplan/internal/records"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decPtr(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func boolPtr(b bool) *bool { return &b }

func newTestEngine(snaps ...domain.FinancialSnapshot) *Engine {
	e := NewEngine(records.NewMemorySource(snaps...), domain.Defaults{})
	e.Now = func() time.Time { return time.Date(testYear, time.April, 1, 0, 0, 0, 0, time.UTC) }
	e.Seed = func() int64 { return 7 }
	return e
}

func TestNewEngine(t *testing.T) {
	engine := NewEngine(records.NewMemorySource(), domain.Defaults{InflationRate: decimal.NewFromInt(5)})

	assert.NotNil(t, engine, "Should create engine")
	assert.NotNil(t, engine.Logger, "Should initialize logger")
	assert.True(t, engine.Defaults.InflationRate.Equal(decimal.NewFromInt(5)), "Should apply override")
	assert.True(t, engine.Defaults.EPFRate.Equal(decimal.NewFromFloat(8.25)), "Should keep standard defaults")
}

func TestEngine_SetLogger(t *testing.T) {
	engine := newTestEngine()

	customLogger := &TestLogger{}
	engine.SetLogger(customLogger)
	assert.Equal(t, customLogger, engine.Logger, "Should set custom logger")

	engine.SetLogger(nil)
	assert.NotNil(t, engine.Logger, "Should not be nil")
	assert.IsType(t, NopLogger{}, engine.Logger, "Should be no-op logger")
}

func TestEngine_MissingUser(t *testing.T) {
	engine := newTestEngine()
	logger := &TestLogger{}
	engine.SetLogger(logger)
	ctx := context.Background()

	calls := map[string]func() error{
		"matrix": func() error { _, err := engine.GenerateRetirementMatrix(ctx, uuid.Nil, nil); return err },
		"gap":    func() error { _, err := engine.CalculateRequiredCorpusForUser(ctx, uuid.Nil, nil); return err },
		"plan":   func() error { _, err := engine.GenerateWithdrawalStrategy(ctx, uuid.Nil, nil); return err },
		"mc":     func() error { _, err := engine.RunMonteCarloSimulation(ctx, uuid.Nil, nil, 10); return err },
		"stepup": func() error { _, err := engine.OptimizeStepUp(ctx, uuid.Nil, nil); return err },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			err := call()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingUser)
			var ee *EngineError
			require.True(t, errors.As(err, &ee))
			assert.NotEmpty(t, ee.Operation)
		})
	}
	assert.NotEmpty(t, logger.messages)
}

func TestEngine_UnknownUser(t *testing.T) {
	engine := newTestEngine()
	_, err := engine.GenerateRetirementMatrix(context.Background(), uuid.New(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, records.ErrUserNotFound)
	assert.Contains(t, err.Error(), "generate_retirement_matrix")
}

func TestEngine_GenerateRetirementMatrix_EmptyUser(t *testing.T) {
	id := uuid.New()
	engine := newTestEngine(domain.FinancialSnapshot{UserID: id})

	m, err := engine.GenerateRetirementMatrix(context.Background(), id, &domain.ScenarioParameters{
		CurrentAge: 35, RetirementAge: 60, LifeExpectancy: 85,
	})
	require.NoError(t, err)
	assert.Len(t, m.Rows, 26)
	assert.True(t, m.Summary.FinalCorpus.IsZero())
	assert.Equal(t, testYear, m.Rows[0].Year)
}

func TestEngine_UsesStoredSettings(t *testing.T) {
	id := uuid.New()
	engine := newTestEngine(domain.FinancialSnapshot{
		UserID:   id,
		Settings: &domain.ScenarioParameters{CurrentAge: 50, RetirementAge: 55, LifeExpectancy: 80},
	})
	m, err := engine.GenerateRetirementMatrix(context.Background(), id, nil)
	require.NoError(t, err)
	assert.Len(t, m.Rows, 6)
	assert.Equal(t, 50, m.Rows[0].Age)
}

func richSnapshot(id uuid.UUID) domain.FinancialSnapshot {
	termLife := domain.InsuranceTermLife
	ulip := domain.InsuranceULIP
	return domain.FinancialSnapshot{
		UserID:  id,
		Incomes: []domain.Income{{Name: "salary", MonthlyAmount: decPtr(150000)}},
		Investments: []domain.Investment{
			{Name: "index fund", Type: strPtr("MF"), CurrentValue: decPtr(800000), MonthlySIP: decPtr(20000)},
			{Name: "epf", Type: strPtr("EPF"), CurrentValue: decPtr(600000), MonthlySIP: decPtr(7200)},
			{Name: "ppf", Type: strPtr("PPF"), CurrentValue: decPtr(300000), YearlyContribution: decPtr(150000)},
			{Name: "fd", Type: strPtr("FD"), CurrentValue: decPtr(200000)},
		},
		Insurances: []domain.Insurance{
			{Name: "term cover", Type: &termLife, AnnualPremium: decPtr(18000)},
			{Name: "ulip", Type: &ulip, AnnualPremium: decPtr(50000)},
		},
		Expenses: []domain.Expense{{Name: "household", Amount: decPtr(60000)}},
	}
}

func TestEngine_CalculateRequiredCorpusForUser(t *testing.T) {
	id := uuid.New()
	engine := newTestEngine(richSnapshot(id))

	gap, err := engine.CalculateRequiredCorpusForUser(context.Background(), id, nil)
	require.NoError(t, err)
	assert.True(t, gap.RequiredCorpus.IsPositive())
	assert.Len(t, gap.RequiredByStrategy, 3)
	require.Len(t, gap.ContinuingInsurance, 1)
	assert.Equal(t, "term cover", gap.ContinuingInsurance[0].Name)
	assert.NotEmpty(t, gap.Suggestions)
	if !gap.Gap.IsPositive() {
		assert.True(t, gap.AdditionalMonthlySIP.IsZero())
	}
}

func TestEngine_RunMonteCarloSimulation(t *testing.T) {
	id := uuid.New()
	engine := newTestEngine(richSnapshot(id))

	res, err := engine.RunMonteCarloSimulation(context.Background(), id, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, 1000, res.Simulations)
	assert.Equal(t, 25, res.HorizonYears)
	assert.True(t, res.TargetCorpus.IsPositive())
	p := res.Percentiles
	assert.True(t, p.P10.LessThanOrEqual(p.P25))
	assert.True(t, p.P25.LessThanOrEqual(p.P50))
	assert.True(t, p.P50.LessThanOrEqual(p.P75))
	assert.True(t, p.P75.LessThanOrEqual(p.P90))
}

func TestEngine_GenerateWithdrawalStrategy(t *testing.T) {
	id := uuid.New()
	engine := newTestEngine(richSnapshot(id))

	plan, err := engine.GenerateWithdrawalStrategy(context.Background(), id, nil)
	require.NoError(t, err)
	require.Len(t, plan.Phases, 3)
	assert.Len(t, plan.Schedule, 25)
	assert.Contains(t, plan.Phases[0].Classes, domain.AssetFD)
	assert.Contains(t, plan.Phases[2].Classes, domain.AssetPPF)
}

func TestEngine_OptimizeStepUp(t *testing.T) {
	id := uuid.New()
	engine := newTestEngine(richSnapshot(id))

	opt, err := engine.OptimizeStepUp(context.Background(), id, &domain.ScenarioParameters{StepUpPercent: decPtr(10)})
	require.NoError(t, err)
	assert.Len(t, opt.Scenarios, 26)
	assert.NotEmpty(t, opt.Recommendation)
}

func TestEngine_OptimizeStepUp_IgnoresIncomeStrategy(t *testing.T) {
	id := uuid.New()
	engine := newTestEngine(richSnapshot(id))
	ctx := context.Background()

	base, err := engine.OptimizeStepUp(ctx, id, &domain.ScenarioParameters{StepUpPercent: decPtr(10)})
	require.NoError(t, err)

	for _, s := range domain.AllIncomeStrategies {
		params := &domain.ScenarioParameters{StepUpPercent: decPtr(10), IncomeStrategy: string(s)}
		opt, err := engine.OptimizeStepUp(ctx, id, params)
		require.NoError(t, err)
		assert.Equal(t, base.RecommendedStopYear, opt.RecommendedStopYear, "strategy %s", s)
		assert.True(t, base.TargetCorpus.Equal(opt.TargetCorpus), "strategy %s", s)

		m, err := engine.GenerateRetirementMatrix(ctx, id, params)
		require.NoError(t, err)
		assert.Equal(t, base.RecommendedStopYear, m.Summary.StepUp.RecommendedStopYear, "matrix strategy %s", s)
	}
}

// TestLogger is a simple logger for testing
type TestLogger struct {
	messages []string
}

func (tl *TestLogger) Debugf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "DEBUG: "+format)
}

func (tl *TestLogger) Infof(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "INFO: "+format)
}

func (tl *TestLogger) Warnf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "WARN: "+format)
}

func (tl *TestLogger) Errorf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "ERROR: "+format)
}
