package calculation

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseSimulation(n int) SimulationInput {
	return SimulationInput{
		InitialBalance: decimal.NewFromInt(500000),
		MonthlySIP:     decimal.NewFromInt(10000),
		MeanReturn:     decimal.NewFromInt(12),
		StdDev:         decimal.NewFromInt(15),
		Years:          20,
		Simulations:    n,
		TargetCorpus:   decimal.NewFromInt(10000000),
		Seed:           42,
	}
}

func TestSimulate_PercentileOrdering(t *testing.T) {
	for _, n := range []int{1, 2, 3, 10, 250, 1000} {
		res, err := Simulate(context.Background(), baseSimulation(n))
		require.NoError(t, err)
		p := res.Percentiles
		assert.Equal(t, n, res.Simulations)
		assert.True(t, p.P10.LessThanOrEqual(p.P25), "n=%d", n)
		assert.True(t, p.P25.LessThanOrEqual(p.P50), "n=%d", n)
		assert.True(t, p.P50.LessThanOrEqual(p.P75), "n=%d", n)
		assert.True(t, p.P75.LessThanOrEqual(p.P90), "n=%d", n)
		assert.True(t, res.SuccessRate.GreaterThanOrEqual(decimal.Zero))
		assert.True(t, res.SuccessRate.LessThanOrEqual(decimal.NewFromInt(1)))
	}
}

func TestSimulate_AtLeastOnePath(t *testing.T) {
	res, err := Simulate(context.Background(), baseSimulation(0))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Simulations)
}

func TestSimulate_ZeroHorizon(t *testing.T) {
	in := baseSimulation(50)
	in.Years = 0
	in.TargetCorpus = decimal.NewFromInt(400000)
	res, err := Simulate(context.Background(), in)
	require.NoError(t, err)

	assert.True(t, res.Percentiles.P10.Equal(decimal.NewFromInt(500000)))
	assert.True(t, res.Percentiles.P90.Equal(decimal.NewFromInt(500000)))
	assert.True(t, res.Average.Equal(decimal.NewFromInt(500000)))
	assert.True(t, res.SuccessRate.Equal(decimal.NewFromInt(1)))
}

func TestSimulate_SameSeedSameResult(t *testing.T) {
	a, err := Simulate(context.Background(), baseSimulation(200))
	require.NoError(t, err)
	b, err := Simulate(context.Background(), baseSimulation(200))
	require.NoError(t, err)
	assert.Equal(t, a.Percentiles, b.Percentiles)
}

func TestSimulate_NonNegativeTerminals(t *testing.T) {
	in := baseSimulation(500)
	in.StdDev = decimal.NewFromInt(80)
	in.MeanReturn = decimal.NewFromInt(-20)
	res, err := Simulate(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, res.Percentiles.P10.IsNegative())
}

func TestSimulate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Simulate(ctx, baseSimulation(100))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGetPercentile(t *testing.T) {
	values := []decimal.Decimal{
		decimal.NewFromInt(10), decimal.NewFromInt(20), decimal.NewFromInt(30), decimal.NewFromInt(40), decimal.NewFromInt(50),
	}
	assert.True(t, getPercentile(values, 0.5).Equal(decimal.NewFromInt(30)))
	assert.True(t, getPercentile(values, 0.1).Equal(decimal.NewFromInt(14)))
	assert.True(t, getPercentile(values, 0.9).Equal(decimal.NewFromInt(46)))
	assert.True(t, getPercentile(nil, 0.5).IsZero())
}
