package calculation

import (
	"context"
	"math"
	"math/rand"
	"runtime"
	"sort"

	"github.com/rgehrsitz/corpusplan/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// SimulationInput describes the SIP position and return assumptions for a Monte Carlo run
type SimulationInput struct {
	InitialBalance decimal.Decimal
	MonthlySIP     decimal.Decimal
	MeanReturn     decimal.Decimal // percent
	StdDev         decimal.Decimal // percentage points
	Years          int
	Simulations    int
	TargetCorpus   decimal.Decimal
	Seed           int64
}

// worstYearReturn caps a single-year loss so a path can never go below zero
const worstYearReturn = -0.95

// Simulate runs independent return paths in parallel and reduces their terminal corpus to
// percentile bands. Each path owns its random source, seeded from Seed plus the path index.
func Simulate(ctx context.Context, in SimulationInput) (domain.SimulationResult, error) {
	n := max(in.Simulations, 1)
	years := max(in.Years, 0)
	mean, _ := in.MeanReturn.Float64()
	sd, _ := in.StdDev.Float64()
	initial, _ := in.InitialBalance.Float64()
	sip, _ := in.MonthlySIP.Float64()

	terminal := make([]float64, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewSource(in.Seed + int64(i)))
			balance := initial
			for y := 0; y < years; y++ {
				r := math.Max((mean+rng.NormFloat64()*sd)/100, worstYearReturn)
				balance = balance*(1+r) + 12*sip*(1+r/2)
			}
			terminal[i] = math.Max(balance, 0)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.SimulationResult{}, err
	}

	values := make([]decimal.Decimal, n)
	sum := decimal.Zero
	successes := 0
	for i, v := range terminal {
		values[i] = decimal.NewFromFloat(v).Round(2)
		sum = sum.Add(values[i])
		if values[i].GreaterThanOrEqual(in.TargetCorpus) {
			successes++
		}
	}
	sort.Slice(values, func(a, b int) bool { return values[a].LessThan(values[b]) })

	return domain.SimulationResult{
		Simulations:  n,
		HorizonYears: years,
		Percentiles: domain.Percentiles{
			P10: getPercentile(values, 0.10),
			P25: getPercentile(values, 0.25),
			P50: getPercentile(values, 0.50),
			P75: getPercentile(values, 0.75),
			P90: getPercentile(values, 0.90),
		},
		Average:      sum.Div(decimal.NewFromInt(int64(n))).Round(2),
		SuccessRate:  decimal.NewFromInt(int64(successes)).Div(decimal.NewFromInt(int64(n))).Round(4),
		TargetCorpus: in.TargetCorpus,
		MeanReturn:   in.MeanReturn,
		StdDev:       in.StdDev,
	}, nil
}

// getPercentile interpolates linearly between the two nearest ranks of a sorted slice
func getPercentile(values []decimal.Decimal, percentile float64) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	index := percentile * float64(len(values)-1)
	if index == float64(int(index)) {
		return values[int(index)]
	}

	lower := values[int(index)]
	upper := values[int(index)+1]
	fraction := decimal.NewFromFloat(index - float64(int(index)))

	return lower.Add(upper.Sub(lower).Mul(fraction)).Round(2)
}
