package compare

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rgehrsitz/corpusplan/internal/calculation"
	"github.com/rgehrsitz/corpusplan/internal/domain"
	"github.com/rgehrsitz/corpusplan/internal/transform"
	"golang.org/x/sync/errgroup"
)

// CompareEngine orchestrates scenario comparison
type CompareEngine struct {
	CalcEngine        *calculation.Engine
	MetricsCalculator *MetricsCalculator
	TemplateRegistry  *transform.TemplateRegistry
	TransformRegistry *transform.TransformRegistry
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calcEngine *calculation.Engine) *CompareEngine {
	return &CompareEngine{
		CalcEngine:        calcEngine,
		MetricsCalculator: NewMetricsCalculator(),
		TemplateRegistry:  transform.CreateBuiltInTemplates(),
		TransformRegistry: transform.NewTransformRegistry(),
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	BaseScenarioName string   // Label of the base scenario
	Templates        []string // Built-in templates, one alternative each
	Transforms       []string // Transform specs ("name:k=v,..."), one alternative each
}

type alternative struct {
	name        string
	description string
	params      *domain.ScenarioParameters
}

// Compare runs the base scenario and every requested alternative for one user. base should be
// the user's effective scenario parameters; alternatives are derived from it.
func (ce *CompareEngine) Compare(ctx context.Context, userID uuid.UUID, base *domain.ScenarioParameters, options CompareOptions) (*ComparisonSet, error) {
	if options.BaseScenarioName == "" {
		options.BaseScenarioName = "base"
	}
	d := ce.CalcEngine.Defaults
	base, err := ce.BaseParams(ctx, userID, base)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base scenario: %w", err)
	}

	alts := make([]alternative, 0, len(options.Templates)+len(options.Transforms))
	for _, name := range options.Templates {
		tmpl, ok := ce.TemplateRegistry.Get(name)
		if !ok {
			return nil, fmt.Errorf("template %s not found", name)
		}
		params, err := transform.ApplyTemplate(base, d, tmpl)
		if err != nil {
			return nil, fmt.Errorf("failed to apply template %s: %w", name, err)
		}
		alts = append(alts, alternative{name: options.BaseScenarioName + "_" + tmpl.Name, description: tmpl.Description, params: params})
	}
	for _, spec := range options.Transforms {
		t, err := ce.TransformRegistry.ParseTransformSpec(spec)
		if err != nil {
			return nil, err
		}
		params, err := transform.ApplyTransforms(base, d, []transform.ScenarioTransform{t})
		if err != nil {
			return nil, err
		}
		alts = append(alts, alternative{name: options.BaseScenarioName + "_" + t.Name(), description: t.Description(), params: params})
	}

	baseResult, err := ce.Run(ctx, userID, options.BaseScenarioName, base)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base scenario: %w", err)
	}
	baseResult.Description = "Current plan"

	results := make([]ComparisonResult, len(alts))
	g, gctx := errgroup.WithContext(ctx)
	for i, alt := range alts {
		i, alt := i, alt
		g.Go(func() error {
			r, err := ce.Run(gctx, userID, alt.name, alt.params)
			if err != nil {
				return fmt.Errorf("failed to calculate scenario %s: %w", alt.name, err)
			}
			r.Description = alt.description
			results[i] = ce.MetricsCalculator.CalculateComparison(r, baseResult)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	compSet := &ComparisonSet{
		UserID:             userID.String(),
		BaseScenarioName:   options.BaseScenarioName,
		BaseResult:         &baseResult,
		AlternativeResults: results,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)
	return compSet, nil
}

// BaseParams returns base, or the user's saved settings when base is nil, so that alternatives are
// derived from the same parameters the engine would use for the base run
func (ce *CompareEngine) BaseParams(ctx context.Context, userID uuid.UUID, base *domain.ScenarioParameters) (*domain.ScenarioParameters, error) {
	if base != nil {
		return base, nil
	}
	if userID == uuid.Nil {
		return nil, calculation.ErrMissingUser
	}
	snap, err := ce.CalcEngine.Source.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return snap.Settings.Clone(), nil
}

// Run evaluates one named parameter set for a user
func (ce *CompareEngine) Run(ctx context.Context, userID uuid.UUID, name string, params *domain.ScenarioParameters) (ComparisonResult, error) {
	m, err := ce.CalcEngine.GenerateRetirementMatrix(ctx, userID, params)
	if err != nil {
		return ComparisonResult{}, err
	}
	gap, err := ce.CalcEngine.CalculateRequiredCorpusForUser(ctx, userID, params)
	if err != nil {
		return ComparisonResult{}, err
	}
	return ce.MetricsCalculator.CalculateMetrics(name, params, m, gap), nil
}
