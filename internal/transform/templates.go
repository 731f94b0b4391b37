package transform

import (
	"sort"
	"strings"

	"github.com/rgehrsitz/corpusplan/internal/domain"
	"github.com/shopspring/decimal"
)

// Template is a named collection of transforms
type Template struct {
	Name        string
	Description string
	Transforms  []ScenarioTransform
}

// TemplateRegistry manages scenario templates
type TemplateRegistry struct {
	templates map[string]Template
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(name)]
	return t, ok
}

// List returns all registered template names, sorted
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateBuiltInTemplates creates a template registry with common what-if scenarios
func CreateBuiltInTemplates() *TemplateRegistry {
	registry := NewTemplateRegistry()

	registry.Register(Template{
		Name:        "retire_early_5yr",
		Description: "Retire 5 years earlier",
		Transforms:  []ScenarioTransform{&PostponeRetirement{Years: -5}},
	})
	registry.Register(Template{
		Name:        "postpone_2yr",
		Description: "Work 2 more years",
		Transforms:  []ScenarioTransform{&PostponeRetirement{Years: 2}},
	})
	registry.Register(Template{
		Name:        "postpone_5yr",
		Description: "Work 5 more years",
		Transforms:  []ScenarioTransform{&PostponeRetirement{Years: 5}},
	})
	registry.Register(Template{
		Name:        "step_up_10",
		Description: "Step up SIP by 10% every year",
		Transforms:  []ScenarioTransform{&SetStepUp{Percent: decimal.NewFromInt(10)}},
	})
	registry.Register(Template{
		Name:        "no_step_up",
		Description: "Keep SIP flat",
		Transforms:  []ScenarioTransform{&SetStepUp{Percent: decimal.Zero}},
	})
	registry.Register(Template{
		Name:        "conservative_returns",
		Description: "Mutual funds return 9% and the corpus 6.5%",
		Transforms: []ScenarioTransform{
			&AdjustRate{Field: "mutual_fund", Rate: decimal.NewFromInt(9)},
			&AdjustRate{Field: "corpus_return", Rate: decimal.NewFromFloat(6.5)},
		},
	})
	registry.Register(Template{
		Name:        "high_inflation",
		Description: "Inflation runs at 8%",
		Transforms:  []ScenarioTransform{&AdjustRate{Field: "inflation", Rate: decimal.NewFromInt(8)}},
	})
	registry.Register(Template{
		Name:        "simple_depletion",
		Description: "Spend the corpus down to zero over retirement",
		Transforms:  []ScenarioTransform{&SetIncomeStrategy{Strategy: domain.StrategySimpleDepletion}},
	})
	registry.Register(Template{
		Name:        "safe_4_percent",
		Description: "Size income with the 4% rule",
		Transforms:  []ScenarioTransform{&SetIncomeStrategy{Strategy: domain.StrategySafe4Percent}},
	})

	return registry
}

// ApplyTemplate applies a template's transforms to base
func ApplyTemplate(base *domain.ScenarioParameters, d domain.Defaults, t Template) (*domain.ScenarioParameters, error) {
	return ApplyTransforms(base, d, t.Transforms)
}
