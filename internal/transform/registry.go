package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rgehrsitz/corpusplan/internal/domain"
	"github.com/shopspring/decimal"
)

// TransformRegistry creates transforms from string parameters, for CLI use
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (ScenarioTransform, error)

// NewTransformRegistry creates a new registry with all built-in transforms registered.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	registry.Register("postpone_retirement", createPostponeRetirement)
	registry.Register("set_retirement_age", createSetRetirementAge)
	registry.Register("set_step_up", createSetStepUp)
	registry.Register("set_income_strategy", createSetIncomeStrategy)
	registry.Register("adjust_rate", createAdjustRate)
	registry.Register("add_lump_sum", createAddLumpSum)

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (ScenarioTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}
	return factory(params)
}

// List returns the sorted names of all registered transforms.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses a transform specification string.
// Format: "transform_name:param1=value1,param2=value2"
// Example: "set_step_up:percent=10,from_year=2"
func (r *TransformRegistry) ParseTransformSpec(spec string) (ScenarioTransform, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %s", spec)
	}

	name := strings.TrimSpace(parts[0])
	paramsStr := strings.TrimSpace(parts[1])

	params := make(map[string]string)
	if paramsStr != "" {
		for _, paramPair := range strings.Split(paramsStr, ",") {
			kv := strings.SplitN(paramPair, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return r.Create(name, params)
}

func intParam(params map[string]string, transform, key string) (int, error) {
	s, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func decimalParam(params map[string]string, transform, key string) (decimal.Decimal, error) {
	s, ok := params[key]
	if !ok {
		return decimal.Zero, fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func createPostponeRetirement(params map[string]string) (ScenarioTransform, error) {
	years, err := intParam(params, "postpone_retirement", "years")
	if err != nil {
		return nil, err
	}
	return &PostponeRetirement{Years: years}, nil
}

func createSetRetirementAge(params map[string]string) (ScenarioTransform, error) {
	age, err := intParam(params, "set_retirement_age", "age")
	if err != nil {
		return nil, err
	}
	return &SetRetirementAge{Age: age}, nil
}

func createSetStepUp(params map[string]string) (ScenarioTransform, error) {
	pct, err := decimalParam(params, "set_step_up", "percent")
	if err != nil {
		return nil, err
	}
	from := 0
	if _, ok := params["from_year"]; ok {
		if from, err = intParam(params, "set_step_up", "from_year"); err != nil {
			return nil, err
		}
	}
	return &SetStepUp{Percent: pct, FromYear: from}, nil
}

func createSetIncomeStrategy(params map[string]string) (ScenarioTransform, error) {
	s, ok := params["strategy"]
	if !ok {
		return nil, fmt.Errorf("set_income_strategy requires 'strategy' parameter")
	}
	return &SetIncomeStrategy{Strategy: domain.IncomeStrategy(strings.ToUpper(s))}, nil
}

func createAdjustRate(params map[string]string) (ScenarioTransform, error) {
	field, ok := params["field"]
	if !ok {
		return nil, fmt.Errorf("adjust_rate requires 'field' parameter")
	}
	rate, err := decimalParam(params, "adjust_rate", "rate")
	if err != nil {
		return nil, err
	}
	return &AdjustRate{Field: field, Rate: rate}, nil
}

func createAddLumpSum(params map[string]string) (ScenarioTransform, error) {
	amount, err := decimalParam(params, "add_lump_sum", "amount")
	if err != nil {
		return nil, err
	}
	return &AddLumpSum{Amount: amount}, nil
}
