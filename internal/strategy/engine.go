package strategy

import (
	"errors"
	"math"
	"sort"

	"api-test-planner/internal/testdata"
	"api-test-planner/internal/types"
)

// ScoredStrategy is an applicable strategy with its complexity-adjusted score
type ScoredStrategy struct {
	Strategy types.TestStrategy `json:"strategy" yaml:"strategy"`
	Score    float64            `json:"score" yaml:"score"`
}

// Engine turns endpoint analyses into test strategy plans.
// An Engine is read-only after construction and safe for concurrent use.
type Engine struct {
	MethodStrategies map[string][]types.TestStrategy
	Weights          map[types.TestStrategy]float64
	Modifiers        map[types.ComplexityLevel]Modifier
	Limits           map[types.ComplexityLevel]int
	PreferredOrder   []types.TestStrategy

	execution types.ExecutionSettings
	samples   *testdata.Generator
	order     map[types.TestStrategy]int
}

// Option configures an Engine
type Option func(*Engine)

// WithExecutionDefaults sets the timeout and retry count written into plan configurations
func WithExecutionDefaults(timeoutSeconds, retryAttempts int) Option {
	return func(e *Engine) {
		if timeoutSeconds > 0 {
			e.execution.TimeoutSeconds = timeoutSeconds
		}
		if retryAttempts >= 0 {
			e.execution.RetryAttempts = retryAttempts
		}
	}
}

// NewEngine creates an engine with the default strategy tables
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		MethodStrategies: defaultMethodStrategies(),
		Weights:          defaultWeights(),
		Modifiers:        defaultModifiers(),
		Limits:           defaultLimits(),
		PreferredOrder:   defaultPreferredOrder(),
		execution:        types.ExecutionSettings{TimeoutSeconds: 30, RetryAttempts: 3},
		samples:          testdata.NewGenerator(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.order = make(map[types.TestStrategy]int, len(e.PreferredOrder))
	for i, s := range e.PreferredOrder {
		e.order[s] = i
	}
	return e
}

// GeneratePlan builds the test strategy plan for one endpoint
func (e *Engine) GeneratePlan(endpoint *types.EndpointAnalysis) (*types.TestStrategyPlan, error) {
	if endpoint == nil {
		return nil, errors.New("endpoint analysis is nil")
	}

	applicable := e.ApplicableStrategies(endpoint)
	scored := e.ScoreStrategies(endpoint, applicable)
	selected := e.SelectStrategies(endpoint, applicable, scored)

	requirements := make([]types.TestRequirement, 0, len(selected))
	for _, s := range selected {
		requirements = append(requirements, BuildRequirement(s, endpoint))
	}

	plan := &types.TestStrategyPlan{
		EndpointID:    endpoint.OperationID,
		Complexity:    endpoint.Complexity,
		Configuration: e.planConfiguration(endpoint, selected),
	}
	e.setRequirements(plan, requirements)
	return plan, nil
}

// ApplicableStrategies returns every strategy that applies to endpoint, in discovery order
func (e *Engine) ApplicableStrategies(endpoint *types.EndpointAnalysis) []types.TestStrategy {
	var set orderedSet
	set.add(e.MethodStrategies[endpoint.Method]...)

	if len(endpoint.Parameters) > 0 {
		set.add(types.StrategyParameterValidation)
		if len(endpoint.ConstrainedParameters()) > 0 {
			set.add(types.StrategyBoundaryTesting)
		}
		if len(endpoint.StringParameters()) > 0 {
			set.add(types.StrategySecurityTesting)
		}
	}
	if body := endpoint.RequestBody; body != nil {
		set.add(types.StrategyDataValidation)
		if body.Schema.IsObject() && body.Schema.HasProperties() {
			set.add(types.StrategySchemaValidation)
		}
	}
	if len(endpoint.Security) > 0 {
		set.add(types.StrategyAuthenticationTesting)
	}
	if endpoint.Complexity.IsHigh() {
		set.add(types.StrategyIntegrationTesting)
	}
	if endpoint.HasMethod("POST", "PUT", "PATCH", "DELETE") {
		set.add(types.StrategyStateManagement)
	}
	if endpoint.HasMethod("GET", "PUT", "DELETE") {
		set.add(types.StrategyIdempotencyTesting)
	}

	out := make([]types.TestStrategy, 0, len(set.items))
	for _, s := range set.items {
		if !disabledStrategies[s] {
			out = append(out, s)
		}
	}
	return out
}

// ScoreStrategies scores strategies for the endpoint's complexity band, highest score first.
// Ties keep the order of strategies.
func (e *Engine) ScoreStrategies(endpoint *types.EndpointAnalysis, strategies []types.TestStrategy) []ScoredStrategy {
	modifier := e.Modifiers[endpoint.Complexity]

	scored := make([]ScoredStrategy, 0, len(strategies))
	for _, s := range strategies {
		base, ok := e.Weights[s]
		if !ok {
			base = defaultWeight
		}
		score := base + modifier.Boost[s] - modifier.Reduce[s]
		scored = append(scored, ScoredStrategy{Strategy: s, Score: round2(clamp(score, 0, 1))})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// SelectStrategies picks the applicable critical strategies first, then fills the endpoint's
// strategy limit from scored, skipping anything below the minimum selection score.
func (e *Engine) SelectStrategies(endpoint *types.EndpointAnalysis, applicable []types.TestStrategy, scored []ScoredStrategy) []types.TestStrategy {
	limit := e.Limits[endpoint.Complexity]

	var selected orderedSet
	for _, critical := range criticalStrategies {
		if contains(applicable, critical) {
			selected.add(critical)
		}
	}

	for _, candidate := range scored {
		if len(selected.items) >= limit {
			break
		}
		if candidate.Score >= minSelectionScore {
			selected.add(candidate.Strategy)
		}
	}
	return selected.items
}

// OrderRequirements sorts requirements by priority, then by preferred strategy order
func (e *Engine) OrderRequirements(requirements []types.TestRequirement) []types.TestRequirement {
	ordered := make([]types.TestRequirement, len(requirements))
	copy(ordered, requirements)

	sort.SliceStable(ordered, func(i, j int) bool {
		ri, rj := ordered[i].Priority.Rank(), ordered[j].Priority.Rank()
		if ri != rj {
			return ri < rj
		}
		return e.orderIndex(ordered[i].Strategy) < e.orderIndex(ordered[j].Strategy)
	})
	return ordered
}

func (e *Engine) orderIndex(s types.TestStrategy) int {
	if i, ok := e.order[s]; ok {
		return i
	}
	return unknownOrderIndex
}

// setRequirements orders requirements into plan and recomputes its derived fields
func (e *Engine) setRequirements(plan *types.TestStrategyPlan, requirements []types.TestRequirement) {
	plan.Requirements = e.OrderRequirements(requirements)
	plan.ExecutionOrder = make([]types.TestStrategy, 0, len(plan.Requirements))
	plan.TotalEstimatedCases = 0
	for _, r := range plan.Requirements {
		plan.ExecutionOrder = append(plan.ExecutionOrder, r.Strategy)
		plan.TotalEstimatedCases += r.EstimatedCases
	}
}

func (e *Engine) planConfiguration(endpoint *types.EndpointAnalysis, selected []types.TestStrategy) types.PlanConfiguration {
	invalid := contains(selected, types.StrategyParameterValidation) ||
		contains(selected, types.StrategyDataValidation) ||
		contains(selected, types.StrategySecurityTesting)

	cfg := types.PlanConfiguration{
		Endpoint: types.EndpointSummary{
			OperationID: endpoint.OperationID,
			Method:      endpoint.Method,
			Path:        endpoint.Path,
			Summary:     endpoint.Summary,
			Tags:        endpoint.Tags,
			Deprecated:  endpoint.Deprecated,
			Complexity:  endpoint.Complexity,
		},
		TestData: types.TestDataGeneration{
			GenerateValidData:    true,
			GenerateInvalidData:  invalid,
			GenerateBoundaryData: contains(selected, types.StrategyBoundaryTesting),
		},
		Execution: e.execution,
		Reporting: types.ReportingSettings{
			Detailed:        endpoint.Complexity.IsHigh(),
			IncludeCoverage: true,
		},
	}

	// state-changing requests run one at a time
	cfg.Execution.Parallel = !endpoint.HasMethod("POST", "PUT", "PATCH", "DELETE")

	if endpoint.RequestBody != nil {
		cfg.TestData.SampleRequestBody = e.samples.SampleValue(endpoint.RequestBody.Schema)
	}
	return cfg
}

type orderedSet struct {
	items []types.TestStrategy
	seen  map[types.TestStrategy]bool
}

func (s *orderedSet) add(strategies ...types.TestStrategy) {
	if s.seen == nil {
		s.seen = make(map[types.TestStrategy]bool)
	}
	for _, strategy := range strategies {
		if !s.seen[strategy] {
			s.seen[strategy] = true
			s.items = append(s.items, strategy)
		}
	}
}

func contains(list []types.TestStrategy, s types.TestStrategy) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
