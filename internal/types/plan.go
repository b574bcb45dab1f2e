package types

import (
	"fmt"
	"strings"
)

// TestStrategy is a named category of test coverage
type TestStrategy string

const (
	StrategyBasicFunctionality    TestStrategy = "basic_functionality"
	StrategyParameterValidation   TestStrategy = "parameter_validation"
	StrategyBoundaryTesting       TestStrategy = "boundary_testing"
	StrategySecurityTesting       TestStrategy = "security_testing"
	StrategyErrorScenarios        TestStrategy = "error_scenarios"
	StrategyAuthenticationTesting TestStrategy = "authentication_testing"
	StrategyDataValidation        TestStrategy = "data_validation"
	StrategySchemaValidation      TestStrategy = "schema_validation"
	StrategyPerformanceTesting    TestStrategy = "performance_testing"
	StrategyConcurrencyTesting    TestStrategy = "concurrency_testing"
	StrategyIntegrationTesting    TestStrategy = "integration_testing"
	StrategyStateManagement       TestStrategy = "state_management"
	StrategyIdempotencyTesting    TestStrategy = "idempotency_testing"
	StrategyRateLimiting          TestStrategy = "rate_limiting"
)

// AllStrategies lists every strategy in declaration order
var AllStrategies = []TestStrategy{
	StrategyBasicFunctionality,
	StrategyParameterValidation,
	StrategyBoundaryTesting,
	StrategySecurityTesting,
	StrategyErrorScenarios,
	StrategyAuthenticationTesting,
	StrategyDataValidation,
	StrategySchemaValidation,
	StrategyPerformanceTesting,
	StrategyConcurrencyTesting,
	StrategyIntegrationTesting,
	StrategyStateManagement,
	StrategyIdempotencyTesting,
	StrategyRateLimiting,
}

// TestPriority orders requirements; Critical ranks first
type TestPriority string

const (
	PriorityCritical TestPriority = "critical"
	PriorityHigh     TestPriority = "high"
	PriorityMedium   TestPriority = "medium"
	PriorityLow      TestPriority = "low"
)

// Priorities lists priorities from most to least important
var Priorities = []TestPriority{PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow}

// Rank returns 0 for critical through 3 for low, and len(Priorities) for unknown values
func (p TestPriority) Rank() int {
	for i, candidate := range Priorities {
		if candidate == p {
			return i
		}
	}
	return len(Priorities)
}

// ParsePriority converts a priority name into a TestPriority
func ParsePriority(name string) (TestPriority, error) {
	p := TestPriority(strings.ToLower(strings.TrimSpace(name)))
	if p.Rank() == len(Priorities) {
		return "", fmt.Errorf("unknown priority %q (expected one of critical, high, medium, low)", name)
	}
	return p, nil
}

// TestRequirement is one strategy's concrete expansion for an endpoint
type TestRequirement struct {
	Strategy       TestStrategy           `json:"strategy" yaml:"strategy"`
	Priority       TestPriority           `json:"priority" yaml:"priority"`
	Description    string                 `json:"description" yaml:"description"`
	TestCases      []string               `json:"test_cases" yaml:"test_cases"`
	Configuration  map[string]interface{} `json:"configuration" yaml:"configuration"`
	Dependencies   []TestStrategy         `json:"dependencies" yaml:"dependencies"`
	EstimatedCases int                    `json:"estimated_cases" yaml:"estimated_cases"`
}

// TestStrategyPlan is the engine output for one endpoint
type TestStrategyPlan struct {
	EndpointID          string            `json:"endpoint_id" yaml:"endpoint_id"`
	Complexity          ComplexityLevel   `json:"complexity" yaml:"complexity"`
	Requirements        []TestRequirement `json:"requirements" yaml:"requirements"`
	TotalEstimatedCases int               `json:"total_estimated_cases" yaml:"total_estimated_cases"`
	ExecutionOrder      []TestStrategy    `json:"execution_order" yaml:"execution_order"`
	Configuration       PlanConfiguration `json:"configuration" yaml:"configuration"`
}

// Requirement returns the requirement for strategy, if the plan holds one
func (p *TestStrategyPlan) Requirement(strategy TestStrategy) (TestRequirement, bool) {
	for _, r := range p.Requirements {
		if r.Strategy == strategy {
			return r, true
		}
	}
	return TestRequirement{}, false
}

// Strategies returns the strategy of every requirement in plan order
func (p *TestStrategyPlan) Strategies() []TestStrategy {
	out := make([]TestStrategy, 0, len(p.Requirements))
	for _, r := range p.Requirements {
		out = append(out, r.Strategy)
	}
	return out
}

// PlanConfiguration carries plan-level settings handed to the test generators
type PlanConfiguration struct {
	Endpoint  EndpointSummary    `json:"endpoint" yaml:"endpoint"`
	TestData  TestDataGeneration `json:"test_data_generation" yaml:"test_data_generation"`
	Execution ExecutionSettings  `json:"execution" yaml:"execution"`
	Reporting ReportingSettings  `json:"reporting" yaml:"reporting"`
}

// EndpointSummary is the endpoint description embedded in a plan
type EndpointSummary struct {
	OperationID string          `json:"operation_id" yaml:"operation_id"`
	Method      string          `json:"method" yaml:"method"`
	Path        string          `json:"path" yaml:"path"`
	Summary     string          `json:"summary,omitempty" yaml:"summary,omitempty"`
	Tags        []string        `json:"tags,omitempty" yaml:"tags,omitempty"`
	Deprecated  bool            `json:"deprecated" yaml:"deprecated"`
	Complexity  ComplexityLevel `json:"complexity" yaml:"complexity"`
}

// TestDataGeneration holds the test data flags of a plan
type TestDataGeneration struct {
	GenerateValidData    bool        `json:"generate_valid_data" yaml:"generate_valid_data"`
	GenerateInvalidData  bool        `json:"generate_invalid_data" yaml:"generate_invalid_data"`
	GenerateBoundaryData bool        `json:"generate_boundary_data" yaml:"generate_boundary_data"`
	SampleRequestBody    interface{} `json:"sample_request_body,omitempty" yaml:"sample_request_body,omitempty"`
}

// ExecutionSettings holds the execution flags of a plan
type ExecutionSettings struct {
	Parallel       bool `json:"parallel" yaml:"parallel"`
	TimeoutSeconds int  `json:"timeout_seconds" yaml:"timeout_seconds"`
	RetryAttempts  int  `json:"retry_attempts" yaml:"retry_attempts"`
}

// ReportingSettings holds the reporting flags of a plan
type ReportingSettings struct {
	Detailed        bool `json:"detailed" yaml:"detailed"`
	IncludeCoverage bool `json:"include_coverage" yaml:"include_coverage"`
}
