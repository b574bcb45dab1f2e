package strategy

import (
	"errors"
	"fmt"
	"strings"

	"api-test-planner/internal/types"
)

const (
	highScore   = 0.8
	mediumScore = 0.6
)

// Recommendation is one scored strategy with its estimated size
type Recommendation struct {
	Strategy       types.TestStrategy `json:"strategy" yaml:"strategy"`
	Score          float64            `json:"score" yaml:"score"`
	EstimatedCases int                `json:"estimated_cases" yaml:"estimated_cases"`
}

// Recommendations groups the applicable strategies of an endpoint by score
type Recommendations struct {
	EndpointID     string                        `json:"endpoint_id" yaml:"endpoint_id"`
	HighPriority   []Recommendation              `json:"high_priority" yaml:"high_priority"`
	MediumPriority []Recommendation              `json:"medium_priority" yaml:"medium_priority"`
	LowPriority    []Recommendation              `json:"low_priority" yaml:"low_priority"`
	Reasoning      map[types.TestStrategy]string `json:"reasoning" yaml:"reasoning"`
}

// Recommend scores every applicable strategy of endpoint without building a plan
func (e *Engine) Recommend(endpoint *types.EndpointAnalysis) (Recommendations, error) {
	if endpoint == nil {
		return Recommendations{}, errors.New("endpoint analysis is nil")
	}

	out := Recommendations{
		EndpointID:     endpoint.OperationID,
		HighPriority:   []Recommendation{},
		MediumPriority: []Recommendation{},
		LowPriority:    []Recommendation{},
		Reasoning:      make(map[types.TestStrategy]string),
	}

	for _, s := range e.ScoreStrategies(endpoint, e.ApplicableStrategies(endpoint)) {
		rec := Recommendation{
			Strategy:       s.Strategy,
			Score:          s.Score,
			EstimatedCases: estimateCases(s.Strategy, endpoint),
		}
		switch {
		case s.Score >= highScore:
			out.HighPriority = append(out.HighPriority, rec)
		case s.Score >= mediumScore:
			out.MediumPriority = append(out.MediumPriority, rec)
		default:
			out.LowPriority = append(out.LowPriority, rec)
		}
		out.Reasoning[s.Strategy] = reasoning(s.Strategy, endpoint)
	}
	return out, nil
}

func estimateCases(strategy types.TestStrategy, endpoint *types.EndpointAnalysis) int {
	switch strategy {
	case types.StrategyParameterValidation:
		return 2 * len(endpoint.Parameters)
	case types.StrategyBoundaryTesting:
		return 4 * len(endpoint.ConstrainedParameters())
	case types.StrategySecurityTesting:
		return 4 * len(endpoint.StringParameters())
	default:
		return 3
	}
}

func reasoning(strategy types.TestStrategy, endpoint *types.EndpointAnalysis) string {
	switch strategy {
	case types.StrategyBasicFunctionality:
		return fmt.Sprintf("Core %s %s behaviour must work before anything else is worth testing", endpoint.Method, endpoint.Path)
	case types.StrategyParameterValidation:
		required := 0
		for _, p := range endpoint.Parameters {
			if p.Required {
				required++
			}
		}
		return fmt.Sprintf("%d parameters (%d required) need presence and type validation", len(endpoint.Parameters), required)
	case types.StrategyBoundaryTesting:
		return fmt.Sprintf("%d parameters declare constraints whose limits should be exercised", len(endpoint.ConstrainedParameters()))
	case types.StrategySecurityTesting:
		return fmt.Sprintf("%d string parameters accept free text and are injection candidates", len(endpoint.StringParameters()))
	case types.StrategyErrorScenarios:
		return fmt.Sprintf("Error handling matters for a %s endpoint with %d documented responses", endpoint.Complexity, len(endpoint.Responses))
	case types.StrategyAuthenticationTesting:
		return fmt.Sprintf("Endpoint is protected by %d security schemes (%s)", len(endpoint.Security), schemeNames(endpoint))
	case types.StrategyDataValidation:
		return "Request body must be validated against malformed and incomplete payloads"
	case types.StrategySchemaValidation:
		properties := 0
		if endpoint.RequestBody != nil && endpoint.RequestBody.Schema != nil {
			properties = len(endpoint.RequestBody.Schema.Properties)
		}
		return fmt.Sprintf("Request body declares %d properties to check against the schema", properties)
	case types.StrategyIdempotencyTesting:
		return fmt.Sprintf("%s requests should give the same result when repeated", endpoint.Method)
	case types.StrategyStateManagement:
		return fmt.Sprintf("%s changes server state that later requests depend on", endpoint.Method)
	case types.StrategyIntegrationTesting:
		return fmt.Sprintf("A %s endpoint is likely to touch several components", endpoint.Complexity)
	case types.StrategyRateLimiting:
		return "Read endpoints are the usual target of request throttling"
	case types.StrategyPerformanceTesting:
		return fmt.Sprintf("Response times of a %s endpoint should be measured under load", endpoint.Complexity)
	case types.StrategyConcurrencyTesting:
		return "Concurrent writes can expose race conditions"
	default:
		return fmt.Sprintf("%s applies to %s %s", strategy, endpoint.Method, endpoint.Path)
	}
}

func schemeNames(endpoint *types.EndpointAnalysis) string {
	names := make([]string, 0, len(endpoint.Security))
	for _, s := range endpoint.Security {
		names = append(names, s.Name)
	}
	return strings.Join(names, ", ")
}
