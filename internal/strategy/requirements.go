package strategy

import (
	"fmt"

	"api-test-planner/internal/types"
)

type builder func(endpoint *types.EndpointAnalysis) types.TestRequirement

var builders = map[types.TestStrategy]builder{
	types.StrategyBasicFunctionality:    basicFunctionality,
	types.StrategyParameterValidation:   parameterValidation,
	types.StrategyBoundaryTesting:       boundaryTesting,
	types.StrategySecurityTesting:       securityTesting,
	types.StrategyErrorScenarios:        errorScenarios,
	types.StrategyAuthenticationTesting: authenticationTesting,
	types.StrategyDataValidation:        dataValidation,
	types.StrategyPerformanceTesting:    performanceTesting,
	types.StrategyConcurrencyTesting:    concurrencyTesting,
	types.StrategyIdempotencyTesting:    idempotencyTesting,
}

// BuildRequirement expands strategy into the concrete requirement for endpoint.
// Strategies without a dedicated expansion yield a single generic case.
func BuildRequirement(strategy types.TestStrategy, endpoint *types.EndpointAnalysis) types.TestRequirement {
	build, ok := builders[strategy]
	if !ok {
		return generic(strategy, endpoint)
	}
	r := build(endpoint)
	r.Strategy = strategy
	return r
}

func newRequirement(priority types.TestPriority, description string, cases []string, config map[string]interface{}) types.TestRequirement {
	if cases == nil {
		cases = []string{}
	}
	if config == nil {
		config = map[string]interface{}{}
	}
	return types.TestRequirement{
		Priority:       priority,
		Description:    description,
		TestCases:      cases,
		Configuration:  config,
		Dependencies:   []types.TestStrategy{},
		EstimatedCases: len(cases),
	}
}

func basicFunctionality(endpoint *types.EndpointAnalysis) types.TestRequirement {
	return newRequirement(types.PriorityCritical,
		fmt.Sprintf("Verify %s %s succeeds with valid input", endpoint.Method, endpoint.Path),
		[]string{"successful_request", "response_schema", "response_headers"},
		map[string]interface{}{
			"expected_success_codes": []int{200, 201, 204},
		})
}

func parameterValidation(endpoint *types.EndpointAnalysis) types.TestRequirement {
	var cases []string
	params := make(map[string]interface{}, len(endpoint.Parameters))
	for _, p := range endpoint.Parameters {
		if p.Required {
			cases = append(cases, p.Name+"_required")
		} else {
			cases = append(cases, p.Name+"_optional")
		}
		cases = append(cases, p.Name+"_type")
		if p.Format != "" {
			cases = append(cases, p.Name+"_format")
		}

		params[p.Name] = map[string]interface{}{
			"location":    string(p.Location),
			"data_type":   p.DataType,
			"format":      p.Format,
			"required":    p.Required,
			"constraints": p.Constraints.Map(),
		}
	}

	return newRequirement(types.PriorityHigh,
		fmt.Sprintf("Validate presence, type and format of %d parameters", len(endpoint.Parameters)),
		cases,
		map[string]interface{}{"parameters": params})
}

func boundaryTesting(endpoint *types.EndpointAnalysis) types.TestRequirement {
	var cases []string
	names := []string{}
	values := []BoundaryValue{}
	for _, p := range endpoint.ConstrainedParameters() {
		names = append(names, p.Name)
		cases = append(cases, boundaryCaseNames(p)...)
		values = append(values, BoundaryValues(p)...)
	}

	return newRequirement(types.PriorityHigh,
		fmt.Sprintf("Exercise the declared limits of %d constrained parameters", len(names)),
		cases,
		map[string]interface{}{
			"constrained_parameters": names,
			"boundary_values":        values,
		})
}

var injectionAttacks = []string{"sql_injection", "xss", "command_injection", "path_traversal"}

func securityTesting(endpoint *types.EndpointAnalysis) types.TestRequirement {
	var cases []string
	names := []string{}
	for _, p := range endpoint.StringParameters() {
		names = append(names, p.Name)
		for _, attack := range injectionAttacks {
			cases = append(cases, p.Name+"_"+attack)
		}
	}
	if len(names) == 0 {
		for _, attack := range injectionAttacks {
			cases = append(cases, "generic_"+attack)
		}
	}

	return newRequirement(types.PriorityHigh,
		"Probe string inputs with injection payloads",
		cases,
		map[string]interface{}{"string_parameters": names})
}

func errorScenarios(endpoint *types.EndpointAnalysis) types.TestRequirement {
	cases := []string{"malformed_request", "resource_not_found", "method_not_allowed"}
	codes := []int{400, 404, 405}
	if len(endpoint.Security) > 0 {
		cases = append(cases, "unauthorized_access", "forbidden_access")
		codes = append(codes, 401, 403)
	}
	if endpoint.HasMethod("POST", "PUT", "PATCH") {
		cases = append(cases, "unsupported_content_type", "unprocessable_payload")
		codes = append(codes, 415, 422)
	}

	return newRequirement(types.PriorityCritical,
		"Verify error responses for invalid requests",
		cases,
		map[string]interface{}{"expected_error_codes": codes})
}

func authenticationTesting(endpoint *types.EndpointAnalysis) types.TestRequirement {
	cases := []string{"valid_credentials", "missing_credentials", "invalid_credentials"}

	schemes := make([]map[string]interface{}, 0, len(endpoint.Security))
	scoped := false
	for _, s := range endpoint.Security {
		if len(s.Scopes) > 0 {
			scoped = true
		}
		schemes = append(schemes, map[string]interface{}{
			"name":     s.Name,
			"type":     s.Type,
			"location": s.Location,
			"scopes":   s.Scopes,
		})
	}
	if scoped {
		cases = append(cases, "sufficient_scope", "insufficient_scope")
	}

	return newRequirement(types.PriorityCritical,
		fmt.Sprintf("Verify access control across %d security schemes", len(endpoint.Security)),
		cases,
		map[string]interface{}{"security_schemes": schemes})
}

func dataValidation(endpoint *types.EndpointAnalysis) types.TestRequirement {
	body := endpoint.RequestBody
	if body == nil {
		return newRequirement(types.PriorityMedium, "No request body to validate", nil, nil)
	}

	return newRequirement(types.PriorityHigh,
		"Validate request payload handling",
		[]string{"valid_payload", "missing_required_fields", "invalid_field_types", "unexpected_fields"},
		map[string]interface{}{
			"content_type":   body.ContentType,
			"request_schema": body.Schema.Raw(),
		})
}

func performanceTesting(endpoint *types.EndpointAnalysis) types.TestRequirement {
	return newRequirement(types.PriorityMedium,
		fmt.Sprintf("Measure response times of %s %s under load", endpoint.Method, endpoint.Path),
		[]string{"response_time", "load_handling", "sustained_load"},
		map[string]interface{}{
			"max_response_time_ms": 1000,
			"concurrent_requests":  10,
			"duration_seconds":     30,
		})
}

func concurrencyTesting(endpoint *types.EndpointAnalysis) types.TestRequirement {
	return newRequirement(types.PriorityMedium,
		"Verify consistent results under concurrent access",
		[]string{"concurrent_requests", "race_conditions", "resource_contention"},
		map[string]interface{}{
			"concurrent_users": 5,
			"iterations":       10,
		})
}

func idempotencyTesting(endpoint *types.EndpointAnalysis) types.TestRequirement {
	priority := types.PriorityMedium
	if endpoint.HasMethod("PUT", "DELETE") {
		priority = types.PriorityHigh
	}
	return newRequirement(priority,
		fmt.Sprintf("Verify repeated %s requests are idempotent", endpoint.Method),
		[]string{"repeated_request_same_response", "repeated_request_same_state"},
		map[string]interface{}{"repetition_count": 3})
}

func generic(strategy types.TestStrategy, endpoint *types.EndpointAnalysis) types.TestRequirement {
	r := newRequirement(types.PriorityMedium,
		fmt.Sprintf("Run %s checks for %s %s", strategy, endpoint.Method, endpoint.Path),
		[]string{"test_" + string(strategy)},
		nil)
	r.Strategy = strategy
	return r
}
