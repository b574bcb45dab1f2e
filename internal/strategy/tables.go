package strategy

import "api-test-planner/internal/types"

// Modifier adjusts strategy scores for one complexity band
type Modifier struct {
	Boost  map[types.TestStrategy]float64
	Reduce map[types.TestStrategy]float64
}

const (
	// minSelectionScore is the score a non-critical strategy needs to be selected
	minSelectionScore = 0.6
	// defaultWeight applies to strategies missing from the weight table
	defaultWeight = 0.5
	// unknownOrderIndex sorts strategies missing from the preferred order last
	unknownOrderIndex = 999
)

// criticalStrategies are selected ahead of scoring whenever they are applicable
var criticalStrategies = []types.TestStrategy{
	types.StrategyBasicFunctionality,
	types.StrategyErrorScenarios,
}

// disabledStrategies never become applicable. They stay in the tables and builders
// so that plans built by other tools with these strategies still expand and order.
var disabledStrategies = map[types.TestStrategy]bool{
	types.StrategyPerformanceTesting: true,
	types.StrategyConcurrencyTesting: true,
}

func defaultMethodStrategies() map[string][]types.TestStrategy {
	return map[string][]types.TestStrategy{
		"GET": {
			types.StrategyBasicFunctionality,
			types.StrategyErrorScenarios,
			types.StrategyIdempotencyTesting,
			types.StrategyRateLimiting,
			types.StrategyPerformanceTesting,
		},
		"POST": {
			types.StrategyBasicFunctionality,
			types.StrategyDataValidation,
			types.StrategySchemaValidation,
			types.StrategyErrorScenarios,
			types.StrategySecurityTesting,
			types.StrategyStateManagement,
			types.StrategyConcurrencyTesting,
		},
		"PUT": {
			types.StrategyBasicFunctionality,
			types.StrategyDataValidation,
			types.StrategyErrorScenarios,
			types.StrategyIdempotencyTesting,
			types.StrategyStateManagement,
			types.StrategyConcurrencyTesting,
		},
		"PATCH": {
			types.StrategyBasicFunctionality,
			types.StrategyDataValidation,
			types.StrategyErrorScenarios,
			types.StrategyStateManagement,
			types.StrategyConcurrencyTesting,
		},
		"DELETE": {
			types.StrategyBasicFunctionality,
			types.StrategyErrorScenarios,
			types.StrategyIdempotencyTesting,
			types.StrategyStateManagement,
			types.StrategyConcurrencyTesting,
		},
	}
}

func defaultWeights() map[types.TestStrategy]float64 {
	return map[types.TestStrategy]float64{
		types.StrategyBasicFunctionality:    1.0,
		types.StrategyErrorScenarios:        0.9,
		types.StrategyAuthenticationTesting: 0.9,
		types.StrategyParameterValidation:   0.8,
		types.StrategySecurityTesting:       0.8,
		types.StrategyDataValidation:        0.8,
		types.StrategyBoundaryTesting:       0.7,
		types.StrategySchemaValidation:      0.7,
		types.StrategyIdempotencyTesting:    0.7,
		types.StrategyStateManagement:       0.6,
		types.StrategyIntegrationTesting:    0.6,
		types.StrategyRateLimiting:          0.5,
		types.StrategyPerformanceTesting:    0.5,
		types.StrategyConcurrencyTesting:    0.5,
	}
}

func defaultModifiers() map[types.ComplexityLevel]Modifier {
	return map[types.ComplexityLevel]Modifier{
		types.ComplexitySimple: {
			Reduce: map[types.TestStrategy]float64{
				types.StrategyIntegrationTesting: 0.2,
				types.StrategySchemaValidation:   0.1,
			},
		},
		types.ComplexityModerate: {
			Boost: map[types.TestStrategy]float64{
				types.StrategyParameterValidation: 0.1,
				types.StrategyBoundaryTesting:     0.1,
			},
		},
		types.ComplexityComplex: {
			Boost: map[types.TestStrategy]float64{
				types.StrategyIntegrationTesting: 0.2,
				types.StrategySchemaValidation:   0.1,
				types.StrategyStateManagement:    0.1,
			},
		},
		types.ComplexityAdvanced: {
			Boost: map[types.TestStrategy]float64{
				types.StrategyIntegrationTesting: 0.3,
				types.StrategySecurityTesting:    0.1,
				types.StrategySchemaValidation:   0.1,
				types.StrategyStateManagement:    0.1,
			},
		},
	}
}

func defaultLimits() map[types.ComplexityLevel]int {
	return map[types.ComplexityLevel]int{
		types.ComplexitySimple:   4,
		types.ComplexityModerate: 6,
		types.ComplexityComplex:  8,
		types.ComplexityAdvanced: 10,
	}
}

func defaultPreferredOrder() []types.TestStrategy {
	return []types.TestStrategy{
		types.StrategyBasicFunctionality,
		types.StrategyAuthenticationTesting,
		types.StrategyParameterValidation,
		types.StrategyDataValidation,
		types.StrategySchemaValidation,
		types.StrategyErrorScenarios,
		types.StrategyBoundaryTesting,
		types.StrategySecurityTesting,
		types.StrategyIdempotencyTesting,
		types.StrategyStateManagement,
		types.StrategyIntegrationTesting,
		types.StrategyRateLimiting,
		types.StrategyPerformanceTesting,
		types.StrategyConcurrencyTesting,
	}
}
