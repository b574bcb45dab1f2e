package analyzer

import (
	"strings"

	"api-test-planner/internal/types"
)

// Complexity weights in hundredths. The band thresholds apply to the score in tenths,
// so a weight of 10 here contributes 1.0 to the reported score.
const (
	weightPathParam        = 10
	weightQueryParam       = 5
	weightRequestBody      = 20
	weightBodyProperty     = 10
	weightNestedObject     = 15
	weightArrayProperty    = 10
	weightResponseProperty = 5
	weightSecurity         = 20

	simpleMaxPoints   = 30
	moderateMaxPoints = 80
	complexMaxPoints  = 150
)

// complexityPoints computes the weighted feature sum of an endpoint in hundredths
func complexityPoints(e *types.EndpointAnalysis) int {
	points := 0

	for _, p := range e.Parameters {
		switch p.Location {
		case types.LocationPath:
			points += weightPathParam
		case types.LocationQuery:
			points += weightQueryParam
		}
	}

	if e.RequestBody != nil {
		points += weightRequestBody
		if body := e.RequestBody.Schema; body != nil {
			points += len(body.Properties) * weightBodyProperty
			for _, prop := range body.Properties {
				switch {
				case prop.IsObject():
					points += weightNestedObject
				case prop.IsArray():
					points += weightArrayProperty
				}
			}
		}
	}

	for _, r := range e.Responses {
		if r.IsSuccess() && r.Schema != nil {
			points += len(r.Schema.Properties) * weightResponseProperty
		}
	}

	if len(e.Security) > 0 || hasAuthTag(e.Tags) {
		points += weightSecurity
	}

	return points
}

// classifyComplexity maps a point total onto a complexity band and the reported score
func classifyComplexity(points int) (types.ComplexityLevel, float64) {
	score := float64(points) / 10
	switch {
	case points <= simpleMaxPoints:
		return types.ComplexitySimple, score
	case points <= moderateMaxPoints:
		return types.ComplexityModerate, score
	case points <= complexMaxPoints:
		return types.ComplexityComplex, score
	default:
		return types.ComplexityAdvanced, score
	}
}

func hasAuthTag(tags []string) bool {
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), "auth") {
			return true
		}
	}
	return false
}
