package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"api-test-planner/internal/types"
)

func strategiesOf(recs []Recommendation) []types.TestStrategy {
	out := make([]types.TestStrategy, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Strategy)
	}
	return out
}

func TestRecommendBuckets(t *testing.T) {
	recs, err := NewEngine().Recommend(simpleGet())
	require.NoError(t, err)

	assert.Equal(t, "get_x", recs.EndpointID)
	assert.Equal(t, []types.TestStrategy{types.StrategyBasicFunctionality, types.StrategyErrorScenarios}, strategiesOf(recs.HighPriority))
	assert.Equal(t, []types.TestStrategy{types.StrategyIdempotencyTesting}, strategiesOf(recs.MediumPriority))
	assert.Equal(t, []types.TestStrategy{types.StrategyRateLimiting}, strategiesOf(recs.LowPriority))
	assert.Len(t, recs.Reasoning, 4)
	for _, reason := range recs.Reasoning {
		assert.NotEmpty(t, reason)
	}
}

func TestRecommendCaseEstimates(t *testing.T) {
	recs, err := NewEngine().Recommend(rangedGet())
	require.NoError(t, err)

	estimates := map[types.TestStrategy]int{}
	for _, group := range [][]Recommendation{recs.HighPriority, recs.MediumPriority, recs.LowPriority} {
		for _, r := range group {
			estimates[r.Strategy] = r.EstimatedCases
		}
	}

	assert.Equal(t, 2, estimates[types.StrategyParameterValidation])
	assert.Equal(t, 4, estimates[types.StrategyBoundaryTesting])
	assert.Equal(t, 3, estimates[types.StrategyBasicFunctionality])
	assert.NotContains(t, estimates, types.StrategySecurityTesting)
	assert.Contains(t, recs.Reasoning[types.StrategyParameterValidation], "1 parameters (0 required)")
}

func TestRecommendIncludesStrategiesBeyondLimit(t *testing.T) {
	e := NewEngine()
	endpoint := advancedPost(t)

	recs, err := e.Recommend(endpoint)
	require.NoError(t, err)
	total := len(recs.HighPriority) + len(recs.MediumPriority) + len(recs.LowPriority)
	assert.Equal(t, len(e.ApplicableStrategies(endpoint)), total)
	assert.Contains(t, recs.Reasoning[types.StrategySecurityTesting], "5 string parameters")
}

func TestRecommendNilEndpoint(t *testing.T) {
	var recs Recommendations
	assert.NotPanics(t, func() {
		var err error
		recs, err = NewEngine().Recommend(nil)
		assert.EqualError(t, err, "endpoint analysis is nil")
	})
	assert.Empty(t, recs.EndpointID)
}
