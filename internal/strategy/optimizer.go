package strategy

import (
	"sort"

	"api-test-planner/internal/types"
)

// Constraints bound an optimized plan. The zero value leaves a plan untouched.
type Constraints struct {
	// MaxTestCases caps the total estimated cases; nil means no cap
	MaxTestCases *int `json:"max_test_cases,omitempty" yaml:"max_test_cases,omitempty"`
	// MinPriority drops requirements ranked below it; empty means "low"
	MinPriority string `json:"min_priority,omitempty" yaml:"min_priority,omitempty"`
}

// IsEmpty reports whether no constraint is set
func (c *Constraints) IsEmpty() bool {
	return c == nil || (c.MaxTestCases == nil && c.MinPriority == "")
}

// Optimize returns a plan trimmed to constraints. Priority bands are filled from critical down to
// the minimum priority, cheapest requirement first. A requirement that no longer fits the case
// budget closes its band; filling stops once the budget is used up. The input plan is never modified.
func (e *Engine) Optimize(plan *types.TestStrategyPlan, constraints *Constraints) (*types.TestStrategyPlan, error) {
	if plan == nil || constraints.IsEmpty() {
		return plan, nil
	}

	floor := types.PriorityLow
	if constraints.MinPriority != "" {
		p, err := types.ParsePriority(constraints.MinPriority)
		if err != nil {
			return nil, err
		}
		floor = p
	}

	limit := constraints.MaxTestCases
	var kept []types.TestRequirement
	total := 0
	for _, priority := range types.Priorities[:floor.Rank()+1] {
		if limit != nil && (*limit <= 0 || total >= *limit) {
			break
		}

		var band []types.TestRequirement
		for _, r := range plan.Requirements {
			if r.Priority == priority {
				band = append(band, r)
			}
		}
		sort.SliceStable(band, func(i, j int) bool {
			return band[i].EstimatedCases < band[j].EstimatedCases
		})

		for _, r := range band {
			if limit != nil && total+r.EstimatedCases > *limit {
				break
			}
			kept = append(kept, r)
			total += r.EstimatedCases
		}
	}

	optimized := &types.TestStrategyPlan{
		EndpointID:    plan.EndpointID,
		Complexity:    plan.Complexity,
		Configuration: plan.Configuration,
	}
	e.setRequirements(optimized, kept)
	return optimized, nil
}
