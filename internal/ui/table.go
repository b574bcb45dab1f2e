package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"api-test-planner/internal/executor"
	"api-test-planner/internal/strategy"
	"api-test-planner/internal/types"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	return t
}

// RenderPlanSummary prints one row per plan plus any failed endpoints
func RenderPlanSummary(w io.Writer, plans []*types.TestStrategyPlan, failures []executor.Failure) {
	t := newTable(w)
	t.AppendHeader(table.Row{"ENDPOINT", "METHOD", "PATH", "COMPLEXITY", "REQUIREMENTS", "CASES", "EXECUTION ORDER"})

	total := 0
	for _, plan := range plans {
		order := make([]string, 0, len(plan.ExecutionOrder))
		for _, s := range plan.ExecutionOrder {
			order = append(order, string(s))
		}
		endpoint := plan.Configuration.Endpoint
		t.AppendRow(table.Row{
			plan.EndpointID,
			endpoint.Method,
			endpoint.Path,
			complexityColor(plan.Complexity).Sprint(plan.Complexity),
			len(plan.Requirements),
			plan.TotalEstimatedCases,
			strings.Join(order, " → "),
		})
		total += plan.TotalEstimatedCases
	}
	t.AppendFooter(table.Row{"TOTAL", "", "", "", "", total, ""})
	t.Render()

	if len(failures) > 0 {
		fmt.Fprintf(w, "\n%s\n", text.FgRed.Sprintf("%d endpoints could not be planned:", len(failures)))
		for _, f := range failures {
			fmt.Fprintf(w, "  %s: %v\n", f.EndpointID, f.Err)
		}
	}
}

// RenderRecommendations prints the strategy buckets of one endpoint with their reasoning
func RenderRecommendations(w io.Writer, recs strategy.Recommendations) {
	fmt.Fprintf(w, "%s %s\n", text.FgHiBlue.Sprint("Endpoint:"), recs.EndpointID)

	t := newTable(w)
	t.AppendHeader(table.Row{"BUCKET", "STRATEGY", "SCORE", "CASES", "REASONING"})
	buckets := []struct {
		name  string
		color text.Colors
		recs  []strategy.Recommendation
	}{
		{"high", text.Colors{text.FgGreen}, recs.HighPriority},
		{"medium", text.Colors{text.FgYellow}, recs.MediumPriority},
		{"low", text.Colors{text.FgHiBlack}, recs.LowPriority},
	}
	for _, b := range buckets {
		for _, r := range b.recs {
			t.AppendRow(table.Row{
				b.color.Sprint(b.name),
				string(r.Strategy),
				fmt.Sprintf("%.2f", r.Score),
				r.EstimatedCases,
				recs.Reasoning[r.Strategy],
			})
		}
	}
	t.Render()
}

func complexityColor(c types.ComplexityLevel) text.Colors {
	switch c {
	case types.ComplexitySimple:
		return text.Colors{text.FgGreen}
	case types.ComplexityModerate:
		return text.Colors{text.FgYellow}
	case types.ComplexityComplex:
		return text.Colors{text.FgHiRed}
	default:
		return text.Colors{text.FgRed}
	}
}
