package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"api-test-planner/internal/strategy"
	"api-test-planner/internal/types"
	"api-test-planner/internal/ui"
)

func newRecommendCmd() *cobra.Command {
	var (
		endpointFilter string
		asJSON         bool
	)

	cmd := &cobra.Command{
		Use:   "recommend [spec]",
		Short: "Show scored strategy recommendations per endpoint",
		Long: `Score every applicable test strategy of each endpoint and group the
strategies into high, medium and low buckets with a short reasoning.

--endpoint selects a single endpoint by operationId or by "METHOD /path".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, args)
			if err != nil {
				return err
			}
			defer s.Close()

			endpoints, err := s.analyze(cmd.Context())
			if err != nil {
				return err
			}
			endpoints = filterEndpoints(endpoints, endpointFilter)
			if len(endpoints) == 0 && endpointFilter != "" {
				return fmt.Errorf("no endpoint matches %q", endpointFilter)
			}

			engine := strategy.NewEngine()
			recs := make([]strategy.Recommendations, 0, len(endpoints))
			for _, endpoint := range endpoints {
				rec, err := engine.Recommend(endpoint)
				if err != nil {
					return err
				}
				recs = append(recs, rec)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(recs)
			}
			for i, r := range recs {
				if i > 0 {
					fmt.Fprintln(out)
				}
				ui.RenderRecommendations(out, r)
			}
			return nil
		},
	}

	addSpecFlags(cmd)
	cmd.Flags().StringVar(&endpointFilter, "endpoint", "", "only this endpoint (operationId or \"METHOD /path\")")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print recommendations as JSON")
	return cmd
}

// filterEndpoints keeps the endpoints whose operationId or "METHOD path" key matches filter.
// An empty filter keeps everything.
func filterEndpoints(endpoints []*types.EndpointAnalysis, filter string) []*types.EndpointAnalysis {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return endpoints
	}

	var out []*types.EndpointAnalysis
	for _, e := range endpoints {
		if e.OperationID == filter || strings.EqualFold(e.Key(), filter) {
			out = append(out, e)
		}
	}
	return out
}
