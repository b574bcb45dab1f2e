package executor

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"api-test-planner/internal/logger"
	"api-test-planner/internal/strategy"
	"api-test-planner/internal/types"
)

// DefaultMaxWorkers is used when Config.MaxWorkers is not positive
const DefaultMaxWorkers = 5

// Planner builds and optimizes the plan of a single endpoint
type Planner interface {
	GeneratePlan(endpoint *types.EndpointAnalysis) (*types.TestStrategyPlan, error)
	Optimize(plan *types.TestStrategyPlan, constraints *strategy.Constraints) (*types.TestStrategyPlan, error)
}

// Config holds configuration for batch planning
type Config struct {
	MaxWorkers  int
	Constraints *strategy.Constraints
}

// ProgressFunc is called after each endpoint with the number of endpoints finished so far
type ProgressFunc func(done, total int)

// Failure records an endpoint whose plan could not be produced
type Failure struct {
	EndpointID string
	Err        error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.EndpointID, f.Err)
}

// Result is the outcome of planning a batch of endpoints
type Result struct {
	// Plans holds one plan per successful endpoint, in input order
	Plans []*types.TestStrategyPlan
	// Failures holds the endpoints that could not be planned, in input order
	Failures []Failure
}

// Runner plans many endpoints concurrently, isolating failures per endpoint
type Runner struct {
	planner  Planner
	config   Config
	log      *logger.Logger
	progress ProgressFunc
}

// Option configures a Runner
type Option func(*Runner)

// WithLogger sets the logger endpoint failures are reported to
func WithLogger(log *logger.Logger) Option {
	return func(r *Runner) {
		r.log = log
	}
}

// WithProgress sets the progress callback
func WithProgress(fn ProgressFunc) Option {
	return func(r *Runner) {
		r.progress = fn
	}
}

// NewRunner creates a new batch runner
func NewRunner(planner Planner, config Config, opts ...Option) *Runner {
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = DefaultMaxWorkers
	}
	r := &Runner{
		planner: planner,
		config:  config,
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// PlanAll plans every endpoint with at most MaxWorkers endpoints in flight.
// A failing endpoint is logged and reported in the result; only cancellation of ctx aborts the batch.
func (r *Runner) PlanAll(ctx context.Context, endpoints []*types.EndpointAnalysis) (*Result, error) {
	plans := make([]*types.TestStrategyPlan, len(endpoints))
	errs := make([]error, len(endpoints))

	var mu sync.Mutex
	done := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.config.MaxWorkers)

	for i, endpoint := range endpoints {
		if gctx.Err() != nil {
			break
		}
		i, endpoint := i, endpoint
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			plans[i], errs[i] = r.planOne(endpoint)

			mu.Lock()
			done++
			finished := done
			mu.Unlock()
			if r.progress != nil {
				r.progress(finished, len(endpoints))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("planning cancelled: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("planning cancelled: %w", err)
	}

	result := &Result{}
	for i, endpoint := range endpoints {
		if errs[i] != nil {
			id := endpointID(endpoint)
			r.log.LogEndpointFailure(id, errs[i])
			result.Failures = append(result.Failures, Failure{EndpointID: id, Err: errs[i]})
			continue
		}
		result.Plans = append(result.Plans, plans[i])
	}
	return result, nil
}

// planOne generates and optimizes the plan of one endpoint, turning a panic into an error
func (r *Runner) planOne(endpoint *types.EndpointAnalysis) (plan *types.TestStrategyPlan, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			plan, err = nil, fmt.Errorf("panic while planning: %v", rec)
		}
	}()

	plan, err = r.planner.GeneratePlan(endpoint)
	if err != nil {
		return nil, err
	}
	return r.planner.Optimize(plan, r.config.Constraints)
}

func endpointID(endpoint *types.EndpointAnalysis) string {
	if endpoint == nil {
		return "<nil>"
	}
	return endpoint.OperationID
}
