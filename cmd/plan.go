package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"api-test-planner/internal/executor"
	"api-test-planner/internal/parser"
	"api-test-planner/internal/reporter"
	"api-test-planner/internal/strategy"
	"api-test-planner/internal/ui"
	"api-test-planner/internal/watch"
)

type planOptions struct {
	noProgress bool
	watch      bool
}

func newPlanCmd() *cobra.Command {
	opts := &planOptions{}

	cmd := &cobra.Command{
		Use:   "plan [spec]",
		Short: "Generate test strategy plans for every endpoint of an OpenAPI document",
		Long: `Generate a test strategy plan for every operation of an OpenAPI document.

Plans are written to the output directory in each requested format and
summarized on stdout. Endpoints that cannot be planned are reported and
skipped without failing the run.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, args)
			if err != nil {
				return err
			}
			defer s.Close()

			if !opts.watch {
				return runPlan(cmd.Context(), cmd, s, opts)
			}
			return watchPlan(cmd, s, opts)
		},
	}

	addSpecFlags(cmd)
	flags := cmd.Flags()
	flags.Int("workers", 0, "number of endpoints planned concurrently")
	flags.Int("max-cases", 0, "cap on the estimated test cases of each plan (0 means no cap)")
	flags.String("min-priority", "", "drop requirements below this priority: critical, high, medium or low")
	flags.StringSlice("format", nil, "report formats: json, yaml, xlsx")
	flags.String("output", "", "directory the reports are written to")
	flags.BoolVar(&opts.noProgress, "no-progress", false, "do not show the progress bar")
	flags.BoolVar(&opts.watch, "watch", false, "re-plan whenever the local OpenAPI document changes")
	return cmd
}

// runPlan runs one analyze, plan and report cycle
func runPlan(ctx context.Context, cmd *cobra.Command, s *session, opts *planOptions) error {
	endpoints, err := s.analyze(ctx)
	if err != nil {
		return err
	}

	engine := strategy.NewEngine(strategy.WithExecutionDefaults(s.cfg.Planner.ExecutionTimeout, s.cfg.Planner.RetryAttempts))

	runnerOpts := []executor.Option{executor.WithLogger(s.log)}
	var bar *ui.ProgressBar
	if !opts.noProgress {
		bar = ui.NewProgressBar("planning", len(endpoints), cmd.ErrOrStderr())
		runnerOpts = append(runnerOpts, executor.WithProgress(bar.Update))
	}
	runner := executor.NewRunner(engine, executor.Config{
		MaxWorkers:  s.cfg.Planner.MaxWorkers,
		Constraints: s.cfg.Constraints(),
	}, runnerOpts...)

	result, err := runner.PlanAll(ctx, endpoints)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return err
	}

	rep := reporter.NewReporter(reporter.ReportingConfig{
		Formats:   s.cfg.Reporting.Formats,
		OutputDir: s.cfg.Reporting.OutputDir,
		Source:    s.cfg.Spec.Source,
	})
	report, paths, err := rep.GenerateReport(result.Plans, result.Failures)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	ui.RenderPlanSummary(out, result.Plans, result.Failures)
	for _, path := range paths {
		fmt.Fprintf(out, "Report written to %s\n", path)
	}
	s.log.Info("planning finished",
		"run_id", report.RunID,
		"plans", len(result.Plans),
		"failed", len(result.Failures),
		"estimated_cases", report.Totals.EstimatedCases,
	)
	return nil
}

// watchPlan plans once, then again after every change of the document until interrupted
func watchPlan(cmd *cobra.Command, s *session, opts *planOptions) error {
	source := s.cfg.Spec.Source
	if source == "" || parser.IsURL(source) {
		return errors.New("--watch requires a local OpenAPI document")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var mu sync.Mutex
	replan := func() {
		mu.Lock()
		defer mu.Unlock()
		if err := runPlan(ctx, cmd, s, opts); err != nil && ctx.Err() == nil {
			s.log.Error("planning failed", "error", err)
		}
	}
	replan()

	w, err := watch.New(watch.Config{
		Path:     source,
		OnChange: replan,
		Logger:   s.log,
	})
	if err != nil {
		return err
	}
	return w.Run(ctx)
}
