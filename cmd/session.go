package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"api-test-planner/internal/analyzer"
	"api-test-planner/internal/config"
	"api-test-planner/internal/logger"
	"api-test-planner/internal/parser"
	"api-test-planner/internal/types"
)

// session holds what every command derives from its flags
type session struct {
	cfg *config.Config
	log *logger.Logger
}

// addSpecFlags registers the flags that select and load the OpenAPI document
func addSpecFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("spec", "", "path or http(s) URL of the OpenAPI document")
	flags.Bool("strict", false, "run full OpenAPI 3 validation before analysis")
	flags.Int("timeout", 0, "timeout in seconds for fetching a remote document")
}

// newSession loads the configuration and logger of cmd. A positional argument overrides --spec.
func newSession(cmd *cobra.Command, args []string) (*session, error) {
	if len(args) > 0 {
		if err := cmd.Flags().Set("spec", args[0]); err != nil {
			return nil, err
		}
	}

	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	log, err := logger.New(logger.Options{
		Level:   cfg.Logging.Level,
		Dir:     cfg.Logging.Dir,
		Console: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return &session{cfg: cfg, log: log}, nil
}

func (s *session) Close() error {
	return s.log.Close()
}

// analyze loads the configured document and analyzes its operations.
// Operations that cannot be analyzed are logged and left out.
func (s *session) analyze(ctx context.Context) ([]*types.EndpointAnalysis, error) {
	source := s.cfg.Spec.Source
	if source == "" {
		return nil, errors.New("no OpenAPI document given: pass a path or URL, --spec, or set spec.source")
	}

	loader := parser.NewLoader(
		parser.WithStrictValidation(s.cfg.Spec.StrictValidation),
		parser.WithTimeout(time.Duration(s.cfg.Spec.TimeoutSeconds)*time.Second),
		parser.WithLogger(s.log),
	)
	doc, err := loader.Load(ctx, source)
	if err != nil {
		return nil, err
	}

	endpoints, failures := analyzer.AnalyzeDocument(doc)
	for _, f := range failures {
		s.log.LogEndpointFailure(f.Method+" "+f.Path, f.Err)
	}
	s.log.Info("analyzed OpenAPI document",
		"title", doc.Title(),
		"version", doc.Version(),
		"endpoints", len(endpoints),
		"skipped", len(failures),
	)
	return endpoints, nil
}
