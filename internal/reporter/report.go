package reporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"api-test-planner/internal/executor"
	"api-test-planner/internal/types"
)

// Supported report formats
const (
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatExcel = "xlsx"
)

// Formats lists every supported report format
var Formats = []string{FormatJSON, FormatYAML, FormatExcel}

// IsSupportedFormat reports whether format names a known report format
func IsSupportedFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// Report represents one planning run over a spec
type Report struct {
	RunID     string                    `json:"run_id" yaml:"run_id"`
	Timestamp time.Time                 `json:"timestamp" yaml:"timestamp"`
	Source    string                    `json:"source,omitempty" yaml:"source,omitempty"`
	Totals    Totals                    `json:"totals" yaml:"totals"`
	Failures  []FailedEndpoint          `json:"failures,omitempty" yaml:"failures,omitempty"`
	Plans     []*types.TestStrategyPlan `json:"plans" yaml:"plans"`
}

// Totals aggregates the plans of a report
type Totals struct {
	Endpoints      int                        `json:"endpoints" yaml:"endpoints"`
	Failed         int                        `json:"failed" yaml:"failed"`
	Requirements   int                        `json:"requirements" yaml:"requirements"`
	EstimatedCases int                        `json:"estimated_cases" yaml:"estimated_cases"`
	ByPriority     map[types.TestPriority]int `json:"by_priority" yaml:"by_priority"`
}

// FailedEndpoint is an endpoint that has no plan in the report
type FailedEndpoint struct {
	EndpointID string `json:"endpoint_id" yaml:"endpoint_id"`
	Error      string `json:"error" yaml:"error"`
}

// ReportingConfig holds the configuration for reporting
type ReportingConfig struct {
	Formats   []string
	OutputDir string
	Source    string
}

// Reporter handles the generation of plan reports
type Reporter struct {
	config ReportingConfig
	now    func() time.Time
}

// NewReporter creates a new instance of Reporter
func NewReporter(config ReportingConfig) *Reporter {
	return &Reporter{
		config: config,
		now:    time.Now,
	}
}

// BuildReport assembles the report of one run without writing it
func (r *Reporter) BuildReport(plans []*types.TestStrategyPlan, failures []executor.Failure) *Report {
	report := &Report{
		RunID:     uuid.NewString(),
		Timestamp: r.now(),
		Source:    r.config.Source,
		Plans:     plans,
		Totals: Totals{
			Endpoints:  len(plans) + len(failures),
			Failed:     len(failures),
			ByPriority: make(map[types.TestPriority]int, len(types.Priorities)),
		},
	}
	if report.Plans == nil {
		report.Plans = []*types.TestStrategyPlan{}
	}

	for _, p := range types.Priorities {
		report.Totals.ByPriority[p] = 0
	}
	for _, plan := range plans {
		report.Totals.Requirements += len(plan.Requirements)
		report.Totals.EstimatedCases += plan.TotalEstimatedCases
		for _, req := range plan.Requirements {
			report.Totals.ByPriority[req.Priority]++
		}
	}
	for _, f := range failures {
		report.Failures = append(report.Failures, FailedEndpoint{EndpointID: f.EndpointID, Error: f.Err.Error()})
	}
	return report
}

// GenerateReport writes the report of one run in every configured format and returns the written paths
func (r *Reporter) GenerateReport(plans []*types.TestStrategyPlan, failures []executor.Failure) (*Report, []string, error) {
	report := r.BuildReport(plans, failures)

	if err := os.MkdirAll(r.config.OutputDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var paths []string
	for _, format := range r.config.Formats {
		format = strings.ToLower(strings.TrimSpace(format))
		path := filepath.Join(r.config.OutputDir, reportFileName(report, format))

		var err error
		switch format {
		case FormatJSON:
			err = writeJSON(path, report)
		case FormatYAML:
			err = writeYAML(path, report)
		case FormatExcel:
			err = writeExcel(path, report)
		default:
			err = fmt.Errorf("unsupported format %q", format)
		}
		if err != nil {
			return nil, paths, fmt.Errorf("failed to generate %s report: %w", format, err)
		}
		paths = append(paths, path)
	}
	return report, paths, nil
}

// reportFileName names a report by its timestamp and the first block of its run id,
// so runs within the same second do not overwrite each other
func reportFileName(report *Report, format string) string {
	id, _, _ := strings.Cut(report.RunID, "-")
	return fmt.Sprintf("plans_%s_%s.%s", report.Timestamp.Format("20060102_150405"), id, format)
}

func writeJSON(path string, report *Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func writeYAML(path string, report *Report) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return err
	}
	return enc.Close()
}
