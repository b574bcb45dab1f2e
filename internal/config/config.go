package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"api-test-planner/internal/logger"
	"api-test-planner/internal/reporter"
	"api-test-planner/internal/strategy"
	"api-test-planner/internal/types"
)

// DefaultConfigFile is read when no config file is given; it may be absent
const DefaultConfigFile = "planner.yaml"

// EnvPrefix prefixes environment overrides, e.g. PLANNER_REPORTING_OUTPUT_DIR
const EnvPrefix = "PLANNER"

// Config holds the application configuration
type Config struct {
	Spec      SpecConfig      `mapstructure:"spec"`
	Planner   PlannerConfig   `mapstructure:"planner"`
	Reporting ReportingConfig `mapstructure:"reporting"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// SpecConfig holds spec loading configuration
type SpecConfig struct {
	Source           string `mapstructure:"source"`
	StrictValidation bool   `mapstructure:"strict_validation"`
	TimeoutSeconds   int    `mapstructure:"timeout_seconds"`
}

// PlannerConfig holds planning configuration
type PlannerConfig struct {
	MaxWorkers int `mapstructure:"max_workers"`
	// MaxTestCases caps the estimated cases of each plan; 0 means no cap
	MaxTestCases int    `mapstructure:"max_test_cases"`
	MinPriority  string `mapstructure:"min_priority"`
	// ExecutionTimeout and RetryAttempts are copied into every plan's execution settings
	ExecutionTimeout int `mapstructure:"execution_timeout_seconds"`
	RetryAttempts    int `mapstructure:"retry_attempts"`
}

// ReportingConfig holds reporting configuration
type ReportingConfig struct {
	Formats   []string `mapstructure:"formats"`
	OutputDir string   `mapstructure:"output_dir"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	Dir   string `mapstructure:"dir"`
}

// flagKeys maps command line flags onto config keys
var flagKeys = map[string]string{
	"spec":         "spec.source",
	"strict":       "spec.strict_validation",
	"timeout":      "spec.timeout_seconds",
	"workers":      "planner.max_workers",
	"max-cases":    "planner.max_test_cases",
	"min-priority": "planner.min_priority",
	"format":       "reporting.formats",
	"output":       "reporting.output_dir",
	"log-level":    "logging.level",
	"log-dir":      "logging.dir",
}

// Load reads the configuration. Values come from, highest precedence first: flags that were set,
// PLANNER_* environment variables, the config file, then defaults. An empty configPath reads
// DefaultConfigFile when it exists. flags may be nil.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	optional := configPath == ""
	if optional {
		configPath = DefaultConfigFile
	}
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		if !optional || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if flag := flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults configures sensible default values
func setDefaults(v *viper.Viper) {
	v.SetDefault("spec.source", "")
	v.SetDefault("spec.strict_validation", false)
	v.SetDefault("spec.timeout_seconds", 30)

	v.SetDefault("planner.max_workers", 5)
	v.SetDefault("planner.max_test_cases", 0)
	v.SetDefault("planner.min_priority", string(types.PriorityLow))
	v.SetDefault("planner.execution_timeout_seconds", 30)
	v.SetDefault("planner.retry_attempts", 3)

	v.SetDefault("reporting.formats", []string{reporter.FormatJSON})
	v.SetDefault("reporting.output_dir", "reports")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.dir", "")
}

func (c *Config) normalize() {
	formats := make([]string, 0, len(c.Reporting.Formats))
	for _, f := range c.Reporting.Formats {
		for _, part := range strings.Split(f, ",") {
			if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
				formats = append(formats, part)
			}
		}
	}
	c.Reporting.Formats = formats
	c.Planner.MinPriority = strings.ToLower(strings.TrimSpace(c.Planner.MinPriority))
}

// Validate reports the first invalid setting
func (c *Config) Validate() error {
	if c.Planner.MaxWorkers <= 0 {
		return fmt.Errorf("planner.max_workers must be positive, got %d", c.Planner.MaxWorkers)
	}
	if c.Planner.MaxTestCases < 0 {
		return fmt.Errorf("planner.max_test_cases must not be negative, got %d", c.Planner.MaxTestCases)
	}
	if c.Planner.MinPriority != "" {
		if _, err := types.ParsePriority(c.Planner.MinPriority); err != nil {
			return fmt.Errorf("planner.min_priority: %w", err)
		}
	}
	if c.Spec.TimeoutSeconds <= 0 {
		return fmt.Errorf("spec.timeout_seconds must be positive, got %d", c.Spec.TimeoutSeconds)
	}
	if len(c.Reporting.Formats) == 0 {
		return errors.New("reporting.formats must name at least one format")
	}
	for _, f := range c.Reporting.Formats {
		if !reporter.IsSupportedFormat(f) {
			return fmt.Errorf("reporting.formats: unsupported format %q (expected one of %s)", f, strings.Join(reporter.Formats, ", "))
		}
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

// Constraints returns the optimization constraints of the planner settings, or nil when plans
// are used as generated
func (c *Config) Constraints() *strategy.Constraints {
	constraints := &strategy.Constraints{}
	if c.Planner.MaxTestCases > 0 {
		limit := c.Planner.MaxTestCases
		constraints.MaxTestCases = &limit
	}
	if c.Planner.MinPriority != "" && c.Planner.MinPriority != string(types.PriorityLow) {
		constraints.MinPriority = c.Planner.MinPriority
	}
	if constraints.IsEmpty() {
		return nil
	}
	return constraints
}
