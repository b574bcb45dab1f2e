package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"api-test-planner/internal/parser"
)

// Exit codes for CLI commands
const (
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error
	ExitCodeError = 1
	// ExitCodeInvalidSpec indicates the input is not a usable OpenAPI document
	ExitCodeInvalidSpec = 2
)

// cfgFile is the --config flag shared by every command
var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "api-test-planner",
	Short: "Plan API test coverage from OpenAPI documents",
	Long: `api-test-planner reads an OpenAPI 3 document, analyzes every operation
and produces a prioritized test strategy plan per endpoint: which kinds of tests
to write, the concrete cases of each and the order to run them in.`,
	SilenceUsage: true,
}

// SetVersion sets the version reported by --version and the version command
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application
func GetVersion() string {
	return rootCmd.Version
}

// Execute runs the root command and exits with a code describing the failure
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "api-test-planner version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(getExitCode(err))
	}
}

func getExitCode(err error) int {
	var invalid *parser.ValidationError
	if errors.As(err, &invalid) {
		return ExitCodeInvalidSpec
	}
	return ExitCodeError
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default ./planner.yaml when present)")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("log-dir", "", "directory that receives a log file per run")

	rootCmd.AddCommand(newPlanCmd())
	rootCmd.AddCommand(newRecommendCmd())
	rootCmd.AddCommand(newTemplateCmd())
	rootCmd.AddCommand(newVersionCmd())
}
