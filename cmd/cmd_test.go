package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"api-test-planner/internal/parser"
	"api-test-planner/internal/strategy"
	"api-test-planner/internal/testdata"
	"api-test-planner/internal/types"
)

const petstoreSpec = `
openapi: 3.0.3
info:
  title: Petstore
  version: 1.0.0
paths:
  /pets:
    get:
      operationId: listPets
      parameters:
        - name: limit
          in: query
          schema:
            type: integer
            minimum: 1
            maximum: 100
      responses:
        '200':
          description: ok
    post:
      operationId: createPet
      requestBody:
        required: true
        content:
          application/json:
            schema:
              type: object
              required: [name]
              properties:
                name:
                  type: string
                  maxLength: 64
                tag:
                  type: string
      responses:
        '201':
          description: created
`

func writeSpec(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "openapi.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func executeCommand(c *cobra.Command, args ...string) (string, string, error) {
	var out, errOut bytes.Buffer
	c.SetOut(&out)
	c.SetErr(&errOut)
	c.SetArgs(args)
	err := c.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "api-test-planner", rootCmd.Use)
	assert.True(t, rootCmd.SilenceUsage)

	names := make([]string, 0, len(rootCmd.Commands()))
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"plan", "recommend", "template", "version"})

	for _, flag := range []string{"config", "log-level", "log-dir"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestVersionCommand(t *testing.T) {
	SetVersion("1.2.3-test")
	assert.Equal(t, "1.2.3-test", GetVersion())

	out, _, err := executeCommand(newVersionCmd())
	require.NoError(t, err)
	assert.Equal(t, "api-test-planner version 1.2.3-test\n", out)
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"generic", errors.New("boom"), ExitCodeError},
		{"invalid document", &parser.ValidationError{Missing: []string{"paths"}}, ExitCodeInvalidSpec},
		{"wrapped invalid document", fmt.Errorf("load: %w", &parser.ValidationError{Reason: "bad"}), ExitCodeInvalidSpec},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, getExitCode(tt.err))
		})
	}
}

func TestPlanCommand(t *testing.T) {
	spec := writeSpec(t, petstoreSpec)
	outDir := t.TempDir()

	out, _, err := executeCommand(newPlanCmd(), spec, "--output", outDir, "--format", "json,yaml", "--no-progress")
	require.NoError(t, err)

	assert.Contains(t, out, "listPets")
	assert.Contains(t, out, "createPet")
	assert.Contains(t, out, "Report written to")

	jsonReports, err := filepath.Glob(filepath.Join(outDir, "plans_*.json"))
	require.NoError(t, err)
	require.Len(t, jsonReports, 1)
	yamlReports, err := filepath.Glob(filepath.Join(outDir, "plans_*.yaml"))
	require.NoError(t, err)
	assert.Len(t, yamlReports, 1)

	data, err := os.ReadFile(jsonReports[0])
	require.NoError(t, err)
	var report struct {
		Source string                    `json:"source"`
		Plans  []*types.TestStrategyPlan `json:"plans"`
	}
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, spec, report.Source)
	require.Len(t, report.Plans, 2)
	for _, plan := range report.Plans {
		require.NotEmpty(t, plan.Requirements)
		assert.Equal(t, types.StrategyBasicFunctionality, plan.Requirements[0].Strategy)
	}
}

func TestPlanCommandAppliesConstraints(t *testing.T) {
	spec := writeSpec(t, petstoreSpec)
	outDir := t.TempDir()

	_, _, err := executeCommand(newPlanCmd(), "--spec", spec, "--output", outDir, "--min-priority", "critical", "--no-progress")
	require.NoError(t, err)

	reports, err := filepath.Glob(filepath.Join(outDir, "plans_*.json"))
	require.NoError(t, err)
	require.Len(t, reports, 1)

	data, err := os.ReadFile(reports[0])
	require.NoError(t, err)
	var report struct {
		Plans []*types.TestStrategyPlan `json:"plans"`
	}
	require.NoError(t, json.Unmarshal(data, &report))
	for _, plan := range report.Plans {
		for _, req := range plan.Requirements {
			assert.Equal(t, types.PriorityCritical, req.Priority, "%s %s", plan.EndpointID, req.Strategy)
		}
	}
}

func TestPlanCommandErrors(t *testing.T) {
	t.Run("no document", func(t *testing.T) {
		_, _, err := executeCommand(newPlanCmd(), "--output", t.TempDir(), "--no-progress")
		assert.ErrorContains(t, err, "no OpenAPI document given")
	})

	t.Run("invalid document", func(t *testing.T) {
		spec := writeSpec(t, "openapi: 3.0.3\ninfo:\n  title: x\n")
		_, _, err := executeCommand(newPlanCmd(), spec, "--output", t.TempDir(), "--no-progress")
		require.Error(t, err)
		assert.Equal(t, ExitCodeInvalidSpec, getExitCode(err))
	})

	t.Run("bad priority", func(t *testing.T) {
		spec := writeSpec(t, petstoreSpec)
		_, _, err := executeCommand(newPlanCmd(), spec, "--min-priority", "urgent", "--no-progress")
		assert.ErrorContains(t, err, "min_priority")
	})

	t.Run("watch remote document", func(t *testing.T) {
		_, _, err := executeCommand(newPlanCmd(), "https://example.com/openapi.json", "--watch", "--no-progress")
		assert.ErrorContains(t, err, "--watch requires a local OpenAPI document")
	})
}

func TestRecommendCommand(t *testing.T) {
	spec := writeSpec(t, petstoreSpec)

	out, _, err := executeCommand(newRecommendCmd(), spec, "--endpoint", "POST /pets", "--json")
	require.NoError(t, err)

	var recs []strategy.Recommendations
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "createPet", recs[0].EndpointID)
	assert.NotEmpty(t, recs[0].HighPriority)

	out, _, err = executeCommand(newRecommendCmd(), spec)
	require.NoError(t, err)
	assert.Contains(t, out, "listPets")
	assert.Contains(t, out, "createPet")

	_, _, err = executeCommand(newRecommendCmd(), spec, "--endpoint", "deletePet")
	assert.ErrorContains(t, err, `no endpoint matches "deletePet"`)
}

func TestTemplateCommand(t *testing.T) {
	spec := writeSpec(t, petstoreSpec)
	dir := t.TempDir()

	out, _, err := executeCommand(newTemplateCmd(), spec, "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Test data template for 2 endpoints")

	data, err := os.ReadFile(filepath.Join(dir, testdata.TemplateFileName))
	require.NoError(t, err)
	var template testdata.TestDataTemplate
	require.NoError(t, json.Unmarshal(data, &template))
	assert.Contains(t, template.Endpoints, "GET /pets")
	assert.Contains(t, template.Endpoints, "POST /pets")
}

func TestFilterEndpoints(t *testing.T) {
	endpoints := []*types.EndpointAnalysis{
		{OperationID: "listPets", Method: "GET", Path: "/pets"},
		{OperationID: "createPet", Method: "POST", Path: "/pets"},
	}

	assert.Len(t, filterEndpoints(endpoints, ""), 2)
	assert.Equal(t, "createPet", filterEndpoints(endpoints, "createPet")[0].OperationID)
	assert.Equal(t, "listPets", filterEndpoints(endpoints, "get /pets")[0].OperationID)
	assert.Empty(t, filterEndpoints(endpoints, "deletePet"))
}
