package testdata

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"api-test-planner/internal/schema"
	"api-test-planner/internal/types"
)

// TemplateFileName is the file GenerateTemplate writes into its output directory
const TemplateFileName = "testdata_template.json"

// TestDataTemplate represents the structure of the test data file
type TestDataTemplate struct {
	Endpoints map[string]EndpointTestData `json:"endpoints"`
}

// EndpointTestData represents test data for a specific endpoint and method
type EndpointTestData struct {
	OperationID string                 `json:"operation_id"`
	PathParams  map[string]interface{} `json:"path_params,omitempty"`
	QueryParams map[string]interface{} `json:"query_params,omitempty"`
	Body        interface{}            `json:"body,omitempty"`
	Headers     map[string]string      `json:"headers,omitempty"`
}

// Generator produces representative values for schema fragments
type Generator struct{}

// NewGenerator creates a new instance of Generator
func NewGenerator() *Generator {
	return &Generator{}
}

// GenerateTemplate writes a test data template for endpoints into outputDir and returns its path
func (g *Generator) GenerateTemplate(endpoints []*types.EndpointAnalysis, outputDir string) (string, error) {
	template := TestDataTemplate{
		Endpoints: make(map[string]EndpointTestData, len(endpoints)),
	}
	for _, endpoint := range endpoints {
		template.Endpoints[endpoint.Key()] = g.EndpointData(endpoint)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	outputPath := filepath.Join(outputDir, TemplateFileName)
	data, err := json.MarshalIndent(template, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal template: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write template file: %w", err)
	}
	return outputPath, nil
}

// EndpointData builds the sample request data of one endpoint
func (g *Generator) EndpointData(endpoint *types.EndpointAnalysis) EndpointTestData {
	data := EndpointTestData{
		OperationID: endpoint.OperationID,
		PathParams:  make(map[string]interface{}),
		QueryParams: make(map[string]interface{}),
		Headers: map[string]string{
			"Accept": "application/json",
		},
	}

	for _, param := range endpoint.Parameters {
		value := g.parameterValue(param)
		switch param.Location {
		case types.LocationPath:
			data.PathParams[param.Name] = value
		case types.LocationQuery:
			data.QueryParams[param.Name] = value
		case types.LocationHeader:
			data.Headers[param.Name] = fmt.Sprint(value)
		}
	}

	if endpoint.RequestBody != nil {
		data.Headers["Content-Type"] = endpoint.RequestBody.ContentType
		data.Body = g.SampleValue(endpoint.RequestBody.Schema)
	}
	return data
}

func (g *Generator) parameterValue(param types.ParameterInfo) interface{} {
	if len(param.Examples) > 0 {
		return param.Examples[0]
	}
	return g.SampleValue(param.Schema)
}

// SampleValue returns a value that satisfies s as far as its type, format, enum and bounds allow.
// Fragments without a known type produce a string.
func (g *Generator) SampleValue(s *schema.Schema) interface{} {
	return g.sample(s, 0)
}

func (g *Generator) sample(s *schema.Schema, depth int) interface{} {
	if s == nil {
		return "sample_string"
	}
	if s.Example != nil {
		return s.Example
	}
	if s.Default != nil {
		return s.Default
	}
	if len(s.Constraints.Enum) > 0 {
		return s.Constraints.Enum[0]
	}

	switch s.Type {
	case schema.TypeInteger:
		return integerSample(s)
	case schema.TypeNumber:
		return numberSample(s)
	case schema.TypeBoolean:
		return true
	case schema.TypeArray:
		if depth >= maxSampleDepth {
			return []interface{}{}
		}
		count := 1
		if s.Constraints.MinItems != nil && *s.Constraints.MinItems > count {
			count = min(*s.Constraints.MinItems, maxSampleSize)
		}
		items := make([]interface{}, 0, count)
		for i := 0; i < count; i++ {
			items = append(items, g.sample(s.Items, depth+1))
		}
		return items
	case schema.TypeObject:
		result := make(map[string]interface{}, len(s.Properties))
		if depth >= maxSampleDepth {
			return result
		}
		for _, name := range s.PropertyNames() {
			result[name] = g.sample(s.Properties[name], depth+1)
		}
		return result
	default:
		return stringSample(s)
	}
}

const (
	// maxSampleDepth stops sample generation for deeply nested or cyclic schemas
	maxSampleDepth = 8
	// maxSampleSize caps sample string lengths and array item counts
	maxSampleSize = 1024
)

func stringSample(s *schema.Schema) interface{} {
	switch s.Format {
	case "email":
		return "test@example.com"
	case "date":
		return "2024-01-01"
	case "date-time":
		return "2024-01-01T12:00:00Z"
	case "uuid":
		return "123e4567-e89b-12d3-a456-426614174000"
	case "uri", "url":
		return "https://example.com"
	case "ipv4":
		return "192.168.1.1"
	case "ipv6":
		return "2001:db8::1"
	case "hostname":
		return "example.com"
	}

	value := "sample_string"
	if s.Constraints.Pattern != nil {
		// a simple string that matches common patterns
		switch {
		case strings.Contains(*s.Constraints.Pattern, "\\d"):
			value = "12345"
		case strings.Contains(*s.Constraints.Pattern, "[a-zA-Z]"):
			value = "abc"
		}
	}
	if c := s.Constraints; c.MaxLength != nil && *c.MaxLength >= 0 && len(value) > *c.MaxLength {
		value = value[:*c.MaxLength]
	}
	if c := s.Constraints; c.MinLength != nil && len(value) < *c.MinLength {
		value += strings.Repeat("x", min(*c.MinLength, maxSampleSize)-len(value))
	}
	return value
}

func integerSample(s *schema.Schema) interface{} {
	value := 123
	if s.Format == "int64" {
		value = 123456789
	}
	if c := s.Constraints; c.Maximum != nil && float64(value) > *c.Maximum {
		value = clampInt(*c.Maximum)
	}
	if c := s.Constraints; c.Minimum != nil && float64(value) < *c.Minimum {
		value = clampInt(*c.Minimum)
	}
	return value
}

func numberSample(s *schema.Schema) interface{} {
	value := 123.45
	if s.Format == "double" {
		value = 123.456789
	}
	if c := s.Constraints; c.Maximum != nil && value > *c.Maximum {
		value = *c.Maximum
	}
	if c := s.Constraints; c.Minimum != nil && value < *c.Minimum {
		value = *c.Minimum
	}
	return value
}

func clampInt(v float64) int {
	switch {
	case v >= math.MaxInt:
		return math.MaxInt
	case v <= math.MinInt:
		return math.MinInt
	default:
		return int(v)
	}
}
