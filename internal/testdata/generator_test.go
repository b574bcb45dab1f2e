package testdata

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"api-test-planner/internal/schema"
	"api-test-planner/internal/types"
)

func TestSampleValue(t *testing.T) {
	g := NewGenerator()

	tests := []struct {
		name     string
		fragment map[string]interface{}
		want     interface{}
	}{
		{"plain string", map[string]interface{}{"type": "string"}, "sample_string"},
		{"email", map[string]interface{}{"type": "string", "format": "email"}, "test@example.com"},
		{"enum first", map[string]interface{}{"type": "string", "enum": []interface{}{"a", "b"}}, "a"},
		{"example wins", map[string]interface{}{"type": "integer", "example": 7}, 7},
		{"min length padded", map[string]interface{}{"type": "string", "minLength": 20}, "sample_stringxxxxxxx"},
		{"max length cut", map[string]interface{}{"type": "string", "maxLength": 3}, "sam"},
		{"integer", map[string]interface{}{"type": "integer"}, 123},
		{"integer above maximum", map[string]interface{}{"type": "integer", "maximum": 10}, 10},
		{"integer below minimum", map[string]interface{}{"type": "integer", "minimum": 500}, 500},
		{"number", map[string]interface{}{"type": "number"}, 123.45},
		{"boolean", map[string]interface{}{"type": "boolean"}, true},
		{"unknown type", map[string]interface{}{"type": "file"}, "sample_string"},
		{"no type", map[string]interface{}{}, "sample_string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.SampleValue(schema.Parse(tt.fragment)))
		})
	}
}

func TestSampleValueExtremeBounds(t *testing.T) {
	g := NewGenerator()

	tests := []struct {
		name     string
		fragment map[string]interface{}
		check    func(t *testing.T, v interface{})
	}{
		{"huge min length", map[string]interface{}{"type": "string", "minLength": int64(math.MaxInt64)}, func(t *testing.T, v interface{}) {
			assert.Len(t, v, maxSampleSize)
		}},
		{"negative max length", map[string]interface{}{"type": "string", "maxLength": -1}, func(t *testing.T, v interface{}) {
			assert.Equal(t, "sample_string", v)
		}},
		{"huge min items", map[string]interface{}{"type": "array", "minItems": float64(1e18), "items": map[string]interface{}{"type": "boolean"}}, func(t *testing.T, v interface{}) {
			assert.Len(t, v, maxSampleSize)
		}},
		{"integer maximum below int range", map[string]interface{}{"type": "integer", "maximum": -1e300}, func(t *testing.T, v interface{}) {
			assert.Equal(t, math.MinInt, v)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v interface{}
			require.NotPanics(t, func() { v = g.SampleValue(schema.Parse(tt.fragment)) })
			tt.check(t, v)
		})
	}
}

func TestSampleValueComposite(t *testing.T) {
	g := NewGenerator()
	s := schema.Parse(map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"name": map[string]interface{}{"type": "string"},
			"tags": map[string]interface{}{
				"type":     "array",
				"minItems": 2,
				"items":    map[string]interface{}{"type": "string", "format": "uuid"},
			},
		},
	})

	value, ok := g.SampleValue(s).(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "sample_string", value["name"])
	assert.Len(t, value["tags"], 2)
	assert.Equal(t, "sample_string", g.SampleValue(nil))
}

func TestGenerateTemplate(t *testing.T) {
	g := NewGenerator()
	endpoint := &types.EndpointAnalysis{
		OperationID: "updatePet",
		Method:      "PUT",
		Path:        "/pets/{petId}",
		Parameters: []types.ParameterInfo{
			{Name: "petId", Location: types.LocationPath, DataType: "integer", Schema: schema.Parse(map[string]interface{}{"type": "integer"})},
			{Name: "dryRun", Location: types.LocationQuery, DataType: "boolean", Schema: schema.Parse(map[string]interface{}{"type": "boolean"})},
			{Name: "X-Trace", Location: types.LocationHeader, DataType: "string", Examples: []interface{}{"abc"}},
		},
		RequestBody: &types.RequestBodyInfo{
			ContentType: "application/json",
			Schema: schema.Parse(map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{"name": map[string]interface{}{"type": "string"}},
			}),
		},
	}

	dir := filepath.Join(t.TempDir(), "out")
	path, err := g.GenerateTemplate([]*types.EndpointAnalysis{endpoint}, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, TemplateFileName), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var template TestDataTemplate
	require.NoError(t, json.Unmarshal(data, &template))
	entry, ok := template.Endpoints["PUT /pets/{petId}"]
	require.True(t, ok)
	assert.Equal(t, "updatePet", entry.OperationID)
	assert.EqualValues(t, 123, entry.PathParams["petId"])
	assert.Equal(t, true, entry.QueryParams["dryRun"])
	assert.Equal(t, "abc", entry.Headers["X-Trace"])
	assert.Equal(t, "application/json", entry.Headers["Content-Type"])
	assert.Equal(t, map[string]interface{}{"name": "sample_string"}, entry.Body)
}
