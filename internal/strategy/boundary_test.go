package strategy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"api-test-planner/internal/schema"
	"api-test-planner/internal/types"
)

func boundaryCases(values []BoundaryValue) map[string]BoundaryValue {
	out := make(map[string]BoundaryValue, len(values))
	for _, v := range values {
		out[v.Case] = v
	}
	return out
}

func TestBoundaryValuesLength(t *testing.T) {
	p := param("code", types.LocationQuery, "string", true, schema.Constraints{
		MinLength: intPtr(3),
		MaxLength: intPtr(5),
	})

	cases := boundaryCases(BoundaryValues(p))
	assert.Len(t, cases, 4)
	assert.Equal(t, BoundaryValue{Parameter: "code", Case: "min_length", Value: "aaa", Size: intPtr(3), ShouldPass: true}, cases["min_length"])
	assert.Equal(t, "aa", cases["below_min_length"].Value)
	assert.False(t, cases["below_min_length"].ShouldPass)
	assert.Equal(t, "aaaaa", cases["max_length"].Value)
	assert.Equal(t, "aaaaaa", cases["above_max_length"].Value)
	assert.False(t, cases["above_max_length"].ShouldPass)
}

func TestBoundaryValuesZeroMinLength(t *testing.T) {
	p := param("note", types.LocationQuery, "string", false, schema.Constraints{MinLength: intPtr(0)})

	cases := boundaryCases(BoundaryValues(p))
	assert.Contains(t, cases, "min_length")
	assert.NotContains(t, cases, "below_min_length")
}

func TestBoundaryValuesNumeric(t *testing.T) {
	tests := []struct {
		name     string
		dataType string
		below    interface{}
		above    interface{}
	}{
		{"integer", "integer", int64(-1), int64(101)},
		{"number", "number", -0.01, 100.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := param("limit", types.LocationQuery, tt.dataType, false, schema.Constraints{
				Minimum: floatPtr(0),
				Maximum: floatPtr(100),
			})

			cases := boundaryCases(BoundaryValues(p))
			assert.Len(t, cases, 4)
			assert.True(t, cases["minimum_value"].ShouldPass)
			assert.True(t, cases["maximum_value"].ShouldPass)
			assert.Equal(t, tt.below, cases["below_minimum"].Value)
			assert.Equal(t, tt.above, cases["above_maximum"].Value)
			assert.False(t, cases["below_minimum"].ShouldPass)
			assert.False(t, cases["above_maximum"].ShouldPass)
		})
	}
}

func TestBoundaryValuesExclusiveMinimum(t *testing.T) {
	p := param("ratio", types.LocationQuery, "number", false, schema.Constraints{
		Minimum:          floatPtr(0),
		ExclusiveMinimum: true,
	})

	cases := boundaryCases(BoundaryValues(p))
	assert.False(t, cases["minimum_value"].ShouldPass)
}

func TestBoundaryValuesItems(t *testing.T) {
	tests := []struct {
		name      string
		minItems  int
		belowLen  int
		belowPass bool
	}{
		{"positive minimum", 2, 1, false},
		{"zero minimum", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := param("ids", types.LocationQuery, "array", false, schema.Constraints{
				MinItems: intPtr(tt.minItems),
				MaxItems: intPtr(3),
			})

			cases := boundaryCases(BoundaryValues(p))
			assert.Len(t, cases["min_items"].Value, tt.minItems)
			assert.Len(t, cases["below_min_items"].Value, tt.belowLen)
			assert.Equal(t, tt.belowPass, cases["below_min_items"].ShouldPass)
			assert.Len(t, cases["above_max_items"].Value, 4)
			assert.False(t, cases["above_max_items"].ShouldPass)
		})
	}
}

func TestBoundaryValuesExtremeBounds(t *testing.T) {
	tests := []struct {
		name        string
		dataType    string
		constraints schema.Constraints
		sizes       map[string]int
		materialize []string
	}{
		{
			name:        "max length at int range",
			dataType:    "string",
			constraints: schema.Constraints{MaxLength: intPtr(math.MaxInt)},
			sizes:       map[string]int{"max_length": math.MaxInt},
		},
		{
			name:        "max length above materialized size",
			dataType:    "string",
			constraints: schema.Constraints{MinLength: intPtr(2), MaxLength: intPtr(2147483647)},
			sizes:       map[string]int{"min_length": 2, "below_min_length": 1, "max_length": 2147483647, "above_max_length": 2147483648},
			materialize: []string{"min_length", "below_min_length"},
		},
		{
			name:        "negative length bounds",
			dataType:    "string",
			constraints: schema.Constraints{MinLength: intPtr(-1), MaxLength: intPtr(-5)},
			sizes:       map[string]int{},
		},
		{
			name:        "huge and negative item bounds",
			dataType:    "array",
			constraints: schema.Constraints{MinItems: intPtr(-3), MaxItems: intPtr(math.MaxInt)},
			sizes:       map[string]int{"max_items": math.MaxInt},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := param("field", types.LocationQuery, tt.dataType, false, tt.constraints)

			var values []BoundaryValue
			assert.NotPanics(t, func() { values = BoundaryValues(p) })
			cases := boundaryCases(values)
			require.Len(t, cases, len(tt.sizes))

			for name, size := range tt.sizes {
				require.Contains(t, cases, name)
				require.NotNil(t, cases[name].Size, name)
				assert.Equal(t, size, *cases[name].Size, name)
				if size > maxMaterializedSize {
					assert.Nil(t, cases[name].Value, name)
				}
			}
			for _, name := range tt.materialize {
				assert.Len(t, cases[name].Value, *cases[name].Size, name)
			}
		})
	}
}

func TestBoundaryValuesClampIntegerBounds(t *testing.T) {
	p := param("id", types.LocationQuery, "integer", false, schema.Constraints{
		Minimum: floatPtr(-math.MaxFloat64),
		Maximum: floatPtr(math.MaxFloat64),
	})

	cases := boundaryCases(BoundaryValues(p))
	assert.Equal(t, int64(math.MinInt64), cases["below_minimum"].Value)
	assert.Equal(t, int64(math.MaxInt64), cases["above_maximum"].Value)
}

func TestBoundaryValuesUnconstrained(t *testing.T) {
	p := param("q", types.LocationQuery, "string", false, schema.Constraints{})
	assert.Empty(t, BoundaryValues(p))
}
