package strategy

import (
	"math"
	"strings"

	"api-test-planner/internal/schema"
	"api-test-planner/internal/types"
)

// maxMaterializedSize caps the strings and arrays built for length and item cases.
// Larger boundary values carry only their Size.
const maxMaterializedSize = 1024

// BoundaryValue is one concrete input at or just beyond a declared constraint
type BoundaryValue struct {
	Parameter string      `json:"parameter" yaml:"parameter"`
	Case      string      `json:"case" yaml:"case"`
	Value     interface{} `json:"value" yaml:"value"`
	// Size is the string length or item count of length and item cases
	Size       *int `json:"size,omitempty" yaml:"size,omitempty"`
	ShouldPass bool `json:"should_pass_validation" yaml:"should_pass_validation"`
}

// BoundaryValues derives the boundary inputs of param from its length, numeric and item-count constraints
func BoundaryValues(param types.ParameterInfo) []BoundaryValue {
	var out []BoundaryValue
	add := func(name string, value interface{}, pass bool) {
		out = append(out, BoundaryValue{Parameter: param.Name, Case: name, Value: value, ShouldPass: pass})
	}
	c := param.Constraints

	sized := func(name string, size int, build func(int) interface{}, pass bool) {
		var value interface{}
		if size <= maxMaterializedSize {
			value = build(size)
		}
		out = append(out, BoundaryValue{Parameter: param.Name, Case: name, Value: value, Size: &size, ShouldPass: pass})
	}

	if n := c.MinLength; n != nil && *n >= 0 {
		sized("min_length", *n, text, true)
		if *n > 0 {
			sized("below_min_length", *n-1, text, false)
		}
	}
	if n := c.MaxLength; n != nil && *n >= 0 {
		sized("max_length", *n, text, true)
		if *n < math.MaxInt {
			sized("above_max_length", *n+1, text, false)
		}
	}

	step := 0.01
	if param.DataType == string(schema.TypeInteger) {
		step = 1
	}
	if c.Minimum != nil {
		add("minimum_value", numeric(param, *c.Minimum), !isExclusive(c.ExclusiveMinimum))
		add("below_minimum", numeric(param, *c.Minimum-step), false)
	}
	if c.Maximum != nil {
		add("maximum_value", numeric(param, *c.Maximum), !isExclusive(c.ExclusiveMaximum))
		add("above_maximum", numeric(param, *c.Maximum+step), false)
	}

	if n := c.MinItems; n != nil && *n >= 0 {
		sized("min_items", *n, items, true)
		sized("below_min_items", max(*n-1, 0), items, *n == 0)
	}
	if n := c.MaxItems; n != nil && *n >= 0 {
		sized("max_items", *n, items, true)
		if *n < math.MaxInt {
			sized("above_max_items", *n+1, items, false)
		}
	}
	return out
}

// boundaryCaseNames returns the boundary test case names of param.
// Length and numeric bounds contribute four names each.
func boundaryCaseNames(param types.ParameterInfo) []string {
	var names []string
	if param.Constraints.HasLengthBounds() {
		for _, suffix := range []string{"min_length", "max_length", "below_min_length", "above_max_length"} {
			names = append(names, param.Name+"_"+suffix)
		}
	}
	if param.Constraints.HasNumericBounds() {
		for _, suffix := range []string{"minimum_value", "maximum_value", "below_minimum", "above_maximum"} {
			names = append(names, param.Name+"_"+suffix)
		}
	}
	return names
}

func numeric(param types.ParameterInfo, v float64) interface{} {
	if param.DataType != string(schema.TypeInteger) {
		return round2(v)
	}
	switch {
	case v >= math.MaxInt64:
		return int64(math.MaxInt64)
	case v <= math.MinInt64:
		return int64(math.MinInt64)
	default:
		return int64(v)
	}
}

func text(n int) interface{} {
	return strings.Repeat("a", n)
}

func items(n int) interface{} {
	out := make([]interface{}, n)
	for i := range out {
		out[i] = "item"
	}
	return out
}

func isExclusive(v interface{}) bool {
	b, ok := v.(bool)
	return ok && b
}
