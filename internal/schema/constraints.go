package schema

// Constraints holds the validation keywords of a fragment.
// A nil field means the keyword was not declared.
type Constraints struct {
	MinLength        *int          `json:"min_length,omitempty" yaml:"min_length,omitempty"`
	MaxLength        *int          `json:"max_length,omitempty" yaml:"max_length,omitempty"`
	Pattern          *string       `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Minimum          *float64      `json:"minimum,omitempty" yaml:"minimum,omitempty"`
	Maximum          *float64      `json:"maximum,omitempty" yaml:"maximum,omitempty"`
	ExclusiveMinimum interface{}   `json:"exclusive_minimum,omitempty" yaml:"exclusive_minimum,omitempty"` // bool in OAS 3.0, number in 3.1
	ExclusiveMaximum interface{}   `json:"exclusive_maximum,omitempty" yaml:"exclusive_maximum,omitempty"` // bool in OAS 3.0, number in 3.1
	MultipleOf       *float64      `json:"multiple_of,omitempty" yaml:"multiple_of,omitempty"`
	MinItems         *int          `json:"min_items,omitempty" yaml:"min_items,omitempty"`
	MaxItems         *int          `json:"max_items,omitempty" yaml:"max_items,omitempty"`
	UniqueItems      *bool         `json:"unique_items,omitempty" yaml:"unique_items,omitempty"`
	Enum             []interface{} `json:"enum,omitempty" yaml:"enum,omitempty"`
}

func extractConstraints(raw map[string]interface{}) Constraints {
	var c Constraints
	c.MinLength = countField(raw, "minLength")
	c.MaxLength = countField(raw, "maxLength")
	if v, ok := raw["pattern"].(string); ok {
		c.Pattern = &v
	}
	c.Minimum = floatField(raw, "minimum")
	c.Maximum = floatField(raw, "maximum")
	if v, ok := raw["exclusiveMinimum"]; ok && v != nil {
		c.ExclusiveMinimum = v
	}
	if v, ok := raw["exclusiveMaximum"]; ok && v != nil {
		c.ExclusiveMaximum = v
	}
	c.MultipleOf = floatField(raw, "multipleOf")
	c.MinItems = countField(raw, "minItems")
	c.MaxItems = countField(raw, "maxItems")
	if v, ok := raw["uniqueItems"].(bool); ok {
		c.UniqueItems = &v
	}
	if v, ok := raw["enum"].([]interface{}); ok {
		c.Enum = v
	}
	return c
}

// IsEmpty reports whether no constraint was declared
func (c Constraints) IsEmpty() bool {
	return len(c.Map()) == 0
}

// HasLengthBounds reports whether minLength or maxLength was declared
func (c Constraints) HasLengthBounds() bool {
	return c.MinLength != nil || c.MaxLength != nil
}

// HasNumericBounds reports whether minimum or maximum was declared
func (c Constraints) HasNumericBounds() bool {
	return c.Minimum != nil || c.Maximum != nil
}

// HasRange reports whether any of the range keywords was declared
func (c Constraints) HasRange() bool {
	return c.HasNumericBounds() || c.ExclusiveMinimum != nil || c.ExclusiveMaximum != nil
}

// HasItemBounds reports whether minItems or maxItems was declared
func (c Constraints) HasItemBounds() bool {
	return c.MinItems != nil || c.MaxItems != nil
}

// Map returns the declared constraints keyed by snake_case name
func (c Constraints) Map() map[string]interface{} {
	m := make(map[string]interface{})
	if c.MinLength != nil {
		m["min_length"] = *c.MinLength
	}
	if c.MaxLength != nil {
		m["max_length"] = *c.MaxLength
	}
	if c.Pattern != nil {
		m["pattern"] = *c.Pattern
	}
	if c.Minimum != nil {
		m["minimum"] = *c.Minimum
	}
	if c.Maximum != nil {
		m["maximum"] = *c.Maximum
	}
	if c.ExclusiveMinimum != nil {
		m["exclusive_minimum"] = c.ExclusiveMinimum
	}
	if c.ExclusiveMaximum != nil {
		m["exclusive_maximum"] = c.ExclusiveMaximum
	}
	if c.MultipleOf != nil {
		m["multiple_of"] = *c.MultipleOf
	}
	if c.MinItems != nil {
		m["min_items"] = *c.MinItems
	}
	if c.MaxItems != nil {
		m["max_items"] = *c.MaxItems
	}
	if c.UniqueItems != nil {
		m["unique_items"] = *c.UniqueItems
	}
	if c.Enum != nil {
		m["enum"] = c.Enum
	}
	return m
}

func countField(raw map[string]interface{}, key string) *int {
	f := floatField(raw, key)
	if f == nil {
		return nil
	}
	i := int(*f)
	return &i
}

func floatField(raw map[string]interface{}, key string) *float64 {
	var f float64
	switch v := raw[key].(type) {
	case int:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint64:
		f = float64(v)
	case float32:
		f = float64(v)
	case float64:
		f = v
	default:
		return nil
	}
	return &f
}
