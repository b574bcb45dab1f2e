package schema

import (
	"encoding/json"
	"sort"
)

// Type is the JSON-Schema type of a fragment
type Type string

const (
	TypeUnknown Type = ""
	TypeString  Type = "string"
	TypeInteger Type = "integer"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeArray   Type = "array"
	TypeObject  Type = "object"
)

// maxDepth bounds recursion through properties and items so cyclic $refs terminate
const maxDepth = 16

// Resolver resolves a "$ref" fragment into the fragment it points to.
// Implementations return an empty map when the reference cannot be followed.
type Resolver interface {
	Resolve(fragment map[string]interface{}) map[string]interface{}
}

// Schema is a JSON-Schema fragment ingested once into typed fields
type Schema struct {
	Type         Type
	DeclaredType string
	Format       string
	Description  string
	Constraints  Constraints
	Properties   map[string]*Schema
	Required     []string
	Items        *Schema
	Example      interface{}
	Default      interface{}
	Nullable     bool

	hasProperties bool
	raw           map[string]interface{}
}

// Parse ingests a raw fragment without following references
func Parse(raw map[string]interface{}) *Schema {
	return parse(raw, nil, 0)
}

// ParseWithResolver ingests a raw fragment, following "$ref" through r at every level
func ParseWithResolver(raw map[string]interface{}, r Resolver) *Schema {
	return parse(raw, r, 0)
}

func parse(raw map[string]interface{}, r Resolver, depth int) *Schema {
	if raw == nil {
		raw = map[string]interface{}{}
	}
	if r != nil {
		raw = r.Resolve(raw)
	}

	s := &Schema{raw: raw}
	s.DeclaredType = declaredType(raw["type"])
	switch Type(s.DeclaredType) {
	case TypeString, TypeInteger, TypeNumber, TypeBoolean, TypeArray, TypeObject:
		s.Type = Type(s.DeclaredType)
	}

	s.Format, _ = raw["format"].(string)
	s.Description, _ = raw["description"].(string)
	s.Nullable, _ = raw["nullable"].(bool)
	s.Example = raw["example"]
	s.Default = raw["default"]
	s.Constraints = extractConstraints(raw)

	if depth >= maxDepth {
		return s
	}

	if props, ok := raw["properties"].(map[string]interface{}); ok {
		s.hasProperties = true
		s.Properties = make(map[string]*Schema, len(props))
		for name, prop := range props {
			propMap, _ := prop.(map[string]interface{})
			s.Properties[name] = parse(propMap, r, depth+1)
		}
	}
	if required, ok := raw["required"].([]interface{}); ok {
		for _, name := range required {
			if str, ok := name.(string); ok {
				s.Required = append(s.Required, str)
			}
		}
	}
	if items, ok := raw["items"].(map[string]interface{}); ok {
		s.Items = parse(items, r, depth+1)
	}

	return s
}

// declaredType reads "type", taking the first non-null entry of an OAS 3.1 type list
func declaredType(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case []interface{}:
		for _, entry := range t {
			if str, ok := entry.(string); ok && str != "null" {
				return str
			}
		}
	}
	return ""
}

// HasType reports whether the fragment declared a type at all
func (s *Schema) HasType() bool {
	return s.DeclaredType != ""
}

// HasProperties reports whether the fragment declared a "properties" mapping
func (s *Schema) HasProperties() bool {
	return s != nil && s.hasProperties
}

// IsObject reports whether the schema is an object type
func (s *Schema) IsObject() bool {
	return s != nil && s.Type == TypeObject
}

// IsArray reports whether the schema is an array type
func (s *Schema) IsArray() bool {
	return s != nil && s.Type == TypeArray
}

// PropertyNames returns the property names sorted alphabetically
func (s *Schema) PropertyNames() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRequired reports whether name is listed in the schema's required list
func (s *Schema) IsRequired(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// Raw returns the resolved fragment the schema was built from
func (s *Schema) Raw() map[string]interface{} {
	if s == nil {
		return nil
	}
	return s.raw
}

// MarshalJSON emits the resolved fragment
func (s *Schema) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.raw)
}

// MarshalYAML emits the resolved fragment
func (s *Schema) MarshalYAML() (interface{}, error) {
	return s.raw, nil
}
