package types

import "api-test-planner/internal/schema"

// ParameterLocation is where a parameter is carried in the request
type ParameterLocation string

const (
	LocationPath   ParameterLocation = "path"
	LocationQuery  ParameterLocation = "query"
	LocationHeader ParameterLocation = "header"
	LocationCookie ParameterLocation = "cookie"
	LocationBody   ParameterLocation = "body"
)

// ComplexityLevel is the complexity band of an endpoint
type ComplexityLevel string

const (
	ComplexitySimple   ComplexityLevel = "simple"
	ComplexityModerate ComplexityLevel = "moderate"
	ComplexityComplex  ComplexityLevel = "complex"
	ComplexityAdvanced ComplexityLevel = "advanced"
)

// IsHigh reports whether the level is complex or advanced
func (c ComplexityLevel) IsHigh() bool {
	return c == ComplexityComplex || c == ComplexityAdvanced
}

// ParameterInfo represents one request parameter or top-level body field
type ParameterInfo struct {
	Name            string                   `json:"name" yaml:"name"`
	Location        ParameterLocation        `json:"location" yaml:"location"`
	DataType        string                   `json:"data_type" yaml:"data_type"`
	Format          string                   `json:"format,omitempty" yaml:"format,omitempty"`
	Required        bool                     `json:"required" yaml:"required"`
	Constraints     schema.Constraints       `json:"constraints" yaml:"constraints"`
	ValidationRules schema.ValidationRuleSet `json:"validation_rules" yaml:"validation_rules"`
	Description     string                   `json:"description,omitempty" yaml:"description,omitempty"`
	Examples        []interface{}            `json:"examples,omitempty" yaml:"examples,omitempty"`
	Schema          *schema.Schema           `json:"-" yaml:"-"`
}

// IsString reports whether the parameter is declared as a string
func (p ParameterInfo) IsString() bool {
	return p.DataType == string(schema.TypeString)
}

// HasConstraints reports whether any constraint was declared for the parameter
func (p ParameterInfo) HasConstraints() bool {
	return !p.Constraints.IsEmpty()
}

// ResponseInfo represents one (status code, content type) response variant
type ResponseInfo struct {
	StatusCode  string                 `json:"status_code" yaml:"status_code"`
	Description string                 `json:"description,omitempty" yaml:"description,omitempty"`
	ContentType string                 `json:"content_type,omitempty" yaml:"content_type,omitempty"`
	Schema      *schema.Schema         `json:"-" yaml:"-"`
	Examples    map[string]interface{} `json:"examples,omitempty" yaml:"examples,omitempty"`
	Headers     map[string]interface{} `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// IsSuccess reports whether the status code is a 2xx code
func (r ResponseInfo) IsSuccess() bool {
	return len(r.StatusCode) > 0 && r.StatusCode[0] == '2'
}

// SecurityRequirement represents one authentication scheme applicable to an endpoint
type SecurityRequirement struct {
	Type     string   `json:"type" yaml:"type"`
	Name     string   `json:"name" yaml:"name"`
	Location string   `json:"location,omitempty" yaml:"location,omitempty"`
	Scopes   []string `json:"scopes" yaml:"scopes"`
}

// RequestBodyInfo describes the request body of an operation
type RequestBodyInfo struct {
	Required    bool           `json:"required" yaml:"required"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	ContentType string         `json:"content_type" yaml:"content_type"`
	Schema      *schema.Schema `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// EndpointAnalysis is the analyzed form of one (method, path) operation
type EndpointAnalysis struct {
	OperationID            string                   `json:"operation_id" yaml:"operation_id"`
	Method                 string                   `json:"method" yaml:"method"`
	Path                   string                   `json:"path" yaml:"path"`
	Summary                string                   `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description            string                   `json:"description,omitempty" yaml:"description,omitempty"`
	Complexity             ComplexityLevel          `json:"complexity" yaml:"complexity"`
	ComplexityScore        float64                  `json:"complexity_score" yaml:"complexity_score"`
	Parameters             []ParameterInfo          `json:"parameters" yaml:"parameters"`
	RequestBody            *RequestBodyInfo         `json:"request_body,omitempty" yaml:"request_body,omitempty"`
	Responses              []ResponseInfo           `json:"responses" yaml:"responses"`
	Security               []SecurityRequirement    `json:"security" yaml:"security"`
	Tags                   []string                 `json:"tags,omitempty" yaml:"tags,omitempty"`
	Deprecated             bool                     `json:"deprecated" yaml:"deprecated"`
	SuggestedStrategies    []TestStrategy           `json:"suggested_strategies" yaml:"suggested_strategies"`
	ValidationRequirements schema.ValidationRuleSet `json:"validation_requirements" yaml:"validation_requirements"`
}

// Key returns the "METHOD path" form used to address an endpoint
func (e *EndpointAnalysis) Key() string {
	return e.Method + " " + e.Path
}

// StringParameters returns the string-typed parameters in declaration order
func (e *EndpointAnalysis) StringParameters() []ParameterInfo {
	var out []ParameterInfo
	for _, p := range e.Parameters {
		if p.IsString() {
			out = append(out, p)
		}
	}
	return out
}

// ConstrainedParameters returns the parameters carrying at least one constraint
func (e *EndpointAnalysis) ConstrainedParameters() []ParameterInfo {
	var out []ParameterInfo
	for _, p := range e.Parameters {
		if p.HasConstraints() {
			out = append(out, p)
		}
	}
	return out
}

// HasMethod reports whether the endpoint method is one of methods
func (e *EndpointAnalysis) HasMethod(methods ...string) bool {
	for _, m := range methods {
		if e.Method == m {
			return true
		}
	}
	return false
}
