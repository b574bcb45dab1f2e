package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"api-test-planner/internal/parser"
	"api-test-planner/internal/schema"
	"api-test-planner/internal/types"
)

const jsonContentType = "application/json"

// Analyzer turns OpenAPI operations into EndpointAnalysis values.
// It only reads the document it was built for and is safe for concurrent use.
type Analyzer struct {
	doc      map[string]interface{}
	resolver refResolver
}

// EndpointError records an operation that could not be analyzed
type EndpointError struct {
	Method string
	Path   string
	Err    error
}

func (e *EndpointError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *EndpointError) Unwrap() error {
	return e.Err
}

// New creates an analyzer for a decoded OpenAPI document
func New(spec map[string]interface{}) *Analyzer {
	if spec == nil {
		spec = map[string]interface{}{}
	}
	return &Analyzer{
		doc:      spec,
		resolver: refResolver{doc: spec},
	}
}

// AnalyzeEndpoint analyzes one operation of spec
func AnalyzeEndpoint(path, method string, operation interface{}, spec map[string]interface{}) (*types.EndpointAnalysis, error) {
	return New(spec).Analyze(path, method, operation)
}

// AnalyzeDocument analyzes every operation of doc. Operations that fail are reported
// individually and do not prevent the others from being analyzed.
func AnalyzeDocument(doc *parser.Document) ([]*types.EndpointAnalysis, []*EndpointError) {
	a := New(doc.Raw())

	var endpoints []*types.EndpointAnalysis
	var failures []*EndpointError
	for _, op := range doc.Operations() {
		endpoint, err := a.Analyze(op.Path, op.Method, op.Object)
		if err != nil {
			failures = append(failures, &EndpointError{Method: op.Method, Path: op.Path, Err: err})
			continue
		}
		endpoints = append(endpoints, endpoint)
	}
	return endpoints, failures
}

// Analyze produces the analysis of one (path, method) operation
func (a *Analyzer) Analyze(path, method string, operation interface{}) (*types.EndpointAnalysis, error) {
	op, ok := operation.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("operation object must be a mapping, got %T", operation)
	}
	method = strings.ToUpper(method)

	e := &types.EndpointAnalysis{
		OperationID: operationID(path, method, op),
		Method:      method,
		Path:        path,
		Summary:     stringField(op, "summary"),
		Description: stringField(op, "description"),
		Tags:        stringList(op["tags"]),
	}
	e.Deprecated, _ = op["deprecated"].(bool)

	e.Parameters = a.parameters(op)
	e.RequestBody = a.requestBody(op)
	if e.RequestBody != nil && e.RequestBody.Schema.IsObject() {
		e.Parameters = append(e.Parameters, bodyParameters(e.RequestBody.Schema)...)
	}
	e.Responses = a.responses(op)
	e.Security = a.security(op)

	points := complexityPoints(e)
	e.Complexity, e.ComplexityScore = classifyComplexity(points)
	e.SuggestedStrategies = suggestStrategies(e)
	e.ValidationRequirements = validationRequirements(e)

	return e, nil
}

func operationID(path, method string, op map[string]interface{}) string {
	if id := stringField(op, "operationId"); id != "" {
		return id
	}
	cleaned := strings.NewReplacer("/", "_", "{", "", "}", "").Replace(path)
	return strings.ToLower(method) + "_" + strings.Trim(cleaned, "_")
}

func (a *Analyzer) parameters(op map[string]interface{}) []types.ParameterInfo {
	list, _ := op["parameters"].([]interface{})
	params := make([]types.ParameterInfo, 0, len(list))
	for _, item := range list {
		raw := a.resolver.resolveValue(item)

		// Swagger 2 style parameters carry the schema keywords inline
		fragment, ok := raw["schema"].(map[string]interface{})
		if !ok {
			fragment = raw
		}
		s := schema.ParseWithResolver(fragment, a.resolver)

		required, _ := raw["required"].(bool)
		params = append(params, newParameter(
			stringField(raw, "name"),
			types.ParameterLocation(stringField(raw, "in")),
			required,
			stringField(raw, "description"),
			parameterExamples(raw, s),
			s,
		))
	}
	return params
}

func newParameter(name string, in types.ParameterLocation, required bool, description string, examples []interface{}, s *schema.Schema) types.ParameterInfo {
	dataType := s.DeclaredType
	if dataType == "" {
		dataType = string(schema.TypeString)
	}

	rules := s.ValidationRules()
	if required {
		rules = rules.With(schema.RuleRequired)
	}
	if description == "" {
		description = s.Description
	}

	return types.ParameterInfo{
		Name:            name,
		Location:        in,
		DataType:        dataType,
		Format:          s.Format,
		Required:        required,
		Constraints:     s.Constraints,
		ValidationRules: rules,
		Description:     description,
		Examples:        examples,
		Schema:          s,
	}
}

func parameterExamples(raw map[string]interface{}, s *schema.Schema) []interface{} {
	var examples []interface{}
	if v, ok := raw["example"]; ok {
		examples = append(examples, v)
	}
	if named, ok := raw["examples"].(map[string]interface{}); ok {
		keys := sortedKeys(named)
		for _, k := range keys {
			if ex, ok := named[k].(map[string]interface{}); ok {
				if v, ok := ex["value"]; ok {
					examples = append(examples, v)
				}
			}
		}
	}
	if len(examples) == 0 && s.Example != nil {
		examples = append(examples, s.Example)
	}
	return examples
}

// bodyParameters synthesizes one body parameter per top-level property of an object body
func bodyParameters(body *schema.Schema) []types.ParameterInfo {
	params := make([]types.ParameterInfo, 0, len(body.Properties))
	for _, name := range body.PropertyNames() {
		prop := body.Properties[name]
		var examples []interface{}
		if prop.Example != nil {
			examples = append(examples, prop.Example)
		}
		params = append(params, newParameter(name, types.LocationBody, body.IsRequired(name), "", examples, prop))
	}
	return params
}

func (a *Analyzer) requestBody(op map[string]interface{}) *types.RequestBodyInfo {
	if _, ok := op["requestBody"]; !ok {
		return nil
	}
	raw := a.resolver.resolveValue(op["requestBody"])
	content, _ := raw["content"].(map[string]interface{})

	contentType := ""
	if _, ok := content[jsonContentType]; ok {
		contentType = jsonContentType
	} else if keys := sortedKeys(content); len(keys) > 0 {
		contentType = keys[0]
	}

	var fragment map[string]interface{}
	if media, ok := content[contentType].(map[string]interface{}); ok {
		fragment, _ = media["schema"].(map[string]interface{})
	}

	required, _ := raw["required"].(bool)
	return &types.RequestBodyInfo{
		Required:    required,
		Description: stringField(raw, "description"),
		ContentType: contentType,
		Schema:      schema.ParseWithResolver(fragment, a.resolver),
	}
}

func (a *Analyzer) responses(op map[string]interface{}) []types.ResponseInfo {
	raw, _ := op["responses"].(map[string]interface{})

	var out []types.ResponseInfo
	for _, status := range sortedKeys(raw) {
		resp := a.resolver.resolveValue(raw[status])
		description := stringField(resp, "description")
		headers, _ := resp["headers"].(map[string]interface{})

		content, _ := resp["content"].(map[string]interface{})
		if len(content) == 0 {
			out = append(out, types.ResponseInfo{
				StatusCode:  status,
				Description: description,
				Headers:     headers,
			})
			continue
		}

		for _, contentType := range sortedKeys(content) {
			media, _ := content[contentType].(map[string]interface{})
			fragment, _ := media["schema"].(map[string]interface{})

			var examples map[string]interface{}
			if named, ok := media["examples"].(map[string]interface{}); ok {
				examples = make(map[string]interface{}, len(named)+1)
				for k, v := range named {
					examples[k] = v
				}
			}
			if ex, ok := media["example"]; ok {
				if examples == nil {
					examples = map[string]interface{}{}
				}
				examples["default"] = ex
			}

			out = append(out, types.ResponseInfo{
				StatusCode:  status,
				Description: description,
				ContentType: contentType,
				Schema:      schema.ParseWithResolver(fragment, a.resolver),
				Examples:    examples,
				Headers:     headers,
			})
		}
	}
	return out
}

// security returns the operation's requirements, falling back to the document-level ones
func (a *Analyzer) security(op map[string]interface{}) []types.SecurityRequirement {
	list, ok := op["security"].([]interface{})
	if !ok {
		if _, declared := op["security"]; declared {
			return nil
		}
		list, _ = a.doc["security"].([]interface{})
	}

	components, _ := a.doc["components"].(map[string]interface{})
	schemes, _ := components["securitySchemes"].(map[string]interface{})

	var out []types.SecurityRequirement
	for _, item := range list {
		requirement, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		for _, name := range sortedKeys(requirement) {
			scheme := a.resolver.resolveValue(schemes[name])
			schemeType, location := describeScheme(scheme)
			scopes := stringList(requirement[name])
			if scopes == nil {
				scopes = []string{}
			}
			out = append(out, types.SecurityRequirement{
				Type:     schemeType,
				Name:     name,
				Location: location,
				Scopes:   scopes,
			})
		}
	}
	return out
}

func describeScheme(scheme map[string]interface{}) (string, string) {
	switch stringField(scheme, "type") {
	case "http":
		httpScheme := strings.ToLower(stringField(scheme, "scheme"))
		if httpScheme == "" {
			httpScheme = "bearer"
		}
		return httpScheme, "header"
	case "apiKey":
		return "apiKey", stringField(scheme, "in")
	case "oauth2":
		return "oauth2", "header"
	case "openIdConnect":
		return "openIdConnect", "header"
	case "":
		return "unknown", ""
	default:
		return stringField(scheme, "type"), stringField(scheme, "in")
	}
}

func suggestStrategies(e *types.EndpointAnalysis) []types.TestStrategy {
	strategies := []types.TestStrategy{types.StrategyBasicFunctionality}

	if len(e.Parameters) > 0 {
		strategies = append(strategies, types.StrategyParameterValidation)
		if len(e.ConstrainedParameters()) > 0 {
			strategies = append(strategies, types.StrategyBoundaryTesting)
		}
	}
	if len(e.StringParameters()) > 0 {
		strategies = append(strategies, types.StrategySecurityTesting)
	}

	strategies = append(strategies, types.StrategyErrorScenarios, types.StrategyAuthenticationTesting)

	if e.HasMethod("POST", "PUT", "PATCH") {
		strategies = append(strategies, types.StrategyDataValidation)
		if e.Complexity.IsHigh() {
			strategies = append(strategies, types.StrategySchemaValidation)
		}
	}
	if e.Complexity.IsHigh() {
		strategies = append(strategies, types.StrategyPerformanceTesting)
	}
	if e.HasMethod("POST", "PUT", "PATCH", "DELETE") {
		strategies = append(strategies, types.StrategyConcurrencyTesting)
	}
	return strategies
}

func validationRequirements(e *types.EndpointAnalysis) schema.ValidationRuleSet {
	rules := schema.ValidationRuleSet{}
	for _, p := range e.Parameters {
		rules = rules.Union(p.ValidationRules)
		if p.IsString() {
			rules = rules.With(schema.RuleSecurity)
		}
	}
	if e.RequestBody != nil {
		rules = rules.Union(e.RequestBody.Schema.ValidationRules())
	}
	return rules
}

func stringField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

func stringList(v interface{}) []string {
	list, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
