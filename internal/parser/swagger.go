package parser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"api-test-planner/internal/logger"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

// requiredKeys are the top-level keys every OpenAPI document must carry
var requiredKeys = []string{"openapi", "info", "paths"}

// operationMethods is the order endpoints are enumerated in within a path
var operationMethods = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace"}

// wellKnownLocations are tried in order when a source URL does not name a document
var wellKnownLocations = []string{
	"/swagger/v1/swagger.json",
	"/swagger.json",
	"/v1/swagger.json",
	"/api/swagger.json",
	"/api/v1/swagger.json",
	"/openapi.json",
	"/openapi.yaml",
}

// Document is a decoded OpenAPI document
type Document struct {
	raw map[string]interface{}
}

// Operation is one (path, method) pair of a document
type Operation struct {
	Path   string
	Method string
	Object interface{}
}

// Loader reads and validates OpenAPI documents
type Loader struct {
	client *http.Client
	strict bool
	log    *logger.Logger
}

// LoaderOption configures a Loader
type LoaderOption func(*Loader)

// WithStrictValidation makes the loader validate the document against the OpenAPI 3 schema
func WithStrictValidation(strict bool) LoaderOption {
	return func(l *Loader) { l.strict = strict }
}

// WithTimeout sets the HTTP timeout used for remote documents
func WithTimeout(timeout time.Duration) LoaderOption {
	return func(l *Loader) { l.client.Timeout = timeout }
}

// WithLogger sets the logger used to report fetch attempts
func WithLogger(log *logger.Logger) LoaderOption {
	return func(l *Loader) { l.log = log }
}

// NewLoader creates a new instance of Loader
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		client: &http.Client{Timeout: 30 * time.Second},
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the document at source, which is a file path or an http(s) URL
func (l *Loader) Load(ctx context.Context, source string) (*Document, error) {
	if !IsURL(source) {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("failed to read spec file: %w", err)
		}
		return l.LoadFromData(ctx, data)
	}

	var lastErr error
	for _, url := range candidateURLs(source) {
		l.log.Debug("fetching OpenAPI document", "url", url)
		data, err := l.fetch(ctx, url)
		if err != nil {
			l.log.Debug("fetch failed", "url", url, "error", err)
			lastErr = err
			continue
		}
		l.log.Info("fetched OpenAPI document", "url", url)
		return l.LoadFromData(ctx, data)
	}
	return nil, fmt.Errorf("failed to fetch OpenAPI documentation from any known URL: %w", lastErr)
}

// LoadFromData decodes and validates a YAML or JSON document
func (l *Loader) LoadFromData(ctx context.Context, data []byte) (*Document, error) {
	var decoded interface{}
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI doc: %w", err)
	}
	raw, ok := normalize(decoded).(map[string]interface{})
	if !ok {
		return nil, &ValidationError{Reason: "document root is not a mapping"}
	}

	var missing []string
	for _, key := range requiredKeys {
		if _, ok := raw[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Missing: missing}
	}

	if l.strict {
		if err := validateStrict(ctx, data); err != nil {
			return nil, err
		}
	}

	return &Document{raw: raw}, nil
}

// validateStrict runs the full OpenAPI 3 validation of kin-openapi
func validateStrict(ctx context.Context, data []byte) error {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return &ValidationError{Reason: err.Error()}
	}
	if err := doc.Validate(ctx); err != nil {
		return &ValidationError{Reason: err.Error()}
	}
	return nil
}

// normalize converts YAML mappings with non-string keys (e.g. unquoted status codes) to string-keyed maps
func normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, child := range t {
			t[k] = normalize(child)
		}
		return t
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, child := range t {
			out[fmt.Sprint(k)] = normalize(child)
		}
		return out
	case []interface{}:
		for i, child := range t {
			t[i] = normalize(child)
		}
		return t
	default:
		return v
	}
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// IsURL reports whether source is an http(s) URL rather than a file path
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// candidateURLs returns source itself when it names a document, otherwise the well-known locations under it
func candidateURLs(source string) []string {
	lower := strings.ToLower(source)
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		if strings.HasSuffix(lower, ext) {
			return []string{source}
		}
	}

	base := strings.TrimSuffix(source, "/")
	urls := []string{source}
	for _, loc := range wellKnownLocations {
		urls = append(urls, base+loc)
	}
	return urls
}

// NewDocument wraps an already decoded document without validating it
func NewDocument(raw map[string]interface{}) *Document {
	return &Document{raw: raw}
}

// Raw returns the decoded document
func (d *Document) Raw() map[string]interface{} {
	return d.raw
}

// Title returns info.title
func (d *Document) Title() string {
	info, _ := d.raw["info"].(map[string]interface{})
	title, _ := info["title"].(string)
	return title
}

// Version returns info.version
func (d *Document) Version() string {
	info, _ := d.raw["info"].(map[string]interface{})
	switch v := info["version"].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// Operations enumerates every operation with paths sorted and methods in a fixed order.
// Path-level parameters are merged into each operation; operation-level entries win on (name, in).
func (d *Document) Operations() []Operation {
	paths, _ := d.raw["paths"].(map[string]interface{})

	names := make([]string, 0, len(paths))
	for path := range paths {
		names = append(names, path)
	}
	sort.Strings(names)

	var ops []Operation
	for _, path := range names {
		item, ok := paths[path].(map[string]interface{})
		if !ok {
			continue
		}
		shared, _ := item["parameters"].([]interface{})
		for _, method := range operationMethods {
			obj, ok := item[method]
			if !ok {
				continue
			}
			if opMap, ok := obj.(map[string]interface{}); ok && len(shared) > 0 {
				obj = mergeParameters(opMap, shared)
			}
			ops = append(ops, Operation{Path: path, Method: strings.ToUpper(method), Object: obj})
		}
	}
	return ops
}

func mergeParameters(op map[string]interface{}, shared []interface{}) map[string]interface{} {
	own, _ := op["parameters"].([]interface{})

	seen := make(map[string]bool, len(own))
	for _, p := range own {
		seen[parameterKey(p)] = true
	}

	merged := make([]interface{}, 0, len(own)+len(shared))
	merged = append(merged, own...)
	for _, p := range shared {
		key := parameterKey(p)
		if key != "" && seen[key] {
			continue
		}
		merged = append(merged, p)
	}

	out := make(map[string]interface{}, len(op)+1)
	for k, v := range op {
		out[k] = v
	}
	out["parameters"] = merged
	return out
}

func parameterKey(p interface{}) string {
	m, ok := p.(map[string]interface{})
	if !ok {
		return ""
	}
	if ref, ok := m["$ref"].(string); ok {
		return ref
	}
	name, _ := m["name"].(string)
	in, _ := m["in"].(string)
	return in + ":" + name
}
