package interchange

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gostman/gostman/pkg/collection"
)

// OpenAPIVersion is the document version written by the exporter.
const OpenAPIVersion = "3.0.3"

// Defaults for OpenAPIExportOptions.
const (
	DefaultOpenAPITitle   = "Gostman API"
	DefaultOpenAPIVersion = "1.0.0"
)

// Security scheme ids registered from Authorization headers.
const (
	SchemeBearer = "bearerAuth"
	SchemeBasic  = "basicAuth"
	SchemeAPIKey = "apiKeyAuth"
)

// OpenAPIExportOptions configures OpenAPI export.
type OpenAPIExportOptions struct {
	Title       string
	Version     string
	Description string
	// BaseURL, when set, is the first server entry.
	BaseURL string
}

// OpenAPI 3.0 types

// OpenAPIDocument represents an OpenAPI 3.0 document.
type OpenAPIDocument struct {
	OpenAPI    string             `json:"openapi" yaml:"openapi"`
	Info       OpenAPIInfo        `json:"info" yaml:"info"`
	Servers    []OpenAPIServer    `json:"servers,omitempty" yaml:"servers,omitempty"`
	Paths      *OpenAPIPaths      `json:"paths" yaml:"paths"`
	Components *OpenAPIComponents `json:"components,omitempty" yaml:"components,omitempty"`
}

// OpenAPIInfo contains API metadata.
type OpenAPIInfo struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Version     string `json:"version" yaml:"version"`
}

// OpenAPIServer represents a server entry.
type OpenAPIServer struct {
	URL string `json:"url" yaml:"url"`
}

// PathItem represents operations on a path.
type PathItem struct {
	Get     *Operation `json:"get,omitempty" yaml:"get,omitempty"`
	Put     *Operation `json:"put,omitempty" yaml:"put,omitempty"`
	Post    *Operation `json:"post,omitempty" yaml:"post,omitempty"`
	Delete  *Operation `json:"delete,omitempty" yaml:"delete,omitempty"`
	Options *Operation `json:"options,omitempty" yaml:"options,omitempty"`
	Head    *Operation `json:"head,omitempty" yaml:"head,omitempty"`
	Patch   *Operation `json:"patch,omitempty" yaml:"patch,omitempty"`
}

// slot returns the field holding the operation for a lower-case method, or
// nil when the method is not one of the seven OpenAPI methods.
func (p *PathItem) slot(method string) **Operation {
	switch method {
	case "get":
		return &p.Get
	case "put":
		return &p.Put
	case "post":
		return &p.Post
	case "delete":
		return &p.Delete
	case "options":
		return &p.Options
	case "head":
		return &p.Head
	case "patch":
		return &p.Patch
	default:
		return nil
	}
}

// Operation returns the operation registered for a method, if any.
func (p *PathItem) Operation(method string) *Operation {
	if s := p.slot(strings.ToLower(method)); s != nil {
		return *s
	}
	return nil
}

// Operation represents an API operation.
type Operation struct {
	Summary     string                `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description string                `json:"description,omitempty" yaml:"description,omitempty"`
	OperationID string                `json:"operationId,omitempty" yaml:"operationId,omitempty"`
	Parameters  []Parameter           `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	RequestBody *RequestBody          `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`
	Responses   map[string]Response   `json:"responses" yaml:"responses"`
	Security    []map[string][]string `json:"security,omitempty" yaml:"security,omitempty"`
}

// Parameter represents an API parameter.
type Parameter struct {
	Name     string  `json:"name" yaml:"name"`
	In       string  `json:"in" yaml:"in"` // query or path
	Required bool    `json:"required,omitempty" yaml:"required,omitempty"`
	Schema   *Schema `json:"schema,omitempty" yaml:"schema,omitempty"`
	Example  any     `json:"example,omitempty" yaml:"example,omitempty"`
}

// RequestBody represents a request body.
type RequestBody struct {
	Required bool                 `json:"required,omitempty" yaml:"required,omitempty"`
	Content  map[string]MediaType `json:"content" yaml:"content"`
}

// Response represents an API response.
type Response struct {
	Description string `json:"description" yaml:"description"`
}

// MediaType represents a media type in request/response.
type MediaType struct {
	Schema  *Schema `json:"schema,omitempty" yaml:"schema,omitempty"`
	Example any     `json:"example,omitempty" yaml:"example,omitempty"`
}

// OpenAPIComponents contains reusable components.
type OpenAPIComponents struct {
	Schemas         map[string]*Schema         `json:"schemas,omitempty" yaml:"schemas,omitempty"`
	SecuritySchemes map[string]*SecurityScheme `json:"securitySchemes,omitempty" yaml:"securitySchemes,omitempty"`
}

// SecurityScheme represents a security scheme component.
type SecurityScheme struct {
	Type   string `json:"type" yaml:"type"`
	Scheme string `json:"scheme,omitempty" yaml:"scheme,omitempty"`
	In     string `json:"in,omitempty" yaml:"in,omitempty"`
	Name   string `json:"name,omitempty" yaml:"name,omitempty"`
}

// OpenAPIPaths maps paths to path items, keeping insertion order when
// serialized.
type OpenAPIPaths struct {
	keys  []string
	items map[string]*PathItem
}

// NewOpenAPIPaths returns an empty path map.
func NewOpenAPIPaths() *OpenAPIPaths {
	return &OpenAPIPaths{items: make(map[string]*PathItem)}
}

// Get returns the item for path.
func (p *OpenAPIPaths) Get(path string) (*PathItem, bool) {
	item, ok := p.items[path]
	return item, ok
}

// Keys returns the paths in insertion order.
func (p *OpenAPIPaths) Keys() []string {
	return append([]string(nil), p.keys...)
}

// Len returns the number of paths.
func (p *OpenAPIPaths) Len() int {
	return len(p.keys)
}

func (p *OpenAPIPaths) getOrCreate(path string) *PathItem {
	if item, ok := p.items[path]; ok {
		return item
	}
	item := &PathItem{}
	p.keys = append(p.keys, path)
	p.items[path] = item
	return item
}

// MarshalJSON writes the paths as an object in insertion order.
func (p *OpenAPIPaths) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if p != nil {
		for i, k := range p.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			val, err := json.Marshal(p.items[k])
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(val)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML writes the paths as a mapping in insertion order.
func (p *OpenAPIPaths) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if p == nil {
		return node, nil
	}
	for _, k := range p.keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
		valNode := &yaml.Node{}
		if err := valNode.Encode(p.items[k]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}

// OpenAPIExporter exports canonical requests to OpenAPI 3.0.
type OpenAPIExporter struct {
	warnings []string
}

// Warnings returns the warnings collected by the last Export call.
func (e *OpenAPIExporter) Warnings() []string {
	return e.warnings
}

// Export builds the document. Requests with an empty URL or a method
// outside the seven OpenAPI methods are skipped. Paths keep the order in
// which requests first reach them. Servers are registered first-seen, after
// opts.BaseURL.
func (e *OpenAPIExporter) Export(requests []collection.Request, opts OpenAPIExportOptions) *OpenAPIDocument {
	e.warnings = nil

	doc := &OpenAPIDocument{
		OpenAPI: OpenAPIVersion,
		Info: OpenAPIInfo{
			Title:       orDefault(opts.Title, DefaultOpenAPITitle),
			Description: opts.Description,
			Version:     orDefault(opts.Version, DefaultOpenAPIVersion),
		},
		Paths: NewOpenAPIPaths(),
	}

	servers := make(map[string]bool)
	addServer := func(u string) {
		if u == "" || servers[u] {
			return
		}
		servers[u] = true
		doc.Servers = append(doc.Servers, OpenAPIServer{URL: u})
	}
	addServer(opts.BaseURL)

	schemes := make(map[string]*SecurityScheme)
	opIDs := make(map[string]int)

	for _, r := range requests {
		if strings.TrimSpace(r.URL) == "" {
			e.warnf("request %q: empty URL; skipped", r.Name)
			continue
		}
		method := strings.ToLower(r.Method.String())
		if (&PathItem{}).slot(method) == nil {
			e.warnf("request %q: method %s has no OpenAPI operation; skipped", r.Name, r.Method)
			continue
		}

		path, server := resolveOpenAPIPath(r.URL)
		addServer(server)

		headers, err := r.HeaderList()
		if err != nil {
			e.warnf("request %q: headers are not a JSON object; ignored", r.Name)
		}
		query, err := r.QueryList()
		if err != nil {
			e.warnf("request %q: query params are not a JSON object; ignored", r.Name)
		}

		op := &Operation{
			Summary:     r.Name,
			Description: r.Description,
			OperationID: uniqueOperationID(opIDs, method, path),
			Parameters:  parameters(path, query),
			RequestBody: requestBody(r.Body, headers),
			Responses:   defaultResponses(),
		}
		if id, scheme := detectSecurityScheme(headers); scheme != nil {
			schemes[id] = scheme
			op.Security = []map[string][]string{{id: {}}}
		}

		slot := doc.Paths.getOrCreate(path).slot(method)
		if *slot != nil {
			e.warnf("request %q: replaces an earlier %s %s", r.Name, strings.ToUpper(method), path)
		}
		*slot = op
	}

	if len(schemes) > 0 {
		doc.Components = &OpenAPIComponents{SecuritySchemes: schemes}
	}
	return doc
}

// ExportJSON exports and serializes with 2-space indentation.
func (e *OpenAPIExporter) ExportJSON(requests []collection.Request, opts OpenAPIExportOptions) ([]byte, error) {
	doc := e.Export(requests, opts)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, &ExportError{
			Format:  ExportOpenAPIJSON,
			Message: "failed to marshal OpenAPI document",
			Cause:   err,
		}
	}
	return append(data, '\n'), nil
}

// ExportYAML exports and serializes as YAML with 2-space indentation.
func (e *OpenAPIExporter) ExportYAML(requests []collection.Request, opts OpenAPIExportOptions) ([]byte, error) {
	doc := e.Export(requests, opts)
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, &ExportError{
			Format:  ExportOpenAPIYAML,
			Message: "failed to marshal OpenAPI document",
			Cause:   err,
		}
	}
	if err := enc.Close(); err != nil {
		return nil, &ExportError{
			Format:  ExportOpenAPIYAML,
			Message: "failed to flush OpenAPI document",
			Cause:   err,
		}
	}
	return buf.Bytes(), nil
}

func (e *OpenAPIExporter) warnf(format string, args ...any) {
	e.warnings = append(e.warnings, fmt.Sprintf(format, args...))
}

// ExportToOpenAPI builds an OpenAPI document from requests.
func ExportToOpenAPI(requests []collection.Request, opts OpenAPIExportOptions) *OpenAPIDocument {
	return (&OpenAPIExporter{}).Export(requests, opts)
}

// ExportToOpenAPIJSON builds and serializes an OpenAPI document as JSON.
func ExportToOpenAPIJSON(requests []collection.Request, opts OpenAPIExportOptions) ([]byte, error) {
	return (&OpenAPIExporter{}).ExportJSON(requests, opts)
}

// ExportToOpenAPIYAML builds and serializes an OpenAPI document as YAML.
func ExportToOpenAPIYAML(requests []collection.Request, opts OpenAPIExportOptions) ([]byte, error) {
	return (&OpenAPIExporter{}).ExportYAML(requests, opts)
}

// resolveOpenAPIPath splits a request URL into a templated path and, for
// absolute URLs, the server origin.
func resolveOpenAPIPath(raw string) (path, server string) {
	raw = strings.TrimSpace(raw)
	if u, err := url.Parse(raw); err == nil && u.Scheme != "" && u.Host != "" {
		path = u.Path
		if path == "" {
			path = "/"
		}
		return convertColonParams(path), u.Scheme + "://" + u.Host
	}

	path, _ = splitQuery(raw)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return convertColonParams(path), ""
}

// convertColonParams converts :param segments to {param}.
func convertColonParams(path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if len(part) > 1 && strings.HasPrefix(part, ":") {
			parts[i] = "{" + part[1:] + "}"
		}
	}
	return strings.Join(parts, "/")
}

// pathPlaceholders returns the names of {name} segments in order.
func pathPlaceholders(path string) []string {
	var names []string
	for _, part := range strings.Split(path, "/") {
		if len(part) > 2 && part[0] == '{' && part[len(part)-1] == '}' && part[1] != '{' {
			names = append(names, part[1:len(part)-1])
		}
	}
	return names
}

func parameters(path string, query collection.KVList) []Parameter {
	var params []Parameter
	covered := make(map[string]bool, len(query))
	for _, q := range query {
		covered[q.Key] = true
		params = append(params, Parameter{
			Name:    q.Key,
			In:      "query",
			Schema:  &Schema{Type: TypeString},
			Example: q.Value,
		})
	}
	for _, name := range pathPlaceholders(path) {
		if covered[name] {
			continue
		}
		covered[name] = true
		params = append(params, Parameter{
			Name:     name,
			In:       "path",
			Required: true,
			Schema:   &Schema{Type: TypeString},
		})
	}
	return params
}

func requestBody(body string, headers collection.KVList) *RequestBody {
	if strings.TrimSpace(body) == "" {
		return nil
	}

	mediaType := "application/json"
	if ct, ok := headers.Lookup("Content-Type"); ok {
		ct, _, _ = strings.Cut(ct, ";")
		if ct = strings.TrimSpace(ct); ct != "" {
			mediaType = ct
		}
	}

	media := MediaType{Schema: &Schema{Type: TypeString}, Example: body}
	if isJSONMediaType(mediaType) {
		var parsed any
		if err := json.Unmarshal([]byte(body), &parsed); err == nil {
			media = MediaType{Schema: InferSchema(parsed), Example: parsed}
		}
	}
	return &RequestBody{
		Required: true,
		Content:  map[string]MediaType{mediaType: media},
	}
}

func isJSONMediaType(mt string) bool {
	return strings.HasSuffix(strings.ToLower(mt), "json")
}

func defaultResponses() map[string]Response {
	return map[string]Response{
		"200": {Description: "Successful response"},
		"400": {Description: "Bad request"},
		"500": {Description: "Internal server error"},
	}
}

// detectSecurityScheme maps an Authorization header to a scheme.
func detectSecurityScheme(headers collection.KVList) (string, *SecurityScheme) {
	auth, ok := headers.Lookup("Authorization")
	if !ok {
		return "", nil
	}
	switch {
	case strings.HasPrefix(auth, "Bearer "):
		return SchemeBearer, &SecurityScheme{Type: "http", Scheme: "bearer"}
	case strings.HasPrefix(auth, "Basic "):
		return SchemeBasic, &SecurityScheme{Type: "http", Scheme: "basic"}
	case strings.HasPrefix(auth, "ApiKey "):
		return SchemeAPIKey, &SecurityScheme{Type: "apiKey", In: "header", Name: "Authorization"}
	default:
		return "", nil
	}
}

// uniqueOperationID slugs method and path, suffixing repeats with _2, _3...
func uniqueOperationID(seen map[string]int, method, path string) string {
	var b strings.Builder
	b.WriteString(method)
	lastUnderscore := false
	for _, r := range path {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if isAlnum {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	base := strings.TrimRight(b.String(), "_")

	seen[base]++
	if n := seen[base]; n > 1 {
		return base + "_" + strconv.Itoa(n)
	}
	return base
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
