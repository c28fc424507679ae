package interchange

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Postman Collection v2.1 wire types. Decoders accept the looser shapes seen
// in real exports: a request given as a bare URL string, a url given as a
// string, host and path given as strings, and descriptions given as objects.

// PostmanSchemaV21 is the schema URL written into exported collections.
const PostmanSchemaV21 = "https://schema.getpostman.com/json/collection/v2.1.0/collection.json"

// PostmanCollection represents a Postman Collection v2.x.
type PostmanCollection struct {
	Info     PostmanInfo       `json:"info"`
	Item     []PostmanItem     `json:"item"`
	Auth     *PostmanAuth      `json:"auth,omitempty"`
	Variable []PostmanVariable `json:"variable,omitempty"`
}

// PostmanInfo contains collection metadata.
type PostmanInfo struct {
	PostmanID   string             `json:"_postman_id,omitempty"`
	Name        string             `json:"name"`
	Description PostmanDescription `json:"description,omitempty"`
	Schema      string             `json:"schema"`
}

// PostmanItem represents an item in the collection: a folder when Item is
// non-nil, otherwise a request.
type PostmanItem struct {
	ID          string             `json:"id,omitempty"`
	Name        string             `json:"name"`
	Description PostmanDescription `json:"description,omitempty"`
	Item        []PostmanItem      `json:"item,omitempty"`
	Request     *PostmanRequest    `json:"request,omitempty"`
	Auth        *PostmanAuth       `json:"auth,omitempty"`
	Response    []json.RawMessage  `json:"response,omitempty"`
}

// IsFolder reports whether the item groups other items.
func (it PostmanItem) IsFolder() bool {
	return it.Item != nil
}

// PostmanRequest represents a Postman request.
type PostmanRequest struct {
	Method      string             `json:"method"`
	URL         PostmanURL         `json:"url"`
	Header      PostmanHeaders     `json:"header,omitempty"`
	Body        *PostmanBody       `json:"body,omitempty"`
	Auth        *PostmanAuth       `json:"auth,omitempty"`
	Description PostmanDescription `json:"description,omitempty"`
}

// UnmarshalJSON accepts the object form and the bare URL string form.
func (r *PostmanRequest) UnmarshalJSON(data []byte) error {
	if isJSONString(data) {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*r = PostmanRequest{Method: "GET", URL: PostmanURL{Raw: raw}}
		return nil
	}
	type plain PostmanRequest
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = PostmanRequest(p)
	return nil
}

// PostmanURL represents a URL in Postman format.
type PostmanURL struct {
	Raw      string          `json:"raw"`
	Protocol string          `json:"protocol,omitempty"`
	Host     PostmanSegments `json:"host,omitempty"`
	Port     string          `json:"port,omitempty"`
	Path     PostmanSegments `json:"path,omitempty"`
	Query    []PostmanQuery  `json:"query,omitempty"`
}

// UnmarshalJSON accepts the object form and the plain string form.
func (u *PostmanURL) UnmarshalJSON(data []byte) error {
	if isJSONString(data) {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*u = PostmanURL{Raw: raw}
		return nil
	}
	type plain PostmanURL
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*u = PostmanURL(p)
	return nil
}

// String returns the raw URL, rebuilding it from its parts when raw is
// absent. The result includes any query string.
func (u PostmanURL) String() string {
	if u.Raw != "" {
		return u.Raw
	}
	var b strings.Builder
	if u.Protocol != "" {
		b.WriteString(u.Protocol)
		b.WriteString("://")
	}
	b.WriteString(strings.Join(u.Host, "."))
	if u.Port != "" {
		b.WriteString(":")
		b.WriteString(u.Port)
	}
	if len(u.Path) > 0 {
		b.WriteString("/")
		b.WriteString(strings.Join(u.Path, "/"))
	}
	sep := "?"
	for _, q := range u.Query {
		if q.Disabled || q.Key == "" {
			continue
		}
		b.WriteString(sep)
		b.WriteString(q.Key)
		b.WriteString("=")
		b.WriteString(q.Value)
		sep = "&"
	}
	return b.String()
}

// PostmanSegments is a host or path split into segments. Postman also writes
// these as a single string, which decodes to a one-element list.
type PostmanSegments []string

// UnmarshalJSON accepts a string, a string array, or an array of
// {"value": ...} objects.
func (s *PostmanSegments) UnmarshalJSON(data []byte) error {
	if isJSONString(data) {
		var one string
		if err := json.Unmarshal(data, &one); err != nil {
			return err
		}
		if one == "" {
			*s = nil
			return nil
		}
		*s = PostmanSegments{one}
		return nil
	}
	var items []any
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	out := make(PostmanSegments, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			out = append(out, v)
		case map[string]any:
			if val, ok := v["value"].(string); ok {
				out = append(out, val)
			}
		}
	}
	*s = out
	return nil
}

// PostmanQuery represents a query parameter.
type PostmanQuery struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	Disabled bool   `json:"disabled,omitempty"`
}

// PostmanHeader represents a request header.
type PostmanHeader struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	Type     string `json:"type,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`
}

// PostmanHeaders is a header list. The v2.1 schema also allows a single
// string of "Name: value" lines.
type PostmanHeaders []PostmanHeader

// UnmarshalJSON accepts the array form and the header-block string form.
func (h *PostmanHeaders) UnmarshalJSON(data []byte) error {
	if isJSONString(data) {
		var block string
		if err := json.Unmarshal(data, &block); err != nil {
			return err
		}
		var out PostmanHeaders
		for _, line := range strings.Split(block, "\n") {
			name, value, ok := strings.Cut(line, ":")
			name = strings.TrimSpace(name)
			if !ok || name == "" {
				continue
			}
			out = append(out, PostmanHeader{Key: name, Value: strings.TrimSpace(value)})
		}
		*h = out
		return nil
	}
	var list []PostmanHeader
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*h = list
	return nil
}

// PostmanBody represents a request body.
type PostmanBody struct {
	Mode       string              `json:"mode"`
	Raw        string              `json:"raw,omitempty"`
	URLEncoded []PostmanFormParam  `json:"urlencoded,omitempty"`
	FormData   []PostmanFormParam  `json:"formdata,omitempty"`
	GraphQL    *PostmanGraphQL     `json:"graphql,omitempty"`
	Options    *PostmanBodyOptions `json:"options,omitempty"`
}

// Body modes.
const (
	BodyModeRaw        = "raw"
	BodyModeURLEncoded = "urlencoded"
	BodyModeFormData   = "formdata"
	BodyModeGraphQL    = "graphql"
	BodyModeFile       = "file"
)

// PostmanFormParam represents a urlencoded or form-data field.
type PostmanFormParam struct {
	Key      string `json:"key"`
	Value    string `json:"value,omitempty"`
	Type     string `json:"type,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`
}

// PostmanGraphQL is the body of a graphql-mode request. Variables is kept
// as raw JSON because Postman writes it as either a string or an object.
type PostmanGraphQL struct {
	Query     string          `json:"query"`
	Variables json.RawMessage `json:"variables,omitempty"`
}

// PostmanBodyOptions carries per-mode body settings.
type PostmanBodyOptions struct {
	Raw *PostmanRawOptions `json:"raw,omitempty"`
}

// PostmanRawOptions names the language of a raw body.
type PostmanRawOptions struct {
	Language string `json:"language"`
}

// PostmanAuth represents authentication configuration.
type PostmanAuth struct {
	Type   string            `json:"type"`
	Bearer PostmanAuthParams `json:"bearer,omitempty"`
	Basic  PostmanAuthParams `json:"basic,omitempty"`
	APIKey PostmanAuthParams `json:"apikey,omitempty"`
	OAuth2 PostmanAuthParams `json:"oauth2,omitempty"`
}

// PostmanAuthParam is one auth setting.
type PostmanAuthParam struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
	Type  string `json:"type,omitempty"`
}

// PostmanAuthParams is the parameter list of one auth type. Collections
// written against v2.0 use an object instead of a list.
type PostmanAuthParams []PostmanAuthParam

// UnmarshalJSON accepts the v2.1 list form and the v2.0 object form.
func (p *PostmanAuthParams) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var obj map[string]any
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return err
		}
		out := make(PostmanAuthParams, 0, len(obj))
		for k, v := range obj {
			out = append(out, PostmanAuthParam{Key: k, Value: v})
		}
		*p = out
		return nil
	}
	var list []PostmanAuthParam
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return err
	}
	*p = list
	return nil
}

// Get returns the named parameter as text.
func (p PostmanAuthParams) Get(key string) string {
	for _, param := range p {
		if param.Key != key {
			continue
		}
		switch v := param.Value.(type) {
		case nil:
			return ""
		case string:
			return v
		default:
			return fmt.Sprint(v)
		}
	}
	return ""
}

// PostmanVariable represents a collection variable.
type PostmanVariable struct {
	Key      string `json:"key"`
	Value    any    `json:"value"`
	Type     string `json:"type,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`
}

// PostmanDescription is a description given either as a string or as an
// object with a content field. It always encodes as a string.
type PostmanDescription string

// UnmarshalJSON accepts a string, null, or {"content": ...}.
func (d *PostmanDescription) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		*d = ""
		return nil
	case trimmed[0] == '{':
		var obj struct {
			Content string `json:"content"`
		}
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return err
		}
		*d = PostmanDescription(obj.Content)
		return nil
	default:
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*d = PostmanDescription(s)
		return nil
	}
}

func isJSONString(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '"'
}
