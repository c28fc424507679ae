package collection

import "strings"

// Method is the HTTP verb of a Request, or the GRAPHQL sentinel.
type Method string

// Canonical request methods.
const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodDelete  Method = "DELETE"
	MethodPatch   Method = "PATCH"
	MethodHead    Method = "HEAD"
	MethodOptions Method = "OPTIONS"
	MethodGraphQL Method = "GRAPHQL"
)

// DefaultRequestName is used when an imported request carries no name and no
// usable URL path.
const DefaultRequestName = "Untitled Request"

// String returns the method as an upper-case string.
func (m Method) String() string {
	return string(m)
}

// IsCanonical reports whether m is one of the methods the authoring model
// knows about: GET, POST, PUT, DELETE, PATCH, HEAD and GRAPHQL.
func (m Method) IsCanonical() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodDelete, MethodPatch, MethodHead, MethodGraphQL:
		return true
	default:
		return false
	}
}

// ParseMethod normalizes an imported method value. Unrecognized values,
// including the empty string, become GET.
func ParseMethod(s string) Method {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	if m.IsCanonical() {
		return m
	}
	return MethodGet
}

// Request is the canonical unit of work.
//
// Headers and QueryParams hold JSON object strings such as
// `{"Accept":"application/json"}`. They may be empty or malformed; readers
// must treat either case as an empty mapping.
type Request struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Method      Method `json:"method"`
	URL         string `json:"url"`
	Headers     string `json:"headers"`
	Body        string `json:"body"`
	QueryParams string `json:"queryParams"`
	// FolderID is empty for requests at the collection root.
	FolderID    string `json:"folderId"`
	Description string `json:"description,omitempty"`
	// Response holds the last captured response body. Backups always
	// redact it.
	Response string `json:"response"`
}

// HeaderList decodes r.Headers, returning an empty list and the decode error
// when the string is not a JSON object.
func (r Request) HeaderList() (KVList, error) {
	return ParseKV(r.Headers)
}

// QueryList decodes r.QueryParams the same way HeaderList decodes headers.
func (r Request) QueryList() (KVList, error) {
	return ParseKV(r.QueryParams)
}

// InRoot reports whether the request is placed at the collection root.
func (r Request) InRoot() bool {
	return r.FolderID == ""
}

// Folder groups requests. Folders nest through ParentID, which is a plain
// lookup key into the owning collection's folder list.
type Folder struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// IsOpen is a UI expansion flag with no meaning to interchange formats.
	IsOpen   bool   `json:"isOpen"`
	ParentID string `json:"parentId,omitempty"`
}

// Collection is a complete canonical model as held by a caller.
type Collection struct {
	Name      string         `json:"name,omitempty"`
	Requests  []Request      `json:"requests"`
	Folders   []Folder       `json:"folders"`
	Variables VariableScopes `json:"variables"`
}
