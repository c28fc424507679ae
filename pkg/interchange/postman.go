package interchange

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/gostman/gostman/internal/id"
	"github.com/gostman/gostman/pkg/collection"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// DefaultCollectionName names exported collections when the caller gives no
// name.
const DefaultCollectionName = "Gostman Collection"

const defaultFolderName = "Untitled Folder"

// PostmanImport is the canonical content recovered from a Postman
// collection.
type PostmanImport struct {
	CollectionName string
	Description    string
	Requests       []collection.Request
	Folders        []collection.Folder
	Variables      collection.Variables
	Warnings       []string
}

// PostmanImporter imports Postman Collection v2.x format.
type PostmanImporter struct {
	// IDs generates folder ids and ids for items that carry none.
	IDs id.Generator
}

// ParsePostmanCollection decodes collection JSON. Input that decodes but
// has neither info nor item is rejected.
func ParsePostmanCollection(data []byte) (*PostmanCollection, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, &ImportError{Format: FormatPostman, Message: "empty collection"}
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return nil, &ImportError{
			Format:  FormatPostman,
			Message: "failed to parse Postman Collection",
			Cause:   err,
		}
	}
	_, hasInfo := probe["info"]
	_, hasItem := probe["item"]
	if !hasInfo && !hasItem {
		return nil, &ImportError{
			Format:  FormatPostman,
			Message: "not a Postman Collection: missing info and item",
		}
	}

	var c PostmanCollection
	if err := json.Unmarshal(trimmed, &c); err != nil {
		return nil, &ImportError{
			Format:  FormatPostman,
			Message: "failed to parse Postman Collection",
			Cause:   err,
		}
	}
	return &c, nil
}

// Import parses data and converts it to canonical requests and folders.
func (i *PostmanImporter) Import(data []byte) (*PostmanImport, error) {
	c, err := ParsePostmanCollection(data)
	if err != nil {
		return nil, err
	}
	return i.Convert(c), nil
}

// Convert flattens a parsed collection. Folders are emitted in pre-order
// with fresh ids; each request carries the id of its nearest enclosing
// folder. Auth is flattened into headers or query parameters, inheriting
// from enclosing folders and the collection.
func (i *PostmanImporter) Convert(c *PostmanCollection) *PostmanImport {
	w := &postmanWalker{
		ids: i.IDs.OrDefault(),
		out: &PostmanImport{
			CollectionName: c.Info.Name,
			Description:    string(c.Info.Description),
			Requests:       []collection.Request{},
			Folders:        []collection.Folder{},
			Variables:      collection.Variables{},
		},
	}
	w.walk(c.Item, "", c.Auth)

	for _, v := range c.Variable {
		if v.Disabled || v.Key == "" {
			continue
		}
		w.out.Variables[v.Key] = variableValue(v.Value)
	}
	return w.out
}

type postmanWalker struct {
	ids id.Generator
	out *PostmanImport
}

func (w *postmanWalker) walk(items []PostmanItem, parentID string, auth *PostmanAuth) {
	for _, item := range items {
		if item.IsFolder() {
			name := item.Name
			if name == "" {
				name = defaultFolderName
			}
			folder := collection.Folder{ID: w.ids(), Name: name, IsOpen: true, ParentID: parentID}
			w.out.Folders = append(w.out.Folders, folder)
			w.walk(item.Item, folder.ID, effectiveAuth(item.Auth, auth))
			continue
		}

		if item.Request == nil {
			w.warnf("item %q has no request; skipped", item.Name)
			continue
		}
		w.out.Requests = append(w.out.Requests, w.request(item, parentID, auth))
	}
}

func (w *postmanWalker) request(item PostmanItem, folderID string, inherited *PostmanAuth) collection.Request {
	req := item.Request
	full := req.URL.String()
	base, rawQuery := splitQuery(full)

	query := collection.KVList{}
	if len(req.URL.Query) > 0 {
		for _, q := range req.URL.Query {
			if q.Disabled || q.Key == "" {
				continue
			}
			query = query.Set(q.Key, q.Value)
		}
	} else {
		query = parseRawQuery(rawQuery)
	}

	headers := collection.KVList{}
	for _, h := range req.Header {
		if h.Disabled || h.Key == "" {
			continue
		}
		headers = headers.Set(h.Key, h.Value)
	}

	headers, query = w.applyAuth(effectiveAuth(req.Auth, inherited), headers, query)

	method := collection.ParseMethod(req.Method)
	if m := strings.ToUpper(strings.TrimSpace(req.Method)); m != "" && m != method.String() {
		w.warnf("request %q: method %s imported as %s", item.Name, m, method)
	}
	body := ""
	if req.Body != nil {
		body = w.body(item.Name, req.Body)
		if req.Body.Mode == BodyModeGraphQL {
			method = collection.MethodGraphQL
		}
	}

	name := item.Name
	if name == "" {
		name = urlPath(req.URL, base)
	}
	if name == "" {
		name = collection.DefaultRequestName
	}

	reqID := item.ID
	if reqID == "" {
		reqID = w.ids()
	}

	description := string(item.Description)
	if description == "" {
		description = string(req.Description)
	}

	return collection.Request{
		ID:          reqID,
		Name:        name,
		Method:      method,
		URL:         full,
		Headers:     collection.EncodeKV(headers),
		Body:        body,
		QueryParams: collection.EncodeKV(query),
		FolderID:    folderID,
		Description: description,
	}
}

func (w *postmanWalker) body(name string, b *PostmanBody) string {
	switch b.Mode {
	case BodyModeRaw, "":
		return b.Raw
	case BodyModeURLEncoded:
		return formParamsJSON(b.URLEncoded)
	case BodyModeFormData:
		return formParamsJSON(b.FormData)
	case BodyModeGraphQL:
		if b.GraphQL == nil {
			return ""
		}
		return b.GraphQL.Query
	default:
		w.warnf("request %q: body mode %q not supported; body dropped", name, b.Mode)
		return ""
	}
}

// applyAuth flattens auth into headers or query parameters. A header the
// request already sets is left alone.
func (w *postmanWalker) applyAuth(auth *PostmanAuth, headers, query collection.KVList) (collection.KVList, collection.KVList) {
	if auth == nil {
		return headers, query
	}

	setHeader := func(name, value string) {
		if _, exists := headers.Lookup(name); !exists {
			headers = headers.Set(name, value)
		}
	}

	switch strings.ToLower(auth.Type) {
	case "bearer":
		if token := auth.Bearer.Get("token"); token != "" {
			setHeader("Authorization", "Bearer "+token)
		}
	case "basic":
		user, pass := auth.Basic.Get("username"), auth.Basic.Get("password")
		if user != "" || pass != "" {
			creds := base64.StdEncoding.EncodeToString([]byte(user + ":" + pass))
			setHeader("Authorization", "Basic "+creds)
		}
	case "apikey":
		key, value := auth.APIKey.Get("key"), auth.APIKey.Get("value")
		if key == "" {
			break
		}
		if strings.EqualFold(auth.APIKey.Get("in"), "query") {
			query = query.Set(key, value)
		} else {
			setHeader(key, value)
		}
	case "oauth2":
		if token := auth.OAuth2.Get("accessToken"); token != "" {
			prefix := auth.OAuth2.Get("headerPrefix")
			if prefix == "" {
				prefix = "Bearer"
			}
			setHeader("Authorization", prefix+" "+token)
		}
	case "noauth", "":
	default:
		w.warnf("auth type %q not supported; skipped", auth.Type)
	}
	return headers, query
}

func (w *postmanWalker) warnf(format string, args ...any) {
	w.out.Warnings = append(w.out.Warnings, fmt.Sprintf(format, args...))
}

// effectiveAuth resolves Postman's inheritance: an absent or "inherit" auth
// defers to the enclosing scope.
func effectiveAuth(own, inherited *PostmanAuth) *PostmanAuth {
	if own == nil || strings.EqualFold(own.Type, "inherit") {
		return inherited
	}
	return own
}

func formParamsJSON(params []PostmanFormParam) string {
	kv := collection.KVList{}
	for _, p := range params {
		if p.Disabled || p.Key == "" {
			continue
		}
		kv = kv.Set(p.Key, p.Value)
	}
	return collection.EncodeKV(kv)
}

func variableValue(v any) any {
	if collection.IsScalar(v) {
		return v
	}
	if v == nil {
		return ""
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

// splitQuery cuts a URL into the part before the query string and the raw
// query. Any fragment is dropped.
func splitQuery(raw string) (base, query string) {
	raw, _, _ = strings.Cut(raw, "#")
	base, query, _ = strings.Cut(raw, "?")
	return base, query
}

// parseRawQuery splits a query string keeping parameter order. Values that
// do not unescape are kept verbatim.
func parseRawQuery(raw string) collection.KVList {
	out := collection.KVList{}
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		if k, err := url.QueryUnescape(key); err == nil {
			key = k
		}
		if v, err := url.QueryUnescape(value); err == nil {
			value = v
		}
		if key == "" {
			continue
		}
		out = out.Set(key, value)
	}
	return out
}

func urlPath(u PostmanURL, base string) string {
	if len(u.Path) > 0 {
		return "/" + strings.Join(u.Path, "/")
	}
	if parsed, err := url.Parse(base); err == nil && parsed.Host != "" {
		return parsed.Path
	}
	return base
}

// PostmanExportOptions configures Postman export.
type PostmanExportOptions struct {
	Name        string
	Description string
	Variables   collection.Variables
}

// PostmanExporter exports canonical requests as a Postman Collection v2.1.
type PostmanExporter struct {
	warnings []string
}

// Warnings returns the warnings collected by the last Export call.
func (e *PostmanExporter) Warnings() []string {
	return e.warnings
}

// Export builds the collection. Folder items come before root requests; a
// folder holds its child folders and then its requests. Folders that end up
// with no items are dropped, bottom-up, so a folder holding only empty
// subfolders is dropped too. Requests whose folder does not exist land in
// the root.
func (e *PostmanExporter) Export(requests []collection.Request, folders []collection.Folder, opts PostmanExportOptions) *PostmanCollection {
	e.warnings = nil
	arena := collection.NewFolderArena(folders)

	byFolder := make(map[string][]PostmanItem)
	var rootRequests []PostmanItem
	for _, r := range requests {
		item := e.requestItem(r)
		if fid := arena.Resolve(r.FolderID); fid != "" {
			byFolder[fid] = append(byFolder[fid], item)
			continue
		}
		if r.FolderID != "" {
			e.warnf("request %q: folder %q not found; placed at root", r.Name, r.FolderID)
		}
		rootRequests = append(rootRequests, item)
	}

	b := &folderBuilder{arena: arena, requests: byFolder, visited: make(map[string]bool)}
	items := []PostmanItem{}
	for _, fid := range arena.Children("") {
		if item, ok := b.build(fid); ok {
			items = append(items, item)
		}
	}
	// Folders caught in a parent cycle are unreachable from the top level.
	for _, f := range folders {
		if arena.Has(f.ID) && !b.visited[f.ID] {
			if item, ok := b.build(f.ID); ok {
				items = append(items, item)
			}
		}
	}
	items = append(items, rootRequests...)

	name := opts.Name
	if name == "" {
		name = DefaultCollectionName
	}
	return &PostmanCollection{
		Info: PostmanInfo{
			Name:        name,
			Description: PostmanDescription(opts.Description),
			Schema:      PostmanSchemaV21,
		},
		Item:     items,
		Variable: exportVariables(opts.Variables),
	}
}

type folderBuilder struct {
	arena    *collection.FolderArena
	requests map[string][]PostmanItem
	visited  map[string]bool
}

func (b *folderBuilder) build(fid string) (PostmanItem, bool) {
	b.visited[fid] = true
	folder, _ := b.arena.Get(fid)

	children := []PostmanItem{}
	for _, child := range b.arena.Children(fid) {
		if b.visited[child] {
			continue
		}
		if item, ok := b.build(child); ok {
			children = append(children, item)
		}
	}
	children = append(children, b.requests[fid]...)
	if len(children) == 0 {
		return PostmanItem{}, false
	}

	name := folder.Name
	if name == "" {
		name = defaultFolderName
	}
	return PostmanItem{Name: name, Item: children}, true
}

func (e *PostmanExporter) requestItem(r collection.Request) PostmanItem {
	headers, err := r.HeaderList()
	if err != nil {
		e.warnf("request %q: headers are not a JSON object; dropped", r.Name)
	}
	query, err := r.QueryList()
	if err != nil {
		e.warnf("request %q: query params are not a JSON object; dropped", r.Name)
	}

	req := &PostmanRequest{
		Method:      r.Method.String(),
		URL:         postmanURL(r.URL, query),
		Description: PostmanDescription(r.Description),
	}
	if req.Method == "" {
		req.Method = collection.MethodGet.String()
	}
	for _, h := range headers {
		req.Header = append(req.Header, PostmanHeader{Key: h.Key, Value: h.Value, Type: "text"})
	}

	if r.Method == collection.MethodGraphQL {
		req.Method = collection.MethodPost.String()
		req.Body = graphQLBody(r.Body)
	} else {
		req.Body = rawBody(r.Body)
	}

	return PostmanItem{ID: r.ID, Name: r.Name, Request: req}
}

func (e *PostmanExporter) warnf(format string, args ...any) {
	e.warnings = append(e.warnings, fmt.Sprintf(format, args...))
}

// postmanURL builds the url object. Raw is the request URL verbatim so it
// imports back unchanged. Query entries come from the request's params, or
// from the URL's own query string when it has no params.
func postmanURL(raw string, params collection.KVList) PostmanURL {
	base, rawQuery := splitQuery(raw)
	if len(params) == 0 {
		params = parseRawQuery(rawQuery)
	}

	u := PostmanURL{Raw: raw}
	rest := base
	if scheme, after, ok := strings.Cut(rest, "://"); ok {
		u.Protocol = scheme
		rest = after
	}
	host, path, _ := strings.Cut(rest, "/")
	if h, port, ok := strings.Cut(host, ":"); ok && !strings.Contains(host, "{{") {
		host, u.Port = h, port
	}
	if host != "" {
		u.Host = strings.Split(host, ".")
	}
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			u.Path = append(u.Path, seg)
		}
	}

	for _, p := range params {
		u.Query = append(u.Query, PostmanQuery{Key: p.Key, Value: p.Value})
	}
	return u
}

// rawBody emits a raw body, marking it as JSON when it looks like an object.
func rawBody(body string) *PostmanBody {
	if strings.TrimSpace(body) == "" {
		return nil
	}
	b := &PostmanBody{Mode: BodyModeRaw, Raw: body}
	if strings.HasPrefix(strings.TrimSpace(body), "{") {
		b.Options = &PostmanBodyOptions{Raw: &PostmanRawOptions{Language: "json"}}
	}
	return b
}

// graphQLBody emits a graphql-mode body. The stored body is either a bare
// query document or a JSON envelope with query and variables.
func graphQLBody(body string) *PostmanBody {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return nil
	}
	if strings.HasPrefix(trimmed, "{") {
		var envelope struct {
			Query     string          `json:"query"`
			Variables json.RawMessage `json:"variables"`
		}
		if err := json.Unmarshal([]byte(trimmed), &envelope); err == nil && envelope.Query != "" {
			return &PostmanBody{
				Mode:    BodyModeGraphQL,
				GraphQL: &PostmanGraphQL{Query: envelope.Query, Variables: envelope.Variables},
			}
		}
	}
	if _, err := parseGraphQL(trimmed); err != nil {
		return rawBody(body)
	}
	return &PostmanBody{Mode: BodyModeGraphQL, GraphQL: &PostmanGraphQL{Query: body}}
}

func parseGraphQL(query string) (*ast.QueryDocument, error) {
	doc, err := parser.ParseQuery(&ast.Source{Name: "request", Input: query})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func exportVariables(vars collection.Variables) []PostmanVariable {
	if len(vars) == 0 {
		return nil
	}
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]PostmanVariable, 0, len(keys))
	for _, k := range keys {
		v := vars[k]
		typ := "string"
		switch v.(type) {
		case bool:
			typ = "boolean"
		case string:
		default:
			if collection.IsScalar(v) {
				typ = "number"
			}
		}
		out = append(out, PostmanVariable{Key: k, Value: v, Type: typ})
	}
	return out
}
