package interchange

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/gostman/gostman/pkg/collection"
)

// DefaultMarkdownTitle heads exported documentation when no title is given.
const DefaultMarkdownTitle = "API Documentation"

// MaxHeaderValueLength is the number of characters of a header value shown
// in the Markdown headers table. Longer values are cut and end in "...".
const MaxHeaderValueLength = 50

const rootGroup = "root"

var methodEmoji = map[collection.Method]string{
	collection.MethodGet:     "🟢",
	collection.MethodPost:    "🟡",
	collection.MethodPut:     "🔵",
	collection.MethodDelete:  "🔴",
	collection.MethodPatch:   "🟣",
	collection.MethodHead:    "⚪",
	collection.MethodGraphQL: "🔷",
}

// MarkdownExportOptions configures Markdown export.
type MarkdownExportOptions struct {
	Title       string
	Description string
	// Folders names the groups. Requests whose folder is not listed are
	// grouped at the root.
	Folders []collection.Folder
}

// MarkdownExporter renders canonical requests as Markdown documentation.
type MarkdownExporter struct {
	warnings []string
}

// Warnings returns the warnings collected by the last Export call.
func (e *MarkdownExporter) Warnings() []string {
	return e.warnings
}

type markdownGroup struct {
	key      string
	name     string
	requests []collection.Request
}

// Export renders requests grouped by folder. Groups keep first-seen order
// and every non-root group is listed in the table of contents.
func (e *MarkdownExporter) Export(requests []collection.Request, opts MarkdownExportOptions) string {
	e.warnings = nil
	arena := collection.NewFolderArena(opts.Folders)

	var groups []*markdownGroup
	byKey := make(map[string]*markdownGroup)
	for _, r := range requests {
		key := arena.Resolve(r.FolderID)
		if key == "" {
			key = rootGroup
		}
		g, ok := byKey[key]
		if !ok {
			g = &markdownGroup{key: key}
			if f, found := arena.Get(key); found {
				g.name = orDefault(f.Name, defaultFolderName)
			}
			byKey[key] = g
			groups = append(groups, g)
		}
		g.requests = append(g.requests, r)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", orDefault(opts.Title, DefaultMarkdownTitle))
	if d := strings.TrimSpace(opts.Description); d != "" {
		b.WriteString(d)
		b.WriteString("\n\n")
	}

	hasFolders := false
	for _, g := range groups {
		if g.key != rootGroup {
			hasFolders = true
			break
		}
	}
	if hasFolders {
		b.WriteString("## Table of Contents\n\n")
		for _, g := range groups {
			if g.key == rootGroup {
				continue
			}
			fmt.Fprintf(&b, "- [%s](#%s)\n", g.name, markdownAnchor(g.name))
		}
		b.WriteString("\n")
	}

	for _, g := range groups {
		switch {
		case g.key != rootGroup:
			fmt.Fprintf(&b, "## %s\n\n", g.name)
		case hasFolders:
			b.WriteString("## Requests\n\n")
		}
		for _, r := range g.requests {
			e.writeRequest(&b, r)
		}
	}
	return b.String()
}

func (e *MarkdownExporter) writeRequest(b *strings.Builder, r collection.Request) {
	name := orDefault(r.Name, collection.DefaultRequestName)
	fmt.Fprintf(b, "### %s\n\n", name)

	emoji, ok := methodEmoji[r.Method]
	if !ok {
		emoji = "⚫"
	}
	fmt.Fprintf(b, "%s **%s** `%s`\n\n", emoji, r.Method, r.URL)

	if d := strings.TrimSpace(r.Description); d != "" {
		b.WriteString(d)
		b.WriteString("\n\n")
	}

	headers, err := r.HeaderList()
	if err != nil {
		e.warnf("request %q: headers are not a JSON object; omitted", name)
	}
	if len(headers) > 0 {
		b.WriteString("**Headers**\n\n")
		b.WriteString("| Header | Value |\n")
		b.WriteString("|--------|-------|\n")
		for _, h := range headers {
			fmt.Fprintf(b, "| %s | %s |\n", tableCell(h.Key), tableCell(truncateRunes(h.Value, MaxHeaderValueLength)))
		}
		b.WriteString("\n")
	}

	query, err := r.QueryList()
	if err != nil {
		e.warnf("request %q: query params are not a JSON object; omitted", name)
	}
	if len(query) > 0 {
		b.WriteString("**Query Parameters**\n\n")
		b.WriteString("| Parameter | Value | Type |\n")
		b.WriteString("|-----------|-------|------|\n")
		for _, q := range query {
			fmt.Fprintf(b, "| %s | %s | %s |\n", tableCell(q.Key), tableCell(q.Value), scalarType(q.Value))
		}
		b.WriteString("\n")
	}

	if body := strings.TrimSpace(r.Body); body != "" {
		writeBody(b, r.Method, body)
	}

	b.WriteString("---\n\n")
}

func (e *MarkdownExporter) warnf(format string, args ...any) {
	e.warnings = append(e.warnings, fmt.Sprintf(format, args...))
}

// writeBody fences the body. GraphQL documents get a graphql fence and
// their operation name; JSON is pretty-printed.
func writeBody(b *strings.Builder, method collection.Method, body string) {
	b.WriteString("**Body**\n\n")

	if method == collection.MethodGraphQL {
		if doc, err := parseGraphQL(body); err == nil {
			if len(doc.Operations) > 0 && doc.Operations[0].Name != "" {
				fmt.Fprintf(b, "Operation: `%s`\n\n", doc.Operations[0].Name)
			}
			fmt.Fprintf(b, "```graphql\n%s\n```\n\n", body)
			return
		}
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, []byte(body), "", "  "); err == nil {
		body = pretty.String()
	}
	fmt.Fprintf(b, "```json\n%s\n```\n\n", body)
}

// markdownAnchor lower-cases name and replaces whitespace runs with "-".
func markdownAnchor(name string) string {
	var b strings.Builder
	inSpace := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte('-')
				inSpace = true
			}
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

func tableCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// scalarType guesses the type of a query parameter value.
func scalarType(v string) string {
	if v == "true" || v == "false" {
		return TypeBoolean
	}
	if _, err := strconv.ParseFloat(v, 64); err == nil {
		return TypeNumber
	}
	return TypeString
}

// ExportToMarkdown renders requests as Markdown documentation.
func ExportToMarkdown(requests []collection.Request, opts MarkdownExportOptions) string {
	return (&MarkdownExporter{}).Export(requests, opts)
}
