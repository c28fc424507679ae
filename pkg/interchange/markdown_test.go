package interchange

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gostman/gostman/pkg/collection"
)

func TestMarkdownExport_Groups(t *testing.T) {
	t.Parallel()

	folders := []collection.Folder{
		{ID: "f1", Name: "User  Management"},
		{ID: "f2", Name: "Billing"},
	}
	out := ExportToMarkdown([]collection.Request{
		{Name: "Root", Method: collection.MethodGet, URL: "https://x.io/"},
		{Name: "Invoices", Method: collection.MethodGet, URL: "https://x.io/invoices", FolderID: "f2"},
		{Name: "Users", Method: collection.MethodPost, URL: "https://x.io/users", FolderID: "f1", Description: "Creates a user."},
		{Name: "Stray", Method: collection.MethodDelete, URL: "https://x.io/stray", FolderID: "missing"},
	}, MarkdownExportOptions{Title: "Shop API", Description: "Internal endpoints.", Folders: folders})

	assert.True(t, strings.HasPrefix(out, "# Shop API\n\nInternal endpoints.\n\n## Table of Contents\n\n"))
	assert.Contains(t, out, "- [Billing](#billing)\n- [User  Management](#user-management)\n")
	assert.Contains(t, out, "## Requests\n\n### Root\n")
	assert.Contains(t, out, "## Billing\n\n### Invoices\n")
	assert.Contains(t, out, "🟡 **POST** `https://x.io/users`\n\nCreates a user.\n\n")
	assert.Contains(t, out, "🔴 **DELETE** `https://x.io/stray`")
	assert.Less(t, strings.Index(out, "### Root"), strings.Index(out, "### Stray"), "dangling folders group at root")
	assert.Less(t, strings.Index(out, "### Stray"), strings.Index(out, "## Billing"))
	assert.Equal(t, 4, strings.Count(out, "\n---\n"))
}

func TestMarkdownExport_NoFolders(t *testing.T) {
	t.Parallel()

	out := ExportToMarkdown([]collection.Request{
		{Name: "Ping", Method: collection.MethodHead, URL: "https://x.io/ping"},
	}, MarkdownExportOptions{})

	assert.True(t, strings.HasPrefix(out, "# "+DefaultMarkdownTitle+"\n\n### Ping\n"))
	assert.NotContains(t, out, "Table of Contents")
	assert.NotContains(t, out, "## Requests")
	assert.Contains(t, out, "⚪ **HEAD**")
}

func TestMarkdownExport_Tables(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", 60)
	out := ExportToMarkdown([]collection.Request{{
		Name:        "Search",
		Method:      collection.MethodGet,
		URL:         "https://x.io/search",
		Headers:     `{"X-Long":"` + long + `","X-Pipe":"a|b"}`,
		QueryParams: `{"page":"2","active":"true","q":"abc"}`,
	}}, MarkdownExportOptions{})

	assert.Contains(t, out, "| X-Long | "+strings.Repeat("a", 50)+"... |\n")
	assert.NotContains(t, out, strings.Repeat("a", 51))
	assert.Contains(t, out, `| X-Pipe | a\|b |`)
	assert.Contains(t, out, "| page | 2 | number |\n")
	assert.Contains(t, out, "| active | true | boolean |\n")
	assert.Contains(t, out, "| q | abc | string |\n")
}

func TestMarkdownExport_Bodies(t *testing.T) {
	t.Parallel()

	out := ExportToMarkdown([]collection.Request{
		{Name: "JSON", Method: collection.MethodPost, URL: "https://x.io", Body: `{"a":1}`},
		{Name: "GQL", Method: collection.MethodGraphQL, URL: "https://x.io/graphql", Body: "query GetUser { user { id } }"},
		{Name: "Text", Method: collection.MethodPut, URL: "https://x.io", Body: "plain words"},
		{Name: "Blank", Method: collection.MethodPut, URL: "https://x.io", Body: "  "},
	}, MarkdownExportOptions{})

	assert.Contains(t, out, "```json\n{\n  \"a\": 1\n}\n```\n")
	assert.Contains(t, out, "🔷 **GRAPHQL**")
	assert.Contains(t, out, "Operation: `GetUser`\n\n```graphql\nquery GetUser { user { id } }\n```\n")
	assert.Contains(t, out, "```json\nplain words\n```\n")
	assert.Equal(t, 3, strings.Count(out, "**Body**"))
}

func TestMarkdownExport_MalformedHeaders(t *testing.T) {
	t.Parallel()

	exp := &MarkdownExporter{}
	out := exp.Export([]collection.Request{
		{Name: "Bad", Method: collection.MethodGet, URL: "https://x.io", Headers: "{", QueryParams: "nope"},
		{Name: "", Method: collection.MethodGet, URL: "https://x.io"},
	}, MarkdownExportOptions{})

	assert.NotContains(t, out, "**Headers**")
	assert.NotContains(t, out, "**Query Parameters**")
	assert.Contains(t, out, "### "+collection.DefaultRequestName)
	assert.Len(t, exp.Warnings(), 2)
}

func TestMarkdownAnchor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "user-management", markdownAnchor("User \t Management"))
	assert.Equal(t, "-lead", markdownAnchor(" Lead"))
	assert.Equal(t, "ünïcode", markdownAnchor("ÜnÏcode"))
}
