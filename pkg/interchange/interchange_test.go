package interchange

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gostman/gostman/internal/id"
	"github.com/gostman/gostman/pkg/collection"
	"github.com/gostman/gostman/pkg/logging"
)

const samplePostman = `{
  "info": {"name": "Sample", "schema": "https://schema.getpostman.com/json/collection/v2.1.0/collection.json"},
  "item": [
    {"name": "Users", "item": [
      {"name": "List", "request": {"method": "GET", "url": "https://api.example.com/users?page=1",
        "header": [{"key": "Accept", "value": "application/json"}]}}
    ]}
  ],
  "variable": [{"key": "baseUrl", "value": "https://api.example.com"}]
}`

func sampleModel() collection.Collection {
	return collection.Collection{
		Name: "My API",
		Requests: []collection.Request{
			{ID: "1", Name: "List users", Method: collection.MethodGet, URL: "https://api.example.com/users", FolderID: "f"},
			{ID: "2", Name: "Create user", Method: collection.MethodPost, URL: "https://api.example.com/users",
				Body: `{"name":"a"}`, Response: "captured"},
		},
		Folders:   []collection.Folder{{ID: "f", Name: "Users", IsOpen: true}},
		Variables: collection.VariableScopes{Local: collection.Variables{"token": "t"}},
	}
}

func TestImportCollection_Detects(t *testing.T) {
	t.Parallel()

	eng := New(WithIDGenerator(id.Sequence("t")))
	res := eng.ImportCollection(FormatUnknown, samplePostman)

	require.True(t, res.Success, res.Error)
	assert.Equal(t, FormatPostman, res.Format)
	assert.Equal(t, "Sample", res.CollectionName)
	require.Len(t, res.Folders, 1)
	require.Len(t, res.Requests, 1)
	assert.Equal(t, res.Folders[0].ID, res.Requests[0].FolderID)
	assert.Equal(t, `{"page":"1"}`, res.Requests[0].QueryParams)
	assert.Equal(t, collection.Variables{"baseUrl": "https://api.example.com"}, res.Variables.Local)

	model := res.Collection()
	assert.Equal(t, "Sample", model.Name)
	assert.Len(t, model.Requests, 1)
}

func TestImportCollection_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		format     Format
		in         string
		wantFormat Format
		wantErr    string
	}{
		{"garbage", FormatUnknown, "definitely not json", FormatUnknown, "unable to detect format"},
		{"openapi", "", `{"openapi":"3.0.3","info":{"title":"x","version":"1"},"paths":{}}`, FormatOpenAPI, "unsupported format"},
		{"legacy native without envelope", FormatUnknown, `{"version":"1.0","requests":[]}`, FormatGostman, "Invalid Gostman export format"},
		{"forced postman on garbage", FormatPostman, "[]", FormatPostman, "failed to parse Postman Collection"},
		{"bogus format name", Format("har"), "{}", FormatUnknown, "unable to detect format"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := ImportCollection(tt.format, tt.in)
			assert.False(t, res.Success)
			assert.Equal(t, tt.wantFormat, res.Format)
			assert.Contains(t, res.Error, tt.wantErr)
			assert.NotNil(t, res.Requests)
			assert.NotNil(t, res.Folders)
		})
	}
}

func TestImportCollection_Native(t *testing.T) {
	t.Parallel()

	out, err := ExportCollection(ExportGostman, sampleModel(), ExportOptions{})
	require.NoError(t, err)

	res := ImportCollection(FormatUnknown, string(out.Data))
	require.True(t, res.Success, res.Error)
	assert.Equal(t, FormatGostman, res.Format)
	assert.Len(t, res.Requests, 2)
	assert.Empty(t, res.Requests[1].Response)
	assert.Equal(t, collection.Variables{"token": "t"}, res.Variables.Local)
}

func TestExportCollection_Formats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format    ExportFormat
		filename  string
		mediaType string
		contains  string
	}{
		{ExportPostman, "my-api.json", "application/json", `"name": "My API"`},
		{ExportOpenAPIJSON, "my-api.json", "application/json", `"title": "My API"`},
		{ExportOpenAPIYAML, "my-api.yaml", "application/yaml", "title: My API"},
		{ExportMarkdown, "my-api.md", "text/markdown; charset=utf-8", "# My API"},
		{ExportGostman, "my-api.json", "application/json", `"exportedAt"`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.format.String(), func(t *testing.T) {
			t.Parallel()
			res, err := ExportCollection(tt.format, sampleModel(), ExportOptions{})
			require.NoError(t, err)
			assert.Equal(t, tt.format, res.Format)
			assert.Equal(t, tt.filename, res.Filename)
			assert.Equal(t, tt.format.Extension(), res.Extension)
			assert.Equal(t, tt.mediaType, res.MediaType)
			assert.Equal(t, 2, res.RequestCount)
			assert.Contains(t, string(res.Data), tt.contains)
		})
	}
}

func TestExportCollection_OptionsOverrideModel(t *testing.T) {
	t.Parallel()

	res, err := ExportCollection(ExportOpenAPIJSON, sampleModel(), ExportOptions{
		OpenAPI: OpenAPIExportOptions{Title: "Override", BaseURL: "https://prod.example.com"},
	})
	require.NoError(t, err)
	assert.Contains(t, string(res.Data), `"title": "Override"`)
	assert.Contains(t, string(res.Data), `"url": "https://prod.example.com"`)

	res, err = ExportCollection(ExportPostman, sampleModel(), ExportOptions{})
	require.NoError(t, err)
	assert.Contains(t, string(res.Data), `"key": "token"`)
}

func TestExportCollection_Unsupported(t *testing.T) {
	t.Parallel()

	res, err := ExportCollection(ExportFormat("har"), sampleModel(), ExportOptions{})
	assert.Nil(t, res)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	assert.True(t, IsUnsupported(err))

	var ee *ExportError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, ExportFormat("har"), ee.Format)
	assert.Contains(t, err.Error(), "postman, openapi-json, openapi-yaml, markdown, gostman")
}

func TestExportCollection_WarningsAreReported(t *testing.T) {
	t.Parallel()

	model := sampleModel()
	model.Requests = append(model.Requests, collection.Request{
		Name: "bad", Method: collection.MethodGet, URL: "https://x.io", Headers: "{nope",
	})

	res, err := ExportCollection(ExportMarkdown, model, ExportOptions{})
	require.NoError(t, err)
	assert.Len(t, res.Warnings, 1)
}

func TestEngine_Logs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.New(logging.Config{Level: logging.LevelDebug, Format: logging.FormatJSON, Output: &buf})
	eng := New(WithLogger(logger))

	res := eng.ImportCollection(FormatUnknown, samplePostman)
	require.True(t, res.Success)

	out := buf.String()
	assert.Contains(t, out, `"msg":"format detected"`)
	assert.Contains(t, out, `"component":"interchange"`)
	assert.Contains(t, out, `"msg":"collection imported"`)
	assert.True(t, strings.Count(out, "\n") >= 2)
}

func TestFilename(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "petstore-v2.yaml", Filename("  Petstore (v2) ", ExportOpenAPIYAML))
	assert.Equal(t, "collection.md", Filename("***", ExportMarkdown))
	assert.Equal(t, "cafe-creme-api.json", Filename("Café Crème API", ExportPostman))
}
