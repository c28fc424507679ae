package interchange

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/gostman/gostman/pkg/collection"
)

// NativeVersion is the backup format version written on export.
const NativeVersion = "1.0"

// NativeBackup is the Gostman backup envelope.
type NativeBackup struct {
	Version    string        `json:"version"`
	ExportedAt string        `json:"exportedAt"`
	Gostman    NativeContent `json:"gostman"`
}

// NativeContent is the collection held in a backup.
type NativeContent struct {
	Requests  []collection.Request      `json:"requests"`
	Folders   []collection.Folder       `json:"folders"`
	Variables collection.VariableScopes `json:"variables"`
}

// nativeEnvelopeSchema checks the shape of the envelope only. Requests
// and folders are decoded, not validated, so older backups with missing
// fields still load.
const nativeEnvelopeSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["gostman"],
  "properties": {
    "version": {"type": ["string", "null"]},
    "exportedAt": {"type": ["string", "null"]},
    "gostman": {
      "type": "object",
      "properties": {
        "requests": {"type": ["array", "null"], "items": {"type": "object"}},
        "folders": {"type": ["array", "null"], "items": {"type": "object"}},
        "variables": {
          "type": ["object", "null"],
          "properties": {
            "local": {"$ref": "#/$defs/scope"},
            "environment": {"$ref": "#/$defs/scope"},
            "global": {"$ref": "#/$defs/scope"}
          }
        }
      }
    }
  },
  "$defs": {
    "scope": {
      "type": ["object", "null"],
      "additionalProperties": {"type": ["string", "number", "boolean"]}
    }
  }
}`

const nativeSchemaURL = "gostman-backup.json"

var (
	nativeSchemaOnce sync.Once
	nativeSchema     *jsonschema.Schema
	nativeSchemaErr  error
)

func compileNativeSchema() (*jsonschema.Schema, error) {
	nativeSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(nativeSchemaURL, strings.NewReader(nativeEnvelopeSchema)); err != nil {
			nativeSchemaErr = fmt.Errorf("failed to add schema resource: %w", err)
			return
		}
		nativeSchema, nativeSchemaErr = compiler.Compile(nativeSchemaURL)
	})
	return nativeSchema, nativeSchemaErr
}

// NativeExporter writes Gostman backups.
type NativeExporter struct {
	// Now stamps exportedAt. Defaults to time.Now.
	Now func() time.Time
}

// Export builds a backup. Every request's captured response is redacted.
func (e *NativeExporter) Export(requests []collection.Request, folders []collection.Folder, vars collection.VariableScopes) *NativeBackup {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}

	redacted := make([]collection.Request, len(requests))
	for i, r := range requests {
		r.Response = ""
		redacted[i] = r
	}
	copied := make([]collection.Folder, len(folders))
	copy(copied, folders)

	return &NativeBackup{
		Version:    NativeVersion,
		ExportedAt: now().UTC().Format(time.RFC3339),
		Gostman: NativeContent{
			Requests:  redacted,
			Folders:   copied,
			Variables: vars,
		},
	}
}

// ExportJSON builds a backup and serializes it with 2-space indentation.
func (e *NativeExporter) ExportJSON(requests []collection.Request, folders []collection.Folder, vars collection.VariableScopes) ([]byte, error) {
	data, err := json.MarshalIndent(e.Export(requests, folders, vars), "", "  ")
	if err != nil {
		return nil, &ExportError{
			Format:  ExportGostman,
			Message: "failed to marshal backup",
			Cause:   err,
		}
	}
	return append(data, '\n'), nil
}

// ExportToGostman builds a backup stamped with the current time.
func ExportToGostman(requests []collection.Request, folders []collection.Folder, vars collection.VariableScopes) *NativeBackup {
	return (&NativeExporter{}).Export(requests, folders, vars)
}

// nativeFolder decodes a backup folder, telling a missing isOpen apart
// from false.
type nativeFolder struct {
	collection.Folder
	IsOpen *bool `json:"isOpen"`
}

// nativeDocument is the decoding shape of a backup.
type nativeDocument struct {
	Gostman struct {
		Requests  []collection.Request      `json:"requests"`
		Folders   []nativeFolder            `json:"folders"`
		Variables collection.VariableScopes `json:"variables"`
	} `json:"gostman"`
}

// invalidNative reports a document that is not a backup. Without detail
// the error reads as ErrInvalidNativeFormat alone.
func invalidNative(detail string) error {
	return &ImportError{Format: FormatGostman, Message: detail, Cause: ErrInvalidNativeFormat}
}

// ImportGostman reads a backup. A document without a gostman key fails
// with ErrInvalidNativeFormat. Missing requests, folders or variables
// yield empty collections, folders without isOpen import open and requests
// whose folder does not exist move to the root.
func ImportGostman(data []byte) (*NativeContent, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ImportError{
			Format:  FormatGostman,
			Message: "failed to parse backup",
			Cause:   err,
		}
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, invalidNative("")
	}
	if _, ok := obj["gostman"]; !ok {
		return nil, invalidNative("")
	}

	schema, err := compileNativeSchema()
	if err != nil {
		return nil, &ImportError{Format: FormatGostman, Message: "schema compilation error", Cause: err}
	}
	if err := schema.Validate(doc); err != nil {
		return nil, invalidNative(validationMessage(err))
	}

	var backup nativeDocument
	if err := json.Unmarshal(data, &backup); err != nil {
		return nil, &ImportError{
			Format:  FormatGostman,
			Message: "failed to decode backup",
			Cause:   err,
		}
	}

	content := &NativeContent{
		Requests:  backup.Gostman.Requests,
		Folders:   make([]collection.Folder, 0, len(backup.Gostman.Folders)),
		Variables: backup.Gostman.Variables,
	}
	if content.Requests == nil {
		content.Requests = []collection.Request{}
	}
	for _, nf := range backup.Gostman.Folders {
		f := nf.Folder
		f.IsOpen = nf.IsOpen == nil || *nf.IsOpen
		content.Folders = append(content.Folders, f)
	}

	arena := collection.NewFolderArena(content.Folders)
	for i := range content.Requests {
		r := &content.Requests[i]
		r.Method = collection.ParseMethod(r.Method.String())
		r.FolderID = arena.Resolve(r.FolderID)
	}
	return content, nil
}

// validationMessage reports the innermost schema failure.
func validationMessage(err error) string {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err.Error()
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	loc := ve.InstanceLocation
	if loc == "" {
		loc = "/"
	}
	return loc + ": " + ve.Message
}
