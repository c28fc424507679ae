// Package cli provides the command-line interface for gostman.
//
// Every command is a thin layer over the interchange engine:
//   - detect: Report the collection format of one or more files
//   - import: Import Postman collections or gostman backups into one backup
//   - export: Export a gostman backup as Postman, OpenAPI, Markdown or a backup
//   - convert: Import any supported file and export it in another format
//   - validate: Validate an OpenAPI 3 document
//   - infer: Infer a JSON schema from a sample JSON document
//   - config: Display effective configuration and where each value came from
//   - version: Show gostman version
//
// Configuration is read from ~/.config/gostman/config.yaml, then
// .gostmanrc.yaml in the working directory, then GOSTMAN_* environment
// variables, then flags.
//
// Usage:
//
//	gostman import collections/**/*.postman_collection.json -o backup.json
//	gostman export backup.json -f openapi-yaml -o api.yaml
//	gostman export backup.json -f markdown --render
//	gostman convert collection.json -f markdown -o docs/
//	gostman validate api.yaml --timeout 10
package cli
