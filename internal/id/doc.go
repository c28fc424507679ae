// Package id generates the opaque identifiers assigned to requests and
// folders created during import.
//
// UUID returns a random RFC 4122 version 4 identifier backed by
// github.com/google/uuid. Generator abstracts the source so importers can be
// driven by a deterministic Sequence in tests and reproducible conversions.
package id
