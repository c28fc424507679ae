// Package collection defines the canonical in-memory model that every
// interchange format converts to and from.
//
// A Collection is a flat list of Requests, a flat arena of Folders linked by
// ParentID, and three independent variable scopes. Headers and query
// parameters are held on a Request as JSON object strings, which keeps the
// model byte-compatible with the native backup format; use ParseKV or the
// Request helpers to read them as ordered key/value pairs.
//
// Nothing in this package retains references to its inputs. Helpers that
// combine values (MergeVariables, VariableScopes.Merge) return new maps.
package collection
