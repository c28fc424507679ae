// Package parse provides string parsing utilities for CLI commands.
package parse

import (
	"encoding/json"
	"fmt"
	"strings"
)

// KeyValue parses a "key:value" or "key=value" string.
// If delimiters are provided, uses the first one found; otherwise defaults to ':'.
// Returns the key, value, and a boolean indicating success.
func KeyValue(s string, delimiters ...rune) (key, value string, ok bool) {
	if len(delimiters) == 0 {
		delimiters = []rune{':'}
	}

	for i, c := range s {
		for _, d := range delimiters {
			if c == d {
				return s[:i], s[i+1:], true
			}
		}
	}
	return "", "", false
}

// Variable parses a "name=value" assignment. The value is decoded as a
// JSON number or boolean when it is one; anything else stays a string.
func Variable(s string) (string, any, error) {
	name, raw, ok := KeyValue(s, '=')
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", nil, fmt.Errorf("invalid variable %q: expected name=value", s)
	}
	switch raw {
	case "true":
		return name, true, nil
	case "false":
		return name, false, nil
	}
	var n json.Number
	if err := json.Unmarshal([]byte(raw), &n); err == nil {
		if f, err := n.Float64(); err == nil {
			return name, f, nil
		}
	}
	return name, raw, nil
}
