package collection

import "fmt"

// Variables maps variable names to scalar values: string, number or bool.
type Variables map[string]any

// Scope names a variable mapping.
type Scope string

// Variable scopes. No cross-scope invariants are enforced.
const (
	ScopeLocal       Scope = "local"
	ScopeEnvironment Scope = "environment"
	ScopeGlobal      Scope = "global"
)

// VariableScopes holds one mapping per scope.
type VariableScopes struct {
	Local       Variables `json:"local,omitempty" yaml:"local,omitempty"`
	Environment Variables `json:"environment,omitempty" yaml:"environment,omitempty"`
	Global      Variables `json:"global,omitempty" yaml:"global,omitempty"`
}

// IsScalar reports whether v is a value a variable may hold.
func IsScalar(v any) bool {
	switch v.(type) {
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	default:
		return false
	}
}

// Set stores value under name, rejecting non-scalar values.
func (v Variables) Set(name string, value any) error {
	if !IsScalar(value) {
		return fmt.Errorf("variable %q: unsupported value type %T", name, value)
	}
	v[name] = value
	return nil
}

// String returns the value of name formatted as text.
func (v Variables) String(name string) (string, bool) {
	val, ok := v[name]
	if !ok {
		return "", false
	}
	if s, isStr := val.(string); isStr {
		return s, true
	}
	return fmt.Sprint(val), true
}

// MergeVariables returns a new mapping holding dst overlaid with src. The last
// writer wins.
func MergeVariables(dst, src Variables) Variables {
	out := make(Variables, len(dst)+len(src))
	for k, val := range dst {
		out[k] = val
	}
	for k, val := range src {
		out[k] = val
	}
	return out
}

// Get returns the mapping for a scope, or nil for an unknown scope.
func (s VariableScopes) Get(scope Scope) Variables {
	switch scope {
	case ScopeLocal:
		return s.Local
	case ScopeEnvironment:
		return s.Environment
	case ScopeGlobal:
		return s.Global
	default:
		return nil
	}
}

// Merge overlays other onto s scope by scope and returns the result.
func (s VariableScopes) Merge(other VariableScopes) VariableScopes {
	return VariableScopes{
		Local:       mergeNonEmpty(s.Local, other.Local),
		Environment: mergeNonEmpty(s.Environment, other.Environment),
		Global:      mergeNonEmpty(s.Global, other.Global),
	}
}

// Empty reports whether every scope is empty.
func (s VariableScopes) Empty() bool {
	return len(s.Local) == 0 && len(s.Environment) == 0 && len(s.Global) == 0
}

func mergeNonEmpty(dst, src Variables) Variables {
	if len(dst) == 0 && len(src) == 0 {
		return nil
	}
	return MergeVariables(dst, src)
}
