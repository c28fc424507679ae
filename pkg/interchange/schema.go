package interchange

import (
	"encoding/json"
	"sort"
)

// Schema is the JSON Schema subset emitted in OpenAPI documents.
type Schema struct {
	Type       string             `json:"type,omitempty" yaml:"type,omitempty"`
	Format     string             `json:"format,omitempty" yaml:"format,omitempty"`
	Properties map[string]*Schema `json:"properties,omitempty" yaml:"properties,omitempty"`
	Items      *Schema            `json:"items,omitempty" yaml:"items,omitempty"`
	Required   []string           `json:"required,omitempty" yaml:"required,omitempty"`
	Example    any                `json:"example,omitempty" yaml:"example,omitempty"`
}

// objectSchema is the encoding of an object schema, which always carries
// its properties, even when there are none.
type objectSchema struct {
	Type       string             `json:"type" yaml:"type"`
	Format     string             `json:"format,omitempty" yaml:"format,omitempty"`
	Properties map[string]*Schema `json:"properties" yaml:"properties"`
	Required   []string           `json:"required,omitempty" yaml:"required,omitempty"`
	Example    any                `json:"example,omitempty" yaml:"example,omitempty"`
}

// plainSchema drops Schema's marshal methods.
type plainSchema Schema

func (s Schema) encoded() any {
	if s.Type != TypeObject {
		return plainSchema(s)
	}
	props := s.Properties
	if props == nil {
		props = map[string]*Schema{}
	}
	return objectSchema{
		Type:       s.Type,
		Format:     s.Format,
		Properties: props,
		Required:   s.Required,
		Example:    s.Example,
	}
}

// MarshalJSON implements json.Marshaler.
func (s Schema) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.encoded())
}

// MarshalYAML implements yaml.Marshaler.
func (s Schema) MarshalYAML() (any, error) {
	return s.encoded(), nil
}

// Schema type names.
const (
	TypeNull    = "null"
	TypeString  = "string"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
)

// InferSchema derives a schema fragment from an example value. It accepts
// anything encoding/json can represent and never fails; values it cannot
// represent yield an unconstrained schema.
//
// Arrays are described by their first element only, so heterogeneous arrays
// are under-specified. Object properties are required unless their value is
// null or the empty string; required names are listed in sorted order.
func InferSchema(value any) *Schema {
	switch v := value.(type) {
	case nil:
		return &Schema{Type: TypeNull}
	case string:
		return &Schema{Type: TypeString}
	case bool:
		return &Schema{Type: TypeBoolean}
	case json.Number,
		float32, float64,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return &Schema{Type: TypeNumber}
	case []any:
		return inferArray(v)
	case map[string]any:
		return inferObject(v)
	default:
		return inferReflected(value)
	}
}

func inferArray(items []any) *Schema {
	s := &Schema{Type: TypeArray, Items: &Schema{}}
	if len(items) > 0 {
		s.Items = InferSchema(items[0])
	}
	return s
}

func inferObject(obj map[string]any) *Schema {
	s := &Schema{
		Type:       TypeObject,
		Properties: make(map[string]*Schema, len(obj)),
	}
	for k, v := range obj {
		s.Properties[k] = InferSchema(v)
		if isPresent(v) {
			s.Required = append(s.Required, k)
		}
	}
	sort.Strings(s.Required)
	return s
}

// isPresent reports whether an object value counts toward required.
func isPresent(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	default:
		return true
	}
}

// inferReflected normalizes typed Go values (structs, typed slices and maps)
// through a JSON round trip.
func inferReflected(value any) *Schema {
	data, err := json.Marshal(value)
	if err != nil {
		return &Schema{}
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return &Schema{}
	}
	switch generic.(type) {
	case map[string]any, []any, string, bool, float64, nil:
		return InferSchema(generic)
	default:
		return &Schema{}
	}
}
