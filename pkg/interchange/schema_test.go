package interchange

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestInferSchema_Object(t *testing.T) {
	t.Parallel()

	got := InferSchema(map[string]any{"a": 1, "b": "x", "c": nil})
	want := &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"a": {Type: TypeNumber},
			"b": {Type: TypeString},
			"c": {Type: TypeNull},
		},
		Required: []string{"a", "b"},
	}
	assert.Equal(t, want, got)

	data, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"object","properties":{"a":{"type":"number"},"b":{"type":"string"},"c":{"type":"null"}},"required":["a","b"]}`, string(data))
}

func TestInferSchema(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want *Schema
	}{
		{"null", nil, &Schema{Type: TypeNull}},
		{"bool", true, &Schema{Type: TypeBoolean}},
		{"float", 1.5, &Schema{Type: TypeNumber}},
		{"json number", json.Number("3"), &Schema{Type: TypeNumber}},
		{"empty array", []any{}, &Schema{Type: TypeArray, Items: &Schema{}}},
		{"first element wins", []any{"s", 1.0}, &Schema{Type: TypeArray, Items: &Schema{Type: TypeString}}},
		{"empty string not required", map[string]any{"s": ""}, &Schema{
			Type:       TypeObject,
			Properties: map[string]*Schema{"s": {Type: TypeString}},
		}},
		{"empty object", map[string]any{}, &Schema{Type: TypeObject, Properties: map[string]*Schema{}}},
		{"typed slice", []string{"a"}, &Schema{Type: TypeArray, Items: &Schema{Type: TypeString}}},
		{"struct", struct {
			Name string `json:"name"`
		}{Name: "x"}, &Schema{
			Type:       TypeObject,
			Properties: map[string]*Schema{"name": {Type: TypeString}},
			Required:   []string{"name"},
		}},
		{"unrepresentable", make(chan int), &Schema{}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, InferSchema(tt.in))
		})
	}
}

func TestSchema_EmptyObjectKeepsProperties(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(InferSchema(map[string]any{}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"object","properties":{}}`, string(data))

	data, err = json.Marshal(InferSchema(map[string]any{"meta": map[string]any{}, "n": "x"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"object","properties":{"meta":{"type":"object","properties":{}},"n":{"type":"string"}},"required":["meta","n"]}`, string(data))

	data, err = json.Marshal(&Schema{Type: TypeString})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"string"}`, string(data))

	out, err := yaml.Marshal(InferSchema(map[string]any{}))
	require.NoError(t, err)
	assert.Equal(t, "type: object\nproperties: {}\n", string(out))
}

func TestInferSchema_Nested(t *testing.T) {
	t.Parallel()

	var v any
	require.NoError(t, json.Unmarshal([]byte(`{"user":{"tags":[{"id":1}],"note":null}}`), &v))

	s := InferSchema(v)
	require.Equal(t, TypeObject, s.Type)
	user := s.Properties["user"]
	require.NotNil(t, user)
	assert.Equal(t, []string{"tags"}, user.Required)
	assert.Equal(t, TypeArray, user.Properties["tags"].Type)
	assert.Equal(t, TypeNumber, user.Properties["tags"].Items.Properties["id"].Type)
}
