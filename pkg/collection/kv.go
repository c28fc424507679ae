package collection

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// ErrNotObject is returned by ParseKV when the input is valid JSON but not an
// object.
var ErrNotObject = errors.New("value is not a JSON object")

// KV is a single ordered key/value pair.
type KV struct {
	Key   string
	Value string
}

// KVList is an ordered mapping. Keys are unique; Set replaces in place.
type KVList []KV

// Set returns the list with key set to value. An existing key keeps its
// position.
func (l KVList) Set(key, value string) KVList {
	for i := range l {
		if l[i].Key == key {
			l[i].Value = value
			return l
		}
	}
	return append(l, KV{Key: key, Value: value})
}

// Get returns the value stored under key.
func (l KVList) Get(key string) (string, bool) {
	for _, kv := range l {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// Lookup is Get with case-insensitive key matching, as HTTP header names
// require.
func (l KVList) Lookup(name string) (string, bool) {
	for _, kv := range l {
		if strings.EqualFold(kv.Key, name) {
			return kv.Value, true
		}
	}
	return "", false
}

// Map copies the list into an unordered map.
func (l KVList) Map() map[string]string {
	m := make(map[string]string, len(l))
	for _, kv := range l {
		m[kv.Key] = kv.Value
	}
	return m
}

// ParseKV decodes a JSON object string into ordered pairs. Blank input is an
// empty list. Non-string values are kept in their JSON text form, except null
// which becomes the empty string. Duplicate keys keep the first position and
// the last value.
func ParseKV(s string) (KVList, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return KVList{}, nil
	}

	dec := json.NewDecoder(strings.NewReader(s))
	tok, err := dec.Token()
	if err != nil {
		return KVList{}, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return KVList{}, ErrNotObject
	}

	out := KVList{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return KVList{}, err
		}
		key, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return KVList{}, err
		}
		out = out.Set(key, rawToString(raw))
	}
	if _, err := dec.Token(); err != nil {
		return KVList{}, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return KVList{}, errors.New("unexpected data after JSON object")
	}
	return out, nil
}

// ParseKVLenient is ParseKV with decode errors mapped to an empty list.
func ParseKVLenient(s string) KVList {
	l, err := ParseKV(s)
	if err != nil {
		return KVList{}
	}
	return l
}

func rawToString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	case 'n':
		return ""
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err == nil {
			return buf.String()
		}
	}
	return string(raw)
}

// EncodeKV renders pairs as a compact JSON object string, preserving order.
func EncodeKV(l KVList) string {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kv := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeJSONString(&buf, kv.Key)
		buf.WriteByte(':')
		writeJSONString(&buf, kv.Value)
	}
	buf.WriteByte('}')
	return buf.String()
}

func writeJSONString(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	// Encode appends a newline.
	buf.Truncate(buf.Len() - 1)
}
