package params

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strconv"
)

// ParameterMap is the canonical output of a pipeline run: upstream wire names
// mapped to canonical values, in declaration order. Absent parameters are
// not present at all.
type ParameterMap struct {
	keys   []string
	values map[string]any
}

func newParameterMap(capacity int) *ParameterMap {
	return &ParameterMap{keys: make([]string, 0, capacity), values: make(map[string]any, capacity)}
}

func (m *ParameterMap) set(wire string, v any) {
	if _, exists := m.values[wire]; !exists {
		m.keys = append(m.keys, wire)
	}
	m.values[wire] = v
}

// Get returns the canonical value stored under a wire name.
func (m *ParameterMap) Get(wire string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[wire]
	return v, ok
}

func (m *ParameterMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the wire names in insertion order.
func (m *ParameterMap) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Values encodes the map as query parameters. Lists become repeated keys.
func (m *ParameterMap) Values() url.Values {
	out := url.Values{}
	if m == nil {
		return out
	}
	for _, k := range m.keys {
		switch v := m.values[k].(type) {
		case []int64:
			for _, n := range v {
				out.Add(k, strconv.FormatInt(n, 10))
			}
		case []string:
			for _, s := range v {
				out.Add(k, s)
			}
		default:
			out.Add(k, formatScalar(v))
		}
	}
	return out
}

// Encode renders the map as a query string with keys sorted, like
// url.Values.Encode.
func (m *ParameterMap) Encode() string {
	return m.Values().Encode()
}

// MarshalJSON writes the map as a JSON object, preserving key order.
func (m *ParameterMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if m != nil {
		for i, k := range m.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			vb, err := json.Marshal(m.values[k])
			if err != nil {
				return nil, err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			buf.Write(vb)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func formatScalar(v any) string {
	switch x := v.(type) {
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case string:
		return x
	}
	return formatRaw(v)
}
