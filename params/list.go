package params

import (
	"encoding/json"
	"reflect"
	"strings"
)

// splitList tokenizes a list-shaped raw value into its elements. It accepts a
// native slice, a single scalar, a comma-joined string, or a bracketed string
// such as "[1, 2]" or `["Hold","Confirmed"]`. String elements come back
// trimmed; empty elements are rejected.
func splitList(field string, raw any) ([]any, error) {
	switch v := raw.(type) {
	case string:
		return splitString(field, raw, v)
	case json.Number, bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return []any{v}, nil
	}

	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fail(TypeMismatch, field, raw, "expected a value or a list of values")
	}
	if rv.Len() == 0 {
		return nil, fail(EmptyValue, field, raw, "list cannot be empty")
	}
	out := make([]any, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		el := normalizeAbsent(rv.Index(i).Interface())
		if s, ok := el.(string); ok {
			el = strings.TrimSpace(s)
		}
		if el == nil || el == "" {
			return nil, fail(FormatViolation, field, raw, "list contains an empty element")
		}
		out = append(out, el)
	}
	return out, nil
}

func splitString(field string, raw any, s string) ([]any, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fail(EmptyValue, field, raw, "cannot be empty")
	}

	opens, closes := strings.HasPrefix(s, "["), strings.HasSuffix(s, "]")
	if opens != closes {
		return nil, fail(FormatViolation, field, raw, "unbalanced brackets in list")
	}
	if opens {
		if decoded, ok := decodeJSONArray(s); ok {
			if len(decoded) == 0 {
				return nil, fail(EmptyValue, field, raw, "list cannot be empty")
			}
			return splitList(field, decoded)
		}
		s = strings.TrimSpace(s[1 : len(s)-1])
		if s == "" {
			return nil, fail(EmptyValue, field, raw, "list cannot be empty")
		}
	}

	pieces := strings.Split(s, ",")
	out := make([]any, 0, len(pieces))
	for _, p := range pieces {
		p = strings.Trim(strings.TrimSpace(p), `"'`)
		if p == "" {
			return nil, fail(FormatViolation, field, raw, "list contains an empty element")
		}
		out = append(out, p)
	}
	return out, nil
}

func decodeJSONArray(s string) ([]any, bool) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var out []any
	if err := dec.Decode(&out); err != nil {
		return nil, false
	}
	if dec.More() {
		return nil, false
	}
	return out, true
}

// ParseIDList parses an id filter. The result is absent, a single int64, or
// an []int64 of two or more ids: a one-element list collapses to its element
// because the upstream id filters take a bare scalar.
//
// Every element must parse as an integer; one bad element fails the field.
func ParseIDList(field string, raw any) (v any, ok bool, err error) {
	raw = normalizeAbsent(raw)
	if raw == nil {
		return nil, false, nil
	}
	elems, err := splitList(field, raw)
	if err != nil {
		return nil, false, err
	}
	ids := make([]int64, 0, len(elems))
	for _, el := range elems {
		n, _, err := CoerceInt(field, el)
		if err != nil {
			return nil, false, fail(TypeMismatch, field, raw, "element %s is not an integer id", formatRaw(el))
		}
		ids = append(ids, n)
	}
	return collapseSingleton(ids), true, nil
}

// collapseSingleton is the id-list strategy: a single id is sent bare.
func collapseSingleton(ids []int64) any {
	if len(ids) == 1 {
		return ids[0]
	}
	return ids
}
