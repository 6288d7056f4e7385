package params

import (
	"bytes"
	"encoding/json"
	"reflect"
)

type absent struct{}

func (absent) String() string { return "absent" }

// Absent is a sentinel a caller may pass to mean "not supplied". Dispatch
// layers that inject placeholder objects for omitted arguments should map
// them to Absent (or nil) before calling Run.
var Absent any = absent{}

// normalizeAbsent maps every "missing" representation to nil: nil itself,
// the Absent sentinel, a JSON null, and nil pointers, maps or slices.
func normalizeAbsent(raw any) any {
	switch v := raw.(type) {
	case nil:
		return nil
	case absent:
		return nil
	case json.RawMessage:
		t := bytes.TrimSpace(v)
		if len(t) == 0 || bytes.Equal(t, []byte("null")) {
			return nil
		}
		var decoded any
		dec := json.NewDecoder(bytes.NewReader(t))
		dec.UseNumber()
		if err := dec.Decode(&decoded); err != nil {
			return v
		}
		return decoded
	}
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return normalizeAbsent(rv.Elem().Interface())
	case reflect.Map, reflect.Slice:
		if rv.IsNil() {
			return nil
		}
	}
	return raw
}
