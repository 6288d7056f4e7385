package params

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParseIDList(t *testing.T) {
	cases := []struct {
		name string
		raw  any
		want any
	}{
		{"scalar string", "5", int64(5)},
		{"scalar int", 5, int64(5)},
		{"scalar float", 5.0, int64(5)},
		{"comma string", "5,6,7", []int64{5, 6, 7}},
		{"comma string with spaces", " 5 , 6 ,7 ", []int64{5, 6, 7}},
		{"bracketed singleton", "[5]", int64(5)},
		{"bracketed list", "[5, 6]", []int64{5, 6}},
		{"bracketed quoted", `["5","6"]`, []int64{5, 6}},
		{"bracketed loose", "[5, 6,7 ]", []int64{5, 6, 7}},
		{"native list", []any{json.Number("1"), 2.0, "3"}, []int64{1, 2, 3}},
		{"native singleton", []any{9}, int64(9)},
		{"typed slice", []int{4, 8}, []int64{4, 8}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok, err := ParseIDList("node_id", tc.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !ok {
				t.Fatalf("expected a value")
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("ParseIDList(%#v) = %#v; want %#v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestParseIDList_Failures(t *testing.T) {
	cases := []struct {
		name string
		raw  any
		kind error
		msg  string
	}{
		{"empty", "", ErrEmptyValue, "cannot be empty"},
		{"whitespace", "   ", ErrEmptyValue, "cannot be empty"},
		{"empty brackets", "[]", ErrEmptyValue, "cannot be empty"},
		{"blank brackets", "[  ]", ErrEmptyValue, "cannot be empty"},
		{"empty piece", "5,,6", ErrFormatViolation, "empty element"},
		{"trailing comma", "5,", ErrFormatViolation, "empty element"},
		{"unbalanced", "[5,6", ErrFormatViolation, "brackets"},
		{"bad element", "5,x,7", ErrTypeMismatch, `"x"`},
		{"fractional element", "5,6.5", ErrTypeMismatch, "not an integer"},
		{"empty native list", []any{}, ErrEmptyValue, "cannot be empty"},
		{"object", map[string]any{"a": 1}, ErrTypeMismatch, "list"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := ParseIDList("node_id", tc.raw)
			if err == nil {
				t.Fatalf("expected error for %#v", tc.raw)
			}
			if !errors.Is(err, tc.kind) {
				t.Fatalf("expected %v, got %v", tc.kind, err)
			}
			if !strings.Contains(err.Error(), tc.msg) {
				t.Fatalf("expected %q in %q", tc.msg, err.Error())
			}
		})
	}
}

func TestParseIDList_Absent(t *testing.T) {
	_, ok, err := ParseIDList("node_id", nil)
	if ok || err != nil {
		t.Fatalf("expected absent, got ok=%v err=%v", ok, err)
	}
}
