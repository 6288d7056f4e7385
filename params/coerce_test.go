package params

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestCoerceInt(t *testing.T) {
	cases := []struct {
		name string
		raw  any
		want int64
	}{
		{"int", 42, 42},
		{"int64", int64(-7), -7},
		{"integral float", 42.0, 42},
		{"json number", json.Number("12"), 12},
		{"numeric string", "4", 4},
		{"padded string", "  17 ", 17},
		{"integral float string", "4.0", 4},
		{"uint8", uint8(3), 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok, err := CoerceInt("group_id", tc.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !ok || got != tc.want {
				t.Fatalf("CoerceInt(%v) = %d, %v; want %d", tc.raw, got, ok, tc.want)
			}
		})
	}
}

func TestCoerceInt_Absent(t *testing.T) {
	for _, raw := range []any{nil, Absent, json.RawMessage("null")} {
		_, ok, err := CoerceInt("group_id", raw)
		if err != nil || ok {
			t.Fatalf("expected absent for %#v, got ok=%v err=%v", raw, ok, err)
		}
	}
}

func TestCoerceInt_Failures(t *testing.T) {
	cases := []struct {
		name string
		raw  any
		kind error
	}{
		{"fractional float", 42.5, ErrTypeMismatch},
		{"fractional string", "42.5", ErrTypeMismatch},
		{"empty string", "   ", ErrEmptyValue},
		{"word", "abc", ErrTypeMismatch},
		{"bool", true, ErrTypeMismatch},
		{"list", []any{1}, ErrTypeMismatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := CoerceInt("group_id", tc.raw)
			if err == nil {
				t.Fatalf("expected error for %#v", tc.raw)
			}
			if !errors.Is(err, tc.kind) {
				t.Fatalf("expected %v, got %v", tc.kind, err)
			}
			if !strings.Contains(err.Error(), "group_id") || !strings.Contains(err.Error(), "integer") {
				t.Fatalf("message should name field and expected kind: %q", err.Error())
			}
		})
	}
}

func TestCoerceInt_MessageIncludesValue(t *testing.T) {
	_, _, err := CoerceInt("group_id", 42.5)
	if err == nil || !strings.Contains(err.Error(), "42.5") {
		t.Fatalf("expected offending value in message, got %v", err)
	}
}

func TestCoerceFloat(t *testing.T) {
	cases := []struct {
		raw  any
		want float64
	}{
		{3, 3},
		{2.5, 2.5},
		{"0.75", 0.75},
		{json.Number("1e2"), 100},
	}
	for _, tc := range cases {
		got, ok, err := CoerceFloat("min_adr", tc.raw)
		if err != nil || !ok || got != tc.want {
			t.Fatalf("CoerceFloat(%v) = %v, %v, %v; want %v", tc.raw, got, ok, err, tc.want)
		}
	}
	for _, raw := range []any{"", "x", "NaN", false} {
		if _, _, err := CoerceFloat("min_adr", raw); err == nil {
			t.Fatalf("expected error for %#v", raw)
		}
	}
}

func TestCoerceBool(t *testing.T) {
	cases := []struct {
		raw  any
		want bool
	}{
		{true, true},
		{false, false},
		{1, true},
		{0, false},
		{0.5, true},
		{"YES", true},
		{" y ", true},
		{"T", true},
		{"1", true},
		{"False", false},
		{"no", false},
		{"n", false},
		{"f", false},
		{"0", false},
	}
	for _, tc := range cases {
		got, ok, err := CoerceBool("pets_friendly", tc.raw)
		if err != nil || !ok || got != tc.want {
			t.Fatalf("CoerceBool(%#v) = %v, %v, %v; want %v", tc.raw, got, ok, err, tc.want)
		}
	}
	if _, _, err := CoerceBool("pets_friendly", "maybe"); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected type mismatch, got %v", err)
	}
}

func TestCoerceBinaryFlag(t *testing.T) {
	valid := []struct {
		raw  any
		want int64
	}{
		{0, 0},
		{1, 1},
		{0.0, 0},
		{1.0, 1},
		{"0", 0},
		{"1", 1},
		{" 1 ", 1},
		{json.Number("1"), 1},
	}
	for _, tc := range valid {
		got, ok, err := CoerceBinaryFlag("is_public", tc.raw)
		if err != nil || !ok || got != tc.want {
			t.Fatalf("CoerceBinaryFlag(%#v) = %d, %v, %v; want %d", tc.raw, got, ok, err, tc.want)
		}
	}

	invalid := []any{2, "2", "true", -1, 0.5, true}
	for _, raw := range invalid {
		_, _, err := CoerceBinaryFlag("is_public", raw)
		if err == nil {
			t.Fatalf("expected error for %#v", raw)
		}
		if !strings.Contains(err.Error(), "0 or 1") {
			t.Fatalf("expected flag message, got %q", err.Error())
		}
	}
	if _, _, err := CoerceBinaryFlag("is_public", 2); !errors.Is(err, ErrRangeViolation) {
		t.Fatalf("expected range violation for 2, got %v", err)
	}
}
