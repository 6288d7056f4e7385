package params

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalizeDateTime(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2025-01-01", "2025-01-01T00:00:00Z"},
		{"2025-01-01T00:00:00", "2025-01-01T00:00:00Z"},
		{"2025-01-01T00:00:00Z", "2025-01-01T00:00:00Z"},
		{"2025-01-01T08:15:30.250", "2025-01-01T08:15:30.250Z"},
		{"2025-01-01T08:15:30+00:00", "2025-01-01T08:15:30+00:00"},
		{"2025-01-01 08:15:30", "2025-01-01T08:15:30Z"},
		{"2025-01-01 08:15:30Z", "2025-01-01T08:15:30Z"},
		{"2025-06-30T10:00:00+02:00", "2025-06-30T10:00:00Z"},
		{"2025-06-30T10:00:00-05:30", "2025-06-30T10:00:00Z"},
		{"2024-02-29", "2024-02-29T00:00:00Z"},
		{"  2025-01-01  ", "2025-01-01T00:00:00Z"},
	}
	for _, tc := range cases {
		got, ok, err := NormalizeDateTime("arrival_start", tc.in)
		if err != nil {
			t.Fatalf("NormalizeDateTime(%q) error: %v", tc.in, err)
		}
		if !ok || got != tc.want {
			t.Fatalf("NormalizeDateTime(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeDateTime_Idempotent(t *testing.T) {
	inputs := []string{"2025-01-01", "2025-01-01 12:00:00", "2025-03-04T05:06:07+03:00", "2025-01-01T00:00:00+00:00"}
	for _, in := range inputs {
		once, _, err := NormalizeDateTime("updated_since", in)
		if err != nil {
			t.Fatalf("first pass %q: %v", in, err)
		}
		twice, _, err := NormalizeDateTime("updated_since", once)
		if err != nil {
			t.Fatalf("second pass %q: %v", once, err)
		}
		if once != twice {
			t.Fatalf("not idempotent: %q -> %q -> %q", in, once, twice)
		}
	}
}

func TestNormalizeDateTime_Rejects(t *testing.T) {
	cases := []struct {
		raw  any
		kind error
	}{
		{"2024-02-30", ErrFormatViolation},
		{"2025-13-01", ErrFormatViolation},
		{"2025-01-01T25:00:00", ErrFormatViolation},
		{"2025-01-01T10:00", ErrFormatViolation},
		{"01/02/2025", ErrFormatViolation},
		{"2025-01-01T10:00:00+0200", ErrFormatViolation},
		{"2025-01-01  10:00:00", ErrFormatViolation},
		{"tomorrow", ErrFormatViolation},
		{"", ErrEmptyValue},
		{20250101, ErrTypeMismatch},
	}
	for _, tc := range cases {
		_, _, err := NormalizeDateTime("arrival_start", tc.raw)
		if err == nil {
			t.Fatalf("expected error for %#v", tc.raw)
		}
		if !errors.Is(err, tc.kind) {
			t.Fatalf("%#v: expected %v, got %v", tc.raw, tc.kind, err)
		}
		if !strings.Contains(err.Error(), "arrival_start") || !strings.Contains(err.Error(), "2025-01-01") {
			t.Fatalf("message should name field and show an example: %q", err.Error())
		}
	}
}

func TestStripOffsetIsTheOnlyLossyRule(t *testing.T) {
	if got := stripOffset("2025-06-30T10:00:00", "+02:00"); got != "2025-06-30T10:00:00Z" {
		t.Fatalf("stripOffset = %q", got)
	}
}

func TestNormalizeDate(t *testing.T) {
	cases := map[string]string{
		"2025-01-01":                "2025-01-01",
		"2025-01-01T23:59:59Z":      "2025-01-01",
		"2025-01-01 08:00:00":       "2025-01-01",
		"2025-01-01T08:00:00-07:00": "2025-01-01",
	}
	for in, want := range cases {
		got, ok, err := NormalizeDate("arrival", in)
		if err != nil || !ok || got != want {
			t.Fatalf("NormalizeDate(%q) = %q, %v, %v; want %q", in, got, ok, err, want)
		}
	}
	if _, _, err := NormalizeDate("arrival", "2025-02-31"); !errors.Is(err, ErrFormatViolation) {
		t.Fatalf("expected format violation, got %v", err)
	}
}
