package params

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

var (
	truthy = map[string]bool{"true": true, "1": true, "yes": true, "y": true, "t": true}
	falsy  = map[string]bool{"false": true, "0": true, "no": true, "n": true, "f": true}
)

// CoerceInt converts raw to an integer. ok is false when raw is absent, in
// which case no other check runs.
//
// Floats are accepted only when they have no fractional part. Strings are
// trimmed and parsed; "4.0" is accepted as 4, "4.5" is not.
func CoerceInt(field string, raw any) (v int64, ok bool, err error) {
	raw = normalizeAbsent(raw)
	if raw == nil {
		return 0, false, nil
	}
	switch n := raw.(type) {
	case int:
		return int64(n), true, nil
	case int8:
		return int64(n), true, nil
	case int16:
		return int64(n), true, nil
	case int32:
		return int64(n), true, nil
	case int64:
		return n, true, nil
	case uint:
		return uintToInt(field, raw, uint64(n))
	case uint8:
		return int64(n), true, nil
	case uint16:
		return int64(n), true, nil
	case uint32:
		return int64(n), true, nil
	case uint64:
		return uintToInt(field, raw, n)
	case float32:
		return floatToInt(field, raw, float64(n))
	case float64:
		return floatToInt(field, raw, n)
	case json.Number:
		return parseIntString(field, raw, n.String())
	case string:
		return parseIntString(field, raw, n)
	default:
		return 0, false, fail(TypeMismatch, field, raw, "expected an integer")
	}
}

func uintToInt(field string, raw any, n uint64) (int64, bool, error) {
	if n > math.MaxInt64 {
		return 0, false, fail(RangeViolation, field, raw, "integer out of range")
	}
	return int64(n), true, nil
}

func floatToInt(field string, raw any, f float64) (int64, bool, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false, fail(TypeMismatch, field, raw, "expected an integer")
	}
	if f != math.Floor(f) {
		return 0, false, fail(TypeMismatch, field, raw, "expected an integer, got a number with a fractional part")
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false, fail(RangeViolation, field, raw, "integer out of range")
	}
	return int64(f), true, nil
}

func parseIntString(field string, raw any, s string) (int64, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, fail(EmptyValue, field, raw, "expected an integer, got an empty string")
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, fail(TypeMismatch, field, raw, "expected an integer")
	}
	return floatToInt(field, raw, f)
}

// CoerceFloat converts raw to a float64. Integers widen; strings are trimmed
// and parsed. Non-finite values are rejected.
func CoerceFloat(field string, raw any) (v float64, ok bool, err error) {
	raw = normalizeAbsent(raw)
	if raw == nil {
		return 0, false, nil
	}
	var f float64
	switch n := raw.(type) {
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case float32:
		f = float64(n)
	case float64:
		f = n
	case json.Number, string:
		s := strings.TrimSpace(stringOf(n))
		if s == "" {
			return 0, false, fail(EmptyValue, field, raw, "expected a number, got an empty string")
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false, fail(TypeMismatch, field, raw, "expected a number")
		}
		f = parsed
	default:
		return 0, false, fail(TypeMismatch, field, raw, "expected a number")
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false, fail(TypeMismatch, field, raw, "expected a finite number")
	}
	return f, true, nil
}

// CoerceBool converts raw to a boolean. Numbers are true iff non-zero.
// Strings are matched case-insensitively against true/1/yes/y/t and
// false/0/no/n/f.
func CoerceBool(field string, raw any) (v bool, ok bool, err error) {
	raw = normalizeAbsent(raw)
	if raw == nil {
		return false, false, nil
	}
	switch b := raw.(type) {
	case bool:
		return b, true, nil
	case string:
		s := strings.ToLower(strings.TrimSpace(b))
		switch {
		case truthy[s]:
			return true, true, nil
		case falsy[s]:
			return false, true, nil
		}
		return false, false, fail(TypeMismatch, field, raw, "expected a boolean (true/false, yes/no, 1/0)")
	}
	f, _, err := CoerceFloat(field, raw)
	if err != nil {
		return false, false, fail(TypeMismatch, field, raw, "expected a boolean (true/false, yes/no, 1/0)")
	}
	return f != 0, true, nil
}

// CoerceBinaryFlag coerces raw like CoerceInt and then requires the result to
// be exactly 0 or 1.
func CoerceBinaryFlag(field string, raw any) (v int64, ok bool, err error) {
	n, ok, err := CoerceInt(field, raw)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return 0, false, fail(ve.Kind, field, raw, "expected 0 or 1")
		}
		return 0, false, err
	}
	if !ok {
		return 0, false, nil
	}
	if n != 0 && n != 1 {
		return 0, false, fail(RangeViolation, field, raw, "expected 0 or 1")
	}
	return n, true, nil
}

func stringOf(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	}
	return ""
}
