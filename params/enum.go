package params

import (
	"slices"
	"strings"
)

// ValidateEnum checks that raw is exactly one of allowed. Matching is
// case-sensitive because the upstream API compares literals verbatim.
func ValidateEnum(field string, raw any, allowed []string) (v string, ok bool, err error) {
	raw = normalizeAbsent(raw)
	if raw == nil {
		return "", false, nil
	}
	s, isString := raw.(string)
	if !isString {
		return "", false, fail(TypeMismatch, field, raw, "expected one of: %s", strings.Join(allowed, ", "))
	}
	if !slices.Contains(allowed, s) {
		return "", false, fail(EnumViolation, field, raw, "expected one of: %s", strings.Join(allowed, ", "))
	}
	return s, true, nil
}

// ValidateEnumList accepts a list, a comma-joined string or a bracketed
// array string and validates every element against allowed. Unlike id
// lists, a single value is kept as a one-element list: multi-value enum
// filters are always sent as repeated query keys.
func ValidateEnumList(field string, raw any, allowed []string) (v []string, ok bool, err error) {
	raw = normalizeAbsent(raw)
	if raw == nil {
		return nil, false, nil
	}
	elems, err := splitList(field, raw)
	if err != nil {
		return nil, false, err
	}
	out := make([]string, 0, len(elems))
	for _, el := range elems {
		s, isString := el.(string)
		if !isString || !slices.Contains(allowed, s) {
			return nil, false, fail(EnumViolation, field, raw, "%s is not valid; expected one of: %s", formatRaw(el), strings.Join(allowed, ", "))
		}
		out = append(out, s)
	}
	return keepList(out), true, nil
}

// keepList is the enum-list strategy: the list shape survives even for a
// single element.
func keepList(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	return values
}
