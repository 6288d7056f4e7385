package params

import (
	"fmt"
	"strconv"
)

// MaxResultWindow is the largest page*size window the upstream API serves,
// regardless of how a given endpoint counts pages.
const MaxResultWindow = 10000

// Fields gives cross-field rules read access to the canonical values of a
// run, addressed by caller-facing parameter name.
type Fields struct {
	m    *ParameterMap
	wire map[string]string
}

// Get returns the canonical value of the named parameter, if present.
func (f Fields) Get(name string) (any, bool) {
	w, ok := f.wire[name]
	if !ok {
		return nil, false
	}
	return f.m.Get(w)
}

// CrossFieldRule checks a relationship between parameters that are each
// already valid on their own. It runs after every field succeeded.
type CrossFieldRule func(fields Fields) error

// OrderedPair requires min <= max when both are present. Equal values pass.
// It works for integers, floats and canonical date strings (which order
// chronologically as text).
func OrderedPair(minName, maxName string) CrossFieldRule {
	return func(fields Fields) error {
		lo, okLo := fields.Get(minName)
		hi, okHi := fields.Get(maxName)
		if !okLo || !okHi {
			return nil
		}
		c, comparable := compareCanonical(lo, hi)
		if !comparable {
			return &ValidationError{
				Field:  minName,
				Value:  fmt.Sprintf("%s=%s, %s=%s", minName, formatRaw(lo), maxName, formatRaw(hi)),
				Reason: fmt.Sprintf("cannot be compared with %s", maxName),
				Kind:   TypeMismatch,
			}
		}
		if c > 0 {
			return &ValidationError{
				Field:  minName,
				Value:  fmt.Sprintf("%s=%s, %s=%s", minName, formatRaw(lo), maxName, formatRaw(hi)),
				Reason: fmt.Sprintf("must not be greater than %s", maxName),
				Kind:   RangeViolation,
			}
		}
		return nil
	}
}

// PaginationCeiling rejects requests whose result window exceeds
// MaxResultWindow. base is the endpoint's first page number (0 or 1); the
// page is shifted to zero-based before multiplying by size. When the size
// parameter is absent, defaultSize is used; a zero defaultSize skips the
// check in that case.
func PaginationCeiling(pageName, sizeName string, base, defaultSize int64) CrossFieldRule {
	return func(fields Fields) error {
		pv, ok := fields.Get(pageName)
		if !ok {
			return nil
		}
		page, _ := pv.(int64)
		size := defaultSize
		if sv, ok := fields.Get(sizeName); ok {
			size, _ = sv.(int64)
		}
		if size <= 0 {
			return nil
		}
		if page < base {
			return &ValidationError{
				Field:  pageName,
				Value:  strconv.FormatInt(page, 10),
				Reason: fmt.Sprintf("must be at least %d", base),
				Kind:   RangeViolation,
			}
		}
		// Compared by division so a huge page cannot wrap the product.
		if page-base > MaxResultWindow/size {
			return &ValidationError{
				Field:  pageName,
				Value:  fmt.Sprintf("%s=%d, %s=%d", pageName, page, sizeName, size),
				Reason: fmt.Sprintf("page * size must not exceed %d (upstream result window limit)", MaxResultWindow),
				Kind:   RangeViolation,
			}
		}
		return nil
	}
}

func compareCanonical(a, b any) (int, bool) {
	switch x := a.(type) {
	case int64:
		switch y := b.(type) {
		case int64:
			return cmpOrdered(x, y), true
		case float64:
			return cmpOrdered(float64(x), y), true
		}
	case float64:
		switch y := b.(type) {
		case int64:
			return cmpOrdered(x, float64(y)), true
		case float64:
			return cmpOrdered(x, y), true
		}
	case string:
		if y, ok := b.(string); ok {
			return cmpOrdered(x, y), true
		}
	}
	return 0, false
}

func cmpOrdered[T int64 | float64 | string](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// checkBounds applies a FieldSpec's absolute Min/Max to a canonical value.
func checkBounds(f FieldSpec, raw any, v any) error {
	if f.Min == nil && f.Max == nil {
		return nil
	}
	switch x := v.(type) {
	case int64:
		return checkNumber(f, raw, float64(x))
	case float64:
		return checkNumber(f, raw, x)
	case []int64:
		for _, n := range x {
			if err := checkNumber(f, raw, float64(n)); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkNumber(f FieldSpec, raw any, n float64) error {
	if f.Min != nil && n < *f.Min {
		return fail(RangeViolation, f.Name, raw, "must be at least %s", formatBound(*f.Min))
	}
	if f.Max != nil && n > *f.Max {
		return fail(RangeViolation, f.Name, raw, "must be at most %s", formatBound(*f.Max))
	}
	return nil
}

func formatBound(b float64) string {
	return strconv.FormatFloat(b, 'f', -1, 64)
}
