package params

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// FailureKind classifies a ValidationError. The pipeline aborts identically
// for every kind; the kind only exists so callers can tell failures apart.
type FailureKind int

const (
	TypeMismatch FailureKind = iota + 1
	RangeViolation
	EnumViolation
	FormatViolation
	EmptyValue
)

// Sentinel errors matched by ValidationError.Is.
var (
	ErrTypeMismatch    = errors.New("type mismatch")
	ErrRangeViolation  = errors.New("range violation")
	ErrEnumViolation   = errors.New("enum violation")
	ErrFormatViolation = errors.New("format violation")
	ErrEmptyValue      = errors.New("empty value")
)

func (k FailureKind) String() string {
	switch k {
	case TypeMismatch:
		return "type_mismatch"
	case RangeViolation:
		return "range_violation"
	case EnumViolation:
		return "enum_violation"
	case FormatViolation:
		return "format_violation"
	case EmptyValue:
		return "empty_value"
	default:
		return "unknown"
	}
}

func (k FailureKind) sentinel() error {
	switch k {
	case TypeMismatch:
		return ErrTypeMismatch
	case RangeViolation:
		return ErrRangeViolation
	case EnumViolation:
		return ErrEnumViolation
	case FormatViolation:
		return ErrFormatViolation
	case EmptyValue:
		return ErrEmptyValue
	default:
		return nil
	}
}

// ValidationError reports why a single caller-supplied value was rejected.
// Value holds the offending raw input, stringified.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
	Kind   FailureKind
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s (got %s)", e.Field, e.Reason, e.Value)
}

// Is lets callers match a failure kind with errors.Is(err, ErrRangeViolation).
func (e *ValidationError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

func fail(kind FailureKind, field string, raw any, format string, a ...any) *ValidationError {
	return &ValidationError{
		Field:  field,
		Value:  formatRaw(raw),
		Reason: fmt.Sprintf(format, a...),
		Kind:   kind,
	}
}

// formatRaw renders a raw value for an error message. Strings are quoted so
// that whitespace-only input stays visible.
func formatRaw(raw any) string {
	switch v := raw.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(v)
	case json.Number:
		return v.String()
	case json.RawMessage:
		return string(v)
	case fmt.Stringer:
		return v.String()
	}
	if b, err := json.Marshal(raw); err == nil {
		return string(b)
	}
	return fmt.Sprintf("%v", raw)
}
