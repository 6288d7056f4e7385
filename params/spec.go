package params

import (
	"fmt"
	"strings"
	"unicode"
)

// Kind is the declared shape of a parameter. It fully determines the shape of
// the canonical value the pipeline produces for that parameter.
type Kind string

const (
	KindInteger    Kind = "integer"
	KindBinaryFlag Kind = "binaryFlag"
	KindFloat      Kind = "float"
	KindBoolean    Kind = "boolean"
	KindDateTime   Kind = "dateTime"
	KindDate       Kind = "date"
	KindIDList     Kind = "idList"
	KindEnum       Kind = "enum"
	KindEnumList   Kind = "enumList"
	KindFreeText   Kind = "freeText"
)

// FieldSpec declares one tool parameter. Specs are defined once per tool and
// never mutated after the pipeline is built.
type FieldSpec struct {
	// Name is the caller-facing (snake_case) argument name.
	Name string
	// Wire is the upstream (camelCase) query parameter name.
	Wire string
	Kind Kind

	Min *float64
	Max *float64

	// Allowed lists the permitted literals for KindEnum and KindEnumList.
	Allowed []string

	Required    bool
	Description string
	Example     any
}

// FieldOption customizes a FieldSpec built by one of the kind constructors.
type FieldOption func(*FieldSpec)

// Min sets an inclusive lower bound. For id lists it applies to each element.
func Min(v float64) FieldOption {
	return func(f *FieldSpec) { f.Min = &v }
}

// Max sets an inclusive upper bound. For id lists it applies to each element.
func Max(v float64) FieldOption {
	return func(f *FieldSpec) { f.Max = &v }
}

// Wire overrides the derived upstream name.
func Wire(name string) FieldOption {
	return func(f *FieldSpec) { f.Wire = name }
}

// Required marks the parameter as mandatory.
func Required() FieldOption {
	return func(f *FieldSpec) { f.Required = true }
}

// Describe sets the human-readable description used in tool schemas.
func Describe(text string) FieldOption {
	return func(f *FieldSpec) { f.Description = text }
}

// Example sets an example value shown in schemas and failure messages.
func Example(v any) FieldOption {
	return func(f *FieldSpec) { f.Example = v }
}

func newSpec(name string, kind Kind, opts []FieldOption) FieldSpec {
	f := FieldSpec{Name: name, Kind: kind}
	for _, opt := range opts {
		opt(&f)
	}
	if f.Wire == "" {
		f.Wire = CamelCase(name)
	}
	return f
}

func Integer(name string, opts ...FieldOption) FieldSpec {
	return newSpec(name, KindInteger, opts)
}

// BinaryFlag declares a 0/1 field, used where the upstream API has no boolean.
func BinaryFlag(name string, opts ...FieldOption) FieldSpec {
	return newSpec(name, KindBinaryFlag, opts)
}

func Float(name string, opts ...FieldOption) FieldSpec {
	return newSpec(name, KindFloat, opts)
}

func Boolean(name string, opts ...FieldOption) FieldSpec {
	return newSpec(name, KindBoolean, opts)
}

func DateTime(name string, opts ...FieldOption) FieldSpec {
	return newSpec(name, KindDateTime, opts)
}

func Date(name string, opts ...FieldOption) FieldSpec {
	return newSpec(name, KindDate, opts)
}

// IDList declares an integer id filter that accepts one id or many.
func IDList(name string, opts ...FieldOption) FieldSpec {
	return newSpec(name, KindIDList, opts)
}

func Enum(name string, allowed []string, opts ...FieldOption) FieldSpec {
	f := newSpec(name, KindEnum, opts)
	f.Allowed = append([]string(nil), allowed...)
	return f
}

func EnumList(name string, allowed []string, opts ...FieldOption) FieldSpec {
	f := newSpec(name, KindEnumList, opts)
	f.Allowed = append([]string(nil), allowed...)
	return f
}

func FreeText(name string, opts ...FieldOption) FieldSpec {
	return newSpec(name, KindFreeText, opts)
}

// validate reports declaration mistakes. These are programming errors, so
// NewPipeline panics on them.
func (f FieldSpec) validate() error {
	if f.Name == "" {
		return fmt.Errorf("field spec missing name")
	}
	switch f.Kind {
	case KindInteger, KindBinaryFlag, KindFloat, KindBoolean, KindDateTime,
		KindDate, KindIDList, KindFreeText:
	case KindEnum, KindEnumList:
		if len(f.Allowed) == 0 {
			return fmt.Errorf("field %s: enum kind requires allowed values", f.Name)
		}
		seen := make(map[string]struct{}, len(f.Allowed))
		for _, a := range f.Allowed {
			if _, dup := seen[a]; dup {
				return fmt.Errorf("field %s: duplicate allowed value %q", f.Name, a)
			}
			seen[a] = struct{}{}
		}
	default:
		return fmt.Errorf("field %s: unknown kind %q", f.Name, f.Kind)
	}
	if f.Min != nil && f.Max != nil && *f.Min > *f.Max {
		return fmt.Errorf("field %s: minimum greater than maximum", f.Name)
	}
	return nil
}

// CamelCase converts a snake_case argument name to the upstream camelCase
// spelling: "is_public" becomes "isPublic".
func CamelCase(name string) string {
	parts := strings.Split(name, "_")
	var b strings.Builder
	b.Grow(len(name))
	first := true
	for _, p := range parts {
		if p == "" {
			continue
		}
		if first {
			b.WriteString(p)
			first = false
			continue
		}
		r := []rune(p)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}
