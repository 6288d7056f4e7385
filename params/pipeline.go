package params

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Pipeline turns loosely typed tool arguments into a canonical ParameterMap
// according to a fixed list of FieldSpecs. A Pipeline is immutable once
// built and safe for concurrent use.
type Pipeline struct {
	specs        []FieldSpec
	rules        []CrossFieldRule
	wire         map[string]string
	allowUnknown bool
}

// PipelineOption configures NewPipeline.
type PipelineOption func(*Pipeline)

// WithRules registers cross-field rules, run in order after all fields pass.
func WithRules(rules ...CrossFieldRule) PipelineOption {
	return func(p *Pipeline) { p.rules = append(p.rules, rules...) }
}

// WithAllowUnknown makes Run ignore arguments that no FieldSpec declares.
// By default they are rejected.
func WithAllowUnknown() PipelineOption {
	return func(p *Pipeline) { p.allowUnknown = true }
}

// NewPipeline builds a pipeline over specs. It panics on declaration errors
// (duplicate names or wire names, enums without values, inverted bounds),
// since specs are static program data.
func NewPipeline(specs []FieldSpec, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		specs: append([]FieldSpec(nil), specs...),
		wire:  make(map[string]string, len(specs)),
	}
	wires := make(map[string]struct{}, len(specs))
	for _, f := range p.specs {
		if err := f.validate(); err != nil {
			panic("params: " + err.Error())
		}
		if _, dup := p.wire[f.Name]; dup {
			panic(fmt.Sprintf("params: duplicate field %q", f.Name))
		}
		if _, dup := wires[f.Wire]; dup {
			panic(fmt.Sprintf("params: duplicate wire name %q", f.Wire))
		}
		p.wire[f.Name] = f.Wire
		wires[f.Wire] = struct{}{}
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Specs returns a copy of the declared field specs.
func (p *Pipeline) Specs() []FieldSpec {
	return append([]FieldSpec(nil), p.specs...)
}

// Run canonicalizes raw. It stops at the first failing field and returns that
// single *ValidationError; no partial map is ever returned.
func (p *Pipeline) Run(raw map[string]any) (*ParameterMap, error) {
	if !p.allowUnknown {
		if err := p.rejectUnknown(raw); err != nil {
			return nil, err
		}
	}

	out := newParameterMap(len(p.specs))
	for _, f := range p.specs {
		rv := normalizeAbsent(raw[f.Name])
		if rv == nil {
			if f.Required {
				return nil, fail(EmptyValue, f.Name, nil, "is required")
			}
			continue
		}
		v, ok, err := canonicalize(f, rv)
		if err != nil {
			return nil, err
		}
		if !ok {
			if f.Required {
				return nil, fail(EmptyValue, f.Name, rv, "is required")
			}
			continue
		}
		if err := checkBounds(f, rv, v); err != nil {
			return nil, err
		}
		out.set(f.Wire, v)
	}

	fields := Fields{m: out, wire: p.wire}
	for _, rule := range p.rules {
		if err := rule(fields); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (p *Pipeline) rejectUnknown(raw map[string]any) error {
	var unknown []string
	for k := range raw {
		if _, ok := p.wire[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	slices.Sort(unknown)
	names := make([]string, 0, len(p.specs))
	for _, f := range p.specs {
		names = append(names, f.Name)
	}
	return &ValidationError{
		Field:  unknown[0],
		Value:  formatRaw(raw[unknown[0]]),
		Reason: fmt.Sprintf("unknown parameter; accepted parameters: %s", strings.Join(names, ", ")),
		Kind:   TypeMismatch,
	}
}

// canonicalize dispatches one value to the coercer for its kind. ok is false
// when the value reduces to nothing (e.g. blank free text).
func canonicalize(f FieldSpec, raw any) (any, bool, error) {
	switch f.Kind {
	case KindInteger:
		return wrap(CoerceInt(f.Name, raw))
	case KindBinaryFlag:
		return wrap(CoerceBinaryFlag(f.Name, raw))
	case KindFloat:
		return wrap(CoerceFloat(f.Name, raw))
	case KindBoolean:
		return wrap(CoerceBool(f.Name, raw))
	case KindDateTime:
		return wrap(NormalizeDateTime(f.Name, raw))
	case KindDate:
		return wrap(NormalizeDate(f.Name, raw))
	case KindIDList:
		return ParseIDList(f.Name, raw)
	case KindEnum:
		return wrap(ValidateEnum(f.Name, raw, f.Allowed))
	case KindEnumList:
		return wrap(ValidateEnumList(f.Name, raw, f.Allowed))
	case KindFreeText:
		return wrap(freeText(f.Name, raw))
	}
	return nil, false, fail(TypeMismatch, f.Name, raw, "unsupported kind %q", f.Kind)
}

func wrap(v any, ok bool, err error) (any, bool, error) {
	if err != nil || !ok {
		return nil, false, err
	}
	return v, true, nil
}

// freeText passes strings through trimmed. Numbers are accepted and rendered
// as text since callers often send numeric search terms unquoted.
func freeText(field string, raw any) (string, bool, error) {
	switch v := raw.(type) {
	case string:
		s := strings.TrimSpace(v)
		return s, s != "", nil
	case json.Number:
		return v.String(), true, nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v), true, nil
	case bool, []any, map[string]any:
		return "", false, fail(TypeMismatch, field, raw, "expected text")
	}
	if f, ok, err := CoerceFloat(field, raw); err == nil && ok {
		return formatScalar(f), true, nil
	}
	return "", false, fail(TypeMismatch, field, raw, "expected text")
}
