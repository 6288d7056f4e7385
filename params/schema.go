package params

import (
	"encoding/json"
	"strconv"

	"github.com/invopop/jsonschema"
)

// Schema renders the pipeline's fields as a JSON Schema object. Kinds that
// accept several representations (id lists, enum lists) are described with
// anyOf so that clients see every accepted shape.
func (p *Pipeline) Schema() *jsonschema.Schema {
	s := &jsonschema.Schema{
		Type:       "object",
		Properties: jsonschema.NewProperties(),
	}
	if !p.allowUnknown {
		s.AdditionalProperties = jsonschema.FalseSchema
	}
	for _, f := range p.specs {
		s.Properties.Set(f.Name, f.schema())
		if f.Required {
			s.Required = append(s.Required, f.Name)
		}
	}
	return s
}

func (f FieldSpec) schema() *jsonschema.Schema {
	s := &jsonschema.Schema{Description: f.Description}
	if f.Example != nil {
		s.Examples = []any{f.Example}
	}
	switch f.Kind {
	case KindInteger:
		s.Type = "integer"
		setBounds(s, f)
	case KindBinaryFlag:
		s.Type = "integer"
		s.Enum = []any{0, 1}
	case KindFloat:
		s.Type = "number"
		setBounds(s, f)
	case KindBoolean:
		s.Type = "boolean"
	case KindDateTime:
		s.Type = "string"
		s.Format = "date-time"
	case KindDate:
		s.Type = "string"
		s.Format = "date"
	case KindIDList:
		item := &jsonschema.Schema{Type: "integer"}
		setBounds(item, f)
		s.AnyOf = []*jsonschema.Schema{
			item,
			{Type: "array", Items: item},
			{Type: "string", Description: "comma-separated ids"},
		}
	case KindEnum:
		s.Type = "string"
		s.Enum = enumValues(f.Allowed)
	case KindEnumList:
		item := &jsonschema.Schema{Type: "string", Enum: enumValues(f.Allowed)}
		s.AnyOf = []*jsonschema.Schema{
			{Type: "array", Items: item},
			{Type: "string", Description: "comma-separated values"},
		}
		s.Items = item
	case KindFreeText:
		s.Type = "string"
	}
	return s
}

func setBounds(s *jsonschema.Schema, f FieldSpec) {
	if f.Min != nil {
		s.Minimum = json.Number(strconv.FormatFloat(*f.Min, 'f', -1, 64))
	}
	if f.Max != nil {
		s.Maximum = json.Number(strconv.FormatFloat(*f.Max, 'f', -1, 64))
	}
}

func enumValues(allowed []string) []any {
	out := make([]any, len(allowed))
	for i, a := range allowed {
		out[i] = a
	}
	return out
}
