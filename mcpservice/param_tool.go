package mcpservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ggoodman/pms-mcp/mcp"
	"github.com/ggoodman/pms-mcp/params"
	"github.com/invopop/jsonschema"
)

// ParamToolHandler receives arguments that already passed the tool's
// parameter pipeline.
type ParamToolHandler func(ctx context.Context, w ToolResponseWriter, args *params.ParameterMap) error

// ToolOption configures NewParamTool.
type ToolOption func(*toolConfig)

type toolConfig struct {
	title       string
	description string
	annotations *mcp.ToolAnnotations
	meta        map[string]any
}

// WithToolTitle sets the human-facing tool title.
func WithToolTitle(title string) ToolOption {
	return func(c *toolConfig) { c.title = title }
}

// WithToolDescription sets the tool description used in listings.
func WithToolDescription(desc string) ToolOption {
	return func(c *toolConfig) { c.description = desc }
}

// WithToolAnnotations attaches behavior hints to the descriptor.
func WithToolAnnotations(a mcp.ToolAnnotations) ToolOption {
	return func(c *toolConfig) { c.annotations = &a }
}

// WithToolMeta attaches _meta to the descriptor.
func WithToolMeta(meta map[string]any) ToolOption {
	return func(c *toolConfig) { c.meta = meta }
}

// NewParamTool builds a StaticTool whose input is described and checked by a
// params.Pipeline. The handler:
//   - decodes the raw arguments object keeping numbers as json.Number
//   - runs the pipeline, turning a *params.ValidationError into an error result
//   - hands the canonical ParameterMap to fn and returns what fn wrote
//
// An error returned by fn is not converted; it surfaces as a protocol error.
func NewParamTool(name string, p *params.Pipeline, fn ParamToolHandler, opts ...ToolOption) StaticTool {
	cfg := toolConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	desc := mcp.Tool{
		Name:        name,
		Title:       cfg.title,
		Description: cfg.description,
		InputSchema: toMCPInputSchema(p.Schema()),
		Annotations: cfg.annotations,
		Meta:        cfg.meta,
	}

	handler := func(ctx context.Context, req *mcp.CallToolRequestReceived) (*mcp.CallToolResult, error) {
		raw, err := decodeArguments(req.Arguments)
		if err != nil {
			return Errorf("invalid arguments: %v", err), nil
		}
		args, err := p.Run(raw)
		if err != nil {
			var verr *params.ValidationError
			if errors.As(err, &verr) {
				return ValidationResult(verr), nil
			}
			return nil, err
		}
		w := newToolResponseWriter(ctx)
		if err := fn(ctx, w, args); err != nil {
			return nil, err
		}
		return w.Result(), nil
	}

	return StaticTool{Descriptor: desc, Handler: handler}
}

// ValidationResult renders a parameter failure as an error result. The text
// block carries the message; structuredContent carries the failure fields so
// clients can react without parsing prose.
func ValidationResult(verr *params.ValidationError) *mcp.CallToolResult {
	res := Errorf("invalid parameter %s", verr.Error())
	res.StructuredContent = map[string]any{
		"error": map[string]any{
			"field":  verr.Field,
			"kind":   verr.Kind.String(),
			"reason": verr.Reason,
			"value":  verr.Value,
		},
	}
	return res
}

// decodeArguments parses the tool arguments object. Missing or null arguments
// mean "no parameters".
func decodeArguments(raw json.RawMessage) (map[string]any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return map[string]any{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("arguments must be a JSON object")
	}
	return m, nil
}

// toMCPInputSchema down-converts a JSON Schema object to the simplified MCP
// ToolInputSchema.
func toMCPInputSchema(s *jsonschema.Schema) mcp.ToolInputSchema {
	out := mcp.ToolInputSchema{
		Type:                 "object",
		Properties:           map[string]mcp.SchemaProperty{},
		AdditionalProperties: s == nil || s.AdditionalProperties != jsonschema.FalseSchema,
	}
	if s == nil {
		return out
	}
	if s.Properties != nil {
		for el := s.Properties.Oldest(); el != nil; el = el.Next() {
			out.Properties[el.Key] = toMCPProperty(el.Value)
		}
	}
	if len(s.Required) > 0 {
		out.Required = append([]string(nil), s.Required...)
	}
	return out
}

// toMCPProperty recursively maps a jsonschema.Schema to the simplified MCP SchemaProperty.
func toMCPProperty(s *jsonschema.Schema) mcp.SchemaProperty {
	if s == nil {
		return mcp.SchemaProperty{}
	}
	p := mcp.SchemaProperty{
		Type:        s.Type,
		Description: s.Description,
		Format:      s.Format,
		Minimum:     numberPtr(s.Minimum),
		Maximum:     numberPtr(s.Maximum),
	}
	if len(s.Enum) > 0 {
		p.Enum = s.Enum
	}
	if len(s.Examples) > 0 {
		p.Examples = s.Examples
	}
	if s.Items != nil {
		item := toMCPProperty(s.Items)
		p.Items = &item
	}
	for _, alt := range s.AnyOf {
		p.AnyOf = append(p.AnyOf, toMCPProperty(alt))
	}
	if s.Type == "object" && s.Properties != nil {
		m := make(map[string]mcp.SchemaProperty, s.Properties.Len())
		for el := s.Properties.Oldest(); el != nil; el = el.Next() {
			m[el.Key] = toMCPProperty(el.Value)
		}
		p.Properties = m
	}
	return p
}

func numberPtr(n json.Number) *float64 {
	if n == "" {
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil
	}
	return &f
}
