// Package connector declares the property-management tools: one parameter
// pipeline per tool plus the handler that forwards the canonical query to the
// upstream API.
package connector

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ggoodman/pms-mcp/mcp"
	"github.com/ggoodman/pms-mcp/mcpservice"
	"github.com/ggoodman/pms-mcp/params"
	"github.com/ggoodman/pms-mcp/pms"
)

// Default page sizes applied by the upstream API when size is omitted. The
// pagination ceiling uses them so page-only requests are still checked.
const (
	defaultPageSize = 25
	maxPageSize     = 100
)

// Definition ties a tool name to its pipeline and upstream route.
type Definition struct {
	Name        string
	Title       string
	Description string
	Pipeline    *params.Pipeline
	// Endpoint is the upstream path template, advertised in the tool's _meta.
	Endpoint string
	// Route maps the canonical arguments to an upstream path and the query
	// to send with it. A nil query sends none.
	Route func(args *params.ParameterMap) (string, *params.ParameterMap, error)
}

var definitions = []Definition{
	searchReservations,
	getReservation,
	searchUnits,
	getUnit,
	searchAmenities,
	searchReservationMetrics,
}

// Definitions returns every tool definition in listing order.
func Definitions() []Definition {
	return append([]Definition(nil), definitions...)
}

// Lookup finds a definition by tool name.
func Lookup(name string) (Definition, bool) {
	for _, d := range definitions {
		if d.Name == name {
			return d, true
		}
	}
	return Definition{}, false
}

// Names lists the tool names, sorted.
func Names() []string {
	out := make([]string, 0, len(definitions))
	for _, d := range definitions {
		out = append(out, d.Name)
	}
	sort.Strings(out)
	return out
}

// Tools builds the tools served over MCP, each backed by s.
func Tools(s pms.Searcher) []mcpservice.StaticTool {
	out := make([]mcpservice.StaticTool, 0, len(definitions))
	for _, d := range definitions {
		out = append(out, d.tool(s))
	}
	return out
}

// NewToolsContainer is a convenience wrapper over Tools.
func NewToolsContainer(s pms.Searcher) *mcpservice.ToolsContainer {
	return mcpservice.NewToolsContainer(Tools(s)...)
}

func (d Definition) tool(s pms.Searcher) mcpservice.StaticTool {
	return mcpservice.NewParamTool(d.Name, d.Pipeline, d.handler(s),
		mcpservice.WithToolTitle(d.Title),
		mcpservice.WithToolDescription(d.Description),
		mcpservice.WithToolMeta(map[string]any{"pms/endpoint": d.Endpoint}),
		mcpservice.WithToolAnnotations(mcp.ToolAnnotations{
			Title:          d.Title,
			ReadOnlyHint:   true,
			IdempotentHint: true,
			OpenWorldHint:  true,
		}),
	)
}

func (d Definition) handler(s pms.Searcher) mcpservice.ParamToolHandler {
	return func(ctx context.Context, w mcpservice.ToolResponseWriter, args *params.ParameterMap) error {
		path, query, err := d.Route(args)
		if err != nil {
			w.SetError(true)
			return w.AppendText(err.Error())
		}

		var body any
		if err := s.Get(ctx, path, query, &body); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.SetError(true)
			var apiErr *pms.APIError
			if errors.As(err, &apiErr) {
				if apiErr.RequestID != "" {
					w.SetMeta("requestId", apiErr.RequestID)
				}
				return w.AppendText(fmt.Sprintf("upstream rejected the request with status %d: %s", apiErr.Status, apiErr.Body))
			}
			return w.AppendText(fmt.Sprintf("upstream request failed: %v", err))
		}

		if query != nil {
			w.SetMeta("query", query.Encode())
		}
		if m, ok := body.(map[string]any); ok {
			w.SetStructured(m)
		} else {
			w.SetStructured(map[string]any{"items": body})
		}
		return w.AppendJSON(body)
	}
}

// searchRoute forwards the whole canonical map to a fixed path.
func searchRoute(path string) func(*params.ParameterMap) (string, *params.ParameterMap, error) {
	return func(args *params.ParameterMap) (string, *params.ParameterMap, error) {
		return path, args, nil
	}
}

// itemRoute substitutes the integer id stored under wire for "{id}" in the
// template and sends no query.
func itemRoute(template, wire string) func(*params.ParameterMap) (string, *params.ParameterMap, error) {
	return func(args *params.ParameterMap) (string, *params.ParameterMap, error) {
		v, ok := args.Get(wire)
		if !ok {
			return "", nil, fmt.Errorf("missing %s", wire)
		}
		id, ok := v.(int64)
		if !ok {
			return "", nil, fmt.Errorf("%s is not an integer id", wire)
		}
		return strings.Replace(template, "{id}", strconv.FormatInt(id, 10), 1), nil, nil
	}
}

func pagingFields(pageBase float64) []params.FieldSpec {
	return []params.FieldSpec{
		params.Integer("page", params.Min(pageBase), params.Describe(fmt.Sprintf("Page number, starting at %d.", int(pageBase)))),
		params.Integer("size", params.Min(1), params.Max(maxPageSize), params.Describe("Results per page."), params.Example(defaultPageSize)),
	}
}

var sortDirections = []string{"asc", "desc"}
