package connector

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ggoodman/pms-mcp/mcp"
	"github.com/ggoodman/pms-mcp/mcpservice"
	"github.com/ggoodman/pms-mcp/params"
	"github.com/ggoodman/pms-mcp/pms"
)

type fakeSearcher struct {
	calls int
	path  string
	query *params.ParameterMap
	body  string
	err   error
}

func (f *fakeSearcher) Get(ctx context.Context, path string, query *params.ParameterMap, out any) error {
	f.calls++
	f.path = path
	f.query = query
	if f.err != nil {
		return f.err
	}
	body := f.body
	if body == "" {
		body = `{"total_items":0}`
	}
	return json.Unmarshal([]byte(body), out)
}

func call(t *testing.T, s pms.Searcher, name, args string) *mcp.CallToolResult {
	t.Helper()
	c := NewToolsContainer(s)
	res, err := c.Call(context.Background(), &mcp.CallToolRequestReceived{Name: name, Arguments: json.RawMessage(args)})
	if err != nil {
		t.Fatalf("call %s: %v", name, err)
	}
	return res
}

func errorField(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if !res.IsError {
		t.Fatalf("expected error result, got %+v", res)
	}
	e, ok := res.StructuredContent["error"].(map[string]any)
	if !ok {
		t.Fatalf("missing structured error: %+v", res.StructuredContent)
	}
	f, _ := e["field"].(string)
	return f
}

func TestDefinitionsAreListed(t *testing.T) {
	tools := NewToolsContainer(&fakeSearcher{}).Snapshot()
	if len(tools) != len(Names()) {
		t.Fatalf("got %d tools, want %d", len(tools), len(Names()))
	}
	seen := map[string]bool{}
	for _, tool := range tools {
		if seen[tool.Name] {
			t.Fatalf("duplicate tool %s", tool.Name)
		}
		seen[tool.Name] = true
		if tool.InputSchema.AdditionalProperties {
			t.Fatalf("%s: schema should forbid unknown arguments", tool.Name)
		}
		if tool.Annotations == nil || !tool.Annotations.ReadOnlyHint {
			t.Fatalf("%s: expected read-only annotation", tool.Name)
		}
		def, _ := Lookup(tool.Name)
		if ep, _ := tool.Meta["pms/endpoint"].(string); ep == "" || ep != def.Endpoint {
			t.Fatalf("%s: _meta endpoint = %v, want %q", tool.Name, tool.Meta["pms/endpoint"], def.Endpoint)
		}
		if _, ok := Lookup(tool.Name); !ok {
			t.Fatalf("Lookup(%s) failed", tool.Name)
		}
	}
	if _, ok := Lookup("nope"); ok {
		t.Fatalf("Lookup should fail for unknown tool")
	}
}

func TestSearchReservationsCanonicalQuery(t *testing.T) {
	f := &fakeSearcher{body: `{"_embedded":{"reservations":[{"id":1}]},"total_items":1}`}
	res := call(t, f, "search_reservations", `{
		"page": 2,
		"size": "50",
		"unit_id": "12, 15",
		"contact_id": "7",
		"status": "Confirmed,Checked In",
		"arrival_start": "2024-06-01",
		"arrival_end": "2024-06-30T12:00:00",
		"booked_start": "2024-05-01T10:00:00+02:00",
		"in_house_today": 1
	}`)
	if res.IsError {
		t.Fatalf("unexpected error result: %+v", res)
	}
	if f.path != "/v2/pms/reservations" {
		t.Fatalf("path = %q", f.path)
	}
	q := f.query.Values()
	want := map[string][]string{
		"page":         {"2"},
		"size":         {"50"},
		"unitId":       {"12", "15"},
		"contactId":    {"7"},
		"status":       {"Confirmed", "Checked In"},
		"arrivalStart": {"2024-06-01"},
		"arrivalEnd":   {"2024-06-30"},
		"bookedStart":  {"2024-05-01T10:00:00Z"},
		"inHouseToday": {"1"},
	}
	if len(q) != len(want) {
		t.Fatalf("query = %v, want %v", q, want)
	}
	for k, vs := range want {
		got := q[k]
		if strings.Join(got, "|") != strings.Join(vs, "|") {
			t.Fatalf("%s = %v, want %v", k, got, vs)
		}
	}
	if _, ok := res.StructuredContent["total_items"]; !ok {
		t.Fatalf("structured content missing body: %+v", res.StructuredContent)
	}
	if res.Meta["query"] != f.query.Encode() {
		t.Fatalf("meta query = %v", res.Meta["query"])
	}
	if len(res.Content) != 1 || !strings.Contains(res.Content[0].Text, `"reservations"`) {
		t.Fatalf("content = %+v", res.Content)
	}
}

func TestSearchReservationsRejections(t *testing.T) {
	tests := []struct {
		name  string
		args  string
		field string
	}{
		{"page below base", `{"page": 0}`, "page"},
		{"unknown status", `{"status": "Booked"}`, "status"},
		{"binary flag as bool", `{"in_house_today": true}`, "in_house_today"},
		{"inverted arrival", `{"arrival_start": "2024-07-01", "arrival_end": "2024-06-01"}`, "arrival_start"},
		{"past result window", `{"page": 202, "size": 50}`, "page"},
		{"page past window with default size", `{"page": 402}`, "page"},
		{"unknown argument", `{"unitId": 3}`, "unitId"},
		{"bad unit id", `{"unit_id": "12,abc"}`, "unit_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeSearcher{}
			res := call(t, f, "search_reservations", tt.args)
			if got := errorField(t, res); got != tt.field {
				t.Fatalf("field = %q, want %q", got, tt.field)
			}
			if f.calls != 0 {
				t.Fatalf("upstream called on invalid input")
			}
		})
	}
}

func TestResultWindowBoundary(t *testing.T) {
	f := &fakeSearcher{}
	if res := call(t, f, "search_reservations", `{"page": 201, "size": 50}`); res.IsError {
		t.Fatalf("page 201 x 50 should be accepted: %+v", res)
	}
	if res := call(t, f, "search_amenities", `{"page": 400, "size": 25}`); res.IsError {
		t.Fatalf("zero-based page 400 x 25 should be accepted: %+v", res)
	}
	res := call(t, f, "search_amenities", `{"page": 401, "size": 25}`)
	if got := errorField(t, res); got != "page" {
		t.Fatalf("field = %q", got)
	}
}

func TestSearchAmenitiesZeroBasedPage(t *testing.T) {
	f := &fakeSearcher{body: `[{"id":1,"name":"Pool"}]`}
	res := call(t, f, "search_amenities", `{"page": 0, "sort_column": "createdAt", "sort_direction": "desc", "is_public": "1"}`)
	if res.IsError {
		t.Fatalf("unexpected error: %+v", res)
	}
	if f.path != "/pms/units/amenities" {
		t.Fatalf("path = %q", f.path)
	}
	if got := f.query.Encode(); got != "isPublic=1&page=0&sortColumn=createdAt&sortDirection=desc" {
		t.Fatalf("query = %q", got)
	}
	items, ok := res.StructuredContent["items"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("array body should be wrapped in items: %+v", res.StructuredContent)
	}

	res = call(t, f, "search_amenities", `{"sort_column": "name"}`)
	if got := errorField(t, res); got != "sort_column" {
		t.Fatalf("field = %q", got)
	}
}

func TestGetReservationRoutesByID(t *testing.T) {
	f := &fakeSearcher{body: `{"id":1042}`}
	res := call(t, f, "get_reservation", `{"reservation_id": "1042"}`)
	if res.IsError {
		t.Fatalf("unexpected error: %+v", res)
	}
	if f.path != "/v2/pms/reservations/1042" {
		t.Fatalf("path = %q", f.path)
	}
	if f.query != nil {
		t.Fatalf("item lookups send no query, got %v", f.query.Values())
	}

	res = call(t, &fakeSearcher{}, "get_reservation", `{}`)
	if got := errorField(t, res); got != "reservation_id" {
		t.Fatalf("field = %q", got)
	}
}

func TestSearchUnitsOrderedPairs(t *testing.T) {
	f := &fakeSearcher{}
	res := call(t, f, "search_units", `{"min_bedrooms": 2, "max_bedrooms": 2, "amenity_id": [3, 4], "pets_friendly": 1}`)
	if res.IsError {
		t.Fatalf("equal bounds should pass: %+v", res)
	}
	if got := f.query.Values()["amenityId"]; strings.Join(got, ",") != "3,4" {
		t.Fatalf("amenityId = %v", got)
	}

	res = call(t, &fakeSearcher{}, "search_units", `{"min_bathrooms": 2.5, "max_bathrooms": 1.5}`)
	if got := errorField(t, res); got != "min_bathrooms" {
		t.Fatalf("field = %q", got)
	}
	res = call(t, &fakeSearcher{}, "search_units", `{"arrival": "2024-06-10", "departure": "2024-06-01"}`)
	if got := errorField(t, res); got != "arrival" {
		t.Fatalf("field = %q", got)
	}
}

func TestReservationMetricsFloatDomains(t *testing.T) {
	f := &fakeSearcher{}
	res := call(t, f, "search_reservation_metrics", `{"min_occupancy": "0.25", "max_occupancy": 1, "min_adr": 99.5}`)
	if res.IsError {
		t.Fatalf("unexpected error: %+v", res)
	}
	if got := f.query.Encode(); got != "maxOccupancy=1&minAdr=99.5&minOccupancy=0.25" {
		t.Fatalf("query = %q", got)
	}

	tests := []struct {
		args  string
		field string
	}{
		{`{"min_occupancy": 1.5}`, "min_occupancy"},
		{`{"min_revenue": -1}`, "min_revenue"},
		{`{"min_revenue": 500, "max_revenue": 100}`, "min_revenue"},
	}
	for _, tt := range tests {
		res := call(t, &fakeSearcher{}, "search_reservation_metrics", tt.args)
		if got := errorField(t, res); got != tt.field {
			t.Fatalf("%s: field = %q, want %q", tt.args, got, tt.field)
		}
	}
}

func TestUpstreamErrors(t *testing.T) {
	f := &fakeSearcher{err: &pms.APIError{Status: 422, Body: `{"detail":"bad filter"}`, RequestID: "req-1"}}
	res := call(t, f, "get_unit", `{"unit_id": 12}`)
	if !res.IsError {
		t.Fatalf("expected error result")
	}
	if !strings.Contains(res.Content[0].Text, "422") || !strings.Contains(res.Content[0].Text, "bad filter") {
		t.Fatalf("text = %q", res.Content[0].Text)
	}
	if res.Meta["requestId"] != "req-1" {
		t.Fatalf("meta = %v", res.Meta)
	}

	res = call(t, &fakeSearcher{err: pms.ErrUnexpectedContentType}, "get_unit", `{"unit_id": 12}`)
	if !res.IsError || !strings.Contains(res.Content[0].Text, "upstream request failed") {
		t.Fatalf("got %+v", res)
	}
}

func TestCanceledCallReturnsContextError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := mcpservice.NewToolsContainer(Tools(&fakeSearcher{err: context.Canceled})...)
	_, err := c.Call(ctx, &mcp.CallToolRequestReceived{Name: "get_unit", Arguments: json.RawMessage(`{"unit_id": 1}`)})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}
