package params

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestPipelineSchema(t *testing.T) {
	p := NewPipeline([]FieldSpec{
		Integer("reservation_id", Required(), Min(1), Describe("Reservation id")),
		BinaryFlag("is_public"),
		EnumList("status", testStatuses),
		IDList("node_id"),
		DateTime("updated_since"),
	})
	s := p.Schema()
	if s.Type != "object" {
		t.Fatalf("expected object schema, got %q", s.Type)
	}
	if len(s.Required) != 1 || s.Required[0] != "reservation_id" {
		t.Fatalf("unexpected required: %v", s.Required)
	}

	var names []string
	for el := s.Properties.Oldest(); el != nil; el = el.Next() {
		names = append(names, el.Key)
	}
	if strings.Join(names, ",") != "reservation_id,is_public,status,node_id,updated_since" {
		t.Fatalf("properties out of declaration order: %v", names)
	}

	id, _ := s.Properties.Get("reservation_id")
	if id.Type != "integer" || id.Minimum != json.Number("1") || id.Description != "Reservation id" {
		t.Fatalf("unexpected reservation_id schema: %+v", id)
	}
	flag, _ := s.Properties.Get("is_public")
	if len(flag.Enum) != 2 {
		t.Fatalf("flag should enumerate 0 and 1: %+v", flag)
	}
	status, _ := s.Properties.Get("status")
	if status.Items == nil || len(status.Items.Enum) != len(testStatuses) {
		t.Fatalf("status items should carry the allowed values: %+v", status)
	}
	dt, _ := s.Properties.Get("updated_since")
	if dt.Format != "date-time" {
		t.Fatalf("expected date-time format, got %q", dt.Format)
	}

	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"additionalProperties":false`) {
		t.Fatalf("strict pipelines should forbid additional properties: %s", b)
	}
}
