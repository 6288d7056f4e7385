package logctx

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestHandler_AddsContextGroups(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(Handler{Handler: slog.NewJSONHandler(&buf, nil)}).With("component", "test")

	ctx := WithRPCMessage(context.Background(), &RPCMessage{Method: "tools/call", ID: "7", Type: "request"})
	ctx = WithToolCallData(ctx, &ToolCallData{ToolName: "search_units"})
	l.InfoContext(ctx, "hello")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode log line: %v (%s)", err, buf.String())
	}
	rpc, ok := rec["rpc"].(map[string]any)
	if !ok || rpc["method"] != "tools/call" || rpc["id"] != "7" {
		t.Fatalf("missing rpc group: %v", rec)
	}
	tool, ok := rec["tool"].(map[string]any)
	if !ok || tool["name"] != "search_units" {
		t.Fatalf("missing tool group: %v", rec)
	}
	if rec["component"] != "test" {
		t.Fatalf("derived logger lost attrs: %v", rec)
	}
	if _, ok := rec["upstream"]; ok {
		t.Fatalf("unexpected upstream group: %v", rec)
	}
}

func TestDecorate_WrapsOnce(t *testing.T) {
	var buf bytes.Buffer
	l := Decorate(slog.New(slog.NewJSONHandler(&buf, nil)))
	if Decorate(l) != l {
		t.Fatalf("decorating twice should return the same logger")
	}

	ctx := WithUpstreamData(context.Background(), &UpstreamData{RequestID: "req-1", Path: "/pms/units"})
	Decorate(l).InfoContext(ctx, "hello")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode log line: %v (%s)", err, buf.String())
	}
	up, ok := rec["upstream"].(map[string]any)
	if !ok || up["request_id"] != "req-1" || up["path"] != "/pms/units" {
		t.Fatalf("missing upstream group: %v", rec)
	}
}
