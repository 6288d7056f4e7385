package main

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/ggoodman/pms-mcp/internal/config"
	"github.com/ggoodman/pms-mcp/params"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(""))
	err := root.Execute()
	return out.String(), err
}

func TestCheckPrintsUpstreamRequest(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"search", []string{"check", "search_reservations", `{"unit_id":"3","status":"Hold"}`}, "/v2/pms/reservations?status=Hold&unitId=3\n"},
		{"list", []string{"check", "search_units", `{"amenity_id":[4,5]}`}, "/pms/units?amenityId=4&amenityId=5\n"},
		{"item", []string{"check", "get_unit", `{"unit_id":12}`}, "/pms/units/12\n"},
		{"no args", []string{"check", "search_amenities"}, "/pms/units/amenities\n"},
		{"json", []string{"check", "--json", "search_reservations", `{"page":"2","arrival_start":"2024-06-01T09:00:00"}`}, `{"page":2,"arrivalStart":"2024-06-01"}` + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCheckReportsValidationError(t *testing.T) {
	_, err := run(t, "check", "search_amenities", `{"page":-1}`)
	if !errors.Is(err, params.ErrRangeViolation) {
		t.Fatalf("err = %v, want range violation", err)
	}
	if !strings.Contains(err.Error(), "page") {
		t.Fatalf("error should name the field: %v", err)
	}
}

func TestCheckUnknownTool(t *testing.T) {
	_, err := run(t, "check", "delete_everything", "{}")
	if !errors.Is(err, errUnknownTool) {
		t.Fatalf("err = %v", err)
	}
}

func TestCheckRejectsNonObject(t *testing.T) {
	if _, err := run(t, "check", "get_unit", `[1]`); err == nil {
		t.Fatalf("expected error for array arguments")
	}
}

func TestToolsListsEveryDefinition(t *testing.T) {
	got, err := run(t, "tools")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, name := range []string{"search_reservations", "get_reservation", "search_units", "get_unit", "search_amenities", "search_reservation_metrics"} {
		if !strings.Contains(got, name+"\t") {
			t.Fatalf("missing %s in:\n%s", name, got)
		}
	}
	if !strings.Contains(got, "reservation_id\tinteger -> reservationId (required)") {
		t.Fatalf("missing parameter line in:\n%s", got)
	}
}

func TestServeRequiresConfig(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PMS_BASE_URL", "")
	t.Setenv("PMS_API_KEY", "")
	t.Setenv("PMS_API_SECRET", "")
	_, err := run(t, "serve")
	if !errors.Is(err, config.ErrMissingBaseURL) {
		t.Fatalf("err = %v", err)
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent to testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})
}
