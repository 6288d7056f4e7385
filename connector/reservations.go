package connector

import "github.com/ggoodman/pms-mcp/params"

// ReservationStatuses are the status literals the reservations endpoint
// accepts, spelled exactly as upstream expects them.
var ReservationStatuses = []string{"Hold", "Confirmed", "Checked Out", "Checked In", "Cancelled"}

var reservationSortColumns = []string{
	"name", "status", "altConf", "agreementStatus", "type", "guest",
	"guests", "unit", "units", "checkin", "checkout", "nights",
}

var searchReservations = Definition{
	Name:  "search_reservations",
	Title: "Search reservations",
	Description: "Search reservations by stay dates, booking dates, status, unit, contact or free text. " +
		"Dates are YYYY-MM-DD; timestamps are ISO 8601 and are sent to the API without their offset.",
	Pipeline: params.NewPipeline(
		append(pagingFields(1),
			params.Enum("sort_column", reservationSortColumns, params.Describe("Column to sort by.")),
			params.Enum("sort_direction", sortDirections, params.Describe("Sort direction.")),
			params.FreeText("search", params.Describe("Free-text search across guest names and confirmation codes.")),
			params.FreeText("tags", params.Describe("Tag ids, comma separated.")),
			params.IDList("node_id", params.Min(1), params.Describe("Node id or list of node ids.")),
			params.IDList("unit_id", params.Min(1), params.Describe("Unit id or list of unit ids."), params.Example("12,15")),
			params.IDList("contact_id", params.Min(1), params.Describe("Guest contact id or list of ids.")),
			params.IDList("travel_agent_id", params.Min(1), params.Describe("Travel agent id or list of ids.")),
			params.Date("arrival_start", params.Describe("Earliest arrival date."), params.Example("2024-06-01")),
			params.Date("arrival_end", params.Describe("Latest arrival date.")),
			params.Date("departure_start", params.Describe("Earliest departure date.")),
			params.Date("departure_end", params.Describe("Latest departure date.")),
			params.DateTime("booked_start", params.Describe("Booked at or after this time."), params.Example("2024-05-01T00:00:00Z")),
			params.DateTime("booked_end", params.Describe("Booked at or before this time.")),
			params.DateTime("updated_since", params.Describe("Only reservations changed since this time.")),
			params.EnumList("status", ReservationStatuses, params.Describe("One or more reservation statuses."), params.Example("Confirmed,Checked In")),
			params.BinaryFlag("in_house_today", params.Describe("Only guests in house today.")),
			params.Integer("scroll", params.Min(0), params.Describe("Scroll cursor for large exports.")),
		),
		params.WithRules(
			params.OrderedPair("arrival_start", "arrival_end"),
			params.OrderedPair("departure_start", "departure_end"),
			params.OrderedPair("booked_start", "booked_end"),
			params.PaginationCeiling("page", "size", 1, defaultPageSize),
		),
	),
	Endpoint: "/v2/pms/reservations",
	Route:    searchRoute("/v2/pms/reservations"),
}

var getReservation = Definition{
	Name:        "get_reservation",
	Title:       "Get reservation",
	Description: "Fetch a single reservation by id.",
	Pipeline: params.NewPipeline([]params.FieldSpec{
		params.Integer("reservation_id", params.Required(), params.Min(1), params.Describe("Reservation id."), params.Example(1042)),
	}),
	Endpoint: "/v2/pms/reservations/{id}",
	Route:    itemRoute("/v2/pms/reservations/{id}", "reservationId"),
}
