package connector

import "github.com/ggoodman/pms-mcp/params"

var searchReservationMetrics = Definition{
	Name:        "search_reservation_metrics",
	Title:       "Search reservation metrics",
	Description: "Filter reservation performance metrics by stay length, revenue, average daily rate and occupancy.",
	Pipeline: params.NewPipeline(
		append(pagingFields(1),
			params.Date("arrival_start"),
			params.Date("arrival_end"),
			params.IDList("node_id", params.Min(1)),
			params.Float("min_nights", params.Min(0)),
			params.Float("max_nights", params.Min(0)),
			params.Float("min_revenue", params.Min(0), params.Describe("Minimum total revenue.")),
			params.Float("max_revenue", params.Min(0)),
			params.Float("min_adr", params.Min(0), params.Describe("Minimum average daily rate.")),
			params.Float("max_adr", params.Min(0)),
			params.Float("min_occupancy", params.Min(0), params.Max(1), params.Describe("Occupancy ratio between 0 and 1."), params.Example(0.5)),
			params.Float("max_occupancy", params.Min(0), params.Max(1)),
		),
		params.WithRules(
			params.OrderedPair("arrival_start", "arrival_end"),
			params.OrderedPair("min_nights", "max_nights"),
			params.OrderedPair("min_revenue", "max_revenue"),
			params.OrderedPair("min_adr", "max_adr"),
			params.OrderedPair("min_occupancy", "max_occupancy"),
			params.PaginationCeiling("page", "size", 1, defaultPageSize),
		),
	),
	Endpoint: "/v2/pms/reservations/metrics",
	Route:    searchRoute("/v2/pms/reservations/metrics"),
}
