package connector

import "github.com/ggoodman/pms-mcp/params"

var amenitySortColumns = []string{"id", "order", "isPublic", "publicSearchable", "isFilterable", "createdAt"}

// The amenities endpoint numbers pages from 0.
var searchAmenities = Definition{
	Name:        "search_amenities",
	Title:       "Search amenities",
	Description: "List unit amenities, optionally filtered by group and visibility flags. Pages start at 0.",
	Pipeline: params.NewPipeline(
		append(pagingFields(0),
			params.Enum("sort_column", amenitySortColumns, params.Describe("Column to sort by.")),
			params.Enum("sort_direction", sortDirections, params.Describe("Sort direction.")),
			params.FreeText("search", params.Describe("Free-text search on amenity name.")),
			params.Integer("group_id", params.Min(1), params.Describe("Amenity group id.")),
			params.BinaryFlag("is_public"),
			params.BinaryFlag("public_searchable"),
			params.BinaryFlag("is_filterable"),
		),
		params.WithRules(
			params.PaginationCeiling("page", "size", 0, defaultPageSize),
		),
	),
	Endpoint: "/pms/units/amenities",
	Route:    searchRoute("/pms/units/amenities"),
}
