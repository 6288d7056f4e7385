package connector

import "github.com/ggoodman/pms-mcp/params"

var unitStatuses = []string{"clean", "dirty", "occupied", "inspection", "inprogress"}

var unitSortColumns = []string{"id", "name", "nodeName", "unitTypeName"}

var searchUnits = Definition{
	Name:        "search_units",
	Title:       "Search units",
	Description: "Search rental units by size, amenities, location node, housekeeping status or availability window.",
	Pipeline: params.NewPipeline(
		append(pagingFields(1),
			params.Enum("sort_column", unitSortColumns, params.Describe("Column to sort by.")),
			params.Enum("sort_direction", sortDirections, params.Describe("Sort direction.")),
			params.FreeText("search", params.Describe("Free-text search on unit name and code.")),
			params.Integer("bedrooms", params.Min(0), params.Describe("Exact bedroom count.")),
			params.Integer("min_bedrooms", params.Min(0)),
			params.Integer("max_bedrooms", params.Min(0)),
			params.Float("bathrooms", params.Min(0), params.Describe("Exact bathroom count; half baths allowed.")),
			params.Float("min_bathrooms", params.Min(0)),
			params.Float("max_bathrooms", params.Min(0)),
			params.BinaryFlag("pets_friendly", params.Describe("Only pet friendly units.")),
			params.BinaryFlag("is_active"),
			params.BinaryFlag("is_bookable"),
			params.Enum("unit_status", unitStatuses, params.Describe("Housekeeping status.")),
			params.Date("arrival", params.Describe("Available from this date.")),
			params.Date("departure", params.Describe("Available until this date.")),
			params.IDList("node_id", params.Min(1), params.Describe("Node id or list of node ids.")),
			params.IDList("amenity_id", params.Min(1), params.Describe("Amenity id or list of amenity ids.")),
			params.BinaryFlag("computed", params.Describe("Include computed attributes.")),
		),
		params.WithRules(
			params.OrderedPair("min_bedrooms", "max_bedrooms"),
			params.OrderedPair("min_bathrooms", "max_bathrooms"),
			params.OrderedPair("arrival", "departure"),
			params.PaginationCeiling("page", "size", 1, defaultPageSize),
		),
	),
	Endpoint: "/pms/units",
	Route:    searchRoute("/pms/units"),
}

var getUnit = Definition{
	Name:        "get_unit",
	Title:       "Get unit",
	Description: "Fetch a single rental unit by id.",
	Pipeline: params.NewPipeline([]params.FieldSpec{
		params.Integer("unit_id", params.Required(), params.Min(1), params.Describe("Unit id."), params.Example(12)),
	}),
	Endpoint: "/pms/units/{id}",
	Route:    itemRoute("/pms/units/{id}", "unitId"),
}
