// Package params canonicalizes loosely typed tool arguments before they are
// turned into upstream query parameters.
//
// Tool callers send JSON values of whatever type was convenient: numbers as
// strings, flags as booleans or "1", id filters as a number, a list, "4,5" or
// "[4, 5]". A Pipeline declares, per tool, what each argument means and
// reduces every raw value to exactly one canonical shape:
//
//	Kind        canonical value
//	integer     int64
//	binaryFlag  int64 (0 or 1)
//	float       float64
//	boolean     bool
//	dateTime    "YYYY-MM-DDTHH:MM:SS[.fff]Z" (or "+00:00" when sent that way)
//	date        "YYYY-MM-DD"
//	idList      int64, or []int64 with two or more ids
//	enum        string from the allowed set
//	enumList    []string, never collapsed
//	freeText    string
//
// Validation is fail-fast: the first invalid field aborts the run with a
// single *ValidationError naming the field, the offending value and what was
// expected. Cross-field rules (OrderedPair, PaginationCeiling) run only once
// every field is individually valid.
//
// Example:
//
//	p := params.NewPipeline([]params.FieldSpec{
//	    params.BinaryFlag("is_public"),
//	    params.Integer("group_id", params.Min(1)),
//	    params.FreeText("search"),
//	})
//	m, err := p.Run(map[string]any{"is_public": "1", "group_id": "4", "search": "pool"})
//	// m: {"isPublic": 1, "groupId": 4, "search": "pool"}
//
// The package performs no I/O and holds no mutable package state.
package params
