package db

import "github.com/kailas-cloud/geofeed/internal/domain/filter"

// Query is the input for a find operation.
type Query struct {
	Collection string
	Filter     filter.Expression
	// Fields restricts the returned fields. Empty returns every field.
	Fields []string
	// IncludeID keeps the store identifier in the returned documents.
	IncludeID bool
	// Sort orders results by these fields ascending. Empty keeps store order.
	Sort []string
}
