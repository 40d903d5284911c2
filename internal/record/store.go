package record

import "context"

// Options narrows and shapes a list query.
type Options struct {
	// Filter restricts the result set. Nil means no restriction.
	Filter Filter
	// Sort names the sort field; a leading "-" sorts descending
	// (e.g. "order", "-created").
	Sort string
	// Expand names relation fields (comma separated) whose target
	// records should be joined into each result's Expand map.
	Expand string
}

// List is one page of records plus the total match count.
type List struct {
	Page       int
	PerPage    int
	TotalItems int
	Items      []Record
}

// Store is the record-store contract every backend satisfies. All calls
// take a context: remote implementations issue network round-trips that
// honour cancellation.
type Store interface {
	Create(ctx context.Context, collection string, fields map[string]any) (Record, error)
	Update(ctx context.Context, collection, id string, fields map[string]any) (Record, error)
	Delete(ctx context.Context, collection, id string) error
	GetOne(ctx context.Context, collection, id string, opts Options) (Record, error)
	GetList(ctx context.Context, collection string, page, perPage int, opts Options) (List, error)
	GetFullList(ctx context.Context, collection string, opts Options) ([]Record, error)
}
