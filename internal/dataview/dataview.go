// Package dataview implements the client-side tabular data view used by the
// dashboard pages: the full entity collection is fetched from the API, held
// in memory, and the rendered page is derived through filter, sort, and
// paginate stages. The stages are pure functions; View composes them with
// fetching and mutation actions.
package dataview

// CategoryAll is the categorical-filter sentinel that disables the filter.
const CategoryAll = "all"

// Direction is a sort direction.
type Direction string

const (
	Ascending  Direction = "ascending"
	Descending Direction = "descending"
)

// FilterState holds the free-text search term and the categorical filter.
// Both apply conjunctively; an empty search term and CategoryAll each match
// every record.
type FilterState struct {
	Search   string
	Category string
}

// SortState holds the single active sort key and direction. A zero Key means
// the collection keeps its server order.
type SortState struct {
	Key       string
	Direction Direction
}

// PageState holds 1-based pagination state.
type PageState struct {
	Page    int
	PerPage int
}

// PageSizes are the selectable page sizes.
var PageSizes = []int{5, 10, 20, 50}

// ValidPageSize reports whether n is a selectable page size.
func ValidPageSize(n int) bool {
	for _, s := range PageSizes {
		if n == s {
			return true
		}
	}
	return false
}

// Schema describes how the view stages read an entity: how to extract its
// id, which string fields the text search probes, which field the
// categorical filter matches, and one typed comparator per sortable key.
// The comparator table replaces dynamic field access; each entry returns
// negative, zero, or positive for ascending order.
type Schema[T any] struct {
	ID           func(T) int
	SearchFields []func(T) string
	Category     func(T) string
	Compare      map[string]func(a, b T) int
}

// Cycle advances the tri-state sort for key: none -> ascending ->
// descending -> none. Cycling a different key starts it ascending.
func (s SortState) Cycle(key string) SortState {
	if s.Key != key {
		return SortState{Key: key, Direction: Ascending}
	}
	switch s.Direction {
	case Ascending:
		return SortState{Key: key, Direction: Descending}
	default:
		return SortState{}
	}
}
