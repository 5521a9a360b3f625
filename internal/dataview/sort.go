package dataview

import "sort"

// Sort returns a sorted copy of items according to ss. An empty sort key, or
// a key with no comparator in the schema, is a stable passthrough that
// preserves the input order. The sort itself is stable, so records that
// compare equal keep their relative order.
func Sort[T any](items []T, schema Schema[T], ss SortState) []T {
	out := make([]T, len(items))
	copy(out, items)

	if ss.Key == "" {
		return out
	}
	cmp, ok := schema.Compare[ss.Key]
	if !ok {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		c := cmp(out[i], out[j])
		if ss.Direction == Descending {
			return c > 0
		}
		return c < 0
	})
	return out
}
