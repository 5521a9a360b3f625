package dataview

import (
	"strconv"
	"strings"
)

// Filter returns the records matching fs. A record matches the search term
// when any configured field (or its id rendered as a string) contains the
// term case-insensitively; it matches the categorical filter when the
// category field equals it exactly. The input slice is never mutated; a new
// slice is returned even when nothing is filtered out.
func Filter[T any](items []T, schema Schema[T], fs FilterState) []T {
	term := strings.ToLower(strings.TrimSpace(fs.Search))
	category := fs.Category

	out := make([]T, 0, len(items))
	for _, item := range items {
		if !matchesSearch(item, schema, term) {
			continue
		}
		if !matchesCategory(item, schema, category) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func matchesSearch[T any](item T, schema Schema[T], term string) bool {
	if term == "" {
		return true
	}
	for _, field := range schema.SearchFields {
		if strings.Contains(strings.ToLower(field(item)), term) {
			return true
		}
	}
	if schema.ID != nil {
		if strings.Contains(strconv.Itoa(schema.ID(item)), term) {
			return true
		}
	}
	return false
}

func matchesCategory[T any](item T, schema Schema[T], category string) bool {
	if schema.Category == nil || category == "" || category == CategoryAll {
		return true
	}
	return schema.Category(item) == category
}
