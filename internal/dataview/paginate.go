package dataview

// TotalPages returns ceil(count/perPage). An empty collection has zero
// pages, not one.
func TotalPages(count, perPage int) int {
	if count <= 0 || perPage <= 0 {
		return 0
	}
	return (count + perPage - 1) / perPage
}

// Paginate returns the 1-based page slice [(page-1)*perPage, page*perPage).
// A page outside [1, TotalPages] yields an empty slice rather than clamping;
// the caller disables navigation controls at the bounds.
func Paginate[T any](items []T, page, perPage int) []T {
	if page < 1 || perPage < 1 {
		return nil
	}
	start := (page - 1) * perPage
	if start >= len(items) {
		return nil
	}
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// maxPageButtons is how many page-number buttons are shown at once.
const maxPageButtons = 5

// PageWindow returns up to five consecutive page numbers centered on
// current, clamped at both edges. An empty collection yields no buttons.
func PageWindow(current, total int) []int {
	if total <= 0 {
		return nil
	}
	start := current - maxPageButtons/2
	if start > total-maxPageButtons+1 {
		start = total - maxPageButtons + 1
	}
	if start < 1 {
		start = 1
	}
	end := start + maxPageButtons - 1
	if end > total {
		end = total
	}

	window := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		window = append(window, p)
	}
	return window
}
