package dataview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_TotalPages(t *testing.T) {
	t.Run("Should round up partial pages", func(t *testing.T) {
		assert.Equal(t, 2, TotalPages(12, 10))
		assert.Equal(t, 1, TotalPages(10, 10))
		assert.Equal(t, 3, TotalPages(11, 5))
	})

	t.Run("Should report zero pages for an empty collection", func(t *testing.T) {
		assert.Equal(t, 0, TotalPages(0, 10))
	})

	t.Run("Should report zero pages for an invalid page size", func(t *testing.T) {
		assert.Equal(t, 0, TotalPages(10, 0))
	})
}

func Test_Paginate(t *testing.T) {
	items := make([]int, 12)
	for i := range items {
		items[i] = i + 1
	}

	t.Run("Should slice the requested page", func(t *testing.T) {
		page1 := Paginate(items, 1, 10)
		assert.Len(t, page1, 10)
		assert.Equal(t, 1, page1[0])
		assert.Equal(t, 10, page1[9])

		page2 := Paginate(items, 2, 10)
		assert.Equal(t, []int{11, 12}, page2)
	})

	t.Run("Should cover every record exactly once across pages", func(t *testing.T) {
		var seen []int
		for p := 1; p <= TotalPages(len(items), 5); p++ {
			seen = append(seen, Paginate(items, p, 5)...)
		}
		assert.Equal(t, items, seen)
	})

	t.Run("Should return empty for a page beyond the end", func(t *testing.T) {
		assert.Empty(t, Paginate(items, 3, 10))
	})

	t.Run("Should return empty for page zero or a negative page", func(t *testing.T) {
		assert.Empty(t, Paginate(items, 0, 10))
		assert.Empty(t, Paginate(items, -1, 10))
	})
}

func Test_ValidPageSize(t *testing.T) {
	for _, size := range PageSizes {
		assert.True(t, ValidPageSize(size))
	}
	assert.False(t, ValidPageSize(0))
	assert.False(t, ValidPageSize(7))
	assert.False(t, ValidPageSize(100))
}

func Test_PageWindow(t *testing.T) {
	t.Run("Should center the window on the current page", func(t *testing.T) {
		assert.Equal(t, []int{3, 4, 5, 6, 7}, PageWindow(5, 10))
	})

	t.Run("Should clamp at the start", func(t *testing.T) {
		assert.Equal(t, []int{1, 2, 3, 4, 5}, PageWindow(1, 10))
		assert.Equal(t, []int{1, 2, 3, 4, 5}, PageWindow(2, 10))
	})

	t.Run("Should clamp at the end", func(t *testing.T) {
		assert.Equal(t, []int{6, 7, 8, 9, 10}, PageWindow(10, 10))
		assert.Equal(t, []int{6, 7, 8, 9, 10}, PageWindow(9, 10))
	})

	t.Run("Should show every page when there are fewer than five", func(t *testing.T) {
		assert.Equal(t, []int{1, 2, 3}, PageWindow(2, 3))
		assert.Equal(t, []int{1}, PageWindow(1, 1))
	})

	t.Run("Should be empty with no pages", func(t *testing.T) {
		assert.Empty(t, PageWindow(1, 0))
	})
}
