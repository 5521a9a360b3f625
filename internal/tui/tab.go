package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/table"

	"github.com/washboardhq/washboard/internal/dataview"
)

// pageInfo is the non-generic slice of a view snapshot the status line needs.
type pageInfo struct {
	Page       int
	TotalPages int
	PerPage    int
	Filtered   int
	Total      int
	Search     string
	Category   string
	SortKey    string
	SortDesc   bool
	Loading    bool
	Err        error
}

// tab is one dashboard page: a typed view erased down to what the root
// model needs to drive and render it.
type tab interface {
	Title() string
	Columns() []table.Column
	Rows() []table.Row
	Info() pageInfo

	Load(ctx context.Context) error
	CycleSort(column int)
	SetSearch(term string)
	CycleCategory()
	NextPage()
	PrevPage()
	FirstPage()
	LastPage()
	CyclePageSize()
	DeleteSelected(ctx context.Context, row int) error

	// Close cancels pending debounced work; required before discarding a tab.
	Close()
}

// entityTab adapts a generic dataview.View into a tab. sortKeys maps column
// index to the view's comparator key; an empty key makes the column inert.
type entityTab[T any] struct {
	title      string
	view       *dataview.View[T]
	columns    []table.Column
	sortKeys   []string
	render     func(T) table.Row
	categories []string
	catIndex   int
	debounce   *dataview.Debouncer
}

func (t *entityTab[T]) Title() string { return t.title }

func (t *entityTab[T]) Columns() []table.Column { return t.columns }

func (t *entityTab[T]) Rows() []table.Row {
	snap := t.view.Snapshot()
	rows := make([]table.Row, 0, len(snap.Items))
	for _, item := range snap.Items {
		rows = append(rows, t.render(item))
	}
	return rows
}

func (t *entityTab[T]) Info() pageInfo {
	snap := t.view.Snapshot()
	return pageInfo{
		Page:       snap.Page,
		TotalPages: snap.TotalPages,
		PerPage:    snap.PerPage,
		Filtered:   snap.Filtered,
		Total:      snap.Total,
		Search:     snap.Filter.Search,
		Category:   snap.Filter.Category,
		SortKey:    snap.Sort.Key,
		SortDesc:   snap.Sort.Direction == dataview.Descending,
		Loading:    snap.Loading,
		Err:        snap.Err,
	}
}

func (t *entityTab[T]) Load(ctx context.Context) error { return t.view.Load(ctx) }

func (t *entityTab[T]) CycleSort(column int) {
	if column < 0 || column >= len(t.sortKeys) || t.sortKeys[column] == "" {
		return
	}
	t.view.CycleSort(t.sortKeys[column])
}

// SetSearch applies the search term, debounced so a fast typist doesn't
// re-filter on every keystroke.
func (t *entityTab[T]) SetSearch(term string) {
	if t.debounce == nil {
		t.view.SetSearch(term)
		return
	}
	t.debounce.Trigger(func() { t.view.SetSearch(term) })
}

// CycleCategory steps through the tab's categorical filter values. Tabs
// without categories ignore it.
func (t *entityTab[T]) CycleCategory() {
	if len(t.categories) == 0 {
		return
	}
	t.catIndex = (t.catIndex + 1) % len(t.categories)
	t.view.SetCategory(t.categories[t.catIndex])
}

func (t *entityTab[T]) NextPage()  { t.view.NextPage() }
func (t *entityTab[T]) PrevPage()  { t.view.PrevPage() }
func (t *entityTab[T]) FirstPage() { t.view.FirstPage() }
func (t *entityTab[T]) LastPage()  { t.view.LastPage() }

func (t *entityTab[T]) CyclePageSize() {
	current := t.view.Snapshot().PerPage
	for i, size := range dataview.PageSizes {
		if size == current {
			t.view.SetPerPage(dataview.PageSizes[(i+1)%len(dataview.PageSizes)])
			return
		}
	}
	t.view.SetPerPage(dataview.PageSizes[0])
}

func (t *entityTab[T]) Close() {
	if t.debounce != nil {
		t.debounce.Stop()
	}
}

// DeleteSelected removes the record behind the given row of the current page.
func (t *entityTab[T]) DeleteSelected(ctx context.Context, row int) error {
	snap := t.view.Snapshot()
	if row < 0 || row >= len(snap.Items) {
		return fmt.Errorf("no row selected")
	}
	id := t.view.ID(snap.Items[row])
	return t.view.Delete(ctx, id)
}
