package dataview

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrSubmitting is returned when a mutation is attempted while another
// submission from the same view is still in flight.
var ErrSubmitting = errors.New("submission already in progress")

// EntityAPI is the per-entity slice of the REST client a view mutates
// through. List always returns the full collection; the server does no
// filtering, sorting, or paging.
type EntityAPI[T any] interface {
	List(ctx context.Context) ([]T, error)
	Update(ctx context.Context, id int, record T) (T, error)
	Delete(ctx context.Context, id int) error
}

// Notifier is the notification sink for mutation outcomes (the toast layer
// in UI terms). Implementations must be safe for concurrent use.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Error(string)   {}

// View owns one page's collection and its filter, sort, and pagination
// state. All methods are safe for concurrent use.
type View[T any] struct {
	api     EntityAPI[T]
	schema  Schema[T]
	logger  *zap.Logger
	notify  Notifier
	errMsg  func(error) string
	limiter *rate.Limiter

	mu         sync.Mutex
	items      []T
	loading    bool
	lastErr    error
	fetchSeq   uint64
	filter     FilterState
	sort       SortState
	page       PageState
	submitting bool
}

// Option configures a View.
type Option[T any] func(*View[T])

// WithLogger sets the view's logger.
func WithLogger[T any](l *zap.Logger) Option[T] {
	return func(v *View[T]) { v.logger = l }
}

// WithNotifier sets the notification sink.
func WithNotifier[T any](n Notifier) Option[T] {
	return func(v *View[T]) { v.notify = n }
}

// WithPerPage sets the initial page size. Invalid sizes are ignored.
func WithPerPage[T any](n int) Option[T] {
	return func(v *View[T]) {
		if ValidPageSize(n) {
			v.page.PerPage = n
		}
	}
}

// WithErrorMessage sets the mapping from mutation errors to user-facing
// notification text. The default is err.Error().
func WithErrorMessage[T any](f func(error) string) Option[T] {
	return func(v *View[T]) { v.errMsg = f }
}

// WithRateLimit throttles refetches. The default limiter is unlimited.
func WithRateLimit[T any](l *rate.Limiter) Option[T] {
	return func(v *View[T]) { v.limiter = l }
}

// NewView creates a view over the given entity API. The collection starts
// empty; call Load to populate it.
func NewView[T any](api EntityAPI[T], schema Schema[T], opts ...Option[T]) *View[T] {
	v := &View[T]{
		api:     api,
		schema:  schema,
		logger:  zap.NewNop(),
		notify:  NopNotifier{},
		errMsg:  func(err error) string { return err.Error() },
		limiter: rate.NewLimiter(rate.Inf, 1),
		filter:  FilterState{Category: CategoryAll},
		page:    PageState{Page: 1, PerPage: 10},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ID returns the identity of an item under the view's schema.
func (v *View[T]) ID(item T) int { return v.schema.ID(item) }

// Load fetches the full collection and replaces the in-memory one. Each call
// is stamped with a monotonically increasing sequence number; a response
// belonging to a superseded fetch is discarded, so out-of-order responses
// cannot overwrite newer data. On failure the previous collection is kept
// and the error is exposed through Snapshot.
func (v *View[T]) Load(ctx context.Context) error {
	v.mu.Lock()
	v.fetchSeq++
	seq := v.fetchSeq
	v.loading = true
	v.mu.Unlock()

	items, err := v.fetch(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if seq != v.fetchSeq {
		// A newer fetch was issued while this one was in flight.
		v.logger.Debug("discarding stale fetch response", zap.Uint64("seq", seq))
		return nil
	}
	v.loading = false
	if err != nil {
		v.lastErr = err
		v.logger.Warn("collection fetch failed", zap.Error(err))
		return err
	}
	v.lastErr = nil
	v.items = items
	v.logger.Debug("collection loaded", zap.Int("count", len(items)))
	return nil
}

func (v *View[T]) fetch(ctx context.Context) ([]T, error) {
	if err := v.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return v.api.List(ctx)
}

// Update sends the edited record to the API. On success the returned record
// is patched into the collection immediately, a success notification is
// emitted, and a full refetch reconciles local state with the server. Only
// one mutation may be in flight per view.
func (v *View[T]) Update(ctx context.Context, id int, record T) error {
	if !v.beginSubmit() {
		return ErrSubmitting
	}
	defer v.endSubmit()

	updated, err := v.api.Update(ctx, id, record)
	if err != nil {
		v.notify.Error(v.errMsg(err))
		return err
	}
	v.patch(id, updated)
	v.notify.Success("changes saved")
	return v.Load(ctx)
}

// Delete removes the record with the given id. On success the record is
// dropped from the collection and a full refetch reconciles. Deleting an
// already-deleted id surfaces the API's failure path.
func (v *View[T]) Delete(ctx context.Context, id int) error {
	if !v.beginSubmit() {
		return ErrSubmitting
	}
	defer v.endSubmit()

	if err := v.api.Delete(ctx, id); err != nil {
		v.notify.Error(v.errMsg(err))
		return err
	}
	v.remove(id)
	v.notify.Success("record deleted")
	return v.Load(ctx)
}

func (v *View[T]) beginSubmit() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.submitting {
		return false
	}
	v.submitting = true
	return true
}

func (v *View[T]) endSubmit() {
	v.mu.Lock()
	v.submitting = false
	v.mu.Unlock()
}

func (v *View[T]) patch(id int, updated T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.items {
		if v.schema.ID(v.items[i]) == id {
			v.items[i] = updated
			return
		}
	}
}

func (v *View[T]) remove(id int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.items {
		if v.schema.ID(v.items[i]) == id {
			v.items = append(v.items[:i], v.items[i+1:]...)
			return
		}
	}
}

// SetSearch updates the text search term and resets to the first page.
func (v *View[T]) SetSearch(term string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.filter.Search == term {
		return
	}
	v.filter.Search = term
	v.page.Page = 1
}

// SetCategory updates the categorical filter and resets to the first page.
func (v *View[T]) SetCategory(category string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if category == "" {
		category = CategoryAll
	}
	if v.filter.Category == category {
		return
	}
	v.filter.Category = category
	v.page.Page = 1
}

// CycleSort advances the tri-state sort on key.
func (v *View[T]) CycleSort(key string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sort = v.sort.Cycle(key)
}

// SetPerPage changes the page size and resets to the first page. Sizes
// outside PageSizes are ignored.
func (v *View[T]) SetPerPage(n int) {
	if !ValidPageSize(n) {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.page.PerPage == n {
		return
	}
	v.page.PerPage = n
	v.page.Page = 1
}

// GoToPage moves to page n; a target outside [1, TotalPages] is a no-op.
func (v *View[T]) GoToPage(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if n < 1 || n > v.totalPagesLocked() {
		return
	}
	v.page.Page = n
}

// NextPage advances one page if one exists.
func (v *View[T]) NextPage() { v.step(1) }

// PrevPage steps back one page if one exists.
func (v *View[T]) PrevPage() { v.step(-1) }

// FirstPage jumps to page 1.
func (v *View[T]) FirstPage() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.totalPagesLocked() > 0 {
		v.page.Page = 1
	}
}

// LastPage jumps to the final page.
func (v *View[T]) LastPage() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if total := v.totalPagesLocked(); total > 0 {
		v.page.Page = total
	}
}

func (v *View[T]) step(delta int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	target := v.page.Page + delta
	if target < 1 || target > v.totalPagesLocked() {
		return
	}
	v.page.Page = target
}

func (v *View[T]) totalPagesLocked() int {
	filtered := Filter(v.items, v.schema, v.filter)
	return TotalPages(len(filtered), v.page.PerPage)
}

// Page is an immutable snapshot of the rendered view state.
type Page[T any] struct {
	Items      []T
	Page       int
	PerPage    int
	TotalPages int
	Filtered   int
	Total      int
	Window     []int
	Filter     FilterState
	Sort       SortState
	Loading    bool
	Err        error
	Submitting bool
}

// Snapshot derives the current page by running the collection through the
// filter, sort, and paginate stages.
func (v *View[T]) Snapshot() Page[T] {
	v.mu.Lock()
	defer v.mu.Unlock()

	filtered := Filter(v.items, v.schema, v.filter)
	sorted := Sort(filtered, v.schema, v.sort)
	total := TotalPages(len(sorted), v.page.PerPage)

	return Page[T]{
		Items:      Paginate(sorted, v.page.Page, v.page.PerPage),
		Page:       v.page.Page,
		PerPage:    v.page.PerPage,
		TotalPages: total,
		Filtered:   len(sorted),
		Total:      len(v.items),
		Window:     PageWindow(v.page.Page, total),
		Filter:     v.filter,
		Sort:       v.sort,
		Loading:    v.loading,
		Err:        v.lastErr,
		Submitting: v.submitting,
	}
}
