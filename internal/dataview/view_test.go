package dataview

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listResult struct {
	items []record
	err   error
}

// fakeAPI serves canned List responses in order, optionally blocking each
// call until released, so tests can interleave in-flight fetches.
type fakeAPI struct {
	mu        sync.Mutex
	responses []listResult
	gates     []chan struct{}
	listCalls int

	updateErr error
	deleteErr error
	updated   []record
	deleted   []int
}

func (f *fakeAPI) List(ctx context.Context) ([]record, error) {
	f.mu.Lock()
	call := f.listCalls
	f.listCalls++
	var gate chan struct{}
	if call < len(f.gates) {
		gate = f.gates[call]
	}
	var res listResult
	if call < len(f.responses) {
		res = f.responses[call]
	} else if len(f.responses) > 0 {
		res = f.responses[len(f.responses)-1]
	}
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return res.items, res.err
}

func (f *fakeAPI) Update(ctx context.Context, id int, r record) (record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return record{}, f.updateErr
	}
	r.ID = id
	f.updated = append(f.updated, r)
	return r, nil
}

func (f *fakeAPI) Delete(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAPI) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

type recordNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, msg)
}

func (n *recordNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, msg)
}

func Test_ViewLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("Should populate the collection", func(t *testing.T) {
		api := &fakeAPI{responses: []listResult{{items: sampleRecords()}}}
		v := NewView[record](api, testSchema())

		require.NoError(t, v.Load(ctx))

		snap := v.Snapshot()
		assert.Equal(t, 4, snap.Total)
		assert.False(t, snap.Loading)
		assert.NoError(t, snap.Err)
	})

	t.Run("Should keep the previous collection on fetch failure", func(t *testing.T) {
		api := &fakeAPI{responses: []listResult{
			{items: sampleRecords()},
			{err: errors.New("boom")},
		}}
		v := NewView[record](api, testSchema())

		require.NoError(t, v.Load(ctx))
		require.Error(t, v.Load(ctx))

		snap := v.Snapshot()
		assert.Equal(t, 4, snap.Total)
		assert.Error(t, snap.Err)
	})

	t.Run("Should clear the error on the next successful fetch", func(t *testing.T) {
		api := &fakeAPI{responses: []listResult{
			{err: errors.New("boom")},
			{items: sampleRecords()},
		}}
		v := NewView[record](api, testSchema())

		require.Error(t, v.Load(ctx))
		require.NoError(t, v.Load(ctx))
		assert.NoError(t, v.Snapshot().Err)
	})

	t.Run("Should discard a stale response that lands after a newer fetch", func(t *testing.T) {
		stale := []record{{ID: 1, Name: "Stale"}}
		fresh := []record{{ID: 2, Name: "Fresh"}, {ID: 3, Name: "Also Fresh"}}

		gate := make(chan struct{})
		api := &fakeAPI{
			responses: []listResult{{items: stale}, {items: fresh}},
			gates:     []chan struct{}{gate, nil},
		}
		v := NewView[record](api, testSchema())

		done := make(chan error, 1)
		go func() { done <- v.Load(ctx) }()

		// The second fetch supersedes the first while it is blocked.
		require.Eventually(t, func() bool { return api.calls() == 1 },
			time.Second, 5*time.Millisecond)
		require.NoError(t, v.Load(ctx))

		close(gate)
		require.NoError(t, <-done)

		snap := v.Snapshot()
		assert.Equal(t, 2, snap.Total)
		assert.Equal(t, "Fresh", snap.Items[0].Name)
	})
}

func Test_ViewMutations(t *testing.T) {
	ctx := context.Background()

	t.Run("Should patch the collection and refetch after update", func(t *testing.T) {
		api := &fakeAPI{responses: []listResult{{items: sampleRecords()}}}
		notify := &recordNotifier{}
		v := NewView[record](api, testSchema(), WithNotifier[record](notify))
		require.NoError(t, v.Load(ctx))

		edited := record{Name: "John Renamed", Status: "pending"}
		require.NoError(t, v.Update(ctx, 1, edited))

		assert.Equal(t, 2, api.calls())
		assert.Equal(t, []string{"changes saved"}, notify.successes)

		snap := v.Snapshot()
		assert.Equal(t, 4, snap.Total)
	})

	t.Run("Should notify and skip refetch on update failure", func(t *testing.T) {
		api := &fakeAPI{
			responses: []listResult{{items: sampleRecords()}},
			updateErr: errors.New("validation failed"),
		}
		notify := &recordNotifier{}
		v := NewView[record](api, testSchema(), WithNotifier[record](notify))
		require.NoError(t, v.Load(ctx))

		err := v.Update(ctx, 1, record{})
		require.Error(t, err)
		assert.Equal(t, 1, api.calls())
		assert.Equal(t, []string{"validation failed"}, notify.errors)
		assert.Empty(t, notify.successes)
	})

	t.Run("Should remove the record and refetch after delete", func(t *testing.T) {
		api := &fakeAPI{responses: []listResult{{items: sampleRecords()}}}
		notify := &recordNotifier{}
		v := NewView[record](api, testSchema(), WithNotifier[record](notify))
		require.NoError(t, v.Load(ctx))

		require.NoError(t, v.Delete(ctx, 2))
		assert.Equal(t, []int{2}, api.deleted)
		assert.Equal(t, 2, api.calls())
		assert.Equal(t, []string{"record deleted"}, notify.successes)
	})

	t.Run("Should surface the failure when deleting an already-deleted id", func(t *testing.T) {
		api := &fakeAPI{
			responses: []listResult{{items: sampleRecords()}},
			deleteErr: errors.New("not found"),
		}
		notify := &recordNotifier{}
		v := NewView[record](api, testSchema(), WithNotifier[record](notify))
		require.NoError(t, v.Load(ctx))

		require.Error(t, v.Delete(ctx, 999))
		assert.Equal(t, []string{"not found"}, notify.errors)
		assert.Equal(t, 4, v.Snapshot().Total)
	})

	t.Run("Should reject a second mutation while one is in flight", func(t *testing.T) {
		// Block the reconciling refetch so the first Update holds the gate.
		gate := make(chan struct{})
		api := &fakeAPI{
			responses: []listResult{{items: sampleRecords()}, {items: sampleRecords()}},
			gates:     []chan struct{}{nil, gate},
		}
		v := NewView[record](api, testSchema())
		require.NoError(t, v.Load(ctx))

		done := make(chan error, 1)
		go func() { done <- v.Update(ctx, 1, record{Name: "slow"}) }()

		require.Eventually(t, func() bool { return v.Snapshot().Submitting },
			time.Second, 5*time.Millisecond)

		assert.ErrorIs(t, v.Update(ctx, 2, record{Name: "fast"}), ErrSubmitting)
		assert.ErrorIs(t, v.Delete(ctx, 3), ErrSubmitting)

		close(gate)
		require.NoError(t, <-done)
		assert.False(t, v.Snapshot().Submitting)
	})

	t.Run("Should map mutation errors through the configured message func", func(t *testing.T) {
		api := &fakeAPI{
			responses: []listResult{{items: sampleRecords()}},
			updateErr: errors.New("raw"),
		}
		notify := &recordNotifier{}
		v := NewView[record](api, testSchema(),
			WithNotifier[record](notify),
			WithErrorMessage[record](func(error) string { return "friendly message" }),
		)
		require.NoError(t, v.Load(ctx))

		require.Error(t, v.Update(ctx, 1, record{}))
		assert.Equal(t, []string{"friendly message"}, notify.errors)
	})
}

func Test_ViewNavigation(t *testing.T) {
	ctx := context.Background()

	manyRecords := func(n int) []record {
		out := make([]record, n)
		for i := range out {
			out[i] = record{ID: i + 1, Name: "r", Status: "pending"}
		}
		return out
	}

	newLoaded := func(t *testing.T, n int) *View[record] {
		t.Helper()
		api := &fakeAPI{responses: []listResult{{items: manyRecords(n)}}}
		v := NewView[record](api, testSchema())
		require.NoError(t, v.Load(ctx))
		return v
	}

	t.Run("Should split twelve records into two pages of ten and two", func(t *testing.T) {
		v := newLoaded(t, 12)
		snap := v.Snapshot()
		assert.Equal(t, 2, snap.TotalPages)
		assert.Len(t, snap.Items, 10)

		v.NextPage()
		snap = v.Snapshot()
		assert.Equal(t, 2, snap.Page)
		assert.Len(t, snap.Items, 2)
	})

	t.Run("Should ignore steps outside the page range", func(t *testing.T) {
		v := newLoaded(t, 12)
		v.PrevPage()
		assert.Equal(t, 1, v.Snapshot().Page)

		v.GoToPage(99)
		assert.Equal(t, 1, v.Snapshot().Page)

		v.LastPage()
		assert.Equal(t, 2, v.Snapshot().Page)
		v.NextPage()
		assert.Equal(t, 2, v.Snapshot().Page)
	})

	t.Run("Should reset to page one when the search term changes", func(t *testing.T) {
		v := newLoaded(t, 30)
		v.GoToPage(3)
		require.Equal(t, 3, v.Snapshot().Page)

		v.SetSearch("r")
		assert.Equal(t, 1, v.Snapshot().Page)
	})

	t.Run("Should reset to page one when the category changes", func(t *testing.T) {
		v := newLoaded(t, 30)
		v.GoToPage(2)
		v.SetCategory("pending")
		assert.Equal(t, 1, v.Snapshot().Page)
	})

	t.Run("Should reset to page one when the page size changes", func(t *testing.T) {
		v := newLoaded(t, 30)
		v.GoToPage(3)
		v.SetPerPage(20)
		snap := v.Snapshot()
		assert.Equal(t, 1, snap.Page)
		assert.Equal(t, 20, snap.PerPage)
	})

	t.Run("Should not reset the page when the same value is set again", func(t *testing.T) {
		v := newLoaded(t, 30)
		v.SetSearch("r")
		v.GoToPage(2)
		v.SetSearch("r")
		assert.Equal(t, 2, v.Snapshot().Page)
	})

	t.Run("Should ignore page sizes outside the selectable set", func(t *testing.T) {
		v := newLoaded(t, 30)
		v.SetPerPage(7)
		assert.Equal(t, 10, v.Snapshot().PerPage)
	})

	t.Run("Should expose the page window", func(t *testing.T) {
		v := newLoaded(t, 50)
		v.SetPerPage(5)
		v.GoToPage(5)
		assert.Equal(t, []int{3, 4, 5, 6, 7}, v.Snapshot().Window)
	})
}
