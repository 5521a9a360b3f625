package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/washboardhq/washboard/internal/dataview"
)

type stubRecord struct {
	ID   int
	Name string
}

type stubAPI struct{ items []stubRecord }

func (s stubAPI) List(ctx context.Context) ([]stubRecord, error) { return s.items, nil }
func (s stubAPI) Update(ctx context.Context, id int, r stubRecord) (stubRecord, error) {
	return r, nil
}
func (s stubAPI) Delete(ctx context.Context, id int) error { return nil }

func newStubTab(t *testing.T, delay time.Duration) *entityTab[stubRecord] {
	t.Helper()
	view := dataview.NewView(
		stubAPI{items: []stubRecord{{ID: 1, Name: "wash"}}},
		dataview.Schema[stubRecord]{
			ID:           func(r stubRecord) int { return r.ID },
			SearchFields: []func(stubRecord) string{func(r stubRecord) string { return r.Name }},
		})
	require.NoError(t, view.Load(context.Background()))
	return &entityTab[stubRecord]{
		title:    "Stub",
		view:     view,
		debounce: dataview.NewDebouncer(delay),
	}
}

func Test_TabClose(t *testing.T) {
	t.Run("Should drop a pending debounced search", func(t *testing.T) {
		tab := newStubTab(t, 30*time.Millisecond)
		tab.SetSearch("wash")
		tab.Close()

		time.Sleep(90 * time.Millisecond)
		assert.Empty(t, tab.Info().Search)
	})

	t.Run("Should be safe after the debounce already fired", func(t *testing.T) {
		tab := newStubTab(t, 5*time.Millisecond)
		tab.SetSearch("wash")

		time.Sleep(50 * time.Millisecond)
		tab.Close()
		assert.Equal(t, "wash", tab.Info().Search)
	})
}

func Test_QuitClosesTabs(t *testing.T) {
	t.Run("Should cancel pending searches on quit", func(t *testing.T) {
		stub := newStubTab(t, 30*time.Millisecond)
		m := Model{tabs: []tab{stub}, keys: DefaultKeyMap()}
		stub.SetSearch("wash")

		_, cmd := m.updateKeys(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
		require.NotNil(t, cmd)

		time.Sleep(90 * time.Millisecond)
		assert.Empty(t, stub.Info().Search)
	})
}
