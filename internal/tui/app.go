// Package tui is the interactive terminal dashboard. Each tab wraps one
// data view; all filtering, sorting, and paging happens locally against the
// last fetched collection.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/washboardhq/washboard/internal/api"
)

type loadedMsg struct {
	tab int
	err error
}

type deletedMsg struct {
	err error
}

// syncMsg asks for a table resync after a debounced search lands.
type syncMsg struct{}

// Model is the root dashboard model.
type Model struct {
	ctx    context.Context
	tabs   []tab
	active int

	table     table.Model
	search    textinput.Model
	searching bool

	sink     *toastSink
	toast    string
	toastErr bool

	keys   KeyMap
	width  int
	height int
}

// New builds the dashboard over an authenticated API client.
func New(ctx context.Context, client *api.Client, logger *zap.Logger) Model {
	sink := &toastSink{}

	search := textinput.New()
	search.Placeholder = "search..."
	search.CharLimit = 64

	tabs := []tab{
		newTransactionsTab(client, sink, logger),
		newServiceStatusTab(client, sink, logger),
		newCustomersTab(client, sink, logger),
		newUsersTab(client, sink, logger),
		newServicesTab(client, sink, logger),
	}

	t := table.New(
		table.WithColumns(tabs[0].Columns()),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	t.SetStyles(tableStyles())

	return Model{
		ctx:    ctx,
		tabs:   tabs,
		table:  t,
		search: search,
		sink:   sink,
		keys:   DefaultKeyMap(),
	}
}

// Init loads every tab's collection.
func (m Model) Init() tea.Cmd {
	cmds := make([]tea.Cmd, len(m.tabs))
	for i := range m.tabs {
		cmds[i] = m.loadCmd(i)
	}
	return tea.Batch(cmds...)
}

func (m Model) loadCmd(i int) tea.Cmd {
	t := m.tabs[i]
	ctx := m.ctx
	return func() tea.Msg {
		return loadedMsg{tab: i, err: t.Load(ctx)}
	}
}

func (m Model) deleteCmd(row int) tea.Cmd {
	t := m.tabs[m.active]
	ctx := m.ctx
	return func() tea.Msg {
		return deletedMsg{err: t.DeleteSelected(ctx, row)}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(max(4, msg.Height-8))
		m.syncTable()
		return m, nil

	case loadedMsg:
		m.takeToast()
		if msg.tab == m.active {
			m.syncTable()
		}
		return m, nil

	case deletedMsg:
		m.takeToast()
		m.syncTable()
		return m, nil

	case syncMsg:
		m.syncTable()
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.tabs[m.active].SetSearch("")
		return m, resyncAfterDebounce()
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.tabs[m.active].SetSearch(m.search.Value())
	return m, tea.Batch(cmd, resyncAfterDebounce())
}

// resyncAfterDebounce schedules a table resync just after the debounced
// search term lands in the view.
func resyncAfterDebounce() tea.Cmd {
	return tea.Tick(searchDebounce+50*time.Millisecond, func(time.Time) tea.Msg {
		return syncMsg{}
	})
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		for _, t := range m.tabs {
			t.Close()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.NextTab):
		m.switchTab((m.active + 1) % len(m.tabs))
		return m, nil

	case key.Matches(msg, m.keys.PrevTab):
		m.switchTab((m.active - 1 + len(m.tabs)) % len(m.tabs))
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.ClearSearch):
		m.search.SetValue("")
		m.tabs[m.active].SetSearch("")
		return m, resyncAfterDebounce()

	case key.Matches(msg, m.keys.NextPage):
		m.tabs[m.active].NextPage()
		m.syncTable()
		return m, nil

	case key.Matches(msg, m.keys.PrevPage):
		m.tabs[m.active].PrevPage()
		m.syncTable()
		return m, nil

	case key.Matches(msg, m.keys.FirstPage):
		m.tabs[m.active].FirstPage()
		m.syncTable()
		return m, nil

	case key.Matches(msg, m.keys.LastPage):
		m.tabs[m.active].LastPage()
		m.syncTable()
		return m, nil

	case key.Matches(msg, m.keys.PageSize):
		m.tabs[m.active].CyclePageSize()
		m.syncTable()
		return m, nil

	case key.Matches(msg, m.keys.Category):
		m.tabs[m.active].CycleCategory()
		m.syncTable()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadCmd(m.active)

	case key.Matches(msg, m.keys.Delete):
		return m, m.deleteCmd(m.table.Cursor())
	}

	// Digits cycle the sort on the matching column.
	if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		m.tabs[m.active].CycleSort(int(s[0] - '1'))
		m.syncTable()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) switchTab(i int) {
	m.active = i
	m.search.SetValue(m.tabs[i].Info().Search)
	m.table.SetColumns(m.tabs[i].Columns())
	m.syncTable()
	m.table.GotoTop()
}

func (m *Model) syncTable() {
	m.table.SetRows(m.tabs[m.active].Rows())
}

func (m *Model) takeToast() {
	if msg, isErr, ok := m.sink.Take(); ok {
		m.toast = msg
		m.toastErr = isErr
	}
}

// View renders the dashboard.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(m.renderFilterLine())
	b.WriteString("\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab switch • / search • f filter • 1-9 sort • n/p page • s size • x delete • r refresh • q quit"))
	return b.String()
}

func (m Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs)+1)
	parts = append(parts, titleStyle.Render("Washboard"))
	for i, t := range m.tabs {
		style := tabStyle
		if i == m.active {
			style = activeTabStyle
		}
		parts = append(parts, style.Render(t.Title()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, parts...)
}

func (m Model) renderFilterLine() string {
	if m.searching {
		return m.search.View()
	}

	info := m.tabs[m.active].Info()
	parts := []string{}
	if info.Search != "" {
		parts = append(parts, warningStyle.Render("search: "+info.Search))
	}
	if info.Category != "" && info.Category != "all" {
		parts = append(parts, warningStyle.Render("status: "+info.Category))
	}
	if info.SortKey != "" {
		dir := "asc"
		if info.SortDesc {
			dir = "desc"
		}
		parts = append(parts, infoStyle.Render(fmt.Sprintf("sort: %s %s", info.SortKey, dir)))
	}
	if len(parts) == 0 {
		return helpStyle.Render("no filters")
	}
	return strings.Join(parts, " • ")
}

func (m Model) renderStatus() string {
	info := m.tabs[m.active].Info()

	var state string
	switch {
	case info.Loading:
		state = infoStyle.Render("loading...")
	case info.Err != nil:
		state = errorToastStyle.Render("fetch failed: " + api.UserMessage(info.Err))
	case info.Filtered == 0:
		state = helpStyle.Render("no records")
	default:
		start := (info.Page-1)*info.PerPage + 1
		end := min(info.Page*info.PerPage, info.Filtered)
		state = paginationStyle.Render(fmt.Sprintf(
			"Page %d of %d • Items %d-%d of %d (total %d)",
			info.Page, info.TotalPages, start, end, info.Filtered, info.Total))
	}

	if m.toast != "" {
		style := successToastStyle
		if m.toastErr {
			style = errorToastStyle
		}
		state += "  " + style.Render(m.toast)
	}
	return state
}

// Run starts the dashboard program and blocks until exit.
func Run(ctx context.Context, client *api.Client, logger *zap.Logger) error {
	p := tea.NewProgram(New(ctx, client, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
