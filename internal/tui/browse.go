// Package tui implements the interactive inventory browser.
package tui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/curiocollect/curio/internal/cli"
	"github.com/curiocollect/curio/internal/model"
	"github.com/curiocollect/curio/internal/query"
	"github.com/curiocollect/curio/internal/service"
	"github.com/curiocollect/curio/internal/settings"
)

// sortCycle is the order CycleSort walks through.
var sortCycle = []query.Field{
	query.FieldTitle, query.FieldCreator, query.FieldCategory,
	query.FieldValuation, query.FieldYear, query.FieldLocation,
}

// Model holds the browser state.
type Model struct {
	storage    service.Storage
	settings   *settings.Store
	lastError  error
	catLabels  map[string]string
	roomLabels map[string]string
	keymap     KeyMap
	sortField  query.Field
	sortDir    query.Direction
	items      []model.Item
	categories []model.Category
	houses     []model.House
	visible    []model.Item
	table      table.Model
	search     textinput.Model
	width      int
	height     int
	showDel    bool
	searching  bool
	ready      bool
	quitting   bool
}

// NewModel creates a browser over the given storage. Sort preferences come
// from the settings store and are written back as the user changes them.
func NewModel(storage service.Storage, prefs *settings.Store) Model {
	search := textinput.New()
	search.Placeholder = "search title, creator, notes..."
	search.CharLimit = 80

	columns := []table.Column{
		{Title: "Title", Width: 32},
		{Title: "Creator", Width: 20},
		{Title: "Year", Width: 6},
		{Title: "Category", Width: 16},
		{Title: "Location", Width: 22},
		{Title: "Value", Width: 12},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(cli.PrimaryColor)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("229")).Background(cli.SubtleColor)
	t.SetStyles(styles)

	current := prefs.Get()
	return Model{
		storage:   storage,
		settings:  prefs,
		keymap:    DefaultKeyMap(),
		table:     t,
		search:    search,
		sortField: query.ParseField(current.SortField),
		sortDir:   parseDirection(current.SortDirection),
	}
}

func parseDirection(s string) query.Direction {
	if s == string(query.Descending) {
		return query.Descending
	}
	return query.Ascending
}

// Init starts the initial data loads.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tea.EnterAltScreen, m.loadItems(), m.loadTaxonomy())
}

func (m Model) loadItems() tea.Cmd {
	return func() tea.Msg {
		items, err := m.storage.GetItems(context.Background())
		return itemsLoadedMsg{items: items, err: err}
	}
}

func (m Model) loadTaxonomy() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		categories, err := m.storage.GetCategories(ctx)
		if err != nil {
			return taxonomyLoadedMsg{err: err}
		}
		houses, err := m.storage.GetHouses(ctx)
		return taxonomyLoadedMsg{categories: categories, houses: houses, err: err}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(msg.Height - 4)
		return m, nil

	case itemsLoadedMsg:
		if msg.err != nil {
			m.lastError = msg.err
			return m, nil
		}
		m.items = msg.items
		m.ready = true
		m.refresh()
		return m, nil

	case taxonomyLoadedMsg:
		if msg.err != nil {
			m.lastError = msg.err
			return m, nil
		}
		m.categories = msg.categories
		m.houses = msg.houses
		m.buildLabels()
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch {
		case msg.Type == tea.KeyEnter:
			m.searching = false
			m.search.Blur()
			return m, nil
		case key.Matches(msg, m.keymap.ClearSearch):
			m.searching = false
			m.search.SetValue("")
			m.search.Blur()
			m.refresh()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.refresh()
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Search):
		m.searching = true
		return m, m.search.Focus()

	case key.Matches(msg, m.keymap.ClearSearch):
		m.search.SetValue("")
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keymap.CycleSort):
		m.setSort(nextField(m.sortField), query.Ascending)
		return m, nil

	case key.Matches(msg, m.keymap.FlipDirection):
		m.setSort(m.sortField, query.Toggle(m.sortField, m.sortDir, m.sortField))
		return m, nil

	case key.Matches(msg, m.keymap.ToggleDeleted):
		m.showDel = !m.showDel
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keymap.Refresh):
		return m, tea.Batch(m.loadItems(), m.loadTaxonomy())
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func nextField(current query.Field) query.Field {
	for i, f := range sortCycle {
		if f == current {
			return sortCycle[(i+1)%len(sortCycle)]
		}
	}
	return query.FieldTitle
}

func (m *Model) setSort(field query.Field, dir query.Direction) {
	m.sortField = field
	m.sortDir = dir
	if err := m.settings.Update(func(s *settings.Settings) {
		s.SortField = string(field)
		s.SortDirection = string(dir)
	}); err != nil {
		m.lastError = err
	}
	m.refresh()
}

func (m *Model) buildLabels() {
	m.catLabels = make(map[string]string)
	for _, cat := range m.categories {
		m.catLabels[cat.ID] = cat.Name
	}
	m.roomLabels = make(map[string]string)
	for _, house := range m.houses {
		for _, room := range house.Rooms {
			m.roomLabels[model.RoomKey(house.ID, room.ID)] = house.Name + " / " + room.Name
		}
	}
}

// refresh recomputes the visible rows from the full item set, the active
// search text, and the sort preferences.
func (m *Model) refresh() {
	criteria := query.Criteria{
		Search:         m.search.Value(),
		IncludeDeleted: m.showDel,
	}
	filtered := query.Filter(m.items, criteria)
	m.visible = query.Sort(filtered, m.sortField, m.sortDir, m.categories, m.houses)

	rows := make([]table.Row, len(m.visible))
	for i := range m.visible {
		rows[i] = m.row(&m.visible[i])
	}
	m.table.SetRows(rows)
}

func (m *Model) row(item *model.Item) table.Row {
	category := m.catLabels[item.CategoryID]
	if category == "" {
		category = item.CategoryID
	}
	location := m.roomLabels[item.RoomKey()]
	if location == "" {
		location = item.HouseID
	}

	value := ""
	if item.Valuation != nil {
		value = strconv.FormatFloat(*item.Valuation, 'f', 2, 64) + " " + item.Currency
	}

	title := item.Title
	if item.Deleted {
		title = cli.SubtleStyle.Render(title + " (deleted)")
	}
	return table.Row{title, item.Creator, item.Year, category, location, value}
}

// View renders the browser.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return cli.InfoStyle.Render("loading inventory...")
	}

	header := cli.TitleStyle.Render("curio") + "  " + m.search.View()
	status := fmt.Sprintf("%d items · sort %s %s · / search · s sort · q quit",
		len(m.visible), m.sortField, m.sortDir)
	if m.lastError != nil {
		status = cli.FormatError(m.lastError.Error())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.table.View(),
		cli.SubtleStyle.Render(status),
	)
}
