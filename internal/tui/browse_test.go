package tui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curiocollect/curio/internal/model"
	"github.com/curiocollect/curio/internal/query"
	"github.com/curiocollect/curio/internal/settings"
)

func createTestModel(t *testing.T) (Model, *settings.Store) {
	t.Helper()
	prefs, err := settings.NewStore(filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, err)
	return NewModel(nil, prefs), prefs
}

func loadFixture(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(itemsLoadedMsg{items: []model.Item{
		{ID: "a", Title: "Amber Vase", Creator: "Unknown", Quantity: 1},
		{ID: "b", Title: "Dune", Creator: "Frank Herbert", Quantity: 1},
		{ID: "c", Title: "Gone", Quantity: 1, Deleted: true},
	}})
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestInitialSortFromSettings(t *testing.T) {
	prefs, err := settings.NewStore(filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, err)
	require.NoError(t, prefs.Update(func(s *settings.Settings) {
		s.SortField = "valuation"
		s.SortDirection = "desc"
	}))

	m := NewModel(nil, prefs)
	assert.Equal(t, query.FieldValuation, m.sortField)
	assert.Equal(t, query.Descending, m.sortDir)
}

func TestDeletedHiddenByDefault(t *testing.T) {
	m, _ := createTestModel(t)
	m = loadFixture(t, m)

	require.Len(t, m.visible, 2)

	next, _ := m.handleKey(keyPress('d'))
	m = next.(Model)
	assert.Len(t, m.visible, 3, "toggle reveals soft-deleted items")
}

func TestSearchFiltersRows(t *testing.T) {
	m, _ := createTestModel(t)
	m = loadFixture(t, m)

	next, _ := m.handleKey(keyPress('/'))
	m = next.(Model)
	require.True(t, m.searching)

	for _, r := range "herbert" {
		next, _ = m.handleKey(keyPress(r))
		m = next.(Model)
	}
	require.Len(t, m.visible, 1)
	assert.Equal(t, "b", m.visible[0].ID)

	// Enter leaves search mode but keeps the filter.
	next, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	assert.False(t, m.searching)
	assert.Len(t, m.visible, 1)

	// Esc clears it.
	next, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	assert.Len(t, m.visible, 2)
}

func TestSortCyclePersists(t *testing.T) {
	m, prefs := createTestModel(t)
	m = loadFixture(t, m)
	require.Equal(t, query.FieldTitle, m.sortField)

	next, _ := m.handleKey(keyPress('s'))
	m = next.(Model)
	assert.Equal(t, query.FieldCreator, m.sortField)
	assert.Equal(t, query.Ascending, m.sortDir)
	assert.Equal(t, "creator", prefs.Get().SortField)

	next, _ = m.handleKey(keyPress('S'))
	m = next.(Model)
	assert.Equal(t, query.Descending, m.sortDir)
	assert.Equal(t, "desc", prefs.Get().SortDirection)
}

func TestNextFieldWraps(t *testing.T) {
	assert.Equal(t, query.FieldCreator, nextField(query.FieldTitle))
	assert.Equal(t, query.FieldTitle, nextField(query.FieldLocation))
	assert.Equal(t, query.FieldTitle, nextField(query.Field("bogus")))
}
