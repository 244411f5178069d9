package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curiocollect/curio/internal/model"
)

func testTaxonomy() ([]model.Category, []model.House) {
	categories := []model.Category{
		{
			ID: "furniture", Name: "Furniture", Visible: true,
			Subcategories: []model.Subcategory{
				{ID: "chairs", Visible: true},
				{ID: "tables", Visible: true},
			},
		},
		{
			ID: "art", Name: "Art", Visible: true,
			Subcategories: []model.Subcategory{
				{ID: "paintings", Visible: true},
			},
		},
	}
	houses := []model.House{
		{
			ID: "main-house", Name: "Main House", Visible: true,
			Rooms: []model.Room{
				{ID: "kitchen", Visible: true},
				{ID: "living-room", Visible: true},
			},
		},
		{
			ID: "summer-house", Name: "Summer House", Visible: true,
			Rooms: []model.Room{
				{ID: "living-room", Visible: true},
			},
		},
	}
	return categories, houses
}

func sortedIDs(items []model.Item) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

func TestSortByTitleCaseInsensitive(t *testing.T) {
	cats, houses := testTaxonomy()
	items := []model.Item{
		{ID: "a", Title: "zebra print"},
		{ID: "b", Title: "Armchair"},
		{ID: "c"}, // missing title sorts first ascending
	}

	got := Sort(items, FieldTitle, Ascending, cats, houses)
	assert.Equal(t, []string{"c", "b", "a"}, sortedIDs(got))

	got = Sort(items, FieldTitle, Descending, cats, houses)
	assert.Equal(t, []string{"a", "b", "c"}, sortedIDs(got))
}

func TestSortByValuationMissingAsZero(t *testing.T) {
	cats, houses := testTaxonomy()
	items := []model.Item{
		{ID: "a", Valuation: fv(250)},
		{ID: "b"},
		{ID: "c", Valuation: fv(10)},
	}

	got := Sort(items, FieldValuation, Ascending, cats, houses)
	assert.Equal(t, []string{"b", "c", "a"}, sortedIDs(got))
}

func TestSortByCategoryUsesTaxonomyOrder(t *testing.T) {
	cats, houses := testTaxonomy()

	// Furniture sits at index 0, so it sorts before art despite the
	// alphabetical order being the other way around.
	items := []model.Item{
		{ID: "a", CategoryID: "art", SubcategoryID: "paintings"},
		{ID: "b", CategoryID: "furniture", SubcategoryID: "chairs"},
	}

	got := Sort(items, FieldCategory, Ascending, cats, houses)
	assert.Equal(t, []string{"b", "a"}, sortedIDs(got))
}

func TestSortCategorySubcategoryOrderWithinParent(t *testing.T) {
	cats, houses := testTaxonomy()
	items := []model.Item{
		{ID: "a", CategoryID: "furniture", SubcategoryID: "tables"},
		{ID: "b", CategoryID: "furniture", SubcategoryID: "chairs"},
		{ID: "c", CategoryID: "unknown"},
	}

	got := Sort(items, FieldCategory, Ascending, cats, houses)
	assert.Equal(t, []string{"b", "a", "c"}, sortedIDs(got), "unmatched categories sort last")
}

func TestSortByLocation(t *testing.T) {
	cats, houses := testTaxonomy()

	t.Run("house then room index", func(t *testing.T) {
		items := []model.Item{
			{ID: "a", HouseID: "summer-house", RoomID: "living-room"},
			{ID: "b", HouseID: "main-house", RoomID: "living-room"},
			{ID: "c", HouseID: "main-house", RoomID: "kitchen"},
		}

		got := Sort(items, FieldLocation, Ascending, cats, houses)
		assert.Equal(t, []string{"c", "b", "a"}, sortedIDs(got))
	})

	t.Run("explicit override wins", func(t *testing.T) {
		override := 0
		items := []model.Item{
			{ID: "a", HouseID: "main-house", RoomID: "kitchen"},
			{ID: "b", HouseID: "summer-house", RoomID: "living-room", LocationSort: &override},
		}

		got := Sort(items, FieldLocation, Ascending, cats, houses)
		assert.Equal(t, []string{"b", "a"}, sortedIDs(got))
	})

	t.Run("unmatched house sorts last", func(t *testing.T) {
		items := []model.Item{
			{ID: "a", HouseID: "gone"},
			{ID: "b", HouseID: "summer-house", RoomID: "living-room"},
		}

		got := Sort(items, FieldLocation, Ascending, cats, houses)
		assert.Equal(t, []string{"b", "a"}, sortedIDs(got))
	})
}

func TestSortIsStableAndIdempotent(t *testing.T) {
	cats, houses := testTaxonomy()
	items := []model.Item{
		{ID: "a", Title: "Same"},
		{ID: "b", Title: "same"},
		{ID: "c", Title: "SAME"},
	}

	once := Sort(items, FieldTitle, Ascending, cats, houses)
	assert.Equal(t, []string{"a", "b", "c"}, sortedIDs(once), "equal keys keep input order")

	twice := Sort(once, FieldTitle, Ascending, cats, houses)
	assert.Equal(t, sortedIDs(once), sortedIDs(twice))
}

func TestSortDoesNotMutateInput(t *testing.T) {
	cats, houses := testTaxonomy()
	items := []model.Item{
		{ID: "a", Title: "B"},
		{ID: "b", Title: "A"},
	}

	_ = Sort(items, FieldTitle, Ascending, cats, houses)
	require.Equal(t, "a", items[0].ID)
}

func TestToggleDirection(t *testing.T) {
	assert.Equal(t, Descending, Toggle(FieldTitle, Ascending, FieldTitle))
	assert.Equal(t, Ascending, Toggle(FieldTitle, Descending, FieldTitle))
	assert.Equal(t, Ascending, Toggle(FieldTitle, Descending, FieldYear), "new field resets ascending")
}

func TestParseField(t *testing.T) {
	assert.Equal(t, FieldLocation, ParseField("Location"))
	assert.Equal(t, FieldTitle, ParseField("bogus"))
}
