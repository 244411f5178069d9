package query

import (
	"sort"
	"strings"

	"github.com/curiocollect/curio/internal/model"
)

// Field names a sortable item attribute.
type Field string

// Sortable fields.
const (
	FieldTitle     Field = "title"
	FieldCreator   Field = "creator"
	FieldCategory  Field = "category"
	FieldValuation Field = "valuation"
	FieldYear      Field = "year"
	FieldLocation  Field = "location"
)

// Direction is the sort order.
type Direction string

// Sort directions.
const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// unmatchedIndex is the sentinel position for category/house/room ids that
// are not present in the taxonomy; it places them after every known entry.
const unmatchedIndex = 999

// ParseField returns the field for a name, defaulting to title.
func ParseField(s string) Field {
	switch Field(strings.ToLower(s)) {
	case FieldCreator, FieldCategory, FieldValuation, FieldYear, FieldLocation:
		return Field(strings.ToLower(s))
	default:
		return FieldTitle
	}
}

// Toggle returns the direction after selecting a field: picking the current
// field flips the direction, picking a new field resets to ascending.
func Toggle(current Field, currentDir Direction, next Field) Direction {
	if current == next {
		if currentDir == Ascending {
			return Descending
		}
		return Ascending
	}
	return Ascending
}

// Sort orders a copy of items by the given field. Category and location
// resolve to taxonomy positions rather than lexical order. The sort is
// explicitly stable so equal keys keep their input order.
func Sort(items []model.Item, field Field, dir Direction, categories []model.Category, houses []model.House) []model.Item {
	out := make([]model.Item, len(items))
	copy(out, items)

	less := lessFunc(field, categories, houses)
	sort.SliceStable(out, func(i, j int) bool {
		if dir == Descending {
			return less(&out[j], &out[i])
		}
		return less(&out[i], &out[j])
	})
	return out
}

func lessFunc(field Field, categories []model.Category, houses []model.House) func(a, b *model.Item) bool {
	switch field {
	case FieldCreator:
		return func(a, b *model.Item) bool {
			return strings.ToLower(a.Creator) < strings.ToLower(b.Creator)
		}
	case FieldValuation:
		return func(a, b *model.Item) bool {
			return a.ValuationOrZero() < b.ValuationOrZero()
		}
	case FieldYear:
		return func(a, b *model.Item) bool {
			return a.Year < b.Year
		}
	case FieldCategory:
		return func(a, b *model.Item) bool {
			return categoryRank(a, categories) < categoryRank(b, categories)
		}
	case FieldLocation:
		return func(a, b *model.Item) bool {
			return locationRank(a, houses) < locationRank(b, houses)
		}
	default:
		return func(a, b *model.Item) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	}
}

// categoryRank maps an item onto the taxonomy-defined order:
// categoryIndex*1000 + subcategoryIndex, with unmatched ids resolving to the
// sentinel index so they sort after all known entries.
func categoryRank(item *model.Item, categories []model.Category) int {
	catIdx, subIdx := unmatchedIndex, unmatchedIndex
	for i, cat := range categories {
		if cat.ID != item.CategoryID {
			continue
		}
		catIdx = i
		for j, sub := range cat.Subcategories {
			if sub.ID == item.SubcategoryID {
				subIdx = j
				break
			}
		}
		break
	}
	return catIdx*1000 + subIdx
}

// locationRank mirrors categoryRank for houses and rooms. An explicit
// per-item LocationSort override wins over the computed index entirely.
func locationRank(item *model.Item, houses []model.House) int {
	if item.LocationSort != nil {
		return *item.LocationSort
	}

	houseIdx, roomIdx := unmatchedIndex, unmatchedIndex
	for i, house := range houses {
		if house.ID != item.HouseID {
			continue
		}
		houseIdx = i
		for j, room := range house.Rooms {
			if room.ID == item.RoomID {
				roomIdx = j
				break
			}
		}
		break
	}
	return houseIdx*1000 + roomIdx
}
