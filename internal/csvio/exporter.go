package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/curiocollect/curio/internal/model"
)

// exportHeader is the column order written by Export. It round-trips through
// the importer.
var exportHeader = []string{
	"kind", "title", "description", "notes", "quantity", "year", "creator",
	"category", "subcategory", "house", "room", "condition", "valuation",
	"currency", "isbn", "publisher", "album", "format", "material", "dimensions",
}

// Labels resolves taxonomy ids to display names for export. Ids without a
// known name are written as-is.
type Labels struct {
	categories    map[string]string
	subcategories map[string]string
	houses        map[string]string
	rooms         map[string]string // keyed house|room
}

// NewLabels builds a label table from the current taxonomies.
func NewLabels(categories []model.Category, houses []model.House) *Labels {
	l := &Labels{
		categories:    make(map[string]string),
		subcategories: make(map[string]string),
		houses:        make(map[string]string),
		rooms:         make(map[string]string),
	}
	for _, cat := range categories {
		l.categories[cat.ID] = cat.Name
		for _, sub := range cat.Subcategories {
			l.subcategories[sub.ID] = sub.Name
		}
	}
	for _, house := range houses {
		l.houses[house.ID] = house.Name
		for _, room := range house.Rooms {
			l.rooms[model.RoomKey(house.ID, room.ID)] = room.Name
		}
	}
	return l
}

func (l *Labels) resolve(table map[string]string, id string) string {
	if name, ok := table[id]; ok {
		return name
	}
	return id
}

// Exporter writes inventory CSV files.
type Exporter struct {
	labels *Labels
	ids    bool
}

// NewExporter creates an exporter that writes taxonomy display names.
// Pass ids=true to write raw ids instead, which re-import cleanly.
func NewExporter(labels *Labels, ids bool) *Exporter {
	return &Exporter{labels: labels, ids: ids}
}

// Export writes the given items as CSV rows. Callers filter and sort
// before exporting.
func (e *Exporter) Export(w io.Writer, items []model.Item) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(exportHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for i := range items {
		if err := writer.Write(e.row(&items[i])); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func (e *Exporter) row(item *model.Item) []string {
	category := item.CategoryID
	subcategory := item.SubcategoryID
	house := item.HouseID
	room := item.RoomID
	if !e.ids && e.labels != nil {
		category = e.labels.resolve(e.labels.categories, category)
		subcategory = e.labels.resolve(e.labels.subcategories, subcategory)
		house = e.labels.resolve(e.labels.houses, house)
		if name, ok := e.labels.rooms[item.RoomKey()]; ok {
			room = name
		}
	}

	valuation := ""
	if item.Valuation != nil {
		valuation = strconv.FormatFloat(*item.Valuation, 'f', -1, 64)
	}

	return []string{
		string(item.Kind), item.Title, item.Description, item.Notes,
		strconv.Itoa(item.Quantity), item.Year, item.Creator,
		category, subcategory, house, room, item.Condition,
		valuation, item.Currency,
		item.Attr("isbn"), item.Attr("publisher"), item.Attr("album"),
		item.Attr("format"), item.Attr("material"), item.Attr("dimensions"),
	}
}
