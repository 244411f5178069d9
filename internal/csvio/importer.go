// Package csvio reads and writes the flat CSV interchange format for
// inventory items.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/curiocollect/curio/internal/common"
	"github.com/curiocollect/curio/internal/model"
)

// attrColumns are the variant-specific columns recognized on import. Values
// land in Item.Attrs; the kind is resolved once from them when the file has
// no explicit kind column.
var attrColumns = []string{
	"isbn", "publisher", "publication_year", "album", "format", "label",
	"material", "dimensions", "genre",
}

// Importer parses inventory CSV files.
type Importer struct{}

// NewImporter creates a new CSV importer.
func NewImporter() *Importer {
	return &Importer{}
}

// Parse reads a header-driven CSV stream into items. Unknown columns are
// ignored; rows missing a title are skipped with a warning rather than
// failing the whole file.
func (im *Importer) Parse(r io.Reader) ([]model.Item, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := cols["title"]; !ok {
		return nil, fmt.Errorf("%w: missing title column", common.ErrBadHeader)
	}

	var items []model.Item
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read csv line %d: %w", line, err)
		}

		field := func(name string) string {
			if i, ok := cols[name]; ok && i < len(record) {
				return strings.TrimSpace(record[i])
			}
			return ""
		}

		title := field("title")
		if title == "" {
			slog.Warn("skipping row without title", "line", line)
			continue
		}

		item := model.Item{
			ID:            uuid.NewString(),
			Title:         title,
			Description:   field("description"),
			Notes:         field("notes"),
			Year:          field("year"),
			Creator:       field("creator"),
			CategoryID:    field("category"),
			SubcategoryID: field("subcategory"),
			HouseID:       field("house"),
			RoomID:        field("room"),
			Condition:     field("condition"),
			Currency:      strings.ToUpper(field("currency")),
			Quantity:      1,
		}

		if q := field("quantity"); q != "" {
			n, err := strconv.Atoi(q)
			if err != nil {
				return nil, fmt.Errorf("invalid quantity %q on line %d: %w", q, line, err)
			}
			item.Quantity = n
		}

		if v := field("valuation"); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid valuation %q on line %d: %w", v, line, err)
			}
			item.Valuation = &f
		}

		for _, name := range attrColumns {
			item.SetAttr(name, field(name))
		}

		if kind := field("kind"); kind != "" {
			item.Kind = model.ParseKind(kind)
		} else {
			item.Kind = model.DetectKind(item.Attrs)
		}

		items = append(items, item)
	}

	return items, nil
}
