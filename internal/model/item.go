// Package model defines the core domain types for the collection inventory.
package model

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"
)

// Kind identifies which collection an item belongs to.
type Kind string

const (
	// KindDecor represents art and decor items.
	KindDecor Kind = "decor"
	// KindBook represents books.
	KindBook Kind = "book"
	// KindMusic represents music records and media.
	KindMusic Kind = "music"
)

// Item represents a single inventory item from any collection.
//
// Variant-specific attributes (ISBN, album, material, ...) live in Attrs;
// the fields every view needs, creator and year, are resolved once at
// ingestion so filtering and sorting never have to sniff the variant again.
type Item struct {
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	Attrs         map[string]string `json:"attrs,omitempty"`
	ID            string            `json:"id"`
	Kind          Kind              `json:"kind"`
	Title         string            `json:"title"`
	Description   string            `json:"description,omitempty"`
	Notes         string            `json:"notes,omitempty"`
	Year          string            `json:"year,omitempty"`    // resolved: yearPeriod / publicationYear / releaseYear
	Creator       string            `json:"creator,omitempty"` // resolved: artist / author
	CategoryID    string            `json:"category,omitempty"`
	SubcategoryID string            `json:"subcategory,omitempty"`
	HouseID       string            `json:"house,omitempty"`
	RoomID        string            `json:"room,omitempty"`
	Condition     string            `json:"condition,omitempty"`
	Currency      string            `json:"currency,omitempty"`
	Valuation     *float64          `json:"valuation,omitempty"`
	LocationSort  *int              `json:"location_sort,omitempty"`
	Quantity      int               `json:"quantity"`
	Version       int               `json:"version"`
	Deleted       bool              `json:"deleted,omitempty"`
}

// RoomKey returns the composite house|room key used for room filtering.
// Room ids are only unique within a house, so the pairing must be kept.
func (i *Item) RoomKey() string {
	return RoomKey(i.HouseID, i.RoomID)
}

// RoomKey builds the composite key for a house/room pair.
func RoomKey(houseID, roomID string) string {
	return houseID + "|" + roomID
}

// HasValuation reports whether the item carries a usable valuation.
func (i *Item) HasValuation() bool {
	return i.Valuation != nil
}

// ValuationOrZero returns the valuation, or 0 when none is set.
func (i *Item) ValuationOrZero() float64 {
	if i.Valuation == nil {
		return 0
	}
	return *i.Valuation
}

// GenerateHash creates a content hash for import deduplication.
func (i *Item) GenerateHash() string {
	data := fmt.Sprintf("%s:%s:%s:%s:%s:%s",
		i.Kind, i.Title, i.Creator, i.Year, i.HouseID, i.RoomID)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// Attr returns a variant attribute by name, or "" when absent.
func (i *Item) Attr(name string) string {
	if i.Attrs == nil {
		return ""
	}
	return i.Attrs[name]
}

// SetAttr records a variant attribute, allocating the map on first use.
func (i *Item) SetAttr(name, value string) {
	if value == "" {
		return
	}
	if i.Attrs == nil {
		i.Attrs = make(map[string]string)
	}
	i.Attrs[name] = value
}

// DetectKind infers the collection from variant attributes. Rows that predate
// the explicit kind tag carry only their variant fields, so this runs once at
// ingestion and the result is stored on the item.
func DetectKind(attrs map[string]string) Kind {
	if attrs["isbn"] != "" || attrs["publisher"] != "" || attrs["publication_year"] != "" {
		return KindBook
	}
	if attrs["album"] != "" || attrs["format"] != "" || attrs["label"] != "" {
		return KindMusic
	}
	return KindDecor
}

// ParseKind converts a string to a Kind, defaulting unknown values to decor.
func ParseKind(s string) Kind {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindBook:
		return KindBook
	case KindMusic:
		return KindMusic
	default:
		return KindDecor
	}
}
