// Package query implements the in-memory filtering and sorting engine that
// every collection view runs on.
package query

import (
	"strings"

	"github.com/curiocollect/curio/internal/model"
)

// Criteria holds one value per filter dimension. A zero value for a
// dimension means "match everything" for that dimension; the dimensions are
// combined with logical AND.
type Criteria struct {
	Search         string
	Year           string
	Creator        string
	Condition      string
	Currency       string
	Categories     []string
	Subcategories  []string
	Houses         []string
	Rooms          []string // composite house|room keys
	MinValuation   *float64
	MaxValuation   *float64
	IncludeDeleted bool
}

// Empty reports whether no dimension is active. Deleted items are still
// excluded when the criteria are empty.
func (c Criteria) Empty() bool {
	return c.Search == "" && c.Year == "" && c.Creator == "" &&
		c.Condition == "" && c.Currency == "" &&
		len(c.Categories) == 0 && len(c.Subcategories) == 0 &&
		len(c.Houses) == 0 && len(c.Rooms) == 0 &&
		c.MinValuation == nil && c.MaxValuation == nil
}

// Merge overlays pinned criteria onto c: set dimensions from pinned replace
// the corresponding user dimensions. Route-pinned filters behave exactly
// like user selections once merged.
func (c Criteria) Merge(pinned Criteria) Criteria {
	out := c
	if pinned.Search != "" {
		out.Search = pinned.Search
	}
	if pinned.Year != "" {
		out.Year = pinned.Year
	}
	if pinned.Creator != "" {
		out.Creator = pinned.Creator
	}
	if pinned.Condition != "" {
		out.Condition = pinned.Condition
	}
	if pinned.Currency != "" {
		out.Currency = pinned.Currency
	}
	if len(pinned.Categories) > 0 {
		out.Categories = pinned.Categories
	}
	if len(pinned.Subcategories) > 0 {
		out.Subcategories = pinned.Subcategories
	}
	if len(pinned.Houses) > 0 {
		out.Houses = pinned.Houses
	}
	if len(pinned.Rooms) > 0 {
		out.Rooms = pinned.Rooms
	}
	if pinned.MinValuation != nil {
		out.MinValuation = pinned.MinValuation
	}
	if pinned.MaxValuation != nil {
		out.MaxValuation = pinned.MaxValuation
	}
	return out
}

// Filter returns the items matching all active criteria, in input order.
// The input slice is never mutated.
func Filter(items []model.Item, c Criteria) []model.Item {
	out := make([]model.Item, 0, len(items))
	for _, item := range items {
		if c.Match(&item) {
			out = append(out, item)
		}
	}
	return out
}

// Match reports whether a single item satisfies every active dimension.
func (c Criteria) Match(item *model.Item) bool {
	if item.Deleted && !c.IncludeDeleted {
		return false
	}
	if !matchSearch(item, c.Search) {
		return false
	}
	if !matchSet(c.Categories, item.CategoryID) {
		return false
	}
	if !matchSet(c.Subcategories, item.SubcategoryID) {
		return false
	}
	if !matchSet(c.Houses, item.HouseID) {
		return false
	}
	if !matchSet(c.Rooms, item.RoomKey()) {
		return false
	}
	if c.Year != "" && item.Year != c.Year {
		return false
	}
	if c.Creator != "" && !strings.EqualFold(item.Creator, c.Creator) {
		return false
	}
	if c.Condition != "" && item.Condition != c.Condition {
		return false
	}
	if c.Currency != "" && item.Currency != c.Currency {
		return false
	}
	return matchValuation(item, c.MinValuation, c.MaxValuation)
}

// matchSearch is a case-insensitive substring match, OR across the four
// searchable fields.
func matchSearch(item *model.Item, search string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	for _, field := range []string{item.Title, item.Description, item.Notes, item.Creator} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// matchSet treats an empty selection as match-all.
func matchSet(selected []string, value string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, s := range selected {
		if s == value {
			return true
		}
	}
	return false
}

// matchValuation applies inclusive bounds. An item without a valuation fails
// any active bound check; it never slips through a max-only filter.
func matchValuation(item *model.Item, minVal, maxVal *float64) bool {
	if minVal == nil && maxVal == nil {
		return true
	}
	if item.Valuation == nil {
		return false
	}
	if minVal != nil && *item.Valuation < *minVal {
		return false
	}
	if maxVal != nil && *item.Valuation > *maxVal {
		return false
	}
	return true
}
