package main

import (
	"github.com/spf13/cobra"

	"github.com/curiocollect/curio/internal/model"
	"github.com/curiocollect/curio/internal/query"
)

// filterFlags are the filter dimensions shared by list, export, and stats.
type filterFlags struct {
	search         string
	year           string
	creator        string
	condition      string
	currency       string
	house          string
	room           string
	categories     []string
	subcategories  []string
	minValuation   float64
	maxValuation   float64
	includeDeleted bool
}

func (f *filterFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.search, "search", "", "substring match over title, description, notes, creator")
	flags.StringVar(&f.year, "year", "", "exact year or period")
	flags.StringVar(&f.creator, "creator", "", "exact creator (artist or author)")
	flags.StringVar(&f.condition, "condition", "", "condition value")
	flags.StringVar(&f.currency, "currency", "", "currency code")
	flags.StringVar(&f.house, "house", "", "house id")
	flags.StringVar(&f.room, "room", "", "room id (requires --house)")
	flags.StringSliceVar(&f.categories, "category", nil, "category ids")
	flags.StringSliceVar(&f.subcategories, "subcategory", nil, "subcategory ids")
	flags.Float64Var(&f.minValuation, "min-valuation", 0, "minimum valuation, inclusive")
	flags.Float64Var(&f.maxValuation, "max-valuation", 0, "maximum valuation, inclusive")
	flags.BoolVar(&f.includeDeleted, "include-deleted", false, "include soft-deleted items")
}

// criteria converts the parsed flags into filter criteria. Flag presence is
// checked through cobra so a literal --min-valuation=0 still counts as a
// bound.
func (f *filterFlags) criteria(cmd *cobra.Command) query.Criteria {
	c := query.Criteria{
		Search:         f.search,
		Year:           f.year,
		Creator:        f.creator,
		Condition:      f.condition,
		Currency:       f.currency,
		Categories:     f.categories,
		Subcategories:  f.subcategories,
		IncludeDeleted: f.includeDeleted,
	}
	if f.house != "" {
		c.Houses = []string{f.house}
	}
	if f.house != "" && f.room != "" {
		c.Houses = nil
		c.Rooms = []string{model.RoomKey(f.house, f.room)}
	}
	if cmd.Flags().Changed("min-valuation") {
		v := f.minValuation
		c.MinValuation = &v
	}
	if cmd.Flags().Changed("max-valuation") {
		v := f.maxValuation
		c.MaxValuation = &v
	}
	return c
}
