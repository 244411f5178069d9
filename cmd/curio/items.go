package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/curiocollect/curio/internal/cli"
	"github.com/curiocollect/curio/internal/model"
	"github.com/curiocollect/curio/internal/query"
)

func itemsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Manage inventory items",
		Long:  `List, add, inspect, update, and delete items across all collections.`,
	}

	cmd.AddCommand(listItemsCmd())
	cmd.AddCommand(addItemCmd())
	cmd.AddCommand(showItemCmd())
	cmd.AddCommand(deleteItemCmd())
	cmd.AddCommand(itemHistoryCmd())

	return cmd
}

func listItemsCmd() *cobra.Command {
	var (
		filters   filterFlags
		sortField string
		desc      bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List items matching the given filters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			items, err := store.GetItems(ctx)
			if err != nil {
				return fmt.Errorf("failed to get items: %w", err)
			}
			items = query.Filter(items, filters.criteria(cmd))

			categories, err := store.GetCategories(ctx)
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}
			houses, err := store.GetHouses(ctx)
			if err != nil {
				return fmt.Errorf("failed to get houses: %w", err)
			}

			dir := query.Ascending
			if desc {
				dir = query.Descending
			}
			items = query.Sort(items, query.ParseField(sortField), dir, categories, houses)

			if scope := lockedScope(filters.house, filters.room); scope != "" {
				fmt.Println(cli.LockedStyle.Render(cli.LockedIcon + " " + scope))
			}

			if len(items) == 0 {
				fmt.Println(cli.InfoStyle.Render("No items match."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("ID"),
				cli.HeaderStyle.Render("Title"),
				cli.HeaderStyle.Render("Creator"),
				cli.HeaderStyle.Render("Year"),
				cli.HeaderStyle.Render("Location"),
				cli.HeaderStyle.Render("Value"))

			for i := range items {
				item := &items[i]
				value := ""
				if item.Valuation != nil {
					value = fmt.Sprintf("%.2f %s", *item.Valuation, item.Currency)
				}
				title := item.Title
				if item.Deleted {
					title = cli.SubtleStyle.Render(title + " (deleted)")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					shortID(item.ID), title, item.Creator, item.Year,
					item.HouseID+"/"+item.RoomID, value)
			}
			return nil
		},
	}

	filters.register(cmd)
	cmd.Flags().StringVar(&sortField, "sort", "title", "sort field (title, creator, category, valuation, year, location)")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort descending")
	return cmd
}

func addItemCmd() *cobra.Command {
	var (
		item      model.Item
		kind      string
		valuation float64
		attrs     []string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a new item",
		Long: `Create a new inventory item. The collection kind is taken from --kind, or
inferred from variant attributes (isbn and publisher imply a book, album and
format imply music, anything else is decor).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			item.ID = uuid.NewString()
			item.Title = args[0]
			item.Currency = strings.ToUpper(item.Currency)
			if item.Quantity == 0 {
				item.Quantity = 1
			}
			if cmd.Flags().Changed("valuation") {
				v := valuation
				item.Valuation = &v
			}
			for _, pair := range attrs {
				name, value, ok := strings.Cut(pair, "=")
				if !ok {
					return fmt.Errorf("invalid attribute %q, expected name=value", pair)
				}
				item.SetAttr(name, value)
			}
			if kind != "" {
				item.Kind = model.ParseKind(kind)
			} else {
				item.Kind = model.DetectKind(item.Attrs)
			}

			if err := store.CreateItem(ctx, &item); err != nil {
				return fmt.Errorf("failed to create item: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added %s item %q (%s)",
				item.Kind, item.Title, shortID(item.ID))))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&kind, "kind", "", "collection kind (decor, book, music)")
	flags.StringVar(&item.Description, "description", "", "description")
	flags.StringVar(&item.Notes, "notes", "", "notes")
	flags.StringVar(&item.Year, "year", "", "year or period")
	flags.StringVar(&item.Creator, "creator", "", "artist or author")
	flags.StringVar(&item.CategoryID, "category", "", "category id")
	flags.StringVar(&item.SubcategoryID, "subcategory", "", "subcategory id")
	flags.StringVar(&item.HouseID, "house", "", "house id")
	flags.StringVar(&item.RoomID, "room", "", "room id")
	flags.StringVar(&item.Condition, "condition", "", "condition")
	flags.StringVar(&item.Currency, "currency", "", "currency code")
	flags.Float64Var(&valuation, "valuation", 0, "estimated value")
	flags.IntVar(&item.Quantity, "quantity", 1, "quantity")
	flags.StringSliceVar(&attrs, "attr", nil, "variant attribute as name=value (isbn, album, material, ...)")
	return cmd
}

func showItemCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one item in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			item, err := store.GetItem(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get item: %w", err)
			}

			fmt.Println(cli.TitleStyle.Render(item.Title))
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			row := func(label, value string) {
				if value != "" {
					fmt.Fprintf(w, "%s\t%s\n", cli.SubtleStyle.Render(label), value)
				}
			}
			row("ID", item.ID)
			row("Kind", string(item.Kind))
			row("Creator", item.Creator)
			row("Year", item.Year)
			category := item.CategoryID
			if item.SubcategoryID != "" {
				category += "/" + item.SubcategoryID
			}
			row("Category", category)
			row("Location", item.HouseID+"/"+item.RoomID)
			row("Condition", item.Condition)
			if item.Valuation != nil {
				row("Valuation", fmt.Sprintf("%.2f %s", *item.Valuation, item.Currency))
			}
			row("Quantity", strconv.Itoa(item.Quantity))
			row("Version", strconv.Itoa(item.Version))
			row("Description", item.Description)
			row("Notes", item.Notes)
			for name, value := range item.Attrs {
				row(name, value)
			}
			if item.Deleted {
				fmt.Fprintln(w, cli.WarningStyle.Render("This item is deleted."))
			}
			return nil
		},
	}
}

func deleteItemCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Soft-delete an item",
		Long:  `Mark an item as deleted. The row and its history are kept; deleted items stay out of listings unless --include-deleted is given.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.DeleteItem(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete item: %w", err)
			}
			fmt.Println(cli.FormatSuccess("Deleted " + shortID(args[0])))
			return nil
		},
	}
}

func itemHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <id>",
		Short: "Show the edit history of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			history, err := store.GetItemHistory(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get history: %w", err)
			}
			if len(history) == 0 {
				fmt.Println(cli.InfoStyle.Render("No prior versions."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				cli.HeaderStyle.Render("Version"),
				cli.HeaderStyle.Render("Updated"),
				cli.HeaderStyle.Render("Title"))
			for i := range history {
				snap := &history[i]
				fmt.Fprintf(w, "%d\t%s\t%s\n",
					snap.Version, snap.UpdatedAt.Format("2006-01-02 15:04"), snap.Title)
			}
			return nil
		},
	}
}

// lockedScope describes a house or room restriction the listing is pinned
// to, or "" when the listing is unscoped.
func lockedScope(house, room string) string {
	switch {
	case house == "":
		return ""
	case room == "":
		return "Scoped to house " + house
	default:
		return "Scoped to " + house + "/" + room
	}
}

// shortID trims UUIDs for table output; short ids pass through unchanged.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
