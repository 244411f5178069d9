package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/curiocollect/curio/internal/cli"
	"github.com/curiocollect/curio/internal/csvio"
	"github.com/curiocollect/curio/internal/query"
)

func exportCmd() *cobra.Command {
	var (
		filters   filterFlags
		output    string
		sortField string
		desc      bool
		rawIDs    bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export items to CSV",
		Long: `Write the items matching the given filters as CSV. By default taxonomy ids
are resolved to display names; --ids writes raw ids, which re-import cleanly.`,
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
			categories, err := store.GetCategories(ctx)
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}
			houses, err := store.GetHouses(ctx)
			if err != nil {
				return fmt.Errorf("failed to get houses: %w", err)
			}

			items = query.Filter(items, filters.criteria(cmd))
			dir := query.Ascending
			if desc {
				dir = query.Descending
			}
			items = query.Sort(items, query.ParseField(sortField), dir, categories, houses)

			out := os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer f.Close()
				out = f
			}

			exporter := csvio.NewExporter(csvio.NewLabels(categories, houses), rawIDs)
			if err := exporter.Export(out, items); err != nil {
				return err
			}

			if output != "" {
				fmt.Println(cli.FormatSuccess(fmt.Sprintf(
					"Exported %d items to %s", len(items), output)))
			}
			return nil
		},
	}

	filters.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&sortField, "sort", "title", "sort field")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort descending")
	cmd.Flags().BoolVar(&rawIDs, "ids", false, "write taxonomy ids instead of names")
	return cmd
}
