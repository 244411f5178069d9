package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/curiocollect/curio/internal/cli"
	"github.com/curiocollect/curio/internal/query"
	"github.com/curiocollect/curio/internal/stats"
)

func statsCmd() *cobra.Command {
	var filters filterFlags

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show valuation statistics",
		Long: `Compute per-currency valuation statistics over the items matching the given
filters. Items without a positive valuation are left out entirely.`,
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

			byCurrency := stats.ByCurrency(items)
			if len(byCurrency) == 0 {
				fmt.Println(cli.InfoStyle.Render("No valued items match."))
				return nil
			}

			currencies := make([]string, 0, len(byCurrency))
			for currency := range byCurrency {
				currencies = append(currencies, currency)
			}
			sort.Strings(currencies)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			for _, currency := range currencies {
				s := byCurrency[currency]
				label := currency
				if label == "" {
					label = "(no currency)"
				}
				fmt.Fprintln(w, cli.TitleStyle.Render(fmt.Sprintf("%s (%d items)", label, s.Count)))
				fmt.Fprintf(w, "Total\t%.2f\n", s.Total)
				fmt.Fprintf(w, "Mean\t%.2f\n", s.Mean)
				fmt.Fprintf(w, "Median\t%.2f\n", s.Median)
				fmt.Fprintf(w, "Std dev\t%.2f\n", s.StdDev)
				fmt.Fprintf(w, "Min / Max\t%.2f / %.2f\n", s.Min, s.Max)
				fmt.Fprintf(w, "P25 / P75 / P90\t%.2f / %.2f / %.2f\n", s.P25, s.P75, s.P90)
				fmt.Fprintln(w)
			}
			return nil
		},
	}

	filters.register(cmd)
	return cmd
}
