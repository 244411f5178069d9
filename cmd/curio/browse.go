package main

import (
	"github.com/spf13/cobra"

	"github.com/curiocollect/curio/internal/tui"
)

func browseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the inventory interactively",
		Long:  `Open the terminal browser: live search, sortable columns, and a toggle for deleted items. Sort preferences persist across sessions.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			prefs, err := initSettings()
			if err != nil {
				return err
			}

			return tui.Run(ctx, store, prefs)
		},
	}
}
