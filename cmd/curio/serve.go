package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/curiocollect/curio/internal/api"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long:  `Serve the inventory over HTTP for the web UI. Shuts down gracefully on interrupt.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if addr == "" {
				addr = viper.GetString("server.addr")
			}
			if addr == "" {
				addr = "127.0.0.1:8537"
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			return api.NewServer(addr, store).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default 127.0.0.1:8537)")
	return cmd
}
