package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/docforge/docforge/internal/server"
)

func newServeCmd(logger *slog.Logger) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose the pipeline over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			orch, cfg, store, cleanup, err := buildPipeline(cmd, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			if port == 0 {
				port = cfg.Server.Port
			}

			opts := []server.Option{
				server.WithRequestTimeout(cfg.ResponseTimeout()),
			}
			if store != nil {
				opts = append(opts, server.WithEventLog(store))
			}

			return server.New(port, orch, logger, opts...).Start()
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Listen port (default from config)")
	return cmd
}
