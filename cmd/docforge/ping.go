package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

func newPingCmd(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the configured provider answers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			orch, cfg, _, cleanup, err := buildPipeline(cmd, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := orch.PingProvider(cmd.Context())
			if err != nil {
				return fmt.Errorf("provider %s did not answer: %w", cfg.Provider, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s answered via %s: %s\n", cfg.Provider, result.Model, result.Response)
			return nil
		},
	}
}
