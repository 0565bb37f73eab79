package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func newValidateCmd(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <document.json>",
		Short: "Validate an existing document file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			var doc map[string]any
			if err := json.Unmarshal(raw, &doc); err != nil {
				return fmt.Errorf("%s is not a JSON object: %w", args[0], err)
			}

			orch, _, _, cleanup, err := buildPipeline(cmd, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			report, err := orch.ValidateDocument(cmd.Context(), doc)
			if err != nil {
				return err
			}

			if report.IsValid {
				fmt.Fprintln(cmd.OutOrStdout(), "document is valid")
				return nil
			}
			for _, line := range report.Errors {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return fmt.Errorf("document is invalid")
		},
	}
}
