package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

type generateCommander struct {
	domain       string
	scenarioHint string
	outputPath   string
	logger       *slog.Logger
}

func newGenerateCmd(logger *slog.Logger) *cobra.Command {
	cmder := &generateCommander{logger: logger}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one validated document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	cmd.Flags().StringVarP(&cmder.domain, "domain", "D", "", "Problem domain to model (required)")
	cmd.Flags().StringVar(&cmder.scenarioHint, "scenario-hint", "", "Optional focus for the simulation scenarios")
	cmd.Flags().StringVarP(&cmder.outputPath, "output", "o", "", "Write the document to a file instead of stdout")
	_ = cmd.MarkFlagRequired("domain")

	return cmd
}

func (c *generateCommander) run(cmd *cobra.Command) error {
	orch, _, _, cleanup, err := buildPipeline(cmd, c.logger)
	if err != nil {
		return err
	}
	defer cleanup()

	doc, err := orch.GenerateDocument(cmd.Context(), c.domain, c.scenarioHint)
	if err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	if c.outputPath != "" {
		if err := os.WriteFile(c.outputPath, append(encoded, '\n'), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", c.outputPath, err)
		}
		c.logger.Info("document written", slog.String("path", c.outputPath))
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
	return nil
}
