package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/docforge/docforge/internal/audit"
	"github.com/docforge/docforge/internal/bus"
	"github.com/docforge/docforge/internal/config"
	"github.com/docforge/docforge/internal/pipeline"
	"github.com/docforge/docforge/internal/validate"
)

const rootLongDesc = `Docforge requests machine-generated domain-modeling documents from an
LLM provider and returns them only after they clear the schema gate.

  docforge generate   Generate one document
  docforge validate   Validate an existing document file
  docforge ping       Check that the configured provider answers
  docforge serve      Expose the pipeline over HTTP`

// NewRootCmd builds the docforge command tree.
func NewRootCmd(logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "docforge",
		Short:         "Docforge - validated document generation",
		Long:          rootLongDesc,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringP("config", "c", "", "Path to YAML config file")

	cmd.AddCommand(newGenerateCmd(logger))
	cmd.AddCommand(newValidateCmd(logger))
	cmd.AddCommand(newPingCmd(logger))
	cmd.AddCommand(newServeCmd(logger))

	return cmd
}

// buildPipeline wires the orchestrator from the resolved configuration. The
// returned cleanup closes the audit store when one is configured.
func buildPipeline(cmd *cobra.Command, logger *slog.Logger) (*pipeline.Orchestrator, *config.Config, *audit.Store, func(), error) {
	cfgPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, nil, nil, err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	events := bus.New()
	cleanup := func() {}

	var store *audit.Store
	if cfg.Audit.Path != "" {
		store, err = audit.Open(cfg.Audit.Path, logger)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		events.Attach(store)
		cleanup = func() { store.Close() }
	}

	orch := pipeline.New(cfg, validate.NewStructural(), events, logger)
	return orch, cfg, store, cleanup, nil
}
