package main

import (
	"strings"

	"github.com/spf13/cobra"

	"muselink/internal/agent"
	"muselink/internal/config"
	"muselink/internal/linker"
)

func addAgentFlags(cmd *cobra.Command, agentFlag, modelFlag *string) {
	cmd.Flags().StringVar(agentFlag, "agent", "", "Enrichment strategy ("+strings.Join(agent.Names(), ", ")+")")
	cmd.Flags().StringVar(modelFlag, "model", "", "Model passed to the agent binary")
}

// effectiveConfig copies the loaded configuration and layers command-line
// overrides on top, so one invocation never mutates the shared config.
func effectiveConfig(ctx *commandContext, agentFlag, modelFlag string) (*config.Config, error) {
	loaded, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	cfg := *loaded
	if name := strings.TrimSpace(agentFlag); name != "" {
		cfg.Agent.Name = name
	}
	if model := strings.TrimSpace(modelFlag); model != "" {
		cfg.Agent.Model = model
	}
	return &cfg, nil
}

func buildPipeline(ctx *commandContext, agentFlag, modelFlag string) (*linker.Pipeline, error) {
	cfg, err := effectiveConfig(ctx, agentFlag, modelFlag)
	if err != nil {
		return nil, err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return nil, err
	}
	return linker.New(cfg, logger), nil
}

// documentPaths maps positional arguments to input and output paths.
// A single argument means an in-place rewrite.
func documentPaths(args []string) (string, string) {
	input := args[0]
	output := input
	if len(args) > 1 {
		output = args[1]
	}
	return input, output
}
