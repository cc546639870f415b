package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"muselink/internal/agent"
	"muselink/internal/latex"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "scan INPUT",
		Short: "Detect music markers without resolving or rewriting",
		Long: "Dry run: lists the candidates the link command would process. " +
			"With --json, prints the exact JSON payload that would be sent to " +
			"the enrichment agent.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read document: %w", err)
			}
			doc := string(data)
			candidates := latex.FindCandidates(doc)

			out := cmd.OutOrStdout()
			if jsonOutput {
				payload, err := agent.BuildPayload(doc, candidates, cfg.Agent.PromptPath)
				if err != nil {
					return fmt.Errorf("build agent payload: %w", err)
				}
				fmt.Fprintln(out, payload)
				return nil
			}

			if len(candidates) == 0 {
				fmt.Fprintln(out, "No music markers detected")
				return nil
			}
			if isTerminal(out) {
				fmt.Fprintln(out, renderCandidateTable(candidates))
			} else {
				renderCandidateLines(out, candidates)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the agent JSON payload instead of a table")
	return cmd
}
