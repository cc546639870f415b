package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRetryCommand(ctx *commandContext) *cobra.Command {
	var agentFlag string
	var modelFlag string

	cmd := &cobra.Command{
		Use:   "retry INPUT [OUTPUT]",
		Short: "Re-attempt links that previously resolved to the not-found sentinel",
		Long: "Finds \\href wrappers pointing at the not-found sentinel URL and " +
			"retries resolution. Wrappers that succeed get their real smart " +
			"link; wrappers that fail again are unwrapped back to bare markers.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, err := buildPipeline(ctx, agentFlag, modelFlag)
			if err != nil {
				return err
			}
			input, output := documentPaths(args)
			if err := pipeline.RetryFile(cmd.Context(), input, output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
			return nil
		},
	}

	addAgentFlags(cmd, &agentFlag, &modelFlag)
	return cmd
}
