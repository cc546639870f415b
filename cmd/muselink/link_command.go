package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLinkCommand(ctx *commandContext) *cobra.Command {
	var agentFlag string
	var modelFlag string

	cmd := &cobra.Command{
		Use:   "link INPUT [OUTPUT]",
		Short: "Resolve music markers in a document and wrap them in links",
		Long: "Detects \\album{...} and \\song{...} markers, resolves each title " +
			"to a cross-platform smart link, and rewrites the document with " +
			"\\href wrappers. Without OUTPUT the document is rewritten in place.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, err := buildPipeline(ctx, agentFlag, modelFlag)
			if err != nil {
				return err
			}
			input, output := documentPaths(args)
			if err := pipeline.ProcessFile(cmd.Context(), input, output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
			return nil
		},
	}

	addAgentFlags(cmd, &agentFlag, &modelFlag)
	return cmd
}
