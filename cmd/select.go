package cmd

import (
	"github.com/spf13/cobra"
)

// selectCmd represents the select command.
var selectCmd = newSelectCmd()

func newSelectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select <file>",
		Short: "Preview the mutants a constrained run would execute",
		Long: `Generate mutants for a source file and apply the selection constraints
(--max-mutants, --budget, --balance) without running anything.`,
		Args:    cobra.ExactArgs(1),
		PreRunE: bindOnRun(mergeBindings(generationFlags, selectionFlags)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			req, err := buildRequest(ctx, args[0])
			if err != nil {
				return err
			}

			eng, release, err := openEngine()
			if err != nil {
				return err
			}
			defer release()

			gen, set, err := eng.Select(ctx, req)
			if err != nil {
				return err
			}

			return ui.DisplaySelection(ctx, len(gen.Mutants), set)
		},
	}

	configureGenerationFlags(cmd)
	configureSelectionFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(selectCmd)
}
