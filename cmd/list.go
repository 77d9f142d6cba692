package cmd

import (
	"github.com/spf13/cobra"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list <file>",
		Short:   "List the mutants generated for a source file",
		Long:    listLongDescription,
		Args:    cobra.ExactArgs(1),
		PreRunE: bindOnRun(generationFlags),
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

			gen, err := eng.Generate(ctx, req)
			if err != nil {
				return err
			}

			return ui.DisplayMutants(ctx, gen.Mutants, generationWarnings(gen.Warnings))
		},
	}

	configureGenerationFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
