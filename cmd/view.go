package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	m "gooze.dev/pkg/mutest/internal/model"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view [report]",
		Short: "View a previously saved mutation report",
		Long:  "View a saved mutation report. Without an argument the newest report in the reports directory is shown.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			report, err := reportStore.LoadReport(ctx, reportPath(args))
			if err != nil {
				return err
			}

			return ui.DisplayReport(ctx, report)
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}

// reportPath is the explicit report argument or the reports directory.
func reportPath(args []string) m.Path {
	if len(args) > 0 {
		return m.Path(args[0])
	}

	return m.Path(viper.GetString(reportsDirKey))
}
