package cmd

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	m "gooze.dev/pkg/mutest/internal/model"
)

// trendCmd represents the trend command.
var trendCmd = newTrendCmd()

func newTrendCmd() *cobra.Command {
	var since time.Duration

	cmd := &cobra.Command{
		Use:   "trend [project]",
		Short: "Show how a project's mutation score evolved",
		Long: `Classify the recorded mutation scores of a project as improving, declining
or stable. The project defaults to trend.project or the current directory name.`,
		Args: cobra.MaximumNArgs(1),
		PreRunE: bindOnRun(map[string]string{
			trendFileFlagName: trendFileKey,
			projectFlagName:   projectKey,
		}),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			eng, release, err := openEngine()
			if err != nil {
				return err
			}
			defer release()

			window := m.TimeRange{}
			if since > 0 {
				window.From = time.Now().Add(-since)
			}

			report, err := eng.FetchTrend(ctx, trendProject(args), window)
			if err != nil {
				return err
			}

			return ui.DisplayTrend(ctx, report)
		},
	}

	cmd.Flags().DurationVar(&since, sinceFlagName, 0, "only consider runs recorded within this window (0: all)")
	cmd.Flags().String(trendFileFlagName, defaultTrendFile, "trend log to read")
	cmd.Flags().String(projectFlagName, "", "project id (default: trend.project or the current directory name)")

	return cmd
}

func init() {
	rootCmd.AddCommand(trendCmd)
}

func trendProject(args []string) string {
	if len(args) > 0 {
		return args[0]
	}

	if project := viper.GetString(projectKey); project != "" {
		return project
	}

	if wd, err := os.Getwd(); err == nil {
		return filepath.Base(wd)
	}

	return ""
}
