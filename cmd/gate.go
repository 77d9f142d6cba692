package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gooze.dev/pkg/mutest/internal/domain"
)

// ErrGateFailed is returned when a report's score is below the threshold.
var ErrGateFailed = errors.New("quality gate failed")

// gateCmd represents the gate command.
var gateCmd = newGateCmd()

func newGateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gate [report]",
		Short: "Fail when a report's mutation score is below a threshold",
		Long: `Check a saved report against a mutation score threshold and exit non-zero
when the score is below it. Without an argument the newest report is checked.`,
		Args:    cobra.MaximumNArgs(1),
		PreRunE: bindOnRun(map[string]string{thresholdFlagName: gateThresholdKey}),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			report, err := reportStore.LoadReport(ctx, reportPath(args))
			if err != nil {
				return err
			}

			threshold := viper.GetFloat64(gateThresholdKey)
			passed := domain.PassesGate(report.OverallScore, threshold)

			ui.DisplayGate(ctx, report.OverallScore, threshold, passed)

			if !passed {
				return fmt.Errorf("%w: score %.2f below %.2f", ErrGateFailed, report.OverallScore, threshold)
			}

			return nil
		},
	}

	cmd.Flags().Float64(thresholdFlagName, defaultGateThreshold, "minimum mutation score in percent")

	return cmd
}

func init() {
	rootCmd.AddCommand(gateCmd)
}
