package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gooze.dev/pkg/mutest/internal/controller"
	"gooze.dev/pkg/mutest/internal/domain"
	m "gooze.dev/pkg/mutest/internal/model"
)

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Run mutation testing against one source file",
		Long:  runLongDescription,
		Args:  cobra.ExactArgs(1),
		PreRunE: bindOnRun(mergeBindings(generationFlags, selectionFlags, map[string]string{
			runParallelFlagName: runParallelKey,
			timeoutFlagName:     runTimeoutKey,
			graceFlagName:       runGraceKey,
			testCommandFlagName: runTestCommandKey,
			projectFlagName:     projectKey,
			trendFileFlagName:   trendFileKey,
			metricsFileFlagName: metricsFileKey,
		})),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			req, err := buildRequest(ctx, args[0])
			if err != nil {
				return err
			}

			eng, release, err := openEngine()
			if err != nil {
				return err
			}
			defer release()

			if err := ui.Start(ctx, controller.WithRunMode()); err != nil {
				return err
			}
			defer ui.Close(ctx)

			runCtx := domain.WithBatchStart(ctx, func(pending, workers int) {
				ui.DisplayRunInfo(ctx, pending, workers)
			})
			var progressMu sync.Mutex

			runCtx = domain.WithProgress(runCtx, func(mutant m.Mutant) {
				progressMu.Lock()
				defer progressMu.Unlock()

				ui.DisplayCompletedMutant(ctx, mutant)
			})

			report, err := eng.RunMutationTesting(runCtx, req)
			if err != nil {
				slog.Error("Mutation run failed", "file", args[0], "error", err)
				return err
			}

			path, err := reportStore.SaveReport(ctx, m.Path(viper.GetString(reportsDirKey)), report)
			if err != nil {
				return fmt.Errorf("save report: %w", err)
			}

			slog.Info("Report saved", "path", path)

			if metricsFile := viper.GetString(metricsFileKey); metricsFile != "" {
				if err := domain.WriteMetrics(metricsFile); err != nil {
					slog.Error("Failed to write metrics", "path", metricsFile, "error", err)
					return err
				}
			}

			return ui.DisplayReport(ctx, report)
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	configureGenerationFlags(cmd)
	configureSelectionFlags(cmd)

	cmd.Flags().IntP(runParallelFlagName, "p", defaultRunParallel, "number of parallel workers for mutation testing")
	cmd.Flags().Duration(timeoutFlagName, domain.DefaultTimeout, "per-mutant test command timeout")
	cmd.Flags().Duration(graceFlagName, domain.DefaultGracePeriod, "time an interrupted test command gets before it is killed")
	cmd.Flags().StringP(testCommandFlagName, "t", "", "shell command running the test suite, e.g. \"npm test\"")
	cmd.Flags().String(projectFlagName, "", "project id the run is recorded under (default: project directory name)")
	cmd.Flags().String(trendFileFlagName, defaultTrendFile, "trend log the run summary is appended to (empty: none)")
	cmd.Flags().String(metricsFileFlagName, "", "write Prometheus metrics to this file after the run")
}
