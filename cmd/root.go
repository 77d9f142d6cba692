// Package cmd provides the root command and CLI setup for mutest.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"gooze.dev/pkg/mutest/internal/adapter"
	"gooze.dev/pkg/mutest/internal/controller"
	"gooze.dev/pkg/mutest/internal/domain"
	m "gooze.dev/pkg/mutest/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var testAdapter adapter.TestRunnerAdapter
var reportStore adapter.ReportStore
var ui controller.UI

// engine is wired from configuration on first use unless a command test
// installs its own.
var engine domain.Engine

// reportsDirFlag is a root-level flag shared by commands that read/write reports.
var reportsDirFlag string

var verboseFlag bool
var logFileFlag string

func init() {
	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	testAdapter = adapter.NewLocalTestRunnerAdapter()
	reportStore = adapter.NewYAMLReportStore()
}

const sourceHelp = `The source file is scanned lexically. Its language is taken from --language
or guessed from the file extension (JavaScript, TypeScript, Java, Go, Python,
C, C++ and C#).`

const rootLongDescription = `mutest is a mutation testing engine: it rewrites one source file in small
ways (mutants), runs your test command against each mutant in a sandbox and
reports which changes your tests failed to notice.

` + sourceHelp

const runLongDescription = `Generate mutants for a source file, run the test command against each of
them and save a report.

` + sourceHelp

const listLongDescription = `List the mutants that would be generated for a source file.

` + sourceHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mutest",
		Short: "Mutation testing engine",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(logFileFlag, verboseFlag)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsDirFlag, outputFlagName, "o",
			defaultReportsDir,
			"directory for mutation testing reports",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), reportsDirKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", false, "log at debug level")
	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, "", "log file (default from log.filename)")
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// bindOnRun defers flag binding to execution time, so that commands sharing
// a config key each feed it from their own flags.
func bindOnRun(bindings map[string]string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		for name, key := range bindings {
			flag := cmd.Flags().Lookup(name)
			if flag == nil {
				return fmt.Errorf("flag %q for config key %q not found", name, key)
			}

			if err := viper.BindPFlag(key, flag); err != nil {
				return fmt.Errorf("bind flag %q: %w", name, err)
			}
		}

		return nil
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// openEngine returns the installed engine or wires one from the current
// configuration. The returned func releases the trend store.
func openEngine() (domain.Engine, func(), error) {
	if engine != nil {
		return engine, func() {}, nil
	}

	var trends adapter.TrendStore

	release := func() {}

	if path := viper.GetString(trendFileKey); path != "" {
		store, err := adapter.OpenFileTrendStore(m.Path(path))
		if err != nil {
			slog.Error("Failed to open trend store", "path", path, "error", err)
			return nil, nil, err
		}

		trends = store
		release = func() {
			if err := store.Close(); err != nil {
				slog.Error("Failed to close trend store", "path", path, "error", err)
			}
		}
	}

	generator := domain.NewGenerator(newIndexer(viper.GetString(indexerKey)))
	executor := domain.NewExecutor(fsAdapter, testAdapter)

	return domain.NewEngine(generator, executor, trends, domain.DefaultAggregateOptions()), release, nil
}

func newIndexer(name string) adapter.FunctionIndexer {
	lexical := domain.NewLexicalIndexer()

	switch name {
	case indexerLexical:
		return lexical
	case indexerTreeSitter, "":
		return adapter.NewTreeSitterIndexer(lexical)
	default:
		slog.Warn("Unknown function indexer, using lexical", "indexer", name)
		return lexical
	}
}
