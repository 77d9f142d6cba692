package cmd

import (
	"errors"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"gooze.dev/pkg/mutest/internal/domain"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "mutest"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	outputFlagName      = "output"
	verboseFlagName     = "verbose"
	logFileFlagName     = "log-file"
	runParallelFlagName = "parallel"
	timeoutFlagName     = "timeout"
	graceFlagName       = "grace"
	testCommandFlagName = "test-command"
	languageFlagName    = "language"
	categoriesFlagName  = "categories"
	indexerFlagName     = "indexer"
	projectDirFlagName  = "project-dir"
	projectFlagName     = "project"
	maxMutantsFlagName  = "max-mutants"
	budgetFlagName      = "budget"
	balanceFlagName     = "balance"
	trendFileFlagName   = "trend-file"
	metricsFileFlagName = "metrics-file"
	thresholdFlagName   = "threshold"
	sinceFlagName       = "since"

	reportsDirKey     = "reports.dir"
	runParallelKey    = "run.parallel"
	runTimeoutKey     = "run.timeout"
	runGraceKey       = "run.grace"
	runTestCommandKey = "run.test_command"
	runProjectDirKey  = "run.project_dir"
	languageKey       = "generate.language"
	categoriesKey     = "generate.categories"
	indexerKey        = "generate.indexer"
	maxMutantsKey     = "selection.max_mutants"
	timeBudgetKey     = "selection.time_budget"
	balanceKey        = "selection.balance"
	projectKey        = "trend.project"
	trendFileKey      = "trend.file"
	metricsFileKey    = "metrics.file"
	gateThresholdKey  = "gate.threshold"

	indexerLexical    = "lexical"
	indexerTreeSitter = "treesitter"

	defaultReportsDir    = ".mutest/reports"
	defaultRunParallel   = 1
	defaultIndexer       = indexerTreeSitter
	defaultTrendFile     = ".mutest/trend.log"
	defaultGateThreshold = 80.0

	envPrefix = "MUTEST"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".mutest.log"
	defaultLogLevel      = "info"
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(reportsDirKey, defaultReportsDir)
	viper.SetDefault(runParallelKey, defaultRunParallel)
	viper.SetDefault(runTimeoutKey, domain.DefaultTimeout.String())
	viper.SetDefault(runGraceKey, domain.DefaultGracePeriod.String())
	viper.SetDefault(runTestCommandKey, "")
	viper.SetDefault(runProjectDirKey, "")
	viper.SetDefault(languageKey, "")
	viper.SetDefault(categoriesKey, []string{})
	viper.SetDefault(indexerKey, defaultIndexer)
	viper.SetDefault(maxMutantsKey, 0)
	viper.SetDefault(timeBudgetKey, "0s")
	viper.SetDefault(balanceKey, false)
	viper.SetDefault(projectKey, "")
	viper.SetDefault(trendFileKey, defaultTrendFile)
	viper.SetDefault(metricsFileKey, "")
	viper.SetDefault(gateThresholdKey, defaultGateThreshold)

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return
		}

		slog.Debug("Config file not loaded", "error", err)
	}
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at the configured level; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
