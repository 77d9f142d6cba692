package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gooze.dev/pkg/mutest/internal/domain"
	m "gooze.dev/pkg/mutest/internal/model"
)

// generationFlags are shared by every command that generates mutants.
var generationFlags = map[string]string{
	languageFlagName:   languageKey,
	categoriesFlagName: categoriesKey,
	indexerFlagName:    indexerKey,
	projectDirFlagName: runProjectDirKey,
}

// selectionFlags are shared by run and select.
var selectionFlags = map[string]string{
	maxMutantsFlagName: maxMutantsKey,
	budgetFlagName:     timeBudgetKey,
	balanceFlagName:    balanceKey,
}

func mergeBindings(sets ...map[string]string) map[string]string {
	merged := make(map[string]string)

	for _, set := range sets {
		for name, key := range set {
			merged[name] = key
		}
	}

	return merged
}

func configureGenerationFlags(cmd *cobra.Command) {
	cmd.Flags().StringP(languageFlagName, "l", "", "source language (default: guessed from the file extension)")
	cmd.Flags().StringSliceP(categoriesFlagName, "c", nil, "operator categories to apply (default: all)")
	cmd.Flags().String(indexerFlagName, defaultIndexer, "function boundary strategy: lexical or treesitter")
	cmd.Flags().String(projectDirFlagName, "", "project root copied into each sandbox (default: nearest project marker)")
}

func configureSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().IntP(maxMutantsFlagName, "n", 0, "run at most this many mutants (0: all)")
	cmd.Flags().Duration(budgetFlagName, 0, "time budget for the whole batch (0: none)")
	cmd.Flags().Bool(balanceFlagName, false, "spread selected mutants evenly across categories")
}

// loadSource reads a source file and resolves its language.
func loadSource(ctx context.Context, file string) (m.Source, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return m.Source{}, fmt.Errorf("resolve %s: %w", file, err)
	}

	info, err := fsAdapter.FileInfo(ctx, m.Path(abs))
	if err != nil {
		return m.Source{}, fmt.Errorf("source %s: %w", file, err)
	}

	if info.IsDir() {
		return m.Source{}, fmt.Errorf("source %s is a directory: %w", file, domain.ErrInputValidation)
	}

	content, err := fsAdapter.ReadFile(ctx, m.Path(abs))
	if err != nil {
		slog.Error("Failed to read source", "path", abs, "error", err)
		return m.Source{}, fmt.Errorf("read source: %w", err)
	}

	lang, err := sourceLanguage(m.Path(abs))
	if err != nil {
		return m.Source{}, err
	}

	return m.Source{File: m.Path(abs), Content: content, Language: lang}, nil
}

func sourceLanguage(path m.Path) (m.Language, error) {
	if name := viper.GetString(languageKey); name != "" {
		lang, err := m.ParseLanguage(name)
		if err != nil {
			return "", fmt.Errorf("%w: %w", domain.ErrInputValidation, err)
		}

		return lang, nil
	}

	if lang, ok := m.LanguageForPath(path); ok {
		return lang, nil
	}

	slog.Warn("Language not recognised from extension, using default", "path", path, "language", m.DefaultLanguage)

	return m.DefaultLanguage, nil
}

// projectDir is the configured project root, or the nearest directory
// holding a project marker, or the source's own directory.
func projectDir(ctx context.Context, source m.Path) m.Path {
	if dir := viper.GetString(runProjectDirKey); dir != "" {
		return m.Path(dir)
	}

	root, err := fsAdapter.FindProjectRoot(ctx, source)
	if err != nil {
		slog.Debug("No project root found, using the source directory", "path", source, "error", err)
		return m.Path(filepath.Dir(string(source)))
	}

	return root
}

func parseCategories(names []string) ([]m.Category, error) {
	categories := make([]m.Category, 0, len(names))

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		category, ok := m.ParseCategory(name)
		if !ok {
			return nil, &domain.UnsupportedCategoryError{Category: name}
		}

		categories = append(categories, category)
	}

	return categories, nil
}

// selectionConstraint is nil unless a mutant cap or a time budget is set.
func selectionConstraint() *m.SelectionConstraint {
	maxMutants := viper.GetInt(maxMutantsKey)
	budget := viper.GetDuration(timeBudgetKey)

	if maxMutants <= 0 && budget <= 0 {
		return nil
	}

	if maxMutants <= 0 {
		maxMutants = math.MaxInt32
	}

	return &m.SelectionConstraint{
		MaxMutants:        maxMutants,
		TimeBudget:        budget,
		EnsureTypeBalance: viper.GetBool(balanceKey),
	}
}

func buildRequest(ctx context.Context, file string) (domain.Request, error) {
	source, err := loadSource(ctx, file)
	if err != nil {
		return domain.Request{}, err
	}

	categories, err := parseCategories(viper.GetStringSlice(categoriesKey))
	if err != nil {
		return domain.Request{}, err
	}

	dir := projectDir(ctx, source.File)
	sourcePath := source.File

	// Relative to the project when inside it; the engine rejects the rest.
	if rel, err := fsAdapter.RelPath(ctx, dir, source.File); err == nil && filepath.IsLocal(string(rel)) {
		sourcePath = rel
	}

	project := viper.GetString(projectKey)
	if project == "" {
		project = filepath.Base(string(dir))
	}

	return domain.Request{
		Source:      source.Content,
		SourcePath:  sourcePath,
		ProjectDir:  dir,
		TestCommand: viper.GetString(runTestCommandKey),
		Language:    source.Language,
		Categories:  categories,
		Constraints: selectionConstraint(),
		Timeout:     viper.GetDuration(runTimeoutKey),
		GracePeriod: viper.GetDuration(runGraceKey),
		Concurrency: viper.GetInt(runParallelKey),
		ProjectID:   project,
	}, nil
}

func generationWarnings(warnings []domain.GenerationWarning) []m.Warning {
	out := make([]m.Warning, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, m.Warning{Line: w.Line, Message: w.Message})
	}

	return out
}
