package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"gooze.dev/pkg/mutest/internal/adapter"
	m "gooze.dev/pkg/mutest/internal/model"
)

const (
	// MinimumTimeout is the smallest accepted per-mutant timeout.
	MinimumTimeout = time.Second
	// DefaultTimeout applies when a request leaves the timeout unset.
	DefaultTimeout = 30 * time.Second
	// DefaultGracePeriod is how long an interrupted test command may linger.
	DefaultGracePeriod = 2 * time.Second
)

// ErrNoTrendStore is returned by trend queries on an engine without a store.
var ErrNoTrendStore = errors.New("no trend store configured")

// Request is one mutation testing job.
type Request struct {
	Source []byte
	// SourcePath names the file, relative to ProjectDir or absolute inside it.
	// It defaults to the language's conventional file name.
	SourcePath  m.Path
	ProjectDir  m.Path
	TestCommand string
	Language    m.Language
	// Categories defaults to the whole catalog.
	Categories []m.Category
	// Constraints narrows the mutants before execution when set.
	Constraints *m.SelectionConstraint
	Timeout     time.Duration
	GracePeriod time.Duration
	Concurrency int
	ProjectID   string
	Impact      ImpactFunc
	Env         []string
}

// Engine is the entry point collaborators use to run mutation testing.
type Engine interface {
	RunMutationTesting(ctx context.Context, req Request) (m.Report, error)
	Generate(ctx context.Context, req Request) (Generation, error)
	Select(ctx context.Context, req Request) (Generation, m.SelectedSet, error)
	FetchTrend(ctx context.Context, projectID string, window m.TimeRange) (m.TrendReport, error)
}

type engine struct {
	generator Generator
	executor  Executor
	trends    adapter.TrendStore
	options   AggregateOptions
	now       func() time.Time
	newRunID  func() string
}

// NewEngine wires an Engine. trends may be nil, in which case runs are not
// recorded.
func NewEngine(generator Generator, executor Executor, trends adapter.TrendStore, options AggregateOptions) Engine {
	return &engine{
		generator: generator,
		executor:  executor,
		trends:    trends,
		options:   options,
		now:       time.Now,
		newRunID:  uuid.NewString,
	}
}

// PassesGate reports whether a score meets a quality gate threshold.
func PassesGate(score, threshold float64) bool {
	return score >= threshold
}

// prepared is a validated request.
type prepared struct {
	req        Request
	catalog    *Catalog
	sourcePath m.Path
}

func (e *engine) prepare(req Request, needsRunner bool) (prepared, error) {
	if len(strings.TrimSpace(string(req.Source))) == 0 {
		return prepared{}, &MissingInputError{Field: "source"}
	}

	if needsRunner {
		if strings.TrimSpace(req.TestCommand) == "" {
			return prepared{}, &MissingInputError{Field: "test command"}
		}

		if req.Timeout == 0 {
			req.Timeout = DefaultTimeout
		}

		if req.Timeout < MinimumTimeout {
			return prepared{}, &TimeoutConfigurationError{Timeout: req.Timeout, Minimum: MinimumTimeout}
		}

		if req.GracePeriod <= 0 {
			req.GracePeriod = DefaultGracePeriod
		}
	}

	if req.Language == "" {
		req.Language = m.DefaultLanguage
	}

	catalog, err := BuildCatalog(req.Categories...)
	if err != nil {
		return prepared{}, err
	}

	if req.Constraints != nil {
		if _, err := effectiveLimit(*req.Constraints); err != nil {
			return prepared{}, err
		}
	}

	sourcePath, err := relativeSourcePath(req)
	if err != nil {
		return prepared{}, err
	}

	return prepared{req: req, catalog: catalog, sourcePath: sourcePath}, nil
}

func relativeSourcePath(req Request) (m.Path, error) {
	if req.SourcePath == "" {
		return m.Path(req.Language.Profile().DefaultFile), nil
	}

	path := string(req.SourcePath)

	if filepath.IsAbs(path) {
		if req.ProjectDir == "" {
			return m.Path(filepath.Base(path)), nil
		}

		root, err := filepath.Abs(string(req.ProjectDir))
		if err != nil {
			return "", fmt.Errorf("resolve project dir: %w", err)
		}

		rel, err := filepath.Rel(root, path)
		if err != nil || !filepath.IsLocal(rel) {
			return "", fmt.Errorf("source %s is outside project %s: %w", path, req.ProjectDir, ErrInputValidation)
		}

		return m.Path(rel), nil
	}

	clean := filepath.Clean(path)
	if !filepath.IsLocal(clean) {
		return "", fmt.Errorf("source path %s escapes the project: %w", path, ErrInputValidation)
	}

	return m.Path(clean), nil
}

func (e *engine) Generate(ctx context.Context, req Request) (Generation, error) {
	p, err := e.prepare(req, false)
	if err != nil {
		return Generation{}, err
	}

	return e.generate(ctx, p)
}

func (e *engine) generate(ctx context.Context, p prepared) (Generation, error) {
	gen, err := e.generator.Generate(ctx, GenerateArgs{
		Source:   p.req.Source,
		File:     p.sourcePath,
		Language: p.req.Language,
		Catalog:  p.catalog,
	})
	if err != nil {
		return Generation{}, fmt.Errorf("generate mutants: %w", err)
	}

	return gen, nil
}

func (e *engine) Select(ctx context.Context, req Request) (Generation, m.SelectedSet, error) {
	p, err := e.prepare(req, false)
	if err != nil {
		return Generation{}, m.SelectedSet{}, err
	}

	if p.req.Constraints == nil {
		return Generation{}, m.SelectedSet{}, &SelectionError{Reason: "no selection constraint given"}
	}

	gen, err := e.generate(ctx, p)
	if err != nil {
		return Generation{}, m.SelectedSet{}, err
	}

	set, err := NewSelector(p.catalog).Select(gen.Mutants, *p.req.Constraints, p.req.Impact)
	if err != nil {
		return gen, m.SelectedSet{}, err
	}

	return gen, set, nil
}

func (e *engine) RunMutationTesting(ctx context.Context, req Request) (m.Report, error) {
	p, err := e.prepare(req, true)
	if err != nil {
		return m.Report{}, err
	}

	started := e.now()
	report := m.Report{
		RunID:     e.newRunID(),
		ProjectID: p.req.ProjectID,
		Language:  p.req.Language,
		File:      p.sourcePath,
		StartedAt: started,
	}

	gen, err := e.generate(ctx, p)
	if err != nil {
		return m.Report{}, err
	}

	for _, w := range gen.Warnings {
		report.Warnings = append(report.Warnings, m.Warning{Line: w.Line, Message: w.Message})
	}

	runCtx := ctx

	if p.req.Constraints != nil && p.req.Constraints.TimeBudget > 0 {
		var cancel context.CancelFunc

		runCtx, cancel = context.WithTimeout(ctx, p.req.Constraints.TimeBudget)
		defer cancel()
	}

	ws := Workspace{
		ProjectDir:  p.req.ProjectDir,
		SourcePath:  p.sourcePath,
		Source:      p.req.Source,
		TestCommand: p.req.TestCommand,
		Timeout:     p.req.Timeout,
		GracePeriod: p.req.GracePeriod,
		Concurrency: p.req.Concurrency,
		Env:         p.req.Env,
	}

	baseline, err := e.executor.Baseline(runCtx, ws)
	if err != nil {
		slog.Error("Baseline run failed", "file", p.sourcePath, "error", err)
		return m.Report{}, err
	}

	toRun := gen.Mutants

	if p.req.Constraints != nil {
		constraint := *p.req.Constraints
		if constraint.PerMutantCost == 0 {
			constraint.PerMutantCost = baseline
		}

		set, err := NewSelector(p.catalog).Select(gen.Mutants, constraint, p.req.Impact)
		if err != nil {
			return m.Report{}, err
		}

		toRun = set.Mutants
		report.Selection = &m.SelectionInfo{
			Candidates:             len(gen.Mutants),
			Selected:               len(set.Mutants),
			SelectionRatio:         set.SelectionRatio,
			EstimatedExecutionTime: set.EstimatedExecutionTime,
		}
	}

	results, err := e.executor.ExecuteAll(runCtx, ws, toRun)
	if err != nil {
		return m.Report{}, fmt.Errorf("execute mutants: %w", err)
	}

	run := Aggregate(results, e.options)
	fillReport(&report, run)
	report.Duration = e.now().Sub(started)

	e.recordTrend(ctx, &report)

	slog.Info("Mutation run finished",
		"run", report.RunID,
		"file", report.File,
		"score", report.OverallScore,
		"killed", report.KilledCount,
		"survived", report.SurvivedCount,
		"duration", report.Duration)

	return report, nil
}

func fillReport(report *m.Report, run m.MutationRun) {
	report.Mutants = run.Mutants
	report.OverallScore = run.OverallScore
	report.KilledCount = run.Counts.Killed
	report.TimedOutCount = run.Counts.TimedOut
	report.SurvivedCount = run.Counts.Survived
	report.ErroredCount = run.Counts.Errored
	report.SkippedCount = run.Counts.Skipped
	report.InsufficientExecutableMutants = run.InsufficientExecutableMutants
	report.CategoryBreakdown = run.CategoryBreakdown
	report.WeakAreas = run.WeakAreas
	report.Patterns = run.Patterns
	report.Recommendations = Recommendations(run)
}

// recordTrend appends the run summary. A failing store never fails the run.
func (e *engine) recordTrend(ctx context.Context, report *m.Report) {
	if e.trends == nil || report.ProjectID == "" {
		return
	}

	sample := m.TrendSample{
		ProjectID:    report.ProjectID,
		Timestamp:    report.StartedAt,
		OverallScore: report.OverallScore,
		MutantCount:  len(report.Mutants),
	}

	if err := e.trends.Append(context.WithoutCancel(ctx), sample); err != nil {
		slog.Error("Failed to record trend sample", "project", report.ProjectID, "error", err)
		report.Warnings = append(report.Warnings, m.Warning{Message: fmt.Sprintf("trend sample not recorded: %v", err)})
	}
}

func (e *engine) FetchTrend(ctx context.Context, projectID string, window m.TimeRange) (m.TrendReport, error) {
	if e.trends == nil {
		return m.TrendReport{}, ErrNoTrendStore
	}

	if projectID == "" {
		return m.TrendReport{}, &MissingInputError{Field: "project id"}
	}

	samples, err := e.trends.FetchTrend(ctx, projectID, window)
	if err != nil {
		return m.TrendReport{}, fmt.Errorf("fetch trend for %s: %w", projectID, err)
	}

	report := AnalyzeTrend(samples)
	report.ProjectID = projectID

	return report, nil
}
