package domain

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"gooze.dev/pkg/mutest/internal/adapter"
	adaptermocks "gooze.dev/pkg/mutest/internal/adapter/mocks"
	m "gooze.dev/pkg/mutest/internal/model"
)

func newTestEngine(runner adapter.TestRunnerAdapter, trends adapter.TrendStore) *engine {
	e := NewEngine(
		NewGenerator(nil),
		NewExecutor(adapter.NewLocalSourceFSAdapter(), runner),
		trends,
		DefaultAggregateOptions(),
	).(*engine)
	e.newRunID = func() string { return "0b7e6a52-run" }

	return e
}

func isEvenRequest() Request {
	return Request{
		Source:      []byte(isEvenJS),
		SourcePath:  "isEven.js",
		TestCommand: "node --test",
		Language:    m.LanguageJavaScript,
		Categories:  []m.Category{m.CategoryArithmetic, m.CategoryRelational},
		Timeout:     5 * time.Second,
		Concurrency: 2,
		ProjectID:   "parity",
	}
}

// isEven mirrors the unit under test for a mocked suite.
func isEven(source string, n int) bool {
	switch {
	case strings.Contains(source, "n / 2 === 0"):
		return n/2 == 0
	case strings.Contains(source, "n % 2 !== 0"):
		return n%2 != 0
	default:
		return n%2 == 0
	}
}

func TestRunMutationTesting_StrongSuiteKillsBoth(t *testing.T) {
	defer goleak.VerifyNone(t)

	runner := mockRunner(t, "isEven.js", func(_ context.Context, _ adapter.TestRunRequest, source string) (adapter.TestRun, error) {
		if !isEven(source, 4) {
			return failing("not ok 1 - isEven(4) is true"), nil
		}

		if isEven(source, 3) {
			return failing("ok 1 - isEven(4) is true\nnot ok 2 - isEven(3) is false"), nil
		}

		return passing("ok 1 - isEven(4) is true\nok 2 - isEven(3) is false"), nil
	})

	report, err := newTestEngine(runner, nil).RunMutationTesting(context.Background(), isEvenRequest())
	require.NoError(t, err)

	require.Len(t, report.Mutants, 2)
	assert.Equal(t, "% → /", report.Mutants[0].Operator)
	assert.Equal(t, m.StatusKilled, report.Mutants[0].Status)
	assert.Equal(t, "=== → !==", report.Mutants[1].Operator)
	assert.Equal(t, m.StatusKilled, report.Mutants[1].Status)

	assert.InDelta(t, 100.0, report.OverallScore, 1e-9)
	assert.Equal(t, 2, report.KilledCount)
	assert.Empty(t, report.WeakAreas)
	assert.Equal(t, "0b7e6a52-run", report.RunID)
	assert.Equal(t, m.Path("isEven.js"), report.File)
	assert.Nil(t, report.Selection)
	assert.True(t, PassesGate(report.OverallScore, 80))
}

func TestRunMutationTesting_WeakSuiteLetsRelationalSurvive(t *testing.T) {
	defer goleak.VerifyNone(t)

	// The weak suite only checks that isEven(4) returns a truthy result when
	// the modulo is intact.
	runner := mockRunner(t, "isEven.js", func(_ context.Context, _ adapter.TestRunRequest, source string) (adapter.TestRun, error) {
		if !strings.Contains(source, "n % 2") {
			return failing("✕ isEven(4) is truthy"), nil
		}

		return passing("✓ isEven(4) is truthy"), nil
	})

	trends := adaptermocks.NewMockTrendStore(t)
	trends.On("Append", mock.Anything, mock.MatchedBy(func(s m.TrendSample) bool {
		return s.ProjectID == "parity" && s.OverallScore == 50 && s.MutantCount == 2
	})).Return(nil).Once()

	report, err := newTestEngine(runner, trends).RunMutationTesting(context.Background(), isEvenRequest())
	require.NoError(t, err)

	require.Len(t, report.Mutants, 2)
	assert.Equal(t, m.StatusKilled, report.Mutants[0].Status)
	assert.Equal(t, "isEven(4) is truthy", report.Mutants[0].KilledBy)
	assert.Equal(t, m.StatusSurvived, report.Mutants[1].Status)
	assert.Equal(t, []string{"isEven(4) is truthy"}, report.Mutants[1].SurvivedBy)

	assert.Less(t, report.OverallScore, 100.0)
	assert.Contains(t, report.WeakAreas, m.CategoryRelational)
	assert.Contains(t, report.Recommendations, categoryGuidance[m.CategoryRelational])
	assert.False(t, PassesGate(report.OverallScore, 80))
}

func TestRunMutationTesting_InputValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request)
		target any
	}{
		{"missing source", func(r *Request) { r.Source = nil }, new(*MissingInputError)},
		{"missing test command", func(r *Request) { r.TestCommand = "" }, new(*MissingInputError)},
		{"timeout below minimum", func(r *Request) { r.Timeout = 500 * time.Millisecond }, new(*TimeoutConfigurationError)},
		{"unsupported category", func(r *Request) { r.Categories = []m.Category{m.Category(99)} }, new(*UnsupportedCategoryError)},
		{"invalid selection", func(r *Request) { r.Constraints = &m.SelectionConstraint{MaxMutants: 0} }, new(*SelectionError)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := adaptermocks.NewMockTestRunnerAdapter(t)
			req := isEvenRequest()
			tt.mutate(&req)

			_, err := newTestEngine(runner, nil).RunMutationTesting(context.Background(), req)
			require.Error(t, err)
			assert.ErrorAs(t, err, tt.target)
			runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
		})
	}
}

func TestRunMutationTesting_FailingBaselineAborts(t *testing.T) {
	runner := mockRunner(t, "isEven.js", func(context.Context, adapter.TestRunRequest, string) (adapter.TestRun, error) {
		return failing("not ok 1 - broken before mutation"), nil
	})

	trends := adaptermocks.NewMockTrendStore(t)

	_, err := newTestEngine(runner, trends).RunMutationTesting(context.Background(), isEvenRequest())

	var fatal *BatchFatalError
	require.ErrorAs(t, err, &fatal)
	runner.AssertNumberOfCalls(t, "Run", 1)
	trends.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestRunMutationTesting_SelectionUsesBaselineCost(t *testing.T) {
	runner := mockRunner(t, "isEven.js", func(_ context.Context, req adapter.TestRunRequest, _ string) (adapter.TestRun, error) {
		run := passing("")
		if isBaseline(req) {
			run.Duration = 2 * time.Second
		}

		return run, nil
	})

	req := isEvenRequest()
	req.Categories = nil
	req.Constraints = &m.SelectionConstraint{MaxMutants: 10, TimeBudget: 5 * time.Second}

	report, err := newTestEngine(runner, nil).RunMutationTesting(context.Background(), req)
	require.NoError(t, err)

	require.NotNil(t, report.Selection)
	assert.Equal(t, 2, report.Selection.Selected)
	assert.Greater(t, report.Selection.Candidates, 2)
	assert.Equal(t, 4*time.Second, report.Selection.EstimatedExecutionTime)
	assert.Len(t, report.Mutants, 2)
}

func TestRunMutationTesting_BudgetExhaustionSkipsMutants(t *testing.T) {
	defer goleak.VerifyNone(t)

	runner := mockRunner(t, "isEven.js", func(ctx context.Context, req adapter.TestRunRequest, _ string) (adapter.TestRun, error) {
		if isBaseline(req) {
			return passing(""), nil
		}

		<-ctx.Done()

		return adapter.TestRun{Canceled: true, ExitCode: -1}, nil
	})

	req := isEvenRequest()
	req.Constraints = &m.SelectionConstraint{MaxMutants: 10, TimeBudget: 150 * time.Millisecond}

	report, err := newTestEngine(runner, nil).RunMutationTesting(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 2, report.SkippedCount)
	assert.True(t, report.InsufficientExecutableMutants)
	assert.Zero(t, report.OverallScore)
}

func TestRunMutationTesting_TrendFailureIsAWarning(t *testing.T) {
	runner := mockRunner(t, "isEven.js", func(context.Context, adapter.TestRunRequest, string) (adapter.TestRun, error) {
		return passing(""), nil
	})

	trends := adaptermocks.NewMockTrendStore(t)
	trends.On("Append", mock.Anything, mock.Anything).Return(errors.New("read-only file system"))

	report, err := newTestEngine(runner, trends).RunMutationTesting(context.Background(), isEvenRequest())
	require.NoError(t, err)

	require.NotEmpty(t, report.Warnings)
	assert.Contains(t, report.Warnings[len(report.Warnings)-1].Message, "read-only file system")
}

func TestEngine_FetchTrend(t *testing.T) {
	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	window := m.TimeRange{From: base.Add(-time.Hour)}

	trends := adaptermocks.NewMockTrendStore(t)
	trends.On("FetchTrend", mock.Anything, "parity", window).Return([]m.TrendSample{
		{ProjectID: "parity", Timestamp: base, OverallScore: 60, MutantCount: 2},
		{ProjectID: "parity", Timestamp: base.Add(24 * time.Hour), OverallScore: 78, MutantCount: 2},
	}, nil)

	e := newTestEngine(adaptermocks.NewMockTestRunnerAdapter(t), trends)

	report, err := e.FetchTrend(context.Background(), "parity", window)
	require.NoError(t, err)
	assert.Equal(t, m.TrendImproving, report.Trend)
	assert.InDelta(t, 30.0, report.ChangePercentage, 0.001)
	assert.Equal(t, "parity", report.ProjectID)

	_, err = e.FetchTrend(context.Background(), "", window)
	assert.ErrorIs(t, err, ErrInputValidation)

	_, err = newTestEngine(adaptermocks.NewMockTestRunnerAdapter(t), nil).FetchTrend(context.Background(), "parity", window)
	assert.ErrorIs(t, err, ErrNoTrendStore)
}

func TestEngine_GenerateAndSelect(t *testing.T) {
	e := newTestEngine(adaptermocks.NewMockTestRunnerAdapter(t), nil)

	req := Request{Source: []byte(isEvenJS), Language: m.LanguageJavaScript}

	gen, err := e.Generate(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, gen.Mutants)
	assert.Equal(t, m.Path("source.js"), gen.Mutants[0].Location.File)

	_, _, err = e.Select(context.Background(), req)

	var selErr *SelectionError
	require.ErrorAs(t, err, &selErr)

	req.Constraints = &m.SelectionConstraint{MaxMutants: 2, EnsureTypeBalance: true}

	all, set, err := e.Select(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, set.Mutants, 2)
	assert.Equal(t, len(gen.Mutants), len(all.Mutants))
	assert.NotEqual(t, set.Mutants[0].Category, set.Mutants[1].Category)
}

func TestRelativeSourcePath(t *testing.T) {
	project := t.TempDir()

	tests := []struct {
		name    string
		req     Request
		want    m.Path
		invalid bool
	}{
		{name: "default file", req: Request{Language: m.LanguagePython}, want: "source.py"},
		{name: "relative", req: Request{SourcePath: "./src/../lib/a.js"}, want: "lib/a.js"},
		{name: "absolute inside project", req: Request{ProjectDir: m.Path(project), SourcePath: m.Path(project + "/src/a.js")}, want: "src/a.js"},
		{name: "absolute without project", req: Request{SourcePath: "/tmp/x/a.js"}, want: "a.js"},
		{name: "absolute outside project", req: Request{ProjectDir: m.Path(project), SourcePath: "/etc/passwd"}, invalid: true},
		{name: "escaping", req: Request{SourcePath: "../a.js"}, invalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := relativeSourcePath(tt.req)
			if tt.invalid {
				require.ErrorIs(t, err, ErrInputValidation)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPassesGate(t *testing.T) {
	assert.True(t, PassesGate(80, 80))
	assert.True(t, PassesGate(80.1, 80))
	assert.False(t, PassesGate(79.99, 80))
	assert.True(t, PassesGate(0, 0))
}
