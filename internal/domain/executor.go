package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"gooze.dev/pkg/mutest/internal/adapter"
	m "gooze.dev/pkg/mutest/internal/model"
)

// Exit codes a POSIX shell reports when the command itself could not run.
const (
	exitNotExecutable = 126
	exitNotFound      = 127
)

// signalKill is the killedBy of a mutant whose test process crashed without
// naming a failing test.
const signalKill = "test process died from a signal"

// Workspace describes where and how the test command runs.
type Workspace struct {
	// ProjectDir is copied into every sandbox. When empty a sandbox holds
	// only the source file.
	ProjectDir m.Path
	// SourcePath is the source file relative to ProjectDir.
	SourcePath  m.Path
	Source      []byte
	TestCommand string
	Timeout     time.Duration
	GracePeriod time.Duration
	Concurrency int
	Env         []string
}

func (ws Workspace) validate() error {
	if len(ws.Source) == 0 {
		return &MissingInputError{Field: "source"}
	}

	if strings.TrimSpace(ws.TestCommand) == "" {
		return &MissingInputError{Field: "test command"}
	}

	if ws.SourcePath == "" || !filepath.IsLocal(string(ws.SourcePath)) {
		return fmt.Errorf("source path %q must be relative to the project: %w", ws.SourcePath, ErrInputValidation)
	}

	return nil
}

// Executor materializes mutants in sandboxes and runs the test command
// against them.
type Executor interface {
	// Baseline runs the suite once against the unmutated source and returns
	// its duration. A suite that cannot run or already fails is a
	// BatchFatalError.
	Baseline(ctx context.Context, ws Workspace) (time.Duration, error)
	// Execute runs one mutant in its own sandbox and returns the resolved copy.
	Execute(ctx context.Context, ws Workspace, mutant m.Mutant) m.Mutant
	// ExecuteAll runs mutants on a bounded worker pool. The result keeps the
	// generation order regardless of completion order. When no worker can
	// prepare a sandbox the batch fails with a BatchFatalError and the
	// mutants it never reached come back SKIPPED.
	ExecuteAll(ctx context.Context, ws Workspace, mutants []m.Mutant) ([]m.Mutant, error)
}

type executor struct {
	fsAdapter   adapter.SourceFSAdapter
	testAdapter adapter.TestRunnerAdapter
	now         func() time.Time
}

// NewExecutor constructs an Executor backed by the provided filesystem and
// test runner adapters.
func NewExecutor(fsAdapter adapter.SourceFSAdapter, testAdapter adapter.TestRunnerAdapter) Executor {
	return &executor{
		fsAdapter:   fsAdapter,
		testAdapter: testAdapter,
		now:         time.Now,
	}
}

// sandbox is a scratch copy of the project owned by one worker.
type sandbox struct {
	root       m.Path
	sourcePath m.Path
}

func (e *executor) Baseline(ctx context.Context, ws Workspace) (time.Duration, error) {
	if err := ws.validate(); err != nil {
		return 0, err
	}

	sb, err := e.prepareSandbox(ctx, ws)
	if sb != nil {
		defer e.cleanupSandbox(ctx, sb)
	}

	if err != nil {
		return 0, &BatchFatalError{Reason: "cannot prepare sandbox", Err: err}
	}

	run, err := e.testAdapter.Run(ctx, e.request(ws, sb, "baseline"))
	if err != nil {
		slog.Error("Test runner unavailable", "command", ws.TestCommand, "error", err)
		return 0, &BatchFatalError{Reason: "test runner unavailable", Err: err}
	}

	switch {
	case run.Canceled:
		return 0, fmt.Errorf("baseline run: %w", ctx.Err())
	case run.TimedOut:
		return 0, &BatchFatalError{Reason: fmt.Sprintf("unmutated test suite exceeded the %s timeout", ws.Timeout)}
	case run.Signaled:
		return 0, &BatchFatalError{Reason: "unmutated test suite died from a signal", Err: errors.New(lastLines(run.Output, 5))}
	case run.ExitCode == exitNotExecutable || run.ExitCode == exitNotFound:
		return 0, &BatchFatalError{Reason: "test command cannot be executed", Err: errors.New(lastLines(run.Output, 5))}
	case run.ExitCode != 0:
		return 0, &BatchFatalError{
			Reason: fmt.Sprintf("unmutated test suite fails with exit status %d", run.ExitCode),
			Err:    errors.New(lastLines(run.Output, 5)),
		}
	}

	baselineDuration.Set(run.Duration.Seconds())
	slog.Info("Baseline run passed", "duration", run.Duration)

	return run.Duration, nil
}

func (e *executor) Execute(ctx context.Context, ws Workspace, mutant m.Mutant) m.Mutant {
	if err := ws.validate(); err != nil {
		return e.resolve(mutant, m.Outcome{Status: m.StatusErrored, Error: err.Error()})
	}

	if err := ctx.Err(); err != nil {
		return e.skip(mutant, err)
	}

	sb, err := e.prepareSandbox(ctx, ws)
	if sb != nil {
		defer e.cleanupSandbox(ctx, sb)
	}

	if err != nil {
		if ctx.Err() != nil {
			return e.skip(mutant, ctx.Err())
		}

		return e.resolve(mutant, m.Outcome{Status: m.StatusErrored, Error: (&ExecutionError{MutantID: mutant.ID, Err: err}).Error()})
	}

	resolved, _ := e.runInSandbox(ctx, ws, sb, mutant)

	return resolved
}

// prepareSandbox creates a scratch directory holding the project and the
// unmutated source. A non-nil sandbox is returned whenever a directory was
// created, so the caller can clean it up even on error.
func (e *executor) prepareSandbox(ctx context.Context, ws Workspace) (*sandbox, error) {
	tmpDir, err := e.fsAdapter.CreateTempDir(ctx, "mutest-sandbox-*")
	if err != nil {
		slog.Error("Failed to create temp dir", "error", err)
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}

	sb := &sandbox{
		root:       tmpDir,
		sourcePath: e.fsAdapter.JoinPath(ctx, string(tmpDir), string(ws.SourcePath)),
	}

	if ws.ProjectDir != "" {
		if err := e.fsAdapter.CopyDir(ctx, ws.ProjectDir, tmpDir); err != nil {
			slog.Error("Failed to copy project to temp dir", "projectDir", ws.ProjectDir, "tmpDir", tmpDir, "error", err)
			return sb, fmt.Errorf("failed to copy project: %w", err)
		}
	}

	if err := e.fsAdapter.WriteFile(ctx, sb.sourcePath, ws.Source, 0o600); err != nil {
		slog.Error("Failed to write source", "path", sb.sourcePath, "error", err)
		return sb, fmt.Errorf("failed to write source: %w", err)
	}

	return sb, nil
}

// cleanupSandbox removes the sandbox, logging errors if cleanup fails.
func (e *executor) cleanupSandbox(ctx context.Context, sb *sandbox) {
	if err := e.fsAdapter.RemoveAll(context.WithoutCancel(ctx), sb.root); err != nil {
		slog.Error("Failed to cleanup sandbox", "dir", sb.root, "error", err)
	}
}

// runInSandbox writes the mutant over the source, runs the suite and puts
// the original source back. The boolean reports whether the sandbox is still
// clean enough to reuse.
func (e *executor) runInSandbox(ctx context.Context, ws Workspace, sb *sandbox, mutant m.Mutant) (m.Mutant, bool) {
	mutated, err := mutant.Apply(ws.Source)
	if err != nil {
		return e.resolve(mutant, m.Outcome{Status: m.StatusErrored, Error: (&ExecutionError{MutantID: mutant.ID, Err: err}).Error()}), true
	}

	if err := e.fsAdapter.WriteFile(ctx, sb.sourcePath, mutated, 0o600); err != nil {
		slog.Error("Failed to write mutated file", "path", sb.sourcePath, "mutant", mutant.ID, "error", err)

		if ctx.Err() != nil {
			return e.skip(mutant, ctx.Err()), false
		}

		return e.resolve(mutant, m.Outcome{Status: m.StatusErrored, Error: (&ExecutionError{MutantID: mutant.ID, Err: err}).Error()}), false
	}

	slog.Debug("Running mutant", "mutant", mutant.ID, "category", mutant.Category, "line", mutant.Location.Line)

	run, runErr := e.testAdapter.Run(ctx, e.request(ws, sb, mutant.ID))
	resolved := e.resolve(mutant, e.classify(mutant.ID, ws.Timeout, run, runErr))

	healthy := true
	if err := e.fsAdapter.WriteFile(context.WithoutCancel(ctx), sb.sourcePath, ws.Source, 0o600); err != nil {
		slog.Error("Failed to restore source in sandbox", "path", sb.sourcePath, "error", err)

		healthy = false
	}

	return resolved, healthy
}

func (e *executor) request(ws Workspace, sb *sandbox, mutantID string) adapter.TestRunRequest {
	env := append([]string(nil), ws.Env...)
	env = append(env, "MUTEST_MUTANT_ID="+mutantID, "MUTEST_SOURCE_FILE="+string(sb.sourcePath))

	return adapter.TestRunRequest{
		Dir:         string(sb.root),
		Command:     ws.TestCommand,
		Env:         env,
		Timeout:     ws.Timeout,
		GracePeriod: ws.GracePeriod,
	}
}

// classify maps an observed test run onto a terminal outcome.
func (e *executor) classify(mutantID string, timeout time.Duration, run adapter.TestRun, runErr error) m.Outcome {
	outcome := m.Outcome{Duration: run.Duration, At: e.now()}

	switch {
	case runErr != nil:
		outcome.Status = m.StatusErrored
		outcome.Error = (&ExecutionError{MutantID: mutantID, Err: runErr}).Error()
	case run.Canceled:
		outcome.Status = m.StatusSkipped
		outcome.Error = "terminated: run budget exhausted"
	case run.TimedOut:
		outcome.Status = m.StatusTimedOut
		outcome.Error = (&TimeoutError{MutantID: mutantID, Timeout: timeout}).Error()
	case run.ExitCode == exitNotExecutable || run.ExitCode == exitNotFound:
		outcome.Status = m.StatusErrored
		outcome.Error = (&ExecutionError{MutantID: mutantID, Err: fmt.Errorf("test command exited with %d: %s", run.ExitCode, lastLines(run.Output, 3))}).Error()
	case run.Signaled:
		// The unmutated suite ran clean, so a crash of the test process is the
		// mutant's doing.
		outcome.Status = m.StatusKilled
		outcome.KilledBy = signalKill

		if failed := ParseTestOutput(run.Output).Failed; len(failed) > 0 {
			outcome.KilledBy = failed[0]
		}
	case run.ExitCode == 0:
		outcome.Status = m.StatusSurvived
		outcome.SurvivedBy = ParseTestOutput(run.Output).Passed
	default:
		outcome.Status = m.StatusKilled
		outcome.KilledBy = fmt.Sprintf("exit status %d", run.ExitCode)

		if failed := ParseTestOutput(run.Output).Failed; len(failed) > 0 {
			outcome.KilledBy = failed[0]
		}
	}

	return outcome
}

func (e *executor) skip(mutant m.Mutant, cause error) m.Mutant {
	return e.resolve(mutant, m.Outcome{Status: m.StatusSkipped, Error: fmt.Sprintf("not run: %v", cause)})
}

// resolve applies the outcome, leaving already terminal mutants untouched.
func (e *executor) resolve(mutant m.Mutant, outcome m.Outcome) m.Mutant {
	if outcome.At.IsZero() {
		outcome.At = e.now()
	}

	resolved, err := mutant.Resolve(outcome)
	if err != nil {
		slog.Warn("Mutant not resolved", "mutant", mutant.ID, "error", err)
		return mutant
	}

	observeMutant(resolved)

	return resolved
}

func lastLines(output string, n int) string {
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}

	return strings.Join(lines, "\n")
}
