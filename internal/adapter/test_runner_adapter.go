package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

// TestRunRequest describes one invocation of the project's test command.
type TestRunRequest struct {
	Dir     string
	Command string
	Env     []string
	// Timeout bounds the run; zero means no per-run limit.
	Timeout time.Duration
	// GracePeriod is how long the process may keep running after the
	// interrupt before it is killed.
	GracePeriod time.Duration
}

// TestRun is what was observed from a test command that started.
type TestRun struct {
	Output   string
	ExitCode int
	Duration time.Duration
	// TimedOut is set when the run hit its own Timeout.
	TimedOut bool
	// Canceled is set when the caller's context ended the run.
	Canceled bool
	// Signaled is set when the process died from a signal.
	Signaled bool
}

// TestRunnerAdapter abstracts test execution for mutation testing.
type TestRunnerAdapter interface {
	// Run executes the command through a shell. An error means the command
	// could not be started at all; test failures are reported in TestRun.
	Run(ctx context.Context, req TestRunRequest) (TestRun, error)
}

// LocalTestRunnerAdapter runs test commands with os/exec.
type LocalTestRunnerAdapter struct {
	shell string
}

// NewLocalTestRunnerAdapter constructs a LocalTestRunnerAdapter using sh.
func NewLocalTestRunnerAdapter() *LocalTestRunnerAdapter {
	return &LocalTestRunnerAdapter{shell: "sh"}
}

// Run runs req.Command as "sh -c" in req.Dir.
func (a *LocalTestRunnerAdapter) Run(ctx context.Context, req TestRunRequest) (TestRun, error) {
	runCtx, cancel := ctx, context.CancelFunc(func() {})
	if req.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, req.Timeout)
	}
	defer cancel()

	// #nosec G204 - the test command is the user's own configuration
	cmd := exec.CommandContext(runCtx, a.shell, "-c", req.Command)
	cmd.Dir = req.Dir
	cmd.Env = append(os.Environ(), req.Env...)
	// The command runs in its own process group so that interrupts and the
	// final kill reach everything the test command started.
	startProcessGroup(cmd)
	cmd.Cancel = func() error { return interruptProcessGroup(cmd) }
	cmd.WaitDelay = req.GracePeriod

	var output bytes.Buffer

	cmd.Stdout = &output
	cmd.Stderr = &output

	start := time.Now()
	err := cmd.Run()
	run := TestRun{Output: output.String(), Duration: time.Since(start), ExitCode: -1}

	if cmd.ProcessState == nil {
		return run, fmt.Errorf("start %q: %w", req.Command, err)
	}

	// Children left behind after the shell is gone would keep writing into
	// a sandbox that is about to be reused or removed.
	if killErr := killProcessGroup(cmd); killErr != nil {
		slog.Warn("Failed to kill test process group", "pid", cmd.Process.Pid, "error", killErr)
	}

	run.ExitCode = cmd.ProcessState.ExitCode()
	run.Signaled = run.ExitCode == -1

	// A run that passed before the deadline fired still counts as a pass.
	if err != nil {
		switch {
		case ctx.Err() != nil:
			run.Canceled = true
		case errors.Is(runCtx.Err(), context.DeadlineExceeded):
			run.TimedOut = true
		}
	}

	return run, nil
}
