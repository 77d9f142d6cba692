//go:build !unix

package adapter

import (
	"errors"
	"os"
	"os/exec"
)

func startProcessGroup(_ *exec.Cmd) {}

// interruptProcessGroup kills the shell; platforms without process groups
// cannot interrupt its children.
func interruptProcessGroup(cmd *exec.Cmd) error {
	return cmd.Process.Kill()
}

func killProcessGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}

	err := cmd.Process.Kill()
	if errors.Is(err, os.ErrProcessDone) {
		return nil
	}

	return err
}
