package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"gooze.dev/pkg/mutest/internal/controller"
	"gooze.dev/pkg/mutest/internal/domain"
	m "gooze.dev/pkg/mutest/internal/model"
)

const isEvenSource = "function isEven(n) {\n  return n % 2 === 0;\n}\n\nmodule.exports = { isEven };\n"

// writeProject lays out a one-file JavaScript project and returns its
// directory and source path.
func writeProject(t *testing.T) (string, string) {
	t.Helper()

	dir := t.TempDir()
	source := filepath.Join(dir, "isEven.js")
	require.NoError(t, os.WriteFile(source, []byte(isEvenSource), 0o644))

	return dir, source
}

// useEngine installs engine for the duration of the test.
func useEngine(t *testing.T, eng domain.Engine) {
	t.Helper()

	original := engine
	engine = eng

	t.Cleanup(func() { engine = original })
}

// useSimpleUI routes command output through a SimpleUI bound to cmd.
func useSimpleUI(t *testing.T, cmd *cobra.Command) {
	t.Helper()

	original := ui
	ui = controller.NewSimpleUI(cmd)

	t.Cleanup(func() { ui = original })
}

func sampleReport() m.Report {
	return m.Report{
		RunID: "0b7e6a52-4c1d-4b8f-9d2e-4f1b5c6d7e8f",
		File:  "isEven.js",
		Mutants: []m.Mutant{
			{ID: "91ab04cc5e6f7a80", Seq: 0, Category: m.CategoryArithmetic, Operator: "% → /", Status: m.StatusKilled,
				Location: m.Location{File: "isEven.js", Line: 2, Column: 12, EnclosingFunction: "isEven"}},
			{ID: "3f2c9a1e77d04b21", Seq: 1, Category: m.CategoryRelational, Operator: "=== → !==", Status: m.StatusSurvived,
				Location: m.Location{File: "isEven.js", Line: 2, Column: 16, EnclosingFunction: "isEven"}},
		},
		OverallScore:  50,
		KilledCount:   1,
		SurvivedCount: 1,
		StartedAt:     time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC),
	}
}
