package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateCmd(t *testing.T) {
	tests := []struct {
		name      string
		threshold string
		wantErr   bool
		wantOut   string
	}{
		{"below threshold", "80", true, "Quality gate failed: score 50.0% < threshold 80.0%"},
		{"at threshold", "50", false, "Quality gate passed: score 50.0% >= threshold 50.0%"},
		{"above threshold", "25.5", false, "Quality gate passed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, _ := saveReports(t, sampleReport())

			out := &bytes.Buffer{}
			cmd := newRootCmd()
			cmd.AddCommand(newGateCmd())
			cmd.SetOut(out)
			cmd.SetErr(&bytes.Buffer{})
			useSimpleUI(t, cmd)

			cmd.SetArgs([]string{"gate", "--output", dir, "--threshold", tt.threshold})
			err := cmd.Execute()

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrGateFailed)
			} else {
				require.NoError(t, err)
			}

			assert.Contains(t, out.String(), tt.wantOut)
		})
	}
}

func TestGateCmd_DefaultThreshold(t *testing.T) {
	report := sampleReport()
	report.OverallScore = 85
	dir, _ := saveReports(t, report)

	cmd := newRootCmd()
	cmd.AddCommand(newGateCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	useSimpleUI(t, cmd)

	cmd.SetArgs([]string{"gate", "--output", dir})
	require.NoError(t, cmd.Execute())
}
