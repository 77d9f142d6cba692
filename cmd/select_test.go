package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gooze.dev/pkg/mutest/internal/domain"
	domainmocks "gooze.dev/pkg/mutest/internal/domain/mocks"
	m "gooze.dev/pkg/mutest/internal/model"
)

func TestSelectCmd_DisplaysSelection(t *testing.T) {
	projectDir, source := writeProject(t)

	mockEngine := domainmocks.NewMockEngine(t)
	useEngine(t, mockEngine)

	out := &bytes.Buffer{}
	cmd := newRootCmd()
	cmd.AddCommand(newSelectCmd())
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	useSimpleUI(t, cmd)

	mutants := sampleReport().Mutants
	set := m.SelectedSet{
		Mutants:                mutants[:1],
		SelectionRatio:         0.5,
		EstimatedExecutionTime: 2 * time.Second,
	}

	mockEngine.On("Select", mock.Anything, mock.MatchedBy(func(req domain.Request) bool {
		return req.Constraints != nil &&
			req.Constraints.MaxMutants == 1 &&
			req.Constraints.TimeBudget == 0
	})).Return(domain.Generation{Mutants: mutants}, set, nil)

	cmd.SetArgs([]string{"select", source, "--project-dir", projectDir, "-n", "1"})
	err := cmd.Execute()
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Selected 1 of 2 mutant(s) (50%), estimated 2s")
}

func TestSelectCmd_BudgetOnlyLiftsTheCap(t *testing.T) {
	projectDir, source := writeProject(t)

	mockEngine := domainmocks.NewMockEngine(t)
	useEngine(t, mockEngine)

	cmd := newRootCmd()
	cmd.AddCommand(newSelectCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	useSimpleUI(t, cmd)

	mockEngine.On("Select", mock.Anything, mock.MatchedBy(func(req domain.Request) bool {
		return req.Constraints != nil &&
			req.Constraints.MaxMutants > 1000 &&
			req.Constraints.TimeBudget == 10*time.Second
	})).Return(domain.Generation{}, m.SelectedSet{}, nil)

	cmd.SetArgs([]string{"select", source, "--project-dir", projectDir, "--budget", "10s"})
	err := cmd.Execute()
	require.NoError(t, err)
}

func TestSelectCmd_SelectionErrorIsReturned(t *testing.T) {
	projectDir, source := writeProject(t)

	mockEngine := domainmocks.NewMockEngine(t)
	useEngine(t, mockEngine)

	cmd := newRootCmd()
	cmd.AddCommand(newSelectCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	useSimpleUI(t, cmd)

	mockEngine.On("Select", mock.Anything, mock.Anything).
		Return(domain.Generation{}, m.SelectedSet{}, &domain.SelectionError{Reason: "no constraints"})

	cmd.SetArgs([]string{"select", source, "--project-dir", projectDir})
	err := cmd.Execute()
	require.Error(t, err)
	assert.ErrorAs(t, err, new(*domain.SelectionError))
}
