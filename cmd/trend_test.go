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

func improvingTrend() m.TrendReport {
	return m.TrendReport{
		ProjectID:        "parity",
		Trend:            m.TrendImproving,
		ChangePercentage: 30,
		SampleCount:      2,
	}
}

func TestTrendCmd_ProjectArgument(t *testing.T) {
	mockEngine := domainmocks.NewMockEngine(t)
	useEngine(t, mockEngine)

	out := &bytes.Buffer{}
	cmd := newRootCmd()
	cmd.AddCommand(newTrendCmd())
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	useSimpleUI(t, cmd)

	mockEngine.On("FetchTrend", mock.Anything, "parity", m.TimeRange{}).Return(improvingTrend(), nil)

	cmd.SetArgs([]string{"trend", "parity"})
	err := cmd.Execute()
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Trend for parity: IMPROVING (+30.0%) over 2 run(s)")
}

func TestTrendCmd_SinceBoundsTheWindow(t *testing.T) {
	mockEngine := domainmocks.NewMockEngine(t)
	useEngine(t, mockEngine)

	cmd := newRootCmd()
	cmd.AddCommand(newTrendCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	useSimpleUI(t, cmd)

	before := time.Now()

	mockEngine.On("FetchTrend", mock.Anything, "parity", mock.MatchedBy(func(window m.TimeRange) bool {
		from := before.Add(-7 * 24 * time.Hour)
		return window.To.IsZero() &&
			!window.From.Before(from.Add(-time.Second)) &&
			!window.From.After(time.Now().Add(-7*24*time.Hour))
	})).Return(improvingTrend(), nil)

	cmd.SetArgs([]string{"trend", "--project", "parity", "--since", "168h"})
	err := cmd.Execute()
	require.NoError(t, err)
}

func TestTrendCmd_EngineErrorIsReturned(t *testing.T) {
	mockEngine := domainmocks.NewMockEngine(t)
	useEngine(t, mockEngine)

	cmd := newRootCmd()
	cmd.AddCommand(newTrendCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	useSimpleUI(t, cmd)

	mockEngine.On("FetchTrend", mock.Anything, "parity", mock.Anything).Return(m.TrendReport{}, domain.ErrNoTrendStore)

	cmd.SetArgs([]string{"trend", "parity"})
	err := cmd.Execute()
	require.ErrorIs(t, err, domain.ErrNoTrendStore)
}
