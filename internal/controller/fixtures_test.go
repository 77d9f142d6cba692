package controller

import (
	"time"

	m "gooze.dev/pkg/mutest/internal/model"
)

func survivor() m.Mutant {
	return m.Mutant{
		ID:       "3f2c9a1e77d04b21",
		Seq:      1,
		Category: m.CategoryRelational,
		Operator: "=== → !==",
		Location: m.Location{File: "isEven.js", Line: 2, Column: 16, EnclosingFunction: "isEven"},
		Diff:     "--- isEven.js:2\n+++ isEven.js:2 (mutant)\n@@ -1 +1 @@\n-  return n % 2 === 0;\n+  return n % 2 !== 0;\n",
		Status:   m.StatusSurvived,
	}
}

func killed() m.Mutant {
	return m.Mutant{
		ID:       "91ab04cc5e6f7a80",
		Seq:      0,
		Category: m.CategoryArithmetic,
		Operator: "% → /",
		Location: m.Location{File: "isEven.js", Line: 2, Column: 12, EnclosingFunction: "isEven"},
		Status:   m.StatusKilled,
		KilledBy: "isEven(4) is true",
	}
}

func sampleReport() m.Report {
	return m.Report{
		RunID:         "0b7e6a52-4c1d-4b8f-9d2e-4f1b5c6d7e8f",
		File:          "isEven.js",
		Mutants:       []m.Mutant{killed(), survivor()},
		OverallScore:  50,
		KilledCount:   1,
		SurvivedCount: 1,
		CategoryBreakdown: []m.CategoryStats{
			{Category: m.CategoryArithmetic, Total: 1, Killed: 1, KillRate: 100, Scored: true},
			{Category: m.CategoryRelational, Total: 1, Survived: 1, KillRate: 0, Scored: true},
		},
		WeakAreas: []m.Category{m.CategoryRelational},
		Patterns: []m.Pattern{
			{File: "isEven.js", Function: "isEven", Total: 2, Survived: 1, SurvivalRate: 0.5},
		},
		Recommendations: []string{"Add boundary tests."},
		Warnings:        []m.Warning{{Line: 7, Message: "mutant outside any known function"}},
		Selection:       &m.SelectionInfo{Candidates: 10, Selected: 2, SelectionRatio: 0.2, EstimatedExecutionTime: 4 * time.Second},
	}
}

func sampleTrend() m.TrendReport {
	base := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

	return m.TrendReport{
		ProjectID:        "parity",
		Trend:            m.TrendImproving,
		ChangePercentage: 30,
		SampleCount:      2,
		Samples: []m.TrendSample{
			{ProjectID: "parity", Timestamp: base, OverallScore: 60, MutantCount: 10},
			{ProjectID: "parity", Timestamp: base.Add(24 * time.Hour), OverallScore: 78, MutantCount: 12},
		},
		Insights: []string{"Mutation score rose from 60.0% to 78.0%."},
	}
}
