package domain

import (
	"fmt"
	"sort"

	m "gooze.dev/pkg/mutest/internal/model"
)

// trendBand is the relative change, in percent, beyond which a series is
// improving or declining.
const trendBand = 10.0

// AnalyzeTrend classifies a project's score history. Samples are ordered by
// timestamp before the first and last are compared.
func AnalyzeTrend(samples []m.TrendSample) m.TrendReport {
	ordered := append([]m.TrendSample(nil), samples...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	report := m.TrendReport{
		Trend:       m.TrendInsufficientData,
		SampleCount: len(ordered),
		Samples:     ordered,
		Insights:    make([]string, 0, 2),
	}

	if len(ordered) > 0 {
		report.ProjectID = ordered[0].ProjectID
	}

	if len(ordered) < 2 {
		report.Insights = append(report.Insights, fmt.Sprintf("Only %d run(s) recorded: at least two are needed to see a trend.", len(ordered)))
		return report
	}

	first, last := ordered[0], ordered[len(ordered)-1]
	report.First, report.Last = &first, &last
	report.ChangePercentage = changePercentage(first.OverallScore, last.OverallScore)

	switch {
	case report.ChangePercentage > trendBand:
		report.Trend = m.TrendImproving
		report.Insights = append(report.Insights,
			fmt.Sprintf("Mutation score rose from %.1f%% to %.1f%%: new tests are catching more faults.", first.OverallScore, last.OverallScore))
	case report.ChangePercentage < -trendBand:
		report.Trend = m.TrendDeclining
		report.Insights = append(report.Insights,
			fmt.Sprintf("Mutation score fell from %.1f%% to %.1f%%: recent changes are not covered as well as older code.", first.OverallScore, last.OverallScore),
			"Review surviving mutants in recently changed functions before the gap widens.")
	default:
		report.Trend = m.TrendStable
		report.Insights = append(report.Insights,
			fmt.Sprintf("Mutation score is holding around %.1f%%.", last.OverallScore))
	}

	if last.MutantCount > 0 && first.MutantCount > 0 && last.MutantCount >= 2*first.MutantCount && len(report.Insights) < 2 {
		report.Insights = append(report.Insights,
			fmt.Sprintf("The number of mutants grew from %d to %d, so the code under test grew as well.", first.MutantCount, last.MutantCount))
	}

	return report
}

// changePercentage is the change relative to the first score. A zero first
// score has no relative change: 0 when the last is also 0, otherwise +100.
func changePercentage(first, last float64) float64 {
	if first == 0 {
		if last == 0 {
			return 0
		}

		return 100
	}

	return (last - first) / first * 100
}
