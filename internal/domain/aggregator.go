package domain

import (
	"fmt"
	"sort"

	m "gooze.dev/pkg/mutest/internal/model"
)

// AggregateOptions tunes the weak-area and hotspot heuristics.
type AggregateOptions struct {
	// WeakThreshold is the kill rate percentage below which a category is weak.
	WeakThreshold float64
	// HotspotMinSize is the smallest group of scored mutants that can be a
	// hotspot.
	HotspotMinSize int
	// HotspotSurvivalRate is the survival fraction a hotspot must exceed.
	HotspotSurvivalRate float64
}

// DefaultAggregateOptions returns the standard thresholds.
func DefaultAggregateOptions() AggregateOptions {
	return AggregateOptions{
		WeakThreshold:       70,
		HotspotMinSize:      3,
		HotspotSurvivalRate: 0.5,
	}
}

// Aggregate derives the scores and patterns of a completed run. Timed out
// mutants count as kills; errored and skipped ones stay out of every rate.
func Aggregate(mutants []m.Mutant, opts AggregateOptions) m.MutationRun {
	run := m.MutationRun{
		Mutants:   append([]m.Mutant(nil), mutants...),
		WeakAreas: make([]m.Category, 0),
	}

	perCategory := make(map[m.Category]*m.CategoryStats)

	for _, mutant := range mutants {
		run.Counts.Add(mutant.Status)

		stats, ok := perCategory[mutant.Category]
		if !ok {
			stats = &m.CategoryStats{Category: mutant.Category}
			perCategory[mutant.Category] = stats
		}

		addToCategory(stats, mutant.Status)
	}

	if scored := run.Counts.Scored(); scored > 0 {
		run.OverallScore = percentage(run.Counts.Detected(), scored)
	} else {
		run.InsufficientExecutableMutants = true
	}

	run.CategoryBreakdown = make([]m.CategoryStats, 0, len(perCategory))

	for _, category := range m.AllCategories() {
		stats, ok := perCategory[category]
		if !ok {
			continue
		}

		if scored := stats.Killed + stats.TimedOut + stats.Survived; scored > 0 {
			stats.Scored = true
			stats.KillRate = percentage(stats.Killed+stats.TimedOut, scored)

			if stats.KillRate < opts.WeakThreshold {
				run.WeakAreas = append(run.WeakAreas, category)
			}
		}

		run.CategoryBreakdown = append(run.CategoryBreakdown, *stats)
	}

	run.Patterns = patterns(mutants, opts)

	return run
}

func addToCategory(stats *m.CategoryStats, status m.Status) {
	stats.Total++

	switch status {
	case m.StatusKilled:
		stats.Killed++
	case m.StatusTimedOut:
		stats.TimedOut++
	case m.StatusSurvived:
		stats.Survived++
	case m.StatusErrored:
		stats.Errored++
	case m.StatusSkipped:
		stats.Skipped++
	case m.StatusPending:
	}
}

func percentage(part, whole int) float64 {
	return float64(part) / float64(whole) * 100
}

type patternKey struct {
	file     m.Path
	function string
}

// patterns groups scored mutants by function and keeps the groups with
// survivors, worst first.
func patterns(mutants []m.Mutant, opts AggregateOptions) []m.Pattern {
	groups := make(map[patternKey]*m.Pattern)

	for _, mutant := range mutants {
		if !mutant.Status.Scored() {
			continue
		}

		key := patternKey{file: mutant.Location.File, function: mutant.Location.EnclosingFunction}

		group, ok := groups[key]
		if !ok {
			group = &m.Pattern{File: key.file, Function: key.function}
			groups[key] = group
		}

		group.Total++

		if mutant.Status == m.StatusSurvived {
			group.Survived++
		}
	}

	result := make([]m.Pattern, 0, len(groups))

	for _, group := range groups {
		if group.Survived == 0 {
			continue
		}

		group.SurvivalRate = float64(group.Survived) / float64(group.Total)
		group.Hotspot = group.Total >= opts.HotspotMinSize && group.SurvivalRate > opts.HotspotSurvivalRate

		if group.Hotspot {
			group.Recommendation = fmt.Sprintf("review test coverage for %s in %s: %d of %d mutants survived",
				group.Function, group.File, group.Survived, group.Total)
		}

		result = append(result, *group)
	}

	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.SurvivalRate != b.SurvivalRate {
			return a.SurvivalRate > b.SurvivalRate
		}

		if a.File != b.File {
			return a.File < b.File
		}

		return a.Function < b.Function
	})

	return result
}

var categoryGuidance = map[m.Category]string{
	m.CategoryArithmetic:  "Arithmetic mutants survive: assert exact computed values, not just their sign or presence.",
	m.CategoryLogical:     "Logical mutants survive: cover each operand of compound conditions on its own.",
	m.CategoryRelational:  "Relational mutants survive: add boundary tests on both sides of every comparison.",
	m.CategoryConditional: "Conditional mutants survive: exercise both the taken and the skipped branch of every guard.",
	m.CategoryLiteral:     "Literal mutants survive: assert on constants, default values and string contents.",
	m.CategoryUnary:       "Unary mutants survive: check counters and loop bounds after increments and decrements.",
	m.CategoryStatement:   "Statement mutants survive: assert on returned values instead of only calling the function.",
}

// Recommendations turns a run into human guidance.
func Recommendations(run m.MutationRun) []string {
	recs := make([]string, 0)

	switch {
	case run.InsufficientExecutableMutants:
		recs = append(recs, "No mutant could be scored: check that the test command exercises this source.")
	case run.OverallScore < 60:
		recs = append(recs, fmt.Sprintf("Mutation score %.1f%% is poor: most injected faults go unnoticed by the suite.", run.OverallScore))
	case run.OverallScore < 80:
		recs = append(recs, fmt.Sprintf("Mutation score %.1f%% is good but incomplete: strengthen the weak areas below.", run.OverallScore))
	default:
		recs = append(recs, fmt.Sprintf("Mutation score %.1f%% is excellent: the suite detects most injected faults.", run.OverallScore))
	}

	for _, category := range run.WeakAreas {
		if guidance, ok := categoryGuidance[category]; ok {
			recs = append(recs, guidance)
		}
	}

	for _, hotspot := range run.Hotspots() {
		recs = append(recs, hotspot.Recommendation)
	}

	if run.Counts.Errored > 0 {
		recs = append(recs, fmt.Sprintf("%d mutant(s) errored and were left out of the score; review them manually.", run.Counts.Errored))
	}

	if run.Counts.Skipped > 0 {
		recs = append(recs, fmt.Sprintf("%d mutant(s) were skipped when the run budget ran out.", run.Counts.Skipped))
	}

	return recs
}
