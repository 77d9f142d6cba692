package controller

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "gooze.dev/pkg/mutest/internal/model"
)

const shortIDLength = 8

// SimpleUI implements UI using cobra Command's output writer.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(_ context.Context) {}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(_ context.Context) {}

// DisplayMutants prints the generated mutants and any generation warnings.
func (s *SimpleUI) DisplayMutants(ctx context.Context, mutants []m.Mutant, warnings []m.Warning) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(mutants) == 0 {
		s.printf("No mutants generated\n")
	} else {
		s.printf("\n%s", renderMutantTable(mutants))
	}

	s.printWarnings(warnings)

	return nil
}

// DisplaySelection prints the subset chosen by the selector.
func (s *SimpleUI) DisplaySelection(ctx context.Context, candidates int, set m.SelectedSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("%s\n", selectionSummary(candidates, set))

	if len(set.Mutants) > 0 {
		s.printf("\n%s", renderMutantTable(set.Mutants))
	}

	return nil
}

// DisplayRunInfo shows how many mutants are about to run.
func (s *SimpleUI) DisplayRunInfo(ctx context.Context, mutants int, workers int) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Running %d mutant(s) with %d worker(s)\n", mutants, workers)
}

// DisplayCompletedMutant shows a finished mutant and, for survivors, its diff.
func (s *SimpleUI) DisplayCompletedMutant(ctx context.Context, mutant m.Mutant) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Completed mutant %s (%s %s) -> %s\n", shortID(mutant.ID), mutant.Category, mutant.Operator, mutant.Status)

	if mutant.Status == m.StatusSurvived && mutant.Diff != "" {
		s.printf("%s\n", strings.TrimRight(mutant.Diff, "\n"))
	}
}

// DisplayReport prints the full run report.
func (s *SimpleUI) DisplayReport(ctx context.Context, report m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\nMutation report %s for %s\n", shortID(report.RunID), report.File)
	s.printf("%s\n", countsSummary(report))

	if report.Selection != nil {
		s.printf("%s\n", selectionSummary(report.Selection.Candidates, m.SelectedSet{
			Mutants:                make([]m.Mutant, report.Selection.Selected),
			SelectionRatio:         report.Selection.SelectionRatio,
			EstimatedExecutionTime: report.Selection.EstimatedExecutionTime,
		}))
	}

	if len(report.CategoryBreakdown) > 0 {
		s.printf("\n%s", renderBreakdownTable(report.CategoryBreakdown))
	}

	if len(report.WeakAreas) > 0 {
		s.printf("\nWeak areas: %s\n", joinCategories(report.WeakAreas))
	}

	if hotspots := hotspotPatterns(report.Patterns); len(hotspots) > 0 {
		s.printf("\nHotspots:\n%s", renderPatternTable(hotspots))
	}

	if survivors := survivingMutants(report.Mutants); len(survivors) > 0 {
		s.printf("\nSurviving mutants:\n")

		for _, mutant := range survivors {
			s.printf("  %s:%d:%d %s (%s)\n", mutant.Location.File, mutant.Location.Line, mutant.Location.Column, mutant.Operator, mutant.Location.EnclosingFunction)

			if mutant.Diff != "" {
				s.printf("%s\n", indent(strings.TrimRight(mutant.Diff, "\n"), "    "))
			}
		}
	}

	if len(report.Recommendations) > 0 {
		s.printf("\nRecommendations:\n")

		for _, rec := range report.Recommendations {
			s.printf("  - %s\n", rec)
		}
	}

	s.printWarnings(report.Warnings)
	s.printf("\nMutation score: %s\n", formatScore(report))

	return nil
}

// DisplayTrend prints a project's score history.
func (s *SimpleUI) DisplayTrend(ctx context.Context, trend m.TrendReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("Trend for %s: %s (%+.1f%%) over %d run(s)\n", trend.ProjectID, trend.Trend, trend.ChangePercentage, trend.SampleCount)

	if len(trend.Samples) > 0 {
		s.printf("\n%s", renderTrendTable(trend.Samples))
	}

	for _, insight := range trend.Insights {
		s.printf("  - %s\n", insight)
	}

	return nil
}

// DisplayGate prints the quality gate verdict.
func (s *SimpleUI) DisplayGate(ctx context.Context, score, threshold float64, passed bool) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s\n", gateVerdict(score, threshold, passed))
}

func (s *SimpleUI) printWarnings(warnings []m.Warning) {
	for _, w := range warnings {
		if w.Line > 0 {
			s.printf("warning: line %d: %s\n", w.Line, w.Message)
			continue
		}

		s.printf("warning: %s\n", w.Message)
	}
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func newTable(buf *bytes.Buffer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(buf)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	return table
}

func renderMutantTable(mutants []m.Mutant) string {
	var tableBuffer bytes.Buffer

	table := newTable(&tableBuffer, []string{"#", "Line", "Category", "Operator", "Function"})
	table.SetColumnAlignment([]int{tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})

	for _, mutant := range mutants {
		table.Append([]string{
			fmt.Sprintf("%d", mutant.Seq),
			fmt.Sprintf("%d:%d", mutant.Location.Line, mutant.Location.Column),
			mutant.Category.String(),
			mutant.Operator,
			mutant.Location.EnclosingFunction,
		})
	}

	table.SetFooter([]string{"", "", "", "Total", fmt.Sprintf("%d", len(mutants))})
	table.Render()

	return tableBuffer.String()
}

func renderBreakdownTable(breakdown []m.CategoryStats) string {
	var tableBuffer bytes.Buffer

	table := newTable(&tableBuffer, []string{"Category", "Killed", "Timed out", "Survived", "Errored", "Skipped", "Kill rate"})

	for _, stats := range breakdown {
		rate := "n/a"
		if stats.Scored {
			rate = fmt.Sprintf("%.1f%%", stats.KillRate)
		}

		table.Append([]string{
			stats.Category.String(),
			fmt.Sprintf("%d", stats.Killed),
			fmt.Sprintf("%d", stats.TimedOut),
			fmt.Sprintf("%d", stats.Survived),
			fmt.Sprintf("%d", stats.Errored),
			fmt.Sprintf("%d", stats.Skipped),
			rate,
		})
	}

	table.Render()

	return tableBuffer.String()
}

func renderPatternTable(patterns []m.Pattern) string {
	var tableBuffer bytes.Buffer

	table := newTable(&tableBuffer, []string{"Function", "Mutants", "Survived", "Survival"})

	for _, p := range patterns {
		table.Append([]string{
			p.Function,
			fmt.Sprintf("%d", p.Total),
			fmt.Sprintf("%d", p.Survived),
			fmt.Sprintf("%.0f%%", p.SurvivalRate*100),
		})
	}

	table.Render()

	return tableBuffer.String()
}

func renderTrendTable(samples []m.TrendSample) string {
	var tableBuffer bytes.Buffer

	table := newTable(&tableBuffer, []string{"Recorded", "Score", "Mutants"})

	for _, sample := range samples {
		table.Append([]string{
			sample.Timestamp.UTC().Format("2006-01-02 15:04"),
			fmt.Sprintf("%.1f%%", sample.OverallScore),
			fmt.Sprintf("%d", sample.MutantCount),
		})
	}

	table.Render()

	return tableBuffer.String()
}

func countsSummary(report m.Report) string {
	return fmt.Sprintf("Mutants: %d | Killed: %d | Timed out: %d | Survived: %d | Errored: %d | Skipped: %d",
		len(report.Mutants), report.KilledCount, report.TimedOutCount, report.SurvivedCount, report.ErroredCount, report.SkippedCount)
}

func selectionSummary(candidates int, set m.SelectedSet) string {
	return fmt.Sprintf("Selected %d of %d mutant(s) (%.0f%%), estimated %s",
		len(set.Mutants), candidates, set.SelectionRatio*100, set.EstimatedExecutionTime)
}

func gateVerdict(score, threshold float64, passed bool) string {
	if passed {
		return fmt.Sprintf("Quality gate passed: score %.1f%% >= threshold %.1f%%", score, threshold)
	}

	return fmt.Sprintf("Quality gate failed: score %.1f%% < threshold %.1f%%", score, threshold)
}

func formatScore(report m.Report) string {
	if report.InsufficientExecutableMutants {
		return "n/a (no executable mutants)"
	}

	return fmt.Sprintf("%.2f%%", report.OverallScore)
}

func hotspotPatterns(patterns []m.Pattern) []m.Pattern {
	return m.MutationRun{Patterns: patterns}.Hotspots()
}

func survivingMutants(mutants []m.Mutant) []m.Mutant {
	survivors := make([]m.Mutant, 0)

	for _, mutant := range mutants {
		if mutant.Status == m.StatusSurvived {
			survivors = append(survivors, mutant)
		}
	}

	return survivors
}

func joinCategories(categories []m.Category) string {
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.String())
	}

	return strings.Join(names, ", ")
}

func shortID(id string) string {
	if len(id) > shortIDLength {
		return id[:shortIDLength]
	}

	return id
}

func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}

	return strings.Join(lines, "\n")
}
