package controller

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "gooze.dev/pkg/mutest/internal/model"
)

const (
	recentMutantLines = 6
	maxProgressWidth  = 60
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 2)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	killedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	survivedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	sectionStyle  = lipgloss.NewStyle().Bold(true).MarginTop(1)
)

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output io.Writer

	mu      sync.Mutex
	program *tea.Program
	done    chan struct{}
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start launches the progress view in run mode. Other modes render statically.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if startConfig(options).mode != ModeRun {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.program != nil {
		return nil
	}

	t.program = tea.NewProgram(newRunModel(),
		tea.WithOutput(t.output),
		tea.WithInput(nil),
		tea.WithContext(ctx),
		tea.WithoutSignalHandler(),
	)
	t.done = make(chan struct{})

	go func(program *tea.Program, done chan struct{}) {
		defer close(done)

		_, _ = program.Run()
	}(t.program, t.done)

	return nil
}

// Close stops the progress view and waits for it to restore the terminal.
func (t *TUI) Close(ctx context.Context) {
	t.mu.Lock()
	program := t.program
	t.mu.Unlock()

	if program == nil {
		return
	}

	program.Quit()
	t.Wait(ctx)

	t.mu.Lock()
	t.program = nil
	t.mu.Unlock()
}

// Wait blocks until the progress view exits or ctx ends.
func (t *TUI) Wait(ctx context.Context) {
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()

	if done == nil {
		return
	}

	select {
	case <-done:
	case <-ctx.Done():
	}
}

func (t *TUI) send(msg tea.Msg) {
	t.mu.Lock()
	program := t.program
	t.mu.Unlock()

	if program != nil {
		program.Send(msg)
	}
}

// DisplayMutants renders the generated mutants.
func (t *TUI) DisplayMutants(ctx context.Context, mutants []m.Mutant, warnings []m.Warning) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("mutest - Mutants") + "\n")

	if len(mutants) == 0 {
		b.WriteString(mutedStyle.Render("  No mutants generated") + "\n")
	} else {
		b.WriteString(renderMutantTable(mutants))
	}

	writeWarnings(&b, warnings)

	_, err := fmt.Fprint(t.output, b.String())

	return err
}

// DisplaySelection renders the subset chosen by the selector.
func (t *TUI) DisplaySelection(ctx context.Context, candidates int, set m.SelectedSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("mutest - Selection") + "\n")
	b.WriteString("  " + selectionSummary(candidates, set) + "\n")

	if len(set.Mutants) > 0 {
		b.WriteString(renderMutantTable(set.Mutants))
	}

	_, err := fmt.Fprint(t.output, b.String())

	return err
}

// DisplayRunInfo sets the progress total.
func (t *TUI) DisplayRunInfo(ctx context.Context, mutants int, workers int) {
	if ctx.Err() != nil {
		return
	}

	t.send(runStartedMsg{total: mutants, workers: workers})
}

// DisplayCompletedMutant advances the progress bar.
func (t *TUI) DisplayCompletedMutant(ctx context.Context, mutant m.Mutant) {
	if ctx.Err() != nil {
		return
	}

	t.send(mutantDoneMsg{mutant: mutant})
}

// DisplayReport closes the progress view and renders the report below it.
func (t *TUI) DisplayReport(ctx context.Context, report m.Report) error {
	t.Close(ctx)

	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := fmt.Fprint(t.output, renderStyledReport(report))

	return err
}

// DisplayTrend renders a project's score history.
func (t *TUI) DisplayTrend(ctx context.Context, trend m.TrendReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("mutest - Trend for "+trend.ProjectID) + "\n")
	b.WriteString("  " + trendStyle(trend.Trend).Render(string(trend.Trend)) +
		fmt.Sprintf(" %+.1f%% over %d run(s)\n", trend.ChangePercentage, trend.SampleCount))

	if len(trend.Samples) > 0 {
		b.WriteString(renderTrendTable(trend.Samples))
	}

	for _, insight := range trend.Insights {
		b.WriteString("  💡 " + insight + "\n")
	}

	_, err := fmt.Fprint(t.output, b.String())

	return err
}

// DisplayGate renders the quality gate verdict.
func (t *TUI) DisplayGate(ctx context.Context, score, threshold float64, passed bool) {
	if ctx.Err() != nil {
		return
	}

	style := killedStyle
	if !passed {
		style = survivedStyle
	}

	_, _ = fmt.Fprintln(t.output, style.Render(gateVerdict(score, threshold, passed)))
}

func renderStyledReport(report m.Report) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("mutest - Mutation Report") + "\n")
	fmt.Fprintf(&b, "  %s  %s\n", report.File, mutedStyle.Render(shortID(report.RunID)))
	fmt.Fprintf(&b, "  Score: %s\n", scoreStyle(report).Render(formatScore(report)))
	b.WriteString("  " + countsSummary(report) + "\n")

	if len(report.CategoryBreakdown) > 0 {
		b.WriteString(sectionStyle.Render("  Categories") + "\n")
		b.WriteString(renderBreakdownTable(report.CategoryBreakdown))
	}

	if len(report.WeakAreas) > 0 {
		b.WriteString("  Weak areas: " + warnStyle.Render(joinCategories(report.WeakAreas)) + "\n")
	}

	if hotspots := hotspotPatterns(report.Patterns); len(hotspots) > 0 {
		b.WriteString(sectionStyle.Render("  Hotspots") + "\n")
		b.WriteString(renderPatternTable(hotspots))
	}

	if survivors := survivingMutants(report.Mutants); len(survivors) > 0 {
		b.WriteString(sectionStyle.Render("  Surviving mutants") + "\n")

		for _, mutant := range survivors {
			b.WriteString(survivedStyle.Render(fmt.Sprintf("  ✗ %s:%d:%d %s", mutant.Location.File, mutant.Location.Line, mutant.Location.Column, mutant.Operator)))
			b.WriteString(mutedStyle.Render(" in "+mutant.Location.EnclosingFunction) + "\n")
		}
	}

	if len(report.Recommendations) > 0 {
		b.WriteString(sectionStyle.Render("  Recommendations") + "\n")

		for _, rec := range report.Recommendations {
			b.WriteString("  • " + rec + "\n")
		}
	}

	writeWarnings(&b, report.Warnings)

	return b.String()
}

func writeWarnings(b *strings.Builder, warnings []m.Warning) {
	for _, w := range warnings {
		msg := w.Message
		if w.Line > 0 {
			msg = fmt.Sprintf("line %d: %s", w.Line, w.Message)
		}

		b.WriteString(warnStyle.Render("  ⚠ "+msg) + "\n")
	}
}

func scoreStyle(report m.Report) lipgloss.Style {
	switch {
	case report.InsufficientExecutableMutants:
		return mutedStyle
	case report.OverallScore >= 80:
		return killedStyle.Bold(true)
	case report.OverallScore >= 60:
		return warnStyle.Bold(true)
	default:
		return survivedStyle.Bold(true)
	}
}

func trendStyle(trend m.Trend) lipgloss.Style {
	switch trend {
	case m.TrendImproving:
		return killedStyle
	case m.TrendDeclining:
		return survivedStyle
	case m.TrendStable, m.TrendInsufficientData:
		return mutedStyle
	}

	return mutedStyle
}

func statusStyle(status m.Status) lipgloss.Style {
	switch status {
	case m.StatusKilled, m.StatusTimedOut:
		return killedStyle
	case m.StatusSurvived:
		return survivedStyle
	case m.StatusErrored:
		return warnStyle
	case m.StatusPending, m.StatusSkipped:
		return mutedStyle
	}

	return mutedStyle
}

type runStartedMsg struct {
	total   int
	workers int
}

type mutantDoneMsg struct {
	mutant m.Mutant
}

// runModel is the Bubble Tea model behind the run progress view.
type runModel struct {
	progress progress.Model
	total    int
	workers  int
	counts   m.Counts
	recent   []string
	quitting bool
}

func newRunModel() runModel {
	return runModel{
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		recent:   make([]string, 0, recentMutantLines),
	}
}

func (rm runModel) Init() tea.Cmd {
	return nil
}

func (rm runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		rm.progress.Width = max(10, min(msg.Width-4, maxProgressWidth))
		return rm, nil

	case runStartedMsg:
		rm.total = msg.total
		rm.workers = msg.workers

		return rm, nil

	case mutantDoneMsg:
		rm.counts.Add(msg.mutant.Status)

		line := fmt.Sprintf("%s %s:%d %s", msg.mutant.Status, msg.mutant.Location.File, msg.mutant.Location.Line, msg.mutant.Operator)
		rm.recent = append(rm.recent, statusStyle(msg.mutant.Status).Render(line))

		if len(rm.recent) > recentMutantLines {
			rm.recent = rm.recent[len(rm.recent)-recentMutantLines:]
		}

		return rm, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			rm.quitting = true
			return rm, tea.Quit
		}
	}

	return rm, nil
}

// ratio is the completed share of the batch.
func (rm runModel) ratio() float64 {
	if rm.total == 0 {
		return 0
	}

	return min(1, float64(rm.counts.Total)/float64(rm.total))
}

func (rm runModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("mutest - Mutation Testing") + "\n\n")

	if rm.total == 0 {
		b.WriteString(mutedStyle.Render("  Running the unmutated suite...") + "\n")
		return b.String()
	}

	fmt.Fprintf(&b, "  %s %d/%d\n", rm.progress.ViewAs(rm.ratio()), rm.counts.Total, rm.total)
	fmt.Fprintf(&b, "  %s · %s · errored %d · skipped %d · %d worker(s)\n\n",
		killedStyle.Render(fmt.Sprintf("killed %d", rm.counts.Detected())),
		survivedStyle.Render(fmt.Sprintf("survived %d", rm.counts.Survived)),
		rm.counts.Errored, rm.counts.Skipped, rm.workers)

	for _, line := range rm.recent {
		b.WriteString("  " + line + "\n")
	}

	return b.String()
}
