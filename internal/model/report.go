package model

import "time"

// Counts is the exact status accounting of a run.
type Counts struct {
	Total    int `yaml:"total"`
	Killed   int `yaml:"killed"`
	TimedOut int `yaml:"timed_out"`
	Survived int `yaml:"survived"`
	Errored  int `yaml:"errored"`
	Skipped  int `yaml:"skipped"`
	Pending  int `yaml:"pending,omitempty"`
}

// Add records one mutant with the given status.
func (c *Counts) Add(status Status) {
	c.Total++

	switch status {
	case StatusKilled:
		c.Killed++
	case StatusTimedOut:
		c.TimedOut++
	case StatusSurvived:
		c.Survived++
	case StatusErrored:
		c.Errored++
	case StatusSkipped:
		c.Skipped++
	case StatusPending:
		c.Pending++
	}
}

// Detected is the number of mutants counted as kills.
func (c Counts) Detected() int {
	return c.Killed + c.TimedOut
}

// Scored is the score denominator.
func (c Counts) Scored() int {
	return c.Killed + c.TimedOut + c.Survived
}

// CategoryStats is the per-category slice of a run.
type CategoryStats struct {
	Category Category `yaml:"category"`
	Total    int      `yaml:"total"`
	Killed   int      `yaml:"killed"`
	TimedOut int      `yaml:"timed_out"`
	Survived int      `yaml:"survived"`
	Errored  int      `yaml:"errored"`
	Skipped  int      `yaml:"skipped"`
	// KillRate is a percentage; it is meaningful only when Scored is true.
	KillRate float64 `yaml:"kill_rate"`
	Scored   bool    `yaml:"scored"`
}

// Pattern groups the scored mutants of one function.
type Pattern struct {
	File           Path    `yaml:"file"`
	Function       string  `yaml:"function"`
	Total          int     `yaml:"total"`
	Survived       int     `yaml:"survived"`
	SurvivalRate   float64 `yaml:"survival_rate"`
	Hotspot        bool    `yaml:"hotspot"`
	Recommendation string  `yaml:"recommendation,omitempty"`
}

// MutationRun is the immutable outcome of one source+test snapshot.
type MutationRun struct {
	Mutants                       []Mutant        `yaml:"mutants"`
	Counts                        Counts          `yaml:"counts"`
	OverallScore                  float64         `yaml:"overall_score"`
	InsufficientExecutableMutants bool            `yaml:"insufficient_executable_mutants"`
	CategoryBreakdown             []CategoryStats `yaml:"category_breakdown"`
	WeakAreas                     []Category      `yaml:"weak_areas"`
	Patterns                      []Pattern       `yaml:"patterns"`
}

// Hotspots returns the patterns flagged as hotspots.
func (r MutationRun) Hotspots() []Pattern {
	hotspots := make([]Pattern, 0)

	for _, p := range r.Patterns {
		if p.Hotspot {
			hotspots = append(hotspots, p)
		}
	}

	return hotspots
}

// Warning is a non-fatal note attached to a generation or run.
type Warning struct {
	Line    int    `yaml:"line"`
	Message string `yaml:"message"`
}

// Report is the document handed to dashboard and report collaborators.
type Report struct {
	RunID                         string          `yaml:"run_id"`
	ProjectID                     string          `yaml:"project_id,omitempty"`
	Language                      Language        `yaml:"language"`
	File                          Path            `yaml:"file"`
	StartedAt                     time.Time       `yaml:"started_at"`
	Duration                      time.Duration   `yaml:"duration"`
	Mutants                       []Mutant        `yaml:"mutants"`
	OverallScore                  float64         `yaml:"overall_score"`
	KilledCount                   int             `yaml:"killed_count"`
	TimedOutCount                 int             `yaml:"timed_out_count"`
	SurvivedCount                 int             `yaml:"survived_count"`
	ErroredCount                  int             `yaml:"errored_count"`
	SkippedCount                  int             `yaml:"skipped_count"`
	InsufficientExecutableMutants bool            `yaml:"insufficient_executable_mutants"`
	CategoryBreakdown             []CategoryStats `yaml:"category_breakdown"`
	WeakAreas                     []Category      `yaml:"weak_areas"`
	Patterns                      []Pattern       `yaml:"patterns"`
	Recommendations               []string        `yaml:"recommendations"`
	Warnings                      []Warning       `yaml:"warnings,omitempty"`
	Selection                     *SelectionInfo  `yaml:"selection,omitempty"`
}

// SelectionInfo records how a run's mutants were narrowed down.
type SelectionInfo struct {
	Candidates             int           `yaml:"candidates"`
	Selected               int           `yaml:"selected"`
	SelectionRatio         float64       `yaml:"selection_ratio"`
	EstimatedExecutionTime time.Duration `yaml:"estimated_execution_time"`
}
