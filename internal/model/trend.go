package model

import "time"

// TrendSample is appended once per completed run and never modified.
type TrendSample struct {
	ProjectID    string    `yaml:"project_id"`
	Timestamp    time.Time `yaml:"timestamp"`
	OverallScore float64   `yaml:"overall_score"`
	MutantCount  int       `yaml:"mutant_count"`
}

// TimeRange is an inclusive time window. Zero bounds are open.
type TimeRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the range.
func (r TimeRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}

	if !r.To.IsZero() && t.After(r.To) {
		return false
	}

	return true
}

// Trend classifies the direction of a project's mutation score.
type Trend string

// Trend classifications.
const (
	TrendInsufficientData Trend = "INSUFFICIENT_DATA"
	TrendImproving        Trend = "IMPROVING"
	TrendDeclining        Trend = "DECLINING"
	TrendStable           Trend = "STABLE"
)

// TrendReport summarises a series of samples.
type TrendReport struct {
	ProjectID        string        `yaml:"project_id"`
	Trend            Trend         `yaml:"trend"`
	ChangePercentage float64       `yaml:"change_percentage"`
	SampleCount      int           `yaml:"sample_count"`
	First            *TrendSample  `yaml:"first,omitempty"`
	Last             *TrendSample  `yaml:"last,omitempty"`
	Insights         []string      `yaml:"insights"`
	Samples          []TrendSample `yaml:"samples,omitempty"`
}
