package model

import (
	"errors"
	"fmt"
	"time"
)

// UnknownFunction is reported as the enclosing function when a mutant sits
// outside every function the index knows about.
const UnknownFunction = "unknown"

// Status is the lifecycle state of a mutant.
type Status int

const (
	// StatusPending is the state of a freshly generated mutant.
	StatusPending Status = iota
	// StatusKilled indicates at least one test failed against the mutant.
	StatusKilled
	// StatusSurvived indicates the whole suite passed against the mutant.
	StatusSurvived
	// StatusTimedOut indicates the suite exceeded the per-mutant timeout.
	StatusTimedOut
	// StatusErrored indicates the runner crashed for reasons unrelated to the mutant.
	StatusErrored
	// StatusSkipped indicates the mutant was never run to completion.
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusKilled:
		return "killed"
	case StatusSurvived:
		return "survived"
	case StatusTimedOut:
		return "timed_out"
	case StatusErrored:
		return "errored"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is allowed from s.
func (s Status) Terminal() bool {
	return s != StatusPending
}

// Detected reports whether s counts as a kill in the mutation score.
func (s Status) Detected() bool {
	return s == StatusKilled || s == StatusTimedOut
}

// Scored reports whether s belongs to the score denominator.
func (s Status) Scored() bool {
	return s == StatusKilled || s == StatusTimedOut || s == StatusSurvived
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	for candidate := StatusPending; candidate <= StatusSkipped; candidate++ {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}

	return fmt.Errorf("unknown status %q", string(text))
}

// Location attributes a mutant to a place in the source.
type Location struct {
	File              Path   `yaml:"file"`
	Line              int    `yaml:"line"`
	Column            int    `yaml:"column"`
	EnclosingFunction string `yaml:"enclosing_function"`
}

// Span is a half-open byte range [Offset, Offset+Length) of the source.
type Span struct {
	Offset int `yaml:"offset"`
	Length int `yaml:"length"`
}

// End returns the exclusive end offset of the span.
func (s Span) End() int {
	return s.Offset + s.Length
}

// Overlaps reports whether two spans share at least one byte.
func (s Span) Overlaps(other Span) bool {
	return s.Offset < other.End() && other.Offset < s.End()
}

// Mutant is one syntactically altered copy of a source produced by one
// operator at one location.
type Mutant struct {
	ID           string        `yaml:"id"`
	Seq          int           `yaml:"seq"`
	Category     Category      `yaml:"category"`
	Operator     string        `yaml:"operator"`
	Location     Location      `yaml:"location"`
	Span         Span          `yaml:"span"`
	Replacement  string        `yaml:"replacement"`
	OriginalCode string        `yaml:"original_code"`
	MutatedCode  string        `yaml:"mutated_code"`
	Diff         string        `yaml:"diff,omitempty"`
	Status       Status        `yaml:"status"`
	KilledBy     string        `yaml:"killed_by,omitempty"`
	SurvivedBy   []string      `yaml:"survived_by,omitempty"`
	Error        string        `yaml:"error,omitempty"`
	Duration     time.Duration `yaml:"duration,omitempty"`
	Timestamp    time.Time     `yaml:"timestamp"`
}

// Apply returns the full source text with this mutant's rewrite applied.
func (mu Mutant) Apply(source []byte) ([]byte, error) {
	if mu.Span.Offset < 0 || mu.Span.End() > len(source) {
		return nil, fmt.Errorf("mutant %s span [%d,%d) outside source of %d bytes", mu.ID, mu.Span.Offset, mu.Span.End(), len(source))
	}

	out := make([]byte, 0, len(source)-mu.Span.Length+len(mu.Replacement))
	out = append(out, source[:mu.Span.Offset]...)
	out = append(out, mu.Replacement...)
	out = append(out, source[mu.Span.End():]...)

	return out, nil
}

// Outcome is the observed result of running the suite against a mutant.
type Outcome struct {
	Status     Status
	KilledBy   string
	SurvivedBy []string
	Error      string
	Duration   time.Duration
	At         time.Time
}

// ErrTerminalMutant is returned when resolving a mutant that already reached
// a terminal state.
var ErrTerminalMutant = errors.New("mutant already in a terminal state")

// Resolve returns a copy of the mutant carrying the outcome. The receiver is
// left untouched; re-running a resolved mutant must start from a fresh record.
func (mu Mutant) Resolve(outcome Outcome) (Mutant, error) {
	if mu.Status.Terminal() {
		return mu, fmt.Errorf("resolve %s (%s): %w", mu.ID, mu.Status, ErrTerminalMutant)
	}

	if !outcome.Status.Terminal() {
		return mu, fmt.Errorf("resolve %s: outcome status %s is not terminal", mu.ID, outcome.Status)
	}

	resolved := mu
	resolved.Status = outcome.Status
	resolved.KilledBy = ""
	resolved.SurvivedBy = nil
	resolved.Error = outcome.Error
	resolved.Duration = outcome.Duration
	resolved.Timestamp = outcome.At

	switch outcome.Status {
	case StatusKilled:
		resolved.KilledBy = outcome.KilledBy
	case StatusSurvived:
		resolved.SurvivedBy = append([]string(nil), outcome.SurvivedBy...)
	case StatusPending, StatusTimedOut, StatusErrored, StatusSkipped:
	}

	return resolved, nil
}
