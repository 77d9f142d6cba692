package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInputValidation is matched (errors.Is) by every configuration-level
// input error. Such errors abort before any generation starts.
var ErrInputValidation = errors.New("invalid input")

// MissingInputError reports a required input that is absent or empty.
type MissingInputError struct {
	Field string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("missing required input: %s", e.Field)
}

// Is makes MissingInputError match ErrInputValidation.
func (e *MissingInputError) Is(target error) bool {
	return target == ErrInputValidation
}

// UnsupportedCategoryError reports a category the catalog does not know.
type UnsupportedCategoryError struct {
	Category string
}

func (e *UnsupportedCategoryError) Error() string {
	return fmt.Sprintf("unsupported mutation category: %s", e.Category)
}

// Is makes UnsupportedCategoryError match ErrInputValidation.
func (e *UnsupportedCategoryError) Is(target error) bool {
	return target == ErrInputValidation
}

// TimeoutConfigurationError reports a per-mutant timeout below the minimum.
type TimeoutConfigurationError struct {
	Timeout time.Duration
	Minimum time.Duration
}

func (e *TimeoutConfigurationError) Error() string {
	return fmt.Sprintf("mutant timeout %s is below the minimum of %s", e.Timeout, e.Minimum)
}

// Is makes TimeoutConfigurationError match ErrInputValidation.
func (e *TimeoutConfigurationError) Is(target error) bool {
	return target == ErrInputValidation
}

// SelectionError reports constraints that cannot produce a meaningful subset.
type SelectionError struct {
	Reason string
}

func (e *SelectionError) Error() string {
	return "invalid selection constraint: " + e.Reason
}

// BatchFatalError aborts a whole run, typically because the test runner is
// unavailable or the unmutated suite is already failing.
type BatchFatalError struct {
	Reason string
	Err    error
}

func (e *BatchFatalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mutation run aborted: %s: %v", e.Reason, e.Err)
	}

	return "mutation run aborted: " + e.Reason
}

func (e *BatchFatalError) Unwrap() error {
	return e.Err
}

// ExecutionError is the per-mutant failure of the tooling itself. It never
// escapes the executor; the mutant is marked ERRORED instead.
type ExecutionError struct {
	MutantID string
	Err      error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("mutant %s: execution failed: %v", e.MutantID, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// TimeoutError is the per-mutant timeout. It never escapes the executor; the
// mutant is marked TIMED_OUT instead.
type TimeoutError struct {
	MutantID string
	Timeout  time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("mutant %s: test command exceeded %s", e.MutantID, e.Timeout)
}

// GenerationWarning is a non-fatal note produced while generating mutants.
type GenerationWarning struct {
	Line    int
	Message string
}

func (w GenerationWarning) String() string {
	return fmt.Sprintf("line %d: %s", w.Line, w.Message)
}
