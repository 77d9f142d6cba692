package model

import "time"

// SelectionConstraint bounds the subset of mutants worth executing.
type SelectionConstraint struct {
	MaxMutants int
	// PriorityThreshold drops candidates whose impact is below it. Impacts
	// are expected in [0,1].
	PriorityThreshold *float64
	// TimeBudget caps the estimated execution time of the subset and, at run
	// time, the wall clock of the whole batch.
	TimeBudget        time.Duration
	EnsureTypeBalance bool
	// PerMutantCost is the estimated cost of executing a single mutant.
	PerMutantCost time.Duration
}

// SelectedSet is the outcome of a selection.
type SelectedSet struct {
	Mutants                []Mutant
	SelectionRatio         float64
	EstimatedExecutionTime time.Duration
}
