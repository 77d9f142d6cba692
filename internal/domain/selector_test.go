package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "gooze.dev/pkg/mutest/internal/model"
)

// candidates builds perCategory pending mutants for each category,
// interleaved the way a generation would number them.
func candidates(perCategory int, categories ...m.Category) []m.Mutant {
	out := make([]m.Mutant, 0, perCategory*len(categories))

	for _, category := range categories {
		for i := 0; i < perCategory; i++ {
			out = append(out, m.Mutant{
				ID:       fmt.Sprintf("%s-%d", category, i),
				Seq:      len(out),
				Category: category,
			})
		}
	}

	return out
}

func countByCategory(mutants []m.Mutant) map[m.Category]int {
	counts := make(map[m.Category]int)
	for _, mutant := range mutants {
		counts[mutant.Category]++
	}

	return counts
}

func TestSelector_BalancedAcrossCategories(t *testing.T) {
	pool := candidates(25, m.CategoryArithmetic, m.CategoryLogical, m.CategoryRelational, m.CategoryConditional)
	constraint := m.SelectionConstraint{MaxMutants: 10, EnsureTypeBalance: true}
	selector := NewSelector(nil)

	first, err := selector.Select(pool, constraint, nil)
	require.NoError(t, err)
	require.Len(t, first.Mutants, 10)

	counts := countByCategory(first.Mutants)
	require.Len(t, counts, 4)

	for category, n := range counts {
		assert.GreaterOrEqual(t, n, 2, "category %s", category)
		assert.LessOrEqual(t, n, 3, "category %s", category)
	}

	// Remainder slots go to the earliest categories.
	assert.Equal(t, 3, counts[m.CategoryArithmetic])
	assert.Equal(t, 3, counts[m.CategoryLogical])
	assert.InDelta(t, 0.1, first.SelectionRatio, 1e-9)

	for i := 1; i < len(first.Mutants); i++ {
		assert.Less(t, first.Mutants[i-1].Seq, first.Mutants[i].Seq)
	}

	for range 5 {
		again, err := selector.Select(pool, constraint, nil)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestSelector_BalancedRedistributesShortCategories(t *testing.T) {
	pool := append(candidates(1, m.CategoryLiteral), candidates(10, m.CategoryArithmetic, m.CategoryUnary)...)
	for i := range pool {
		pool[i].Seq = i
	}

	set, err := NewSelector(nil).Select(pool, m.SelectionConstraint{MaxMutants: 6, EnsureTypeBalance: true}, nil)
	require.NoError(t, err)

	counts := countByCategory(set.Mutants)
	assert.Equal(t, 1, counts[m.CategoryLiteral])
	assert.Equal(t, 3, counts[m.CategoryArithmetic])
	assert.Equal(t, 2, counts[m.CategoryUnary])
}

func TestSelector_ImpactAndThreshold(t *testing.T) {
	pool := candidates(5, m.CategoryArithmetic)
	impact := func(mutant m.Mutant) float64 { return float64(mutant.Seq) / 10 }
	threshold := 0.2

	set, err := NewSelector(nil).Select(pool, m.SelectionConstraint{
		MaxMutants:        2,
		PriorityThreshold: &threshold,
		PerMutantCost:     3 * time.Second,
	}, impact)
	require.NoError(t, err)

	require.Len(t, set.Mutants, 2)
	assert.Equal(t, 3, set.Mutants[0].Seq)
	assert.Equal(t, 4, set.Mutants[1].Seq)
	assert.Equal(t, 6*time.Second, set.EstimatedExecutionTime)
	assert.InDelta(t, 0.4, set.SelectionRatio, 1e-9)
}

func TestSelector_TimeBudgetCapsSubset(t *testing.T) {
	pool := candidates(10, m.CategoryArithmetic)

	set, err := NewSelector(nil).Select(pool, m.SelectionConstraint{
		MaxMutants:    8,
		TimeBudget:    10 * time.Second,
		PerMutantCost: 3 * time.Second,
	}, nil)
	require.NoError(t, err)

	assert.Len(t, set.Mutants, 3)
	assert.LessOrEqual(t, set.EstimatedExecutionTime, 10*time.Second)
}

func TestSelector_FewerCandidatesThanLimit(t *testing.T) {
	pool := candidates(3, m.CategoryStatement)

	set, err := NewSelector(nil).Select(pool, m.SelectionConstraint{MaxMutants: 50, EnsureTypeBalance: true}, nil)
	require.NoError(t, err)
	assert.Len(t, set.Mutants, 3)
	assert.InDelta(t, 1.0, set.SelectionRatio, 1e-9)

	empty, err := NewSelector(nil).Select(nil, m.SelectionConstraint{MaxMutants: 5}, nil)
	require.NoError(t, err)
	assert.Empty(t, empty.Mutants)
	assert.Zero(t, empty.SelectionRatio)
}

func TestSelector_InvalidConstraints(t *testing.T) {
	negative := -0.1
	tooHigh := 1.5

	tests := []struct {
		name       string
		constraint m.SelectionConstraint
	}{
		{"zero max", m.SelectionConstraint{MaxMutants: 0}},
		{"negative max", m.SelectionConstraint{MaxMutants: -3}},
		{"threshold below range", m.SelectionConstraint{MaxMutants: 3, PriorityThreshold: &negative}},
		{"threshold above range", m.SelectionConstraint{MaxMutants: 3, PriorityThreshold: &tooHigh}},
		{"negative budget", m.SelectionConstraint{MaxMutants: 3, TimeBudget: -time.Second}},
		{"budget below one mutant", m.SelectionConstraint{MaxMutants: 3, TimeBudget: time.Second, PerMutantCost: 2 * time.Second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSelector(nil).Select(candidates(4, m.CategoryArithmetic), tt.constraint, nil)

			var selErr *SelectionError
			require.ErrorAs(t, err, &selErr)
		})
	}
}

func TestSelector_FollowsCatalogOrder(t *testing.T) {
	catalog := mustCatalog(t, m.CategoryUnary, m.CategoryArithmetic)
	pool := candidates(4, m.CategoryArithmetic, m.CategoryUnary, m.CategoryLiteral)

	// Unary is in the catalog, so it is served before literal.
	set, err := NewSelector(catalog).Select(pool, m.SelectionConstraint{MaxMutants: 5, EnsureTypeBalance: true}, nil)
	require.NoError(t, err)

	counts := countByCategory(set.Mutants)
	assert.Equal(t, 2, counts[m.CategoryArithmetic])
	assert.Equal(t, 2, counts[m.CategoryUnary])
	assert.Equal(t, 1, counts[m.CategoryLiteral])
}
