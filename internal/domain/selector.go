package domain

import (
	"fmt"
	"sort"
	"time"

	m "gooze.dev/pkg/mutest/internal/model"
)

// ImpactFunc estimates how much a mutant matters, in [0,1].
type ImpactFunc func(m.Mutant) float64

// UniformImpact rates every mutant the same.
func UniformImpact(m.Mutant) float64 {
	return 1
}

// Selector chooses a bounded subset of candidates before execution.
type Selector interface {
	Select(candidates []m.Mutant, constraint m.SelectionConstraint, impact ImpactFunc) (m.SelectedSet, error)
}

type selector struct {
	catalog *Catalog
}

// NewSelector creates a Selector that balances categories in the order of
// catalog. A nil catalog uses every built-in category.
func NewSelector(catalog *Catalog) Selector {
	if catalog == nil {
		catalog, _ = BuildCatalog()
	}

	return &selector{catalog: catalog}
}

type ranked struct {
	mutant m.Mutant
	impact float64
}

func (s *selector) Select(candidates []m.Mutant, constraint m.SelectionConstraint, impact ImpactFunc) (m.SelectedSet, error) {
	limit, err := effectiveLimit(constraint)
	if err != nil {
		return m.SelectedSet{}, err
	}

	if impact == nil {
		impact = UniformImpact
	}

	pool := make([]ranked, 0, len(candidates))

	for _, mutant := range candidates {
		score := impact(mutant)
		if constraint.PriorityThreshold != nil && score < *constraint.PriorityThreshold {
			continue
		}

		pool = append(pool, ranked{mutant: mutant, impact: score})
	}

	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].impact != pool[j].impact {
			return pool[i].impact > pool[j].impact
		}

		return pool[i].mutant.Seq < pool[j].mutant.Seq
	})

	var chosen []m.Mutant
	if constraint.EnsureTypeBalance {
		chosen = s.balanced(pool, limit)
	} else {
		chosen = make([]m.Mutant, 0, min(limit, len(pool)))
		for _, r := range pool[:min(limit, len(pool))] {
			chosen = append(chosen, r.mutant)
		}
	}

	sort.SliceStable(chosen, func(i, j int) bool { return chosen[i].Seq < chosen[j].Seq })

	set := m.SelectedSet{
		Mutants:                chosen,
		EstimatedExecutionTime: time.Duration(len(chosen)) * constraint.PerMutantCost,
	}

	if len(candidates) > 0 {
		set.SelectionRatio = float64(len(chosen)) / float64(len(candidates))
	}

	return set, nil
}

// effectiveLimit validates the constraint and folds the time budget into the
// maximum subset size.
func effectiveLimit(c m.SelectionConstraint) (int, error) {
	if c.MaxMutants <= 0 {
		return 0, &SelectionError{Reason: fmt.Sprintf("maxMutants must be positive, got %d", c.MaxMutants)}
	}

	if c.PriorityThreshold != nil && (*c.PriorityThreshold < 0 || *c.PriorityThreshold > 1) {
		return 0, &SelectionError{Reason: fmt.Sprintf("priority threshold %.2f outside [0,1]", *c.PriorityThreshold)}
	}

	if c.TimeBudget < 0 || c.PerMutantCost < 0 {
		return 0, &SelectionError{Reason: "time budget and per-mutant cost cannot be negative"}
	}

	limit := c.MaxMutants

	if c.TimeBudget > 0 && c.PerMutantCost > 0 {
		affordable := int(c.TimeBudget / c.PerMutantCost)
		if affordable == 0 {
			return 0, &SelectionError{Reason: fmt.Sprintf("time budget %s cannot fit one mutant costing %s", c.TimeBudget, c.PerMutantCost)}
		}

		limit = min(limit, affordable)
	}

	return limit, nil
}

// balanced splits limit evenly across the categories present, giving the
// remainder to the earliest categories in catalog order. Slots a category
// cannot fill go round-robin to the others, never past quota+1.
func (s *selector) balanced(pool []ranked, limit int) []m.Mutant {
	byCategory := make(map[m.Category][]m.Mutant)
	for _, r := range pool {
		byCategory[r.mutant.Category] = append(byCategory[r.mutant.Category], r.mutant)
	}

	// Catalog order first; categories the catalog lacks follow in enum order.
	order := make([]m.Category, 0, len(byCategory))

	for _, category := range s.catalog.Categories() {
		if len(byCategory[category]) > 0 {
			order = append(order, category)
		}
	}

	for _, category := range m.AllCategories() {
		if len(byCategory[category]) > 0 && s.catalog.Rank(category) < 0 {
			order = append(order, category)
		}
	}

	if len(order) == 0 {
		return nil
	}

	quota := limit / len(order)
	remainder := limit % len(order)
	taken := make(map[m.Category]int, len(order))
	left := limit

	for i, category := range order {
		want := quota
		if i < remainder {
			want++
		}

		n := min(want, len(byCategory[category]))
		taken[category] = n
		left -= n
	}

	for left > 0 {
		progressed := false

		for _, category := range order {
			if left == 0 {
				break
			}

			if taken[category] < len(byCategory[category]) && taken[category] < quota+1 {
				taken[category]++
				left--
				progressed = true
			}
		}

		if !progressed {
			break
		}
	}

	chosen := make([]m.Mutant, 0, limit-left)
	for _, category := range order {
		chosen = append(chosen, byCategory[category][:taken[category]]...)
	}

	return chosen
}
