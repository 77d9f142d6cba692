package domain

import (
	"gooze.dev/pkg/mutest/internal/domain/mutagens"
	m "gooze.dev/pkg/mutest/internal/model"
)

// Catalog is the immutable set of operators selected for a run, in catalog
// order. It is built once and shared by reference.
type Catalog struct {
	operators []mutagens.Operator
}

// BuildCatalog returns the operators for the given categories. An empty list
// selects every built-in category.
func BuildCatalog(categories ...m.Category) (*Catalog, error) {
	if len(categories) == 0 {
		categories = m.AllCategories()
	}

	wanted := make(map[m.Category]bool, len(categories))

	for _, category := range categories {
		if !category.Valid() {
			return nil, &UnsupportedCategoryError{Category: category.String()}
		}

		wanted[category] = true
	}

	operators := make([]mutagens.Operator, 0, len(wanted))

	for _, category := range m.AllCategories() {
		if !wanted[category] {
			continue
		}

		op, err := operatorFor(category)
		if err != nil {
			return nil, err
		}

		operators = append(operators, op)
	}

	return &Catalog{operators: operators}, nil
}

// BuildCatalogByName resolves category names before building the catalog.
func BuildCatalogByName(names ...string) (*Catalog, error) {
	categories := make([]m.Category, 0, len(names))

	for _, name := range names {
		category, ok := m.ParseCategory(name)
		if !ok {
			return nil, &UnsupportedCategoryError{Category: name}
		}

		categories = append(categories, category)
	}

	return BuildCatalog(categories...)
}

// operatorFor maps every category to its operator. The exhaustive linter
// guards this switch against categories added without an operator.
func operatorFor(category m.Category) (mutagens.Operator, error) {
	switch category {
	case m.CategoryArithmetic:
		return mutagens.Arithmetic(), nil
	case m.CategoryLogical:
		return mutagens.Logical(), nil
	case m.CategoryRelational:
		return mutagens.Relational(), nil
	case m.CategoryConditional:
		return mutagens.Conditional(), nil
	case m.CategoryLiteral:
		return mutagens.Literal(), nil
	case m.CategoryUnary:
		return mutagens.Unary(), nil
	case m.CategoryStatement:
		return mutagens.Statement(), nil
	}

	return mutagens.Operator{}, &UnsupportedCategoryError{Category: category.String()}
}

// Operators returns a copy of the operators in catalog order.
func (c *Catalog) Operators() []mutagens.Operator {
	return append([]mutagens.Operator(nil), c.operators...)
}

// Categories returns the categories present in the catalog, in order.
func (c *Catalog) Categories() []m.Category {
	categories := make([]m.Category, 0, len(c.operators))
	for _, op := range c.operators {
		categories = append(categories, op.Category())
	}

	return categories
}

// Rank returns the catalog position of a category, or -1 when absent.
func (c *Catalog) Rank(category m.Category) int {
	for i, op := range c.operators {
		if op.Category() == category {
			return i
		}
	}

	return -1
}
