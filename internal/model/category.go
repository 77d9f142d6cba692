package model

import (
	"fmt"
	"strings"
)

// Category is the class of syntactic change a mutation operator performs.
type Category int

// Categories in catalog order. The order is load-bearing: it is the primary
// sort key of generated mutants, the tie-break between overlapping operators,
// and the order in which balanced selection hands out remainder slots.
const (
	CategoryArithmetic Category = iota
	CategoryLogical
	CategoryRelational
	CategoryConditional
	CategoryLiteral
	CategoryUnary
	CategoryStatement
)

// AllCategories returns every built-in category in catalog order.
func AllCategories() []Category {
	return []Category{
		CategoryArithmetic,
		CategoryLogical,
		CategoryRelational,
		CategoryConditional,
		CategoryLiteral,
		CategoryUnary,
		CategoryStatement,
	}
}

func (c Category) String() string {
	switch c {
	case CategoryArithmetic:
		return "arithmetic"
	case CategoryLogical:
		return "logical"
	case CategoryRelational:
		return "relational"
	case CategoryConditional:
		return "conditional"
	case CategoryLiteral:
		return "literal"
	case CategoryUnary:
		return "unary"
	case CategoryStatement:
		return "statement"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// Valid reports whether c is one of the built-in categories.
func (c Category) Valid() bool {
	return c >= CategoryArithmetic && c <= CategoryStatement
}

// ParseCategory resolves a category by name, case-insensitively.
func ParseCategory(name string) (Category, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, c := range AllCategories() {
		if c.String() == name {
			return c, true
		}
	}

	return 0, false
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid category %d", int(c))
	}

	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, ok := ParseCategory(string(text))
	if !ok {
		return fmt.Errorf("unknown category %q", string(text))
	}

	*c = parsed

	return nil
}
