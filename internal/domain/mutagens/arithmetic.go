package mutagens

import (
	m "gooze.dev/pkg/mutest/internal/model"
)

var arithmeticSwaps = map[string][]string{
	"+": {"-"},
	"-": {"+"},
	"*": {"/"},
	"/": {"*", "%"},
	"%": {"/"},
}

// Arithmetic swaps binary arithmetic operators: + ↔ -, * ↔ /, % ↔ /.
func Arithmetic() Operator {
	return NewOperator(m.CategoryArithmetic, matchArithmetic, swapRewrite(arithmeticSwaps))
}

func matchArithmetic(scan *Scan) []Site {
	return tokenSites(scan, func(i int, tok Token) bool {
		if tok.Kind != TokenOperator {
			return false
		}

		if _, ok := arithmeticSwaps[tok.Text]; !ok {
			return false
		}

		return scan.isBinary(i)
	})
}
