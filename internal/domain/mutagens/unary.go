package mutagens

import (
	m "gooze.dev/pkg/mutest/internal/model"
)

var unarySwaps = map[string][]string{
	"++": {"--"},
	"--": {"++"},
}

// Unary swaps increment and decrement: ++ ↔ --.
func Unary() Operator {
	return NewOperator(m.CategoryUnary, matchUnary, swapRewrite(unarySwaps))
}

func matchUnary(scan *Scan) []Site {
	return tokenSites(scan, func(_ int, tok Token) bool {
		_, ok := unarySwaps[tok.Text]
		return ok && tok.Kind == TokenOperator
	})
}
