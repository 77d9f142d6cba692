package mutagens

import (
	m "gooze.dev/pkg/mutest/internal/model"
)

var relationalSwaps = map[string][]string{
	">":   {"<"},
	"<":   {">"},
	">=":  {"<="},
	"<=":  {">="},
	"==":  {"!="},
	"!=":  {"=="},
	"===": {"!=="},
	"!==": {"==="},
}

// Relational swaps comparison operators: > ↔ <, >= ↔ <=, == ↔ !=, === ↔ !==.
func Relational() Operator {
	return NewOperator(m.CategoryRelational, matchRelational, swapRewrite(relationalSwaps))
}

func matchRelational(scan *Scan) []Site {
	generic := scan.genericAngles()

	return tokenSites(scan, func(i int, tok Token) bool {
		if tok.Kind != TokenOperator || generic[i] {
			return false
		}

		if _, ok := relationalSwaps[tok.Text]; !ok {
			return false
		}

		return scan.isBinary(i)
	})
}

// genericAngles finds the angle brackets of type argument lists such as
// List<String> or Map<K, List<V>>, which are never comparisons.
func (s *Scan) genericAngles() map[int]bool {
	angles := map[int]bool{}

	switch s.Profile.Language {
	case m.LanguageJava, m.LanguageTypeScript, m.LanguageCSharp, m.LanguageCPP:
	default:
		return angles
	}

	for i, tok := range s.Tokens {
		if tok.Kind != TokenOperator || tok.Text != "<" || angles[i] {
			continue
		}

		if closers, ok := s.typeArguments(i); ok {
			angles[i] = true
			for _, c := range closers {
				angles[c] = true
			}
		}
	}

	return angles
}

// typeArguments checks whether the "<" at open starts a type argument list
// and returns the indices of every angle bracket it contains.
func (s *Scan) typeArguments(open int) ([]int, bool) {
	next := s.NextSignificant(open)
	if next < 0 || !isTypeName(s.Tokens[next]) {
		return nil, false
	}

	depth := 1
	angles := []int{}

	for j := open + 1; j < len(s.Tokens); j++ {
		tok := s.Tokens[j]

		switch {
		case tok.Kind == TokenIdent, tok.Kind == TokenNewline:
		case tok.Is(","), tok.Is("."), tok.Is("?"), tok.Is("["), tok.Is("]"), tok.Is("&"):
		case tok.Is("<"):
			depth++
			angles = append(angles, j)
		case tok.Is(">"):
			depth--
			angles = append(angles, j)
		case tok.Is(">>"):
			depth -= 2
			angles = append(angles, j)
		default:
			return nil, false
		}

		if depth <= 0 {
			return angles, depth == 0
		}
	}

	return nil, false
}

func isTypeName(tok Token) bool {
	return tok.Kind == TokenIdent && tok.Text != "" && tok.Text[0] >= 'A' && tok.Text[0] <= 'Z'
}
