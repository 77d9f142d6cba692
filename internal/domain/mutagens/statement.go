package mutagens

import (
	"strings"

	m "gooze.dev/pkg/mutest/internal/model"
)

// Statement replaces the value of a return statement with the language's
// null equivalent: return <expr> → return null.
func Statement() Operator {
	return NewOperator(m.CategoryStatement, matchReturns, rewriteReturn)
}

func matchReturns(scan *Scan) []Site {
	sites := make([]Site, 0)

	for i, tok := range scan.Tokens {
		if tok.Kind != TokenIdent || tok.Text != "return" {
			continue
		}

		first, last, ok := scan.returnValue(i)
		if !ok {
			continue
		}

		span := scan.spanOf(first, last)
		if strings.TrimSpace(scan.text(span)) == scan.Profile.Null {
			continue
		}

		sites = append(sites, Site{Span: span, Text: scan.text(span), Token: i})
	}

	return sites
}

// returnValue returns the first and last token of the expression returned by
// the keyword at kw. The expression ends at a statement terminator, at a
// closing bracket of the enclosing block, or at a line break that does not
// continue the expression.
func (s *Scan) returnValue(kw int) (int, int, bool) {
	depth := s.Tokens[kw].Depth
	first := kw + 1
	last := -1

	for j := first; j < len(s.Tokens); j++ {
		tok := s.Tokens[j]

		if tok.Depth < depth {
			break
		}

		if tok.Depth == depth {
			if tok.Is(";") || tok.Is("}") {
				break
			}

			if tok.Kind == TokenNewline {
				if last < 0 || !continuesLine(s.Tokens[last]) {
					break
				}

				continue
			}
		}

		if tok.Kind != TokenNewline {
			last = j
		}
	}

	if last < 0 {
		return 0, 0, false
	}

	return first, last, true
}

// continuesLine reports whether an expression ending in tok must carry on
// onto the next line.
func continuesLine(tok Token) bool {
	if tok.Kind != TokenOperator {
		return false
	}

	switch tok.Text {
	case ")", "]", "}", "++", "--":
		return false
	}

	return true
}

func rewriteReturn(scan *Scan, _ Site) []Rewrite {
	null := scan.Profile.Null
	return []Rewrite{{Replacement: null, Label: "return <expr> → return " + null}}
}
