package mutagens

import (
	m "gooze.dev/pkg/mutest/internal/model"
)

// Conditional forces each if/while guard to always-true and always-false,
// two mutants per guard.
func Conditional() Operator {
	return NewOperator(m.CategoryConditional, matchGuards, rewriteGuard)
}

func matchGuards(scan *Scan) []Site {
	sites := make([]Site, 0)

	for i, tok := range scan.Tokens {
		if tok.Kind != TokenIdent || !isGuardKeyword(scan.Profile, tok.Text) {
			continue
		}

		first, last, ok := scan.guardBounds(i)
		if !ok {
			continue
		}

		span := scan.spanOf(first, last)
		sites = append(sites, Site{Span: span, Text: scan.text(span), Token: i})
	}

	return sites
}

func isGuardKeyword(profile m.LanguageProfile, word string) bool {
	switch word {
	case "if", "while":
		return true
	case "elif":
		return profile.GuardStyle == m.GuardColon
	case "for":
		return profile.GuardStyle == m.GuardBrace
	}

	return false
}

// guardBounds returns the first and last token of the condition controlled
// by the keyword at kw.
func (s *Scan) guardBounds(kw int) (int, int, bool) {
	switch s.Profile.GuardStyle {
	case m.GuardParens:
		return s.parenGuard(kw)
	case m.GuardBrace:
		return s.braceGuard(kw)
	case m.GuardColon:
		return s.colonGuard(kw)
	}

	return 0, 0, false
}

func (s *Scan) parenGuard(kw int) (int, int, bool) {
	open := s.NextSignificant(kw)
	if open < 0 || !s.Tokens[open].Is("(") {
		return 0, 0, false
	}

	closeIdx := s.Closing(open)
	if closeIdx < 0 {
		return 0, 0, false
	}

	first := s.NextSignificant(open)
	last := s.PrevSignificant(closeIdx)

	if first < 0 || first >= closeIdx || last <= open {
		return 0, 0, false
	}

	return first, last, true
}

// braceGuard handles Go style guards. An init statement is skipped, and for
// loops only qualify when they carry a bare condition.
func (s *Scan) braceGuard(kw int) (int, int, bool) {
	depth := s.Tokens[kw].Depth
	first := s.NextSignificant(kw)
	isFor := s.Tokens[kw].Text == "for"

	for j := first; j >= 0 && j < len(s.Tokens); j++ {
		tok := s.Tokens[j]
		if tok.Depth != depth || tok.Kind == TokenNewline {
			continue
		}

		switch {
		case tok.Is(";"):
			if isFor {
				return 0, 0, false
			}

			first = s.NextSignificant(j)
		case isFor && (tok.Is("range") || tok.Is(":=") || tok.Is("=")):
			return 0, 0, false
		case tok.Is("{"):
			last := s.PrevSignificant(j)
			if first < 0 || first >= j || last < first {
				return 0, 0, false
			}

			return first, last, true
		case tok.Is("}"):
			return 0, 0, false
		}
	}

	return 0, 0, false
}

// colonGuard handles Python style guards; conditional expressions such as
// "a if b else c" are not statements and are left alone.
func (s *Scan) colonGuard(kw int) (int, int, bool) {
	if !s.firstOnLine(kw) {
		return 0, 0, false
	}

	depth := s.Tokens[kw].Depth
	first := s.NextSignificant(kw)

	for j := kw + 1; j < len(s.Tokens); j++ {
		tok := s.Tokens[j]
		if tok.Depth != depth {
			continue
		}

		if tok.Kind == TokenNewline {
			return 0, 0, false
		}

		if tok.Is(":") {
			last := s.PrevSignificant(j)
			if first < 0 || first >= j || last < first {
				return 0, 0, false
			}

			return first, last, true
		}
	}

	return 0, 0, false
}

func rewriteGuard(scan *Scan, _ Site) []Rewrite {
	truthy, falsy := scan.Profile.True, scan.Profile.False

	return []Rewrite{
		{Replacement: truthy, Label: "guard → " + truthy},
		{Replacement: falsy, Label: "guard → " + falsy},
	}
}
